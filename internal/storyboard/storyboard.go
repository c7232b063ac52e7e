// Package storyboard renders a contact sheet: every scene of a deck sampled
// at evenly spaced progress values, laid out as captioned tiles on one image.
package storyboard

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/algoanim/internal/canvas"
	"github.com/ivlev/algoanim/internal/config"
	"github.com/ivlev/algoanim/internal/renderer"
	"github.com/ivlev/algoanim/internal/scene"
	"github.com/ivlev/algoanim/internal/system"
)

const (
	padding       = 8
	captionHeight = 22
	captionColor  = "#e2e8f0"
)

// Sample is one frame to put on the sheet.
type Sample struct {
	Scene    int
	Progress float64
}

func (s Sample) Caption(sceneID int) string {
	return fmt.Sprintf("#%d scene %d @ %.0f%%", s.Scene+1, sceneID, s.Progress*100)
}

// Samples lists n evenly spaced progress values per scene, from 0 to 1
// inclusive. A single sample shows the scene's end state.
func Samples(sceneCount, n int) []Sample {
	if n < 1 {
		n = 1
	}
	out := make([]Sample, 0, sceneCount*n)
	for i := range sceneCount {
		for k := range n {
			p := 1.0
			if n > 1 {
				p = float64(k) / float64(n-1)
			}
			out = append(out, Sample{Scene: i, Progress: p})
		}
	}
	return out
}

// Builder renders sheets.
type Builder struct {
	Canvas     config.CanvasConfig
	Storyboard config.StoryboardConfig
	Renderer   *renderer.Renderer
	Log        *slog.Logger
}

// Sheet is a finished contact sheet.
type Sheet struct {
	*canvas.Raster
	Samples     []Sample
	RenderTime  time.Duration
	ComposeTime time.Duration
}

// TileSize is the scaled size of one frame, keeping the canvas aspect ratio.
func (b *Builder) TileSize() (w, h int) {
	w = b.Storyboard.TileWidth
	h = max(1, w*b.Canvas.Height/b.Canvas.Width)
	return w, h
}

// Build renders every sample with up to Storyboard.Workers goroutines and
// composes the sheet. The caller closes the returned sheet.
func (b *Builder) Build(ctx context.Context, scenes []scene.Scene) (*Sheet, error) {
	if len(scenes) == 0 {
		return nil, scene.ErrEmptyDeck
	}
	log := b.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	r := b.Renderer
	if r == nil {
		r = renderer.New(renderer.WithLogger(log))
	}

	samples := Samples(len(scenes), b.Storyboard.Samples)
	tw, th := b.TileSize()
	tiles := make([]*image.RGBA, len(samples))
	defer func() {
		for _, t := range tiles {
			system.PutImage(t)
		}
	}()

	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.Storyboard.Workers))
	for i, s := range samples {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tile, err := b.renderTile(r, &scenes[s.Scene], s.Progress, image.Rect(0, 0, tw, th))
			if err != nil {
				return fmt.Errorf("rendering scene %d at %.2f: %w", s.Scene, s.Progress, err)
			}
			tiles[i] = tile
			log.Debug("tile rendered", "scene", s.Scene, "progress", s.Progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	renderTime := time.Since(renderStart)

	composeStart := time.Now()
	sheet, err := b.compose(scenes, samples, tiles, tw, th)
	if err != nil {
		return nil, err
	}

	return &Sheet{
		Raster:      sheet,
		Samples:     samples,
		RenderTime:  renderTime,
		ComposeTime: time.Since(composeStart),
	}, nil
}

// renderTile draws one frame at canvas size and downsamples it into a
// pooled buffer.
func (b *Builder) renderTile(r *renderer.Renderer, sc *scene.Scene, progress float64, bounds image.Rectangle) (*image.RGBA, error) {
	frame, err := canvas.NewRaster(b.Canvas.Width, b.Canvas.Height, b.rasterOptions()...)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	r.RenderFrame(frame, sc, progress)

	src := frame.Image()
	tile := system.GetImage(bounds)
	xdraw.ApproxBiLinear.Scale(tile, tile.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return tile, nil
}

func (b *Builder) compose(scenes []scene.Scene, samples []Sample, tiles []*image.RGBA, tw, th int) (*canvas.Raster, error) {
	cols := max(1, min(b.Storyboard.Columns, len(samples)))
	rows := (len(samples) + cols - 1) / cols
	cellW, cellH := tw+padding, th+captionHeight+padding

	sheet, err := canvas.NewRaster(cols*cellW+padding, rows*cellH+padding, b.rasterOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	sheet.Clear()
	sheet.SetFillColor(captionColor)
	sheet.SetFontSize(12)

	for i, s := range samples {
		x := float64(padding + (i%cols)*cellW)
		y := float64(padding + (i/cols)*cellH)
		sheet.DrawImage(tiles[i], x, y)
		sheet.FillText(s.Caption(scenes[s.Scene].ID), x+float64(tw)/2, y+float64(th)+captionHeight/2)
	}
	return sheet, nil
}

func (b *Builder) rasterOptions() []canvas.RasterOption {
	opts := []canvas.RasterOption{canvas.WithBackground(b.Canvas.Background)}
	if b.Canvas.FontPath != "" {
		opts = append(opts, canvas.WithFontFile(b.Canvas.FontPath))
	}
	if b.Log != nil {
		opts = append(opts, canvas.WithLogger(b.Log))
	}
	return opts
}
