package canvas

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ivlev/algoanim/internal/easing"
	"github.com/ivlev/algoanim/internal/geometry"
)

var (
	defaultFontOnce sync.Once
	defaultFont     *text.FontSource
	defaultFontErr  error
)

// goRegular parses the embedded Go Regular face once per process.
func goRegular() (*text.FontSource, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = text.NewFontSource(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// rasterState is the style saved and restored by Save/Restore.
type rasterState struct {
	fill      gg.RGBA
	stroke    gg.RGBA
	alpha     float64
	lineWidth float64
	fontSize  float64
}

// Raster is a pixel surface backed by a gg drawing context.
type Raster struct {
	dc         *gg.Context
	font       *text.FontSource
	faces      map[float64]text.Face
	background gg.RGBA
	log        *slog.Logger

	st    rasterState
	stack []rasterState
}

// RasterOption configures a Raster.
type RasterOption func(*Raster) error

// WithBackground sets the color Clear fills with.
func WithBackground(hex string) RasterOption {
	return func(r *Raster) error {
		r.background = gg.Hex(hex)
		return nil
	}
}

// WithFontFile loads label glyphs from a TrueType/OpenType file instead of
// the built-in Go Regular face.
func WithFontFile(path string) RasterOption {
	return func(r *Raster) error {
		src, err := text.NewFontSourceFromFile(path)
		if err != nil {
			return fmt.Errorf("loading font %s: %w", path, err)
		}
		r.font = src
		return nil
	}
}

// WithLogger routes draw failures to l.
func WithLogger(l *slog.Logger) RasterOption {
	return func(r *Raster) error {
		if l != nil {
			r.log = l
		}
		return nil
	}
}

// NewRaster creates a width x height surface.
func NewRaster(width, height int, opts ...RasterOption) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid raster size %dx%d", width, height)
	}

	r := &Raster{
		dc:         gg.NewContext(width, height),
		faces:      make(map[float64]text.Face),
		background: gg.RGB(0, 0, 0),
		log:        discard,
		st:         defaultRasterState(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	if r.font == nil {
		src, err := goRegular()
		if err != nil {
			return nil, fmt.Errorf("loading default font: %w", err)
		}
		r.font = src
	}
	return r, nil
}

func defaultRasterState() rasterState {
	return rasterState{
		fill:      gg.RGB(0, 0, 0),
		stroke:    gg.RGB(0, 0, 0),
		alpha:     1,
		lineWidth: 1,
		fontSize:  geometry.DefaultFontSize,
	}
}

// Size returns the surface dimensions in pixels.
func (r *Raster) Size() (width, height int) {
	return r.dc.Width(), r.dc.Height()
}

// Clear fills the whole surface with the background color.
func (r *Raster) Clear() {
	r.dc.ClearWithColor(r.background)
}

func (r *Raster) Save() {
	r.stack = append(r.stack, r.st)
	r.dc.Push()
}

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.st = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.dc.Pop()
}

func (r *Raster) SetGlobalAlpha(alpha float64) { r.st.alpha = easing.Clamp01(alpha) }
func (r *Raster) SetFillColor(color string)    { r.st.fill = gg.Hex(color) }
func (r *Raster) SetStrokeColor(color string)  { r.st.stroke = gg.Hex(color) }
func (r *Raster) SetLineWidth(width float64)   { r.st.lineWidth = width }
func (r *Raster) SetFontSize(px float64)       { r.st.fontSize = px }

func (r *Raster) FillRect(x, y, w, h float64) {
	r.useFill()
	r.dc.DrawRectangle(x, y, w, h)
	r.fill("rect")
}

func (r *Raster) FillCircle(cx, cy, radius float64) {
	if radius <= 0 {
		return
	}
	r.useFill()
	r.dc.DrawCircle(cx, cy, radius)
	r.fill("circle")
}

func (r *Raster) StrokeLine(x1, y1, x2, y2 float64) {
	r.useStroke()
	r.dc.SetLineWidth(r.st.lineWidth)
	r.dc.MoveTo(x1, y1)
	r.dc.LineTo(x2, y2)
	if err := r.dc.Stroke(); err != nil {
		r.log.Debug("stroke failed", "error", err)
	}
}

func (r *Raster) FillPolygon(points ...geometry.Point) {
	if len(points) < 3 {
		return
	}
	r.useFill()
	r.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	r.dc.ClosePath()
	r.fill("polygon")
}

func (r *Raster) FillText(s string, x, y float64) {
	if s == "" {
		return
	}
	r.useFill()
	r.dc.SetFont(r.face(r.st.fontSize))
	r.dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
}

// DrawImage copies img onto the surface with its top-left corner at (x, y),
// using the current global alpha.
func (r *Raster) DrawImage(img image.Image, x, y float64) {
	r.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             x,
		Y:             y,
		Interpolation: gg.InterpBilinear,
		Opacity:       r.st.alpha,
		BlendMode:     gg.BlendNormal,
	})
}

// Image returns the rendered pixels.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the surface as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// SavePNG writes the surface to a PNG file.
func (r *Raster) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

// Close releases the drawing context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

func (r *Raster) face(size float64) text.Face {
	if size <= 0 {
		size = geometry.DefaultFontSize
	}
	f, ok := r.faces[size]
	if !ok {
		f = r.font.Face(size)
		r.faces[size] = f
	}
	return f
}

func (r *Raster) useFill() {
	c := r.st.fill
	r.dc.SetRGBA(c.R, c.G, c.B, c.A*r.st.alpha)
}

func (r *Raster) useStroke() {
	c := r.st.stroke
	r.dc.SetRGBA(c.R, c.G, c.B, c.A*r.st.alpha)
}

func (r *Raster) fill(shape string) {
	if err := r.dc.Fill(); err != nil {
		r.log.Debug("fill failed", "shape", shape, "error", err)
	}
}
