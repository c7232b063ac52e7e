package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/algoanim/internal/canvas"
	"github.com/ivlev/algoanim/internal/clock"
	"github.com/ivlev/algoanim/internal/easing"
	"github.com/ivlev/algoanim/internal/player"
	"github.com/ivlev/algoanim/internal/renderer"
	"github.com/ivlev/algoanim/internal/scene"
	"github.com/ivlev/algoanim/internal/storyboard"
	"github.com/ivlev/algoanim/internal/system"
)

func (a *app) newRaster() (*canvas.Raster, error) {
	opts := []canvas.RasterOption{
		canvas.WithBackground(a.cfg.Canvas.Background),
		canvas.WithLogger(a.log),
	}
	if a.cfg.Canvas.FontPath != "" {
		opts = append(opts, canvas.WithFontFile(a.cfg.Canvas.FontPath))
	}
	return canvas.NewRaster(a.cfg.Canvas.Width, a.cfg.Canvas.Height, opts...)
}

// renderFlags tune how frames are drawn.
type renderFlags struct {
	easing string
}

func (f *renderFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.easing, "easing", "", "move and scale curve: "+strings.Join(easing.Names, ", ")+" (default from config)")
}

func (a *app) newRenderer(f *renderFlags) (*renderer.Renderer, error) {
	if f.easing != "" {
		a.cfg.Playback.Easing = f.easing
	}
	ease, err := easing.ByName(a.cfg.Playback.Easing)
	if err != nil {
		return nil, err
	}
	return renderer.New(renderer.WithEasing(ease), renderer.WithLogger(a.log)), nil
}

func (a *app) play(fs *flag.FlagSet, args []string) error {
	var common commonFlags
	var rf renderFlags
	common.register(fs)
	rf.register(fs)
	speed := fs.Float64("speed", 0, "playback speed, 0.25 to 2 in 0.25 steps (default from config)")
	fps := fs.Int("fps", 0, "frame rate (default from config)")
	runFor := fs.Duration("for", 0, "stop after this long (0 runs until interrupted)")
	snapshot := fs.String("snapshot", "", "write the last drawn frame to this PNG on exit")
	controls := fs.Bool("controls", false, "read commands from stdin: p(ause) r(estart) s <speed> g <scene> q(uit)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, path, err := a.setup(&common)
	if err != nil {
		return err
	}
	if *speed != 0 {
		a.cfg.Playback.Speed = *speed
	}
	if *fps != 0 {
		a.cfg.Playback.FPS = *fps
	}
	for _, is := range scene.Validate(deck.Scenes) {
		a.log.Warn("deck issue", "issue", is.String())
	}

	r, err := a.newRenderer(&rf)
	if err != nil {
		return err
	}
	raster, err := a.newRaster()
	if err != nil {
		return err
	}
	defer raster.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *runFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *runFor)
		defer cancel()
	}

	loop := clock.NewLoop(a.cfg.Playback.FPS, clock.WithLogger(a.log))
	frames := 0
	sink := player.SinkFunc(func(f player.Frame) {
		r.RenderFrame(raster, f.Scene, f.Progress)
		frames++
	})
	p := player.New(deck.Scenes, loop, sink,
		player.WithSpeed(a.cfg.Playback.Speed),
		player.WithInterSceneDelay(a.cfg.Playback.InterSceneDelay),
		player.WithLogger(a.log),
		player.WithSceneChange(func(f player.Frame) {
			fmt.Fprintln(a.stdout, progressLine(f.Index, f.Count))
		}),
	)
	if err := p.SetSpeed(a.cfg.Playback.Speed); err != nil {
		return err
	}

	fmt.Fprintf(a.stderr, "[*] Playing %s: %d scenes, %dx%d @ %d FPS, speed x%.2f\n",
		filepath.Base(path), len(deck.Scenes), a.cfg.Canvas.Width, a.cfg.Canvas.Height,
		a.cfg.Playback.FPS, a.cfg.Playback.Speed)

	ctx, quit := context.WithCancel(ctx)
	defer quit()
	if *controls {
		go a.readControls(ctx, loop, p, quit)
	}

	start := time.Now()
	_ = loop.Post(func() {
		if a.cfg.Playback.Autoplay {
			p.Play()
		} else {
			_ = p.Seek(0, 0)
		}
	})
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	p.Stop()

	st := p.Snapshot()
	a.log.Info("playback finished", "frames", frames, "elapsed", time.Since(start).Round(time.Millisecond), "scene", st.SceneIndex)

	if *snapshot != "" {
		if err := raster.SavePNG(*snapshot); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}
		fmt.Fprintf(a.stderr, "[+] Snapshot: %s\n", *snapshot)
	}
	return nil
}

// readControls turns stdin lines into player calls on the loop goroutine.
func (a *app) readControls(ctx context.Context, loop *clock.Loop, p *player.Player, quit context.CancelFunc) {
	sc := bufio.NewScanner(a.stdin)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		var arg string
		if len(fields) > 1 {
			arg = fields[1]
		}
		var fn func()
		switch fields[0] {
		case "p", "pause", "play":
			fn = p.Toggle
		case "r", "restart":
			fn = p.Restart
		case "s", "speed":
			v, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				fmt.Fprintf(a.stderr, "[!] speed needs a number, one of %v\n", player.SpeedSteps())
				continue
			}
			fn = func() {
				if err := p.SetSpeed(v); err != nil {
					fmt.Fprintf(a.stderr, "[!] %v\n", err)
				}
			}
		case "g", "goto":
			n, err := strconv.Atoi(arg)
			if err != nil {
				fmt.Fprintln(a.stderr, "[!] goto needs a scene number")
				continue
			}
			fn = func() {
				if err := p.Seek(n-1, 0); err != nil {
					fmt.Fprintf(a.stderr, "[!] %v\n", err)
				}
			}
		case "q", "quit":
			quit()
			return
		default:
			fmt.Fprintf(a.stderr, "[!] unknown control %q\n", fields[0])
			continue
		}
		if err := loop.Post(fn); err != nil {
			return
		}
	}
}

// frameFlags select one scene and progress.
type frameFlags struct {
	sceneIndex int
	progress   float64
}

func (f *frameFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&f.sceneIndex, "scene", 0, "scene index, 0-based")
	fs.Float64Var(&f.progress, "progress", 1, "progress within the scene, 0 to 1")
}

func (a *app) frame(fs *flag.FlagSet, args []string) error {
	var common commonFlags
	var ff frameFlags
	var rf renderFlags
	common.register(fs)
	ff.register(fs)
	rf.register(fs)
	out := fs.String("out", "frame.png", "output PNG")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, _, err := a.setup(&common)
	if err != nil {
		return err
	}
	r, err := a.newRenderer(&rf)
	if err != nil {
		return err
	}
	raster, err := a.newRaster()
	if err != nil {
		return err
	}
	defer raster.Close()

	p := player.New(deck.Scenes, nil, player.SinkFunc(func(f player.Frame) {
		r.RenderFrame(raster, f.Scene, f.Progress)
	}), player.WithLogger(a.log))
	if err := p.Seek(ff.sceneIndex, ff.progress); err != nil {
		return err
	}

	if err := raster.SavePNG(*out); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	st := p.Snapshot()
	fmt.Fprintf(a.stdout, "%s @ %.3f -> %s\n", progressLine(st.SceneIndex, st.SceneCount), st.Progress, *out)
	return nil
}

func (a *app) trace(fs *flag.FlagSet, args []string) error {
	var common commonFlags
	var ff frameFlags
	var rf renderFlags
	common.register(fs)
	ff.register(fs)
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, _, err := a.setup(&common)
	if err != nil {
		return err
	}

	r, err := a.newRenderer(&rf)
	if err != nil {
		return err
	}
	rec := canvas.NewRecorder()
	p := player.New(deck.Scenes, nil, player.SinkFunc(func(f player.Frame) {
		r.RenderFrame(rec, f.Scene, f.Progress)
	}))
	if err := p.Seek(ff.sceneIndex, ff.progress); err != nil {
		return err
	}

	for _, c := range rec.Calls {
		fmt.Fprintln(a.stdout, c)
	}
	return nil
}

func (a *app) storyboard(fs *flag.FlagSet, args []string) error {
	var common commonFlags
	var rf renderFlags
	common.register(fs)
	rf.register(fs)
	out := fs.String("out", "storyboard.png", "output PNG")
	samples := fs.Int("samples", 0, "frames per scene (default from config)")
	columns := fs.Int("columns", 0, "tiles per row (default from config)")
	workers := fs.Int("workers", 0, "parallel renderers (default from config)")
	stats := fs.Bool("stats", false, "print a performance report and append it to benchmark.log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, path, err := a.setup(&common)
	if err != nil {
		return err
	}
	if *samples > 0 {
		a.cfg.Storyboard.Samples = *samples
	}
	if *columns > 0 {
		a.cfg.Storyboard.Columns = *columns
	}
	if *workers > 0 {
		a.cfg.Storyboard.Workers = *workers
	}
	if *stats {
		a.cfg.ShowStats = true
	}
	r, err := a.newRenderer(&rf)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	b := &storyboard.Builder{
		Canvas:     a.cfg.Canvas,
		Storyboard: a.cfg.Storyboard,
		Renderer:   r,
		Log:        a.log,
	}
	fmt.Fprintf(a.stderr, "[*] Rendering %d scenes x %d samples with %d workers\n",
		len(deck.Scenes), a.cfg.Storyboard.Samples, a.cfg.Storyboard.Workers)
	sheet, err := b.Build(ctx, deck.Scenes)
	if err != nil {
		return err
	}
	defer sheet.Close()

	if err := sheet.SavePNG(*out); err != nil {
		return fmt.Errorf("writing storyboard: %w", err)
	}

	if a.cfg.ShowStats {
		host, err := system.CollectHostStats(ctx)
		if err != nil {
			a.log.Debug("host stats incomplete", "error", err)
		}
		report := system.Report{
			Build:   a.cfg.BuildVersion,
			Input:   filepath.Base(path),
			Frames:  len(sheet.Samples),
			Total:   time.Since(start),
			Render:  sheet.RenderTime,
			Compose: sheet.ComposeTime,
			Host:    host,
		}
		report.Print(a.stdout)
		if err := report.AppendBenchmarkLog("benchmark.log", time.Now()); err != nil {
			fmt.Fprintf(a.stderr, "[!] Could not write benchmark.log: %v\n", err)
		}
	}

	fmt.Fprintf(a.stdout, "[+++] Done! Storyboard: %s\n", *out)
	return nil
}

func (a *app) validate(fs *flag.FlagSet, args []string) error {
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, path, err := a.setup(&common)
	if err != nil {
		return err
	}

	issues := scene.Validate(deck.Scenes)
	for _, is := range issues {
		fmt.Fprintln(a.stdout, is)
	}
	if scene.HasErrors(issues) {
		fmt.Fprintf(a.stderr, "[-] %s: %d issues\n", path, len(issues))
		return errIssues
	}
	fmt.Fprintf(a.stdout, "%s: %d scenes, %d warnings\n", filepath.Base(path), len(deck.Scenes), len(issues))
	return nil
}

func (a *app) inspect(fs *flag.FlagSet, args []string) error {
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deck, _, err := a.setup(&common)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(deck)
}
