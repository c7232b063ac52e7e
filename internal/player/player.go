// Package player sequences scenes in time. It owns the playback state, asks
// the scheduler for frames while a scene runs, waits out the inter-scene gap
// and wraps around after the last scene.
//
// Elapsed scene time is accumulated tick by tick, already multiplied by the
// speed in effect, rather than derived from a start timestamp. Pausing
// therefore keeps the displayed progress, and a speed change only affects
// time that passes after it.
package player

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ivlev/algoanim/internal/clock"
	"github.com/ivlev/algoanim/internal/renderer"
	"github.com/ivlev/algoanim/internal/scene"
)

// DefaultInterSceneDelay is the pause between the end of one scene and the
// start of the next.
const DefaultInterSceneDelay = 500 * time.Millisecond

// Phase is where the driver is within the scene cycle.
type Phase int

const (
	Idle Phase = iota
	Playing
	Between
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Between:
		return "between"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a point-in-time view of playback.
type State struct {
	SceneIndex int
	SceneCount int
	Progress   float64
	Elapsed    time.Duration // scene time, speed applied
	GapElapsed time.Duration // real time spent in the current gap
	Speed      float64
	Running    bool
	Phase      Phase
}

// Frame is handed to the sink each time the current scene must be drawn.
type Frame struct {
	Index    int
	Count    int
	Scene    *scene.Scene
	Progress float64
}

// Sink draws frames. The player never calls it concurrently.
type Sink interface {
	DrawFrame(f Frame)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(f Frame)

func (fn SinkFunc) DrawFrame(f Frame) { fn(f) }

// Option configures a Player.
type Option func(*Player)

// WithSpeed sets the initial speed. Invalid values are ignored.
func WithSpeed(speed float64) Option {
	return func(p *Player) {
		if validSpeed(speed) {
			p.speed = speed
		}
	}
}

// WithInterSceneDelay overrides the gap between scenes. Negative values are
// treated as zero.
func WithInterSceneDelay(d time.Duration) Option {
	return func(p *Player) {
		p.delay = max(d, 0)
	}
}

// WithSceneChange registers fn to run whenever a scene starts.
func WithSceneChange(fn func(f Frame)) Option {
	return func(p *Player) {
		p.onScene = fn
	}
}

// WithLogger sets the player logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.log = l
		}
	}
}

// Player is the playback driver.
type Player struct {
	sched   clock.Scheduler
	sink    Sink
	delay   time.Duration
	onScene func(f Frame)
	log     *slog.Logger

	mu         sync.Mutex
	scenes     []scene.Scene
	index      int
	elapsed    time.Duration
	gapElapsed time.Duration
	speed      float64
	running    bool
	phase      Phase
	last       time.Time
	frame      *clock.Handle
	gap        *clock.Handle
}

// New creates an idle player. A player with no scenes or no sink stays idle
// when asked to play.
func New(scenes []scene.Scene, sched clock.Scheduler, sink Sink, opts ...Option) *Player {
	p := &Player{
		sched:  sched,
		sink:   sink,
		delay:  DefaultInterSceneDelay,
		log:    slog.New(slog.DiscardHandler),
		scenes: scenes,
		speed:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SpeedSteps lists the speeds offered to users.
func SpeedSteps() []float64 {
	return []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}
}

// emit is work collected under the lock and run after it is released, so
// sinks and callbacks may call back into the player.
type emit struct {
	frame   *Frame
	started bool
}

func (p *Player) flush(e emit) {
	if e.frame == nil {
		return
	}
	if e.started && p.onScene != nil {
		p.onScene(*e.frame)
	}
	p.sink.DrawFrame(*e.frame)
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	if len(p.scenes) == 0 || p.sink == nil || p.sched == nil {
		p.log.Debug("nothing to play", "scenes", len(p.scenes), "sink", p.sink != nil)
		p.mu.Unlock()
		return
	}

	p.running = true
	p.last = p.sched.Now()
	var e emit
	switch p.phase {
	case Idle:
		p.phase = Playing
		e = emit{frame: p.continueScene(), started: true}
	case Playing:
		e = emit{frame: p.continueScene()}
	case Between:
		p.scheduleGap()
	}
	p.log.Debug("playback started", "scene", p.index, "phase", p.phase)
	p.mu.Unlock()

	p.flush(e)
}

// Pause stops scheduling; progress and any partial gap are kept.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.accrue(p.sched.Now())
	p.running = false
	p.cancelPending()
	p.log.Debug("playback paused", "scene", p.index, "elapsed", p.elapsed)
}

// Toggle pauses a running player and resumes a paused one.
func (p *Player) Toggle() {
	p.mu.Lock()
	running := p.running
	p.mu.Unlock()
	if running {
		p.Pause()
	} else {
		p.Play()
	}
}

// Restart discards progress and plays from the first scene.
func (p *Player) Restart() {
	p.mu.Lock()
	p.cancelPending()
	p.index, p.elapsed, p.gapElapsed = 0, 0, 0
	p.phase = Idle
	p.running = false
	p.mu.Unlock()

	p.Play()
}

// Stop cancels scheduled work and rewinds to the first scene without drawing.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelPending()
	p.index, p.elapsed, p.gapElapsed = 0, 0, 0
	p.phase = Idle
	p.running = false
}

// SetSpeed changes the playback rate. Time already played keeps the old
// rate; only time after the call uses the new one.
func (p *Player) SetSpeed(speed float64) error {
	if !validSpeed(speed) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.accrue(p.sched.Now())
	}
	p.speed = speed
	return nil
}

// Seek jumps to scene index at progress and draws it once. A running player
// keeps playing from there; a gap in progress is abandoned.
func (p *Player) Seek(index int, progress float64) error {
	p.mu.Lock()
	if index < 0 || index >= len(p.scenes) {
		n := len(p.scenes)
		p.mu.Unlock()
		return fmt.Errorf("%w: %d of %d", ErrSceneOutOfRange, index, n)
	}

	p.cancelPending()
	started := index != p.index || p.phase != Playing
	p.index = index
	p.elapsed = sceneTime(&p.scenes[index], progress)
	p.gapElapsed = 0
	p.phase = Playing

	var f *Frame
	if p.running {
		p.last = p.sched.Now()
		f = p.continueScene()
	} else {
		f = p.currentFrame()
	}
	var e emit
	if p.sink != nil {
		e = emit{frame: f, started: started}
	}
	p.mu.Unlock()

	p.flush(e)
	return nil
}

// Load replaces the scene list and rewinds. A running player starts the new
// list immediately.
func (p *Player) Load(scenes []scene.Scene) {
	p.mu.Lock()
	wasRunning := p.running
	p.cancelPending()
	p.scenes = scenes
	p.index, p.elapsed, p.gapElapsed = 0, 0, 0
	p.phase = Idle
	p.running = false
	p.mu.Unlock()

	if wasRunning {
		p.Play()
	}
}

// Snapshot reports the state as of now without changing it.
func (p *Player) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed, gap := p.elapsed, p.gapElapsed
	if p.running && p.sched != nil {
		d := max(p.sched.Now().Sub(p.last), 0)
		switch p.phase {
		case Playing:
			elapsed += scaled(d, p.speed)
		case Between:
			gap += d
		}
	}

	st := State{
		SceneIndex: p.index,
		SceneCount: len(p.scenes),
		Elapsed:    elapsed,
		GapElapsed: gap,
		Speed:      p.speed,
		Running:    p.running,
		Phase:      p.phase,
	}
	if len(p.scenes) > 0 {
		st.Progress = progressOf(&p.scenes[p.index], elapsed)
		if p.phase == Between {
			st.Progress = 1
		}
	}
	return st
}

func (p *Player) tick(now time.Time) {
	p.mu.Lock()
	p.frame = nil
	if !p.running || p.phase != Playing {
		p.mu.Unlock()
		return
	}
	p.accrue(now)
	f := p.continueScene()
	p.mu.Unlock()

	p.flush(emit{frame: f})
}

func (p *Player) advance(now time.Time) {
	p.mu.Lock()
	p.gap = nil
	if !p.running || p.phase != Between {
		p.mu.Unlock()
		return
	}

	p.index = (p.index + 1) % len(p.scenes)
	p.elapsed, p.gapElapsed = 0, 0
	p.last = now
	p.phase = Playing
	f := p.continueScene()
	p.log.Debug("scene started", "scene", p.index, "of", len(p.scenes))
	p.mu.Unlock()

	p.flush(emit{frame: f, started: true})
}

// continueScene returns the frame for the current scene time and schedules
// what follows it: another frame, or the gap once the scene is complete.
func (p *Player) continueScene() *Frame {
	f := p.currentFrame()
	if f.Progress < 1 {
		p.requestFrame()
		return f
	}
	p.phase = Between
	p.gapElapsed = 0
	p.scheduleGap()
	p.log.Debug("scene finished", "scene", p.index, "gap", p.delay)
	return f
}

// accrue folds real time since the last reading into the state.
func (p *Player) accrue(now time.Time) {
	d := max(now.Sub(p.last), 0)
	p.last = now
	if !p.running {
		return
	}
	switch p.phase {
	case Playing:
		p.elapsed += scaled(d, p.speed)
	case Between:
		p.gapElapsed += d
	}
}

func (p *Player) requestFrame() {
	p.frame.Cancel()
	p.frame = p.sched.RequestFrame(p.tick)
}

func (p *Player) scheduleGap() {
	p.gap.Cancel()
	p.gap = p.sched.After(max(p.delay-p.gapElapsed, 0), p.advance)
}

func (p *Player) cancelPending() {
	p.frame.Cancel()
	p.gap.Cancel()
	p.frame, p.gap = nil, nil
}

func (p *Player) currentFrame() *Frame {
	sc := &p.scenes[p.index]
	return &Frame{
		Index:    p.index,
		Count:    len(p.scenes),
		Scene:    sc,
		Progress: progressOf(sc, p.elapsed),
	}
}

func progressOf(sc *scene.Scene, elapsed time.Duration) float64 {
	return renderer.Progress(float64(elapsed), float64(sc.Length()))
}

func sceneTime(sc *scene.Scene, progress float64) time.Duration {
	if math.IsNaN(progress) || progress < 0 {
		progress = 0
	}
	return time.Duration(math.Min(progress, 1) * float64(sc.Length()))
}

func scaled(d time.Duration, speed float64) time.Duration {
	return time.Duration(float64(d) * speed)
}

func validSpeed(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}
