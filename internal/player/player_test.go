package player

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ivlev/algoanim/internal/clock"
	"github.com/ivlev/algoanim/internal/scene"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const frame = 10 * time.Millisecond

type frameLog struct {
	frames []Frame
}

func (l *frameLog) DrawFrame(f Frame) { l.frames = append(l.frames, f) }

func (l *frameLog) last() Frame {
	if len(l.frames) == 0 {
		return Frame{Index: -1}
	}
	return l.frames[len(l.frames)-1]
}

func scenes(durations ...int) []scene.Scene {
	out := make([]scene.Scene, len(durations))
	for i, d := range durations {
		out[i] = scene.Scene{
			ID:       i + 1,
			Duration: d,
			Objects:  []scene.Object{&scene.Rect{ID: 1, X: 10, Y: 10, Width: 5, Height: 5}},
			Actions:  []scene.Action{&scene.Move{ObjectID: 1, ToX: 100, ToY: 10}},
		}
	}
	return out
}

func setup(t *testing.T, durations []int, opts ...Option) (*Player, *clock.Manual, *frameLog) {
	t.Helper()
	m := clock.NewManual(epoch, frame)
	log := &frameLog{}
	return New(scenes(durations...), m, log, opts...), m, log
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSceneSequencing(t *testing.T) {
	p, m, log := setup(t, []int{1000, 1000, 1000})
	p.Play()

	if f := log.last(); f.Index != 0 || f.Progress != 0 {
		t.Fatalf("first frame = %+v, want scene 0 at progress 0", f)
	}

	m.Advance(1200 * time.Millisecond)
	st := p.Snapshot()
	if st.Phase != Between || st.SceneIndex != 0 {
		t.Errorf("at 1200ms: phase=%v scene=%d, want between after scene 0", st.Phase, st.SceneIndex)
	}
	if st.GapElapsed != 200*time.Millisecond {
		t.Errorf("at 1200ms: gap elapsed %v, want 200ms", st.GapElapsed)
	}

	m.Advance(400 * time.Millisecond)
	st = p.Snapshot()
	if st.Phase != Playing || st.SceneIndex != 1 || !approx(st.Progress, 0.1) {
		t.Errorf("at 1600ms: %+v, want scene 1 at progress 0.1", st)
	}
	if f := log.last(); f.Index != 1 || !approx(f.Progress, 0.1) {
		t.Errorf("at 1600ms: last frame %+v, want scene 1 at 0.1", f)
	}

	m.Advance(2899 * time.Millisecond) // t=4499
	if st := p.Snapshot(); st.SceneIndex != 2 || st.Phase != Between {
		t.Errorf("at 4499ms: %+v, want gap after scene 2", st)
	}

	m.Advance(time.Millisecond) // t=4500
	if st := p.Snapshot(); st.SceneIndex != 0 || st.Phase != Playing || st.Progress != 0 {
		t.Errorf("at 4500ms: %+v, want scene 0 restarted", st)
	}
}

func TestProgressMonotonicWithinScene(t *testing.T) {
	p, m, log := setup(t, []int{700})
	p.Play()
	m.Advance(700 * time.Millisecond)

	prev := -1.0
	for _, f := range log.frames {
		if f.Progress < prev {
			t.Fatalf("progress went backwards: %v after %v", f.Progress, prev)
		}
		if f.Progress < 0 || f.Progress > 1 {
			t.Fatalf("progress %v out of range", f.Progress)
		}
		prev = f.Progress
	}
	if prev != 1 {
		t.Errorf("final progress = %v, want 1", prev)
	}
}

func TestSpeedChangeMidScene(t *testing.T) {
	p, m, log := setup(t, []int{2000})
	p.Play()

	m.Advance(1000 * time.Millisecond)
	if st := p.Snapshot(); !approx(st.Progress, 0.5) {
		t.Fatalf("progress at 1000ms = %v, want 0.5", st.Progress)
	}

	if err := p.SetSpeed(2); err != nil {
		t.Fatalf("SetSpeed(2) = %v", err)
	}
	if st := p.Snapshot(); !approx(st.Progress, 0.5) {
		t.Errorf("progress right after speed change = %v, want 0.5", st.Progress)
	}

	m.Advance(250 * time.Millisecond)
	if st := p.Snapshot(); !approx(st.Progress, 0.75) {
		t.Errorf("progress 250ms after speed change = %v, want 0.75", st.Progress)
	}

	m.Advance(240 * time.Millisecond)
	if st := p.Snapshot(); st.Progress >= 1 || st.Phase != Playing {
		t.Errorf("at +490ms: %+v, want still playing below 1", st)
	}

	m.Advance(10 * time.Millisecond)
	if f := log.last(); f.Progress != 1 {
		t.Errorf("progress at +500ms = %v, want 1", f.Progress)
	}
	if st := p.Snapshot(); st.Phase != Between {
		t.Errorf("phase at +500ms = %v, want between", st.Phase)
	}
}

func TestSlowSpeed(t *testing.T) {
	p, m, _ := setup(t, []int{1000}, WithSpeed(0.25))
	p.Play()
	m.Advance(1000 * time.Millisecond)
	if st := p.Snapshot(); !approx(st.Progress, 0.25) {
		t.Errorf("progress at 0.25x after 1s = %v, want 0.25", st.Progress)
	}
}

func TestSetSpeedRejectsInvalid(t *testing.T) {
	p, _, _ := setup(t, []int{1000})
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := p.SetSpeed(s); !errors.Is(err, ErrInvalidSpeed) {
			t.Errorf("SetSpeed(%v) = %v, want ErrInvalidSpeed", s, err)
		}
	}
	if st := p.Snapshot(); st.Speed != 1 {
		t.Errorf("speed after rejected changes = %v, want 1", st.Speed)
	}
}

func TestPauseResume(t *testing.T) {
	p, m, log := setup(t, []int{1000})
	p.Play()
	m.Advance(300 * time.Millisecond)
	p.Pause()

	drawn := len(log.frames)
	m.Advance(5 * time.Second)
	if len(log.frames) != drawn {
		t.Errorf("paused player drew %d more frames", len(log.frames)-drawn)
	}
	if m.Pending() != 0 {
		t.Errorf("paused player left %d callbacks pending", m.Pending())
	}
	if st := p.Snapshot(); !approx(st.Progress, 0.3) || st.Running {
		t.Errorf("paused state = %+v, want progress 0.3 not running", st)
	}

	p.Play()
	if f := log.last(); !approx(f.Progress, 0.3) {
		t.Errorf("resume redrew at %v, want 0.3", f.Progress)
	}
	m.Advance(200 * time.Millisecond)
	if st := p.Snapshot(); !approx(st.Progress, 0.5) {
		t.Errorf("progress 200ms after resume = %v, want 0.5", st.Progress)
	}
}

func TestPauseDuringGapKeepsRemainder(t *testing.T) {
	p, m, _ := setup(t, []int{1000, 1000})
	p.Play()
	m.Advance(1300 * time.Millisecond)
	p.Pause()
	m.Advance(time.Minute)

	p.Toggle()
	m.Advance(199 * time.Millisecond)
	if st := p.Snapshot(); st.Phase != Between || st.SceneIndex != 0 {
		t.Errorf("199ms after resume: %+v, want still in gap", st)
	}
	m.Advance(time.Millisecond)
	if st := p.Snapshot(); st.Phase != Playing || st.SceneIndex != 1 {
		t.Errorf("200ms after resume: %+v, want scene 1", st)
	}
}

func TestToggle(t *testing.T) {
	p, _, _ := setup(t, []int{1000})
	p.Toggle()
	if !p.Snapshot().Running {
		t.Error("Toggle() on idle player did not start it")
	}
	p.Toggle()
	if p.Snapshot().Running {
		t.Error("second Toggle() did not pause")
	}
}

func TestRestart(t *testing.T) {
	var started []int
	p, m, _ := setup(t, []int{1000, 1000}, WithSceneChange(func(f Frame) {
		started = append(started, f.Index)
	}))
	p.Play()
	m.Advance(1700 * time.Millisecond)

	p.Restart()
	st := p.Snapshot()
	if st.SceneIndex != 0 || st.Progress != 0 || !st.Running || st.Phase != Playing {
		t.Errorf("after restart: %+v, want scene 0 playing from 0", st)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending() = %d after restart, want exactly one frame", m.Pending())
	}

	want := []int{0, 1, 0}
	if len(started) != len(want) {
		t.Fatalf("scene starts = %v, want %v", started, want)
	}
	for i := range want {
		if started[i] != want[i] {
			t.Errorf("scene starts = %v, want %v", started, want)
			break
		}
	}
}

func TestZeroDurationScene(t *testing.T) {
	p, m, log := setup(t, []int{0, 1000})
	p.Play()

	if f := log.last(); f.Progress != 1 {
		t.Errorf("zero-duration first frame progress = %v, want 1", f.Progress)
	}
	if st := p.Snapshot(); st.Phase != Between {
		t.Errorf("phase = %v, want between", st.Phase)
	}
	m.Advance(500 * time.Millisecond)
	if st := p.Snapshot(); st.SceneIndex != 1 {
		t.Errorf("scene after gap = %d, want 1", st.SceneIndex)
	}
}

func TestIdleWithoutScenesOrSink(t *testing.T) {
	m := clock.NewManual(epoch, frame)

	empty := New(nil, m, &frameLog{})
	empty.Play()
	if st := empty.Snapshot(); st.Running || st.Phase != Idle {
		t.Errorf("player without scenes: %+v, want idle", st)
	}

	noSink := New(scenes(1000), m, nil)
	noSink.Play()
	if noSink.Snapshot().Running {
		t.Error("player without sink started")
	}
	if m.Pending() != 0 {
		t.Errorf("idle players scheduled %d callbacks", m.Pending())
	}
}

func TestSeek(t *testing.T) {
	p, m, log := setup(t, []int{1000, 2000})

	if err := p.Seek(1, 0.25); err != nil {
		t.Fatalf("Seek(1, 0.25) = %v", err)
	}
	if f := log.last(); f.Index != 1 || f.Progress != 0.25 {
		t.Errorf("seek frame = %+v, want scene 1 at 0.25", f)
	}
	if m.Pending() != 0 {
		t.Error("seek on a stopped player scheduled work")
	}

	if err := p.Seek(2, 0); !errors.Is(err, ErrSceneOutOfRange) {
		t.Errorf("Seek(2) = %v, want ErrSceneOutOfRange", err)
	}
	if err := p.Seek(-1, 0); !errors.Is(err, ErrSceneOutOfRange) {
		t.Errorf("Seek(-1) = %v, want ErrSceneOutOfRange", err)
	}

	p.Play()
	m.Advance(500 * time.Millisecond)
	if st := p.Snapshot(); st.SceneIndex != 1 || !approx(st.Progress, 0.5) {
		t.Errorf("after play from seek: %+v, want scene 1 at 0.5", st)
	}
}

func TestSeekIsRepeatable(t *testing.T) {
	p, _, log := setup(t, []int{1000})
	_ = p.Seek(0, 0.4)
	_ = p.Seek(0, 0.4)
	if len(log.frames) != 2 || log.frames[0] != log.frames[1] {
		t.Errorf("repeated seeks produced %+v", log.frames)
	}
}

func TestStopCancelsEverything(t *testing.T) {
	p, m, log := setup(t, []int{1000})
	p.Play()
	m.Advance(1100 * time.Millisecond)
	p.Stop()
	p.Stop()

	if m.Pending() != 0 {
		t.Errorf("Pending() = %d after stop", m.Pending())
	}
	drawn := len(log.frames)
	m.Advance(time.Minute)
	if len(log.frames) != drawn {
		t.Error("stopped player kept drawing")
	}
	if st := p.Snapshot(); st.Phase != Idle || st.SceneIndex != 0 {
		t.Errorf("after stop: %+v", st)
	}
}

func TestLoadRestartsRunningPlayer(t *testing.T) {
	p, m, log := setup(t, []int{1000, 1000})
	p.Play()
	m.Advance(1600 * time.Millisecond)

	p.Load(scenes(400))
	st := p.Snapshot()
	if !st.Running || st.SceneCount != 1 || st.SceneIndex != 0 {
		t.Errorf("after load: %+v", st)
	}
	if f := log.last(); f.Scene.Duration != 400 {
		t.Errorf("last frame from old deck: %+v", f)
	}
}

func TestSpeedSteps(t *testing.T) {
	steps := SpeedSteps()
	if steps[0] != 0.25 || steps[len(steps)-1] != 2 {
		t.Errorf("SpeedSteps() = %v", steps)
	}
	for i := 1; i < len(steps); i++ {
		if !approx(steps[i]-steps[i-1], 0.25) {
			t.Errorf("step %d -> %d not 0.25 apart", i-1, i)
		}
	}
}
