package clock

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrLoopStopped is returned by Post once Run has returned.
var ErrLoopStopped = errors.New("clock: loop stopped")

type frameReq struct {
	h  *Handle
	fn Callback
}

// Loop is a real-time scheduler. Frame callbacks, delayed callbacks and
// posted functions all run serially on the goroutine that calls Run.
type Loop struct {
	interval time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	frames []frameReq

	posts   chan func()
	stopped chan struct{}
	once    sync.Once
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the loop logger.
func WithLogger(l *slog.Logger) LoopOption {
	return func(lp *Loop) {
		if l != nil {
			lp.log = l
		}
	}
}

// NewLoop creates a loop ticking fps times per second. Non-positive fps
// falls back to 60.
func NewLoop(fps int, opts ...LoopOption) *Loop {
	if fps <= 0 {
		fps = 60
	}
	l := &Loop{
		interval: time.Second / time.Duration(fps),
		log:      slog.New(slog.DiscardHandler),
		posts:    make(chan func(), 64),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Interval is the frame period.
func (l *Loop) Interval() time.Duration { return l.interval }

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) RequestFrame(fn Callback) *Handle {
	h := &Handle{}
	l.mu.Lock()
	l.frames = append(l.frames, frameReq{h: h, fn: fn})
	l.mu.Unlock()
	return h
}

func (l *Loop) After(d time.Duration, fn Callback) *Handle {
	h := &Handle{}
	t := time.AfterFunc(d, func() {
		// Ownership moves to the loop goroutine; the handle is claimed there so
		// a Cancel racing with the timer still wins.
		_ = l.Post(func() {
			if h.claim() {
				fn(time.Now())
			}
		})
	})
	h.stop = t.Stop
	return h
}

// Post runs fn on the loop goroutine. It blocks while the queue is full and
// fails once the loop has stopped.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.stopped:
		return ErrLoopStopped
	default:
	}
	select {
	case l.posts <- fn:
		return nil
	case <-l.stopped:
		return ErrLoopStopped
	}
}

// Run drives the loop until ctx is done. Pending frame callbacks are
// canceled on return.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.shutdown()

	l.log.Debug("frame loop started", "interval", l.interval)
	for {
		select {
		case <-ctx.Done():
			l.log.Debug("frame loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case fn := <-l.posts:
			fn()
		case now := <-ticker.C:
			l.flush(now)
		}
	}
}

func (l *Loop) flush(now time.Time) {
	l.mu.Lock()
	due := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, f := range due {
		if f.h.claim() {
			f.fn(now)
		}
	}
}

func (l *Loop) shutdown() {
	l.once.Do(func() { close(l.stopped) })

	l.mu.Lock()
	pending := l.frames
	l.frames = nil
	l.mu.Unlock()
	for _, f := range pending {
		f.h.Cancel()
	}
}
