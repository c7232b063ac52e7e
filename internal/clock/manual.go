package clock

import (
	"sync"
	"time"
)

type pending struct {
	at  time.Time
	seq uint64
	h   *Handle
	fn  Callback
}

// Manual is a simulated scheduler. Time only moves on Advance, and callbacks
// run on the caller's goroutine in due-time order, ties in scheduling order.
// Frames are due one frame interval after they are requested.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	frame time.Duration
	seq   uint64
	queue []pending
}

// NewManual starts a simulated clock at start with the given frame interval.
// A non-positive interval defaults to 10ms.
func NewManual(start time.Time, frame time.Duration) *Manual {
	if frame <= 0 {
		frame = 10 * time.Millisecond
	}
	return &Manual{now: start, frame: frame}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) RequestFrame(fn Callback) *Handle {
	return m.schedule(m.frame, fn)
}

func (m *Manual) After(d time.Duration, fn Callback) *Handle {
	if d < 0 {
		d = 0
	}
	return m.schedule(d, fn)
}

func (m *Manual) schedule(d time.Duration, fn Callback) *Handle {
	h := &Handle{}
	m.mu.Lock()
	m.seq++
	m.queue = append(m.queue, pending{at: m.now.Add(d), seq: m.seq, h: h, fn: fn})
	m.mu.Unlock()
	return h
}

// Advance moves time forward by d, firing every callback that comes due,
// including ones scheduled by callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		i := m.next(target)
		if i < 0 {
			m.now = target
			m.mu.Unlock()
			return
		}
		p := m.queue[i]
		m.queue = append(m.queue[:i], m.queue[i+1:]...)
		m.now = p.at
		m.mu.Unlock()

		if p.h.claim() {
			p.fn(p.at)
		}
	}
}

// Pending counts callbacks that have neither fired nor been canceled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.queue {
		if !p.h.Done() {
			n++
		}
	}
	return n
}

func (m *Manual) next(target time.Time) int {
	best := -1
	for i, p := range m.queue {
		if p.at.After(target) {
			continue
		}
		if best < 0 || p.at.Before(m.queue[best].at) ||
			(p.at.Equal(m.queue[best].at) && p.seq < m.queue[best].seq) {
			best = i
		}
	}
	return best
}
