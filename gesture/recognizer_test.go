package gesture

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	mu    sync.Mutex
	kinds []Kind
}

func (r *recorder) add(k Kind) func() {
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.kinds = append(r.kinds, k)
	}
}

func (r *recorder) got() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Kind(nil), r.kinds...)
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		OnSwipeUp:    r.add(SwipeUp),
		OnSwipeDown:  r.add(SwipeDown),
		OnSwipeLeft:  r.add(SwipeLeft),
		OnSwipeRight: r.add(SwipeRight),
		OnDoubleTap:  r.add(DoubleTap),
		OnLongTouch:  r.add(LongTouch),
	}
}

func newTestRecognizer(mode Mode) (*Recognizer, *ManualClock, *recorder) {
	rec := &recorder{}
	clock := NewManualClock(t0)
	r := NewConfigurableRecognizer(mode, DefaultConfig(), rec.handlers(), clock, slog.New(slog.DiscardHandler))
	return r, clock, rec
}

// session runs a whole touch session from the origin to end that lasts d.
func session(r *Recognizer, at time.Time, end Point, d time.Duration) {
	r.Start(Point{}, at)
	r.End(end, at.Add(d))
}

func TestClassifySwipe(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Kind
	}{
		{"right", 60, 10, SwipeRight},
		{"left", -60, 10, SwipeLeft},
		{"down", 10, 60, SwipeDown},
		{"up", -10, -60, SwipeUp},
		{"exactly the minimum", 50, 0, SwipeRight},
		{"short of the minimum", 49, 0, None},
		{"long but not along one axis", 40, 30, None},
		{"ties are vertical", -50, -50, SwipeUp},
		{"no movement", 0, 0, None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifySwipe(tt.dx, tt.dy, 50))
		})
	}
}

func TestSwipe(t *testing.T) {
	for _, mode := range []Mode{TapMode, HoldMode} {
		t.Run(mode.String(), func(t *testing.T) {
			r, _, rec := newTestRecognizer(mode)
			session(r, t0, Point{X: 60, Y: 10}, 100*time.Millisecond)
			session(r, t0.Add(time.Second), Point{X: -60, Y: 10}, 100*time.Millisecond)
			session(r, t0.Add(2*time.Second), Point{X: 5, Y: -80}, 100*time.Millisecond)
			session(r, t0.Add(3*time.Second), Point{X: 30, Y: 0}, 100*time.Millisecond)

			assert.Equal(t, []Kind{SwipeRight, SwipeLeft, SwipeUp}, rec.got())
		})
	}
}

func TestDoubleTap(t *testing.T) {
	t.Run("second tap inside the window", func(t *testing.T) {
		r, _, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 150*time.Millisecond)
		assert.Empty(t, rec.got(), "a single tap emits nothing")

		session(r, t0.Add(200*time.Millisecond), Point{}, 50*time.Millisecond)
		assert.Equal(t, []Kind{DoubleTap}, rec.got())

		// the third tap starts over.
		session(r, t0.Add(300*time.Millisecond), Point{}, 50*time.Millisecond)
		assert.Equal(t, []Kind{DoubleTap}, rec.got())

		session(r, t0.Add(400*time.Millisecond), Point{}, 50*time.Millisecond)
		assert.Equal(t, []Kind{DoubleTap, DoubleTap}, rec.got())
	})

	t.Run("taps may drift up to the max tap distance", func(t *testing.T) {
		r, _, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{X: 6, Y: 8}, 50*time.Millisecond)
		session(r, t0.Add(100*time.Millisecond), Point{X: -6, Y: -8}, 50*time.Millisecond)
		assert.Equal(t, []Kind{DoubleTap}, rec.got())
	})

	t.Run("second tap too late", func(t *testing.T) {
		r, _, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 50*time.Millisecond)
		session(r, t0.Add(300*time.Millisecond), Point{}, 50*time.Millisecond)
		assert.Empty(t, rec.got())
	})

	t.Run("taps ending at the same time are not a double tap", func(t *testing.T) {
		r, _, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 50*time.Millisecond)
		session(r, t0, Point{}, 50*time.Millisecond)
		assert.Empty(t, rec.got())
	})

	t.Run("the window timer forgets the pending tap", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 0)
		require.Equal(t, 1, clock.Pending())

		clock.Advance(300 * time.Millisecond)
		require.Equal(t, 0, clock.Pending())

		// the timestamps alone would make this a double tap.
		session(r, t0, Point{}, 100*time.Millisecond)
		assert.Empty(t, rec.got())
	})

	t.Run("the window timer outlives the next session", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 0)
		r.Start(Point{}, t0.Add(100*time.Millisecond))
		require.Equal(t, 1, clock.Pending())

		clock.Advance(300 * time.Millisecond)
		r.End(Point{}, t0.Add(150*time.Millisecond))
		assert.Empty(t, rec.got())
	})

	t.Run("a double tap disarms the window timer", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 0)
		session(r, t0.Add(100*time.Millisecond), Point{}, 0)
		assert.Equal(t, 0, clock.Pending())
		assert.Equal(t, []Kind{DoubleTap}, rec.got())
	})

	t.Run("a swipe between taps keeps the pending tap", func(t *testing.T) {
		r, _, rec := newTestRecognizer(TapMode)
		session(r, t0, Point{}, 10*time.Millisecond)
		session(r, t0.Add(50*time.Millisecond), Point{X: 100}, 10*time.Millisecond)
		session(r, t0.Add(100*time.Millisecond), Point{}, 10*time.Millisecond)
		assert.Equal(t, []Kind{SwipeRight, DoubleTap}, rec.got())
	})
}

func TestLongTouch(t *testing.T) {
	t.Run("held still", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(HoldMode)
		r.Start(Point{}, t0)
		r.Move(Point{X: 5, Y: -10}, t0.Add(100*time.Millisecond))
		clock.Advance(499 * time.Millisecond)
		assert.Empty(t, rec.got())

		clock.Advance(time.Millisecond)
		assert.Equal(t, []Kind{LongTouch}, rec.got())

		// the session is consumed, the swipe is ignored.
		r.End(Point{X: 100}, t0.Add(time.Second))
		assert.Equal(t, []Kind{LongTouch}, rec.got())
	})

	t.Run("moving away disarms it", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(HoldMode)
		r.Start(Point{}, t0)
		r.Move(Point{X: 11}, t0.Add(100*time.Millisecond))
		r.Move(Point{}, t0.Add(200*time.Millisecond))
		clock.Advance(time.Second)
		assert.Empty(t, rec.got())

		r.End(Point{X: 60, Y: 10}, t0.Add(time.Second))
		assert.Equal(t, []Kind{SwipeRight}, rec.got())
	})

	t.Run("released before the delay", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(HoldMode)
		session(r, t0, Point{}, 100*time.Millisecond)
		clock.Advance(time.Second)
		assert.Empty(t, rec.got())
	})

	t.Run("cancel", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(HoldMode)
		r.Start(Point{}, t0)
		r.Cancel(t0.Add(100 * time.Millisecond))
		clock.Advance(time.Second)
		r.End(Point{X: 100}, t0.Add(time.Second))
		assert.Empty(t, rec.got())
	})

	t.Run("a new session restarts the delay", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(HoldMode)
		r.Start(Point{}, t0)
		clock.Advance(300 * time.Millisecond)
		r.Start(Point{}, t0.Add(300*time.Millisecond))
		clock.Advance(300 * time.Millisecond)
		assert.Empty(t, rec.got())

		clock.Advance(200 * time.Millisecond)
		assert.Equal(t, []Kind{LongTouch}, rec.got())
	})

	t.Run("new config applies to the next session", func(t *testing.T) {
		r, clock, rec := newTestRecognizer(HoldMode)
		cfg := DefaultConfig()
		cfg.LongTouchDelay = 100 * time.Millisecond
		r.Start(Point{}, t0)
		r.SetConfig(cfg)
		clock.Advance(100 * time.Millisecond)
		assert.Empty(t, rec.got())
		r.End(Point{}, t0.Add(100*time.Millisecond))

		r.Start(Point{}, t0.Add(100*time.Millisecond))
		clock.Advance(100 * time.Millisecond)
		assert.Equal(t, []Kind{LongTouch}, rec.got())
		assert.Equal(t, cfg, r.Config())
	})
}

// leakyClock ignores Stop so callbacks of superseded sessions still run.
type leakyClock struct {
	fs []func()
}

type leakyTimer struct{}

func (leakyTimer) Stop() bool { return false }

func (c *leakyClock) AfterFunc(_ time.Duration, f func()) Timer {
	c.fs = append(c.fs, f)
	return leakyTimer{}
}

func (c *leakyClock) fire(i int) {
	c.fs[i]()
}

func (c *leakyClock) fireAll() {
	for _, f := range c.fs {
		f()
	}
	c.fs = nil
}

func TestStaleTimers(t *testing.T) {
	t.Run("long touch of a superseded session", func(t *testing.T) {
		rec := &recorder{}
		clock := &leakyClock{}
		r := NewConfigurableRecognizer(HoldMode, DefaultConfig(), rec.handlers(), clock, nil)
		r.Start(Point{}, t0)
		r.Start(Point{}, t0.Add(time.Millisecond))
		r.Move(Point{X: 50}, t0.Add(2*time.Millisecond))
		clock.fireAll()
		assert.Empty(t, rec.got())
	})

	t.Run("tap window of a replaced tap", func(t *testing.T) {
		rec := &recorder{}
		clock := &leakyClock{}
		r := NewConfigurableRecognizer(TapMode, DefaultConfig(), rec.handlers(), clock, nil)
		session(r, t0, Point{}, 0)
		// too late for a double tap, it becomes the pending tap.
		session(r, t0.Add(400*time.Millisecond), Point{}, 0)
		clock.fire(0)
		session(r, t0.Add(450*time.Millisecond), Point{}, 0)
		assert.Equal(t, []Kind{DoubleTap}, rec.got())
	})
}

func TestMalformedSessions(t *testing.T) {
	for _, mode := range []Mode{TapMode, HoldMode} {
		t.Run(mode.String(), func(t *testing.T) {
			r, clock, rec := newTestRecognizer(mode)
			r.Move(Point{X: 100}, t0)
			r.End(Point{X: 100}, t0)
			r.Cancel(t0)
			r.End(Point{}, t0.Add(10*time.Millisecond))
			clock.Advance(time.Second)
			assert.Empty(t, rec.got())
		})
	}
}

func TestNilHandlers(t *testing.T) {
	r := NewConfigurableRecognizer(TapMode, DefaultConfig(), Handlers{}, NewManualClock(t0), nil)
	assert.NotPanics(t, func() {
		session(r, t0, Point{X: 100}, 10*time.Millisecond)
		session(r, t0.Add(time.Second), Point{}, 10*time.Millisecond)
		session(r, t0.Add(time.Second+50*time.Millisecond), Point{}, 10*time.Millisecond)
	})
}

func TestRealClock(t *testing.T) {
	rec := &recorder{}
	cfg := DefaultConfig()
	cfg.LongTouchDelay = 10 * time.Millisecond
	r := NewRecognizer(HoldMode, cfg, rec.handlers(), nil)
	defer r.Close()

	r.Start(Point{}, time.Now())
	require.Eventually(t, func() bool { return len(rec.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []Kind{LongTouch}, rec.got())
}

func TestClose(t *testing.T) {
	r, clock, rec := newTestRecognizer(HoldMode)
	r.Start(Point{}, t0)
	r.Close()
	clock.Advance(time.Second)
	r.End(Point{X: 100}, t0.Add(time.Second))
	assert.Empty(t, rec.got())
}
