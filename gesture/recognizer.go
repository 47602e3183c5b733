package gesture

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

// Recognizer follows one pointer session at a time and emits at most one
// gesture per session. Events and timer callbacks may arrive on different
// goroutines; handlers are never called with the recognizer locked.
type Recognizer struct {
	mode     Mode
	handlers Handlers
	clock    Clock
	logger   *slog.Logger

	mu  sync.Mutex
	cfg Config
	// generation identifies the current session. Long touch timers carry
	// the generation they were armed in and do nothing once it moved on.
	generation uint64
	active     bool
	consumed   bool
	origin     Point
	// timer is the long touch of the current session.
	timer Timer
	// lastTap is when the pending tap ended, zero when there's none.
	// tapTimer forgets it once the double tap window is over, whatever
	// sessions started in between.
	lastTap  time.Time
	tapTimer Timer
}

func NewRecognizer(mode Mode, cfg Config, h Handlers, l *slog.Logger) *Recognizer {
	return NewConfigurableRecognizer(mode, cfg, h, realClock{}, l)
}

func NewConfigurableRecognizer(mode Mode, cfg Config, h Handlers, c Clock, l *slog.Logger) *Recognizer {
	if l == nil {
		l = slog.Default()
	}
	return &Recognizer{
		mode:     mode,
		cfg:      cfg,
		handlers: h,
		clock:    c,
		logger:   l,
	}
}

// SetConfig replaces the thresholds. Timers already armed keep the delay
// they were armed with.
func (r *Recognizer) SetConfig(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

func (r *Recognizer) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cfg
}

// Start opens a new session and supersedes whatever the previous one left
// armed.
func (r *Recognizer) Start(p Point, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.stopTimer()
	r.active = true
	r.consumed = false
	r.origin = p

	if r.mode == HoldMode {
		gen := r.generation
		r.timer = r.clock.AfterFunc(r.cfg.LongTouchDelay, func() { r.longTouch(gen) })
	}
}

// Move disarms a pending long touch once the pointer drifts too far.
func (r *Recognizer) Move(p Point, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active || r.mode != HoldMode || r.timer == nil {
		return
	}
	dx, dy := p.X-r.origin.X, p.Y-r.origin.Y
	if math.Abs(dx) > r.cfg.MaxHoldMovement || math.Abs(dy) > r.cfg.MaxHoldMovement {
		r.stopTimer()
	}
}

// End closes the session at p and emits the gesture it made, if any.
func (r *Recognizer) End(p Point, t time.Time) {
	r.mu.Lock()
	k := r.end(p, t)
	r.mu.Unlock()
	r.emit(k)
}

// Cancel drops the session without emitting anything.
func (r *Recognizer) Cancel(_ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.active = false
	r.stopTimer()
}

// Close disarms every timer. The recognizer can still be used afterwards.
func (r *Recognizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.active = false
	r.stopTimer()
	r.forgetTap()
}

func (r *Recognizer) end(p Point, t time.Time) Kind {
	if !r.active {
		return None
	}
	r.active = false
	dx, dy := p.X-r.origin.X, p.Y-r.origin.Y

	if r.mode == HoldMode {
		r.stopTimer()
		if r.consumed {
			return None
		}
		return classifySwipe(dx, dy, r.cfg.MinSwipeDistance)
	}

	if math.Hypot(dx, dy) > r.cfg.MaxTapDistance {
		return classifySwipe(dx, dy, r.cfg.MinSwipeDistance)
	}
	return r.tap(t)
}

// tap records a tap ending at t. It's a double tap when the pending tap
// ended less than DoubleTapDelay before, strictly after it.
func (r *Recognizer) tap(t time.Time) Kind {
	if !r.lastTap.IsZero() {
		since := t.Sub(r.lastTap)
		if since > 0 && since < r.cfg.DoubleTapDelay {
			r.forgetTap()
			return DoubleTap
		}
	}
	r.forgetTap()
	r.lastTap = t
	r.tapTimer = r.clock.AfterFunc(r.cfg.DoubleTapDelay, func() { r.expireTap(t) })
	return None
}

// expireTap forgets the pending tap if it's still the one that ended at t.
func (r *Recognizer) expireTap(t time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastTap.IsZero() || !r.lastTap.Equal(t) {
		return
	}
	r.lastTap = time.Time{}
	r.tapTimer = nil
}

func (r *Recognizer) forgetTap() {
	if r.tapTimer != nil {
		r.tapTimer.Stop()
		r.tapTimer = nil
	}
	r.lastTap = time.Time{}
}

func (r *Recognizer) longTouch(gen uint64) {
	r.mu.Lock()
	// a nil timer means Move disarmed it after it had already fired.
	if gen != r.generation || !r.active || r.consumed || r.timer == nil {
		r.mu.Unlock()
		return
	}
	r.consumed = true
	r.timer = nil
	r.mu.Unlock()
	r.emit(LongTouch)
}

func (r *Recognizer) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Recognizer) emit(k Kind) {
	if k == None {
		return
	}
	r.logger.Debug("gesture", slog.String("kind", k.String()), slog.String("mode", r.mode.String()))
	if h := r.handlers.handler(k); h != nil {
		h()
	}
}
