// Package gesture turns raw touch sessions (start, move, end or cancel
// events with a position and a time) into swipes, double taps and long
// touches.
package gesture

import (
	"math"
	"time"
)

type Kind int

const (
	None Kind = iota
	SwipeUp
	SwipeDown
	SwipeLeft
	SwipeRight
	DoubleTap
	LongTouch
)

func (k Kind) String() string {
	switch k {
	case SwipeUp:
		return "swipe up"
	case SwipeDown:
		return "swipe down"
	case SwipeLeft:
		return "swipe left"
	case SwipeRight:
		return "swipe right"
	case DoubleTap:
		return "double tap"
	case LongTouch:
		return "long touch"
	default:
		return "none"
	}
}

// Mode picks what a short touch means. TapMode recognizes double taps,
// HoldMode recognizes long touches. Both recognize swipes.
type Mode int

const (
	TapMode Mode = iota
	HoldMode
)

func (m Mode) String() string {
	if m == HoldMode {
		return "hold"
	}
	return "tap"
}

// Point is a pointer position in screen coordinates, Y grows downwards.
type Point struct {
	X, Y float64
}

type Config struct {
	// MinSwipeDistance is how far the pointer must travel along the
	// dominant axis for a swipe.
	MinSwipeDistance float64
	// MaxTapDistance is the furthest a tap can travel (TapMode).
	MaxTapDistance float64
	// DoubleTapDelay is the window for the second tap (TapMode).
	DoubleTapDelay time.Duration
	// MaxHoldMovement is how far the pointer can drift on either axis
	// without cancelling a long touch (HoldMode).
	MaxHoldMovement float64
	// LongTouchDelay is how long the pointer must stay down (HoldMode).
	LongTouchDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinSwipeDistance: 50,
		MaxTapDistance:   10,
		DoubleTapDelay:   300 * time.Millisecond,
		MaxHoldMovement:  10,
		LongTouchDelay:   500 * time.Millisecond,
	}
}

// Handlers are called once per recognized gesture. Nil handlers are skipped.
type Handlers struct {
	OnSwipeUp    func()
	OnSwipeDown  func()
	OnSwipeLeft  func()
	OnSwipeRight func()
	OnDoubleTap  func()
	OnLongTouch  func()
}

func (h Handlers) handler(k Kind) func() {
	switch k {
	case SwipeUp:
		return h.OnSwipeUp
	case SwipeDown:
		return h.OnSwipeDown
	case SwipeLeft:
		return h.OnSwipeLeft
	case SwipeRight:
		return h.OnSwipeRight
	case DoubleTap:
		return h.OnDoubleTap
	case LongTouch:
		return h.OnLongTouch
	default:
		return nil
	}
}

// classifySwipe picks the axis with the largest displacement (vertical on
// ties) and returns the swipe along it, or None when the displacement is
// shorter than minDistance.
func classifySwipe(dx, dy, minDistance float64) Kind {
	if math.Abs(dx) > math.Abs(dy) {
		if math.Abs(dx) < minDistance {
			return None
		}
		if dx > 0 {
			return SwipeRight
		}
		return SwipeLeft
	}
	if dy == 0 || math.Abs(dy) < minDistance {
		return None
	}
	if dy > 0 {
		return SwipeDown
	}
	return SwipeUp
}
