package tetris

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// MockTicker is a mock implementation of the ticker interface.
type MockTicker struct {
	ch        chan time.Time
	stopped   bool
	durations []time.Duration
	mu        sync.Mutex
}

func NewMockTicker() *MockTicker           { return &MockTicker{ch: make(chan time.Time)} }
func (m *MockTicker) C() <-chan time.Time { return m.ch }
func (m *MockTicker) Tick()               { m.ch <- time.Now() }
func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
}

func (m *MockTicker) Reset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = false
	m.durations = append(m.durations, d)
}

// IsStopped reports whether Stop was called after the last Reset.
func (m *MockTicker) IsStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Resets returns the durations passed to Reset, oldest first.
func (m *MockTicker) Resets() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.durations...)
}

// NewTestGame creates a game around a specific Tetris and returns it with a manual ticker.
func NewTestGame(t *Tetris) (*Game, *MockTicker) {
	ticker := NewMockTicker()
	g := NewConfigurableGame(ticker, t.rand, slog.New(slog.DiscardHandler))
	g.tetris = t
	return g, ticker
}

// NewTestTetris creates a Tetris being played where the current and next
// tetromino are of the given shape. Later drafts are random but seeded.
func NewTestTetris(shape Shape) *Tetris {
	t := newTetris(rand.New(rand.NewPCG(1, 2)))
	t.Status = Playing
	t.Tetromino = newTetromino(shape)
	t.NextTetromino = newTetromino(shape)
	t.setGhost()
	return t
}
