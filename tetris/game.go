package tetris

import (
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	StartGame   Action = "start"    // Resets the game and starts a new session.
	MoveLeft    Action = "left"     // Moves the Tetromino one step to the left.
	MoveRight   Action = "right"    // Moves the Tetromino one step to the right.
	MoveDown    Action = "down"     // Moves the Tetromino one step down.
	DropDown    Action = "drop"     // Drops the Tetromino down the stack.
	RotateRight Action = "rotatecw" // Rotates the Tetromino clockwise.
	Pause       Action = "pause"    // Pauses or resumes the game.
)

type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

func newWrappedTicker(d time.Duration) *wrappedTicker {
	return &wrappedTicker{ticker: time.NewTicker(d)}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }

// Game runs a Tetris in real time. A single goroutine applies the player's
// actions and the gravity ticks, so the Tetris is never mutated concurrently.
type Game struct {
	updateCh chan *Tetris
	actionCh chan Action
	doneCh   chan struct{}
	tetris   *Tetris
	ticker   Ticker
	logger   *slog.Logger

	listenOnce sync.Once
	stopOnce   sync.Once
}

func NewGame(l *slog.Logger) *Game {
	seed := uint64(time.Now().UnixNano()) //nolint:gosec
	return NewConfigurableGame(newWrappedTicker(1*time.Hour), rand.New(rand.NewPCG(seed, seed>>1)), l)
}

func NewConfigurableGame(ticker Ticker, r *rand.Rand, l *slog.Logger) *Game {
	if l == nil {
		l = slog.Default()
	}
	return &Game{
		updateCh: make(chan *Tetris),
		actionCh: make(chan Action),
		doneCh:   make(chan struct{}),
		tetris:   newTetris(r),
		ticker:   ticker,
		logger:   l,
	}
}

// Start starts a new game.
func (g *Game) Start() {
	g.Action(StartGame)
}

// Stop ends the game loop. Actions sent after Stop are dropped.
func (g *Game) Stop() {
	g.stopOnce.Do(func() {
		g.ticker.Stop()
		close(g.doneCh)
	})
}

// Action sends an action to the game loop, starting the loop on first use.
func (g *Game) Action(a Action) {
	g.listenOnce.Do(func() { go g.listen() })
	select {
	case g.actionCh <- a:
	case <-g.doneCh:
	}
}

// GetUpdate returns the channel where a snapshot is sent after every change.
func (g *Game) GetUpdate() <-chan *Tetris {
	return g.updateCh
}

// Read returns a copy of the current Tetris status that's safe to read concurrently.
func (g *Game) Read() *Tetris {
	g.tetris.mu.RLock()
	defer g.tetris.mu.RUnlock()
	return g.tetris.copy()
}

func (g *Game) listen() {
	select {
	case <-g.doneCh:
		return
	default:
	}
	g.tetris.mu.Lock()
	g.schedule()
	g.tetris.mu.Unlock()
	for {
		select {
		case <-g.ticker.C():
			g.tetris.mu.Lock()
			before := g.observe()
			g.tetris.Tick()
			g.report(before)
			// the ticker is re-armed on every tick so a new level's
			// interval is picked up right away.
			g.schedule()
			g.tetris.mu.Unlock()
		case a := <-g.actionCh:
			g.tetris.mu.Lock()
			before := g.observe()
			g.apply(a)
			g.report(before)
			if g.tetris.revision != before.revision {
				g.schedule()
			}
			g.tetris.mu.Unlock()
		case <-g.doneCh:
			return
		}
		g.publish()
	}
}

func (g *Game) apply(a Action) {
	switch a {
	case StartGame:
		g.tetris.SessionID = uuid.New().String()
		g.tetris.Start()
		g.logger.Info("game started", slog.String("session", g.tetris.SessionID))
	case MoveLeft:
		g.tetris.Move(Left)
	case MoveRight:
		g.tetris.Move(Right)
	case MoveDown:
		g.tetris.Move(Down)
	case RotateRight:
		g.tetris.Rotate()
	case DropDown:
		g.tetris.HardDrop()
	case Pause:
		g.tetris.TogglePause()
	default:
		g.logger.Debug("unknown action", slog.String("action", string(a)))
	}
}

// schedule arms the ticker with the current level's interval while the
// game is being played and stops it otherwise. It must be called with the
// lock held.
func (g *Game) schedule() {
	if g.tetris.Status == Playing {
		g.ticker.Reset(g.tetris.Interval())
		return
	}
	g.ticker.Stop()
}

type observation struct {
	status   Status
	level    int
	revision uint64
}

func (g *Game) observe() observation {
	return observation{
		status:   g.tetris.Status,
		level:    g.tetris.Level,
		revision: g.tetris.revision,
	}
}

// report logs the status and level transitions between before and now.
func (g *Game) report(before observation) {
	t := g.tetris
	session := slog.String("session", t.SessionID)
	switch {
	case t.Status == before.status:
	case t.Status == GameOver:
		g.logger.Info("game over", session,
			slog.Int("score", t.Score),
			slog.Int("lines", t.LinesClear),
			slog.Int("level", t.Level))
	case before.status != Playing && before.status != Paused:
		// new sessions are logged when they start.
	default:
		g.logger.Debug("status changed", session,
			slog.String("from", before.status.String()),
			slog.String("to", t.Status.String()))
	}
	if t.Level > before.level && t.Status == Playing {
		g.logger.Debug("level up", session,
			slog.Int("level", t.Level),
			slog.Duration("interval", t.Interval()))
	}
}

func (g *Game) publish() {
	select {
	case g.updateCh <- g.Read():
	case <-g.doneCh:
	}
}
