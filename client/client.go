package client

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"touchtris/gesture"
	"touchtris/tetris"

	"github.com/eiannone/keyboard"
)

type tetrisGame interface {
	Start()
	Stop()
	GetUpdate() <-chan *tetris.Tetris
	Action(tetris.Action)
}

type renderer interface {
	game(*tetris.Tetris)
	lobby(message)
}

type Client struct {
	tetris tetrisGame
	render renderer
	logger *slog.Logger
	kbCh   <-chan keyboard.KeyEvent
	doneCh chan struct{}
	lobby  atomic.Bool
	touch  *gesture.Recognizer
}

type Options struct {
	NoGhost bool
	Name    string
	// Gesture and Mode configure the recognizer returned by Touch.
	Gesture gesture.Config
	Mode    gesture.Mode
}

func New(l *slog.Logger, o *Options) (*Client, error) {
	r, err := newRender(l, o.NoGhost, o.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	c := newClient(tetris.NewGame(l), r, kb, l)
	c.touch = gesture.NewRecognizer(o.Mode, o.Gesture, c.Handlers(), l)
	return c, nil
}

func newClient(t tetrisGame, r renderer, kb <-chan keyboard.KeyEvent, l *slog.Logger) *Client {
	c := &Client{
		tetris: t,
		render: r,
		logger: l,
		kbCh:   kb,
		doneCh: make(chan struct{}),
	}
	c.lobby.Store(true)
	return c
}

// Start renders the lobby and blocks until the player quits.
func (c *Client) Start() {
	c.render.game(nil)
	c.render.lobby(welcome())
	go c.listenTetris()
	c.listenKB()
	close(c.doneCh)
	if c.touch != nil {
		c.touch.Close()
	}
	c.tetris.Stop()
}

// Touch returns the recognizer a touch host feeds its pointer events to.
func (c *Client) Touch() *gesture.Recognizer {
	return c.touch
}

// Gesture applies a recognized gesture to the game being played. Gestures
// in the lobby are ignored.
func (c *Client) Gesture(k gesture.Kind) {
	a, ok := GestureAction(k)
	if !ok || c.lobby.Load() {
		return
	}
	c.logger.Debug("gesture action", slog.String("gesture", k.String()), slog.String("action", string(a)))
	c.tetris.Action(a)
}

// GestureAction maps a gesture to the game action it triggers.
func GestureAction(k gesture.Kind) (tetris.Action, bool) {
	switch k {
	case gesture.SwipeLeft:
		return tetris.MoveLeft, true
	case gesture.SwipeRight:
		return tetris.MoveRight, true
	case gesture.SwipeDown:
		return tetris.MoveDown, true
	case gesture.SwipeUp:
		return tetris.DropDown, true
	case gesture.DoubleTap:
		return tetris.RotateRight, true
	case gesture.LongTouch:
		return tetris.Pause, true
	default:
		return "", false
	}
}

// Handlers returns gesture handlers that drive this client, ready to be
// passed to a gesture.Recognizer.
func (c *Client) Handlers() gesture.Handlers {
	on := func(k gesture.Kind) func() { return func() { c.Gesture(k) } }
	return gesture.Handlers{
		OnSwipeUp:    on(gesture.SwipeUp),
		OnSwipeDown:  on(gesture.SwipeDown),
		OnSwipeLeft:  on(gesture.SwipeLeft),
		OnSwipeRight: on(gesture.SwipeRight),
		OnDoubleTap:  on(gesture.DoubleTap),
		OnLongTouch:  on(gesture.LongTouch),
	}
}

func (c *Client) listenKB() {
	for {
		event, ok := <-c.kbCh
		if !ok {
			c.logger.Error("keyboard events channel closed unexpectedly")
			return
		}
		if event.Err != nil {
			c.logger.Error("keyboard event error", slog.String("error", event.Err.Error()))
			return
		}
		if event.Key == keyboard.KeyCtrlC {
			return
		}
		if c.lobby.Load() {
			switch event.Rune {
			case 'p':
				c.lobby.Store(false)
				c.tetris.Start()
			case 'q':
				return
			}
			continue
		}

		var a tetris.Action
		switch {
		case event.Key == keyboard.KeyArrowDown || event.Rune == 's':
			a = tetris.MoveDown
		case event.Key == keyboard.KeyArrowLeft || event.Rune == 'a':
			a = tetris.MoveLeft
		case event.Key == keyboard.KeyArrowRight || event.Rune == 'd':
			a = tetris.MoveRight
		case event.Key == keyboard.KeyArrowUp || event.Rune == 'e':
			a = tetris.RotateRight
		case event.Key == keyboard.KeySpace:
			a = tetris.DropDown
		case event.Rune == 'p':
			a = tetris.Pause
		default:
			continue
		}
		c.tetris.Action(a)
	}
}

func (c *Client) listenTetris() {
	for {
		select {
		case u := <-c.tetris.GetUpdate():
			c.render.game(u)
			if u.Status == tetris.GameOver && !c.lobby.Swap(true) {
				c.render.lobby(gameOver(u.Score))
			}
		case <-c.doneCh:
			return
		}
	}
}
