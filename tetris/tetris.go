// Package tetris contains the logic of the game: the stack, the falling
// tetromino, line clears, scoring and the game status.
package tetris

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

const (
	BoardWidth  = 10
	BoardHeight = 20

	spawnX = BoardWidth/2 - 1
	spawnY = 0

	linesPerLevel = 10
)

type Status int

const (
	Waiting Status = iota
	Playing
	Paused
	GameOver
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case GameOver:
		return "game over"
	default:
		return "unknown"
	}
}

type Direction int

const (
	Left Direction = iota
	Right
	Down
)

type Tetris struct {
	// Stack is the playfield. 20 rows x 10 columns.
	// Columns are 0 > 9 left to right and represent the X axis.
	// Rows are 0 > 19 top to bottom and represent the Y axis.
	// An empty string is an empty cell. Otherwise it holds the shape of the
	// tetromino that was locked there.
	Stack [][]Shape

	Tetromino     *Tetromino
	NextTetromino *Tetromino
	Status        Status
	Score         int
	LinesClear    int
	Level         int
	SessionID     string

	mu       sync.RWMutex
	rand     *rand.Rand
	revision uint64
}

func newTetris(r *rand.Rand) *Tetris {
	return &Tetris{
		Stack:  emptyStack(),
		Level:  1,
		Status: Waiting,
		rand:   r,
	}
}

func emptyStack() [][]Shape {
	s := make([][]Shape, BoardHeight)
	for i := range s {
		s[i] = make([]Shape, BoardWidth)
	}
	return s
}

// Start resets the stack and the counters and drafts a new current and next
// tetromino. It can be called from any status.
func (t *Tetris) Start() {
	t.Stack = emptyStack()
	t.Score = 0
	t.LinesClear = 0
	t.Level = 1
	t.Status = Playing
	t.Tetromino = newTetromino(t.randomShape())
	t.NextTetromino = newTetromino(t.randomShape())
	t.setGhost()
	t.revision++
}

// Move shifts the tetromino one cell. A blocked move down locks the
// tetromino into the stack and spawns the next one.
func (t *Tetris) Move(d Direction) {
	if !t.active() {
		return
	}
	x, y := t.Tetromino.X, t.Tetromino.Y
	switch d {
	case Left:
		x--
	case Right:
		x++
	case Down:
		y++
	default:
		return
	}
	if t.isValid(t.Tetromino, x, y) {
		t.Tetromino.X, t.Tetromino.Y = x, y
		t.setGhost()
		t.revision++
		return
	}
	if d == Down {
		t.lockAndAdvance()
	}
}

// Tick is the gravity step.
func (t *Tetris) Tick() { t.Move(Down) }

// Rotate turns the tetromino clockwise. There are no wall kicks: when the
// rotated grid doesn't fit where the tetromino is, nothing happens.
func (t *Tetris) Rotate() {
	if !t.active() {
		return
	}
	r := t.Tetromino.rotated()
	if !t.isValid(r, r.X, r.Y) {
		return
	}
	t.Tetromino = r
	t.setGhost()
	t.revision++
}

// HardDrop drops the tetromino to the lowest valid row, scores 2 points per
// row travelled and locks it.
func (t *Tetris) HardDrop() {
	if !t.active() {
		return
	}
	delta := t.dropDownDelta()
	t.Tetromino.Y += delta
	t.Score += 2 * delta
	t.lockAndAdvance()
}

// TogglePause switches between Playing and Paused.
func (t *Tetris) TogglePause() {
	switch t.Status {
	case Playing:
		t.Status = Paused
	case Paused:
		t.Status = Playing
	default:
		return
	}
	t.revision++
}

// Interval is how long the tetromino waits between gravity steps at the
// current level: 1s at level 1, 100ms less per level, never below 100ms.
func (t *Tetris) Interval() time.Duration {
	ms := max(100, 1000-(t.Level-1)*100)
	return time.Duration(ms) * time.Millisecond
}

func levelFor(lines int) int {
	return lines/linesPerLevel + 1
}

func (t *Tetris) active() bool {
	return t.Status == Playing && t.Tetromino != nil
}

func (t *Tetris) randomShape() Shape {
	return Shapes[t.rand.IntN(len(Shapes))]
}

// isValid reports whether the tetromino's grid fits the stack with its
// top-left corner at x, y.
//
// 		0 1 2 3 4 5 6 7 8 9			0 1 2
// -1	X X X X O X X X X X		0	O X X
// 0	X X X X O O O X X X		1	O O O
// 1	X X X X X X X X X X		2	X X X
//
// Cells above the stack (negative rows) are always allowed, cells left,
// right or below it never are.
func (t *Tetris) isValid(tt *Tetromino, x, y int) bool {
	for ir, r := range tt.Grid {
		for ic, c := range r {
			if !c {
				continue
			}
			xPos := x + ic
			yPos := y + ir
			if xPos < 0 || xPos >= BoardWidth || yPos >= BoardHeight {
				return false
			}
			if yPos >= 0 && t.Stack[yPos][xPos] != "" {
				return false
			}
		}
	}
	return true
}

// dropDownDelta returns how many rows the tetromino can fall before it
// collides with the stack or the floor.
func (t *Tetris) dropDownDelta() int {
	var delta int
	for t.isValid(t.Tetromino, t.Tetromino.X, t.Tetromino.Y+delta+1) {
		delta++
	}
	return delta
}

func (t *Tetris) setGhost() {
	if t.Tetromino == nil {
		return
	}
	t.Tetromino.GhostY = t.Tetromino.Y + t.dropDownDelta()
}

// lockAndAdvance locks the tetromino where it is, clears complete lines,
// updates score and level and spawns the next tetromino.
func (t *Tetris) lockAndAdvance() {
	t.toStack()
	cleared := t.clearLines()
	// the score uses the level the tetromino was locked at.
	t.Score += cleared*100*t.Level + 10
	t.LinesClear += cleared
	t.Level = levelFor(t.LinesClear)
	t.spawn()
	t.revision++
}

func (t *Tetris) toStack() {
	for iy, y := range t.Tetromino.Grid {
		for ix, x := range y {
			row := t.Tetromino.Y + iy
			if x && row >= 0 {
				t.Stack[row][t.Tetromino.X+ix] = t.Tetromino.Shape
			}
		}
	}
}

// clearLines removes complete rows and adds the same amount of empty rows
// on top, so the remaining rows keep their order.
func (t *Tetris) clearLines() int {
	kept := make([][]Shape, 0, BoardHeight)
	for _, row := range t.Stack {
		if slices.Contains(row, "") {
			kept = append(kept, row)
		}
	}
	cleared := BoardHeight - len(kept)
	if cleared == 0 {
		return 0
	}
	stack := make([][]Shape, 0, BoardHeight)
	for range cleared {
		stack = append(stack, make([]Shape, BoardWidth))
	}
	t.Stack = append(stack, kept...)
	return cleared
}

// spawn promotes the next tetromino and drafts a new one. If the promoted
// tetromino doesn't fit at the spawn location the game is over.
func (t *Tetris) spawn() {
	next := t.NextTetromino
	if next == nil {
		next = newTetromino(t.randomShape())
	}
	next.X, next.Y = spawnX, spawnY
	t.Tetromino = next
	t.NextTetromino = newTetromino(t.randomShape())
	t.setGhost()

	if !t.isValid(t.Tetromino, t.Tetromino.X, t.Tetromino.Y) {
		t.Status = GameOver
		t.NextTetromino = nil
	}
}

// copy returns a snapshot of the game that's safe to hand to readers.
func (t *Tetris) copy() *Tetris {
	var stack [][]Shape
	if t.Stack != nil {
		stack = make([][]Shape, len(t.Stack))
		for i := range t.Stack {
			stack[i] = make([]Shape, len(t.Stack[i]))
			copy(stack[i], t.Stack[i])
		}
	}
	return &Tetris{
		Stack:         stack,
		Tetromino:     t.Tetromino.copy(),
		NextTetromino: t.NextTetromino.copy(),
		Status:        t.Status,
		Score:         t.Score,
		LinesClear:    t.LinesClear,
		Level:         t.Level,
		SessionID:     t.SessionID,
	}
}
