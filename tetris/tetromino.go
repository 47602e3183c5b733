package tetris

type Shape string

const (
	I Shape = "I"
	O Shape = "O"
	T Shape = "T"
	S Shape = "S"
	Z Shape = "Z"
	J Shape = "J"
	L Shape = "L"
)

// Shapes lists every tetromino in the order they're drafted from.
var Shapes = []Shape{I, O, T, S, Z, J, L}

type Tetromino struct {
	Grid   [][]bool
	X      int
	Y      int
	GhostY int
	Shape  Shape
	// Color is the shape's #rrggbb color for hosts that draw in true color.
	// Locked cells only keep their Shape, see ShapeColor.
	Color string
}

// ShapeColor returns the #rrggbb color of a shape, empty for empty cells.
func ShapeColor(s Shape) string {
	n, ok := shapeMap[s]
	if !ok {
		return ""
	}
	return n().Color
}

var shapeMap = map[Shape]func() *Tetromino{
	I: newI,
	O: newO,
	T: newT,
	S: newS,
	Z: newZ,
	J: newJ,
	L: newL,
}

// newTetromino returns a fresh tetromino of the given shape at the spawn location.
func newTetromino(s Shape) *Tetromino {
	t := shapeMap[s]()
	t.X = spawnX
	t.Y = spawnY
	return t
}

// rotated returns a copy of the tetromino turned 90 degrees clockwise.
// The grid is transposed and then every row is reversed. The receiver is
// never modified.
//
//	X O X		X O X
//	O O O	>	X O O
//	X X X		X O X
func (t *Tetromino) rotated() *Tetromino {
	size := len(t.Grid)
	grid := make([][]bool, len(t.Grid[0]))
	for ic := range grid {
		grid[ic] = make([]bool, size)
		for ir := range size {
			// transposed row ic is column ic; reversing it puts the
			// bottom row first.
			grid[ic][size-1-ir] = t.Grid[ir][ic]
		}
	}
	r := t.copy()
	r.Grid = grid
	return r
}

func (t *Tetromino) copy() *Tetromino {
	if t == nil {
		return nil
	}
	grid := make([][]bool, len(t.Grid))
	for i := range t.Grid {
		grid[i] = make([]bool, len(t.Grid[i]))
		copy(grid[i], t.Grid[i])
	}
	return &Tetromino{
		Grid:   grid,
		X:      t.X,
		Y:      t.Y,
		GhostY: t.GhostY,
		Shape:  t.Shape,
		Color:  t.Color,
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2 3

0	X X X X X X X X X X		0	X X X X

1	X X X X O O O O X X		1	O O O O

2	X X X X X X X X X X		2	X X X X

3	X X X X X X X X X X		3	X X X X
*/
func newI() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{false, false, false, false},
			{true, true, true, true},
			{false, false, false, false},
			{false, false, false, false},
		},
		Shape: I,
		Color: "#00f0f0",
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1

0	X X X X O O X X X X		0	O O

1	X X X X O O X X X X		1	O O
*/
func newO() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{true, true},
			{true, true},
		},
		Shape: O,
		Color: "#f0f000",
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X X O X X X X		0	X O X

1	X X X X O O O X X X		1	O O O

2	X X X X X X X X X X		2	X X X
*/
func newT() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{false, true, false},
			{true, true, true},
			{false, false, false},
		},
		Shape: T,
		Color: "#a000f0",
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X X O O X X X		0	X O O

1	X X X X O O X X X X		1	O O X

2	X X X X X X X X X X		2	X X X
*/
func newS() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{false, true, true},
			{true, true, false},
			{false, false, false},
		},
		Shape: S,
		Color: "#00f000",
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X O O X X X X		0	O O X

1	X X X X X O O X X X		1	X O O

2	X X X X X X X X X X		2	X X X
*/
func newZ() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{true, true, false},
			{false, true, true},
			{false, false, false},
		},
		Shape: Z,
		Color: "#f00000",
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X O X X X X X		0	O X X

1	X X X X O O O X X X		1	O O O

2	X X X X X X X X X X		2	X X X
*/
func newJ() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{true, false, false},
			{true, true, true},
			{false, false, false},
		},
		Shape: J,
		Color: "#0000f0",
	}
}

/*
.	Spawn Location			.	Shape

.	0 1 2 3 4 5 6 7 8 9		.	0 1 2

0	X X X X X X O X X X		0	X X O

1	X X X X O O O X X X		1	O O O

2	X X X X X X X X X X		2	X X X
*/
func newL() *Tetromino {
	return &Tetromino{
		Grid: [][]bool{
			{false, false, true},
			{true, true, true},
			{false, false, false},
		},
		Shape: L,
		Color: "#f0a000",
	}
}
