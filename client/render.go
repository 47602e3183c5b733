package client

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"text/template"
	"touchtris/tetris"
)

const (
	// ASCII colors.
	Cyan    = "36"
	Blue    = "34"
	Orange  = "38;5;214"
	Yellow  = "33"
	Green   = "32"
	Red     = "31"
	Magenta = "35"

	resetPos = "\033[H" // Reset cursor position to 0,0

	emptyCell = "  "
	ghostCell = "[]"
)

//go:embed "layout.tmpl"
var layout string

var colorMap = map[tetris.Shape]string{
	tetris.I: Cyan,
	tetris.J: Blue,
	tetris.L: Orange,
	tetris.O: Yellow,
	tetris.S: Green,
	tetris.Z: Red,
	tetris.T: Magenta,
}

type templateData struct {
	Local   *tetris.Tetris
	Name    string
	NoGhost bool
}

type render struct {
	writer   io.Writer
	logger   *slog.Logger
	template *template.Template
	*templateData

	mu sync.Mutex
}

func newRender(l *slog.Logger, ng bool, name string) (*render, error) {
	tmp, err := loadTemplate()
	if err != nil {
		return nil, fmt.Errorf("failed to load template: %w", err)
	}
	return &render{
		writer:   os.Stdout,
		logger:   l,
		template: tmp,
		templateData: &templateData{
			Name:    name,
			NoGhost: ng,
		},
	}, nil
}

// message is the body of a box drawn over the board.
type message [3]string

func welcome() message {
	return message{
		"     Touchtris      ",
		"                    ",
		"   (p)lay  (q)uit   ",
	}
}

func gameOver(score int) message {
	return message{
		"    Game Over :)    ",
		center(fmt.Sprintf("score %d", score), 20),
		"   (p)lay  (q)uit   ",
	}
}

func paused() message {
	return message{
		"       Paused       ",
		"                    ",
		"   (p) to resume    ",
	}
}

// game draws the board for t, or an empty board when t is nil.
func (r *render) game(t *tetris.Tetris) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templateData.Local = t
	fmt.Fprint(r.writer, resetPos)
	if err := r.template.Execute(r.writer, r.templateData); err != nil {
		r.logger.Error("unable to execute template in game()", slog.String("error", err.Error()))
	}
	if t != nil && t.Status == tetris.Paused {
		r.box(paused())
	}
}

func (r *render) lobby(m message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.box(m)
}

func (r *render) box(m message) {
	fmt.Fprint(r.writer, "\033[9;2H+--------------------+")
	for i, line := range m {
		fmt.Fprintf(r.writer, "\033[%d;2H|%s|", 10+i, line)
	}
	fmt.Fprint(r.writer, "\033[13;2H+--------------------+")
}

func loadTemplate() (*template.Template, error) {
	funcMap := template.FuncMap{
		"localStack": localStack,
		"nextPiece":  nextPiece,
		"panel":      panel,
	}

	// the console is raw so new lines don't return the carriage, every new
	// line in the layout gets one.
	l := strings.ReplaceAll(layout, "\n", "\r\n")
	return template.New("layout").Funcs(funcMap).Parse(l)
}

func cell(s tetris.Shape) string {
	return fmt.Sprintf("\x1b[7m\x1b[%sm[]\x1b[0m", colorMap[s])
}

func localStack(t *templateData) [tetris.BoardHeight][tetris.BoardWidth]string {
	rendered := [tetris.BoardHeight][tetris.BoardWidth]string{}
	for y := range rendered {
		for x := range rendered[y] {
			rendered[y][x] = emptyCell
		}
	}
	if t == nil || t.Local == nil {
		return rendered
	}

	for y, row := range t.Local.Stack {
		for x, v := range row {
			if _, ok := colorMap[v]; ok {
				rendered[y][x] = cell(v)
			}
		}
	}

	tt := t.Local.Tetromino
	if tt == nil {
		return rendered
	}
	// the ghost goes first so the piece covers it when they overlap.
	if !t.NoGhost {
		paint(&rendered, tt, tt.GhostY, ghostCell)
	}
	paint(&rendered, tt, tt.Y, cell(tt.Shape))
	return rendered
}

// paint draws the cells of tt with its grid's top row at y. Cells above the
// board are skipped.
func paint(b *[tetris.BoardHeight][tetris.BoardWidth]string, tt *tetris.Tetromino, y int, s string) {
	for iy, row := range tt.Grid {
		for ix, v := range row {
			by, bx := y+iy, tt.X+ix
			if !v || by < 0 || by >= tetris.BoardHeight || bx < 0 || bx >= tetris.BoardWidth {
				continue
			}
			b[by][bx] = s
		}
	}
}

// nextPiece renders the top two rows of the next tetromino, which is where
// every shape keeps its cells when spawned.
func nextPiece(t *templateData) []string {
	rendered := []string{strings.Repeat(emptyCell, 4), strings.Repeat(emptyCell, 4)}
	if t == nil || t.Local == nil || t.Local.NextTetromino == nil {
		return rendered
	}
	next := t.Local.NextTetromino
	for i := range rendered {
		if i >= len(next.Grid) {
			break
		}
		row := []string{emptyCell, emptyCell, emptyCell, emptyCell}
		for iv, v := range next.Grid[i] {
			if v && iv < len(row) {
				row[iv] = cell(next.Shape)
			}
		}
		rendered[i] = strings.Join(row, "")
	}
	return rendered
}

// panel returns the text shown on the right of every board row.
func panel(t *templateData) [tetris.BoardHeight]string {
	var p [tetris.BoardHeight]string
	p[0] = "  \033[1mTouchtris\033[0m"
	if t == nil {
		return p
	}
	if t.Name != "" {
		p[1] = "  " + t.Name
	}
	if l := t.Local; l != nil {
		p[3] = "  Next:"
		for i, row := range nextPiece(t) {
			p[4+i] = "  " + row
		}
		p[7] = fmt.Sprintf("  Score: %-8d", l.Score)
		p[8] = fmt.Sprintf("  Level: %-8d", l.Level)
		p[9] = fmt.Sprintf("  Lines: %-8d", l.LinesClear)
		p[10] = fmt.Sprintf("  %-10s", l.Status)
	}
	p[12] = "  ← → ↓   move"
	p[13] = "  ↑       rotate"
	p[14] = "  space   drop"
	p[15] = "  p       pause"
	p[16] = "  ctrl+c  quit"
	return p
}

func center(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	left := (width - len(s)) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-len(s)-left)
}
