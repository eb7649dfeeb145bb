package gridworld

import (
	"fmt"
	"math"
	"sync"

	"github.com/katalvlaran/cbsplan/dijkstra"
)

var (
	offsets4 = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	offsets8 = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

// World treats a 2D integer grid as a space-time environment. Its grid is
// immutable once built; the only mutable part is the lazily filled distance
// table cache, which is safe for concurrent use.
// Width and Height define dimensions; CellValues[y][x] holds the original input value.
type World struct {
	Width, Height int
	CellValues    [][]int
	opts          Options
	offsets       [][2]int

	mu    sync.RWMutex
	table map[int][]float64 // goal cell index → static distance to it

	regionsOnce sync.Once
	regions     []int // cell index → region label, -1 for blocked cells
}

// NewWorld constructs a World from a non-empty, rectangular 2D slice.
// It deep-copies the input to ensure immutability.
// Returns ErrEmptyGrid, ErrNonRectangular, ErrBadWaitCost or ErrBadHorizon.
// Algorithmic complexity: O(W×H) time and memory.
func NewWorld(values [][]int, opts Options) (*World, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(values), len(values[0])
	for y, row := range values {
		if len(row) != w {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNonRectangular, y, len(row), w)
		}
	}
	if opts.WaitCost < 0 || math.IsNaN(opts.WaitCost) {
		return nil, ErrBadWaitCost
	}
	if opts.Horizon < 0 {
		return nil, ErrBadHorizon
	}
	cells := make([][]int, h)
	for y := 0; y < h; y++ {
		cells[y] = make([]int, w)
		copy(cells[y], values[y])
	}
	if opts.Horizon == 0 {
		opts.Horizon = 4 * w * h
	}
	wd := &World{
		Width:      w,
		Height:     h,
		CellValues: cells,
		opts:       opts,
		offsets:    offsets4,
		table:      make(map[int][]float64),
	}
	if opts.Conn == Conn8 {
		wd.offsets = offsets8
	}

	return wd, nil
}

// ParseRows converts text rows into cell values: '.' is 0, '#' is 1 and a
// digit is its value. Row lengths are not checked here; NewWorld does that.
func ParseRows(rows []string) ([][]int, error) {
	grid := make([][]int, len(rows))
	for y, row := range rows {
		grid[y] = make([]int, 0, len(row))
		for x, ch := range row {
			switch {
			case ch == '.':
				grid[y] = append(grid[y], 0)
			case ch == '#':
				grid[y] = append(grid[y], 1)
			case ch >= '0' && ch <= '9':
				grid[y] = append(grid[y], int(ch-'0'))
			default:
				return nil, fmt.Errorf("%w: %q at (%d,%d)", ErrBadCell, ch, x, y)
			}
		}
	}

	return grid, nil
}

// Options returns the effective options (with Horizon resolved).
func (w *World) Options() Options { return w.opts }

// InBounds reports whether (x,y) lies within the grid boundaries.
// Complexity: O(1).
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// Free reports whether (x,y) is inside the grid and not an obstacle.
func (w *World) Free(x, y int) bool {
	return w.InBounds(x, y) && w.CellValues[y][x] < w.opts.ObstacleThreshold
}

// Check returns ErrOutOfBounds or ErrBlocked when s cannot be occupied, and
// ErrBadHorizon when its tick lies outside [0, Horizon].
func (w *World) Check(s State) error {
	if !w.InBounds(s.X, s.Y) {
		return fmt.Errorf("%w: %v in %dx%d grid", ErrOutOfBounds, s, w.Width, w.Height)
	}
	if !w.Free(s.X, s.Y) {
		return fmt.Errorf("%w: %v", ErrBlocked, s)
	}
	if s.T < 0 || s.T > w.opts.Horizon {
		return fmt.Errorf("%w: tick %d outside [0,%d]", ErrBadHorizon, s.T, w.opts.Horizon)
	}

	return nil
}

// index maps (x,y) to a row‑major index: y*Width + x.
// Complexity: O(1).
func (w *World) index(x, y int) int {
	return y*w.Width + x
}

// Coordinate converts a row‑major index back to (x,y).
// Complexity: O(1).
func (w *World) Coordinate(idx int) (x, y int) {
	return idx % w.Width, idx / w.Width
}

// Order implements dijkstra.Graph: one vertex per cell.
func (w *World) Order() int { return w.Width * w.Height }

// Arcs implements dijkstra.Graph over free cells. Moves are symmetric, so the
// graph is its own reverse and a search from a goal yields distances to it.
func (w *World) Arcs(v int, buf []dijkstra.Arc) []dijkstra.Arc {
	x, y := w.Coordinate(v)
	if !w.Free(x, y) {
		return buf
	}
	for _, d := range w.offsets {
		nx, ny := x+d[0], y+d[1]
		if !w.Free(nx, ny) {
			continue
		}
		buf = append(buf, dijkstra.Arc{To: w.index(nx, ny), Weight: stepCost(d[0], d[1])})
	}

	return buf
}

// DistanceTable returns the static shortest distance from every cell to
// (x,y), +Inf for cells that cannot reach it. Tables are computed once per
// goal and cached.
//
// Complexity: O(W·H·log(W·H)) on first use, O(1) afterwards.
func (w *World) DistanceTable(x, y int) ([]float64, error) {
	if !w.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	goal := w.index(x, y)
	w.mu.RLock()
	t, ok := w.table[goal]
	w.mu.RUnlock()
	if ok {
		return t, nil
	}

	t, err := dijkstra.Dijkstra(w, dijkstra.Source(goal))
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	if prev, ok := w.table[goal]; ok {
		t = prev
	} else {
		w.table[goal] = t
	}
	w.mu.Unlock()

	return t, nil
}

// stepCost is the cost of one move by (dx, dy); a zero move is a wait and is
// priced by the caller.
func stepCost(dx, dy int) float64 {
	if dx != 0 && dy != 0 {
		return math.Sqrt2
	}

	return 1
}
