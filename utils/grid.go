package utils

// Grid maps between flat sample indexes and the points of a regular lattice
// over a rectangular region, for evaluating fields over slices and rendering
// them.
//
// Cells are stored such that the oscillation frequency of the dimensions
// decreases as the index in Dims increases: z{y{x, x}, y{x, x}}, accessed as
// [x, y, z].
//
// The fields are public in order to allow exporting to JSON, but they should
// not be altered once the Grid has been initialized.
type Grid struct {
	// the number of cells along each dimension
	Dims []int

	// the world-coordinate bounds of the region, one pair per dimension
	Lo, Hi []float64

	// the number of cells encapsulated by a 'set' of each dimension
	// -- Sizes[0] = Dims[0]; Sizes[end] = Size()
	// Sizes is filled by the constructor and should not be provided
	Sizes []int
}

// NewGrid creates a lattice of dims cells spanning [lo, hi] in each
// dimension. Assumes len(dims) == len(lo) == len(hi) and every dim ≥ 1.
func NewGrid(dims []int, lo, hi []float64) *Grid {
	g := &Grid{
		Dims:  dims,
		Lo:    lo,
		Hi:    hi,
		Sizes: make([]int, len(dims)),
	}

	g.Sizes[0] = g.Dims[0]
	for i := 1; i < len(g.Sizes); i++ {
		g.Sizes[i] = g.Sizes[i-1] * g.Dims[i]
	}

	return g
}

// Index returns the flat index corresponding to the given cell.
// Assumes the cell has the same number of dimensions as 'g'.
func (g *Grid) Index(cell []int) int {
	index := cell[0]
	for i := 1; i < len(g.Sizes); i++ {
		index += cell[i] * g.Sizes[i-1]
	}

	return index
}

// Cell returns the multi-dimensional cell leading to the given flat index.
// Assumes the index is in bounds.
func (g *Grid) Cell(index int) []int {
	c := make([]int, len(g.Dims))
	for i := len(c) - 1; i >= 1; i-- { // doesn't go to 0
		c[i] = index / g.Sizes[i-1]
		index = index % g.Sizes[i-1]
	}

	c[0] = index
	return c
}

// Point returns the world coordinates of the center of the cell at the given
// flat index.
func (g *Grid) Point(index int) []float64 {
	cell := g.Cell(index)
	p := make([]float64, len(cell))
	for i := range cell {
		w := (g.Hi[i] - g.Lo[i]) / float64(g.Dims[i])
		p[i] = g.Lo[i] + (float64(cell[i])+0.5)*w
	}

	return p
}

// Size returns the total number of cells.
func (g *Grid) Size() int {
	return g.Sizes[len(g.Sizes)-1]
}

// Dim returns the number of cells along dimension d.
func (g *Grid) Dim(d int) int {
	return g.Dims[d]
}
