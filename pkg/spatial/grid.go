// Package spatial implements a uniform 2D spatial hash grid: a fixed
// Nx×Ny array of cells, each holding the set of entity ids whose
// occupancy currently covers that cell. It supports insert, update,
// remove, and radius queries with bounded per-cell allocation.
package spatial

import "github.com/soeframe/soeframe/pkg/metrics"

// Bounds describes the world rectangle the grid covers.
type Bounds struct {
	X0, X1 float32
	Y0, Y1 float32
}

// CellIndex is a single (ix, iy) grid coordinate.
type CellIndex struct {
	X, Y int
}

// Occupancy records the 2×2 (or smaller) block of cells an entity
// currently occupies. Removal uses this recorded block rather than
// recomputing from the entity's current position, so a stale update
// can never remove the wrong cells.
type Occupancy struct {
	Min CellIndex
	Max CellIndex
}

// Grid is a uniform 2D spatial hash over a fixed world rectangle.
// It is not safe for concurrent use; callers needing concurrent
// access should synchronize externally (the natural lock granularity
// is a single cell, since each insert or remove touches at most four).
type Grid struct {
	bounds Bounds
	nx, ny int
	cells  [][]uint64 // flat Nx*Ny array of id slices used as small sets
	count  int

	// Metrics is consulted on every mutation and query if non-nil;
	// leave it nil for zero overhead.
	Metrics metrics.GridMetrics
}

// NewGrid allocates an empty grid with nx×ny cells over bounds. Both
// nx and ny must be at least 1.
func NewGrid(bounds Bounds, nx, ny int) *Grid {
	return &Grid{
		bounds: bounds,
		nx:     nx,
		ny:     ny,
		cells:  make([][]uint64, nx*ny),
	}
}

func sat(v float32) float32 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// cellIndex maps a world position to the cell it falls in, clamping
// out-of-bounds positions to the boundary cells. The denominator uses
// (N-1), not N: this is the source formula's own normalization, not a
// typo, and it means the last cell along each axis is reached only at
// the exact upper bound.
func (g *Grid) cellIndex(x, y float32) CellIndex {
	u := sat((x - g.bounds.X0) / (g.bounds.X1 - g.bounds.X0))
	v := sat((y - g.bounds.Y0) / (g.bounds.Y1 - g.bounds.Y0))
	ix := int(u * float32(g.nx-1))
	iy := int(v * float32(g.ny-1))
	return CellIndex{X: ix, Y: iy}
}

func (g *Grid) index(ix, iy int) int {
	return ix*g.ny + iy
}

func (g *Grid) cellAt(ix, iy int) []uint64 {
	return g.cells[g.index(ix, iy)]
}

func (g *Grid) addTo(ix, iy int, id uint64) {
	i := g.index(ix, iy)
	for _, existing := range g.cells[i] {
		if existing == id {
			return
		}
	}
	g.cells[i] = append(g.cells[i], id)
}

func (g *Grid) removeFrom(ix, iy int, id uint64) {
	i := g.index(ix, iy)
	cell := g.cells[i]
	for idx, existing := range cell {
		if existing == id {
			cell[idx] = cell[len(cell)-1]
			g.cells[i] = cell[:len(cell)-1]
			return
		}
	}
}

// Insert places id at position, computing its occupancy from a
// unit-sized box (scale 1.0) centered at position, and returns that
// occupancy for later use with Remove/Update.
func (g *Grid) Insert(id uint64, x, y float32) Occupancy {
	const scale = 1.0
	min := g.cellIndex(x-scale/2, y-scale/2)
	max := g.cellIndex(x+scale/2, y+scale/2)
	occ := Occupancy{Min: min, Max: max}
	touched := 0
	g.forEachCell(occ, func(ix, iy int) {
		g.addTo(ix, iy, id)
		touched++
	})
	g.count++
	metrics.RecordEntityCount(g.Metrics, g.count)
	metrics.RecordCellsTouched(g.Metrics, "insert", touched)
	return occ
}

// Remove erases id from every cell recorded in occ.
func (g *Grid) Remove(occ Occupancy, id uint64) {
	touched := 0
	g.forEachCell(occ, func(ix, iy int) {
		g.removeFrom(ix, iy, id)
		touched++
	})
	if g.count > 0 {
		g.count--
	}
	metrics.RecordEntityCount(g.Metrics, g.count)
	metrics.RecordCellsTouched(g.Metrics, "remove", touched)
}

// Update removes id from its old occupancy and reinserts it at the new
// position, returning the new occupancy.
func (g *Grid) Update(id uint64, x, y float32, old Occupancy) Occupancy {
	g.Remove(old, id)
	return g.Insert(id, x, y)
}

// FindNearby returns the deduplicated set of entity ids in every cell
// that the L∞-ball of side 2*radius centered at (x,y) touches. With
// radius 0 this still returns the entities sharing the center's own
// cell; positions outside world bounds degrade gracefully to the
// boundary cells via cellIndex's clamp.
func (g *Grid) FindNearby(x, y, radius float32) []uint64 {
	min := g.cellIndex(x-radius, y-radius)
	max := g.cellIndex(x+radius, y+radius)

	seen := make(map[uint64]struct{})
	var out []uint64
	occ := Occupancy{Min: min, Max: max}
	touched := 0
	g.forEachCell(occ, func(ix, iy int) {
		touched++
		for _, id := range g.cellAt(ix, iy) {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	})
	metrics.RecordCellsTouched(g.Metrics, "find_nearby", touched)
	return out
}

// forEachCell visits every cell in the rectangle spanned by occ, which
// may be as small as 1×1 when both corners map to the same cell.
func (g *Grid) forEachCell(occ Occupancy, fn func(ix, iy int)) {
	xMin, xMax := occ.Min.X, occ.Max.X
	if xMax < xMin {
		xMin, xMax = xMax, xMin
	}
	yMin, yMax := occ.Min.Y, occ.Max.Y
	if yMax < yMin {
		yMin, yMax = yMax, yMin
	}
	for ix := xMin; ix <= xMax; ix++ {
		for iy := yMin; iy <= yMax; iy++ {
			fn(ix, iy)
		}
	}
}
