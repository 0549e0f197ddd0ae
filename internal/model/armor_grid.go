package model

import (
	"errors"
	"fmt"
	"math"
)

// Armor grid constants.
const (
	// MinimumArmorFactor × armor rating is the floor of pooled armor.
	MinimumArmorFactor = 0.05
	// MinimumDamageFactor is the least multiplier armor can apply to incoming damage.
	MinimumDamageFactor = 0.15
	// ArmorRatingPerCellFactor × armor rating is the initial value of every cell.
	ArmorRatingPerCellFactor = 1.0 / 15.0

	// GridRows is the strip height: one armor row with two padding rows above and below.
	GridRows = 5
	// GridPadding is the number of padding columns on each side of the strip.
	GridPadding = 2

	kernelSize = 5
)

var (
	ErrInvalidGrid         = errors.New("invalid armor grid")
	ErrIndexOutOfRange     = errors.New("armor cell index out of range")
	ErrNonPositiveStrength = errors.New("hit strength must be positive")
)

// PoolingWeights is the 5×5 pooling kernel: corners 0, edges 0.5, centre block 1.
// The same kernel, scaled by ArmorRatingPerCellFactor, spreads damage to neighbours.
var PoolingWeights = [kernelSize][kernelSize]float64{
	{0.0, 0.5, 0.5, 0.5, 0.0},
	{0.5, 1.0, 1.0, 1.0, 0.5},
	{0.5, 1.0, 1.0, 1.0, 0.5},
	{0.5, 1.0, 1.0, 1.0, 0.5},
	{0.0, 0.5, 0.5, 0.5, 0.0},
}

// PoolingWeightSum is the sum of PoolingWeights (15).
var PoolingWeightSum = func() float64 {
	var s float64
	for _, row := range PoolingWeights {
		for _, w := range row {
			s += w
		}
	}
	return s
}()

// ArmorGrid is a horizontal frontal strip of armor cells.
// Cells are stored row-major: GridRows rows of width+2*GridPadding columns.
// Index arguments address the non-padding cells of the middle row, 0..width-1;
// the 5×5 window of index i spans columns i..i+4.
type ArmorGrid struct {
	armorRating  float64
	cellSize     float64
	width        int
	cols         int
	minimumArmor float64
	cells        []float64
	bounds       []float64
}

// NewArmorGrid creates a grid for a ship of this armor rating.
// cellSize is the edge of a square cell in pixels, width the number of cells.
func NewArmorGrid(armorRating, cellSize float64, width int) (*ArmorGrid, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: width %d", ErrInvalidGrid, width)
	}
	if cellSize <= 0 || math.IsNaN(cellSize) {
		return nil, fmt.Errorf("%w: cell size %v", ErrInvalidGrid, cellSize)
	}
	if armorRating < 0 || math.IsNaN(armorRating) {
		return nil, fmt.Errorf("%w: armor rating %v", ErrInvalidGrid, armorRating)
	}

	cols := width + 2*GridPadding
	g := &ArmorGrid{
		armorRating:  armorRating,
		cellSize:     cellSize,
		width:        width,
		cols:         cols,
		minimumArmor: MinimumArmorFactor * armorRating,
		cells:        make([]float64, GridRows*cols),
		bounds:       make([]float64, width),
	}

	perCell := armorRating * ArmorRatingPerCellFactor
	for i := range g.cells {
		g.cells[i] = perCell
	}
	for i := range g.bounds {
		g.bounds[i] = float64(i) * cellSize
	}
	return g, nil
}

// ArmorRating returns the rating the grid was built from.
func (g *ArmorGrid) ArmorRating() float64 { return g.armorRating }

// CellSize returns the cell edge in pixels.
func (g *ArmorGrid) CellSize() float64 { return g.cellSize }

// Width returns the number of non-padding cells.
func (g *ArmorGrid) Width() int { return g.width }

// Rows returns GridRows.
func (g *ArmorGrid) Rows() int { return GridRows }

// Cols returns the padded column count.
func (g *ArmorGrid) Cols() int { return g.cols }

// MinimumArmor returns the floor applied to pooled armor.
func (g *ArmorGrid) MinimumArmor() float64 { return g.minimumArmor }

// Cell returns the value at (row, col) of the padded grid.
func (g *ArmorGrid) Cell(row, col int) float64 {
	return g.cells[row*g.cols+col]
}

func (g *ArmorGrid) setCell(row, col int, v float64) {
	g.cells[row*g.cols+col] = v
}

// Cells returns a copy of the padded grid as rows.
func (g *ArmorGrid) Cells() [][]float64 {
	out := make([][]float64, GridRows)
	for r := range out {
		out[r] = append([]float64(nil), g.cells[r*g.cols:(r+1)*g.cols]...)
	}
	return out
}

// Bounds returns the x position of each non-padding cell: Bounds()[i] = i × cellSize.
func (g *ArmorGrid) Bounds() []float64 {
	return append([]float64(nil), g.bounds...)
}

// Total returns the sum of all cells.
func (g *ArmorGrid) Total() float64 {
	var s float64
	for _, v := range g.cells {
		s += v
	}
	return s
}

func (g *ArmorGrid) checkIndex(index int) error {
	if index < 0 || index >= g.width {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, g.width)
	}
	return nil
}

// Pool returns the armor pooled around the cell at index.
func (g *ArmorGrid) Pool(index int) (float64, error) {
	if err := g.checkIndex(index); err != nil {
		return 0, err
	}
	return g.pool(index), nil
}

func (g *ArmorGrid) pool(index int) float64 {
	var sum float64
	for r := 0; r < kernelSize; r++ {
		row := g.cells[r*g.cols+index : r*g.cols+index+kernelSize]
		for c, v := range row {
			sum += PoolingWeights[r][c] * v
		}
	}
	return sum
}

// PooledValues returns max(minimum armor, pooled armor) for every non-padding cell.
func (g *ArmorGrid) PooledValues() []float64 {
	out := make([]float64, g.width)
	for i := range out {
		out[i] = math.Max(g.minimumArmor, g.pool(i))
	}
	return out
}

// DamageFactors returns the multiplier applied to a hit of this strength on each cell:
// max(MinimumDamageFactor, 1 / (1 + pooled / hitStrength)).
func (g *ArmorGrid) DamageFactors(hitStrength float64) ([]float64, error) {
	if !(hitStrength > 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonPositiveStrength, hitStrength)
	}
	pooled := g.PooledValues()
	for i, p := range pooled {
		pooled[i] = math.Max(MinimumDamageFactor, 1/(1+p/hitStrength))
	}
	return pooled, nil
}

// Damage subtracts damage × ArmorRatingPerCellFactor × PoolingWeights from the window at index.
// Cells may go negative; see Overflow and ClampNegative.
func (g *ArmorGrid) Damage(index int, damage float64) error {
	if err := g.checkIndex(index); err != nil {
		return err
	}
	scale := damage * ArmorRatingPerCellFactor
	for r := 0; r < kernelSize; r++ {
		row := g.cells[r*g.cols+index : r*g.cols+index+kernelSize]
		for c := range row {
			row[c] -= scale * PoolingWeights[r][c]
		}
	}
	return nil
}

// Overflow returns the sum of all negative cells (≤ 0).
func (g *ArmorGrid) Overflow() float64 {
	var s float64
	for _, v := range g.cells {
		if v < 0 {
			s += v
		}
	}
	return s
}

// ClampNegative raises every negative cell to zero.
func (g *ArmorGrid) ClampNegative() {
	for i, v := range g.cells {
		if v < 0 {
			g.cells[i] = 0
		}
	}
}

// Clone returns a deep copy.
func (g *ArmorGrid) Clone() *ArmorGrid {
	c := *g
	c.cells = append([]float64(nil), g.cells...)
	c.bounds = append([]float64(nil), g.bounds...)
	return &c
}
