package combat

import (
	"math"

	"github.com/udisondev/statsector/internal/model"
)

// Uniform returns a distribution that hits each of width cells with equal probability.
func Uniform(width int) model.DistributionFunc {
	p := 0.0
	if width > 0 {
		p = 1 / float64(width)
	}
	return func(float64) float64 { return p }
}

// Constant returns a distribution with the same probability for every cell.
func Constant(p float64) model.DistributionFunc {
	return func(float64) float64 { return p }
}

// NormalSpread models shots normally distributed around Mean with StdDev, in pixels
// along the armor strip. Each cell covers [bound, bound+CellSize).
type NormalSpread struct {
	Mean     float64
	StdDev   float64
	CellSize float64
}

// Func returns the probability of landing in each cell.
// A zero StdDev puts every shot on the cell containing Mean.
func (n NormalSpread) Func() model.DistributionFunc {
	return func(bound float64) float64 {
		lo, hi := bound, bound+n.CellSize
		if n.StdDev <= 0 {
			if n.Mean >= lo && n.Mean < hi {
				return 1
			}
			return 0
		}
		return normalCDF(hi, n.Mean, n.StdDev) - normalCDF(lo, n.Mean, n.StdDev)
	}
}

func normalCDF(x, mean, sd float64) float64 {
	return 0.5 * (1 + math.Erf((x-mean)/(sd*math.Sqrt2)))
}

// CentredSpread aims a NormalSpread at the middle of the ship's armor strip.
func CentredSpread(grid *model.ArmorGrid, stdDev float64) NormalSpread {
	return NormalSpread{
		Mean:     float64(grid.Width()) * grid.CellSize() / 2,
		StdDev:   stdDev,
		CellSize: grid.CellSize(),
	}
}
