package combat

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/statsector/internal/model"
)

// Simulator fires shots at random armor cells. It is the stochastic reference
// the expected-value model is checked against.
type Simulator struct {
	rng *rand.Rand
}

// NewSimulator returns a simulator with a deterministic seed.
func NewSimulator(seed uint64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// SimulateHit lands one full shot on the cell at index, reduced by the armor pooled there.
// Armor driven below zero becomes hull damage as in DamageShip.
func SimulateHit(shot model.Shot, ship *model.Ship, index int) error {
	grid := ship.ArmorGrid()
	pooled, err := grid.Pool(index)
	if err != nil {
		return err
	}
	pooled = math.Max(grid.MinimumArmor(), pooled)
	factor := math.Max(model.MinimumDamageFactor, 1/(1+pooled/shot.Strength()))

	if err := grid.Damage(index, shot.ArmorDamage()*factor); err != nil {
		return err
	}
	ship.TakeHullDamage(grid.Overflow() / shot.ArmorDamageFactor())
	grid.ClampNegative()
	return nil
}

// SimulationReport compares the expected firing count with simulated trials.
type SimulationReport struct {
	Trials          int
	ExpectedFirings int
	MeanFirings     float64
	// HullRMS is the root mean square hull left after ExpectedFirings simulated
	// hits, 0 when every trial is destroyed by then.
	HullRMS             float64
	CalculationDuration time.Duration
	SimulationDuration  time.Duration
}

// Run destroys trials copies of target with uniformly random hits and compares the
// mean firing count with FiringsToDestroy under a uniform distribution.
func (s *Simulator) Run(shot model.Shot, target *model.Ship, trials, limit int) (SimulationReport, error) {
	width := target.ArmorGrid().Width()
	report := SimulationReport{Trials: trials}

	start := time.Now()
	expected, err := FiringsToDestroy(shot, target, Uniform(width), limit)
	if err != nil {
		return report, fmt.Errorf("calculating firings: %w", err)
	}
	report.ExpectedFirings = expected
	report.CalculationDuration = time.Since(start)

	start = time.Now()
	var firings int
	var hullSquares float64
	for range trials {
		ship := target.Clone()
		n := 0
		for !ship.IsDestroyed() && n < limit {
			if err := SimulateHit(shot, ship, s.rng.IntN(width)); err != nil {
				return report, err
			}
			n++
			if n == expected {
				hullSquares += ship.Hull * ship.Hull
			}
		}
		firings += n
	}
	report.SimulationDuration = time.Since(start)

	if trials > 0 {
		report.MeanFirings = float64(firings) / float64(trials)
		report.HullRMS = math.Sqrt(hullSquares / float64(trials))
	}

	slog.Debug("simulation finished",
		"ship", target.ID,
		"trials", trials,
		"expected_firings", report.ExpectedFirings,
		"mean_firings", report.MeanFirings,
		"hull_rms", report.HullRMS)
	return report, nil
}
