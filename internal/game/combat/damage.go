package combat

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/udisondev/statsector/internal/model"
)

var (
	ErrNoShot         = errors.New("weapon has no shot")
	ErrNoDistribution = errors.New("weapon has no hit distribution")
	ErrNotDistributed = errors.New("distribution does not match armor grid")
	ErrFiringLimit    = errors.New("target survived firing limit")
)

// Distribution is the hit probability and expected base armor damage of one shot
// over each armor cell of one target. It replaces per-target state on the shot,
// so a Shot can be resolved against any number of ships.
type Distribution struct {
	Probabilities       []float64
	ExpectedArmorDamage []float64
}

// Distribute spreads hit probability, and accordingly expected base armor damage,
// over every armor cell of the ship.
func Distribute(shot model.Shot, ship *model.Ship, fn model.DistributionFunc) Distribution {
	bounds := ship.ArmorGrid().Bounds()
	d := Distribution{
		Probabilities:       make([]float64, len(bounds)),
		ExpectedArmorDamage: make([]float64, len(bounds)),
	}
	for i, b := range bounds {
		p := fn(b)
		d.Probabilities[i] = p
		d.ExpectedArmorDamage[i] = shot.ArmorDamage() * p
	}
	return d
}

// DamageArmorGrid distributes damage across the grid centred on cell i.
// May leave cells below zero.
func DamageArmorGrid(grid *model.ArmorGrid, damage float64, i int) error {
	return grid.Damage(i, damage)
}

// Outcome reports what one DamageShip call did to its target.
type Outcome struct {
	// ArmorDamage is the pooled-armor-reduced damage spread over the grid.
	ArmorDamage float64
	// HullDamage is the armor overflow converted to hull hitpoints (≥ 0).
	HullDamage float64
	Hull       float64
	Destroyed  bool
}

// DamageShip applies the expected armor and hull damage of a distributed shot.
//
// Expected damage per cell is reduced by the grid's damage factors, spread with
// the pooling kernel, and any armor driven below zero is converted back to raw
// damage and taken from hull. Shields are not modelled: the shot always strikes armor.
func DamageShip(shot model.Shot, dist Distribution, ship *model.Ship) (Outcome, error) {
	grid := ship.ArmorGrid()
	if len(dist.ExpectedArmorDamage) != grid.Width() {
		return Outcome{}, fmt.Errorf("%w: %d cells, grid width %d",
			ErrNotDistributed, len(dist.ExpectedArmorDamage), grid.Width())
	}

	factors, err := grid.DamageFactors(shot.Strength())
	if err != nil {
		return Outcome{}, err
	}

	var out Outcome
	for i, expected := range dist.ExpectedArmorDamage {
		damage := expected * factors[i]
		if err := DamageArmorGrid(grid, damage, i); err != nil {
			return Outcome{}, err
		}
		out.ArmorDamage += damage
	}

	hullDamage := grid.Overflow() / shot.ArmorDamageFactor()
	ship.TakeHullDamage(hullDamage)
	grid.ClampNegative()

	out.HullDamage = -hullDamage
	out.Hull = ship.Hull
	out.Destroyed = ship.IsDestroyed()
	return out, nil
}

// Resolve distributes the shot over the ship and applies the expected damage.
func Resolve(shot model.Shot, ship *model.Ship, fn model.DistributionFunc) (Outcome, error) {
	return DamageShip(shot, Distribute(shot, ship, fn), ship)
}

// Fire resolves one firing of the weapon's shot against the ship.
func Fire(w *model.Weapon, ship *model.Ship) (Outcome, error) {
	if w.Shot == nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrNoShot, w.ID)
	}
	if w.Distribution == nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrNoDistribution, w.ID)
	}
	out, err := Resolve(*w.Shot, ship, w.Distribution)
	if err != nil {
		return Outcome{}, fmt.Errorf("firing %q at %q: %w", w.ID, ship.ID, err)
	}
	return out, nil
}

// FiringsToDestroy repeatedly resolves the shot against a copy of the ship and
// returns how many firings bring its hull to zero. The ship itself is not modified.
func FiringsToDestroy(shot model.Shot, ship *model.Ship, fn model.DistributionFunc, limit int) (int, error) {
	target := ship.Clone()
	dist := Distribute(shot, target, fn)

	for n := 1; n <= limit; n++ {
		out, err := DamageShip(shot, dist, target)
		if err != nil {
			return 0, err
		}
		if out.Destroyed {
			return n, nil
		}
	}

	slog.Debug("firing limit reached before destruction",
		"ship", ship.ID,
		"limit", limit,
		"hull", math.Round(target.Hull))
	return limit, fmt.Errorf("%w: %d firings", ErrFiringLimit, limit)
}
