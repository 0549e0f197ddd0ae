package model

import (
	"fmt"
	"math"
)

// Ship record attributes.
const (
	AttrHitpoints       = "hitpoints"
	AttrMaxFlux         = "max flux"
	AttrFluxDissipation = "flux dissipation"
	AttrHeight          = "height"
	AttrWidth           = "width"
	AttrArmorRating     = "armor rating"
	AttrName            = "name"
)

// ArmorCellSize returns the armor cell edge for a hull of this height in pixels:
// 15 below 150, height/10 below 300, 30 otherwise.
func ArmorCellSize(height float64) float64 {
	switch {
	case height < 150:
		return 15
	case height < 300:
		return height / 10
	default:
		return 30
	}
}

// Ship is the target of expected-damage calculations.
// Hull and flux are mutated in place while combat is resolved.
type Ship struct {
	ID   string
	Name string

	Hull            float64
	FluxCapacity    float64
	FluxDissipation float64
	HardFlux        float64
	SoftFlux        float64

	armorGrid *ArmorGrid
	weapons   []*Weapon
}

// NewShip builds a ship from a ship_data.csv row merged with its .ship file.
func NewShip(rec Record) (*Ship, error) {
	hull, err := rec.Float(AttrHitpoints)
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}
	fluxCap, err := rec.Float(AttrMaxFlux)
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}
	fluxDiss, err := rec.Float(AttrFluxDissipation)
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}
	height, err := rec.Float(AttrHeight)
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}
	width, err := rec.Float(AttrWidth)
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}
	armor, err := rec.Float(AttrArmorRating)
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}

	cellSize := ArmorCellSize(height)
	grid, err := NewArmorGrid(armor, cellSize, int(width/cellSize))
	if err != nil {
		return nil, fmt.Errorf("ship %q: %w", rec.ID(), err)
	}

	name, _ := rec.String(AttrName)
	s := NewShipWithGrid(grid, hull, fluxCap, fluxDiss)
	s.ID = rec.ID()
	s.Name = name
	return s, nil
}

// NewShipWithGrid builds a ship around an existing grid.
func NewShipWithGrid(grid *ArmorGrid, hull, fluxCapacity, fluxDissipation float64) *Ship {
	return &Ship{
		Hull:            hull,
		FluxCapacity:    fluxCapacity,
		FluxDissipation: fluxDissipation,
		armorGrid:       grid,
	}
}

// ArmorGrid returns the ship's armor grid.
func (s *Ship) ArmorGrid() *ArmorGrid { return s.armorGrid }

// Weapons returns the mounted weapons in mount order.
func (s *Ship) Weapons() []*Weapon { return s.weapons }

// AddWeapon mounts a weapon.
func (s *Ship) AddWeapon(w *Weapon) {
	s.weapons = append(s.weapons, w)
}

// WillOverload reports whether hard or soft flux exceeds capacity.
func (s *Ship) WillOverload() bool {
	return s.HardFlux > s.FluxCapacity || s.SoftFlux > s.FluxCapacity
}

// Overloaded reports the overload state. Overload duration is not tracked,
// so this is the same as WillOverload.
func (s *Ship) Overloaded() bool {
	return s.WillOverload()
}

// ShieldUp presumes the shield is raised whenever the ship is not overloaded.
func (s *Ship) ShieldUp() bool {
	return !s.Overloaded()
}

// TakeHullDamage adds delta (negative for damage) to hull, flooring at zero.
func (s *Ship) TakeHullDamage(delta float64) {
	s.Hull = math.Max(0, s.Hull+delta)
}

// IsDestroyed reports whether hull is depleted.
func (s *Ship) IsDestroyed() bool {
	return s.Hull <= 0
}

// Clone copies hull, flux and armor state. Weapons are shared.
func (s *Ship) Clone() *Ship {
	c := *s
	c.armorGrid = s.armorGrid.Clone()
	c.weapons = append([]*Weapon(nil), s.weapons...)
	return &c
}
