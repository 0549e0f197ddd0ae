package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDamageType = errors.New("unknown damage type")
	ErrInvalidShot       = errors.New("invalid shot")
)

// DamageType is the damage type column of weapon_data.csv.
type DamageType uint8

const (
	DamageKinetic DamageType = iota
	DamageHighExplosive
	DamageFragmentation
	DamageEnergy
)

// DamageTypeFactors holds the shield and armor multipliers of a damage type.
type DamageTypeFactors struct {
	Shield float64
	Armor  float64
}

var damageTypeFactors = [...]DamageTypeFactors{
	DamageKinetic:       {Shield: 2.0, Armor: 0.5},
	DamageHighExplosive: {Shield: 0.5, Armor: 2.0},
	DamageFragmentation: {Shield: 0.25, Armor: 0.25},
	DamageEnergy:        {Shield: 1.0, Armor: 1.0},
}

var damageTypeNames = [...]string{
	DamageKinetic:       "KINETIC",
	DamageHighExplosive: "HIGH_EXPLOSIVE",
	DamageFragmentation: "FRAGMENTATION",
	DamageEnergy:        "ENERGY",
}

func (t DamageType) String() string {
	if int(t) < len(damageTypeNames) {
		return damageTypeNames[t]
	}
	return fmt.Sprintf("DamageType(%d)", t)
}

// Factors returns the shield/armor multipliers of t.
func (t DamageType) Factors() DamageTypeFactors {
	return damageTypeFactors[t]
}

// ParseDamageType parses "KINETIC", "HIGH_EXPLOSIVE", "FRAGMENTATION" or "ENERGY",
// case-insensitively.
func ParseDamageType(s string) (DamageType, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range damageTypeNames {
		if name == s {
			return DamageType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDamageType, s)
}

// Shot is one projectile, missile or beam tick. Immutable once built.
type Shot struct {
	damage            float64
	damageType        DamageType
	beam              bool
	fluxHard          bool
	armorDamageFactor float64
	shieldDamage      float64
	armorDamage       float64
	strength          float64
}

// NewShot derives shield damage, armor damage and armor-penetration strength.
// Beam strength is half the armor damage. Non-positive damage is rejected: the
// armor reduction formula divides by strength.
func NewShot(damage float64, damageType DamageType, beam, fluxHard bool) (Shot, error) {
	if !(damage > 0) {
		return Shot{}, fmt.Errorf("%w: damage %v", ErrInvalidShot, damage)
	}
	if int(damageType) >= len(damageTypeFactors) {
		return Shot{}, fmt.Errorf("%w: %d", ErrUnknownDamageType, damageType)
	}

	f := damageType.Factors()
	s := Shot{
		damage:            damage,
		damageType:        damageType,
		beam:              beam,
		fluxHard:          fluxHard,
		armorDamageFactor: f.Armor,
		shieldDamage:      damage * f.Shield,
		armorDamage:       damage * f.Armor,
	}
	s.strength = s.armorDamage
	if beam {
		s.strength *= 0.5
	}
	return s, nil
}

func (s Shot) Damage() float64            { return s.damage }
func (s Shot) DamageType() DamageType     { return s.damageType }
func (s Shot) Beam() bool                 { return s.beam }
func (s Shot) FluxHard() bool             { return s.fluxHard }
func (s Shot) ShieldDamage() float64      { return s.shieldDamage }
func (s Shot) ArmorDamage() float64       { return s.armorDamage }
func (s Shot) ArmorDamageFactor() float64 { return s.armorDamageFactor }

// Strength is the hit strength used against pooled armor.
func (s Shot) Strength() float64 { return s.strength }
