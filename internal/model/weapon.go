package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Weapon record attributes.
const (
	AttrChargeUp     = "chargeup"
	AttrChargeDown   = "chargedown"
	AttrBurstSize    = "burst size"
	AttrBurstDelay   = "burst delay"
	AttrAmmo         = "ammo"
	AttrAmmoRegen    = "ammo regen"
	AttrAmmoPerSec   = "ammo/sec" // weapon_data.csv spelling of AttrAmmoRegen
	AttrReloadSize   = "reload size"
	AttrProjSpeed    = "proj speed"
	AttrBeamSpeed    = "beam speed"
	AttrSpecClass    = "specClass"
	AttrType         = "type"
	AttrDamageType   = "damage type"
	AttrDamageShot   = "damage/shot"
	AttrDamageSecond = "damage/second"
)

// MinimumRefireDelay: the game never fires a weapon more than once per 0.05 s.
const MinimumRefireDelay = 50 * time.Millisecond

// BeamTick is the interval at which beams apply damage.
const BeamTick = 100 * time.Millisecond

var ErrUnknownMode = errors.New("unknown weapon mode")

// Mode selects the firing timeline of a weapon.
type Mode uint8

const (
	ModeGun Mode = iota
	ModeMissile
	ModeBurstBeam
	ModeContinuousBeam
)

var modeNames = [...]string{
	ModeGun:            "GUN",
	ModeMissile:        "MISSILE",
	ModeBurstBeam:      "BURST_BEAM",
	ModeContinuousBeam: "CONTINUOUS_BEAM",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// IsBeam reports whether m is one of the beam modes.
func (m Mode) IsBeam() bool {
	return m == ModeBurstBeam || m == ModeContinuousBeam
}

// ClassifyMode determines the firing mode from specClass, type and the presence of damage/shot.
func ClassifyMode(rec Record) (Mode, error) {
	specClass, err := rec.String(AttrSpecClass)
	if err != nil {
		return 0, err
	}
	switch strings.ToLower(specClass) {
	case "projectile":
		typ, err := rec.String(AttrType)
		if err != nil {
			return 0, err
		}
		switch strings.ToUpper(typ) {
		case "BALLISTIC", "ENERGY":
			return ModeGun, nil
		default:
			return ModeMissile, nil
		}
	case "missile":
		return ModeMissile, nil
	case "beam":
		if rec.Has(AttrDamageShot) {
			return ModeBurstBeam, nil
		}
		return ModeContinuousBeam, nil
	default:
		return 0, fmt.Errorf("%w: specClass %q", ErrUnknownMode, specClass)
	}
}

// DistributionFunc returns the probability that a shot lands on the cell starting at bound.
type DistributionFunc func(bound float64) float64

// Weapon holds the firing cadence parsed from a weapon record.
//
// Projectile modes use BurstSize (shots per burst). Burst beams use
// BurstDuration (weapon_data.csv stores beam burst size in seconds).
type Weapon struct {
	ID   string
	Name string
	Mode Mode

	ChargeUp      time.Duration
	ChargeDown    time.Duration
	BurstDelay    time.Duration
	BurstSize     int
	BurstDuration time.Duration

	// Ammo is the magazine size; ignored when UnlimitedAmmo.
	Ammo          int
	UnlimitedAmmo bool
	AmmoRegen     float64 // units per second
	ReloadSize    int

	ProjSpeed float64

	// Shot is nil when the record carries no damage figures.
	Shot *Shot
	// Distribution is supplied by the caller (spread/accuracy model).
	Distribution DistributionFunc
}

// Seconds converts game seconds to a Duration rounded to the nanosecond.
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// NewWeapon parses a weapon record.
func NewWeapon(rec Record) (*Weapon, error) {
	id := rec.ID()
	wrap := func(err error) error { return fmt.Errorf("weapon %q: %w", id, err) }

	mode, err := ClassifyMode(rec)
	if err != nil {
		return nil, wrap(err)
	}

	chargeUp, err := rec.Float(AttrChargeUp)
	if err != nil {
		return nil, wrap(err)
	}
	chargeDown, err := rec.Float(AttrChargeDown)
	if err != nil {
		return nil, wrap(err)
	}
	// continuous beams have no burst pattern, weapon_data.csv leaves it blank
	burstField := rec.Float
	if mode == ModeContinuousBeam {
		burstField = func(name string) (float64, error) { return rec.FloatOr(name, 0) }
	}
	burstSize, err := burstField(AttrBurstSize)
	if err != nil {
		return nil, wrap(err)
	}
	burstDelay, err := burstField(AttrBurstDelay)
	if err != nil {
		return nil, wrap(err)
	}

	speedAttr := AttrProjSpeed
	if mode.IsBeam() && !rec.Has(AttrProjSpeed) {
		speedAttr = AttrBeamSpeed
	}
	projSpeed, err := rec.Float(speedAttr)
	if err != nil {
		return nil, wrap(err)
	}

	w := &Weapon{
		ID:            id,
		Mode:          mode,
		ChargeUp:      Seconds(chargeUp),
		ChargeDown:    Seconds(chargeDown),
		BurstDelay:    Seconds(burstDelay),
		ProjSpeed:     projSpeed,
		UnlimitedAmmo: true,
		ReloadSize:    1,
	}
	w.Name, _ = rec.String(AttrName)

	if rec.Has(AttrAmmo) {
		ammo, err := rec.Int(AttrAmmo)
		if err != nil {
			return nil, wrap(err)
		}
		w.Ammo = ammo
		w.UnlimitedAmmo = false
	}

	regenAttr := AttrAmmoRegen
	if !rec.Has(regenAttr) {
		regenAttr = AttrAmmoPerSec
	}
	if w.AmmoRegen, err = rec.FloatOr(regenAttr, 0); err != nil {
		return nil, wrap(err)
	}
	if rec.Has(AttrReloadSize) {
		reload, err := rec.Int(AttrReloadSize)
		if err != nil {
			return nil, wrap(err)
		}
		if reload > 0 {
			w.ReloadSize = reload
		}
	}

	if w.BurstDelay > 0 || mode.IsBeam() {
		w.BurstDelay = max(w.BurstDelay, MinimumRefireDelay)
	}
	switch mode {
	case ModeGun, ModeMissile:
		w.BurstSize = max(int(burstSize), 1)
		w.ChargeDown = max(w.ChargeDown, MinimumRefireDelay)
	case ModeBurstBeam:
		w.BurstDuration = Seconds(burstSize)
	}

	shot, err := shotFromRecord(rec, mode)
	if err != nil {
		return nil, wrap(err)
	}
	w.Shot = shot
	return w, nil
}

// shotFromRecord builds the weapon's shot when the record carries a damage type and
// damage figure. Beams deal damage/second spread over ticks.
func shotFromRecord(rec Record, mode Mode) (*Shot, error) {
	if !rec.Has(AttrDamageType) {
		return nil, nil
	}
	dt, err := rec.String(AttrDamageType)
	if err != nil {
		return nil, err
	}
	damageType, err := ParseDamageType(dt)
	if err != nil {
		return nil, err
	}

	var damage float64
	switch {
	case mode.IsBeam() && rec.Has(AttrDamageSecond):
		dps, err := rec.Float(AttrDamageSecond)
		if err != nil {
			return nil, err
		}
		damage = dps * BeamTick.Seconds()
	case rec.Has(AttrDamageShot):
		if damage, err = rec.Float(AttrDamageShot); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}
	if damage <= 0 {
		return nil, nil
	}

	shot, err := NewShot(damage, damageType, mode.IsBeam(), !mode.IsBeam())
	if err != nil {
		return nil, err
	}
	return &shot, nil
}

// TravelTime returns how long a shot takes to cover distance. Zero speed is treated as hitscan.
func (w *Weapon) TravelTime(distance float64) time.Duration {
	if w.ProjSpeed <= 0 {
		return 0
	}
	return Seconds(distance / w.ProjSpeed)
}
