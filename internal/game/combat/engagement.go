package combat

import (
	"errors"
	"fmt"
	"time"

	"github.com/udisondev/statsector/internal/model"
)

var ErrSequenceMismatch = errors.New("hit sequences differ in length")

// Armament is a weapon together with its hit sequence against one target.
type Armament struct {
	Weapon   *model.Weapon
	Sequence HitSequence
}

// Engagement is the bucket-by-bucket state of a ship under fire.
type Engagement struct {
	Bucket time.Duration
	// KillBucket is the bucket in which hull reached zero, -1 if the ship survived.
	KillBucket int
	Hull       []float64
	Armor      []float64
}

// TimeToKill returns the end of the kill bucket, or false if the ship survived.
func (e Engagement) TimeToKill() (time.Duration, bool) {
	if e.KillBucket < 0 {
		return 0, false
	}
	return time.Duration(e.KillBucket+1) * e.Bucket, true
}

// Scale returns the distribution of a fraction f of one shot.
func (d Distribution) Scale(f float64) Distribution {
	out := Distribution{
		Probabilities:       make([]float64, len(d.Probabilities)),
		ExpectedArmorDamage: make([]float64, len(d.ExpectedArmorDamage)),
	}
	for i := range d.Probabilities {
		out.Probabilities[i] = d.Probabilities[i] * f
	}
	for i := range d.ExpectedArmorDamage {
		out.ExpectedArmorDamage[i] = d.ExpectedArmorDamage[i] * f
	}
	return out
}

// Engage applies every armament's expected hits to the ship, bucket by
// bucket, until the sequences end or the ship is destroyed. Whole hits are
// resolved one at a time so armor reduction is updated between them; a
// fractional remainder (beam ramps) is resolved as a scaled shot.
func Engage(ship *model.Ship, arms []Armament, bucket time.Duration) (Engagement, error) {
	e := Engagement{Bucket: bucket, KillBucket: -1}
	if len(arms) == 0 {
		return e, nil
	}

	n := len(arms[0].Sequence)
	dists := make([]Distribution, len(arms))
	for i, a := range arms {
		if len(a.Sequence) != n {
			return e, fmt.Errorf("%w: %q has %d buckets, want %d", ErrSequenceMismatch, a.Weapon.ID, len(a.Sequence), n)
		}
		if a.Weapon.Shot == nil {
			return e, fmt.Errorf("%w: %q", ErrNoShot, a.Weapon.ID)
		}
		if a.Weapon.Distribution == nil {
			return e, fmt.Errorf("%w: %q", ErrNoDistribution, a.Weapon.ID)
		}
		dists[i] = Distribute(*a.Weapon.Shot, ship, a.Weapon.Distribution)
	}

	e.Hull = make([]float64, 0, n)
	e.Armor = make([]float64, 0, n)
	for k := range n {
		for i, a := range arms {
			for hits := a.Sequence[k]; hits > 0 && !ship.IsDestroyed(); hits-- {
				d := dists[i]
				if hits < 1 {
					d = d.Scale(hits)
				}
				if _, err := DamageShip(*a.Weapon.Shot, d, ship); err != nil {
					return e, fmt.Errorf("bucket %d, %q: %w", k, a.Weapon.ID, err)
				}
			}
		}
		e.Hull = append(e.Hull, ship.Hull)
		e.Armor = append(e.Armor, ship.ArmorGrid().Total())
		if ship.IsDestroyed() {
			e.KillBucket = k
			break
		}
	}
	return e, nil
}
