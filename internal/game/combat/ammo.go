package combat

import (
	"math"
	"time"

	"github.com/udisondev/statsector/internal/model"
)

// regenEpsilon absorbs float error when converting elapsed time to whole units.
const regenEpsilon = 1e-9

// AmmoTracker holds and regenerates one weapon's ammunition over one timeline run.
type AmmoTracker struct {
	weapon *model.Weapon

	// Ammo is the ammunition currently loaded.
	Ammo int

	regenTime    time.Duration
	regenerated  int // whole units waiting for a full reload batch
	regenTimer   time.Duration
	regenerating bool
}

// NewAmmoTracker starts with a full magazine. Zero ammo regen never regenerates.
func NewAmmoTracker(w *model.Weapon) *AmmoTracker {
	t := &AmmoTracker{
		weapon: w,
		Ammo:   w.Ammo,
	}
	if w.AmmoRegen > 0 {
		t.regenTime = model.Seconds(1 / w.AmmoRegen)
	}
	return t
}

// Consume uses one round at simulated time now. It returns false when the magazine
// is empty. The first round taken from a full magazine starts the regen timer.
func (t *AmmoTracker) Consume(now time.Duration) bool {
	if t.weapon.UnlimitedAmmo {
		return true
	}
	if t.Ammo <= 0 {
		return false
	}
	t.Ammo--
	if !t.regenerating {
		t.regenTimer = now
		t.regenerating = true
	}
	return true
}

// ShouldRegenerate reports whether at least one unit has regenerated by now.
func (t *AmmoTracker) ShouldRegenerate(now time.Duration) bool {
	if t.regenTime <= 0 || !t.regenerating {
		return false
	}
	return now-t.regenTimer >= t.regenTime
}

// Regenerate credits the units regenerated since the timer last advanced.
// Fractional progress stays behind the timer; ammo arrives in whole reload
// batches and is capped at the magazine size.
func (t *AmmoTracker) Regenerate(now time.Duration) {
	if t.regenTime <= 0 || !t.regenerating {
		return
	}
	elapsed := now - t.regenTimer
	if elapsed <= 0 {
		return
	}

	units := int(math.Floor(t.weapon.AmmoRegen*elapsed.Seconds() + regenEpsilon))
	if units <= 0 {
		return
	}
	t.regenerated += units
	t.regenTimer += model.Seconds(float64(units) / t.weapon.AmmoRegen)

	reload := max(t.weapon.ReloadSize, 1)
	if t.regenerated >= reload {
		batch := t.regenerated / reload * reload
		t.Ammo += batch
		t.regenerated -= batch
	}
	if t.Ammo >= t.weapon.Ammo {
		t.Ammo = t.weapon.Ammo
		t.regenerated = 0
		t.regenerating = false
	}
}

// advance regenerates if due; called after every step that moves simulated time.
func (t *AmmoTracker) advance(now time.Duration) {
	if t.ShouldRegenerate(now) {
		t.Regenerate(now)
	}
}
