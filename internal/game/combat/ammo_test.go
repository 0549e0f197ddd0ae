package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statsector/internal/model"
)

func drain(t *testing.T, tr *AmmoTracker, n int, at time.Duration) {
	t.Helper()
	for range n {
		require.True(t, tr.Consume(at))
	}
}

func TestAmmoTracker_ConsumeStartsTimer(t *testing.T) {
	tr := NewAmmoTracker(testGun())
	assert.Equal(t, 10, tr.Ammo)
	assert.False(t, tr.regenerating)

	drain(t, tr, 3, 2*time.Second)
	assert.Equal(t, 7, tr.Ammo)
	assert.True(t, tr.regenerating)
	assert.Equal(t, 2*time.Second, tr.regenTimer)

	// later shots do not reset the timer
	require.True(t, tr.Consume(5*time.Second))
	assert.Equal(t, 2*time.Second, tr.regenTimer)
}

func TestAmmoTracker_EmptyMagazine(t *testing.T) {
	tr := NewAmmoTracker(testGun())
	drain(t, tr, 10, 0)
	assert.False(t, tr.Consume(0))
	assert.Zero(t, tr.Ammo)
}

func TestAmmoTracker_OneUnitPerSecond(t *testing.T) {
	tr := NewAmmoTracker(testGun())
	drain(t, tr, 5, 0)

	assert.False(t, tr.ShouldRegenerate(999*time.Millisecond))
	require.True(t, tr.ShouldRegenerate(time.Second))

	tr.Regenerate(time.Second)
	assert.Equal(t, 6, tr.Ammo)
	assert.Equal(t, time.Second, tr.regenTimer)

	// no elapsed time: no-op
	tr.Regenerate(time.Second)
	assert.Equal(t, 6, tr.Ammo)
	assert.Equal(t, time.Second, tr.regenTimer)
}

func TestAmmoTracker_FractionalTimeCarriesOver(t *testing.T) {
	tr := NewAmmoTracker(testGun())
	drain(t, tr, 8, 0)

	tr.Regenerate(2500 * time.Millisecond)
	assert.Equal(t, 4, tr.Ammo)
	assert.Equal(t, 2*time.Second, tr.regenTimer, "half a unit stays behind the timer")

	tr.Regenerate(2900 * time.Millisecond)
	assert.Equal(t, 4, tr.Ammo)

	tr.Regenerate(3 * time.Second)
	assert.Equal(t, 5, tr.Ammo)
	assert.Equal(t, 3*time.Second, tr.regenTimer)
}

func TestAmmoTracker_ReloadBatches(t *testing.T) {
	w := &model.Weapon{Ammo: 7, AmmoRegen: 1.0 / 7, ReloadSize: 3}
	tr := NewAmmoTracker(w)
	drain(t, tr, 7, 0)

	tr.Regenerate(7 * time.Second)
	assert.Zero(t, tr.Ammo, "one unit is not a full batch")
	assert.Equal(t, 1, tr.regenerated)

	tr.Regenerate(14 * time.Second)
	assert.Zero(t, tr.Ammo)
	assert.Equal(t, 2, tr.regenerated)

	tr.Regenerate(21 * time.Second)
	assert.Equal(t, 3, tr.Ammo)
	assert.Zero(t, tr.regenerated)
	assert.Equal(t, 21*time.Second, tr.regenTimer)
}

func TestAmmoTracker_CapsAtMagazine(t *testing.T) {
	tr := NewAmmoTracker(testGun())
	drain(t, tr, 2, 0)

	tr.Regenerate(50 * time.Second)
	assert.Equal(t, 10, tr.Ammo)
	assert.False(t, tr.regenerating)
	assert.False(t, tr.ShouldRegenerate(100*time.Second))
}

func TestAmmoTracker_ZeroRegen(t *testing.T) {
	w := testGun()
	w.AmmoRegen = 0
	tr := NewAmmoTracker(w)
	drain(t, tr, 10, 0)

	assert.False(t, tr.ShouldRegenerate(time.Hour))
	tr.Regenerate(time.Hour)
	assert.Zero(t, tr.Ammo)
}

func TestAmmoTracker_Unlimited(t *testing.T) {
	w := testGun()
	w.UnlimitedAmmo = true
	w.Ammo = 0
	tr := NewAmmoTracker(w)

	for range 1000 {
		require.True(t, tr.Consume(0))
	}
	assert.False(t, tr.regenerating)
}
