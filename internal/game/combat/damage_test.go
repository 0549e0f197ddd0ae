package combat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statsector/internal/model"
	"github.com/udisondev/statsector/internal/testutil"
)

func TestDistribute(t *testing.T) {
	ship := testShip(t)
	shot := testShot(t, 500, model.DamageEnergy)

	d := Distribute(shot, ship, Constant(1.0/12))

	require.Len(t, d.Probabilities, 10)
	require.Len(t, d.ExpectedArmorDamage, 10)
	for i := range d.Probabilities {
		assert.InDelta(t, 1.0/12, d.Probabilities[i], 1e-12)
		assert.InDelta(t, 500.0/12, d.ExpectedArmorDamage[i], 1e-9)
	}
}

func TestDistribute_PassesCellBounds(t *testing.T) {
	ship := testShip(t)
	shot := testShot(t, 100, model.DamageKinetic)

	var seen []float64
	d := Distribute(shot, ship, func(bound float64) float64 {
		seen = append(seen, bound)
		return bound / 1000
	})

	assert.Equal(t, ship.ArmorGrid().Bounds(), seen)
	assert.InDelta(t, 50*45.0/1000, d.ExpectedArmorDamage[3], 1e-9, "kinetic armor damage × p(45px)")
}

func TestDamageShip_ExpectedDamage(t *testing.T) {
	ship := testShip(t)
	shot := testShot(t, 500, model.DamageEnergy)
	before := ship.ArmorGrid().Total()

	out, err := Resolve(shot, ship, Constant(1.0/12))
	require.NoError(t, err)

	// pooled armor 1000 vs strength 500: factor 1/3 on every cell
	want := 10 * (500.0 / 12) / 3
	assert.InDelta(t, want, out.ArmorDamage, 1e-9)
	assert.InDelta(t, want, before-ship.ArmorGrid().Total(), 1e-9)
	assert.Zero(t, out.HullDamage)
	assert.Equal(t, 14000.0, ship.Hull)
	assert.False(t, out.Destroyed)
}

func TestDamageShip_OverflowBecomesHullDamage(t *testing.T) {
	ship := testShip(t)
	shot := testShot(t, 2000, model.DamageHighExplosive)

	// Одна ячейка получает весь урон — overflow гарантирован.
	focused := func(bound float64) float64 {
		if bound == 75 {
			return 1
		}
		return 0
	}
	grid := ship.ArmorGrid()
	factors, err := grid.DamageFactors(shot.Strength())
	require.NoError(t, err)

	probe := grid.Clone()
	require.NoError(t, probe.Damage(5, shot.ArmorDamage()*factors[5]))
	wantHull := 14000 + probe.Overflow()/shot.ArmorDamageFactor()

	out, err := Resolve(shot, ship, focused)
	require.NoError(t, err)

	assert.Greater(t, out.HullDamage, 0.0)
	assert.InDelta(t, wantHull, ship.Hull, 1e-6)
	assert.InDelta(t, 14000-wantHull, out.HullDamage, 1e-6)
	testutil.AssertNonNegativeGrid(t, grid)
}

func TestDamageShip_NeverNegative(t *testing.T) {
	types := []model.DamageType{
		model.DamageKinetic, model.DamageHighExplosive, model.DamageFragmentation, model.DamageEnergy,
	}
	for _, dt := range types {
		for _, damage := range []float64{1, 250, 5000, 1e5, 1e8} {
			ship := testShip(t)
			shot := testShot(t, damage, dt)
			dist := Distribute(shot, ship, Uniform(10))

			for range 20 {
				_, err := DamageShip(shot, dist, ship)
				require.NoError(t, err)
				require.GreaterOrEqual(t, ship.Hull, 0.0, "%v %v", dt, damage)
				testutil.AssertNonNegativeGrid(t, ship.ArmorGrid())
			}
		}
	}
}

func TestDamageShip_HugeShotDestroys(t *testing.T) {
	ship := testShip(t)
	shot := testShot(t, 1e5, model.DamageHighExplosive)

	out, err := Resolve(shot, ship, Uniform(10))
	require.NoError(t, err)
	assert.True(t, out.Destroyed)
	assert.Zero(t, ship.Hull)

	grid := ship.ArmorGrid()
	for c := range grid.Cols() {
		assert.Zero(t, grid.Cell(2, c), "middle row col %d", c)
	}
}

func TestDamageShip_DistributionFromOtherTarget(t *testing.T) {
	shot := testShot(t, 100, model.DamageEnergy)
	narrow, err := model.NewArmorGrid(500, 15, 4)
	require.NoError(t, err)
	other := model.NewShipWithGrid(narrow, 3000, 100, 10)

	dist := Distribute(shot, testShip(t), Uniform(10))
	_, err = DamageShip(shot, dist, other)
	assert.ErrorIs(t, err, ErrNotDistributed)
}

func TestShot_ReusableAcrossTargets(t *testing.T) {
	shot := testShot(t, 400, model.DamageKinetic)
	a, b := testShip(t), testShip(t)

	outA, err := Resolve(shot, a, Uniform(10))
	require.NoError(t, err)
	outB, err := Resolve(shot, b, Uniform(10))
	require.NoError(t, err)

	assert.Equal(t, outA, outB)
	assert.Equal(t, a.ArmorGrid().Cells(), b.ArmorGrid().Cells())
}

func TestFire(t *testing.T) {
	ship := testShip(t)
	w := testGun()

	_, err := Fire(w, ship)
	assert.ErrorIs(t, err, ErrNoShot)

	shot := testShot(t, 500, model.DamageEnergy)
	w.Shot = &shot
	_, err = Fire(w, ship)
	assert.ErrorIs(t, err, ErrNoDistribution)

	w.Distribution = Uniform(ship.ArmorGrid().Width())
	out, err := Fire(w, ship)
	require.NoError(t, err)
	assert.Greater(t, out.ArmorDamage, 0.0)
}

func TestFiringsToDestroy(t *testing.T) {
	ship := testShip(t)
	shot := testShot(t, 500, model.DamageEnergy)

	n, err := FiringsToDestroy(shot, ship, Uniform(10), 10_000)
	require.NoError(t, err)
	assert.Greater(t, n, 28, "at most 500 hull per firing")
	assert.Equal(t, 14000.0, ship.Hull, "template ship untouched")

	_, err = FiringsToDestroy(shot, ship, Constant(0), 50)
	assert.ErrorIs(t, err, ErrFiringLimit)
}
