package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/statsector/internal/model"
)

// testShip — корабль с сеткой 1000 armor / 15px / 10 ячеек и 14000 hull.
func testShip(t testing.TB) *model.Ship {
	t.Helper()
	grid, err := model.NewArmorGrid(1000, 15, 10)
	require.NoError(t, err)
	return model.NewShipWithGrid(grid, 14000, 1000, 100)
}

func testShot(t testing.TB, damage float64, dt model.DamageType) model.Shot {
	t.Helper()
	s, err := model.NewShot(damage, dt, false, true)
	require.NoError(t, err)
	return s
}

// testGun — оружие из сценария: 10 ammo, 1 ammo/s, 500 px/s.
func testGun() *model.Weapon {
	return &model.Weapon{
		ID:         "testgun",
		Mode:       model.ModeGun,
		ChargeDown: 100 * time.Millisecond,
		BurstSize:  1,
		Ammo:       10,
		AmmoRegen:  1,
		ReloadSize: 1,
		ProjSpeed:  500,
	}
}
