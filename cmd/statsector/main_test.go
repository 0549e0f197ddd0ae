package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statsector/internal/config"
	"github.com/udisondev/statsector/internal/data"
	"github.com/udisondev/statsector/internal/testutil"
)

// testData writes the fixture data directory and points the config at a
// missing file so defaults apply.
func testData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, data.WriteTestSource(dir))
	t.Setenv("STATSECTOR_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	return dir
}

func TestRun_Report(t *testing.T) {
	dir := testData(t)
	ctx := testutil.ContextWithTimeout(t, time.Minute)

	var out bytes.Buffer
	err := run(ctx, []string{
		"-data", dir,
		"-ship", data.TestShipID,
		"-weapon", data.TestGunID + "," + data.TestContinuousBeamID,
		"-distance", "500",
		"-log", "error",
	}, &out)
	require.NoError(t, err)

	report := out.String()
	assert.Contains(t, report, "target: Dominator")
	assert.Contains(t, report, "WEAPON")
	assert.Contains(t, report, data.TestGunID)
	assert.Contains(t, report, data.TestContinuousBeamID)
	assert.Contains(t, report, "FRAGMENTATION")
}

func TestRun_ModWeapon(t *testing.T) {
	dir := testData(t)
	mod, err := data.WriteTestMod(t.TempDir(), "extra")
	require.NoError(t, err)
	csv := filepath.Join(mod, "data", "weapons", "weapon_data.csv")
	require.NoError(t, os.WriteFile(csv, []byte("id,damage/shot,type,chargeup,chargedown,burst size,burst delay,proj speed\nmodgun,80,KINETIC,0,1,1,0,1000\n"), 0o644))
	wpn := filepath.Join(mod, "data", "weapons", "modgun.wpn")
	require.NoError(t, os.WriteFile(wpn, []byte(`{"specClass":"projectile","type":"BALLISTIC"}`), 0o644))

	var out bytes.Buffer
	err = run(context.Background(), []string{
		"-data", dir,
		"-mods", mod,
		"-ship", data.TestShipID,
		"-weapon", "modgun",
		"-log", "error",
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "modgun")
	assert.Contains(t, out.String(), "KINETIC")
}

func TestRun_Errors(t *testing.T) {
	dir := testData(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "no ship", args: []string{"-data", dir}, want: ErrNoShip},
		{name: "no weapons", args: []string{"-data", dir, "-ship", data.TestShipID}, want: ErrNoWeapons},
		{name: "unknown ship", args: []string{"-data", dir, "-ship", "onslaught", "-weapon", data.TestGunID}, want: data.ErrNotFound},
		{name: "unknown weapon", args: []string{"-data", dir, "-ship", data.TestShipID, "-weapon", "hellbore"}, want: data.ErrNotFound},
		{name: "negative distance", args: []string{"-data", dir, "-distance", "-5"}, want: config.ErrInvalidSimulation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(ctx, append(tt.args, "-log", "error"), &out)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, out.String())
		})
	}
}

func TestRun_Help(t *testing.T) {
	testData(t)

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), []string{"-h"}, &out))
}

func TestAnalyze(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, data.WriteTestSource(dir))
	catalog, err := data.LoadCatalog(dir, nil)
	require.NoError(t, err)

	sim := config.DefaultSimulation()
	sim.Distance = 500
	sim.Trials = 20
	sim.SpreadStdDev = 50

	weapons := []string{data.TestGunID, data.TestMissileID, data.TestBurstBeamID, data.TestContinuousBeamID}
	rep, err := analyze(context.Background(), catalog, data.TestShipID, weapons, sim)
	require.NoError(t, err)

	require.Len(t, rep.weapons, len(weapons))
	for i, res := range rep.weapons {
		assert.Equal(t, weapons[i], res.weapon.ID, "order follows the command line")
		assert.Len(t, res.sequence, 100)
		assert.Positive(t, res.sequence.Total(), res.weapon.ID)
		if res.firings > 0 {
			require.NotNil(t, res.sim, res.weapon.ID)
			assert.Equal(t, 20, res.sim.Trials)
		}
	}
	assert.Equal(t, 14000.0, rep.ship.Hull, "analysis fires at a copy")
	assert.Less(t, rep.hull, 14000.0)

	run := rep.damageRun()
	assert.Equal(t, data.TestShipID, run.ShipID)
	assert.Equal(t, rep.engagement.KillBucket, run.KillBucket)
	assert.Equal(t, run.KillBucket >= 0, run.Destroyed)
	assert.Len(t, run.Sequences, len(weapons))
	assert.Equal(t, []float64(rep.weapons[0].sequence), run.Sequences[data.TestGunID])
}

func TestAnalyze_Cancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, data.WriteTestSource(dir))
	catalog, err := data.LoadCatalog(dir, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = analyze(ctx, catalog, data.TestShipID, []string{data.TestGunID}, config.DefaultSimulation())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_Write(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, data.WriteTestSource(dir))
	catalog, err := data.LoadCatalog(dir, nil)
	require.NoError(t, err)

	rep, err := analyze(context.Background(), catalog, data.TestShipID, []string{data.TestGunID}, config.DefaultSimulation())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, rep.write(&out))
	if _, ok := rep.engagement.TimeToKill(); ok {
		assert.Contains(t, out.String(), "destroyed within")
	} else {
		assert.Contains(t, out.String(), "survives 1m40s")
	}
}

func TestSplitIDs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "lightmg", want: []string{"lightmg"}},
		{in: " lightmg , harpoon,,", want: []string{"lightmg", "harpoon"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitIDs(tt.in), tt.in)
	}
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}
