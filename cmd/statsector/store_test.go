package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/statsector/internal/config"
	"github.com/udisondev/statsector/internal/data"
	"github.com/udisondev/statsector/internal/db"
	"github.com/udisondev/statsector/internal/testutil"
)

func TestImportAndStoreRun(t *testing.T) {
	store, _ := testutil.SetupTestDB(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, data.WriteTestSource(dir))
	catalog, err := data.LoadCatalog(dir, nil)
	require.NoError(t, err)

	require.NoError(t, importCatalog(ctx, store.Records(), catalog))
	n, err := store.Records().Count(ctx, data.VanillaSource, db.KindWeapon)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	rec, err := store.Records().Get(ctx, data.VanillaSource, db.KindShip, data.TestShipID)
	require.NoError(t, err)
	assert.Equal(t, "Dominator", rec["hullName"])

	// повторный импорт ничего не меняет
	require.NoError(t, importCatalog(ctx, store.Records(), catalog))

	rep, err := analyze(ctx, catalog, data.TestShipID, []string{data.TestGunID}, config.DefaultSimulation())
	require.NoError(t, err)
	run := rep.damageRun()
	require.NoError(t, store.Results().SaveDamageRun(ctx, run))

	loaded, err := store.Results().LoadDamageRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.KillBucket, loaded.KillBucket)
	assert.InDelta(t, run.HullRemaining, loaded.HullRemaining, 1e-9)

	seq, err := store.Results().LatestHitSequence(ctx, data.TestShipID, data.TestGunID)
	require.NoError(t, err)
	assert.Equal(t, []float64(rep.weapons[0].sequence), seq)
}

func TestCompareLatestAndShowRun(t *testing.T) {
	store, _ := testutil.SetupTestDB(t)
	ctx := context.Background()

	dir := t.TempDir()
	require.NoError(t, data.WriteTestSource(dir))
	catalog, err := data.LoadCatalog(dir, nil)
	require.NoError(t, err)

	weapons := []string{data.TestGunID, data.TestMissileID}
	first, err := analyze(ctx, catalog, data.TestShipID, []string{data.TestGunID}, config.DefaultSimulation())
	require.NoError(t, err)

	diffs, err := compareLatest(ctx, store.Results(), first)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.False(t, diffs[0].found, "nothing stored yet")

	run := first.damageRun()
	require.NoError(t, store.Results().SaveDamageRun(ctx, run))

	sim := config.DefaultSimulation()
	sim.Distance = 5000
	second, err := analyze(ctx, catalog, data.TestShipID, weapons, sim)
	require.NoError(t, err)

	diffs, err = compareLatest(ctx, store.Results(), second)
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	assert.True(t, diffs[0].found)
	assert.Positive(t, diffs[0].changed, "longer range delays every hit")
	assert.InDelta(t, first.weapons[0].sequence.Total(), diffs[0].previous, 1e-9)
	assert.False(t, diffs[1].found)

	var out bytes.Buffer
	require.NoError(t, showRun(ctx, store.Results(), run.ID.String(), &out))
	assert.Contains(t, out.String(), "run "+run.ID.String())
	assert.Contains(t, out.String(), data.TestGunID)

	assert.ErrorIs(t, showRun(ctx, store.Results(), uuid.NewString(), &out), db.ErrResultNotFound)
	assert.Error(t, showRun(ctx, store.Results(), "not-a-uuid", &out))
}
