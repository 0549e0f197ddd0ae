package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrResultNotFound = errors.New("result not found")

// DamageRun is one expected-damage calculation: the target, the timeline
// settings, the resolved outcome and the hit sequence of every weapon.
type DamageRun struct {
	ID       uuid.UUID
	ShipID   string
	Distance float64
	Horizon  time.Duration
	Bucket   time.Duration

	KillBucket     int // bucket the ship died in, -1 if it survived
	HullRemaining  float64
	ArmorRemaining float64
	Destroyed      bool
	CreatedAt      time.Time

	// Sequences maps weapon id to hits per bucket.
	Sequences map[string][]float64
}

// ResultRepository stores computed damage runs and hit sequences.
type ResultRepository struct {
	db *pgxpool.Pool
}

// NewResultRepository создаёт новый ResultRepository.
func NewResultRepository(db *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveDamageRun inserts the run and its sequences in one transaction.
// A zero ID is replaced with a fresh UUID.
func (r *ResultRepository) SaveDamageRun(ctx context.Context, run *DamageRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for run %s: %w", run.ID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "run", run.ID, "error", err)
		}
	}()

	err = tx.QueryRow(ctx,
		`INSERT INTO damage_runs
		 (run_id, ship_id, distance, horizon_ms, bucket_ms, kill_bucket, hull_remaining, armor_remaining, destroyed)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		 RETURNING created_at`,
		run.ID, run.ShipID, run.Distance, run.Horizon.Milliseconds(), run.Bucket.Milliseconds(),
		run.KillBucket, run.HullRemaining, run.ArmorRemaining, run.Destroyed,
	).Scan(&run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	weapons := make([]string, 0, len(run.Sequences))
	for id := range run.Sequences {
		weapons = append(weapons, id)
	}
	slices.Sort(weapons)
	for _, id := range weapons {
		if err := saveSequenceTx(ctx, tx, run.ID, id, run.Sequences[id]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	slog.Info("damage run saved",
		"run", run.ID,
		"ship", run.ShipID,
		"weapons", len(weapons))
	return nil
}

func saveSequenceTx(ctx context.Context, tx pgx.Tx, runID uuid.UUID, weaponID string, seq []float64) error {
	if len(seq) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(seq))
	for k, hits := range seq {
		rows = append(rows, []any{runID, weaponID, k, hits})
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"hit_sequences"},
		[]string{"run_id", "weapon_id", "bucket", "hits"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("inserting sequence %s/%s: %w", runID, weaponID, err)
	}

	slog.Debug("saved hit sequence",
		"run", runID,
		"weapon", weaponID,
		"buckets", len(seq))
	return nil
}

// LoadDamageRun loads a run with all of its sequences.
func (r *ResultRepository) LoadDamageRun(ctx context.Context, runID uuid.UUID) (*DamageRun, error) {
	run := &DamageRun{ID: runID, Sequences: make(map[string][]float64)}
	var horizonMs, bucketMs int64
	err := r.db.QueryRow(ctx,
		`SELECT ship_id, distance, horizon_ms, bucket_ms, kill_bucket,
		        hull_remaining, armor_remaining, destroyed, created_at
		 FROM damage_runs WHERE run_id = $1`, runID,
	).Scan(&run.ShipID, &run.Distance, &horizonMs, &bucketMs, &run.KillBucket,
		&run.HullRemaining, &run.ArmorRemaining, &run.Destroyed, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", runID, ErrResultNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run %s: %w", runID, err)
	}
	run.Horizon = time.Duration(horizonMs) * time.Millisecond
	run.Bucket = time.Duration(bucketMs) * time.Millisecond

	rows, err := r.db.Query(ctx,
		`SELECT weapon_id, bucket, hits FROM hit_sequences
		 WHERE run_id = $1 ORDER BY weapon_id, bucket`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying sequences of run %s: %w", runID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var weaponID string
		var bucket int
		var hits float64
		if err := rows.Scan(&weaponID, &bucket, &hits); err != nil {
			return nil, fmt.Errorf("scanning sequence row: %w", err)
		}
		run.Sequences[weaponID] = placeBucket(run.Sequences[weaponID], bucket, hits)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sequence rows: %w", err)
	}
	return run, nil
}

// LatestHitSequence returns the most recent sequence computed for the weapon
// against the ship.
func (r *ResultRepository) LatestHitSequence(ctx context.Context, shipID, weaponID string) ([]float64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT s.bucket, s.hits
		 FROM hit_sequences s
		 WHERE s.weapon_id = $2 AND s.run_id = (
		   SELECT d.run_id FROM damage_runs d
		   JOIN hit_sequences h ON h.run_id = d.run_id AND h.weapon_id = $2
		   WHERE d.ship_id = $1
		   ORDER BY d.created_at DESC
		   LIMIT 1)
		 ORDER BY s.bucket`,
		shipID, weaponID)
	if err != nil {
		return nil, fmt.Errorf("querying latest sequence %s/%s: %w", shipID, weaponID, err)
	}
	defer rows.Close()

	var seq []float64
	for rows.Next() {
		var bucket int
		var hits float64
		if err := rows.Scan(&bucket, &hits); err != nil {
			return nil, fmt.Errorf("scanning sequence row: %w", err)
		}
		seq = placeBucket(seq, bucket, hits)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sequence rows: %w", err)
	}
	if seq == nil {
		return nil, fmt.Errorf("sequence %s/%s: %w", shipID, weaponID, ErrResultNotFound)
	}
	return seq, nil
}

func placeBucket(seq []float64, bucket int, hits float64) []float64 {
	for len(seq) <= bucket {
		seq = append(seq, 0)
	}
	seq[bucket] = hits
	return seq
}
