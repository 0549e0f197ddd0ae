package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/blake2b"

	"github.com/udisondev/statsector/internal/model"
)

// Record kinds stored in the records table.
const (
	KindWeapon = "weapon"
	KindShip   = "ship"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownKind    = errors.New("unknown record kind")
)

// Fingerprint returns the BLAKE2b-256 digest of the record's JSON form
// together with that JSON. Map keys are marshalled sorted, so equal records
// always hash equal.
func Fingerprint(rec model.Record) ([]byte, []byte, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding record %q: %w", rec.ID(), err)
	}
	sum := blake2b.Sum256(raw)
	return sum[:], raw, nil
}

// RecordRepository stores imported weapon and ship records.
type RecordRepository struct {
	db *pgxpool.Pool
}

// NewRecordRepository создаёт новый RecordRepository.
func NewRecordRepository(db *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{db: db}
}

// Upsert writes the records of one source and kind, skipping rows whose
// fingerprint is unchanged. Returns how many rows were written.
func (r *RecordRepository) Upsert(ctx context.Context, source, kind string, records map[string]model.Record) (int, error) {
	if kind != KindWeapon && kind != KindShip {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	stored, err := r.fingerprints(ctx, source, kind)
	if err != nil {
		return 0, err
	}

	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		sum, raw, err := Fingerprint(records[id])
		if err != nil {
			return 0, err
		}
		if bytes.Equal(stored[id], sum) {
			continue
		}
		batch.Queue(
			`INSERT INTO records (source, kind, id, attributes, fingerprint, updated_at)
			 VALUES ($1, $2, $3, $4, $5, now())
			 ON CONFLICT (source, kind, id) DO UPDATE SET
			  attributes = $4, fingerprint = $5, updated_at = now()`,
			source, kind, id, raw, sum,
		)
	}
	changed := batch.Len()
	if changed == 0 {
		slog.Debug("records unchanged", "source", source, "kind", kind, "count", len(ids))
		return 0, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction for %s %ss: %w", source, kind, err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	br := tx.SendBatch(ctx, batch)
	for range changed {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck
			return 0, fmt.Errorf("upserting %s %ss: %w", source, kind, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("close record batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit %s %ss: %w", source, kind, err)
	}

	slog.Info("records upserted",
		"source", source,
		"kind", kind,
		"changed", changed,
		"unchanged", len(ids)-changed)
	return changed, nil
}

func (r *RecordRepository) fingerprints(ctx context.Context, source, kind string) (map[string][]byte, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, fingerprint FROM records WHERE source = $1 AND kind = $2`,
		source, kind)
	if err != nil {
		return nil, fmt.Errorf("querying fingerprints for %s %ss: %w", source, kind, err)
	}
	defer rows.Close()

	out := make(map[string][]byte, 64)
	for rows.Next() {
		var id string
		var sum []byte
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, fmt.Errorf("scanning fingerprint row: %w", err)
		}
		out[id] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fingerprint rows: %w", err)
	}
	return out, nil
}

// Get loads one record. Numbers come back as float64.
func (r *RecordRepository) Get(ctx context.Context, source, kind, id string) (model.Record, error) {
	var attrs map[string]any
	err := r.db.QueryRow(ctx,
		`SELECT attributes FROM records WHERE source = $1 AND kind = $2 AND id = $3`,
		source, kind, id,
	).Scan(&attrs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s %q: %w", source, kind, id, ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying %s %s %q: %w", source, kind, id, err)
	}
	return model.Record(attrs), nil
}

// Count returns the number of stored records of one source and kind.
func (r *RecordRepository) Count(ctx context.Context, source, kind string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM records WHERE source = $1 AND kind = $2`,
		source, kind,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s %ss: %w", source, kind, err)
	}
	return n, nil
}
