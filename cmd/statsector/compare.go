package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/statsector/internal/db"
)

// sequenceDiff compares a weapon's new hit sequence with the latest stored one.
type sequenceDiff struct {
	weapon   string
	found    bool
	previous float64
	current  float64
	// changed counts buckets whose hits differ
	changed int
}

const diffEpsilon = 1e-9

// compareLatest looks up the latest stored sequence of every weapon in rep.
// It must run before rep is saved, or it compares the run with itself.
func compareLatest(ctx context.Context, repo *db.ResultRepository, rep *report) ([]sequenceDiff, error) {
	diffs := make([]sequenceDiff, 0, len(rep.weapons))
	for _, res := range rep.weapons {
		d := sequenceDiff{weapon: res.weapon.ID, current: res.sequence.Total()}

		prev, err := repo.LatestHitSequence(ctx, rep.ship.ID, res.weapon.ID)
		switch {
		case errors.Is(err, db.ErrResultNotFound):
		case err != nil:
			return nil, err
		default:
			d.found = true
			d.changed = changedBuckets(prev, res.sequence)
			for _, v := range prev {
				d.previous += v
			}
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

func changedBuckets(a, b []float64) int {
	n := 0
	for i := range max(len(a), len(b)) {
		var x, y float64
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if math.Abs(x-y) > diffEpsilon {
			n++
		}
	}
	return n
}

func writeDiffs(out io.Writer, diffs []sequenceDiff) error {
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEAPON\tPREVIOUS\tCURRENT\tCHANGED BUCKETS")
	for _, d := range diffs {
		if !d.found {
			fmt.Fprintf(tw, "%s\t-\t%.1f\t-\n", d.weapon, d.current)
			continue
		}
		fmt.Fprintf(tw, "%s\t%.1f\t%.1f\t%d\n", d.weapon, d.previous, d.current, d.changed)
	}
	return tw.Flush()
}

// showRun prints a stored damage run.
func showRun(ctx context.Context, repo *db.ResultRepository, id string, out io.Writer) error {
	runID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("parsing run id %q: %w", id, err)
	}
	run, err := repo.LoadDamageRun(ctx, runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "run %s  %s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "target: %s  distance %.0f  horizon %s  bucket %s\n\n",
		run.ShipID, run.Distance, run.Horizon, run.Bucket)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEAPON\tHITS")
	for _, w := range slices.Sorted(maps.Keys(run.Sequences)) {
		var total float64
		for _, v := range run.Sequences[w] {
			total += v
		}
		fmt.Fprintf(tw, "%s\t%.1f\n", w, total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if run.Destroyed {
		_, err = fmt.Fprintf(out, "destroyed within %s\n", time.Duration(run.KillBucket+1)*run.Bucket)
		return err
	}
	_, err = fmt.Fprintf(out, "survives %s: hull %.0f, armor %.0f\n", run.Horizon, run.HullRemaining, run.ArmorRemaining)
	return err
}
