package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/statsector/internal/config"
	"github.com/udisondev/statsector/internal/data"
	"github.com/udisondev/statsector/internal/db"
	"github.com/udisondev/statsector/internal/game/combat"
	"github.com/udisondev/statsector/internal/model"
)

var ErrNoWeapons = errors.New("-weapon is required")

// weaponResult is everything computed for one weapon against the target.
type weaponResult struct {
	weapon   *model.Weapon
	sequence combat.HitSequence
	// firings to destroy the target alone, 0 if it survived the firing limit
	firings int
	sim     *combat.SimulationReport
}

type report struct {
	ship       *model.Ship
	distance   float64
	timeline   combat.Timeline
	weapons    []weaponResult
	engagement combat.Engagement
	hull       float64
	armor      float64
}

// analyze builds the ship and weapons, computes each weapon's hit sequence
// and firings to destroy in parallel, then plays all sequences together
// against a copy of the ship.
func analyze(ctx context.Context, catalog *data.Catalog, shipID string, weaponIDs []string, sim config.Simulation) (*report, error) {
	if len(weaponIDs) == 0 {
		return nil, ErrNoWeapons
	}

	shipRec, err := catalog.Ship(shipID)
	if err != nil {
		return nil, err
	}
	ship, err := model.NewShip(shipRec)
	if err != nil {
		return nil, err
	}

	spread := combat.Uniform(ship.ArmorGrid().Width())
	if sim.SpreadStdDev > 0 {
		spread = combat.CentredSpread(ship.ArmorGrid(), sim.SpreadStdDev).Func()
	}

	weapons := make([]*model.Weapon, len(weaponIDs))
	for i, id := range weaponIDs {
		rec, err := catalog.Weapon(id)
		if err != nil {
			return nil, err
		}
		w, err := model.NewWeapon(rec)
		if err != nil {
			return nil, err
		}
		if w.Shot == nil {
			return nil, fmt.Errorf("%w: %q", combat.ErrNoShot, id)
		}
		w.Distribution = spread
		weapons[i] = w
	}

	rep := &report{
		ship:     ship,
		distance: sim.Distance,
		timeline: combat.Timeline{Horizon: sim.Horizon, Bucket: sim.Bucket, BeamTick: sim.BeamTick},
		weapons:  make([]weaponResult, len(weapons)),
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, w := range weapons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := evaluate(w, ship, rep.timeline, sim, uint64(i))
			if err != nil {
				return err
			}
			rep.weapons[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slog.Debug("weapons evaluated", "count", len(weapons), "took", time.Since(start))

	target := ship.Clone()
	arms := make([]combat.Armament, len(rep.weapons))
	for i, res := range rep.weapons {
		arms[i] = combat.Armament{Weapon: res.weapon, Sequence: res.sequence}
	}
	rep.engagement, err = combat.Engage(target, arms, sim.Bucket)
	if err != nil {
		return nil, err
	}
	rep.hull = target.Hull
	rep.armor = target.ArmorGrid().Total()

	slog.Info("analysis finished",
		"ship", ship.ID,
		"weapons", len(weapons),
		"kill_bucket", rep.engagement.KillBucket,
		"hull_left", rep.hull)
	return rep, nil
}

// evaluate reads ship but never mutates it.
func evaluate(w *model.Weapon, ship *model.Ship, tl combat.Timeline, sim config.Simulation, n uint64) (weaponResult, error) {
	res := weaponResult{weapon: w}

	seq, err := tl.HitSequence(w, sim.Distance)
	if err != nil {
		return res, fmt.Errorf("weapon %q: %w", w.ID, err)
	}
	res.sequence = seq

	firings, err := combat.FiringsToDestroy(*w.Shot, ship, w.Distribution, sim.FiringLimit)
	switch {
	case errors.Is(err, combat.ErrFiringLimit):
		slog.Warn("target survives firing limit", "weapon", w.ID, "ship", ship.ID, "limit", sim.FiringLimit)
	case err != nil:
		return res, fmt.Errorf("weapon %q: %w", w.ID, err)
	default:
		res.firings = firings
	}

	if sim.Trials > 0 && res.firings > 0 {
		r, err := combat.NewSimulator(sim.Seed+n).Run(*w.Shot, ship, sim.Trials, sim.FiringLimit)
		if err != nil {
			return res, fmt.Errorf("weapon %q: %w", w.ID, err)
		}
		res.sim = &r
	}
	return res, nil
}

func (r *report) write(out io.Writer) error {
	name := r.ship.Name
	if name == "" {
		name = r.ship.ID
	}
	fmt.Fprintf(out, "target: %s  hull %.0f  armor %.0f  grid %dx%d  distance %.0f\n\n",
		name, r.ship.Hull, r.ship.ArmorGrid().ArmorRating(),
		r.ship.ArmorGrid().Rows(), r.ship.ArmorGrid().Width(), r.distance)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WEAPON\tMODE\tDAMAGE\tTYPE\tFIRST HIT\tHITS\tFIRINGS\tSIMULATED")
	for _, res := range r.weapons {
		first := "-"
		if k := res.sequence.FirstHit(); k >= 0 {
			first = (time.Duration(k) * r.timeline.Bucket).String()
		}
		firings := "-"
		if res.firings > 0 {
			firings = fmt.Sprint(res.firings)
		}
		simulated := "-"
		if res.sim != nil {
			simulated = fmt.Sprintf("%.1f", res.sim.MeanFirings)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\t%s\t%.1f\t%s\t%s\n",
			res.weapon.ID, res.weapon.Mode, res.weapon.Shot.Damage(), res.weapon.Shot.DamageType(),
			first, res.sequence.Total(), firings, simulated)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if ttk, ok := r.engagement.TimeToKill(); ok {
		_, err := fmt.Fprintf(out, "destroyed within %s\n", ttk)
		return err
	}
	_, err := fmt.Fprintf(out, "survives %s: hull %.0f, armor %.0f\n", r.timeline.Horizon, r.hull, r.armor)
	return err
}

func (r *report) damageRun() *db.DamageRun {
	seqs := make(map[string][]float64, len(r.weapons))
	for _, res := range r.weapons {
		seqs[res.weapon.ID] = res.sequence
	}
	return &db.DamageRun{
		ShipID:         r.ship.ID,
		Distance:       r.distance,
		Horizon:        r.timeline.Horizon,
		Bucket:         r.timeline.Bucket,
		KillBucket:     r.engagement.KillBucket,
		HullRemaining:  r.hull,
		ArmorRemaining: r.armor,
		Destroyed:      r.engagement.KillBucket >= 0,
		Sequences:      seqs,
	}
}
