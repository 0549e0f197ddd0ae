// statsector computes the expected damage a set of weapons deals to a ship.
//
// Usage:
//
//	go run ./cmd/statsector -ship dominator -weapon lightmg,harpoon
//	go run ./cmd/statsector -ship onslaught -weapon hellbore -distance 800 -trials 1000
//	go run ./cmd/statsector -mods mods/diable,mods/tahlan -ship diable_maelstrom -weapon diable_gust
//	go run ./cmd/statsector -import                # store game records in PostgreSQL
//	go run ./cmd/statsector -ship dominator -weapon lightmg -compare
//	go run ./cmd/statsector -run 6f1c2b8e-4a55-4c1e-9d0b-1d1b7c0e5a9f
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/udisondev/statsector/internal/config"
	"github.com/udisondev/statsector/internal/data"
	"github.com/udisondev/statsector/internal/db"
	"github.com/udisondev/statsector/internal/model"
)

const ConfigPath = "config/statsector.yaml"

var ErrNoShip = errors.New("-ship is required")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	cfgPath := ConfigPath
	if p := os.Getenv("STATSECTOR_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fs := flag.NewFlagSet("statsector", flag.ContinueOnError)
	shipID := fs.String("ship", "", "target ship id")
	weaponList := fs.String("weapon", "", "comma-separated weapon ids")
	fs.Float64Var(&cfg.Simulation.Distance, "distance", cfg.Simulation.Distance, "range to target in pixels")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "game data directory (weapons/, hulls/)")
	fs.Func("mods", "comma-separated mod directories, searched after the game data", func(v string) error {
		cfg.ModDirs = splitIDs(v)
		return nil
	})
	fs.IntVar(&cfg.Simulation.Trials, "trials", cfg.Simulation.Trials, "Monte Carlo trials, 0 to skip")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: debug, info, warn, error")
	importRecords := fs.Bool("import", false, "store loaded records in the database")
	compare := fs.Bool("compare", false, "compare hit sequences with the latest stored run")
	runID := fs.String("run", "", "print a stored damage run and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if err := cfg.Simulation.Validate(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("statsector starting", "config", cfgPath, "log_level", cfg.LogLevel)

	catalog, err := data.LoadCatalog(cfg.DataDir, cfg.ModDirs)
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}

	var store *db.DB
	if cfg.Database.Enabled || *importRecords || *compare || *runID != "" {
		store, err = db.Connect(ctx, cfg.Database.DSN(), cfg.Database.ConnectRetries)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer store.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")
	}

	if *runID != "" {
		return showRun(ctx, store.Results(), *runID, out)
	}
	if *importRecords {
		if err := importCatalog(ctx, store.Records(), catalog); err != nil {
			return err
		}
	}
	if *shipID == "" {
		if *importRecords {
			return nil
		}
		return ErrNoShip
	}

	rep, err := analyze(ctx, catalog, *shipID, splitIDs(*weaponList), cfg.Simulation)
	if err != nil {
		return err
	}
	if err := rep.write(out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	if store == nil {
		return nil
	}
	if *compare {
		diffs, err := compareLatest(ctx, store.Results(), rep)
		if err != nil {
			return err
		}
		if err := writeDiffs(out, diffs); err != nil {
			return fmt.Errorf("writing comparison: %w", err)
		}
	}
	run := rep.damageRun()
	if err := store.Results().SaveDamageRun(ctx, run); err != nil {
		return fmt.Errorf("saving damage run: %w", err)
	}
	slog.Info("damage run saved", "run", run.ID)
	return nil
}

// importCatalog upserts every source's weapons and ships.
func importCatalog(ctx context.Context, repo *db.RecordRepository, catalog *data.Catalog) error {
	for _, name := range catalog.Names() {
		src, _ := catalog.Source(name)
		for _, kind := range []struct {
			name    string
			records map[string]model.Record
		}{
			{db.KindWeapon, src.Weapons},
			{db.KindShip, src.Ships},
		} {
			changed, err := repo.Upsert(ctx, name, kind.name, kind.records)
			if err != nil {
				return fmt.Errorf("importing %s %ss: %w", name, kind.name, err)
			}
			stored, err := repo.Count(ctx, name, kind.name)
			if err != nil {
				return err
			}
			slog.Info("records imported", "source", name, "kind", kind.name, "changed", changed, "stored", stored)
		}
	}
	return nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
