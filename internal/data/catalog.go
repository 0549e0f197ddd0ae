package data

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"go.uber.org/multierr"

	"github.com/udisondev/statsector/internal/model"
)

const (
	VanillaSource = "vanilla"
	modDataDir    = "data"
)

var ErrDuplicateSource = errors.New("duplicate source name")

// Catalog is the game data plus the configured mods, searched in order:
// vanilla first, then mods as listed.
type Catalog struct {
	sources map[string]*Source
	order   []string
}

// LoadCatalog loads the game data directory and each listed mod directory.
// A mod that fails to load is skipped with a warning.
func LoadCatalog(dataDir string, modDirs []string) (*Catalog, error) {
	vanilla, err := LoadSource(dataDir)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", VanillaSource, err)
	}
	c := &Catalog{
		sources: map[string]*Source{VanillaSource: vanilla},
		order:   []string{VanillaSource},
	}
	if len(modDirs) == 0 {
		return c, nil
	}

	mods, err := LoadMods(modDirs)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			slog.Warn("mod not loaded", "error", e)
		}
	}
	for _, dir := range modDirs {
		name := ModName(dir)
		src, ok := mods[name]
		if !ok || slices.Contains(c.order, name) {
			continue
		}
		c.sources[name] = src
		c.order = append(c.order, name)
	}
	return c, nil
}

// ModName is the source name of a mod directory.
func ModName(dir string) string {
	return filepath.Base(filepath.Clean(dir))
}

// LoadMods loads <dir>/data of every mod directory. Mods are loaded
// independently: the returned map, keyed by ModName, holds every mod that
// loaded and the error combines the failures.
func LoadMods(dirs []string) (map[string]*Source, error) {
	mods := make(map[string]*Source, len(dirs))
	var errs error
	for _, dir := range dirs {
		name := ModName(dir)
		if _, ok := mods[name]; ok || name == VanillaSource {
			errs = multierr.Append(errs, fmt.Errorf("mod %s: %w", dir, ErrDuplicateSource))
			continue
		}
		dataDir := filepath.Join(dir, modDataDir)
		if !isDir(dataDir) {
			errs = multierr.Append(errs, fmt.Errorf("mod %s: %s: %w", dir, modDataDir, fs.ErrNotExist))
			continue
		}
		src, err := LoadSource(dataDir)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("mod %s: %w", dir, err))
			continue
		}
		mods[name] = src
	}
	return mods, errs
}

// Source returns one loaded source by name.
func (c *Catalog) Source(name string) (*Source, bool) {
	s, ok := c.sources[name]
	return s, ok
}

// Names lists sources in search order.
func (c *Catalog) Names() []string { return slices.Clone(c.order) }

// Weapon finds a weapon record in the first source that has it.
func (c *Catalog) Weapon(id string) (model.Record, error) {
	for _, name := range c.order {
		if rec, err := c.sources[name].Weapon(id); err == nil {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("weapon %q: %w", id, ErrNotFound)
}

// Ship finds a ship record in the first source that has it.
func (c *Catalog) Ship(id string) (model.Record, error) {
	for _, name := range c.order {
		if rec, err := c.sources[name].Ship(id); err == nil {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("ship %q: %w", id, ErrNotFound)
}
