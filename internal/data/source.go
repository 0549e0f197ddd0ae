package data

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/udisondev/statsector/internal/model"
)

const (
	weaponsDir    = "weapons"
	hullsDir      = "hulls"
	weaponCSVFile = "weapon_data.csv"
	shipCSVFile   = "ship_data.csv"
	weaponFileExt = ".wpn"
	shipFileExt   = ".ship"
)

var ErrNotFound = errors.New("record not found")

// Source holds the weapon and ship records of one data directory
// (the game's own data or a single mod).
type Source struct {
	Dir     string
	Weapons map[string]model.Record
	Ships   map[string]model.Record
}

// LoadSource reads <dir>/weapons and <dir>/hulls. A missing subdirectory or
// CSV leaves that half of the source empty.
func LoadSource(dir string) (*Source, error) {
	src := &Source{
		Dir:     dir,
		Weapons: make(map[string]model.Record),
		Ships:   make(map[string]model.Record),
	}

	if err := src.loadWeapons(filepath.Join(dir, weaponsDir)); err != nil {
		return nil, err
	}
	if err := src.loadShips(filepath.Join(dir, hullsDir)); err != nil {
		return nil, err
	}

	slog.Info("loaded data source", "dir", dir, "weapons", len(src.Weapons), "ships", len(src.Ships))
	return src, nil
}

func (s *Source) loadWeapons(dir string) error {
	records, err := readCSVFile(filepath.Join(dir, weaponCSVFile), weaponColumns,
		map[string]string{csvDamageTypeColumn: model.AttrDamageType})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	for id, rec := range records {
		fields, err := scanWeaponFile(filepath.Join(dir, id+weaponFileExt))
		if errors.Is(err, fs.ErrNotExist) {
			s.Weapons[id] = rec
			continue
		}
		if err != nil {
			return err
		}
		for k, v := range fields {
			rec[k] = v
		}
		s.Weapons[id] = rec
	}
	return nil
}

func (s *Source) loadShips(dir string) error {
	records, err := readCSVFile(filepath.Join(dir, shipCSVFile), shipColumns, nil)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	for id, rec := range records {
		attrs, err := readShipFile(filepath.Join(dir, id+shipFileExt))
		if errors.Is(err, fs.ErrNotExist) {
			s.Ships[id] = rec
			continue
		}
		if err != nil {
			return err
		}
		if err := mergeShip(rec, attrs); err != nil {
			return fmt.Errorf("ship %q: %w", id, err)
		}
		s.Ships[id] = rec
	}
	return nil
}

// Weapon returns a copy of the weapon record.
func (s *Source) Weapon(id string) (model.Record, error) {
	rec, ok := s.Weapons[id]
	if !ok {
		return nil, fmt.Errorf("weapon %q: %w", id, ErrNotFound)
	}
	return rec.Clone(), nil
}

// Ship returns a copy of the ship record.
func (s *Source) Ship(id string) (model.Record, error) {
	rec, ok := s.Ships[id]
	if !ok {
		return nil, fmt.Errorf("ship %q: %w", id, ErrNotFound)
	}
	return rec.Clone(), nil
}

func (s *Source) WeaponIDs() []string { return sortedKeys(s.Weapons) }
func (s *Source) ShipIDs() []string   { return sortedKeys(s.Ships) }

func sortedKeys(m map[string]model.Record) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
