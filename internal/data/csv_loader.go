package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/udisondev/statsector/internal/model"
)

var (
	ErrMissingIDColumn = errors.New("csv has no id column")
	ErrInvalidValue    = errors.New("invalid cell value")
)

// csvDamageTypeColumn is the weapon_data.csv column holding the damage type.
// The .wpn file reuses the name "type" for the weapon type, so the CSV value
// is stored under model.AttrDamageType.
const csvDamageTypeColumn = "type"

// readCSVFile открывает CSV и строит records по колонкам.
func readCSVFile(path string, columns map[string]columnKind, rename map[string]string) (map[string]model.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := readCSV(f, columns, rename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// readCSV parses a header row and keys every following row by its id cell.
// Rows with an empty id are skipped and empty cells are left out of the record.
func readCSV(r io.Reader, columns map[string]columnKind, rename map[string]string) (map[string]model.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingIDColumn
		}
		return nil, fmt.Errorf("header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}

	idCol := -1
	for i, name := range header {
		if name == "id" {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, ErrMissingIDColumn
	}

	records := make(map[string]model.Record, 64)
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if idCol >= len(row) || row[idCol] == "" {
			continue
		}

		rec := make(model.Record, len(row))
		for i, cell := range row {
			if cell == "" || i >= len(header) || header[i] == "" {
				continue
			}
			name := header[i]
			value, err := typedValue(name, cell, columns)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if alias, ok := rename[name]; ok {
				name = alias
			}
			rec[name] = value
		}
		records[row[idCol]] = rec
	}
	return records, nil
}

func typedValue(column, cell string, columns map[string]columnKind) (any, error) {
	kind, ok := columns[column]
	if !ok {
		// моды добавляют свои колонки, храним как есть
		slog.Debug("untyped csv column", "column", column)
		return cell, nil
	}

	switch kind {
	case kindInt:
		if n, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil || f != float64(int(f)) {
			return nil, fmt.Errorf("%w: column %q wants int, got %q", ErrInvalidValue, column, cell)
		}
		return int(f), nil
	case kindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q wants number, got %q", ErrInvalidValue, column, cell)
		}
		return f, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(cell))
		if err != nil {
			return nil, fmt.Errorf("%w: column %q wants bool, got %q", ErrInvalidValue, column, cell)
		}
		return b, nil
	default:
		return cell, nil
	}
}
