package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"dario.cat/mergo"

	"github.com/udisondev/statsector/internal/model"
)

// readShipFile decodes <id>.ship into a flat attribute map.
func readShipFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	attrs, err := decodeLooseJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return attrs, nil
}

// mergeShip overlays .ship attributes on the CSV row. The .ship value wins
// on conflict, matching how the game resolves hull data.
func mergeShip(rec model.Record, attrs map[string]any) error {
	dst := map[string]any(rec)
	if err := mergo.Merge(&dst, attrs, mergo.WithOverride); err != nil {
		return fmt.Errorf("merging ship attributes: %w", err)
	}
	return nil
}

// decodeLooseJSON accepts the relaxed JSON of game files: # line comments and
// trailing commas. Numbers decode as float64.
func decodeLooseJSON(raw []byte) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal(cleanLooseJSON(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func cleanLooseJSON(raw []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(raw))

	inString, escaped, inComment := false, false, false
	for _, c := range raw {
		switch {
		case inComment:
			if c == '\n' {
				inComment = false
				buf.WriteByte(c)
			}
			continue
		case inString:
			buf.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '#':
			inComment = true
			continue
		case '}', ']':
			trimTrailingComma(&buf)
		}
		buf.WriteByte(c)
	}
	return buf.Bytes()
}

// trimTrailingComma drops a comma that is followed only by whitespace.
func trimTrailingComma(buf *bytes.Buffer) {
	b := buf.Bytes()
	i := len(b) - 1
	for i >= 0 && (b[i] == ' ' || b[i] == '\t' || b[i] == '\n' || b[i] == '\r') {
		i--
	}
	if i >= 0 && b[i] == ',' {
		tail := append([]byte(nil), b[i+1:]...)
		buf.Truncate(i)
		buf.Write(tail)
	}
}
