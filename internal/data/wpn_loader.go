package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/udisondev/statsector/internal/model"
)

// wpnField matches `"specClass":"projectile"` style entries in a .wpn file.
var wpnField = regexp.MustCompile(`"(specClass|type)"\s*:\s*"([^"]*)"`)

// scanWeaponFile reads specClass and weapon type from <id>.wpn.
func scanWeaponFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fields, err := scanWeapon(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return fields, nil
}

// scanWeapon is a line scan rather than a JSON decode: .wpn files are loose
// JSON with # comments and unquoted values the decoder rejects.
func scanWeapon(r io.Reader) (map[string]string, error) {
	fields := make(map[string]string, 2)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line, _, _ := strings.Cut(sc.Text(), "#")
		for _, m := range wpnField.FindAllStringSubmatch(line, -1) {
			key := model.AttrSpecClass
			if m[1] == "type" {
				key = model.AttrType
			}
			// первое вхождение побеждает: вложенные блоки тоже бывают с "type"
			if _, ok := fields[key]; !ok {
				fields[key] = m[2]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}
