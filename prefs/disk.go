// This file is part of Titleloader.
//
// Titleloader is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Titleloader is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Titleloader.  If not, see <https://www.gnu.org/licenses/>.

package prefs

import (
	"errors"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/jetsetilly/titleloader/curated"
)

// Disk represents preference values as stored on disk.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type. The
// file is not read until Load() is called.
func NewDisk(path string) (*Disk, error) {
	if path == "" {
		return nil, curated.Errorf("prefs: no path for preferences file")
	}
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

func (dsk *Disk) String() string {
	keys := make([]string, 0, len(dsk.entries))
	for k := range dsk.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, k := range keys {
		s.WriteString(k)
		s.WriteString(" :: ")
		s.WriteString(dsk.entries[k].String())
		s.WriteString("\n")
	}
	return s.String()
}

// Add a preference value to the Disk under the dotted key.
func (dsk *Disk) Add(key string, p pref) error {
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return curated.Errorf("prefs: illegal key %q", key)
		}
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf("prefs: key %q already added", key)
	}
	dsk.entries[key] = p
	return nil
}

// read the file on disk into a flattened map of dotted keys. a missing file
// is the same as an empty file.
func (dsk *Disk) read() (map[string]any, error) {
	data, err := os.ReadFile(dsk.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, curated.Errorf("prefs: %v", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, curated.Errorf("prefs: %v", err)
	}

	flat := make(map[string]any)
	flatten("", doc, flat)
	return flat, nil
}

func flatten(prefix string, doc map[string]any, flat map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if m, ok := v.(map[string]any); ok {
			flatten(key, m, flat)
			continue
		}
		flat[key] = v
	}
}

// Load values from the file on disk. Only keys added to the Disk are changed.
func (dsk *Disk) Load() error {
	flat, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		if v, ok := flat[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf("prefs: %s: %v", k, err)
			}
		}
	}

	return nil
}

// Save values to the file on disk. Values in the file that are not part of
// this Disk are preserved.
func (dsk *Disk) Save() error {
	flat, err := dsk.read()
	if err != nil {
		return err
	}

	for k, p := range dsk.entries {
		flat[k] = p.Get()
	}

	doc := make(map[string]any)
	for k, v := range flat {
		parts := strings.Split(k, ".")
		m := doc
		for _, part := range parts[:len(parts)-1] {
			n, ok := m[part].(map[string]any)
			if !ok {
				n = make(map[string]any)
				m[part] = n
			}
			m = n
		}
		m[parts[len(parts)-1]] = v
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	if err := os.WriteFile(dsk.path, data, 0o644); err != nil {
		return curated.Errorf("prefs: %v", err)
	}

	return nil
}
