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

package pkgfile

import (
	"archive/zip"
	"bytes"
	"path"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/zstd"

	"github.com/jetsetilly/titleloader/curated"
)

// Contents of a development package for use with the Create() function.
type Contents struct {
	Manifest Manifest

	// exefs sections indexed by name
	Sections map[string][]byte

	// store sections with zstd compression
	Compress bool

	// files in the asset store indexed by slash separated path
	Assets map[string][]byte

	// IPS patch for the code section
	Patch []byte
}

func sortedKeys(m map[string][]byte) []string {
	k := make([]string, 0, len(m))
	for n := range m {
		k = append(k, n)
	}
	sort.Strings(k)
	return k
}

// Create a development package.
func Create(c Contents) ([]byte, error) {
	if err := c.Manifest.validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name string, data []byte) error {
		w, err := zw.Create(name)
		if err != nil {
			return curated.Errorf("pkgfile: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			return curated.Errorf("pkgfile: %v", err)
		}
		return nil
	}

	man, err := yaml.Marshal(c.Manifest)
	if err != nil {
		return nil, curated.Errorf("pkgfile: %v", err)
	}
	if err := add(ManifestName, man); err != nil {
		return nil, err
	}

	var enc *zstd.Encoder
	if c.Compress {
		enc, err = zstd.NewWriter(nil)
		if err != nil {
			return nil, curated.Errorf("pkgfile: %v", err)
		}
		defer enc.Close()
	}

	for _, n := range sortedKeys(c.Sections) {
		data := c.Sections[n]
		name := exefsDir + n
		if enc != nil {
			data = enc.EncodeAll(data, nil)
			name += zstdExt
		}
		if err := add(name, data); err != nil {
			return nil, err
		}
	}

	if len(c.Patch) > 0 {
		if err := add(exefsDir+patchName, c.Patch); err != nil {
			return nil, err
		}
	}

	for _, n := range sortedKeys(c.Assets) {
		if err := add(path.Join(romfsDir, n), c.Assets[n]); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, curated.Errorf("pkgfile: %v", err)
	}

	return buf.Bytes(), nil
}
