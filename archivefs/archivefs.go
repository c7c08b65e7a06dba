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

package archivefs

import (
	"archive/zip"
	_ "crypto/sha256"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/jetsetilly/titleloader/curated"
)

// Node represents a single entry in a directory of the Store.
type Node struct {
	Name string

	// a directory has the the field of IsDir set to true
	IsDir bool
}

func (e Node) String() string {
	return e.Name
}

// Store is a read-only asset store.
type Store struct {
	fsys  fs.FS
	files []string
	index map[digest.Digest]string
}

// New creates a Store from the directory root inside a zip archive.
func New(zr *zip.Reader, root string) (*Store, error) {
	sub, err := fs.Sub(zr, root)
	if err != nil {
		return nil, curated.Errorf("archivefs: %v", err)
	}
	return NewFromFS(sub)
}

// NewFromFS creates a Store from a filesystem. Every file is read once so
// that the digest index can be built.
func NewFromFS(fsys fs.FS) (*Store, error) {
	st := &Store{
		fsys:  fsys,
		index: make(map[digest.Digest]string),
	}

	err := fs.WalkDir(fsys, ".", func(pth string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(fsys, pth)
		if err != nil {
			return err
		}

		st.files = append(st.files, pth)

		// the first file with a particular content is the one that is
		// indexed. WalkDir is in lexical order so this is predictable
		dgst := digest.FromBytes(data)
		if _, ok := st.index[dgst]; !ok {
			st.index[dgst] = pth
		}

		return nil
	})
	if err != nil {
		return nil, curated.Errorf("archivefs: %v", err)
	}

	sort.Strings(st.files)

	return st, nil
}

// Open implements the fs.FS interface.
func (st *Store) Open(name string) (fs.File, error) {
	return st.fsys.Open(name)
}

// ReadFile implements the fs.ReadFileFS interface.
func (st *Store) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(st.fsys, name)
}

// Lookup returns the name of the file with the specified content digest.
func (st *Store) Lookup(d digest.Digest) (string, bool) {
	n, ok := st.index[d]
	return n, ok
}

// Files returns the sorted list of every file in the store.
func (st *Store) Files() []string {
	f := make([]string, len(st.files))
	copy(f, st.files)
	return f
}

// List returns the entries in the directory. Directories are at the start of
// the list and entries are otherwise sorted alphabetically (case
// insensitive).
func (st *Store) List(dir string) ([]Node, error) {
	entries, err := fs.ReadDir(st.fsys, dir)
	if err != nil {
		return nil, curated.Errorf("archivefs: %v", err)
	}

	ent := make([]Node, 0, len(entries))
	for _, e := range entries {
		ent = append(ent, Node{
			Name:  e.Name(),
			IsDir: e.IsDir(),
		})
	}

	sort.SliceStable(ent, func(i int, j int) bool {
		if ent[i].IsDir != ent[j].IsDir {
			return ent[i].IsDir
		}
		return strings.ToLower(ent[i].Name) < strings.ToLower(ent[j].Name)
	})

	return ent, nil
}

// Dump writes every file in the store beneath the target directory. The
// directory is created if necessary.
func (st *Store) Dump(target string) error {
	for _, f := range st.files {
		data, err := fs.ReadFile(st.fsys, f)
		if err != nil {
			return curated.Errorf("archivefs: %v", err)
		}

		dest := filepath.Join(target, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return curated.Errorf("archivefs: %v", err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return curated.Errorf("archivefs: %v", err)
		}
	}
	return nil
}

// Ext returns the upper-case extension of the filename.
func Ext(name string) string {
	return strings.ToUpper(path.Ext(name))
}
