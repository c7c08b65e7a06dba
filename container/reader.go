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

package container

import (
	"io/fs"

	"github.com/opencontainers/go-digest"
)

// AssetStore is the read-only filesystem bundled with a package. Files can
// be found by name or by the digest of their content.
type AssetStore interface {
	fs.ReadFileFS

	// Lookup returns the name of the file with the specified content digest.
	Lookup(d digest.Digest) (string, bool)

	// Files returns the sorted list of files in the store.
	Files() []string

	// Dump writes every file in the store beneath the target directory.
	Dump(target string) error
}

// Reader is implemented by package formats.
type Reader interface {
	// Load prepares the package for reading. Implementations need not cache
	// the result. The Container type does that.
	Load() error

	ProgramID() (uint64, error)
	ExtdataID() (uint64, error)
	IsExecutable() (bool, error)
	Header() (*Header, error)

	// Section returns the named section. Sections not present in the package
	// return an error.
	Section(name string) ([]byte, error)

	AssetStore() (AssetStore, error)

	// ApplyCodePatch patches the code buffer in place. If the package has no
	// patch then an error classifying as status.NotUsed is returned.
	ApplyCodePatch(code []byte) error
}

// Opener opens the package at the path. The package is not expected to be
// loaded by the Opener.
type Opener func(path string) (Reader, error)

// TitleSource is the view of a loaded title used by services that need to
// read its content after loading has completed.
type TitleSource interface {
	ReadProgramID() (uint64, error)
	ReadCode() ([]byte, error)
	ReadIcon() ([]byte, error)
	ReadAssetStore() (AssetStore, error)
	ReadUpdateAssetStore() (AssetStore, error)
}
