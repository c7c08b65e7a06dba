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
	"errors"
	"io"
	"io/fs"

	"github.com/klauspost/compress/zstd"

	"github.com/jetsetilly/titleloader/archivefs"
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/packageloader"
	"github.com/jetsetilly/titleloader/patch"
	"github.com/jetsetilly/titleloader/status"
)

const (
	exefsDir  = "exefs/"
	romfsDir  = "romfs"
	patchName = "code.ips"
	zstdExt   = ".zst"
)

var zipMagic = []byte("PK\x03\x04")

// Identify returns true if the data is a development package.
func Identify(data []byte) bool {
	if !bytes.HasPrefix(data, zipMagic) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	_, err = fs.Stat(zr, ManifestName)
	return err == nil
}

// Package is a development package. Implements the container.Reader
// interface.
type Package struct {
	loader packageloader.Loader

	zr       *zip.Reader
	manifest Manifest
}

// Open is a container.Opener for development packages.
func Open(path string) (container.Reader, error) {
	return New(packageloader.NewLoader(path)), nil
}

// New creates a Package from a packageloader.Loader. The loader can already
// have been loaded.
func New(ld packageloader.Loader) *Package {
	return &Package{
		loader: ld,
	}
}

// Load implements the container.Reader interface.
func (p *Package) Load() error {
	if err := p.loader.Load(); err != nil {
		return curated.Errorf("pkgfile: %w: %v", status.Error, err)
	}

	if !Identify(p.loader.Data) {
		return curated.Errorf("pkgfile: %w: %s is not a development package", status.InvalidFormat, p.loader.ShortName())
	}

	var err error

	p.zr, err = zip.NewReader(bytes.NewReader(p.loader.Data), int64(len(p.loader.Data)))
	if err != nil {
		return curated.Errorf("pkgfile: %w: %v", status.InvalidFormat, err)
	}

	data, err := fs.ReadFile(p.zr, ManifestName)
	if err != nil {
		return curated.Errorf("pkgfile: %w: %v", status.Error, err)
	}

	p.manifest, err = decodeManifest(data)
	if err != nil {
		return err
	}

	logger.Logf(logger.Allow, "package", "%s: program id %016x", p.loader.ShortName(), p.manifest.ProgramID)

	return nil
}

// Manifest returns the decoded manifest.
func (p *Package) Manifest() Manifest {
	return p.manifest
}

// ProgramID implements the container.Reader interface.
func (p *Package) ProgramID() (uint64, error) {
	return p.manifest.ProgramID, nil
}

// ExtdataID implements the container.Reader interface.
func (p *Package) ExtdataID() (uint64, error) {
	return p.manifest.ExtdataID, nil
}

// IsExecutable implements the container.Reader interface.
func (p *Package) IsExecutable() (bool, error) {
	return p.manifest.Executable, nil
}

// Header implements the container.Reader interface.
func (p *Package) Header() (*container.Header, error) {
	if !p.manifest.Executable {
		return nil, curated.Errorf("pkgfile: %w: no executable header", status.NotUsed)
	}
	return p.manifest.Header(), nil
}

// read a file from the exefs directory, decompressing it if necessary.
// returns an error classifying as status.NotUsed if the file is not present.
func (p *Package) exefs(name string) ([]byte, error) {
	if p.zr == nil {
		return nil, curated.Errorf("pkgfile: %w", status.NotLoaded)
	}

	data, err := fs.ReadFile(p.zr, exefsDir+name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, curated.Errorf("pkgfile: %w: %v", status.Error, err)
	}

	f, err := p.zr.Open(exefsDir + name + zstdExt)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, curated.Errorf("pkgfile: %w: no %s section", status.NotUsed, name)
		}
		return nil, curated.Errorf("pkgfile: %w: %v", status.Error, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, curated.Errorf("pkgfile: %w: %v", status.Error, err)
	}
	defer dec.Close()

	data, err = io.ReadAll(dec)
	if err != nil {
		return nil, curated.Errorf("pkgfile: %w: %s: %v", status.InvalidFormat, name, err)
	}

	return data, nil
}

// Section implements the container.Reader interface.
func (p *Package) Section(name string) ([]byte, error) {
	return p.exefs(name)
}

// AssetStore implements the container.Reader interface.
func (p *Package) AssetStore() (container.AssetStore, error) {
	if p.zr == nil {
		return nil, curated.Errorf("pkgfile: %w", status.NotLoaded)
	}

	if _, err := fs.Stat(p.zr, romfsDir); err != nil {
		return nil, curated.Errorf("pkgfile: %w: no asset store", status.NotUsed)
	}

	st, err := archivefs.New(p.zr, romfsDir)
	if err != nil {
		return nil, curated.Errorf("pkgfile: %w: %v", status.Error, err)
	}

	return st, nil
}

// ApplyCodePatch implements the container.Reader interface.
func (p *Package) ApplyCodePatch(code []byte) error {
	ips, err := p.exefs(patchName)
	if err != nil {
		return err
	}

	n, err := patch.ApplyIPS(code, ips)
	if err != nil {
		return curated.Errorf("pkgfile: %w", err)
	}

	logger.Logf(logger.Allow, "package", "%s: %d patch records applied", p.loader.ShortName(), n)

	return nil
}
