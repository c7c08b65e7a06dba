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

// Package overlay decides which of a title's base package and its update
// package is used for each kind of content.
//
// When an update package is found and loads successfully, it is authoritative
// for the code, icon, banner and logo sections and for the executable flag.
// Otherwise the base package is authoritative. The decision is made once, by
// Resolve().
//
// The asset store is different. The base asset store is always returned by
// ReadAssetStore(). ReadUpdateAssetStore() tries the update package every time
// it is called and falls back to the base asset store if that fails for any
// reason.
//
// Program and extdata identifiers are always read from the base package.
package overlay

import (
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/paths"
)

// UpdateMask is combined with the program identifier of a title to produce
// the identifier of the title's update.
const UpdateMask uint64 = 0x0000000e00000000

// UpdateID returns the identifier of the update for the program.
func UpdateID(programID uint64) uint64 {
	return programID | UpdateMask
}

// TitlePathResolver returns the path to the main package of an installed
// title. An empty string means the title cannot be installed on the medium.
type TitlePathResolver interface {
	PathFor(media paths.MediaType, titleID uint64) string
}

// the medium on which updates are installed
const updateMedia = paths.MediaSDMC

// Resolver holds the result of update resolution for a title.
type Resolver struct {
	base   *container.Container
	update *container.Container

	// points to either base or update
	authoritative *container.Container

	updatePath string
	open       container.Opener
}

// Resolve the update for the base package. The base package must be loaded
// or loadable. Failure to find or load the update package is not an error.
func Resolve(base *container.Container, titles TitlePathResolver, open container.Opener) (*Resolver, error) {
	programID, err := base.ProgramID()
	if err != nil {
		return nil, curated.Errorf("overlay: %w", err)
	}

	updateID := UpdateID(programID)

	r := &Resolver{
		base:          base,
		authoritative: base,
		updatePath:    titles.PathFor(updateMedia, updateID),
		open:          open,
	}

	r.update = container.Open(container.Update, r.updatePath, open)

	if err := r.update.Load(); err != nil {
		logger.Logf(logger.Allow, "overlay", "no update for %016x: %v", programID, err)
	} else {
		r.authoritative = r.update
		logger.Logf(logger.Allow, "overlay", "update %016x found: %s", updateID, r.updatePath)
	}

	return r, nil
}

// Base returns the base package.
func (r *Resolver) Base() *container.Container {
	return r.base
}

// Authoritative returns the package used for single-source content.
func (r *Resolver) Authoritative() *container.Container {
	return r.authoritative
}

// IsUpdateApplied returns true if the update package is authoritative.
func (r *Resolver) IsUpdateApplied() bool {
	return r.authoritative == r.update
}

// UpdatePath returns the path at which the update package is expected.
func (r *Resolver) UpdatePath() string {
	return r.updatePath
}

// ReadCode returns the code section from the authoritative package.
func (r *Resolver) ReadCode() ([]byte, error) {
	return r.authoritative.Section(container.SectionCode)
}

// ReadIcon returns the icon section from the authoritative package.
func (r *Resolver) ReadIcon() ([]byte, error) {
	return r.authoritative.Section(container.SectionIcon)
}

// ReadBanner returns the banner section from the authoritative package.
func (r *Resolver) ReadBanner() ([]byte, error) {
	return r.authoritative.Section(container.SectionBanner)
}

// ReadLogo returns the logo section from the authoritative package.
func (r *Resolver) ReadLogo() ([]byte, error) {
	return r.authoritative.Section(container.SectionLogo)
}

// IsExecutable returns the executable flag of the authoritative package.
func (r *Resolver) IsExecutable() (bool, error) {
	return r.authoritative.IsExecutable()
}

// ReadProgramID returns the program identifier of the base package.
func (r *Resolver) ReadProgramID() (uint64, error) {
	return r.base.ProgramID()
}

// ReadExtdataID returns the extdata identifier of the base package.
func (r *Resolver) ReadExtdataID() (uint64, error) {
	return r.base.ExtdataID()
}

// ReadAssetStore returns the asset store of the base package.
func (r *Resolver) ReadAssetStore() (container.AssetStore, error) {
	return r.base.AssetStore()
}

// ReadUpdateAssetStore returns the asset store of the update package. If that
// fails the asset store of the base package is returned instead.
//
// If the update package was not loaded by Resolve() then another attempt is
// made to open it.
func (r *Resolver) ReadUpdateAssetStore() (container.AssetStore, error) {
	update := r.update
	if !r.IsUpdateApplied() {
		update = container.Open(container.Update, r.updatePath, r.open)
	}

	st, err := update.AssetStore()
	if err == nil {
		return st, nil
	}
	logger.Logf(logger.Allow, "overlay", "using base asset store: %v", err)
	return r.base.AssetStore()
}

// DumpAssetStore writes the files of the base asset store beneath the target
// directory.
func (r *Resolver) DumpAssetStore(target string) error {
	st, err := r.base.AssetStore()
	if err != nil {
		return curated.Errorf("overlay: %w", err)
	}
	return st.Dump(target)
}

// DumpUpdateAssetStore writes the files of the update asset store beneath the
// target directory. The update package is opened afresh. There is no
// fallback to the base asset store.
func (r *Resolver) DumpUpdateAssetStore(target string) error {
	update := container.Open(container.Update, r.updatePath, r.open)
	st, err := update.AssetStore()
	if err != nil {
		return curated.Errorf("overlay: %w", err)
	}
	return st.Dump(target)
}
