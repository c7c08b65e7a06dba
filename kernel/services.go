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

package kernel

import (
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
)

// Registration is the information held by the FSRegistry for a process.
type Registration struct {
	ProgramID uint64
	Path      string
}

// FSRegistry records the program that each process was created from.
// Implements the capability.FSRegistry interface.
type FSRegistry struct {
	registrations map[uint32]Registration
}

// NewFSRegistry is the preferred method of initialisation for the FSRegistry
// type.
func NewFSRegistry() *FSRegistry {
	return &FSRegistry{
		registrations: make(map[uint32]Registration),
	}
}

// Register implements the capability.FSRegistry interface. A process can only
// be registered once.
func (r *FSRegistry) Register(processID uint32, programID uint64, path string) error {
	if _, ok := r.registrations[processID]; ok {
		return curated.Errorf("kernel: process %d already registered", processID)
	}
	r.registrations[processID] = Registration{
		ProgramID: programID,
		Path:      path,
	}
	return nil
}

// Lookup returns the registration for the process.
func (r *FSRegistry) Lookup(processID uint32) (Registration, bool) {
	reg, ok := r.registrations[processID]
	return reg, ok
}

func (r *FSRegistry) unregister(processID uint32) {
	delete(r.registrations, processID)
}

// ConfigStore is the console configuration. Implements the
// region.ConfigStore interface.
type ConfigStore struct {
	PreferredRegions []uint32
}

// SetPreferredRegionCodes implements the region.ConfigStore interface.
func (c *ConfigStore) SetPreferredRegionCodes(codes []uint32) {
	c.PreferredRegions = make([]uint32, len(codes))
	copy(c.PreferredRegions, codes)
	logger.Logf(logger.Allow, "kernel", "preferred regions: %v", c.PreferredRegions)
}

// ArchiveManager provides archives to running processes. Only the archive
// of the running title itself is supported.
type ArchiveManager struct {
	self container.TitleSource
}

// RegisterSelf sets the source of the archive of the running title.
func (a *ArchiveManager) RegisterSelf(src container.TitleSource) {
	a.self = src
}

// Self returns the source of the archive of the running title.
func (a *ArchiveManager) Self() (container.TitleSource, bool) {
	return a.self, a.self != nil
}
