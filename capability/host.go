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

package capability

import (
	"github.com/jetsetilly/titleloader/image"
)

// CodeSet is the host's record of a completed process image.
type CodeSet interface {
	Name() string
	ProgramID() uint64
}

// ProcessHost creates processes from process images.
type ProcessHost interface {
	// CreateCodeSet takes ownership of the image buffer with Image.Handoff()
	CreateCodeSet(img *image.Image, programID uint64) (CodeSet, error)

	// CreateProcess creates a process that has not yet been started
	CreateProcess(cs CodeSet) (Process, error)

	// DestroyProcess discards a process that will never be started
	DestroyProcess(proc Process)
}

// Process created by the ProcessHost.
type Process interface {
	ID() uint32

	// ParseKernelCaps applies the kernel capability descriptors to the
	// process. A malformed descriptor is an error
	ParseKernelCaps(descriptors []uint32) error

	SetResourceLimit(limit ResourceLimit)
	SetIdealProcessor(core uint8)

	// Run starts the process. Control of the process passes to the host
	Run(priority int32, stackSize uint32)
}

// ResourceLimit is the set of resource limits for a category of process.
type ResourceLimit interface {
	Category() uint8
}

// ResourceLimits is the registry of ResourceLimit instances.
type ResourceLimits interface {
	ForCategory(category uint8) (ResourceLimit, error)
}

// FSRegistry associates a process with the program that it was created
// from, for the benefit of the filesystem service.
type FSRegistry interface {
	Register(processID uint32, programID uint64, path string) error
}
