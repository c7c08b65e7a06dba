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
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
)

// Binding is the information bound to a process.
type Binding struct {
	KernelCaps            container.KernelCaps
	ProgramID             uint64
	Priority              int32
	ResourceLimitCategory uint8
	IdealProcessor        uint8
	StackSize             uint32

	// path of the package that the process was created from
	Path string
}

// NewBinding creates a Binding from the header of a package.
func NewBinding(hdr *container.Header, programID uint64, path string) Binding {
	return Binding{
		KernelCaps:            hdr.KernelCaps,
		ProgramID:             programID,
		Priority:              hdr.System.Priority,
		ResourceLimitCategory: hdr.System.ResourceLimitCategory,
		IdealProcessor:        hdr.System.IdealProcessor,
		StackSize:             hdr.System.StackSize,
		Path:                  path,
	}
}

// Binder binds a Binding to a process.
type Binder struct {
	Limits ResourceLimits
	FS     FSRegistry
}

// Bind the information to the process and start the process. The process is
// not started if an error is returned.
//
// Failure to register the process with the FSRegistry is not an error.
func (b Binder) Bind(proc Process, bnd Binding) error {
	descriptors := bnd.KernelCaps.Descriptors()
	if err := proc.ParseKernelCaps(descriptors[:]); err != nil {
		return curated.Errorf("binder: %w", err)
	}

	limit, err := b.Limits.ForCategory(bnd.ResourceLimitCategory)
	if err != nil {
		return curated.Errorf("binder: %w", err)
	}
	proc.SetResourceLimit(limit)

	proc.SetIdealProcessor(bnd.IdealProcessor)

	if b.FS != nil {
		if err := b.FS.Register(proc.ID(), bnd.ProgramID, bnd.Path); err != nil {
			logger.Logf(logger.Allow, "binder", "filesystem registration failed: %v", err)
		}
	}

	logger.Logf(logger.Allow, "binder", "process %d: priority %d: stack %#x", proc.ID(), bnd.Priority, bnd.StackSize)

	proc.Run(bnd.Priority, bnd.StackSize)

	return nil
}
