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
	"fmt"

	"github.com/jetsetilly/titleloader/capability"
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/status"
)

// Status of a process.
type Status int

// List of valid Status values.
const (
	Created Status = iota
	Running
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case Running:
		return "running"
	}
	return "unknown status"
}

// number of entries in the service call access mask
const numSVC = 0x80

// MemoryMapping is an address range made available to the process by a
// capability descriptor.
type MemoryMapping struct {
	Address  uint32
	Size     uint32
	ReadOnly bool
}

// Process is a process created by the Kernel. Implements the
// capability.Process interface.
type Process struct {
	id      uint32
	codeset *CodeSet
	status  Status

	// information from the kernel capability descriptors
	SVCAccess       [numSVC]bool
	Interrupts      []uint8
	HandleTableSize uint32
	Flags           uint32
	KernelVersion   uint16
	Mappings        []MemoryMapping

	ResourceLimit  capability.ResourceLimit
	IdealProcessor uint8
	Priority       int32
	StackSize      uint32
}

func newProcess(id uint32, cs *CodeSet) *Process {
	return &Process{
		id:      id,
		codeset: cs,
	}
}

func (p *Process) String() string {
	return fmt.Sprintf("%d: %s (%s)", p.id, p.codeset.Name(), p.status)
}

// ID implements the capability.Process interface.
func (p *Process) ID() uint32 {
	return p.id
}

// CodeSet returns the codeset the process was created from.
func (p *Process) CodeSet() *CodeSet {
	return p.codeset
}

// Status returns the current status of the process.
func (p *Process) Status() Status {
	return p.status
}

// MemoryRegion returns the memory region field of the process flags.
func (p *Process) MemoryRegion() uint8 {
	return uint8((p.Flags >> 8) & 0x0f)
}

// unused descriptors are filled with this value
const emptyDescriptor = 0xffffffff

// ParseKernelCaps implements the capability.Process interface.
//
// The type of descriptor is determined by the number of leading one bits.
// Descriptors with an unrecognised pattern are an error.
func (p *Process) ParseKernelCaps(descriptors []uint32) error {
	if len(descriptors) > container.NumDescriptors {
		return curated.Errorf("kernel: %w: too many capability descriptors (%d)", status.InvalidFormat, len(descriptors))
	}

	for i := 0; i < len(descriptors); i++ {
		d := descriptors[i]
		if d == emptyDescriptor {
			continue
		}

		typ := d >> 20

		switch {
		case typ&0xf00 == 0xe00:
			// four seven bit interrupt numbers. 0x7f is unused
			for s := 0; s < 28; s += 7 {
				if n := uint8((d >> s) & 0x7f); n != 0x7f {
					p.Interrupts = append(p.Interrupts, n)
				}
			}

		case typ&0xf80 == 0xf00:
			// twenty four bits of the service call access mask
			idx := int((d>>24)&0x07) * 24
			bits := d & 0x00ffffff
			for ; bits != 0 && idx < numSVC; idx++ {
				p.SVCAccess[idx] = bits&0x01 == 0x01
				bits >>= 1
			}

		case typ&0xff0 == 0xfe0:
			p.HandleTableSize = d & 0x3ff

		case typ&0xff8 == 0xff0:
			p.Flags = d & 0xffff

		case typ&0xffe == 0xff8:
			// memory range is described by a pair of descriptors
			if i+1 >= len(descriptors) || (descriptors[i+1]>>20)&0xffe != 0xff8 {
				logger.Logf(logger.Allow, "kernel", "process %d: incomplete memory range descriptor ignored", p.id)
				continue
			}
			end := descriptors[i+1]
			i++

			m := MemoryMapping{
				Address:  (d & 0x000fffff) << 12,
				ReadOnly: d&(1<<20) != 0,
			}
			endAddress := (end & 0x000fffff) << 12
			if endAddress > m.Address {
				m.Size = endAddress - m.Address
			}
			p.Mappings = append(p.Mappings, m)

		case typ&0xfff == 0xffe:
			p.Mappings = append(p.Mappings, MemoryMapping{
				Address: (d & 0x000fffff) << 12,
				Size:    container.PageSize,
			})

		case typ&0xfe0 == 0xfc0:
			if p.KernelVersion != 0 {
				return curated.Errorf("kernel: %w: multiple kernel version descriptors", status.InvalidFormat)
			}
			p.KernelVersion = uint16(d & 0xffff)
			logger.Logf(logger.Allow, "kernel", "process %d: kernel version %d.%d", p.id,
				p.KernelVersion>>8, p.KernelVersion&0xff)

		default:
			return curated.Errorf("kernel: %w: unhandled capability descriptor %08x", status.InvalidFormat, d)
		}
	}

	return nil
}

// SetResourceLimit implements the capability.Process interface.
func (p *Process) SetResourceLimit(limit capability.ResourceLimit) {
	p.ResourceLimit = limit
}

// SetIdealProcessor implements the capability.Process interface.
func (p *Process) SetIdealProcessor(core uint8) {
	p.IdealProcessor = core
}

// Run implements the capability.Process interface.
func (p *Process) Run(priority int32, stackSize uint32) {
	if p.status == Running {
		logger.Logf(logger.Allow, "kernel", "process %d: already running", p.id)
		return
	}
	p.Priority = priority
	p.StackSize = stackSize
	p.status = Running
	logger.Logf(logger.Allow, "kernel", "process %d: running from %08x", p.id, p.codeset.Entrypoint)
}
