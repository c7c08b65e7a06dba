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

import "encoding/binary"

// PageSize is the granularity of segment sizes in the process image.
const PageSize = 4096

// NumDescriptors is the number of kernel capability descriptors in a package
// header.
const NumDescriptors = 28

// Section names.
const (
	SectionCode   = ".code"
	SectionIcon   = "icon"
	SectionBanner = "banner"
	SectionLogo   = "logo"
)

// SegmentSpec is the declared address and maximum size (in pages) of one
// segment of the executable image.
type SegmentSpec struct {
	Address   uint32
	PageCount uint32
}

// MaxSize returns the declared maximum size of the segment in bytes. The
// result can be larger than a 32bit address space.
func (s SegmentSpec) MaxSize() uint64 {
	return uint64(s.PageCount) * PageSize
}

// Layout describes how the code section is arranged in memory.
type Layout struct {
	Code   SegmentSpec
	ROData SegmentSpec
	Data   SegmentSpec

	// size of the zero filled uninitialised data that follows the data
	// segment. not necessarily a multiple of PageSize
	BSSSize uint32
}

// SystemInfo is the scheduling and mode information of the package.
type SystemInfo struct {
	Priority              int32
	ResourceLimitCategory uint8
	IdealProcessor        uint8
	StackSize             uint32
	SystemMode            uint8
	NewHardwareMode       uint8
}

// KernelCaps is the kernel capability descriptor array as stored in the
// package: NumDescriptors little-endian 32bit words.
type KernelCaps [NumDescriptors * 4]byte

// Descriptors returns the descriptor array in host byte order.
func (k KernelCaps) Descriptors() [NumDescriptors]uint32 {
	var d [NumDescriptors]uint32
	for i := range d {
		d[i] = binary.LittleEndian.Uint32(k[i*4:])
	}
	return d
}

// PackKernelCaps creates a KernelCaps array from a list of descriptors.
// Missing descriptors are filled with the unused descriptor value 0xffffffff.
// Extra descriptors are ignored.
func PackKernelCaps(descriptors []uint32) KernelCaps {
	var k KernelCaps
	for i := 0; i < NumDescriptors; i++ {
		v := uint32(0xffffffff)
		if i < len(descriptors) {
			v = descriptors[i]
		}
		binary.LittleEndian.PutUint32(k[i*4:], v)
	}
	return k
}

// Header is the executable metadata of a package.
type Header struct {
	// process name. at most eight characters
	Name string

	Layout     Layout
	System     SystemInfo
	KernelCaps KernelCaps
}
