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

package image

import (
	"fmt"
	"math"

	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/status"
)

// Segment is one of the three segments of the image.
type Segment struct {
	// offset of the segment in the image buffer
	Offset uint32

	// address of the segment in the process address space
	Address uint32

	Size uint32
}

func (s Segment) String() string {
	return fmt.Sprintf("%08x to %08x (%d)", s.Address, s.Address+s.Size, s.Size)
}

// Patcher applies a patch to the image buffer. An error classifying as
// status.NotUsed means that there was no patch.
type Patcher interface {
	ApplyCodePatch(code []byte) error
}

// Image is the completed memory image of a process.
type Image struct {
	Name string

	Code   Segment
	ROData Segment
	Data   Segment

	Entrypoint uint32

	memory []byte
}

// RoundUp returns n rounded up to the next multiple of container.PageSize.
func RoundUp(n uint64) uint64 {
	return (n + container.PageSize - 1) &^ (container.PageSize - 1)
}

// Build the image from the code section and the header. The code slice is not
// copied and should not be used by the caller after Build() returns.
//
// The length of the code section is not checked against the declared segment
// sizes. A short code section will produce a buffer shorter than the sum of
// the segment sizes.
func Build(code []byte, hdr *container.Header, patcher Patcher) (*Image, error) {
	if IsLegacyWrapped(code) {
		return nil, curated.Errorf("image: %w", status.UnsupportedLegacyTitle)
	}

	layout := hdr.Layout

	codeSize := layout.Code.MaxSize()
	rodataSize := layout.ROData.MaxSize()
	bss := RoundUp(uint64(layout.BSSSize))
	dataSize := layout.Data.MaxSize() + bss

	// every offset and size is smaller than the end of the data segment
	if codeSize+rodataSize+dataSize > math.MaxUint32 {
		return nil, curated.Errorf("image: %w: segments do not fit in the address space", status.InvalidFormat)
	}

	img := &Image{
		Name: hdr.Name,
	}

	img.Code = Segment{
		Offset:  0,
		Address: layout.Code.Address,
		Size:    uint32(codeSize),
	}

	img.ROData = Segment{
		Offset:  img.Code.Offset + img.Code.Size,
		Address: layout.ROData.Address,
		Size:    uint32(rodataSize),
	}

	img.Data = Segment{
		Offset:  img.ROData.Offset + img.ROData.Size,
		Address: layout.Data.Address,
		Size:    uint32(dataSize),
	}

	for _, seg := range []Segment{img.Code, img.ROData, img.Data} {
		if uint64(seg.Address)+uint64(seg.Size) > math.MaxUint32+1 {
			return nil, curated.Errorf("image: %w: segment %s is outside the address space", status.InvalidFormat, seg)
		}
	}

	code = append(code, make([]byte, bss)...)

	// patches are applied after the bss has been added to the buffer so that
	// they can target the whole of the data segment
	if patcher != nil {
		if err := patcher.ApplyCodePatch(code); err != nil {
			if !status.IsSuccessOrNotUsed(err) {
				return nil, err
			}
		} else {
			logger.Logf(logger.Allow, "image", "%s: code patch applied", img.Name)
		}
	}

	img.Entrypoint = img.Code.Address
	img.memory = code

	logger.Logf(logger.Allow, "image", "%s: code: %s", img.Name, img.Code)
	logger.Logf(logger.Allow, "image", "%s: rodata: %s", img.Name, img.ROData)
	logger.Logf(logger.Allow, "image", "%s: data: %s (bss %d)", img.Name, img.Data, bss)

	return img, nil
}

// Len returns the length of the image buffer. Returns zero after Handoff().
func (img *Image) Len() int {
	return len(img.memory)
}

// Handoff returns the image buffer. The Image no longer refers to the buffer
// after this call and subsequent calls return nil.
func (img *Image) Handoff() []byte {
	m := img.memory
	img.memory = nil
	return m
}
