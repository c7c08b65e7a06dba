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
	"github.com/goccy/go-yaml"

	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/status"
)

// ManifestName is the name of the metadata file in the package.
const ManifestName = "exheader.yaml"

// maximum length of the process name
const maxNameLen = 8

// largest segment page count and bss size that fit in a 32bit address space
const (
	maxPages   = 0xfffff
	maxBSSSize = 0xfffff000
)

// Segment is the manifest entry for one segment of the code section.
type Segment struct {
	Address uint32 `yaml:"address"`
	Pages   uint32 `yaml:"pages"`
}

// Layout is the manifest entry describing the code section.
type Layout struct {
	Code    Segment `yaml:"code"`
	ROData  Segment `yaml:"rodata"`
	Data    Segment `yaml:"data"`
	BSSSize uint32  `yaml:"bss_size"`
}

// System is the manifest entry with scheduling and mode information.
type System struct {
	Priority              int32  `yaml:"priority"`
	ResourceLimitCategory uint8  `yaml:"resource_limit_category"`
	IdealProcessor        uint8  `yaml:"ideal_processor"`
	StackSize             uint32 `yaml:"stack_size"`
	SystemMode            uint8  `yaml:"system_mode"`
	NewHardwareMode       uint8  `yaml:"new_hardware_mode"`
}

// Manifest is the decoded exheader.yaml file.
type Manifest struct {
	Name       string   `yaml:"name"`
	ProgramID  uint64   `yaml:"program_id"`
	ExtdataID  uint64   `yaml:"extdata_id"`
	Executable bool     `yaml:"executable"`
	Layout     Layout   `yaml:"layout"`
	System     System   `yaml:"system"`
	KernelCaps []uint32 `yaml:"kernel_caps"`
}

func decodeManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, curated.Errorf("pkgfile: %w: %v", status.InvalidFormat, err)
	}
	if err := m.validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func (m Manifest) validate() error {
	if len(m.Name) > maxNameLen {
		return curated.Errorf("pkgfile: %w: process name %q is too long", status.InvalidFormat, m.Name)
	}
	for _, seg := range []struct {
		name string
		seg  Segment
	}{
		{"code", m.Layout.Code},
		{"rodata", m.Layout.ROData},
		{"data", m.Layout.Data},
	} {
		if seg.seg.Pages > maxPages {
			return curated.Errorf("pkgfile: %w: %s segment has too many pages (%#x)", status.InvalidFormat, seg.name, seg.seg.Pages)
		}
	}
	if m.Layout.BSSSize > maxBSSSize {
		return curated.Errorf("pkgfile: %w: bss size too large (%#x)", status.InvalidFormat, m.Layout.BSSSize)
	}
	if len(m.KernelCaps) > container.NumDescriptors {
		return curated.Errorf("pkgfile: %w: too many kernel capabilities (%d)", status.InvalidFormat, len(m.KernelCaps))
	}
	return nil
}

// Header returns the container.Header equivalent of the manifest.
func (m Manifest) Header() *container.Header {
	return &container.Header{
		Name: m.Name,
		Layout: container.Layout{
			Code:    container.SegmentSpec{Address: m.Layout.Code.Address, PageCount: m.Layout.Code.Pages},
			ROData:  container.SegmentSpec{Address: m.Layout.ROData.Address, PageCount: m.Layout.ROData.Pages},
			Data:    container.SegmentSpec{Address: m.Layout.Data.Address, PageCount: m.Layout.Data.Pages},
			BSSSize: m.Layout.BSSSize,
		},
		System: container.SystemInfo{
			Priority:              m.System.Priority,
			ResourceLimitCategory: m.System.ResourceLimitCategory,
			IdealProcessor:        m.System.IdealProcessor,
			StackSize:             m.System.StackSize,
			SystemMode:            m.System.SystemMode,
			NewHardwareMode:       m.System.NewHardwareMode,
		},
		KernelCaps: container.PackKernelCaps(m.KernelCaps),
	}
}
