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
	"github.com/jetsetilly/titleloader/capability"
	"github.com/jetsetilly/titleloader/curated"
)

// Category of resource limit.
type Category uint8

// List of valid Category values.
const (
	Application Category = iota
	SysApplet
	LibApplet
	Other
)

func (c Category) String() string {
	switch c {
	case Application:
		return "application"
	case SysApplet:
		return "system applet"
	case LibApplet:
		return "library applet"
	case Other:
		return "other"
	}
	return "unknown category"
}

// ResourceLimit is the set of limits applied to processes of a category.
// Implements the capability.ResourceLimit interface.
type ResourceLimit struct {
	category Category

	MaxPriority    int32
	MaxCommit      uint32
	MaxThreads     int
	MaxEvents      int
	MaxMutexes     int
	MaxSemaphores  int
	MaxTimers      int
	MaxSharedMems  int
	MaxAddressArbs int
}

// Category implements the capability.ResourceLimit interface.
func (r *ResourceLimit) Category() uint8 {
	return uint8(r.category)
}

func (r *ResourceLimit) String() string {
	return r.category.String()
}

// ResourceLimitList is the registry of resource limits. Implements the
// capability.ResourceLimits interface.
type ResourceLimitList struct {
	limits [Other + 1]*ResourceLimit
}

// NewResourceLimitList creates the resource limits for each category.
func NewResourceLimitList() *ResourceLimitList {
	return &ResourceLimitList{
		limits: [...]*ResourceLimit{
			{category: Application, MaxPriority: 0x18, MaxCommit: 0x4000000, MaxThreads: 0x20, MaxEvents: 0x20,
				MaxMutexes: 0x20, MaxSemaphores: 0x8, MaxTimers: 0x8, MaxSharedMems: 0x10, MaxAddressArbs: 0x2},
			{category: SysApplet, MaxPriority: 0x4, MaxCommit: 0x5e00000, MaxThreads: 0x1d, MaxEvents: 0xb,
				MaxMutexes: 0x8, MaxSemaphores: 0x4, MaxTimers: 0x4, MaxSharedMems: 0x8, MaxAddressArbs: 0x3},
			{category: LibApplet, MaxPriority: 0x4, MaxCommit: 0x600000, MaxThreads: 0xe, MaxEvents: 0x8,
				MaxMutexes: 0x8, MaxSemaphores: 0x4, MaxTimers: 0x4, MaxSharedMems: 0x8, MaxAddressArbs: 0x1},
			{category: Other, MaxPriority: 0x0, MaxCommit: 0x2180000, MaxThreads: 0xe1, MaxEvents: 0x108,
				MaxMutexes: 0x25, MaxSemaphores: 0x43, MaxTimers: 0x2c, MaxSharedMems: 0x1f, MaxAddressArbs: 0x2d},
		},
	}
}

// ForCategory implements the capability.ResourceLimits interface.
func (l *ResourceLimitList) ForCategory(category uint8) (capability.ResourceLimit, error) {
	if int(category) >= len(l.limits) {
		return nil, curated.Errorf("kernel: no resource limit for category %d", category)
	}
	return l.limits[category], nil
}
