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

// Package region decides the preferred regions of the emulated console for a
// title. The preferred regions are taken from the region lockout mask in the
// title's icon metadata or, for system titles without an icon, from a table
// of known system titles.
package region

import (
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/smdh"
)

// Code is a region of the console.
type Code uint32

// List of valid Code values.
const (
	JPN Code = iota
	USA
	EUR
	AUS
	CHN
	KOR
	TWN
)

func (c Code) String() string {
	switch c {
	case JPN:
		return "JPN"
	case USA:
		return "USA"
	case EUR:
		return "EUR"
	case AUS:
		return "AUS"
	case CHN:
		return "CHN"
	case KOR:
		return "KOR"
	case TWN:
		return "TWN"
	}
	return "unknown region"
}

// ConfigStore receives the list of preferred region codes.
type ConfigStore interface {
	SetPreferredRegionCodes(codes []uint32)
}

// SystemTitleTable finds the region of a system title.
type SystemTitleTable interface {
	Lookup(programID uint64) (Code, bool)
}

// IconReader is implemented by anything that can supply a title's icon.
type IconReader interface {
	ReadIcon() ([]byte, error)
}

// Negotiator forwards the preferred regions for a title to a ConfigStore.
type Negotiator struct {
	// if AutoSelect is false then Negotiate() does nothing
	AutoSelect bool

	Table SystemTitleTable
	Store ConfigStore
}

// Negotiate the preferred regions for the title. Returns true if a list of
// regions was sent to the ConfigStore.
//
// If the icon is present and large enough, the region lockout mask is used.
// Otherwise the system title table is consulted. If neither yield a result
// nothing is sent to the ConfigStore.
func (n Negotiator) Negotiate(icon IconReader, programID uint64) bool {
	if !n.AutoSelect {
		return false
	}

	data, err := icon.ReadIcon()
	if err == nil && len(data) >= smdh.Size {
		// length has been checked so RegionLockout() can't fail
		mask, _ := smdh.RegionLockout(data)
		codes := smdh.Regions(mask)
		logger.Logf(logger.Allow, "region", "from icon: %v", codes)
		n.Store.SetPreferredRegionCodes(codes)
		return true
	}

	if n.Table != nil {
		if c, ok := n.Table.Lookup(programID); ok {
			logger.Logf(logger.Allow, "region", "from system title table: %s", c)
			n.Store.SetPreferredRegionCodes([]uint32{uint32(c)})
			return true
		}
	}

	logger.Logf(logger.Allow, "region", "no region information for %016x", programID)

	return false
}
