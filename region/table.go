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

package region

// the high word of the program identifier of system applications and
// system applets
const (
	systemApplicationHigh uint32 = 0x00040010
	systemAppletHigh      uint32 = 0x00040030
)

// the regions that have their own versions of system titles. Australian
// consoles use the European titles
var systemTitleRegions = [...]Code{JPN, USA, EUR, CHN, KOR, TWN}

// SystemTitle is the low word of a system title's program identifier in each
// of the regions that have their own version of the title. The order of the
// regions is JPN, USA, EUR, CHN, KOR, TWN.
type SystemTitle struct {
	Name string
	Lows [len(systemTitleRegions)]uint32
}

// Table is a SystemTitleTable.
type Table []SystemTitle

// Lookup implements the SystemTitleTable interface.
func (t Table) Lookup(programID uint64) (Code, bool) {
	high := uint32(programID >> 32)
	if high != systemApplicationHigh && high != systemAppletHigh {
		return 0, false
	}

	low := uint32(programID)
	for _, st := range t {
		for i, l := range st.Lows {
			if l == low {
				return systemTitleRegions[i], true
			}
		}
	}

	return 0, false
}

// DefaultTable returns the table of known system titles.
func DefaultTable() Table {
	return Table{
		{Name: "Home Menu", Lows: [...]uint32{0x00008202, 0x00008f02, 0x00009802, 0x0000a102, 0x0000a902, 0x0000b102}},
		{Name: "System Settings", Lows: [...]uint32{0x00020000, 0x00021000, 0x00022000, 0x00026000, 0x00027000, 0x00028000}},
		{Name: "Health and Safety", Lows: [...]uint32{0x00020100, 0x00021100, 0x00022100, 0x00026100, 0x00027100, 0x00028100}},
	}
}
