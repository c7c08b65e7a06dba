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

import "encoding/binary"

// MakeMagic packs four characters into a 32bit value such that the
// characters appear in order when the value is stored little-endian.
func MakeMagic(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// the trailer found at the end of wrapped legacy titles
var legacyTag = MakeMagic('.', 'C', 'A', 'A')

const (
	legacyTrailerLen = 16
	legacyVersion    = 1
)

// IsLegacyWrapped returns true if the code section is a wrapped legacy title.
// Such titles end with a sixteen byte trailer that starts with the tag ".CAA"
// followed by the 32bit value 1.
func IsLegacyWrapped(code []byte) bool {
	if len(code) < legacyTrailerLen {
		return false
	}
	trailer := code[len(code)-legacyTrailerLen:]
	return binary.LittleEndian.Uint32(trailer[0:]) == legacyTag &&
		binary.LittleEndian.Uint32(trailer[4:]) == legacyVersion
}
