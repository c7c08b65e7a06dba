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

// Package smdh decodes and encodes the icon metadata structure found in the
// icon section of a title. The structure has a fixed size of 0x36c0 bytes and
// contains the application titles in each of sixteen languages, the age
// ratings and the region lockout mask.
package smdh

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"

	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/status"
)

// Size of the icon metadata structure in bytes.
const Size = 0x36c0

// offsets and sizes of fields in the structure.
const (
	offsetVersion       = 0x0004
	offsetTitles        = 0x0008
	offsetRatings       = 0x2008
	offsetRegionLockout = 0x2018

	titleSize     = 0x200
	shortSize     = 0x80
	longSize      = 0x100
	publisherSize = 0x80

	numTitles  = 16
	numRatings = 16
)

// Magic is the four bytes at the start of the structure.
var Magic = []byte("SMDH")

// Language is an index into the table of application titles.
type Language int

// List of valid Language values.
const (
	Japanese Language = iota
	English
	French
	German
	Italian
	Spanish
	SimplifiedChinese
	Korean
	Dutch
	Portuguese
	Russian
	TraditionalChinese
)

// NumRegions is the number of region bits in the region lockout mask.
const NumRegions = 7

// Title is the application title in one language.
type Title struct {
	Short     string
	Long      string
	Publisher string
}

// SMDH is the decoded icon metadata. The icon graphics are not decoded.
type SMDH struct {
	Version       uint16
	Titles        [numTitles]Title
	Ratings       [numRatings]byte
	RegionLockout uint32
}

var utf16 = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Validate returns an error classifying as status.InvalidFormat if the data is
// too short or does not begin with the magic bytes.
func Validate(data []byte) error {
	if len(data) < Size {
		return curated.Errorf("smdh: %w: %d bytes is too short", status.InvalidFormat, len(data))
	}
	if !bytes.Equal(data[:len(Magic)], Magic) {
		return curated.Errorf("smdh: %w: bad magic", status.InvalidFormat)
	}
	return nil
}

// RegionLockout returns the region lockout mask. The data must be at least
// Size bytes long but is otherwise not validated.
func RegionLockout(data []byte) (uint32, error) {
	if len(data) < Size {
		return 0, curated.Errorf("smdh: %w: %d bytes is too short", status.InvalidFormat, len(data))
	}
	return binary.LittleEndian.Uint32(data[offsetRegionLockout:]), nil
}

// Regions returns the region codes allowed by the lockout mask, in ascending
// order. Only the lowest NumRegions bits are considered.
func Regions(mask uint32) []uint32 {
	regions := make([]uint32, 0, NumRegions)
	for r := uint32(0); r < NumRegions; r++ {
		if mask&(1<<r) != 0 {
			regions = append(regions, r)
		}
	}
	return regions
}

// ShortTitle returns the short title for the language. The data is validated.
func ShortTitle(data []byte, lang Language) (string, error) {
	if err := Validate(data); err != nil {
		return "", err
	}
	if lang < 0 || lang >= numTitles {
		return "", curated.Errorf("smdh: no title for language %d", lang)
	}
	o := offsetTitles + int(lang)*titleSize
	return decodeString(data[o : o+shortSize])
}

// Decode the metadata structure.
func Decode(data []byte) (*SMDH, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	s := &SMDH{
		Version:       binary.LittleEndian.Uint16(data[offsetVersion:]),
		RegionLockout: binary.LittleEndian.Uint32(data[offsetRegionLockout:]),
	}
	copy(s.Ratings[:], data[offsetRatings:])

	var err error
	for i := range s.Titles {
		o := offsetTitles + i*titleSize
		s.Titles[i].Short, err = decodeString(data[o : o+shortSize])
		if err != nil {
			return nil, err
		}
		o += shortSize
		s.Titles[i].Long, err = decodeString(data[o : o+longSize])
		if err != nil {
			return nil, err
		}
		o += longSize
		s.Titles[i].Publisher, err = decodeString(data[o : o+publisherSize])
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Bytes encodes the structure. Icon graphics are zero filled. Strings that do
// not fit in their field are an error.
func (s *SMDH) Bytes() ([]byte, error) {
	data := make([]byte, Size)
	copy(data, Magic)
	binary.LittleEndian.PutUint16(data[offsetVersion:], s.Version)
	copy(data[offsetRatings:offsetRatings+numRatings], s.Ratings[:])
	binary.LittleEndian.PutUint32(data[offsetRegionLockout:], s.RegionLockout)

	for i, t := range s.Titles {
		o := offsetTitles + i*titleSize
		if err := encodeString(data[o:o+shortSize], t.Short); err != nil {
			return nil, err
		}
		o += shortSize
		if err := encodeString(data[o:o+longSize], t.Long); err != nil {
			return nil, err
		}
		o += longSize
		if err := encodeString(data[o:o+publisherSize], t.Publisher); err != nil {
			return nil, err
		}
	}

	return data, nil
}

// decode a zero terminated UTF-16LE string from a fixed size field.
func decodeString(field []byte) (string, error) {
	n := 0
	for n+1 < len(field) {
		if field[n] == 0 && field[n+1] == 0 {
			break
		}
		n += 2
	}

	b, err := utf16.NewDecoder().Bytes(field[:n])
	if err != nil {
		return "", curated.Errorf("smdh: %w: %v", status.InvalidFormat, err)
	}
	return string(b), nil
}

// encode a string into a fixed size field. the field must have room for the
// string. a terminating zero is not required if the string fills the field.
func encodeString(field []byte, s string) error {
	b, err := utf16.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return curated.Errorf("smdh: %v", err)
	}
	if len(b) > len(field) {
		return curated.Errorf("smdh: %q too long for field", s)
	}
	copy(field, b)
	return nil
}
