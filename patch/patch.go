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

// Package patch applies binary patches to a buffer in memory. The only patch
// format supported is IPS.
//
// An IPS patch begins with the five bytes "PATCH" and ends with the three
// bytes "EOF". In between are records made up of a three byte offset and a two
// byte length, followed by the replacement data. A length of zero indicates a
// run-length encoded record, which has a further two byte length and a single
// byte that is repeated. All values are big-endian.
//
// The buffer is never extended by a patch. A record that writes beyond the end
// of the buffer is an error.
package patch

import (
	"bytes"
	"encoding/binary"

	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/status"
)

var (
	ipsHeader  = []byte("PATCH")
	ipsTrailer = []byte("EOF")
)

// IsIPS returns true if the data looks like an IPS patch.
func IsIPS(data []byte) bool {
	return bytes.HasPrefix(data, ipsHeader)
}

// ApplyIPS applies the IPS patch to the buffer. Returns the number of records
// applied. A nil or empty patch classifies as status.NotUsed.
func ApplyIPS(buffer []byte, ips []byte) (int, error) {
	if len(ips) == 0 {
		return 0, curated.Errorf("patch: %w", status.NotUsed)
	}
	if !IsIPS(ips) {
		return 0, curated.Errorf("patch: %w: missing IPS header", status.InvalidFormat)
	}

	// records are applied to a copy of the buffer so that a malformed patch
	// does not leave the buffer half patched
	patched := make([]byte, len(buffer))
	copy(patched, buffer)

	r := ips[len(ipsHeader):]
	records := 0

	for {
		if len(r) < 3 {
			return 0, curated.Errorf("patch: %w: missing EOF", status.InvalidFormat)
		}
		if bytes.Equal(r[:3], ipsTrailer) {
			break
		}

		if len(r) < 5 {
			return 0, curated.Errorf("patch: %w: truncated record %d", status.InvalidFormat, records)
		}
		offset := int(r[0])<<16 | int(r[1])<<8 | int(r[2])
		size := int(binary.BigEndian.Uint16(r[3:]))
		r = r[5:]

		if size == 0 {
			if len(r) < 3 {
				return 0, curated.Errorf("patch: %w: truncated RLE record %d", status.InvalidFormat, records)
			}
			size = int(binary.BigEndian.Uint16(r))
			value := r[2]
			r = r[3:]

			if offset+size > len(patched) {
				return 0, curated.Errorf("patch: %w: record %d writes beyond end of buffer (%#x)",
					status.InvalidFormat, records, offset+size)
			}
			for i := 0; i < size; i++ {
				patched[offset+i] = value
			}
		} else {
			if len(r) < size {
				return 0, curated.Errorf("patch: %w: truncated record %d", status.InvalidFormat, records)
			}
			if offset+size > len(patched) {
				return 0, curated.Errorf("patch: %w: record %d writes beyond end of buffer (%#x)",
					status.InvalidFormat, records, offset+size)
			}
			copy(patched[offset:], r[:size])
			r = r[size:]
		}

		records++
	}

	copy(buffer, patched)

	return records, nil
}

// Record is a single IPS record for use with Build().
type Record struct {
	Offset int
	Data   []byte

	// if RLE is not zero then Data is ignored and Value is repeated RLE times
	RLE   int
	Value byte
}

// BuildIPS creates an IPS patch from a list of records.
func BuildIPS(records []Record) ([]byte, error) {
	var b bytes.Buffer
	b.Write(ipsHeader)

	for i, rec := range records {
		if rec.Offset < 0 || rec.Offset > 0xffffff {
			return nil, curated.Errorf("patch: record %d: offset out of range", i)
		}

		// an offset that spells EOF would be mistaken for the trailer
		if rec.Offset == 0x454f46 {
			return nil, curated.Errorf("patch: record %d: offset cannot be represented", i)
		}

		b.Write([]byte{byte(rec.Offset >> 16), byte(rec.Offset >> 8), byte(rec.Offset)})

		if rec.RLE > 0 {
			if rec.RLE > 0xffff {
				return nil, curated.Errorf("patch: record %d: RLE too long", i)
			}
			b.Write([]byte{0, 0, byte(rec.RLE >> 8), byte(rec.RLE), rec.Value})
			continue
		}

		if len(rec.Data) == 0 || len(rec.Data) > 0xffff {
			return nil, curated.Errorf("patch: record %d: bad data length", i)
		}
		b.Write([]byte{byte(len(rec.Data) >> 8), byte(len(rec.Data))})
		b.Write(rec.Data)
	}

	b.Write(ipsTrailer)

	return b.Bytes(), nil
}
