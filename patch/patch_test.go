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

package patch_test

import (
	"bytes"
	"testing"

	"github.com/jetsetilly/titleloader/patch"
	"github.com/jetsetilly/titleloader/status"
	"github.com/jetsetilly/titleloader/test"
)

func TestApply(t *testing.T) {
	ips, err := patch.BuildIPS([]patch.Record{
		{Offset: 2, Data: []byte{0xaa, 0xbb}},
		{Offset: 8, RLE: 4, Value: 0xff},
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, patch.IsIPS(ips), true)

	buf := make([]byte, 16)
	n, err := patch.ApplyIPS(buf, ips)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n, 2)

	expected := []byte{0, 0, 0xaa, 0xbb, 0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0, 0, 0, 0}
	test.ExpectEquality(t, bytes.Equal(buf, expected), true)
}

func TestNotUsed(t *testing.T) {
	_, err := patch.ApplyIPS(make([]byte, 4), nil)
	test.ExpectEquality(t, status.Of(err), status.NotUsed)
	test.ExpectEquality(t, status.IsSuccessOrNotUsed(err), true)
}

func TestMalformed(t *testing.T) {
	buf := []byte{1, 2, 3, 4}

	// no header
	_, err := patch.ApplyIPS(buf, []byte("PITCH"))
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// no trailer
	_, err = patch.ApplyIPS(buf, []byte("PATCH\x00\x00\x00\x00\x01\xff"))
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// second record writes beyond the buffer. the first record must not have
	// been applied
	ips, err := patch.BuildIPS([]patch.Record{
		{Offset: 0, Data: []byte{0xee}},
		{Offset: 3, Data: []byte{0xaa, 0xbb}},
	})
	test.DemandSuccess(t, err)
	_, err = patch.ApplyIPS(buf, ips)
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)
	test.ExpectEquality(t, buf[0], byte(1))
}
