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

package pkgfile_test

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/packageloader"
	"github.com/jetsetilly/titleloader/patch"
	"github.com/jetsetilly/titleloader/pkgfile"
	"github.com/jetsetilly/titleloader/status"
	"github.com/jetsetilly/titleloader/test"
)

func manifest() pkgfile.Manifest {
	return pkgfile.Manifest{
		Name:       "CtrApp",
		ProgramID:  0x0004000000030800,
		ExtdataID:  0x00000000000008f0,
		Executable: true,
		Layout: pkgfile.Layout{
			Code:    pkgfile.Segment{Address: 0x00100000, Pages: 1},
			ROData:  pkgfile.Segment{Address: 0x00101000, Pages: 1},
			Data:    pkgfile.Segment{Address: 0x00102000, Pages: 1},
			BSSSize: 0x800,
		},
		System: pkgfile.System{
			Priority:  0x30,
			StackSize: 0x4000,
		},
		KernelCaps: []uint32{0xfc00022c, 0xfe000200},
	}
}

func write(t *testing.T, c pkgfile.Contents) string {
	t.Helper()
	data, err := pkgfile.Create(c)
	test.DemandSuccess(t, err)
	test.DemandEquality(t, pkgfile.Identify(data), true)
	pth := filepath.Join(t.TempDir(), "title.zip")
	test.DemandSuccess(t, os.WriteFile(pth, data, 0o644))
	return pth
}

func TestPackage(t *testing.T) {
	for _, compress := range []bool{false, true} {
		pth := write(t, pkgfile.Contents{
			Manifest: manifest(),
			Sections: map[string][]byte{
				container.SectionCode: bytes.Repeat([]byte{0x01}, 3*container.PageSize),
				container.SectionLogo: []byte("logo"),
			},
			Compress: compress,
			Assets: map[string][]byte{
				"data/level1.bin": []byte("level one"),
			},
		})

		c := container.Open(container.Base, pth, pkgfile.Open)
		test.DemandSuccess(t, c.Load())

		id, err := c.ProgramID()
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, id, uint64(0x0004000000030800))

		id, err = c.ExtdataID()
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, id, uint64(0x8f0))

		hdr, err := c.Header()
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, hdr.Name, "CtrApp")
		test.ExpectEquality(t, hdr.Layout.ROData.Address, uint32(0x00101000))
		test.ExpectEquality(t, hdr.System.StackSize, uint32(0x4000))
		d := hdr.KernelCaps.Descriptors()
		test.ExpectEquality(t, d[0], uint32(0xfc00022c))
		test.ExpectEquality(t, d[1], uint32(0xfe000200))
		test.ExpectEquality(t, d[2], uint32(0xffffffff))

		code, err := c.Section(container.SectionCode)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, len(code), 3*container.PageSize)

		logo, err := c.Section(container.SectionLogo)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, string(logo), "logo")

		// sections that aren't present are not used
		_, err = c.Section(container.SectionIcon)
		test.ExpectEquality(t, status.Of(err), status.NotUsed)

		// as is the patch
		err = c.ApplyCodePatch(code)
		test.ExpectEquality(t, status.Of(err), status.NotUsed)

		st, err := c.AssetStore()
		test.DemandSuccess(t, err)
		n, ok := st.Lookup(digest.FromString("level one"))
		test.ExpectEquality(t, ok, true)
		test.ExpectEquality(t, n, "data/level1.bin")
	}
}

func TestPatch(t *testing.T) {
	ips, err := patch.BuildIPS([]patch.Record{{Offset: 4, Data: []byte{0xde, 0xad}}})
	test.DemandSuccess(t, err)

	pth := write(t, pkgfile.Contents{
		Manifest: manifest(),
		Sections: map[string][]byte{container.SectionCode: make([]byte, 16)},
		Patch:    ips,
	})

	c := container.Open(container.Base, pth, pkgfile.Open)
	code, err := c.Section(container.SectionCode)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, c.ApplyCodePatch(code))
	test.ExpectEquality(t, code[4], uint8(0xde))
	test.ExpectEquality(t, code[5], uint8(0xad))

	// no asset store in this package
	_, err = c.AssetStore()
	test.ExpectEquality(t, status.Of(err), status.NotUsed)
}

const hexManifest = `name: HexApp
program_id: 0x0004000000055d00
executable: true
layout:
  code: {address: 0x00100000, pages: 0x10}
  rodata: {address: 0x00110000, pages: 2}
  data: {address: 0x00112000, pages: 1}
  bss_size: 0x1800
system:
  priority: 48
  ideal_processor: 1
  stack_size: 0x4000
  new_hardware_mode: 1
kernel_caps: [0xff81ff50]
`

func TestHexManifest(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(pkgfile.ManifestName)
	test.DemandSuccess(t, err)
	_, err = w.Write([]byte(hexManifest))
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, zw.Close())

	ld := packageloader.Loader{Filename: "hex.zip", Data: buf.Bytes()}
	p := pkgfile.New(ld)
	test.DemandSuccess(t, p.Load())

	m := p.Manifest()
	test.ExpectEquality(t, m.ProgramID, uint64(0x0004000000055d00))
	test.ExpectEquality(t, m.Layout.Code.Pages, uint32(16))
	test.ExpectEquality(t, m.Layout.BSSSize, uint32(0x1800))
	test.ExpectEquality(t, m.System.IdealProcessor, uint8(1))
	test.ExpectEquality(t, m.System.NewHardwareMode, uint8(1))
	test.ExpectEquality(t, m.KernelCaps[0], uint32(0xff81ff50))
}

func TestInvalid(t *testing.T) {
	test.ExpectEquality(t, pkgfile.Identify([]byte("PK")), false)
	test.ExpectEquality(t, pkgfile.Identify(nil), false)

	// zip file without a manifest
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("readme.txt")
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, zw.Close())
	test.ExpectEquality(t, pkgfile.Identify(buf.Bytes()), false)

	p := pkgfile.New(packageloader.Loader{Filename: "bad.zip", Data: buf.Bytes()})
	test.ExpectEquality(t, status.Of(p.Load()), status.InvalidFormat)

	// process name too long
	m := manifest()
	m.Name = "ThisNameIsTooLong"
	_, err = pkgfile.Create(pkgfile.Contents{Manifest: m})
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// segment too large for the address space
	m = manifest()
	m.Layout.ROData.Pages = 0x100000
	_, err = pkgfile.Create(pkgfile.Contents{Manifest: m})
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// bss too large for the address space
	m = manifest()
	m.Layout.BSSSize = 0xfffff001
	_, err = pkgfile.Create(pkgfile.Contents{Manifest: m})
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// missing package
	c := container.Open(container.Base, filepath.Join(t.TempDir(), "missing.zip"), pkgfile.Open)
	err = c.Load()
	test.ExpectEquality(t, status.Of(err), status.Error)

	// the result of loading is cached
	test.ExpectEquality(t, c.Load().Error(), err.Error())
}
