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

package overlay_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/overlay"
	"github.com/jetsetilly/titleloader/paths"
	"github.com/jetsetilly/titleloader/pkgfile"
	"github.com/jetsetilly/titleloader/test"
)

const programID = 0x0004000000030800

func create(t *testing.T, pth string, id uint64, code string, assets map[string][]byte) {
	t.Helper()
	data, err := pkgfile.Create(pkgfile.Contents{
		Manifest: pkgfile.Manifest{
			Name:       "CtrApp",
			ProgramID:  id,
			ExtdataID:  id & 0xffffff,
			Executable: true,
		},
		Sections: map[string][]byte{
			container.SectionCode: []byte(code),
			container.SectionLogo: []byte(code + " logo"),
		},
		Assets: assets,
	})
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.MkdirAll(filepath.Dir(pth), 0o755))
	test.DemandSuccess(t, os.WriteFile(pth, data, 0o644))
}

func setup(t *testing.T, withUpdate bool) (*container.Container, paths.Media) {
	t.Helper()
	dir := t.TempDir()
	media := paths.Media{paths.MediaSDMC: filepath.Join(dir, "sdmc")}

	basePth := filepath.Join(dir, "base.zip")
	create(t, basePth, programID, "base", map[string][]byte{"a.txt": []byte("base asset")})

	if withUpdate {
		pth := media.PathFor(paths.MediaSDMC, overlay.UpdateID(programID))
		create(t, pth, overlay.UpdateID(programID), "update", map[string][]byte{"a.txt": []byte("update asset")})
	}

	return container.Open(container.Base, basePth, pkgfile.Open), media
}

func TestUpdateID(t *testing.T) {
	test.ExpectEquality(t, overlay.UpdateID(0x0004000000030800), uint64(0x0004000e00030800))
	test.ExpectEquality(t, overlay.UpdateID(0x0004000e00030800), uint64(0x0004000e00030800))
}

func TestWithUpdate(t *testing.T) {
	base, media := setup(t, true)

	r, err := overlay.Resolve(base, media, pkgfile.Open)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.IsUpdateApplied(), true)

	code, err := r.ReadCode()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(code), "update")

	logo, err := r.ReadLogo()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(logo), "update logo")

	// identifiers are always from the base
	id, err := r.ReadProgramID()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, id, uint64(programID))

	// base asset store is not overridden
	st, err := r.ReadAssetStore()
	test.DemandSuccess(t, err)
	b, err := st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "base asset")

	st, err = r.ReadUpdateAssetStore()
	test.DemandSuccess(t, err)
	b, err = st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "update asset")
}

func TestWithoutUpdate(t *testing.T) {
	base, media := setup(t, false)

	r, err := overlay.Resolve(base, media, pkgfile.Open)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.IsUpdateApplied(), false)

	code, err := r.ReadCode()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(code), "base")

	// falls back to the base asset store
	st, err := r.ReadUpdateAssetStore()
	test.DemandSuccess(t, err)
	b, err := st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "base asset")

	// the update dump has no fallback
	test.ExpectFailure(t, r.DumpUpdateAssetStore(t.TempDir()))

	dir := t.TempDir()
	test.DemandSuccess(t, r.DumpAssetStore(dir))
	b, err = os.ReadFile(filepath.Join(dir, "a.txt"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "base asset")
}

func TestUpdateWithoutAssets(t *testing.T) {
	dir := t.TempDir()
	media := paths.Media{paths.MediaSDMC: filepath.Join(dir, "sdmc")}

	basePth := filepath.Join(dir, "base.zip")
	create(t, basePth, programID, "base", map[string][]byte{"a.txt": []byte("base asset")})
	create(t, media.PathFor(paths.MediaSDMC, overlay.UpdateID(programID)), overlay.UpdateID(programID), "update", nil)

	base := container.Open(container.Base, basePth, pkgfile.Open)

	r, err := overlay.Resolve(base, media, pkgfile.Open)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.IsUpdateApplied(), true)

	code, err := r.ReadCode()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(code), "update")

	// the update has no asset store so the base asset store is used
	st, err := r.ReadUpdateAssetStore()
	test.DemandSuccess(t, err)
	b, err := st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "base asset")

	// the update dump has no fallback
	test.ExpectFailure(t, r.DumpUpdateAssetStore(t.TempDir()))
}

func TestLateUpdate(t *testing.T) {
	base, media := setup(t, false)

	r, err := overlay.Resolve(base, media, pkgfile.Open)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.IsUpdateApplied(), false)

	// the update is installed after resolution. single-source content is
	// unchanged but the update asset store is found
	pth := media.PathFor(paths.MediaSDMC, overlay.UpdateID(programID))
	create(t, pth, overlay.UpdateID(programID), "update", map[string][]byte{"a.txt": []byte("update asset")})

	code, err := r.ReadCode()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(code), "base")

	st, err := r.ReadUpdateAssetStore()
	test.DemandSuccess(t, err)
	b, err := st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "update asset")

	dir := t.TempDir()
	test.DemandSuccess(t, r.DumpUpdateAssetStore(dir))
	b, err = os.ReadFile(filepath.Join(dir, "a.txt"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "update asset")
}

func TestNoMedia(t *testing.T) {
	base, _ := setup(t, false)

	r, err := overlay.Resolve(base, paths.Media{}, pkgfile.Open)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.IsUpdateApplied(), false)
	test.ExpectEquality(t, r.UpdatePath(), "")
}
