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

package loader_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"

	"github.com/jetsetilly/titleloader/announce"
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/environment"
	"github.com/jetsetilly/titleloader/image"
	"github.com/jetsetilly/titleloader/kernel"
	"github.com/jetsetilly/titleloader/loader"
	"github.com/jetsetilly/titleloader/notifications"
	"github.com/jetsetilly/titleloader/overlay"
	"github.com/jetsetilly/titleloader/paths"
	"github.com/jetsetilly/titleloader/pkgfile"
	"github.com/jetsetilly/titleloader/preferences"
	"github.com/jetsetilly/titleloader/smdh"
	"github.com/jetsetilly/titleloader/status"
	"github.com/jetsetilly/titleloader/telemetry"
	"github.com/jetsetilly/titleloader/test"
)

const programID = 0x0004000000030800

type mockOpener struct {
	mock.Mock
}

func (o *mockOpener) Open(path string) (container.Reader, error) {
	o.Called(path)
	return pkgfile.Open(path)
}

type mockAnnouncer struct {
	mock.Mock
}

func (a *mockAnnouncer) SendGameInfo(info announce.GameInfo) {
	a.Called(info)
}

type mockArchives struct {
	mock.Mock
}

func (a *mockArchives) RegisterSelf(src container.TitleSource) {
	a.Called(src)
}

type mockConfigStore struct {
	mock.Mock
}

func (c *mockConfigStore) SetPreferredRegionCodes(codes []uint32) {
	c.Called(codes)
}

// icon metadata with an English title and a region lockout mask
func icon(t *testing.T, title string, mask uint32) []byte {
	t.Helper()
	var s smdh.SMDH
	s.Titles[smdh.English].Short = title
	s.RegionLockout = mask
	b, err := s.Bytes()
	test.DemandSuccess(t, err)
	return b
}

func manifest(id uint64) pkgfile.Manifest {
	return pkgfile.Manifest{
		Name:       "CtrApp",
		ProgramID:  id,
		ExtdataID:  0x8f0,
		Executable: true,
		Layout: pkgfile.Layout{
			Code:    pkgfile.Segment{Address: 0x00100000, Pages: 2},
			ROData:  pkgfile.Segment{Address: 0x00102000, Pages: 1},
			Data:    pkgfile.Segment{Address: 0x00103000, Pages: 1},
			BSSSize: 0x10,
		},
		System: pkgfile.System{
			Priority:        0x30,
			StackSize:       0x4000,
			SystemMode:      2,
			NewHardwareMode: 1,
		},
		KernelCaps: []uint32{0xfc00022c, 0xfe000200},
	}
}

func writePackage(t *testing.T, pth string, c pkgfile.Contents) {
	t.Helper()
	data, err := pkgfile.Create(c)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, os.MkdirAll(filepath.Dir(pth), 0o755))
	test.DemandSuccess(t, os.WriteFile(pth, data, 0o644))
}

type fixture struct {
	dir      string
	basePth  string
	media    paths.Media
	kernel   *kernel.Kernel
	opener   *mockOpener
	notices  *notifications.Recorder
	env      *environment.Environment
	session  *telemetry.Session
	archives *mockArchives
	regions  *mockConfigStore
}

func newFixture(t *testing.T, code []byte) *fixture {
	t.Helper()

	f := &fixture{
		dir:      t.TempDir(),
		kernel:   kernel.NewKernel(),
		opener:   &mockOpener{},
		notices:  &notifications.Recorder{},
		session:  telemetry.NewSession(prometheus.NewRegistry()),
		archives: &mockArchives{},
		regions:  &mockConfigStore{},
	}
	f.basePth = filepath.Join(f.dir, "base.zip")
	f.media = paths.Media{paths.MediaSDMC: filepath.Join(f.dir, "sdmc")}

	writePackage(t, f.basePth, pkgfile.Contents{
		Manifest: manifest(programID),
		Sections: map[string][]byte{
			container.SectionCode: code,
			container.SectionIcon: icon(t, "Base", 0b0000110),
			container.SectionLogo: []byte("base logo"),
		},
		Assets: map[string][]byte{"a.txt": []byte("base asset")},
	})

	prefs, err := preferences.NewPreferencesFromFile(filepath.Join(f.dir, "prefs"))
	test.DemandSuccess(t, err)
	f.env, err = environment.NewEnvironment("test", prefs, f.notices)
	test.DemandSuccess(t, err)

	f.opener.On("Open", mock.Anything).Return()
	f.archives.On("RegisterSelf", mock.Anything).Return()
	f.regions.On("SetPreferredRegionCodes", mock.Anything).Return()

	return f
}

func (f *fixture) collaborators() loader.Collaborators {
	return loader.Collaborators{
		Host:           f.kernel,
		ResourceLimits: f.kernel.Limits,
		FS:             f.kernel.FS,
		Archives:       f.archives,
		Regions:        f.regions,
		Titles:         f.media,
		Open:           f.opener.Open,
		Telemetry:      f.session,
	}
}

func (f *fixture) installUpdate(t *testing.T, code []byte) {
	t.Helper()
	id := overlay.UpdateID(programID)
	writePackage(t, f.media.PathFor(paths.MediaSDMC, id), pkgfile.Contents{
		Manifest: manifest(id),
		Sections: map[string][]byte{
			container.SectionCode: code,
			container.SectionIcon: icon(t, "Update", 0b0000001),
			container.SectionLogo: []byte("update logo"),
		},
		Assets: map[string][]byte{"a.txt": []byte("update asset")},
	})
}

func code(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, 4*container.PageSize)
}

func TestLoadWithoutUpdate(t *testing.T) {
	f := newFixture(t, code(0x01))

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	proc, err := ld.Load()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ld.IsUpdateApplied(), false)

	p, ok := f.kernel.Process(proc.ID())
	test.DemandEquality(t, ok, true)
	test.ExpectEquality(t, p.Status(), kernel.Running)
	test.ExpectEquality(t, p.Priority, int32(0x30))
	test.ExpectEquality(t, p.StackSize, uint32(0x4000))
	test.ExpectEquality(t, p.KernelVersion, uint16(0x022c))
	test.ExpectEquality(t, p.ResourceLimit.Category(), uint8(kernel.Application))

	cs := p.CodeSet()
	test.ExpectEquality(t, cs.ProgramID(), uint64(programID))
	test.ExpectEquality(t, cs.Entrypoint, uint32(0x00100000))
	test.ExpectEquality(t, cs.Data.Size, uint32(container.PageSize+image.RoundUp(0x10)))
	test.ExpectEquality(t, cs.Memory[0], uint8(0x01))

	reg, ok := f.kernel.FS.Lookup(proc.ID())
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, reg.ProgramID, uint64(programID))
	test.ExpectEquality(t, reg.Path, f.basePth)

	fld, ok := f.session.Field(telemetry.FieldSession, "ProgramId")
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, fld.Value.(string), "0004000000030800")

	f.archives.AssertCalled(t, "RegisterSelf", ld)
	f.regions.AssertCalled(t, "SetPreferredRegionCodes", []uint32{1, 2})

	test.ExpectEquality(t, f.notices.Has(notifications.NotifyNoUpdateOverlay), true)
	test.ExpectEquality(t, f.notices.Has(notifications.NotifyRegionNegotiated), true)
	test.ExpectEquality(t, f.notices.Has(notifications.NotifyLoaded), true)
}

func TestAlreadyLoaded(t *testing.T) {
	f := newFixture(t, code(0x01))

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	_, err = ld.Load()
	test.DemandSuccess(t, err)

	// the base package and the attempted update package
	f.opener.AssertNumberOfCalls(t, "Open", 2)

	_, err = ld.Load()
	test.ExpectEquality(t, status.Of(err), status.AlreadyLoaded)

	// no further reads or side effects
	f.opener.AssertNumberOfCalls(t, "Open", 2)
	f.archives.AssertNumberOfCalls(t, "RegisterSelf", 1)
	f.regions.AssertNumberOfCalls(t, "SetPreferredRegionCodes", 1)
	test.ExpectEquality(t, len(f.kernel.Processes()), 1)
}

func TestLoadWithUpdate(t *testing.T) {
	f := newFixture(t, code(0x01))
	f.installUpdate(t, code(0x02))

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	proc, err := ld.Load()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, ld.IsUpdateApplied(), true)
	test.ExpectEquality(t, f.notices.Has(notifications.NotifyUpdateOverlay), true)

	// process image is from the update
	p, _ := f.kernel.Process(proc.ID())
	test.ExpectEquality(t, p.CodeSet().Memory[0], uint8(0x02))

	logo, err := ld.ReadLogo()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(logo), "update logo")

	title, err := ld.ReadTitle()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, title, "Update")

	// identifiers are from the base
	id, err := ld.ReadProgramID()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, id, uint64(programID))

	// region from the update's icon
	f.regions.AssertCalled(t, "SetPreferredRegionCodes", []uint32{0})

	// asset store asymmetry
	st, err := ld.ReadAssetStore()
	test.DemandSuccess(t, err)
	b, err := st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "base asset")

	st, err = ld.ReadUpdateAssetStore()
	test.DemandSuccess(t, err)
	b, err = st.ReadFile("a.txt")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "update asset")

	dir := t.TempDir()
	test.DemandSuccess(t, ld.DumpUpdateAssetStore(dir))
	b, err = os.ReadFile(filepath.Join(dir, "a.txt"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "update asset")
}

func TestAnnounce(t *testing.T) {
	f := newFixture(t, code(0x01))

	a := &mockAnnouncer{}
	a.On("SendGameInfo", announce.GameInfo{Name: "Base", ID: programID}).Return().Once()

	col := f.collaborators()
	col.Announcer = a

	ld, err := loader.NewLoader(f.env, f.basePth, col)
	test.DemandSuccess(t, err)
	_, err = ld.Load()
	test.DemandSuccess(t, err)

	a.AssertExpectations(t)
}

type mockSwitchableAnnouncer struct {
	mockAnnouncer
}

func (a *mockSwitchableAnnouncer) Enabled() bool {
	return a.Called().Bool(0)
}

func TestDisabledAnnouncer(t *testing.T) {
	f := newFixture(t, code(0x01))

	a := &mockSwitchableAnnouncer{}
	a.On("Enabled").Return(false)

	col := f.collaborators()
	col.Announcer = a

	ld, err := loader.NewLoader(f.env, f.basePth, col)
	test.DemandSuccess(t, err)
	_, err = ld.Load()
	test.DemandSuccess(t, err)

	a.AssertCalled(t, "Enabled")
	a.AssertNotCalled(t, "SendGameInfo", mock.Anything)

	// a disabled announcer from the announce package is also skipped
	col.Announcer = announce.NewAnnouncer("")
	ld, err = loader.NewLoader(f.env, f.basePth, col)
	test.DemandSuccess(t, err)
	_, err = ld.Load()
	test.DemandSuccess(t, err)
}

func TestFixedRegion(t *testing.T) {
	f := newFixture(t, code(0x01))
	test.DemandSuccess(t, f.env.Prefs.RegionValue.Set(2))

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)
	_, err = ld.Load()
	test.DemandSuccess(t, err)

	f.regions.AssertNotCalled(t, "SetPreferredRegionCodes", mock.Anything)
}

func TestBaseFailure(t *testing.T) {
	f := newFixture(t, code(0x01))

	ld, err := loader.NewLoader(f.env, filepath.Join(f.dir, "missing.zip"), f.collaborators())
	test.DemandSuccess(t, err)

	_, err = ld.Load()
	test.ExpectEquality(t, status.Of(err), status.Error)

	// still not loaded
	_, err = ld.LoadExec()
	test.ExpectEquality(t, status.Of(err), status.NotLoaded)

	// load is attempted again but the failure of the base package is cached
	_, err = ld.Load()
	test.ExpectEquality(t, status.Of(err), status.Error)
	f.opener.AssertNumberOfCalls(t, "Open", 1)
}

func TestLegacyTitle(t *testing.T) {
	c := code(0x01)
	binary.LittleEndian.PutUint32(c[len(c)-16:], image.MakeMagic('.', 'C', 'A', 'A'))
	binary.LittleEndian.PutUint32(c[len(c)-12:], 1)

	f := newFixture(t, c)

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	_, err = ld.Load()
	test.ExpectEquality(t, status.Of(err), status.UnsupportedLegacyTitle)
	test.ExpectEquality(t, f.notices.Has(notifications.NotifyLegacyTitle), true)
	test.ExpectEquality(t, f.notices.Has(notifications.NotifyLoaded), false)

	// nothing was handed to the process host
	test.ExpectEquality(t, len(f.kernel.Processes()), 0)
	f.archives.AssertNotCalled(t, "RegisterSelf", mock.Anything)

	// the loader transitioned to the loaded state before the image was built
	_, err = ld.Load()
	test.ExpectEquality(t, status.Of(err), status.AlreadyLoaded)
}

func TestMalformedCapabilities(t *testing.T) {
	f := newFixture(t, code(0x01))

	m := manifest(programID)
	m.KernelCaps = []uint32{0x12345678}
	writePackage(t, f.basePth, pkgfile.Contents{
		Manifest: m,
		Sections: map[string][]byte{container.SectionCode: code(0x01)},
	})

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	_, err = ld.Load()
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// the partially bound process was discarded
	test.ExpectEquality(t, len(f.kernel.Processes()), 0)
	_, ok := f.kernel.FS.Lookup(0x28)
	test.ExpectEquality(t, ok, false)
}

func TestReadsBeforeLoad(t *testing.T) {
	f := newFixture(t, code(0x01))
	f.installUpdate(t, code(0x02))

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	_, err = ld.LoadExec()
	test.ExpectEquality(t, status.Of(err), status.NotLoaded)

	// reads are from the base until the update has been resolved
	title, err := ld.ReadTitle()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, title, "Base")

	mode, err := ld.LoadKernelSystemMode()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, mode, uint8(2))

	mode, err = ld.LoadNewHardwareMode()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, mode, uint8(1))

	id, err := ld.ReadExtdataID()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, id, uint64(0x8f0))

	exec, err := ld.IsExecutable()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, exec, true)

	// the update package is found by the dump function even before Load()
	dir := t.TempDir()
	test.DemandSuccess(t, ld.DumpUpdateAssetStore(dir))
	b, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "update asset")

	dir = t.TempDir()
	test.DemandSuccess(t, ld.DumpAssetStore(dir))
	b, err = os.ReadFile(filepath.Join(dir, "a.txt"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(b), "base asset")
}

func TestMissingIcon(t *testing.T) {
	f := newFixture(t, code(0x01))
	writePackage(t, f.basePth, pkgfile.Contents{
		Manifest: manifest(programID),
		Sections: map[string][]byte{container.SectionCode: code(0x01)},
	})

	ld, err := loader.NewLoader(f.env, f.basePth, f.collaborators())
	test.DemandSuccess(t, err)

	_, err = ld.ReadTitle()
	test.ExpectEquality(t, status.Of(err), status.InvalidFormat)

	// no icon and not a system title. no region is set
	_, err = ld.Load()
	test.DemandSuccess(t, err)
	f.regions.AssertNotCalled(t, "SetPreferredRegionCodes", mock.Anything)
}

func TestNewLoader(t *testing.T) {
	f := newFixture(t, code(0x01))

	col := f.collaborators()
	col.Host = nil
	_, err := loader.NewLoader(f.env, f.basePth, col)
	test.ExpectFailure(t, err)

	col = f.collaborators()
	col.Open = nil
	_, err = loader.NewLoader(f.env, f.basePth, col)
	test.ExpectFailure(t, err)

	_, err = loader.NewLoader(nil, f.basePth, f.collaborators())
	test.ExpectFailure(t, err)
}
