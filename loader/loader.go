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

package loader

import (
	"fmt"

	"github.com/jetsetilly/titleloader/announce"
	"github.com/jetsetilly/titleloader/capability"
	"github.com/jetsetilly/titleloader/container"
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/environment"
	"github.com/jetsetilly/titleloader/image"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/notifications"
	"github.com/jetsetilly/titleloader/overlay"
	"github.com/jetsetilly/titleloader/region"
	"github.com/jetsetilly/titleloader/smdh"
	"github.com/jetsetilly/titleloader/status"
	"github.com/jetsetilly/titleloader/telemetry"
)

// Announcer is implemented by the session announcer.
type Announcer interface {
	SendGameInfo(info announce.GameInfo)
}

// an Announcer that can be switched off. the title is not read for an
// announcer that is not enabled
type switchable interface {
	Enabled() bool
}

func announcing(a Announcer) bool {
	if a == nil {
		return false
	}
	if s, ok := a.(switchable); ok {
		return s.Enabled()
	}
	return true
}

// ArchiveRegistry is given the loader once the title is running, so that the
// title's own content can be provided to it as an archive.
type ArchiveRegistry interface {
	RegisterSelf(src container.TitleSource)
}

// Collaborators are the services used by the Loader. Host, ResourceLimits
// and Open are required. Other fields can be nil.
type Collaborators struct {
	Host           capability.ProcessHost
	ResourceLimits capability.ResourceLimits
	FS             capability.FSRegistry
	Archives       ArchiveRegistry

	// region negotiation is skipped if Regions is nil. a nil RegionTable
	// means the default table is used
	Regions     region.ConfigStore
	RegionTable region.SystemTitleTable

	// a nil Titles field means the media paths in the preferences are used
	Titles overlay.TitlePathResolver

	Open container.Opener

	Telemetry telemetry.Sink
	Announcer Announcer
}

type state int

const (
	notLoaded state = iota
	loaded
)

func (s state) String() string {
	switch s {
	case notLoaded:
		return "not loaded"
	case loaded:
		return "loaded"
	}
	return "unknown state"
}

// Loader loads a single title.
type Loader struct {
	env  *environment.Environment
	col  Collaborators
	path string

	state state

	base    *container.Container
	overlay *overlay.Resolver
	process capability.Process
}

// NewLoader is the preferred method of initialisation for the Loader type.
// The package at path is not opened until Load() or one of the read functions
// is called.
func NewLoader(env *environment.Environment, path string, col Collaborators) (*Loader, error) {
	if env == nil {
		return nil, curated.Errorf("loader: environment required")
	}
	if col.Host == nil {
		return nil, curated.Errorf("loader: process host required")
	}
	if col.ResourceLimits == nil {
		return nil, curated.Errorf("loader: resource limits required")
	}
	if col.Open == nil {
		return nil, curated.Errorf("loader: package opener required")
	}

	if col.Titles == nil {
		col.Titles = env.Prefs.Media()
	}
	if col.RegionTable == nil {
		col.RegionTable = region.DefaultTable()
	}
	if col.Telemetry == nil {
		col.Telemetry = telemetry.Discard{}
	}

	return &Loader{
		env:  env,
		col:  col,
		path: path,
		base: container.Open(container.Base, path, col.Open),
	}, nil
}

func (ld *Loader) String() string {
	return fmt.Sprintf("%s (%s)", ld.path, ld.state)
}

func (ld *Loader) transition(to state) {
	logger.Logf(logger.Allow, "loader", "%s -> %s", ld.state, to)
	ld.state = to
}

func (ld *Loader) notify(notice notifications.Notice) {
	if err := ld.env.Notify.Notify(notice); err != nil {
		logger.Logf(logger.Allow, "loader", "notification %s: %v", notice, err)
	}
}

// Load the title and start its process. A second call to Load() returns an
// error classifying as status.AlreadyLoaded and does nothing else.
func (ld *Loader) Load() (capability.Process, error) {
	if ld.state == loaded {
		return nil, curated.Errorf("loader: %w", status.AlreadyLoaded)
	}

	proc, err := ld.load()
	ld.col.Telemetry.RecordLoad(err)
	if err != nil {
		return nil, err
	}

	ld.notify(notifications.NotifyLoaded)

	return proc, nil
}

func (ld *Loader) load() (capability.Process, error) {
	if err := ld.base.Load(); err != nil {
		return nil, err
	}

	programID, err := ld.base.ProgramID()
	if err != nil {
		return nil, err
	}
	programIDStr := fmt.Sprintf("%016X", programID)

	logger.Logf(logger.Allow, "loader", "program id: %s", programIDStr)

	ld.overlay, err = overlay.Resolve(ld.base, ld.col.Titles, ld.col.Open)
	if err != nil {
		return nil, err
	}
	if ld.overlay.IsUpdateApplied() {
		ld.notify(notifications.NotifyUpdateOverlay)
	} else {
		ld.notify(notifications.NotifyNoUpdateOverlay)
	}

	ld.col.Telemetry.AddField(telemetry.FieldSession, "ProgramId", programIDStr)

	if announcing(ld.col.Announcer) {
		// a title that can't be read is announced with an empty name
		title, _ := ld.ReadTitle()
		ld.col.Announcer.SendGameInfo(announce.GameInfo{
			Name: title,
			ID:   programID,
		})
	}

	ld.transition(loaded)

	proc, err := ld.LoadExec()
	if err != nil {
		return nil, err
	}
	ld.process = proc

	if ld.col.Archives != nil {
		ld.col.Archives.RegisterSelf(ld)
	}

	ld.negotiateRegion(programID)

	return proc, nil
}

// LoadExec builds the process image and creates, binds and starts a process
// with the process host. Load() must have been called first.
func (ld *Loader) LoadExec() (capability.Process, error) {
	if ld.state != loaded {
		return nil, curated.Errorf("loader: %w", status.NotLoaded)
	}

	code, err := ld.ReadCode()
	if err != nil {
		return nil, err
	}

	programID, err := ld.ReadProgramID()
	if err != nil {
		return nil, err
	}

	src := ld.authoritative()

	hdr, err := src.Header()
	if err != nil {
		return nil, err
	}

	img, err := image.Build(code, hdr, src)
	if err != nil {
		if status.Of(err) == status.UnsupportedLegacyTitle {
			ld.notify(notifications.NotifyLegacyTitle)
		}
		return nil, err
	}

	cs, err := ld.col.Host.CreateCodeSet(img, programID)
	if err != nil {
		return nil, err
	}

	proc, err := ld.col.Host.CreateProcess(cs)
	if err != nil {
		return nil, err
	}

	binder := capability.Binder{
		Limits: ld.col.ResourceLimits,
		FS:     ld.col.FS,
	}

	err = binder.Bind(proc, capability.NewBinding(hdr, programID, ld.path))
	if err != nil {
		ld.col.Host.DestroyProcess(proc)
		return nil, err
	}

	return proc, nil
}

func (ld *Loader) negotiateRegion(programID uint64) {
	if ld.col.Regions == nil {
		return
	}

	n := region.Negotiator{
		AutoSelect: ld.env.Prefs.AutoSelectRegion(),
		Table:      ld.col.RegionTable,
		Store:      ld.col.Regions,
	}

	if n.Negotiate(ld, programID) {
		ld.notify(notifications.NotifyRegionNegotiated)
	}
}

// Process returns the process created by Load(). Returns nil if Load() has
// not completed successfully.
func (ld *Loader) Process() capability.Process {
	return ld.process
}

// IsUpdateApplied returns true if an update package was found by Load().
func (ld *Loader) IsUpdateApplied() bool {
	return ld.overlay != nil && ld.overlay.IsUpdateApplied()
}

// the package that single-source content is read from
func (ld *Loader) authoritative() *container.Container {
	if ld.overlay == nil {
		return ld.base
	}
	return ld.overlay.Authoritative()
}

// ReadCode returns the code section of the title.
func (ld *Loader) ReadCode() ([]byte, error) {
	return ld.authoritative().Section(container.SectionCode)
}

// ReadIcon returns the icon section of the title.
func (ld *Loader) ReadIcon() ([]byte, error) {
	return ld.authoritative().Section(container.SectionIcon)
}

// ReadBanner returns the banner section of the title.
func (ld *Loader) ReadBanner() ([]byte, error) {
	return ld.authoritative().Section(container.SectionBanner)
}

// ReadLogo returns the logo section of the title.
func (ld *Loader) ReadLogo() ([]byte, error) {
	return ld.authoritative().Section(container.SectionLogo)
}

// IsExecutable returns true if the title contains an executable.
func (ld *Loader) IsExecutable() (bool, error) {
	return ld.authoritative().IsExecutable()
}

// ReadProgramID returns the program identifier of the base package.
func (ld *Loader) ReadProgramID() (uint64, error) {
	return ld.base.ProgramID()
}

// ReadExtdataID returns the extdata identifier of the base package.
func (ld *Loader) ReadExtdataID() (uint64, error) {
	return ld.base.ExtdataID()
}

// ReadAssetStore returns the asset store of the base package.
func (ld *Loader) ReadAssetStore() (container.AssetStore, error) {
	return ld.base.AssetStore()
}

// ReadUpdateAssetStore returns the asset store of the update package if
// there is one, or the asset store of the base package if not.
func (ld *Loader) ReadUpdateAssetStore() (container.AssetStore, error) {
	if ld.overlay == nil {
		return ld.base.AssetStore()
	}
	return ld.overlay.ReadUpdateAssetStore()
}

// DumpAssetStore writes the base asset store beneath the target directory.
func (ld *Loader) DumpAssetStore(target string) error {
	st, err := ld.base.AssetStore()
	if err != nil {
		return err
	}
	return st.Dump(target)
}

// DumpUpdateAssetStore writes the update asset store beneath the target
// directory. The update package is always opened afresh.
func (ld *Loader) DumpUpdateAssetStore(target string) error {
	r := ld.overlay
	if r == nil {
		var err error
		r, err = overlay.Resolve(ld.base, ld.col.Titles, ld.col.Open)
		if err != nil {
			return err
		}
	}
	return r.DumpUpdateAssetStore(target)
}

// ReadTitle returns the English short title from the title's icon.
func (ld *Loader) ReadTitle() (string, error) {
	// a missing icon is reported as an invalid icon
	data, _ := ld.ReadIcon()
	return smdh.ShortTitle(data, smdh.English)
}

// LoadKernelSystemMode returns the system mode required by the title.
func (ld *Loader) LoadKernelSystemMode() (uint8, error) {
	hdr, err := ld.header()
	if err != nil {
		return 0, err
	}
	return hdr.System.SystemMode, nil
}

// LoadNewHardwareMode returns the new hardware mode required by the title.
func (ld *Loader) LoadNewHardwareMode() (uint8, error) {
	hdr, err := ld.header()
	if err != nil {
		return 0, err
	}
	return hdr.System.NewHardwareMode, nil
}

func (ld *Loader) header() (*container.Header, error) {
	if ld.state != loaded {
		if err := ld.base.Load(); err != nil {
			return nil, err
		}
	}
	return ld.authoritative().Header()
}
