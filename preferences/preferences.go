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

package preferences

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/paths"
	"github.com/jetsetilly/titleloader/prefs"
)

// DefaultPrefsFile is the name of the preferences file in the resource path.
const DefaultPrefsFile = "preferences"

// RegionAutoSelect is the region value that causes the region to be chosen
// from the title's own metadata.
const RegionAutoSelect = -1

// Preferences defines and collates all the preference values used by the
// loader.
type Preferences struct {
	dsk *prefs.Disk

	// either RegionAutoSelect or a region code between 0 and 6
	RegionValue prefs.Int

	// root directories standing in for the storage media
	SDMC prefs.String
	NAND prefs.String

	TelemetryEnabled prefs.Bool

	// the address to which session announcements are posted. an empty string
	// disables announcement
	AnnounceServer prefs.String

	// echo the central log to stderr
	LogEcho prefs.Bool
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. The preferences file is in the default resource path.
func NewPreferences() (*Preferences, error) {
	pth, err := paths.ResourcePath("", DefaultPrefsFile)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	return NewPreferencesFromFile(pth)
}

// NewPreferencesFromFile creates a Preferences instance backed by the
// specified file. The file does not need to exist.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	err = p.dsk.Add("region.value", &p.RegionValue)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("media.sdmc", &p.SDMC)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("media.nand", &p.NAND)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("telemetry.enabled", &p.TelemetryEnabled)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("announce.server", &p.AnnounceServer)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("log.echo", &p.LogEcho)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	if err := p.dsk.Load(); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	return p, nil
}

// SetDefaults reverts all preferences to the default values.
func (p *Preferences) SetDefaults() {
	_ = p.RegionValue.Set(RegionAutoSelect)
	_ = p.SDMC.Set("")
	_ = p.NAND.Set("")
	_ = p.TelemetryEnabled.Set(true)
	_ = p.AnnounceServer.Set("")
	_ = p.LogEcho.Set(false)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// Save preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// AutoSelectRegion returns true if the region should be chosen from the
// title's metadata.
func (p *Preferences) AutoSelectRegion() bool {
	return p.RegionValue.Get().(int) == RegionAutoSelect
}

// Media returns the storage media roots.
func (p *Preferences) Media() paths.Media {
	return paths.Media{
		paths.MediaSDMC: p.SDMC.Get().(string),
		paths.MediaNAND: p.NAND.Get().(string),
	}
}

// the environment variables that override the preferences file. fields that
// are nil were not set in the environment.
type overrides struct {
	Region    *int    `envconfig:"REGION"`
	SDMC      *string `envconfig:"SDMC"`
	NAND      *string `envconfig:"NAND"`
	Telemetry *bool   `envconfig:"TELEMETRY"`
	Announce  *string `envconfig:"ANNOUNCE"`
	LogEcho   *bool   `envconfig:"LOG_ECHO"`
}

// EnvPrefix is the prefix of every environment variable that overrides a
// preference.
const EnvPrefix = "TITLELOADER"

// ApplyEnvironment overrides preference values with any of the TITLELOADER_
// environment variables that are set.
func (p *Preferences) ApplyEnvironment() error {
	var o overrides
	if err := envconfig.Process(EnvPrefix, &o); err != nil {
		return curated.Errorf("preferences: %v", err)
	}

	var err error
	set := func(v interface{ Set(prefs.Value) error }, nv prefs.Value) {
		if err == nil {
			err = v.Set(nv)
		}
	}

	if o.Region != nil {
		if *o.Region < RegionAutoSelect || *o.Region > 6 {
			return curated.Errorf("preferences: region value %d out of range", *o.Region)
		}
		set(&p.RegionValue, *o.Region)
	}
	if o.SDMC != nil {
		set(&p.SDMC, *o.SDMC)
	}
	if o.NAND != nil {
		set(&p.NAND, *o.NAND)
	}
	if o.Telemetry != nil {
		set(&p.TelemetryEnabled, *o.Telemetry)
	}
	if o.Announce != nil {
		set(&p.AnnounceServer, *o.Announce)
	}
	if o.LogEcho != nil {
		set(&p.LogEcho, *o.LogEcho)
	}

	if err != nil {
		return curated.Errorf("preferences: %v", err)
	}
	return nil
}
