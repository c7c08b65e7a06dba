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

package environment

import (
	"github.com/jetsetilly/titleloader/notifications"
	"github.com/jetsetilly/titleloader/preferences"
)

// Label is used to name the environment.
type Label string

// Environment is used to provide context for a loader. Particularly useful
// when more than one title is being loaded in the same program, for example
// in tests.
type Environment struct {
	Label Label

	// the loader preferences
	Prefs *preferences.Preferences

	// loader events are sent here. never nil
	Notify notifications.Notify
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type.
//
// Both arguments can be nil. A nil prefs argument will cause the default
// Preferences to be loaded from disk. Providing a non-nil value allows the
// preferences to be shared between environments. A nil notify argument will
// discard all notifications.
func NewEnvironment(label Label, prefs *preferences.Preferences, notify notifications.Notify) (*Environment, error) {
	env := &Environment{
		Label:  label,
		Notify: notify,
	}

	if env.Notify == nil {
		env.Notify = notifications.Discard{}
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// Normalise ensures the environment is in a known default state. Useful for
// testing where the preferences file on disk must not influence the result.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsMain returns true if the environment is intended for the main loader in
// the program.
func (env *Environment) IsMain() bool {
	return env.Label == ""
}
