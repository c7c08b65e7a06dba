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

// Package preferences collates the preference values used by the title loader.
// Values are persisted with the prefs package and can be overridden for a
// single run with environment variables. For example:
//
//	TITLELOADER_REGION=1 TITLELOADER_SDMC=/tmp/sdmc titleloader load game.zip
//
// Environment overrides are never saved to disk unless Save() is called
// explicitly after ApplyEnvironment().
package preferences
