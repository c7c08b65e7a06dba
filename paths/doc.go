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

// Package paths contains functions to prepare paths to titleloader resources
// and to installed titles.
//
// The ResourcePath() function modifies the supplied resource string such that
// it is prepended with the appropriate config directory. For example, the
// following will return the path to the preferences file:
//
//	p, err := paths.ResourcePath("", "preferences.toml")
//
// The policy of ResourcePath() is simple: if the base resource path, currently
// defined to be ".titleloader", is present in the program's current directory
// then that is the base path that will used. If it is not present then the
// user's config directory is used, as returned by os.UserConfigDir().
//
// The TitleContentPath() function returns the conventional location of an
// installed title's content on a storage medium. It is used to find the update
// package that accompanies a base title.
package paths
