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

// Package container defines the interface to a single title package and the
// Container type, which wraps a package with its role (base or update) and
// caches the result of loading it.
//
// Parsing of a particular package format is not done here. Implementations of
// the Reader interface do that work. The pkgfile package provides a Reader for
// zip based development packages.
//
// A Container is loaded at most once. The result of the first call to Load(),
// successful or not, is returned by every subsequent call. Every read method
// calls Load() first so a Container can be read without an explicit Load().
package container
