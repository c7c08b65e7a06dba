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

// Package archivefs presents a directory tree inside an archive as a
// read-only asset store. Files can be opened by name, in the manner of the
// io/fs package, or found by the digest of their content.
//
// The Store is built from any fs.FS. The New() function is a convenience for
// the most common case of a directory inside a zip archive.
package archivefs
