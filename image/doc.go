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

// Package image builds the memory image of a process from the code section
// of a title and the layout information in the title's header.
//
// The image is a single buffer containing the code, read-only data and data
// segments, in that order, followed by the zero filled uninitialised data. The
// uninitialised data is counted as part of the data segment.
//
// Wrapped legacy titles (virtual console titles) are detected and rejected
// before any work is done on the buffer. See IsLegacyWrapped().
//
// Once built, the buffer belongs to the Image until Handoff() is called, after
// which the Image no longer refers to it.
package image
