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

// Package prefs provides typed preference values and the Disk type, which
// persists a group of values to a TOML file.
//
// Values are added to a Disk with a key. Keys are dotted paths and are stored
// as nested tables in the TOML file:
//
//	dsk, _ := prefs.NewDisk(pth)
//	dsk.Add("region.value", &p.RegionValue)
//	dsk.Add("media.sdmc", &p.SDMC)
//
// becomes:
//
//	[media]
//	sdmc = "/home/user/sdmc"
//
//	[region]
//	value = -1
//
// Loading a Disk only changes values for keys that are present in the file.
// Keys in the file that have not been added to the Disk are preserved when the
// Disk is saved.
package prefs
