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

// Package packageloader is used to fetch the raw data of a title package.
//
// The Load() function handles loading of data from different sources.
// Currently local files and data over HTTP are supported.
//
// The simplest instance of the Loader type:
//
//	ld := packageloader.Loader{
//		Filename: "titles/pilotwings.zip",
//	}
//
// It is preferred however that the NewLoader() function is used.
//
// The Hash field can be set before loading to require that the data has a
// particular digest. Digests are in the form used by the go-digest package,
// for example:
//
//	sha256:6c3c624b58dbbcd3c0dd82b4c53f04194d1247c6eebdaab7c610cf7d66709b3b
package packageloader
