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

// Package kernel is a reference implementation of the services that a loaded
// title is handed to: the process host, the resource limit registry, the
// filesystem registry, the configuration store and the archive registry.
//
// It is sufficient for the titleloader command and for tests. It does not
// execute anything. A Process records the image, capabilities and scheduling
// information that it was given so that they can be inspected.
package kernel
