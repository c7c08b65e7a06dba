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

// Package capability binds the kernel capabilities and resource information
// of a title onto a process created by the process host.
//
// The process host itself is outside of this package. The interfaces it must
// satisfy are defined here: ProcessHost, Process, ResourceLimits and
// FSRegistry. The kernel package contains a reference implementation.
package capability
