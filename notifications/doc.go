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

// Package notifications allow the loader to tell the host application about
// events during the loading of a title. For example, when an update package
// has been found and applied or when the title has been rejected because it is
// a wrapped legacy title.
//
// Notifications are informational. The result of loading is always returned
// directly by the loader and a failed notification never changes that result.
package notifications
