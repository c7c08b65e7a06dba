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

// Package loader loads a title and hands it to a process host. Loading is
// done once per Loader with the Load() function:
//
//	ld, err := loader.NewLoader(env, "title.zip", col)
//	if err != nil {
//		return err
//	}
//	proc, err := ld.Load()
//
// The Collaborators type lists the services that the Loader depends on. The
// kernel package provides a reference implementation of the process host and
// the other services.
//
// A Loader has two states: not loaded and loaded. The transition to the
// loaded state happens once the base package has been loaded and the update
// package resolved, but before the process image has been built. A Load()
// that fails while building the process image leaves the Loader in the loaded
// state and any further call to Load() returns status.AlreadyLoaded.
//
// Content of the title can be read with the Read*() functions at any time.
// Before Load() has been called, content is read from the base package.
package loader
