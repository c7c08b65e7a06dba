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

package container

import (
	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/status"
)

// Role of the package in relation to the title being loaded.
type Role int

// List of valid Role values.
const (
	Base Role = iota
	Update
)

func (r Role) String() string {
	switch r {
	case Base:
		return "base"
	case Update:
		return "update"
	}
	return "unknown role"
}

// Container is a single package and its Role. The zero value is not usable.
// Use the New() or Open() functions.
type Container struct {
	role Role
	path string

	open   Opener
	reader Reader

	loaded  bool
	loadErr error
}

// New creates a Container around an existing Reader.
func New(role Role, path string, reader Reader) *Container {
	return &Container{
		role:   role,
		path:   path,
		reader: reader,
	}
}

// Open creates a Container for the package at path. The Opener is not called
// until the Container is first loaded.
func Open(role Role, path string, open Opener) *Container {
	return &Container{
		role: role,
		path: path,
		open: open,
	}
}

// Role returns the role of the Container.
func (c *Container) Role() Role {
	return c.role
}

// Path returns the path of the package.
func (c *Container) Path() string {
	return c.path
}

func (c *Container) String() string {
	return c.role.String() + ": " + c.path
}

// Load the package. Only the first call does any work.
func (c *Container) Load() error {
	if c.loaded {
		return c.loadErr
	}
	c.loaded = true

	if c.reader == nil {
		if c.open == nil || c.path == "" {
			c.loadErr = curated.Errorf("container: %v: %w", c.role, status.Error)
			return c.loadErr
		}

		r, err := c.open(c.path)
		if err != nil {
			c.loadErr = curated.Errorf("container: %v: %w", c.role, err)
			return c.loadErr
		}
		c.reader = r
	}

	if err := c.reader.Load(); err != nil {
		c.loadErr = curated.Errorf("container: %v: %w", c.role, err)
		return c.loadErr
	}

	logger.Logf(logger.Allow, "container", "%s package loaded: %s", c.role, c.path)

	return nil
}

// ProgramID returns the program identifier of the package.
func (c *Container) ProgramID() (uint64, error) {
	if err := c.Load(); err != nil {
		return 0, err
	}
	return c.reader.ProgramID()
}

// ExtdataID returns the extra data identifier of the package.
func (c *Container) ExtdataID() (uint64, error) {
	if err := c.Load(); err != nil {
		return 0, err
	}
	return c.reader.ExtdataID()
}

// IsExecutable returns true if the package contains an executable.
func (c *Container) IsExecutable() (bool, error) {
	if err := c.Load(); err != nil {
		return false, err
	}
	return c.reader.IsExecutable()
}

// Header returns the executable metadata of the package.
func (c *Container) Header() (*Header, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c.reader.Header()
}

// Section returns the named section of the package.
func (c *Container) Section(name string) ([]byte, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c.reader.Section(name)
}

// AssetStore returns the package's asset store.
func (c *Container) AssetStore() (AssetStore, error) {
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c.reader.AssetStore()
}

// ApplyCodePatch applies the package's code patch to the buffer.
func (c *Container) ApplyCodePatch(code []byte) error {
	if err := c.Load(); err != nil {
		return err
	}
	return c.reader.ApplyCodePatch(code)
}
