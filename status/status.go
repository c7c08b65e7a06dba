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

// Package status defines the closed set of outcomes reported by the title
// loader. Every error returned by the loader, or by one of the collaborators it
// drives, can be classified with the Of() function.
//
// Status values implement the error interface and are usually wrapped with
// curated.Errorf() using the %w verb, so that context can be added to the
// message without losing the classification:
//
//	return curated.Errorf("image: %w", status.UnsupportedLegacyTitle)
package status

import (
	"errors"
)

// Status is the result of a loader operation.
type Status int

// List of valid Status values.
const (
	Success Status = iota

	// generic failure. includes IO failures when opening a package or reading
	// a section
	Error

	// an operation that requires a loaded title was attempted before Load()
	NotLoaded

	// Load() has been called a second time
	AlreadyLoaded

	// malformed icon, metadata or patch
	InvalidFormat

	// the code section is a wrapped legacy (virtual console) title. this is a
	// deliberate rejection and not a defect in the package
	UnsupportedLegacyTitle

	// the requested facility isn't used by the package. returned when there is
	// no patch to apply and treated as success by callers
	NotUsed

	// the operation isn't supported by the package format
	NotImplemented
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Error:
		return "error"
	case NotLoaded:
		return "not loaded"
	case AlreadyLoaded:
		return "already loaded"
	case InvalidFormat:
		return "invalid format"
	case UnsupportedLegacyTitle:
		return "unsupported legacy title"
	case NotUsed:
		return "not used"
	case NotImplemented:
		return "not implemented"
	}
	return "unknown status"
}

// Error implements the error interface.
func (s Status) Error() string {
	return s.String()
}

// Of returns the Status for the error. A nil error is a Success. An error that
// does not wrap a Status value is classified as Error.
func Of(err error) Status {
	if err == nil {
		return Success
	}

	var s Status
	if errors.As(err, &s) {
		return s
	}

	return Error
}

// IsSuccessOrNotUsed returns true if the error is nil or if it classifies as
// NotUsed. Useful for optional facilities such as code patching.
func IsSuccessOrNotUsed(err error) bool {
	s := Of(err)
	return s == Success || s == NotUsed
}
