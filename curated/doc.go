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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a formatting
// pattern and placeholder values, in the same way as the fmt.Errorf()
// function, but the pattern is remembered so that the error can be identified
// later without comparing error strings:
//
//	const sectionMissing = "package: section %s missing"
//
//	e := curated.Errorf(sectionMissing, "icon")
//	if curated.Is(e, sectionMissing) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the chain of curated errors.
//
//	f := curated.Errorf("loader: %v", e)
//	curated.Has(f, sectionMissing) // true
//	curated.Is(f, sectionMissing)  // false
//
// The Error() function normalises the message so that duplicate adjacent
// parts are removed. Parts are separated by the sub-string ': ' as suggested
// on p239 of "The Go Programming Language" (Donovan, Kernighan). This means
// that a function can add its context without worrying about whether the
// caller has already done so:
//
//	loader: loader: code section missing
//
// is printed as:
//
//	loader: code section missing
//
// Where a pattern contains the %w verb the wrapped value is returned by the
// Unwrap() function, meaning that errors.Is() and errors.As() see through the
// curated error. The status package relies on this to classify errors.
package curated
