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

package curated_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/test"
)

const testPattern = "test: %v"

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("loader: %v", "code section missing")
	f := curated.Errorf("loader: %v", e)
	test.ExpectEquality(t, f.Error(), "loader: code section missing")
}

func TestIsAndHas(t *testing.T) {
	e := curated.Errorf(testPattern, 10)
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testPattern))

	f := curated.Errorf("wrapper: %v", e)
	test.ExpectFailure(t, curated.Is(f, testPattern))
	test.ExpectSuccess(t, curated.Has(f, testPattern))

	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
	test.ExpectFailure(t, curated.Has(nil, testPattern))
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")

	e := curated.Errorf("wrapper: %w", sentinel)
	test.ExpectSuccess(t, errors.Is(e, sentinel))
	test.ExpectEquality(t, e.Error(), "wrapper: sentinel")

	// the %v verb does not wrap
	f := curated.Errorf("wrapper: %v", sentinel)
	test.ExpectFailure(t, errors.Is(f, sentinel))
}
