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

// Package test contains helper functions to remove common boilerplate to make
// testing easier.
//
// The ExpectSuccess and ExpectFailure functions test for failure and success
// under generic conditions. A boolean value of true is a success, as is a nil
// error. It is worth noting how nil is handled because it is not obvious. The
// nil type is considered a success and consequently will cause ExpectFailure to
// fail and ExpectSuccess to succeed. This is because of how errors usually work
// (nil to indicate no error).
//
// ExpectEquality and ExpectInequality compare values of the same comparable
// type.
//
// The Demand*() functions are the same as the Expect*() functions except that
// they end the test immediately on failure. Use them when the rest of the test
// cannot sensibly continue.
//
// The CompareWriter type implements the io.Writer interface and should be used
// to capture output. The CompareWriter.Compare() function can then be used to
// test for equality.
package test
