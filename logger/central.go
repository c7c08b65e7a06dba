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

// Package logger is the central log for the title loader. Entries are made up
// of a tag and a detail string. Identical consecutive entries are collapsed
// into one entry with a repeat count.
//
// The log can be echoed to an io.Writer with SetEcho() and/or to a structured
// zap logger with SetZapEcho(). The central log itself is bounded and always
// available for inspection with Write() and Tail().
package logger

import (
	"io"

	"go.uber.org/zap"
)

// only allowing one central log for the entire application. there's no need to
// allow more than one log.
var central *Logger

// maximum number of entries in the central logger.
const maxCentral = 256

func init() {
	central = NewLogger(maxCentral)
}

// Log adds an entry to the central logger.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf adds a formatted entry to the central logger.
func Logf(perm Permission, tag string, detail string, args ...any) {
	central.Logf(perm, tag, detail, args...)
}

// Clear all entries from central logger.
func Clear() {
	central.Clear()
}

// Write contents of central logger to io.Writer.
func Write(output io.Writer) {
	central.Write(output)
}

// Tail writes the last N entries to io.Writer.
func Tail(output io.Writer, number int) {
	central.Tail(output, number)
}

// SetEcho prints new log entries to io.Writer. A nil writer stops echoing.
func SetEcho(output io.Writer) {
	central.SetEcho(output)
}

// SetZapEcho forwards new log entries to the zap logger. A nil logger stops
// forwarding.
func SetZapEcho(z *zap.Logger) {
	central.SetZapEcho(z)
}
