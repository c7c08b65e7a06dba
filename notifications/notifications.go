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

package notifications

// Notice describes events that happen while a title is being loaded.
type Notice string

// List of defined notifications.
const (
	// the update package was found and is authoritative for executable
	// content
	NotifyUpdateOverlay Notice = "NotifyUpdateOverlay"

	// no usable update package was found. the base package is authoritative
	NotifyNoUpdateOverlay Notice = "NotifyNoUpdateOverlay"

	// the code section is a wrapped legacy title and has been rejected
	NotifyLegacyTitle Notice = "NotifyLegacyTitle"

	// preferred region codes have been forwarded to the configuration store
	NotifyRegionNegotiated Notice = "NotifyRegionNegotiated"

	// the title is loaded and the process is running
	NotifyLoaded Notice = "NotifyLoaded"
)

// Notify is implemented by anything that wants to hear about loader events.
type Notify interface {
	Notify(notice Notice) error
}

// Discard is an implementation of Notify that ignores all notices.
type Discard struct{}

// Notify implements the Notify interface.
func (Discard) Notify(_ Notice) error {
	return nil
}

// Recorder is an implementation of Notify that keeps a list of every notice.
type Recorder struct {
	Notices []Notice
}

// Notify implements the Notify interface.
func (r *Recorder) Notify(notice Notice) error {
	r.Notices = append(r.Notices, notice)
	return nil
}

// Has returns true if the notice has been recorded.
func (r *Recorder) Has(notice Notice) bool {
	for _, n := range r.Notices {
		if n == notice {
			return true
		}
	}
	return false
}
