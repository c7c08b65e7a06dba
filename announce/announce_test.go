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

package announce_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jetsetilly/titleloader/announce"
	"github.com/jetsetilly/titleloader/test"
)

func TestSendGameInfo(t *testing.T) {
	var crit sync.Mutex
	var received []announce.GameInfo

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/game" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var info announce.GameInfo
		if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		crit.Lock()
		received = append(received, info)
		crit.Unlock()
	}))
	defer srv.Close()

	a := announce.NewAnnouncer(srv.URL)
	test.ExpectEquality(t, a.Enabled(), true)
	a.SendGameInfo(announce.GameInfo{Name: "Pilotwings", ID: 0x0004000000030800})
	a.Wait()

	crit.Lock()
	defer crit.Unlock()
	test.DemandEquality(t, len(received), 1)
	test.ExpectEquality(t, received[0], announce.GameInfo{Name: "Pilotwings", ID: 0x0004000000030800})
}

func TestFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "room closed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	// failures are not reported to the caller
	a := announce.NewAnnouncer(srv.URL)
	a.SendGameInfo(announce.GameInfo{Name: "Pilotwings"})
	a.Wait()
}

func TestDisabled(t *testing.T) {
	a := announce.NewAnnouncer("")
	test.ExpectEquality(t, a.Enabled(), false)
	a.SendGameInfo(announce.GameInfo{Name: "Pilotwings"})
	a.Wait()

	var n *announce.Announcer
	test.ExpectEquality(t, n.Enabled(), false)
	n.Wait()
}
