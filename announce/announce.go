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

// Package announce tells a multiplayer room server which title is being
// played. Announcements are sent in the background and failures are only
// logged.
package announce

import (
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jetsetilly/titleloader/curated"
	"github.com/jetsetilly/titleloader/logger"
)

// GameInfo is the information sent to the room server.
type GameInfo struct {
	Name string `json:"name"`
	ID   uint64 `json:"id"`
}

// the path on the server that game information is sent to
const gameInfoPath = "/game"

// time allowed for an announcement to complete
const timeout = 5 * time.Second

// Announcer sends GameInfo to a room server. The zero value, or an
// Announcer created with an empty server address, is disabled.
type Announcer struct {
	client *resty.Client
	server string

	// outstanding announcements
	wg sync.WaitGroup
}

// NewAnnouncer is the preferred method of initialisation for the Announcer
// type. An empty server address disables the Announcer.
func NewAnnouncer(server string) *Announcer {
	a := &Announcer{
		server: server,
	}
	if server != "" {
		a.client = resty.New().
			SetBaseURL(server).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json")
	}
	return a
}

// Enabled returns true if announcements will be sent.
func (a *Announcer) Enabled() bool {
	return a != nil && a.client != nil
}

// SendGameInfo sends the information to the server in the background.
func (a *Announcer) SendGameInfo(info GameInfo) {
	if !a.Enabled() {
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.send(info); err != nil {
			logger.Log(logger.Allow, "announce", err)
		}
	}()
}

func (a *Announcer) send(info GameInfo) error {
	resp, err := a.client.R().SetBody(info).Post(gameInfoPath)
	if err != nil {
		return curated.Errorf("announce: %v", err)
	}
	if resp.IsError() {
		return curated.Errorf("announce: %s: %s", a.server, resp.Status())
	}
	logger.Logf(logger.Allow, "announce", "%s (%016x) announced to %s", info.Name, info.ID, a.server)
	return nil
}

// Wait for outstanding announcements to complete.
func (a *Announcer) Wait() {
	if a == nil {
		return
	}
	a.wg.Wait()
}
