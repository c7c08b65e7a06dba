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

// Package telemetry records information about a loader session. Each Session
// has a unique identifier and a set of named fields. Counters of load results
// are exported as prometheus metrics.
//
// Recording telemetry never fails and never blocks the caller for longer than
// it takes to take a mutex.
package telemetry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jetsetilly/titleloader/logger"
	"github.com/jetsetilly/titleloader/status"
)

// FieldType is the category of a telemetry field.
type FieldType int

// List of valid FieldType values.
const (
	FieldApp FieldType = iota
	FieldSession
	FieldPerformance
	FieldUserConfig
	FieldUserSystem
)

func (t FieldType) String() string {
	switch t {
	case FieldApp:
		return "App"
	case FieldSession:
		return "Session"
	case FieldPerformance:
		return "Performance"
	case FieldUserConfig:
		return "UserConfig"
	case FieldUserSystem:
		return "UserSystem"
	}
	return "Unknown"
}

// Field is a single named value.
type Field struct {
	Type  FieldType
	Name  string
	Value any
}

// Key returns the qualified name of the field.
func (f Field) Key() string {
	return fmt.Sprintf("%s_%s", f.Type, f.Name)
}

func (f Field) String() string {
	return fmt.Sprintf("%s: %v", f.Key(), f.Value)
}

// Sink is implemented by anything that records telemetry.
type Sink interface {
	AddField(t FieldType, name string, value any)
	RecordLoad(err error)
}

// Discard is an implementation of Sink that records nothing.
type Discard struct{}

// AddField implements the Sink interface.
func (Discard) AddField(_ FieldType, _ string, _ any) {}

// RecordLoad implements the Sink interface.
func (Discard) RecordLoad(_ error) {}

// Session collects telemetry fields. Implements the Sink interface.
type Session struct {
	crit sync.Mutex

	id      uuid.UUID
	started time.Time
	fields  map[string]Field

	loads *prometheus.CounterVec
}

// NewSession is the preferred method of initialisation for the Session type.
// Metrics are registered with the Registerer. A nil Registerer means a new
// private registry is used.
func NewSession(reg prometheus.Registerer) *Session {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	s := &Session{
		id:      uuid.New(),
		started: time.Now(),
		fields:  make(map[string]Field),
		loads: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "titleloader_loads_total",
				Help: "Total number of title loads by result",
			},
			[]string{"status"},
		),
	}

	s.AddField(FieldSession, "Id", s.id.String())

	logger.Logf(logger.Allow, "telemetry", "session %s", s.id)

	return s
}

// ID returns the unique identifier of the session.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// AddField implements the Sink interface. A field with the same type and name
// as an existing field replaces it.
func (s *Session) AddField(t FieldType, name string, value any) {
	s.crit.Lock()
	defer s.crit.Unlock()
	f := Field{Type: t, Name: name, Value: value}
	s.fields[f.Key()] = f
}

// RecordLoad implements the Sink interface.
func (s *Session) RecordLoad(err error) {
	s.loads.WithLabelValues(status.Of(err).String()).Inc()
}

// Field returns the named field.
func (s *Session) Field(t FieldType, name string) (Field, bool) {
	s.crit.Lock()
	defer s.crit.Unlock()
	f, ok := s.fields[Field{Type: t, Name: name}.Key()]
	return f, ok
}

// Fields returns a copy of every field, sorted by key.
func (s *Session) Fields() []Field {
	s.crit.Lock()
	defer s.crit.Unlock()

	l := make([]Field, 0, len(s.fields))
	for _, f := range s.fields {
		l = append(l, f)
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].Key() < l[j].Key()
	})
	return l
}

// Duration returns the time since the session started.
func (s *Session) Duration() time.Duration {
	return time.Since(s.started)
}
