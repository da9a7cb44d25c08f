// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package metromap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/metromap/internal/validation"
)

// Document size limits.
const (
	MaxStations    = 2000
	MaxLines       = 200
	MaxStopsOnLine = 500
	MaxConnections = 2000
)

// ErrInvalidMap is matched by every *ValidationError.
var ErrInvalidMap = errors.New("invalid metro map")

// MetroMap is the full editable transit map document.
type MetroMap struct {
	ID          string       `json:"id" validate:"required,slug,max=64"`
	Name        string       `json:"name" validate:"required,max=120"`
	Stations    []Station    `json:"stations" validate:"max=2000,dive"`
	Lines       []Line       `json:"lines" validate:"max=200,dive"`
	Connections []Connection `json:"connections" validate:"max=2000,dive"`
}

// Station is a named point on the map canvas.
type Station struct {
	ID   string  `json:"id" validate:"required,slug,max=64"`
	Name string  `json:"name" validate:"required,max=120"`
	X    float64 `json:"x" validate:"gte=-100000,lte=100000"`
	Y    float64 `json:"y" validate:"gte=-100000,lte=100000"`
}

// Line is an ordered route through stations, drawn in Color.
type Line struct {
	ID       string   `json:"id" validate:"required,slug,max=64"`
	Name     string   `json:"name" validate:"required,max=120"`
	Color    string   `json:"color" validate:"required,hexcolor"`
	Stations []string `json:"stations" validate:"min=2,max=500"`
}

// Connection links two stations outside of any line, such as an
// out-of-station interchange.
type Connection struct {
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`
	Kind string `json:"kind,omitempty" validate:"omitempty,oneof=walk transfer"`
}

// ValidationError lists every problem found in a rejected document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidMap.Error()
	}
	return ErrInvalidMap.Error() + ": " + strings.Join(e.Problems, "; ")
}

// Is makes errors.Is(err, ErrInvalidMap) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidMap
}

// Validate checks field and document rules and returns a *ValidationError
// describing every violation, or nil.
func (m *MetroMap) Validate() error {
	if m == nil {
		return &ValidationError{Problems: []string{"map is required"}}
	}

	if verr := validation.ValidateStruct(m); verr != nil {
		problems := make([]string, 0, len(verr.Errors()))
		for _, fe := range verr.Errors() {
			problems = append(problems, fe.Error())
		}
		// Field errors make reference checks noisy, so stop here.
		return &ValidationError{Problems: problems}
	}

	if problems := m.referenceProblems(); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func (m *MetroMap) referenceProblems() []string {
	var problems []string

	stationIndex := make(map[string]int, len(m.Stations))
	for i, s := range m.Stations {
		if first, dup := stationIndex[s.ID]; dup {
			problems = append(problems, fmt.Sprintf("stations[%d].id %q duplicates stations[%d]", i, s.ID, first))
			continue
		}
		stationIndex[s.ID] = i
	}

	lineIndex := make(map[string]int, len(m.Lines))
	for i, l := range m.Lines {
		if first, dup := lineIndex[l.ID]; dup {
			problems = append(problems, fmt.Sprintf("lines[%d].id %q duplicates lines[%d]", i, l.ID, first))
		} else {
			lineIndex[l.ID] = i
		}

		for j, stop := range l.Stations {
			if _, ok := stationIndex[stop]; !ok {
				problems = append(problems, fmt.Sprintf("lines[%d].stations[%d] references unknown station %q", i, j, stop))
			}
			if j > 0 && l.Stations[j-1] == stop {
				problems = append(problems, fmt.Sprintf("lines[%d].stations[%d] repeats the previous stop %q", i, j, stop))
			}
		}
	}

	for i, c := range m.Connections {
		if _, ok := stationIndex[c.From]; !ok {
			problems = append(problems, fmt.Sprintf("connections[%d].from references unknown station %q", i, c.From))
		}
		if _, ok := stationIndex[c.To]; !ok {
			problems = append(problems, fmt.Sprintf("connections[%d].to references unknown station %q", i, c.To))
		}
		if c.From == c.To {
			problems = append(problems, fmt.Sprintf("connections[%d] connects station %q to itself", i, c.From))
		}
	}

	return problems
}

// Clone returns a deep copy. Nil collections become empty so the
// serialized form always carries arrays.
func (m *MetroMap) Clone() *MetroMap {
	if m == nil {
		return nil
	}

	out := &MetroMap{
		ID:          m.ID,
		Name:        m.Name,
		Stations:    make([]Station, len(m.Stations)),
		Lines:       make([]Line, len(m.Lines)),
		Connections: make([]Connection, len(m.Connections)),
	}
	copy(out.Stations, m.Stations)
	copy(out.Connections, m.Connections)
	for i, l := range m.Lines {
		out.Lines[i] = l
		out.Lines[i].Stations = append([]string(nil), l.Stations...)
	}
	return out
}

// Summary is a lightweight description of a map, used in logs, events
// and the readiness endpoint.
type Summary struct {
	ID          string `json:"id"`
	Stations    int    `json:"stations"`
	Lines       int    `json:"lines"`
	Connections int    `json:"connections"`
}

// Summarize counts the map's contents.
func (m *MetroMap) Summarize() Summary {
	if m == nil {
		return Summary{}
	}
	return Summary{
		ID:          m.ID,
		Stations:    len(m.Stations),
		Lines:       len(m.Lines),
		Connections: len(m.Connections),
	}
}
