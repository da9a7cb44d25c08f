// Metromap - Metro Map Editor API and Conversational Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/metromap

package metromap

import (
	"errors"
	"strings"
	"testing"
)

func validMap() *MetroMap {
	return &MetroMap{
		ID:   "test-metro",
		Name: "Test Metro",
		Stations: []Station{
			{ID: "a", Name: "Alpha", X: 0, Y: 0},
			{ID: "b", Name: "Bravo", X: 10, Y: 0},
			{ID: "c", Name: "Charlie", X: 20, Y: 0},
		},
		Lines: []Line{
			{ID: "red", Name: "Red", Color: "#d52b1e", Stations: []string{"a", "b", "c"}},
		},
		Connections: []Connection{
			{From: "a", To: "c", Kind: "walk"},
		},
	}
}

func TestValidate_ValidMap(t *testing.T) {
	if err := validMap().Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_EmptyMapAllowed(t *testing.T) {
	m := &MetroMap{ID: "blank", Name: "Blank"}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_Nil(t *testing.T) {
	var m *MetroMap
	if err := m.Validate(); !errors.Is(err, ErrInvalidMap) {
		t.Fatalf("Validate() on nil = %v, want ErrInvalidMap", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *MetroMap)
		wantMsg string
	}{
		{
			name:    "missing id",
			mutate:  func(m *MetroMap) { m.ID = "" },
			wantMsg: "id",
		},
		{
			name:    "bad colour",
			mutate:  func(m *MetroMap) { m.Lines[0].Color = "red" },
			wantMsg: "lines[0].color",
		},
		{
			name:    "line too short",
			mutate:  func(m *MetroMap) { m.Lines[0].Stations = []string{"a"} },
			wantMsg: "lines[0].stations",
		},
		{
			name: "duplicate station",
			mutate: func(m *MetroMap) {
				m.Stations = append(m.Stations, Station{ID: "a", Name: "Again"})
			},
			wantMsg: "duplicates stations[0]",
		},
		{
			name: "duplicate line",
			mutate: func(m *MetroMap) {
				m.Lines = append(m.Lines, Line{ID: "red", Name: "Red 2", Color: "#000000", Stations: []string{"a", "b"}})
			},
			wantMsg: "duplicates lines[0]",
		},
		{
			name:    "unknown stop",
			mutate:  func(m *MetroMap) { m.Lines[0].Stations[2] = "zulu" },
			wantMsg: "zulu",
		},
		{
			name:    "repeated stop",
			mutate:  func(m *MetroMap) { m.Lines[0].Stations[1] = "a" },
			wantMsg: "lines[0]",
		},
		{
			name:    "unknown connection endpoint",
			mutate:  func(m *MetroMap) { m.Connections[0].To = "zulu" },
			wantMsg: "connections[0]",
		},
		{
			name:    "self connection",
			mutate:  func(m *MetroMap) { m.Connections[0].To = "a" },
			wantMsg: "connections[0]",
		},
		{
			name:    "bad connection kind",
			mutate:  func(m *MetroMap) { m.Connections[0].Kind = "teleport" },
			wantMsg: "connections[0].kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMap()
			tt.mutate(m)
			err := m.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidMap) {
				t.Errorf("errors.Is(err, ErrInvalidMap) = false for %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || len(verr.Problems) == 0 {
				t.Errorf("expected *ValidationError with problems, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	orig := validMap()
	cp := orig.Clone()

	cp.Stations[0].Name = "Changed"
	cp.Lines[0].Stations[0] = "c"
	cp.Connections[0].Kind = "transfer"

	if orig.Stations[0].Name != "Alpha" {
		t.Error("station slice shared with clone")
	}
	if orig.Lines[0].Stations[0] != "a" {
		t.Error("line stop slice shared with clone")
	}
	if orig.Connections[0].Kind != "walk" {
		t.Error("connection slice shared with clone")
	}
}

func TestClone_NormalizesNilSlices(t *testing.T) {
	m := (&MetroMap{ID: "x", Name: "X"}).Clone()
	if m.Stations == nil || m.Lines == nil || m.Connections == nil {
		t.Error("Clone() left nil slices; clients expect [] not null")
	}
}

func TestSummarize(t *testing.T) {
	got := validMap().Summarize()
	want := Summary{ID: "test-metro", Stations: 3, Lines: 1, Connections: 1}
	if got != want {
		t.Errorf("Summarize() = %+v, want %+v", got, want)
	}
}
