package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewDaySequence_SortsAndKeepsDuplicates(t *testing.T) {
	seq := NewDaySequence([]Day{
		DayOf(2025, time.March, 3),
		DayOf(2025, time.January, 10),
		DayOf(2025, time.March, 3),
		DayOf(2024, time.December, 31),
	})

	want := []Day{
		DayOf(2024, time.December, 31),
		DayOf(2025, time.January, 10),
		DayOf(2025, time.March, 3),
		DayOf(2025, time.March, 3),
	}
	if seq.Len() != len(want) {
		t.Fatalf("Len=%d, want %d", seq.Len(), len(want))
	}
	for i, d := range want {
		if seq.At(i) != d {
			t.Fatalf("At(%d)=%s, want %s", i, seq.At(i), d)
		}
	}
	if got := len(seq.Distinct()); got != 3 {
		t.Fatalf("Distinct len=%d, want 3", got)
	}
	if got := seq.IndexOf(DayOf(2025, time.March, 3)); got != 2 {
		t.Fatalf("IndexOf=%d, want 2", got)
	}
	if seq.Contains(DayOf(2025, time.March, 4)) {
		t.Fatalf("unexpected Contains")
	}
}

func TestNewDay_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("X", 5*3600)
	a := NewDay(time.Date(2025, 6, 1, 23, 59, 0, 0, loc))
	b := DayOf(2025, time.June, 1)
	if a != b {
		t.Fatalf("%s != %s", a, b)
	}
	if got := a.Format("02/01/2006"); got != "01/06/2025" {
		t.Fatalf("Format=%q", got)
	}
}

func TestDemandAdd_Validation(t *testing.T) {
	tests := []struct {
		name     string
		module   string
		sessions int
		wantErr  error
	}{
		{"ok", " M1 ", 2, nil},
		{"empty name", "   ", 2, ErrInvalidModule},
		{"zero sessions", "M1", 0, ErrMalformedDemand},
		{"negative sessions", "M1", -3, ErrMalformedDemand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDemand(TrackA)
			err := d.Add(tt.module, tt.sessions)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err=%v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && d.Modules[0].Name != "M1" {
				t.Fatalf("name not trimmed: %q", d.Modules[0].Name)
			}
		})
	}
}

func TestPinnedAssignment_OrderAndSortedDays(t *testing.T) {
	p := NewPinnedAssignment()
	mustAdd := func(name string, d Day) {
		t.Helper()
		if err := p.Add(name, d); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	mustAdd("Y", DayOf(2025, 1, 9))
	mustAdd("X", DayOf(2025, 1, 5))
	mustAdd("Y", DayOf(2025, 1, 2))
	mustAdd("Y", DayOf(2025, 1, 7))

	names := p.Names()
	if len(names) != 2 || names[0] != "Y" || names[1] != "X" {
		t.Fatalf("Names=%v", names)
	}
	days := p.Days("Y")
	if days[0] != DayOf(2025, 1, 2) || days[1] != DayOf(2025, 1, 7) || days[2] != DayOf(2025, 1, 9) {
		t.Fatalf("days not sorted: %v", days)
	}

	r, err := p.Reordered([]string{"X", "Y"})
	if err != nil {
		t.Fatalf("Reordered: %v", err)
	}
	if r.Names()[0] != "X" {
		t.Fatalf("Reordered names=%v", r.Names())
	}
	if _, err := p.Reordered([]string{"X", "X"}); err == nil {
		t.Fatalf("expected duplicate error")
	}
	if err := p.Add(" ", DayOf(2025, 1, 1)); !errors.Is(err, ErrInvalidModule) {
		t.Fatalf("err=%v", err)
	}
}

func TestOccupant_ZeroValueIsFree(t *testing.T) {
	var o Occupant
	if !o.IsFree() || o != Free {
		t.Fatalf("zero value must be Free")
	}
	if got := o.Label("Libre"); got != "Libre" {
		t.Fatalf("Label=%q", got)
	}
	m := Occupied("M1")
	if name, ok := m.Module(); !ok || name != "M1" {
		t.Fatalf("Module()=%q,%v", name, ok)
	}
}

func TestTrack_JSON(t *testing.T) {
	data, err := json.Marshal(Shortfall{Module: "M2", Track: TrackB, Missing: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"module":"M2","track":"B","missing":1}` {
		t.Fatalf("json=%s", data)
	}
	var s Shortfall
	if err := json.Unmarshal(data, &s); err != nil || s.Track != TrackB {
		t.Fatalf("unmarshal: %v %+v", err, s)
	}
}
