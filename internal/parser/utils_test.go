package parser

import (
	"testing"
	"time"

	"github.com/Sev3364/Planning-app/internal/model"
)

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Jour", "jour"},
		{" Nb Seances ", "nbseances"},
		{"\ufeffModule", "module"},
		{"NbSeances\t", "nbseances"},
		{"Nb Seances", "nbseances"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Fatalf("NormalizeHeader(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
	if !MatchHeader("Required Sessions", []string{"nbseances", "requiredsessions"}) {
		t.Fatalf("alias should match")
	}
}

func TestSniffDelimiter(t *testing.T) {
	t.Parallel()

	if got := SniffDelimiter("Module;NbSeances"); got != ';' {
		t.Fatalf("got %q", got)
	}
	if got := SniffDelimiter("Module,NbSeances"); got != ',' {
		t.Fatalf("got %q", got)
	}
	if got := SniffDelimiter("Jour"); got != ',' {
		t.Fatalf("single column should default to comma, got %q", got)
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	layouts := []string{"2/1/2006", "2006-01-02"}
	want := model.DayOf(2025, time.September, 3)

	for _, in := range []string{"03/09/2025", "3/9/2025", " 2025-09-03 "} {
		got, err := ParseDay(in, layouts)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDay(%q)=%s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"", "31/02/2025", "demain", "-4", "45903", "12"} {
		if _, err := ParseDay(in, layouts); err == nil {
			t.Fatalf("ParseDay(%q) should fail", in)
		}
	}

	if got := FormatDay(want, "02/01/2006"); got != "03/09/2025" {
		t.Fatalf("FormatDay=%q", got)
	}
}

func TestParseSheetDay_AcceptsSerial(t *testing.T) {
	t.Parallel()

	layouts := []string{"2/1/2006", "2006-01-02"}
	want := model.DayOf(2025, time.September, 3)

	for _, in := range []string{"03/09/2025", "45903"} {
		got, err := ParseSheetDay(in, layouts)
		if err != nil {
			t.Fatalf("ParseSheetDay(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseSheetDay(%q)=%s, want %s", in, got, want)
		}
	}
	for _, in := range []string{"demain", "-4", ""} {
		if _, err := ParseSheetDay(in, layouts); err == nil {
			t.Fatalf("ParseSheetDay(%q) should fail", in)
		}
	}

	csv := &Table{Source: "jours.csv"}
	if _, err := csv.ParseCellDay("45903", layouts); err == nil {
		t.Fatal("csv table should reject serial dates")
	}
	sheet := &Table{Source: "jours.xlsx#Sheet1", Sheet: "Sheet1"}
	if got, err := sheet.ParseCellDay("45903", layouts); err != nil || got != want {
		t.Fatalf("sheet table: got=%s err=%v", got, err)
	}
}
