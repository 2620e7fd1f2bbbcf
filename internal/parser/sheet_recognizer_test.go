package parser

import "testing"

func TestSheetRecognizer_Recognize(t *testing.T) {
	t.Parallel()

	r := NewSheetRecognizer()
	tests := []struct {
		sheet   string
		headers []string
		role    SheetRole
		track   string
	}{
		{"jours", []string{"Jour"}, SheetRoleDays, ""},
		{"Calendrier", []string{"Date", "Commentaire"}, SheetRoleDays, ""},
		{"modules_A", []string{"Module", "NbSeances"}, SheetRoleDemand, "A"},
		{"Modules B", []string{"module", "Nb Seances"}, SheetRoleDemand, "B"},
		{"Demanda", []string{"Module", "Sessions"}, SheetRoleDemand, ""},
		{"liens", []string{"Module", "Jour"}, SheetRolePinned, ""},
		{"Notes", []string{"Texte"}, SheetRoleUnknown, ""},
	}

	for _, tt := range tests {
		got := r.Recognize(tt.sheet, tt.headers)
		if got.Role != tt.role || got.Track != tt.track {
			t.Fatalf("%s: got role=%s track=%q, want role=%s track=%q", tt.sheet, got.Role, got.Track, tt.role, tt.track)
		}
	}
}
