package util

import "testing"

func TestBrowserCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		name string
	}{
		{"windows", "rundll32"},
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		name, args := browserCommand(tt.goos, "http://localhost:20262")
		if name != tt.name {
			t.Fatalf("%s: name=%s, want %s", tt.goos, name, tt.name)
		}
		if args[len(args)-1] != "http://localhost:20262" {
			t.Fatalf("%s: args=%v", tt.goos, args)
		}
	}
}
