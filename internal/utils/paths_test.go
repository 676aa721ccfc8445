package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/user")

	tests := []struct {
		in   string
		want string
	}{
		{"~/.config/recall/recall.db", filepath.Join("/home/user", ".config/recall/recall.db")},
		{"~", "/home/user"},
		{"/tmp/recall.db", "/tmp/recall.db"},
		{"relative/recall.json", "relative/recall.json"},
		{"~other/file", "~other/file"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsPostgresConnString(t *testing.T) {
	if !IsPostgresConnString("postgresql://user@localhost/recall") {
		t.Error("postgresql:// URL not recognised")
	}
	if !IsPostgresConnString("postgres://localhost/recall") {
		t.Error("postgres:// URL not recognised")
	}
	if IsPostgresConnString("/tmp/recall.db") {
		t.Error("file path treated as a connection string")
	}
}
