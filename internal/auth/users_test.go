package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseUsers(t *testing.T) {
	users, err := ParseUsers([]byte(`{"alice": "s3cret", "bob": "hunter2"}`))
	if err != nil {
		t.Fatalf("ParseUsers: %v", err)
	}

	tests := []struct {
		user, pass string
		want       bool
	}{
		{"alice", "s3cret", true},
		{"bob", "hunter2", true},
		{"alice", "hunter2", false},
		{"alice", "", false},
		{"carol", "s3cret", false},
	}
	for _, tc := range tests {
		if got := users.Check(tc.user, tc.pass); got != tc.want {
			t.Errorf("Check(%q, %q) = %v, want %v", tc.user, tc.pass, got, tc.want)
		}
	}

	if names := users.Names(); len(names) != 2 || names[0] != "alice" {
		t.Errorf("Names: got %v", names)
	}
}

func TestParseUsersInvalid(t *testing.T) {
	for _, in := range []string{`not json`, `["alice"]`, `{"alice": 42}`, `{"alice": null}`} {
		if _, err := ParseUsers([]byte(in)); !errors.Is(err, ErrInvalidUsersFile) {
			t.Errorf("ParseUsers(%s): got %v, want ErrInvalidUsersFile", in, err)
		}
	}
}

func TestLoadUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(`{"admin": "admin"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	users, err := LoadUsers(path)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if !users.Check("admin", "admin") {
		t.Error("admin should log in")
	}

	if _, err := LoadUsers(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
