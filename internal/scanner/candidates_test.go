package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadCandidates(t *testing.T) {
	input := "# staging hosts\nstaging.example.com\n\n  api.example.com  \n#api.old.example.com\n"

	names, err := ReadCandidates(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"staging.example.com", "api.example.com"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], names[i])
		}
	}
}

func TestDedupe(t *testing.T) {
	got := Dedupe([]string{"Shop.Example.com.", "api.example.com", "shop.example.com", "  ", "https://api.example.com/login"})
	want := []string{"shop.example.com", "api.example.com"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.txt")

	if err := os.WriteFile(path, []byte("b.example.com\na.example.com\nB.example.com\n"), 0o600); err != nil {
		t.Fatalf("failed to write candidates: %v", err)
	}

	names, err := LoadCandidates(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(names) != 2 || names[0] != "b.example.com" || names[1] != "a.example.com" {
		t.Errorf("unexpected candidates %v", names)
	}

	fromStdin, err := LoadCandidates("-", strings.NewReader("c.example.com\n"))
	if err != nil {
		t.Fatalf("unexpected error reading stdin: %v", err)
	}

	if len(fromStdin) != 1 || fromStdin[0] != "c.example.com" {
		t.Errorf("unexpected stdin candidates %v", fromStdin)
	}
}

func TestLoadCandidatesErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")

	if err := os.WriteFile(empty, []byte("# nothing here\n\n"), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := LoadCandidates(empty, nil); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}

	if _, err := LoadCandidates(filepath.Join(dir, "missing.txt"), nil); !errors.Is(err, ErrReadCandidates) {
		t.Errorf("expected ErrReadCandidates, got %v", err)
	}
}

func TestValidateWordlist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.txt")

	if err := os.WriteFile(path, []byte("www\napi\n"), 0o600); err != nil {
		t.Fatalf("failed to write wordlist: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "unset", path: ""},
		{name: "readable", path: path},
		{name: "missing", path: filepath.Join(dir, "nope.txt"), wantErr: true},
		{name: "directory", path: dir, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWordlist(tc.path)
			if tc.wantErr && !errors.Is(err, ErrUnreadableWordlist) {
				t.Errorf("expected ErrUnreadableWordlist, got %v", err)
			}

			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
