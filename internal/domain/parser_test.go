package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		wantName  string
		wantSub   string
		wantReg   string
		wantZone  string
		wantError bool
	}{
		{
			name:     "apex domain",
			input:    "example.com",
			wantName: "example.com",
			wantReg:  "example.com",
			wantZone: "example.com",
		},
		{
			name:     "subdomain",
			input:    "staging.example.com",
			wantName: "staging.example.com",
			wantSub:  "staging",
			wantReg:  "example.com",
			wantZone: "example.com",
		},
		{
			name:     "nested subdomain",
			input:    "api.staging.example.com",
			wantName: "api.staging.example.com",
			wantSub:  "api.staging",
			wantReg:  "example.com",
			wantZone: "staging.example.com",
		},
		{
			name:     "co.uk suffix",
			input:    "www.example.co.uk",
			wantName: "www.example.co.uk",
			wantSub:  "www",
			wantReg:  "example.co.uk",
			wantZone: "example.co.uk",
		},
		{
			name:     "url with port and path",
			input:    "https://Blog.Example.com:8443/path?q=1",
			wantName: "blog.example.com",
			wantSub:  "blog",
			wantReg:  "example.com",
			wantZone: "example.com",
		},
		{
			name:     "trailing dot and whitespace",
			input:    "  cdn.example.com.  ",
			wantName: "cdn.example.com",
			wantSub:  "cdn",
			wantReg:  "example.com",
			wantZone: "example.com",
		},
		{
			name:      "single label",
			input:     "localhost",
			wantError: true,
		},
		{
			name:      "invalid characters",
			input:     "bad!name.example.com",
			wantError: true,
		},
		{
			name:      "leading hyphen",
			input:     "-dev.example.com",
			wantError: true,
		},
		{
			name:      "empty",
			input:     "   ",
			wantError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := Parse(tc.input)
			if tc.wantError {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tc.input, info)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if info.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", info.Name, tc.wantName)
			}
			if info.Subdomain != tc.wantSub {
				t.Errorf("Subdomain = %q, want %q", info.Subdomain, tc.wantSub)
			}
			if info.Registrable != tc.wantReg {
				t.Errorf("Registrable = %q, want %q", info.Registrable, tc.wantReg)
			}
			if info.Zone != tc.wantZone {
				t.Errorf("Zone = %q, want %q", info.Zone, tc.wantZone)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	if err := Validate(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	long := ""
	for len(long) < 260 {
		long += "abcdefghi."
	}
	long += "com"

	if err := Validate(long); !errors.Is(err, ErrNameTooLong) {
		t.Errorf("expected ErrNameTooLong, got %v", err)
	}

	if err := Validate("under_score.example.com"); err != nil {
		t.Errorf("underscore labels should be accepted, got %v", err)
	}
}

func TestParents(t *testing.T) {
	got := Parents("a.b.example.com")
	want := []string{"b.example.com", "example.com"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parents = %v, want %v", got, want)
	}

	if got := Parents("example.com"); len(got) != 0 {
		t.Errorf("expected no parents for registrable domain, got %v", got)
	}
}
