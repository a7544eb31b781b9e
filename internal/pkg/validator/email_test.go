package validator

import (
	"strings"
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a@x.com", "a@x.com", false},
		{"  Bob@Example.COM ", "Bob@example.com", false},
		{"no-at-sign", "", true},
		{"a@localhost", "", true},
		{"Alice <a@x.com>", "", true},
		{"@x.com", "", true},
		{"a@x.com.", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeEmail(%q) expected error, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEmail(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword(""); err != ErrPasswordRequired {
		t.Errorf("empty password: got %v", err)
	}
	if err := ValidatePassword(strings.Repeat("a", 73)); err != ErrPasswordTooLong {
		t.Errorf("long password: got %v", err)
	}
	if err := ValidatePassword("p"); err != nil {
		t.Errorf("short password: got %v", err)
	}
}

func TestValidateOrganizationName(t *testing.T) {
	if err := ValidateOrganizationName("  "); err != ErrOrgNameRequired {
		t.Errorf("blank name: got %v", err)
	}
	if err := ValidateOrganizationName("Acme"); err != nil {
		t.Errorf("Acme: %v", err)
	}
}
