package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "p1", false},
		{"valid uuid", "0b7a1c52-54c5-4f32-9d5b-0c1f1f0b4a11", false},
		{"valid with spaces inside", "spring open", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 129), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
		{"leading space", " p1", true},
		{"trailing space", "p1 ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID("player", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateURI(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		schemes []string
		wantErr bool
	}{
		{"mongo", "mongodb://localhost:27017", []string{"mongodb", "mongodb+srv"}, false},
		{"mongo srv", "mongodb+srv://cluster.example.net", []string{"mongodb", "mongodb+srv"}, false},
		{"redis", "redis://localhost:6379/0", []string{"redis", "rediss"}, false},

		{"empty", "", []string{"redis"}, true},
		{"wrong scheme", "http://localhost", []string{"redis"}, true},
		{"no scheme", "localhost:6379", []string{"redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURI(tt.input, tt.schemes...)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURI(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidSnapshot,
		ErrCodeInvalidRound,
		ErrCodeInvalidSystem,
		ErrCodeInvalidFormat,
		ErrCodeNoValidPairing,
		ErrCodeInvariant,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
