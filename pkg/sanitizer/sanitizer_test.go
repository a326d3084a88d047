package sanitizer

import (
	"testing"

	"tdms/pkg/model"
)

func TestTrimAndCollapse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Filipino", "Filipino"},
		{"surrounding whitespace", "  Filipino  ", "Filipino"},
		{"internal runs", "Sri   Lankan", "Sri Lankan"},
		{"tabs and newlines", "Sri\t\nLankan", "Sri Lankan"},
		{"control characters", "Fili\x00pino", "Filipino"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndCollapse(tt.input); got != tt.want {
				t.Errorf("TrimAndCollapse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeGuests(t *testing.T) {
	guests := []model.Guest{
		{Gender: " MALE ", Age: 30, Status: "Single ", Nationality: "  Filipino"},
	}

	SanitizeGuests(guests)

	if guests[0].Gender != "male" {
		t.Errorf("expected gender 'male', got %q", guests[0].Gender)
	}
	if guests[0].Status != "single" {
		t.Errorf("expected status 'single', got %q", guests[0].Status)
	}
	if guests[0].Nationality != "Filipino" {
		t.Errorf("expected nationality 'Filipino', got %q", guests[0].Nationality)
	}
}
