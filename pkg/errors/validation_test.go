package errors

import (
	"math"
	"testing"
)

func TestValidateDimension(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 1920, false},
		{"fraction", 0.5, false},
		{"zero", 0, true},
		{"negative", -10, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimension("slideWidth", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSettings) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidSettings)
			}
		})
	}
}

func TestValidateUnit(t *testing.T) {
	for _, v := range []float64{0, 0.3, 1} {
		if err := ValidateUnit("alpha", v); err != nil {
			t.Errorf("ValidateUnit(%v) = %v", v, err)
		}
	}
	for _, v := range []float64{-0.1, 1.01, math.NaN()} {
		if err := ValidateUnit("alpha", v); err == nil {
			t.Errorf("ValidateUnit(%v) = nil, want error", v)
		}
	}
}

func TestValidateOneOf(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty uses default", "", false},
		{"allowed", "split", false},
		{"unknown", "grid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOneOf("layoutStyle", tt.input, "mixed", "card", "split", "classic")
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOneOf(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "assets/logo.png", false},
		{"absolute", "/tmp/logo.png", false},
		{"empty", "", true},
		{"null byte", "logo\x00.png", true},
		{"newline", "logo\n.png", true},
		{"too long", string(make([]byte, 2000)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.com/article", false},
		{"http://example.com", false},
		{"", true},
		{"ftp://example.com", true},
		{"javascript:alert(1)", true},
	}
	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
