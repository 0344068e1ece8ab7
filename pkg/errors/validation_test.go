package errors

import (
	"math"
	"testing"
)

func TestRequireLength(t *testing.T) {
	tests := []struct {
		name    string
		got     int
		want    int
		wantErr bool
	}{
		{"equal", 4, 4, false},
		{"short", 3, 4, true},
		{"long", 5, 4, true},
		{"zero", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireLength("bounds", tt.got, tt.want)
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireLength(%d, %d) error = %v, wantErr %v", tt.got, tt.want, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestRequireMinLength(t *testing.T) {
	if err := RequireMinLength("edges", 2, 1); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := RequireMinLength("edges", 0, 1); err == nil {
		t.Error("expected error for too few values")
	}
}

func TestRequireFinite(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{"finite", []float64{0, -1, 2.5}, false},
		{"empty", nil, false},
		{"nan", []float64{1, math.NaN()}, true},
		{"inf", []float64{math.Inf(1)}, true},
		{"negative inf", []float64{math.Inf(-1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireFinite("x", tt.values...)
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireFinite(%v) error = %v, wantErr %v", tt.values, err, tt.wantErr)
			}
		})
	}
}

func TestRequirePositive(t *testing.T) {
	tests := []struct {
		v       float64
		wantErr bool
	}{
		{1, false},
		{0.001, false},
		{0, true},
		{-1, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := RequirePositive("area", tt.v)
		if (err != nil) != tt.wantErr {
			t.Errorf("RequirePositive(%v) error = %v, wantErr %v", tt.v, err, tt.wantErr)
		}
	}
}

func TestRequireOneOf(t *testing.T) {
	if err := RequireOneOf("corner", "top", "top", "bottom"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := RequireOneOf("corner", "middle", "top", "bottom")
	if err == nil {
		t.Fatal("expected error")
	}
	want := `corner: expected one of 'top', 'bottom', received "middle"`
	if got := UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "graph.json", false},
		{"valid nested", "layouts/tree.layout.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../secret.json", true},
		{"backslash", "a\\b.json", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
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
