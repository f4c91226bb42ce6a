package circuit

import (
	"errors"
	"math"
	"testing"
)

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"1.5707", 1.5707, true},
		{"-0.5", -0.5, true},
		{"3.14e-2", 0.0314, true},
		{"pi", math.Pi, true},
		{"PI", math.Pi, true},
		{"π", math.Pi, true},
		{"pi/2", math.Pi / 2, true},
		{"π/4", math.Pi / 4, true},
		{"2pi", 2 * math.Pi, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"3pi/4", 3 * math.Pi / 4, true},
		{"0.5pi", math.Pi / 2, true},
		{"-pi/2", -math.Pi / 2, true},
		{" pi / 3 ", math.Pi / 3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"pi/0", 0, false},
		{"pi/", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseAngle(tt.input)
		if (err == nil) != tt.ok {
			t.Errorf("ParseAngle(%q): err=%v, want ok=%v", tt.input, err, tt.ok)
			continue
		}
		if tt.ok && math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("ParseAngle(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}
}

func TestParseRotationRange(t *testing.T) {
	for _, in := range []string{"0", "2*pi", "-pi/2", "7"} {
		if _, err := ParseRotation(in); !errors.Is(err, ErrAngleRange) {
			t.Errorf("ParseRotation(%q) err = %v, want ErrAngleRange", in, err)
		}
	}
	if got, err := ParseRotation("3*pi/2"); err != nil || math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Errorf("ParseRotation(3*pi/2) = %g, %v", got, err)
	}
}

func TestFormatAngle(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "pi"},
		{math.Pi / 2, "pi/2"},
		{math.Pi / 4, "pi/4"},
		{math.Pi / 3, "pi/3"},
		{math.Pi / 8, "pi/8"},
		{3 * math.Pi / 4, "3*pi/4"},
		{5 * math.Pi / 6, "5*pi/6"},
		{-math.Pi, "-pi"},
		{-math.Pi / 2, "-pi/2"},
		{2 * math.Pi, "2*pi"},
		{1.5, "1.5"},
		{0, "0"},
		{0.01, "0.01"},
		// Close to pi/2 but not equal: exported as typed.
		{1.5712, "1.5712"},
		{1.5707, "1.5707"},
	}

	for _, tt := range tests {
		if got := FormatAngle(tt.input); got != tt.want {
			t.Errorf("FormatAngle(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormatAngleRoundTrip(t *testing.T) {
	for _, s := range []string{"pi/2", "3*pi/4", "1.5712", "0.3", "5*pi/8"} {
		v, err := ParseRotation(s)
		if err != nil {
			t.Fatalf("ParseRotation(%q): %v", s, err)
		}
		back, err := ParseAngle(FormatAngle(v))
		if err != nil {
			t.Fatalf("ParseAngle(FormatAngle(%q)): %v", s, err)
		}
		if math.Abs(back-v) > 1e-12 {
			t.Errorf("%q: exported angle %g differs from %g", s, back, v)
		}
	}
}

func TestAngleLabel(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{math.Pi, "π"},
		{math.Pi / 2, "π/2"},
		{3 * math.Pi / 2, "3π/2"},
		{math.Pi * 0.37, "0.37π"},
		{1.5712, "π/2"},
	}

	for _, tt := range tests {
		if got := AngleLabel(tt.input); got != tt.want {
			t.Errorf("AngleLabel(%g) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
