package circuit

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var ErrAngleRange = errors.New("angle must lie strictly between 0 and 2*pi")

// piExprRegex matches pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi/2, 0.5pi.
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseAngle reads a rotation angle in radians. Plain numbers and pi
// expressions are accepted ("1.57", "pi/2", "3*pi/4", "0.25π").
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty angle")
	}

	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, nil
	}

	expr := strings.ReplaceAll(strings.ToLower(s), "π", "pi")
	m := piExprRegex.FindStringSubmatch(expr)
	if m == nil {
		return 0, fmt.Errorf("invalid angle %q: use a number or a pi expression such as pi/2", s)
	}

	coeff := 1.0
	if m[2] != "" {
		var err error
		coeff, err = strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid angle coefficient %q: %w", m[2], err)
		}
	}

	val := coeff * math.Pi
	if m[3] != "" {
		denom, err := strconv.ParseFloat(m[3], 64)
		if err != nil || denom == 0 {
			return 0, fmt.Errorf("invalid angle denominator %q", m[3])
		}
		val /= denom
	}

	if m[1] == "-" {
		val = -val
	}
	return val, nil
}

// ParseRotation parses an angle and checks it lies in (0, 2*pi), the range
// the angle editor offers.
func ParseRotation(s string) (float64, error) {
	val, err := ParseAngle(s)
	if err != nil {
		return 0, err
	}
	if val <= 0 || val >= 2*math.Pi {
		return 0, fmt.Errorf("%s: %w", s, ErrAngleRange)
	}
	return val, nil
}

// Tolerances for recognising a pi fraction. Exported code must simulate
// the same angle it was built from, so it only snaps rounding noise; grid
// labels only need to be readable.
const (
	codeTolerance  = 1e-9
	labelTolerance = 1e-3
)

// FormatAngle renders radians as code, using a pi fraction with a
// denominator up to 8 when the angle is one up to float rounding
// ("pi/2", "3*pi/4"). Anything else is written as a plain number.
func FormatAngle(radians float64) string {
	num, den, ok := piFraction(radians, codeTolerance)
	if !ok {
		return strconv.FormatFloat(radians, 'g', -1, 64)
	}
	switch {
	case num == 0:
		return "0"
	case den == 1 && num == 1:
		return "pi"
	case den == 1 && num == -1:
		return "-pi"
	case den == 1:
		return fmt.Sprintf("%d*pi", num)
	case num == 1:
		return fmt.Sprintf("pi/%d", den)
	case num == -1:
		return fmt.Sprintf("-pi/%d", den)
	}
	return fmt.Sprintf("%d*pi/%d", num, den)
}

// AngleLabel renders radians for the grid ("π/2", "3π/4", "0.37π").
func AngleLabel(radians float64) string {
	num, den, ok := piFraction(radians, labelTolerance)
	if !ok {
		return fmt.Sprintf("%.2fπ", radians/math.Pi)
	}
	switch {
	case num == 0:
		return "0"
	case den == 1 && num == 1:
		return "π"
	case den == 1:
		return fmt.Sprintf("%dπ", num)
	case num == 1:
		return fmt.Sprintf("π/%d", den)
	}
	return fmt.Sprintf("%dπ/%d", num, den)
}

func piFraction(radians, tol float64) (num, den int, ok bool) {
	coef := radians / math.Pi
	bestErr := math.Inf(1)
	for d := 1; d <= 8; d++ {
		n := int(math.Round(coef * float64(d)))
		if e := math.Abs(float64(n)/float64(d) - coef); e < bestErr {
			bestErr, num, den = e, n, d
		}
	}
	return num, den, bestErr < tol
}
