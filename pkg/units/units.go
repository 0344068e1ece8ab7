// Package units converts dimension specifications into CSS pixels.
//
// A dimension is a [Length]: a number plus an optional unit. Plain numbers
// are pixels. Percentages are resolved against a reference length supplied
// by the caller (typically the width or height of a parent region).
//
//	l, _ := units.Parse("25%")
//	px, _ := units.Default.Convert(l, 800) // 200
//
// Supported units: px, %, pt, in, cm, mm. Absolute units use the CSS
// reference of 96 pixels per inch.
//
// Conversion is exposed through the [Converter] interface so that callers
// (the region resolver in particular) can substitute their own unit logic.
package units

import (
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

// Unit names.
const (
	Pixel      = "px"
	Percentage = "%"
	Point      = "pt"
	Inch       = "in"
	Centimeter = "cm"
	Millimeter = "mm"
)

// pixelsPer maps absolute units to their size in CSS pixels.
var pixelsPer = map[string]float64{
	Pixel:      1,
	Point:      96.0 / 72.0,
	Inch:       96,
	Centimeter: 96 / 2.54,
	Millimeter: 96 / 25.4,
}

// NoReference is passed as the reference length when none applies.
// Converting a percentage without a reference is an error.
var NoReference = math.NaN()

// Length is a dimension value with a unit. The zero value is 0px.
type Length struct {
	Value float64
	Unit  string // Empty means px
}

// Px returns a pixel length.
func Px(v float64) Length { return Length{Value: v, Unit: Pixel} }

// Percent returns a percentage length (50 means half the reference).
func Percent(v float64) Length { return Length{Value: v, Unit: Percentage} }

// Parse parses a dimension such as "12", "-10px", "50%", "1.5in" or "2 cm".
func Parse(s string) (Length, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return Length{}, errors.New(errors.ErrCodeInvalidUnit, "empty dimension")
	}

	unit := ""
	for _, u := range []string{Percentage, Pixel, Point, Inch, Centimeter, Millimeter} {
		if strings.HasSuffix(strings.ToLower(text), u) {
			unit = u
			text = strings.TrimSpace(text[:len(text)-len(u)])
			break
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Length{}, errors.Wrap(errors.ErrCodeInvalidUnit, err, "invalid dimension %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, errors.New(errors.ErrCodeInvalidUnit, "dimension %q is not finite", s)
	}
	if unit == "" {
		unit = Pixel
	}
	return Length{Value: v, Unit: unit}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Length {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// String formats the length in the syntax accepted by Parse.
func (l Length) String() string {
	unit := l.Unit
	if unit == "" {
		unit = Pixel
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64) + unit
}

// IsZero reports whether the length is exactly zero, in any unit.
func (l Length) IsZero() bool { return l.Value == 0 }

// MarshalText implements encoding.TextMarshaler.
func (l Length) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Length) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalJSON accepts both bare numbers (pixels) and strings.
func (l *Length) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return l.UnmarshalText([]byte(s))
}

// UnmarshalYAML accepts both bare numbers (pixels) and strings.
func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New(errors.ErrCodeInvalidUnit, "dimension must be a scalar (line %d)", node.Line)
	}
	return l.UnmarshalText([]byte(node.Value))
}

// Converter resolves lengths into pixels.
type Converter interface {
	// Convert returns l in pixels. reference is the length that
	// percentages are relative to, or NoReference.
	Convert(l Length, reference float64) (float64, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(l Length, reference float64) (float64, error)

// Convert calls f.
func (f ConverterFunc) Convert(l Length, reference float64) (float64, error) { return f(l, reference) }

type defaultConverter struct{}

// Default is the standard CSS converter.
var Default Converter = defaultConverter{}

func (defaultConverter) Convert(l Length, reference float64) (float64, error) {
	unit := l.Unit
	if unit == "" {
		unit = Pixel
	}
	if unit == Percentage {
		if math.IsNaN(reference) {
			return 0, errors.New(errors.ErrCodeInvalidUnit, "percentage %s requires a reference length", l)
		}
		return l.Value * reference / 100, nil
	}
	scale, ok := pixelsPer[unit]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidUnit, "unknown unit %q", l.Unit)
	}
	return l.Value * scale, nil
}
