package record

import (
	"math"
	"strconv"

	"github.com/ericcropp/Data-Sharing/internal/units"
)

// SingleInput is one unit-normalized scalar setting. Created once via
// NewSingleInput and immutable afterwards.
type SingleInput struct {
	Name string

	// Value is the normalized value: RawValue times the unit multiplier.
	Value float64

	// RawValue is the value as read from the instrument, before unit
	// normalization. It does not participate in identity derivation.
	RawValue float64

	Location Location

	// Units is the canonical unit symbol, or the original token verbatim
	// for custom units. RawUnits always keeps the original token.
	Units    string
	RawUnits string

	Description string
}

// ScalarInputSpec describes one scalar input prior to validation and unit
// normalization.
type ScalarInputSpec struct {
	Name string

	// Value may be any numeric type or a numeric string. A value that
	// cannot be coerced to a float is stored as NaN rather than rejected,
	// tolerating sentinel and missing instrument readings.
	Value any

	Location    Location
	Units       string
	Description string
}

// NewSingleInput validates and normalizes one scalar input. Name, value,
// units, and location must all be set.
func NewSingleInput(spec ScalarInputSpec) (SingleInput, error) {
	switch {
	case spec.Name == "":
		return SingleInput{}, newMissingFieldError("inputs", "name", "scalar input name must not be blank")
	case spec.Value == nil:
		return SingleInput{}, newMissingFieldError("inputs", "value", "scalar input value must not be blank")
	case spec.Units == "":
		return SingleInput{}, newMissingFieldError("inputs", "units", "scalar input units must not be blank")
	case spec.Location.IsZero():
		return SingleInput{}, newMissingFieldError("inputs", "location", "scalar input location must not be blank")
	}

	res := units.Resolve(spec.Units)
	raw, ok := coerceFloat(spec.Value)
	if !ok {
		// Non-fatal coercion failure: degrade to NaN.
		raw = math.NaN()
	}
	return SingleInput{
		Name:        spec.Name,
		Value:       raw * res.Multiplier,
		RawValue:    raw,
		Location:    spec.Location,
		Units:       res.Symbol,
		RawUnits:    spec.Units,
		Description: spec.Description,
	}, nil
}

// coerceFloat converts the numeric types and numeric strings that appear
// in instrument logs.
func coerceFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
