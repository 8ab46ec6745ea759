package record

import (
	"strconv"

	"github.com/ericcropp/Data-Sharing/internal/ensemble"
)

// DatumType tags the three recognized observable payload kinds.
type DatumType string

const (
	DatumScalar       DatumType = "scalar"
	DatumImage        DatumType = "image"
	DatumDistribution DatumType = "distribution"
)

// valid reports whether t is one of the recognized datum types.
func (t DatumType) valid() bool {
	switch t {
	case DatumScalar, DatumImage, DatumDistribution:
		return true
	}
	return false
}

// Datum is a sealed interface over observable payloads. Only Scalar,
// Image, and Distribution implement it; dispatch is a type switch, never
// runtime shape inspection.
type Datum interface {
	datum()
}

// Scalar is a single numeric observable value.
type Scalar float64

func (Scalar) datum() {}

// Image is a rectangular 2-D array, row-major.
type Image [][]float64

func (Image) datum() {}

// rectangular reports whether the image is 2-D with equal-length,
// non-empty rows.
func (img Image) rectangular() bool {
	if len(img) == 0 || len(img[0]) == 0 {
		return false
	}
	for _, row := range img {
		if len(row) != len(img[0]) {
			return false
		}
	}
	return true
}

// Distribution is a particle-ensemble observable payload.
type Distribution struct {
	Particles *ensemble.ParticleGroup
}

func (Distribution) datum() {}

// Location tags a value with a beamline position: either a device name or
// a numeric coordinate.
type Location struct {
	name    string
	coord   float64
	numeric bool
}

// LocName builds a named location (e.g. "PROF:IN10:571").
func LocName(name string) Location { return Location{name: name} }

// LocCoord builds a numeric location (e.g. a z position in meters).
func LocCoord(coord float64) Location { return Location{coord: coord, numeric: true} }

// IsNumeric reports whether the location is a numeric coordinate.
func (l Location) IsNumeric() bool { return l.numeric }

// Name returns the device name of a named location ("" for numeric ones).
func (l Location) Name() string { return l.name }

// Coord returns the coordinate of a numeric location (0 for named ones).
func (l Location) Coord() float64 { return l.coord }

// IsZero reports whether the location is entirely unset.
func (l Location) IsZero() bool { return !l.numeric && l.name == "" }

// String renders the location for display and serialization.
func (l Location) String() string {
	if l.numeric {
		return strconv.FormatFloat(l.coord, 'g', -1, 64)
	}
	return l.name
}
