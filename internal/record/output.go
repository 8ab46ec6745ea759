package record

import (
	"fmt"

	"github.com/ericcropp/Data-Sharing/internal/units"
)

// SingleOutput is one recorded observable: a named datum (or ordered
// series of data) tied to one or more beamline locations.
type SingleOutput struct {
	Name string
	Type DatumType

	// Locations holds one element for single-valued outputs. When Multi
	// is set it is an ordered sequence, index-aligned with Data.
	Locations []Location
	Multi     bool

	// Data holds one datum per location. Every element's variant must
	// match Type.
	Data []Datum

	// Units is the canonical unit symbol (scalar outputs are stored
	// pre-multiplied into it); RawUnits keeps the original token.
	Units    string
	RawUnits string

	// Attrs is an open string-keyed attribute map (e.g.
	// "pixel_calibration" for screen images).
	Attrs map[string]any
}

// OutputSpec describes one observable prior to validation. Exactly one of
// Location and Locations must be set; Data must hold one datum per
// location (a single element for Location).
type OutputSpec struct {
	Name      string
	Type      DatumType
	Location  Location
	Locations []Location
	Data      []Datum

	// Units is required for scalar outputs and applied as a multiplier
	// exactly once, at construction.
	Units string
	Attrs map[string]any
}

// NewSingleOutput validates spec and normalizes scalar units.
func NewSingleOutput(spec OutputSpec) (SingleOutput, error) {
	if spec.Name == "" {
		return SingleOutput{}, newMissingFieldError("outputs", "datum_name",
			"output datum name must not be blank")
	}
	if !spec.Type.valid() {
		return SingleOutput{}, newUnsupportedTypeError("outputs", "datum_type",
			fmt.Sprintf("datum type must be one of scalar, image, distribution; got %q", spec.Type))
	}

	multi := spec.Locations != nil
	locations := spec.Locations
	if multi && !spec.Location.IsZero() {
		return SingleOutput{}, newShapeError("outputs", "location",
			"set either a single location or a location sequence, not both")
	}
	if !multi {
		if spec.Location.IsZero() {
			return SingleOutput{}, newMissingFieldError("outputs", "location",
				"output location must not be blank")
		}
		locations = []Location{spec.Location}
	}

	if spec.Type == DatumScalar && spec.Units == "" {
		return SingleOutput{}, newMissingFieldError("outputs", "units",
			"units must be provided for scalar outputs")
	}

	res := units.Resolve(spec.Units)
	data := make([]Datum, len(spec.Data))
	copy(data, spec.Data)
	if spec.Type == DatumScalar {
		for i, d := range data {
			if s, ok := d.(Scalar); ok {
				data[i] = Scalar(float64(s) * res.Multiplier)
			}
		}
	}

	attrs := spec.Attrs
	if attrs == nil {
		attrs = map[string]any{}
	}
	out := SingleOutput{
		Name:      spec.Name,
		Type:      spec.Type,
		Locations: locations,
		Multi:     multi,
		Data:      data,
		Units:     res.Symbol,
		RawUnits:  spec.Units,
		Attrs:     attrs,
	}
	if err := out.checkShape(); err != nil {
		return SingleOutput{}, err
	}
	return out, nil
}

// checkShape enforces the location/datum cardinality and per-variant shape
// rules. It runs at construction and again during strict validation, so
// payloads mutated after insertion are still caught at finalize time.
func (o *SingleOutput) checkShape() error {
	if len(o.Locations) == 0 {
		return newMissingFieldError("outputs", "location",
			fmt.Sprintf("output %q has no locations", o.Name))
	}
	if len(o.Data) != len(o.Locations) {
		return newShapeError("outputs", "datum",
			fmt.Sprintf("output %q: %d data for %d locations", o.Name, len(o.Data), len(o.Locations)))
	}
	for i, d := range o.Data {
		if err := o.checkDatum(i, d); err != nil {
			return err
		}
	}
	return nil
}

func (o *SingleOutput) checkDatum(i int, d Datum) error {
	switch o.Type {
	case DatumScalar:
		if _, ok := d.(Scalar); !ok {
			return newShapeError("outputs", "datum",
				fmt.Sprintf("output %q: datum %d must be a scalar", o.Name, i))
		}
	case DatumImage:
		img, ok := d.(Image)
		if !ok {
			return newShapeError("outputs", "datum",
				fmt.Sprintf("output %q: datum %d must be a 2-D image", o.Name, i))
		}
		if !img.rectangular() {
			return newShapeError("outputs", "datum",
				fmt.Sprintf("output %q: datum %d is not a rectangular 2-D image", o.Name, i))
		}
	case DatumDistribution:
		dist, ok := d.(Distribution)
		if !ok {
			return newShapeError("outputs", "datum",
				fmt.Sprintf("output %q: datum %d must be a particle ensemble", o.Name, i))
		}
		if dist.Particles == nil {
			return newShapeError("outputs", "datum",
				fmt.Sprintf("output %q: datum %d has no particles", o.Name, i))
		}
		if err := dist.Particles.Validate(); err != nil {
			return newShapeError("outputs", "datum",
				fmt.Sprintf("output %q: datum %d: %v", o.Name, i, err))
		}
	default:
		return newUnsupportedTypeError("outputs", "datum_type",
			fmt.Sprintf("output %q has unrecognized datum type %q", o.Name, o.Type))
	}
	return nil
}
