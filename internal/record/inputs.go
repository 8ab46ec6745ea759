package record

// Inputs owns the scalar-input map and the single raw input distribution
// (a camera image or a particle ensemble).
type Inputs struct {
	// Scalars maps input name to its normalized value. Keys are unique;
	// re-adding a name overwrites the previous entry.
	Scalars map[string]SingleInput

	// Distribution is an Image or a Distribution datum, or nil while
	// building. Scalars are not accepted here.
	Distribution Datum

	// DistributionAttrs carries free-form attributes for the input
	// distribution. Images require a "pixel_calibration" entry.
	DistributionAttrs map[string]any
}

func newInputs() Inputs {
	return Inputs{
		Scalars:           map[string]SingleInput{},
		DistributionAttrs: map[string]any{},
	}
}

// addScalars validates every spec before inserting any of them, so a
// failing batch leaves the map untouched.
func (in *Inputs) addScalars(specs []ScalarInputSpec) error {
	built := make([]SingleInput, 0, len(specs))
	for _, spec := range specs {
		si, err := NewSingleInput(spec)
		if err != nil {
			return err
		}
		built = append(built, si)
	}
	for _, si := range built {
		in.Scalars[si.Name] = si
	}
	return nil
}

// setDistribution stores the input distribution after detecting its kind
// from the payload type.
func (in *Inputs) setDistribution(dist Datum, attrs map[string]any) error {
	if attrs == nil {
		attrs = map[string]any{}
	}
	saved, savedAttrs := in.Distribution, in.DistributionAttrs
	in.Distribution, in.DistributionAttrs = dist, attrs
	if err := in.checkDistribution(true); err != nil {
		in.Distribution, in.DistributionAttrs = saved, savedAttrs
		return err
	}
	return nil
}

// check validates the whole Inputs sub-object. In allow-blank mode an
// entirely unset Inputs passes.
func (in *Inputs) check(allowBlank bool) error {
	if err := in.checkDistribution(allowBlank); err != nil {
		return err
	}
	return nil
}

func (in *Inputs) checkDistribution(allowBlank bool) error {
	if in.Distribution == nil {
		if allowBlank && len(in.DistributionAttrs) == 0 {
			return nil
		}
		if allowBlank {
			return newMissingFieldError("inputs", "input_distribution",
				"input_distribution_attrs set without an input distribution")
		}
		return newMissingFieldError("inputs", "input_distribution",
			"input distribution must be set")
	}

	switch dist := in.Distribution.(type) {
	case Image:
		if !dist.rectangular() {
			return newShapeError("inputs", "input_distribution",
				"image input distribution must be a rectangular 2-D array")
		}
		if _, ok := in.DistributionAttrs["pixel_calibration"]; !ok {
			return newMissingFieldError("inputs", "input_distribution_attrs",
				`image input distribution requires a "pixel_calibration" attribute`)
		}
	case Distribution:
		if dist.Particles == nil {
			return newShapeError("inputs", "input_distribution",
				"particle input distribution has no particles")
		}
		if err := dist.Particles.Validate(); err != nil {
			return newShapeError("inputs", "input_distribution", err.Error())
		}
	default:
		return newUnsupportedTypeError("inputs", "input_distribution",
			"input distribution must be a 2-D image or a particle ensemble")
	}
	return nil
}
