package record

import "strings"

// State is the DataPoint lifecycle state.
type State int

const (
	// StateEmpty is a freshly constructed point with no content.
	StateEmpty State = iota
	// StateBuilding is a point under incremental population; sub-objects
	// may still be blank.
	StateBuilding
	// StateFinalized is a fully validated point with a derived ID and
	// computed summary. Content is immutable until the next Add* call,
	// which drops the derived state and returns to StateBuilding.
	StateFinalized
)

// String renders the state for diagnostics.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateBuilding:
		return "BUILDING"
	case StateFinalized:
		return "FINALIZED"
	default:
		return "UNKNOWN"
	}
}

// DataPoint is the aggregate root for one standardized measurement or
// simulation record. It exclusively owns all of its sub-objects.
//
// A DataPoint is not safe for concurrent mutation; independent points may
// be built in parallel by the caller.
type DataPoint struct {
	Inputs         Inputs
	Lattice        Lattice
	Outputs        Outputs
	Summary        Summary
	RunInformation RunInformation

	// SimMeta is nil for experimental records and set for simulated ones.
	SimMeta *SimulationMetadata

	id    string
	state State
}

// New creates an empty DataPoint in state EMPTY.
func New() *DataPoint {
	return &DataPoint{Inputs: newInputs()}
}

// ID returns the derived content hash. Empty until Finalize has run.
func (d *DataPoint) ID() string { return d.id }

// State returns the lifecycle state.
func (d *DataPoint) State() State { return d.state }

// touch moves the point into BUILDING, dropping any previously derived
// identity and summary. Every Add* call goes through here, so mutating a
// finalized point forces re-finalization before it can be serialized.
func (d *DataPoint) touch() {
	d.state = StateBuilding
	d.id = ""
	d.Summary.Computed = nil
	d.Summary.ComputedKeys = nil
}

// AddScalarInputs adds scalar inputs, normalizing units. The batch is
// validated before any entry is inserted; a name that already exists is
// overwritten.
func (d *DataPoint) AddScalarInputs(specs []ScalarInputSpec) error {
	if err := d.Inputs.addScalars(specs); err != nil {
		return err
	}
	d.touch()
	return nil
}

// AddInputDistribution sets the raw input distribution: an Image (which
// requires a "pixel_calibration" attribute) or a particle Distribution.
func (d *DataPoint) AddInputDistribution(dist Datum, attrs map[string]any) error {
	if err := d.Inputs.setDistribution(dist, attrs); err != nil {
		return err
	}
	d.touch()
	return nil
}

// AddLattice sets the lattice configuration.
func (d *DataPoint) AddLattice(location string, files map[string]string) error {
	if err := d.Lattice.set(location, files); err != nil {
		return err
	}
	d.touch()
	return nil
}

// AddOutput appends one observable.
func (d *DataPoint) AddOutput(spec OutputSpec) error {
	if err := d.Outputs.add(spec); err != nil {
		return err
	}
	d.touch()
	return nil
}

// AddSummary configures the summary keys and location selector.
func (d *DataPoint) AddSummary(keys []string, location Selector) error {
	if err := d.Summary.configure(keys, location); err != nil {
		return err
	}
	d.touch()
	return nil
}

// AddRunInformation sets the provenance record.
func (d *DataPoint) AddRunInformation(source, date, notes string) error {
	saved := d.RunInformation
	d.RunInformation = RunInformation{Source: source, Date: date, Notes: notes}
	if err := d.RunInformation.check(true); err != nil {
		d.RunInformation = saved
		return err
	}
	d.touch()
	return nil
}

// AddSimulationData marks the point as simulated and sets its metadata.
func (d *DataPoint) AddSimulationData(start, end, code, inputFile string) error {
	meta := &SimulationMetadata{Start: start, End: end, Code: code, InputFile: inputFile}
	if err := meta.check(true); err != nil {
		return err
	}
	d.SimMeta = meta
	d.touch()
	return nil
}

// Finalize derives the content-addressed ID, computes the summary, and
// strictly validates every sub-object. On failure the point keeps its
// previous derived state: the ID and summary are computed into temporaries
// and committed only after validation succeeds.
func (d *DataPoint) Finalize() error {
	id := deriveID(d.Inputs.Scalars, d.Lattice.Location)
	computed, order := d.computeSummary(id)

	if err := d.checkAll(); err != nil {
		return err
	}

	d.id = id
	d.Summary.Computed = computed
	d.Summary.ComputedKeys = order
	d.state = StateFinalized
	return nil
}

// checkAll strictly validates every sub-object, in a fixed order so the
// first failure is deterministic.
func (d *DataPoint) checkAll() error {
	if err := d.Inputs.check(false); err != nil {
		return err
	}
	if err := d.Lattice.check(false); err != nil {
		return err
	}
	if err := d.Outputs.check(); err != nil {
		return err
	}
	if err := d.RunInformation.check(false); err != nil {
		return err
	}
	if err := d.Summary.check(false); err != nil {
		return err
	}
	if d.SimMeta != nil {
		if err := d.SimMeta.check(false); err != nil {
			return err
		}
	}
	return nil
}

// computeSummary builds the key -> value projection. Resolution order per
// key: scalar input name, run-information field, the literal "ID", then
// the last ':'-delimited segment against scalar output names. Keys that
// resolve to nothing are silently omitted; the summary is best-effort.
func (d *DataPoint) computeSummary(id string) (map[string]any, []string) {
	computed := map[string]any{}
	var order []string
	put := func(key string, value any) {
		if _, dup := computed[key]; !dup {
			order = append(order, key)
		}
		computed[key] = value
	}

	scalarOutputs := map[string]bool{}
	for _, name := range d.Outputs.scalarNames() {
		scalarOutputs[name] = true
	}

	for _, key := range d.Summary.Keys {
		if in, ok := d.Inputs.Scalars[key]; ok {
			put(key, in.Value)
			continue
		}
		if v, ok := d.RunInformation.field(key); ok {
			put(key, v)
			continue
		}
		if key == "ID" {
			put(key, id)
			continue
		}
		segments := strings.Split(key, ":")
		name := segments[len(segments)-1]
		if !scalarOutputs[name] {
			continue // best-effort: unknown keys are omitted
		}
		out, ok := d.Outputs.byName(name)
		if !ok {
			continue
		}
		if value, ok := d.selectScalar(out); ok {
			put(key, value)
		}
	}

	// ID is always present, whether or not it was requested.
	put("ID", id)

	if d.SimMeta != nil {
		put("simulation_start", d.SimMeta.Start)
		put("simulation_end", d.SimMeta.End)
		put("simulation_code", d.SimMeta.Code)
	}
	return computed, order
}

// selectScalar extracts the summary value from a scalar output, applying
// the location selector to multi-location sequences.
func (d *DataPoint) selectScalar(out *SingleOutput) (float64, bool) {
	scalarAt := func(i int) (float64, bool) {
		if i < 0 || i >= len(out.Data) {
			return 0, false
		}
		s, ok := out.Data[i].(Scalar)
		return float64(s), ok
	}

	if !out.Multi || len(out.Locations) <= 1 {
		return scalarAt(0)
	}

	sel := d.Summary.Location
	switch sel.kind {
	case SelectFinal:
		return scalarAt(len(out.Data) - 1)
	case SelectName:
		for i, loc := range out.Locations {
			if !loc.IsNumeric() && loc.Name() == sel.name {
				return scalarAt(i)
			}
		}
	case SelectCoord:
		for i, loc := range out.Locations {
			if loc.IsNumeric() && d.Summary.coordMatches(loc.Coord(), sel.coord) {
				return scalarAt(i)
			}
		}
	}
	return 0, false
}
