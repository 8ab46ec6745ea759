package record

import (
	"fmt"
	"strconv"

	"github.com/ericcropp/Data-Sharing/internal/container"
	"github.com/ericcropp/Data-Sharing/internal/ensemble"
)

// Serialize writes the finalized point to path as a container artifact.
// It is idempotent and side-effect-free on the model; the write itself is
// atomic (temporary file, renamed into place on success).
func (d *DataPoint) Serialize(path string) error {
	tree, err := d.BuildTree()
	if err != nil {
		return err
	}
	if err := container.WriteFile(path, tree); err != nil {
		return fmt.Errorf("serialize data point %s: %w", d.id, err)
	}
	return nil
}

// BuildTree renders the finalized point as an in-memory container tree:
//
//	/                        root attrs: ID, run_information_*, summary values
//	/inputs/<name>           scalar-input datasets
//	/inputs/input_distribution
//	/lattice                 lattice_location + embedded lattice_files
//	/observables/<name>      one node per output
//	/simulation_information  only for simulated points
func (d *DataPoint) BuildTree() (*container.Group, error) {
	if d.state != StateFinalized {
		return nil, newStateError(
			fmt.Sprintf("serialize requires a finalized data point (state is %s)", d.state))
	}

	root := container.NewRoot()
	if err := d.writeRootAttrs(root); err != nil {
		return nil, err
	}
	if err := d.writeInputs(root); err != nil {
		return nil, err
	}
	if err := d.writeLattice(root); err != nil {
		return nil, err
	}
	if err := d.writeObservables(root); err != nil {
		return nil, err
	}
	if d.SimMeta != nil {
		if err := d.writeSimulation(root); err != nil {
			return nil, err
		}
	}
	return root, nil
}

func (d *DataPoint) writeRootAttrs(root *container.Group) error {
	root.SetAttr("ID", d.id)
	root.SetAttr("run_information_source", d.RunInformation.Source)
	root.SetAttr("run_information_date", d.RunInformation.Date)
	root.SetAttr("run_information_notes", d.RunInformation.Notes)
	root.SetAttr("summary_location", d.Summary.Location.String())
	for _, key := range d.Summary.ComputedKeys {
		if err := root.SetAttr(key, d.Summary.Computed[key]); err != nil {
			return newUnsupportedTypeError("summary", key, err.Error())
		}
	}
	return nil
}

func (d *DataPoint) writeInputs(root *container.Group) error {
	inputs, err := root.CreateGroup("inputs")
	if err != nil {
		return wrapTreeError(err)
	}

	names := make([]string, 0, len(d.Inputs.Scalars))
	for name := range d.Inputs.Scalars {
		names = append(names, name)
	}
	sortKeysUTF16(names)
	for _, name := range names {
		in := d.Inputs.Scalars[name]
		ds, err := inputs.CreateDataset(name, container.Float(in.Value))
		if err != nil {
			return wrapTreeError(err)
		}
		ds.SetAttr("name", in.Name)
		ds.SetAttr("units", in.Units)
		ds.SetAttr("description", in.Description)
		ds.SetAttr("raw_value", in.RawValue)
		ds.SetAttr("raw_units", in.RawUnits)
		if err := setLocationAttr(ds, in.Location); err != nil {
			return err
		}
	}

	switch dist := d.Inputs.Distribution.(type) {
	case nil:
		return nil
	case Image:
		ds, err := inputs.CreateDataset("input_distribution", container.Float2D(dist))
		if err != nil {
			return wrapTreeError(err)
		}
		if err := setFreeAttrs(ds, "inputs", d.Inputs.DistributionAttrs); err != nil {
			return err
		}
	case Distribution:
		g, err := inputs.CreateGroup("input_distribution")
		if err != nil {
			return wrapTreeError(err)
		}
		if err := writeEnsemble(g, dist.Particles); err != nil {
			return err
		}
		if err := setFreeAttrsGroup(g, "inputs", d.Inputs.DistributionAttrs); err != nil {
			return err
		}
	default:
		return newUnsupportedTypeError("inputs", "input_distribution",
			fmt.Sprintf("unsupported distribution payload %T", dist))
	}
	return nil
}

func (d *DataPoint) writeLattice(root *container.Group) error {
	lattice, err := root.CreateGroup("lattice")
	if err != nil {
		return wrapTreeError(err)
	}
	if _, err := lattice.CreateDataset("lattice_location", container.String(d.Lattice.Location)); err != nil {
		return wrapTreeError(err)
	}
	if len(d.Lattice.Files) == 0 {
		return nil
	}
	files, err := lattice.CreateGroup("lattice_files")
	if err != nil {
		return wrapTreeError(err)
	}
	fnames := make([]string, 0, len(d.Lattice.Files))
	for fname := range d.Lattice.Files {
		fnames = append(fnames, fname)
	}
	sortKeysUTF16(fnames)
	for _, fname := range fnames {
		if _, err := files.CreateDataset(fname, container.String(d.Lattice.Files[fname])); err != nil {
			return wrapTreeError(err)
		}
	}
	return nil
}

func (d *DataPoint) writeObservables(root *container.Group) error {
	obs, err := root.CreateGroup("observables")
	if err != nil {
		return wrapTreeError(err)
	}
	for i := range d.Outputs.All() {
		out := &d.Outputs.All()[i]
		if err := writeOutput(obs, out); err != nil {
			return err
		}
	}
	return nil
}

func writeOutput(obs *container.Group, out *SingleOutput) error {
	common := func(set func(key string, v any) error) error {
		if err := set("datum_type", string(out.Type)); err != nil {
			return wrapTreeError(err)
		}
		if err := set("units", out.Units); err != nil {
			return wrapTreeError(err)
		}
		if err := set("location", locationAttrValue(out.Locations, out.Multi)); err != nil {
			return wrapTreeError(err)
		}
		for _, key := range sortedKeys(out.Attrs) {
			if err := set(key, out.Attrs[key]); err != nil {
				return newUnsupportedTypeError("outputs", out.Name+"."+key, err.Error())
			}
		}
		return nil
	}

	switch out.Type {
	case DatumScalar:
		var value container.Value
		if out.Multi {
			vals := make([]float64, len(out.Data))
			for i, datum := range out.Data {
				vals[i] = float64(datum.(Scalar))
			}
			value = container.FloatArray(vals)
		} else {
			value = container.Float(out.Data[0].(Scalar))
		}
		ds, err := obs.CreateDataset(out.Name, value)
		if err != nil {
			return wrapTreeError(err)
		}
		return common(ds.SetAttr)

	case DatumImage:
		if !out.Multi {
			ds, err := obs.CreateDataset(out.Name, container.Float2D(out.Data[0].(Image)))
			if err != nil {
				return wrapTreeError(err)
			}
			return common(ds.SetAttr)
		}
		g, err := obs.CreateGroup(out.Name)
		if err != nil {
			return wrapTreeError(err)
		}
		for i, datum := range out.Data {
			if _, err := g.CreateDataset(strconv.Itoa(i), container.Float2D(datum.(Image))); err != nil {
				return wrapTreeError(err)
			}
		}
		return common(g.SetAttr)

	case DatumDistribution:
		g, err := obs.CreateGroup(out.Name)
		if err != nil {
			return wrapTreeError(err)
		}
		if !out.Multi {
			if err := writeEnsemble(g, out.Data[0].(Distribution).Particles); err != nil {
				return err
			}
			return common(g.SetAttr)
		}
		for i, datum := range out.Data {
			sub, err := g.CreateGroup(strconv.Itoa(i))
			if err != nil {
				return wrapTreeError(err)
			}
			if err := writeEnsemble(sub, datum.(Distribution).Particles); err != nil {
				return err
			}
		}
		return common(g.SetAttr)
	}
	return newUnsupportedTypeError("outputs", out.Name,
		fmt.Sprintf("unrecognized datum type %q", out.Type))
}

func (d *DataPoint) writeSimulation(root *container.Group) error {
	sim, err := root.CreateGroup("simulation_information")
	if err != nil {
		return wrapTreeError(err)
	}
	if _, err := sim.CreateDataset("simulation_input_file", container.String(d.SimMeta.InputFile)); err != nil {
		return wrapTreeError(err)
	}
	sim.SetAttr("simulation_code", d.SimMeta.Code)
	sim.SetAttr("simulation_start", d.SimMeta.Start)
	sim.SetAttr("simulation_end", d.SimMeta.End)
	return nil
}

// writeEnsemble renders a particle group as per-column datasets, in the
// openPMD column order.
func writeEnsemble(g *container.Group, pg *ensemble.ParticleGroup) error {
	cols := pg.Columns()
	for _, name := range []string{"x", "px", "y", "py", "z", "pz", "t", "weight"} {
		if _, err := g.CreateDataset(name, container.FloatArray(cols[name])); err != nil {
			return wrapTreeError(err)
		}
	}
	if _, err := g.CreateDataset("status", container.IntArray(pg.Status)); err != nil {
		return wrapTreeError(err)
	}
	g.SetAttr("species", pg.Species)
	g.SetAttr("n_particle", int64(pg.Len()))
	return nil
}

func setLocationAttr(ds *container.Dataset, loc Location) error {
	var err error
	if loc.IsNumeric() {
		err = ds.SetAttr("location", loc.Coord())
	} else {
		err = ds.SetAttr("location", loc.Name())
	}
	if err != nil {
		return wrapTreeError(err)
	}
	return nil
}

// locationAttrValue renders output locations as an attribute: a bare value
// for single locations, a homogeneous array for sequences (numeric when
// every element is numeric, rendered strings otherwise).
func locationAttrValue(locs []Location, multi bool) any {
	if !multi {
		if locs[0].IsNumeric() {
			return locs[0].Coord()
		}
		return locs[0].Name()
	}
	allNumeric := true
	for _, loc := range locs {
		if !loc.IsNumeric() {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		coords := make([]float64, len(locs))
		for i, loc := range locs {
			coords[i] = loc.Coord()
		}
		return coords
	}
	names := make([]string, len(locs))
	for i, loc := range locs {
		names[i] = loc.String()
	}
	return names
}

func setFreeAttrs(ds *container.Dataset, component string, attrs map[string]any) error {
	for _, key := range sortedKeys(attrs) {
		if err := ds.SetAttr(key, attrs[key]); err != nil {
			return newUnsupportedTypeError(component, key, err.Error())
		}
	}
	return nil
}

func setFreeAttrsGroup(g *container.Group, component string, attrs map[string]any) error {
	for _, key := range sortedKeys(attrs) {
		if err := g.SetAttr(key, attrs[key]); err != nil {
			return newUnsupportedTypeError(component, key, err.Error())
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortKeysUTF16(keys)
	return keys
}

func wrapTreeError(err error) error {
	return fmt.Errorf("build container tree: %w", err)
}
