package record

// Outputs is the ordered collection of recorded observables. Order is
// insertion order, i.e. the call order of AddOutput.
type Outputs struct {
	list []SingleOutput
}

// add validates the spec and appends the resulting output.
func (o *Outputs) add(spec OutputSpec) error {
	out, err := NewSingleOutput(spec)
	if err != nil {
		return err
	}
	o.list = append(o.list, out)
	return nil
}

// Len returns the number of outputs.
func (o *Outputs) Len() int { return len(o.list) }

// All returns the outputs in insertion order. The returned slice is shared;
// callers must not reorder it.
func (o *Outputs) All() []SingleOutput { return o.list }

// byName returns the first output with the given datum name.
func (o *Outputs) byName(name string) (*SingleOutput, bool) {
	for i := range o.list {
		if o.list[i].Name == name {
			return &o.list[i], true
		}
	}
	return nil, false
}

// scalarNames lists the names of scalar-typed outputs, in insertion order.
func (o *Outputs) scalarNames() []string {
	var names []string
	for i := range o.list {
		if o.list[i].Type == DatumScalar {
			names = append(names, o.list[i].Name)
		}
	}
	return names
}

// check re-runs the shape checks on every output, catching payloads that
// were mutated after insertion. An empty collection passes in both modes:
// outputs are not required.
func (o *Outputs) check() error {
	for i := range o.list {
		if err := o.list[i].checkShape(); err != nil {
			return err
		}
	}
	return nil
}
