package record

// RunInformation records where a shot came from. The three fields are
// all-or-nothing: either the record is entirely blank or every field is
// required at strict validation.
type RunInformation struct {
	Source string
	Date   string
	Notes  string
}

func (r *RunInformation) blank() bool {
	return r.Source == "" && r.Date == "" && r.Notes == ""
}

func (r *RunInformation) check(allowBlank bool) error {
	if r.blank() {
		if allowBlank {
			return nil
		}
		return newMissingFieldError("run_information", "source",
			"run information must be populated before finalize")
	}
	for field, value := range map[string]string{
		"source": r.Source,
		"date":   r.Date,
		"notes":  r.Notes,
	} {
		if value == "" {
			return newMissingFieldError("run_information", field,
				"run information is all-or-nothing: "+field+" must not be blank")
		}
	}
	return nil
}

// field looks up a run-information field by summary-key name.
func (r *RunInformation) field(name string) (string, bool) {
	switch name {
	case "source":
		return r.Source, true
	case "date":
		return r.Date, true
	case "notes":
		return r.Notes, true
	}
	return "", false
}

// SimulationMetadata extends a record produced by a physics simulation:
// start/end markers, the simulation code name, and the full input file.
// Like RunInformation, the fields are all-or-nothing.
type SimulationMetadata struct {
	Start     string
	End       string
	Code      string
	InputFile string
}

func (m *SimulationMetadata) blank() bool {
	return m.Start == "" && m.End == "" && m.Code == "" && m.InputFile == ""
}

func (m *SimulationMetadata) check(allowBlank bool) error {
	if m.blank() {
		if allowBlank {
			return nil
		}
		return newMissingFieldError("simulation_metadata", "simulation_start",
			"simulation metadata must be populated before finalize")
	}
	for field, value := range map[string]string{
		"simulation_start":      m.Start,
		"simulation_end":        m.End,
		"simulation_code":       m.Code,
		"simulation_input_file": m.InputFile,
	} {
		if value == "" {
			return newMissingFieldError("simulation_metadata", field,
				"simulation metadata is all-or-nothing: "+field+" must not be blank")
		}
	}
	return nil
}
