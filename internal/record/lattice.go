package record

// LatticeIncluded is the location value indicating the lattice files are
// embedded in the record rather than referenced externally.
const LatticeIncluded = "included"

// Lattice is the beamline configuration, either referenced by location
// (typically a repository URL) or embedded as files.
type Lattice struct {
	// Location is a reference such as a lattice repository URL, or
	// LatticeIncluded when Files are embedded.
	Location string

	// Files maps filename to text contents. Non-empty exactly when
	// Location == LatticeIncluded.
	Files map[string]string
}

// set replaces the lattice configuration, validating leniently.
func (l *Lattice) set(location string, files map[string]string) error {
	if files == nil {
		files = map[string]string{}
	}
	saved := *l
	l.Location, l.Files = location, files
	if err := l.check(true); err != nil {
		*l = saved
		return err
	}
	return nil
}

// check enforces the embedding invariant: files are present if and only if
// the location says they are included. In allow-blank mode an entirely
// unset lattice passes.
func (l *Lattice) check(allowBlank bool) error {
	if l.Location == "" && len(l.Files) == 0 {
		if allowBlank {
			return nil
		}
		return newMissingFieldError("lattice", "lattice_location",
			"lattice location must not be blank")
	}
	if l.Location == "" {
		return newMissingFieldError("lattice", "lattice_location",
			`lattice files are embedded but lattice location is not "included"`)
	}
	if l.Location == LatticeIncluded && len(l.Files) == 0 {
		return newMissingFieldError("lattice", "lattice_files",
			`lattice files must be provided when lattice location is "included"`)
	}
	if l.Location != LatticeIncluded && len(l.Files) > 0 {
		return newMissingFieldError("lattice", "lattice_location",
			`lattice location must be "included" when lattice files are embedded`)
	}
	return nil
}
