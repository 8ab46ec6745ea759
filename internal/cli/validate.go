package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ericcropp/Data-Sharing/internal/container"
	"github.com/ericcropp/Data-Sharing/internal/record"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <artifact>",
		Short: "Structurally check a serialized shot container",
		Long: `Check that a serialized shot container is readable and carries the
expected structure: a 32-hex-character ID, populated run information,
the inputs and lattice groups, and a consistent lattice embedding.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := container.ReadFile(args[0])
			if err != nil {
				return err
			}
			problems := checkArtifact(root)
			for _, p := range problems {
				fmt.Fprintf(cmd.OutOrStdout(), "INVALID: %s\n", p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problem(s) found", len(problems))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

// checkArtifact runs the structural checks on a deserialized container.
func checkArtifact(root *container.Group) []string {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	id, ok := root.Attr("ID")
	idStr, isStr := id.(string)
	switch {
	case !ok:
		report("root is missing the ID attribute")
	case !isStr || !isHex128(idStr):
		report("ID %v is not a 32-character hex digest", id)
	}

	for _, key := range []string{
		"run_information_source", "run_information_date", "run_information_notes",
	} {
		v, ok := root.Attr(key)
		if s, isStr := v.(string); !ok || !isStr || s == "" {
			report("root attribute %s is missing or blank", key)
		}
	}

	if _, ok := root.Group("inputs"); !ok {
		report("inputs group is missing")
	}

	lattice, ok := root.Group("lattice")
	if !ok {
		report("lattice group is missing")
		return problems
	}
	loc, ok := lattice.Dataset("lattice_location")
	if !ok {
		report("lattice_location dataset is missing")
		return problems
	}
	locStr, isStr := loc.Value.(container.String)
	if !isStr || locStr == "" {
		report("lattice_location is not a non-empty string")
		return problems
	}
	_, hasFiles := lattice.Group("lattice_files")
	included := string(locStr) == record.LatticeIncluded
	if included && !hasFiles {
		report(`lattice location is "included" but no lattice_files group is present`)
	}
	if !included && hasFiles {
		report(`lattice files are embedded but lattice location is not "included"`)
	}
	return problems
}

func isHex128(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
