package cli

import (
	"github.com/spf13/cobra"

	"github.com/ericcropp/Data-Sharing/internal/merge"
)

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <input-dir> <output>",
		Short: "Combine a directory of shot containers into one artifact",
		Long: `Combine the shot containers listed in <input-dir>/summary_table.yaml into
a single artifact at <output>. Each shot lands under a group named by its
ID; the first shot's lattice is promoted to the root and the manifest is
stored as index-aligned arrays under /summary_yaml.

Missing or invalid manifest entries are logged and skipped.`,
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return merge.New(rootOpts.Logger).Merge(args[0], args[1])
		},
	}
}
