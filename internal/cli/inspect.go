package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ericcropp/Data-Sharing/internal/container"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "inspect <artifact>",
		Short:        "Print the tree of a shot container",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := container.ReadFile(args[0])
			if err != nil {
				return err
			}
			printGroup(cmd.OutOrStdout(), "/", root, 0)
			return nil
		},
	}
}

func printGroup(w io.Writer, name string, g *container.Group, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, name)
	for _, key := range g.AttrKeys() {
		v, _ := g.Attr(key)
		fmt.Fprintf(w, "%s  @%s = %s\n", indent, key, renderAttr(v))
	}
	for _, child := range g.Names() {
		if sub, ok := g.Group(child); ok {
			printGroup(w, child+"/", sub, depth+1)
			continue
		}
		ds, _ := g.Dataset(child)
		fmt.Fprintf(w, "%s  %s %s\n", indent, child, describeValue(ds.Value))
		for _, key := range ds.AttrKeys() {
			v, _ := ds.Attr(key)
			fmt.Fprintf(w, "%s    @%s = %s\n", indent, key, renderAttr(v))
		}
	}
}

func describeValue(v container.Value) string {
	switch val := v.(type) {
	case container.String:
		return fmt.Sprintf("string(%d bytes)", len(val))
	case container.Float:
		return "float64 " + strconv.FormatFloat(float64(val), 'g', -1, 64)
	case container.Int:
		return "int64 " + strconv.FormatInt(int64(val), 10)
	case container.FloatArray:
		return fmt.Sprintf("float64[%d]", len(val))
	case container.IntArray:
		return fmt.Sprintf("int64[%d]", len(val))
	case container.Float2D:
		cols := 0
		if len(val) > 0 {
			cols = len(val[0])
		}
		return fmt.Sprintf("float64[%d][%d]", len(val), cols)
	case container.StringArray:
		return fmt.Sprintf("string[%d]", len(val))
	default:
		return fmt.Sprintf("%T", v)
	}
}

func renderAttr(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case []float64:
		return fmt.Sprintf("float64[%d]", len(val))
	case []string:
		return fmt.Sprintf("string[%d]", len(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}
