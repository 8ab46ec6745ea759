package merge

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// entrySchema constrains one manifest entry: a flat mapping with a
// non-empty string ID plus arbitrary scalar summary fields.
const entrySchema = `
#Entry: {
	ID: string & !=""
	[!="ID"]: string | number | bool | null
}
entry: #Entry
`

// validateEntry checks one manifest entry against the embedded CUE schema.
func validateEntry(e Entry) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(entrySchema)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile manifest schema: %w", err)
	}

	value := ctx.Encode(map[string]any(e))
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode manifest entry: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("entry")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("manifest entry invalid: %w", err)
	}
	return nil
}
