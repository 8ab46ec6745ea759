package merge

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest filename expected next to the per-shot
// container files.
const ManifestName = "summary_table.yaml"

// Entry is one manifest row: the computed summary of a single shot, keyed
// by summary key. Values are strings, float64s, or bools.
type Entry map[string]any

// ID returns the entry's shot identity, or "" when absent or non-string.
func (e Entry) ID() string {
	id, _ := e["ID"].(string)
	return id
}

// Manifest is the ordered summary table for a directory of shot containers.
type Manifest struct {
	Entries []Entry

	// Keys holds the first entry's field names in document order. The
	// merged summary table preserves this order.
	Keys []string
}

// ReadManifest parses the YAML summary table at path. The file is a
// sequence of flat mappings; the first mapping's key order is preserved.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return &Manifest{}, nil
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse manifest: top level must be a sequence, got %s", kindName(seq.Kind))
	}

	m := &Manifest{}
	for i, node := range seq.Content {
		if node.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parse manifest: entry %d must be a mapping, got %s", i, kindName(node.Kind))
		}
		entry := Entry{}
		for j := 0; j+1 < len(node.Content); j += 2 {
			key := node.Content[j].Value
			value, err := scalarValue(node.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("parse manifest: entry %d, key %q: %w", i, key, err)
			}
			entry[key] = value
			if i == 0 {
				m.Keys = append(m.Keys, key)
			}
		}
		m.Entries = append(m.Entries, entry)
	}
	return m, nil
}

// scalarValue decodes a manifest field. Integers widen to float64 so every
// numeric column is uniformly typed.
func scalarValue(node *yaml.Node) (any, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("value must be a scalar, got %s", kindName(node.Kind))
	}
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return node.Value, nil
	}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
