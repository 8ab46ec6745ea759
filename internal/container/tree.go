package container

import (
	"fmt"
	"sort"
)

// FileExt is the conventional extension for serialized shot containers.
const FileExt = ".dsc"

// Value is a sealed interface over the dataset payload types. Only String,
// Float, Int, FloatArray, IntArray, Float2D, and StringArray implement it.
type Value interface {
	value()
}

// String is a text dataset payload.
type String string

func (String) value() {}

// Float is a scalar float64 dataset payload.
type Float float64

func (Float) value() {}

// Int is a scalar int64 dataset payload.
type Int int64

func (Int) value() {}

// FloatArray is a 1-D float64 dataset payload.
type FloatArray []float64

func (FloatArray) value() {}

// IntArray is a 1-D int64 dataset payload.
type IntArray []int64

func (IntArray) value() {}

// Float2D is a rectangular 2-D float64 dataset payload, row-major.
type Float2D [][]float64

func (Float2D) value() {}

// StringArray is a 1-D string dataset payload.
type StringArray []string

func (StringArray) value() {}

// Group is an interior node of a container tree: named children (groups or
// datasets, names unique across both) plus key-value attributes.
type Group struct {
	attrs    map[string]any
	children map[string]any // *Group or *Dataset
	order    []string
}

// Dataset is a leaf node: one typed payload plus key-value attributes.
type Dataset struct {
	Value Value
	attrs map[string]any
}

// NewRoot creates an empty tree root.
func NewRoot() *Group {
	return &Group{
		attrs:    map[string]any{},
		children: map[string]any{},
	}
}

// CreateGroup adds an empty child group. Duplicate or empty names fail.
func (g *Group) CreateGroup(name string) (*Group, error) {
	if err := g.claimName(name); err != nil {
		return nil, err
	}
	child := NewRoot()
	g.children[name] = child
	g.order = append(g.order, name)
	return child, nil
}

// CreateDataset adds a child dataset holding v. Duplicate or empty names
// and ragged 2-D payloads fail.
func (g *Group) CreateDataset(name string, v Value) (*Dataset, error) {
	if err := g.claimName(name); err != nil {
		return nil, err
	}
	if err := checkValue(v); err != nil {
		return nil, fmt.Errorf("dataset %q: %w", name, err)
	}
	ds := &Dataset{Value: v, attrs: map[string]any{}}
	g.children[name] = ds
	g.order = append(g.order, name)
	return ds, nil
}

func (g *Group) claimName(name string) error {
	if name == "" {
		return fmt.Errorf("child name must not be empty")
	}
	if _, exists := g.children[name]; exists {
		return fmt.Errorf("name %q already exists in group", name)
	}
	return nil
}

// Group returns the named child group.
func (g *Group) Group(name string) (*Group, bool) {
	child, ok := g.children[name].(*Group)
	return child, ok
}

// Dataset returns the named child dataset.
func (g *Group) Dataset(name string) (*Dataset, bool) {
	child, ok := g.children[name].(*Dataset)
	return child, ok
}

// Names returns child names in insertion order.
func (g *Group) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Remove detaches the named child and returns it (a *Group or *Dataset).
func (g *Group) Remove(name string) (any, bool) {
	child, ok := g.children[name]
	if !ok {
		return nil, false
	}
	delete(g.children, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return child, true
}

// Attach adds an already-built child (as returned by Remove) under name.
func (g *Group) Attach(name string, child any) error {
	switch child.(type) {
	case *Group, *Dataset:
	default:
		return fmt.Errorf("attach %q: not a group or dataset: %T", name, child)
	}
	if err := g.claimName(name); err != nil {
		return err
	}
	g.children[name] = child
	g.order = append(g.order, name)
	return nil
}

// SetAttr sets a key-value attribute on the group. Supported kinds:
// string, float64, int64, bool, []float64, []string.
func (g *Group) SetAttr(key string, v any) error {
	return setAttr(g.attrs, key, v)
}

// Attr returns the named attribute.
func (g *Group) Attr(key string) (any, bool) {
	v, ok := g.attrs[key]
	return v, ok
}

// AttrKeys returns the attribute keys, sorted.
func (g *Group) AttrKeys() []string {
	return sortedAttrKeys(g.attrs)
}

// SetAttr sets a key-value attribute on the dataset.
func (d *Dataset) SetAttr(key string, v any) error {
	return setAttr(d.attrs, key, v)
}

// Attr returns the named attribute.
func (d *Dataset) Attr(key string) (any, bool) {
	v, ok := d.attrs[key]
	return v, ok
}

// AttrKeys returns the attribute keys, sorted.
func (d *Dataset) AttrKeys() []string {
	return sortedAttrKeys(d.attrs)
}

func setAttr(attrs map[string]any, key string, v any) error {
	if key == "" {
		return fmt.Errorf("attribute key must not be empty")
	}
	switch v.(type) {
	case string, float64, int64, bool, []float64, []string:
		attrs[key] = v
		return nil
	case int:
		attrs[key] = int64(v.(int))
		return nil
	default:
		return fmt.Errorf("attribute %q: unsupported kind %T", key, v)
	}
}

func sortedAttrKeys(attrs map[string]any) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkValue(v Value) error {
	img, ok := v.(Float2D)
	if !ok {
		return nil
	}
	if len(img) == 0 {
		return fmt.Errorf("2-D payload must have at least one row")
	}
	cols := len(img[0])
	if cols == 0 {
		return fmt.Errorf("2-D payload must have at least one column")
	}
	for i, row := range img {
		if len(row) != cols {
			return fmt.Errorf("2-D payload is ragged: row %d has %d columns, want %d", i, len(row), cols)
		}
	}
	return nil
}
