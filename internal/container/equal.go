package container

// Equal reports whether two trees are structurally identical: same child
// names in the same order, same dataset payloads (bit-exact), and same
// attributes on every node.
func Equal(a, b *Group) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !attrsEqual(a.attrs, b.attrs) {
		return false
	}
	an, bn := a.Names(), b.Names()
	if len(an) != len(bn) {
		return false
	}
	for i, name := range an {
		if bn[i] != name {
			return false
		}
		if ag, ok := a.Group(name); ok {
			bg, ok := b.Group(name)
			if !ok || !Equal(ag, bg) {
				return false
			}
			continue
		}
		ad, _ := a.Dataset(name)
		bd, ok := b.Dataset(name)
		if !ok || !datasetEqual(ad, bd) {
			return false
		}
	}
	return true
}

func datasetEqual(a, b *Dataset) bool {
	if !attrsEqual(a.attrs, b.attrs) {
		return false
	}
	return valueEqual(a.Value, b.Value)
}

// valueEqual compares payloads bit-exactly. NaNs are compared by bit
// pattern equality, not IEEE semantics, so NaN == NaN here.
func valueEqual(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && floatBitsEqual(float64(av), float64(bv))
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case FloatArray:
		bv, ok := b.(FloatArray)
		return ok && floatsEqual(av, bv)
	case IntArray:
		bv, ok := b.(IntArray)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case Float2D:
		bv, ok := b.(Float2D)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !floatsEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case StringArray:
		bv, ok := b.(StringArray)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func attrsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for key, av := range a {
		bv, ok := b[key]
		if !ok || !attrValueEqual(av, bv) {
			return false
		}
	}
	return true
}

func attrValueEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && floatBitsEqual(av, bv)
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case []float64:
		bv, ok := b.([]float64)
		return ok && floatsEqual(av, bv)
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func floatsEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !floatBitsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func floatBitsEqual(a, b float64) bool {
	// Bit comparison keeps NaN payloads meaningful and stays bit-exact.
	return a == b || (a != a && b != b)
}
