package record

import (
	"math"
	"sort"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// Canonical JSON encoding used exclusively for identity derivation:
// object keys sorted by UTF-16 code units, strings NFC-normalized with
// minimal escaping (no HTML escapes), floats in shortest round-trip form.
//
// NaN and infinities are emitted as the bare tokens NaN / Infinity /
// -Infinity; this form is only ever hashed, never parsed.

// canonicalScalarInputs renders the scalar-input map as a canonical JSON
// object keyed by input name. Structurally equivalent maps produce
// identical bytes regardless of insertion order.
func canonicalScalarInputs(scalars map[string]SingleInput) []byte {
	names := make([]string, 0, len(scalars))
	for name := range scalars {
		names = append(names, name)
	}
	sortKeysUTF16(names)

	out := []byte{'{'}
	for i, name := range names {
		if i > 0 {
			out = append(out, ',')
		}
		out = appendCanonicalString(out, name)
		out = append(out, ':')
		out = appendCanonicalInput(out, scalars[name])
	}
	return append(out, '}')
}

// appendCanonicalInput emits one input as a five-field object. The field
// names are ASCII so their fixed order below is already UTF-16 sorted.
func appendCanonicalInput(dst []byte, in SingleInput) []byte {
	dst = append(dst, `{"description":`...)
	dst = appendCanonicalString(dst, in.Description)
	dst = append(dst, `,"location":`...)
	if in.Location.IsNumeric() {
		dst = appendCanonicalFloat(dst, in.Location.Coord())
	} else {
		dst = appendCanonicalString(dst, in.Location.Name())
	}
	dst = append(dst, `,"name":`...)
	dst = appendCanonicalString(dst, in.Name)
	dst = append(dst, `,"units":`...)
	dst = appendCanonicalString(dst, in.Units)
	dst = append(dst, `,"value":`...)
	dst = appendCanonicalFloat(dst, in.Value)
	return dst
}

// appendCanonicalString emits an NFC-normalized JSON string with minimal
// escaping: only the quote, backslash, and control characters below U+0020
// are escaped. HTML characters and U+2028/U+2029 pass through verbatim.
func appendCanonicalString(dst []byte, s string) []byte {
	normalized := norm.NFC.String(s)
	dst = append(dst, '"')
	for _, b := range []byte(normalized) {
		switch {
		case b == '"':
			dst = append(dst, '\\', '"')
		case b == '\\':
			dst = append(dst, '\\', '\\')
		case b >= 0x20:
			dst = append(dst, b)
		case b == '\b':
			dst = append(dst, `\b`...)
		case b == '\t':
			dst = append(dst, `\t`...)
		case b == '\n':
			dst = append(dst, `\n`...)
		case b == '\f':
			dst = append(dst, `\f`...)
		case b == '\r':
			dst = append(dst, `\r`...)
		default:
			const hex = "0123456789abcdef"
			dst = append(dst, `\u00`...)
			dst = append(dst, hex[b>>4], hex[b&0xf])
		}
	}
	return append(dst, '"')
}

// appendCanonicalFloat emits the shortest representation that round-trips
// to the same float64.
func appendCanonicalFloat(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		return append(dst, "NaN"...)
	case math.IsInf(f, 1):
		return append(dst, "Infinity"...)
	case math.IsInf(f, -1):
		return append(dst, "-Infinity"...)
	}
	return strconv.AppendFloat(dst, f, 'g', -1, 64)
}

// sortKeysUTF16 sorts keys by their UTF-16 code units, the canonical JSON
// object ordering.
func sortKeysUTF16(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		return lessUTF16(keys[i], keys[j])
	})
}

func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}
