// Package units resolves unit tokens from instrument logs and simulation
// archives into a scaling multiplier plus a canonical SI symbol.
//
// Resolution never fails: a token that matches neither the known-unit table
// nor any prefixed form degrades to a custom unit with multiplier 1 and the
// original token preserved verbatim.
package units

import "sort"

// Resolution is the outcome of resolving a unit token.
type Resolution struct {
	// Multiplier converts a raw value in the tokenized unit to the
	// canonical unit (e.g. 1000 for "kA" -> "A").
	Multiplier float64

	// Symbol is the canonical unit symbol, or the original token when
	// the unit is custom.
	Symbol string

	// Known reports whether the token resolved to a known unit,
	// directly or via a prefix.
	Known bool
}

// knownUnits maps canonical symbols to themselves plus the aliases that
// appear in instrument logs. Values are the canonical symbol.
var knownUnits = map[string]string{
	"m":        "m",
	"s":        "s",
	"A":        "A",
	"V":        "V",
	"W":        "W",
	"J":        "J",
	"C":        "C",
	"T":        "T",
	"K":        "K",
	"Hz":       "Hz",
	"N":        "N",
	"Pa":       "Pa",
	"g":        "g",
	"eV":       "eV",
	"rad":      "rad",
	"sr":       "sr",
	"degree":   "degree",
	"deg":      "degree",
	"eV/c":     "eV/c",
	"eV/m":     "eV/m",
	"V/m":      "V/m",
	"T/m":      "T/m",
	"m/s":      "m/s",
	"1":        "1",
	"unitless": "1",
}

// prefixFactors holds both the long and the short SI prefix spellings.
var prefixFactors = map[string]float64{
	"yotta": 1e24, "Y": 1e24,
	"zetta": 1e21, "Z": 1e21,
	"exa": 1e18, "E": 1e18,
	"peta": 1e15, "P": 1e15,
	"tera": 1e12,
	"giga": 1e9, "G": 1e9,
	"mega": 1e6, "M": 1e6,
	"kilo": 1e3, "k": 1e3,
	"hecto": 1e2, "h": 1e2,
	"deca": 1e1, "da": 1e1,
	"deci": 1e-1, "d": 1e-1,
	"centi": 1e-2, "c": 1e-2,
	"milli": 1e-3,
	"micro": 1e-6, "u": 1e-6, "µ": 1e-6,
	"nano": 1e-9, "n": 1e-9,
	"pico": 1e-12, "p": 1e-12,
	"femto": 1e-15, "f": 1e-15,
	"atto": 1e-18, "a": 1e-18,
	"zepto": 1e-21, "z": 1e-21,
	"yocto": 1e-24, "y": 1e-24,
}

// prefixesByLength lists prefix spellings longest-first so that "milli"
// wins over "m" when both would match. Built once at init.
var prefixesByLength []string

func init() {
	// "m" and "T" double as unit symbols; as prefixes they are only
	// considered after the exact-match lookup has failed.
	prefixFactors["m"] = 1e-3
	prefixFactors["T"] = 1e12
	for p := range prefixFactors {
		prefixesByLength = append(prefixesByLength, p)
	}
	sort.Slice(prefixesByLength, func(i, j int) bool {
		if len(prefixesByLength[i]) != len(prefixesByLength[j]) {
			return len(prefixesByLength[i]) > len(prefixesByLength[j])
		}
		return prefixesByLength[i] < prefixesByLength[j]
	})
}

// Resolve maps a unit token to a (multiplier, canonical symbol) pair.
//
// Lookup order:
//  1. exact match in the known-unit table (multiplier 1)
//  2. longest registered prefix stripped from the token, remainder
//     matched against the known-unit table (multiplier = prefix factor)
//  3. no match: passthrough with multiplier 1 and the token kept verbatim
func Resolve(token string) Resolution {
	if canonical, ok := knownUnits[token]; ok {
		return Resolution{Multiplier: 1, Symbol: canonical, Known: true}
	}
	for _, prefix := range prefixesByLength {
		if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
			continue
		}
		if canonical, ok := knownUnits[token[len(prefix):]]; ok {
			return Resolution{
				Multiplier: prefixFactors[prefix],
				Symbol:     canonical,
				Known:      true,
			}
		}
	}
	return Resolution{Multiplier: 1, Symbol: token, Known: false}
}
