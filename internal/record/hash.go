package record

import (
	"crypto/md5"
	"encoding/hex"
)

// Domain prefix for content-addressed identity. The version suffix enables
// future algorithm migration without silent collisions across schemes.
const idDomain = "data-sharing/datapoint/v1"

// deriveID computes the content-addressed identity of a data point: a
// 128-bit digest over the canonicalized scalar-input map concatenated with
// the lattice location. Outputs, summary configuration, and provenance are
// deliberately excluded: two points with the same configuration collide to
// the same ID regardless of what was measured.
//
// The null byte separates domain from payload to avoid boundary ambiguity.
func deriveID(scalars map[string]SingleInput, latticeLocation string) string {
	h := md5.New()
	h.Write([]byte(idDomain))
	h.Write([]byte{0x00})
	h.Write(canonicalScalarInputs(scalars))
	h.Write([]byte(latticeLocation))
	return hex.EncodeToString(h.Sum(nil))
}
