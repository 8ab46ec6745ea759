package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScalars(t *testing.T, specs ...ScalarInputSpec) map[string]SingleInput {
	t.Helper()
	in := Inputs{Scalars: map[string]SingleInput{}}
	require.NoError(t, in.addScalars(specs))
	return in.Scalars
}

func TestDeriveIDDeterminism(t *testing.T) {
	scalars := testScalars(t,
		ScalarInputSpec{Name: "gun_phase", Value: 28.5, Units: "deg", Location: LocName("GUN")},
		ScalarInputSpec{Name: "sol_field", Value: 0.45, Units: "T", Location: LocCoord(1.2)},
	)

	id1 := deriveID(scalars, "https://lattice.example/rev/42")
	id2 := deriveID(scalars, "https://lattice.example/rev/42")

	assert.Equal(t, id1, id2, "deriveID must be deterministic")
	assert.Len(t, id1, 32, "MD5 hex is 32 characters")
}

func TestDeriveIDIgnoresInsertionOrder(t *testing.T) {
	specs := []ScalarInputSpec{
		{Name: "gun_phase", Value: 28.5, Units: "deg", Location: LocName("GUN")},
		{Name: "sol_field", Value: 0.45, Units: "T", Location: LocCoord(1.2)},
		{Name: "charge", Value: 2.0, Units: "nC", Location: LocName("GUN")},
	}

	forward := Inputs{Scalars: map[string]SingleInput{}}
	require.NoError(t, forward.addScalars(specs))
	reversed := Inputs{Scalars: map[string]SingleInput{}}
	for i := len(specs) - 1; i >= 0; i-- {
		require.NoError(t, reversed.addScalars(specs[i:i+1]))
	}

	assert.Equal(t,
		deriveID(forward.Scalars, "loc"),
		deriveID(reversed.Scalars, "loc"),
		"ID must not depend on insertion order")
}

func TestDeriveIDLatticeSensitivity(t *testing.T) {
	scalars := testScalars(t,
		ScalarInputSpec{Name: "gun_phase", Value: 28.5, Units: "deg", Location: LocName("GUN")})

	assert.NotEqual(t,
		deriveID(scalars, "https://lattice.example/rev/42"),
		deriveID(scalars, "https://lattice.example/rev/43"),
		"different lattice locations must produce different IDs")
}

func TestDeriveIDValueSensitivity(t *testing.T) {
	a := testScalars(t,
		ScalarInputSpec{Name: "gun_phase", Value: 28.5, Units: "deg", Location: LocName("GUN")})
	b := testScalars(t,
		ScalarInputSpec{Name: "gun_phase", Value: 28.6, Units: "deg", Location: LocName("GUN")})

	assert.NotEqual(t, deriveID(a, "loc"), deriveID(b, "loc"))
}

func TestDeriveIDNormalizedUnitsCollide(t *testing.T) {
	// 2 kA and 2000 A are the same setting; raw value and raw units do
	// not participate in identity.
	a := testScalars(t,
		ScalarInputSpec{Name: "beam_current", Value: 2.0, Units: "kA", Location: LocName("BPM")})
	b := testScalars(t,
		ScalarInputSpec{Name: "beam_current", Value: 2000.0, Units: "A", Location: LocName("BPM")})

	assert.Equal(t, deriveID(a, "loc"), deriveID(b, "loc"),
		"unit-equivalent settings must collide to the same ID")
}

func TestDeriveIDIgnoresOutputs(t *testing.T) {
	build := func(withOutput bool) *DataPoint {
		d := New()
		require.NoError(t, d.AddScalarInputs([]ScalarInputSpec{
			{Name: "gun_phase", Value: 28.5, Units: "deg", Location: LocName("GUN")},
		}))
		require.NoError(t, d.AddInputDistribution(
			Image{{1, 2}, {3, 4}}, map[string]any{"pixel_calibration": 4.6e-6}))
		require.NoError(t, d.AddLattice("https://lattice.example/rev/42", nil))
		require.NoError(t, d.AddRunInformation("FACET-II", "2026-03-18", "phase scan"))
		if withOutput {
			require.NoError(t, d.AddOutput(OutputSpec{
				Name:     "energy",
				Type:     DatumScalar,
				Location: LocName("SPECT"),
				Data:     []Datum{Scalar(135.2)},
				Units:    "eV",
			}))
		}
		require.NoError(t, d.Finalize())
		return d
	}

	assert.Equal(t, build(false).ID(), build(true).ID(),
		"outputs must not participate in identity")
}
