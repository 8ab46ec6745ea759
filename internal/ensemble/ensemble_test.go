package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validColumns() map[string][]float64 {
	return map[string][]float64{
		"x":  {0.0, 1e-3},
		"px": {0.0, 10.0},
		"y":  {0.0, -1e-3},
		"py": {0.0, -10.0},
		"z":  {0.0, 0.0},
		"pz": {1e6, 1e6},
	}
}

func TestFromColumns(t *testing.T) {
	g, err := FromColumns(validColumns(), "electron")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, "electron", g.Species)
	assert.Equal(t, []float64{0, 0}, g.T, "t defaults to zeros")
	assert.Equal(t, []int64{1, 1}, g.Status, "status defaults to alive")
}

func TestFromColumnsMissingColumn(t *testing.T) {
	cols := validColumns()
	delete(cols, "pz")
	_, err := FromColumns(cols, "electron")
	assert.ErrorContains(t, err, `missing particle column "pz"`)
}

func TestFromColumnsUnknownColumn(t *testing.T) {
	cols := validColumns()
	cols["spin"] = []float64{0, 0}
	_, err := FromColumns(cols, "electron")
	assert.ErrorContains(t, err, `unknown particle column "spin"`)
}

func TestFromColumnsLengthMismatch(t *testing.T) {
	cols := validColumns()
	cols["py"] = []float64{0.0}
	_, err := FromColumns(cols, "electron")
	assert.ErrorContains(t, err, `length`)
}

func TestValidateEmpty(t *testing.T) {
	g := &ParticleGroup{}
	assert.ErrorContains(t, g.Validate(), "empty")
}
