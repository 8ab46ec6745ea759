package record

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericcropp/Data-Sharing/internal/container"
	"github.com/ericcropp/Data-Sharing/internal/ensemble"
)

func TestBuildTreeRequiresFinalized(t *testing.T) {
	d := newTestPoint(t)

	_, err := d.BuildTree()
	assert.True(t, IsStateError(err), "serializing an unfinalized point must fail")

	require.NoError(t, d.Finalize())
	_, err = d.BuildTree()
	require.NoError(t, err)

	// Mutation after finalize invalidates the derived state again.
	require.NoError(t, d.AddRunInformation("FACET-II", "2026-03-19", "rerun"))
	_, err = d.BuildTree()
	assert.True(t, IsStateError(err))
}

func TestBuildTreeLayout(t *testing.T) {
	d := newTestPoint(t)
	require.NoError(t, d.AddSummary([]string{"beam_current"}, SelectorFinal()))
	require.NoError(t, d.Finalize())

	root, err := d.BuildTree()
	require.NoError(t, err)

	id, ok := root.Attr("ID")
	require.True(t, ok)
	assert.Equal(t, d.ID(), id)
	src, _ := root.Attr("run_information_source")
	assert.Equal(t, "FACET-II", src)
	current, _ := root.Attr("beam_current")
	assert.Equal(t, 2000.0, current, "summary values land as root attributes")
	sel, _ := root.Attr("summary_location")
	assert.Equal(t, "final", sel)

	inputs, ok := root.Group("inputs")
	require.True(t, ok)
	ds, ok := inputs.Dataset("beam_current")
	require.True(t, ok)
	assert.Equal(t, container.Float(2000), ds.Value)
	units, _ := ds.Attr("units")
	assert.Equal(t, "A", units)
	rawUnits, _ := ds.Attr("raw_units")
	assert.Equal(t, "kA", rawUnits)
	rawValue, _ := ds.Attr("raw_value")
	assert.Equal(t, 2.0, rawValue)

	dist, ok := inputs.Dataset("input_distribution")
	require.True(t, ok)
	assert.Equal(t, container.Float2D{{0, 1, 2}, {3, 4, 5}}, dist.Value)
	cal, _ := dist.Attr("pixel_calibration")
	assert.Equal(t, 4.6e-6, cal)

	lattice, ok := root.Group("lattice")
	require.True(t, ok)
	loc, ok := lattice.Dataset("lattice_location")
	require.True(t, ok)
	assert.Equal(t, container.String(LatticeIncluded), loc.Value)
	files, ok := lattice.Group("lattice_files")
	require.True(t, ok)
	gun, ok := files.Dataset("gun.lat")
	require.True(t, ok)
	assert.Equal(t, container.String("! gun section\n"), gun.Value)

	obs, ok := root.Group("observables")
	require.True(t, ok)
	energy, ok := obs.Dataset("energy")
	require.True(t, ok)
	assert.Equal(t, container.FloatArray{10, 20, 30}, energy.Value)
	dtype, _ := energy.Attr("datum_type")
	assert.Equal(t, "scalar", dtype)
	locs, _ := energy.Attr("location")
	assert.Equal(t, []float64{0.5, 1.0, 2.0}, locs)

	_, ok = root.Group("simulation_information")
	assert.False(t, ok, "experimental points carry no simulation group")
}

func TestBuildTreeSimulationGroup(t *testing.T) {
	d := newTestPoint(t)
	require.NoError(t, d.AddSimulationData(
		"2026-03-18T09:00:00Z", "2026-03-18T09:12:41Z", "impact-t", "&input\n/\n"))
	require.NoError(t, d.Finalize())

	root, err := d.BuildTree()
	require.NoError(t, err)

	sim, ok := root.Group("simulation_information")
	require.True(t, ok)
	code, _ := sim.Attr("simulation_code")
	assert.Equal(t, "impact-t", code)
	input, ok := sim.Dataset("simulation_input_file")
	require.True(t, ok)
	assert.Equal(t, container.String("&input\n/\n"), input.Value)
}

func TestBuildTreeParticleEnsemble(t *testing.T) {
	pg, err := ensemble.FromColumns(map[string][]float64{
		"x": {1e-4, -2e-4}, "px": {10, 20},
		"y": {0, 0}, "py": {0, 0},
		"z": {0.5, 0.5}, "pz": {1e6, 1.1e6},
	}, "electron")
	require.NoError(t, err)

	d := newTestPoint(t)
	require.NoError(t, d.AddOutput(OutputSpec{
		Name:     "exit_beam",
		Type:     DatumDistribution,
		Location: LocCoord(14.2),
		Data:     []Datum{Distribution{Particles: pg}},
	}))
	require.NoError(t, d.Finalize())

	root, err := d.BuildTree()
	require.NoError(t, err)

	obs, _ := root.Group("observables")
	beam, ok := obs.Group("exit_beam")
	require.True(t, ok)
	x, ok := beam.Dataset("x")
	require.True(t, ok)
	assert.Equal(t, container.FloatArray{1e-4, -2e-4}, x.Value)
	status, ok := beam.Dataset("status")
	require.True(t, ok)
	assert.Equal(t, container.IntArray{1, 1}, status.Value)
	species, _ := beam.Attr("species")
	assert.Equal(t, "electron", species)
	n, _ := beam.Attr("n_particle")
	assert.Equal(t, int64(2), n)
}

func TestSerializeRoundTrip(t *testing.T) {
	d := newTestPoint(t)
	require.NoError(t, d.AddSummary([]string{"beam_current", "ID"}, SelectorFinal()))
	require.NoError(t, d.Finalize())

	path := filepath.Join(t.TempDir(), d.ID()+container.FileExt)
	require.NoError(t, d.Serialize(path))

	got, err := container.ReadFile(path)
	require.NoError(t, err)

	want, err := d.BuildTree()
	require.NoError(t, err)
	assert.True(t, container.Equal(want, got),
		"a serialized point must read back structurally identical")

	id, _ := got.Attr("ID")
	assert.Equal(t, d.ID(), id)
}
