package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/ericcropp/Data-Sharing/internal/container"
	"github.com/ericcropp/Data-Sharing/internal/record"
)

// buildShot finalizes and serializes one shot into dir, returning the
// point for its ID and summary.
func buildShot(t *testing.T, dir string, phase float64, latticeLoc string) *record.DataPoint {
	t.Helper()
	d := record.New()
	require.NoError(t, d.AddScalarInputs([]record.ScalarInputSpec{
		{Name: "gun_phase", Value: phase, Units: "deg", Location: record.LocName("GUN")},
	}))
	require.NoError(t, d.AddInputDistribution(
		record.Image{{1, 2}, {3, 4}}, map[string]any{"pixel_calibration": 4.6e-6}))
	require.NoError(t, d.AddLattice(latticeLoc, nil))
	require.NoError(t, d.AddOutput(record.OutputSpec{
		Name:     "energy",
		Type:     record.DatumScalar,
		Location: record.LocName("SPECT"),
		Data:     []record.Datum{record.Scalar(100 + phase)},
		Units:    "eV",
	}))
	require.NoError(t, d.AddSummary([]string{"gun_phase", "energy", "ID"}, record.SelectorFinal()))
	require.NoError(t, d.AddRunInformation("FACET-II", "2026-03-18", "phase scan"))
	require.NoError(t, d.Finalize())
	require.NoError(t, d.Serialize(filepath.Join(dir, d.ID()+container.FileExt)))
	return d
}

func writeManifest(t *testing.T, dir string, points ...*record.DataPoint) {
	t.Helper()
	var table []map[string]any
	for _, d := range points {
		entry := map[string]any{}
		for _, key := range d.Summary.ComputedKeys {
			entry[key] = d.Summary.Computed[key]
		}
		table = append(table, entry)
	}
	raw, err := yaml.Marshal(table)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), raw, 0o644))
}

func TestMergeCombinesShots(t *testing.T) {
	dir := t.TempDir()
	lattice := "https://lattice.example/rev/42"
	a := buildShot(t, dir, 28.5, lattice)
	b := buildShot(t, dir, 29.5, lattice)
	writeManifest(t, dir, a, b)

	out := filepath.Join(t.TempDir(), "combined"+container.FileExt)
	require.NoError(t, New(zaptest.NewLogger(t)).Merge(dir, out))

	root, err := container.ReadFile(out)
	require.NoError(t, err)

	for _, d := range []*record.DataPoint{a, b} {
		shot, ok := root.Group(d.ID())
		require.True(t, ok, "each shot lands under its ID")
		id, _ := shot.Attr("ID")
		assert.Equal(t, d.ID(), id)
		_, ok = shot.Group("lattice")
		assert.False(t, ok, "per-shot lattice groups are removed")
		_, ok = shot.Group("observables")
		assert.True(t, ok, "the rest of the shot tree is kept")
	}

	lat, ok := root.Group("lattice")
	require.True(t, ok, "the first lattice is promoted to the root")
	loc, ok := lat.Dataset("lattice_location")
	require.True(t, ok)
	assert.Equal(t, container.String(lattice), loc.Value)
}

func TestMergeSummaryTable(t *testing.T) {
	dir := t.TempDir()
	lattice := "https://lattice.example/rev/42"
	a := buildShot(t, dir, 28.5, lattice)
	b := buildShot(t, dir, 29.5, lattice)
	writeManifest(t, dir, a, b)

	out := filepath.Join(t.TempDir(), "combined"+container.FileExt)
	require.NoError(t, New(zaptest.NewLogger(t)).Merge(dir, out))

	root, err := container.ReadFile(out)
	require.NoError(t, err)
	table, ok := root.Group("summary_yaml")
	require.True(t, ok)

	ids, _ := table.Attr("ID")
	assert.ElementsMatch(t, []string{a.ID(), b.ID()}, ids,
		"string columns become index-aligned string arrays")
	phases, _ := table.Attr("gun_phase")
	assert.ElementsMatch(t, []float64{28.5, 29.5}, phases,
		"numeric columns become float arrays")
	energies, _ := table.Attr("energy")
	assert.ElementsMatch(t, []float64{128.5, 129.5}, energies)
}

func TestMergeSkipsMissingShots(t *testing.T) {
	dir := t.TempDir()
	a := buildShot(t, dir, 28.5, "https://lattice.example/rev/42")
	b := buildShot(t, dir, 29.5, "https://lattice.example/rev/42")
	writeManifest(t, dir, a, b)
	require.NoError(t, os.Remove(filepath.Join(dir, b.ID()+container.FileExt)))

	out := filepath.Join(t.TempDir(), "combined"+container.FileExt)
	require.NoError(t, New(zaptest.NewLogger(t)).Merge(dir, out))

	root, err := container.ReadFile(out)
	require.NoError(t, err)
	_, ok := root.Group(a.ID())
	assert.True(t, ok)
	_, ok = root.Group(b.ID())
	assert.False(t, ok, "missing shots are skipped, not fatal")

	// The manifest row of the skipped shot still appears in the table.
	table, _ := root.Group("summary_yaml")
	ids, _ := table.Attr("ID")
	assert.Len(t, ids, 2)
}

func TestMergeDivergentLattices(t *testing.T) {
	dir := t.TempDir()
	a := buildShot(t, dir, 28.5, "https://lattice.example/rev/42")
	b := buildShot(t, dir, 29.5, "https://lattice.example/rev/43")
	writeManifest(t, dir, a, b)

	out := filepath.Join(t.TempDir(), "combined"+container.FileExt)
	require.NoError(t, New(zaptest.NewLogger(t)).Merge(dir, out))

	root, err := container.ReadFile(out)
	require.NoError(t, err)
	lat, ok := root.Group("lattice")
	require.True(t, ok)
	loc, _ := lat.Dataset("lattice_location")
	assert.Equal(t, container.String("https://lattice.example/rev/42"), loc.Value,
		"the first shot's lattice wins")
}

func TestMergeRefusesDuplicateIDs(t *testing.T) {
	dir := t.TempDir()
	a := buildShot(t, dir, 28.5, "https://lattice.example/rev/42")
	writeManifest(t, dir, a, a)

	out := filepath.Join(t.TempDir(), "combined"+container.FileExt)
	err := New(zaptest.NewLogger(t)).Merge(dir, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate ID")
}

func TestMergeSkipsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	a := buildShot(t, dir, 28.5, "https://lattice.example/rev/42")

	manifest := fmt.Sprintf("- gun_phase: 29.5\n- ID: %s\n  gun_phase: 28.5\n", a.ID())
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644))

	out := filepath.Join(t.TempDir(), "combined"+container.FileExt)
	require.NoError(t, New(zaptest.NewLogger(t)).Merge(dir, out))

	root, err := container.ReadFile(out)
	require.NoError(t, err)
	_, ok := root.Group(a.ID())
	assert.True(t, ok, "valid entries still merge when an invalid one is skipped")
}

func TestReadManifestPreservesKeyOrder(t *testing.T) {
	dir := t.TempDir()
	manifest := "- ID: abc\n  zeta: 1.0\n  alpha: 2.0\n- ID: def\n  zeta: 3.0\n  alpha: 4.0\n"
	path := filepath.Join(dir, ManifestName)
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	m, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "zeta", "alpha"}, m.Keys,
		"field order follows the first entry's document order")
	require.Len(t, m.Entries, 2)
	assert.Equal(t, "abc", m.Entries[0].ID())
	assert.Equal(t, 1.0, m.Entries[0]["zeta"], "integers widen to float64")
}

func TestValidateEntry(t *testing.T) {
	assert.NoError(t, validateEntry(Entry{"ID": "abc", "gun_phase": 28.5}))
	assert.Error(t, validateEntry(Entry{"gun_phase": 28.5}), "ID is required")
	assert.Error(t, validateEntry(Entry{"ID": ""}), "ID must be non-empty")
}
