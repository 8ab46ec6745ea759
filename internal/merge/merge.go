// Package merge combines a directory of per-shot container files into a
// single shareable artifact, driven by the summary_table.yaml manifest.
package merge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/ericcropp/Data-Sharing/internal/container"
)

// Merger accumulates per-shot containers into one merged tree.
type Merger struct {
	log *zap.Logger
}

// New returns a Merger logging through log.
func New(log *zap.Logger) *Merger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Merger{log: log}
}

// Merge reads the manifest in inputDir, loads each listed shot container,
// and writes the combined artifact to outPath.
//
// Layout of the merged tree:
//
//	/<ID>          one group per shot, the shot's full tree
//	/lattice       promoted from the first shot; later shots' lattices are
//	               compared structurally and dropped, with a warning when
//	               they differ
//	/summary_yaml  one index-aligned attribute array per manifest field
//
// Invalid manifest entries and missing container files are logged and
// skipped; a duplicate ID aborts the merge.
func (m *Merger) Merge(inputDir, outPath string) error {
	manifest, err := ReadManifest(filepath.Join(inputDir, ManifestName))
	if err != nil {
		return err
	}

	out := container.NewRoot()
	merged := 0
	for i, entry := range manifest.Entries {
		if err := validateEntry(entry); err != nil {
			m.log.Warn("skipping invalid manifest entry",
				zap.Int("entry", i), zap.Error(err))
			continue
		}
		id := entry.ID()

		if _, exists := out.Group(id); exists {
			return fmt.Errorf("duplicate ID %q in manifest", id)
		}

		path := filepath.Join(inputDir, id+container.FileExt)
		shot, err := container.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				m.log.Warn("shot container not found, skipping",
					zap.String("id", id), zap.String("path", path))
				continue
			}
			return fmt.Errorf("read shot %s: %w", id, err)
		}
		if err := out.Attach(id, shot); err != nil {
			return fmt.Errorf("attach shot %s: %w", id, err)
		}
		merged++
		m.log.Info("merged shot", zap.String("id", id))
	}

	m.promoteLattice(out)
	if err := m.writeSummaryTable(out, manifest); err != nil {
		return err
	}

	if err := container.WriteFile(outPath, out); err != nil {
		return fmt.Errorf("write merged artifact: %w", err)
	}
	m.log.Info("merge complete",
		zap.Int("shots", merged),
		zap.Int("manifest_entries", len(manifest.Entries)),
		zap.String("output", outPath))
	return nil
}

// promoteLattice moves the first shot's lattice group to the merged root
// and drops the rest, warning when a dropped lattice differs structurally
// from the promoted one.
func (m *Merger) promoteLattice(out *container.Group) {
	var promoted *container.Group
	var promotedFrom string
	for _, name := range out.Names() {
		shot, ok := out.Group(name)
		if !ok {
			continue
		}
		lattice, ok := shot.Group("lattice")
		if !ok {
			m.log.Warn("shot has no lattice group", zap.String("id", name))
			continue
		}
		shot.Remove("lattice")
		if promoted == nil {
			promoted = lattice
			promotedFrom = name
			continue
		}
		if !container.Equal(promoted, lattice) {
			m.log.Warn("lattice differs between shots; keeping the first",
				zap.String("kept_from", promotedFrom),
				zap.String("dropped_from", name))
		}
	}
	if promoted != nil {
		// Names are shot IDs (hex), so "lattice" cannot collide.
		if err := out.Attach("lattice", promoted); err != nil {
			m.log.Error("promote lattice", zap.Error(err))
		}
	}
}

// writeSummaryTable stores the manifest as a summary_yaml group carrying
// one attribute array per field, index-aligned across all manifest entries.
func (m *Merger) writeSummaryTable(out *container.Group, manifest *Manifest) error {
	if len(manifest.Entries) == 0 {
		return nil
	}
	table, err := out.CreateGroup("summary_yaml")
	if err != nil {
		return fmt.Errorf("create summary table: %w", err)
	}
	for _, key := range manifest.Keys {
		if err := table.SetAttr(key, columnValues(manifest.Entries, key)); err != nil {
			return fmt.Errorf("summary table field %q: %w", key, err)
		}
	}
	return nil
}

// columnValues extracts one field across all entries. An all-numeric column
// becomes a float array; anything else is rendered to strings, with missing
// values as "".
func columnValues(entries []Entry, key string) any {
	numeric := true
	for _, e := range entries {
		if _, ok := e[key].(float64); !ok {
			numeric = false
			break
		}
	}
	if numeric {
		col := make([]float64, len(entries))
		for i, e := range entries {
			col[i] = e[key].(float64)
		}
		return col
	}
	col := make([]string, len(entries))
	for i, e := range entries {
		col[i] = renderValue(e[key])
	}
	return col
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
