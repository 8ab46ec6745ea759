package container

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Artifact format version, stored in PRAGMA user_version.
const formatVersion = 1

// WriteFile serializes a container tree to path as a single SQLite file.
//
// The write is atomic: the tree goes to a uuid-suffixed temporary file in
// the destination directory, which is renamed over path only after the
// database has been fully written and closed. On any failure the temporary
// file is removed and the destination is left untouched.
func WriteFile(path string, root *Group) (err error) {
	if root == nil {
		return fmt.Errorf("write container: nil root")
	}
	tmp := filepath.Join(filepath.Dir(path),
		"."+filepath.Base(path)+".tmp-"+uuid.NewString())
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if err := writeDB(tmp, root); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write container: %w", err)
	}
	return nil
}

// writeDB creates the SQLite file at tmp and writes the whole tree in one
// transaction. The handle is closed on all exit paths.
func writeDB(tmp string, root *Group) (err error) {
	db, err := sql.Open("sqlite3", tmp)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close database: %w", cerr)
		}
	}()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", formatVersion)); err != nil {
		return fmt.Errorf("set format version: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	rootID, err := insertNode(tx, sql.NullInt64{}, "/", "group", 0)
	if err != nil {
		return err
	}
	if err := writeAttrs(tx, rootID, root.attrs); err != nil {
		return err
	}
	if err := writeChildren(tx, rootID, root); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func writeChildren(tx *sql.Tx, parentID int64, g *Group) error {
	for pos, name := range g.Names() {
		parent := sql.NullInt64{Int64: parentID, Valid: true}
		if child, ok := g.Group(name); ok {
			id, err := insertNode(tx, parent, name, "group", pos)
			if err != nil {
				return err
			}
			if err := writeAttrs(tx, id, child.attrs); err != nil {
				return err
			}
			if err := writeChildren(tx, id, child); err != nil {
				return err
			}
			continue
		}
		ds, _ := g.Dataset(name)
		id, err := insertNode(tx, parent, name, "dataset", pos)
		if err != nil {
			return err
		}
		dtype, rows, cols, data, err := encodeValue(ds.Value)
		if err != nil {
			return fmt.Errorf("dataset %q: %w", name, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO datasets (node_id, dtype, rows, cols, data)
			VALUES (?, ?, ?, ?, ?)
		`, id, dtype, rows, cols, data); err != nil {
			return fmt.Errorf("insert dataset %q: %w", name, err)
		}
		if err := writeAttrs(tx, id, ds.attrs); err != nil {
			return err
		}
	}
	return nil
}

func insertNode(tx *sql.Tx, parent sql.NullInt64, name, kind string, pos int) (int64, error) {
	res, err := tx.Exec(`
		INSERT INTO nodes (parent_id, name, kind, position)
		VALUES (?, ?, ?, ?)
	`, parent, name, kind, pos)
	if err != nil {
		return 0, fmt.Errorf("insert node %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert node %q: %w", name, err)
	}
	return id, nil
}

func writeAttrs(tx *sql.Tx, nodeID int64, attrs map[string]any) error {
	for _, key := range sortedAttrKeys(attrs) {
		dtype, data, err := encodeAttr(attrs[key])
		if err != nil {
			return fmt.Errorf("attr %q: %w", key, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO attrs (node_id, key, dtype, data)
			VALUES (?, ?, ?, ?)
		`, nodeID, key, dtype, data); err != nil {
			return fmt.Errorf("insert attr %q: %w", key, err)
		}
	}
	return nil
}
