package container

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// ReadFile loads a container tree from a serialized artifact.
func ReadFile(path string) (root *Group, err error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+url.PathEscape(path)+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("read container: open: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("read container: close: %w", cerr)
		}
	}()

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return nil, fmt.Errorf("read container: format version: %w", err)
	}
	if version != formatVersion {
		return nil, fmt.Errorf("read container: unsupported format version %d", version)
	}

	root, err = readTree(db)
	if err != nil {
		return nil, fmt.Errorf("read container: %w", err)
	}
	return root, nil
}

func readTree(db *sql.DB) (*Group, error) {
	rows, err := db.Query(`
		SELECT n.id, n.parent_id, n.name, n.kind,
		       d.dtype, d.rows, d.cols, d.data
		FROM nodes n
		LEFT JOIN datasets d ON d.node_id = n.id
		ORDER BY n.parent_id, n.position
	`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var root *Group
	groups := map[int64]*Group{}
	datasets := map[int64]*Dataset{}
	for rows.Next() {
		var (
			id     int64
			parent sql.NullInt64
			name   string
			kind   string
			dtype  sql.NullString
			nrows  sql.NullInt64
			ncols  sql.NullInt64
			data   []byte
		)
		if err := rows.Scan(&id, &parent, &name, &kind, &dtype, &nrows, &ncols, &data); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}

		if !parent.Valid {
			if root != nil {
				return nil, fmt.Errorf("multiple root nodes")
			}
			if kind != "group" {
				return nil, fmt.Errorf("root node is not a group")
			}
			root = NewRoot()
			groups[id] = root
			continue
		}

		// Parents sort before children (lower rowid), so the parent
		// group is always resolved by the time its children arrive.
		parentGroup, ok := groups[parent.Int64]
		if !ok {
			return nil, fmt.Errorf("node %q: unknown parent %d", name, parent.Int64)
		}
		switch kind {
		case "group":
			child, err := parentGroup.CreateGroup(name)
			if err != nil {
				return nil, err
			}
			groups[id] = child
		case "dataset":
			if !dtype.Valid {
				return nil, fmt.Errorf("dataset %q: missing payload row", name)
			}
			value, err := decodeValue(dtype.String, nrows.Int64, ncols.Int64, data)
			if err != nil {
				return nil, fmt.Errorf("dataset %q: %w", name, err)
			}
			child, err := parentGroup.CreateDataset(name, value)
			if err != nil {
				return nil, err
			}
			datasets[id] = child
		default:
			return nil, fmt.Errorf("node %q: unknown kind %q", name, kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("artifact has no root node")
	}

	if err := readAttrs(db, groups, datasets); err != nil {
		return nil, err
	}
	return root, nil
}

func readAttrs(db *sql.DB, groups map[int64]*Group, datasets map[int64]*Dataset) error {
	rows, err := db.Query(`SELECT node_id, key, dtype, data FROM attrs`)
	if err != nil {
		return fmt.Errorf("query attrs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			nodeID int64
			key    string
			dtype  string
			data   []byte
		)
		if err := rows.Scan(&nodeID, &key, &dtype, &data); err != nil {
			return fmt.Errorf("scan attr: %w", err)
		}
		value, err := decodeAttr(dtype, data)
		if err != nil {
			return fmt.Errorf("attr %q: %w", key, err)
		}
		if g, ok := groups[nodeID]; ok {
			if err := g.SetAttr(key, value); err != nil {
				return err
			}
		} else if d, ok := datasets[nodeID]; ok {
			if err := d.SetAttr(key, value); err != nil {
				return err
			}
		} else {
			return fmt.Errorf("attr %q: unknown node %d", key, nodeID)
		}
	}
	return rows.Err()
}
