package zombiezen

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/revelaction/corefbridge/chain"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/storage"
)

type DocStore struct {
	pool *sqlitex.Pool
}

var _ storage.DocRepository = (*DocStore)(nil)

func NewDocStore(pool *sqlitex.Pool) *DocStore {
	return &DocStore{pool: pool}
}

// ContentHash is the hex BLAKE3 digest of the document text followed by its
// serialized annotations. Equal hashes mean nothing to export.
func ContentHash(doc storage.Doc) (string, error) {
	h := blake3.New()
	if _, err := io.WriteString(h, doc.Text); err != nil {
		return "", err
	}
	if doc.Ann != nil {
		h.Write([]byte{0})
		if err := standoff.Write(h, doc.Ann); err != nil {
			return "", err
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (h *DocStore) List(match string) ([]string, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer h.pool.Put(conn)

	var names []string
	err = sqlitex.Execute(conn, "SELECT name FROM docs WHERE instr(name, ?) > 0 ORDER BY name", &sqlitex.ExecOptions{
		Args: []any{match},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			names = append(names, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Hash returns the stored content hash of name.
func (h *DocStore) Hash(name string) (string, bool, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return "", false, err
	}
	defer h.pool.Put(conn)

	var hash string
	found := false
	err = sqlitex.Execute(conn, "SELECT hash FROM docs WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			hash = stmt.ColumnText(0)
			found = true
			return nil
		},
	})
	return hash, found, err
}

func (h *DocStore) Read(name string) (storage.Doc, error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return storage.Doc{}, err
	}
	defer h.pool.Put(conn)

	doc := storage.Doc{Name: name, Ann: &standoff.Document{}}
	var docID int64
	found := false

	err = sqlitex.Execute(conn, "SELECT id, text FROM docs WHERE name = ?", &sqlitex.ExecOptions{
		Args: []any{name},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			docID = stmt.ColumnInt64(0)
			doc.Text = stmt.ColumnText(1)
			found = true
			return nil
		},
	})
	if err != nil {
		return storage.Doc{}, err
	}
	if !found {
		return storage.Doc{}, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}

	ann := doc.Ann
	err = sqlitex.Execute(conn, "SELECT tid, type, spans, text FROM mentions WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []any{docID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			spans, err := standoff.ParseSpans(stmt.ColumnText(2))
			if err != nil {
				return err
			}
			ann.Entities = append(ann.Entities, standoff.Entity{
				ID:         stmt.ColumnInt(0),
				Type:       stmt.ColumnText(1),
				Spans:      spans,
				Text:       stmt.ColumnText(3),
				Attributes: map[string]string{},
				IsSplit:    len(spans) > 1,
			})
			return nil
		},
	})
	if err != nil {
		return storage.Doc{}, err
	}

	err = sqlitex.Execute(conn, "SELECT rid, type, arg1, arg2 FROM relations WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []any{docID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ann.Relations = append(ann.Relations, standoff.Relation{
				ID:   stmt.ColumnInt(0),
				Type: stmt.ColumnText(1),
				Arg1: stmt.ColumnInt(2),
				Arg2: stmt.ColumnInt(3),
			})
			return nil
		},
	})
	if err != nil {
		return storage.Doc{}, err
	}

	err = sqlitex.Execute(conn, "SELECT aid, name, target, value FROM attributes WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []any{docID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ann.Attributes = append(ann.Attributes, standoff.Attribute{
				ID:     stmt.ColumnInt(0),
				Name:   stmt.ColumnText(1),
				Target: stmt.ColumnInt(2),
				Value:  stmt.ColumnText(3),
			})
			return nil
		},
	})
	if err != nil {
		return storage.Doc{}, err
	}

	err = sqlitex.Execute(conn, "SELECT nid, kind, target, text FROM notes WHERE doc_id = ? ORDER BY rowid", &sqlitex.ExecOptions{
		Args: []any{docID},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			ann.Notes = append(ann.Notes, standoff.Note{
				ID:         stmt.ColumnInt(0),
				TargetKind: stmt.ColumnText(1),
				Target:     stmt.ColumnInt(2),
				Text:       stmt.ColumnText(3),
			})
			return nil
		},
	})
	if err != nil {
		return storage.Doc{}, err
	}

	for _, a := range ann.Attributes {
		for i := range ann.Entities {
			if ann.Entities[i].ID == a.Target {
				ann.Entities[i].Attributes[a.Name] = a.Value
			}
		}
	}

	return doc, nil
}

func (h *DocStore) Write(doc storage.Doc) (err error) {
	conn, err := h.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer h.pool.Put(conn)

	// Start Transaction
	defer sqlitex.Save(conn)(&err)

	hash, err := ContentHash(doc)
	if err != nil {
		return err
	}

	if err = deleteDoc(conn, doc.Name); err != nil {
		return err
	}

	err = sqlitex.Execute(conn, "INSERT INTO docs (name, text, hash) VALUES (?, ?, ?)", &sqlitex.ExecOptions{
		Args: []any{doc.Name, doc.Text, hash},
	})
	if err != nil {
		return fmt.Errorf("failed to insert doc: %w", err)
	}
	docID := conn.LastInsertRowID()

	if doc.Ann == nil {
		return nil
	}

	chainOf := chain.Of(doc.Chains())
	for _, e := range doc.Ann.Entities {
		var chainID any
		if c, ok := chainOf[e.ID]; ok {
			chainID = c
		}

		err = sqlitex.Execute(conn, "INSERT INTO mentions (doc_id, tid, type, spans, text, chain) VALUES (?, ?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, e.ID, e.Type, standoff.FormatSpans(e.Spans), e.Text, chainID},
		})
		if err != nil {
			return fmt.Errorf("failed to insert mention T%d: %w", e.ID, err)
		}
	}

	for _, r := range doc.Ann.Relations {
		err = sqlitex.Execute(conn, "INSERT INTO relations (doc_id, rid, type, arg1, arg2) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, r.ID, r.Type, r.Arg1, r.Arg2},
		})
		if err != nil {
			return fmt.Errorf("failed to insert relation R%d: %w", r.ID, err)
		}
	}

	for _, a := range doc.Ann.Attributes {
		err = sqlitex.Execute(conn, "INSERT INTO attributes (doc_id, aid, name, target, value) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, a.ID, a.Name, a.Target, a.Value},
		})
		if err != nil {
			return fmt.Errorf("failed to insert attribute A%d: %w", a.ID, err)
		}
	}

	for _, n := range doc.Ann.Notes {
		err = sqlitex.Execute(conn, "INSERT INTO notes (doc_id, nid, kind, target, text) VALUES (?, ?, ?, ?, ?)", &sqlitex.ExecOptions{
			Args: []any{docID, n.ID, n.TargetKind, n.Target, n.Text},
		})
		if err != nil {
			return fmt.Errorf("failed to insert note #%d: %w", n.ID, err)
		}
	}

	return nil
}

func deleteDoc(conn *sqlite.Conn, name string) error {
	for _, table := range []string{"mentions", "relations", "attributes", "notes"} {
		q := fmt.Sprintf("DELETE FROM %s WHERE doc_id IN (SELECT id FROM docs WHERE name = ?)", table)
		if err := sqlitex.Execute(conn, q, &sqlitex.ExecOptions{Args: []any{name}}); err != nil {
			return fmt.Errorf("failed to delete %s of %s: %w", table, name, err)
		}
	}

	return sqlitex.Execute(conn, "DELETE FROM docs WHERE name = ?", &sqlitex.ExecOptions{Args: []any{name}})
}
