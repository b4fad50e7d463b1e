package source

import (
	"context"
	"database/sql"
	"os"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"jvanrhyn.dev/disklayers/internal/layout"
)

// DefaultQuery reads the table written by SaveSQLite. Custom queries must
// return the same five columns in this order.
const DefaultQuery = `SELECT id, parent_id, name, kind, size FROM records`

const createRecords = `CREATE TABLE IF NOT EXISTS records (
	id        TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL,
	name      TEXT NOT NULL,
	kind      TEXT NOT NULL,
	size      INTEGER NOT NULL DEFAULT 0
)`

const insertBatch = 500

// LoadSQLite reads records from a SQLite database.
func LoadSQLite(ctx context.Context, dbPath, query string) ([]layout.Record, error) {
	if query == "" {
		query = DefaultQuery
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "query records")
	}
	defer rows.Close()

	var recs []layout.Record
	for rows.Next() {
		var (
			id, parent, name, kind string
			size                   sql.NullInt64
		)
		if err := rows.Scan(&id, &parent, &name, &kind, &size); err != nil {
			return nil, err
		}
		k, err := layout.ParseKind(kind)
		if err != nil {
			return nil, errors.Wrapf(err, "record %q", id)
		}
		recs = append(recs, layout.Record{
			ID:       layout.ID(id),
			ParentID: layout.ID(parent),
			Name:     name,
			Kind:     k,
			Size:     size.Int64,
		})
	}
	return recs, rows.Err()
}

// SaveSQLite replaces the records table of dbPath with recs.
func SaveSQLite(ctx context.Context, dbPath string, recs []layout.Record) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, createRecords); err != nil {
		return errors.Wrap(err, "create records table")
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return err
	}

	for start := 0; start < len(recs); start += insertBatch {
		end := min(start+insertBatch, len(recs))
		if err := insertRecords(ctx, db, recs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func insertRecords(ctx context.Context, db *sql.DB, recs []layout.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (id, parent_id, name, kind, size) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.ExecContext(ctx, string(r.ID), string(r.ParentID), r.Name, r.Kind.String(), r.Size); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "insert %q", r.ID)
		}
	}
	return tx.Commit()
}
