package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"jvanrhyn.dev/disklayers/internal/layout"
)

// Options configure Load and Save.
type Options struct {
	// Selector is the JSONPath used for JSON snapshots.
	Selector string
	// Query is the SQL used for SQLite snapshots.
	Query string
	// Scanner is used when the source is a directory.
	Scanner *Scanner
	Logger  *zap.Logger
}

// Kind of a source path.
type Kind int

const (
	KindJSON Kind = iota
	KindSQLite
	KindDirectory
)

// Detect classifies path. Directories are scanned, .db/.sqlite/.sqlite3 files
// are SQLite snapshots and everything else is read as (possibly compressed)
// JSON.
func Detect(path string) Kind {
	if path != "-" {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			return KindDirectory
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite
	}
	return KindJSON
}

// Load reads the records of path according to Detect.
func Load(ctx context.Context, path string, opts Options) ([]layout.Record, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	switch Detect(path) {
	case KindDirectory:
		sc := opts.Scanner
		if sc == nil {
			sc = &Scanner{Logger: log}
		}
		res, err := sc.Scan(ctx, path)
		if err != nil {
			return nil, err
		}
		for _, e := range res.Errors {
			log.Warn("unreadable entry", zap.Error(e))
		}
		return res.Records, nil
	case KindSQLite:
		return LoadSQLite(ctx, path, opts.Query)
	}

	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	recs, err := LoadJSON(rc, opts.Selector)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	log.Debug("loaded snapshot", zap.String("path", path), zap.Int("records", len(recs)))
	return recs, nil
}

// Save writes recs to path as a SQLite or JSON snapshot, chosen by extension.
func Save(ctx context.Context, path string, recs []layout.Record) error {
	if Detect(path) == KindSQLite {
		return SaveSQLite(ctx, path, recs)
	}
	wc, err := Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(wc, recs); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}
