package source

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jvanrhyn.dev/disklayers/internal/layout"
)

// RootID is the id given to the scanned directory itself.
const RootID layout.ID = "."

// Scanner walks a directory tree and emits one record per entry. Record ids
// are slash separated paths relative to the scanned root.
type Scanner struct {
	Threads        int
	FollowSymlinks bool
	Logger         *zap.Logger
}

// ScanResult holds the records of one scan. Errors lists directories that
// could not be read; they appear as empty folders.
type ScanResult struct {
	Records []layout.Record
	Errors  []error
}

type scanState struct {
	mu      sync.Mutex
	records []layout.Record
	errs    []error
	seen    sync.Map // resolved dir path -> struct{}, only with FollowSymlinks
}

func (st *scanState) add(r layout.Record) {
	st.mu.Lock()
	st.records = append(st.records, r)
	st.mu.Unlock()
}

func (st *scanState) fail(err error) {
	st.mu.Lock()
	st.errs = append(st.errs, err)
	st.mu.Unlock()
}

// Scan walks root. Subdirectories are read concurrently, bounded by Threads.
// The result is sorted by id so repeated scans of an unchanged tree are equal.
func (s *Scanner) Scan(ctx context.Context, root string) (*ScanResult, error) {
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, &fs.PathError{Op: "scan", Path: abs, Err: layout.ErrNotAFolder}
	}

	threads := s.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0) * 4
	}

	name := filepath.Base(abs)
	if name == "/" || name == "." || name == "" {
		name = abs
	}
	st := &scanState{}
	st.add(layout.Record{ID: RootID, ParentID: RootID, Name: name, Kind: layout.Folder})
	if s.FollowSymlinks {
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			st.seen.Store(resolved, struct{}{})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	var visit func(dir string, id layout.ID) error
	visit = func(dir string, id layout.ID) error {
		if err := gctx.Err(); err != nil {
			return err
		}
		ents, err := os.ReadDir(dir)
		if err != nil {
			log.Debug("read dir failed", zap.String("path", dir), zap.Error(err))
			st.fail(err)
			return nil
		}
		for _, e := range ents {
			childPath := filepath.Join(dir, e.Name())
			childID := layout.ID(path.Join(string(id), e.Name()))

			isDir := e.IsDir()
			var size int64
			if e.Type()&fs.ModeSymlink != 0 {
				if !s.FollowSymlinks {
					continue
				}
				target, err := os.Stat(childPath)
				if err != nil {
					st.fail(err)
					continue
				}
				isDir = target.IsDir()
				size = target.Size()
				if isDir && !s.firstVisit(st, childPath) {
					continue
				}
			} else if !isDir {
				info, err := e.Info()
				if err != nil {
					st.fail(err)
					continue
				}
				size = info.Size()
			}

			if !isDir {
				st.add(layout.Record{ID: childID, ParentID: id, Name: e.Name(), Kind: layout.Document, Size: size})
				continue
			}
			st.add(layout.Record{ID: childID, ParentID: id, Name: e.Name(), Kind: layout.Folder})
			// Fall back to walking inline when every worker is busy so a
			// full pool never waits on itself.
			if !g.TryGo(func() error { return visit(childPath, childID) }) {
				if err := visit(childPath, childID); err != nil {
					return err
				}
			}
		}
		return nil
	}

	g.Go(func() error { return visit(abs, RootID) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(st.records, func(i, j int) bool { return st.records[i].ID < st.records[j].ID })
	log.Info("scan complete",
		zap.String("root", abs),
		zap.Int("records", len(st.records)),
		zap.Int("errors", len(st.errs)))
	return &ScanResult{Records: st.records, Errors: st.errs}, nil
}

// firstVisit guards followed symlinks against directory cycles.
func (s *Scanner) firstVisit(st *scanState, dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	_, loaded := st.seen.LoadOrStore(resolved, struct{}{})
	return !loaded
}
