package layout

import "github.com/cockroachdb/errors"

// Index is the read-only lookup structure over one snapshot of records.
type Index struct {
	byID     map[ID]Record
	children map[ID][]ID // parent -> children, input order, root excluded
	root     ID
}

type indexOptions struct {
	lastRootWins bool
}

// IndexOption adjusts BuildIndex.
type IndexOption func(*indexOptions)

// WithLastRootWins accepts several self-parented records and keeps the last
// one seen as the root instead of failing with ErrMultipleRoots. The other
// self-parented records become unreachable and must not have descendants
// that documents are expected to be counted through.
func WithLastRootWins() IndexOption {
	return func(o *indexOptions) { o.lastRootWins = true }
}

// BuildIndex validates records and builds the id lookup. Every structural
// problem is reported here so that later walks cannot fail or loop.
func BuildIndex(records []Record, opts ...IndexOption) (*Index, error) {
	var o indexOptions
	for _, opt := range opts {
		opt(&o)
	}

	x := &Index{
		byID:     make(map[ID]Record, len(records)),
		children: make(map[ID][]ID),
	}
	roots := 0
	for _, r := range records {
		if _, dup := x.byID[r.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateID, "record %q", r.ID)
		}
		if r.Kind == Document && r.Size < 0 {
			return nil, errors.Wrapf(ErrNegativeSize, "record %q: %d", r.ID, r.Size)
		}
		x.byID[r.ID] = r
		if r.isRoot() {
			roots++
			x.root = r.ID
		}
	}
	switch {
	case roots == 0:
		return nil, ErrNoRoot
	case roots > 1 && !o.lastRootWins:
		return nil, errors.Wrapf(ErrMultipleRoots, "found %d", roots)
	}
	if !x.byID[x.root].IsFolder() {
		return nil, errors.Wrapf(ErrNotAFolder, "root %q", x.root)
	}

	for _, r := range records {
		if r.isRoot() {
			continue
		}
		parent, ok := x.byID[r.ParentID]
		if !ok {
			return nil, errors.Wrapf(ErrDanglingParent, "record %q references %q", r.ID, r.ParentID)
		}
		if !parent.IsFolder() {
			return nil, errors.Wrapf(ErrNotAFolder, "parent %q of record %q", r.ParentID, r.ID)
		}
		x.children[r.ParentID] = append(x.children[r.ParentID], r.ID)
	}

	if err := x.checkReachable(records); err != nil {
		return nil, err
	}
	return x, nil
}

// checkReachable makes sure every parent chain ends at the root. Each record
// is visited a bounded number of times: chains already proven are cut short.
func (x *Index) checkReachable(records []Record) error {
	const (
		unseen = iota
		onPath
		reaches
	)
	state := make(map[ID]int, len(records))
	var path []ID
	for _, r := range records {
		path = path[:0]
		cur := r.ID
		for {
			if cur == x.root || state[cur] == reaches {
				break
			}
			if state[cur] == onPath {
				return errors.Wrapf(ErrCycle, "record %q", r.ID)
			}
			rec := x.byID[cur]
			if rec.isRoot() {
				// A discarded extra root under WithLastRootWins.
				break
			}
			state[cur] = onPath
			path = append(path, cur)
			cur = rec.ParentID
		}
		for _, id := range path {
			state[id] = reaches
		}
	}
	return nil
}

// Lookup returns the record for id.
func (x *Index) Lookup(id ID) (Record, bool) {
	r, ok := x.byID[id]
	return r, ok
}

// Root is the id of the dataset's self-parented root.
func (x *Index) Root() ID { return x.root }

// Len is the number of records.
func (x *Index) Len() int { return len(x.byID) }

// Children returns the direct children of id in input order. The returned
// slice must not be modified.
func (x *Index) Children(id ID) []ID { return x.children[id] }

// Ancestors returns the chain from the root down to id, inclusive.
func (x *Index) Ancestors(id ID) ([]ID, error) {
	if _, ok := x.byID[id]; !ok {
		return nil, errors.Wrapf(ErrUnknownID, "%q", id)
	}
	var chain []ID
	cur := id
	for {
		chain = append(chain, cur)
		r := x.byID[cur]
		if cur == x.root || r.isRoot() {
			break
		}
		cur = r.ParentID
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}
