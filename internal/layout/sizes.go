package layout

// Totals is what a folder transitively contains.
type Totals struct {
	Bytes   int64
	Files   int64
	Folders int64
}

// SizeTable holds the aggregated totals of every folder in an Index.
type SizeTable struct {
	index  *Index
	totals map[ID]Totals
}

// Aggregate sums document sizes into every ancestor folder. Folders without
// documents are present with zero totals. A folder's own declared size is
// ignored.
func Aggregate(x *Index) *SizeTable {
	t := &SizeTable{index: x, totals: make(map[ID]Totals)}
	for id, r := range x.byID {
		if r.IsFolder() {
			t.totals[id] = Totals{}
		}
	}
	for _, r := range x.byID {
		if r.isRoot() {
			continue
		}
		t.addUp(r)
	}
	return t
}

// addUp walks from r's parent to the root, inclusive, adding r to each
// folder on the way.
func (t *SizeTable) addUp(r Record) {
	cur := r.ParentID
	for {
		tot := t.totals[cur]
		if r.IsFolder() {
			tot.Folders++
		} else {
			tot.Bytes += r.Size
			tot.Files++
		}
		t.totals[cur] = tot

		parent := t.index.byID[cur]
		if cur == t.index.root || parent.isRoot() {
			return
		}
		cur = parent.ParentID
	}
}

// Size returns the aggregated byte size of a folder.
func (t *SizeTable) Size(folder ID) (int64, bool) {
	tot, ok := t.totals[folder]
	return tot.Bytes, ok
}

// Totals returns byte, file and folder totals of a folder.
func (t *SizeTable) Totals(folder ID) (Totals, bool) {
	tot, ok := t.totals[folder]
	return tot, ok
}

// SizeOf returns a document's declared size or a folder's aggregated size.
func (t *SizeTable) SizeOf(id ID) (int64, bool) {
	r, ok := t.index.byID[id]
	if !ok {
		return 0, false
	}
	if r.IsFolder() {
		return t.Size(id)
	}
	return r.Size, true
}

// Len is the number of folders in the table.
func (t *SizeTable) Len() int { return len(t.totals) }
