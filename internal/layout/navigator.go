package layout

import "github.com/cockroachdb/errors"

// Navigator holds the view's current root. DrillDown and Reset are the only
// mutations; either one drops the cached tree and paint order.
type Navigator struct {
	index   *Index
	sizes   *SizeTable
	overall ID
	current ID

	tree  *Node
	paint []Layer
	stale bool
}

// NewNavigator starts at the dataset's overall root.
func NewNavigator(x *Index, sizes *SizeTable) *Navigator {
	return &Navigator{
		index:   x,
		sizes:   sizes,
		overall: x.Root(),
		current: x.Root(),
		stale:   true,
	}
}

// Current is the root every query is built against.
func (n *Navigator) Current() ID { return n.current }

// Overall is the dataset's true root.
func (n *Navigator) Overall() ID { return n.overall }

// AtOverallRoot reports whether the view has not been drilled into.
func (n *Navigator) AtOverallRoot() bool { return n.current == n.overall }

// Stale reports whether the cached paint order must be rebuilt.
func (n *Navigator) Stale() bool { return n.stale }

// DrillDown makes id the current root. Documents and records outside the
// overall root's tree are rejected and leave the current root unchanged.
func (n *Navigator) DrillDown(id ID) error {
	r, ok := n.index.Lookup(id)
	if !ok {
		return errors.Wrapf(ErrUnknownID, "%q", id)
	}
	if chain, err := n.index.Ancestors(id); err != nil || chain[0] != n.overall {
		return errors.Wrapf(ErrUnknownID, "%q is not under root %q", id, n.overall)
	}
	if !r.IsFolder() {
		return errors.Wrapf(ErrNotAFolder, "%q (%s)", id, r.Name)
	}
	n.current = id
	n.invalidate()
	return nil
}

// Reset returns to the overall root.
func (n *Navigator) Reset() {
	n.current = n.overall
	n.invalidate()
}

func (n *Navigator) invalidate() {
	n.tree = nil
	n.paint = nil
	n.stale = true
}

// Tree returns the node tree for the current root, building it if needed.
func (n *Navigator) Tree() (*Node, error) {
	if n.stale || n.tree == nil {
		t, err := BuildTree(n.index, n.sizes, n.current, n.current)
		if err != nil {
			return nil, err
		}
		n.tree = t
		n.paint = Flatten(t)
		n.stale = false
	}
	return n.tree, nil
}

// PaintOrder returns the flattened layers for the current root.
func (n *Navigator) PaintOrder() ([]Layer, error) {
	if _, err := n.Tree(); err != nil {
		return nil, err
	}
	return n.paint, nil
}

// Breadcrumb returns the records from the overall root to the current root.
func (n *Navigator) Breadcrumb() []Record {
	ids, err := n.index.Ancestors(n.current)
	if err != nil {
		return nil
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		r, _ := n.index.Lookup(id)
		out = append(out, r)
	}
	return out
}
