package layout

import (
	"sort"

	"github.com/cockroachdb/errors"
)

// portionScale quantizes portions before sibling comparison so ordering does
// not depend on floating point noise.
const portionScale = 10000

// Node is one element of a freshly built tree. Portion is measured against
// the denominator root passed to BuildTree, not against the parent.
type Node struct {
	ID       ID
	Name     string
	Kind     Kind
	Size     int64
	Portion  float64
	Children []*Node
}

// BuildTree builds the subtree under queryRoot. Every portion in the result
// is divided by the size of denominatorRoot, which is normally the root the
// view currently shows.
func BuildTree(x *Index, sizes *SizeTable, queryRoot, denominatorRoot ID) (*Node, error) {
	if _, ok := x.byID[queryRoot]; !ok {
		return nil, errors.Wrapf(ErrUnknownID, "query root %q", queryRoot)
	}
	denom, ok := sizes.SizeOf(denominatorRoot)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownID, "denominator root %q", denominatorRoot)
	}
	b := treeBuilder{index: x, sizes: sizes, denomID: denominatorRoot, denom: denom}
	return b.build(queryRoot), nil
}

type treeBuilder struct {
	index   *Index
	sizes   *SizeTable
	denomID ID
	denom   int64
}

func (b *treeBuilder) build(id ID) *Node {
	r := b.index.byID[id]
	size, _ := b.sizes.SizeOf(id)
	n := &Node{
		ID:      id,
		Name:    r.Name,
		Kind:    r.Kind,
		Size:    size,
		Portion: b.portion(id, size),
	}
	if !r.IsFolder() {
		return n
	}
	kids := b.index.children[id]
	n.Children = make([]*Node, 0, len(kids))
	for _, c := range kids {
		n.Children = append(n.Children, b.build(c))
	}
	sortSiblings(n.Children)
	return n
}

func (b *treeBuilder) portion(id ID, size int64) float64 {
	if b.denom == 0 {
		if id == b.denomID {
			return 1
		}
		return 0
	}
	return float64(size) / float64(b.denom)
}

// sortSiblings orders by descending quantized portion, then by id.
func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		qi, qj := quantize(nodes[i].Portion), quantize(nodes[j].Portion)
		if qi != qj {
			return qi > qj
		}
		return nodes[i].ID < nodes[j].ID
	})
}

func quantize(p float64) int64 { return int64(p * portionScale) }
