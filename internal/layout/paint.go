package layout

import "sort"

// Layer is one entry of the paint order. Offset is the fraction of the full
// band width where the entry starts; Portion is its width.
type Layer struct {
	ID      ID
	Parent  ID
	Name    string
	Kind    Kind
	Size    int64
	Portion float64
	Offset  float64
	Layer   int
}

// Flatten emits every node of tree exactly once, sorted by ascending depth.
// Within a depth, entries keep pre-order discovery order, so siblings stay in
// tree order and cousins follow their parents' order.
func Flatten(tree *Node) []Layer {
	if tree == nil {
		return nil
	}
	var out []Layer
	var walk func(n *Node, parent ID, depth int, offset float64)
	walk = func(n *Node, parent ID, depth int, offset float64) {
		out = append(out, Layer{
			ID:      n.ID,
			Parent:  parent,
			Name:    n.Name,
			Kind:    n.Kind,
			Size:    n.Size,
			Portion: n.Portion,
			Offset:  offset,
			Layer:   depth,
		})
		at := offset
		for _, c := range n.Children {
			walk(c, n.ID, depth+1, at)
			at += c.Portion
		}
	}
	walk(tree, tree.ID, 0, 0)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Layer < out[j].Layer })
	return out
}

// Depth is the number of layers in a flattened paint order.
func Depth(layers []Layer) int {
	d := 0
	for _, l := range layers {
		if l.Layer+1 > d {
			d = l.Layer + 1
		}
	}
	return d
}
