package arbor

import "slices"

// Layers orders node ids into paint layers. Lower depths paint first (back);
// inside a layer, ids keep the order they were added in, which is painter
// order. Layers is rebuilt every layout pass and is read-only to the
// projector and the event processor.
type Layers struct {
	depths  []int16
	byDepth map[int16][]NodeID
	count   int
}

// NewLayers returns an empty layer index.
func NewLayers() *Layers {
	return &Layers{byDepth: make(map[int16][]NodeID)}
}

// Add appends id to the layer at depth.
func (l *Layers) Add(depth int16, id NodeID) {
	if l.byDepth == nil {
		l.byDepth = make(map[int16][]NodeID)
	}
	ids, ok := l.byDepth[depth]
	if !ok {
		i, _ := slices.BinarySearch(l.depths, depth)
		l.depths = slices.Insert(l.depths, i, depth)
	}
	l.byDepth[depth] = append(ids, id)
	l.count++
}

// Reset empties the index.
func (l *Layers) Reset() {
	for _, d := range l.depths {
		delete(l.byDepth, d)
	}
	l.depths = l.depths[:0]
	l.count = 0
}

// Depths returns layer depths back-to-front. The returned slice MUST NOT be
// mutated.
func (l *Layers) Depths() []int16 {
	return l.depths
}

// Nodes returns the ids in the layer at depth, in painter order.
func (l *Layers) Nodes(depth int16) []NodeID {
	return l.byDepth[depth]
}

// Len returns the total number of ids across all layers.
func (l *Layers) Len() int {
	return l.count
}

// Each visits every id back-to-front. Returning false stops the walk.
func (l *Layers) Each(fn func(depth int16, id NodeID) bool) {
	for _, d := range l.depths {
		for _, id := range l.byDepth[d] {
			if !fn(d, id) {
				return
			}
		}
	}
}

// EachFrontToBack visits every id in reverse paint order: the topmost
// node first, which is hit-test order.
func (l *Layers) EachFrontToBack(fn func(depth int16, id NodeID) bool) {
	for i := len(l.depths) - 1; i >= 0; i-- {
		ids := l.byDepth[l.depths[i]]
		for j := len(ids) - 1; j >= 0; j-- {
			if !fn(l.depths[i], ids[j]) {
				return
			}
		}
	}
}

// BuildLayers walks the tree in painter order (DFS, ZIndex-sorted) and files
// every visible node under depth = tree depth + Node.Layer. Invisible subtrees
// are skipped.
func BuildLayers(root *Node) *Layers {
	l := NewLayers()
	if root != nil {
		collectLayers(l, root, 0)
	}
	return l
}

func collectLayers(l *Layers, n *Node, depth int) {
	if !n.Visible || n.disposed {
		return
	}
	d := depth + int(n.Layer)
	l.Add(clampDepth(d), n.ID)
	for _, child := range sortedChildrenOf(n) {
		collectLayers(l, child, d+1)
	}
}

func clampDepth(d int) int16 {
	switch {
	case d > 1<<15-1:
		return 1<<15 - 1
	case d < -1<<15:
		return -1 << 15
	}
	return int16(d)
}
