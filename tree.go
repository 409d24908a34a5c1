package arbor

// NodeLookup resolves node ids against the current render tree.
type NodeLookup interface {
	Node(id NodeID) (*Node, bool)
}

// NodeIndex is a NodeLookup over a snapshot of the tree.
type NodeIndex map[NodeID]*Node

// Node implements NodeLookup.
func (ix NodeIndex) Node(id NodeID) (*Node, bool) {
	n, ok := ix[id]
	return n, ok
}

// IndexTree records every live node under root.
func IndexTree(root *Node) NodeIndex {
	ix := make(NodeIndex)
	if root != nil {
		indexNode(ix, root)
	}
	return ix
}

func indexNode(ix NodeIndex, n *Node) {
	if n.disposed {
		return
	}
	ix[n.ID] = n
	for _, child := range n.children {
		indexNode(ix, child)
	}
}
