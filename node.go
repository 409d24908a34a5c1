package arbor

// --- ID counter ---

// NodeID identifies a node inside the retained tree. IDs are assigned from a
// counter and are only meaningful within one process.
type NodeID uint32

// ElementID is the application-facing identifier of an element. It is kept
// separate from NodeID so the application can key handlers against its own
// tree generations.
type ElementID uint64

// nodeIDCounter is a plain counter (no atomic — scene mutation is
// single-threaded).
var nodeIDCounter NodeID

func nextNodeID() NodeID {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the fundamental element of the retained tree. A single flat struct
// is used for every node type.
type Node struct {
	// Identity
	ID        NodeID
	ElementID ElementID
	Name      string
	Type      NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Layout input (local, logical units). Resolved into device-pixel areas by
	// ComputeLayout.
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64

	// Computed (unexported, updated by ComputeLayout)
	worldTransform [6]float64
	layoutDirty    bool

	// Visibility & interaction
	Visible      bool
	Interactable bool

	// Ordering. Layer is relative to the node's depth in the tree; ZIndex
	// orders siblings inside a layer.
	Layer  int16
	ZIndex int

	// Text content (NodeTypeText)
	Text string

	// Semantics
	Access   AccessibilitySettings
	accessID AccessibilityID

	// Metadata
	UserData any
	EntityID uint32

	listeners map[EventName]func(*EventContext)

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// AccessibilitySettings is the semantic state a node carries for projection.
// Empty strings mean "no override".
type AccessibilitySettings struct {
	Enabled    bool
	Role       Role
	Name       string
	Alt        string
	Focusable  bool
	Foreground *Color
	Background *Color
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ElementID = ElementID(n.ID)
	n.ScaleX = 1
	n.ScaleY = 1
	n.Visible = true
	n.layoutDirty = true
	n.childrenSorted = true
}

// NewElement creates a generic element node.
func NewElement(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeElement}
	nodeDefaults(n)
	return n
}

// NewText creates a literal text leaf.
func NewText(content string) *Node {
	n := &Node{Name: "#text", Type: NodeTypeText, Text: content}
	nodeDefaults(n)
	return n
}

// NewLabel creates a label element whose first child is a text leaf holding
// content.
func NewLabel(name, content string) *Node {
	n := &Node{Name: name, Type: NodeTypeLabel}
	nodeDefaults(n)
	n.AddChild(NewText(content))
	return n
}

// NewImage creates an image element.
func NewImage(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeImage}
	nodeDefaults(n)
	return n
}

// --- Accessibility ---

// AccessibilityID returns the node's accessibility id, or the zero id when the
// node has never had accessibility semantics.
func (n *Node) AccessibilityID() AccessibilityID {
	if !n.Access.Enabled {
		return AccessibilityID{}
	}
	return n.accessID
}

// SetRole gives the node accessibility semantics with the given role. The
// first call assigns the node's id; later calls keep it.
func (n *Node) SetRole(role Role) AccessibilityID {
	n.Access.Enabled = true
	n.Access.Role = role
	if n.accessID.IsZero() {
		n.accessID = NewAccessibilityID()
	}
	return n.accessID
}

// EnableAccessibility opts the node into accessibility with the default role
// for its type. Element types without a default role are left unchanged and
// the returned id is zero.
func (n *Node) EnableAccessibility() AccessibilityID {
	role, ok := defaultRoleForType(n.Type)
	if !ok {
		return n.AccessibilityID()
	}
	return n.SetRole(role)
}

// DisableAccessibility removes the node from projection. The id is retained so
// re-enabling yields the same identity.
func (n *Node) DisableAccessibility() {
	n.Access.Enabled = false
}

// SetFocusable sets whether the node exposes a focus action.
func (n *Node) SetFocusable(focusable bool) {
	n.Access.Focusable = focusable
}

// --- Listeners ---

// On registers fn as this node's listener for name, replacing any previous
// listener. Pass nil to remove.
func (n *Node) On(name EventName, fn func(*EventContext)) {
	if fn == nil {
		delete(n.listeners, name)
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[EventName]func(*EventContext))
	}
	n.listeners[name] = fn
}

// Listens reports whether the node has a listener for name.
func (n *Node) Listens(name EventName) bool {
	_, ok := n.listeners[name]
	return ok
}

func (n *Node) listener(name EventName) func(*EventContext) {
	return n.listeners[name]
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug.Load() {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	if globalDebug.Load() {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("arbor: cannot add nil child")
	}
	if globalDebug.Load() {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("arbor: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(n.children) {
		panic("arbor: child index out of range")
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("arbor: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("arbor: child index out of range")
	}
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. A disposed node's accessibility
// id is never handed out again.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.listeners = nil
	n.UserData = nil
	n.Access.Enabled = false
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets layoutDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.layoutDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// sortedChildrenOf returns n's children in ZIndex order (stable).
func sortedChildrenOf(n *Node) []*Node {
	if n.childrenSorted && n.sortedChildren != nil && len(n.sortedChildren) == len(n.children) {
		return n.sortedChildren
	}
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	// Stable insertion sort by ZIndex.
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
	return n.sortedChildren
}
