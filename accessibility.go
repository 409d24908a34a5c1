package arbor

import (
	"fmt"
	"log/slog"
)

// AccessNode is one node of the accessibility tree as handed to the
// platform adapter.
type AccessNode struct {
	Role          Role              `json:"role"`
	Bounds        Rect              `json:"bounds"`
	Name          string            `json:"name,omitempty"`
	Value         string            `json:"value,omitempty"`
	Children      []AccessibilityID `json:"children,omitempty"`
	Focusable     bool              `json:"focusable"`
	Actions       []Action          `json:"actions,omitempty"`
	DefaultAction DefaultActionVerb `json:"defaultAction,omitempty"`
	Foreground    uint32            `json:"foreground,omitempty"`
	Background    uint32            `json:"background,omitempty"`
}

// HasAction reports whether a is among the node's actions.
func (n AccessNode) HasAction(a Action) bool {
	for _, have := range n.Actions {
		if have == a {
			return true
		}
	}
	return false
}

// AccessEntry pairs a node with its id, keeping tree order explicit.
type AccessEntry struct {
	ID   AccessibilityID `json:"id"`
	Node AccessNode      `json:"node"`
}

// TreeUpdate is what the platform adapter consumes. A full update carries a
// non-zero Root and every node; a focus-only update carries just Focus.
// Focus is zero or the id of a node that exists.
type TreeUpdate struct {
	Root  AccessibilityID `json:"root"`
	Nodes []AccessEntry   `json:"nodes,omitempty"`
	Focus AccessibilityID `json:"focus"`
}

// IsFocusOnly reports whether the update carries only a focus change.
func (u TreeUpdate) IsFocusOnly() bool {
	return u.Root.IsZero() && len(u.Nodes) == 0
}

// Node returns the entry for id.
func (u TreeUpdate) Node(id AccessibilityID) (AccessNode, bool) {
	for _, e := range u.Nodes {
		if e.ID == id {
			return e.Node, true
		}
	}
	return AccessNode{}, false
}

// Has reports whether id is present in the update.
func (u TreeUpdate) Has(id AccessibilityID) bool {
	_, ok := u.Node(id)
	return ok
}

// ProjectOptions configures a projection pass.
type ProjectOptions struct {
	// Title names the synthetic window root.
	Title string
	// Focus is the currently focused id. It is carried into the result only
	// if the node was projected.
	Focus AccessibilityID
	// Logger receives structural-inconsistency diagnostics. Nil discards.
	Logger *slog.Logger
}

// Project walks layers back-to-front and builds a complete accessibility
// tree. Nodes are rebuilt from scratch every call; nothing from a previous
// pass survives. Project reads layout and tree state and never mutates either.
func Project(layers *Layers, layout Layout, tree NodeLookup, opts ProjectOptions) TreeUpdate {
	entries := collectAccessNodes(layers, layout, tree, opts.Logger)
	return assembleTree(entries, opts.Title, opts.Focus)
}

// collectAccessNodes is the per-layer pass shared by Project and
// AccessibilityState. It returns the entries in layer order.
func collectAccessNodes(layers *Layers, layout Layout, tree NodeLookup, logger *slog.Logger) []AccessEntry {
	if logger == nil {
		logger = discardLogger
	}
	var entries []AccessEntry
	if layers == nil {
		return entries
	}
	layers.Each(func(depth int16, id NodeID) bool {
		n, ok := tree.Node(id)
		if !ok {
			logger.Debug("layer entry skipped",
				"err", fmt.Errorf("%w: node %d not in tree", ErrStructuralInconsistency, id),
				"layer", depth)
			return true
		}
		accessID := n.AccessibilityID()
		if accessID.IsZero() {
			return true
		}
		area, ok := layout.Area(id)
		if !ok {
			logger.Debug("layer entry skipped",
				"err", fmt.Errorf("%w: node %d has no layout", ErrStructuralInconsistency, id),
				"layer", depth)
			return true
		}
		entries = append(entries, AccessEntry{ID: accessID, Node: projectNode(n, area)})
		return true
	})
	return entries
}

// projectNode builds the accessibility node for n.
func projectNode(n *Node, area Rect) AccessNode {
	an := AccessNode{
		Role:      n.Access.Role,
		Bounds:    area,
		Name:      n.Access.Name,
		Focusable: n.Access.Focusable,
		Children:  accessibleChildren(n, nil),
	}

	if n.Access.Alt != "" {
		an.Value = n.Access.Alt
	} else if text, ok := innerText(n); ok {
		an.Value = text
	}

	if n.Access.Focusable {
		an.Actions = []Action{ActionFocus}
	} else {
		an.Actions = []Action{ActionDefault}
		an.DefaultAction = VerbClick
	}

	if n.Access.Foreground != nil {
		an.Foreground = n.Access.Foreground.RGBA32()
	}
	if n.Access.Background != nil {
		an.Background = n.Access.Background.RGBA32()
	}
	return an
}

// accessibleChildren appends the ids of n's direct render-tree children that
// carry an accessibility id. Hidden children are skipped since they are never
// projected. Accessible nodes below a non-accessible child are not listed here
// and hang off the window root instead.
func accessibleChildren(n *Node, buf []AccessibilityID) []AccessibilityID {
	for _, child := range sortedChildrenOf(n) {
		if !child.Visible || child.disposed {
			continue
		}
		if id := child.AccessibilityID(); !id.IsZero() {
			buf = append(buf, id)
		}
	}
	return buf
}

// innerText returns the first non-empty text leaf under n, depth-first.
func innerText(n *Node) (string, bool) {
	for _, child := range n.children {
		if child.Type == NodeTypeText && child.Text != "" {
			return child.Text, true
		}
		if text, ok := innerText(child); ok {
			return text, true
		}
	}
	return "", false
}

// buildRoot creates the synthetic window node.
func buildRoot(title string, top []AccessibilityID) AccessNode {
	return AccessNode{
		Role:     RoleWindow,
		Name:     title,
		Children: top,
	}
}

// assembleTree prefixes the window root and resolves focus against the
// projected entries. Entries nobody lists as a child hang off the root.
func assembleTree(entries []AccessEntry, title string, focus AccessibilityID) TreeUpdate {
	present := make(map[AccessibilityID]struct{}, len(entries))
	owned := make(map[AccessibilityID]struct{}, len(entries))
	for _, e := range entries {
		present[e.ID] = struct{}{}
		for _, c := range e.Node.Children {
			owned[c] = struct{}{}
		}
	}
	var top []AccessibilityID
	for _, e := range entries {
		if _, ok := owned[e.ID]; !ok {
			top = append(top, e.ID)
		}
	}

	nodes := make([]AccessEntry, 0, len(entries)+1)
	nodes = append(nodes, AccessEntry{ID: WindowID, Node: buildRoot(title, top)})
	nodes = append(nodes, entries...)

	update := TreeUpdate{Root: WindowID, Nodes: nodes}
	if _, ok := present[focus]; ok && !focus.IsZero() {
		update.Focus = focus
	}
	return update
}
