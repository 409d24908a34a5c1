package arbor

import (
	"errors"
	"testing"
)

// project runs a full projection pass over root at scale 1.
func project(root *Node, focus AccessibilityID) TreeUpdate {
	return Project(BuildLayers(root), ComputeLayout(root, 1), IndexTree(root),
		ProjectOptions{Title: "test", Focus: focus})
}

func button(name string, x float64) *Node {
	n := NewLabel(name, name)
	n.SetPosition(x, 0)
	n.SetSize(40, 20)
	n.SetRole(RoleButton)
	n.SetFocusable(true)
	return n
}

func TestProjectSynthesizesWindowRoot(t *testing.T) {
	root := NewElement("root")
	a, b := button("a", 0), button("b", 50)
	root.AddChild(a)
	root.AddChild(b)

	u := project(root, AccessibilityID{})
	if u.Root != WindowID {
		t.Fatalf("Root = %v, want WindowID", u.Root)
	}
	if u.Nodes[0].ID != WindowID {
		t.Error("the window root should be the first node")
	}
	win, _ := u.Node(WindowID)
	if win.Role != RoleWindow || win.Name != "test" {
		t.Errorf("window = %+v", win)
	}
	want := []AccessibilityID{a.AccessibilityID(), b.AccessibilityID()}
	if len(win.Children) != 2 || win.Children[0] != want[0] || win.Children[1] != want[1] {
		t.Errorf("window children = %v, want %v", win.Children, want)
	}
}

func TestProjectNodeFields(t *testing.T) {
	root := NewElement("root")
	btn := button("ok", 10)
	fg, bg := Color{R: 1, A: 1}, Color{B: 1, A: 1}
	btn.Access.Foreground = &fg
	btn.Access.Background = &bg
	root.AddChild(btn)

	u := project(root, AccessibilityID{})
	n, ok := u.Node(btn.AccessibilityID())
	if !ok {
		t.Fatal("button not projected")
	}
	if n.Role != RoleButton || !n.Focusable {
		t.Errorf("role/focusable = %v/%v", n.Role, n.Focusable)
	}
	if n.Bounds != (Rect{10, 0, 40, 20}) {
		t.Errorf("Bounds = %v", n.Bounds)
	}
	if n.Value != "ok" {
		t.Errorf("Value = %q, want text fallback ok", n.Value)
	}
	if !n.HasAction(ActionFocus) || n.HasAction(ActionDefault) {
		t.Errorf("Actions = %v, want [focus]", n.Actions)
	}
	if n.Foreground != fg.RGBA32() || n.Background != bg.RGBA32() {
		t.Errorf("colors = %08x/%08x", n.Foreground, n.Background)
	}
}

func TestProjectNonFocusableGetsDefaultAction(t *testing.T) {
	root := NewElement("root")
	img := NewImage("logo")
	img.EnableAccessibility()
	img.Access.Alt = "Logo"
	root.AddChild(img)

	n, _ := project(root, AccessibilityID{}).Node(img.AccessibilityID())
	if !n.HasAction(ActionDefault) || n.DefaultAction != VerbClick {
		t.Errorf("Actions = %v, DefaultAction = %v", n.Actions, n.DefaultAction)
	}
	if n.Value != "Logo" {
		t.Errorf("Value = %q, want alt text", n.Value)
	}
}

func TestProjectAccessibleChildrenAreDirect(t *testing.T) {
	root := NewElement("root")
	list := NewElement("list")
	list.SetRole(RoleList)
	wrapper := NewElement("wrapper")
	item1 := NewLabel("i1", "one")
	item1.SetRole(RoleListItem)
	item2 := NewLabel("i2", "two")
	item2.SetRole(RoleListItem)
	hidden := NewLabel("i3", "three")
	hidden.SetRole(RoleListItem)
	hidden.Visible = false

	root.AddChild(list)
	list.AddChild(wrapper)
	wrapper.AddChild(item1)
	list.AddChild(item2)
	list.AddChild(hidden)

	u := project(root, AccessibilityID{})
	l, _ := u.Node(list.AccessibilityID())
	if len(l.Children) != 1 || l.Children[0] != item2.AccessibilityID() {
		t.Errorf("list children = %v, want only the direct item", l.Children)
	}
	if u.Has(hidden.AccessibilityID()) {
		t.Error("hidden node should not be projected")
	}
	if !u.Has(item1.AccessibilityID()) {
		t.Fatal("item behind a plain wrapper should still be projected")
	}

	// item1 has no accessible parent, so it hangs off the window root.
	win, _ := u.Node(WindowID)
	want := []AccessibilityID{list.AccessibilityID(), item1.AccessibilityID()}
	if len(win.Children) != 2 || win.Children[0] != want[0] || win.Children[1] != want[1] {
		t.Errorf("window children = %v, want %v", win.Children, want)
	}
}

func TestProjectIDsStableAcrossPasses(t *testing.T) {
	root := NewElement("root")
	a, b := button("a", 0), button("b", 50)
	root.AddChild(a)
	root.AddChild(b)

	first := project(root, AccessibilityID{})
	a.Access.Name = "renamed"
	a.SetPosition(5, 5)
	second := project(root, AccessibilityID{})

	if len(first.Nodes) != len(second.Nodes) {
		t.Fatalf("node count changed: %d -> %d", len(first.Nodes), len(second.Nodes))
	}
	seen := make(map[AccessibilityID]bool)
	for i, e := range second.Nodes {
		if seen[e.ID] {
			t.Errorf("duplicate id %v", e.ID)
		}
		seen[e.ID] = true
		if e.ID != first.Nodes[i].ID {
			t.Errorf("nodes[%d] id changed: %v -> %v", i, first.Nodes[i].ID, e.ID)
		}
	}
	if n, _ := second.Node(a.AccessibilityID()); n.Name != "renamed" {
		t.Errorf("Name = %q, want renamed", n.Name)
	}
}

func TestProjectRemovedNodeDisappears(t *testing.T) {
	root := NewElement("root")
	a, b := button("a", 0), button("b", 50)
	root.AddChild(a)
	root.AddChild(b)
	project(root, AccessibilityID{})

	root.RemoveChild(b)
	u := project(root, b.AccessibilityID())
	if u.Has(b.AccessibilityID()) {
		t.Error("removed node should not be projected")
	}
	if !u.Focus.IsZero() {
		t.Errorf("Focus = %v, want zero for a node that is gone", u.Focus)
	}
}

func TestProjectFocusCarriedWhenPresent(t *testing.T) {
	root := NewElement("root")
	a := button("a", 0)
	root.AddChild(a)

	if u := project(root, a.AccessibilityID()); u.Focus != a.AccessibilityID() {
		t.Errorf("Focus = %v, want a", u.Focus)
	}
	if u := project(root, NewAccessibilityID()); !u.Focus.IsZero() {
		t.Errorf("Focus = %v, want zero for an unknown id", u.Focus)
	}
}

func TestProjectSkipsStructuralInconsistency(t *testing.T) {
	root := NewElement("root")
	a := button("a", 0)
	root.AddChild(a)

	layers := BuildLayers(root)
	layers.Add(1, 9999) // no such node
	layout := ComputeLayout(root, 1)
	delete(layout, a.ID) // accessible but never laid out

	u := Project(layers, layout, IndexTree(root), ProjectOptions{})
	if len(u.Nodes) != 1 {
		t.Errorf("Nodes = %d, want only the window root", len(u.Nodes))
	}
}

func TestInnerTextFirstNonEmptyLeaf(t *testing.T) {
	n := NewElement("n")
	n.AddChild(NewText(""))
	inner := NewElement("inner")
	inner.AddChild(NewText("deep"))
	n.AddChild(inner)
	n.AddChild(NewText("later"))

	if got, ok := innerText(n); !ok || got != "deep" {
		t.Errorf("innerText = (%q, %v), want deep", got, ok)
	}
	if _, ok := innerText(NewElement("empty")); ok {
		t.Error("no text leaf should report !ok")
	}
}

func TestTreeUpdateIsFocusOnly(t *testing.T) {
	if !(TreeUpdate{Focus: NewAccessibilityID()}).IsFocusOnly() {
		t.Error("focus-only update not recognized")
	}
	if project(NewElement("root"), AccessibilityID{}).IsFocusOnly() {
		t.Error("full update reported as focus-only")
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	if errors.Is(ErrMissingTarget, ErrUnresolvedAttribute) || errors.Is(ErrStructuralInconsistency, ErrMissingTarget) {
		t.Error("sentinel errors should be distinct")
	}
}
