package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/phanxgames/arbor"
)

type treeStyles struct {
	role   lipgloss.Style
	name   lipgloss.Style
	value  lipgloss.Style
	bounds lipgloss.Style
	focus  lipgloss.Style
}

func newTreeStyles(r *lipgloss.Renderer) treeStyles {
	return treeStyles{
		role:   r.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true),
		name:   r.NewStyle().Foreground(lipgloss.Color("#cdd6f4")),
		value:  r.NewStyle().Foreground(lipgloss.Color("#a6e3a1")),
		bounds: r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		focus:  r.NewStyle().Foreground(lipgloss.Color("#fab387")).Bold(true),
	}
}

// renderTree writes u as an indented outline starting at its root. The
// focused node is marked with a '>'.
func renderTree(w io.Writer, u arbor.TreeUpdate, r *lipgloss.Renderer) error {
	st := newTreeStyles(r)
	nodes := make(map[arbor.AccessibilityID]arbor.AccessNode, len(u.Nodes))
	for _, e := range u.Nodes {
		nodes[e.ID] = e.Node
	}

	var b strings.Builder
	var walk func(id arbor.AccessibilityID, depth int)
	walk = func(id arbor.AccessibilityID, depth int) {
		n, ok := nodes[id]
		if !ok {
			return
		}
		marker := "  "
		if id == u.Focus {
			marker = st.focus.Render("> ")
		}
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(marker)
		b.WriteString(st.role.Render(n.Role.String()))
		if n.Name != "" {
			b.WriteString(" " + st.name.Render(fmt.Sprintf("%q", n.Name)))
		}
		if n.Value != "" {
			b.WriteString(" " + st.value.Render(n.Value))
		}
		if id != arbor.WindowID {
			b.WriteString(" " + st.bounds.Render(formatRect(n.Bounds)))
		}
		b.WriteByte('\n')
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(u.Root, 0)

	_, err := io.WriteString(w, b.String())
	return err
}

// describe returns a one-line label for id, or "(none)".
func describe(u arbor.TreeUpdate, id arbor.AccessibilityID) string {
	if id.IsZero() {
		return "(none)"
	}
	n, ok := u.Node(id)
	if !ok {
		return id.String()
	}
	label := n.Name
	if label == "" {
		label = n.Value
	}
	if label == "" {
		return n.Role.String()
	}
	return fmt.Sprintf("%s %q", n.Role, label)
}

func formatRect(r arbor.Rect) string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.Width, r.Height)
}
