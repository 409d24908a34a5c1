package arbor

import "math"

// Layout resolves a node to its laid-out area in device pixels. It is the
// read-only view arbor takes of the layout collaborator.
type Layout interface {
	Area(id NodeID) (Rect, bool)
}

// LayoutMap is a Layout backed by a plain map.
type LayoutMap map[NodeID]Rect

// Area implements Layout.
func (m LayoutMap) Area(id NodeID) (Rect, bool) {
	r, ok := m[id]
	return r, ok
}

// ComputeLayout resolves every node under root into a device-pixel area.
// Positions accumulate through the hierarchy as affine transforms; the root
// transform applies scaleFactor so the results are in the same space the
// platform adapter uses. It stands in for a real layout engine: nodes are
// placed where their X/Y/Width/Height say, nothing is measured.
func ComputeLayout(root *Node, scaleFactor float64) LayoutMap {
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	out := make(LayoutMap)
	if root == nil {
		return out
	}
	base := [6]float64{scaleFactor, 0, 0, scaleFactor, 0, 0}
	updateWorldTransform(root, base, true, out)
	return out
}

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the local affine matrix from the node's
// layout properties. Returns [a, b, c, d, tx, ty].
//
// Composition order: Scale -> Translate(X, Y)
func computeLocalTransform(n *Node) [6]float64 {
	return [6]float64{n.ScaleX, 0, 0, n.ScaleY, n.X, n.Y}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// transformRect returns the axis-aligned bounds of r under m.
func transformRect(m [6]float64, r Rect) Rect {
	x0, y0 := transformPoint(m, r.X, r.Y)
	x1, y1 := transformPoint(m, r.X+r.Width, r.Y)
	x2, y2 := transformPoint(m, r.X, r.Y+r.Height)
	x3, y3 := transformPoint(m, r.X+r.Width, r.Y+r.Height)
	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// updateWorldTransform recomputes a node's worldTransform and records its
// resolved area. parentRecomputed forces recomputation of this node even if
// it's not dirty.
func updateWorldTransform(n *Node, parentTransform [6]float64, parentRecomputed bool, out LayoutMap) {
	recompute := n.layoutDirty || parentRecomputed
	if recompute {
		n.worldTransform = multiplyAffine(parentTransform, computeLocalTransform(n))
		n.layoutDirty = false
	}
	out[n.ID] = transformRect(n.worldTransform, Rect{Width: n.Width, Height: n.Height})

	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, recompute, out)
	}
}

// --- Layout property setters ---

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X = x
	n.Y = y
	n.layoutDirty = true
}

// SetSize sets the node's local Width and Height.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX = sx
	n.ScaleY = sy
	n.layoutDirty = true
}

// MarkDirty marks the node's layout as dirty, forcing recomputation on the
// next pass. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.layoutDirty = true
}

// --- Coordinate conversion ---

// DeviceToLocal converts a device-pixel point into this node's local space
// using the transform from the most recent layout pass.
func (n *Node) DeviceToLocal(dx, dy float64) (lx, ly float64) {
	inv := invertAffine(n.worldTransform)
	return transformPoint(inv, dx, dy)
}

// LocalToDevice converts a local-space point into device pixels.
func (n *Node) LocalToDevice(lx, ly float64) (dx, dy float64) {
	return transformPoint(n.worldTransform, lx, ly)
}
