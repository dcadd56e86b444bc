package folio

import "github.com/go-gl/mathgl/mgl32"

// localMatrix composes the node's local matrix.
//
// Composition order:
//
//	Translate(Position) * Rx * Ry * Rz * Scale
func localMatrix(n *Node) mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	r := mgl32.HomogRotate3DX(n.Rotation[0]).
		Mul4(mgl32.HomogRotate3DY(n.Rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// WorldMatrix returns the node's local-to-world matrix. It is recomputed on
// every call because tweens write transform fields directly.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := localMatrix(n)
	for p := n.Parent; p != nil; p = p.Parent {
		m = localMatrix(p).Mul4(m)
	}
	return m
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// WorldBounds returns the world-space box enclosing the geometry of n and all
// of its descendants. Group nodes contribute only through their children.
func (n *Node) WorldBounds() AABB {
	box := EmptyAABB()
	expandWorldBounds(n, n.parentMatrix(), &box)
	return box
}

func (n *Node) parentMatrix() mgl32.Mat4 {
	if n.Parent == nil {
		return mgl32.Ident4()
	}
	return n.Parent.WorldMatrix()
}

func expandWorldBounds(n *Node, parent mgl32.Mat4, box *AABB) {
	world := parent.Mul4(localMatrix(n))
	if n.Kind != NodeKindGroup {
		box.ExpandByBox(n.Bounds.Transformed(world))
	}
	for _, c := range n.children {
		expandWorldBounds(c, world, box)
	}
}
