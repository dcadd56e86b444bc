package folio

import (
	"strings"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// NodeKind distinguishes the role of a Node in the scene graph.
type NodeKind uint8

const (
	NodeKindGroup NodeKind = iota // transform-only grouping node
	NodeKindMesh                  // renderable geometry with local bounds
	NodeKindProxy                 // invisible hitbox stand-in
)

// nodeIDCounter is atomic because the loader builds manifests off the tick.
var nodeIDCounter atomic.Uint32

func nextNodeID() uint32 {
	return nodeIDCounter.Add(1)
}

// Node is a scene graph element. Names are not unique: every lookup in this
// package is substring based.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Kind NodeKind

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	// Base is the rest pose hover and reveal tweens return to.
	Base Transform

	// Bounds is the local-space geometry box (mesh and proxy nodes).
	Bounds AABB

	Visible bool

	// Texture names the texture set assigned when assets finish loading.
	Texture  string
	Material *Texture

	// Tags is the engine side channel carried over from the room manifest.
	Tags     map[string]string
	UserData any
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = mgl32.Vec3{1, 1, 1}
	n.Visible = true
	n.Bounds = EmptyAABB()
	n.Base = IdentityTransform
}

// NewGroup creates a node with no geometry.
func NewGroup(name string) *Node {
	n := &Node{Name: name, Kind: NodeKindGroup}
	nodeDefaults(n)
	return n
}

// NewMesh creates a mesh node whose local geometry fills a box of the given
// size centered on the node origin.
func NewMesh(name string, size mgl32.Vec3) *Node {
	n := &Node{Name: name, Kind: NodeKindMesh}
	nodeDefaults(n)
	n.Bounds = BoxFromCenter(mgl32.Vec3{}, size)
	return n
}

func newProxy(name string, box AABB) *Node {
	n := &Node{Name: name, Kind: NodeKindProxy}
	nodeDefaults(n)
	n.Visible = false
	n.Position = box.Center()
	n.Bounds = BoxFromCenter(mgl32.Vec3{}, box.Size())
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("folio: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("folio: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("folio: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// Walk visits n and all of its descendants depth-first in child order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// FindAll returns every non-proxy node in the subtree whose name contains
// substr, in traversal order.
func (n *Node) FindAll(substr string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Kind != NodeKindProxy && strings.Contains(c.Name, substr) {
			out = append(out, c)
		}
	})
	return out
}

// Tag returns the side-channel value stored under key.
func (n *Node) Tag(key string) (string, bool) {
	v, ok := n.Tags[key]
	return v, ok
}

// SetTag stores a side-channel value.
func (n *Node) SetTag(key, value string) {
	if n.Tags == nil {
		n.Tags = make(map[string]string)
	}
	n.Tags[key] = value
}

// --- Base pose ---

// Transform returns the current local transform.
func (n *Node) Transform() Transform {
	return Transform{Position: n.Position, Rotation: n.Rotation, Scale: n.Scale}
}

// SetTransform overwrites the local transform.
func (n *Node) SetTransform(t Transform) {
	n.Position = t.Position
	n.Rotation = t.Rotation
	n.Scale = t.Scale
}

// SnapshotBase records the current transform as the rest pose.
func (n *Node) SnapshotBase() {
	n.Base = n.Transform()
}

// Collapsed reports whether the node's scale is near zero on every axis.
// Collapsed nodes are treated as hidden or disabled.
func (n *Node) Collapsed() bool {
	for i := 0; i < 3; i++ {
		if n.Scale[i] > collapseEpsilon || n.Scale[i] < -collapseEpsilon {
			return false
		}
	}
	return true
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
