package layer

import (
	"errors"
	"fmt"

	"github.com/gogpu/ggpaint/internal/blend"
)

// Errors returned by tree mutations.
var (
	// ErrNotChild is returned when a node is not a child of the group.
	ErrNotChild = errors.New("layer: node is not a child of this group")

	// ErrCycle is returned when a group would become its own descendant.
	ErrCycle = errors.New("layer: group cannot contain itself")

	// ErrHasParent is returned when adding a node that already has a parent.
	ErrHasParent = errors.New("layer: node already has a parent")
)

// Group is an ordered collection of layers and groups.
type Group struct {
	props

	children []Node
	expanded bool
}

// NewGroup creates an empty, expanded group with pass-through blending,
// the default for groups created in the editor.
func NewGroup(name string) *Group {
	g := &Group{props: newProps(name), expanded: true}
	g.mode = blend.ModePassthrough
	return g
}

// NewRoot creates the document's root group. The root composites normally.
func NewRoot() *Group {
	return &Group{props: newProps("root"), expanded: true}
}

// SetBlendMode sets the group's mode; every mode including pass-through is
// allowed on groups.
func (g *Group) SetBlendMode(m blend.Mode) {
	if !m.IsValid() {
		m = blend.ModeNormal
	}
	g.mode = m
}

// Passthrough reports whether the group has no compositing step of its own.
func (g *Group) Passthrough() bool {
	return g.mode == blend.ModePassthrough
}

// Expanded reports whether the group is expanded in the layer palette.
func (g *Group) Expanded() bool { return g.expanded }

// SetExpanded records the palette state.
func (g *Group) SetExpanded(e bool) { g.expanded = e }

// Children returns the children, bottom of the stack first. The slice must
// not be modified.
func (g *Group) Children() []Node { return g.children }

// Len returns the number of children.
func (g *Group) Len() int { return len(g.children) }

// At returns the child at index i.
func (g *Group) At(i int) Node { return g.children[i] }

// IndexOf returns the index of n among the children, or -1.
func (g *Group) IndexOf(n Node) int {
	for i, c := range g.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Add appends n at the top of the stack.
func (g *Group) Add(n Node) error {
	return g.Insert(len(g.children), n)
}

// Insert places n at index i (0 is the bottom).
func (g *Group) Insert(i int, n Node) error {
	if n.Parent() != nil {
		return fmt.Errorf("insert %q: %w", n.Name(), ErrHasParent)
	}
	if sub, ok := n.(*Group); ok && (sub == g || sub.IsAncestorOf(g)) {
		return fmt.Errorf("insert %q: %w", n.Name(), ErrCycle)
	}
	i = min(max(i, 0), len(g.children))
	g.children = append(g.children, nil)
	copy(g.children[i+1:], g.children[i:])
	g.children[i] = n
	n.setParent(g)
	return nil
}

// Remove detaches n from the group.
func (g *Group) Remove(n Node) error {
	i := g.IndexOf(n)
	if i < 0 {
		return fmt.Errorf("remove %q: %w", n.Name(), ErrNotChild)
	}
	g.children = append(g.children[:i], g.children[i+1:]...)
	n.setParent(nil)
	return nil
}

// Move detaches n from its parent and inserts it into dst at index i.
func Move(n Node, dst *Group, i int) error {
	if sub, ok := n.(*Group); ok && (sub == dst || sub.IsAncestorOf(dst)) {
		return fmt.Errorf("move %q: %w", n.Name(), ErrCycle)
	}
	if p := n.Parent(); p != nil {
		if p == dst && p.IndexOf(n) < i {
			i--
		}
		if err := p.Remove(n); err != nil {
			return err
		}
	}
	return dst.Insert(i, n)
}

// IsAncestorOf reports whether g contains n at any depth.
func (g *Group) IsAncestorOf(n Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p == g {
			return true
		}
	}
	return false
}

// Walk calls fn for every descendant in bottom-to-top, depth-first order.
// A group is visited before its children. Returning false from fn skips the
// children of the node just visited.
func (g *Group) Walk(fn func(Node) bool) {
	for _, c := range g.children {
		descend := fn(c)
		if sub, ok := c.(*Group); ok && descend {
			sub.Walk(fn)
		}
	}
}

// Layers returns every image layer below g, bottom first.
func (g *Group) Layers() []*Layer {
	var out []*Layer
	g.Walk(func(n Node) bool {
		if l, ok := n.(*Layer); ok {
			out = append(out, l)
		}
		return true
	})
	return out
}

// String implements fmt.Stringer.
func (g *Group) String() string {
	return fmt.Sprintf("Group(%q alpha=%d mode=%v children=%d)", g.name, g.alpha, g.mode, len(g.children))
}
