// Package blendtree composites a layer tree incrementally.
//
// The tree is compiled into an evaluation plan of blend nodes: invisible
// nodes are dropped, pass-through groups are spliced into their parent,
// groups with a single child collapse into that child and runs of clipped
// layers become implicit clipping groups. Each compositing node keeps its
// result in a scratch buffer together with a dirty rectangle, so a later
// Blend only redoes the regions that changed.
//
// A Tree is owned by one document and is not safe for concurrent use.
// Callers must report every pixel change with InvalidateLayerRect and every
// property change with LayerPropertyChanged before the next Blend.
package blendtree

import (
	"log/slog"

	"github.com/gogpu/ggpaint/internal/blend"
	"github.com/gogpu/ggpaint/internal/image"
	"github.com/gogpu/ggpaint/internal/layer"
)

// Change describes which properties of a layer or group changed.
type Change uint8

// Property changes reported to LayerPropertyChanged.
const (
	ChangeBlendMode Change = 1 << iota
	ChangeAlpha
	ChangeVisible
	ChangeClip
	ChangeMask
	ChangeStructure
)

// Tree is the compiled, cached composite of a layer tree.
type Tree struct {
	width, height int
	root          *layer.Group
	opts          options
	log           *slog.Logger

	pool  *image.Pool
	nodes []blendNode
	top   nodeID
	built bool

	nodeForLayer map[*layer.Layer]nodeID
	modeOwner    map[layer.Node]nodeID
	passthrough  map[*layer.Group]bool
}

// New creates a tree for a document of the given size. Nothing is built
// until Build or Blend is called.
func New(width, height int, root *layer.Group, opts ...Option) *Tree {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Tree{
		width:        width,
		height:       height,
		root:         root,
		opts:         o,
		log:          o.logger,
		pool:         image.NewPool(width, height),
		top:          noNode,
		nodeForLayer: make(map[*layer.Layer]nodeID),
		modeOwner:    make(map[layer.Node]nodeID),
		passthrough:  make(map[*layer.Group]bool),
	}
}

// Bounds returns the rectangle covering the whole document.
func (t *Tree) Bounds() image.Rect {
	return image.Rect{Right: t.width, Bottom: t.height}
}

// Built reports whether the plan is currently built.
func (t *Tree) Built() bool {
	return t.built
}

// Reset discards the plan. Scratch buffers go back to the pool so the next
// Build can reuse them.
func (t *Tree) Reset() {
	if !t.built {
		return
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.layer == nil && n.image != nil {
			t.pool.Put(n.image)
		}
	}
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.top = noNode
	t.built = false
	clear(t.nodeForLayer)
	clear(t.modeOwner)
	clear(t.passthrough)
}

// Build compiles the layer tree into a plan. It does nothing if the plan is
// already built. Every compositing node starts fully dirty.
func (t *Tree) Build() {
	if t.built {
		return
	}

	t.passthrough[t.root] = t.root.Passthrough()
	top := t.buildGroupNode(t.root)
	if top == noNode {
		top = t.newNode(blendNode{
			image:  t.pool.Get(),
			alpha:  100,
			mode:   blend.ModeNormal,
			parent: noNode,
		})
		t.nodes[top].image.ClearAll(0)
	}

	// a bare leaf on top has nobody to apply its mask, so it gets a
	// composite step too
	topNode := &t.nodes[top]
	if (t.opts.requireOpaque && topNode.alpha < 100) || (topNode.isLeaf() && topNode.mask != nil) {
		wrapper := t.newNode(blendNode{
			image:    t.pool.Get(),
			alpha:    100,
			mode:     blend.ModeNormal,
			dirty:    t.Bounds(),
			children: []nodeID{top},
			parent:   noNode,
		})
		t.nodes[top].parent = wrapper
		top = wrapper
	}

	t.nodes[top].parent = noNode
	t.top = top
	t.built = true

	released := t.pool.Drain()
	t.log.Debug("blendtree: built",
		slog.Int("nodes", len(t.nodes)),
		slog.Int("scratch", t.scratchCount()),
		slog.Int("released", released))
}

func (t *Tree) scratchCount() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].layer == nil {
			n++
		}
	}
	return n
}

func (t *Tree) newNode(n blendNode) nodeID {
	id := nodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	return id
}

func (t *Tree) newLeaf(l *layer.Layer) nodeID {
	id := t.newNode(blendNode{
		layer:  l,
		mask:   l.ActiveMask(),
		image:  l.Image(),
		alpha:  l.Alpha(),
		mode:   l.BlendMode(),
		parent: noNode,
		owner:  l,
	})
	t.nodeForLayer[l] = id
	t.modeOwner[l] = id
	return id
}

// buildGroupNode builds g as a single node, or returns noNode when nothing
// in g is visible.
func (t *Tree) buildGroupNode(g *layer.Group) nodeID {
	return t.makeGroup(t.buildChildren(g), g.Alpha(), g.BlendMode(), false, g)
}

// buildChildren returns the nodes for g's visible children, bottom first.
// Pass-through groups contribute their own children in their place and
// clipped runs are wrapped into clipping groups.
func (t *Tree) buildChildren(g *layer.Group) []nodeID {
	kids := g.Children()
	var out []nodeID

	for i := 0; i < len(kids); i++ {
		switch c := kids[i].(type) {
		case *layer.Layer:
			clipBase := i+1 < len(kids) && kids[i+1].Clip()
			if c.EffectiveAlpha() == 0 {
				// layers clipped to a hidden base are hidden with it
				for clipBase && i+1 < len(kids) && kids[i+1].Clip() {
					i++
				}
				continue
			}
			if !clipBase {
				out = append(out, t.newLeaf(c))
				continue
			}

			base := t.newLeaf(c)
			t.absorb(base)
			members := []nodeID{base}
			for i+1 < len(kids) && kids[i+1].Clip() {
				i++
				if id := t.buildClipped(kids[i]); id != noNode {
					members = append(members, id)
				}
			}
			if id := t.makeGroup(members, c.Alpha(), c.BlendMode(), true, c); id != noNode {
				out = append(out, id)
			}

		case *layer.Group:
			t.passthrough[c] = c.Passthrough()
			if c.EffectiveAlpha() == 0 {
				continue
			}
			if c.Passthrough() {
				out = append(out, t.buildChildren(c)...)
				continue
			}
			if id := t.buildGroupNode(c); id != noNode {
				out = append(out, id)
			}
		}
	}
	return out
}

// buildClipped builds one member of a clipping run above its base.
func (t *Tree) buildClipped(n layer.Node) nodeID {
	if n.EffectiveAlpha() == 0 {
		return noNode
	}
	switch c := n.(type) {
	case *layer.Layer:
		return t.newLeaf(c)
	case *layer.Group:
		t.passthrough[c] = c.Passthrough()
		return t.buildGroupNode(c)
	}
	return noNode
}

// absorb turns a clipping base into a plain member: its alpha and mode now
// belong to the clipping group.
func (t *Tree) absorb(id nodeID) {
	n := &t.nodes[id]
	if n.owner != nil {
		delete(t.modeOwner, n.owner)
	}
	n.alpha = 100
	n.mode = blend.ModeNormal
	n.owner = nil
}

// makeGroup creates a compositing node over children. An empty list yields
// noNode and a single child absorbs the group's alpha and mode instead of
// getting a composite step of its own.
func (t *Tree) makeGroup(children []nodeID, alpha int, mode blend.Mode, clip bool, owner layer.Node) nodeID {
	passthrough := mode == blend.ModePassthrough
	if passthrough {
		// a pass-through group that still needs a node composites as a
		// plain group at full opacity
		alpha, mode, owner = 100, blend.ModeNormal, nil
	}

	switch len(children) {
	case 0:
		return noNode
	case 1:
		id := children[0]
		c := &t.nodes[id]
		c.alpha = (alpha*c.alpha + 50) / 100
		if !passthrough {
			if c.owner != nil {
				delete(t.modeOwner, c.owner)
			}
			c.mode = mode
			c.owner = owner
			if owner != nil {
				t.modeOwner[owner] = id
			}
		}
		return id
	}

	id := t.newNode(blendNode{
		image:    t.pool.Get(),
		alpha:    alpha,
		mode:     mode,
		clip:     clip,
		dirty:    t.Bounds(),
		children: children,
		parent:   noNode,
		owner:    owner,
	})
	for _, c := range children {
		t.nodes[c].parent = id
	}
	if owner != nil {
		t.modeOwner[owner] = id
	}
	return id
}

// InvalidateLayerRect marks r as changed in l's pixels. Every node above l
// will recomposite r on the next Blend. Layers not in the plan are ignored.
func (t *Tree) InvalidateLayerRect(l *layer.Layer, r image.Rect) {
	if !t.built {
		return
	}
	id, ok := t.nodeForLayer[l]
	if !ok {
		return
	}
	t.invalidateAbove(id, r)
}

// InvalidateAll marks every compositing node fully dirty.
func (t *Tree) InvalidateAll() {
	for i := range t.nodes {
		if !t.nodes[i].isLeaf() {
			t.nodes[i].dirty = t.Bounds()
		}
	}
}

func (t *Tree) invalidateAbove(id nodeID, r image.Rect) {
	r = r.Clip(t.Bounds())
	if r.IsEmpty() {
		return
	}
	for p := t.nodes[id].parent; p != noNode; p = t.nodes[p].parent {
		t.nodes[p].dirty = t.nodes[p].dirty.Union(r)
	}
}

// LayerPropertyChanged reports that properties of n changed. A blend mode
// change that does not enter or leave pass-through is patched into the
// plan; any other change can alter the plan's shape and discards it.
func (t *Tree) LayerPropertyChanged(n layer.Node, change Change) {
	if !t.built || change == 0 {
		return
	}

	switch change {
	case ChangeBlendMode:
		if g, ok := n.(*layer.Group); ok {
			if was, seen := t.passthrough[g]; seen && was != g.Passthrough() {
				t.Reset()
				return
			}
		}
		if id, ok := t.modeOwner[n]; ok {
			t.nodes[id].mode = n.BlendMode()
			t.invalidateAbove(id, t.Bounds())
		}
		return

	case ChangeMask:
		if l, ok := n.(*layer.Layer); ok {
			if id, ok := t.nodeForLayer[l]; ok {
				if id == t.top {
					t.Reset()
					return
				}
				t.nodes[id].mask = l.ActiveMask()
				t.invalidateAbove(id, t.Bounds())
			}
		}
		return
	}

	t.log.Debug("blendtree: reset", slog.String("node", n.Name()), slog.Int("change", int(change)))
	t.Reset()
}

// Blend brings every dirty node up to date and returns the top of the
// composite. It builds the plan first if needed.
func (t *Tree) Blend() Result {
	t.Build()
	t.blendNode(t.top)
	n := &t.nodes[t.top]
	return Result{Image: n.image, Alpha: n.alpha, BlendMode: n.mode}
}

// blendNode recomposites the dirty region of id from its children,
// bottom of the stack first.
func (t *Tree) blendNode(id nodeID) {
	n := &t.nodes[id]
	if n.isLeaf() || n.dirty.IsEmpty() {
		return
	}

	dirty := n.dirty
	fusion := &blend.Fusion{Image: n.image, Alpha: 100}
	var base *blendNode
	transparent, checked := false, false

	for _, cid := range n.children {
		t.blendNode(cid)
		c := &t.nodes[cid]
		if c.alpha <= 0 {
			continue
		}

		if base == nil {
			base = c
			t.layDown(fusion, c, dirty)
			continue
		}

		if !checked {
			transparent = n.image.HasAlphaInRect(dirty)
			checked = true
		}
		blend.FuseImageOntoImage(fusion, transparent, c.image, c.alpha, c.mode, dirty, c.mask)
		if n.clip {
			blend.ReplaceAlphaOntoFusion(fusion, base.image, dirty, base.mask)
		}
	}

	if base == nil {
		n.image.ClearRect(dirty, 0)
	}
	n.dirty = image.Rect{}
}

// layDown establishes the bottom-most contributor of a composite.
func (t *Tree) layDown(fusion *blend.Fusion, c *blendNode, dirty image.Rect) {
	if c.alpha == 100 && c.mask == nil && dirty == t.Bounds() {
		fusion.Image.CopyDataFrom(c.image)
		return
	}
	blend.ReplaceOntoFusion(fusion, c.image, c.alpha, dirty, c.mask)
}
