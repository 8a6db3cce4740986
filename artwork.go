package ggpaint

import (
	"errors"
	"fmt"
	stdimage "image"
	"log/slog"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/ggpaint/internal/blend"
	"github.com/gogpu/ggpaint/internal/blendtree"
	"github.com/gogpu/ggpaint/internal/filter"
	"github.com/gogpu/ggpaint/internal/image"
	"github.com/gogpu/ggpaint/internal/layer"
)

// Errors returned by Artwork operations.
var (
	// ErrNotInArtwork is returned when a node does not belong to the artwork.
	ErrNotInArtwork = errors.New("ggpaint: node is not part of this artwork")

	// ErrNoActiveLayer is returned by painting operations when no layer is active.
	ErrNoActiveLayer = errors.New("ggpaint: no active layer")

	// ErrNoLayerBelow is returned by MergeDown when the layer has no image
	// layer directly beneath it.
	ErrNoLayerBelow = errors.New("ggpaint: no image layer below")
)

// Artwork is a layered document. It owns the layer tree, the blend tree
// compiled from it and the flattened image returned by Fusion.
//
// Every change to the layer tree must go through Artwork methods, or be
// reported with InvalidateRect and PropertyChanged, so the cached
// composite stays correct. An Artwork is not safe for concurrent use.
type Artwork struct {
	width, height int

	root   *Group
	tree   *blendtree.Tree
	fusion *PixelBuffer
	dirty  Rect
	active *Layer

	opts    artworkOptions
	log     *slog.Logger
	counter int
}

// NewArtwork creates an empty document of the given size.
func NewArtwork(width, height int, opts ...ArtworkOption) (*Artwork, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}

	fusion, err := image.NewPixelBuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("ggpaint: new artwork: %w", err)
	}

	a := &Artwork{
		width:  width,
		height: height,
		root:   layer.NewRoot(),
		fusion: fusion,
		opts:   o,
		log:    o.logger,
	}
	a.tree = blendtree.New(width, height, a.root,
		blendtree.WithRequireOpaqueFusion(o.requireOpaque),
		blendtree.WithLogger(o.logger))
	a.dirty = a.Bounds()
	return a, nil
}

// Width returns the document width in pixels.
func (a *Artwork) Width() int { return a.width }

// Height returns the document height in pixels.
func (a *Artwork) Height() int { return a.height }

// Bounds returns the rectangle covering the whole document.
func (a *Artwork) Bounds() Rect {
	return image.RectWH(0, 0, a.width, a.height)
}

// Root returns the root group. Changes made to it directly must be
// reported with PropertyChanged or StructureChanged.
func (a *Artwork) Root() *Group { return a.root }

// Layers returns every image layer, bottom of the stack first.
func (a *Artwork) Layers() []*Layer { return a.root.Layers() }

// ActiveLayer returns the layer painting operations apply to, or nil.
func (a *Artwork) ActiveLayer() *Layer { return a.active }

// SetActiveLayer selects the layer painting operations apply to.
func (a *Artwork) SetActiveLayer(l *Layer) error {
	if l != nil && !a.contains(l) {
		return fmt.Errorf("set active layer %q: %w", l.Name(), ErrNotInArtwork)
	}
	a.active = l
	return nil
}

// NewMask creates an 8-bit mask of the document size, fully opaque.
func (a *Artwork) NewMask() *MaskBuffer {
	m, err := image.NewMaskBuffer(a.width, a.height, image.MaskDepth8)
	if err != nil {
		panic(err)
	}
	m.Fill(255)
	return m
}

func (a *Artwork) contains(n Node) bool {
	return n != nil && a.root.IsAncestorOf(n)
}

// insertionPoint returns where a new node goes: directly above the active
// layer, or at the top of the root group.
func (a *Artwork) insertionPoint() (*Group, int) {
	if a.active != nil {
		if p := a.active.Parent(); p != nil {
			return p, p.IndexOf(a.active) + 1
		}
	}
	return a.root, a.root.Len()
}

// AddLayer creates a transparent layer above the active one and makes it
// active. An empty name gets a numbered default. The first layer of a
// document created WithBackground is filled with the background color.
func (a *Artwork) AddLayer(name string) (*Layer, error) {
	a.counter++
	if name == "" {
		name = fmt.Sprintf("Layer %d", a.counter)
	}
	l, err := layer.NewLayer(name, a.width, a.height)
	if err != nil {
		return nil, fmt.Errorf("add layer: %w", err)
	}
	if a.opts.hasBackground && len(a.Layers()) == 0 {
		l.Image().ClearAll(a.opts.background)
	}

	parent, i := a.insertionPoint()
	if err := parent.Insert(i, l); err != nil {
		return nil, fmt.Errorf("add layer: %w", err)
	}
	a.active = l
	a.StructureChanged()
	return l, nil
}

// AddGroup creates an empty pass-through group above the active layer.
func (a *Artwork) AddGroup(name string) (*Group, error) {
	a.counter++
	if name == "" {
		name = fmt.Sprintf("Group %d", a.counter)
	}
	g := layer.NewGroup(name)
	parent, i := a.insertionPoint()
	if err := parent.Insert(i, g); err != nil {
		return nil, fmt.Errorf("add group: %w", err)
	}
	a.StructureChanged()
	return g, nil
}

// RemoveLayer detaches a layer or group from the document. When the active
// layer goes with it, the topmost remaining layer becomes active.
func (a *Artwork) RemoveLayer(n Node) error {
	if !a.contains(n) {
		return fmt.Errorf("remove layer: %w", ErrNotInArtwork)
	}
	if err := n.Parent().Remove(n); err != nil {
		return fmt.Errorf("remove layer: %w", err)
	}
	if a.active != nil && !a.contains(a.active) {
		a.active = nil
		if layers := a.Layers(); len(layers) > 0 {
			a.active = layers[len(layers)-1]
		}
	}
	a.StructureChanged()
	return nil
}

// MoveLayer moves n into dst at index i (0 is the bottom of dst).
func (a *Artwork) MoveLayer(n Node, dst *Group, i int) error {
	if !a.contains(n) {
		return fmt.Errorf("move layer: %w", ErrNotInArtwork)
	}
	if dst != a.root && !a.contains(dst) {
		return fmt.Errorf("move layer: destination %w", ErrNotInArtwork)
	}
	if err := layer.Move(n, dst, i); err != nil {
		return fmt.Errorf("move layer: %w", err)
	}
	a.StructureChanged()
	return nil
}

// DuplicateLayer inserts a copy of l directly above it and makes the copy
// active.
func (a *Artwork) DuplicateLayer(l *Layer) (*Layer, error) {
	if !a.contains(l) {
		return nil, fmt.Errorf("duplicate layer: %w", ErrNotInArtwork)
	}
	dup := l.Duplicate()
	p := l.Parent()
	if err := p.Insert(p.IndexOf(l)+1, dup); err != nil {
		return nil, fmt.Errorf("duplicate layer: %w", err)
	}
	a.active = dup
	a.StructureChanged()
	return dup, nil
}

// MergeDown composites l onto the image layer directly below it and
// removes l. The pair is flattened in isolation with a temporary blend
// tree, so l's alpha, mode, mask and clip flag are honored. The layer
// below keeps its blend mode; its alpha and active mask are baked into its
// pixels.
func (a *Artwork) MergeDown(l *Layer) error {
	if !a.contains(l) {
		return fmt.Errorf("merge down: %w", ErrNotInArtwork)
	}
	p := l.Parent()
	i := p.IndexOf(l)
	if i == 0 {
		return fmt.Errorf("merge down %q: %w", l.Name(), ErrNoLayerBelow)
	}
	below, ok := p.At(i - 1).(*Layer)
	if !ok {
		return fmt.Errorf("merge down %q: %w", l.Name(), ErrNoLayerBelow)
	}

	pair := layer.NewRoot()
	bottom := layer.NewLayerWithImage(below.Name(), below.Image())
	bottom.SetAlpha(below.Alpha())
	bottom.SetMask(below.ActiveMask())
	top := layer.NewLayerWithImage(l.Name(), l.Image())
	top.SetAlpha(l.Alpha())
	top.SetBlendMode(l.BlendMode())
	top.SetVisible(l.Visible())
	top.SetClip(l.Clip())
	top.SetMask(l.ActiveMask())
	for _, n := range []Node{bottom, top} {
		if err := pair.Add(n); err != nil {
			return fmt.Errorf("merge down: %w", err)
		}
	}

	res := blendtree.New(a.width, a.height, pair, blendtree.WithLogger(a.log)).Blend()
	blend.CopyAndMultiplyAlphaBy(below.Image(), res.Image, res.Alpha, a.Bounds())

	below.SetAlpha(100)
	if below.ActiveMask() != nil {
		below.SetMask(nil)
	}
	if err := p.Remove(l); err != nil {
		return fmt.Errorf("merge down: %w", err)
	}
	if a.active == l {
		a.active = below
	}
	a.log.Debug("ggpaint: merged down", slog.String("layer", l.Name()), slog.String("into", below.Name()))
	a.StructureChanged()
	return nil
}

// SetLayerAlpha sets the opacity (clamped to 0..100) of a layer or group.
func (a *Artwork) SetLayerAlpha(n Node, alpha int) {
	if n.Alpha() == alpha {
		return
	}
	n.SetAlpha(alpha)
	a.PropertyChanged(n, blendtree.ChangeAlpha)
}

// SetLayerBlendMode sets the blend mode of a layer or group.
func (a *Artwork) SetLayerBlendMode(n Node, mode BlendMode) {
	if n.BlendMode() == mode {
		return
	}
	n.SetBlendMode(mode)
	a.PropertyChanged(n, blendtree.ChangeBlendMode)
}

// SetLayerVisible shows or hides a layer or group.
func (a *Artwork) SetLayerVisible(n Node, visible bool) {
	if n.Visible() == visible {
		return
	}
	n.SetVisible(visible)
	a.PropertyChanged(n, blendtree.ChangeVisible)
}

// SetLayerClip sets whether n is clipped to the layer below it.
func (a *Artwork) SetLayerClip(n Node, clip bool) {
	if n.Clip() == clip {
		return
	}
	n.SetClip(clip)
	a.PropertyChanged(n, blendtree.ChangeClip)
}

// SetLayerMask attaches a mask to l, or removes it when m is nil.
func (a *Artwork) SetLayerMask(l *Layer, m *MaskBuffer) {
	l.SetMask(m)
	a.PropertyChanged(l, blendtree.ChangeMask)
}

// SetLayerMaskVisible enables or disables l's mask without removing it.
func (a *Artwork) SetLayerMaskVisible(l *Layer, visible bool) {
	l.SetMaskVisible(visible)
	a.PropertyChanged(l, blendtree.ChangeMask)
}

// PropertyChanged reports property changes made directly on a node.
func (a *Artwork) PropertyChanged(n Node, change blendtree.Change) {
	a.tree.LayerPropertyChanged(n, change)
	a.dirty = a.Bounds()
}

// StructureChanged reports that nodes were added, removed or reordered
// directly on the tree.
func (a *Artwork) StructureChanged() {
	a.PropertyChanged(a.root, blendtree.ChangeStructure)
}

// InvalidateRect reports that r of l's pixels changed.
func (a *Artwork) InvalidateRect(l *Layer, r Rect) {
	r = r.Clip(a.Bounds())
	if r.IsEmpty() {
		return
	}
	a.tree.InvalidateLayerRect(l, r)
	a.dirty = a.dirty.Union(r)
}

// Fusion returns the flattened document. Only regions invalidated since the
// previous call are recomposited. The returned buffer is owned by the
// artwork and is overwritten by later calls.
func (a *Artwork) Fusion() *PixelBuffer {
	res := a.tree.Blend()
	if !a.dirty.IsEmpty() {
		blend.CopyAndMultiplyAlphaBy(a.fusion, res.Image, res.Alpha, a.dirty)
		a.dirty = Rect{}
	}
	return a.fusion
}

// Image returns a copy of the flattened document as an *image.NRGBA.
func (a *Artwork) Image() stdimage.Image {
	return a.Fusion().ToNRGBA()
}

// ImportImage replaces l's pixels with img. An image of a different size
// is scaled to fill the document.
func (a *Artwork) ImportImage(l *Layer, img stdimage.Image) error {
	if !a.contains(l) {
		return fmt.Errorf("import image: %w", ErrNotInArtwork)
	}
	src := img.Bounds()
	if src.Dx() == a.width && src.Dy() == a.height {
		buf, err := image.FromStdImage(img)
		if err != nil {
			return fmt.Errorf("import image: %w", err)
		}
		l.Image().CopyDataFrom(buf)
	} else {
		dst := stdimage.NewNRGBA(stdimage.Rect(0, 0, a.width, a.height))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, src, xdraw.Src, nil)
		if err := l.Image().FromNRGBA(dst); err != nil {
			return fmt.Errorf("import image: %w", err)
		}
	}
	a.InvalidateRect(l, a.Bounds())
	return nil
}

// FloodFill fills the contiguous region of the active layer around (x, y).
func (a *Artwork) FloodFill(x, y int, argb uint32) error {
	if a.active == nil {
		return ErrNoActiveLayer
	}
	a.active.Image().FloodFill(x, y, argb)
	a.InvalidateRect(a.active, a.Bounds())
	return nil
}

// GradientFill paints a linear gradient into r of the active layer. With
// replace false the gradient is composited over the existing pixels.
func (a *Artwork) GradientFill(r Rect, fromX, fromY, toX, toY int, fromARGB, toARGB uint32, replace bool) error {
	if a.active == nil {
		return ErrNoActiveLayer
	}
	a.active.Image().GradientFill(r, fromX, fromY, toX, toY, fromARGB, toARGB, replace)
	a.InvalidateRect(a.active, r)
	return nil
}

// BoxBlur blurs r of the active layer.
func (a *Artwork) BoxBlur(r Rect, radiusX, radiusY, iterations int) error {
	if a.active == nil {
		return ErrNoActiveLayer
	}
	f := &filter.BoxBlur{RadiusX: radiusX, RadiusY: radiusY, Iterations: iterations}
	f.Apply(a.active.Image(), r)
	a.InvalidateRect(a.active, r)
	return nil
}
