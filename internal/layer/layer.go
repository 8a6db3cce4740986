// Package layer implements the document's layer tree: image layers holding
// pixels and groups holding an ordered list of children.
//
// Children are stored bottom of the stack first. The tree carries no
// compositing logic; it is read by the blend tree, which must be notified
// of every change through its invalidation entry points.
package layer

import (
	"fmt"

	"github.com/gogpu/ggpaint/internal/blend"
	"github.com/gogpu/ggpaint/internal/image"
)

// Node is implemented by *Layer and *Group.
type Node interface {
	Name() string
	SetName(string)
	Alpha() int
	SetAlpha(int)
	BlendMode() blend.Mode
	SetBlendMode(blend.Mode)
	Visible() bool
	SetVisible(bool)
	Clip() bool
	SetClip(bool)
	Parent() *Group

	// EffectiveAlpha is the opacity the node contributes: 0 when hidden,
	// otherwise its own alpha.
	EffectiveAlpha() int

	setParent(*Group)
}

// props holds the properties shared by layers and groups.
type props struct {
	name    string
	alpha   int
	mode    blend.Mode
	visible bool
	clip    bool
	parent  *Group
}

func newProps(name string) props {
	return props{name: name, alpha: 100, mode: blend.ModeNormal, visible: true}
}

func (p *props) Name() string            { return p.name }
func (p *props) SetName(name string)     { p.name = name }
func (p *props) Alpha() int              { return p.alpha }
func (p *props) SetAlpha(alpha int)      { p.alpha = min(max(alpha, 0), 100) }
func (p *props) BlendMode() blend.Mode   { return p.mode }
func (p *props) Visible() bool           { return p.visible }
func (p *props) SetVisible(visible bool) { p.visible = visible }
func (p *props) Clip() bool              { return p.clip }
func (p *props) SetClip(clip bool)       { p.clip = clip }
func (p *props) Parent() *Group          { return p.parent }
func (p *props) setParent(g *Group)      { p.parent = g }

// EffectiveAlpha returns 0 for hidden nodes and the node's alpha otherwise.
func (p *props) EffectiveAlpha() int {
	if !p.visible {
		return 0
	}
	return p.alpha
}

// Layer is an image layer. Its image always has the document's dimensions.
type Layer struct {
	props

	image       *image.PixelBuffer
	mask        *image.MaskBuffer
	maskVisible bool
}

// NewLayer creates a transparent layer of the given size.
func NewLayer(name string, width, height int) (*Layer, error) {
	buf, err := image.NewPixelBuffer(width, height)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", name, err)
	}
	return &Layer{props: newProps(name), image: buf}, nil
}

// NewLayerWithImage creates a layer that takes ownership of buf.
func NewLayerWithImage(name string, buf *image.PixelBuffer) *Layer {
	return &Layer{props: newProps(name), image: buf}
}

// SetBlendMode sets the mode. Image layers cannot be pass-through; that mode
// is stored as Normal.
func (l *Layer) SetBlendMode(m blend.Mode) {
	if !m.HasOperator() {
		m = blend.ModeNormal
	}
	l.mode = m
}

// Image returns the layer's pixels.
func (l *Layer) Image() *image.PixelBuffer { return l.image }

// Mask returns the layer mask, or nil.
func (l *Layer) Mask() *image.MaskBuffer { return l.mask }

// SetMask attaches m (nil removes the mask). A new mask is visible.
func (l *Layer) SetMask(m *image.MaskBuffer) {
	l.mask = m
	l.maskVisible = m != nil
}

// MaskVisible reports whether the mask is applied when compositing.
func (l *Layer) MaskVisible() bool { return l.maskVisible }

// SetMaskVisible toggles whether the mask is applied.
func (l *Layer) SetMaskVisible(v bool) { l.maskVisible = v }

// ActiveMask returns the mask to composite with, or nil.
func (l *Layer) ActiveMask() *image.MaskBuffer {
	if l.mask != nil && l.maskVisible {
		return l.mask
	}
	return nil
}

// Duplicate returns an unparented copy with the same properties and pixels.
func (l *Layer) Duplicate() *Layer {
	d := &Layer{
		props:       l.props,
		image:       l.image.Clone(),
		maskVisible: l.maskVisible,
	}
	d.parent = nil
	d.name = l.name + " copy"
	if l.mask != nil {
		d.mask = l.mask.Clone()
	}
	return d
}

// String implements fmt.Stringer.
func (l *Layer) String() string {
	return fmt.Sprintf("Layer(%q alpha=%d mode=%v)", l.name, l.alpha, l.mode)
}
