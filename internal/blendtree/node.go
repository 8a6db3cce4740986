package blendtree

import (
	"github.com/gogpu/ggpaint/internal/blend"
	"github.com/gogpu/ggpaint/internal/image"
	"github.com/gogpu/ggpaint/internal/layer"
)

// nodeID addresses a blendNode in the tree's arena.
type nodeID int32

const noNode nodeID = -1

// blendNode is one step of the evaluation plan.
//
// A leaf wraps a single layer and points at that layer's own pixels; it
// never owns a scratch buffer. Any other node composites its children into
// a scratch buffer taken from the pool.
type blendNode struct {
	layer *layer.Layer // leaves only
	mask  *image.MaskBuffer
	image *image.PixelBuffer

	alpha int
	mode  blend.Mode
	clip  bool

	// dirty is the region of image that no longer reflects the children.
	dirty image.Rect

	children []nodeID
	parent   nodeID

	// owner is the layer or group whose blend mode this node's mode mirrors,
	// or nil when the mode is fixed by the tree's structure.
	owner layer.Node
}

func (n *blendNode) isLeaf() bool {
	return len(n.children) == 0
}

// Result is the top of a composite.
type Result struct {
	// Image holds the composited pixels. It may be a layer's own buffer when
	// the document reduces to a single layer, so callers must not modify it.
	Image *image.PixelBuffer

	// Alpha is the opacity (0..100) still to be applied to Image.
	Alpha int

	// BlendMode is the mode the top node would use against a backdrop.
	BlendMode blend.Mode
}
