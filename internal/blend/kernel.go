package blend

// ontoOpaque blends one channel onto a fusion pixel whose alpha is 255.
// alpha is the top alpha in hundredths (0..alphaFull).
func ontoOpaque(fn channelFunc, top, bottom, alpha int32) int32 {
	return (fn(top, bottom)*alpha + bottom*(alphaFull-alpha)) / alphaFull
}

// overlap holds the coverage weights of one pixel pair for ontoTransparent.
// Only the top covers in alpha1n2, only the bottom in alphan12, both in
// alpha12. newAlpha is the composited alpha.
type overlap struct {
	newAlpha int32
	alpha12  int32
	alpha1n2 int32
	alphan12 int32
}

// newOverlap computes the weights for top alpha (in hundredths) over a
// bottom alpha of 0..255, using the "over" rule
// newAlpha = alphaTop + alphaBottom - alphaTop*alphaBottom/255.
func newOverlap(alpha, bottomAlpha int32) overlap {
	return overlap{
		newAlpha: alpha/alphaScale + bottomAlpha - alpha*bottomAlpha/alphaFull,
		alpha12:  alpha * bottomAlpha / alphaFull,
		alpha1n2: alpha * (255 - bottomAlpha) / alphaFull,
		alphan12: (alphaFull - alpha) * bottomAlpha / alphaFull,
	}
}

// ontoTransparent blends one channel for a pixel pair described by o.
// o.newAlpha must be positive.
func ontoTransparent(fn channelFunc, top, bottom int32, o overlap) int32 {
	c := (top*o.alpha1n2 + bottom*o.alphan12 + fn(top, bottom)*o.alpha12) / o.newAlpha
	return min(c, 255)
}
