// Package filter provides pixel filters that operate in place on a
// PixelBuffer region.
//
// Filters currently provided:
//   - Box blur (separable, sliding window, O(n) per row regardless of radius)
//
// Blurs work on premultiplied values internally so transparent pixels do not
// bleed their leftover color into visible neighbors.
package filter
