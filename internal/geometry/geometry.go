package geometry

// Rect is an axis-aligned rectangle.
type Rect struct {
	Width  uint32
	Height uint32
}

// Area returns Width*Height. The product is computed in 64 bits, so it never wraps.
func (r Rect) Area() uint64 {
	return uint64(r.Width) * uint64(r.Height)
}
