package hwio

// PageCrossed reports whether a and b lie in different 256-byte pages.
func PageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}
