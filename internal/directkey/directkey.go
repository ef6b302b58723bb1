// Package directkey derives the uniqueness key for direct conversations.
package directkey

// Canonical builds an order-independent key for a pair of profile ids:
// the two ids are totally ordered lexically and joined, so
// Canonical(a, b) == Canonical(b, a) for all inputs. The key is the sole
// uniqueness witness for direct conversations.
func Canonical(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}
