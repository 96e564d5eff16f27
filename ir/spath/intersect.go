package spath

// Intersect correlates the pattern left with a path resolved from the
// pattern right. Leading positions where left is a wildcard or agrees
// with right take their segment from resolved; the rest of left is kept
// as is and may still hold wildcards.
//
// When neither pattern has a wildcard, resolved is returned unchanged.
func Intersect(resolved, left, right Path) Path {
	if !left.HasWildcard() && !right.HasWildcard() {
		return resolved
	}
	n := 0
	for n < len(left) && n < len(resolved) {
		if left[n] != Wildcard && (n >= len(right) || right[n] != left[n]) {
			break
		}
		n++
	}
	res := make(Path, 0, len(left))
	res = append(res, resolved[:n]...)
	return append(res, left[n:]...)
}
