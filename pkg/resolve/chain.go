package resolve

// First returns the first candidate that is not the zero value of T, or the
// zero value when every candidate is empty.
func First[T comparable](candidates ...T) T {
	var zero T
	for _, c := range candidates {
		if c != zero {
			return c
		}
	}
	return zero
}
