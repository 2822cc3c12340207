package util

// InPlaceFilter keeps the elements of s for which keep returns true, in order,
// and returns how many were dropped.
func InPlaceFilter[T any](s *[]T, keep func(T) bool) int {
	i := 0
	for _, e := range *s {
		if keep(e) {
			(*s)[i] = e
			i++
		}
	}

	dropped := len(*s) - i
	clear((*s)[i:])
	*s = (*s)[:i]

	return dropped
}
