package search

import "math/rand/v2"

// PickRandomly returns n items chosen uniformly at random from items.
//
// items is shuffled in place: position i is swapped with a random position
// for every i < n, and the first n items are returned. Callers that need the
// original order must pass a copy. The returned slice has its capacity
// clipped to n so appending to it never overwrites items[n:].
func PickRandomly[T any](items []T, n int) ([]T, error) {
	return pickRandomly(items, n, rand.IntN)
}

// PickRandomlyWith is PickRandomly drawing from r.
func PickRandomlyWith[T any](r *rand.Rand, items []T, n int) ([]T, error) {
	return pickRandomly(items, n, r.IntN)
}

func pickRandomly[T any](items []T, n int, intN func(int) int) ([]T, error) {
	if n < 0 || n > len(items) {
		return nil, &InvalidSampleSizeError{N: n, Len: len(items)}
	}
	for i := 0; i < n; i++ {
		j := intN(len(items))
		items[i], items[j] = items[j], items[i]
	}
	return items[:n:n], nil
}
