package internal

import (
	"iter"
	"slices"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return
				}
			}
		}
	}
}

// Permutations yields every ordering of values. Each yielded slice is a
// fresh copy.
func Permutations[T any](values []T) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		perm := slices.Clone(values)

		var permute func(k int) bool
		permute = func(k int) bool {
			if k == len(perm) {
				return yield(slices.Clone(perm))
			}
			for n := k; n < len(perm); n++ {
				perm[k], perm[n] = perm[n], perm[k]
				if !permute(k + 1) {
					return false
				}
				perm[k], perm[n] = perm[n], perm[k]
			}
			return true
		}

		permute(0)
	}
}
