package internal

import (
	"iter"
)

// IterSeq2Concat concatenates multiple dual-return iterators into a single iterator sequence.
func IterSeq2Concat[T1 any, T2 any](seqs ...iter.Seq2[T1, T2]) iter.Seq2[T1, T2] {
	return func(yield func(T1, T2) bool) {
		for _, seq := range seqs {
			for val1, val2 := range seq {
				if !yield(val1, val2) {
					return // Stop if the consumer stops
				}
			}
		}
	}
}

// NonZero yields the index and value of every non-zero element, in index order.
func NonZero[T comparable](values []T) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		var zero T
		for n, val := range values {
			if val == zero {
				continue
			}
			if !yield(n, val) {
				return
			}
		}
	}
}
