// Package internal holds helpers shared between the simulator packages.
package internal

import (
	"iter"
)

// IterSeq2Concat chains key/value iterators, yielding every pair of
// the first, then the second, and so on, until the consumer stops.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			if seq == nil {
				continue
			}
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}
