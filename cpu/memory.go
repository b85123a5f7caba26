package cpu

import (
	"iter"
)

const (
	MEMORY_WORDS = 256 // Memory size in words.
	WORD_SIZE    = 4   // Bytes per word.
)

// Memory is a flat, word addressed store. The byte address of a word
// is its index times WORD_SIZE.
type Memory [MEMORY_WORDS]int32

// Read returns the word at index.
func (mem *Memory) Read(index int) (value int32, err error) {
	if index < 0 || index >= len(mem) {
		err = &ErrAddress{Space: SPACE_MEMORY, Index: index}
		return
	}

	value = mem[index]
	return
}

// Write stores value at index.
func (mem *Memory) Write(index int, value int32) (err error) {
	if index < 0 || index >= len(mem) {
		err = &ErrAddress{Space: SPACE_MEMORY, Index: index}
		return
	}

	mem[index] = value
	return
}

// All returns an iterator over word index and value.
func (mem *Memory) All() iter.Seq2[int, int32] {
	return func(yield func(index int, value int32) bool) {
		for n, value := range mem {
			if !yield(n, value) {
				return
			}
		}
	}
}

// Reset zeros all of memory.
func (mem *Memory) Reset() {
	clear(mem[:])
}

// WordIndex converts a byte address to a word index, rounding toward
// negative infinity so that negative addresses stay out of range.
func WordIndex(address int64) int64 {
	index := address / WORD_SIZE
	if address%WORD_SIZE != 0 && address < 0 {
		index--
	}
	return index
}
