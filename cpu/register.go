package cpu

import (
	"iter"
)

const (
	REGISTER_COUNT = 32 // General purpose registers.
)

// RegisterFile is the general purpose register bank.
// Register 0 is an ordinary register.
type RegisterFile [REGISTER_COUNT]int32

// Read returns the value of register index.
func (rf *RegisterFile) Read(index int) (value int32, err error) {
	if index < 0 || index >= len(rf) {
		err = &ErrAddress{Space: SPACE_REGISTER, Index: index}
		return
	}

	value = rf[index]
	return
}

// Write sets register index to value.
func (rf *RegisterFile) Write(index int, value int32) (err error) {
	if index < 0 || index >= len(rf) {
		err = &ErrAddress{Space: SPACE_REGISTER, Index: index}
		return
	}

	rf[index] = value
	return
}

// All returns an iterator over register index and value.
func (rf *RegisterFile) All() iter.Seq2[int, int32] {
	return func(yield func(index int, value int32) bool) {
		for n, value := range rf {
			if !yield(n, value) {
				return
			}
		}
	}
}

// Reset zeros all registers.
func (rf *RegisterFile) Reset() {
	clear(rf[:])
}
