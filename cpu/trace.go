package cpu

// Cell is a single register or memory word touched by an instruction.
type Cell struct {
	Index int
	Value int32
}

// Trace records the architectural effects of one executed instruction.
// Only the registers and memory words the instruction used are listed,
// in the order they were first touched, with their values after
// execution.
type Trace struct {
	Code      Code
	Format    CodeFormat
	Operation string
	Registers []Cell
	Memory    []Cell
}

// addCell appends index to cells, unless it is already present.
func addCell(cells []Cell, index int) []Cell {
	for _, cell := range cells {
		if cell.Index == index {
			return cells
		}
	}
	return append(cells, Cell{Index: index})
}

// touchRegisters notes the registers used, in order.
func (tr *Trace) touchRegisters(indexes ...int) {
	for _, index := range indexes {
		tr.Registers = addCell(tr.Registers, index)
	}
}

// touchMemory notes the memory words used, in order.
func (tr *Trace) touchMemory(indexes ...int) {
	for _, index := range indexes {
		tr.Memory = addCell(tr.Memory, index)
	}
}

// capture fills in the cell values from the machine state.
func (tr *Trace) capture(regs *RegisterFile, mem *Memory) (err error) {
	for n := range tr.Registers {
		cell := &tr.Registers[n]
		cell.Value, err = regs.Read(cell.Index)
		if err != nil {
			return
		}
	}
	for n := range tr.Memory {
		cell := &tr.Memory[n]
		cell.Value, err = mem.Read(cell.Index)
		if err != nil {
			return
		}
	}
	return
}
