package cpu

// OpFunc is one operation of an instruction set. It receives the resolved
// operand (immediate literal, or the cache cell the instruction addressed)
// and full register/segment access through the machine. Returning an error
// faults the machine.
type OpFunc func(c *Cpu, operand uint32) error

// Op is a named operation in an opcode table.
type Op struct {
	Name string
	Fn   OpFunc
}

// OpTable maps opcode bytes to operations. The table is the compiler's
// instruction-set contract, injected at machine construction; the engine
// only looks up, faults on absence, and invokes.
type OpTable map[uint8]Op
