package cpu

import (
	"iter"
)

// Register names a cell in the register file.
type Register int

const (
	REG_ACC = Register(0) // acc
	REG_PR  = Register(1) // pr
	REG_PC  = Register(2) // pc
	REG_FR  = Register(3) // fr
	REG_SP  = Register(4) // sp
	REG_ASP = Register(5) // asp

	REGISTER_COUNT = 6
)

var registerName = [REGISTER_COUNT]string{"ACC", "PR", "PC", "FR", "SP", "ASP"}

func (reg Register) String() string {
	if reg < 0 || reg >= REGISTER_COUNT {
		return "REG?"
	}
	return registerName[reg]
}

// Registers is the register file: six fixed-width cells, zeroed at
// construction. SP and ASP are segment cursors mutated only through the
// push/pop discipline; they are not general-purpose accumulators.
type Registers struct {
	width uint
	mask  uint32
	cell  [REGISTER_COUNT]uint32
}

// NewRegisters creates a zeroed register file with the given cell width
// in bits (1 to 32).
func NewRegisters(width uint) *Registers {
	return &Registers{
		width: width,
		mask:  widthMask(width),
	}
}

func widthMask(width uint) uint32 {
	return ^uint32(0) >> (32 - width)
}

// Width returns the cell width in bits.
func (r *Registers) Width() uint {
	return r.width
}

// Mask returns the all-ones value of one cell.
func (r *Registers) Mask() uint32 {
	return r.mask
}

// Get returns the current value of a register.
func (r *Registers) Get(reg Register) uint32 {
	return r.cell[reg]
}

// Set stores a value into a register. A value wider than the cell faults
// rather than silently truncating.
func (r *Registers) Set(reg Register, value uint32) (err error) {
	if value&^r.mask != 0 {
		return ErrRegister{Reg: reg, Err: ErrValueTooWide}
	}
	r.cell[reg] = value

	return
}

// Reset zeroes every register.
func (r *Registers) Reset() {
	clear(r.cell[:])
}

// All iterates the register file in declaration order.
func (r *Registers) All() iter.Seq2[Register, uint32] {
	return func(yield func(Register, uint32) bool) {
		for n := range REGISTER_COUNT {
			if !yield(Register(n), r.cell[n]) {
				return
			}
		}
	}
}
