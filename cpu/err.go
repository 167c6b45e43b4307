package cpu

import (
	"errors"

	"github.com/qtarch/qtvm/translate"
)

var f = translate.From

var (
	// Machine faults
	ErrMalformedProgram      = errors.New(f("malformed program"))
	ErrUnknownOpcode         = errors.New(f("unknown opcode"))
	ErrAddressOutOfRange     = errors.New(f("address out of range"))
	ErrStackOverflow         = errors.New(f("stack overflow"))
	ErrStackUnderflow        = errors.New(f("stack underflow"))
	ErrAddressStackOverflow  = errors.New(f("address stack overflow"))
	ErrAddressStackUnderflow = errors.New(f("address stack underflow"))
	ErrPcOutOfRange          = errors.New(f("program counter out of range"))

	// Cell discipline
	ErrValueTooWide = errors.New(f("value exceeds cell width"))

	// Reference instruction set
	ErrDivideByZero = errors.New(f("divide by zero"))

	// Construction
	ErrConfig = errors.New(f("config invalid"))

	// Encoding
	ErrGroupWidth  = errors.New(f("group width"))
	ErrOpcodeWidth = errors.New(f("opcode exceeds narrow encoding"))
)

// ErrOpcode reports the opcode byte that had no table entry.
type ErrOpcode uint8

func (eo ErrOpcode) Error() string {
	return f("opcode 0x%02x", uint8(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrNamespace reports an unrecognized namespace header.
type ErrNamespace string

func (en ErrNamespace) Error() string {
	return f("namespace %q", string(en))
}

func (en ErrNamespace) Is(err error) (ok bool) {
	_, ok = err.(ErrNamespace)
	return
}

// ErrRegister reports the register of a cell-width fault.
type ErrRegister struct {
	Reg Register
	Err error
}

func (err ErrRegister) Error() string {
	return f("%v %v", err.Reg, err.Err)
}

func (err ErrRegister) Unwrap() error {
	return err.Err
}

// ErrIndex reports the segment and cell index of a bounds fault.
type ErrIndex struct {
	Segment string
	Index   int
	Err     error
}

func (err ErrIndex) Error() string {
	return f("%v[%d] %v", err.Segment, err.Index, err.Err)
}

func (err ErrIndex) Unwrap() error {
	return err.Err
}

// ErrFault is the terminal fault surfaced by the engine, carrying the
// program counter at the time of failure.
type ErrFault struct {
	Pc  uint32
	Err error
}

func (err *ErrFault) Error() string {
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
