package cpu

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Instruction is one decoded instruction group. Instructions are produced
// once at load time and never mutated; the engine only re-reads them by
// program counter.
type Instruction struct {
	Memory bool   // Operand is a cache address, not a literal.
	Value  uint16 // Immediate value or cache address.
	Opcode uint8  // Operation selector.
}

// String returns the instruction as "op 0xNN #value" for immediate operands
// or "op 0xNN @value" for cache-addressed operands.
func (ins Instruction) String() string {
	mode := "#"
	if ins.Memory {
		mode = "@"
	}
	return fmt.Sprintf("op 0x%02x %v%d", ins.Opcode, mode, ins.Value)
}

// Namespace headers recognized in Q-Compiler executables.
const (
	NAMESPACE_QT = "QT" // wide, 4-byte groups
	NAMESPACE_QM = "QM" // narrow, 3-byte groups
)

// Encoding selects the byte layout of one instruction group. It is chosen
// once per program from the namespace header, never per instruction.
type Encoding int

const (
	ENCODING_QT = Encoding(0) // QT
	ENCODING_QM = Encoding(1) // QM
)

// QM_OPCODE_LIMIT is the exclusive upper bound of opcodes representable in
// the narrow encoding, where the opcode shares the flag byte.
const QM_OPCODE_LIMIT = uint8(0x80)

// EncodingOf returns the encoding selected by a namespace header.
func EncodingOf(namespace string) (enc Encoding, err error) {
	switch namespace {
	case NAMESPACE_QT:
		enc = ENCODING_QT
	case NAMESPACE_QM:
		enc = ENCODING_QM
	default:
		err = errors.Join(ErrMalformedProgram, ErrNamespace(namespace))
	}

	return
}

// Namespace returns the namespace header for the encoding.
func (enc Encoding) Namespace() string {
	if enc == ENCODING_QM {
		return NAMESPACE_QM
	}
	return NAMESPACE_QT
}

func (enc Encoding) String() string {
	return enc.Namespace()
}

// Width returns the instruction group size in bytes.
func (enc Encoding) Width() int {
	if enc == ENCODING_QM {
		return 3
	}
	return 4
}

// Decode turns one instruction group into an Instruction.
//
// Wide layout: byte 0 bit 0 is the memory flag, bytes 1-2 are the
// big-endian value, byte 3 is the opcode.
//
// Narrow layout: the group has no opcode byte, so the opcode occupies the
// upper seven bits of the flag byte; bytes 1-2 are the big-endian value.
func (enc Encoding) Decode(group []byte) (ins Instruction, err error) {
	if len(group) != enc.Width() {
		err = errors.Join(ErrMalformedProgram, ErrGroupWidth)
		return
	}

	ins.Memory = (group[0] & 1) == 1
	ins.Value = binary.BigEndian.Uint16(group[1:3])

	switch enc {
	case ENCODING_QM:
		ins.Opcode = group[0] >> 1
	default:
		ins.Opcode = group[3]
	}

	return
}

// Encode is the inverse of Decode. Narrow encoding cannot represent
// opcodes at or above QM_OPCODE_LIMIT.
func (enc Encoding) Encode(ins Instruction) (group []byte, err error) {
	var flag byte
	if ins.Memory {
		flag = 1
	}

	switch enc {
	case ENCODING_QM:
		if ins.Opcode >= QM_OPCODE_LIMIT {
			err = ErrOpcodeWidth
			return
		}
		group = []byte{(ins.Opcode << 1) | flag, 0, 0}
	default:
		group = []byte{flag, 0, 0, ins.Opcode}
	}

	binary.BigEndian.PutUint16(group[1:3], ins.Value)

	return
}
