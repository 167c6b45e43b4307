package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodingOf(t *testing.T) {
	assert := assert.New(t)

	enc, err := EncodingOf("QT")
	assert.NoError(err)
	assert.Equal(ENCODING_QT, enc)
	assert.Equal(4, enc.Width())

	enc, err = EncodingOf("QM")
	assert.NoError(err)
	assert.Equal(ENCODING_QM, enc)
	assert.Equal(3, enc.Width())

	_, err = EncodingOf("ZZ")
	assert.ErrorIs(err, ErrMalformedProgram)
	assert.ErrorIs(err, ErrNamespace("ZZ"))
}

func TestEncodingDecodeWide(t *testing.T) {
	assert := assert.New(t)

	// memory flag in bit 0, big-endian value, trailing opcode byte.
	ins, err := ENCODING_QT.Decode([]byte{0x01, 0x01, 0x2c, 0x07})
	assert.NoError(err)
	assert.Equal(Instruction{Memory: true, Value: 300, Opcode: 7}, ins)

	ins, err = ENCODING_QT.Decode([]byte{0xfe, 0x12, 0x34, 0xab})
	assert.NoError(err)
	assert.Equal(Instruction{Memory: false, Value: 0x1234, Opcode: 0xab}, ins)
}

func TestEncodingDecodeNarrow(t *testing.T) {
	assert := assert.New(t)

	// Narrow groups fold the opcode into the upper bits of the flag byte.
	ins, err := ENCODING_QM.Decode([]byte{(7 << 1) | 1, 0x01, 0x2c})
	assert.NoError(err)
	assert.Equal(Instruction{Memory: true, Value: 300, Opcode: 7}, ins)
}

func TestEncodingRoundTrip(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		enc  Encoding
		ins  Instruction
	}){
		{"qt_memory", ENCODING_QT, Instruction{Memory: true, Value: 300, Opcode: 7}},
		{"qt_immediate", ENCODING_QT, Instruction{Memory: false, Value: 0xffff, Opcode: 0xff}},
		{"qt_zero", ENCODING_QT, Instruction{}},
		{"qm_memory", ENCODING_QM, Instruction{Memory: true, Value: 300, Opcode: 7}},
		{"qm_top", ENCODING_QM, Instruction{Memory: false, Value: 0x8001, Opcode: 0x7f}},
	}

	for _, entry := range table {
		group, err := entry.enc.Encode(entry.ins)
		assert.NoError(err, entry.name)
		assert.Equal(entry.enc.Width(), len(group), entry.name)

		ins, err := entry.enc.Decode(group)
		assert.NoError(err, entry.name)
		assert.Equal(entry.ins, ins, entry.name)
	}
}

func TestEncodingGroupWidth(t *testing.T) {
	assert := assert.New(t)

	_, err := ENCODING_QT.Decode([]byte{0x01, 0x02, 0x03})
	assert.ErrorIs(err, ErrMalformedProgram)
	assert.True(errors.Is(err, ErrGroupWidth))

	_, err = ENCODING_QM.Decode([]byte{0x01, 0x02, 0x03, 0x04})
	assert.ErrorIs(err, ErrMalformedProgram)
}

func TestEncodingNarrowOpcodeLimit(t *testing.T) {
	assert := assert.New(t)

	_, err := ENCODING_QM.Encode(Instruction{Opcode: QM_OPCODE_LIMIT})
	assert.ErrorIs(err, ErrOpcodeWidth)

	_, err = ENCODING_QM.Encode(Instruction{Opcode: QM_OPCODE_LIMIT - 1})
	assert.NoError(err)
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("op 0x07 #300", Instruction{Value: 300, Opcode: 7}.String())
	assert.Equal("op 0x07 @300", Instruction{Memory: true, Value: 300, Opcode: 7}.String())
}
