package io

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qtarch/qtvm/cpu"
)

var loaderProgram = []cpu.Instruction{
	{Memory: false, Value: 5, Opcode: cpu.OP_PUSH},
	{Memory: true, Value: 300, Opcode: cpu.OP_PUSH},
	{Memory: false, Value: 0, Opcode: cpu.OP_ADD},
	{Memory: false, Value: 0, Opcode: cpu.OP_HALT},
}

func TestEncodeDecode(t *testing.T) {
	assert := assert.New(t)

	for _, enc := range []cpu.Encoding{cpu.ENCODING_QT, cpu.ENCODING_QM} {
		buf := &bytes.Buffer{}
		err := Encode(buf, enc, loaderProgram)
		assert.NoError(err, enc.String())

		// Header bytes, NUL, then fixed groups.
		expectLen := len(enc.Namespace()) + 1 + len(loaderProgram)*enc.Width()
		assert.Equal(expectLen, buf.Len(), enc.String())

		program, decodedEnc, err := Decode(buf)
		assert.NoError(err, enc.String())
		assert.Equal(enc, decodedEnc)
		assert.Equal(loaderProgram, program)
	}
}

func TestDecodeShortTrailingGroup(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	assert.NoError(Encode(buf, cpu.ENCODING_QT, loaderProgram))

	// A truncated final group ends the program without error and
	// without a partial instruction.
	trimmed := bytes.NewReader(buf.Bytes()[:buf.Len()-2])
	program, _, err := Decode(trimmed)
	assert.NoError(err)
	assert.Equal(loaderProgram[:len(loaderProgram)-1], program)
}

func TestDecodeBadHeader(t *testing.T) {
	assert := assert.New(t)

	// Unknown namespace.
	_, _, err := Decode(bytes.NewReader([]byte("ZZ\x00\x00\x00\x00\x00")))
	assert.ErrorIs(err, cpu.ErrMalformedProgram)

	// No NUL terminator before end of stream.
	_, _, err = Decode(bytes.NewReader([]byte("QT")))
	assert.ErrorIs(err, cpu.ErrMalformedProgram)

	// Empty stream.
	_, _, err = Decode(bytes.NewReader(nil))
	assert.ErrorIs(err, cpu.ErrMalformedProgram)
}

func TestDecodeHeaderOnly(t *testing.T) {
	assert := assert.New(t)

	program, enc, err := Decode(bytes.NewReader([]byte("QM\x00")))
	assert.NoError(err)
	assert.Equal(cpu.ENCODING_QM, enc)
	assert.Empty(program)
}

func TestSaveLoad(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "program.qbin")
	assert.NoError(Save(path, cpu.ENCODING_QT, loaderProgram))

	program, enc, err := Load(path)
	assert.NoError(err)
	assert.Equal(cpu.ENCODING_QT, enc)
	assert.Equal(loaderProgram, program)
}

func TestLoadMissingFile(t *testing.T) {
	assert := assert.New(t)

	_, _, err := Load(filepath.Join(t.TempDir(), "absent.qbin"))
	assert.Error(err)
}
