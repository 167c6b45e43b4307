// Package io provides the file glue around the QT virtual machine core:
// the binary program loader, the memory dump writer, and port device
// models for the machine's I/O port segment.
package io

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/qtarch/qtvm/cpu"
)

// Load reads a binary executable compiled by the Q-Compiler.
func Load(filepath string) (program []cpu.Instruction, enc cpu.Encoding, err error) {
	file, err := os.Open(filepath)
	if err != nil {
		return
	}
	defer file.Close()

	return Decode(file)
}

// Decode reads a namespace header (ASCII bytes terminated by NUL) and the
// fixed-width instruction groups that follow, until end of stream.
//
// A short trailing group is not an error; it marks the end of the program
// and no partial instruction is returned. A stream with no recognizable
// header is ErrMalformedProgram.
func Decode(r io.Reader) (program []cpu.Instruction, enc cpu.Encoding, err error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString(0)
	if err != nil {
		err = errors.Join(cpu.ErrMalformedProgram, err)
		return
	}

	enc, err = cpu.EncodingOf(strings.TrimSuffix(header, "\x00"))
	if err != nil {
		return
	}

	group := make([]byte, enc.Width())
	for {
		_, err = io.ReadFull(br, group)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				err = nil
			}
			return
		}

		var ins cpu.Instruction
		ins, err = enc.Decode(group)
		if err != nil {
			return
		}
		program = append(program, ins)
	}
}

// Save writes a binary executable for a program under the given encoding.
func Save(filepath string, enc cpu.Encoding, program []cpu.Instruction) (err error) {
	file, err := os.Create(filepath)
	if err != nil {
		return
	}
	defer file.Close()

	return Encode(file, enc, program)
}

// Encode writes the namespace header and instruction groups for a program.
func Encode(w io.Writer, enc cpu.Encoding, program []cpu.Instruction) (err error) {
	_, err = w.Write(append([]byte(enc.Namespace()), 0))
	if err != nil {
		return
	}

	for _, ins := range program {
		var group []byte
		group, err = enc.Encode(ins)
		if err != nil {
			return
		}
		_, err = w.Write(group)
		if err != nil {
			return
		}
	}

	return
}
