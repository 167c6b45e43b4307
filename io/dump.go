package io

import (
	"fmt"
	"io"
	"strings"

	"github.com/qtarch/qtvm/cpu"
)

// Dump layout: 16 cells per row, zero-padded 5-wide cells, 4-wide row
// index. Matches the Q-Compiler toolchain's .dmp convention.
const (
	DUMP_COLUMNS      = 16
	DUMP_INDEX_WIDTH  = 4
	DUMP_DIVIDER      = 3 // " | "
	DUMP_CELL_WIDTH   = 5
	DUMP_SECTION_SIZE = DUMP_COLUMNS*(DUMP_CELL_WIDTH+1) + DUMP_INDEX_WIDTH + DUMP_DIVIDER
)

// banner centers text within a line of '=' fill.
func banner(text string) string {
	fill := DUMP_SECTION_SIZE - len(text)
	if fill < 0 {
		fill = 0
	}
	left := fill / 2
	return strings.Repeat("=", left) + text + strings.Repeat("=", fill-left)
}

// dumpSegment writes one memory section as fixed-width rows.
func dumpSegment(w io.Writer, section string, seg *cpu.Segment) (err error) {
	_, err = fmt.Fprintf(w, "%s\n", banner("["+section+" SECTION START]"))
	if err != nil {
		return
	}

	_, err = fmt.Fprint(w, strings.Repeat(" ", DUMP_INDEX_WIDTH+DUMP_DIVIDER))
	if err != nil {
		return
	}
	for n := range DUMP_COLUMNS {
		_, err = fmt.Fprintf(w, "%*d ", DUMP_CELL_WIDTH, n)
		if err != nil {
			return
		}
	}

	for index, value := range seg.Cells() {
		if index%DUMP_COLUMNS == 0 {
			_, err = fmt.Fprintf(w, "\n%0*d | ", DUMP_INDEX_WIDTH, index)
		} else {
			_, err = fmt.Fprint(w, " ")
		}
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%0*d", DUMP_CELL_WIDTH, value)
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintf(w, "\n%s\n\n", banner("["+section+" SECTION END]"))

	return
}

// dumpRegisters writes the register section.
func dumpRegisters(w io.Writer, reg *cpu.Registers) (err error) {
	_, err = fmt.Fprintf(w, "%s\n", banner("[REGISTER SECTION START]"))
	if err != nil {
		return
	}

	for name, value := range reg.All() {
		_, err = fmt.Fprintf(w, "%-4s = %d\n", name, value)
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintf(w, "%s\n", banner("[REGISTER SECTION END]"))

	return
}

// dumpFile creates one dump file and writes it through fn.
func dumpFile(filesys CreateFS, name string, fn func(w io.Writer) error) (err error) {
	file, err := filesys.Create(name)
	if err != nil {
		return
	}
	defer file.Close()

	return fn(file)
}

// Dump writes the final machine state as one .dmp file per memory segment
// plus a register file, named base.SECTION.dmp.
func Dump(filesys CreateFS, base string, c *cpu.Cpu) (err error) {
	sections := []struct {
		section string
		seg     *cpu.Segment
	}{
		{"CACHE", c.Cache},
		{"STACK", c.Stack},
		{"ADDR_STACK", c.AddressStack},
		{"PORTS", c.Ports},
	}

	for _, entry := range sections {
		err = dumpFile(filesys, fmt.Sprintf("%s.%s.dmp", base, entry.section), func(w io.Writer) error {
			return dumpSegment(w, entry.section, entry.seg)
		})
		if err != nil {
			return
		}
	}

	return dumpFile(filesys, base+".REGISTERS.dmp", func(w io.Writer) error {
		return dumpRegisters(w, c.Reg)
	})
}
