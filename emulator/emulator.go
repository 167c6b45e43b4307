// Package emulator wires the QT machine core to its file glue: it applies
// the embedding application's configuration, loads compiled programs, runs
// the engine with an optional external step limit, and hands final state
// to the dump writer.
package emulator

import (
	"fmt"
	"iter"
	"maps"

	"github.com/qtarch/qtvm/cpu"
	"github.com/qtarch/qtvm/internal"
	"github.com/qtarch/qtvm/io"
)

// Default machine shape, used for any Config field left zero.
const (
	CACHE_SIZE         = 256 // General memory cells.
	STACK_SIZE         = 64  // Data stack cells.
	ADDRESS_STACK_SIZE = 64  // Call/return stack cells.
	PORT_COUNT         = 16  // I/O port cells.
	CELL_BITS          = 16  // Register and segment cell width.
)

// Config is the embedding application's machine shape. Zero fields take
// the package defaults; a nil Table takes the reference instruction set.
type Config struct {
	Cache        uint
	Stack        uint
	AddressStack uint
	Ports        uint
	CellBits     uint
	Table        cpu.OpTable
}

func (cfg Config) withDefaults() Config {
	if cfg.Cache == 0 {
		cfg.Cache = CACHE_SIZE
	}
	if cfg.Stack == 0 {
		cfg.Stack = STACK_SIZE
	}
	if cfg.AddressStack == 0 {
		cfg.AddressStack = ADDRESS_STACK_SIZE
	}
	if cfg.Ports == 0 {
		cfg.Ports = PORT_COUNT
	}
	if cfg.CellBits == 0 {
		cfg.CellBits = CELL_BITS
	}
	if cfg.Table == nil {
		cfg.Table = cpu.StandardTable()
	}
	return cfg
}

// Emulator state: one machine plus its loaded program's encoding.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the machine.

	Encoding cpu.Encoding // Encoding of the last loaded executable.

	config Config
}

// NewEmulator creates a machine from the given configuration.
func NewEmulator(cfg Config) (emu *Emulator, err error) {
	cfg = cfg.withDefaults()

	c, err := cpu.NewCpu(cpu.Config{
		Cache:        cfg.Cache,
		Stack:        cfg.Stack,
		AddressStack: cfg.AddressStack,
		Ports:        cfg.Ports,
		CellBits:     cfg.CellBits,
	}, cfg.Table)
	if err != nil {
		return
	}

	emu = &Emulator{
		Cpu:    c,
		config: cfg,
	}

	return
}

// Defines returns an iterator over all of the defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"CACHE_SIZE":         fmt.Sprintf("%v", emu.config.Cache),
		"STACK_SIZE":         fmt.Sprintf("%v", emu.config.Stack),
		"ADDRESS_STACK_SIZE": fmt.Sprintf("%v", emu.config.AddressStack),
		"PORT_COUNT":         fmt.Sprintf("%v", emu.config.Ports),
		"CELL_BITS":          fmt.Sprintf("%v", emu.config.CellBits),
	}

	return internal.IterSeq2Concat(maps.All(defines), emu.Cpu.Defines())
}

// LoadFile loads a compiled executable into the machine, resetting it.
func (emu *Emulator) LoadFile(filepath string) (err error) {
	program, enc, err := io.Load(filepath)
	if err != nil {
		return
	}

	emu.Encoding = enc
	emu.Cpu.Load(program)

	return
}

// Script attaches a Starlark port device, with the emulator's defines as
// its predeclared globals.
func (emu *Emulator) Script(name, source string) (err error) {
	device := &io.ScriptDevice{
		Name:    name,
		Source:  source,
		Verbose: emu.Verbose,
	}
	err = device.Init(emu.Defines())
	if err != nil {
		return
	}

	emu.Cpu.Device = device

	return
}

// Step performs one engine step. done is true once the machine halts.
func (emu *Emulator) Step() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	tick := emu.Cpu.Ticks
	err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Tick: tick, Err: err}
		return
	}

	done = emu.Cpu.State() == cpu.STATE_HALTED

	return
}

// Run steps the machine until it halts, faults, or the external step
// limit is reached (limit <= 0 runs without limit). The engine has no
// suspension points; stopping between steps is the only cancellation.
func (emu *Emulator) Run(limit int) (done bool, err error) {
	for n := 0; limit <= 0 || n < limit; n++ {
		done, err = emu.Step()
		if done || err != nil {
			return
		}
	}

	return
}

// Dump writes the machine's final state through the dump writer.
func (emu *Emulator) Dump(filesys io.CreateFS, base string) (err error) {
	return io.Dump(filesys, base, emu.Cpu)
}
