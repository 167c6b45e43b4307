package cpu

import (
	"errors"
	"fmt"
	"log"
)

// State is the engine execution state.
type State int

const (
	STATE_READY   = State(0) // ready
	STATE_RUNNING = State(1) // running
	STATE_HALTED  = State(2) // halted
	STATE_FAULTED = State(3) // faulted
)

var stateName = [...]string{"ready", "running", "halted", "faulted"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateName) {
		return "state?"
	}
	return stateName[s]
}

// Config supplies the construction-time shape of a machine: segment
// capacities in cells, and the register/segment cell width in bits.
type Config struct {
	Cache        uint // General memory capacity.
	Stack        uint // Data stack capacity.
	AddressStack uint // Call/return address stack capacity.
	Ports        uint // I/O port space capacity.
	CellBits     uint // Cell width, 1 to 32 bits.
}

// PortDevice is the effect boundary behind the ports segment. A device
// observes port writes and may supply port reads; a machine without a
// device treats ports as ordinary memory.
type PortDevice interface {
	// PortRead supplies the value of an in-bounds port read. ok false
	// leaves the last stored cell value in place.
	PortRead(port uint32) (value uint32, ok bool, err error)
	// PortWrite observes an in-bounds port write.
	PortWrite(port uint32, value uint32) (err error)
}

// Cpu is a single QT machine: register file, four memory segments, and the
// fetch/decode/dispatch/execute engine. One Cpu exclusively owns its state
// for the duration of a run; independent programs get independent machines.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Reg          *Registers // Register file.
	Cache        *Segment   // General memory.
	Stack        *Segment   // Data stack, cursor REG_SP.
	AddressStack *Segment   // Call/return stack, cursor REG_ASP.
	Ports        *Segment   // I/O port space.

	Device PortDevice // Optional effect hook behind Ports.
	Table  OpTable    // Injected opcode table.

	Ticks int // Executed instruction counter.

	program []Instruction
	state   State
	fault   error
	nextPc  uint32
}

// NewCpu creates a zeroed machine from a configuration and an opcode
// table. Segment capacities must be addressable within the cell width.
func NewCpu(cfg Config, table OpTable) (c *Cpu, err error) {
	if cfg.CellBits < 1 || cfg.CellBits > 32 {
		err = errors.Join(ErrConfig, fmt.Errorf("cell width %d", cfg.CellBits))
		return
	}
	limit := uint(widthMask(cfg.CellBits)) + 1
	for _, capacity := range []uint{cfg.Cache, cfg.Stack, cfg.AddressStack, cfg.Ports} {
		if capacity > limit {
			err = errors.Join(ErrConfig, fmt.Errorf("capacity %d exceeds cell range", capacity))
			return
		}
	}

	c = &Cpu{
		Reg:          NewRegisters(cfg.CellBits),
		Cache:        NewSegment("cache", cfg.Cache, cfg.CellBits),
		Stack:        NewSegment("stack", cfg.Stack, cfg.CellBits),
		AddressStack: NewSegment("address_stack", cfg.AddressStack, cfg.CellBits),
		Ports:        NewSegment("ports", cfg.Ports, cfg.CellBits),
		Table:        table,
	}

	return
}

// Mask returns the all-ones value of one machine cell.
func (c *Cpu) Mask() uint32 {
	return c.Reg.Mask()
}

// State returns the engine state.
func (c *Cpu) State() State {
	return c.state
}

// Fault returns the terminal fault, or nil.
func (c *Cpu) Fault() error {
	return c.fault
}

// Load installs a decoded program and resets the machine.
func (c *Cpu) Load(program []Instruction) {
	c.program = program
	c.Reset()
}

// Program returns the loaded instruction sequence.
func (c *Cpu) Program() []Instruction {
	return c.program
}

// Reset zeroes registers, segments and counters, and returns the engine
// to STATE_READY. The loaded program is kept.
func (c *Cpu) Reset() {
	if c.Verbose {
		log.Printf("cpu: reset")
	}

	c.Reg.Reset()
	c.Cache.Reset()
	c.Stack.Reset()
	c.AddressStack.Reset()
	c.Ports.Reset()
	c.Ticks = 0
	c.state = STATE_READY
	c.fault = nil
}

// Jump sets the program counter for the next fetch. Used by control-flow
// operations; a jump suppresses the implicit advance by one.
func (c *Cpu) Jump(addr uint32) {
	c.nextPc = addr
}

// Halt transitions the engine to the terminal STATE_HALTED.
func (c *Cpu) Halt() {
	c.state = STATE_HALTED
}

// Call pushes the fall-through address onto the address stack and jumps.
func (c *Cpu) Call(addr uint32) (err error) {
	err = c.PushAddress(c.nextPc)
	if err != nil {
		return
	}
	c.Jump(addr)

	return
}

// Return pops the address stack into the program counter.
func (c *Cpu) Return() (err error) {
	addr, err := c.PopAddress()
	if err != nil {
		return
	}
	c.Jump(addr)

	return
}

// ReadPort reads a port cell, consulting the attached device first. A
// device-supplied value is stored back into the segment so dumps reflect
// the last observed input.
func (c *Cpu) ReadPort(port uint32) (value uint32, err error) {
	value, err = c.Ports.Read(port)
	if err != nil {
		return
	}

	if c.Device != nil {
		var ok bool
		var supplied uint32
		supplied, ok, err = c.Device.PortRead(port)
		if err != nil {
			return
		}
		if ok {
			value = supplied & c.Mask()
			err = c.Ports.Write(port, value)
		}
	}

	return
}

// WritePort writes a port cell and notifies the attached device.
func (c *Cpu) WritePort(port uint32, value uint32) (err error) {
	err = c.Ports.Write(port, value)
	if err != nil {
		return
	}

	if c.Device != nil {
		err = c.Device.PortWrite(port, value)
	}

	return
}

// Step executes one fetch/decode/dispatch/execute cycle.
//
// Once halted, further steps are no-ops. Once faulted, further steps
// return the stored fault without executing. Falling off the end of the
// instruction sequence halts; any other out-of-range program counter
// faults.
func (c *Cpu) Step() (err error) {
	switch c.state {
	case STATE_HALTED:
		return
	case STATE_FAULTED:
		err = c.fault
		return
	case STATE_READY:
		c.state = STATE_RUNNING
	}

	pc := c.Reg.Get(REG_PC)
	if int(pc) == len(c.program) {
		// Natural exhaustion of the instruction sequence.
		c.Halt()
		return
	}
	if int(pc) > len(c.program) {
		return c.abort(pc, ErrPcOutOfRange)
	}

	ins := c.program[pc]
	if c.Verbose {
		log.Printf("cpu: %04d: %v", pc, ins)
	}

	// Resolve the operand: the memory flag selects immediate literal
	// versus cache cell. No other addressing modes exist.
	operand := uint32(ins.Value)
	if ins.Memory {
		operand, err = c.Cache.Read(operand)
		if err != nil {
			return c.abort(pc, err)
		}
	}

	op, ok := c.Table[ins.Opcode]
	if !ok {
		return c.abort(pc, errors.Join(ErrUnknownOpcode, ErrOpcode(ins.Opcode)))
	}

	c.nextPc = pc + 1

	err = op.Fn(c, operand)
	if err != nil {
		return c.abort(pc, err)
	}

	c.Ticks++

	if c.state == STATE_HALTED {
		return
	}

	err = c.Reg.Set(REG_PC, c.nextPc)
	if err != nil {
		return c.abort(pc, err)
	}

	return
}

// abort records the terminal fault with the faulting program counter.
func (c *Cpu) abort(pc uint32, cause error) error {
	c.state = STATE_FAULTED
	c.fault = &ErrFault{Pc: pc, Err: cause}
	if c.Verbose {
		log.Printf("cpu: fault: %v", c.fault)
	}

	return c.fault
}

// String returns the current register state as a string.
func (c *Cpu) String() (text string) {
	text = fmt.Sprintf("state: %v\n", c.state)
	for reg, value := range c.Reg.All() {
		text += fmt.Sprintf("% 4s: %d\n", reg, value)
	}

	return
}
