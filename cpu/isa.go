package cpu

import (
	"fmt"
	"iter"
	"maps"
)

// Opcode assignments for the reference Q-Compiler instruction set.
const (
	OP_NOP   = uint8(0x00)
	OP_HALT  = uint8(0x01)
	OP_PUSH  = uint8(0x02)
	OP_POP   = uint8(0x03)
	OP_ADD   = uint8(0x04)
	OP_SUB   = uint8(0x05)
	OP_MUL   = uint8(0x06)
	OP_DIV   = uint8(0x07)
	OP_LOAD  = uint8(0x08)
	OP_STORE = uint8(0x09)
	OP_LOADP = uint8(0x0a)
	OP_STORP = uint8(0x0b)
	OP_SETP  = uint8(0x0c)
	OP_CMP   = uint8(0x0d)
	OP_JMP   = uint8(0x0e)
	OP_JZ    = uint8(0x0f)
	OP_JNZ   = uint8(0x10)
	OP_JL    = uint8(0x11)
	OP_CALL  = uint8(0x12)
	OP_RET   = uint8(0x13)
	OP_IN    = uint8(0x14)
	OP_OUT   = uint8(0x15)
)

// Flag register bits consumed by the conditional transfers.
const (
	FLAG_ZERO  = uint32(1 << 0)
	FLAG_LESS  = uint32(1 << 1)
	FLAG_CARRY = uint32(1 << 2)
)

var _cpu_defines = map[string]string{
	"FLAG_ZERO":  fmt.Sprintf("0x%x", FLAG_ZERO),
	"FLAG_LESS":  fmt.Sprintf("0x%x", FLAG_LESS),
	"FLAG_CARRY": fmt.Sprintf("0x%x", FLAG_CARRY),
	"OP_NOP":     fmt.Sprintf("0x%02x", OP_NOP),
	"OP_HALT":    fmt.Sprintf("0x%02x", OP_HALT),
	"OP_PUSH":    fmt.Sprintf("0x%02x", OP_PUSH),
	"OP_POP":     fmt.Sprintf("0x%02x", OP_POP),
	"OP_ADD":     fmt.Sprintf("0x%02x", OP_ADD),
	"OP_SUB":     fmt.Sprintf("0x%02x", OP_SUB),
	"OP_MUL":     fmt.Sprintf("0x%02x", OP_MUL),
	"OP_DIV":     fmt.Sprintf("0x%02x", OP_DIV),
	"OP_LOAD":    fmt.Sprintf("0x%02x", OP_LOAD),
	"OP_STORE":   fmt.Sprintf("0x%02x", OP_STORE),
	"OP_IN":      fmt.Sprintf("0x%02x", OP_IN),
	"OP_OUT":     fmt.Sprintf("0x%02x", OP_OUT),
}

// Defines for the cpu
func (c *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// setFlags stores comparison/arithmetic outcome bits into FR.
func (c *Cpu) setFlags(zero, less, carry bool) (err error) {
	var fr uint32
	if zero {
		fr |= FLAG_ZERO
	}
	if less {
		fr |= FLAG_LESS
	}
	if carry {
		fr |= FLAG_CARRY
	}

	return c.Reg.Set(REG_FR, fr)
}

// binaryOp pops two cells, pushes fn(a, b) masked to the cell width, and
// records zero/carry outcomes.
func (c *Cpu) binaryOp(fn func(a, b uint64) (uint64, error)) (err error) {
	b, err := c.Pop()
	if err != nil {
		return
	}
	a, err := c.Pop()
	if err != nil {
		return
	}

	wide, err := fn(uint64(a), uint64(b))
	if err != nil {
		return
	}

	result := uint32(wide) & c.Mask()
	err = c.setFlags(result == 0, false, wide > uint64(c.Mask()))
	if err != nil {
		return
	}

	return c.Push(result)
}

// StandardTable returns the reference Q-Compiler opcode table. Embedders
// with their own instruction-set contract supply their own table instead.
func StandardTable() OpTable {
	return OpTable{
		OP_NOP: {"nop", func(c *Cpu, operand uint32) error {
			return nil
		}},
		OP_HALT: {"halt", func(c *Cpu, operand uint32) error {
			c.Halt()
			return nil
		}},
		OP_PUSH: {"push", func(c *Cpu, operand uint32) error {
			return c.Push(operand)
		}},
		OP_POP: {"pop", func(c *Cpu, operand uint32) error {
			value, err := c.Pop()
			if err != nil {
				return err
			}
			return c.Reg.Set(REG_ACC, value)
		}},
		OP_ADD: {"add", func(c *Cpu, operand uint32) error {
			return c.binaryOp(func(a, b uint64) (uint64, error) {
				return a + b, nil
			})
		}},
		OP_SUB: {"sub", func(c *Cpu, operand uint32) error {
			mask := uint64(c.Mask())
			return c.binaryOp(func(a, b uint64) (uint64, error) {
				// Two's complement within the cell width; the borrow
				// surfaces as the carry flag.
				return a + (^b+1)&mask, nil
			})
		}},
		OP_MUL: {"mul", func(c *Cpu, operand uint32) error {
			return c.binaryOp(func(a, b uint64) (uint64, error) {
				return a * b, nil
			})
		}},
		OP_DIV: {"div", func(c *Cpu, operand uint32) error {
			return c.binaryOp(func(a, b uint64) (uint64, error) {
				if b == 0 {
					return 0, ErrDivideByZero
				}
				return a / b, nil
			})
		}},
		OP_LOAD: {"load", func(c *Cpu, operand uint32) error {
			return c.Reg.Set(REG_ACC, operand)
		}},
		OP_STORE: {"store", func(c *Cpu, operand uint32) error {
			return c.Cache.Write(operand, c.Reg.Get(REG_ACC))
		}},
		OP_LOADP: {"loadp", func(c *Cpu, operand uint32) error {
			value, err := c.Cache.Read(c.Reg.Get(REG_PR))
			if err != nil {
				return err
			}
			return c.Reg.Set(REG_ACC, value)
		}},
		OP_STORP: {"storp", func(c *Cpu, operand uint32) error {
			return c.Cache.Write(c.Reg.Get(REG_PR), c.Reg.Get(REG_ACC))
		}},
		OP_SETP: {"setp", func(c *Cpu, operand uint32) error {
			return c.Reg.Set(REG_PR, operand)
		}},
		OP_CMP: {"cmp", func(c *Cpu, operand uint32) error {
			acc := c.Reg.Get(REG_ACC)
			return c.setFlags(acc == operand, acc < operand, false)
		}},
		OP_JMP: {"jmp", func(c *Cpu, operand uint32) error {
			c.Jump(operand)
			return nil
		}},
		OP_JZ: {"jz", func(c *Cpu, operand uint32) error {
			if c.Reg.Get(REG_FR)&FLAG_ZERO != 0 {
				c.Jump(operand)
			}
			return nil
		}},
		OP_JNZ: {"jnz", func(c *Cpu, operand uint32) error {
			if c.Reg.Get(REG_FR)&FLAG_ZERO == 0 {
				c.Jump(operand)
			}
			return nil
		}},
		OP_JL: {"jl", func(c *Cpu, operand uint32) error {
			if c.Reg.Get(REG_FR)&FLAG_LESS != 0 {
				c.Jump(operand)
			}
			return nil
		}},
		OP_CALL: {"call", func(c *Cpu, operand uint32) error {
			return c.Call(operand)
		}},
		OP_RET: {"ret", func(c *Cpu, operand uint32) error {
			return c.Return()
		}},
		OP_IN: {"in", func(c *Cpu, operand uint32) error {
			value, err := c.ReadPort(operand)
			if err != nil {
				return err
			}
			return c.Reg.Set(REG_ACC, value)
		}},
		OP_OUT: {"out", func(c *Cpu, operand uint32) error {
			return c.WritePort(operand, c.Reg.Get(REG_ACC))
		}},
	}
}
