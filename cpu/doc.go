// Package cpu implements the execution core of the QT virtual machine.
//
// The machine consists of six fixed-width registers (ACC, PR, PC, FR, SP,
// ASP) and four independently sized memory segments: general memory
// ("cache"), a data stack, a call/return address stack, and an I/O port
// space. The engine fetches decoded instructions by program counter,
// resolves the operand through a single memory-flag addressing mode, and
// dispatches to an opcode table injected at construction.
//
// Instruction encodings follow the Q-Compiler binary format: a wide
// four-byte group ("QT") or a narrow three-byte group ("QM").
package cpu
