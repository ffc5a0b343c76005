// Package z80 is the Zilog Z80 instruction set and the Hitachi/Zilog Z180
// additions: one-byte opcodes, CB/ED/DD/FD prefix pages and little-endian
// operands.
package z80

import (
	"encoding/binary"

	"github.com/Urethramancer/asmkit/engine"
)

// Arch is the shared, read-only Z80 definition.
var Arch = &engine.Arch{
	Family: "z80",
	CPUs: []engine.CPU{
		{Name: "z80", Variant: CPUZ80},
		{Name: "z180", Variant: CPUZ180},
	},
	Table:       buildTable(),
	Registers:   registers,
	Modes:       modes,
	OpcodeWidth: 1,
	Order:       binary.LittleEndian,
	MaxLength:   4,
	Policy:      engine.Narrowest,
	HexPrefix:   "$",
	DataByte:    "DB",
	Parse:       parseOperand,
}

// New returns a module with the Z80 active.
func New() *engine.Module {
	return engine.NewModule(Arch)
}
