// Package mc68000 is the Motorola 68000 family instruction set: 16-bit
// big-endian opcode words, effective-address operands and condition codes
// folded into mnemonics.
package mc68000

import (
	"encoding/binary"

	"github.com/Urethramancer/asmkit/engine"
)

var table = buildTable()

// Arch is the shared, read-only 68000 definition.
var Arch = &engine.Arch{
	Family: "m68k",
	CPUs: []engine.CPU{
		{Name: "68000", Variant: CPU68000},
		{Name: "68010", Variant: CPU68010},
	},
	Table:       table,
	Registers:   registers,
	Modes:       modes,
	OpcodeWidth: 2,
	Order:       binary.BigEndian,
	MaxLength:   10,
	Policy:      engine.Narrowest,
	HexPrefix:   "$",
	DataByte:    "dc.b",
	Split:       splitStatement,
	Parse:       parseOperand,
}

// New returns a module with the 68000 active.
func New() *engine.Module {
	return engine.NewModule(Arch)
}
