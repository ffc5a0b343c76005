// Package tms9900 is the TI TMS9900 instruction set and its TMS9995
// extensions: 16-bit big-endian opcode words, memory-resident workspace
// registers and the general T/register operand field.
package tms9900

import (
	"encoding/binary"

	"github.com/Urethramancer/asmkit/engine"
)

// Arch is the shared, read-only TMS9900 definition.
var Arch = &engine.Arch{
	Family: "tms9900",
	CPUs: []engine.CPU{
		{Name: "tms9900", Variant: CPU9900},
		{Name: "tms9995", Variant: CPU9995},
	},
	Table:       buildTable(),
	Registers:   registers,
	Modes:       modes,
	OpcodeWidth: 2,
	Order:       binary.BigEndian,
	MaxLength:   6,
	Policy:      engine.Narrowest,
	HexPrefix:   ">",
	DataByte:    "byte",
	Parse:       parseOperand,
}

// New returns a module with the TMS9900 active.
func New() *engine.Module {
	return engine.NewModule(Arch)
}
