// Package scn2650 is the Signetics 2650 instruction set: one-byte opcodes
// with the register or condition in the low two bits, 8 KiB pages that
// relative and in-page absolute operands wrap within, and indirect
// addressing on every memory operand.
package scn2650

import (
	"encoding/binary"

	"github.com/Urethramancer/asmkit/engine"
)

// Arch is the shared, read-only 2650 definition.
var Arch = &engine.Arch{
	Family:      "2650",
	CPUs:        []engine.CPU{{Name: "2650", Variant: CPU2650}},
	Table:       buildTable(),
	Registers:   registers,
	Modes:       modes,
	OpcodeWidth: 1,
	Order:       binary.BigEndian,
	MaxLength:   3,
	Policy:      engine.Narrowest,
	HexPrefix:   "$",
	DataByte:    "db",
	Format:      format,
	Split:       split,
	Parse:       parseOperand,
}

// New returns a 2650 module.
func New() *engine.Module {
	return engine.NewModule(Arch)
}
