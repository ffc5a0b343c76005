package scn2650

import "github.com/Urethramancer/asmkit/engine"

// Registers. R0 is the implied operand of every indexed instruction.
const (
	R0 engine.RegName = iota
	R1
	R2
	R3
)

// Condition codes. UN is "always".
const (
	EQ engine.RegName = iota
	GT
	LT
	UN
)

var registers = engine.NewRegisters(
	engine.RegEntry{Name: R0, Text: "r0"},
	engine.RegEntry{Name: R1, Text: "r1"},
	engine.RegEntry{Name: R2, Text: "r2"},
	engine.RegEntry{Name: R3, Text: "r3"},
)

// Conditions is the condition-code namespace; it shares tag values with the
// registers, so it is kept separate.
var Conditions = engine.NewRegisters(
	engine.RegEntry{Name: EQ, Text: "eq"},
	engine.RegEntry{Name: GT, Text: "gt"},
	engine.RegEntry{Name: LT, Text: "lt"},
	engine.RegEntry{Name: UN, Text: "un"},
)
