package z80

import "github.com/Urethramancer/asmkit/engine"

// Register tags. The 8-bit registers carry their instruction field value;
// 6 is the (HL) slot of that field and has no register.
const (
	B engine.RegName = iota
	C
	D
	E
	H
	L
	_
	A
	BC
	DE
	HL
	SP
	AF
	IX
	IY
	I
	R
	AFx // AF'
)

// AF' must be tried before AF.
var registers = engine.NewRegisters(
	engine.RegEntry{Name: B, Text: "B"},
	engine.RegEntry{Name: C, Text: "C"},
	engine.RegEntry{Name: D, Text: "D"},
	engine.RegEntry{Name: E, Text: "E"},
	engine.RegEntry{Name: H, Text: "H"},
	engine.RegEntry{Name: L, Text: "L"},
	engine.RegEntry{Name: A, Text: "A"},
	engine.RegEntry{Name: BC, Text: "BC"},
	engine.RegEntry{Name: DE, Text: "DE"},
	engine.RegEntry{Name: HL, Text: "HL"},
	engine.RegEntry{Name: SP, Text: "SP"},
	engine.RegEntry{Name: AFx, Text: "AF'"},
	engine.RegEntry{Name: AF, Text: "AF"},
	engine.RegEntry{Name: IX, Text: "IX"},
	engine.RegEntry{Name: IY, Text: "IY"},
	engine.RegEntry{Name: I, Text: "I"},
	engine.RegEntry{Name: R, Text: "R"},
)

// Condition codes in instruction field order. C is spelled like the
// register, so the parser returns the register and Cond modes accept it.
const (
	NZ engine.RegName = iota
	Z
	NC
	CY
	PO
	PE
	P
	M
)

// Conditions is the condition-code namespace.
var Conditions = engine.NewRegisters(
	engine.RegEntry{Name: NZ, Text: "NZ"},
	engine.RegEntry{Name: Z, Text: "Z"},
	engine.RegEntry{Name: NC, Text: "NC"},
	engine.RegEntry{Name: CY, Text: "C"},
	engine.RegEntry{Name: PO, Text: "PO"},
	engine.RegEntry{Name: PE, Text: "PE"},
	engine.RegEntry{Name: P, Text: "P"},
	engine.RegEntry{Name: M, Text: "M"},
)

func isReg8(r engine.RegName) bool {
	return (r >= B && r <= L) || r == A
}

// pairs in the two-bit field order; the third slot is HL or an index register.
var (
	pairsSP = [4]engine.RegName{BC, DE, HL, SP}
	pairsAF = [4]engine.RegName{BC, DE, HL, AF}
)
