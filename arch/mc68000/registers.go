package mc68000

import "github.com/Urethramancer/asmkit/engine"

// Register tags. D0-D7 are 0-7 and A0-A7 are 8-15, so the low three bits
// are the register field and bit 3 selects the address bank.
const (
	D0 engine.RegName = iota
	D1
	D2
	D3
	D4
	D5
	D6
	D7
	A0
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	PC
	SR
	CCR
	USP
)

var registers = engine.NewRegisters(
	engine.RegEntry{Name: D0, Text: "d0"},
	engine.RegEntry{Name: D1, Text: "d1"},
	engine.RegEntry{Name: D2, Text: "d2"},
	engine.RegEntry{Name: D3, Text: "d3"},
	engine.RegEntry{Name: D4, Text: "d4"},
	engine.RegEntry{Name: D5, Text: "d5"},
	engine.RegEntry{Name: D6, Text: "d6"},
	engine.RegEntry{Name: D7, Text: "d7"},
	engine.RegEntry{Name: A0, Text: "a0"},
	engine.RegEntry{Name: A1, Text: "a1"},
	engine.RegEntry{Name: A2, Text: "a2"},
	engine.RegEntry{Name: A3, Text: "a3"},
	engine.RegEntry{Name: A4, Text: "a4"},
	engine.RegEntry{Name: A5, Text: "a5"},
	engine.RegEntry{Name: A6, Text: "a6"},
	engine.RegEntry{Name: A7, Text: "a7"},
	engine.RegEntry{Name: PC, Text: "pc"},
	engine.RegEntry{Name: SR, Text: "sr"},
	engine.RegEntry{Name: CCR, Text: "ccr"},
	engine.RegEntry{Name: USP, Text: "usp"},
)

// spAlias lets "sp" parse as a7 without breaking the one-text-per-tag table.
const spAlias = "sp"

func isData(r engine.RegName) bool {
	return r >= D0 && r <= D7
}

func isAddr(r engine.RegName) bool {
	return r >= A0 && r <= A7
}

func dreg(n uint32) engine.RegName {
	return D0 + engine.RegName(n&7)
}

func areg(n uint32) engine.RegName {
	return A0 + engine.RegName(n&7)
}

// field returns the three-bit register number of a data or address register.
func field(r engine.RegName) uint32 {
	return uint32(r) & 7
}
