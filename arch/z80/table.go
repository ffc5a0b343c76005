package z80

import "github.com/Urethramancer/asmkit/engine"

// CPU variants.
const (
	CPUZ80 engine.Variant = 1 << iota
	CPUZ180
)

// Prefix bytes that introduce secondary opcode pages.
const (
	prefixCB = 0xCB
	prefixDD = 0xDD
	prefixED = 0xED
	prefixFD = 0xFD
)

var alu = []struct {
	name string
	a    bool // written with an explicit A operand
}{
	{"ADD", true}, {"ADC", true}, {"SUB", false}, {"SBC", true},
	{"AND", false}, {"XOR", false}, {"OR", false}, {"CP", false},
}

func aluEntry(op uint32, mask uint32, i int, src engine.Mode) engine.Entry {
	if alu[i].a {
		return engine.E(op, mask, alu[i].name, FixA, src)
	}
	return engine.E(op, mask, alu[i].name, src)
}

func primaryPage() engine.Page {
	e := []engine.Entry{
		engine.E(0x00, 0, "NOP"),
		engine.E(0x76, 0, "HALT"),
		engine.E(0xF3, 0, "DI"),
		engine.E(0xFB, 0, "EI"),
		engine.E(0x07, 0, "RLCA"),
		engine.E(0x0F, 0, "RRCA"),
		engine.E(0x17, 0, "RLA"),
		engine.E(0x1F, 0, "RRA"),
		engine.E(0x27, 0, "DAA"),
		engine.E(0x2F, 0, "CPL"),
		engine.E(0x37, 0, "SCF"),
		engine.E(0x3F, 0, "CCF"),
		engine.E(0xD9, 0, "EXX"),
		engine.E(0x08, 0, "EX", FixAF, FixAFx),
		engine.E(0xEB, 0, "EX", FixDE, FixHL),
		engine.E(0xE3, 0, "EX", FixIndSP, FixHL),
		engine.E(0xE9, 0, "JP", FixIndHL).With(engine.Jump),
		engine.E(0xF9, 0, "LD", FixSP, FixHL),

		engine.E(0x40, 0x3F, "LD", Reg8Hi, Reg8LoLd),
		engine.E(0x06, 0x38, "LD", Reg8Hi, Imm8),
		engine.E(0x01, 0x30, "LD", Pair, Imm16),
		engine.E(0x02, 0, "LD", FixIndBC, FixA),
		engine.E(0x12, 0, "LD", FixIndDE, FixA),
		engine.E(0x0A, 0, "LD", FixA, FixIndBC),
		engine.E(0x1A, 0, "LD", FixA, FixIndDE),
		engine.E(0x22, 0, "LD", Mem16, FixHL),
		engine.E(0x2A, 0, "LD", FixHL, Mem16),
		engine.E(0x32, 0, "LD", Mem16, FixA),
		engine.E(0x3A, 0, "LD", FixA, Mem16),

		engine.E(0x04, 0x38, "INC", Reg8Hi),
		engine.E(0x05, 0x38, "DEC", Reg8Hi),
		engine.E(0x03, 0x30, "INC", Pair),
		engine.E(0x0B, 0x30, "DEC", Pair),
		engine.E(0x09, 0x30, "ADD", FixHL, Pair),

		engine.E(0x18, 0, "JR", Rel8).With(engine.Jump),
		engine.E(0x20, 0x18, "JR", CondJR, Rel8).With(engine.Branch),
		engine.E(0x10, 0, "DJNZ", Rel8).With(engine.Branch),
		engine.E(0xC3, 0, "JP", Imm16).With(engine.Jump),
		engine.E(0xC2, 0x38, "JP", Cond, Imm16).With(engine.Branch),
		engine.E(0xCD, 0, "CALL", Imm16).With(engine.Call),
		engine.E(0xC4, 0x38, "CALL", Cond, Imm16).With(engine.Call),
		engine.E(0xC9, 0, "RET").With(engine.Return),
		engine.E(0xC0, 0x38, "RET", Cond),
		engine.E(0xC7, 0x38, "RST", Rst).With(engine.Call),
		engine.E(0xC5, 0x30, "PUSH", PairAF),
		engine.E(0xC1, 0x30, "POP", PairAF),
		engine.E(0xD3, 0, "OUT", Port8, FixA),
		engine.E(0xDB, 0, "IN", FixA, Port8),
	}
	for i := range alu {
		e = append(e, aluEntry(0x80|uint32(i)<<3, 0x07, i, Reg8Lo))
		e = append(e, aluEntry(0xC6|uint32(i)<<3, 0, i, Imm8))
	}
	return engine.Primary(e...)
}

func bitPage() engine.Page {
	var e []engine.Entry
	for i, name := range []string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "", "SRL"} {
		if name != "" {
			e = append(e, engine.E(uint32(i)<<3, 0x07, name, Reg8Lo))
		}
	}
	e = append(e,
		engine.E(0x40, 0x3F, "BIT", Bit3, Reg8Lo),
		engine.E(0x80, 0x3F, "RES", Bit3, Reg8Lo),
		engine.E(0xC0, 0x3F, "SET", Bit3, Reg8Lo),
	)
	return engine.Prefixed(prefixCB, e...)
}

func extendedPage() engine.Page {
	e := []engine.Entry{
		engine.E(0x44, 0, "NEG"),
		engine.E(0x45, 0, "RETN").With(engine.Return),
		engine.E(0x4D, 0, "RETI").With(engine.Return),
		engine.E(0x46, 0, "IM", Im0),
		engine.E(0x56, 0, "IM", Im1),
		engine.E(0x5E, 0, "IM", Im2),
		engine.E(0x47, 0, "LD", FixI, FixA),
		engine.E(0x4F, 0, "LD", FixR, FixA),
		engine.E(0x57, 0, "LD", FixA, FixI),
		engine.E(0x5F, 0, "LD", FixA, FixR),
		engine.E(0x67, 0, "RRD"),
		engine.E(0x6F, 0, "RLD"),
		engine.E(0x40, 0x38, "IN", Reg8HiStrict, FixIndC),
		engine.E(0x41, 0x38, "OUT", FixIndC, Reg8HiStrict),
		engine.E(0x42, 0x30, "SBC", FixHL, Pair),
		engine.E(0x4A, 0x30, "ADC", FixHL, Pair),
		engine.E(0x43, 0x30, "LD", Mem16, Pair),
		engine.E(0x4B, 0x30, "LD", Pair, Mem16),

		// Z180 additions.
		engine.E(0x76, 0, "SLP").On(CPUZ180),
		engine.E(0x64, 0, "TST", Imm8).On(CPUZ180),
		engine.E(0x74, 0, "TSTIO", Imm8).On(CPUZ180),
		engine.E(0x83, 0, "OTIM").On(CPUZ180),
		engine.E(0x8B, 0, "OTDM").On(CPUZ180),
		engine.E(0x93, 0, "OTIMR").On(CPUZ180),
		engine.E(0x9B, 0, "OTDMR").On(CPUZ180),
		engine.E(0x04, 0x38, "TST", Reg8Hi).On(CPUZ180),
		engine.E(0x4C, 0x30, "MLT", Pair).On(CPUZ180),
		engine.E(0x00, 0x38, "IN0", Reg8HiStrict, Port8).On(CPUZ180),
		engine.E(0x01, 0x38, "OUT0", Port8, Reg8HiStrict).On(CPUZ180),
	}
	block := []struct {
		op   uint32
		name string
	}{
		{0xA0, "LDI"}, {0xA1, "CPI"}, {0xA2, "INI"}, {0xA3, "OUTI"},
		{0xA8, "LDD"}, {0xA9, "CPD"}, {0xAA, "IND"}, {0xAB, "OUTD"},
		{0xB0, "LDIR"}, {0xB1, "CPIR"}, {0xB2, "INIR"}, {0xB3, "OTIR"},
		{0xB8, "LDDR"}, {0xB9, "CPDR"}, {0xBA, "INDR"}, {0xBB, "OTDR"},
	}
	for _, b := range block {
		e = append(e, engine.E(b.op, 0, b.name))
	}
	return engine.Prefixed(prefixED, e...)
}

// indexPage builds the DD or FD page: the HL instructions with HL replaced
// by an index register and (HL) by (IX+d) or (IY+d).
func indexPage(prefix uint32, reg, ind, idx, pairs engine.Mode) engine.Page {
	e := []engine.Entry{
		engine.E(0x21, 0, "LD", reg, Imm16),
		engine.E(0x2A, 0, "LD", reg, Mem16),
		engine.E(0x22, 0, "LD", Mem16, reg),
		engine.E(0xF9, 0, "LD", FixSP, reg),
		engine.E(0xE5, 0, "PUSH", reg),
		engine.E(0xE1, 0, "POP", reg),
		engine.E(0xE3, 0, "EX", FixIndSP, reg),
		engine.E(0xE9, 0, "JP", ind).With(engine.Jump),
		engine.E(0x23, 0, "INC", reg),
		engine.E(0x2B, 0, "DEC", reg),
		engine.E(0x09, 0x30, "ADD", reg, pairs),
		engine.E(0x36, 0, "LD", idx, Imm8),
		engine.E(0x34, 0, "INC", idx),
		engine.E(0x35, 0, "DEC", idx),
		engine.E(0x46, 0x38, "LD", Reg8HiStrict, idx),
		engine.E(0x70, 0x07, "LD", idx, Reg8LoStrict),
	}
	for i := range alu {
		e = append(e, aluEntry(0x86|uint32(i)<<3, 0, i, idx))
	}
	return engine.Prefixed(prefix, e...)
}

func buildTable() *engine.Table {
	return engine.NewTable(
		primaryPage(),
		bitPage(),
		extendedPage(),
		indexPage(prefixDD, FixIX, FixIndIX, IdxIX, PairIX),
		indexPage(prefixFD, FixIY, FixIndIY, IdxIY, PairIY),
	)
}
