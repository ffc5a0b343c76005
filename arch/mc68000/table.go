package mc68000

import (
	"github.com/Urethramancer/asmkit/engine"
)

// CPU variants.
const (
	CPU68000 engine.Variant = 1 << iota
	CPU68010
)

var conditions = []string{"t", "f", "hi", "ls", "cc", "cs", "ne", "eq",
	"vc", "vs", "pl", "mi", "ge", "lt", "gt", "le"}

type sizeField struct {
	size   engine.Size
	suffix string
	bits   uint32
}

// sizes in the common two-bit field at bits 7-6.
var sizes = []sizeField{
	{engine.SizeByte, ".b", 0x0000},
	{engine.SizeWord, ".w", 0x0040},
	{engine.SizeLong, ".l", 0x0080},
}

// sized expands one pattern over byte, word and long. Byte operations
// cannot address an address register directly.
func sized(opcode, mask uint32, mn string, modes ...engine.Mode) []engine.Entry {
	out := make([]engine.Entry, 0, len(sizes))
	for _, s := range sizes {
		m := modes
		if s.size == engine.SizeByte {
			m = byteModes(modes)
		}
		out = append(out, engine.E(opcode|s.bits, mask, mn+s.suffix, m...).Sized(s.size))
	}
	return out
}

func byteModes(modes []engine.Mode) []engine.Mode {
	out := make([]engine.Mode, len(modes))
	for i, m := range modes {
		switch m {
		case EaAll:
			m = EaData
		case EaAlt:
			m = EaDataAlt
		}
		out[i] = m
	}
	return out
}

// wordLong expands the address-register forms whose size is bit 8.
func wordLong(opcode, mask uint32, mn string, modes ...engine.Mode) []engine.Entry {
	return []engine.Entry{
		engine.E(opcode, mask, mn+".w", modes...).Sized(engine.SizeWord),
		engine.E(opcode|0x0100, mask, mn+".l", modes...).Sized(engine.SizeLong),
	}
}

func word(opcode, mask uint32, mn string, modes ...engine.Mode) engine.Entry {
	return engine.E(opcode, mask, mn, modes...).Sized(engine.SizeWord)
}

// immediateOps are the line-0 operations on an immediate source.
var immediateOps = []struct {
	mn     string
	opcode uint32
	status bool // has ccr and sr forms
}{
	{"ori", 0x0000, true},
	{"andi", 0x0200, true},
	{"subi", 0x0400, false},
	{"addi", 0x0600, false},
	{"eori", 0x0A00, true},
	{"cmpi", 0x0C00, false},
}

var bitOps = []struct {
	mn  string
	op  uint32
	dst engine.Mode
}{
	{"btst", 0x00, EaData},
	{"bchg", 0x40, EaDataAlt},
	{"bclr", 0x80, EaDataAlt},
	{"bset", 0xC0, EaDataAlt},
}

var shiftOps = []struct {
	name string
	typ  uint32
}{
	{"as", 0}, {"ls", 1}, {"rox", 2}, {"ro", 3},
}

func buildTable() *engine.Table {
	var e []engine.Entry
	add := func(entries ...engine.Entry) {
		e = append(e, entries...)
	}

	// Line 0: immediates and bit operations.
	for _, op := range immediateOps {
		if op.status {
			add(engine.E(op.opcode|0x003C, 0, op.mn+".b", ImmSized, RegCCR).Sized(engine.SizeByte))
			add(word(op.opcode|0x007C, 0, op.mn+".w", ImmSized, RegSR))
		}
	}
	for _, op := range immediateOps {
		add(sized(op.opcode, 0x003F, op.mn, ImmSized, EaDataAlt)...)
	}
	for _, b := range bitOps {
		add(engine.E(0x0800|b.op, 0x003F, b.mn, ImmBit, b.dst).Sized(engine.SizeByte))
	}
	for _, b := range bitOps {
		add(engine.E(0x0100|b.op, 0x0E3F, b.mn, DregHigh, b.dst).Sized(engine.SizeByte))
	}

	// Lines 1-3: moves.
	add(word(0x3040, 0x0E3F, "movea.w", EaAll, AregHigh))
	add(engine.E(0x2040, 0x0E3F, "movea.l", EaAll, AregHigh).Sized(engine.SizeLong))
	add(engine.E(0x1000, 0x0FFF, "move.b", EaData, MoveDst).Sized(engine.SizeByte))
	add(word(0x3000, 0x0FFF, "move.w", EaAll, MoveDst))
	add(engine.E(0x2000, 0x0FFF, "move.l", EaAll, MoveDst).Sized(engine.SizeLong))

	// Line 4: miscellaneous.
	add(
		engine.E(0x4AFC, 0, "illegal"),
		engine.E(0x4E70, 0, "reset"),
		engine.E(0x4E71, 0, "nop"),
		word(0x4E72, 0, "stop", Imm16),
		engine.E(0x4E73, 0, "rte").With(engine.Return),
		engine.E(0x4E74, 0, "rtd", ImmS16).On(CPU68010).With(engine.Return),
		engine.E(0x4E75, 0, "rts").With(engine.Return),
		engine.E(0x4E76, 0, "trapv"),
		engine.E(0x4E77, 0, "rtr").With(engine.Return),
		engine.E(0x4E40, 0x000F, "trap", Vector4),
		engine.E(0x4E50, 0x0007, "link", AregLow, ImmS16),
		engine.E(0x4E58, 0x0007, "unlk", AregLow),
		engine.E(0x4E60, 0x0007, "move.l", AregLow, RegUSP).Sized(engine.SizeLong),
		engine.E(0x4E68, 0x0007, "move.l", RegUSP, AregLow).Sized(engine.SizeLong),
		engine.E(0x4E80, 0x003F, "jsr", EaControl).With(engine.Call),
		engine.E(0x4EC0, 0x003F, "jmp", EaControl).With(engine.Jump),
		engine.E(0x4840, 0x0007, "swap", DregLow),
		engine.E(0x4840, 0x003F, "pea", EaControl).Sized(engine.SizeLong),
		word(0x4880, 0x0007, "ext.w", DregLow),
		engine.E(0x48C0, 0x0007, "ext.l", DregLow).Sized(engine.SizeLong),
		engine.E(0x4800, 0x003F, "nbcd", EaDataAlt).Sized(engine.SizeByte),
		engine.E(0x4AC0, 0x003F, "tas", EaDataAlt).Sized(engine.SizeByte),
		word(0x40C0, 0x003F, "move.w", RegSR, EaDataAlt),
		word(0x42C0, 0x003F, "move.w", RegCCR, EaDataAlt).On(CPU68010),
		word(0x44C0, 0x003F, "move.w", EaData, RegCCR),
		word(0x46C0, 0x003F, "move.w", EaData, RegSR),
		engine.E(0x41C0, 0x0E3F, "lea", EaControl, AregHigh).Sized(engine.SizeLong),
		word(0x4180, 0x0E3F, "chk", EaData, DregHigh),
	)
	add(sized(0x4A00, 0x003F, "tst", EaDataAlt)...)
	add(sized(0x4200, 0x003F, "clr", EaDataAlt)...)
	add(sized(0x4000, 0x003F, "negx", EaDataAlt)...)
	add(sized(0x4400, 0x003F, "neg", EaDataAlt)...)
	add(sized(0x4600, 0x003F, "not", EaDataAlt)...)

	// Line 5: DBcc must precede Scc, which claims the same bits with an
	// address-register field.
	for i, cc := range conditions {
		mn := "db" + cc
		if i == 1 {
			mn = "dbra"
		}
		add(engine.E(0x50C8|uint32(i)<<8, 0x0007, mn, DregLow, Rel16).With(engine.Branch))
	}
	for i, cc := range conditions {
		add(engine.E(0x50C0|uint32(i)<<8, 0x003F, "s"+cc, EaDataAlt).Sized(engine.SizeByte))
	}
	add(sized(0x5000, 0x0E3F, "addq", Quick3, EaAlt)...)
	add(sized(0x5100, 0x0E3F, "subq", Quick3, EaAlt)...)

	// Line 6: the word form has a zero displacement byte, so it goes first.
	for i := range conditions {
		mn, flags := branchName(i)
		op := 0x6000 | uint32(i)<<8
		add(engine.E(op, 0, mn, Rel16).With(flags))
		add(engine.E(op, 0x00FF, mn, Rel8).With(flags))
	}

	// Line 7.
	add(engine.E(0x7000, 0x0EFF, "moveq", Imm8, DregHigh).Sized(engine.SizeLong))

	// Lines 8-D: two-operand arithmetic and logic.
	add(
		word(0x80C0, 0x0E3F, "divu", EaData, DregHigh),
		word(0x81C0, 0x0E3F, "divs", EaData, DregHigh),
		word(0xC0C0, 0x0E3F, "mulu", EaData, DregHigh),
		word(0xC1C0, 0x0E3F, "muls", EaData, DregHigh),
		engine.E(0xC140, 0x0E07, "exg", DregHigh, DregLow).Sized(engine.SizeLong),
		engine.E(0xC148, 0x0E07, "exg", AregHigh, AregLow).Sized(engine.SizeLong),
		engine.E(0xC188, 0x0E07, "exg", DregHigh, AregLow).Sized(engine.SizeLong),
	)
	add(wordLong(0x90C0, 0x0E3F, "suba", EaAll, AregHigh)...)
	add(wordLong(0xD0C0, 0x0E3F, "adda", EaAll, AregHigh)...)
	add(wordLong(0xB0C0, 0x0E3F, "cmpa", EaAll, AregHigh)...)
	add(sized(0x9100, 0x0E07, "subx", DregLow, DregHigh)...)
	add(sized(0x9108, 0x0E07, "subx", PreDecLow, PreDecHigh)...)
	add(sized(0xD100, 0x0E07, "addx", DregLow, DregHigh)...)
	add(sized(0xD108, 0x0E07, "addx", PreDecLow, PreDecHigh)...)

	add(sized(0x8000, 0x0E3F, "or", EaData, DregHigh)...)
	add(sized(0x8100, 0x0E3F, "or", DregHigh, EaMemAlt)...)
	add(sized(0x9000, 0x0E3F, "sub", EaAll, DregHigh)...)
	add(sized(0x9100, 0x0E3F, "sub", DregHigh, EaMemAlt)...)
	add(sized(0xB000, 0x0E3F, "cmp", EaAll, DregHigh)...)
	add(sized(0xB100, 0x0E3F, "eor", DregHigh, EaDataAlt)...)
	add(sized(0xC000, 0x0E3F, "and", EaData, DregHigh)...)
	add(sized(0xC100, 0x0E3F, "and", DregHigh, EaMemAlt)...)
	add(sized(0xD000, 0x0E3F, "add", EaAll, DregHigh)...)
	add(sized(0xD100, 0x0E3F, "add", DregHigh, EaMemAlt)...)

	// Line E: memory shifts use the size field value 3, register shifts
	// select an immediate or register count with bit 5.
	for _, s := range shiftOps {
		for dir, suffix := range []string{"r", "l"} {
			add(word(0xE0C0|s.typ<<9|uint32(dir)<<8, 0x003F, s.name+suffix, EaMemAlt))
		}
	}
	for _, s := range shiftOps {
		for dir, suffix := range []string{"r", "l"} {
			op := 0xE000 | s.typ<<3 | uint32(dir)<<8
			add(sized(op, 0x0E07, s.name+suffix, Quick3, DregLow)...)
			add(sized(op|0x0020, 0x0E07, s.name+suffix, DregHigh, DregLow)...)
		}
	}

	return engine.NewTable(engine.Primary(e...))
}

func branchName(cond int) (string, engine.Flags) {
	switch cond {
	case 0:
		return "bra", engine.Jump
	case 1:
		return "bsr", engine.Call
	}
	return "b" + conditions[cond], engine.Branch
}
