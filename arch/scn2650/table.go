package scn2650

import "github.com/Urethramancer/asmkit/engine"

// CPU2650 is the only variant.
const CPU2650 engine.Variant = 1

// arithmetic is the register/memory group: each base opcode has Z, I, R and A
// forms at +0, +4, +8 and +C.
var arithmetic = []struct {
	name string
	base uint32
}{
	{"lod", 0x00},
	{"eor", 0x20},
	{"and", 0x40},
	{"ior", 0x60},
	{"add", 0x80},
	{"sub", 0xA0},
	{"com", 0xE0},
}

// branches on a condition, in relative/absolute pairs.
var condBranches = []struct {
	name  string
	base  uint32
	cond  engine.Mode
	flags engine.Flags
	un    engine.Flags // flags of the ",un" form
}{
	{"bct", 0x18, Cond, engine.Branch, engine.Jump},
	{"bst", 0x38, Cond, engine.Call, engine.Call},
	{"bcf", 0x98, CondNotUN, engine.Branch, 0},
	{"bsf", 0xB8, CondNotUN, engine.Call, 0},
}

// branches on a register.
var regBranches = []struct {
	name  string
	base  uint32
	flags engine.Flags
}{
	{"brn", 0x58, engine.Branch},
	{"bsn", 0x78, engine.Call},
	{"bir", 0xD8, engine.Branch},
	{"bdr", 0xF8, engine.Branch},
}

func buildTable() *engine.Table {
	e := []engine.Entry{
		engine.E(0x40, 0, "halt").With(engine.Jump),
		engine.E(0xC0, 0, "nop"),
		engine.E(0x9B, 0, "zbrr", ZRel7).With(engine.Jump),
		engine.E(0xBB, 0, "zbsr", ZRel7).With(engine.Call),
		engine.E(0x9F, 0, "bxa", AbsX15).With(engine.Jump),
		engine.E(0xBF, 0, "bsxa", AbsX15).With(engine.Call),
		engine.E(0x17, 0, "retc", CondUN).With(engine.Return),
		engine.E(0x37, 0, "rete", CondUN).With(engine.Return),
		engine.E(0x14, 0x03, "retc", Cond),
		engine.E(0x34, 0x03, "rete", Cond),
		engine.E(0x12, 0, "spsu"),
		engine.E(0x13, 0, "spsl"),
		engine.E(0x92, 0, "lpsu"),
		engine.E(0x93, 0, "lpsl"),
		engine.E(0x74, 0, "cpsu", Imm8),
		engine.E(0x75, 0, "cpsl", Imm8),
		engine.E(0x76, 0, "ppsu", Imm8),
		engine.E(0x77, 0, "ppsl", Imm8),
		engine.E(0xB4, 0, "tpsu", Imm8),
		engine.E(0xB5, 0, "tpsl", Imm8),
		engine.E(0xF4, 0x03, "tmi", Reg, Imm8),
		engine.E(0x50, 0x03, "rrr", Reg),
		engine.E(0xD0, 0x03, "rrl", Reg),
		engine.E(0x94, 0x03, "dar", Reg),
		engine.E(0x30, 0x03, "redc", Reg),
		engine.E(0x70, 0x03, "redd", Reg),
		engine.E(0xB0, 0x03, "wrtc", Reg),
		engine.E(0xF0, 0x03, "wrtd", Reg),
		engine.E(0x54, 0x03, "rede", Reg, Imm8),
		engine.E(0xD4, 0x03, "wrte", Reg, Imm8),
	}

	for _, a := range arithmetic {
		z := Reg
		if a.base == 0x40 {
			z = RegNotR0
		}
		e = append(e,
			engine.E(a.base, 0x03, a.name+"z", z),
			engine.E(a.base|0x04, 0x03, a.name+"i", Reg, Imm8),
			engine.E(a.base|0x08, 0x03, a.name+"r", Reg, Rel7),
			engine.E(a.base|0x0C, 0x03, a.name+"a", RegA, Abs13),
		)
	}
	e = append(e,
		engine.E(0xC0, 0x03, "strz", RegNotR0),
		engine.E(0xC8, 0x03, "strr", Reg, Rel7),
		engine.E(0xCC, 0x03, "stra", RegA, Abs13),
	)

	for _, b := range condBranches {
		if b.un != 0 {
			e = append(e,
				engine.E(b.base|0x03, 0, b.name+"r", CondUN, Rel7).With(b.un),
				engine.E(b.base|0x07, 0, b.name+"a", CondUN, Abs15).With(b.un),
			)
		}
		e = append(e,
			engine.E(b.base, 0x03, b.name+"r", b.cond, Rel7).With(b.flags),
			engine.E(b.base|0x04, 0x03, b.name+"a", b.cond, Abs15).With(b.flags),
		)
	}
	for _, b := range regBranches {
		e = append(e,
			engine.E(b.base, 0x03, b.name+"r", Reg, Rel7).With(b.flags),
			engine.E(b.base|0x04, 0x03, b.name+"a", Reg, Abs15).With(b.flags),
		)
	}

	return engine.NewTable(engine.Primary(e...))
}
