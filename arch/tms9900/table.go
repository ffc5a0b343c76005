package tms9900

import "github.com/Urethramancer/asmkit/engine"

// CPU variants.
const (
	CPU9900 engine.Variant = 1 << iota
	CPU9995
)

func buildTable() *engine.Table {
	e := []engine.Entry{
		// Format VII: no operands.
		engine.E(0x0340, 0, "idle"),
		engine.E(0x0360, 0, "rset"),
		engine.E(0x0380, 0, "rtwp").With(engine.Return),
		engine.E(0x03A0, 0, "ckon"),
		engine.E(0x03C0, 0, "ckof"),
		engine.E(0x03E0, 0, "lrex"),

		// Format VIII: register and immediate.
		engine.E(0x0200, 0x000F, "li", RegLow, Imm16),
		engine.E(0x0220, 0x000F, "ai", RegLow, Imm16),
		engine.E(0x0240, 0x000F, "andi", RegLow, Imm16),
		engine.E(0x0260, 0x000F, "ori", RegLow, Imm16),
		engine.E(0x0280, 0x000F, "ci", RegLow, Imm16),
		engine.E(0x02A0, 0x000F, "stwp", RegLow),
		engine.E(0x02C0, 0x000F, "stst", RegLow),
		engine.E(0x02E0, 0, "lwpi", Imm16),
		engine.E(0x0300, 0, "limi", Imm16),

		engine.E(0x0080, 0x000F, "lst", RegLow).On(CPU9995),
		engine.E(0x0090, 0x000F, "lwp", RegLow).On(CPU9995),
		engine.E(0x0180, 0x003F, "divs", GenSrc).On(CPU9995),
		engine.E(0x01C0, 0x003F, "mpys", GenSrc).On(CPU9995),

		// Format VI: one general operand. B *R11 is the subroutine return.
		engine.E(0x045B, 0, "rt").With(engine.Return),
		engine.E(0x0400, 0x003F, "blwp", GenSrc).With(engine.Call),
		engine.E(0x0440, 0x003F, "b", GenSrc).With(engine.Jump),
		engine.E(0x0480, 0x003F, "x", GenSrc),
		engine.E(0x04C0, 0x003F, "clr", GenSrc),
		engine.E(0x0500, 0x003F, "neg", GenSrc),
		engine.E(0x0540, 0x003F, "inv", GenSrc),
		engine.E(0x0580, 0x003F, "inc", GenSrc),
		engine.E(0x05C0, 0x003F, "inct", GenSrc),
		engine.E(0x0600, 0x003F, "dec", GenSrc),
		engine.E(0x0640, 0x003F, "dect", GenSrc),
		engine.E(0x0680, 0x003F, "bl", GenSrc).With(engine.Call),
		engine.E(0x06C0, 0x003F, "swpb", GenSrc),
		engine.E(0x0700, 0x003F, "seto", GenSrc),
		engine.E(0x0740, 0x003F, "abs", GenSrc),

		// Format V: shifts.
		engine.E(0x0800, 0x00FF, "sra", RegLow, ShiftCnt),
		engine.E(0x0900, 0x00FF, "srl", RegLow, ShiftCnt),
		engine.E(0x0A00, 0x00FF, "sla", RegLow, ShiftCnt),
		engine.E(0x0B00, 0x00FF, "src", RegLow, ShiftCnt),

		// Format II: jumps and CRU bit operations. JMP $+2 is the canonical NOP.
		engine.E(0x1000, 0, "nop"),
		engine.E(0x1000, 0x00FF, "jmp", Disp8).With(engine.Jump),
		engine.E(0x1100, 0x00FF, "jlt", Disp8).With(engine.Branch),
		engine.E(0x1200, 0x00FF, "jle", Disp8).With(engine.Branch),
		engine.E(0x1300, 0x00FF, "jeq", Disp8).With(engine.Branch),
		engine.E(0x1400, 0x00FF, "jhe", Disp8).With(engine.Branch),
		engine.E(0x1500, 0x00FF, "jgt", Disp8).With(engine.Branch),
		engine.E(0x1600, 0x00FF, "jne", Disp8).With(engine.Branch),
		engine.E(0x1700, 0x00FF, "jnc", Disp8).With(engine.Branch),
		engine.E(0x1800, 0x00FF, "joc", Disp8).With(engine.Branch),
		engine.E(0x1900, 0x00FF, "jno", Disp8).With(engine.Branch),
		engine.E(0x1A00, 0x00FF, "jl", Disp8).With(engine.Branch),
		engine.E(0x1B00, 0x00FF, "jh", Disp8).With(engine.Branch),
		engine.E(0x1C00, 0x00FF, "jop", Disp8).With(engine.Branch),
		engine.E(0x1D00, 0x00FF, "sbo", CruBit),
		engine.E(0x1E00, 0x00FF, "sbz", CruBit),
		engine.E(0x1F00, 0x00FF, "tb", CruBit),

		// Formats III, IV and IX: general source, register or count in bits 9-6.
		engine.E(0x2000, 0x03FF, "coc", GenSrc, RegDst),
		engine.E(0x2400, 0x03FF, "czc", GenSrc, RegDst),
		engine.E(0x2800, 0x03FF, "xor", GenSrc, RegDst),
		engine.E(0x2C00, 0x03FF, "xop", GenSrc, XopNumber),
		engine.E(0x3000, 0x03FF, "ldcr", GenSrc, CruCount),
		engine.E(0x3400, 0x03FF, "stcr", GenSrc, CruCount),
		engine.E(0x3800, 0x03FF, "mpy", GenSrc, RegDst),
		engine.E(0x3C00, 0x03FF, "div", GenSrc, RegDst),
	}

	// Format I: two general operands, word and byte forms.
	dual := []struct {
		name   string
		opcode uint32
	}{
		{"szc", 0x4000}, {"s", 0x6000}, {"c", 0x8000}, {"a", 0xA000},
		{"mov", 0xC000}, {"soc", 0xE000},
	}
	for _, d := range dual {
		e = append(e,
			engine.E(d.opcode, 0x0FFF, d.name, GenSrc, GenDst).Sized(engine.SizeWord),
			engine.E(d.opcode|0x1000, 0x0FFF, d.name+"b", GenSrc, GenDst).Sized(engine.SizeByte),
		)
	}

	return engine.NewTable(engine.Primary(e...))
}
