package z80

import (
	"fmt"

	"github.com/Urethramancer/asmkit/engine"
)

// Operand shapes produced by the parser.
const (
	ShapeReg  engine.Mode = iota + 1
	ShapeCond             // NZ Z NC PO PE P M; C arrives as ShapeReg
	ShapeInd              // (BC) (DE) (HL) (SP) (C)
	ShapeIdx              // (IX+d) (IY+d)
	ShapeMem              // (nn)
	ShapeImm
)

// Addressing-mode tags.
const (
	Reg8Hi       engine.Mode = iota + 1 // bits 5-3, 6 is (HL)
	Reg8Lo                              // bits 2-0, 6 is (HL)
	Reg8HiStrict                        // bits 5-3, registers only
	Reg8LoStrict
	Reg8LoLd // Reg8Lo for LD r,r', where (HL),(HL) would be HALT
	Pair     // BC DE HL SP in bits 5-4
	PairAF   // BC DE HL AF
	PairIX   // BC DE IX SP
	PairIY
	Cond   // bits 5-3
	CondJR // NZ Z NC C in bits 4-3
	Imm8
	Imm16
	Mem16
	Port8
	Rel8
	Rst
	Bit3
	Im0
	Im1
	Im2
	IdxIX
	IdxIY
	FixA
	FixHL
	FixDE
	FixSP
	FixAF
	FixAFx
	FixI
	FixR
	FixIX
	FixIY
	FixIndBC
	FixIndDE
	FixIndHL
	FixIndSP
	FixIndC
	FixIndIX
	FixIndIY
	numModes
)

var modes = buildModes()

func buildModes() []engine.ModeFuncs {
	m := make([]engine.ModeFuncs, numModes)

	m[Reg8Hi] = reg8(3, true)
	m[Reg8Lo] = reg8(0, true)
	m[Reg8HiStrict] = reg8(3, false)
	m[Reg8LoStrict] = reg8(0, false)
	m[Reg8LoLd] = ldSource(m[Reg8Lo])

	m[Pair] = pair(pairsSP)
	m[PairAF] = pair(pairsAF)
	m[PairIX] = pair([4]engine.RegName{BC, DE, IX, SP})
	m[PairIY] = pair([4]engine.RegName{BC, DE, IY, SP})

	m[Cond] = cond(3, 8)
	m[CondJR] = cond(3, 4)

	m[Imm8] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			return engine.Hex("$", uint32(b), 2), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsEither(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "%d does not fit a byte", op.Value)
			}
			c.Emit8(byte(op.Value))
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Imm16] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			if in.Entry.Flags&(engine.Jump|engine.Call|engine.Branch) != 0 {
				in.SetTarget(uint32(w))
			}
			return engine.Hex("$", uint32(w), 4), nil
		},
		Encode: emit16,
		Accept: shape(ShapeImm),
	}

	m[Mem16] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			return "(" + engine.Hex("$", uint32(w), 4) + ")", nil
		},
		Encode: emit16,
		Accept: shape(ShapeMem),
	}

	m[Port8] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			return "(" + engine.Hex("$", uint32(b), 2) + ")", nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "port %d is outside 0..255", op.Value)
			}
			c.Emit8(byte(op.Value))
			return nil
		},
		Accept: shape(ShapeMem),
	}

	m[Rel8] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			target := (in.Address + 2 + uint32(int8(b))) & 0xFFFF
			in.SetTarget(target)
			return engine.Hex("$", target, 4), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			d := op.Value - int64(c.Address) - 2
			if op.Undefined {
				d = 0
			}
			if !engine.FitsSigned(d, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "relative distance %d is outside -128..127", d)
			}
			c.Emit8(byte(d))
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Rst] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			t := in.Opcode & 0x38
			in.SetTarget(t)
			return engine.Hex("$", t, 2), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if op.Value&^0x38 != 0 {
				return engine.Errorf(engine.OverflowRange, c.Address, "RST %s is not a restart vector", engine.Hex("$", uint32(op.Value), 2))
			}
			c.Opcode |= uint32(op.Value)
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Bit3] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return fmt.Sprintf("%d", in.Opcode>>3&7), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 3) {
				return engine.Errorf(engine.OverflowRange, c.Address, "bit %d is outside 0..7", op.Value)
			}
			c.Opcode |= (uint32(op.Value) & 7) << 3
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Im0] = interruptMode(0)
	m[Im1] = interruptMode(1)
	m[Im2] = interruptMode(2)

	m[IdxIX] = indexed(IX)
	m[IdxIY] = indexed(IY)

	m[FixA] = fixed(ShapeReg, A)
	m[FixHL] = fixed(ShapeReg, HL)
	m[FixDE] = fixed(ShapeReg, DE)
	m[FixSP] = fixed(ShapeReg, SP)
	m[FixAF] = fixed(ShapeReg, AF)
	m[FixAFx] = fixed(ShapeReg, AFx)
	m[FixI] = fixed(ShapeReg, I)
	m[FixR] = fixed(ShapeReg, R)
	m[FixIX] = fixed(ShapeReg, IX)
	m[FixIY] = fixed(ShapeReg, IY)
	m[FixIndBC] = fixed(ShapeInd, BC)
	m[FixIndDE] = fixed(ShapeInd, DE)
	m[FixIndHL] = fixed(ShapeInd, HL)
	m[FixIndSP] = fixed(ShapeInd, SP)
	m[FixIndC] = fixed(ShapeInd, C)
	m[FixIndIX] = indexRegister(IX)
	m[FixIndIY] = indexRegister(IY)
	return m
}

func shape(want engine.Mode) func(*engine.Operand) bool {
	return func(op *engine.Operand) bool {
		return op.Mode == want
	}
}

func emit16(c *engine.Code, op *engine.Operand, _ int) error {
	if !op.Undefined && !engine.FitsEither(op.Value, 16) {
		return engine.Errorf(engine.OverflowRange, c.Address, "%d does not fit a word", op.Value)
	}
	c.Emit16(uint16(op.Value))
	return nil
}

// reg8 is an 8-bit register field. With hl set, field value 6 is (HL).
func reg8(shift uint, hl bool) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			f := in.Opcode >> shift & 7
			if f == 6 {
				if !hl {
					return "", engine.Errorf(engine.UnknownInstruction, in.Address, "%s with register field 6", in.Entry.Mnemonic)
				}
				return "(HL)", nil
			}
			return registers.Format(engine.RegName(f)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			f := uint32(op.Reg)
			if op.Mode == ShapeInd {
				f = 6
			}
			c.Opcode |= f << shift
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			if op.Mode == ShapeReg {
				return isReg8(op.Reg)
			}
			return hl && op.Mode == ShapeInd && op.Reg == HL
		},
	}
}

func ldSource(f engine.ModeFuncs) engine.ModeFuncs {
	encode := f.Encode
	f.Encode = func(c *engine.Code, op *engine.Operand, slot int) error {
		if err := encode(c, op, slot); err != nil {
			return err
		}
		if c.Opcode&0x3F == 0x36 {
			return engine.Errorf(engine.OperandNotAllowed, c.Address, "LD (HL),(HL) is not an instruction")
		}
		return nil
	}
	return f
}

func pair(names [4]engine.RegName) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return registers.Format(names[in.Opcode>>4&3]), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			for i, r := range names {
				if r == op.Reg {
					c.Opcode |= uint32(i) << 4
					return nil
				}
			}
			return engine.Errorf(engine.OperandNotAllowed, c.Address, "%s is not a register pair here", op.Text)
		},
		Accept: func(op *engine.Operand) bool {
			if op.Mode != ShapeReg {
				return false
			}
			for _, r := range names {
				if r == op.Reg {
					return true
				}
			}
			return false
		},
	}
}

// cond is a condition field of count codes.
func cond(shift uint, count engine.RegName) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return Conditions.Format(engine.RegName(in.Opcode>>shift) & (count - 1)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			c.Opcode |= uint32(condOf(op)) << shift
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			cc := condOf(op)
			return cc != engine.RegNone && cc < count
		},
	}
}

// condOf reads a condition operand, taking register C as the carry condition.
func condOf(op *engine.Operand) engine.RegName {
	switch {
	case op.Mode == ShapeCond:
		return op.Reg
	case op.Mode == ShapeReg && op.Reg == C:
		return CY
	}
	return engine.RegNone
}

func interruptMode(n int64) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(*engine.Insn, int) (string, error) {
			return fmt.Sprintf("%d", n), nil
		},
		Encode: func(*engine.Code, *engine.Operand, int) error {
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeImm && !op.Undefined && op.Value == n
		},
	}
}

// indexed is (IX+d) or (IY+d): a signed displacement byte after the opcode.
func indexed(x engine.RegName) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			return formatIndexed(x, int8(b)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsSigned(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "index displacement %d is outside -128..127", op.Value)
			}
			c.Emit8(byte(op.Value))
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeIdx && op.Reg == x
		},
	}
}

func formatIndexed(x engine.RegName, d int8) string {
	sign := "+"
	v := int(d)
	if v < 0 {
		sign, v = "-", -v
	}
	return "(" + registers.Format(x) + sign + engine.Hex("$", uint32(v), 2) + ")"
}

// indexRegister is JP (IX): the index register as a plain pointer.
func indexRegister(x engine.RegName) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(*engine.Insn, int) (string, error) {
			return "(" + registers.Format(x) + ")", nil
		},
		Encode: func(*engine.Code, *engine.Operand, int) error {
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeIdx && op.Reg == x && op.Value == 0 && !op.Undefined
		},
	}
}

func fixed(want engine.Mode, reg engine.RegName) engine.ModeFuncs {
	text := registers.Format(reg)
	if want == ShapeInd {
		text = "(" + text + ")"
	}
	return engine.ModeFuncs{
		Decode: func(*engine.Insn, int) (string, error) {
			return text, nil
		},
		Encode: func(*engine.Code, *engine.Operand, int) error {
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			return op.Mode == want && op.Reg == reg
		},
	}
}
