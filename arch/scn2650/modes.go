package scn2650

import "github.com/Urethramancer/asmkit/engine"

// Operand shapes produced by the parser.
const (
	ShapeReg engine.Mode = iota + 1
	ShapeCond
	ShapeAddr // expression with optional *, index register and +/-
)

// Addressing-mode tags.
const (
	Reg       engine.Mode = iota + 1
	RegNotR0              // register field where 0 would be another instruction
	RegA                  // register field shared with the index of an absolute operand
	Cond
	CondNotUN
	CondUN
	Imm8
	Rel7  // page-relative, bit 7 indirect
	ZRel7 // relative to page zero
	Abs13 // in-page absolute with index control
	Abs15 // branch absolute
	AbsX15
	numModes
)

// Memory is 32 KiB in four 8 KiB pages; only absolute branches change page.
var paging = engine.Paging{OffsetBits: 13}

const (
	indirectBit  = 0x8000
	relIndirect  = 0x80
	indexShift   = 13
	indexNone    = 0
	indexInc     = 1
	indexDec     = 2
	indexPlain   = 3
	stateIndexed = 0x100
)

var modes = buildModes()

func buildModes() []engine.ModeFuncs {
	m := make([]engine.ModeFuncs, numModes)

	m[Reg] = engine.ModeFuncs{
		Decode: decodeReg,
		Encode: encodeReg,
		Accept: isReg,
	}
	m[RegNotR0] = engine.ModeFuncs{
		Decode: decodeReg,
		Encode: encodeReg,
		Accept: func(op *engine.Operand) bool {
			return isReg(op) && op.Reg != R0
		},
	}
	m[RegA] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			hi, err := in.Peek(0)
			if err != nil {
				return "", err
			}
			if (hi>>5)&3 != indexNone {
				in.State = stateIndexed | in.Opcode&3
				return registers.Format(R0), nil
			}
			return decodeReg(in, 0)
		},
		Encode: encodeReg,
		Accept: isReg,
	}

	m[Cond] = engine.ModeFuncs{
		Decode: decodeCond,
		Encode: encodeCond,
		Accept: isCond,
	}
	m[CondNotUN] = engine.ModeFuncs{
		Decode: decodeCond,
		Encode: encodeCond,
		Accept: func(op *engine.Operand) bool {
			return isCond(op) && op.Reg != UN
		},
	}
	m[CondUN] = engine.ModeFuncs{
		Decode: func(*engine.Insn, int) (string, error) {
			return Conditions.Format(UN), nil
		},
		Encode: func(*engine.Code, *engine.Operand, int) error {
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			return isCond(op) && op.Reg == UN
		},
	}

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
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeAddr && !op.Indirect && op.Index == engine.RegNone
		},
	}

	m[Rel7] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			next := paging.Add(in.Address, 2)
			target := paging.Add(next, engine.SignExtend(uint32(b), 7))
			return formatTarget(in, target, b&relIndirect != 0), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			next := paging.Add(c.Address, 2)
			return encodeRel(c, op, next)
		},
		Accept: relative,
	}

	m[ZRel7] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			target := paging.Add(0, engine.SignExtend(uint32(b), 7))
			return formatTarget(in, target, b&relIndirect != 0), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			return encodeRel(c, op, 0)
		},
		Accept: relative,
	}

	m[Abs13] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			target := paging.Page(in.Address) | uint32(w)&0x1FFF
			text := formatTarget(in, target, w&indirectBit != 0)
			ctl := (w >> indexShift) & 3
			if ctl == indexNone {
				return text, nil
			}
			text += "," + registers.Format(engine.RegName(in.State&3))
			switch ctl {
			case indexInc:
				text += ",+"
			case indexDec:
				text += ",-"
			}
			return text, nil
		},
		Encode: encodeAbs13,
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeAddr
		},
	}

	m[Abs15] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			return formatTarget(in, uint32(w)&0x7FFF, w&indirectBit != 0), nil
		},
		Encode: encodeAbs15,
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeAddr && op.Index == engine.RegNone
		},
	}

	m[AbsX15] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			text := engine.Hex("$", uint32(w)&0x7FFF, 4)
			if w&indirectBit != 0 {
				text = "*" + text
			}
			return text + "," + registers.Format(R3), nil
		},
		Encode: encodeAbs15,
		Accept: func(op *engine.Operand) bool {
			return op.Mode == ShapeAddr && op.Index == R3 && op.Inc == 0
		},
	}

	return m
}

func isReg(op *engine.Operand) bool {
	return op.Mode == ShapeReg
}

func isCond(op *engine.Operand) bool {
	return op.Mode == ShapeCond
}

func relative(op *engine.Operand) bool {
	return op.Mode == ShapeAddr && op.Index == engine.RegNone
}

func decodeReg(in *engine.Insn, _ int) (string, error) {
	return registers.Format(engine.RegName(in.Opcode & 3)), nil
}

func encodeReg(c *engine.Code, op *engine.Operand, _ int) error {
	c.Opcode |= uint32(op.Reg) & 3
	return nil
}

func decodeCond(in *engine.Insn, _ int) (string, error) {
	return Conditions.Format(engine.RegName(in.Opcode & 3)), nil
}

func encodeCond(c *engine.Code, op *engine.Operand, _ int) error {
	c.Opcode |= uint32(op.Reg) & 3
	return nil
}

// formatTarget renders an address operand and records direct branch targets.
func formatTarget(in *engine.Insn, target uint32, indirect bool) string {
	text := engine.Hex("$", target, 4)
	if indirect {
		return "*" + text
	}
	if in.Entry.Flags != 0 {
		in.SetTarget(target)
	}
	return text
}

func encodeRel(c *engine.Code, op *engine.Operand, base uint32) error {
	var b byte
	if op.Indirect {
		b = relIndirect
	}
	if op.Undefined {
		c.Emit8(b)
		return nil
	}
	d, err := paging.Delta(base, uint32(op.Value))
	if err != nil {
		return engine.Errorf(engine.OverflowRange, c.Address, "relative %v", err)
	}
	if !engine.FitsSigned(int64(d), 7) {
		return engine.Errorf(engine.OverflowRange, c.Address, "relative distance %d is outside -64..63", d)
	}
	c.Emit8(b | byte(d)&0x7F)
	return nil
}

func encodeAbs13(c *engine.Code, op *engine.Operand, _ int) error {
	v := uint32(op.Value)
	if !op.Undefined && (op.Value < 0 || paging.Page(v) != paging.Page(c.Address)) {
		return engine.Errorf(engine.OverflowRange, c.Address, "%s is outside page %s", engine.Hex("$", v, 4), engine.Hex("$", paging.Page(c.Address), 4))
	}
	w := uint16(v & 0x1FFF)
	if op.Indirect {
		w |= indirectBit
	}
	if op.Index != engine.RegNone {
		if c.Opcode&3 != uint32(R0) {
			return engine.Errorf(engine.OperandNotAllowed, c.Address, "indexed operand needs r0, not %s", registers.Format(engine.RegName(c.Opcode&3)))
		}
		ctl := uint16(indexPlain)
		switch op.Inc {
		case 1:
			ctl = indexInc
		case -1:
			ctl = indexDec
		}
		w |= ctl << indexShift
		c.Opcode |= uint32(op.Index) & 3
	}
	c.Emit16(w)
	return nil
}

func encodeAbs15(c *engine.Code, op *engine.Operand, _ int) error {
	if !op.Undefined && !engine.FitsUnsigned(op.Value, 15) {
		return engine.Errorf(engine.OverflowRange, c.Address, "%d is outside the 32K address space", op.Value)
	}
	w := uint16(op.Value) & 0x7FFF
	if op.Indirect {
		w |= indirectBit
	}
	c.Emit16(w)
	return nil
}
