package tms9900

import (
	"fmt"

	"github.com/Urethramancer/asmkit/engine"
)

// Operand shapes produced by the parser.
const (
	ShapeReg  engine.Mode = iota + 1 // Rn
	ShapeInd                         // *Rn
	ShapeInc                         // *Rn+
	ShapeSym                         // @addr
	ShapeIdx                         // @addr(Rn)
	ShapeExpr                        // bare expression: immediate, count or jump target
)

// Addressing-mode tags.
const (
	GenSrc engine.Mode = iota + 1 // general operand in bits 5-0
	GenDst                        // general operand in bits 11-6
	RegLow                        // register in bits 3-0
	RegDst                        // register in bits 9-6
	Imm16
	Disp8     // word-scaled jump displacement
	CruBit    // signed CRU bit displacement
	ShiftCnt  // bits 7-4, 0 takes the count from R0
	CruCount  // bits 9-6, 0 transfers 16 bits
	XopNumber // bits 9-6
	numModes
)

// General addressing T field values.
const (
	tReg = iota
	tInd
	tSym
	tInc
)

var modes = buildModes()

func buildModes() []engine.ModeFuncs {
	m := make([]engine.ModeFuncs, numModes)

	m[GenSrc] = general(0)
	m[GenDst] = general(6)

	m[RegLow] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return registers.Format(engine.RegName(in.Opcode & 0xF)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			c.Opcode |= uint32(op.Reg) & 0xF
			return nil
		},
		Accept: shape(ShapeReg),
	}
	m[RegDst] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return registers.Format(engine.RegName(in.Opcode >> 6 & 0xF)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			c.Opcode |= (uint32(op.Reg) & 0xF) << 6
			return nil
		},
		Accept: shape(ShapeReg),
	}

	m[Imm16] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			return hex(uint32(w)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsEither(op.Value, 16) {
				return engine.Errorf(engine.OverflowRange, c.Address, "%d does not fit a word", op.Value)
			}
			c.Emit16(uint16(op.Value))
			return nil
		},
		Accept: shape(ShapeExpr),
	}

	m[Disp8] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			target := in.Address + 2 + uint32(2*engine.SignExtend(in.Opcode, 8))
			target &= 0xFFFF
			in.SetTarget(target)
			return hex(target), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if op.Undefined {
				return nil
			}
			d := op.Value - int64(c.Address) - 2
			if d&1 != 0 {
				return engine.Errorf(engine.OverflowRange, c.Address, "jump to odd address %s", hex(uint32(op.Value)))
			}
			if !engine.FitsSigned(d/2, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "jump distance %d words is outside -128..127", d/2)
			}
			c.Opcode |= uint32(uint8(d / 2))
			return nil
		},
		Accept: shape(ShapeExpr),
	}

	m[CruBit] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return fmt.Sprintf("%d", engine.SignExtend(in.Opcode, 8)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsSigned(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "CRU displacement %d is outside -128..127", op.Value)
			}
			c.Opcode |= uint32(uint8(op.Value))
			return nil
		},
		Accept: shape(ShapeExpr),
	}

	m[ShiftCnt] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return fmt.Sprintf("%d", in.Opcode>>4&0xF), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 4) {
				return engine.Errorf(engine.OverflowRange, c.Address, "shift count %d is outside 0..15", op.Value)
			}
			c.Opcode |= (uint32(op.Value) & 0xF) << 4
			return nil
		},
		Accept: shape(ShapeExpr),
	}

	m[CruCount] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			n := in.Opcode >> 6 & 0xF
			if n == 0 {
				n = 16
			}
			return fmt.Sprintf("%d", n), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && (op.Value < 1 || op.Value > 16) {
				return engine.Errorf(engine.OverflowRange, c.Address, "CRU count %d is outside 1..16", op.Value)
			}
			c.Opcode |= (uint32(op.Value) & 0xF) << 6
			return nil
		},
		Accept: shape(ShapeExpr),
	}

	m[XopNumber] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return fmt.Sprintf("%d", in.Opcode>>6&0xF), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 4) {
				return engine.Errorf(engine.OverflowRange, c.Address, "XOP %d is outside 0..15", op.Value)
			}
			c.Opcode |= (uint32(op.Value) & 0xF) << 6
			return nil
		},
		Accept: shape(ShapeExpr),
	}

	return m
}

func shape(want engine.Mode) func(*engine.Operand) bool {
	return func(op *engine.Operand) bool {
		return op.Mode == want
	}
}

// general handles the six-bit T/register operand at the given shift.
func general(shift uint) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			f := in.Opcode >> shift
			t, reg := f>>4&3, engine.RegName(f&0xF)
			switch t {
			case tReg:
				return registers.Format(reg), nil
			case tInd:
				return "*" + registers.Format(reg), nil
			case tInc:
				return "*" + registers.Format(reg) + "+", nil
			}
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			if reg == R0 {
				if in.Entry.Flags&(engine.Jump|engine.Call) != 0 {
					in.SetTarget(uint32(w))
				}
				return "@" + hex(uint32(w)), nil
			}
			return "@" + hex(uint32(w)) + "(" + registers.Format(reg) + ")", nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			var t uint32
			reg := uint32(op.Reg) & 0xF
			switch op.Mode {
			case ShapeReg:
				t = tReg
			case ShapeInd:
				t = tInd
			case ShapeInc:
				t = tInc
			case ShapeSym, ShapeIdx:
				if op.Mode == ShapeIdx && op.Reg == R0 {
					return engine.Errorf(engine.OperandNotAllowed, c.Address, "r0 cannot index")
				}
				if !op.Undefined && !engine.FitsEither(op.Value, 16) {
					return engine.Errorf(engine.OverflowRange, c.Address, "address %d does not fit a word", op.Value)
				}
				if op.Mode == ShapeSym {
					reg = 0
				}
				t = tSym
				c.Emit16(uint16(op.Value))
			}
			c.Opcode |= (t<<4 | reg) << shift
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			return op.Mode >= ShapeReg && op.Mode <= ShapeIdx
		},
	}
}

func hex(v uint32) string {
	return engine.Hex(">", v, 4)
}
