package mc68000

import (
	"fmt"

	"github.com/Urethramancer/asmkit/engine"
)

// Operand shapes produced by the parser.
const (
	ShapeDn engine.Mode = iota + 1
	ShapeAn
	ShapeInd        // (An)
	ShapePostInc    // (An)+
	ShapePreDec     // -(An)
	ShapeDisp       // (d16,An)
	ShapeIndex      // (d8,An,Xn)
	ShapeAbsW       // $1234.w
	ShapeAbsL       // $123456.l
	ShapeAbs        // bare address or label; width chosen when encoding
	ShapePCDisp     // target(pc)
	ShapePCIndex    // target(pc,Xn)
	ShapePCDispRaw  // (d16,pc)
	ShapePCIndexRaw // (d8,pc,Xn)
	ShapeImm
	ShapeSR
	ShapeCCR
	ShapeUSP
)

// Addressing-mode tags used in the opcode table.
const (
	EaAll engine.Mode = iota + 1
	EaData
	EaDataAlt
	EaMemAlt
	EaControl
	EaAlt
	MoveDst // data alterable, register and mode fields swapped at bits 11-6
	DregLow
	DregHigh
	AregLow
	AregHigh
	PreDecLow
	PreDecHigh
	Quick3  // 1-8 in bits 11-9, 8 stored as 0
	Imm8    // signed byte in the opcode
	ImmSized
	Imm16
	ImmS16
	Vector4
	ImmBit
	Rel8
	Rel16
	RegSR
	RegCCR
	RegUSP
	numModes
)

var modes = buildModes()

func buildModes() []engine.ModeFuncs {
	m := make([]engine.ModeFuncs, numModes)

	m[EaAll] = eaMode(catAll, false)
	m[EaData] = eaMode(catData, false)
	m[EaDataAlt] = eaMode(catDataAlt, false)
	m[EaMemAlt] = eaMode(catMemAlt, false)
	m[EaControl] = eaMode(catControl, false)
	m[EaAlt] = eaMode(catAlt, false)
	m[MoveDst] = eaMode(catDataAlt, true)

	m[DregLow] = regMode(ShapeDn, 0, dreg)
	m[DregHigh] = regMode(ShapeDn, 9, dreg)
	m[AregLow] = regMode(ShapeAn, 0, areg)
	m[AregHigh] = regMode(ShapeAn, 9, areg)
	m[PreDecLow] = preDecMode(0)
	m[PreDecHigh] = preDecMode(9)

	m[Quick3] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			n := (in.Opcode >> 9) & 7
			if n == 0 {
				n = 8
			}
			return fmt.Sprintf("#%d", n), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			v := op.Value
			if op.Undefined {
				v = 8
			}
			if v < 1 || v > 8 {
				return engine.Errorf(engine.OverflowRange, c.Address, "quick value %d is not 1-8", v)
			}
			c.Opcode |= uint32(v&7) << 9
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Imm8] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return fmt.Sprintf("#%d", engine.SignExtend(in.Opcode, 8)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsEither(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "%d does not fit a byte", op.Value)
			}
			c.Opcode |= uint32(uint8(op.Value))
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[ImmSized] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return decodeImmediate(in, in.Entry.Size)
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			return encodeImmediate(c, op, c.Entry.Size)
		},
		Accept: shape(ShapeImm),
	}

	m[Imm16] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return decodeImmediate(in, engine.SizeWord)
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			return encodeImmediate(c, op, engine.SizeWord)
		},
		Accept: shape(ShapeImm),
	}

	m[ImmS16] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			return "#" + signedHex(int64(int16(w))), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsSigned(op.Value, 16) {
				return engine.Errorf(engine.OverflowRange, c.Address, "displacement %d does not fit a word", op.Value)
			}
			c.Emit16(uint16(op.Value))
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Vector4] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return fmt.Sprintf("#%d", in.Opcode&0xF), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 4) {
				return engine.Errorf(engine.OverflowRange, c.Address, "trap vector %d is not 0-15", op.Value)
			}
			c.Opcode |= uint32(op.Value) & 0xF
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[ImmBit] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			if w > 0xFF {
				return "", engine.Errorf(engine.UnknownInstruction, in.Address, "bit number word $%04X", w)
			}
			return fmt.Sprintf("#%d", w), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "bit number %d", op.Value)
			}
			c.Emit16(uint16(op.Value) & 0xFF)
			return nil
		},
		Accept: shape(ShapeImm),
	}

	m[Rel8] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			d := in.Opcode & 0xFF
			if d == 0xFF {
				return "", engine.Errorf(engine.UnknownInstruction, in.Address, "long branch needs a 68020")
			}
			target := in.Address + 2 + uint32(engine.SignExtend(d, 8))
			in.SetTarget(target)
			return address(target), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if op.Undefined {
				return engine.Errorf(engine.OverflowRange, c.Address, "short branch to unresolved %s", op.Text)
			}
			d := op.Value - int64(c.Address) - 2
			if d == 0 || d == -1 || !engine.FitsSigned(d, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "branch distance %d does not fit a short branch", d)
			}
			c.Opcode |= uint32(uint8(d))
			return nil
		},
		Accept: shape(ShapeAbs),
	}

	m[Rel16] = engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			target := in.Address + 2 + uint32(int32(int16(w)))
			in.SetTarget(target)
			return address(target), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			d := op.Value - int64(c.Address) - 2
			if op.Undefined {
				d = 0
			}
			if !engine.FitsSigned(d, 16) {
				return engine.Errorf(engine.OverflowRange, c.Address, "branch distance %d does not fit a word", d)
			}
			c.Emit16(uint16(d))
			return nil
		},
		Accept: shape(ShapeAbs),
	}

	m[RegSR] = fixedReg(ShapeSR, SR)
	m[RegCCR] = fixedReg(ShapeCCR, CCR)
	m[RegUSP] = fixedReg(ShapeUSP, USP)
	return m
}

func shape(want engine.Mode) func(*engine.Operand) bool {
	return func(op *engine.Operand) bool {
		return op.Mode == want
	}
}

func regMode(want engine.Mode, shift uint, reg func(uint32) engine.RegName) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return registers.Format(reg(in.Opcode >> shift)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			c.Opcode |= field(op.Reg) << shift
			return nil
		},
		Accept: shape(want),
	}
}

func preDecMode(shift uint) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return "-(" + registers.Format(areg(in.Opcode>>shift)) + ")", nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			c.Opcode |= field(op.Reg) << shift
			return nil
		},
		Accept: shape(ShapePreDec),
	}
}

func fixedReg(want engine.Mode, reg engine.RegName) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(*engine.Insn, int) (string, error) {
			return registers.Format(reg), nil
		},
		Encode: func(*engine.Code, *engine.Operand, int) error {
			return nil
		},
		Accept: shape(want),
	}
}
