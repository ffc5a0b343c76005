package mc68000

import (
	"fmt"

	"github.com/Urethramancer/asmkit/engine"
)

// eaKind is one of the twelve effective-address forms, in mode/register order.
type eaKind uint8

const (
	kDn eaKind = iota
	kAn
	kInd
	kPostInc
	kPreDec
	kDisp
	kIndex
	kAbsW
	kAbsL
	kPCDisp
	kPCIndex
	kImm
)

// category is a set of eaKinds an instruction accepts.
type category uint16

func cat(kinds ...eaKind) category {
	var c category
	for _, k := range kinds {
		c |= 1 << k
	}
	return c
}

const catAll category = 1<<(kImm+1) - 1

var (
	catData    = catAll &^ cat(kAn)
	catAlt     = catAll &^ cat(kPCDisp, kPCIndex, kImm)
	catDataAlt = catAlt &^ cat(kAn)
	catMemAlt  = catDataAlt &^ cat(kDn)
	catControl = cat(kInd, kDisp, kIndex, kAbsW, kAbsL, kPCDisp, kPCIndex)
)

func (c category) has(k eaKind) bool {
	return c&(1<<k) != 0
}

// kindOf maps the mode and register fields to a form.
func kindOf(mode, reg uint32) (eaKind, bool) {
	if mode < 7 {
		return eaKind(mode), true
	}
	if reg <= 4 {
		return kAbsW + eaKind(reg), true
	}
	return 0, false
}

// shapeKind maps a parsed operand to the form it needs. Bare addresses
// report kAbsW; both absolute forms are in the same categories.
func shapeKind(op *engine.Operand) (eaKind, bool) {
	switch op.Mode {
	case ShapeDn:
		return kDn, true
	case ShapeAn:
		return kAn, true
	case ShapeInd:
		return kInd, true
	case ShapePostInc:
		return kPostInc, true
	case ShapePreDec:
		return kPreDec, true
	case ShapeDisp:
		return kDisp, true
	case ShapeIndex:
		return kIndex, true
	case ShapeAbsW, ShapeAbs:
		return kAbsW, true
	case ShapeAbsL:
		return kAbsL, true
	case ShapePCDisp, ShapePCDispRaw:
		return kPCDisp, true
	case ShapePCIndex, ShapePCIndexRaw:
		return kPCIndex, true
	case ShapeImm:
		return kImm, true
	}
	return 0, false
}

// eaMode builds the dispatch for a six-bit effective-address field, either in
// bits 5-0 (mode, register) or as a MOVE destination in bits 11-6 (register, mode).
func eaMode(c category, moveDst bool) engine.ModeFuncs {
	return engine.ModeFuncs{
		Decode: func(in *engine.Insn, _ int) (string, error) {
			mode, reg := (in.Opcode>>3)&7, in.Opcode&7
			if moveDst {
				mode, reg = (in.Opcode>>6)&7, (in.Opcode>>9)&7
			}
			return decodeEA(in, mode, reg, c)
		},
		Encode: func(code *engine.Code, op *engine.Operand, _ int) error {
			mode, reg, err := encodeEA(code, op)
			if err != nil {
				return err
			}
			if moveDst {
				code.Opcode |= reg<<9 | mode<<6
			} else {
				code.Opcode |= mode<<3 | reg
			}
			return nil
		},
		Accept: func(op *engine.Operand) bool {
			k, ok := shapeKind(op)
			return ok && c.has(k)
		},
	}
}

// decodeEA reads any extension words of the effective address and formats it.
func decodeEA(in *engine.Insn, mode, reg uint32, c category) (string, error) {
	k, ok := kindOf(mode, reg)
	if !ok || !c.has(k) {
		return "", engine.Errorf(engine.UnknownInstruction, in.Address, "%s: effective address mode %d register %d", in.Entry.Mnemonic, mode, reg)
	}

	an := registers.Format(areg(reg))
	switch k {
	case kDn:
		return registers.Format(dreg(reg)), nil
	case kAn:
		return an, nil
	case kInd:
		return "(" + an + ")", nil
	case kPostInc:
		return "(" + an + ")+", nil
	case kPreDec:
		return "-(" + an + ")", nil
	case kDisp:
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s,%s)", signedHex(int64(int16(w))), an), nil
	case kIndex:
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		d, x := decodeBriefExt(w)
		return fmt.Sprintf("(%s,%s,%s)", signedHex(int64(d)), an, x), nil
	case kAbsW:
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		markTarget(in, uint32(int32(int16(w))))
		return engine.Hex("$", uint32(w), 4) + ".w", nil
	case kAbsL:
		l, err := in.ReadUint32()
		if err != nil {
			return "", err
		}
		markTarget(in, l)
		return engine.Hex("$", l, 4) + ".l", nil
	case kPCDisp:
		base := in.Next()
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		target := base + uint32(int32(int16(w)))
		markTarget(in, target)
		return address(target) + "(pc)", nil
	case kPCIndex:
		base := in.Next()
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		d, x := decodeBriefExt(w)
		return fmt.Sprintf("%s(pc,%s)", address(base+uint32(int32(d))), x), nil
	default:
		return decodeImmediate(in, in.Entry.Size)
	}
}

// markTarget records absolute and PC-relative destinations of jumps and calls.
func markTarget(in *engine.Insn, addr uint32) {
	if in.Entry.Flags&(engine.Jump|engine.Call) != 0 {
		in.SetTarget(addr)
	}
}

// decodeBriefExt splits an index extension word into its displacement and index register text.
func decodeBriefExt(w uint16) (int8, string) {
	x := dreg(uint32(w >> 12))
	if w&0x8000 != 0 {
		x = areg(uint32(w >> 12))
	}
	size := ".w"
	if w&0x0800 != 0 {
		size = ".l"
	}
	return int8(w), registers.Format(x) + size
}

func encodeBriefExt(c *engine.Code, op *engine.Operand, disp int64) error {
	if !op.Undefined && !engine.FitsSigned(disp, 8) {
		return engine.Errorf(engine.OverflowRange, c.Address, "index displacement %d does not fit a byte", disp)
	}
	w := uint16(uint8(disp)) | uint16(field(op.Index))<<12
	if isAddr(op.Index) {
		w |= 0x8000
	}
	if op.IndexSize == engine.SizeLong {
		w |= 0x0800
	}
	c.Emit16(w)
	return nil
}

// encodeEA emits the extension words for op and returns its mode and register fields.
func encodeEA(c *engine.Code, op *engine.Operand) (mode, reg uint32, err error) {
	switch op.Mode {
	case ShapeDn:
		return 0, field(op.Reg), nil
	case ShapeAn:
		return 1, field(op.Reg), nil
	case ShapeInd:
		return 2, field(op.Reg), nil
	case ShapePostInc:
		return 3, field(op.Reg), nil
	case ShapePreDec:
		return 4, field(op.Reg), nil
	case ShapeDisp:
		if !op.Undefined && !engine.FitsSigned(op.Value, 16) {
			return 0, 0, engine.Errorf(engine.OverflowRange, c.Address, "displacement %d does not fit a word", op.Value)
		}
		c.Emit16(uint16(op.Value))
		return 5, field(op.Reg), nil
	case ShapeIndex:
		return 6, field(op.Reg), encodeBriefExt(c, op, op.Value)
	case ShapeAbsW:
		if !op.Undefined && !engine.FitsEither(op.Value, 16) {
			return 0, 0, engine.Errorf(engine.OverflowRange, c.Address, "address %s does not fit a word", engine.Hex("$", uint32(op.Value), 4))
		}
		c.Emit16(uint16(op.Value))
		return 7, 0, nil
	case ShapeAbs:
		if !op.Undefined && engine.FitsSigned(op.Value, 16) {
			c.Emit16(uint16(op.Value))
			return 7, 0, nil
		}
		c.Emit32(uint32(op.Value))
		return 7, 1, nil
	case ShapeAbsL:
		c.Emit32(uint32(op.Value))
		return 7, 1, nil
	case ShapePCDisp, ShapePCDispRaw:
		d := op.Value
		if op.Mode == ShapePCDisp {
			d -= int64(c.Address) + int64(c.Offset())
		}
		if op.Undefined {
			d = 0
		}
		if !engine.FitsSigned(d, 16) {
			return 0, 0, engine.Errorf(engine.OverflowRange, c.Address, "pc displacement %d does not fit a word", d)
		}
		c.Emit16(uint16(d))
		return 7, 2, nil
	case ShapePCIndex, ShapePCIndexRaw:
		d := op.Value
		if op.Mode == ShapePCIndex {
			d -= int64(c.Address) + int64(c.Offset())
		}
		if op.Undefined {
			d = 0
		}
		return 7, 3, encodeBriefExt(c, op, d)
	case ShapeImm:
		return 7, 4, encodeImmediate(c, op, c.Entry.Size)
	}
	return 0, 0, engine.Errorf(engine.OperandNotAllowed, c.Address, "%s is not an effective address", op.Text)
}

// decodeImmediate reads immediate data of the given size.
func decodeImmediate(in *engine.Insn, size engine.Size) (string, error) {
	switch size {
	case engine.SizeByte:
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		if hi := w >> 8; hi != 0x00 && hi != 0xFF {
			return "", engine.Errorf(engine.UnknownInstruction, in.Address, "byte immediate word $%04X", w)
		}
		return fmt.Sprintf("#%d", int8(w)), nil
	case engine.SizeLong:
		l, err := in.ReadUint32()
		if err != nil {
			return "", err
		}
		return "#" + engine.Hex("$", l, 8), nil
	default:
		w, err := in.ReadUint16()
		if err != nil {
			return "", err
		}
		if w <= 0xFF {
			return fmt.Sprintf("#%d", w), nil
		}
		return "#" + engine.Hex("$", uint32(w), 4), nil
	}
}

func encodeImmediate(c *engine.Code, op *engine.Operand, size engine.Size) error {
	v := op.Value
	switch size {
	case engine.SizeByte:
		if !op.Undefined && !engine.FitsEither(v, 8) {
			return engine.Errorf(engine.OverflowRange, c.Address, "immediate %d does not fit a byte", v)
		}
		c.Emit16(uint16(uint8(v)))
	case engine.SizeLong:
		if !op.Undefined && !engine.FitsEither(v, 32) {
			return engine.Errorf(engine.OverflowRange, c.Address, "immediate %d does not fit a long", v)
		}
		c.Emit32(uint32(v))
	default:
		if !op.Undefined && !engine.FitsEither(v, 16) {
			return engine.Errorf(engine.OverflowRange, c.Address, "immediate %d does not fit a word", v)
		}
		c.Emit16(uint16(v))
	}
	return nil
}

// signedHex formats small displacements in decimal and larger ones as signed hex.
func signedHex(v int64) string {
	if v >= -9 && v <= 9 {
		return fmt.Sprintf("%d", v)
	}
	if v < 0 {
		return "-" + engine.Hex("$", uint32(-v), 1)
	}
	return engine.Hex("$", uint32(v), 1)
}

func address(a uint32) string {
	return engine.Hex("$", a, 4)
}
