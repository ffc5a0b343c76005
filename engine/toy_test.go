package engine_test

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// A small 8-bit instruction set exercising every engine path: operand
// fields in the opcode, extension bytes, a prefix page, two encodings of
// one mnemonic and a variant-only entry.

const (
	modeReg engine.Mode = iota + 1
	modeImm8
	modeAbs16
	modeRel8
)

const (
	shapeReg engine.Mode = iota + 1
	shapeNum
)

const (
	cpuA engine.Variant = 1 << iota
	cpuB
)

var toyRegs = engine.NewRegisters(
	engine.RegEntry{Name: 0, Text: "r0"},
	engine.RegEntry{Name: 1, Text: "r1"},
	engine.RegEntry{Name: 2, Text: "r2"},
	engine.RegEntry{Name: 3, Text: "r3"},
)

var toyModes = []engine.ModeFuncs{
	modeReg: {
		Decode: func(in *engine.Insn, _ int) (string, error) {
			return toyRegs.Format(engine.RegName(in.Opcode & 3)), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			c.Opcode |= uint32(op.Reg)
			return nil
		},
		Accept: func(op *engine.Operand) bool { return op.Mode == shapeReg },
	},
	modeImm8: {
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			return engine.Hex("$", uint32(b), 2), err
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsEither(op.Value, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "%d", op.Value)
			}
			c.Emit8(byte(op.Value))
			return nil
		},
		Accept: func(op *engine.Operand) bool { return op.Mode == shapeNum },
	},
	modeAbs16: {
		Decode: func(in *engine.Insn, _ int) (string, error) {
			w, err := in.ReadUint16()
			if err != nil {
				return "", err
			}
			if in.Entry.Flags != 0 {
				in.SetTarget(uint32(w))
			}
			return engine.Hex("$", uint32(w), 4), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			if !op.Undefined && !engine.FitsUnsigned(op.Value, 16) {
				return engine.Errorf(engine.OverflowRange, c.Address, "%d", op.Value)
			}
			c.Emit16(uint16(op.Value))
			return nil
		},
		Accept: func(op *engine.Operand) bool { return op.Mode == shapeNum },
	},
	modeRel8: {
		Decode: func(in *engine.Insn, _ int) (string, error) {
			b, err := in.ReadByte()
			if err != nil {
				return "", err
			}
			target := in.Next() + uint32(engine.SignExtend(uint32(b), 8))
			in.SetTarget(target)
			return engine.Hex("$", target, 4), nil
		},
		Encode: func(c *engine.Code, op *engine.Operand, _ int) error {
			d := op.Value - int64(c.Address) - 2
			if op.Undefined {
				d = 0
			}
			if !engine.FitsSigned(d, 8) {
				return engine.Errorf(engine.OverflowRange, c.Address, "distance %d", d)
			}
			c.Emit8(byte(d))
			return nil
		},
		Accept: func(op *engine.Operand) bool { return op.Mode == shapeNum },
	},
}

func toyTable() *engine.Table {
	return engine.NewTable(
		engine.Primary(
			engine.E(0x00, 0, "nop"),
			engine.E(0x10, 0x03, "ld", modeReg, modeImm8),
			engine.E(0x20, 0, "jmp", modeAbs16).With(engine.Jump),
			engine.E(0x30, 0, "go", modeRel8).With(engine.Jump),
			engine.E(0x31, 0, "go", modeAbs16).With(engine.Jump),
			engine.E(0x40, 0, "new").On(cpuB),
			engine.E(0x41, 0, "old").On(cpuA),
			engine.E(0xC9, 0, "ret").With(engine.Return),
		),
		engine.Prefixed(0xED,
			engine.E(0x01, 0, "ext", modeImm8),
		),
	)
}

func toyArch(t *engine.Table, policy engine.Policy) *engine.Arch {
	return &engine.Arch{
		Family:      "toy",
		CPUs:        []engine.CPU{{Name: "A", Variant: cpuA}, {Name: "B", Variant: cpuB}},
		Table:       t,
		Registers:   toyRegs,
		Modes:       toyModes,
		OpcodeWidth: 1,
		Order:       binary.LittleEndian,
		MaxLength:   3,
		Policy:      policy,
		HexPrefix:   "$",
		DataByte:    "db",
		Parse:       toyParse,
	}
}

var toy = toyArch(toyTable(), engine.Narrowest)

func toyParse(text string, ev engine.Evaluator) (engine.Operand, error) {
	op := engine.Operand{Reg: engine.RegNone, Index: engine.RegNone}
	if r, ok := toyRegs.ParseExact(text); ok {
		op.Mode, op.Reg = shapeReg, r
		return op, nil
	}
	v, err := ev.Eval(text)
	op.Mode, op.Value, op.Undefined = shapeNum, v.Int, v.Undefined
	return op, err
}

// symbols evaluates numbers and names; unknown names are forward references.
type symbols map[string]int64

func (s symbols) Eval(expr string) (engine.Value, error) {
	expr = strings.TrimSpace(expr)
	if v, ok := s[expr]; ok {
		return engine.Value{Int: v}, nil
	}
	if strings.HasPrefix(expr, "$") {
		expr = "0x" + expr[1:]
	}
	if v, err := strconv.ParseInt(expr, 0, 64); err == nil {
		return engine.Value{Int: v}, nil
	}
	if expr != "" && !strings.ContainsAny(expr[:1], "0123456789") {
		return engine.Value{Undefined: true}, nil
	}
	return engine.Value{}, engine.Errorf(engine.IllegalConstant, 0, "bad number %q", expr)
}

func num(v int64) engine.Operand {
	return engine.Operand{Mode: shapeNum, Value: v, Reg: engine.RegNone, Index: engine.RegNone}
}

func reg(r engine.RegName) engine.Operand {
	return engine.Operand{Mode: shapeReg, Reg: r, Index: engine.RegNone}
}

func undefined() engine.Operand {
	op := num(0)
	op.Undefined = true
	return op
}
