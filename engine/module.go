package engine

import (
	"fmt"
	"strings"
)

// Module is one architecture with its active CPU variant. The variant is the
// only mutable state; use one Module per goroutine when variants differ.
type Module struct {
	arch *Arch
	cpu  CPU
}

// NewModule returns a module for a with its first CPU active.
func NewModule(a *Arch) *Module {
	return &Module{arch: a, cpu: a.CPUs[0]}
}

// Arch returns the architecture definition.
func (m *Module) Arch() *Arch {
	return m.arch
}

// CPU returns the name of the active variant.
func (m *Module) CPU() string {
	return m.cpu.Name
}

// Variants lists the CPU names the module accepts.
func (m *Module) Variants() []string {
	names := make([]string, len(m.arch.CPUs))
	for i, c := range m.arch.CPUs {
		names[i] = c.Name
	}
	return names
}

// SetVariant selects the active CPU by name, ignoring case.
func (m *Module) SetVariant(name string) error {
	for _, c := range m.arch.CPUs {
		if strings.EqualFold(c.Name, name) {
			m.cpu = c
			return nil
		}
	}
	return fmt.Errorf("unknown %s variant %q", m.arch.Family, name)
}

// Result is one decoded instruction.
type Result struct {
	Address   uint32
	Bytes     []byte
	Entry     *Entry
	Operands  []string
	Target    uint32
	HasTarget bool
	Text      string
}

// Len returns the instruction length in bytes.
func (r *Result) Len() int {
	return len(r.Bytes)
}

// DecodeOne decodes the instruction at addr.
func (m *Module) DecodeOne(mem Memory, addr uint32) (*Result, error) {
	a := m.arch
	in := newInsn(mem, addr, a.Order, a.MaxLength)

	lead, err := in.readUnit(a.OpcodeWidth)
	if err != nil {
		return nil, err
	}
	page, prefixed := a.Table.lookup(lead)
	op := lead
	if prefixed {
		in.Prefix, in.HasPrefix = lead, true
		op, err = in.readUnit(a.OpcodeWidth)
		if err != nil {
			return nil, err
		}
	}

	e := page.Search(op, m.cpu.Variant)
	if e == nil {
		return nil, Errorf(UnknownInstruction, addr, "opcode %s", m.opcodeText(in, op))
	}
	in.Entry, in.Opcode = e, op

	ops := make([]string, 0, MaxOperands)
	for slot, mode := range e.Modes[:e.Operands()] {
		f := m.dispatch(mode)
		if f.Decode == nil {
			return nil, Errorf(UnknownInstruction, addr, "%s: no decoder for mode %d", e.Mnemonic, mode)
		}
		text, err := f.Decode(in, slot)
		if err != nil {
			return nil, err
		}
		ops = append(ops, text)
	}

	return &Result{
		Address:   addr,
		Bytes:     append([]byte(nil), in.Bytes()...),
		Entry:     e,
		Operands:  ops,
		Target:    in.Target,
		HasTarget: in.HasTarget,
		Text:      a.Statement(e.Mnemonic, ops),
	}, nil
}

func (m *Module) opcodeText(in *Insn, op uint32) string {
	digits := m.arch.OpcodeWidth * 2
	if in.HasPrefix {
		return Hex(m.arch.HexPrefix, in.Prefix, digits) + " " + Hex(m.arch.HexPrefix, op, digits)
	}
	return Hex(m.arch.HexPrefix, op, digits)
}

func (m *Module) dispatch(mode Mode) ModeFuncs {
	if int(mode) < len(m.arch.Modes) {
		return m.arch.Modes[mode]
	}
	return ModeFuncs{}
}

// EncodeOne encodes mnemonic with already-parsed operands for an instruction at addr.
func (m *Module) EncodeOne(addr uint32, mnemonic string, ops []Operand) ([]byte, error) {
	return m.EncodeMin(addr, mnemonic, ops, 0)
}

// EncodeMin is EncodeOne restricted to encodings of at least min bytes. An
// assembler uses it to hold an instruction at a size it has already needed,
// so that sizing passes converge.
func (m *Module) EncodeMin(addr uint32, mnemonic string, ops []Operand, min int) ([]byte, error) {
	c, err := m.encode(addr, mnemonic, ops, min)
	if err != nil {
		return nil, err
	}
	return c.Bytes(), nil
}

func (m *Module) encode(addr uint32, mnemonic string, ops []Operand, min int) (*Code, error) {
	a := m.arch
	cands, known := a.Table.candidates(mnemonic, m.cpu.Variant)
	if !known {
		return nil, Errorf(UnknownInstruction, addr, "%s is not a %s instruction", strings.ToUpper(mnemonic), m.cpu.Name)
	}

	widest := false
	for i := range ops {
		if ops[i].Undefined {
			widest = true
		}
	}

	var best *Code
	var failure error
	shaped := false
	for _, cand := range cands {
		e := cand.entry
		if e.Operands() != len(ops) || !m.accepts(e, ops) {
			continue
		}
		shaped = true

		c := &Code{
			Address:   addr,
			Entry:     e,
			Opcode:    e.Opcode,
			Operands:  ops,
			prefix:    cand.page.Prefix,
			hasPrefix: cand.page.HasPrefix,
			width:     a.OpcodeWidth,
			order:     a.Order,
		}
		if err := m.encodeSlots(c); err != nil {
			if failure == nil || (KindOf(err) == OverflowRange && KindOf(failure) != OverflowRange) {
				failure = err
			}
			continue
		}
		if c.Offset() > a.MaxLength {
			failure = Errorf(OverflowRange, addr, "%s encodes to %d bytes", e.Mnemonic, c.Offset())
			continue
		}
		if c.Offset() < min {
			if failure == nil {
				failure = Errorf(OverflowRange, addr, "%s has no encoding of %d bytes or more", e.Mnemonic, min)
			}
			continue
		}

		switch {
		case best == nil:
			best = c
		case widest && c.Offset() > best.Offset():
			best = c
		case !widest && c.Offset() < best.Offset():
			best = c
		}
		if a.Policy == FirstFit {
			break
		}
	}

	if best != nil {
		return best, nil
	}
	if !shaped {
		return nil, Errorf(OperandNotAllowed, addr, "%s does not take %s", strings.ToUpper(mnemonic), describe(ops))
	}
	return nil, failure
}

func (m *Module) accepts(e *Entry, ops []Operand) bool {
	for i := range ops {
		f := m.dispatch(e.Modes[i])
		if f.Accept == nil || !f.Accept(&ops[i]) {
			return false
		}
	}
	return true
}

func (m *Module) encodeSlots(c *Code) error {
	for i := range c.Operands {
		f := m.dispatch(c.Entry.Modes[i])
		if f.Encode == nil {
			continue
		}
		if err := f.Encode(c, &c.Operands[i], i); err != nil {
			return err
		}
	}
	return nil
}

func describe(ops []Operand) string {
	if len(ops) == 0 {
		return "no operands"
	}
	texts := make([]string, len(ops))
	for i, op := range ops {
		texts[i] = op.Text
		if texts[i] == "" {
			texts[i] = fmt.Sprintf("mode %d", op.Mode)
		}
	}
	return strings.Join(texts, ",")
}

// ParseStatement splits and classifies a source statement using the
// architecture's syntax hooks.
func (m *Module) ParseStatement(stmt string, ev Evaluator) (string, []Operand, error) {
	if m.arch.Parse == nil {
		return "", nil, fmt.Errorf("%s has no operand syntax", m.arch.Family)
	}
	mnemonic, texts := m.arch.split(stmt)
	ops := make([]Operand, 0, len(texts))
	for _, t := range texts {
		op, err := m.arch.Parse(t, ev)
		if err != nil {
			return "", nil, err
		}
		if op.Text == "" {
			op.Text = t
		}
		ops = append(ops, op)
	}
	return mnemonic, ops, nil
}

// Assemble parses stmt and encodes it at addr.
func (m *Module) Assemble(addr uint32, stmt string, ev Evaluator) ([]byte, error) {
	mnemonic, ops, err := m.ParseStatement(stmt, ev)
	if err != nil {
		return nil, err
	}
	return m.EncodeOne(addr, mnemonic, ops)
}
