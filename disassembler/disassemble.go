// Package disassembler produces assembly listings from machine code for any
// instruction set in the engine.
package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// LabelType defines the context of a label.
type LabelType int

const (
	// JumpTarget is for a simple branch or jump.
	JumpTarget LabelType = iota
	// SubroutineEntry is for a call target.
	SubroutineEntry
)

// Options control a listing.
type Options struct {
	// Origin is the address of the first byte.
	Origin uint32
	// Entries are extra addresses execution can start from. The origin is
	// always one.
	Entries []uint32
	// Linear decodes everything in address order instead of following
	// control flow; only undecodable bytes become data.
	Linear bool
	// NoLabels keeps raw target addresses in operands.
	NoLabels bool
	// Bytes adds an address and hex byte column.
	Bytes bool
}

// Instruction represents a single decoded instruction at a specific address.
type Instruction struct {
	*engine.Result
	IsCode bool // reachable code
}

// Listing is the analysed form of a block of machine code.
type Listing struct {
	module       *engine.Module
	code         []byte
	opts         Options
	instructions map[uint32]*Instruction
	labels       map[uint32]LabelType
}

// Disassemble performs the three-stage disassembly and renders it.
func Disassemble(m *engine.Module, code []byte, opts Options) (string, error) {
	l := Analyse(m, code, opts)
	return l.String(), nil
}

// Analyse decodes and traces code without rendering it.
func Analyse(m *engine.Module, code []byte, opts Options) *Listing {
	l := &Listing{
		module:       m,
		code:         code,
		opts:         opts,
		instructions: make(map[uint32]*Instruction),
		labels:       make(map[uint32]LabelType),
	}
	if len(code) == 0 {
		return l
	}

	l.sweep()
	if opts.Linear {
		l.linear()
	} else {
		l.trace()
	}
	l.dropLabels()
	return l
}

// dropLabels forgets targets that did not turn out to start code. String
// only prints labels in front of instructions, so such operands keep their
// address.
func (l *Listing) dropLabels() {
	for addr := range l.labels {
		if !l.isCode(addr) {
			delete(l.labels, addr)
		}
	}
}

// end returns the address after the last byte.
func (l *Listing) end() uint32 {
	return l.opts.Origin + uint32(len(l.code))
}

func (l *Listing) contains(addr uint32) bool {
	return addr >= l.opts.Origin && addr < l.end()
}

// sweep decodes an instruction at every opcode-aligned address, so any
// address control flow reaches already has its decoding.
func (l *Listing) sweep() {
	mem := engine.Bytes{Origin: l.opts.Origin, Data: l.code}
	step := uint32(l.module.Arch().OpcodeWidth)
	for addr := l.opts.Origin; l.contains(addr); addr += step {
		r, err := l.module.DecodeOne(mem, addr)
		if err != nil {
			continue
		}
		l.instructions[addr] = &Instruction{Result: r}
	}
}

// linear marks instructions in address order, skipping one unit past each
// undecodable one.
func (l *Listing) linear() {
	step := uint32(l.module.Arch().OpcodeWidth)
	for addr := l.opts.Origin; l.contains(addr); {
		inst, ok := l.instructions[addr]
		if !ok {
			addr += step
			continue
		}
		inst.IsCode = true
		l.addTarget(inst)
		addr += uint32(inst.Len())
	}
}

// trace follows control flow from the entry points.
func (l *Listing) trace() {
	q := newQueue(l.module.Arch().OpcodeWidth)
	q.push(l.opts.Origin)
	for _, e := range l.opts.Entries {
		q.push(e)
	}

	for {
		addr, ok := q.pop()
		if !ok {
			break
		}

		inst, exists := l.instructions[addr]
		if !exists || inst.IsCode {
			continue
		}
		inst.IsCode = true

		if !isTerminal(inst.Entry.Flags) {
			q.push(addr + uint32(inst.Len()))
		}
		if l.addTarget(inst) {
			q.push(inst.Target)
		}
	}
}

// addTarget records a label for the instruction's branch or call target
// and reports whether the target lies in the listing.
func (l *Listing) addTarget(inst *Instruction) bool {
	if !inst.HasTarget || !l.contains(inst.Target) {
		return false
	}
	if inst.Entry.Flags&engine.Call != 0 {
		l.labels[inst.Target] = SubroutineEntry
	} else if _, exists := l.labels[inst.Target]; !exists {
		l.labels[inst.Target] = JumpTarget
	}
	return true
}

// isTerminal checks if an instruction unconditionally stops linear execution.
func isTerminal(f engine.Flags) bool {
	return f&(engine.Jump|engine.Return) != 0
}

// Code returns the instructions found to be code, in address order.
func (l *Listing) Code() []*Instruction {
	var list []*Instruction
	for addr := l.opts.Origin; l.contains(addr); addr++ {
		if inst, ok := l.instructions[addr]; ok && inst.IsCode {
			list = append(list, inst)
			addr += uint32(inst.Len()) - 1
		}
	}
	return list
}

// Labels returns the synthesised label names by address.
func (l *Listing) Labels() map[uint32]string {
	names := make(map[uint32]string, len(l.labels))
	for addr, t := range l.labels {
		names[addr] = labelName(addr, t)
	}
	return names
}

func (l *Listing) isCode(addr uint32) bool {
	inst, ok := l.instructions[addr]
	return ok && inst.IsCode
}

// String renders the listing.
func (l *Listing) String() string {
	var out strings.Builder
	stringCounter := 1
	pc := l.opts.Origin

	for l.contains(pc) {
		// If the current address is not marked as code, find the end of the
		// data block and pass it to the data analyzer.
		if !l.isCode(pc) {
			dataEnd := pc
			for l.contains(dataEnd) && !l.isCode(dataEnd) {
				dataEnd++
			}
			l.writeData(&out, pc, dataEnd, &stringCounter)
			pc = dataEnd
			continue
		}

		if labelType, exists := l.labels[pc]; exists && !l.opts.NoLabels {
			fmt.Fprintf(&out, "%s:\n", labelName(pc, labelType))
		}

		inst := l.instructions[pc]
		l.writeLine(&out, pc, inst.Bytes, l.statement(inst))
		pc += uint32(inst.Len())
	}

	return out.String()
}

// statement returns the instruction text with its target replaced by a label.
func (l *Listing) statement(inst *Instruction) string {
	if l.opts.NoLabels || !inst.HasTarget {
		return inst.Text
	}
	labelType, exists := l.labels[inst.Target]
	if !exists {
		return inst.Text
	}

	a := l.module.Arch()
	ops := make([]string, len(inst.Operands))
	copy(ops, inst.Operands)
	for i, op := range ops {
		if s, ok := replaceAddress(op, a.HexPrefix, inst.Target, labelName(inst.Target, labelType)); ok {
			ops[i] = s
			return a.Statement(inst.Entry.Mnemonic, ops)
		}
	}
	return inst.Text
}

// writeLine writes one statement, with the address and bytes when asked.
func (l *Listing) writeLine(out *strings.Builder, addr uint32, data []byte, text string) {
	if !l.opts.Bytes {
		fmt.Fprintf(out, "    %s\n", text)
		return
	}
	width := l.module.Arch().MaxLength*3 - 1
	fmt.Fprintf(out, "%04X  %-*s    %s\n", addr, width, fmt.Sprintf("% X", data), text)
}
