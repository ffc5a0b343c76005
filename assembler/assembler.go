// Package assembler turns source text into machine code for any instruction
// set in the engine: labels, directives and a size fixed point, with the
// instructions themselves encoded by the module.
package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// maxPasses bounds the sizing loop. Sizes only settle from wide to narrow,
// so a real program converges in a handful of passes.
const maxPasses = 16

// Assembler holds the state for the assembly process.
type Assembler struct {
	module  *engine.Module
	symbols map[string]int64
}

// New creates an assembler for the module's instruction set and active CPU.
func New(m *engine.Module) *Assembler {
	return &Assembler{
		module:  m,
		symbols: make(map[string]int64),
	}
}

// Symbols returns the labels and equates from the last assembly, with
// lowercase names.
func (asm *Assembler) Symbols() map[string]int64 {
	return asm.symbols
}

// Assemble takes source code and returns the machine code, placing the first
// statement at origin.
func (asm *Assembler) Assemble(src string, origin uint32) ([]byte, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	nodes, err := asm.parseLines(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}

	asm.symbols = make(map[string]int64)
	ev := &Evaluator{Symbols: asm.symbols, Lenient: true}

	// Pass: resolve label addresses and node sizes until stable.
	stable := false
	for pass := 0; pass < maxPasses && !stable; pass++ {
		stable = true
		ev.PC = origin
		for _, n := range nodes {
			changed, err := asm.size(n, ev)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			if changed {
				stable = false
			}
		}
	}
	if !stable {
		return nil, fmt.Errorf("sizes did not settle after %d passes", maxPasses)
	}

	// Generate machine code.
	var code []byte
	ev.PC, ev.Lenient = origin, false
	for _, n := range nodes {
		var out []byte
		var err error

		switch n.Type {
		case NodeLabel:
			continue
		case NodeDirective:
			out, err = asm.generateDirectiveCode(n, ev)
		case NodeInstruction:
			out, err = asm.encode(n, ev)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		if uint32(len(out)) != n.Size {
			return nil, fmt.Errorf("line %d: %s changed size from %d to %d bytes", n.Line, n.Text, n.Size, len(out))
		}
		code = append(code, out...)
		ev.PC += n.Size
	}

	return code, nil
}

// size assigns a label its address, or works out how many bytes a node
// takes at the current address, and reports whether anything moved.
func (asm *Assembler) size(n *Node, ev *Evaluator) (bool, error) {
	switch n.Type {
	case NodeLabel:
		if addr, ok := asm.symbols[n.Label]; ok && addr == int64(ev.PC) {
			return false, nil
		}
		asm.symbols[n.Label] = int64(ev.PC)
		return true, nil

	case NodeDirective:
		if n.Parts[0] == "equ" {
			return asm.equate(n, ev)
		}
		oldSize := n.Size
		size, err := asm.getDirectiveSize(n, ev)
		if err != nil {
			return false, err
		}
		n.Size = size
		ev.PC += size
		return oldSize != size, nil

	default:
		code, err := asm.encode(n, ev)
		if err != nil {
			return false, err
		}
		oldSize := n.Size
		n.Size = uint32(len(code))
		if oldSize != 0 && n.Size > oldSize {
			// Growing after a shrink can repeat forever; stay at this size.
			n.Min = n.Size
		}
		ev.PC += n.Size
		return oldSize != n.Size, nil
	}
}

// encode assembles an instruction node at the current address.
func (asm *Assembler) encode(n *Node, ev *Evaluator) ([]byte, error) {
	mnemonic, ops, err := asm.module.ParseStatement(n.Text, ev)
	if err != nil {
		return nil, err
	}
	return asm.module.EncodeMin(ev.PC, mnemonic, ops, int(n.Min))
}

// equate evaluates an equ, leaving the name undefined until its value is.
func (asm *Assembler) equate(n *Node, ev *Evaluator) (bool, error) {
	v, err := ev.Eval(n.Parts[1])
	if err != nil || v.Undefined {
		return false, err
	}
	if old, ok := asm.symbols[n.Label]; ok && old == v.Int {
		return false, nil
	}
	asm.symbols[n.Label] = v.Int
	return true, nil
}

// parseLines converts raw source lines into a slice of Node objects.
func (asm *Assembler) parseLines(lines []string) ([]*Node, error) {
	var nodes []*Node
	seen := make(map[string]int)
	define := func(name string, line int) error {
		name = strings.ToLower(name)
		if first, ok := seen[name]; ok {
			return fmt.Errorf("line %d: %s already defined on line %d", line, name, first)
		}
		seen[name] = line
		return nil
	}

	for i, line := range lines {
		line = strings.TrimSpace(stripComment(line))
		if line == "" || strings.HasPrefix(line, "*") {
			continue
		}

		label := ""
		if colon := strings.IndexByte(line, ':'); colon > 0 {
			name := strings.TrimSpace(line[:colon])
			if isSymbol(name) {
				label = strings.ToLower(name)
				line = strings.TrimSpace(line[colon+1:])
			}
		}

		mnemonic, operands := splitFirst(line)
		name, rest := splitFirst(operands)
		if label == "" && isEqu(name) && isSymbol(mnemonic) {
			// "name equ value"
			label, mnemonic, operands = strings.ToLower(mnemonic), name, rest
		}

		if isEqu(mnemonic) {
			if label == "" {
				return nil, fmt.Errorf("line %d: equ without a name", i+1)
			}
			if err := define(label, i+1); err != nil {
				return nil, err
			}
			nodes = append(nodes, &Node{Type: NodeDirective, Line: i + 1, Label: label, Parts: []string{"equ", operands}})
			continue
		}

		if label != "" {
			if err := define(label, i+1); err != nil {
				return nil, err
			}
			nodes = append(nodes, &Node{Type: NodeLabel, Line: i + 1, Label: label})
		}
		if mnemonic == "" {
			continue
		}

		if dir := directiveName(mnemonic); dir != "" {
			nodes = append(nodes, &Node{Type: NodeDirective, Line: i + 1, Parts: []string{dir, operands}})
			continue
		}
		nodes = append(nodes, &Node{Type: NodeInstruction, Line: i + 1, Text: line})
	}
	return nodes, nil
}

// stripComment cuts a line at the first ';' outside a closed quote.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			if inQuote {
				inQuote = false
			} else if strings.IndexByte(line[i+1:], '\'') >= 0 {
				inQuote = true
			}
		case ';':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}

func splitFirst(s string) (string, string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

func isEqu(s string) bool {
	return s == "=" || strings.EqualFold(strings.TrimPrefix(s, "."), "equ")
}
