package assembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// directiveName normalises a directive and its aliases to the dc/ds
// spelling, or returns "" when s is not a directive.
func directiveName(s string) string {
	dir := strings.TrimPrefix(strings.ToLower(s), ".")
	switch dir {
	case "org", "even", "dc.b", "dc.w", "dc.l", "ds.b", "ds.w", "ds.l":
		return dir
	case "db", "defb", "byte":
		return "dc.b"
	case "dw", "defw", "word", "data":
		return "dc.w"
	case "ds", "defs", "bss":
		return "ds.b"
	}
	return ""
}

// getDirectiveSize calculates the byte size of a directive for the sizing
// pass. org also moves the address.
func (asm *Assembler) getDirectiveSize(n *Node, ev *Evaluator) (uint32, error) {
	dir, args := n.Parts[0], n.Parts[1]

	switch dir {
	case "org":
		addr, err := asm.constant(dir, args, ev)
		if err != nil {
			return 0, err
		}
		ev.PC = uint32(addr)
		return 0, nil

	case "even":
		// if current pc is odd, .even emits one padding byte
		return ev.PC % 2, nil

	case "dc.b", "dc.w", "dc.l":
		if args == "" {
			return 0, fmt.Errorf("%s requires at least one value", dir)
		}
		return asm.align(asm.calculateDcSize(dir, args)), nil

	case "ds.b", "ds.w", "ds.l":
		count, err := asm.constant(dir, args, ev)
		if err != nil {
			return 0, err
		}
		if count < 0 {
			return 0, engine.Errorf(engine.IllegalConstant, ev.PC, "negative count for %s", dir)
		}
		return asm.align(uint32(count) * getElementSize(dir)), nil

	default:
		return 0, fmt.Errorf("unknown directive: %s", dir)
	}
}

// generateDirectiveCode generates the binary data for assembler directives.
func (asm *Assembler) generateDirectiveCode(n *Node, ev *Evaluator) ([]byte, error) {
	dir, args := n.Parts[0], n.Parts[1]

	switch dir {
	case "equ":
		_, err := asm.equate(n, ev)
		return nil, err

	case "org":
		addr, err := asm.constant(dir, args, ev)
		if err != nil {
			return nil, err
		}
		ev.PC = uint32(addr)
		return nil, nil

	case "even":
		return make([]byte, n.Size), nil

	case "dc.b", "dc.w", "dc.l":
		data, err := asm.assembleDc(dir, args, ev)
		if err != nil {
			return nil, err
		}
		return append(data, make([]byte, int(n.Size)-len(data))...), nil

	case "ds.b", "ds.w", "ds.l":
		return make([]byte, n.Size), nil

	default:
		return nil, fmt.Errorf("unknown directive: %s", dir)
	}
}

// constant evaluates a directive argument that must be known in every pass.
func (asm *Assembler) constant(dir, args string, ev *Evaluator) (int64, error) {
	if args == "" {
		return 0, fmt.Errorf("%s requires a single argument", dir)
	}
	v, err := ev.Eval(args)
	if err != nil {
		return 0, err
	}
	if v.Undefined {
		return 0, engine.Errorf(engine.IllegalConstant, ev.PC, "%s needs a value defined before use: %s", dir, args)
	}
	return v.Int, nil
}

// align pads data sizes to the opcode width, so instructions following
// data stay on word boundaries where the processor needs them.
func (asm *Assembler) align(size uint32) uint32 {
	w := uint32(asm.module.Arch().OpcodeWidth)
	return (size + w - 1) / w * w
}

// calculateDcSize determines the byte size of a dc directive's data.
func (asm *Assembler) calculateDcSize(directive, values string) uint32 {
	elementSize := getElementSize(directive)
	var size uint32
	for _, tok := range splitDcValues(values) {
		if tok.Quoted {
			size += uint32(len(tok.Value))
		} else {
			size += elementSize
		}
	}
	return size
}

// assembleDc generates the data for dc.b/dc.w/dc.l in the processor's byte
// order. Strings are written as they appear.
func (asm *Assembler) assembleDc(directive, values string, ev *Evaluator) ([]byte, error) {
	order := asm.module.Arch().Order
	elementSize := getElementSize(directive)
	var buf []byte

	for _, tok := range splitDcValues(values) {
		if tok.Quoted {
			buf = append(buf, tok.Value...)
			continue
		}

		v, err := ev.Eval(tok.Value)
		if err != nil {
			return nil, err
		}
		if !engine.FitsEither(v.Int, uint(elementSize*8)) {
			return nil, engine.Errorf(engine.OverflowRange, ev.PC, "%s does not fit %s", tok.Value, directive)
		}

		switch elementSize {
		case 1:
			buf = append(buf, byte(v.Int))
		case 2:
			buf = order.AppendUint16(buf, uint16(v.Int))
		case 4:
			buf = order.AppendUint32(buf, uint32(v.Int))
		}
	}
	return buf, nil
}

// dcToken is one value of a dc list: a quoted string or an expression.
type dcToken struct {
	Value  string
	Quoted bool
}

// splitDcValues handles mixed quoted strings and numbers. A single quoted
// character is an expression, so 'A'+1 works.
func splitDcValues(s string) []dcToken {
	var tokens []dcToken
	for _, part := range engine.SplitOperands(s) {
		if len(part) >= 2 && (part[0] == '\'' || part[0] == '"') && part[len(part)-1] == part[0] {
			body := part[1 : len(part)-1]
			if part[0] == '"' || len(body) != 1 {
				tokens = append(tokens, dcToken{Value: body, Quoted: true})
				continue
			}
		}
		if part != "" {
			tokens = append(tokens, dcToken{Value: part})
		}
	}
	return tokens
}

// getElementSize returns element size in bytes for data-storage directives.
func getElementSize(directive string) uint32 {
	switch directive {
	case "dc.w", "ds.w":
		return 2
	case "dc.l", "ds.l":
		return 4
	default:
		return 1
	}
}
