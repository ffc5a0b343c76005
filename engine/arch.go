package engine

import (
	"strings"
)

// ModeFuncs is the operand dispatch for one addressing mode.
type ModeFuncs struct {
	// Decode reads the operand's fields and extension bytes and formats it.
	Decode func(in *Insn, slot int) (string, error)
	// Encode packs op into the opcode fields and operand bytes.
	Encode func(c *Code, op *Operand, slot int) error
	// Accept reports whether a parsed operand has a shape this mode can take.
	// Range checks belong in Encode.
	Accept func(op *Operand) bool
}

// CPU names one variant of a family.
type CPU struct {
	Name    string
	Variant Variant
}

// Policy selects among several entries that can all encode an instruction.
type Policy uint8

const (
	// Narrowest picks the shortest encoding, earliest entry on ties.
	Narrowest Policy = iota
	// FirstFit picks the first entry in table order that encodes.
	FirstFit
)

// Arch is everything that differs between processors: tables, register
// namespace, operand dispatch and syntax. It is immutable once built and
// may be shared by any number of Modules.
type Arch struct {
	Family      string
	CPUs        []CPU
	Table       *Table
	Registers   *Registers
	Modes       []ModeFuncs // indexed by Mode
	OpcodeWidth int         // bytes per opcode unit: 1 or 2
	Order       ByteOrder
	MaxLength   int
	Policy      Policy
	HexPrefix   string
	DataByte    string // directive for raw bytes in listings

	// Format joins a mnemonic and its operands; nil uses "MN op1,op2".
	Format func(mnemonic string, operands []string) string
	// Split separates a source statement into mnemonic and operand texts;
	// nil splits at the first blank and at commas outside parentheses.
	Split func(stmt string) (string, []string)
	// Parse classifies one operand text.
	Parse func(text string, ev Evaluator) (Operand, error)
}

// Statement formats an instruction in the architecture's syntax.
func (a *Arch) Statement(mnemonic string, operands []string) string {
	if a.Format != nil {
		return a.Format(mnemonic, operands)
	}
	if len(operands) == 0 {
		return mnemonic
	}
	return mnemonic + " " + strings.Join(operands, ",")
}

func (a *Arch) split(stmt string) (string, []string) {
	if a.Split != nil {
		return a.Split(stmt)
	}
	return SplitStatement(stmt)
}

// SplitStatement splits "MN a,(b,c)" into "MN" and ["a", "(b,c)"].
func SplitStatement(stmt string) (string, []string) {
	stmt = strings.TrimSpace(stmt)
	i := strings.IndexAny(stmt, " \t")
	if i < 0 {
		return stmt, nil
	}
	return stmt[:i], SplitOperands(strings.TrimSpace(stmt[i:]))
}

// SplitOperands splits an operand string by commas, but ignores commas inside
// parentheses and quotes.
func SplitOperands(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var result []string
	parenLevel := 0
	inQuote := false
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case '(':
			if !inQuote {
				parenLevel++
			}
		case ')':
			if !inQuote {
				parenLevel--
			}
		case ',':
			if parenLevel == 0 && !inQuote {
				result = append(result, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	return append(result, strings.TrimSpace(s[last:]))
}
