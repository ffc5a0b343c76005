package assembler

import (
	"strconv"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// Evaluator resolves operand expressions: terms joined by + and -, where a
// term is a number ($, 0x or > for hex, % for binary, decimal), a character
// literal, a symbol, or * for the current address.
type Evaluator struct {
	Symbols map[string]int64
	PC      uint32
	// Lenient makes unknown symbols evaluate as undefined instead of failing,
	// for the sizing passes.
	Lenient bool
}

// Eval implements engine.Evaluator.
func (ev *Evaluator) Eval(expr string) (engine.Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return engine.Value{}, engine.Errorf(engine.IllegalConstant, ev.PC, "empty expression")
	}

	var v engine.Value
	for _, t := range splitTerms(expr) {
		tv, err := ev.term(t.text)
		if err != nil {
			return engine.Value{}, err
		}
		if tv.Undefined {
			v.Undefined = true
		}
		if t.neg {
			v.Int -= tv.Int
		} else {
			v.Int += tv.Int
		}
	}
	return v, nil
}

type term struct {
	text string
	neg  bool
}

// splitTerms breaks an expression at binary and unary + and -, leaving
// quoted characters alone.
func splitTerms(s string) []term {
	var terms []term
	neg := false
	start := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote || (c != '+' && c != '-') {
			continue
		}
		if text := strings.TrimSpace(s[start:i]); text != "" {
			terms = append(terms, term{text: text, neg: neg})
			neg = false
		}
		if c == '-' {
			neg = !neg
		}
		start = i + 1
	}
	return append(terms, term{text: strings.TrimSpace(s[start:]), neg: neg})
}

func (ev *Evaluator) term(s string) (engine.Value, error) {
	if s == "*" {
		return engine.Value{Int: int64(ev.PC)}, nil
	}

	// Character literal ('A')
	if len(s) >= 3 && s[0] == '\'' && s[len(s)-1] == '\'' {
		if len(s) != 3 {
			return engine.Value{}, engine.Errorf(engine.IllegalConstant, ev.PC, "character literal %s", s)
		}
		return engine.Value{Int: int64(s[1])}, nil
	}

	base := 10
	digits := s
	switch {
	case strings.HasPrefix(s, "$"), strings.HasPrefix(s, ">"):
		digits, base = s[1:], 16
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		digits, base = s[2:], 16
	case strings.HasPrefix(s, "%"):
		digits, base = s[1:], 2
	case s[0] >= '0' && s[0] <= '9':
	default:
		return ev.symbol(s)
	}

	val, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return engine.Value{}, engine.Errorf(engine.IllegalConstant, ev.PC, "invalid number format: %s", s)
	}
	return engine.Value{Int: val}, nil
}

func (ev *Evaluator) symbol(s string) (engine.Value, error) {
	if !isSymbol(s) {
		return engine.Value{}, engine.Errorf(engine.IllegalConstant, ev.PC, "invalid expression: %s", s)
	}
	if val, ok := ev.Symbols[strings.ToLower(s)]; ok {
		return engine.Value{Int: val}, nil
	}
	if ev.Lenient {
		return engine.Value{Undefined: true}, nil
	}
	return engine.Value{}, engine.Errorf(engine.IllegalConstant, ev.PC, "undefined symbol %s", s)
}

func isSymbol(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '.' || engine.IsIdentChar(c) {
			if i == 0 && c >= '0' && c <= '9' {
				return false
			}
			continue
		}
		return false
	}
	return s != ""
}
