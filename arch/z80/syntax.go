package z80

import (
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// parseOperand classifies registers, conditions, (rr), (IX+d), (nn) and
// immediates. A parenthesised expression is always a memory operand.
func parseOperand(text string, ev engine.Evaluator) (engine.Operand, error) {
	s := strings.TrimSpace(text)
	op := engine.Operand{Reg: engine.RegNone, Index: engine.RegNone, Text: s}

	if r, ok := registers.ParseExact(s); ok {
		op.Mode, op.Reg = ShapeReg, r
		return op, nil
	}
	if c, ok := Conditions.ParseExact(s); ok {
		op.Mode, op.Reg = ShapeCond, c
		return op, nil
	}

	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if r, ok := registers.ParseExact(inner); ok {
			switch r {
			case BC, DE, HL, SP, C:
				op.Mode, op.Reg = ShapeInd, r
				return op, nil
			case IX, IY:
				op.Mode, op.Reg = ShapeIdx, r
				return op, nil
			}
			return op, engine.Errorf(engine.OperandNotAllowed, 0, "%s cannot be used as a pointer", registers.Format(r))
		}
		if r, n := registers.Parse(inner); r == IX || r == IY {
			rest := strings.TrimSpace(inner[n:])
			if rest != "" && (rest[0] == '+' || rest[0] == '-') {
				op.Mode, op.Reg = ShapeIdx, r
				if err := evalInto(&op, rest[1:], ev); err != nil {
					return op, err
				}
				if rest[0] == '-' {
					op.Value = -op.Value
				}
				return op, nil
			}
		}
		op.Mode = ShapeMem
		return op, evalInto(&op, inner, ev)
	}

	op.Mode = ShapeImm
	return op, evalInto(&op, s, ev)
}

func evalInto(op *engine.Operand, expr string, ev engine.Evaluator) error {
	v, err := ev.Eval(strings.TrimSpace(expr))
	if err != nil {
		return err
	}
	op.Value, op.Undefined = v.Int, v.Undefined
	return nil
}
