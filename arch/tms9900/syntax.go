package tms9900

import (
	"regexp"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

var (
	reIndirect = regexp.MustCompile(`(?i)^\*(r\d+)(\+?)$`)
	reIndexed  = regexp.MustCompile(`(?i)^@(.+)\((r\d+)\)$`)
)

// parseOperand classifies Rn, *Rn, *Rn+, @addr, @addr(Rn) and bare expressions.
func parseOperand(text string, ev engine.Evaluator) (engine.Operand, error) {
	s := strings.TrimSpace(text)
	op := engine.Operand{Reg: engine.RegNone, Index: engine.RegNone, Text: s}

	if r, ok := registers.ParseExact(s); ok {
		op.Mode, op.Reg = ShapeReg, r
		return op, nil
	}
	if m := reIndirect.FindStringSubmatch(s); m != nil {
		r, ok := registers.ParseExact(m[1])
		if !ok {
			return op, engine.Errorf(engine.OperandNotAllowed, 0, "unknown register %s", m[1])
		}
		op.Mode, op.Reg = ShapeInd, r
		if m[2] == "+" {
			op.Mode, op.Inc = ShapeInc, 1
		}
		return op, nil
	}

	expr := s
	op.Mode = ShapeExpr
	if m := reIndexed.FindStringSubmatch(s); m != nil {
		r, ok := registers.ParseExact(m[2])
		if !ok {
			return op, engine.Errorf(engine.OperandNotAllowed, 0, "unknown register %s", m[2])
		}
		op.Mode, op.Reg, expr = ShapeIdx, r, m[1]
	} else if strings.HasPrefix(s, "@") {
		op.Mode, expr = ShapeSym, s[1:]
	}

	v, err := ev.Eval(strings.TrimSpace(expr))
	if err != nil {
		return op, err
	}
	op.Value, op.Undefined = v.Int, v.Undefined
	return op, nil
}
