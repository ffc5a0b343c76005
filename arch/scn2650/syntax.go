package scn2650

import (
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

// format writes Signetics syntax: a register or condition operand is
// attached to the mnemonic with a comma ("lodi,r1 $12", "bctr,un $0100"),
// except for the register-to-R0 forms ("lodz r1").
func format(mnemonic string, ops []string) string {
	if len(ops) == 0 {
		return mnemonic
	}
	if !attached(ops[0]) || isZForm(mnemonic) {
		return mnemonic + " " + strings.Join(ops, ",")
	}
	s := mnemonic + "," + ops[0]
	if len(ops) > 1 {
		s += " " + strings.Join(ops[1:], ",")
	}
	return s
}

func attached(op string) bool {
	if _, ok := registers.ParseExact(op); ok {
		return true
	}
	_, ok := Conditions.ParseExact(op)
	return ok
}

func isZForm(mnemonic string) bool {
	mn := strings.ToLower(mnemonic)
	if len(mn) != 4 || mn[3] != 'z' {
		return false
	}
	for _, a := range arithmetic {
		if mn[:3] == a.name {
			return true
		}
	}
	return mn == "strz"
}

// split is the inverse of format. Everything after the blank is one operand,
// since an absolute operand carries its own commas ("$0100,r1,+").
func split(stmt string) (string, []string) {
	stmt = strings.TrimSpace(stmt)
	head, tail := stmt, ""
	if i := strings.IndexAny(stmt, " \t"); i >= 0 {
		head, tail = stmt[:i], strings.TrimSpace(stmt[i:])
	}

	var ops []string
	mn, first, ok := strings.Cut(head, ",")
	if ok {
		ops = append(ops, strings.TrimSpace(first))
	}
	if tail != "" {
		ops = append(ops, tail)
	}
	return mn, ops
}

// parseOperand classifies r0-r3, eq/gt/lt/un and [*]expr[,rN[,+|,-]].
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

	op.Mode = ShapeAddr
	if strings.HasPrefix(s, "*") {
		op.Indirect = true
		s = s[1:]
	}
	parts := engine.SplitOperands(s)
	if len(parts) > 3 {
		return op, engine.Errorf(engine.OperandNotAllowed, 0, "too many fields in %s", text)
	}
	if len(parts) >= 2 {
		r, ok := registers.ParseExact(parts[1])
		if !ok {
			return op, engine.Errorf(engine.OperandNotAllowed, 0, "%s is not an index register", parts[1])
		}
		op.Index = r
	}
	if len(parts) == 3 {
		switch parts[2] {
		case "+":
			op.Inc = 1
		case "-":
			op.Inc = -1
		default:
			return op, engine.Errorf(engine.OperandNotAllowed, 0, "index control must be + or -, not %s", parts[2])
		}
	}

	v, err := ev.Eval(parts[0])
	if err != nil {
		return op, err
	}
	op.Value, op.Undefined = v.Int, v.Undefined
	return op, nil
}
