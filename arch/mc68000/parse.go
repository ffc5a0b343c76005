package mc68000

import (
	"regexp"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

var (
	reIndexReg = regexp.MustCompile(`(?i)^([da][0-7]|sp)(\.([wl]))?$`)
	reAbsSized = regexp.MustCompile(`(?i)^(.+)\.([wl])$`)
)

// parseReg matches a whole register name, including the sp alias.
func parseReg(s string) (engine.RegName, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, spAlias) {
		return A7, true
	}
	return registers.ParseExact(s)
}

// parseOperand classifies one operand. More specific forms are tried first.
func parseOperand(text string, ev engine.Evaluator) (engine.Operand, error) {
	s := strings.TrimSpace(text)
	op := engine.Operand{Reg: engine.RegNone, Index: engine.RegNone, Text: s}

	if r, ok := parseReg(s); ok {
		switch {
		case isData(r):
			op.Mode = ShapeDn
		case isAddr(r):
			op.Mode = ShapeAn
		case r == SR:
			op.Mode = ShapeSR
		case r == CCR:
			op.Mode = ShapeCCR
		case r == USP:
			op.Mode = ShapeUSP
		default:
			return op, engine.Errorf(engine.OperandNotAllowed, 0, "%s cannot be used directly", s)
		}
		op.Reg = r
		return op, nil
	}

	if strings.HasPrefix(s, "#") {
		op.Mode = ShapeImm
		return op, evalInto(&op, s[1:], ev)
	}

	if strings.HasPrefix(s, "-(") && strings.HasSuffix(s, ")") {
		if r, ok := parseReg(s[2 : len(s)-1]); ok && isAddr(r) {
			op.Mode, op.Reg = ShapePreDec, r
			return op, nil
		}
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")+") {
		if r, ok := parseReg(s[1 : len(s)-2]); ok && isAddr(r) {
			op.Mode, op.Reg = ShapePostInc, r
			return op, nil
		}
	}

	if strings.HasSuffix(s, ")") {
		if ok, err := parseParenthesised(&op, s, ev); ok || err != nil {
			return op, err
		}
	}

	if m := reAbsSized.FindStringSubmatch(s); m != nil {
		expr := strings.TrimSpace(m[1])
		if strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
			expr = expr[1 : len(expr)-1]
		}
		op.Mode = ShapeAbsW
		if strings.EqualFold(m[2], "l") {
			op.Mode = ShapeAbsL
		}
		return op, evalInto(&op, expr, ev)
	}

	op.Mode = ShapeAbs
	return op, evalInto(&op, s, ev)
}

// parseParenthesised handles the register-relative forms: (An), d(An),
// (d,An), d(An,Xn), (d,An,Xn) and their PC-relative counterparts. The
// "d(pc)" forms give an absolute target, "(d,pc)" forms a raw displacement.
func parseParenthesised(op *engine.Operand, s string, ev engine.Evaluator) (bool, error) {
	open := strings.LastIndex(s, "(")
	if open < 0 {
		return false, nil
	}
	outer := strings.TrimSpace(s[:open])
	parts := engine.SplitOperands(s[open+1 : len(s)-1])

	var disp string
	raw := false
	if outer == "" && len(parts) >= 2 {
		if _, isReg := parseReg(parts[0]); !isReg {
			disp, parts, raw = parts[0], parts[1:], true
		}
	} else {
		disp = outer
	}
	if len(parts) < 1 || len(parts) > 2 {
		return false, nil
	}

	base, ok := parseReg(parts[0])
	if !ok || !(isAddr(base) || base == PC) {
		return false, nil
	}
	op.Reg = base

	if len(parts) == 2 {
		m := reIndexReg.FindStringSubmatch(parts[1])
		if m == nil {
			return true, engine.Errorf(engine.OperandNotAllowed, 0, "bad index register in %s", s)
		}
		op.Index, _ = parseReg(m[1])
		op.IndexSize = engine.SizeWord
		if strings.EqualFold(m[3], "l") {
			op.IndexSize = engine.SizeLong
		}
	}

	switch {
	case base == PC && len(parts) == 2 && raw:
		op.Mode = ShapePCIndexRaw
	case base == PC && len(parts) == 2:
		op.Mode = ShapePCIndex
	case base == PC && raw:
		op.Mode = ShapePCDispRaw
	case base == PC:
		op.Mode = ShapePCDisp
	case len(parts) == 2:
		op.Mode = ShapeIndex
	case disp == "":
		op.Mode = ShapeInd
		return true, nil
	default:
		op.Mode = ShapeDisp
	}
	if disp == "" {
		return true, nil
	}
	return true, evalInto(op, disp, ev)
}

func evalInto(op *engine.Operand, expr string, ev engine.Evaluator) error {
	v, err := ev.Eval(strings.TrimSpace(expr))
	if err != nil {
		return err
	}
	op.Value, op.Undefined = v.Int, v.Undefined
	return nil
}

// splitStatement maps unsized mnemonics to their word form and drops
// size suffixes on instructions that have none, as most assemblers do.
func splitStatement(stmt string) (string, []string) {
	mn, ops := engine.SplitStatement(stmt)
	mn = strings.ToLower(mn)
	if table.Has(mn) {
		return mn, ops
	}
	if i := strings.IndexByte(mn, '.'); i >= 0 {
		if base := mn[:i]; table.Has(base) {
			return base, ops
		}
	} else if table.Has(mn + ".w") {
		return mn + ".w", ops
	}
	return mn, ops
}
