package engine

// Operand is one already-parsed operand handed to the encoder. Mode is the
// architecture's classification of its syntactic shape; values have been
// resolved by the expression evaluator.
type Operand struct {
	Mode      Mode
	Reg       RegName
	Index     RegName
	IndexSize Size // width the index register is used at, when it matters
	Value     int64
	Indirect  bool
	Inc       int8 // +1 post/auto increment, -1 pre/auto decrement
	Undefined bool // value is a forward reference not yet resolved
	Text      string
}

// Value is an evaluated expression.
type Value struct {
	Int       int64
	Undefined bool
}

// Evaluator resolves operand expressions: numeric literals, symbols and the
// current address. The engine never parses numbers itself.
type Evaluator interface {
	Eval(expr string) (Value, error)
}
