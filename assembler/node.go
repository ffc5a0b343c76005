package assembler

// NodeType defines the type of an assembly node.
type NodeType int

const (
	// NodeInstruction type.
	NodeInstruction NodeType = iota
	// NodeLabel type.
	NodeLabel
	// NodeDirective type.
	NodeDirective
)

// Node represents one parsed element from the assembly source.
type Node struct {
	Type  NodeType
	Line  int
	Label string
	// Text is the statement handed to the instruction set, e.g. "move.w d0,d1".
	Text  string
	Parts []string // directive name and its argument string
	Size  uint32   // tracked between passes
	Min   uint32   // smallest size allowed once the node has had to grow
}
