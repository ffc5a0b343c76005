package engine

import (
	"fmt"
	"sort"
	"strings"
)

// Mode is an addressing-mode tag. Each architecture declares its own closed
// set; the engine only uses it as a key into the architecture's dispatch table.
type Mode uint8

// ModeNone marks an unused operand slot.
const ModeNone Mode = 0

// MaxOperands is the number of operand slots an entry can declare.
const MaxOperands = 3

// Size is the operation size class of an entry.
type Size uint8

const (
	SizeNone Size = iota
	SizeByte
	SizeWord
	SizeLong
)

// Bytes returns the width of the size class in bytes.
func (s Size) Bytes() int {
	switch s {
	case SizeByte:
		return 1
	case SizeWord:
		return 2
	case SizeLong:
		return 4
	}
	return 0
}

func (s Size) String() string {
	switch s {
	case SizeByte:
		return "byte"
	case SizeWord:
		return "word"
	case SizeLong:
		return "long"
	}
	return "none"
}

// Variant is a bit set of CPU variants within one family.
type Variant uint16

// AllVariants enables an entry on every variant of its family.
const AllVariants Variant = 0

// Has reports whether the entry tag v enables the active variant cpu.
func (v Variant) Has(cpu Variant) bool {
	return v == AllVariants || v&cpu != 0
}

// Flags classify control flow for listing generators.
type Flags uint8

const (
	// Jump transfers control unconditionally and never falls through.
	Jump Flags = 1 << iota
	// Branch transfers control conditionally.
	Branch
	// Call transfers control to a subroutine and falls through on return.
	Call
	// Return ends a subroutine.
	Return
)

// Entry binds a fixed opcode pattern and operand shape to a mnemonic.
// Entries are never modified after their table is built.
type Entry struct {
	Opcode   uint32 // fixed bits
	Mask     uint32 // don't-care bits, filled by operand fields
	Mnemonic string
	Modes    [MaxOperands]Mode
	Size     Size
	CPU      Variant
	Flags    Flags
}

// E is shorthand for building entries in table literals.
func E(opcode, mask uint32, mnemonic string, modes ...Mode) Entry {
	e := Entry{Opcode: opcode, Mask: mask, Mnemonic: mnemonic}
	copy(e.Modes[:], modes)
	return e
}

// Sized returns a copy of e with its size class set.
func (e Entry) Sized(s Size) Entry {
	e.Size = s
	return e
}

// On returns a copy of e restricted to the given variants.
func (e Entry) On(cpu Variant) Entry {
	e.CPU = cpu
	return e
}

// With returns a copy of e with control-flow flags set.
func (e Entry) With(f Flags) Entry {
	e.Flags = f
	return e
}

// Matches reports whether opcode satisfies the entry's fixed bits.
func (e *Entry) Matches(opcode uint32) bool {
	return opcode&^e.Mask == e.Opcode
}

// Operands returns the number of declared operand slots.
func (e *Entry) Operands() int {
	n := 0
	for _, m := range e.Modes {
		if m == ModeNone {
			break
		}
		n++
	}
	return n
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s %0*X/%0*X %v", e.Mnemonic, 4, e.Opcode, 4, e.Mask, e.Modes[:e.Operands()])
}

// Page is an ordered group of entries sharing an opcode-prefix context.
type Page struct {
	Prefix    uint32 // lead-in opcode unit; meaningless for the primary page
	HasPrefix bool
	Entries   []Entry
}

// Primary builds the unprefixed page.
func Primary(entries ...Entry) Page {
	return Page{Entries: entries}
}

// Prefixed builds a page reached after the given lead-in unit.
func Prefixed(prefix uint32, entries ...Entry) Page {
	return Page{Prefix: prefix, HasPrefix: true, Entries: entries}
}

// Table is the complete, read-only opcode map of one architecture.
type Table struct {
	Pages []Page

	byMnemonic map[string][]candidate
}

// candidate locates an entry for the encode-direction index.
type candidate struct {
	page  *Page
	entry *Entry
}

// NewTable freezes pages into a table and builds the mnemonic index.
// Pages are searched in the order given; the first unprefixed page is the primary map.
func NewTable(pages ...Page) *Table {
	t := &Table{Pages: pages, byMnemonic: make(map[string][]candidate)}
	for i := range t.Pages {
		p := &t.Pages[i]
		for j := range p.Entries {
			e := &p.Entries[j]
			key := strings.ToUpper(e.Mnemonic)
			t.byMnemonic[key] = append(t.byMnemonic[key], candidate{page: p, entry: e})
		}
	}
	return t
}

// Primary returns the unprefixed page.
func (t *Table) Primary() *Page {
	for i := range t.Pages {
		if !t.Pages[i].HasPrefix {
			return &t.Pages[i]
		}
	}
	return nil
}

// PrefixPage returns the page introduced by the lead-in unit, if any.
func (t *Table) PrefixPage(unit uint32) (*Page, bool) {
	for i := range t.Pages {
		p := &t.Pages[i]
		if p.HasPrefix && p.Prefix == unit {
			return p, true
		}
	}
	return nil, false
}

// Has reports whether any entry is named mnemonic, ignoring case.
func (t *Table) Has(mnemonic string) bool {
	_, ok := t.byMnemonic[strings.ToUpper(mnemonic)]
	return ok
}

// Mnemonics returns every distinct mnemonic in the table, upper case and sorted.
func (t *Table) Mnemonics() []string {
	names := make([]string, 0, len(t.byMnemonic))
	for k := range t.byMnemonic {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of entries.
func (t *Table) Len() int {
	n := 0
	for _, p := range t.Pages {
		n += len(p.Entries)
	}
	return n
}
