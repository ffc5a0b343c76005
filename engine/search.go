package engine

import "strings"

// Search scans the page in table order and returns the first entry whose
// fixed bits match opcode and which is enabled on cpu. Tables must list
// more specific patterns first.
func (p *Page) Search(opcode uint32, cpu Variant) *Entry {
	for i := range p.Entries {
		e := &p.Entries[i]
		if e.Matches(opcode) && e.CPU.Has(cpu) {
			return e
		}
	}
	return nil
}

// lookup resolves the page for a decode: the primary page, or the page
// introduced by a prefix unit. It reports whether lead was consumed as a prefix.
func (t *Table) lookup(lead uint32) (*Page, bool) {
	if p, ok := t.PrefixPage(lead); ok {
		return p, true
	}
	return t.Primary(), false
}

// candidates returns the entries named mnemonic (case-insensitive) that are
// enabled on cpu, in table order.
func (t *Table) candidates(mnemonic string, cpu Variant) (list []candidate, known bool) {
	all, ok := t.byMnemonic[strings.ToUpper(mnemonic)]
	if !ok {
		return nil, false
	}
	for _, c := range all {
		if c.entry.CPU.Has(cpu) {
			list = append(list, c)
		}
	}
	return list, len(list) > 0
}
