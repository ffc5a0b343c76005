package engine

import "fmt"

// Validate reports entries that can never be decoded because an earlier
// entry in the same page matches every opcode they match, on every CPU they
// are enabled for. Tables are expected to pass it; it is not consulted at
// decode time.
func Validate(t *Table) []error {
	var errs []error
	for pi := range t.Pages {
		p := &t.Pages[pi]
		for j := range p.Entries {
			later := &p.Entries[j]
			if later.Opcode&later.Mask != 0 {
				errs = append(errs, fmt.Errorf("page %d entry %d (%s): fixed bits overlap mask", pi, j, later.Mnemonic))
				continue
			}
			for i := 0; i < j; i++ {
				if shadows(&p.Entries[i], later) {
					errs = append(errs, fmt.Errorf("page %d entry %d (%s) is shadowed by entry %d (%s)",
						pi, j, later, i, &p.Entries[i]))
					break
				}
			}
		}
	}
	return errs
}

// shadows reports whether every opcode matched by b is matched by a first.
func shadows(a, b *Entry) bool {
	if b.Mask&^a.Mask != 0 {
		return false
	}
	if b.Opcode&^a.Mask != a.Opcode {
		return false
	}
	return covers(a.CPU, b.CPU)
}

func covers(a, b Variant) bool {
	if a == AllVariants {
		return true
	}
	if b == AllVariants {
		return false
	}
	return b&^a == 0
}
