package engine

import "strings"

// RegName is an architecture-scoped register or condition tag.
// Architectures give sub-ranges meaning and test them numerically.
type RegName int8

// RegNone is the absence of a register.
const RegNone RegName = -1

// RegEntry pairs a tag with its display text.
type RegEntry struct {
	Name RegName
	Text string
}

// Registers is an ordered, bijective tag/text table.
type Registers struct {
	entries []RegEntry
	text    map[RegName]string
}

// NewRegisters builds a namespace. Parsing tries entries in order, so a name
// that is a prefix of another with a non-identifier suffix (AF before AF')
// must come after the longer one.
func NewRegisters(entries ...RegEntry) *Registers {
	r := &Registers{entries: entries, text: make(map[RegName]string, len(entries))}
	for _, e := range entries {
		r.text[e.Name] = e.Text
	}
	return r
}

// Parse matches a register name at the start of s, ignoring case. A match
// followed by another identifier character is rejected, so R1 never matches
// the front of R10. It returns the tag and the number of bytes consumed.
func (r *Registers) Parse(s string) (RegName, int) {
	for _, e := range r.entries {
		n := len(e.Text)
		if len(s) < n || !strings.EqualFold(s[:n], e.Text) {
			continue
		}
		if len(s) > n && IsIdentChar(s[n]) {
			continue
		}
		return e.Name, n
	}
	return RegNone, 0
}

// ParseExact matches s only when it is a register name in its entirety.
func (r *Registers) ParseExact(s string) (RegName, bool) {
	reg, n := r.Parse(s)
	if reg == RegNone || n != len(s) {
		return RegNone, false
	}
	return reg, true
}

// Format returns the display text of reg, or "" if it is not in the table.
func (r *Registers) Format(reg RegName) string {
	return r.text[reg]
}

// Names returns every tag in table order.
func (r *Registers) Names() []RegName {
	out := make([]RegName, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Name
	}
	return out
}

// IsIdentChar reports whether c may continue an identifier.
func IsIdentChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
