package disassembler

import (
	"fmt"
	"strconv"
	"strings"
)

func labelName(addr uint32, labelType LabelType) string {
	prefix := "loc_"
	switch labelType {
	case SubroutineEntry:
		prefix = "sub_"
	}
	return fmt.Sprintf("%s%04X", prefix, addr)
}

// replaceAddress finds a hex number equal to addr in an operand, e.g.
// "$1000", "$1000(pc)" or ">1000", and swaps it for label. Immediates are
// left alone.
func replaceAddress(op, prefix string, addr uint32, label string) (string, bool) {
	for from := 0; from < len(op); {
		i := strings.Index(op[from:], prefix)
		if i < 0 {
			return op, false
		}
		i += from
		j := i + len(prefix)
		for j < len(op) && isHexDigit(op[j]) {
			j++
		}
		from = j
		if j == i+len(prefix) || (i > 0 && op[i-1] == '#') {
			continue
		}
		v, err := strconv.ParseUint(op[i+len(prefix):j], 16, 32)
		if err == nil && uint32(v) == addr {
			return op[:i] + label + op[j:], true
		}
	}
	return op, false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// addrQueue is a simple worklist queue for addresses to decode.
type addrQueue struct {
	align uint32
	items []uint32
	seen  map[uint32]bool
}

func newQueue(align int) *addrQueue {
	return &addrQueue{align: uint32(align), seen: make(map[uint32]bool)}
}

func (q *addrQueue) push(addr uint32) {
	addr -= addr % q.align
	if !q.seen[addr] {
		q.items = append(q.items, addr)
		q.seen[addr] = true
	}
}

func (q *addrQueue) pop() (uint32, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}
