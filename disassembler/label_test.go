package disassembler

import "testing"

func TestReplaceAddress(t *testing.T) {
	tests := []struct {
		op, prefix string
		addr       uint32
		want       string
		ok         bool
	}{
		{"$1000", "$", 0x1000, "L", true},
		{"$1000(pc)", "$", 0x1000, "L(pc)", true},
		{"d0,$0FFE", "$", 0x0FFE, "d0,L", true},
		{"$10,$1000", "$", 0x1000, "$10,L", true},
		{">1000", ">", 0x1000, "L", true},
		{"#$1000", "$", 0x1000, "#$1000", false},
		{"$2000", "$", 0x1000, "$2000", false},
		{"(a0)", "$", 0x1000, "(a0)", false},
	}
	for _, tc := range tests {
		got, ok := replaceAddress(tc.op, tc.prefix, tc.addr, "L")
		if got != tc.want || ok != tc.ok {
			t.Errorf("replaceAddress(%q) = %q, %v; want %q, %v", tc.op, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLabelName(t *testing.T) {
	if got := labelName(0x1006, SubroutineEntry); got != "sub_1006" {
		t.Errorf("got %s", got)
	}
	if got := labelName(0x3, JumpTarget); got != "loc_0003" {
		t.Errorf("got %s", got)
	}
}

func TestQueueAlignment(t *testing.T) {
	q := newQueue(2)
	q.push(0x1001)
	q.push(0x1000)
	q.push(0x1002)

	var got []uint32
	for {
		a, ok := q.pop()
		if !ok {
			break
		}
		got = append(got, a)
	}
	if len(got) != 2 || got[0] != 0x1000 || got[1] != 0x1002 {
		t.Errorf("queue gave %X", got)
	}
}
