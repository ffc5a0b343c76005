package engine_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Urethramancer/asmkit/engine"
)

func decode(t *testing.T, m *engine.Module, addr uint32, code ...byte) (*engine.Result, error) {
	t.Helper()
	return m.DecodeOne(engine.Bytes{Origin: addr, Data: code}, addr)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		Name      string
		Code      []byte
		Want      string
		Len       int
		Target    uint32
		HasTarget bool
	}{
		{Name: "no operands", Code: []byte{0x00}, Want: "nop", Len: 1},
		{Name: "field and byte", Code: []byte{0x12, 0x7F}, Want: "ld r2,$7F", Len: 2},
		{Name: "prefix page", Code: []byte{0xED, 0x01, 0x42}, Want: "ext $42", Len: 3},
		{Name: "absolute target", Code: []byte{0x20, 0x34, 0x12}, Want: "jmp $1234", Len: 3, Target: 0x1234, HasTarget: true},
		{Name: "relative target", Code: []byte{0x30, 0xFE}, Want: "go $0100", Len: 2, Target: 0x100, HasTarget: true},
		{Name: "trailing bytes ignored", Code: []byte{0xC9, 0xFF, 0xFF}, Want: "ret", Len: 1},
	}
	m := engine.NewModule(toy)
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			r, err := decode(t, m, 0x100, test.Code...)
			if err != nil {
				t.Fatal(err)
			}
			got := struct {
				Text      string
				Len       int
				Target    uint32
				HasTarget bool
			}{r.Text, r.Len(), r.Target, r.HasTarget}
			want := struct {
				Text      string
				Len       int
				Target    uint32
				HasTarget bool
			}{test.Want, test.Len, test.Target, test.HasTarget}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("DecodeOne() mismatch (-want +got):\n%s", diff)
			}
			if !bytes.Equal(r.Bytes, test.Code[:test.Len]) {
				t.Errorf("bytes % X, want % X", r.Bytes, test.Code[:test.Len])
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	m := engine.NewModule(toy)
	tests := []struct {
		Name string
		Code []byte
		Kind engine.ErrorKind
	}{
		{"unknown", []byte{0xFF}, engine.UnknownInstruction},
		{"unknown in prefix page", []byte{0xED, 0x02}, engine.UnknownInstruction},
		{"other variant", []byte{0x40}, engine.UnknownInstruction},
		{"truncated operand", []byte{0x20, 0x34}, engine.OverflowRange},
		{"truncated prefix", []byte{0xED}, engine.OverflowRange},
		{"empty", nil, engine.OverflowRange},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := decode(t, m, 0, test.Code...)
			if !errors.Is(err, test.Kind) {
				t.Fatalf("expected %v, got %v", test.Kind, err)
			}
		})
	}
}

func TestMaxLength(t *testing.T) {
	a := *toy
	a.MaxLength = 2
	m := engine.NewModule(&a)
	if _, err := decode(t, m, 0, 0x20, 0x34, 0x12); !errors.Is(err, engine.OverflowRange) {
		t.Errorf("decode past the length limit: %v", err)
	}
	if _, err := m.EncodeOne(0, "jmp", []engine.Operand{num(0x1234)}); !errors.Is(err, engine.OverflowRange) {
		t.Errorf("encode past the length limit: %v", err)
	}
}

func TestVariants(t *testing.T) {
	m := engine.NewModule(toy)
	if diff := cmp.Diff([]string{"A", "B"}, m.Variants()); diff != "" {
		t.Errorf("Variants() mismatch (-want +got):\n%s", diff)
	}
	if m.CPU() != "A" {
		t.Errorf("default CPU %s", m.CPU())
	}

	if r, err := decode(t, m, 0, 0x41); err != nil || r.Text != "old" {
		t.Errorf("old on A: %v %v", r, err)
	}
	if err := m.SetVariant("b"); err != nil {
		t.Fatal(err)
	}
	if r, err := decode(t, m, 0, 0x40); err != nil || r.Text != "new" {
		t.Errorf("new on B: %v %v", r, err)
	}
	if _, err := m.EncodeOne(0, "old", nil); !errors.Is(err, engine.UnknownInstruction) {
		t.Errorf("old on B should be unknown: %v", err)
	}
	if err := m.SetVariant("C"); err == nil {
		t.Error("unknown variant accepted")
	}
	if m.CPU() != "B" {
		t.Errorf("failed SetVariant changed the CPU to %s", m.CPU())
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		Name     string
		Mnemonic string
		Ops      []engine.Operand
		Want     []byte
	}{
		{"no operands", "NOP", nil, []byte{0x00}},
		{"field and byte", "ld", []engine.Operand{reg(3), num(-1)}, []byte{0x13, 0xFF}},
		{"prefix page", "ext", []engine.Operand{num(0x42)}, []byte{0xED, 0x01, 0x42}},
		{"narrowest", "go", []engine.Operand{num(0x110)}, []byte{0x30, 0x0E}},
		{"wider when out of reach", "go", []engine.Operand{num(0x300)}, []byte{0x31, 0x00, 0x03}},
		{"widest when undefined", "go", []engine.Operand{undefined()}, []byte{0x31, 0x00, 0x00}},
	}
	m := engine.NewModule(toy)
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			got, err := m.EncodeOne(0x100, test.Mnemonic, test.Ops)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.Want, got); diff != "" {
				t.Errorf("EncodeOne() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		Name     string
		Mnemonic string
		Ops      []engine.Operand
		Kind     engine.ErrorKind
	}{
		{"unknown mnemonic", "zap", nil, engine.UnknownInstruction},
		{"wrong count", "ld", []engine.Operand{reg(1)}, engine.OperandNotAllowed},
		{"wrong shape", "ld", []engine.Operand{num(1), num(2)}, engine.OperandNotAllowed},
		{"range", "ld", []engine.Operand{reg(1), num(0x100)}, engine.OverflowRange},
		{"16-bit limit", "jmp", []engine.Operand{num(0x10000)}, engine.OverflowRange},
		{"no form in range", "go", []engine.Operand{num(0x10000)}, engine.OverflowRange},
	}
	m := engine.NewModule(toy)
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			_, err := m.EncodeOne(0x100, test.Mnemonic, test.Ops)
			if !errors.Is(err, test.Kind) {
				t.Fatalf("expected %v, got %v", test.Kind, err)
			}
		})
	}

	if _, err := m.EncodeOne(0, "jmp", []engine.Operand{num(0xFFFF)}); err != nil {
		t.Errorf("0xFFFF should fit 16 bits: %v", err)
	}
}

func TestPolicy(t *testing.T) {
	// The wide form is listed first here.
	table := engine.NewTable(engine.Primary(
		engine.E(0x31, 0, "go", modeAbs16),
		engine.E(0x30, 0, "go", modeRel8),
	))
	ops := []engine.Operand{num(0x110)}

	narrow, err := engine.NewModule(toyArch(table, engine.Narrowest)).EncodeOne(0x100, "go", ops)
	if err != nil {
		t.Fatal(err)
	}
	first, err := engine.NewModule(toyArch(table, engine.FirstFit)).EncodeOne(0x100, "go", ops)
	if err != nil {
		t.Fatal(err)
	}
	if len(narrow) != 2 || len(first) != 3 {
		t.Errorf("Narrowest gave % X, FirstFit gave % X", narrow, first)
	}
}

func TestEncodeMin(t *testing.T) {
	m := engine.NewModule(toy)
	got, err := m.EncodeMin(0x100, "go", []engine.Operand{num(0x110)}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x31, 0x10, 0x01}, got); diff != "" {
		t.Errorf("EncodeMin() mismatch (-want +got):\n%s", diff)
	}
	if _, err := m.EncodeMin(0, "nop", nil, 2); !errors.Is(err, engine.OverflowRange) {
		t.Errorf("nop has no two-byte form: %v", err)
	}
}

func TestAssemble(t *testing.T) {
	m := engine.NewModule(toy)
	ev := symbols{"here": 0x120}

	got, err := m.Assemble(0x100, "ld r2, $10", ev)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x12, 0x10}, got); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}

	got, err = m.Assemble(0x100, "go here", ev)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x30, 0x1E}, got); diff != "" {
		t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
	}

	mn, ops, err := m.ParseStatement("go later", ev)
	if err != nil {
		t.Fatal(err)
	}
	if mn != "go" || len(ops) != 1 || !ops[0].Undefined || ops[0].Text != "later" {
		t.Errorf("ParseStatement() = %s %+v", mn, ops)
	}

	if _, err := m.Assemble(0, "ld r1,9x", ev); !errors.Is(err, engine.IllegalConstant) {
		t.Errorf("bad constant: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	m := engine.NewModule(toy)
	for _, stmt := range []string{"nop", "ld r1,$80", "ext $01", "jmp $BEEF", "go $0120", "ret"} {
		code, err := m.Assemble(0x100, stmt, symbols{})
		if err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
		r, err := decode(t, m, 0x100, code...)
		if err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
		if r.Text != stmt {
			t.Errorf("%s came back as %s", stmt, r.Text)
		}
	}
}

func TestConcurrentDecode(t *testing.T) {
	code := []byte{0x12, 0x7F, 0xED, 0x01, 0x42, 0x20, 0x34, 0x12}
	want := []string{"ld r2,$7F", "ext $42", "jmp $1234"}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := engine.NewModule(toy)
			mem := engine.Bytes{Data: code}
			for n := 0; n < 200; n++ {
				addr := uint32(0)
				for _, w := range want {
					r, err := m.DecodeOne(mem, addr)
					if err != nil {
						errs <- err
						return
					}
					if r.Text != w {
						errs <- errors.New(r.Text + " != " + w)
						return
					}
					addr += uint32(r.Len())
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestMnemonics(t *testing.T) {
	want := []string{"EXT", "GO", "JMP", "LD", "NEW", "NOP", "OLD", "RET"}
	if diff := cmp.Diff(want, toy.Table.Mnemonics()); diff != "" {
		t.Errorf("Mnemonics() mismatch (-want +got):\n%s", diff)
	}
	if !toy.Table.Has("Go") || toy.Table.Has("stop") {
		t.Error("Has() is wrong")
	}
	if toy.Table.Len() != 9 {
		t.Errorf("Len() = %d", toy.Table.Len())
	}
}
