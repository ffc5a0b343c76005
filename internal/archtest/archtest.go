// Package archtest checks the properties every instruction table must have:
// no unreachable entries, decoded text that assembles back to itself,
// encodings that decode to what was asked for, deterministic decoding and
// reads that stop at the end of the input.
package archtest

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Urethramancer/asmkit/assembler"
	"github.com/Urethramancer/asmkit/engine"
	"github.com/google/go-cmp/cmp"
)

// patterns is how many operand-field fillings are tried per entry.
const patterns = 48

// Sample is one byte string built from a table entry.
type Sample struct {
	Entry *engine.Entry
	Bytes []byte
}

// Bytes parses hex digits, ignoring blanks. It panics on bad input, so it
// belongs in fixtures only.
func Bytes(s string) []byte {
	b, err := hex.DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		panic(err)
	}
	return b
}

// Validate fails t for every entry that can never be decoded.
func Validate(t *testing.T, tab *engine.Table) {
	t.Helper()
	for _, err := range engine.Validate(tab) {
		t.Error(err)
	}
}

// Samples fills the operand fields of every entry enabled on the module's
// CPU with a fixed pseudo-random sequence and appends operand bytes. Every
// other sample has the high byte of each operand pair cleared, so small
// values such as bit numbers and displacements come up.
func Samples(m *engine.Module) []Sample {
	a := m.Arch()
	cpu := variant(m)
	rng := rand.New(rand.NewPCG(0x6502, 0x68000))

	var out []Sample
	for pi := range a.Table.Pages {
		p := &a.Table.Pages[pi]
		for ei := range p.Entries {
			e := &p.Entries[ei]
			if !e.CPU.Has(cpu) {
				continue
			}
			for k := 0; k < patterns; k++ {
				var fill uint32
				switch k {
				case 0:
				case 1:
					fill = e.Mask
				default:
					fill = rng.Uint32() & e.Mask
				}

				var b []byte
				if p.HasPrefix {
					b = appendUnit(a, b, p.Prefix)
				}
				b = appendUnit(a, b, e.Opcode|fill)
				for i := 0; i < a.MaxLength; i++ {
					x := byte(rng.Uint32())
					if k%2 == 0 && i%2 == 0 {
						x = 0
					}
					b = append(b, x)
				}
				out = append(out, Sample{Entry: e, Bytes: b})
			}
		}
	}
	return out
}

func variant(m *engine.Module) engine.Variant {
	for _, c := range m.Arch().CPUs {
		if c.Name == m.CPU() {
			return c.Variant
		}
	}
	return engine.AllVariants
}

func appendUnit(a *engine.Arch, b []byte, v uint32) []byte {
	if a.OpcodeWidth == 2 {
		return a.Order.AppendUint16(b, uint16(v))
	}
	return append(b, byte(v))
}

// decoded returns the samples that decode to the entry they were built from,
// trimmed to the instruction length.
func decoded(m *engine.Module, origin uint32) []*engine.Result {
	var out []*engine.Result
	for _, s := range Samples(m) {
		r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: s.Bytes}, origin)
		if err != nil || r.Entry != s.Entry {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RoundTrip decodes every sample, assembles the text at the same address
// and decodes the result again. The second text must match the first; the
// bytes may differ where a narrower encoding exists.
func RoundTrip(t *testing.T, m *engine.Module, origin uint32) {
	t.Helper()
	hit := make(map[*engine.Entry]bool)
	for _, r := range decoded(m, origin) {
		hit[r.Entry] = true
		ev := &assembler.Evaluator{PC: origin}
		code, err := m.Assemble(origin, r.Text, ev)
		if err != nil {
			t.Errorf("%s: % X decodes as %q, which does not assemble: %v", m.CPU(), r.Bytes, r.Text, err)
			continue
		}
		again, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: code}, origin)
		if err != nil {
			t.Errorf("%s: %q assembles to % X, which does not decode: %v", m.CPU(), r.Text, code, err)
			continue
		}
		if again.Text != r.Text {
			t.Errorf("%s: % X decodes as %q, reassembles to % X as %q", m.CPU(), r.Bytes, r.Text, code, again.Text)
		}
		if again.Len() != len(code) {
			t.Errorf("%s: %q assembles to %d bytes but decodes %d", m.CPU(), r.Text, len(code), again.Len())
		}
	}
	if len(hit) == 0 {
		t.Fatalf("%s: no entry decoded from its own samples", m.CPU())
	}
	t.Logf("%s: %d entries exercised", m.CPU(), len(hit))
}

// Mixed assembles every combination of operand texts seen in the decoded
// samples of a mnemonic. Whatever assembles must decode to the same
// mnemonic and length, so operands that are legal one at a time cannot
// combine into some other instruction.
func Mixed(t *testing.T, m *engine.Module, origin uint32) {
	t.Helper()
	type group struct {
		mnemonic string
		slots    [][]string
		seen     []map[shapeKey]bool
	}
	var order []string
	groups := make(map[string]*group)

	for _, r := range decoded(m, origin) {
		_, ops, err := m.ParseStatement(r.Text, &assembler.Evaluator{PC: origin})
		if err != nil || len(ops) == 0 {
			continue
		}
		id := fmt.Sprintf("%s/%d", r.Entry.Mnemonic, len(ops))
		g, ok := groups[id]
		if !ok {
			g = &group{
				mnemonic: r.Entry.Mnemonic,
				slots:    make([][]string, len(ops)),
				seen:     make([]map[shapeKey]bool, len(ops)),
			}
			for i := range g.seen {
				g.seen[i] = make(map[shapeKey]bool)
			}
			groups[id] = g
			order = append(order, id)
		}
		for i, op := range ops {
			k := shapeKey{op.Mode, op.Reg, op.Indirect, op.Inc}
			if !g.seen[i][k] {
				g.seen[i][k] = true
				g.slots[i] = append(g.slots[i], op.Text)
			}
		}
	}

	tried := 0
	for _, id := range order {
		g := groups[id]
		combine(g.slots, func(texts []string) {
			stmt := m.Arch().Statement(g.mnemonic, texts)
			code, err := m.Assemble(origin, stmt, &assembler.Evaluator{PC: origin})
			if err != nil {
				return
			}
			tried++
			r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: code}, origin)
			switch {
			case err != nil:
				t.Errorf("%s: %q assembles to % X, which does not decode: %v", m.CPU(), stmt, code, err)
			case !strings.EqualFold(r.Entry.Mnemonic, g.mnemonic):
				t.Errorf("%s: %q assembles to % X, which decodes as %q", m.CPU(), stmt, code, r.Text)
			case r.Len() != len(code):
				t.Errorf("%s: %q assembles to %d bytes but decodes %d", m.CPU(), stmt, len(code), r.Len())
			}
		})
	}
	t.Logf("%s: %d operand combinations assembled", m.CPU(), tried)
}

// shapeKey keeps one operand text per parsed form and register.
type shapeKey struct {
	mode     engine.Mode
	reg      engine.RegName
	indirect bool
	inc      int8
}

// combine calls fn with every choice of one text per slot.
func combine(slots [][]string, fn func([]string)) {
	texts := make([]string, len(slots))
	var walk func(i int)
	walk = func(i int) {
		if i == len(slots) {
			fn(texts)
			return
		}
		for _, s := range slots[i] {
			texts[i] = s
			walk(i + 1)
		}
	}
	walk(0)
}

// Deterministic decodes every sample twice and compares the results.
func Deterministic(t *testing.T, m *engine.Module, origin uint32) {
	t.Helper()
	for _, r := range decoded(m, origin) {
		again, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: r.Bytes}, origin)
		if err != nil {
			t.Errorf("% X: second decode failed: %v", r.Bytes, err)
			continue
		}
		if diff := cmp.Diff(r, again); diff != "" {
			t.Errorf("% X decodes differently (-first +second):\n%s", r.Bytes, diff)
		}
	}
}

// Truncated checks that every proper prefix of a decoded instruction fails
// with OverflowRange instead of reading past the input.
func Truncated(t *testing.T, m *engine.Module, origin uint32) {
	t.Helper()
	for _, r := range decoded(m, origin) {
		for n := 0; n < r.Len(); n++ {
			_, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: r.Bytes[:n]}, origin)
			if !errors.Is(err, engine.OverflowRange) {
				t.Errorf("% X cut to %d bytes: got %v, want OverflowRange", r.Bytes, n, err)
			}
		}
	}
}
