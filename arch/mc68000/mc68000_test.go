package mc68000_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/Urethramancer/asmkit/arch/mc68000"
	"github.com/Urethramancer/asmkit/assembler"
	"github.com/Urethramancer/asmkit/engine"
	"github.com/Urethramancer/asmkit/internal/archtest"
)

const origin = 0x1000

func TestTable(t *testing.T) {
	archtest.Validate(t, mc68000.Arch.Table)
}

func TestProperties(t *testing.T) {
	for _, cpu := range []string{"68000", "68010"} {
		t.Run(cpu, func(t *testing.T) {
			m := mc68000.New()
			if err := m.SetVariant(cpu); err != nil {
				t.Fatal(err)
			}
			// Above 64K, so that PC-relative targets never wrap below zero.
			archtest.RoundTrip(t, m, 0x10000)
			archtest.Mixed(t, m, 0x10000)
			archtest.Deterministic(t, m, 0x10000)
			archtest.Truncated(t, m, 0x10000)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		Code string
		Want string
	}{
		{"4E71", "nop"},
		{"4E75", "rts"},
		{"7005", "moveq #5,d0"},
		{"70FF", "moveq #-1,d0"},
		{"3001", "move.w d1,d0"},
		{"203C 12345678", "move.l #$12345678,d0"},
		{"3228 FFFC", "move.w (-4,a0),d1"},
		{"41FA 0010", "lea $1012(pc),a0"},
		{"6000 0010", "bra $1012"},
		{"6604", "bne $1006"},
		{"51C8 FFFE", "dbra d0,$1000"},
		{"0640 0005", "addi.w #5,d0"},
		{"D041", "add.w d1,d0"},
		{"4E4F", "trap #15"},
		{"E388", "lsl.l #1,d0"},
		{"4A79 00001234", "tst.w $1234.l"},
		{"4EB8 2000", "jsr $2000.w"},
		{"4218", "clr.b (a0)+"},
		{"0000 00FF", "ori.b #-1,d0"},
		{"0000 FFFF", "ori.b #-1,d0"},
		{"5248", "addq.w #1,a0"},
		{"B048", "cmp.w a0,d0"},
	}
	m := mc68000.New()
	for _, test := range tests {
		t.Run(test.Want, func(t *testing.T) {
			code := archtest.Bytes(test.Code)
			r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: code}, origin)
			if err != nil {
				t.Fatal(err)
			}
			if r.Text != test.Want {
				t.Errorf("got %q, want %q", r.Text, test.Want)
			}
			if r.Len() != len(code) {
				t.Errorf("length %d, want %d", r.Len(), len(code))
			}
		})
	}
}

// Byte operations have no address-register direct form, and a byte
// immediate only sign-extends into its extension word.
func TestDecodeUnknown(t *testing.T) {
	m := mc68000.New()
	for _, code := range []string{"5208", "5308", "B008", "D008", "9008", "1008", "0000 12FF"} {
		_, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: archtest.Bytes(code)}, origin)
		if !errors.Is(err, engine.UnknownInstruction) {
			t.Errorf("%s: got %v, want UnknownInstruction", code, err)
		}
	}
}

func TestTargets(t *testing.T) {
	tests := []struct {
		Code   string
		Target uint32
		Flags  engine.Flags
	}{
		{"6000 0010", 0x1012, engine.Jump},
		{"6104", 0x1006, engine.Call},
		{"6704", 0x1006, engine.Branch},
		{"4EB9 00012345", 0x12345, engine.Call},
	}
	m := mc68000.New()
	for _, test := range tests {
		r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: archtest.Bytes(test.Code)}, origin)
		if err != nil {
			t.Fatal(err)
		}
		if !r.HasTarget || r.Target != test.Target {
			t.Errorf("%s: target $%X (%v), want $%X", r.Text, r.Target, r.HasTarget, test.Target)
		}
		if r.Entry.Flags != test.Flags {
			t.Errorf("%s: flags %v, want %v", r.Text, r.Entry.Flags, test.Flags)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		Source string
		Want   string
	}{
		{"nop", "4E71"},
		{"moveq #-1,d0", "70FF"},
		{"move.l #$12345678,d0", "203C 12345678"},
		{"move d1,d0", "3001"},
		{"MOVE.W D1,D0", "3001"},
		{"move.w (sp)+,d0", "301F"},
		{"move.w #$FFFF,d0", "303C FFFF"},
		{"movea.l a0,a1", "2248"},
		{"bra $1012", "6010"},
		{"bra $1002", "6000 0000"},
		{"lea $1012(pc),a0", "41FA 0010"},
		{"add.w d1,d0", "D041"},
		{"jsr $2000", "4EB8 2000"},
		{"jsr $12345", "4EB9 00012345"},
		{"dbra d0,$1000", "51C8 FFFE"},
		{"clr.b (a0)+", "4218"},
		{"addq.l #8,d3", "5083"},
		{"addq.w #1,a0", "5248"},
		{"cmp.b d1,d0", "B001"},
		{"move.b (a0),d0", "1010"},
	}
	m := mc68000.New()
	for _, test := range tests {
		t.Run(test.Source, func(t *testing.T) {
			got, err := m.Assemble(origin, test.Source, &assembler.Evaluator{PC: origin})
			if err != nil {
				t.Fatal(err)
			}
			if want := archtest.Bytes(test.Want); !bytes.Equal(got, want) {
				t.Errorf("got % X, want % X", got, want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		Source string
		Kind   engine.ErrorKind
	}{
		{"frob d0", engine.UnknownInstruction},
		{"moveq #1,a0", engine.OperandNotAllowed},
		{"move.w #$10000,d0", engine.OverflowRange},
		{"addq.w #9,d0", engine.OverflowRange},
		{"moveq #300,d0", engine.OverflowRange},
		{"bra $20000", engine.OverflowRange},
		{"trap #16", engine.OverflowRange},
		{"move.w $1234.w,(0,a0,a9)", engine.OperandNotAllowed},
		{"addq.b #1,a0", engine.OperandNotAllowed},
		{"subq.b #1,a0", engine.OperandNotAllowed},
		{"cmp.b a0,d0", engine.OperandNotAllowed},
		{"add.b a0,d0", engine.OperandNotAllowed},
		{"sub.b a0,d0", engine.OperandNotAllowed},
		{"move.b a0,d0", engine.OperandNotAllowed},
	}
	m := mc68000.New()
	for _, test := range tests {
		t.Run(test.Source, func(t *testing.T) {
			_, err := m.Assemble(origin, test.Source, &assembler.Evaluator{PC: origin})
			if !errors.Is(err, test.Kind) {
				t.Errorf("got %v, want %v", err, test.Kind)
			}
		})
	}
}

func TestVariants(t *testing.T) {
	code := engine.Bytes{Origin: origin, Data: archtest.Bytes("4E74 0004")}
	m := mc68000.New()

	if _, err := m.DecodeOne(code, origin); !errors.Is(err, engine.UnknownInstruction) {
		t.Errorf("68000 decodes rtd: %v", err)
	}
	if _, err := m.Assemble(origin, "rtd #4", &assembler.Evaluator{}); !errors.Is(err, engine.UnknownInstruction) {
		t.Errorf("68000 assembles rtd: %v", err)
	}

	if err := m.SetVariant("68010"); err != nil {
		t.Fatal(err)
	}
	r, err := m.DecodeOne(code, origin)
	if err != nil {
		t.Fatal(err)
	}
	if r.Text != "rtd #4" {
		t.Errorf("got %q, want %q", r.Text, "rtd #4")
	}
	if r.Entry.Flags != engine.Return {
		t.Errorf("rtd flags %v", r.Entry.Flags)
	}
}

func TestConcurrentDecode(t *testing.T) {
	code := engine.Bytes{Origin: origin, Data: archtest.Bytes("203C 12345678 41FA 0010 4E75")}
	want := []string{"move.l #$12345678,d0", "lea $1018(pc),a0", "rts"}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m := mc68000.New()
			addr := uint32(origin)
			for _, w := range want {
				r, err := m.DecodeOne(code, addr)
				if err != nil {
					t.Error(err)
					return
				}
				if r.Text != w {
					t.Errorf("$%04X: got %q, want %q", addr, r.Text, w)
				}
				addr += uint32(r.Len())
			}
		}()
	}
	wg.Wait()
}
