package z80_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Urethramancer/asmkit/arch/z80"
	"github.com/Urethramancer/asmkit/assembler"
	"github.com/Urethramancer/asmkit/engine"
	"github.com/Urethramancer/asmkit/internal/archtest"
)

const origin = 0x0100

func TestTable(t *testing.T) {
	archtest.Validate(t, z80.Arch.Table)
}

func TestProperties(t *testing.T) {
	for _, cpu := range []string{"z80", "z180"} {
		t.Run(cpu, func(t *testing.T) {
			m := z80.New()
			if err := m.SetVariant(cpu); err != nil {
				t.Fatal(err)
			}
			archtest.RoundTrip(t, m, 0x4000)
			archtest.Mixed(t, m, 0x4000)
			archtest.Deterministic(t, m, 0x4000)
			archtest.Truncated(t, m, 0x4000)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		Code string
		Want string
	}{
		{"00", "NOP"},
		{"78", "LD A,B"},
		{"3E 12", "LD A,$12"},
		{"21 34 12", "LD HL,$1234"},
		{"7E", "LD A,(HL)"},
		{"18 FE", "JR $0100"},
		{"20 05", "JR NZ,$0107"},
		{"CD 00 20", "CALL $2000"},
		{"C8", "RET Z"},
		{"FF", "RST $38"},
		{"08", "EX AF,AF'"},
		{"DB FE", "IN A,($FE)"},
		{"CB 7E", "BIT 7,(HL)"},
		{"ED B0", "LDIR"},
		{"ED 4B 34 12", "LD BC,($1234)"},
		{"ED 78", "IN A,(C)"},
		{"ED 56", "IM 1"},
		{"DD 21 00 80", "LD IX,$8000"},
		{"DD 7E 05", "LD A,(IX+$05)"},
		{"FD 36 FE 42", "LD (IY-$02),$42"},
		{"DD E9", "JP (IX)"},
	}
	m := z80.New()
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

func TestEncode(t *testing.T) {
	tests := []struct {
		Source string
		Want   string
	}{
		{"LD A,B", "78"},
		{"ld a,b", "78"},
		{"LD A,$FF", "3E FF"},
		{"LD A,-1", "3E FF"},
		{"LD HL,($1234)", "2A 34 12"},
		{"LD DE,($1234)", "ED 5B 34 12"},
		{"LD A,(IX-$01)", "DD 7E FF"},
		{"LD (IY+5),A", "FD 77 05"},
		{"JR $0100", "18 FE"},
		{"jr nz,$0110", "20 0E"},
		{"JP C,$1234", "DA 34 12"},
		{"RET C", "D8"},
		{"PUSH AF", "F5"},
		{"PUSH IY", "FD E5"},
		{"RST $08", "CF"},
		{"IM 2", "ED 5E"},
		{"EX AF,AF'", "08"},
		{"OUT (C),A", "ED 79"},
		{"OUT ($10),A", "D3 10"},
		{"SET 0,B", "CB C0"},
		{"ADD IX,IX", "DD 29"},
		{"LD (HL),B", "70"},
		{"LD B,(HL)", "46"},
		{"HALT", "76"},
	}
	m := z80.New()
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
		{"FOO", engine.UnknownInstruction},
		{"LD BC,HL", engine.OperandNotAllowed},
		{"IM 3", engine.OperandNotAllowed},
		{"LD A,$100", engine.OverflowRange},
		{"LD HL,$10000", engine.OverflowRange},
		{"JR $0200", engine.OverflowRange},
		{"RST $09", engine.OverflowRange},
		{"LD (IX+$80),A", engine.OverflowRange},
		{"BIT 8,A", engine.OverflowRange},
		{"LD A,(AF)", engine.OperandNotAllowed},
		{"LD (HL),(HL)", engine.OperandNotAllowed},
	}
	m := z80.New()
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
	decode := []struct {
		Code string
		Want string
	}{
		{"ED 4C", "MLT BC"},
		{"ED 76", "SLP"},
		{"ED 34", "TST (HL)"},
		{"ED 00 10", "IN0 B,($10)"},
	}
	encode := []struct {
		Source string
		Want   string
	}{
		{"MLT HL", "ED 6C"},
		{"TST $0F", "ED 64 0F"},
		{"OTIMR", "ED 93"},
	}

	m := z80.New()
	for _, test := range decode {
		_, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: archtest.Bytes(test.Code)}, origin)
		if !errors.Is(err, engine.UnknownInstruction) {
			t.Errorf("z80 decodes %s: %v", test.Code, err)
		}
	}
	for _, test := range encode {
		_, err := m.Assemble(origin, test.Source, &assembler.Evaluator{})
		if !errors.Is(err, engine.UnknownInstruction) {
			t.Errorf("z80 assembles %s: %v", test.Source, err)
		}
	}

	if err := m.SetVariant("Z180"); err != nil {
		t.Fatal(err)
	}
	for _, test := range decode {
		r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: archtest.Bytes(test.Code)}, origin)
		if err != nil {
			t.Error(err)
			continue
		}
		if r.Text != test.Want {
			t.Errorf("got %q, want %q", r.Text, test.Want)
		}
	}
	for _, test := range encode {
		got, err := m.Assemble(origin, test.Source, &assembler.Evaluator{})
		if err != nil {
			t.Error(err)
			continue
		}
		if want := archtest.Bytes(test.Want); !bytes.Equal(got, want) {
			t.Errorf("%s: got % X, want % X", test.Source, got, want)
		}
	}
}

func TestReturnFlags(t *testing.T) {
	m := z80.New()
	for _, code := range []string{"C9", "ED 45", "ED 4D"} {
		r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: archtest.Bytes(code)}, origin)
		if err != nil {
			t.Fatal(err)
		}
		if r.Entry.Flags != engine.Return {
			t.Errorf("%s: flags %v", r.Text, r.Entry.Flags)
		}
	}
}
