package scn2650_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Urethramancer/asmkit/arch/scn2650"
	"github.com/Urethramancer/asmkit/assembler"
	"github.com/Urethramancer/asmkit/engine"
	"github.com/Urethramancer/asmkit/internal/archtest"
)

const origin = 0x0100

func TestTable(t *testing.T) {
	archtest.Validate(t, scn2650.Arch.Table)
}

func TestProperties(t *testing.T) {
	m := scn2650.New()
	archtest.RoundTrip(t, m, origin)
	archtest.Mixed(t, m, origin)
	archtest.Deterministic(t, m, origin)
	archtest.Truncated(t, m, origin)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		Code string
		Want string
	}{
		{"04 12", "lodi,r0 $12"},
		{"05 12", "lodi,r1 $12"},
		{"01", "lodz r1"},
		{"C1", "strz r1"},
		{"C0", "nop"},
		{"40", "halt"},
		{"0C 01 23", "loda,r0 $0123"},
		{"0C 81 23", "loda,r0 *$0123"},
		{"0E 21 23", "loda,r0 $0123,r2,+"},
		{"0D 41 23", "loda,r0 $0123,r1,-"},
		{"0F 61 23", "loda,r0 $0123,r3"},
		{"08 7F", "lodr,r0 $0101"},
		{"08 81", "lodr,r0 *$0103"},
		{"1B 7E", "bctr,un $0100"},
		{"18 04", "bctr,eq $0106"},
		{"1F 20 00", "bcta,un $2000"},
		{"17", "retc,un"},
		{"14", "retc,eq"},
		{"9B 10", "zbrr $0010"},
		{"9F 01 00", "bxa $0100,r3"},
		{"B4 40", "tpsu $40"},
		{"F5 0F", "tmi,r1 $0F"},
	}
	m := scn2650.New()
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

// Relative operands wrap within their 8K page.
func TestPageWrap(t *testing.T) {
	tests := []struct {
		Addr uint32
		Code string
		Want string
	}{
		{0x0000, "08 40", "lodr,r0 $1FC2"},
		{0x1FFE, "08 01", "lodr,r0 $0001"},
		{0x2000, "08 40", "lodr,r0 $3FC2"},
		{0x0100, "9B 7F", "zbrr $1FFF"},
	}
	m := scn2650.New()
	for _, test := range tests {
		code := archtest.Bytes(test.Code)
		r, err := m.DecodeOne(engine.Bytes{Origin: test.Addr, Data: code}, test.Addr)
		if err != nil {
			t.Fatal(err)
		}
		if r.Text != test.Want {
			t.Errorf("$%04X: got %q, want %q", test.Addr, r.Text, test.Want)
		}
		got, err := m.Assemble(test.Addr, r.Text, &assembler.Evaluator{PC: test.Addr})
		if err != nil {
			t.Errorf("$%04X: %v", test.Addr, err)
			continue
		}
		if !bytes.Equal(got, code) {
			t.Errorf("$%04X: %q assembles to % X, want % X", test.Addr, r.Text, got, code)
		}
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		Source string
		Want   string
	}{
		{"lodi,r1 $12", "05 12"},
		{"LODI,R1 $12", "05 12"},
		{"lodz r2", "02"},
		{"stra,r1 $0123", "CD 01 23"},
		{"loda,r0 $0123,r1,+", "0D 21 23"},
		{"loda,r0 *$0123,r2", "0E E1 23"},
		{"bcta,un $1234", "1F 12 34"},
		{"bcta,eq $1234", "1C 12 34"},
		{"bctr,un $0100", "1B 7E"},
		{"bctr,gt *$0110", "19 8E"},
		{"bxa $0100,r3", "9F 01 00"},
		{"retc,un", "17"},
		{"retc,gt", "15"},
		{"cpsl $FF", "75 FF"},
	}
	m := scn2650.New()
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
		{"frob,r0", engine.UnknownInstruction},
		{"andz r0", engine.OperandNotAllowed},
		{"bcfr,un $0100", engine.OperandNotAllowed},
		{"loda,r1 $0123,r2", engine.OperandNotAllowed},
		{"lodi,r0 *$12", engine.OperandNotAllowed},
		{"loda,r0 $0123,r1,x", engine.OperandNotAllowed},
		{"lodi,r0 $100", engine.OverflowRange},
		{"bctr,eq $0200", engine.OverflowRange},
		{"loda,r0 $2000", engine.OverflowRange},
		{"bsta,un $8000", engine.OverflowRange},
	}
	m := scn2650.New()
	for _, test := range tests {
		t.Run(test.Source, func(t *testing.T) {
			_, err := m.Assemble(origin, test.Source, &assembler.Evaluator{PC: origin})
			if !errors.Is(err, test.Kind) {
				t.Errorf("got %v, want %v", err, test.Kind)
			}
		})
	}
}

func TestFlags(t *testing.T) {
	tests := []struct {
		Code   string
		Flags  engine.Flags
		Target uint32
	}{
		{"1F 20 00", engine.Jump, 0x2000},
		{"1C 20 00", engine.Branch, 0x2000},
		{"3F 20 00", engine.Call, 0x2000},
		{"17", engine.Return, 0},
	}
	m := scn2650.New()
	for _, test := range tests {
		r, err := m.DecodeOne(engine.Bytes{Origin: origin, Data: archtest.Bytes(test.Code)}, origin)
		if err != nil {
			t.Fatal(err)
		}
		if r.Entry.Flags != test.Flags {
			t.Errorf("%s: flags %v, want %v", r.Text, r.Entry.Flags, test.Flags)
		}
		if r.Target != test.Target {
			t.Errorf("%s: target $%04X, want $%04X", r.Text, r.Target, test.Target)
		}
	}
}
