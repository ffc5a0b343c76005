package arch_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Urethramancer/asmkit/arch"
)

func TestCPUs(t *testing.T) {
	want := []string{"2650", "68000", "68010", "tms9900", "tms9995", "z180", "z80"}
	if diff := cmp.Diff(want, arch.CPUs()); diff != "" {
		t.Errorf("CPUs() mismatch (-want +got):\n%s", diff)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		CPU    string
		Family string
		Active string
	}{
		{"68000", "m68k", "68000"},
		{"68010", "m68k", "68010"},
		{"Z180", "z80", "z180"},
		{"tms9995", "tms9900", "tms9995"},
		{"2650", "2650", "2650"},
	}
	for _, test := range tests {
		m, err := arch.New(test.CPU)
		if err != nil {
			t.Fatal(err)
		}
		if m.Arch().Family != test.Family || m.CPU() != test.Active {
			t.Errorf("New(%q) = %s/%s, want %s/%s", test.CPU, m.Arch().Family, m.CPU(), test.Family, test.Active)
		}
	}

	if _, err := arch.New("6502"); err == nil {
		t.Error("New(\"6502\") succeeded")
	}
}

// Modules are independent: changing one variant leaves the others alone.
func TestModulesIndependent(t *testing.T) {
	a, err := arch.New("z80")
	if err != nil {
		t.Fatal(err)
	}
	b, err := arch.New("z80")
	if err != nil {
		t.Fatal(err)
	}
	if err := b.SetVariant("z180"); err != nil {
		t.Fatal(err)
	}
	if a.CPU() != "z80" || b.CPU() != "z180" {
		t.Errorf("got %s and %s", a.CPU(), b.CPU())
	}
	if a.Arch() != b.Arch() {
		t.Error("modules do not share the architecture")
	}
}
