// Package arch collects the instruction sets and finds one by CPU name.
package arch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Urethramancer/asmkit/arch/mc68000"
	"github.com/Urethramancer/asmkit/arch/scn2650"
	"github.com/Urethramancer/asmkit/arch/tms9900"
	"github.com/Urethramancer/asmkit/arch/z80"
	"github.com/Urethramancer/asmkit/engine"
)

// All lists every architecture.
var All = []*engine.Arch{
	mc68000.Arch,
	scn2650.Arch,
	tms9900.Arch,
	z80.Arch,
}

// New returns a module for the named CPU with that variant active.
func New(cpu string) (*engine.Module, error) {
	for _, a := range All {
		for _, c := range a.CPUs {
			if strings.EqualFold(c.Name, cpu) {
				m := engine.NewModule(a)
				return m, m.SetVariant(c.Name)
			}
		}
	}
	return nil, fmt.Errorf("unknown CPU %q (known: %s)", cpu, strings.Join(CPUs(), ", "))
}

// CPUs returns every CPU name, sorted.
func CPUs() []string {
	var names []string
	for _, a := range All {
		for _, c := range a.CPUs {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}
