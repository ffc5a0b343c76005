package tms9900

import (
	"fmt"

	"github.com/Urethramancer/asmkit/engine"
)

// Workspace registers R0-R15 have tags 0-15. R11 is the BL link register.
const (
	R0  engine.RegName = 0
	R11 engine.RegName = 11
)

var registers = buildRegisters()

func buildRegisters() *engine.Registers {
	entries := make([]engine.RegEntry, 16)
	for i := range entries {
		entries[i] = engine.RegEntry{Name: engine.RegName(i), Text: fmt.Sprintf("r%d", i)}
	}
	return engine.NewRegisters(entries...)
}
