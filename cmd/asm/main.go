package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/grimdork/climate/arg"

	"github.com/Urethramancer/asmkit/arch"
	"github.com/Urethramancer/asmkit/assembler"
	"github.com/Urethramancer/asmkit/internal/config"
)

func main() {
	opt := arg.New("asm")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "c", "cpu", "CPU to assemble for ("+strings.Join(arch.CPUs(), ", ")+").", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "o", "origin", "Address of the first statement.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "w", "write", "Write the binary to this file instead of printing hex.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "f", "config", "TOML file with defaults.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "s", "symbols", "Print the symbol table.", false, false, arg.VarBool, nil)
	opt.SetPositional("SOURCE", "Source file to assemble.", "", true, arg.VarString)
	err := opt.Parse(os.Args[1:])
	if err != nil {
		if err == arg.ErrNoArgs {
			opt.PrintHelp()
			return
		}
		log.Fatalf("Error parsing arguments: %v", err)
	}

	cfg, err := config.Load(opt.GetString("config"))
	if err != nil {
		log.Fatalf("Error reading config: %v", err)
	}
	if s := opt.GetString("cpu"); s != "" {
		cfg.CPU = s
	}
	if cfg.CPU == "" {
		cfg.CPU = "68000"
	}
	if s := opt.GetString("origin"); s != "" {
		cfg.Origin = s
	}

	m, err := arch.New(cfg.CPU)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var origin uint32
	if cfg.Origin != "" {
		v, err := (&assembler.Evaluator{}).Eval(cfg.Origin)
		if err != nil {
			log.Fatalf("Bad origin: %v", err)
		}
		origin = uint32(v.Int)
	}

	data, err := os.ReadFile(opt.GetPosString("SOURCE"))
	if err != nil {
		log.Fatalf("Error reading source: %v", err)
	}

	asm := assembler.New(m)
	code, err := asm.Assemble(string(data), origin)
	if err != nil {
		log.Fatalf("%s: %v", opt.GetPosString("SOURCE"), err)
	}

	if opt.GetBool("symbols") {
		printSymbols(asm.Symbols())
	}

	if out := opt.GetString("write"); out != "" {
		if err := os.WriteFile(out, code, 0644); err != nil {
			log.Fatalf("Error writing output file: %v", err)
		}
		fmt.Printf("%d bytes written to %s\n", len(code), out)
		return
	}

	// Print the bytes as hex in opcode-sized groups.
	width := m.Arch().OpcodeWidth
	for i := 0; i < len(code); i += width {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Printf("%X", code[i:min(i+width, len(code))])
	}
	fmt.Println()
}
