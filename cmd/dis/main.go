package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/grimdork/climate/arg"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/Urethramancer/asmkit/arch"
	"github.com/Urethramancer/asmkit/assembler"
	"github.com/Urethramancer/asmkit/disassembler"
	"github.com/Urethramancer/asmkit/internal/config"
)

func main() {
	opt := arg.New("dis")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "c", "cpu", "CPU to decode for ("+strings.Join(arch.CPUs(), ", ")+").", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "o", "origin", "Address of the first byte.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "b", "bytes", "Show addresses and bytes.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "n", "nolabels", "Keep raw target addresses.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "l", "linear", "Decode everything in address order.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "f", "config", "TOML file with defaults.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "t", "tables", "Dump the opcode table and exit.", false, false, arg.VarBool, nil)
	opt.SetPositional("FILE", "Binary files to disassemble.", []string{}, false, arg.VarStringSlice)
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
	if opt.GetBool("tables") {
		spew.Dump(m.Arch().Table)
		return
	}

	opts := disassembler.Options{
		Linear:   cfg.Linear || opt.GetBool("linear"),
		NoLabels: !cfg.LabelsOn() || opt.GetBool("nolabels"),
		Bytes:    opt.GetBool("bytes") || cfg.BytesOn(os.Stdout, term.IsTerminal),
	}
	opts.Origin, err = address(cfg.Origin)
	if err != nil {
		log.Fatalf("Bad origin: %v", err)
	}
	for _, e := range cfg.Entries {
		addr, err := address(e)
		if err != nil {
			log.Fatalf("Bad entry point: %v", err)
		}
		opts.Entries = append(opts.Entries, addr)
	}

	files := opt.GetPosStringSlice("FILE")
	if len(files) == 0 {
		opt.PrintHelp()
		os.Exit(1)
	}

	// Each input gets its own module, so they can be decoded side by side.
	listings := make([]string, len(files))
	var g errgroup.Group
	for i, name := range files {
		g.Go(func() error {
			code, err := os.ReadFile(name)
			if err != nil {
				return err
			}
			m, err := arch.New(cfg.CPU)
			if err != nil {
				return err
			}
			text, err := disassembler.Disassemble(m, code, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			listings[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Disassembly error: %v", err)
	}

	for i, text := range listings {
		if len(files) > 1 {
			fmt.Printf("; %s\n", files[i])
		}
		fmt.Print(text)
	}
}

// address parses an address expression such as "$1000" or ">A000".
func address(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	ev := &assembler.Evaluator{}
	v, err := ev.Eval(s)
	if err != nil {
		return 0, err
	}
	return uint32(v.Int), nil
}
