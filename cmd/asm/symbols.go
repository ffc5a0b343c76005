package main

import (
	"fmt"
	"sort"
)

func printSymbols(symbols map[string]int64) {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-16s $%04X\n", name, symbols[name])
	}
}
