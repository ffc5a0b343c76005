package disassembler

import (
	"fmt"
	"strings"

	"github.com/Urethramancer/asmkit/engine"
)

const (
	minStrLen    = 4
	bytesPerLine = 16
)

// isPrintableASCII checks if a byte is a standard printable ASCII character.
func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// writeData renders code[start:end] (addresses) as data directives, picking
// out NUL-terminated strings and aligned four-character tags.
func (l *Listing) writeData(out *strings.Builder, start, end uint32, stringCounter *int) {
	data := l.code[start-l.opts.Origin : end-l.opts.Origin]
	n := len(data)
	i := 0

	for i < n {
		// Skip non-printables first
		s := i
		for s < n && !isPrintableASCII(data[s]) {
			s++
		}
		if s > i {
			l.writeHexBytes(out, start+uint32(i), data[i:s])
		}

		// Find printable run
		e := s
		for e < n && isPrintableASCII(data[e]) {
			e++
		}
		if e <= s {
			i = s
			continue
		}

		run := data[s:e]
		runAddr := start + uint32(s)
		isNullTerminated := e < n && data[e] == 0x00

		// printable + NUL, at least minStrLen characters: string
		if isNullTerminated && len(run) >= minStrLen {
			l.writeString(out, runAddr, data[s:e+1], stringCounter, true)
			i = e + 1
			continue
		}

		// four printable characters on a long-word boundary: tag
		if len(run) == 4 && runAddr%4 == 0 {
			l.writeString(out, runAddr, run, stringCounter, false)
			i = e
			continue
		}

		l.writeHexBytes(out, runAddr, run)
		i = e
	}
}

func (l *Listing) writeString(out *strings.Builder, addr uint32, data []byte, stringCounter *int, terminated bool) {
	a := l.module.Arch()
	text := data
	if terminated {
		text = data[:len(data)-1]
	}
	escaped := strings.ReplaceAll(string(text), "'", "''")
	stmt := fmt.Sprintf("%s '%s'", a.DataByte, escaped)
	if terminated {
		stmt += "," + engine.Hex(a.HexPrefix, 0, 2)
	}

	if !l.opts.NoLabels {
		fmt.Fprintf(out, "string%d:\n", *stringCounter)
		(*stringCounter)++
	}
	if l.opts.Bytes {
		// Long strings would swamp the byte column.
		data = data[:min(len(data), a.MaxLength)]
	}
	l.writeLine(out, addr, data, stmt)
}

// writeHexBytes formats data as byte directives, 16 bytes per line or as
// many as fit the byte column.
func (l *Listing) writeHexBytes(out *strings.Builder, addr uint32, data []byte) {
	a := l.module.Arch()
	perLine := bytesPerLine
	if l.opts.Bytes {
		perLine = a.MaxLength
	}
	for i := 0; i < len(data); i += perLine {
		chunk := data[i:min(i+perLine, len(data))]
		vals := make([]string, len(chunk))
		for j, b := range chunk {
			vals[j] = engine.Hex(a.HexPrefix, uint32(b), 2)
		}
		l.writeLine(out, addr+uint32(i), chunk, a.DataByte+" "+strings.Join(vals, ","))
	}
}
