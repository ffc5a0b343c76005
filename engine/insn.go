package engine

import (
	"encoding/binary"
)

// ByteOrder reads and appends multi-byte operands. binary.BigEndian and
// binary.LittleEndian both satisfy it.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Memory is the byte-addressable view the decoder reads from.
type Memory interface {
	// Byte returns the byte at addr and whether it is present.
	Byte(addr uint32) (byte, bool)
}

// Bytes is a Memory backed by a slice loaded at Origin.
type Bytes struct {
	Origin uint32
	Data   []byte
}

// Byte implements Memory.
func (b Bytes) Byte(addr uint32) (byte, bool) {
	if addr < b.Origin {
		return 0, false
	}
	off := addr - b.Origin
	if off >= uint32(len(b.Data)) {
		return 0, false
	}
	return b.Data[off], true
}

// Insn is the cursor of one decode call. It is owned by that call and
// discarded when it returns.
type Insn struct {
	Address uint32
	Entry   *Entry
	Opcode  uint32 // the opcode unit that selected Entry
	Prefix  uint32
	// HasPrefix is set when Entry came from a prefixed page.
	HasPrefix bool
	// Target is a branch or jump destination resolved by operand dispatch.
	Target    uint32
	HasTarget bool
	// State is scratch space for values one operand resolves for a later one.
	State uint32

	mem   Memory
	order ByteOrder
	max   int
	bytes []byte
}

func newInsn(mem Memory, addr uint32, order ByteOrder, max int) *Insn {
	return &Insn{Address: addr, mem: mem, order: order, max: max}
}

// Len returns the number of bytes consumed so far.
func (in *Insn) Len() int {
	return len(in.bytes)
}

// Bytes returns the bytes consumed so far.
func (in *Insn) Bytes() []byte {
	return in.bytes
}

// Next returns the address of the first unread byte.
func (in *Insn) Next() uint32 {
	return in.Address + uint32(len(in.bytes))
}

// Peek returns the byte off bytes past the cursor without consuming it.
func (in *Insn) Peek(off int) (byte, error) {
	addr := in.Next() + uint32(off)
	b, ok := in.mem.Byte(addr)
	if !ok {
		return 0, Errorf(OverflowRange, in.Address, "no memory at $%04X", addr)
	}
	return b, nil
}

// ReadByte consumes one byte.
func (in *Insn) ReadByte() (byte, error) {
	if len(in.bytes) >= in.max {
		return 0, Errorf(OverflowRange, in.Address, "instruction longer than %d bytes", in.max)
	}
	addr := in.Next()
	b, ok := in.mem.Byte(addr)
	if !ok {
		return 0, Errorf(OverflowRange, in.Address, "no memory at $%04X", addr)
	}
	in.bytes = append(in.bytes, b)
	return b, nil
}

// ReadUint16 consumes a word in the architecture's byte order.
func (in *Insn) ReadUint16() (uint16, error) {
	var buf [2]byte
	for i := range buf {
		b, err := in.ReadByte()
		if err != nil {
			return 0, err
		}
		buf[i] = b
	}
	return in.order.Uint16(buf[:]), nil
}

// ReadUint32 consumes a long word in the architecture's byte order.
func (in *Insn) ReadUint32() (uint32, error) {
	var buf [4]byte
	for i := range buf {
		b, err := in.ReadByte()
		if err != nil {
			return 0, err
		}
		buf[i] = b
	}
	return in.order.Uint32(buf[:]), nil
}

// readUnit consumes one opcode unit of width bytes.
func (in *Insn) readUnit(width int) (uint32, error) {
	if width == 2 {
		w, err := in.ReadUint16()
		return uint32(w), err
	}
	b, err := in.ReadByte()
	return uint32(b), err
}

// SetTarget records the resolved destination of a control transfer.
func (in *Insn) SetTarget(addr uint32) {
	in.Target = addr
	in.HasTarget = true
}

// Code is the cursor of one encode call: the opcode with its operand fields
// being filled in, and the operand bytes that follow it.
type Code struct {
	Address  uint32
	Entry    *Entry
	Opcode   uint32
	Operands []Operand
	// State is scratch space shared by the operand encoders of one instruction.
	State uint32

	prefix    uint32
	hasPrefix bool
	width     int
	order     ByteOrder
	ext       []byte
}

// Offset returns the length of the instruction emitted so far, counting the
// prefix and opcode units.
func (c *Code) Offset() int {
	n := c.width + len(c.ext)
	if c.hasPrefix {
		n += c.width
	}
	return n
}

// Emit8 appends one operand byte.
func (c *Code) Emit8(b byte) {
	c.ext = append(c.ext, b)
}

// Emit16 appends an operand word in the architecture's byte order.
func (c *Code) Emit16(v uint16) {
	c.ext = c.order.AppendUint16(c.ext, v)
}

// Emit32 appends an operand long word in the architecture's byte order.
func (c *Code) Emit32(v uint32) {
	c.ext = c.order.AppendUint32(c.ext, v)
}

// Bytes assembles prefix, opcode and operand bytes.
func (c *Code) Bytes() []byte {
	out := make([]byte, 0, c.Offset())
	if c.hasPrefix {
		out = c.appendUnit(out, c.prefix)
	}
	out = c.appendUnit(out, c.Opcode)
	return append(out, c.ext...)
}

func (c *Code) appendUnit(out []byte, v uint32) []byte {
	if c.width == 2 {
		return c.order.AppendUint16(out, uint16(v))
	}
	return append(out, byte(v))
}
