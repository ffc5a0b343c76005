package engine

import "fmt"

// SignExtend reinterprets the low bits of v as a signed integer of that width.
func SignExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// FitsSigned reports whether v is representable in a signed field of bits width.
func FitsSigned(v int64, bits uint) bool {
	lim := int64(1) << (bits - 1)
	return v >= -lim && v < lim
}

// FitsUnsigned reports whether v is representable in an unsigned field of bits width.
func FitsUnsigned(v int64, bits uint) bool {
	return v >= 0 && v < int64(1)<<bits
}

// FitsEither reports whether v fits a field of bits width read as signed or unsigned,
// the way immediates are usually accepted.
func FitsEither(v int64, bits uint) bool {
	return FitsSigned(v, bits) || FitsUnsigned(v, bits)
}

// Paging splits addresses into a page and an in-page offset.
type Paging struct {
	OffsetBits uint // width of the in-page offset
}

// Size returns the page size in bytes.
func (p Paging) Size() uint32 {
	return 1 << p.OffsetBits
}

// Page returns addr with its in-page bits cleared.
func (p Paging) Page(addr uint32) uint32 {
	return addr &^ (p.Size() - 1)
}

// Offset returns the in-page part of addr.
func (p Paging) Offset(addr uint32) uint32 {
	return addr & (p.Size() - 1)
}

// Add moves addr by delta without leaving its page: the offset wraps.
func (p Paging) Add(addr uint32, delta int32) uint32 {
	return p.Page(addr) | p.Offset(addr+uint32(delta))
}

// Delta returns the signed in-page distance from base to target. Both
// must be in the same page; the result is normalised to the shortest wrap.
func (p Paging) Delta(base, target uint32) (int32, error) {
	if p.Page(base) != p.Page(target) {
		return 0, fmt.Errorf("$%04X is not in page $%04X", target, p.Page(base))
	}
	d := p.Offset(target - base)
	return SignExtend(d, p.OffsetBits), nil
}

// Hex formats v with a radix prefix and at least digits hex digits.
func Hex(prefix string, v uint32, digits int) string {
	return fmt.Sprintf("%s%0*X", prefix, digits, v)
}
