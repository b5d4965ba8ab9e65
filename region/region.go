// Package region implements byte-addressable, endian-aware memory
// regions with bit-precise read/write, and an interval map of
// regions keyed by address range.
package region

import (
	"errors"
	"fmt"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/bitvec"
)

// Endian selects the byte order a Region's bytes are interpreted under.
type Endian int

const (
	// LittleEndian interprets the least-significant byte first.
	LittleEndian Endian = iota
	// BigEndian interprets the most-significant byte first.
	BigEndian
)

// IOErrorKind enumerates why a Region read/write/view failed.
type IOErrorKind int

const (
	// ErrRange means the requested range's byte offset isn't
	// representable as a host index (address difference overflow).
	ErrRange IOErrorKind = iota
	// ErrOOBRead means a read/view request fell outside the region.
	ErrOOBRead
	// ErrOOBWrite means a write/view-mut request fell outside the region.
	ErrOOBWrite
)

// IOError reports a Region I/O failure.
type IOError struct {
	Kind IOErrorKind
	Name string
}

func (e *IOError) Error() string {
	switch e.Kind {
	case ErrRange:
		return fmt.Sprintf("region %q: address range not representable", e.Name)
	case ErrOOBWrite:
		return fmt.Sprintf("region %q: out-of-bounds write", e.Name)
	default:
		return fmt.Sprintf("region %q: out-of-bounds read", e.Name)
	}
}

// ErrZeroLength is returned by New when len==0 (a programming error).
var ErrZeroLength = errors.New("region: zero length")

// Region is a named, half-open byte range at a fixed base address,
// interpreted under a fixed endianness.
type Region struct {
	name   string
	start  addr.Address
	length uint64
	endian Endian
	bytes  []byte
}

// New builds a Region of the given name starting at start, with the
// given endianness and owned byte contents. Panics if bytes is empty
// or if start+len(bytes) overflows the address width: both are
// programming errors, not recoverable runtime conditions.
func New(name string, start addr.Address, endian Endian, bytes []byte) *Region {
	if len(bytes) == 0 {
		panic(ErrZeroLength)
	}
	end := start.AddUsize(uint64(len(bytes)))
	if end.Less(start) {
		panic(fmt.Errorf("region %q: address range overflow", name))
	}
	return &Region{name: name, start: start, length: uint64(len(bytes)), endian: endian, bytes: bytes}
}

// Name returns the region's name.
func (r *Region) Name() string { return r.name }

// Start returns the region's base address.
func (r *Region) Start() addr.Address { return r.start }

// Length returns the region's length in bytes.
func (r *Region) Length() uint64 { return r.length }

// End returns the address immediately past the region (start+length).
func (r *Region) End() addr.Address { return r.start.AddUsize(r.length) }

// Endian returns the region's byte order.
func (r *Region) Endian() Endian { return r.endian }

// ContainsPoint reports whether a lies within [start, start+length).
func (r *Region) ContainsPoint(a addr.Address) bool {
	return !a.Less(r.start) && a.Less(r.End())
}

// ContainsRange reports whether [a, a+count) lies fully within the region.
func (r *Region) ContainsRange(a addr.Address, count uint64) bool {
	if count == 0 {
		return false
	}
	end := a.AddUsize(count)
	return !a.Less(r.start) && !end.Less(a) && !r.End().Less(end)
}

func (r *Region) offsetOf(a addr.Address) (uint64, error) {
	if a.Less(r.start) {
		return 0, &IOError{Kind: ErrRange, Name: r.name}
	}
	return a.AbsoluteDifference(r.start), nil
}

// ViewBytes returns a read-only slice of count bytes starting at a.
func (r *Region) ViewBytes(a addr.Address, count uint64) ([]byte, error) {
	if !r.ContainsRange(a, count) {
		return nil, &IOError{Kind: ErrOOBRead, Name: r.name}
	}
	off, err := r.offsetOf(a)
	if err != nil {
		return nil, err
	}
	return r.bytes[off : off+count], nil
}

// ViewBytesFrom returns a read-only slice from a to the end of the region.
func (r *Region) ViewBytesFrom(a addr.Address) ([]byte, error) {
	if !r.ContainsPoint(a) {
		return nil, &IOError{Kind: ErrOOBRead, Name: r.name}
	}
	off, err := r.offsetOf(a)
	if err != nil {
		return nil, err
	}
	return r.bytes[off:], nil
}

// ViewBytesMut returns a mutable slice of count bytes starting at a.
func (r *Region) ViewBytesMut(a addr.Address, count uint64) ([]byte, error) {
	if !r.ContainsRange(a, count) {
		return nil, &IOError{Kind: ErrOOBWrite, Name: r.name}
	}
	off, err := r.offsetOf(a)
	if err != nil {
		return nil, err
	}
	return r.bytes[off : off+count], nil
}

// ReadBits reads bits (not necessarily byte-aligned) starting at a,
// interpreting the covering bytes per the region's endianness.
// Non-aligned counts truncate the MSBs (little-endian) or shift out
// the LSBs before truncating (big-endian).
func (r *Region) ReadBits(a addr.Address, bits uint32) (bitvec.BitVec, error) {
	aligned := bits%8 == 0
	count := uint64(bits / 8)
	if !aligned {
		count++
	}
	raw, err := r.ViewBytes(a, count)
	if err != nil {
		return bitvec.BitVec{}, err
	}

	var full bitvec.BitVec
	if r.endian == LittleEndian {
		full, err = fromLEBytes(raw, uint32(count)*8)
	} else {
		full, err = fromBEBytes(raw, uint32(count)*8)
	}
	if err != nil {
		return bitvec.BitVec{}, err
	}
	if aligned {
		return full, nil
	}
	if r.endian == LittleEndian {
		return full.Cast(bits, false)
	}
	shift := 8 - (bits % 8)
	return full.Shr(shift).Cast(bits, false)
}

// WriteBits writes bv's value into the bits at a, preserving the
// surrounding bits of the covering bytes outside the write window for
// non-aligned counts.
func (r *Region) WriteBits(a addr.Address, bv bitvec.BitVec) error {
	bits := bv.Bits()
	aligned := bits%8 == 0
	count := uint64(bits / 8)
	if !aligned {
		count++
	}
	nbits := uint32(count) * 8

	dst, err := r.ViewBytesMut(a, count)
	if err != nil {
		return err
	}

	if aligned {
		return putBytes(dst, bv, nbits, r.endian)
	}

	var orig bitvec.BitVec
	if r.endian == LittleEndian {
		orig, err = fromLEBytes(dst, nbits)
	} else {
		orig, err = fromBEBytes(dst, nbits)
	}
	if err != nil {
		return err
	}

	full, err := combineUnalignedWrite(orig, bv, bits, nbits, r.endian)
	if err != nil {
		return err
	}
	return putBytes(dst, full, nbits, r.endian)
}

func combineUnalignedWrite(orig, bv bitvec.BitVec, bits, nbits uint32, endian Endian) (bitvec.BitVec, error) {
	wide, err := bv.Cast(nbits, false)
	if err != nil {
		return bitvec.BitVec{}, err
	}
	if endian == LittleEndian {
		maxVal, _ := bitvec.FromUint64(^uint64(0), nbits)
		mask := maxVal.Shr(nbits - bits)
		origMasked := orig.And(mask.Not())
		return wide.And(mask).Or(origMasked), nil
	}
	shift := nbits - bits
	maxVal, _ := bitvec.FromUint64(^uint64(0), nbits)
	mask := maxVal.Shr(nbits - bits).Shl(shift)
	origMasked := orig.And(mask.Not())
	return wide.Shl(shift).And(mask).Or(origMasked), nil
}

func fromLEBytes(b []byte, bits uint32) (bitvec.BitVec, error) {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return bitvec.FromUint64(v, bits)
}

func fromBEBytes(b []byte, bits uint32) (bitvec.BitVec, error) {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return bitvec.FromUint64(v, bits)
}

func putBytes(dst []byte, bv bitvec.BitVec, bits uint32, endian Endian) error {
	n := int(bits / 8)
	v := bv.Uint64()
	if endian == LittleEndian {
		for i := 0; i < n; i++ {
			dst[i] = byte(v)
			v >>= 8
		}
	} else {
		for i := n - 1; i >= 0; i-- {
			dst[i] = byte(v)
			v >>= 8
		}
	}
	return nil
}
