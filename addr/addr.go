// Package addr implements Address, an unsigned-only BitVec specialised
// for byte-offset arithmetic within a memory region.
package addr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/binlift/ecolift/bitvec"
)

// ErrSigned is returned when a textual address literal carries a sign.
var ErrSigned = errors.New("addr: signed literal not allowed")

// ErrZeroSize is returned when an address would be constructed with zero width.
var ErrZeroSize = errors.New("addr: zero-size literal not allowed")

// ParseError reports why a textual address failed to parse.
type ParseError struct {
	Kind  ParseErrorKind
	Radix int
	Text  string
	Err   error
}

// ParseErrorKind enumerates the ways an address literal can fail to parse.
type ParseErrorKind int

const (
	// ParseErrGeneric is a generic number-syntax failure.
	ParseErrGeneric ParseErrorKind = iota
	// ParseErrRadix means the numeric base itself was invalid.
	ParseErrRadix
	// ParseErrSign means the literal carried an explicit sign.
	ParseErrSign
	// ParseErrZeroSize means the literal resolved to a zero-width address.
	ParseErrZeroSize
)

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseErrRadix:
		return fmt.Sprintf("addr: invalid radix %d in %q", e.Radix, e.Text)
	case ParseErrSign:
		return fmt.Sprintf("addr: signed literal %q not allowed", e.Text)
	case ParseErrZeroSize:
		return fmt.Sprintf("addr: zero-size literal %q not allowed", e.Text)
	default:
		return fmt.Sprintf("addr: cannot parse %q: %v", e.Text, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Address is an unsigned bit-vector used as a byte offset or absolute
// memory location. It always carries signed=false and bits>0.
type Address struct {
	bv bitvec.BitVec
}

// New builds an Address of the given width from a uint64 offset.
func New(offset uint64, bits uint32) (Address, error) {
	if bits == 0 {
		return Address{}, ErrZeroSize
	}
	bv, err := bitvec.FromUint64(offset, bits)
	if err != nil {
		return Address{}, err
	}
	return Address{bv: bv}, nil
}

// Offset returns the address's value as a uint64.
func (a Address) Offset() uint64 { return a.bv.Uint64() }

// Bits returns the address's bit width.
func (a Address) Bits() uint32 { return a.bv.Bits() }

// BitVec exposes the underlying unsigned bit-vector.
func (a Address) BitVec() bitvec.BitVec { return a.bv }

func (a Address) String() string {
	return fmt.Sprintf("%x", a.bv.Uint64())
}

// widen promotes a and b to the wider of their two widths, per the
// same rule bitvec.BitVec uses for binary operations.
func widen(a, b Address) (Address, Address) {
	w := a.Bits()
	if b.Bits() > w {
		w = b.Bits()
	}
	la, _ := a.bv.Cast(w, false)
	lb, _ := b.bv.Cast(w, false)
	return Address{bv: la}, Address{bv: lb}
}

// Add returns a+other, width-promoted to the wider operand.
func (a Address) Add(other Address) Address {
	la, lb := widen(a, other)
	return Address{bv: la.bv.Add(lb.bv)}
}

// Sub returns a-other, width-promoted to the wider operand.
func (a Address) Sub(other Address) Address {
	la, lb := widen(a, other)
	return Address{bv: la.bv.Sub(lb.bv)}
}

// AddUsize returns a+n at a's own width.
func (a Address) AddUsize(n uint64) Address {
	nb, _ := bitvec.FromUint64(n, a.Bits())
	return Address{bv: a.bv.Add(nb)}
}

// SubUsize returns a-n at a's own width.
func (a Address) SubUsize(n uint64) Address {
	nb, _ := bitvec.FromUint64(n, a.Bits())
	return Address{bv: a.bv.Sub(nb)}
}

// MulUsize returns a*n at a's own width.
func (a Address) MulUsize(n uint64) Address {
	nb, _ := bitvec.FromUint64(n, a.Bits())
	return Address{bv: a.bv.Mul(nb)}
}

// Cmp compares two addresses numerically after width promotion.
func (a Address) Cmp(other Address) int {
	la, lb := widen(a, other)
	return la.bv.Cmp(lb.bv)
}

// Equal reports whether two addresses carry the same numeric value.
func (a Address) Equal(other Address) bool { return a.Cmp(other) == 0 }

// Less reports whether a orders before other.
func (a Address) Less(other Address) bool { return a.Cmp(other) < 0 }

// AbsoluteDifference returns |a-other| as a uint64, choosing the
// subtraction order that avoids underflow.
func (a Address) AbsoluteDifference(other Address) uint64 {
	if a.Less(other) {
		return other.Sub(a).Offset()
	}
	return a.Sub(other).Offset()
}

// Parse reads an address literal, optionally radix-prefixed ("0x",
// "0o", "0b"), at the given bit width. Signed literals ("-123") and a
// zero bit width are both rejected.
func Parse(text string, bits uint32) (Address, error) {
	if bits == 0 {
		return Address{}, &ParseError{Kind: ParseErrZeroSize, Text: text}
	}
	if strings.HasPrefix(text, "-") {
		return Address{}, &ParseError{Kind: ParseErrSign, Text: text}
	}

	radix := 10
	digits := text
	switch {
	case strings.HasPrefix(text, "0x"), strings.HasPrefix(text, "0X"):
		radix, digits = 16, text[2:]
	case strings.HasPrefix(text, "0o"), strings.HasPrefix(text, "0O"):
		radix, digits = 8, text[2:]
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0B"):
		radix, digits = 2, text[2:]
	}

	v, err := strconv.ParseUint(digits, radix, 64)
	if err != nil {
		if radix != 10 && radix != 16 && radix != 8 && radix != 2 {
			return Address{}, &ParseError{Kind: ParseErrRadix, Radix: radix, Text: text}
		}
		return Address{}, &ParseError{Kind: ParseErrGeneric, Text: text, Err: err}
	}
	return New(v, bits)
}
