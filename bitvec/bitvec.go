// Package bitvec implements an arbitrary-width, signedness-tagged
// integer value with automatic width promotion on binary operations,
// backed by math/big for storage.
package bitvec

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrDivideByZero is returned by Div and Rem when the divisor is zero.
var ErrDivideByZero = errors.New("bitvec: divide by zero")

// ErrZeroWidth is returned whenever a BitVec would be constructed with
// a width of zero bits; every BitVec must carry at least one bit.
var ErrZeroWidth = errors.New("bitvec: zero width")

// BitVec is a fixed-width integer with a fixed signedness. Its value
// is always stored normalised (masked) to its declared width.
type BitVec struct {
	bits   uint32
	signed bool
	val    *big.Int
}

func mask(bits uint32) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	return m.Sub(m, big.NewInt(1))
}

func normalize(v *big.Int, bits uint32, signed bool) *big.Int {
	m := mask(bits)
	r := new(big.Int).And(v, m)
	if signed {
		top := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		if r.Cmp(top) >= 0 {
			r.Sub(r, new(big.Int).Lsh(big.NewInt(1), uint(bits)))
		}
	}
	return r
}

// New builds a BitVec of the given width and signedness from a big.Int value.
func New(v *big.Int, bits uint32, signed bool) (BitVec, error) {
	if bits == 0 {
		return BitVec{}, ErrZeroWidth
	}
	return BitVec{bits: bits, signed: signed, val: normalize(v, bits, signed)}, nil
}

// FromUint64 builds an unsigned BitVec of the given width from a uint64.
func FromUint64(v uint64, bits uint32) (BitVec, error) {
	return New(new(big.Int).SetUint64(v), bits, false)
}

// FromInt64 builds a signed BitVec of the given width from an int64.
func FromInt64(v int64, bits uint32) (BitVec, error) {
	return New(big.NewInt(v), bits, true)
}

// Zero returns the zero value of the given width and signedness.
func Zero(bits uint32, signed bool) BitVec {
	bv, _ := New(big.NewInt(0), bits, signed)
	return bv
}

// Bits returns the width of the BitVec in bits.
func (b BitVec) Bits() uint32 { return b.bits }

// IsSigned reports whether the BitVec is interpreted as two's-complement signed.
func (b BitVec) IsSigned() bool { return b.signed }

// Big returns the underlying value as a big.Int copy.
func (b BitVec) Big() *big.Int { return new(big.Int).Set(b.val) }

// Uint64 returns the value truncated to a uint64 (unsigned reinterpretation).
func (b BitVec) Uint64() uint64 {
	u := new(big.Int).And(b.val, mask(b.bits))
	return u.Uint64()
}

// Int64 returns the value as a signed int64, sign-extended from its width.
func (b BitVec) Int64() int64 {
	s := normalize(b.val, b.bits, true)
	return s.Int64()
}

func (b BitVec) String() string {
	prefix := "u"
	if b.signed {
		prefix = "i"
	}
	return fmt.Sprintf("%d:%s%d", b.val, prefix, b.bits)
}

// promote computes the target width/signedness two operands combine
// under: the wider of the two widths wins; the narrower operand is
// zero-extended to match. Narrowing never loses data on its own, only
// an explicit Cast does that.
func promote(a, b BitVec) (BitVec, BitVec, uint32) {
	w := a.bits
	if b.bits > w {
		w = b.bits
	}
	signed := a.signed && b.signed
	ra, _ := New(new(big.Int).And(a.val, mask(a.bits)), w, signed)
	rb, _ := New(new(big.Int).And(b.val, mask(b.bits)), w, signed)
	return ra, rb, w
}

func (b BitVec) binop(other BitVec, f func(z, x, y *big.Int) *big.Int) BitVec {
	la, lb, w := promote(b, other)
	r := f(new(big.Int), la.val, lb.val)
	res, _ := New(r, w, la.signed)
	return res
}

// Add returns b+other with automatic width promotion.
func (b BitVec) Add(other BitVec) BitVec { return b.binop(other, (*big.Int).Add) }

// Sub returns b-other with automatic width promotion.
func (b BitVec) Sub(other BitVec) BitVec { return b.binop(other, (*big.Int).Sub) }

// Mul returns b*other with automatic width promotion.
func (b BitVec) Mul(other BitVec) BitVec { return b.binop(other, (*big.Int).Mul) }

// Div returns b/other (truncating division) with automatic width promotion.
func (b BitVec) Div(other BitVec) (BitVec, error) {
	if other.val.Sign() == 0 {
		return BitVec{}, ErrDivideByZero
	}
	return b.binop(other, (*big.Int).Quo), nil
}

// Rem returns b%other (truncated remainder) with automatic width promotion.
func (b BitVec) Rem(other BitVec) (BitVec, error) {
	if other.val.Sign() == 0 {
		return BitVec{}, ErrDivideByZero
	}
	return b.binop(other, (*big.Int).Rem), nil
}

// And returns the bitwise AND of b and other, width-promoted.
func (b BitVec) And(other BitVec) BitVec { return b.binop(other, (*big.Int).And) }

// Or returns the bitwise OR of b and other, width-promoted.
func (b BitVec) Or(other BitVec) BitVec { return b.binop(other, (*big.Int).Or) }

// Xor returns the bitwise XOR of b and other, width-promoted.
func (b BitVec) Xor(other BitVec) BitVec { return b.binop(other, (*big.Int).Xor) }

// Not returns the bitwise complement of b at its own width.
func (b BitVec) Not() BitVec {
	r := new(big.Int).Not(b.val)
	res, _ := New(r, b.bits, b.signed)
	return res
}

// Neg returns the two's-complement negation of b at its own width.
func (b BitVec) Neg() BitVec {
	r := new(big.Int).Neg(b.val)
	res, _ := New(r, b.bits, b.signed)
	return res
}

// Shl returns b shifted left by n bits at its own width.
func (b BitVec) Shl(n uint32) BitVec {
	r := new(big.Int).Lsh(b.val, uint(n))
	res, _ := New(r, b.bits, b.signed)
	return res
}

// Shr returns b shifted right by n bits (logical if unsigned, arithmetic if signed).
func (b BitVec) Shr(n uint32) BitVec {
	r := new(big.Int).Rsh(b.val, uint(n))
	res, _ := New(r, b.bits, b.signed)
	return res
}

// Cmp compares b and other numerically after width promotion: -1, 0, 1.
func (b BitVec) Cmp(other BitVec) int {
	la, lb, _ := promote(b, other)
	return la.val.Cmp(lb.val)
}

// Equal reports whether b and other carry the same numeric value after promotion.
func (b BitVec) Equal(other BitVec) bool { return b.Cmp(other) == 0 }

// Cast reinterprets b at a new width, truncating or zero/sign-extending.
func (b BitVec) Cast(bits uint32, signed bool) (BitVec, error) {
	return New(b.val, bits, signed)
}

// ExtractLow returns the low `bits` bits of b as an unsigned BitVec.
func (b BitVec) ExtractLow(bits uint32) (BitVec, error) {
	return New(b.val, bits, false)
}

// ExtractHigh returns the high `bits` bits of b as an unsigned BitVec.
func (b BitVec) ExtractHigh(bits uint32) (BitVec, error) {
	shifted := new(big.Int).Rsh(b.val, uint(b.bits-bits))
	return New(shifted, bits, false)
}

// Extract returns bits [lo, hi) of b as an unsigned BitVec.
func (b BitVec) Extract(lo, hi uint32) (BitVec, error) {
	if hi <= lo || hi > b.bits {
		return BitVec{}, fmt.Errorf("bitvec: invalid extract range [%d,%d) of width %d", lo, hi, b.bits)
	}
	shifted := new(big.Int).Rsh(b.val, uint(lo))
	return New(shifted, hi-lo, false)
}

// Concat returns hi:lo concatenated into a single unsigned BitVec of
// combined width, with b as the high bits and low as the low bits.
func (b BitVec) Concat(low BitVec) BitVec {
	shifted := new(big.Int).Lsh(b.val, uint(low.bits))
	combined := new(big.Int).Or(shifted, new(big.Int).And(low.val, mask(low.bits)))
	res, _ := New(combined, b.bits+low.bits, false)
	return res
}
