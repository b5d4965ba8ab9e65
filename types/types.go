// Package types defines the sort handles the IR's values carry:
// bool, fixed-width unsigned/signed integers, floats, and pointers.
// Each sort has a stable identity derived from a fixed scope so that
// two processes (or two runs) agree on what "u32" means without
// having to compare names.
package types

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/binlift/ecolift/entity"
)

// Type is the erased identity of a sort; every concrete sort (Bool,
// BitVecT, FloatT, Pointer) reports the same Id for the same literal
// seed, so two instances of "u32" always compare equal.
type Type struct{}

// scopeNamespace is the fixed scope every sort UUID is derived
// within: any two Type ids built from the same literal seed produce
// the same UUID, forever.
var scopeNamespace = uuid.NewSHA1(uuid.Nil, []byte("ecolift:type-scope:0x21341e3f58957821"))

// typeUUID deterministically derives a v5 UUID for a sort from its
// literal seed.
func typeUUID(seed uint64) uuid.UUID {
	return uuid.NewSHA1(scopeNamespace, []byte(fmt.Sprintf("%016x", seed)))
}

// Sort is implemented by every concrete type handle.
type Sort interface {
	entity.Identifiable[Type]
	Name() string
	Bits() uint32
	Bytes() (uint32, bool)
	IsPrimitive() bool
}

// IsComposite is the negation of IsPrimitive for any Sort.
func IsComposite(s Sort) bool { return !s.IsPrimitive() }

// BoolT is the boolean sort.
type BoolT struct{}

// Bool is the singleton boolean sort value.
var Bool = BoolT{}

var boolSeed uint64 = 0x13374eaf1b4db8d4

func (BoolT) Id() entity.Id[Type]     { return entity.FromParts[Type]("type", typeUUID(boolSeed)) }
func (BoolT) Name() string            { return "bool" }
func (BoolT) Bits() uint32            { return 8 }
func (BoolT) Bytes() (uint32, bool)   { return 1, true }
func (BoolT) IsPrimitive() bool       { return true }

// BitVecT is a fixed-width, signedness-tagged integer sort.
type BitVecT struct {
	id     entity.Id[Type]
	signed bool
	bits   uint32
}

func newBitVecT(bits uint32, signed bool, seed uint64) BitVecT {
	return BitVecT{id: entity.FromParts[Type]("type", typeUUID(seed)), signed: signed, bits: bits}
}

// Unsigned and signed bit-vector sorts, 8 through 512 bits, each
// carrying a fixed literal seed so its derived UUID is stable across
// rebuilds of this module.
var (
	U8   = newBitVecT(8, false, 0x119e6d7d2b71a2ee)
	U16  = newBitVecT(16, false, 0xdf153e77940e8cb6)
	U32  = newBitVecT(32, false, 0xed7670e79be1004a)
	U64  = newBitVecT(64, false, 0x970642d009b7dbbf)
	U128 = newBitVecT(128, false, 0x9311f07f94067011)
	U256 = newBitVecT(256, false, 0x11181ac23564ef0c)
	U512 = newBitVecT(512, false, 0xfdd18500239ea271)

	I8   = newBitVecT(8, true, 0xe8c5bdf5003305af)
	I16  = newBitVecT(16, true, 0xe4f13e886256d086)
	I32  = newBitVecT(32, true, 0xefc6825656833849)
	I64  = newBitVecT(64, true, 0x842618f4caf73f92)
	I128 = newBitVecT(128, true, 0x8967a93cbe0d3727)
	I256 = newBitVecT(256, true, 0xba71d38ea5c5da7a)
	I512 = newBitVecT(512, true, 0xb1222584f163fbef)
)

func (b BitVecT) Id() entity.Id[Type] { return b.id }
func (b BitVecT) Name() string {
	if b.signed {
		return fmt.Sprintf("i%d", b.bits)
	}
	return fmt.Sprintf("u%d", b.bits)
}
func (b BitVecT) Bits() uint32 { return b.bits }
func (b BitVecT) Bytes() (uint32, bool) {
	if b.bits%8 != 0 {
		return 0, false
	}
	return b.bits / 8, true
}
func (b BitVecT) IsPrimitive() bool { return true }
func (b BitVecT) IsSigned() bool    { return b.signed }

// FloatT is a fixed-width IEEE-ish float sort.
type FloatT struct {
	id   entity.Id[Type]
	bits uint32
}

func newFloatT(bits uint32, seed uint64) FloatT {
	return FloatT{id: entity.FromParts[Type]("type", typeUUID(seed)), bits: bits}
}

// F32, F64 and F80 are the float sorts this IR recognises.
var (
	F32 = newFloatT(32, 0xb2e5c631d50d5436)
	F64 = newFloatT(64, 0xb15fba32c4f1e09c)
	F80 = newFloatT(80, 0x0fa8604c26e19216)
)

func (f FloatT) Id() entity.Id[Type]   { return f.id }
func (f FloatT) Name() string          { return fmt.Sprintf("f%d", f.bits) }
func (f FloatT) Bits() uint32          { return f.bits }
func (f FloatT) IsPrimitive() bool     { return true }
func (f FloatT) Bytes() (uint32, bool) {
	if f.bits%8 != 0 {
		return 0, false
	}
	return f.bits / 8, true
}

// PointerT is a pointer-to-Sort sort of a given address width.
type PointerT struct {
	id      entity.Id[Type]
	pointee entity.Id[Type]
	bits    uint32
}

// NewPointer builds a pointer sort to pointee at the given address width.
func NewPointer(pointee Sort, bits uint32, seed uint64) PointerT {
	return PointerT{
		id:      entity.FromParts[Type]("type", typeUUID(seed)),
		pointee: pointee.Id(),
		bits:    bits,
	}
}

// PointeeType returns the Id of the sort this pointer points to.
func (p PointerT) PointeeType() entity.Id[Type] { return p.pointee }

func (p PointerT) Id() entity.Id[Type] { return p.id }
func (p PointerT) Name() string        { return fmt.Sprintf("ptr%d", p.bits) }
func (p PointerT) Bits() uint32        { return p.bits }
func (p PointerT) Bytes() (uint32, bool) {
	if p.bits%8 != 0 {
		return 0, false
	}
	return p.bits / 8, true
}
func (p PointerT) IsPrimitive() bool { return false }
