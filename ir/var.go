// Package ir defines the typed intermediate-representation node set:
// variables, expressions, data/control effects, locations, phis and
// basic blocks.
package ir

import (
	"fmt"
	"sync/atomic"

	"github.com/binlift/ecolift/entity"
	"github.com/binlift/ecolift/types"
)

// VarKindTag discriminates the three shapes a Var's storage can take.
type VarKindTag int

const (
	// VarMemory identifies a variable backed by a memory region.
	VarMemory VarKindTag = iota
	// VarPhysical identifies an architectural (register-file) variable.
	VarPhysical
	// VarTransient identifies a lifter-local scratch variable.
	VarTransient
)

// Memory is the marker type memory-kind Vars are identified against.
type Memory struct{}

// VarKind carries the kind-specific payload of a Var: a memory region
// id for Memory vars, or a type id + bit width for Physical/Transient.
// Physical vars additionally carry a register-space identifier and
// byte offset within it, used by the alias-normalisation pass to find
// the enclosing architectural register for a sub-register access.
type VarKind struct {
	Tag      VarKindTag
	RegionID entity.Id[Memory]
	TypeID   entity.Id[types.Type]
	Bits     uint32
	Space    string
	Offset   uint64
}

// Var is a named, generation-counted IR variable.
type Var struct {
	Name       string
	Kind       VarKind
	Generation uint32
}

var freshCounter uint64

// Physical builds an architectural register variable of the given
// name and type at generation 0, with no register-space placement
// (suitable for registers that are never aliased as sub-registers).
func Physical(name string, typ types.Sort) Var {
	return Var{Name: name, Kind: VarKind{Tag: VarPhysical, TypeID: typ.Id(), Bits: typ.Bits()}}
}

// PhysicalAt builds an architectural register variable placed at a
// byte offset within a named register address space, the shape the
// alias-normalisation pass operates over.
func PhysicalAt(name string, typ types.Sort, space string, offset uint64) Var {
	v := Physical(name, typ)
	v.Kind.Space = space
	v.Kind.Offset = offset
	return v
}

// Transient builds a lifter-local scratch variable of the given name
// and type at generation 0.
func Transient(name string, typ types.Sort) Var {
	return Var{Name: name, Kind: VarKind{Tag: VarTransient, TypeID: typ.Id(), Bits: typ.Bits()}}
}

// MemoryVar builds a variable denoting the contents of a memory region.
func MemoryVar(region *entity.Entity[Memory]) Var {
	return Var{Name: "mem", Kind: VarKind{Tag: VarMemory, RegionID: region.Id()}}
}

// Fresh mints a globally-unique transient variable of the given type.
func Fresh(typ types.Sort) Var {
	n := atomic.AddUint64(&freshCounter, 1)
	return Transient(fmt.Sprintf("%%t%d", n), typ)
}

// IsMemory reports whether v is a memory-kind variable.
func (v Var) IsMemory() bool { return v.Kind.Tag == VarMemory }

// IsPhysical reports whether v is an architectural-register variable.
func (v Var) IsPhysical() bool { return v.Kind.Tag == VarPhysical }

// IsTransient reports whether v is a lifter-local scratch variable.
func (v Var) IsTransient() bool { return v.Kind.Tag == VarTransient }

// IsTyped reports whether v carries a type id (Physical or Transient).
func (v Var) IsTyped() bool { return !v.IsMemory() }

// IsSized reports whether v carries a bit width (Physical or Transient).
func (v Var) IsSized() bool { return !v.IsMemory() }

// Bits returns v's bit width, or 0 for a memory-kind variable.
func (v Var) Bits() uint32 { return v.Kind.Bits }

// TypeID returns v's type id; zero-valued for a memory-kind variable.
func (v Var) TypeID() entity.Id[types.Type] { return v.Kind.TypeID }

// RegionID returns v's backing region id; only meaningful if IsMemory.
func (v Var) RegionID() entity.Id[Memory] { return v.Kind.RegionID }

// WithGeneration returns a copy of v at the given generation.
func (v Var) WithGeneration(gen uint32) Var {
	v.Generation = gen
	return v
}

func (v Var) String() string {
	if v.IsMemory() {
		return fmt.Sprintf("%s.%d", v.Name, v.Generation)
	}
	return fmt.Sprintf("%s:%d.%d", v.Name, v.Kind.Bits, v.Generation)
}

// Equal compares two Vars structurally (name, kind payload, generation).
func (v Var) Equal(other Var) bool {
	return v.Name == other.Name &&
		v.Generation == other.Generation &&
		v.Kind.Tag == other.Kind.Tag &&
		v.Kind.Bits == other.Kind.Bits &&
		v.Kind.Space == other.Kind.Space &&
		v.Kind.Offset == other.Kind.Offset &&
		v.Kind.TypeID.Equal(other.Kind.TypeID) &&
		v.Kind.RegionID.Equal(other.Kind.RegionID)
}
