package ir

import (
	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/entity"
)

// LocTag discriminates the three shapes a Loc can take.
type LocTag int

const (
	// LocResolved identifies a location by an already-known block id.
	LocResolved LocTag = iota
	// LocFixed identifies a location by a concrete address.
	LocFixed
	// LocComputed identifies a location by an expression evaluated at runtime.
	LocComputed
)

// Blk is the marker type block ids are identified against.
type Blk struct {
	Phis []*entity.Entity[Phi]
	Defs []*entity.Entity[Def]
	Jmps []*entity.Entity[Jmp]
}

// Loc names a control-flow target: a resolved block id, a fixed
// address, or an expression computed at lift/runtime.
type Loc struct {
	Tag      LocTag
	BlockID  entity.Id[Blk]
	Address  addr.Address
	Computed Expr
}

// Resolved builds a Loc naming an already-identified block.
func Resolved(id entity.Id[Blk]) Loc { return Loc{Tag: LocResolved, BlockID: id} }

// Fixed builds a Loc naming a concrete address.
func Fixed(a addr.Address) Loc { return Loc{Tag: LocFixed, Address: a} }

// ComputedLoc builds a Loc whose target is an expression.
func ComputedLoc(e Expr) Loc { return Loc{Tag: LocComputed, Computed: e} }

func (l Loc) String() string {
	switch l.Tag {
	case LocResolved:
		return l.BlockID.String()
	case LocFixed:
		return l.Address.String()
	default:
		return l.Computed.String()
	}
}
