// Package ecode is the backend-facing micro-op representation: the
// raw statement shape a disassembly backend hands back before blocks
// are split and locations are resolved, plus the branch-target
// classifier that drives block-boundary decisions.
package ecode

import (
	"fmt"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/ir"
)

// Location names a position within an instruction's micro-op stream:
// the instruction's own address plus the index of a statement within it.
type Location struct {
	Addr  addr.Address
	Index uint32
}

func (l Location) String() string { return fmt.Sprintf("%s:%d", l.Addr, l.Index) }

// Equal reports whether two Locations name the same (address, index) pair.
func (l Location) Equal(other Location) bool {
	return l.Addr.Equal(other.Addr) && l.Index == other.Index
}

// BranchTargetTag discriminates the two shapes a BranchTarget can take.
type BranchTargetTag int

const (
	// BranchComputed means the target is an expression, possibly a
	// concrete literal, evaluated to decide where control goes.
	BranchComputed BranchTargetTag = iota
	// BranchLocation means the target is a known micro-op Location.
	BranchLocation
)

// BranchTarget is the pre-classification shape of a jump target as
// the backend reports it: either a computed expression or an
// already-resolved intra-instruction Location.
type BranchTarget struct {
	Tag      BranchTargetTag
	Computed ir.Expr
	Location Location
}

// Computed builds a BranchTarget from an expression.
func Computed(e ir.Expr) BranchTarget { return BranchTarget{Tag: BranchComputed, Computed: e} }

// AtLocation builds a BranchTarget from an already-known Location.
func AtLocation(l Location) BranchTarget { return BranchTarget{Tag: BranchLocation, Location: l} }

// Stmt is a single backend-emitted micro-operation.
type Stmt interface {
	isStmt()
}

// AssignStmt assigns an expression's value to a variable.
type AssignStmt struct {
	Var  ir.Var
	Expr ir.Expr
}

func (AssignStmt) isStmt() {}

// AssumeStmt asserts an expression holds.
type AssumeStmt struct{ Expr ir.Expr }

func (AssumeStmt) isStmt() {}

// BranchStmt unconditionally transfers control to Target.
type BranchStmt struct{ Target BranchTarget }

func (BranchStmt) isStmt() {}

// CBranchStmt transfers control to Target when Cond holds.
type CBranchStmt struct {
	Cond   ir.Expr
	Target BranchTarget
}

func (CBranchStmt) isStmt() {}

// CallStmt transfers control to a subroutine at Target, passing Args.
type CallStmt struct {
	Target BranchTarget
	Args   []ir.Expr
}

func (CallStmt) isStmt() {}

// IntrinsicStmt invokes a named intrinsic.
type IntrinsicStmt struct {
	Name string
	Args []ir.Expr
}

func (IntrinsicStmt) isStmt() {}

// ReturnStmt transfers control back to the caller at Target.
type ReturnStmt struct{ Target BranchTarget }

func (ReturnStmt) isStmt() {}

// ECode is one instruction's decoded micro-op sequence, as reported
// by the disassembly backend.
type ECode struct {
	Address    addr.Address
	Length     uint64
	Operations []Stmt
}

// NAddress returns the address immediately following this instruction.
func (e ECode) NAddress() addr.Address { return e.Address.AddUsize(e.Length) }

// IsBranch reports whether s is any control-transferring statement.
func IsBranch(s Stmt) bool {
	switch s.(type) {
	case BranchStmt, CBranchStmt, CallStmt, ReturnStmt:
		return true
	default:
		return false
	}
}

// IsCond reports whether s is a conditional branch.
func IsCond(s Stmt) bool {
	_, ok := s.(CBranchStmt)
	return ok
}

// IsCall reports whether s is a call.
func IsCall(s Stmt) bool {
	_, ok := s.(CallStmt)
	return ok
}

// IsIntrinsic reports whether s is an intrinsic invocation.
func IsIntrinsic(s Stmt) bool {
	_, ok := s.(IntrinsicStmt)
	return ok
}

// IsReturn reports whether s is a return.
func IsReturn(s Stmt) bool {
	_, ok := s.(ReturnStmt)
	return ok
}
