package ecode

import "github.com/binlift/ecolift/ir"

// TargetKind discriminates the seven outgoing-edge classifications an
// instruction's micro-ops can produce.
type TargetKind int

const (
	// TargetIntraIns stays within the instruction currently being lifted.
	TargetIntraIns TargetKind = iota
	// TargetIntraBlk stays within the block currently being built
	// (falls through to, or jumps into, the next instruction of it).
	TargetIntraBlk
	// TargetInterBlk leaves the current block for another block of the
	// same subroutine.
	TargetInterBlk
	// TargetInterSub transfers control to another subroutine (a call).
	TargetInterSub
	// TargetInterRet transfers control back to a caller.
	TargetInterRet
	// TargetIntrinsic invokes a backend intrinsic as a control effect.
	TargetIntrinsic
	// TargetUnresolved means the target could not be determined statically.
	TargetUnresolved
)

// Target is one classified outgoing edge of a statement.
type Target struct {
	Kind     TargetKind
	Location Location     // meaningful for IntraIns/IntraBlk
	Branch   BranchTarget // meaningful for InterBlk/InterSub
	IsLast   bool         // meaningful for InterRet: true if this is the final statement
}

// EndsBlock reports whether t forces the current block to terminate:
// true for Unresolved, InterBlk, and a final (last-statement) InterRet.
func (t Target) EndsBlock() bool {
	switch t.Kind {
	case TargetUnresolved, TargetInterBlk:
		return true
	case TargetInterRet:
		return t.IsLast
	default:
		return false
	}
}

// classifyComputedTarget classifies a BranchComputed target against
// the instruction's own start address and its fall-through address.
//
// Quirk preserved deliberately: a concrete computed offset equal to
// the instruction's own start address classifies as IntraIns at
// position 0, even though the actual sub-position within the
// instruction that produced the value is discarded. See DESIGN.md.
func classifyComputedTarget(bt BranchTarget, address, naddress Location) Target {
	val, ok := bt.Computed.(ir.ValExpr)
	if !ok {
		return Target{Kind: TargetUnresolved}
	}
	off := val.Value.Uint64()
	switch {
	case off == address.Addr.Offset():
		return Target{Kind: TargetIntraIns, Location: Location{Addr: address.Addr, Index: 0}}
	case off == naddress.Addr.Offset():
		return Target{Kind: TargetIntraBlk, Location: Location{Addr: naddress.Addr, Index: 0}}
	default:
		return Target{Kind: TargetInterBlk, Branch: bt}
	}
}

func classifyLocationTarget(bt BranchTarget, isLocal, isFall func(Location) bool) Target {
	loc := bt.Location
	switch {
	case isLocal(loc):
		return Target{Kind: TargetIntraIns, Location: loc}
	case isFall(loc):
		return Target{Kind: TargetIntraBlk, Location: loc}
	default:
		return Target{Kind: TargetInterBlk, Branch: bt}
	}
}

// classify classifies a single BranchTarget.
func classify(bt BranchTarget, address, naddress Location, isLocal, isFall func(Location) bool) Target {
	switch bt.Tag {
	case BranchComputed:
		return classifyComputedTarget(bt, address, naddress)
	default:
		return classifyLocationTarget(bt, isLocal, isFall)
	}
}

// ClassifyStatement classifies the single statement at index i's own
// control-transfer target, independent of any other statement in e.
// It is the per-statement counterpart BranchTargets folds into one
// flat edge list; the lifter uses it to decide, statement by
// statement, whether a control effect stays within the instruction
// (IntraIns), falls through or jumps within the block being built
// (IntraBlk), or leaves it (everything EndsBlock reports true for).
// Non-control statements classify as IntraBlk, a value the lifter
// never inspects since EndsBlock() is false for it.
func ClassifyStatement(e ECode, i int) Target {
	address := Location{Addr: e.Address, Index: 0}
	naddress := Location{Addr: e.NAddress(), Index: 0}
	isLocal := func(loc Location) bool { return loc.Addr.Equal(address.Addr) }
	isFall := func(loc Location) bool { return loc.Addr.Equal(naddress.Addr) }
	opCount := len(e.Operations)

	switch st := e.Operations[i].(type) {
	case BranchStmt:
		return classify(st.Target, address, naddress, isLocal, isFall)
	case CBranchStmt:
		return classify(st.Target, address, naddress, isLocal, isFall)
	case CallStmt:
		return Target{Kind: TargetInterSub, Branch: st.Target}
	case ReturnStmt:
		return Target{Kind: TargetInterRet, Branch: st.Target, IsLast: i+1 == opCount}
	case IntrinsicStmt:
		return Target{Kind: TargetIntrinsic}
	default:
		return Target{Kind: TargetIntraBlk}
	}
}

// BranchTargets computes the ordered list of classified outgoing
// edges for every statement in e. Target edges are emitted before
// fall-through edges for CBranch and Call, a fixed ordering callers
// can rely on.
func BranchTargets(e ECode) []Target {
	address := Location{Addr: e.Address, Index: 0}
	naddress := Location{Addr: e.NAddress(), Index: 0}
	opCount := len(e.Operations)

	isLocal := func(loc Location) bool { return loc.Addr.Equal(address.Addr) }
	isFall := func(loc Location) bool { return loc.Addr.Equal(naddress.Addr) }

	nlocation := func(i int) Location {
		if i+1 < opCount {
			return Location{Addr: e.Address, Index: uint32(i + 1)}
		}
		return naddress
	}

	targets := make([]Target, 0, opCount)

	nbranch := func(i int, tgt BranchTarget) {
		targets = append(targets, classify(tgt, address, naddress, isLocal, isFall))
	}
	nfall := func(i int) {
		loc := nlocation(i)
		if isLocal(loc) {
			targets = append(targets, Target{Kind: TargetIntraIns, Location: loc})
		} else {
			targets = append(targets, Target{Kind: TargetIntraBlk, Location: loc})
		}
	}

	for i, s := range e.Operations {
		switch st := s.(type) {
		case BranchStmt:
			nbranch(i, st.Target)
		case CBranchStmt:
			nbranch(i, st.Target)
			nfall(i)
		case CallStmt:
			targets = append(targets, Target{Kind: TargetInterSub, Branch: st.Target})
			nfall(i)
		case ReturnStmt:
			targets = append(targets, Target{Kind: TargetInterRet, Branch: st.Target, IsLast: i+1 == opCount})
		case IntrinsicStmt:
			targets = append(targets, Target{Kind: TargetIntrinsic})
			nfall(i)
		default:
			if i+1 == opCount {
				nfall(i)
			}
		}
	}

	return targets
}
