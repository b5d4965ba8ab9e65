package lift

import (
	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/ecode"
	"github.com/binlift/ecolift/entity"
	"github.com/binlift/ecolift/ir"
)

// assembler converts a stream of lifted, alias-normalised
// instructions into strict Blks: an intra-instruction jump splits the
// current Blk's Defs in two, an inter-block edge (a target that
// EndsBlock()) appends its Jmp to the current Blk and stops, and
// everything else (fallthrough, intra-block jumps, calls, intrinsics)
// keeps accumulating into the same Blk.
type assembler struct {
	addrBits uint32
	current  *entity.Entity[ir.Blk]
	blks     []*entity.Entity[ir.Blk]
	firstBlk map[uint64]entity.Id[ir.Blk]
}

func newAssembler(addrBits uint32) *assembler {
	first := ir.NewBlk()
	return &assembler{
		addrBits: addrBits,
		current:  first,
		blks:     []*entity.Entity[ir.Blk]{first},
		firstBlk: make(map[uint64]entity.Id[ir.Blk]),
	}
}

// addInstruction folds one instruction's micro-ops into the Blks
// under construction and reports whether the lift loop should stop
// after it (i.e. whether any of its control effects EndsBlock()).
func (a *assembler) addInstruction(e ecode.ECode) bool {
	if _, seen := a.firstBlk[e.Address.Offset()]; !seen {
		a.firstBlk[e.Address.Offset()] = a.current.Id()
	}

	stmtDefPos := make(map[uint32]int, len(e.Operations))
	shouldStop := false

	record := func(i int) {
		stmtDefPos[uint32(i)] = len(a.current.Value().Defs)
	}

	for i, stmt := range e.Operations {
		switch st := stmt.(type) {
		case ecode.AssignStmt:
			record(i)
			ir.AddDef(a.current, ir.Assign(st.Var, st.Expr))

		case ecode.AssumeStmt:
			record(i)
			ir.AddDef(a.current, ir.Assume(st.Expr))

		case ecode.BranchStmt:
			target := ecode.ClassifyStatement(e, i)
			parent := a.current
			loc := a.locFor(target, stmtDefPos)
			ir.AddJmp(parent, ir.Branch(loc))
			shouldStop = shouldStop || target.EndsBlock()

		case ecode.CBranchStmt:
			target := ecode.ClassifyStatement(e, i)
			parent := a.current
			loc := a.locFor(target, stmtDefPos)
			ir.AddJmp(parent, ir.CBranch(loc, st.Cond))
			shouldStop = shouldStop || target.EndsBlock()

		case ecode.CallStmt:
			target := ecode.ClassifyStatement(e, i)
			parent := a.current
			loc := a.locFor(target, stmtDefPos)
			ir.AddJmp(parent, ir.CallJmp{Target: loc, Args: st.Args})
			shouldStop = shouldStop || target.EndsBlock()

		case ecode.IntrinsicStmt:
			target := ecode.ClassifyStatement(e, i)
			ir.AddJmp(a.current, ir.IntrinsicJmp{Name: st.Name, Args: st.Args})
			shouldStop = shouldStop || target.EndsBlock()

		case ecode.ReturnStmt:
			target := ecode.ClassifyStatement(e, i)
			parent := a.current
			loc := a.locFor(target, stmtDefPos)
			ir.AddJmp(parent, ir.ReturnJmp{Target: loc})
			shouldStop = shouldStop || target.EndsBlock()
		}
	}

	return shouldStop
}

// locFor resolves a classified Target into the ir.Loc its Jmp should
// carry: an intra-instruction target splits the current Blk and
// resolves to the new child; everything else becomes a fixed or
// computed address, since the block(s) a non-local edge leads to are
// not known until a later lift_blk/add_blk call reaches them.
func (a *assembler) locFor(target ecode.Target, stmtDefPos map[uint32]int) ir.Loc {
	switch target.Kind {
	case ecode.TargetIntraIns:
		return a.splitAt(stmtDefPos, target.Location)
	case ecode.TargetIntraBlk:
		return ir.Fixed(target.Location.Addr)
	default:
		return a.locFromBranch(target.Branch)
	}
}

func (a *assembler) locFromBranch(bt ecode.BranchTarget) ir.Loc {
	if bt.Tag == ecode.BranchLocation {
		return ir.Fixed(bt.Location.Addr)
	}
	if lit, ok := bt.Computed.(ir.ValExpr); ok {
		if a2, err := addr.New(lit.Value.Uint64(), a.addrBits); err == nil {
			return ir.Fixed(a2)
		}
	}
	return ir.ComputedLoc(bt.Computed)
}

// splitAt splits the Blk currently under construction so that the def
// at loc's statement index (and everything after it) moves to a new
// child Blk, returning a Loc resolving to that child. A statement
// index with no recorded def position (a target statement not yet
// reached, or one that produced no def of its own, e.g. index 0 of an
// instruction whose first statement is itself the jump) splits at the
// current end of the block under construction.
func (a *assembler) splitAt(stmtDefPos map[uint32]int, loc ecode.Location) ir.Loc {
	pos, ok := stmtDefPos[loc.Index]
	if !ok {
		pos = len(a.current.Value().Defs)
	}
	child := a.splitDefsOnly(pos)
	return ir.Resolved(child.Id())
}

// splitDefsOnly moves defs[pos:] of the current Blk into a fresh,
// empty-jmps child and makes that child current, without installing
// any implicit branch: the caller is already in the middle of
// recording the real Jmp that explains the split.
func (a *assembler) splitDefsOnly(pos int) *entity.Entity[ir.Blk] {
	cur := a.current.Value()
	if pos < 0 {
		pos = 0
	}
	if pos > len(cur.Defs) {
		pos = len(cur.Defs)
	}
	moved := append([]*entity.Entity[ir.Def]{}, cur.Defs[pos:]...)
	cur.Defs = cur.Defs[:pos]

	child := ir.NewBlk()
	child.Value().Defs = moved
	a.blks = append(a.blks, child)
	a.current = child
	return child
}

func (a *assembler) finish() Result {
	if len(a.firstBlk) == 0 {
		return Result{} // no instruction was lifted
	}
	return Result{Blks: a.blks, FirstBlk: a.firstBlk}
}
