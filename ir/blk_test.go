package ir

import (
	"testing"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/bitvec"
	"github.com/binlift/ecolift/entity"
	"github.com/binlift/ecolift/types"
)

func mustLit(t *testing.T, v uint64, bits uint32) ValExpr {
	t.Helper()
	bv, err := bitvec.FromUint64(v, bits)
	if err != nil {
		t.Fatalf("building test literal: %v", err)
	}
	return ValExpr{Value: bv}
}

func TestBlkSplitBottomMovesJmpsOnly(t *testing.T) {
	b := NewBlk()
	v := Physical("eax", types.U32)
	AddDef(b, Assign(v, mustLit(t, 1, 32)))
	AddDef(b, Assign(v, mustLit(t, 1, 32)))
	AddJmp(b, Branch(Fixed(mustAddr(t, 0x1000))))

	child := SplitBottom(b)

	if len(b.Value().Defs) != 2 {
		t.Fatalf("parent should keep both defs, got %d", len(b.Value().Defs))
	}
	if len(child.Value().Defs) != 0 {
		t.Fatalf("child should have no defs, got %d", len(child.Value().Defs))
	}
	if len(child.Value().Jmps) != 1 {
		t.Fatalf("child should inherit the jmp, got %d", len(child.Value().Jmps))
	}
	if len(b.Value().Jmps) != 1 {
		t.Fatalf("parent should have exactly one jmp (the new branch), got %d", len(b.Value().Jmps))
	}
	branch, ok := (*b.Value().Jmps[0].Value()).(BranchJmp)
	if !ok {
		t.Fatalf("parent's jmp should be a BranchJmp, got %T", *b.Value().Jmps[0].Value())
	}
	if branch.Target.Tag != LocResolved || !branch.Target.BlockID.Equal(child.Id()) {
		t.Fatalf("parent's branch should target the child block")
	}
}

func TestBlkSplitTopMovesAllDefs(t *testing.T) {
	b := NewBlk()
	v := Physical("eax", types.U32)
	AddDef(b, Assign(v, mustLit(t, 1, 32)))
	AddDef(b, Assign(v, mustLit(t, 1, 32)))
	AddJmp(b, Branch(Fixed(mustAddr(t, 0x2000))))

	child := SplitTop(b)

	if len(b.Value().Defs) != 0 {
		t.Fatalf("parent should have no defs left, got %d", len(b.Value().Defs))
	}
	if len(child.Value().Defs) != 2 {
		t.Fatalf("child should have both defs, got %d", len(child.Value().Defs))
	}
}

func TestBlkSplitBeforeNotFoundMovesNoDefs(t *testing.T) {
	b := NewBlk()
	v := Physical("eax", types.U32)
	present := Assign(v, mustLit(t, 1, 32))
	AddDef(b, present)
	AddJmp(b, Branch(Fixed(mustAddr(t, 0x3000))))

	absent := entity.New[Def]("def", Assign(v, VarExpr{Var: v})).Id()
	child := SplitBefore(b, absent)

	if len(b.Value().Defs) != 1 {
		t.Fatalf("parent should keep its def when the split point isn't found, got %d", len(b.Value().Defs))
	}
	if len(child.Value().Defs) != 0 {
		t.Fatalf("child should have no defs when the split point isn't found, got %d", len(child.Value().Defs))
	}
	if len(child.Value().Jmps) != 1 {
		t.Fatalf("child should still inherit jmps even when the split point isn't found")
	}
}

func TestBlkSplitBeforeMatchesByIdNotContent(t *testing.T) {
	b := NewBlk()
	v := Physical("eax", types.U32)
	// Two structurally-identical defs: id, not text, must disambiguate
	// which one the caller meant to split at.
	AddDef(b, Assign(v, VarExpr{Var: v}))
	AddDef(b, Assign(v, VarExpr{Var: v}))
	AddJmp(b, Branch(Fixed(mustAddr(t, 0x3100))))

	second := b.Value().Defs[1].Id()
	child := SplitBefore(b, second)

	if len(b.Value().Defs) != 1 {
		t.Fatalf("parent should keep only the first def, got %d", len(b.Value().Defs))
	}
	if len(child.Value().Defs) != 1 {
		t.Fatalf("child should receive the second def, got %d", len(child.Value().Defs))
	}
	if !child.Value().Defs[0].Id().Equal(second) {
		t.Fatalf("child should hold the def identified by id, not the first textual match")
	}
}

func TestBlkSplitAfterMovesTailPastId(t *testing.T) {
	b := NewBlk()
	v := Physical("eax", types.U32)
	AddDef(b, Assign(v, mustLit(t, 1, 32)))
	AddDef(b, Assign(v, mustLit(t, 2, 32)))
	AddJmp(b, Branch(Fixed(mustAddr(t, 0x3200))))

	first := b.Value().Defs[0].Id()
	child := SplitAfter(b, first)

	if len(b.Value().Defs) != 1 {
		t.Fatalf("parent should keep the def at and before the split point, got %d", len(b.Value().Defs))
	}
	if !b.Value().Defs[0].Id().Equal(first) {
		t.Fatalf("parent should keep the identified def")
	}
	if len(child.Value().Defs) != 1 {
		t.Fatalf("child should receive everything after the split point, got %d", len(child.Value().Defs))
	}
	if len(child.Value().Jmps) != 1 {
		t.Fatalf("child should inherit the jmp")
	}
}

func TestVisitVarsVisitsEveryLeaf(t *testing.T) {
	eax := Physical("eax", types.U32)
	ebx := Physical("ebx", types.U32)
	expr := BinExpr{Op: BinAdd, Left: VarExpr{Var: eax}, Right: VarExpr{Var: ebx}}

	var seen []Var
	VisitVars(expr, func(v Var) { seen = append(seen, v) })

	if len(seen) != 2 {
		t.Fatalf("expected 2 vars visited, got %d", len(seen))
	}
	if !seen[0].Equal(eax) || !seen[1].Equal(ebx) {
		t.Fatalf("visited vars in unexpected order/identity: %v", seen)
	}
}

func mustAddr(t *testing.T, offset uint64) addr.Address {
	t.Helper()
	a, err := addr.New(offset, 32)
	if err != nil {
		t.Fatalf("building test address: %v", err)
	}
	return a
}
