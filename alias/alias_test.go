package alias

import (
	"testing"

	"github.com/binlift/ecolift/ecode"
	"github.com/binlift/ecolift/ir"
	"github.com/binlift/ecolift/types"
)

const regSpace = "register"

type fakeTable struct{ regs []RegisterEntry }

func (f fakeTable) Registers(space string) []RegisterEntry {
	if space != regSpace {
		return nil
	}
	return f.regs
}

func buildRegisters() map[string]*SpaceIndex {
	// EAX spans bytes [0,4); AX is its low word [0,2); AL is its low byte [0,1).
	return NewRegisterIndex([]string{regSpace}, fakeTable{regs: []RegisterEntry{
		{Offset: 0, Size: 4}, // EAX
		{Offset: 0, Size: 2}, // AX
		{Offset: 0, Size: 1}, // AL
	}})
}

func TestEnclosingFindsWidestRegister(t *testing.T) {
	p := NewPass(buildRegisters())
	al := ir.PhysicalAt("AL", types.U8, regSpace, 0)
	eax := p.enclosing(al)
	if eax.Bits() != 32 {
		t.Fatalf("expected enclosing(AL) to be 32 bits (EAX), got %d", eax.Bits())
	}
	if eax.Kind.Offset != 0 {
		t.Fatalf("expected EAX offset 0, got %d", eax.Kind.Offset)
	}
}

func TestRewriteReadOfSubRegisterExtractsFromParent(t *testing.T) {
	p := NewPass(buildRegisters())
	al := ir.PhysicalAt("AL", types.U8, regSpace, 0)

	rewritten := p.rewriteExpr(ir.VarExpr{Var: al})
	extract, ok := rewritten.(ir.ExtractExpr)
	if !ok {
		t.Fatalf("expected an ExtractExpr, got %T", rewritten)
	}
	if extract.Lsb != 0 || extract.Msb != 8 {
		t.Fatalf("expected extract [0,8), got [%d,%d)", extract.Lsb, extract.Msb)
	}
	inner, ok := extract.Arg.(ir.VarExpr)
	if !ok || inner.Var.Bits() != 32 {
		t.Fatalf("expected the extract's argument to read the 32-bit parent, got %#v", extract.Arg)
	}
}

func TestRewriteWriteToSubRegisterConcatsIntoParent(t *testing.T) {
	p := NewPass(buildRegisters())
	al := ir.PhysicalAt("AL", types.U8, regSpace, 0)

	stmt := ecode.AssignStmt{Var: al, Expr: ir.VarExpr{Var: al}}
	rewritten := p.rewriteStmt(stmt).(ecode.AssignStmt)

	if rewritten.Var.Bits() != 32 {
		t.Fatalf("expected the assignment target to widen to 32 bits, got %d", rewritten.Var.Bits())
	}
	concat, ok := rewritten.Expr.(ir.ConcatExpr)
	if !ok {
		t.Fatalf("expected a ConcatExpr, got %T", rewritten.Expr)
	}
	high, ok := concat.High.(ir.ExtractExpr)
	if !ok || high.Lsb != 8 || high.Msb != 32 {
		t.Fatalf("expected the high bits [8,32) of EAX preserved, got %#v", concat.High)
	}
}

func TestEnclosingEqualWidthNoOp(t *testing.T) {
	p := NewPass(buildRegisters())
	eax := ir.PhysicalAt("EAX", types.U32, regSpace, 0)
	got := p.enclosing(eax)
	if !got.Equal(eax) {
		t.Fatalf("expected enclosing(EAX) to be EAX itself, got %#v", got)
	}
}
