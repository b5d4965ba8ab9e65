// Package alias implements the register-alias normalisation pass:
// rewriting accesses to architectural sub-register views (AL, AH, AX
// within EAX) into extract/concat expressions over the enclosing
// register, so downstream SSA construction sees one variable per
// physical register.
package alias

import (
	"github.com/binlift/ecolift/ecode"
	"github.com/binlift/ecolift/ir"
)

// byteInterval is a half-open [Start, End) byte range within a register space.
type byteInterval struct {
	Start, End uint64
}

func interval(v ir.Var) byteInterval {
	return byteInterval{Start: v.Kind.Offset, End: v.Kind.Offset + uint64(v.Bits())/8}
}

func (iv byteInterval) contains(other byteInterval) bool {
	return iv.Start <= other.Start && iv.End >= other.End
}

// strictlyLarger reports whether iv is a strictly-larger superset of
// other under the spec's tie-break: "strictly-larger
// either edge wins over equal" — iv must contain other, and at least
// one edge must be strictly outside other's.
func (iv byteInterval) strictlyLarger(other byteInterval) bool {
	return iv.contains(other) && (iv.Start < other.Start || iv.End > other.End)
}

// SpaceIndex is an interval set of byte ranges observed or declared
// for one register address space.
type SpaceIndex struct {
	intervals []byteInterval
}

func (s *SpaceIndex) insert(iv byteInterval) {
	for _, e := range s.intervals {
		if e == iv {
			return
		}
	}
	s.intervals = append(s.intervals, iv)
}

// enclosing finds the widest interval in s that contains target,
// using the tie-break "strictly-larger either edge wins over equal":
// among all containing intervals, one that is strictly larger on
// either edge beats one that matches both edges exactly.
func (s *SpaceIndex) enclosing(target byteInterval) (byteInterval, bool) {
	var best byteInterval
	found := false
	for _, iv := range s.intervals {
		if !iv.contains(target) {
			continue
		}
		if !found {
			best, found = iv, true
			continue
		}
		if iv.strictlyLarger(best) {
			best = iv
		}
	}
	return best, found
}

// RegisterTable is the backend's ((offset, size-bytes) -> name) iteration.
type RegisterTable interface {
	Registers(space string) []RegisterEntry
}

// RegisterEntry is a single (offset, size) register-table row.
type RegisterEntry struct {
	Offset uint64
	Size   uint64
}

// NewRegisterIndex builds the per-space interval index from the
// backend's register table, once per lifter.
func NewRegisterIndex(spaces []string, table RegisterTable) map[string]*SpaceIndex {
	out := make(map[string]*SpaceIndex, len(spaces))
	for _, space := range spaces {
		idx := &SpaceIndex{}
		for _, reg := range table.Registers(space) {
			idx.insert(byteInterval{Start: reg.Offset, End: reg.Offset + reg.Size})
		}
		out[space] = idx
	}
	return out
}

// Pass runs the alias-normalisation pass over one instruction's
// micro-op sequence. registers is the pre-built, per-lifter register
// index; a fresh Pass must be constructed per instruction since the
// non-register variable index it accumulates is instruction-local.
type Pass struct {
	registers map[string]*SpaceIndex
	indexes   map[string]*SpaceIndex
}

// NewPass builds a Pass bound to the lifter's register index.
func NewPass(registers map[string]*SpaceIndex) *Pass {
	return &Pass{registers: registers, indexes: make(map[string]*SpaceIndex)}
}

func (p *Pass) indexFor(space string) *SpaceIndex {
	if idx, ok := p.indexes[space]; ok {
		return idx
	}
	idx := &SpaceIndex{}
	p.indexes[space] = idx
	return idx
}

func (p *Pass) insertObserved(v ir.Var) {
	if !v.IsPhysical() || v.Kind.Space == "" {
		return
	}
	if _, isReg := p.registers[v.Kind.Space]; isReg {
		return // register-space vars are pre-indexed; never re-indexed per instance
	}
	p.indexFor(v.Kind.Space).insert(interval(v))
}

// enclosing returns the widest variable enclosing v: registers
// consult the pre-built register index; anything else consults this
// pass's instruction-local index. If no wider interval is found, v
// itself is returned unchanged.
func (p *Pass) enclosing(v ir.Var) ir.Var {
	if !v.IsPhysical() || v.Kind.Space == "" {
		return v
	}
	idx, ok := p.registers[v.Kind.Space]
	if !ok {
		idx, ok = p.indexes[v.Kind.Space], true
		if idx == nil {
			return v
		}
	}
	iv, found := idx.enclosing(interval(v))
	if !found {
		return v
	}
	if iv == interval(v) {
		return v
	}
	bits := uint32((iv.End - iv.Start) * 8)
	out := v
	out.Kind.Offset = iv.Start
	out.Kind.Bits = bits
	return out
}

// resizeExpr is ported directly from aliases.rs's generic resize_expr:
// it compares svar.Bits() against pvar.Bits() and always produces an
// expression pvar.Bits() wide, whichever of the two is narrower. Callers
// choose which logical variable (the sub-register access or its
// enclosing register) occupies the svar/pvar slot, which is what
// selects between the read-case (extract, output width = pvar.Bits())
// and the write-case (concat, output width = pvar.Bits()) — see the
// two call sites in rewriteExpr and rewriteStmt for the argument order
// each direction requires.
func resizeExpr(svar, pvar ir.Var, expr ir.Expr) ir.Expr {
	switch {
	case svar.Bits() > pvar.Bits():
		if svar.Kind.Offset == pvar.Kind.Offset {
			return ir.ExtractLow(expr, pvar.Bits())
		}
		loff := uint32(pvar.Kind.Offset-svar.Kind.Offset) * 8
		return ir.ExtractExpr{Arg: expr, Lsb: loff, Msb: loff + pvar.Bits()}

	case svar.Bits() < pvar.Bits():
		pvarExpr := ir.VarExpr{Var: pvar}
		switch {
		case svar.Kind.Offset == pvar.Kind.Offset:
			high := ir.ExtractHigh(pvarExpr, pvar.Bits(), pvar.Bits()-svar.Bits())
			return ir.ConcatExpr{High: high, Low: expr}
		case svar.Kind.Offset+uint64(svar.Bits())/8 == uint64(pvar.Bits())/8:
			low := ir.ExtractLow(pvarExpr, pvar.Bits()-svar.Bits())
			return ir.ConcatExpr{High: expr, Low: low}
		default:
			shift := uint32(svar.Kind.Offset-pvar.Kind.Offset) * 8
			high := ir.ExtractHigh(pvarExpr, pvar.Bits(), pvar.Bits()-svar.Bits()-shift)
			low := ir.ExtractLow(pvarExpr, shift)
			return ir.ConcatExpr{High: high, Low: ir.ConcatExpr{High: expr, Low: low}}
		}

	default:
		return expr
	}
}

// Apply runs the two-phase alias-normalisation pass over e's
// operations in place: an index phase records every non-register
// variable's interval, then a rewrite phase replaces every
// sub-register variable reference with a resize expression over its
// enclosing register.
func Apply(registers map[string]*SpaceIndex, e *ecode.ECode) {
	pass := NewPass(registers)

	for _, stmt := range e.Operations {
		visitStmtVars(stmt, pass.insertObserved)
	}

	for i, stmt := range e.Operations {
		e.Operations[i] = pass.rewriteStmt(stmt)
	}
}

func visitStmtVars(s ecode.Stmt, fn ir.VarVisitor) {
	switch x := s.(type) {
	case ecode.AssignStmt:
		fn(x.Var)
		ir.VisitVars(x.Expr, fn)
	case ecode.AssumeStmt:
		ir.VisitVars(x.Expr, fn)
	case ecode.BranchStmt:
		visitBranchTargetVars(x.Target, fn)
	case ecode.CBranchStmt:
		ir.VisitVars(x.Cond, fn)
		visitBranchTargetVars(x.Target, fn)
	case ecode.CallStmt:
		visitBranchTargetVars(x.Target, fn)
		for _, a := range x.Args {
			ir.VisitVars(a, fn)
		}
	case ecode.IntrinsicStmt:
		for _, a := range x.Args {
			ir.VisitVars(a, fn)
		}
	case ecode.ReturnStmt:
		visitBranchTargetVars(x.Target, fn)
	}
}

func visitBranchTargetVars(bt ecode.BranchTarget, fn ir.VarVisitor) {
	if bt.Tag == ecode.BranchComputed {
		ir.VisitVars(bt.Computed, fn)
	}
}

func (p *Pass) rewriteExpr(e ir.Expr) ir.Expr {
	return ir.RewriteVars(e, func(v ir.Var) ir.Expr {
		pvar := p.enclosing(v)
		if pvar.Equal(v) {
			return ir.VarExpr{Var: v}
		}
		return resizeExpr(pvar, v, ir.VarExpr{Var: pvar})
	})
}

func (p *Pass) rewriteBranchTarget(bt ecode.BranchTarget) ecode.BranchTarget {
	if bt.Tag != ecode.BranchComputed {
		return bt
	}
	return ecode.Computed(p.rewriteExpr(bt.Computed))
}

func (p *Pass) rewriteStmt(s ecode.Stmt) ecode.Stmt {
	switch x := s.(type) {
	case ecode.AssignStmt:
		svar := x.Var
		rewrittenExpr := p.rewriteExpr(x.Expr)
		pvar := p.enclosing(svar)
		if pvar.Equal(svar) {
			return ecode.AssignStmt{Var: svar, Expr: rewrittenExpr}
		}
		resized := resizeExpr(svar, pvar, rewrittenExpr)
		return ecode.AssignStmt{Var: pvar.WithGeneration(svar.Generation), Expr: resized}
	case ecode.AssumeStmt:
		return ecode.AssumeStmt{Expr: p.rewriteExpr(x.Expr)}
	case ecode.BranchStmt:
		return ecode.BranchStmt{Target: p.rewriteBranchTarget(x.Target)}
	case ecode.CBranchStmt:
		return ecode.CBranchStmt{Cond: p.rewriteExpr(x.Cond), Target: p.rewriteBranchTarget(x.Target)}
	case ecode.CallStmt:
		args := make([]ir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = p.rewriteExpr(a)
		}
		return ecode.CallStmt{Target: p.rewriteBranchTarget(x.Target), Args: args}
	case ecode.IntrinsicStmt:
		args := make([]ir.Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = p.rewriteExpr(a)
		}
		return ecode.IntrinsicStmt{Name: x.Name, Args: args}
	case ecode.ReturnStmt:
		return ecode.ReturnStmt{Target: p.rewriteBranchTarget(x.Target)}
	default:
		return s
	}
}
