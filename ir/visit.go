package ir

// VarVisitor is called once per Var reference encountered while
// walking an Expr/Def/Jmp tree.
type VarVisitor func(v Var)

// VisitVars walks e and calls fn for every Var it references,
// recursing into every sub-expression shape this package defines.
func VisitVars(e Expr, fn VarVisitor) {
	switch x := e.(type) {
	case VarExpr:
		fn(x.Var)
	case UnExpr:
		VisitVars(x.Arg, fn)
	case UnRelExpr:
		VisitVars(x.Arg, fn)
	case BinExpr:
		VisitVars(x.Left, fn)
		VisitVars(x.Right, fn)
	case BinRelExpr:
		VisitVars(x.Left, fn)
		VisitVars(x.Right, fn)
	case CastExpr:
		VisitVars(x.Arg, fn)
	case LoadExpr:
		fn(x.Space)
		VisitVars(x.Addr, fn)
	case ExtractExpr:
		VisitVars(x.Arg, fn)
	case ConcatExpr:
		VisitVars(x.High, fn)
		VisitVars(x.Low, fn)
	case IfElseExpr:
		VisitVars(x.Cond, fn)
		VisitVars(x.Then, fn)
		VisitVars(x.Else, fn)
	case CallExpr:
		for _, a := range x.Args {
			VisitVars(a, fn)
		}
	case IntrinsicExpr:
		for _, a := range x.Args {
			VisitVars(a, fn)
		}
	}
}

// VarRewriter rewrites a single Var reference into a replacement Expr.
// Returning VarExpr{Var: v} (unchanged) is a valid no-op rewrite.
type VarRewriter func(v Var) Expr

// RewriteVars returns a copy of e with every Var reference replaced by
// the result of calling fn on it, recursing through every
// sub-expression shape this package defines.
func RewriteVars(e Expr, fn VarRewriter) Expr {
	switch x := e.(type) {
	case VarExpr:
		return fn(x.Var)
	case UnExpr:
		return UnExpr{Op: x.Op, Arg: RewriteVars(x.Arg, fn)}
	case UnRelExpr:
		return UnRelExpr{Op: x.Op, Arg: RewriteVars(x.Arg, fn)}
	case BinExpr:
		return BinExpr{Op: x.Op, Left: RewriteVars(x.Left, fn), Right: RewriteVars(x.Right, fn)}
	case BinRelExpr:
		return BinRelExpr{Op: x.Op, Left: RewriteVars(x.Left, fn), Right: RewriteVars(x.Right, fn)}
	case CastExpr:
		return CastExpr{Bits: x.Bits, Signed: x.Signed, Arg: RewriteVars(x.Arg, fn)}
	case LoadExpr:
		return LoadExpr{Space: x.Space, Addr: RewriteVars(x.Addr, fn), Bits: x.Bits}
	case ExtractExpr:
		return ExtractExpr{Arg: RewriteVars(x.Arg, fn), Lsb: x.Lsb, Msb: x.Msb}
	case ConcatExpr:
		return ConcatExpr{High: RewriteVars(x.High, fn), Low: RewriteVars(x.Low, fn)}
	case IfElseExpr:
		return IfElseExpr{
			Cond: RewriteVars(x.Cond, fn),
			Then: RewriteVars(x.Then, fn),
			Else: RewriteVars(x.Else, fn),
		}
	case CallExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = RewriteVars(a, fn)
		}
		return CallExpr{Target: x.Target, Args: args}
	case IntrinsicExpr:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = RewriteVars(a, fn)
		}
		return IntrinsicExpr{Name: x.Name, Args: args}
	default:
		return e
	}
}

// VisitDefVars visits every Var reference within a Def (its assigned
// variable and any expression subtrees).
func VisitDefVars(d Def, fn VarVisitor) {
	switch x := d.(type) {
	case AssignDef:
		fn(x.Var)
		VisitVars(x.Expr, fn)
	case AssumeDef:
		VisitVars(x.Expr, fn)
	}
}

// RewriteDefVars rewrites every Var reference within a Def's
// expression subtrees via fn; rewriteVar additionally rewrites the
// def's own assigned variable (the write side) since that follows
// different rules than read-side Var references.
func RewriteDefVars(d Def, fn VarRewriter, rewriteVar func(Var) Var) Def {
	switch x := d.(type) {
	case AssignDef:
		return AssignDef{Var: rewriteVar(x.Var), Expr: RewriteVars(x.Expr, fn)}
	case AssumeDef:
		return AssumeDef{Expr: RewriteVars(x.Expr, fn)}
	default:
		return d
	}
}

// VisitJmpVars visits every Var reference within a Jmp's expression subtrees.
func VisitJmpVars(j Jmp, fn VarVisitor) {
	switch x := j.(type) {
	case CBranchJmp:
		VisitVars(x.Cond, fn)
	case CallJmp:
		for _, a := range x.Args {
			VisitVars(a, fn)
		}
	case IntrinsicJmp:
		for _, a := range x.Args {
			VisitVars(a, fn)
		}
	}
}

// RewriteJmpVars rewrites every Var reference within a Jmp's expression subtrees.
func RewriteJmpVars(j Jmp, fn VarRewriter) Jmp {
	switch x := j.(type) {
	case CBranchJmp:
		return CBranchJmp{Cond: RewriteVars(x.Cond, fn), Target: x.Target}
	case CallJmp:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = RewriteVars(a, fn)
		}
		return CallJmp{Target: x.Target, Args: args}
	case IntrinsicJmp:
		args := make([]Expr, len(x.Args))
		for i, a := range x.Args {
			args[i] = RewriteVars(a, fn)
		}
		return IntrinsicJmp{Name: x.Name, Args: args}
	default:
		return j
	}
}
