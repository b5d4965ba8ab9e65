package ir

import "fmt"

// Def is a data effect within a block: either an assignment or an assumption.
type Def interface {
	isDef()
	String() string
}

// AssignDef assigns the value of Expr to Var.
type AssignDef struct {
	Var  Var
	Expr Expr
}

func (AssignDef) isDef() {}
func (d AssignDef) String() string { return fmt.Sprintf("%s = %s", d.Var, d.Expr) }

// Assign builds an AssignDef.
func Assign(v Var, e Expr) AssignDef { return AssignDef{Var: v, Expr: e} }

// AssumeDef asserts that Expr holds at this program point.
type AssumeDef struct{ Expr Expr }

func (AssumeDef) isDef() {}
func (d AssumeDef) String() string { return fmt.Sprintf("assume %s", d.Expr) }

// Assume builds an AssumeDef.
func Assume(e Expr) AssumeDef { return AssumeDef{Expr: e} }

// Jmp is a control effect terminating (or partially terminating) a block.
type Jmp interface {
	isJmp()
	String() string
}

// BranchJmp unconditionally transfers control to Target.
type BranchJmp struct{ Target Loc }

func (BranchJmp) isJmp() {}
func (j BranchJmp) String() string { return fmt.Sprintf("goto %s", j.Target) }

// Branch builds a BranchJmp.
func Branch(target Loc) BranchJmp { return BranchJmp{Target: target} }

// CBranchJmp transfers control to Target if Cond holds.
type CBranchJmp struct {
	Cond   Expr
	Target Loc
}

func (CBranchJmp) isJmp() {}
func (j CBranchJmp) String() string { return fmt.Sprintf("if %s goto %s", j.Cond, j.Target) }

// CBranch builds a CBranchJmp.
func CBranch(target Loc, cond Expr) CBranchJmp { return CBranchJmp{Cond: cond, Target: target} }

// CallJmp transfers control to a subroutine at Target, passing Args.
type CallJmp struct {
	Target Loc
	Args   []Expr
}

func (CallJmp) isJmp() {}
func (j CallJmp) String() string { return fmt.Sprintf("call %s(%s)", j.Target, joinExprs(j.Args)) }

// IntrinsicJmp invokes a named intrinsic as a control effect.
type IntrinsicJmp struct {
	Name string
	Args []Expr
}

func (IntrinsicJmp) isJmp() {}
func (j IntrinsicJmp) String() string {
	return fmt.Sprintf("intrinsic %s(%s)", j.Name, joinExprs(j.Args))
}

// ReturnJmp transfers control back to the caller at Target.
type ReturnJmp struct{ Target Loc }

func (ReturnJmp) isJmp() {}
func (j ReturnJmp) String() string { return fmt.Sprintf("return %s", j.Target) }
