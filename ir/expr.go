package ir

import (
	"fmt"
	"strings"

	"github.com/binlift/ecolift/bitvec"
)

// Expr is implemented by every IR expression node.
type Expr interface {
	isExpr()
	String() string
}

// UnOp enumerates unary arithmetic/bitwise operators.
type UnOp int

// Unary operators.
const (
	UnNeg UnOp = iota
	UnNot
	UnAbs
	UnSqrt
	UnFloor
	UnCeiling
	UnRound
)

// UnRel enumerates unary relational (predicate) operators.
type UnRel int

// Unary relational operators.
const (
	UnRelNaN UnRel = iota
)

// BinOp enumerates binary arithmetic/bitwise operators.
type BinOp int

// Binary operators.
const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinSdiv
	BinRem
	BinSrem
	BinAnd
	BinOr
	BinXor
	BinShl
	BinShr
	BinSar
)

// BinRel enumerates binary relational (comparison) operators.
type BinRel int

// Binary relational operators.
const (
	BinRelEq BinRel = iota
	BinRelNeq
	BinRelLt
	BinRelLe
	BinRelSlt
	BinRelSle
)

// ValExpr is a literal bit-vector value.
type ValExpr struct{ Value bitvec.BitVec }

func (ValExpr) isExpr() {}
func (e ValExpr) String() string { return e.Value.String() }

// FValExpr is a literal float value, carried as a float64 tagged with
// a declared float width (f32/f64/f80).
type FValExpr struct {
	Bits  uint32
	Value float64
}

func (FValExpr) isExpr() {}
func (e FValExpr) String() string { return fmt.Sprintf("%gf%d", e.Value, e.Bits) }

// VarExpr references a Var's current value.
type VarExpr struct{ Var Var }

func (VarExpr) isExpr() {}
func (e VarExpr) String() string { return e.Var.String() }

// UnExpr applies a unary arithmetic operator.
type UnExpr struct {
	Op  UnOp
	Arg Expr
}

func (UnExpr) isExpr() {}
func (e UnExpr) String() string { return fmt.Sprintf("un(%d, %s)", e.Op, e.Arg) }

// UnRelExpr applies a unary relational (predicate) operator.
type UnRelExpr struct {
	Op  UnRel
	Arg Expr
}

func (UnRelExpr) isExpr() {}
func (e UnRelExpr) String() string { return fmt.Sprintf("unrel(%d, %s)", e.Op, e.Arg) }

// BinExpr applies a binary arithmetic operator.
type BinExpr struct {
	Op          BinOp
	Left, Right Expr
}

func (BinExpr) isExpr() {}
func (e BinExpr) String() string { return fmt.Sprintf("bin(%d, %s, %s)", e.Op, e.Left, e.Right) }

// BinRelExpr applies a binary relational operator.
type BinRelExpr struct {
	Op          BinRel
	Left, Right Expr
}

func (BinRelExpr) isExpr() {}
func (e BinRelExpr) String() string { return fmt.Sprintf("binrel(%d, %s, %s)", e.Op, e.Left, e.Right) }

// CastExpr reinterprets Arg at a new bit width, signed or unsigned.
type CastExpr struct {
	Bits   uint32
	Signed bool
	Arg    Expr
}

func (CastExpr) isExpr() {}
func (e CastExpr) String() string {
	sign := "u"
	if e.Signed {
		sign = "i"
	}
	return fmt.Sprintf("cast(%s%d, %s)", sign, e.Bits, e.Arg)
}

// LoadExpr reads Bits bits from a memory-kind variable's space at Addr.
type LoadExpr struct {
	Space Var
	Addr  Expr
	Bits  uint32
}

func (LoadExpr) isExpr() {}
func (e LoadExpr) String() string { return fmt.Sprintf("load(%s, %s, %d)", e.Space, e.Addr, e.Bits) }

// ExtractExpr extracts bits [Lsb, Msb) of Arg.
type ExtractExpr struct {
	Arg      Expr
	Lsb, Msb uint32
}

func (ExtractExpr) isExpr() {}
func (e ExtractExpr) String() string {
	return fmt.Sprintf("extract(%s, %d, %d)", e.Arg, e.Lsb, e.Msb)
}

// ConcatExpr concatenates High:Low into a single wider value.
type ConcatExpr struct{ High, Low Expr }

func (ConcatExpr) isExpr() {}
func (e ConcatExpr) String() string { return fmt.Sprintf("concat(%s, %s)", e.High, e.Low) }

// IfElseExpr selects Then or Else based on Cond.
type IfElseExpr struct{ Cond, Then, Else Expr }

func (IfElseExpr) isExpr() {}
func (e IfElseExpr) String() string {
	return fmt.Sprintf("ite(%s, %s, %s)", e.Cond, e.Then, e.Else)
}

// CallExpr invokes a target location with the given argument expressions.
type CallExpr struct {
	Target Loc
	Args   []Expr
}

func (CallExpr) isExpr() {}
func (e CallExpr) String() string {
	return fmt.Sprintf("call(%s, %s)", e.Target, joinExprs(e.Args))
}

// IntrinsicExpr invokes a named intrinsic with the given argument expressions.
type IntrinsicExpr struct {
	Name string
	Args []Expr
}

func (IntrinsicExpr) isExpr() {}
func (e IntrinsicExpr) String() string {
	return fmt.Sprintf("intrinsic(%s, %s)", e.Name, joinExprs(e.Args))
}

func joinExprs(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// ExtractLow builds extract(arg, 0, bits).
func ExtractLow(arg Expr, bits uint32) Expr {
	return ExtractExpr{Arg: arg, Lsb: 0, Msb: bits}
}

// ExtractHigh builds extract(arg, totalBits-bits, totalBits).
func ExtractHigh(arg Expr, totalBits, bits uint32) Expr {
	return ExtractExpr{Arg: arg, Lsb: totalBits - bits, Msb: totalBits}
}
