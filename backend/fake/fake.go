// Package fake provides a tiny, toy instruction-set Backend used by
// this module's own tests and by cmd/ecolift to exercise the lifter
// end-to-end without depending on a real disassembly backend: a plain opcode-table decode
// switch over a deliberately minimal two-byte instruction format.
package fake

import (
	"context"
	"fmt"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/alias"
	"github.com/binlift/ecolift/backend"
	"github.com/binlift/ecolift/bitvec"
	"github.com/binlift/ecolift/ecode"
	"github.com/binlift/ecolift/ir"
	"github.com/binlift/ecolift/types"
)

func init() {
	backend.RegisterFactory("fake", func() (backend.Backend, error) { return New(), nil })
}

// RegisterSpace names the fake backend's only register space.
const RegisterSpace = "register"

// Opcodes for the toy instruction set: every instruction is 2 bytes,
// (opcode, operand).
const (
	OpNop  = 0x00 // no-op: assigns A := A
	OpMovA = 0x01 // A := operand (immediate)
	OpJmp  = 0x02 // unconditional branch to address+operand*2
	OpJz   = 0x03 // branch to address+operand*2 if A == 0, else fall through
	OpCall = 0x04 // call address+operand*2
	OpRet  = 0x05 // return
)

// ctx is the fake backend's disassembly context; it carries no state
// across instructions.
type ctx struct{}

func (*ctx) Reset() {}

// Backend is a Backend implementation over the toy two-byte instruction set.
type Backend struct{}

// New builds a fake Backend.
func New() *Backend { return &Backend{} }

func (*Backend) AddressBits() uint32 { return 32 }

func (*Backend) NewContext() backend.Context { return &ctx{} }

func (*Backend) RegisterSpaces() []string { return []string{RegisterSpace} }

func (*Backend) RegisterTable() alias.RegisterTable { return registerTable{} }

type registerTable struct{}

func (registerTable) Registers(space string) []alias.RegisterEntry {
	if space != RegisterSpace {
		return nil
	}
	return []alias.RegisterEntry{{Offset: 0, Size: 1}}
}

// RegA is the toy backend's single architectural register.
func RegA() ir.Var {
	return ir.PhysicalAt("A", types.U8, RegisterSpace, 0)
}

// LiftECode decodes exactly one 2-byte instruction at address from bytes.
func (b *Backend) LiftECode(_ context.Context, _ backend.Context, address addr.Address, bytes []byte) (backend.Disassembled, error) {
	if len(bytes) < 2 {
		return backend.Disassembled{}, &backend.DisassemblyError{Addr: address, Err: fmt.Errorf("truncated instruction")}
	}
	op, arg := bytes[0], bytes[1]
	a := RegA()

	lit := func(v uint64, bits uint32) ir.Expr {
		bv, _ := bitvec.FromUint64(v, bits)
		return ir.ValExpr{Value: bv}
	}

	var ops []ecode.Stmt
	switch op {
	case OpNop:
		ops = []ecode.Stmt{ecode.AssignStmt{Var: a, Expr: ir.VarExpr{Var: a}}}
	case OpMovA:
		ops = []ecode.Stmt{ecode.AssignStmt{Var: a, Expr: lit(uint64(arg), 8)}}
	case OpJmp:
		target := address.Offset() + uint64(arg)*2
		ops = []ecode.Stmt{ecode.BranchStmt{Target: ecode.Computed(lit(target, 32))}}
	case OpJz:
		target := address.Offset() + uint64(arg)*2
		cond := ir.BinRelExpr{Op: ir.BinRelEq, Left: ir.VarExpr{Var: a}, Right: lit(0, 8)}
		ops = []ecode.Stmt{ecode.CBranchStmt{Cond: cond, Target: ecode.Computed(lit(target, 32))}}
	case OpCall:
		target := address.Offset() + uint64(arg)*2
		ops = []ecode.Stmt{ecode.CallStmt{Target: ecode.Computed(lit(target, 32))}}
	case OpRet:
		ops = []ecode.Stmt{ecode.ReturnStmt{Target: ecode.Computed(lit(0, 32))}}
	default:
		return backend.Disassembled{}, &backend.DisassemblyError{Addr: address, Err: fmt.Errorf("unknown opcode %#x", op)}
	}

	return backend.Disassembled{
		ECode:  ecode.ECode{Address: address, Length: 2, Operations: ops},
		Length: 2,
	}, nil
}
