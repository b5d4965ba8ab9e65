// Package lift implements the lifter: it drives a backend over a byte
// view one instruction at a time, runs the alias-normalisation pass
// over each instruction's micro-ops, and assembles the result into
// strict basic blocks under IDA's coarse-grain definition (only a
// non-local transfer or a return ends a block).
package lift

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/alias"
	"github.com/binlift/ecolift/backend"
	"github.com/binlift/ecolift/ecode"
	"github.com/binlift/ecolift/entity"
	"github.com/binlift/ecolift/ir"
)

// ErrEmptyView is returned when the clamped byte view has zero length.
var ErrEmptyView = errors.New("lift: empty byte view")

// Result is the outcome of lifting one basic block: the ordered list
// of Blks produced (intra-instruction jumps may split a single
// instruction across more than one) and the map from each lifted
// instruction's address to the id of the first Blk its effects landed in.
type Result struct {
	Blks     []*entity.Entity[ir.Blk]
	FirstBlk map[uint64]entity.Id[ir.Blk]
}

// Lifter drives one backend, owning the register-alias index derived
// from its register table and, optionally, a long-lived disassembly
// context shared across LiftBlk calls.
type Lifter struct {
	backend   backend.Backend
	registers map[string]*alias.SpaceIndex
	dctx      backend.Context
	log       *logrus.Entry
}

// NewLifter builds a Lifter bound to b, pre-indexing its register table.
func NewLifter(b backend.Backend) *Lifter {
	return &Lifter{
		backend:   b,
		registers: alias.NewRegisterIndex(b.RegisterSpaces(), b.RegisterTable()),
		dctx:      b.NewContext(),
		log:       logrus.WithField("component", "lift"),
	}
}

// LiftBlk lifts a basic block starting at address, using the Lifter's
// own disassembly context.
func (l *Lifter) LiftBlk(ctx context.Context, address addr.Address, bytes []byte, sizeHint *uint64) (Result, error) {
	return l.LiftBlkWith(ctx, l.dctx, address, bytes, sizeHint)
}

// LiftBlkWith lifts a basic block starting at address using an
// explicitly supplied disassembly context, for callers that own their
// own context rather than using the Lifter's (Project holds one per
// Project).
func (l *Lifter) LiftBlkWith(ctx context.Context, dctx backend.Context, address addr.Address, bytes []byte, sizeHint *uint64) (Result, error) {
	clamped := clampView(bytes, sizeHint)
	if len(clamped) == 0 {
		return Result{}, ErrEmptyView
	}

	asm := newAssembler(address.Bits())
	offset := uint64(0)

	for offset < uint64(len(clamped)) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		instrAddr, err := addr.New(address.Offset()+offset, address.Bits())
		if err != nil {
			return Result{}, fmt.Errorf("lift: %w", err)
		}

		disasm, err := l.backend.LiftECode(ctx, dctx, instrAddr, clamped[offset:])
		if err != nil {
			l.log.WithError(err).WithField("address", instrAddr.String()).Warn("backend lift failed")
			break
		}

		alias.Apply(l.registers, &disasm.ECode)

		shouldStop := asm.addInstruction(disasm.ECode)

		offset += disasm.Length
		if shouldStop {
			break
		}
	}

	return asm.finish(), nil
}

// clampView bounds bytes to min(len(bytes), *sizeHint); a nil
// sizeHint leaves bytes unbounded.
func clampView(bytes []byte, sizeHint *uint64) []byte {
	if sizeHint == nil {
		return bytes
	}
	if *sizeHint < uint64(len(bytes)) {
		return bytes[:*sizeHint]
	}
	return bytes
}
