// Package project ties memory, a lifter and discovery oracles
// together: mapping byte regions, lifting blocks on demand, and
// indexing the Blks and Subs that come out of it.
//
// A Project is single-threaded cooperative: not safe for concurrent
// use, though independent Projects may run on separate goroutines
// freely.
package project

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/backend"
	"github.com/binlift/ecolift/entity"
	"github.com/binlift/ecolift/ir"
	"github.com/binlift/ecolift/lift"
	"github.com/binlift/ecolift/oracles"
	"github.com/binlift/ecolift/region"
)

// Project owns a memory map, a lifter and its disassembly context,
// discovery oracles, and the block/subroutine indices built up by
// successive AddBlk calls.
type Project struct {
	name string

	lifter *lift.Lifter
	dctx   backend.Context

	memory *region.Mem

	blkOracle oracles.BlkOracle
	subOracle oracles.SubOracle

	blks       map[entity.Id[ir.Blk]]*entity.Entity[ir.Blk]
	blksToAddr map[entity.Id[ir.Blk]]addr.Address
	addrToBlks map[uint64]entity.Id[ir.Blk]

	subs       map[entity.Id[ir.Sub]]*entity.Entity[ir.Sub]
	subsToAddr map[entity.Id[ir.Sub]]addr.Address
	addrToSubs map[uint64]entity.Id[ir.Sub]
	symsToSubs map[string]entity.Id[ir.Sub]

	log *logrus.Entry
}

// New builds an empty Project named name, driving b through its own Lifter.
func New(name string, b backend.Backend) *Project {
	l := lift.NewLifter(b)
	return &Project{
		name:   name,
		lifter: l,
		dctx:   b.NewContext(),
		memory: region.New("M"),

		blks:       make(map[entity.Id[ir.Blk]]*entity.Entity[ir.Blk]),
		blksToAddr: make(map[entity.Id[ir.Blk]]addr.Address),
		addrToBlks: make(map[uint64]entity.Id[ir.Blk]),

		subs:       make(map[entity.Id[ir.Sub]]*entity.Entity[ir.Sub]),
		subsToAddr: make(map[entity.Id[ir.Sub]]addr.Address),
		addrToSubs: make(map[uint64]entity.Id[ir.Sub]),
		symsToSubs: make(map[string]entity.Id[ir.Sub]),

		log: logrus.WithField("component", "project").WithField("project", name),
	}
}

// SetBlkOracle installs the block-discovery oracle consulted by AddBlk.
func (p *Project) SetBlkOracle(o oracles.BlkOracle) { p.blkOracle = o }

// SetSubOracle installs the subroutine-discovery oracle consulted by AddBlk.
func (p *Project) SetSubOracle(o oracles.SubOracle) { p.subOracle = o }

// Name returns the project's display name.
func (p *Project) Name() string { return p.name }

// Memory exposes the project's mapped-region index.
func (p *Project) Memory() *region.Mem { return p.memory }

// Lifter exposes the project's lifter.
func (p *Project) Lifter() *lift.Lifter { return p.lifter }

// AddRegionMapping maps an already-built Region into the project.
func (p *Project) AddRegionMapping(r *region.Region) *entity.Entity[region.Region] {
	return p.memory.AddRegion(r)
}

// AddRegionMappingWith builds and maps a Region in one step.
func (p *Project) AddRegionMappingWith(name string, start addr.Address, endian region.Endian, bytes []byte) *entity.Entity[region.Region] {
	return p.memory.AddRegion(region.New(name, start, endian, bytes))
}

// AddBlk lifts and indexes the block(s) starting at address. It
// degrades gracefully along three paths: no covering region and an
// empty lift result (not even the first instruction decoded) both
// return an empty, error-free slice; an error from the lifter
// propagates. A backend decode failure after the first instruction
// ends the lift with the blocks lifted so far and no error. The first of the returned Blks' id stands for the
// instruction at address in the block/addr indices.
func (p *Project) AddBlk(ctx context.Context, address addr.Address) ([]entity.Id[ir.Blk], error) {
	regionEntity, ok := p.memory.FindRegion(address)
	if !ok {
		p.log.WithField("address", address.String()).Debug("add_blk: no covering region")
		return nil, nil
	}

	bytes, err := regionEntity.Value().ViewBytesFrom(address)
	if err != nil {
		return nil, err
	}

	var sizeHint *uint64
	if p.blkOracle != nil {
		if size, ok := p.blkOracle.BlkSize(address); ok {
			sizeHint = &size
		}
	}

	result, err := p.lifter.LiftBlkWith(ctx, p.dctx, address, bytes, sizeHint)
	if err != nil {
		p.log.WithError(err).WithField("address", address.String()).Warn("add_blk: lift failed")
		return nil, err
	}

	if len(result.Blks) == 0 {
		return nil, nil
	}

	firstID := result.Blks[0].Id()
	p.blksToAddr[firstID] = address
	p.addrToBlks[address.Offset()] = firstID

	ids := make([]entity.Id[ir.Blk], 0, len(result.Blks))
	for _, b := range result.Blks {
		p.blks[b.Id()] = b
		ids = append(ids, b.Id())
	}

	p.indexSub(address)

	return ids, nil
}

// indexSub records address as a subroutine entry the first time it is
// seen, naming it from the sub oracle's symbol lookup when available.
func (p *Project) indexSub(address addr.Address) {
	if p.subOracle == nil {
		return
	}
	if _, ok := p.addrToSubs[address.Offset()]; ok {
		return
	}
	name, _ := p.subOracle.SubSymbol(address)
	sub := entity.New("sub", ir.NewSub(name, address))
	p.subs[sub.Id()] = sub
	p.subsToAddr[sub.Id()] = address
	p.addrToSubs[address.Offset()] = sub.Id()
	if name != "" {
		p.symsToSubs[name] = sub.Id()
	}
}

// Blk looks up a previously-indexed Blk by id.
func (p *Project) Blk(id entity.Id[ir.Blk]) (*entity.Entity[ir.Blk], bool) {
	b, ok := p.blks[id]
	return b, ok
}

// BlkAt looks up the first-Blk id indexed for an instruction address.
func (p *Project) BlkAt(address addr.Address) (entity.Id[ir.Blk], bool) {
	id, ok := p.addrToBlks[address.Offset()]
	return id, ok
}

// Sub looks up a previously-indexed Sub by id.
func (p *Project) Sub(id entity.Id[ir.Sub]) (*entity.Entity[ir.Sub], bool) {
	s, ok := p.subs[id]
	return s, ok
}

// SubAt looks up the Sub id indexed at entry.
func (p *Project) SubAt(address addr.Address) (entity.Id[ir.Sub], bool) {
	id, ok := p.addrToSubs[address.Offset()]
	return id, ok
}

// SubBySymbol looks up a Sub id by its indexed symbol name.
func (p *Project) SubBySymbol(name string) (entity.Id[ir.Sub], bool) {
	id, ok := p.symsToSubs[name]
	return id, ok
}
