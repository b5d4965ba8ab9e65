package ir

import "github.com/binlift/ecolift/entity"

// NewBlk builds an empty, unidentified block wrapped in a fresh Entity.
func NewBlk() *entity.Entity[Blk] {
	return entity.New("blk", Blk{})
}

// AddPhi appends a phi to the block.
func AddPhi(b *entity.Entity[Blk], phi *Phi) {
	b.Value().Phis = append(b.Value().Phis, entity.New[Phi]("phi", *phi))
}

// AddDef appends a data effect to the block.
func AddDef(b *entity.Entity[Blk], def Def) {
	b.Value().Defs = append(b.Value().Defs, entity.New[Def]("def", def))
}

// AddJmp appends a control effect to the block.
func AddJmp(b *entity.Entity[Blk], jmp Jmp) {
	b.Value().Jmps = append(b.Value().Jmps, entity.New[Jmp]("jmp", jmp))
}

// splitOff slices the def list at pos (nil means "slice at the end,
// i.e. an empty child"), moves defs[pos:] and all jmps into a new
// block, and installs an unconditional Branch to the new block's id
// as the parent's sole jmp.
func splitOff(b *entity.Entity[Blk], pos *int) *entity.Entity[Blk] {
	val := b.Value()
	var moved []*entity.Entity[Def]
	if pos != nil {
		p := *pos
		if p < 0 {
			p = 0
		}
		if p > len(val.Defs) {
			p = len(val.Defs)
		}
		moved = append(moved, val.Defs[p:]...)
		val.Defs = val.Defs[:p]
	}

	child := entity.New("blk", Blk{Defs: moved, Jmps: val.Jmps})
	val.Jmps = []*entity.Entity[Jmp]{
		entity.New[Jmp]("jmp", Branch(Resolved(child.Id()))),
	}
	return child
}

// SplitOff slices the def list at pos, moving the tail and all jmps
// into a new block. A nil pos moves no defs (an empty child) but
// still transfers the jmps, for when a split point isn't found.
func SplitOff(b *entity.Entity[Blk], pos *int) *entity.Entity[Blk] {
	return splitOff(b, pos)
}

// SplitTop moves every def (and all jmps) into a new block, leaving
// the parent empty of defs but branching into the child.
func SplitTop(b *entity.Entity[Blk]) *entity.Entity[Blk] {
	zero := 0
	return splitOff(b, &zero)
}

// SplitBottom moves no defs (and all jmps) into a new, empty child block.
func SplitBottom(b *entity.Entity[Blk]) *entity.Entity[Blk] {
	n := len(b.Value().Defs)
	return splitOff(b, &n)
}

func findDefPos(b *entity.Entity[Blk], id entity.Id[Def]) (int, bool) {
	for i, d := range b.Value().Defs {
		if d.Id().Equal(id) {
			return i, true
		}
	}
	return 0, false
}

// SplitBefore finds the def carrying id and splits the block so that
// it and everything after it move to the new child. If id is not
// found, splits as SplitOff(nil): no defs move, but jmps still do.
func SplitBefore(b *entity.Entity[Blk], id entity.Id[Def]) *entity.Entity[Blk] {
	if pos, ok := findDefPos(b, id); ok {
		return splitOff(b, &pos)
	}
	return splitOff(b, nil)
}

// SplitAfter finds the def carrying id and splits the block so that
// everything after it moves to the new child. If id is not found,
// splits as SplitOff(nil): no defs move, but jmps still do.
func SplitAfter(b *entity.Entity[Blk], id entity.Id[Def]) *entity.Entity[Blk] {
	if pos, ok := findDefPos(b, id); ok {
		pos++
		return splitOff(b, &pos)
	}
	return splitOff(b, nil)
}
