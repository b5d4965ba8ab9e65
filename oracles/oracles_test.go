package oracles

import (
	"testing"

	"github.com/binlift/ecolift/addr"
)

func mustAddr(t *testing.T, offset uint64) addr.Address {
	t.Helper()
	a, err := addr.New(offset, 32)
	if err != nil {
		t.Fatalf("addr.New: %v", err)
	}
	return a
}

type fakeBlkOracle struct {
	sizes map[uint64]uint64
	jmps  map[uint64][]addr.Address
}

func (f fakeBlkOracle) BlkSize(a addr.Address) (uint64, bool) {
	s, ok := f.sizes[a.Offset()]
	return s, ok
}

func (f fakeBlkOracle) BlkJmps(a addr.Address) []addr.Address {
	return f.jmps[a.Offset()]
}

type fakeSubOracle struct {
	starts  []addr.Address
	symbols map[uint64]string
	blocks  map[uint64][]addr.Address
}

func (f fakeSubOracle) SubStarts() []addr.Address { return f.starts }

func (f fakeSubOracle) SubSymbol(a addr.Address) (string, bool) {
	s, ok := f.symbols[a.Offset()]
	return s, ok
}

func (f fakeSubOracle) SubBlocks(a addr.Address) []addr.Address {
	return f.blocks[a.Offset()]
}

func TestBlkOraclesFirstHitWinsOnSize(t *testing.T) {
	a := mustAddr(t, 0x100)
	first := fakeBlkOracle{sizes: map[uint64]uint64{0x100: 4}}
	second := fakeBlkOracle{sizes: map[uint64]uint64{0x100: 8}}

	layered := BlkOracles{first, second}
	size, ok := layered.BlkSize(a)
	if !ok || size != 4 {
		t.Fatalf("expected the first oracle's size 4, got %d, %v", size, ok)
	}
}

func TestBlkOraclesFallsThroughOnMiss(t *testing.T) {
	a := mustAddr(t, 0x200)
	first := fakeBlkOracle{sizes: map[uint64]uint64{}}
	second := fakeBlkOracle{sizes: map[uint64]uint64{0x200: 16}}

	layered := BlkOracles{first, second}
	size, ok := layered.BlkSize(a)
	if !ok || size != 16 {
		t.Fatalf("expected fallthrough to the second oracle's size 16, got %d, %v", size, ok)
	}
}

func TestBlkOraclesJmpsUnionAcrossOracles(t *testing.T) {
	a := mustAddr(t, 0x300)
	j1 := mustAddr(t, 0x310)
	j2 := mustAddr(t, 0x320)
	first := fakeBlkOracle{jmps: map[uint64][]addr.Address{0x300: {j1}}}
	second := fakeBlkOracle{jmps: map[uint64][]addr.Address{0x300: {j2}}}

	layered := BlkOracles{first, second}
	got := layered.BlkJmps(a)
	if len(got) != 2 {
		t.Fatalf("expected the union of both oracles' jmps, got %d", len(got))
	}
}

func TestSubOraclesSymbolFirstHit(t *testing.T) {
	a := mustAddr(t, 0x400)
	first := fakeSubOracle{symbols: map[uint64]string{}}
	second := fakeSubOracle{symbols: map[uint64]string{0x400: "main"}}

	layered := SubOracles{first, second}
	sym, ok := layered.SubSymbol(a)
	if !ok || sym != "main" {
		t.Fatalf("expected fallthrough symbol 'main', got %q, %v", sym, ok)
	}
}
