package region

import (
	"sort"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/entity"
)

// memEntry pairs a mapped region with its insertion sequence number,
// since entries is kept sorted by start address for Regions() and so
// slice position alone can't tell FindRegion which entry is newest.
type memEntry struct {
	seq    int
	region *entity.Entity[Region]
}

// Mem is an interval map from address ranges to Regions, keyed by
// range start: a small sorted-slice index.
type Mem struct {
	name    string
	entries []memEntry
	nextSeq int
}

// New builds an empty Mem with the given display name.
func New(name string) *Mem {
	return &Mem{name: name}
}

// Name returns the memory map's display name.
func (m *Mem) Name() string { return m.name }

// AddRegion inserts r into the map. Overlap policy is last-writer-wins:
// no existing entry is removed, not even one fully enclosed by r; an
// overlapped entry keeps its place in the slice (and in Regions()) but
// loses the overlapping addresses to r at lookup time, since FindRegion
// always prefers the most-recently-inserted covering region.
func (m *Mem) AddRegion(r *Region) *entity.Entity[Region] {
	e := entity.New[Region]("region", *r)
	m.entries = append(m.entries, memEntry{seq: m.nextSeq, region: e})
	m.nextSeq++
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].region.Value().Start().Less(m.entries[j].region.Value().Start())
	})
	return e
}

// FindRegion returns the region covering a, if any. When multiple
// inserted regions cover the same point (an overlap), the
// most-recently-inserted one wins, by insertion sequence rather than
// by position in the start-sorted backing slice.
func (m *Mem) FindRegion(a addr.Address) (*entity.Entity[Region], bool) {
	var best *memEntry
	for i := range m.entries {
		e := &m.entries[i]
		if e.region.Value().ContainsPoint(a) {
			if best == nil || e.seq > best.seq {
				best = e
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best.region, true
}

// Regions returns every region currently mapped, in insertion-sorted
// (by start address) order.
func (m *Mem) Regions() []*entity.Entity[Region] {
	out := make([]*entity.Entity[Region], len(m.entries))
	for i, e := range m.entries {
		out[i] = e.region
	}
	return out
}
