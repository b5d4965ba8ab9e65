// Package oracles defines the advisory collaborators a Project
// consults while discovering blocks and subroutines: an oracle never
// decides what gets lifted, only hints at sizes, known edges and
// symbol names that a backend-only lift cannot recover on its own.
package oracles

import "github.com/binlift/ecolift/addr"

// BlkOracle advises on block boundaries the lifter alone cannot infer
// from bytes: an externally-known size hint and any additional jump
// targets (e.g. from a jump table the disassembler didn't resolve).
type BlkOracle interface {
	// BlkSize reports a known block length in bytes at addr, if any.
	BlkSize(address addr.Address) (uint64, bool)
	// BlkJmps reports additional known outgoing edges from the block
	// starting at addr, deduplicated and in ascending address order.
	BlkJmps(address addr.Address) []addr.Address
}

// SubOracle advises on subroutine structure: entry points, symbol
// names, and the set of blocks belonging to a subroutine.
type SubOracle interface {
	// SubStarts returns every known subroutine entry point, in
	// ascending address order.
	SubStarts() []addr.Address
	// SubSymbol reports the symbol name for the subroutine starting
	// at addr, if known.
	SubSymbol(address addr.Address) (string, bool)
	// SubBlocks returns the block addresses known to belong to the
	// subroutine starting at addr, in ascending address order.
	SubBlocks(address addr.Address) []addr.Address
}

// BlkOracles layers multiple BlkOracles: BlkSize has first-hit
// semantics (the first oracle to answer wins), while BlkJmps
// concatenates every oracle's answers in oracle order, keeping
// duplicates and without re-sorting the combined list.
type BlkOracles []BlkOracle

func (os BlkOracles) BlkSize(address addr.Address) (uint64, bool) {
	for _, o := range os {
		if size, ok := o.BlkSize(address); ok {
			return size, true
		}
	}
	return 0, false
}

func (os BlkOracles) BlkJmps(address addr.Address) []addr.Address {
	var out []addr.Address
	for _, o := range os {
		if jmps := o.BlkJmps(address); len(jmps) > 0 {
			out = append(out, jmps...)
		}
	}
	return out
}

// SubOracles layers multiple SubOracles with first-hit semantics for
// SubSymbol; SubStarts and SubBlocks concatenate every oracle's
// answers in oracle order, keeping duplicates and without re-sorting
// the combined list.
type SubOracles []SubOracle

func (os SubOracles) SubStarts() []addr.Address {
	var out []addr.Address
	for _, o := range os {
		out = append(out, o.SubStarts()...)
	}
	return out
}

func (os SubOracles) SubSymbol(address addr.Address) (string, bool) {
	for _, o := range os {
		if sym, ok := o.SubSymbol(address); ok {
			return sym, true
		}
	}
	return "", false
}

func (os SubOracles) SubBlocks(address addr.Address) []addr.Address {
	var out []addr.Address
	for _, o := range os {
		out = append(out, o.SubBlocks(address)...)
	}
	return out
}
