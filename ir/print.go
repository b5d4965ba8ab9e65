package ir

import (
	"fmt"
	"strings"

	"github.com/binlift/ecolift/entity"
)

// Print renders a block's phis, defs and jmps in the
// "var = expr" textual form this package's String() methods use,
// one statement per line, prefixed with the block's id.
func Print(b *entity.Entity[Blk]) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "blk %s:\n", b.Id())
	for _, p := range b.Value().Phis {
		fmt.Fprintf(&sb, "  %s\n", p.Value())
	}
	for _, d := range b.Value().Defs {
		fmt.Fprintf(&sb, "  %s\n", *d.Value())
	}
	for _, j := range b.Value().Jmps {
		fmt.Fprintf(&sb, "  %s\n", *j.Value())
	}
	return sb.String()
}
