package ir

import (
	"fmt"

	"github.com/binlift/ecolift/addr"
)

// Sub is a subroutine: an entry address and, when a SubOracle can
// name it, a symbol. It exists purely as an index key for Project —
// nothing in this module inlines subroutine-local control flow beyond
// what InterSub/InterRet targets already describe.
type Sub struct {
	Name  string
	Entry addr.Address
}

// NewSub builds a Sub at entry, named name ("" if unknown).
func NewSub(name string, entry addr.Address) Sub {
	return Sub{Name: name, Entry: entry}
}

func (s Sub) String() string {
	if s.Name == "" {
		return fmt.Sprintf("sub_%s", s.Entry)
	}
	return s.Name
}
