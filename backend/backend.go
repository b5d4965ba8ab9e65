// Package backend defines the external disassembly/translation
// collaborator boundary this module lifts against: a black-box
// converter from bytes at an address into ECode micro-ops, and a
// language database that resolves architecture tags into configured
// backends. Concrete, ISA-aware implementations live outside this
// module by design: this package never re-implements an ISA decoder.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/binlift/ecolift/addr"
	"github.com/binlift/ecolift/alias"
	"github.com/binlift/ecolift/ecode"
)

// ErrUnsupportedArch is returned when a language DB has no entry for
// a requested architecture tag.
var ErrUnsupportedArch = errors.New("backend: unsupported architecture")

// ErrUnsupportedConv is returned when a backend has no entry for a
// requested calling convention name.
var ErrUnsupportedConv = errors.New("backend: unsupported calling convention")

// DisassemblyError wraps a backend-reported decode failure for a
// specific byte view.
type DisassemblyError struct {
	Addr addr.Address
	Err  error
}

func (e *DisassemblyError) Error() string {
	return fmt.Sprintf("backend: disassembly failed at %s: %v", e.Addr, e.Err)
}

func (e *DisassemblyError) Unwrap() error { return e.Err }

// AddrConvertError is returned when an address's width cannot be
// represented in the backend's fixed-width address type.
type AddrConvertError struct {
	Addr addr.Address
	Want uint32
}

func (e *AddrConvertError) Error() string {
	return fmt.Sprintf("backend: address %s does not fit the backend's %d-bit address space", e.Addr, e.Want)
}

// Context is the disassembly context threaded through successive
// lift calls within one Project; its contents are backend-specific
// and owned exclusively by the Project that created it.
type Context interface {
	// Reset clears any backend-local state accumulated across lifts
	// that should not leak between independent lift_blk calls.
	Reset()
}

// DisassemblyContext is a disassembly context belonging to a specific
// Backend, created by ProjectBuilder at build time.
type DisassemblyContext = Context

// Disassembled is the result of lifting a single instruction: its
// ECode micro-op sequence plus the number of bytes it consumed.
type Disassembled struct {
	ECode  ecode.ECode
	Length uint64
}

// Backend is the external disassembly/translation collaborator: it
// turns raw bytes at an address into a sequence of ECode statements
// with branch annotations, and exposes a register table for the
// alias-normalisation pass.
type Backend interface {
	// LiftECode lifts exactly one instruction from bytes, starting at
	// address, using and mutating ctx. Returns an error wrapping
	// DisassemblyError on decode failure.
	LiftECode(ctx context.Context, dctx Context, address addr.Address, bytes []byte) (Disassembled, error)

	// AddressBits returns the backend's native address width.
	AddressBits() uint32

	// RegisterTable exposes register-space layout for the alias pass.
	RegisterTable() alias.RegisterTable

	// RegisterSpaces lists the address-space names RegisterTable covers.
	RegisterSpaces() []string

	// NewContext creates a fresh disassembly context for a Project.
	NewContext() Context
}

// CompilerConvention names a calling convention a Translator was
// built to understand (e.g. "cdecl", "stdcall", "fastcall").
type CompilerConvention string

// Translator is a configured backend instance bound to one
// architecture and compiler convention.
type Translator struct {
	Backend    Backend
	Convention CompilerConvention
}

// TranslatorBuilder resolves an architecture tag (or explicit
// processor/endian/bits/variant tuple) plus a calling convention name
// into a configured Translator.
type TranslatorBuilder interface {
	// BuildTag resolves a textual architecture tag, e.g. "x86:LE:32:default".
	BuildTag(tag string, convention string) (Translator, error)
	// Build resolves an explicit processor/endian/bits/variant tuple.
	Build(processor string, littleEndian bool, bits uint32, variant string, convention string) (Translator, error)
}

// LanguageDB loads a directory tree of architecture definitions and
// resolves them into TranslatorBuilders.
type LanguageDB interface {
	TranslatorBuilder
}
