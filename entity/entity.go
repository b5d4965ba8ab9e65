// Package entity provides generational-free, UUID-keyed identifiers
// and an owning value wrapper whose equality is identity, not content.
package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Id is a type-tagged, UUID-backed identifier. The phantom type T
// keeps Ids minted for different domain values from being compared
// or substituted for one another without an explicit Transmute.
type Id[T any] struct {
	tag  string
	uuid uuid.UUID
}

// New mints a fresh random (v4) Id carrying the given presentational tag.
func New[T any](tag string) Id[T] {
	return Id[T]{tag: tag, uuid: uuid.New()}
}

// FromParts builds an Id from an explicit tag and UUID, e.g. for
// deterministically-derived identifiers (see the types package).
func FromParts[T any](tag string, u uuid.UUID) Id[T] {
	return Id[T]{tag: tag, uuid: u}
}

// Invalid returns the zero Id for T: uuid.Nil, which IsValid reports false for.
func Invalid[T any](tag string) Id[T] {
	return Id[T]{tag: tag, uuid: uuid.Nil}
}

// Tag returns the presentational tag the Id was minted with.
func (i Id[T]) Tag() string { return i.tag }

// UUID returns the underlying UUID.
func (i Id[T]) UUID() uuid.UUID { return i.uuid }

// IsValid reports whether the Id's uuid is non-zero.
func (i Id[T]) IsValid() bool { return i.uuid != uuid.Nil }

// IsInvalid is the negation of IsValid.
func (i Id[T]) IsInvalid() bool { return !i.IsValid() }

// Equal compares two Ids of the same phantom type by uuid; tag is
// presentational only and does not participate in equality.
func (i Id[T]) Equal(other Id[T]) bool { return i.uuid == other.uuid }

// Less orders two Ids by uuid, for use as a map/tree key.
func (i Id[T]) Less(other Id[T]) bool { return i.uuid.String() < other.uuid.String() }

func (i Id[T]) String() string { return fmt.Sprintf("%s/%s", i.tag, i.uuid) }

// Erase drops T, retyping the Id as Id[any].
func Erase[T any](id Id[T]) Id[any] {
	return Id[any]{tag: id.tag, uuid: id.uuid}
}

// Transmute retypes an Id from T to U without altering its identity.
// Callers are responsible for the retyping making domain sense.
func Transmute[T, U any](id Id[T]) Id[U] {
	return Id[U]{tag: id.tag, uuid: id.uuid}
}

// Identifiable is implemented by values that carry their own stable identity.
type Identifiable[T any] interface {
	Id() Id[T]
}

// Entity owns a value of type V and is keyed by an Id[V] minted at
// construction. Two Entities are equal iff their Ids are equal,
// regardless of any mutation applied to Value in the meantime.
type Entity[V any] struct {
	id    Id[V]
	value V
}

// New wraps value in a freshly-minted Entity carrying the given tag.
func New[V any](tag string, value V) *Entity[V] {
	return &Entity[V]{id: New[V](tag), value: value}
}

// FromID wraps value in an Entity using an already-minted Id, e.g. to
// preserve identity across a rebuild.
func FromID[V any](id Id[V], value V) *Entity[V] {
	return &Entity[V]{id: id, value: value}
}

// Id returns the Entity's identity.
func (e *Entity[V]) Id() Id[V] { return e.id }

// Value returns a pointer to the wrapped value for read or in-place mutation.
func (e *Entity[V]) Value() *V { return &e.value }

// IntoValue returns the wrapped value by copy, discarding the Entity wrapper.
func (e *Entity[V]) IntoValue() V { return e.value }

// Equal reports whether two Entities share the same identity, ignoring value contents.
func (e *Entity[V]) Equal(other *Entity[V]) bool {
	return e.id.Equal(other.id)
}
