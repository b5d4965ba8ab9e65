package entity

import "testing"

type widget struct{ label string }

func TestEntityEqualityIsIdentityNotContent(t *testing.T) {
	a := New[widget]("w", widget{label: "a"})
	b := New[widget]("w", widget{label: "a"})

	if a.Equal(b) {
		t.Fatalf("two distinct Entities with identical content must not be Equal")
	}
	if !a.Equal(a) {
		t.Fatalf("an Entity must equal itself")
	}

	a.Value().label = "mutated"
	if !a.Equal(a) {
		t.Fatalf("mutating Value must not change identity")
	}
}

func TestIdEqualityIgnoresTag(t *testing.T) {
	id := New[widget]("first-tag")
	retagged := FromParts[widget]("second-tag", id.UUID())

	if !id.Equal(retagged) {
		t.Fatalf("Ids sharing a uuid must compare equal regardless of tag")
	}
	if id.Tag() == retagged.Tag() {
		t.Fatalf("test setup invalid: tags should differ")
	}
}

func TestIdEqualityDistinguishesDistinctMints(t *testing.T) {
	a := New[widget]("w")
	b := New[widget]("w")
	if a.Equal(b) {
		t.Fatalf("two freshly-minted Ids must not be equal")
	}
}

func TestInvalidIdIsInvalid(t *testing.T) {
	id := Invalid[widget]("w")
	if id.IsValid() {
		t.Fatalf("Invalid() should produce an invalid Id")
	}
	if !id.IsInvalid() {
		t.Fatalf("IsInvalid should be the negation of IsValid")
	}

	valid := New[widget]("w")
	if !valid.IsValid() || valid.IsInvalid() {
		t.Fatalf("a freshly-minted Id should be valid")
	}
}

func TestFromIDPreservesIdentity(t *testing.T) {
	id := New[widget]("w")
	e := FromID(id, widget{label: "rebuilt"})
	if !e.Id().Equal(id) {
		t.Fatalf("FromID should preserve the given Id")
	}
}

func TestEraseAndTransmutePreserveUUID(t *testing.T) {
	id := New[widget]("w")

	erased := Erase(id)
	if erased.UUID() != id.UUID() {
		t.Fatalf("Erase must preserve the underlying uuid")
	}

	type gadget struct{}
	transmuted := Transmute[widget, gadget](id)
	if transmuted.UUID() != id.UUID() {
		t.Fatalf("Transmute must preserve the underlying uuid")
	}
}

func TestLessIsConsistentWithUUIDStringOrder(t *testing.T) {
	a := New[widget]("w")
	b := New[widget]("w")

	aLessB := a.Less(b)
	bLessA := b.Less(a)
	if aLessB == bLessA {
		t.Fatalf("exactly one of a.Less(b)/b.Less(a) should hold for distinct ids")
	}
	if aLessB != (a.UUID().String() < b.UUID().String()) {
		t.Fatalf("a.Less(b) = %v disagrees with the UUID string order", aLessB)
	}
	if a.Less(a) {
		t.Fatalf("an id must not be Less than itself")
	}
}
