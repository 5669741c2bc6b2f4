package rdfmap

import (
	"reflect"
	"testing"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	Register[string](r, StringMapper())

	if _, ok := r.literalSerializerFor(reflect.TypeFor[string]()); !ok {
		t.Fatal("expected literal serializer for string")
	}
	if _, ok := r.literalDeserializerFor(reflect.TypeFor[string]()); !ok {
		t.Fatal("expected literal deserializer for string")
	}
	if _, ok := r.literalSerializerFor(reflect.TypeFor[int]()); ok {
		t.Fatal("unexpected literal serializer for int")
	}
}

func TestRegisterPanicsOnShapelessMapper(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	Register[string](NewRegistry(), struct{}{})
}

func TestCloneShadowsWithoutMutatingParent(t *testing.T) {
	parent := NewRegistry()
	Register[string](parent, StringMapper())

	child := parent.Clone()
	Register[int](child, IntMapper())

	// Child sees both its own and the parent's registrations.
	if _, ok := child.literalSerializerFor(reflect.TypeFor[string]()); !ok {
		t.Fatal("child should fall back to parent for string")
	}
	if _, ok := child.literalSerializerFor(reflect.TypeFor[int]()); !ok {
		t.Fatal("child should see its own int mapper")
	}
	// The parent never sees child registrations.
	if _, ok := parent.literalSerializerFor(reflect.TypeFor[int]()); ok {
		t.Fatal("parent must not see child registrations")
	}
}

func TestCloneOverridesParentEntry(t *testing.T) {
	parent := NewRegistry()
	Register[bool](parent, BoolMapper())

	override := NewLiteralMapper(rdf.XSDString,
		func(v bool) (string, error) {
			if v {
				return "yes", nil
			}
			return "no", nil
		},
		func(s string) (bool, error) { return s == "yes", nil },
	)
	child := parent.Clone()
	Register[bool](child, override)

	deser, ok := child.literalDeserializerFor(reflect.TypeFor[bool]())
	if !ok {
		t.Fatal("expected bool deserializer")
	}
	if deser.Datatype() != rdf.XSDString {
		t.Fatalf("expected child override to win, got datatype %s", deser.Datatype())
	}

	parentDeser, _ := parent.literalDeserializerFor(reflect.TypeFor[bool]())
	if parentDeser.Datatype() != rdf.XSDBoolean {
		t.Fatal("parent entry must stay untouched")
	}
}

func TestNamedMappers(t *testing.T) {
	r := NewRegistry()
	r.RegisterNamed("loud-string", StringMapper())

	mapper, err := Named[LiteralSerializer](r, "loud-string")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mapper == nil {
		t.Fatal("expected mapper")
	}

	if _, err := Named[LiteralSerializer](r, "absent"); err == nil {
		t.Fatal("expected lookup error")
	}
	if _, err := Named[NodeSerializer](r, "loud-string"); err == nil {
		t.Fatal("expected shape assertion error")
	}

	// Named lookups fall back through the parent chain like typed ones.
	child := r.Clone()
	if _, err := Named[LiteralSerializer](child, "loud-string"); err != nil {
		t.Fatalf("clone should resolve parent named mapper: %v", err)
	}
}
