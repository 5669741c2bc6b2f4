package rdfmap

import (
	"errors"
	"strings"
	"testing"

	"github.com/geoknoesis/rdfmap-go/rdf"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var (
	typePerson  = rdf.MustIRI("http://schema.example.org/Person")
	typeAddress = rdf.MustIRI("http://schema.example.org/Address")
	predName    = rdf.MustIRI("http://schema.example.org/name")
	predAge     = rdf.MustIRI("http://schema.example.org/age")
	predTags    = rdf.MustIRI("http://schema.example.org/tags")
	predHome    = rdf.MustIRI("http://schema.example.org/home")
	predStreet  = rdf.MustIRI("http://schema.example.org/street")
	predCity    = rdf.MustIRI("http://schema.example.org/city")
	predNick    = rdf.MustIRI("http://schema.example.org/nickname")
)

const personBase = "http://example.org/people/"

type address struct {
	Street string
	City   string
}

type person struct {
	ID   string
	Name string
	Age  int
	Tags []string
	Home *address
}

type personMapper struct{}

func (personMapper) TypeIRI() rdf.IRI { return typePerson }

func (personMapper) AsNode(v any, ctx *SerializationContext) (rdf.IRI, []rdf.Triple, error) {
	p, ok := v.(person)
	if !ok {
		return rdf.IRI{}, nil, deserializationErrorf("personMapper cannot serialize %T", v)
	}
	subject := rdf.MustIRI(personBase + p.ID)
	_, triples, err := ctx.Builder(subject).
		AddValue(predName, p.Name).
		AddValue(predAge, p.Age).
		AddCollection(predTags, p.Tags, List).
		When(p.Home != nil, func(b *ResourceBuilder) {
			b.AddValue(predHome, *p.Home)
		}).
		Build()
	return subject, triples, err
}

func (personMapper) FromNode(subject rdf.IRI, ctx *DeserializationContext) (any, error) {
	r := ctx.Reader(subject)
	r.ReadTypeTriple()
	name, err := Require[string](r, predName)
	if err != nil {
		return nil, err
	}
	age, err := Require[int](r, predAge)
	if err != nil {
		return nil, err
	}
	tags, _, err := OptionalCollection[string](r, predTags, List)
	if err != nil {
		return nil, err
	}
	p := person{
		ID:   strings.TrimPrefix(subject.Value, personBase),
		Name: name,
		Age:  age,
		Tags: tags,
	}
	if home, ok, err := Optional[address](r, predHome); err != nil {
		return nil, err
	} else if ok {
		p.Home = &home
	}
	return p, nil
}

type addressMapper struct{}

func (addressMapper) TypeIRI() rdf.IRI { return typeAddress }

func (addressMapper) AsAnon(v any, ctx *SerializationContext) (rdf.BlankNode, []rdf.Triple, error) {
	a, ok := v.(address)
	if !ok {
		return rdf.BlankNode{}, nil, deserializationErrorf("addressMapper cannot serialize %T", v)
	}
	node := ctx.NewBlankNode()
	_, triples, err := ctx.Builder(node).
		AddValue(predStreet, a.Street).
		AddValue(predCity, a.City).
		Build()
	return node, triples, err
}

func (addressMapper) FromAnon(subject rdf.BlankNode, ctx *DeserializationContext) (any, error) {
	r := ctx.Reader(subject)
	r.ReadTypeTriple()
	street, err := Require[string](r, predStreet)
	if err != nil {
		return nil, err
	}
	city, err := Require[string](r, predCity)
	if err != nil {
		return nil, err
	}
	return address{Street: street, City: city}, nil
}

func newPersonMapper(opts ...Option) *Mapper {
	m := New(opts...)
	Register[person](m.Registry(), personMapper{})
	Register[address](m.Registry(), addressMapper{})
	return m
}

func alice() person {
	return person{
		ID:   "alice",
		Name: "Alice",
		Age:  30,
		Tags: []string{"admin", "ops"},
		Home: &address{Street: "1 Main St", City: "Springfield"},
	}
}

func TestEncodeObjectShape(t *testing.T) {
	m := newPersonMapper()
	g, err := m.EncodeObjectToGraph(alice())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	subject := rdf.MustIRI(personBase + "alice")
	types := g.FindAll(subject, rdf.RDFType, nil)
	if len(types) != 1 || types[0].O != rdf.Term(typePerson) {
		t.Fatalf("expected exactly one type triple, got %v", types)
	}
	if got := g.FindAll(subject, predName, nil); len(got) != 1 {
		t.Fatalf("expected 1 name triple, got %d", len(got))
	}
	// Two-element list: link triple plus two first/rest pairs.
	if got := g.FindAll(nil, rdf.RDFFirst, nil); len(got) != 2 {
		t.Fatalf("expected 2 rdf:first triples, got %d", len(got))
	}
	// The nested address carries its own type triple.
	if got := g.FindAll(nil, rdf.RDFType, rdf.Term(typeAddress)); len(got) != 1 {
		t.Fatalf("expected 1 address type triple, got %d", len(got))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObject(alice())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeObject[person](m, text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(alice(), back, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDecodeRoundTripJSONLD(t *testing.T) {
	m := newPersonMapper(WithFormat(rdf.FormatJSONLD))
	text, err := m.EncodeObject(alice())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeObject[person](m, text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(alice(), back, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeObjectRejectsMultipleRoots(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObjects([]any{
		person{ID: "alice", Name: "Alice", Age: 30},
		person{ID: "bob", Name: "Bob", Age: 35},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	_, err = DecodeObject[person](m, text)
	if !errors.Is(err, ErrMultipleToplevel) {
		t.Fatalf("expected ErrMultipleToplevel, got %v", err)
	}
}

func TestDecodeObjects(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObjects([]any{
		person{ID: "alice", Name: "Alice", Age: 30},
		person{ID: "bob", Name: "Bob", Age: 35},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	people, err := DecodeObjects[person](m, text, Strict)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(people) != 2 {
		t.Fatalf("expected 2 people, got %d", len(people))
	}
	names := map[string]bool{}
	for _, p := range people {
		names[p.Name] = true
	}
	if !names["Alice"] || !names["Bob"] {
		t.Fatalf("unexpected people %v", people)
	}
}

func TestDecodeObjectWrongTargetType(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObject(person{ID: "alice", Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := DecodeObject[address](m, text); err == nil {
		t.Fatal("expected type mismatch error")
	}
}

func TestStrictFailsOnUnreadTriples(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObject(person{ID: "alice", Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	extra := "<" + personBase + "alice> <" + predNick.Value + "> \"Ali\" .\n"
	_, err = DecodeObject[person](m, text+extra)

	var incomplete *IncompleteDeserializationError
	if !errors.As(err, &incomplete) {
		t.Fatalf("expected *IncompleteDeserializationError, got %v", err)
	}
	if len(incomplete.Unread) != 1 || incomplete.Unread[0].P != predNick {
		t.Fatalf("unexpected unread triples %v", incomplete.Unread)
	}
	if Code(err) != ErrCodeIncomplete {
		t.Fatalf("unexpected code %s", Code(err))
	}
}

func TestLenientDiscardsUnreadTriples(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObject(person{ID: "alice", Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	extra := "<" + personBase + "alice> <" + predNick.Value + "> \"Ali\" .\n"
	people, err := DecodeObjects[person](m, text+extra, Lenient)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(people) != 1 || people[0].Name != "Alice" {
		t.Fatalf("unexpected people %v", people)
	}
}

func TestLosslessRoundTrip(t *testing.T) {
	m := newPersonMapper()
	// No tags and no home: the encoding is free of fresh blank nodes, so
	// re-encoded output can be compared to the source graph directly.
	text, err := m.EncodeObject(person{ID: "alice", Name: "Alice", Age: 30})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	extra := "<" + personBase + "alice> <" + predNick.Value + "> \"Ali\" .\n" +
		"<http://example.org/unrelated> <" + predName.Value + "> \"Orphan\" .\n"
	source := text + extra

	objects, remainder, err := m.DecodeObjectsLossless(source)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}
	if remainder.Size() != 2 {
		t.Fatalf("expected 2 remainder triples, got %d:\n%v", remainder.Size(), remainder.Triples())
	}

	reencoded, err := m.EncodeObjectsLossless(objects, remainder)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	want, err := m.parseGraph(source)
	if err != nil {
		t.Fatalf("parse source: %v", err)
	}
	got, err := m.parseGraph(reencoded)
	if err != nil {
		t.Fatalf("parse re-encoded: %v", err)
	}
	if !want.Equal(got) {
		t.Fatalf("lossless round trip changed the triple set:\nwant %v\ngot %v", want.Triples(), got.Triples())
	}
}

func TestLosslessRemainderEmptyWhenFullyMapped(t *testing.T) {
	m := newPersonMapper()
	text, err := m.EncodeObject(alice())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	objects, remainder, err := m.DecodeObjectsLossless(text)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(objects))
	}
	if !remainder.IsEmpty() {
		t.Fatalf("expected empty remainder, got %v", remainder.Triples())
	}
}

func TestEncodeObjectMapperNotFound(t *testing.T) {
	m := New()
	_, err := m.EncodeObject(struct{ X int }{X: 1})
	var notFound *MapperNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *MapperNotFoundError, got %v", err)
	}
	if Code(err) != ErrCodeMapperNotFound {
		t.Fatalf("unexpected code %s", Code(err))
	}
}

func TestDecodeObjectEmptyDocument(t *testing.T) {
	m := newPersonMapper()
	if _, err := DecodeObject[person](m, ""); !errors.Is(err, ErrEmptyGraph) {
		t.Fatalf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestMapperRegistryIsolatedFromDefaults(t *testing.T) {
	m := newPersonMapper()
	if _, ok := DefaultRegistry().nodeSerializerFor(typeOf(person{})); ok {
		t.Fatal("registrations on a Mapper must not leak into DefaultRegistry")
	}
	if _, ok := m.Registry().nodeSerializerFor(typeOf(person{})); !ok {
		t.Fatal("expected person mapper on the Mapper's registry")
	}
}
