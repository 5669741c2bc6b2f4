package rdfmap

import (
	"errors"
	"testing"

	"github.com/geoknoesis/rdfmap-go/rdf"
	"github.com/google/go-cmp/cmp"
)

func TestBuilderAccumulates(t *testing.T) {
	ctx := newSerializationContext(DefaultRegistry())
	subject := rdf.MustIRI("http://example.org/s")

	got, triples, err := ctx.Builder(subject).
		AddValue(predName, "Alice").
		AddValues(predNick, []string{"Ali", "Al"}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != rdf.Term(subject) {
		t.Fatalf("unexpected subject %v", got)
	}
	if len(triples) != 3 {
		t.Fatalf("expected 3 triples, got %d", len(triples))
	}
	if triples[0].O != (rdf.Literal{Lexical: "Alice", Datatype: rdf.XSDString}) {
		t.Fatalf("unexpected first triple %v", triples[0])
	}
}

func TestBuilderStickyError(t *testing.T) {
	ctx := newSerializationContext(NewRegistry())
	subject := rdf.MustIRI("http://example.org/s")

	// No mapper registered for string: the first AddValue fails and later
	// calls are no-ops.
	_, _, err := ctx.Builder(subject).
		AddValue(predName, "Alice").
		AddValue(predNick, "Ali").
		Build()
	var notFound *MapperNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *MapperNotFoundError, got %v", err)
	}
}

func TestBuilderWhenSkipsOnFalse(t *testing.T) {
	ctx := newSerializationContext(DefaultRegistry())
	subject := rdf.MustIRI("http://example.org/s")

	_, triples, err := ctx.Builder(subject).
		When(false, func(b *ResourceBuilder) {
			b.AddValue(predName, "never")
		}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(triples) != 0 {
		t.Fatalf("expected no triples, got %v", triples)
	}
}

func TestBuilderRejectsNonSlice(t *testing.T) {
	ctx := newSerializationContext(DefaultRegistry())
	subject := rdf.MustIRI("http://example.org/s")
	_, _, err := ctx.Builder(subject).AddValues(predName, "not-a-slice").Build()
	if err == nil {
		t.Fatal("expected error for non-slice values")
	}
}

func TestReaderValues(t *testing.T) {
	subject := rdf.MustIRI("http://example.org/s")
	lit := func(s string) rdf.Literal { return rdf.Literal{Lexical: s, Datatype: rdf.XSDString} }
	g := rdf.NewGraph(
		rdf.Triple{S: subject, P: predNick, O: lit("Ali")},
		rdf.Triple{S: subject, P: predNick, O: lit("Al")},
	)
	ctx := newDeserializationContext(DefaultRegistry(), g)

	nicks, err := Values[string](ctx.Reader(subject), predNick)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Ali", "Al"}, nicks); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if unread := ctx.unread(); len(unread) != 0 {
		t.Fatalf("Values left triples unread: %v", unread)
	}
}

func TestReaderRequireCardinality(t *testing.T) {
	subject := rdf.MustIRI("http://example.org/s")
	lit := func(s string) rdf.Literal { return rdf.Literal{Lexical: s, Datatype: rdf.XSDString} }

	empty := newDeserializationContext(DefaultRegistry(), rdf.NewGraph())
	if _, err := Require[string](empty.Reader(subject), predName); err == nil {
		t.Fatal("expected error for missing required property")
	}

	double := newDeserializationContext(DefaultRegistry(), rdf.NewGraph(
		rdf.Triple{S: subject, P: predName, O: lit("a")},
		rdf.Triple{S: subject, P: predName, O: lit("b")},
	))
	if _, err := Require[string](double.Reader(subject), predName); err == nil {
		t.Fatal("expected error for multi-valued required property")
	}
	if _, _, err := Optional[string](double.Reader(double.Graph().Subjects()[0]), predName); err == nil {
		t.Fatal("Optional must also reject multiple values")
	}
}

func TestReaderUnmappedCapture(t *testing.T) {
	subject := rdf.MustIRI("http://example.org/s")
	lit := func(s string) rdf.Literal { return rdf.Literal{Lexical: s, Datatype: rdf.XSDString} }
	g := rdf.NewGraph(
		rdf.Triple{S: subject, P: predName, O: lit("Alice")},
		rdf.Triple{S: subject, P: predNick, O: lit("Ali")},
		rdf.Triple{S: subject, P: predNick, O: lit("Al")},
	)
	ctx := newDeserializationContext(DefaultRegistry(), g)
	r := ctx.Reader(subject)

	if _, err := Require[string](r, predName); err != nil {
		t.Fatalf("require: %v", err)
	}
	residual, err := r.Unmapped()
	if err != nil {
		t.Fatalf("unmapped: %v", err)
	}
	// Only the triples no prior read claimed are captured.
	if len(residual) != 1 || len(residual[predNick]) != 2 {
		t.Fatalf("unexpected residual %v", residual)
	}
	// Capturing marks the claimed triples read: strict completeness holds.
	if unread := ctx.unread(); len(unread) != 0 {
		t.Fatalf("unmapped capture left triples unread: %v", unread)
	}

	// Re-encoding the residual restores the captured triples.
	sctx := newSerializationContext(DefaultRegistry())
	_, triples, err := sctx.Builder(subject).AddUnmapped(residual).Build()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if len(triples) != 2 {
		t.Fatalf("expected 2 re-encoded triples, got %v", triples)
	}
}

func TestReaderUnmappedGraphIncludesBlankSubtrees(t *testing.T) {
	subject := rdf.MustIRI("http://example.org/s")
	blank := rdf.BlankNode{ID: "b0"}
	g := rdf.NewGraph(
		rdf.Triple{S: subject, P: predHome, O: blank},
		rdf.Triple{S: blank, P: predCity, O: rdf.Literal{Lexical: "Springfield", Datatype: rdf.XSDString}},
	)
	ctx := newDeserializationContext(DefaultRegistry(), g)

	residual, err := ctx.Reader(subject).UnmappedWith(GraphUnmapped)
	if err != nil {
		t.Fatalf("unmapped: %v", err)
	}
	captured := residual.(*rdf.Graph)
	if captured.Size() != 2 {
		t.Fatalf("expected blank sub-tree capture, got %v", captured.Triples())
	}
	if unread := ctx.unread(); len(unread) != 0 {
		t.Fatalf("capture left triples unread: %v", unread)
	}
}

func TestInjectTypeRespectsMapperOutput(t *testing.T) {
	ctx := newSerializationContext(DefaultRegistry())
	subject := rdf.MustIRI("http://example.org/s")
	supplied := rdf.Triple{S: subject, P: rdf.RDFType, O: typePerson}

	triples := ctx.injectType(subject, typePerson, []rdf.Triple{supplied})
	if len(triples) != 1 {
		t.Fatalf("type triple must not be duplicated: %v", triples)
	}
}

func TestBlankNodeGeneratorUnique(t *testing.T) {
	ctx := newSerializationContext(DefaultRegistry())
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		node := ctx.NewBlankNode()
		if _, dup := seen[node.ID]; dup {
			t.Fatalf("duplicate blank node id %s", node.ID)
		}
		seen[node.ID] = struct{}{}
	}
}
