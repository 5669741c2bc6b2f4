package rdfmap

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// blankNodeGenerator yields run-scoped blank node labels. Labels carry a
// per-run UUID prefix so nodes from separate runs never collide when a fresh
// encode is merged with a remainder graph captured from an earlier decode.
type blankNodeGenerator struct {
	run     string
	counter int
}

func newBlankNodeGenerator() *blankNodeGenerator {
	return &blankNodeGenerator{run: uuid.NewString()[:8]}
}

func (g *blankNodeGenerator) next() rdf.BlankNode {
	g.counter++
	return rdf.BlankNode{ID: fmt.Sprintf("b%s-%d", g.run, g.counter)}
}

// SerializationContext walks an object graph, invokes mappers, and
// accumulates triples. One context serves exactly one top-level encode call;
// it owns per-run state (the blank node generator and the duplicate-type
// guard) and must not be reused.
type SerializationContext struct {
	registry *Registry
	blank    *blankNodeGenerator

	// typed guards against duplicate rdf:type injection per subject.
	typed map[rdf.Term]struct{}
}

func newSerializationContext(registry *Registry) *SerializationContext {
	return &SerializationContext{
		registry: registry,
		blank:    newBlankNodeGenerator(),
		typed:    make(map[rdf.Term]struct{}),
	}
}

// NewBlankNode returns a fresh run-scoped blank node.
func (c *SerializationContext) NewBlankNode() rdf.BlankNode {
	return c.blank.next()
}

// Resource serializes value as a resource (node or anon shape) and returns
// its root subject together with all produced triples. A type triple for the
// serializer's declared type IRI is appended exactly once unless the
// serializer's own output already contains one for that subject.
//
// serializer, when non-nil, is used instead of the registry entry.
func (c *SerializationContext) Resource(value any, serializer any) (rdf.Term, []rdf.Triple, error) {
	if serializer != nil {
		switch ser := serializer.(type) {
		case NodeSerializer:
			return c.nodeResource(value, ser)
		case AnonSerializer:
			return c.anonResource(value, ser)
		default:
			return nil, nil, fmt.Errorf("rdfmap: %T is not a resource serializer", serializer)
		}
	}
	t := reflect.TypeOf(value)
	if ser, ok := c.registry.nodeSerializerFor(t); ok {
		return c.nodeResource(value, ser)
	}
	if ser, ok := c.registry.anonSerializerFor(t); ok {
		return c.anonResource(value, ser)
	}
	return nil, nil, &MapperNotFoundError{Type: t, Shape: ShapeNode, Serializing: true}
}

func (c *SerializationContext) nodeResource(value any, ser NodeSerializer) (rdf.Term, []rdf.Triple, error) {
	subject, triples, err := ser.AsNode(value, c)
	if err != nil {
		return nil, nil, err
	}
	return subject, c.injectType(subject, ser.TypeIRI(), triples), nil
}

func (c *SerializationContext) anonResource(value any, ser AnonSerializer) (rdf.Term, []rdf.Triple, error) {
	subject, triples, err := ser.AsAnon(value, c)
	if err != nil {
		return nil, nil, err
	}
	return subject, c.injectType(subject, ser.TypeIRI(), triples), nil
}

// injectType prepends (subject, rdf:type, typeIRI) unless the subject already
// carries a type triple, whichever side supplied it.
func (c *SerializationContext) injectType(subject rdf.Term, typeIRI rdf.IRI, triples []rdf.Triple) []rdf.Triple {
	if typeIRI.IsZero() {
		return triples
	}
	if _, done := c.typed[subject]; done {
		return triples
	}
	c.typed[subject] = struct{}{}
	for _, t := range triples {
		if t.S == subject && t.P == rdf.RDFType {
			return triples
		}
	}
	typeTriple := rdf.Triple{S: subject, P: rdf.RDFType, O: typeIRI}
	return append([]rdf.Triple{typeTriple}, triples...)
}

// serialize is the generic entry point: it resolves value's serializer by
// shape and returns the term to embed plus any triples describing nested
// structure.
func (c *SerializationContext) serialize(value any, serializer any) (rdf.Term, []rdf.Triple, error) {
	if serializer != nil {
		switch ser := serializer.(type) {
		case LiteralSerializer:
			lit, err := ser.AsLiteral(value, c)
			return lit, nil, err
		case IRISerializer:
			iri, err := ser.AsIRI(value, c)
			return iri, nil, err
		case NodeSerializer, AnonSerializer:
			return c.Resource(value, serializer)
		default:
			return nil, nil, fmt.Errorf("rdfmap: %T implements no serializer shape", serializer)
		}
	}

	t := reflect.TypeOf(value)
	if ser, ok := c.registry.literalSerializerFor(t); ok {
		lit, err := ser.AsLiteral(value, c)
		return lit, nil, err
	}
	if ser, ok := c.registry.iriSerializerFor(t); ok {
		iri, err := ser.AsIRI(value, c)
		return iri, nil, err
	}
	if ser, ok := c.registry.nodeSerializerFor(t); ok {
		return c.nodeResource(value, ser)
	}
	if ser, ok := c.registry.anonSerializerFor(t); ok {
		return c.anonResource(value, ser)
	}
	return nil, nil, &MapperNotFoundError{Type: t, Shape: ShapeAny, Serializing: true}
}

// Value emits (subject, predicate, object) for value together with the
// triples describing value's nested structure.
func (c *SerializationContext) Value(subject rdf.Term, predicate rdf.IRI, value any, serializer any) ([]rdf.Triple, error) {
	object, nested, err := c.serialize(value, serializer)
	if err != nil {
		return nil, err
	}
	triples := make([]rdf.Triple, 0, len(nested)+1)
	triples = append(triples, rdf.Triple{S: subject, P: predicate, O: object})
	return append(triples, nested...), nil
}

// Builder returns a fluent triple accumulator for subject.
func (c *SerializationContext) Builder(subject rdf.Term) *ResourceBuilder {
	return &ResourceBuilder{ctx: c, subject: subject}
}

// ResourceBuilder accumulates the triples describing one resource. The first
// error sticks and surfaces from Build; intermediate calls after an error are
// no-ops.
type ResourceBuilder struct {
	ctx     *SerializationContext
	subject rdf.Term
	triples []rdf.Triple
	err     error
}

// Subject returns the subject the builder emits triples for.
func (b *ResourceBuilder) Subject() rdf.Term { return b.subject }

// AddValue serializes value with its registered mapper and emits
// (subject, predicate, value).
func (b *ResourceBuilder) AddValue(predicate rdf.IRI, value any) *ResourceBuilder {
	return b.AddValueWith(predicate, value, nil)
}

// AddValueWith is AddValue with an explicitly supplied serializer.
func (b *ResourceBuilder) AddValueWith(predicate rdf.IRI, value any, serializer any) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	triples, err := b.ctx.Value(b.subject, predicate, value, serializer)
	if err != nil {
		b.err = err
		return b
	}
	b.triples = append(b.triples, triples...)
	return b
}

// AddValues repeats AddValue for each element of the given slice or array.
func (b *ResourceBuilder) AddValues(predicate rdf.IRI, values any) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	items, err := itemsOf(values)
	if err != nil {
		b.err = err
		return b
	}
	for _, item := range items {
		b.AddValue(predicate, item)
	}
	return b
}

// AddCollection encodes the given slice or array under one of the collection
// strategies.
func (b *ResourceBuilder) AddCollection(predicate rdf.IRI, items any, strategy CollectionStrategy) *ResourceBuilder {
	return b.AddCollectionWith(predicate, items, strategy, nil)
}

// AddCollectionWith is AddCollection with an explicitly supplied per-item
// serializer.
func (b *ResourceBuilder) AddCollectionWith(predicate rdf.IRI, items any, strategy CollectionStrategy, itemSerializer any) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	elems, err := itemsOf(items)
	if err != nil {
		b.err = err
		return b
	}
	triples, err := strategy.EncodeCollection(b.subject, predicate, elems, b.ctx, itemSerializer)
	if err != nil {
		b.err = err
		return b
	}
	b.triples = append(b.triples, triples...)
	return b
}

// AddUnmapped re-emits residual triples previously captured with a reader's
// Unmapped call. The residual's shape selects the unmapped mapper: a
// predicate-grouped map or a graph.
func (b *ResourceBuilder) AddUnmapped(residual any) *ResourceBuilder {
	mapper, err := unmappedMapperForValue(residual)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	return b.AddUnmappedWith(residual, mapper)
}

// AddUnmappedWith is AddUnmapped with an explicitly supplied unmapped mapper.
func (b *ResourceBuilder) AddUnmappedWith(residual any, mapper UnmappedMapper) *ResourceBuilder {
	if b.err != nil {
		return b
	}
	triples, err := mapper.ToUnmapped(b.subject, residual)
	if err != nil {
		b.err = err
		return b
	}
	b.triples = append(b.triples, triples...)
	return b
}

// When applies fn to the builder when cond holds.
func (b *ResourceBuilder) When(cond bool, fn func(*ResourceBuilder)) *ResourceBuilder {
	if b.err != nil || !cond {
		return b
	}
	fn(b)
	return b
}

// Build returns the subject and the accumulated triples, or the first error
// hit while accumulating.
func (b *ResourceBuilder) Build() (rdf.Term, []rdf.Triple, error) {
	if b.err != nil {
		return nil, nil, b.err
	}
	return b.subject, b.triples, nil
}

// itemsOf flattens a slice or array value into []any.
func itemsOf(items any) ([]any, error) {
	if items == nil {
		return nil, nil
	}
	if direct, ok := items.([]any); ok {
		return direct, nil
	}
	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("rdfmap: expected a slice or array, got %T", items)
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out, nil
}
