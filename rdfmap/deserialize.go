package rdfmap

import (
	"fmt"
	"reflect"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// DeserializationContext exposes one decode run over a source graph. It owns
// the read-tracking set used for completeness auditing; one context serves
// exactly one top-level decode call and must not be reused.
type DeserializationContext struct {
	registry *Registry
	graph    *rdf.Graph
	read     map[rdf.Triple]struct{}
}

func newDeserializationContext(registry *Registry, graph *rdf.Graph) *DeserializationContext {
	return &DeserializationContext{
		registry: registry,
		graph:    graph,
		read:     make(map[rdf.Triple]struct{}),
	}
}

// Graph returns the source graph being decoded.
func (c *DeserializationContext) Graph() *rdf.Graph { return c.graph }

// triplesFor is the single choke point every reader operation routes
// through, so completeness auditing stays exact regardless of which
// convenience method produced the read.
//
// A zero predicate matches all predicates. includeBlankNodes extends the
// result over blank-node objects' sub-trees. unreadOnly drops triples a
// previous read already claimed. trackRead marks every returned triple read.
func (c *DeserializationContext) triplesFor(subject rdf.Term, predicate rdf.IRI, includeBlankNodes, unreadOnly, trackRead bool) []rdf.Triple {
	var out []rdf.Triple
	visited := map[rdf.Term]struct{}{}

	var collect func(s rdf.Term, p rdf.IRI)
	collect = func(s rdf.Term, p rdf.IRI) {
		if _, dup := visited[s]; dup {
			return
		}
		visited[s] = struct{}{}
		var pTerm rdf.Term
		if !p.IsZero() {
			pTerm = p
		}
		for t := range c.graph.Find(s, pTerm, nil) {
			if unreadOnly {
				if _, done := c.read[t]; done {
					continue
				}
			}
			out = append(out, t)
			if includeBlankNodes {
				if blank, ok := t.O.(rdf.BlankNode); ok {
					collect(blank, rdf.IRI{})
				}
			}
		}
	}
	collect(subject, predicate)

	if trackRead {
		for _, t := range out {
			c.read[t] = struct{}{}
		}
	}
	return out
}

// markRead records triples a strategy consumed selectively after retrieving
// them untracked through triplesFor.
func (c *DeserializationContext) markRead(triples ...rdf.Triple) {
	for _, t := range triples {
		c.read[t] = struct{}{}
	}
}

// unread returns the source triples no reader operation claimed, in graph
// order.
func (c *DeserializationContext) unread() []rdf.Triple {
	var out []rdf.Triple
	for _, t := range c.graph.Triples() {
		if _, done := c.read[t]; !done {
			out = append(out, t)
		}
	}
	return out
}

// Deserialize is the generic entry point: it resolves a deserializer for
// target by the term's shape and converts the term.
//
// deserializer, when non-nil, is used instead of the registry entry.
func (c *DeserializationContext) Deserialize(term rdf.Term, target reflect.Type, deserializer any) (any, error) {
	return c.deserialize(term, target, deserializer, false)
}

func (c *DeserializationContext) deserialize(term rdf.Term, target reflect.Type, deserializer any, bypassDatatypeCheck bool) (any, error) {
	switch value := term.(type) {
	case rdf.Literal:
		deser, err := c.resolveLiteral(target, deserializer)
		if err != nil {
			return nil, err
		}
		return deser.FromLiteral(value, c, bypassDatatypeCheck)
	case rdf.IRI:
		if deserializer != nil {
			switch deser := deserializer.(type) {
			case NodeDeserializer:
				return deser.FromNode(value, c)
			case IRIDeserializer:
				return deser.FromIRI(value, c)
			default:
				return nil, fmt.Errorf("rdfmap: %T cannot deserialize an IRI term", deserializer)
			}
		}
		if deser, ok := c.registry.nodeDeserializerFor(target); ok {
			return deser.FromNode(value, c)
		}
		if deser, ok := c.registry.iriDeserializerFor(target); ok {
			return deser.FromIRI(value, c)
		}
		return nil, &MapperNotFoundError{Type: target, Shape: ShapeNode}
	case rdf.BlankNode:
		if deserializer != nil {
			deser, ok := deserializer.(AnonDeserializer)
			if !ok {
				return nil, fmt.Errorf("rdfmap: %T cannot deserialize a blank node term", deserializer)
			}
			return deser.FromAnon(value, c)
		}
		if deser, ok := c.registry.anonDeserializerFor(target); ok {
			return deser.FromAnon(value, c)
		}
		return nil, &MapperNotFoundError{Type: target, Shape: ShapeAnon}
	default:
		return nil, deserializationErrorf("unsupported term %v", term)
	}
}

func (c *DeserializationContext) resolveLiteral(target reflect.Type, deserializer any) (LiteralDeserializer, error) {
	if deserializer != nil {
		deser, ok := deserializer.(LiteralDeserializer)
		if !ok {
			return nil, fmt.Errorf("rdfmap: %T cannot deserialize a literal term", deserializer)
		}
		return deser, nil
	}
	if deser, ok := c.registry.literalDeserializerFor(target); ok {
		return deser, nil
	}
	return nil, &MapperNotFoundError{Type: target, Shape: ShapeLiteral}
}

// Reader returns a property reader over a subject's triples. Every triple a
// reader operation yields is marked read for completeness auditing.
func (c *DeserializationContext) Reader(subject rdf.Term) *ResourceReader {
	return &ResourceReader{ctx: c, subject: subject}
}

// ResourceReader reads the properties of one subject during deserialization.
type ResourceReader struct {
	ctx     *DeserializationContext
	subject rdf.Term
}

// Subject returns the subject being read.
func (r *ResourceReader) Subject() rdf.Term { return r.subject }

// ReadTypeTriple consumes the subject's rdf:type triple, if present, so a
// mapper that derives the type from registration does not leave it unread.
func (r *ResourceReader) ReadTypeTriple() {
	r.ctx.triplesFor(r.subject, rdf.RDFType, false, false, true)
}

// Require returns the single value of predicate, failing when the property
// is absent or carries multiple values.
func Require[T any](r *ResourceReader, predicate rdf.IRI) (T, error) {
	return RequireWith[T](r, predicate, nil)
}

// RequireWith is Require with an explicitly supplied deserializer.
func RequireWith[T any](r *ResourceReader, predicate rdf.IRI, deserializer any) (T, error) {
	var zero T
	triples := r.ctx.triplesFor(r.subject, predicate, false, false, true)
	if len(triples) == 0 {
		return zero, deserializationErrorf("missing required property <%s> on %s", predicate.Value, r.subject)
	}
	if len(triples) > 1 {
		return zero, deserializationErrorf("property <%s> on %s has %d values, expected one", predicate.Value, r.subject, len(triples))
	}
	return deserializeObject[T](r.ctx, triples[0].O, deserializer)
}

// Optional returns the single value of predicate, or ok=false when absent.
// Multiple values remain an error.
func Optional[T any](r *ResourceReader, predicate rdf.IRI) (T, bool, error) {
	return OptionalWith[T](r, predicate, nil)
}

// OptionalWith is Optional with an explicitly supplied deserializer.
func OptionalWith[T any](r *ResourceReader, predicate rdf.IRI, deserializer any) (T, bool, error) {
	var zero T
	triples := r.ctx.triplesFor(r.subject, predicate, false, false, true)
	if len(triples) == 0 {
		return zero, false, nil
	}
	if len(triples) > 1 {
		return zero, false, deserializationErrorf("property <%s> on %s has %d values, expected one", predicate.Value, r.subject, len(triples))
	}
	value, err := deserializeObject[T](r.ctx, triples[0].O, deserializer)
	if err != nil {
		return zero, false, err
	}
	return value, true, nil
}

// Values returns every value of predicate as a sequence.
func Values[T any](r *ResourceReader, predicate rdf.IRI) ([]T, error) {
	return ValuesWith[T](r, predicate, nil)
}

// ValuesWith is Values with an explicitly supplied deserializer.
func ValuesWith[T any](r *ResourceReader, predicate rdf.IRI, deserializer any) ([]T, error) {
	triples := r.ctx.triplesFor(r.subject, predicate, false, false, true)
	out := make([]T, 0, len(triples))
	for _, t := range triples {
		value, err := deserializeObject[T](r.ctx, t.O, deserializer)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

// RequireCollection decodes the collection under predicate with the given
// strategy, failing when the property is absent.
func RequireCollection[T any](r *ResourceReader, predicate rdf.IRI, strategy CollectionStrategy) ([]T, error) {
	return RequireCollectionWith[T](r, predicate, strategy, nil)
}

// RequireCollectionWith is RequireCollection with an explicitly supplied
// per-item deserializer.
func RequireCollectionWith[T any](r *ResourceReader, predicate rdf.IRI, strategy CollectionStrategy, itemDeserializer any) ([]T, error) {
	items, found, err := strategy.DecodeCollection(r.subject, predicate, r.ctx, reflect.TypeFor[T](), itemDeserializer)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, deserializationErrorf("missing required collection <%s> on %s", predicate.Value, r.subject)
	}
	return convertItems[T](items)
}

// OptionalCollection decodes the collection under predicate, or ok=false
// when the property is absent.
func OptionalCollection[T any](r *ResourceReader, predicate rdf.IRI, strategy CollectionStrategy) ([]T, bool, error) {
	return OptionalCollectionWith[T](r, predicate, strategy, nil)
}

// OptionalCollectionWith is OptionalCollection with an explicitly supplied
// per-item deserializer.
func OptionalCollectionWith[T any](r *ResourceReader, predicate rdf.IRI, strategy CollectionStrategy, itemDeserializer any) ([]T, bool, error) {
	items, found, err := strategy.DecodeCollection(r.subject, predicate, r.ctx, reflect.TypeFor[T](), itemDeserializer)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	out, err := convertItems[T](items)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Unmapped claims the triples on this subject not yet read, grouped by
// predicate. The claimed triples are marked read at the point of the call,
// which keeps a losslessly self-contained resource compatible with a strict
// whole-graph decode.
func (r *ResourceReader) Unmapped() (map[rdf.IRI][]rdf.Term, error) {
	residual, err := r.UnmappedWith(PredicateMapUnmapped)
	if err != nil {
		return nil, err
	}
	return residual.(map[rdf.IRI][]rdf.Term), nil
}

// UnmappedWith is Unmapped shaped by an explicitly supplied unmapped mapper.
func (r *ResourceReader) UnmappedWith(mapper UnmappedMapper) (any, error) {
	triples := r.ctx.triplesFor(r.subject, rdf.IRI{}, mapper.IncludeBlankNodes(), true, true)
	return mapper.FromUnmapped(r.subject, triples)
}

func deserializeObject[T any](ctx *DeserializationContext, object rdf.Term, deserializer any) (T, error) {
	var zero T
	value, err := ctx.Deserialize(object, reflect.TypeFor[T](), deserializer)
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, deserializationErrorf("mapper produced %T, expected %v", value, reflect.TypeFor[T]())
	}
	return typed, nil
}

func convertItems[T any](items []any) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, item := range items {
		typed, ok := item.(T)
		if !ok {
			return nil, deserializationErrorf("collection item is %T, expected %v", item, reflect.TypeFor[T]())
		}
		out = append(out, typed)
	}
	return out, nil
}
