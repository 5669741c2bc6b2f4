package rdfmap

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// CompletenessMode controls what happens to triples left unread after a
// whole-graph decode.
type CompletenessMode uint8

const (
	// Strict fails the decode with *IncompleteDeserializationError when any
	// triple is left unread.
	Strict CompletenessMode = iota
	// Lenient discards unread triples.
	Lenient
	// Lossless captures unread triples in a remainder graph instead of
	// discarding them.
	Lossless
)

// String returns the mode name.
func (m CompletenessMode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	case Lossless:
		return "lossless"
	}
	return fmt.Sprintf("CompletenessMode(%d)", uint8(m))
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithFormat sets the text format for encode and decode. The default is
// N-Triples.
func WithFormat(format rdf.Format) Option {
	return func(m *Mapper) {
		m.format = format
	}
}

// WithRegistry replaces the mapper registry. The default is a clone of
// DefaultRegistry, so registrations on the Mapper never leak into the
// shared defaults.
func WithRegistry(r *Registry) Option {
	return func(m *Mapper) {
		m.registry = r
	}
}

// WithCodecOptions passes codec options through to the underlying graph
// parser and encoder.
func WithCodecOptions(opts ...rdf.Option) Option {
	return func(m *Mapper) {
		m.codecOpts = append(m.codecOpts, opts...)
	}
}

// Mapper is the top-level facade: a registry of object mappers plus a text
// codec. The zero value is not usable; construct with New.
//
// A Mapper is safe for concurrent use once configuration is complete;
// Register calls must not race with encode or decode.
type Mapper struct {
	registry  *Registry
	format    rdf.Format
	codecOpts []rdf.Option
}

// New returns a Mapper with the standard primitive mappers preloaded and
// the N-Triples codec selected.
func New(opts ...Option) *Mapper {
	m := &Mapper{
		registry: DefaultRegistry().Clone(),
		format:   rdf.FormatNTriples,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the mapper registry for further registrations.
func (m *Mapper) Registry() *Registry { return m.registry }

// EncodeObjectToGraph serializes a single resource into a graph.
func (m *Mapper) EncodeObjectToGraph(v any) (*rdf.Graph, error) {
	return m.EncodeObjectsToGraph([]any{v})
}

// EncodeObjectsToGraph serializes independent resources into one graph.
// All roots share a serialization context, so blank node labels stay unique
// across them.
func (m *Mapper) EncodeObjectsToGraph(values []any) (*rdf.Graph, error) {
	ctx := newSerializationContext(m.registry)
	var triples []rdf.Triple
	for _, v := range values {
		_, out, err := ctx.Resource(v, nil)
		if err != nil {
			return nil, err
		}
		triples = append(triples, out...)
	}
	return rdf.NewGraph(triples...), nil
}

// EncodeObject serializes a single resource to text in the Mapper's format.
func (m *Mapper) EncodeObject(v any) (string, error) {
	return m.EncodeObjects([]any{v})
}

// EncodeObjects serializes independent resources to one document.
func (m *Mapper) EncodeObjects(values []any) (string, error) {
	g, err := m.EncodeObjectsToGraph(values)
	if err != nil {
		return "", err
	}
	return m.writeGraph(g)
}

// EncodeObjectsLossless serializes roots and merges a previously captured
// remainder graph into the output, reproducing the triple set a lossless
// decode started from. A nil remainder is allowed.
func (m *Mapper) EncodeObjectsLossless(roots []any, remainder *rdf.Graph) (string, error) {
	g, err := m.EncodeObjectsToGraph(roots)
	if err != nil {
		return "", err
	}
	if remainder != nil {
		g = g.Merge(remainder)
	}
	return m.writeGraph(g)
}

// DecodeObject decodes a document that describes exactly one root resource
// of type T. Root resolution follows RootSubject; completeness is Strict.
func DecodeObject[T any](m *Mapper, text string) (T, error) {
	var zero T
	g, err := m.parseGraph(text)
	if err != nil {
		return zero, err
	}
	return DecodeGraphObject[T](m, g)
}

// DecodeGraphObject is DecodeObject over an already parsed graph.
func DecodeGraphObject[T any](m *Mapper, g *rdf.Graph) (T, error) {
	var zero T
	dctx := newDeserializationContext(m.registry, g)
	root, err := RootSubjectOf(g)
	if err != nil {
		return zero, err
	}
	obj, err := m.decodeSubject(dctx, root, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, deserializationErrorf("root subject %s decoded to %T, not %v", root, obj, reflect.TypeFor[T]())
	}
	if unread := dctx.unread(); len(unread) > 0 {
		return zero, &IncompleteDeserializationError{Unread: unread}
	}
	return typed, nil
}

// DecodeObjects decodes every toplevel resource assignable to T. Subjects
// without a matching resource mapper are skipped; under Strict their triples
// then fail the completeness audit. Lossless behaves like Lenient here
// because there is no remainder return; use DecodeObjectsLossless to capture
// it.
func DecodeObjects[T any](m *Mapper, text string, mode CompletenessMode) ([]T, error) {
	g, err := m.parseGraph(text)
	if err != nil {
		return nil, err
	}
	return DecodeGraphObjects[T](m, g, mode)
}

// DecodeGraphObjects is DecodeObjects over an already parsed graph.
func DecodeGraphObjects[T any](m *Mapper, g *rdf.Graph, mode CompletenessMode) ([]T, error) {
	dctx := newDeserializationContext(m.registry, g)
	want := reflect.TypeFor[T]()
	var out []T
	for _, subject := range m.decodeRoots(g) {
		entry, ok := m.resourceEntryFor(dctx, subject)
		if !ok {
			continue
		}
		if !assignable(entry.target, want) {
			continue
		}
		obj, err := m.decodeEntry(dctx, subject, entry)
		if err != nil {
			return nil, err
		}
		typed, ok := obj.(T)
		if !ok {
			return nil, deserializationErrorf("subject %s decoded to %T, not %v", subject, obj, want)
		}
		out = append(out, typed)
	}
	if mode == Strict {
		if unread := dctx.unread(); len(unread) > 0 {
			return nil, &IncompleteDeserializationError{Unread: unread}
		}
	}
	return out, nil
}

// DecodeObjectsLossless decodes every mappable toplevel resource and returns
// the triples no mapper claimed as a remainder graph. Feeding the objects
// and remainder back through EncodeObjectsLossless reproduces the original
// triple set.
func (m *Mapper) DecodeObjectsLossless(text string) ([]any, *rdf.Graph, error) {
	g, err := m.parseGraph(text)
	if err != nil {
		return nil, nil, err
	}
	return m.DecodeGraphObjectsLossless(g)
}

// DecodeGraphObjectsLossless is DecodeObjectsLossless over an already parsed
// graph.
func (m *Mapper) DecodeGraphObjectsLossless(g *rdf.Graph) ([]any, *rdf.Graph, error) {
	dctx := newDeserializationContext(m.registry, g)
	var out []any
	for _, subject := range m.decodeRoots(g) {
		entry, ok := m.resourceEntryFor(dctx, subject)
		if !ok {
			continue
		}
		obj, err := m.decodeEntry(dctx, subject, entry)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, obj)
	}
	return out, rdf.NewGraph(dctx.unread()...), nil
}

// decodeRoots picks the subjects whole-graph decoding starts from: the
// toplevel subjects, or every subject when a cycle leaves none toplevel.
func (m *Mapper) decodeRoots(g *rdf.Graph) []rdf.Term {
	triples := g.Triples()
	if roots := toplevelSubjects(triples); len(roots) > 0 {
		return roots
	}
	return g.Subjects()
}

// decodeSubject decodes one subject, preferring the resource deserializer
// registered for the subject's rdf:type; fallback is the target type used
// for a registry lookup when no type triple matches.
func (m *Mapper) decodeSubject(dctx *DeserializationContext, subject rdf.Term, fallback reflect.Type) (any, error) {
	if entry, ok := m.resourceEntryFor(dctx, subject); ok {
		return m.decodeEntry(dctx, subject, entry)
	}
	return dctx.Deserialize(subject, fallback, nil)
}

// resourceEntryFor locates a resource deserializer for subject from its
// rdf:type triples, honoring the subject's term kind.
func (m *Mapper) resourceEntryFor(dctx *DeserializationContext, subject rdf.Term) (resourceDeserEntry, bool) {
	for _, t := range dctx.triplesFor(subject, rdf.RDFType, false, false, false) {
		typeIRI, ok := t.O.(rdf.IRI)
		if !ok {
			continue
		}
		entry, ok := m.registry.resourceDeserializerForTypeIRI(typeIRI)
		if !ok {
			continue
		}
		switch subject.Kind() {
		case rdf.TermIRI:
			if entry.node != nil {
				return entry, true
			}
		case rdf.TermBlankNode:
			if entry.anon != nil {
				return entry, true
			}
		}
	}
	return resourceDeserEntry{}, false
}

func (m *Mapper) decodeEntry(dctx *DeserializationContext, subject rdf.Term, entry resourceDeserEntry) (any, error) {
	if subject.Kind() == rdf.TermIRI {
		return dctx.Deserialize(subject, entry.target, entry.node)
	}
	return dctx.Deserialize(subject, entry.target, entry.anon)
}

func (m *Mapper) parseGraph(text string) (*rdf.Graph, error) {
	return rdf.ParseGraph(context.Background(), strings.NewReader(text), m.format, m.codecOpts...)
}

func (m *Mapper) writeGraph(g *rdf.Graph) (string, error) {
	var sb strings.Builder
	if err := rdf.WriteGraph(context.Background(), &sb, g, m.format, m.codecOpts...); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// assignable reports whether a value of registered type got may be returned
// as want.
func assignable(got, want reflect.Type) bool {
	if got == nil {
		return false
	}
	if want.Kind() == reflect.Interface {
		return got.Implements(want)
	}
	return got.AssignableTo(want)
}
