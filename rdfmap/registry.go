package rdfmap

import (
	"fmt"
	"reflect"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// Registry holds the mappers the engine resolves by target type. Per (type,
// shape) it owns at most one serializer and one deserializer; registering a
// second replaces the first.
//
// A registry is read-mostly: configure it fully before sharing it across
// goroutines, no internal locking is performed. Scoped overrides go through
// Clone, which shares nothing mutable with its parent but falls back to it
// for unset types.
type Registry struct {
	parent *Registry

	literalSer   map[reflect.Type]LiteralSerializer
	literalDeser map[reflect.Type]LiteralDeserializer
	iriSer       map[reflect.Type]IRISerializer
	iriDeser     map[reflect.Type]IRIDeserializer
	nodeSer      map[reflect.Type]NodeSerializer
	nodeDeser    map[reflect.Type]NodeDeserializer
	anonSer      map[reflect.Type]AnonSerializer
	anonDeser    map[reflect.Type]AnonDeserializer

	// byTypeIRI locates resource deserializers from a subject's rdf:type
	// triple during whole-graph decoding.
	byTypeIRI map[rdf.IRI]resourceDeserEntry

	// named provides runtime indirection for mappers referenced by name,
	// the entry path used by generated mapper providers.
	named map[string]any
}

type resourceDeserEntry struct {
	target reflect.Type
	node   NodeDeserializer
	anon   AnonDeserializer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		literalSer:   make(map[reflect.Type]LiteralSerializer),
		literalDeser: make(map[reflect.Type]LiteralDeserializer),
		iriSer:       make(map[reflect.Type]IRISerializer),
		iriDeser:     make(map[reflect.Type]IRIDeserializer),
		nodeSer:      make(map[reflect.Type]NodeSerializer),
		nodeDeser:    make(map[reflect.Type]NodeDeserializer),
		anonSer:      make(map[reflect.Type]AnonSerializer),
		anonDeser:    make(map[reflect.Type]AnonDeserializer),
		byTypeIRI:    make(map[rdf.IRI]resourceDeserEntry),
		named:        make(map[string]any),
	}
}

// Clone returns a child registry that falls back to r for unset types.
// Mutating the clone never affects r.
func (r *Registry) Clone() *Registry {
	child := NewRegistry()
	child.parent = r
	return child
}

// Register stores mapper under every shape it implements, keyed by T.
// It panics when the mapper implements no shape; that is a programming
// error, not a runtime condition.
func Register[T any](r *Registry, mapper any) {
	registerType(r, reflect.TypeFor[T](), mapper)
}

func registerType(r *Registry, target reflect.Type, mapper any) {
	if !implementsAnyShape(mapper) {
		panic(fmt.Sprintf("rdfmap: mapper %T implements no mapper shape", mapper))
	}
	if ser, ok := mapper.(LiteralSerializer); ok {
		r.literalSer[target] = ser
	}
	if deser, ok := mapper.(LiteralDeserializer); ok {
		r.literalDeser[target] = deser
	}
	if ser, ok := mapper.(IRISerializer); ok {
		r.iriSer[target] = ser
	}
	if deser, ok := mapper.(IRIDeserializer); ok {
		r.iriDeser[target] = deser
	}
	if ser, ok := mapper.(NodeSerializer); ok {
		r.nodeSer[target] = ser
	}
	if deser, ok := mapper.(NodeDeserializer); ok {
		r.nodeDeser[target] = deser
		if typeIRI := deser.TypeIRI(); !typeIRI.IsZero() {
			entry := r.byTypeIRI[typeIRI]
			entry.target = target
			entry.node = deser
			r.byTypeIRI[typeIRI] = entry
		}
	}
	if ser, ok := mapper.(AnonSerializer); ok {
		r.anonSer[target] = ser
	}
	if deser, ok := mapper.(AnonDeserializer); ok {
		r.anonDeser[target] = deser
		if typeIRI := deser.TypeIRI(); !typeIRI.IsZero() {
			entry := r.byTypeIRI[typeIRI]
			entry.target = target
			entry.anon = deser
			r.byTypeIRI[typeIRI] = entry
		}
	}
}

// RegisterNamed stores a mapper under a runtime name for deferred lookup.
func (r *Registry) RegisterNamed(name string, mapper any) {
	if !implementsAnyShape(mapper) {
		panic(fmt.Sprintf("rdfmap: mapper %T implements no mapper shape", mapper))
	}
	r.named[name] = mapper
}

// Named resolves a mapper registered under name, asserted to M.
func Named[M any](r *Registry, name string) (M, error) {
	for reg := r; reg != nil; reg = reg.parent {
		if mapper, ok := reg.named[name]; ok {
			typed, ok := mapper.(M)
			if !ok {
				var zero M
				return zero, fmt.Errorf("rdfmap: named mapper %q is %T, not %v", name, mapper, reflect.TypeFor[M]())
			}
			return typed, nil
		}
	}
	var zero M
	return zero, fmt.Errorf("rdfmap: no mapper registered under name %q", name)
}

// Per-shape lookups walk the parent chain.

func (r *Registry) literalSerializerFor(t reflect.Type) (LiteralSerializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if ser, ok := reg.literalSer[t]; ok {
			return ser, true
		}
	}
	return nil, false
}

func (r *Registry) literalDeserializerFor(t reflect.Type) (LiteralDeserializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if deser, ok := reg.literalDeser[t]; ok {
			return deser, true
		}
	}
	return nil, false
}

func (r *Registry) iriSerializerFor(t reflect.Type) (IRISerializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if ser, ok := reg.iriSer[t]; ok {
			return ser, true
		}
	}
	return nil, false
}

func (r *Registry) iriDeserializerFor(t reflect.Type) (IRIDeserializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if deser, ok := reg.iriDeser[t]; ok {
			return deser, true
		}
	}
	return nil, false
}

func (r *Registry) nodeSerializerFor(t reflect.Type) (NodeSerializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if ser, ok := reg.nodeSer[t]; ok {
			return ser, true
		}
	}
	return nil, false
}

func (r *Registry) nodeDeserializerFor(t reflect.Type) (NodeDeserializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if deser, ok := reg.nodeDeser[t]; ok {
			return deser, true
		}
	}
	return nil, false
}

func (r *Registry) anonSerializerFor(t reflect.Type) (AnonSerializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if ser, ok := reg.anonSer[t]; ok {
			return ser, true
		}
	}
	return nil, false
}

func (r *Registry) anonDeserializerFor(t reflect.Type) (AnonDeserializer, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if deser, ok := reg.anonDeser[t]; ok {
			return deser, true
		}
	}
	return nil, false
}

func (r *Registry) resourceDeserializerForTypeIRI(typeIRI rdf.IRI) (resourceDeserEntry, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if entry, ok := reg.byTypeIRI[typeIRI]; ok {
			return entry, true
		}
	}
	return resourceDeserEntry{}, false
}
