package rdfmap

import (
	"github.com/geoknoesis/rdfmap-go/rdf"
)

// Shape identifies the four mapper shapes. A concrete mapper may implement
// several shapes, and is stored in the registry under every shape it
// actually implements.
type Shape uint8

const (
	// ShapeLiteral maps a value to and from a literal term.
	ShapeLiteral Shape = iota
	// ShapeIRI maps a value to and from an IRI term.
	ShapeIRI
	// ShapeNode maps an identity-bearing resource: an IRI subject plus its
	// property triples.
	ShapeNode
	// ShapeAnon maps an anonymous resource: a blank node subject plus its
	// property triples.
	ShapeAnon
	// ShapeAny stands for "any shape" in resolution errors raised by the
	// generic serialize/deserialize entry points.
	ShapeAny
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeLiteral:
		return "literal"
	case ShapeIRI:
		return "iri"
	case ShapeNode:
		return "node"
	case ShapeAnon:
		return "anon"
	case ShapeAny:
		return "any"
	default:
		return "unknown"
	}
}

// LiteralSerializer converts a value into a literal term.
type LiteralSerializer interface {
	AsLiteral(value any, ctx *SerializationContext) (rdf.Literal, error)
}

// LiteralDeserializer converts a literal term back into a value.
//
// Datatype declares the datatype the deserializer handles; FromLiteral must
// fail with *DatatypeMismatchError on a differently-typed literal unless
// bypassDatatypeCheck is set.
type LiteralDeserializer interface {
	Datatype() rdf.IRI
	FromLiteral(term rdf.Literal, ctx *DeserializationContext, bypassDatatypeCheck bool) (any, error)
}

// IRISerializer converts a value into an IRI term.
type IRISerializer interface {
	AsIRI(value any, ctx *SerializationContext) (rdf.IRI, error)
}

// IRIDeserializer converts an IRI term back into a value.
type IRIDeserializer interface {
	FromIRI(term rdf.IRI, ctx *DeserializationContext) (any, error)
}

// NodeSerializer maps an identity-bearing resource to an IRI subject and the
// triples describing it. TypeIRI declares the resource's rdf:type; the
// serialization context injects the type triple when the serializer's own
// output does not carry one. A zero TypeIRI declares no type.
type NodeSerializer interface {
	TypeIRI() rdf.IRI
	AsNode(value any, ctx *SerializationContext) (rdf.IRI, []rdf.Triple, error)
}

// NodeDeserializer reconstructs an identity-bearing resource from its
// subject. TypeIRI is used to locate resources of this type during
// whole-graph decoding; a zero TypeIRI makes the mapper reachable only
// through explicit type-based resolution.
type NodeDeserializer interface {
	TypeIRI() rdf.IRI
	FromNode(subject rdf.IRI, ctx *DeserializationContext) (any, error)
}

// AnonSerializer maps an anonymous resource to a fresh blank node subject and
// the triples describing it.
type AnonSerializer interface {
	TypeIRI() rdf.IRI
	AsAnon(value any, ctx *SerializationContext) (rdf.BlankNode, []rdf.Triple, error)
}

// AnonDeserializer reconstructs an anonymous resource from its blank node
// subject.
type AnonDeserializer interface {
	TypeIRI() rdf.IRI
	FromAnon(subject rdf.BlankNode, ctx *DeserializationContext) (any, error)
}

// implementsAnyShape reports whether mapper implements at least one
// serializer or deserializer shape.
func implementsAnyShape(mapper any) bool {
	switch mapper.(type) {
	case LiteralSerializer, LiteralDeserializer,
		IRISerializer, IRIDeserializer,
		NodeSerializer, NodeDeserializer,
		AnonSerializer, AnonDeserializer:
		return true
	default:
		return false
	}
}
