package rdf

import "fmt"

// TermKind identifies RDF term types.
type TermKind uint8

const (
	// TermIRI represents an IRI term.
	TermIRI TermKind = iota
	// TermBlankNode represents a blank node term.
	TermBlankNode
	// TermLiteral represents a literal term.
	TermLiteral
)

// Term is a value that can appear in RDF statements.
type Term interface {
	Kind() TermKind
	String() string
}

// IRI represents an RDF IRI. Two IRIs are equal when their values are equal.
type IRI struct {
	// Value is the IRI string value.
	Value string
}

// NewIRI validates value and returns it as an IRI.
func NewIRI(value string) (IRI, error) {
	if err := ValidateIRI(value); err != nil {
		return IRI{}, err
	}
	return IRI{Value: value}, nil
}

// MustIRI is like NewIRI but panics on invalid input. Intended for
// package-level vocabulary constants.
func MustIRI(value string) IRI {
	iri, err := NewIRI(value)
	if err != nil {
		panic(err)
	}
	return iri
}

// Kind returns TermIRI.
func (i IRI) Kind() TermKind { return TermIRI }

// String returns the IRI value.
func (i IRI) String() string { return i.Value }

// IsZero reports whether the IRI has no value.
func (i IRI) IsZero() bool { return i.Value == "" }

// BlankNode represents an RDF blank node. Its label only identifies the node
// within the graph (or encode/decode run) that produced it; labels must never
// be persisted as durable keys.
type BlankNode struct {
	// ID is the blank node identifier.
	ID string
}

// Kind returns TermBlankNode.
func (b BlankNode) Kind() TermKind { return TermBlankNode }

// String returns the blank node identifier prefixed with "_:".
func (b BlankNode) String() string { return "_:" + b.ID }

// Literal represents an RDF literal.
type Literal struct {
	// Lexical is the lexical form of the literal.
	Lexical string
	// Datatype is the datatype IRI, if any.
	Datatype IRI
	// Lang is the language tag, if any.
	Lang string
}

// NewLiteral returns a datatyped literal. An empty datatype defaults to
// xsd:string. Passing rdf:langString is an error: language-tagged literals
// must be built with NewLangLiteral.
func NewLiteral(lexical string, datatype IRI) (Literal, error) {
	if datatype.IsZero() {
		datatype = XSDString
	}
	if datatype == RDFLangString {
		return Literal{}, fmt.Errorf("%w: rdf:langString literal requires a language tag", ErrInvalidLiteral)
	}
	return Literal{Lexical: lexical, Datatype: datatype}, nil
}

// NewLangLiteral returns a language-tagged literal. The datatype is always
// rdf:langString; an empty language tag is an error.
func NewLangLiteral(lexical, lang string) (Literal, error) {
	if lang == "" {
		return Literal{}, fmt.Errorf("%w: language-tagged literal requires a non-empty tag", ErrInvalidLiteral)
	}
	return Literal{Lexical: lexical, Datatype: RDFLangString, Lang: lang}, nil
}

// Valid reports whether the literal satisfies the language-tag invariant:
// a non-empty language tag implies datatype rdf:langString, and vice versa.
func (l Literal) Valid() bool {
	return (l.Lang != "") == (l.Datatype == RDFLangString)
}

// Kind returns TermLiteral.
func (l Literal) Kind() TermKind { return TermLiteral }

// String returns a string representation of the literal.
func (l Literal) String() string {
	if l.Lang != "" {
		return fmt.Sprintf("%q@%s", l.Lexical, l.Lang)
	}
	if l.Datatype.Value != "" && l.Datatype != XSDString {
		return fmt.Sprintf("%q^^<%s>", l.Lexical, l.Datatype.Value)
	}
	return fmt.Sprintf("%q", l.Lexical)
}

// Triple is an immutable RDF triple.
type Triple struct {
	// S is the subject: an IRI or a blank node.
	S Term
	// P is the predicate.
	P IRI
	// O is the object: an IRI, a blank node, or a literal.
	O Term
}

// NewTriple validates term positions and returns the triple. The subject must
// be an IRI or a blank node, the predicate non-empty, the object any term.
func NewTriple(s Term, p IRI, o Term) (Triple, error) {
	if s == nil || (s.Kind() != TermIRI && s.Kind() != TermBlankNode) {
		return Triple{}, fmt.Errorf("rdf: triple subject must be an IRI or blank node")
	}
	if p.IsZero() {
		return Triple{}, fmt.Errorf("rdf: triple predicate must not be empty")
	}
	if o == nil {
		return Triple{}, fmt.Errorf("rdf: triple object must not be nil")
	}
	return Triple{S: s, P: p, O: o}, nil
}

// String returns an N-Triples-like representation of the triple.
func (t Triple) String() string {
	return fmt.Sprintf("%s <%s> %s .", formatTermRef(t.S), t.P.Value, formatTermRef(t.O))
}

func formatTermRef(term Term) string {
	if term == nil {
		return "<nil>"
	}
	if term.Kind() == TermIRI {
		return "<" + term.String() + ">"
	}
	return term.String()
}
