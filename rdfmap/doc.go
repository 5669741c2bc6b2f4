// Package rdfmap maps application objects to and from RDF triples.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// The engine is built around explicit mappers: small objects that convert one
// application type to one RDF term shape (literal, IRI, identified resource,
// anonymous resource). Mappers live in a Registry; cloning a registry gives a
// cheap scope whose registrations shadow but never mutate the parent.
//
// A Mapper facade ties a registry to a text codec:
//
//	m := rdfmap.New()
//	rdfmap.Register[Person](m.Registry(), personMapper{})
//	text, err := m.EncodeObject(person)
//	back, err := rdfmap.DecodeObject[Person](m, text)
//
// Resource mappers express structure through builder and reader contexts
// rather than touching triples directly:
//
//	func (personMapper) AsNode(v any, ctx *rdfmap.SerializationContext) (rdf.IRI, []rdf.Triple, error) {
//	    p := v.(Person)
//	    subject := subjectFor(p)
//	    _, triples, err := ctx.Builder(subject).
//	        AddValue(nameIRI, p.Name).
//	        AddCollection(nicknamesIRI, p.Nicknames, rdfmap.List).
//	        Build()
//	    return subject, triples, err
//	}
//
// Decoding audits completeness: every triple a reader consumes is marked
// read, and Strict mode fails when anything is left over. Lossless mode
// returns the leftover triples as a remainder graph instead, so unmapped
// data survives a decode/encode round trip.
package rdfmap
