// Package rdf provides the compact triple-oriented RDF model consumed by the
// rdfmap mapping engine, plus concrete-syntax codecs at its boundary.
//
// Copyright 2026 Geoknoesis LLC (www.geoknoesis.com)
//
// The model is three term kinds (IRI, BlankNode, Literal) composing immutable
// Triples and an immutable, duplicate-collapsing Graph with indexed lookup:
//
//	g := rdf.NewGraph(triples...)
//	for t := range g.Find(subject, rdf.RDFType, nil) {
//	    // process t
//	}
//
// Graphs are never mutated after construction; derived graphs are built with
// Merge and Without.
//
// Codecs translate text to and from the graph model. N-Triples is handled
// natively; JSON-LD is handled through the json-gold processor. Base-IRI
// resolution happens inside the codec, so graphs crossing into the engine
// only carry absolute IRIs:
//
//	g, err := rdf.ParseGraph(ctx, reader, rdf.FormatNTriples)
//	err = rdf.WriteGraph(ctx, writer, g, rdf.FormatJSONLD)
package rdf
