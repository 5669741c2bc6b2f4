package rdfmap

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// CollectionStrategy is the contract shared by the three interchangeable
// collection encodings. A strategy accepts an optional per-item serializer or
// deserializer, else resolves one for the item type from the context; it
// never depends on the identity of the surrounding mapper.
type CollectionStrategy interface {
	// EncodeCollection emits the triples encoding items under
	// (subject, predicate).
	EncodeCollection(subject rdf.Term, predicate rdf.IRI, items []any, ctx *SerializationContext, itemSerializer any) ([]rdf.Triple, error)
	// DecodeCollection reads the collection back. found is false when the
	// property is absent on the subject.
	DecodeCollection(subject rdf.Term, predicate rdf.IRI, ctx *DeserializationContext, itemType reflect.Type, itemDeserializer any) (items []any, found bool, err error)
}

// List encodes an ordered sequence as an rdf:List chain: one blank node per
// item carrying rdf:first and rdf:rest, terminated by rdf:nil. An empty
// sequence is the rdf:nil sentinel with zero node triples.
var List CollectionStrategy = listStrategy{}

// Bag, Seq and Alt encode a sequence as the corresponding RDF container: one
// node carrying a kind type triple plus 1-indexed rdf:_n member triples.
// Decoding preserves insertion order regardless of kind.
var (
	Bag = Container(rdf.RDFBag)
	Seq = Container(rdf.RDFSeq)
	Alt = Container(rdf.RDFAlt)
)

// MultiValue encodes a sequence as flat repeated (subject, predicate, item)
// triples with no intermediate node. Decode gathers all matches; re-encoding
// order is not guaranteed stable.
var MultiValue CollectionStrategy = multiValueStrategy{}

type listStrategy struct{}

func (listStrategy) EncodeCollection(subject rdf.Term, predicate rdf.IRI, items []any, ctx *SerializationContext, itemSerializer any) ([]rdf.Triple, error) {
	if len(items) == 0 {
		return []rdf.Triple{{S: subject, P: predicate, O: rdf.RDFNil}}, nil
	}

	nodes := make([]rdf.BlankNode, len(items))
	for i := range nodes {
		nodes[i] = ctx.NewBlankNode()
	}

	triples := []rdf.Triple{{S: subject, P: predicate, O: nodes[0]}}
	for i, item := range items {
		object, nested, err := ctx.serialize(item, itemSerializer)
		if err != nil {
			return nil, err
		}
		triples = append(triples, rdf.Triple{S: nodes[i], P: rdf.RDFFirst, O: object})
		triples = append(triples, nested...)
		var rest rdf.Term = rdf.RDFNil
		if i+1 < len(nodes) {
			rest = nodes[i+1]
		}
		triples = append(triples, rdf.Triple{S: nodes[i], P: rdf.RDFRest, O: rest})
	}
	return triples, nil
}

func (listStrategy) DecodeCollection(subject rdf.Term, predicate rdf.IRI, ctx *DeserializationContext, itemType reflect.Type, itemDeserializer any) ([]any, bool, error) {
	head, found, err := collectionHead(subject, predicate, ctx)
	if err != nil || !found {
		return nil, found, err
	}

	items := []any{}
	node := head
	visited := make(map[rdf.Term]struct{})
	for node != rdf.Term(rdf.RDFNil) {
		if _, loop := visited[node]; loop {
			return nil, true, deserializationErrorf("malformed rdf:List under <%s>: cyclic rest chain", predicate.Value)
		}
		visited[node] = struct{}{}

		first := ctx.triplesFor(node, rdf.RDFFirst, false, false, true)
		if len(first) != 1 {
			return nil, true, deserializationErrorf("malformed rdf:List under <%s>: node %s has %d rdf:first triples", predicate.Value, node, len(first))
		}
		item, err := ctx.Deserialize(first[0].O, itemType, itemDeserializer)
		if err != nil {
			return nil, true, err
		}
		items = append(items, item)

		rest := ctx.triplesFor(node, rdf.RDFRest, false, false, true)
		if len(rest) != 1 {
			return nil, true, deserializationErrorf("malformed rdf:List under <%s>: node %s has %d rdf:rest triples", predicate.Value, node, len(rest))
		}
		node = rest[0].O
		if node.Kind() == rdf.TermLiteral {
			return nil, true, deserializationErrorf("malformed rdf:List under <%s>: literal rest link", predicate.Value)
		}
	}
	return items, true, nil
}

// containerStrategy encodes a numbered RDF container of one kind.
type containerStrategy struct {
	kind rdf.IRI
}

// Container returns the numbered-container strategy for kind, one of
// rdf.RDFBag, rdf.RDFSeq, rdf.RDFAlt.
func Container(kind rdf.IRI) CollectionStrategy {
	switch kind {
	case rdf.RDFBag, rdf.RDFSeq, rdf.RDFAlt:
		return containerStrategy{kind: kind}
	default:
		panic(fmt.Sprintf("rdfmap: %s is not an RDF container kind", kind.Value))
	}
}

func (s containerStrategy) EncodeCollection(subject rdf.Term, predicate rdf.IRI, items []any, ctx *SerializationContext, itemSerializer any) ([]rdf.Triple, error) {
	node := ctx.NewBlankNode()
	triples := []rdf.Triple{
		{S: subject, P: predicate, O: node},
		{S: node, P: rdf.RDFType, O: s.kind},
	}
	for i, item := range items {
		object, nested, err := ctx.serialize(item, itemSerializer)
		if err != nil {
			return nil, err
		}
		triples = append(triples, rdf.Triple{S: node, P: rdf.RDFMember(i + 1), O: object})
		triples = append(triples, nested...)
	}
	return triples, nil
}

func (s containerStrategy) DecodeCollection(subject rdf.Term, predicate rdf.IRI, ctx *DeserializationContext, itemType reflect.Type, itemDeserializer any) ([]any, bool, error) {
	node, found, err := collectionHead(subject, predicate, ctx)
	if err != nil || !found {
		return nil, found, err
	}
	if node.Kind() == rdf.TermLiteral {
		return nil, true, deserializationErrorf("malformed container under <%s>: literal container node", predicate.Value)
	}

	// Consume the kind triple whichever container kind was used
	// structurally; order comes from the member indices alone.
	for _, t := range ctx.triplesFor(node, rdf.RDFType, false, false, false) {
		switch t.O {
		case rdf.Term(rdf.RDFBag), rdf.Term(rdf.RDFSeq), rdf.Term(rdf.RDFAlt):
			ctx.markRead(t)
		}
	}

	type member struct {
		index int
		t     rdf.Triple
	}
	var members []member
	for _, t := range ctx.triplesFor(node, rdf.IRI{}, false, false, false) {
		if n, ok := rdf.RDFMemberIndex(t.P); ok {
			members = append(members, member{index: n, t: t})
		}
	}
	sort.SliceStable(members, func(i, j int) bool { return members[i].index < members[j].index })

	items := []any{}
	for _, m := range members {
		ctx.markRead(m.t)
		item, err := ctx.Deserialize(m.t.O, itemType, itemDeserializer)
		if err != nil {
			return nil, true, err
		}
		items = append(items, item)
	}
	return items, true, nil
}

type multiValueStrategy struct{}

func (multiValueStrategy) EncodeCollection(subject rdf.Term, predicate rdf.IRI, items []any, ctx *SerializationContext, itemSerializer any) ([]rdf.Triple, error) {
	var triples []rdf.Triple
	for _, item := range items {
		emitted, err := ctx.Value(subject, predicate, item, itemSerializer)
		if err != nil {
			return nil, err
		}
		triples = append(triples, emitted...)
	}
	return triples, nil
}

func (multiValueStrategy) DecodeCollection(subject rdf.Term, predicate rdf.IRI, ctx *DeserializationContext, itemType reflect.Type, itemDeserializer any) ([]any, bool, error) {
	triples := ctx.triplesFor(subject, predicate, false, false, true)
	if len(triples) == 0 {
		return nil, false, nil
	}
	items := make([]any, 0, len(triples))
	for _, t := range triples {
		item, err := ctx.Deserialize(t.O, itemType, itemDeserializer)
		if err != nil {
			return nil, true, err
		}
		items = append(items, item)
	}
	return items, true, nil
}

// collectionHead reads the single object of (subject, predicate).
func collectionHead(subject rdf.Term, predicate rdf.IRI, ctx *DeserializationContext) (rdf.Term, bool, error) {
	triples := ctx.triplesFor(subject, predicate, false, false, true)
	if len(triples) == 0 {
		return nil, false, nil
	}
	if len(triples) > 1 {
		return nil, true, deserializationErrorf("property <%s> on %s has %d values, expected one collection", predicate.Value, subject, len(triples))
	}
	return triples[0].O, true, nil
}
