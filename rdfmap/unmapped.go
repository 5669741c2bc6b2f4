package rdfmap

import (
	"fmt"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// UnmappedMapper shapes the residual triples a resource claims with a
// reader's Unmapped call, and turns that residual back into triples on
// re-encode.
type UnmappedMapper interface {
	// IncludeBlankNodes reports whether residual capture extends over
	// blank-node objects' sub-trees.
	IncludeBlankNodes() bool
	// FromUnmapped shapes the captured triples into the residual value.
	FromUnmapped(subject rdf.Term, triples []rdf.Triple) (any, error)
	// ToUnmapped re-emits the residual value as triples on subject.
	ToUnmapped(subject rdf.Term, residual any) ([]rdf.Triple, error)
}

// PredicateMapUnmapped shapes residual triples on the subject itself as a
// predicate-grouped object map.
var PredicateMapUnmapped UnmappedMapper = predicateMapUnmapped{}

// GraphUnmapped shapes residual triples, including blank-node sub-trees, as
// a graph.
var GraphUnmapped UnmappedMapper = graphUnmapped{}

type predicateMapUnmapped struct{}

func (predicateMapUnmapped) IncludeBlankNodes() bool { return false }

func (predicateMapUnmapped) FromUnmapped(subject rdf.Term, triples []rdf.Triple) (any, error) {
	out := make(map[rdf.IRI][]rdf.Term)
	for _, t := range triples {
		out[t.P] = append(out[t.P], t.O)
	}
	return out, nil
}

func (predicateMapUnmapped) ToUnmapped(subject rdf.Term, residual any) ([]rdf.Triple, error) {
	byPredicate, ok := residual.(map[rdf.IRI][]rdf.Term)
	if !ok {
		return nil, fmt.Errorf("rdfmap: predicate-map residual is %T, expected map[rdf.IRI][]rdf.Term", residual)
	}
	var out []rdf.Triple
	for p, objects := range byPredicate {
		for _, o := range objects {
			out = append(out, rdf.Triple{S: subject, P: p, O: o})
		}
	}
	return out, nil
}

type graphUnmapped struct{}

func (graphUnmapped) IncludeBlankNodes() bool { return true }

func (graphUnmapped) FromUnmapped(subject rdf.Term, triples []rdf.Triple) (any, error) {
	return rdf.NewGraph(triples...), nil
}

func (graphUnmapped) ToUnmapped(subject rdf.Term, residual any) ([]rdf.Triple, error) {
	g, ok := residual.(*rdf.Graph)
	if !ok {
		return nil, fmt.Errorf("rdfmap: graph residual is %T, expected *rdf.Graph", residual)
	}
	return g.Triples(), nil
}

// unmappedMapperForValue picks the unmapped mapper matching a residual's
// dynamic type.
func unmappedMapperForValue(residual any) (UnmappedMapper, error) {
	switch residual.(type) {
	case map[rdf.IRI][]rdf.Term:
		return PredicateMapUnmapped, nil
	case *rdf.Graph:
		return GraphUnmapped, nil
	default:
		return nil, fmt.Errorf("rdfmap: no unmapped mapper for residual %T", residual)
	}
}
