package rdf

import (
	"iter"
	"sync"
)

// Graph is an immutable set of triples preserving first-seen insertion
// order. Duplicate triples collapse at construction. Lookup indexes are
// built lazily on first Find and shared by all subsequent queries, so a
// Graph is safe for concurrent readers.
type Graph struct {
	triples []Triple

	indexOnce   sync.Once
	bySubject   map[Term][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int
	set         map[Triple]struct{}
}

// NewGraph builds a graph from triples, collapsing duplicates while keeping
// the first occurrence's position.
func NewGraph(triples ...Triple) *Graph {
	g := &Graph{}
	seen := make(map[Triple]struct{}, len(triples))
	for _, t := range triples {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		g.triples = append(g.triples, t)
	}
	return g
}

func (g *Graph) buildIndex() {
	g.indexOnce.Do(func() {
		g.bySubject = make(map[Term][]int)
		g.byPredicate = make(map[Term][]int)
		g.byObject = make(map[Term][]int)
		g.set = make(map[Triple]struct{}, len(g.triples))
		for i, t := range g.triples {
			g.bySubject[t.S] = append(g.bySubject[t.S], i)
			g.byPredicate[t.P] = append(g.byPredicate[t.P], i)
			g.byObject[t.O] = append(g.byObject[t.O], i)
			g.set[t] = struct{}{}
		}
	})
}

// Size returns the number of distinct triples.
func (g *Graph) Size() int { return len(g.triples) }

// IsEmpty reports whether the graph holds no triples.
func (g *Graph) IsEmpty() bool { return len(g.triples) == 0 }

// Triples returns the triples in insertion order. The slice is a copy.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Contains reports whether t is in the graph.
func (g *Graph) Contains(t Triple) bool {
	g.buildIndex()
	_, ok := g.set[t]
	return ok
}

// Find yields the triples matching the pattern in insertion order. A nil
// term is a wildcard. The sequence is restartable and allocation-light;
// iteration may stop early.
func (g *Graph) Find(s, p, o Term) iter.Seq[Triple] {
	return func(yield func(Triple) bool) {
		for _, i := range g.candidates(s, p, o) {
			t := g.triples[i]
			if s != nil && t.S != s {
				continue
			}
			if p != nil && Term(t.P) != p {
				continue
			}
			if o != nil && t.O != o {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// FindAll collects Find results into a slice.
func (g *Graph) FindAll(s, p, o Term) []Triple {
	var out []Triple
	for t := range g.Find(s, p, o) {
		out = append(out, t)
	}
	return out
}

// candidates picks the smallest applicable index position list for the
// pattern, falling back to a full scan when every position is a wildcard.
func (g *Graph) candidates(s, p, o Term) []int {
	if s == nil && p == nil && o == nil {
		all := make([]int, len(g.triples))
		for i := range all {
			all[i] = i
		}
		return all
	}
	g.buildIndex()
	var best []int
	found := false
	consider := func(idx []int, ok bool) {
		if !ok {
			return
		}
		if !found || len(idx) < len(best) {
			best = idx
			found = true
		}
	}
	if s != nil {
		idx, ok := g.bySubject[s]
		if !ok {
			return nil
		}
		consider(idx, true)
	}
	if p != nil {
		idx, ok := g.byPredicate[p]
		if !ok {
			return nil
		}
		consider(idx, true)
	}
	if o != nil {
		idx, ok := g.byObject[o]
		if !ok {
			return nil
		}
		consider(idx, true)
	}
	return best
}

// Subjects returns the distinct subjects in first-seen order.
func (g *Graph) Subjects() []Term {
	seen := make(map[Term]struct{})
	var out []Term
	for _, t := range g.triples {
		if _, dup := seen[t.S]; dup {
			continue
		}
		seen[t.S] = struct{}{}
		out = append(out, t.S)
	}
	return out
}

// Merge returns a new graph holding this graph's triples followed by the
// others', duplicates collapsed.
func (g *Graph) Merge(others ...*Graph) *Graph {
	triples := g.Triples()
	for _, other := range others {
		triples = append(triples, other.triples...)
	}
	return NewGraph(triples...)
}

// Without returns a new graph keeping only the triples drop rejects.
func (g *Graph) Without(drop func(Triple) bool) *Graph {
	var kept []Triple
	for _, t := range g.triples {
		if !drop(t) {
			kept = append(kept, t)
		}
	}
	return NewGraph(kept...)
}

// Equal reports whether both graphs hold the same triple set, ignoring
// order.
func (g *Graph) Equal(other *Graph) bool {
	if g.Size() != other.Size() {
		return false
	}
	g.buildIndex()
	for _, t := range other.triples {
		if _, ok := g.set[t]; !ok {
			return false
		}
	}
	return true
}
