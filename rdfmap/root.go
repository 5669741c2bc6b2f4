package rdfmap

import (
	"fmt"
	"sort"

	"github.com/geoknoesis/rdfmap-go/rdf"
)

// RootSubject resolves the single conceptual entry-point subject of a triple
// set. It is a pure function: for any non-empty input it returns exactly one
// subject or fails with one of four errors, never an arbitrary guess.
//
// Zero-incoming candidates are unambiguous entry points and always win; only
// when none exists (a cycle spanning every subject) does the resolver fall
// back to preferring a uniquely-named IRI subject over anonymous ones, since
// a blank node has no meaning outside the graph that defines it.
func RootSubject(triples []rdf.Triple) (rdf.Term, error) {
	if len(triples) == 0 {
		return nil, ErrEmptyGraph
	}

	subjects := make(map[rdf.Term]struct{})
	var order []rdf.Term
	for _, t := range triples {
		if _, dup := subjects[t.S]; !dup {
			subjects[t.S] = struct{}{}
			order = append(order, t.S)
		}
	}

	if len(order) == 1 {
		// Self-loops do not disqualify a sole subject.
		return order[0], nil
	}

	// usedAsObject: subjects referenced as the object of a triple whose
	// subject differs. Self-loops do not count as incoming edges.
	usedAsObject := make(map[rdf.Term]struct{})
	for _, t := range triples {
		if t.O.Kind() == rdf.TermLiteral {
			continue
		}
		if t.S == t.O {
			continue
		}
		if _, isSubject := subjects[t.O]; isSubject {
			usedAsObject[t.O] = struct{}{}
		}
	}

	var toplevel []rdf.Term
	for _, s := range order {
		if _, used := usedAsObject[s]; !used {
			toplevel = append(toplevel, s)
		}
	}

	switch {
	case len(toplevel) == 1:
		return toplevel[0], nil
	case len(toplevel) > 1:
		// IRI status is never a tie-break between zero-incoming candidates.
		return nil, fmt.Errorf("%w: %s", ErrMultipleToplevel, describeTerms(toplevel))
	}

	// Every subject has an incoming edge: a cycle spanning all subjects.
	var iriSubjects []rdf.Term
	for _, s := range order {
		if s.Kind() == rdf.TermIRI {
			iriSubjects = append(iriSubjects, s)
		}
	}
	switch len(iriSubjects) {
	case 1:
		return iriSubjects[0], nil
	case 0:
		return nil, ErrCyclicBlankNodes
	default:
		return nil, fmt.Errorf("%w: %s", ErrMultipleIRISubjects, describeTerms(iriSubjects))
	}
}

// toplevelSubjects returns, in first-seen order, the subjects never used as
// the object of another subject's triple. Self-loops do not count as
// incoming edges. A cycle spanning every subject yields an empty slice.
func toplevelSubjects(triples []rdf.Triple) []rdf.Term {
	subjects := make(map[rdf.Term]struct{})
	var order []rdf.Term
	for _, t := range triples {
		if _, dup := subjects[t.S]; !dup {
			subjects[t.S] = struct{}{}
			order = append(order, t.S)
		}
	}
	usedAsObject := make(map[rdf.Term]struct{})
	for _, t := range triples {
		if t.O.Kind() == rdf.TermLiteral || t.S == t.O {
			continue
		}
		if _, isSubject := subjects[t.O]; isSubject {
			usedAsObject[t.O] = struct{}{}
		}
	}
	var toplevel []rdf.Term
	for _, s := range order {
		if _, used := usedAsObject[s]; !used {
			toplevel = append(toplevel, s)
		}
	}
	return toplevel
}

// RootSubjectOf is RootSubject over a graph.
func RootSubjectOf(g *rdf.Graph) (rdf.Term, error) {
	return RootSubject(g.Triples())
}

func describeTerms(terms []rdf.Term) string {
	names := make([]string, len(terms))
	for i, t := range terms {
		names[i] = t.String()
	}
	sort.Strings(names)
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
