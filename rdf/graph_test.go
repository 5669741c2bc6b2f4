package rdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tr(s, p, o string) Triple {
	return Triple{S: MustIRI(s), P: MustIRI(p), O: MustIRI(o)}
}

func TestNewGraphCollapsesDuplicates(t *testing.T) {
	a := tr("http://e.org/a", "http://e.org/p", "http://e.org/b")
	b := tr("http://e.org/b", "http://e.org/p", "http://e.org/c")
	g := NewGraph(a, b, a, b, a)
	if g.Size() != 2 {
		t.Fatalf("expected 2 triples, got %d", g.Size())
	}
	if diff := cmp.Diff([]Triple{a, b}, g.Triples()); diff != "" {
		t.Fatalf("triples mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphFindPatterns(t *testing.T) {
	a := tr("http://e.org/a", "http://e.org/p", "http://e.org/b")
	b := tr("http://e.org/a", "http://e.org/q", "http://e.org/c")
	c := tr("http://e.org/b", "http://e.org/p", "http://e.org/c")
	g := NewGraph(a, b, c)

	if got := g.FindAll(MustIRI("http://e.org/a"), nil, nil); len(got) != 2 {
		t.Fatalf("subject pattern: expected 2, got %d", len(got))
	}
	if got := g.FindAll(nil, MustIRI("http://e.org/p"), nil); len(got) != 2 {
		t.Fatalf("predicate pattern: expected 2, got %d", len(got))
	}
	if got := g.FindAll(nil, nil, MustIRI("http://e.org/c")); len(got) != 2 {
		t.Fatalf("object pattern: expected 2, got %d", len(got))
	}
	got := g.FindAll(MustIRI("http://e.org/a"), MustIRI("http://e.org/p"), nil)
	if len(got) != 1 || got[0] != a {
		t.Fatalf("combined pattern: got %v", got)
	}
	if got := g.FindAll(MustIRI("http://e.org/zzz"), nil, nil); got != nil {
		t.Fatalf("absent subject: got %v", got)
	}
	if got := g.FindAll(nil, nil, nil); len(got) != 3 {
		t.Fatalf("full scan: expected 3, got %d", len(got))
	}
}

func TestGraphFindStopsEarly(t *testing.T) {
	g := NewGraph(
		tr("http://e.org/a", "http://e.org/p", "http://e.org/b"),
		tr("http://e.org/a", "http://e.org/p", "http://e.org/c"),
	)
	count := 0
	for range g.Find(MustIRI("http://e.org/a"), nil, nil) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("expected early stop after 1, got %d", count)
	}
}

func TestGraphContains(t *testing.T) {
	a := tr("http://e.org/a", "http://e.org/p", "http://e.org/b")
	g := NewGraph(a)
	if !g.Contains(a) {
		t.Fatal("expected Contains true")
	}
	if g.Contains(tr("http://e.org/x", "http://e.org/p", "http://e.org/b")) {
		t.Fatal("expected Contains false")
	}
}

func TestGraphSubjectsOrder(t *testing.T) {
	g := NewGraph(
		tr("http://e.org/b", "http://e.org/p", "http://e.org/x"),
		tr("http://e.org/a", "http://e.org/p", "http://e.org/x"),
		tr("http://e.org/b", "http://e.org/q", "http://e.org/y"),
	)
	want := []Term{MustIRI("http://e.org/b"), MustIRI("http://e.org/a")}
	if diff := cmp.Diff(want, g.Subjects()); diff != "" {
		t.Fatalf("subjects mismatch (-want +got):\n%s", diff)
	}
}

func TestGraphMergeWithoutEqual(t *testing.T) {
	a := tr("http://e.org/a", "http://e.org/p", "http://e.org/b")
	b := tr("http://e.org/b", "http://e.org/p", "http://e.org/c")
	g1 := NewGraph(a)
	g2 := NewGraph(a, b)

	merged := g1.Merge(g2)
	if merged.Size() != 2 {
		t.Fatalf("merge: expected 2, got %d", merged.Size())
	}
	if !merged.Equal(g2) {
		t.Fatal("merged graph should equal g2")
	}
	if g1.Equal(g2) {
		t.Fatal("graphs of different size must not be equal")
	}

	without := merged.Without(func(t Triple) bool { return t.S == MustIRI("http://e.org/a") })
	if !without.Equal(NewGraph(b)) {
		t.Fatalf("without: got %v", without.Triples())
	}
}

func TestGraphEqualIgnoresOrder(t *testing.T) {
	a := tr("http://e.org/a", "http://e.org/p", "http://e.org/b")
	b := tr("http://e.org/b", "http://e.org/p", "http://e.org/c")
	if !NewGraph(a, b).Equal(NewGraph(b, a)) {
		t.Fatal("order must not affect equality")
	}
}
