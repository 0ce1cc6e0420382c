package match

import (
	"testing"

	"licorice/internal/core/corpus"
	"licorice/internal/core/index"
	"licorice/internal/core/shingle"
)

func buildIndex(t *testing.T, k int, refs ...corpus.Reference) *index.Index {
	t.Helper()
	x, err := index.Build(corpus.Corpus{Version: 1, References: refs}, index.Options{K: k})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}
	return x
}

// digit-bearing tokens pass through normalization untouched
func ref(name string, cat corpus.Category, text string) corpus.Reference {
	return corpus.Reference{Name: name, Category: cat, Text: text}
}

func TestRankEmptyQuery(t *testing.T) {
	x := buildIndex(t, 1, ref("A", corpus.CategoryOpenSource, "t1 t2 t3"))
	m := New(x, Options{})

	if got := m.Rank(nil, shingle.Build(nil, 1), corpus.Category(0)); got != nil {
		t.Fatalf("empty query should rank nothing, got %d", len(got))
	}
}

func TestRankSelfMatch(t *testing.T) {
	x := buildIndex(t, 1,
		ref("A", corpus.CategoryOpenSource, "t1 t2 t3 t4 t5"),
		ref("B", corpus.CategoryCopyleft, "u1 u2 u3 u4 u5"),
	)
	m := New(x, Options{Workers: 1})

	a, _ := x.Get("A")
	got := m.Rank(a.Tokens, a.Shingles, corpus.Category(0))
	if len(got) != 2 {
		t.Fatalf("expected both entries ranked, got %d", len(got))
	}
	if got[0].Entry.Name != "A" || got[0].Jaccard != 1.0 {
		t.Fatalf("self match should lead with jaccard 1.0, got %q %v", got[0].Entry.Name, got[0].Jaccard)
	}
	if got[0].Score != 1.0 {
		t.Fatalf("self match blended score = %v, want 1.0", got[0].Score)
	}
	if got[1].Jaccard != 0 {
		t.Fatalf("disjoint entry jaccard = %v, want 0", got[1].Jaccard)
	}
}

func TestRankAlignmentSeparatesScrambledText(t *testing.T) {
	// same token bag, so jaccard at k=1 ties at 1.0 for both;
	// only token order tells them apart
	x := buildIndex(t, 1,
		ref("Straight", corpus.CategoryOpenSource, "t1 t2 t3 t4 t5 t6 t7 t8"),
		ref("Scrambled", corpus.CategoryOpenSource, "t8 t7 t6 t5 t4 t3 t2 t1"),
	)
	m := New(x, Options{Workers: 1})

	s, _ := x.Get("Straight")
	got := m.Rank(s.Tokens, s.Shingles, corpus.Category(0))

	if got[0].Entry.Name != "Straight" {
		t.Fatalf("order-preserving entry should win, got %q", got[0].Entry.Name)
	}
	if got[0].Jaccard != got[1].Jaccard {
		t.Fatalf("construction broken: jaccard should tie, got %v vs %v", got[0].Jaccard, got[1].Jaccard)
	}
	if got[0].Score <= got[1].Score {
		t.Fatalf("blended scores should separate: %v vs %v", got[0].Score, got[1].Score)
	}
	if got[0].Alignment != 1.0 {
		t.Fatalf("self alignment = %v, want 1.0", got[0].Alignment)
	}
}

func TestRankBandBlocksStayOnTop(t *testing.T) {
	// Scrambled blends down to 0.78 yet must still outrank Longer, whose
	// raw jaccard 0.8 sits outside the leader's epsilon band
	x := buildIndex(t, 1,
		ref("Straight", corpus.CategoryOpenSource, "t1 t2 t3 t4 t5 t6 t7 t8"),
		ref("Scrambled", corpus.CategoryOpenSource, "t8 t7 t6 t5 t4 t3 t2 t1"),
		ref("Longer", corpus.CategoryOpenSource, "t1 t2 t3 t4 t5 t6 t7 t8 t9 t10"),
	)
	m := New(x, Options{Workers: 1})

	s, _ := x.Get("Straight")
	got := m.Rank(s.Tokens, s.Shingles, corpus.Category(0))

	wantOrder := []string{"Straight", "Scrambled", "Longer"}
	for i, want := range wantOrder {
		if got[i].Entry.Name != want {
			t.Fatalf("rank[%d] = %q, want %q (full order %v)", i, got[i].Entry.Name, want, names(got))
		}
	}
	if got[1].Score >= got[2].Jaccard {
		t.Fatalf("construction broken: blended %v should be below outsider jaccard %v", got[1].Score, got[2].Jaccard)
	}
}

func TestRankTieBreaks(t *testing.T) {
	// query shares 1 of Short's 2 tokens and 2 of Long's 8 tokens,
	// both work out to jaccard 1/5 and alignment 1/4
	refs := []corpus.Reference{
		ref("Long", corpus.CategoryCopyleft, "b1 b2 w1 w2 w3 w4 w5 w6"),
		ref("Short", corpus.CategoryOpenSource, "a1 ax"),
	}
	x := buildIndex(t, 1, refs...)
	query := []string{"q1", "a1", "b1", "b2"}
	qset := shingle.Build(query, 1)

	m := New(x, Options{Workers: 1})

	// no hint: shorter canonical text wins the tie
	got := m.Rank(query, qset, corpus.Category(0))
	if got[0].Jaccard != got[1].Jaccard || got[0].Score != got[1].Score {
		t.Fatalf("construction broken: want exact tie, got %v vs %v", got[0].Score, got[1].Score)
	}
	if got[0].Entry.Name != "Short" {
		t.Fatalf("shorter canonical should win ties, got %q", got[0].Entry.Name)
	}

	// category hint overrides the length tie-break inside the band
	got = m.Rank(query, qset, corpus.CategoryCopyleft)
	if got[0].Entry.Name != "Long" {
		t.Fatalf("hinted category should win ties, got %q", got[0].Entry.Name)
	}
}

func TestRankWorkerCountInvariant(t *testing.T) {
	c, err := corpus.Embedded()
	if err != nil {
		t.Fatalf("Embedded(): %v", err)
	}
	x, err := index.Build(c, index.Options{})
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	mit, _ := x.Get("MIT")
	serial := New(x, Options{Workers: 1}).Rank(mit.Tokens, mit.Shingles, corpus.Category(0))
	pooled := New(x, Options{Workers: 8}).Rank(mit.Tokens, mit.Shingles, corpus.Category(0))

	if len(serial) != len(pooled) {
		t.Fatalf("lengths differ: %d vs %d", len(serial), len(pooled))
	}
	for i := range serial {
		s, p := serial[i], pooled[i]
		if s.Entry.Name != p.Entry.Name || s.Jaccard != p.Jaccard || s.Score != p.Score || s.Cosine != p.Cosine {
			t.Fatalf("rank[%d] differs between worker counts: %+v vs %+v", i, s, p)
		}
	}
	if serial[0].Entry.Name != "MIT" {
		t.Fatalf("MIT self query should lead with MIT, got %q", serial[0].Entry.Name)
	}
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Entry.Name
	}
	return out
}
