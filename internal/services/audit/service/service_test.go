package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"licorice/internal/core/classify"
	"licorice/internal/core/corpus"
	"licorice/internal/services/audit/domain"
)

// fakeClassifier returns canned results keyed by text
type fakeClassifier struct {
	results map[string]classify.Result
	err     error
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (classify.Result, error) {
	if err := ctx.Err(); err != nil {
		return classify.Result{}, err
	}
	if f.err != nil {
		return classify.Result{}, f.err
	}
	return f.results[text], nil
}

func (f *fakeClassifier) Info() classify.Info { return classify.Info{} }

func TestRunPreservesInputOrder(t *testing.T) {
	fc := &fakeClassifier{results: map[string]classify.Result{}}
	var inputs []domain.Input
	for i := 0; i < 25; i++ {
		text := "text-" + strconv.Itoa(i)
		fc.results[text] = classify.Result{
			Decision: classify.DecisionMatched,
			Category: corpus.CategoryOpenSource,
			Name:     "MIT",
		}
		inputs = append(inputs, domain.Input{Path: "f" + strconv.Itoa(i), Text: text})
	}

	rep, err := New(fc, Config{Workers: 8}).Run(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Files) != len(inputs) {
		t.Fatalf("got %d files", len(rep.Files))
	}
	for i, f := range rep.Files {
		if f.Path != inputs[i].Path {
			t.Fatalf("order broken at %d: %q", i, f.Path)
		}
	}
	if rep.Summary.Total != 25 || rep.Summary.ByDecision["matched"] != 25 {
		t.Fatalf("summary %+v", rep.Summary)
	}
	if len(rep.Summary.Flagged) != 0 {
		t.Fatalf("flagged %v", rep.Summary.Flagged)
	}
}

func TestRunRecordsPerItemErrors(t *testing.T) {
	fc := &fakeClassifier{err: errors.New("boom")}
	rep, err := New(fc, Config{}).Run(context.Background(), []domain.Input{
		{Path: "a", Text: "x"},
		{Path: "b", Text: "y"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range rep.Files {
		if f.Err == "" {
			t.Fatalf("missing error on %q", f.Path)
		}
	}
	if rep.Summary.ByDecision["error"] != 2 {
		t.Fatalf("summary %+v", rep.Summary)
	}
	if len(rep.Summary.Flagged) != 2 {
		t.Fatalf("flagged %v", rep.Summary.Flagged)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	fc := &fakeClassifier{results: map[string]classify.Result{}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fc, Config{Workers: 1}).Run(ctx, []domain.Input{{Path: "a", Text: "x"}})
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestSummaryFlagsReviewCases(t *testing.T) {
	fc := &fakeClassifier{results: map[string]classify.Result{
		"clean": {Decision: classify.DecisionMatched, Category: corpus.CategoryOpenSource, Name: "MIT"},
		"ambig": {Decision: classify.DecisionAmbiguous, Category: corpus.CategoryOpenSource},
		"propr": {Decision: classify.DecisionMatched, Category: corpus.CategoryProprietary, Name: "Commercial-EULA"},
		"unmat": {Decision: classify.DecisionUnmatched, Category: corpus.CategoryProprietary},
	}}
	rep, err := New(fc, Config{}).Run(context.Background(), []domain.Input{
		{Path: "1", Text: "clean"},
		{Path: "2", Text: "ambig"},
		{Path: "3", Text: "propr"},
		{Path: "4", Text: "unmat"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rep.Summary.Flagged; len(got) != 3 {
		t.Fatalf("flagged %v", got)
	}
	if rep.Summary.ByCategory["proprietary"] != 2 {
		t.Fatalf("summary %+v", rep.Summary)
	}
}
