// licorice-scan classifies license files from a directory tree or a GitHub
// repository and prints the audit report. No database required
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"licorice/internal/adapters/ingest/fswalk"
	gh "licorice/internal/adapters/ingest/github"
	"licorice/internal/core/classify"
	"licorice/internal/core/corpus"
	"licorice/internal/platform/logger"
	auditdom "licorice/internal/services/audit/domain"
	auditsvc "licorice/internal/services/audit/service"
	catalogsvc "licorice/internal/services/catalog/service"
)

func main() {
	l := logger.Get()

	var (
		fPath    = flag.String("path", "", "directory tree to scan for license files")
		fRepo    = flag.String("repo", "", "GitHub repository (owner/name or URL) to probe instead of -path")
		fRef     = flag.String("ref", "", "git ref for -repo (default HEAD)")
		fInclude = flag.String("include", "", "comma separated include globs, overrides the candidate name matrix")
		fExclude = flag.String("exclude", "", "comma separated exclude globs")
		fMaxKB   = flag.Int("max-kb", 0, "skip files larger than this many KiB")
		fWorkers = flag.Int("workers", 0, "classification worker count")

		fK         = flag.Int("k", 0, "shingle size")
		fThreshold = flag.Float64("threshold", 0, "match threshold")
		fMargin    = flag.Float64("margin", 0, "minimum margin over the runner-up")
		fNoStem    = flag.Bool("no-stem", false, "disable token stemming")
		fCorpus    = flag.String("corpus", "", "reference corpus directory (default embedded)")

		fFormat = flag.String("format", "table", "output format: json | table")
		fFailOn = flag.String("fail-on", "", "comma separated categories/decisions that force exit 1")
	)
	flag.Parse()

	if (*fPath == "") == (*fRepo == "") {
		l.Panic().Msg("exactly one of -path or -repo is required")
	}
	if *fFormat != "json" && *fFormat != "table" {
		l.Panic().Str("format", *fFormat).Msg("bad -format, want json or table")
	}
	failCats, failDecs, err := parseFailOn(*fFailOn)
	if err != nil {
		l.Panic().Err(err).Msg("bad -fail-on")
	}

	ctx := context.Background()

	cat, err := catalogsvc.New(catalogsvc.Config{
		CorpusDir: *fCorpus,
		Classify: classify.Options{
			K:               *fK,
			Threshold:       *fThreshold,
			MinMargin:       *fMargin,
			Workers:         *fWorkers,
			DisableStemming: *fNoStem,
		},
	})
	if err != nil {
		l.Panic().Err(err).Msg("failed to build matching engine")
	}

	var inputs []auditdom.Input
	if *fPath != "" {
		inputs, err = collectDir(ctx, *fPath, *fInclude, *fExclude, *fMaxKB)
	} else {
		inputs, err = collectRepo(ctx, *fRepo, *fRef, *fMaxKB)
	}
	if err != nil {
		l.Panic().Err(err).Msg("failed to collect license files")
	}
	if len(inputs) == 0 {
		l.Panic().Msg("no license candidates found")
	}

	runner := auditsvc.New(cat, auditsvc.Config{Workers: *fWorkers})
	report, err := runner.Run(ctx, inputs)
	if err != nil {
		l.Panic().Err(err).Msg("audit failed")
	}

	switch *fFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			l.Panic().Err(err).Msg("failed to encode report")
		}
	case "table":
		printTable(report)
	}

	if shouldFail(report, failCats, failDecs) {
		os.Exit(1)
	}
}

func collectDir(ctx context.Context, root, include, exclude string, maxKB int) ([]auditdom.Input, error) {
	files, err := fswalk.Walk(ctx, root, fswalk.Options{
		Include:  splitCSV(include),
		Exclude:  splitCSV(exclude),
		MaxBytes: int64(maxKB) << 10,
	})
	if err != nil {
		return nil, err
	}
	inputs := make([]auditdom.Input, len(files))
	for i, f := range files {
		inputs[i] = auditdom.Input{Path: f.Rel, Text: f.Content}
	}
	return inputs, nil
}

func collectRepo(ctx context.Context, repoSpec, ref string, maxKB int) ([]auditdom.Input, error) {
	repo, err := gh.ParseRepo(repoSpec)
	if err != nil {
		return nil, err
	}
	if ref != "" {
		repo.Ref = ref
	}

	probe := gh.NewProbe(gh.NewClient(gh.Options{MaxBytes: int64(maxKB) << 10}))
	f, err := probe.FindLicense(ctx, repo)
	if err != nil {
		return nil, err
	}
	return []auditdom.Input{{Path: repo.String() + "/" + f.Name, Text: f.Content}}, nil
}

func printTable(report auditdom.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tDECISION\tCATEGORY\tLICENSE\tCONFIDENCE")
	for _, f := range report.Files {
		if f.Err != "" {
			fmt.Fprintf(w, "%s\terror\t\t\t%s\n", f.Path, f.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.3f\n",
			f.Path, f.Result.Decision, f.Result.Category, f.Result.Name, f.Result.Confidence)
	}
	fmt.Fprintln(w)

	sum := report.Summary
	fmt.Fprintf(w, "total\t%d\n", sum.Total)
	for _, k := range sortedKeys(sum.ByDecision) {
		fmt.Fprintf(w, "decision:%s\t%d\n", k, sum.ByDecision[k])
	}
	for _, k := range sortedKeys(sum.ByCategory) {
		fmt.Fprintf(w, "category:%s\t%d\n", k, sum.ByCategory[k])
	}
	if len(sum.Flagged) > 0 {
		fmt.Fprintf(w, "flagged\t%s\n", strings.Join(sum.Flagged, ", "))
	}
	_ = w.Flush()
}

// parseFailOn splits a CSV of category and decision names for CI gating
func parseFailOn(csv string) (map[corpus.Category]bool, map[classify.Decision]bool, error) {
	cats := map[corpus.Category]bool{}
	decs := map[classify.Decision]bool{}
	for _, tok := range splitCSV(csv) {
		if c, err := corpus.ParseCategory(tok); err == nil {
			cats[c] = true
			continue
		}
		if d, err := classify.ParseDecision(tok); err == nil {
			decs[d] = true
			continue
		}
		return nil, nil, fmt.Errorf("unknown fail-on token %q", tok)
	}
	return cats, decs, nil
}

func shouldFail(report auditdom.Report, cats map[corpus.Category]bool, decs map[classify.Decision]bool) bool {
	for _, f := range report.Files {
		if f.Err != "" && len(decs)+len(cats) > 0 {
			return true
		}
		if decs[f.Result.Decision] || cats[f.Result.Category] {
			return true
		}
	}
	return false
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
