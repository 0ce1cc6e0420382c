package normalize

import (
	"regexp"
	"testing"
)

func mustRe(s string) *regexp.Regexp { return regexp.MustCompile(s) }

// Test table covers each stage and combined pipelines.
func TestNormalize_Table(t *testing.T) {
	n := NewWithOptions(Options{DisableStemming: true})

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "hello world",
			out:  "hello world",
		},
		{
			name: "empty stays empty",
			in:   "",
			out:  "",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}),
			out:  "foo bar",
		},
		{
			name: "case fold",
			in:   "THE Software IS PROVIDED",
			out:  "the software is provided",
		},
		{
			name: "remove zero-widths",
			in:   "per​mis‍sion", // ZERO WIDTH SPACE + ZERO WIDTH JOINER
			out:  "permission",
		},
		{
			name: "remove combining marks",
			in:   "café", // "café" using combining acute accent
			out:  "cafe",
		},
		{
			name: "width fold fullwidth",
			in:   "ＭＩＴ license",
			out:  "mit license",
		},
		{
			name: "nfkc ligature",
			in:   "oﬃce copy", // ffi ligature
			out:  "office copy",
		},
		{
			name: "punctuation folds to spaces",
			in:   "2. Redistributions, in binary-form;",
			out:  "2 redistributions in binary form",
		},
		{
			name: "bracket fill-ins scrubbed",
			in:   "Copyright (c) [year] [fullname]",
			out:  "copyright",
		},
		{
			name: "angle fill-ins scrubbed",
			in:   "Copyright (C) <year> <name of author>",
			out:  "copyright",
		},
		{
			name: "holder line reduced to copyright",
			in:   "Copyright (c) 2019 Jane Doe\nAll rights reserved.",
			out:  "copyright all rights reserved",
		},
		{
			name: "year range holder line",
			in:   "Copyright 2019-2024 Acme Corp",
			out:  "copyright",
		},
		{
			name: "template year holder line",
			in:   "Copyright (C) 19yy Ty Coon",
			out:  "copyright",
		},
		{
			name: "copyright without year untouched",
			in:   "the above copyright notice shall be included",
			out:  "the above copyright notice shall be included",
		},
		{
			name: "collapse whitespace",
			in:   "a\t\tb\nc   d",
			out:  "a b c d",
		},
		{
			name: "idempotent",
			in:   n.Normalize("  Copyright (c) 2001  Ｗidget​ Co.  "),
			out:  "copyright",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			// Idempotence check: normalize again should be identical
			got2 := n.Normalize(got)
			if got2 != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, got2)
			}
		})
	}
}

func TestNormalize_Stemming(t *testing.T) {
	n := New()

	got := n.Normalize("Redistributions of source code must retain the conditions")
	want := "redistribut of sourc code must retain the condit"
	if got != want {
		t.Fatalf("stemmed Normalize = %q, want %q", got, want)
	}

	// stemming must stay deterministic and idempotent over the pipeline
	if again := n.Normalize(got); again != got {
		t.Fatalf("stemmed Normalize not idempotent: %q -> %q", got, again)
	}

	// digit-bearing tokens pass through the stemmer untouched
	if got := n.Normalize("section 2.1 applies"); got != "section 2 1 appli" {
		t.Fatalf("digit token handling = %q", got)
	}
}

func TestNormalize_HolderSubstitutionConverges(t *testing.T) {
	n := New()

	// the same license with different holders must normalize identically
	a := n.Normalize("Copyright (c) 2015 Alpha LLC\n\nPermission is hereby granted, free of charge")
	b := n.Normalize("Copyright (c) 2023 Omega GmbH\n\nPermission is hereby granted, free of charge")
	if a != b {
		t.Fatalf("holder substitution diverged:\n a=%q\n b=%q", a, b)
	}
}

func TestNormalize_ExtraPlaceholders(t *testing.T) {
	n := NewWithOptions(Options{
		DisableStemming:   true,
		ExtraPlaceholders: []Placeholder{{Name: "ticket", Pattern: mustRe(`ticket-[0-9]+`)}},
	})
	got := n.Normalize("see ticket-42 for terms")
	if got != "see for terms" {
		t.Fatalf("extra placeholder scrub = %q", got)
	}
}

// Spot-check internal helpers in isolation.
func TestFoldPunct(t *testing.T) {
	in := "free-of-charge, to deal (without restriction);"
	want := "free of charge  to deal  without restriction  "
	got := foldPunct(in)
	if got != want {
		t.Fatalf("foldPunct(%q) = %q, want %q", in, got, want)
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	want := "a b c"
	got := collapseSpaces(in)
	if got != want {
		t.Fatalf("collapseSpaces(%q) = %q, want %q", in, got, want)
	}
}
