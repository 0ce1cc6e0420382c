package classify

import (
	"fmt"
	"strings"

	"licorice/internal/core/corpus"
	"licorice/internal/core/normalize"
)

// Rule is one lexical-signal entry in the fallback table. Phrases are
// written in plain English and normalized with the classifier's own
// pipeline at build time, so they match however the query text was folded
// and stemmed. A rule fires when at least MinHits of its phrases occur
type Rule struct {
	Name     string
	Category corpus.Category
	Phrases  []string
	MinHits  int
}

// DefaultRules is the built-in table, evaluated in order with the first
// firing rule winning. Restrictive signals sit above permissive ones so
// mixed wording resolves conservatively
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:     "copyleft-obligations",
			Category: corpus.CategoryCopyleft,
			Phrases: []string{
				"general public license",
				"copyleft",
				"must be distributed under",
				"licensed as a whole at no charge",
				"source code must remain available",
				"same license terms",
			},
		},
		{
			Name:     "proprietary-restrictions",
			Category: corpus.CategoryProprietary,
			Phrases: []string{
				"all rights reserved",
				"confidential",
				"may not be copied",
				"strictly prohibited",
				"end user license agreement",
				"trade secrets",
			},
		},
		{
			Name:     "permissive-grants",
			Category: corpus.CategoryOpenSource,
			Phrases: []string{
				"permission is hereby granted",
				"without restriction",
				"free of charge",
				"redistribution and use in source and binary forms",
				"public domain",
				"provided as is",
			},
		},
	}
}

// compiledRule holds a rule with its phrases normalized and padded for
// whole-phrase containment checks
type compiledRule struct {
	name     string
	category corpus.Category
	phrases  []string
	minHits  int
}

// compileRules normalizes every phrase with nrm and validates the table
func compileRules(rules []Rule, nrm *normalize.Normalizer) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("classify: rule with empty name")
		}
		if !r.Category.Valid() {
			return nil, fmt.Errorf("classify: rule %q: invalid category", r.Name)
		}
		if len(r.Phrases) == 0 {
			return nil, fmt.Errorf("classify: rule %q: no phrases", r.Name)
		}
		quota := r.MinHits
		if quota <= 0 {
			quota = 1
		}
		if quota > len(r.Phrases) {
			return nil, fmt.Errorf("classify: rule %q: quota %d exceeds %d phrases", r.Name, quota, len(r.Phrases))
		}

		cr := compiledRule{name: r.Name, category: r.Category, minHits: quota}
		for _, p := range r.Phrases {
			np := nrm.Normalize(p)
			if np == "" {
				return nil, fmt.Errorf("classify: rule %q: phrase %q normalizes to nothing", r.Name, p)
			}
			cr.phrases = append(cr.phrases, " "+np+" ")
		}
		out = append(out, cr)
	}
	return out, nil
}

// evalRules runs the table against normalized text and returns the first
// rule to reach its quota. The zero Category and false mean nothing fired
func evalRules(rules []compiledRule, norm string) (corpus.Category, string, bool) {
	padded := " " + norm + " "
	for _, r := range rules {
		hits := 0
		for _, p := range r.phrases {
			if strings.Contains(padded, p) {
				hits++
			}
		}
		if hits >= r.minHits {
			return r.category, r.name, true
		}
	}
	return corpus.Category(0), "", false
}
