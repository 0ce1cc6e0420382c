// Package corpus loads and validates the reference license corpus.
// A corpus is a manifest plus one canonical text per license; the index
// package turns a validated corpus into a queryable structure
package corpus

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Category is the closed classification enum. The zero value is invalid so
// a forgotten assignment cannot masquerade as a real category
type Category uint8

const (
	categoryInvalid Category = iota

	// CategoryOpenSource covers permissive licenses (MIT, BSD, Apache)
	CategoryOpenSource

	// CategoryCopyleft covers reciprocal licenses (GPL family, MPL)
	CategoryCopyleft

	// CategoryProprietary covers restrictive or commercial terms
	CategoryProprietary
)

// ParseCategory maps manifest/wire spellings onto the enum
// separators are folded so "open_source", "open-source" and "OpenSource" all parse
func ParseCategory(s string) (Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "").Replace(key)
	switch key {
	case "opensource", "permissive":
		return CategoryOpenSource, nil
	case "copyleft", "reciprocal":
		return CategoryCopyleft, nil
	case "proprietary", "commercial":
		return CategoryProprietary, nil
	default:
		return categoryInvalid, fmt.Errorf("corpus: unknown category %q", s)
	}
}

// String returns the wire spelling
func (c Category) String() string {
	switch c {
	case CategoryOpenSource:
		return "open_source"
	case CategoryCopyleft:
		return "copyleft"
	case CategoryProprietary:
		return "proprietary"
	default:
		return "invalid"
	}
}

// Valid reports whether c is one of the three known categories
func (c Category) Valid() bool {
	return c == CategoryOpenSource || c == CategoryCopyleft || c == CategoryProprietary
}

// MarshalJSON emits the wire spelling
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("corpus: cannot marshal invalid category %d", uint8(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts any spelling ParseCategory does
func (c *Category) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Reference is one canonical license in the corpus
type Reference struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Text     string   `json:"-"`
	Aliases  []string `json:"aliases,omitempty"`
}

// Corpus is a validated set of references
type Corpus struct {
	Version    int
	References []Reference
}

// manifest mirrors manifest.json
type manifest struct {
	Version    int             `json:"version"`
	References []manifestEntry `json:"references"`
}

type manifestEntry struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	File     string   `json:"file"`
	Aliases  []string `json:"aliases,omitempty"`
}

const manifestVersion = 1

// LoadFS reads manifest.json plus the texts it names from fsys.
// The returned corpus is validated; any integrity violation is fatal here
// rather than surfacing later as a bad classification
func LoadFS(fsys fs.FS) (Corpus, error) {
	raw, err := fs.ReadFile(fsys, "manifest.json")
	if err != nil {
		return Corpus{}, fmt.Errorf("corpus: read manifest.json: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Corpus{}, fmt.Errorf("corpus: parse manifest.json: %w", err)
	}
	if m.Version != manifestVersion {
		return Corpus{}, fmt.Errorf("corpus: unsupported manifest version %d (want %d)", m.Version, manifestVersion)
	}
	if len(m.References) == 0 {
		return Corpus{}, fmt.Errorf("corpus: manifest lists no references")
	}

	c := Corpus{Version: m.Version, References: make([]Reference, 0, len(m.References))}
	for _, e := range m.References {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return Corpus{}, fmt.Errorf("corpus: reference with empty name (file %q)", e.File)
		}
		cat, err := ParseCategory(e.Category)
		if err != nil {
			return Corpus{}, fmt.Errorf("corpus: reference %q: %w", name, err)
		}
		txt, err := fs.ReadFile(fsys, e.File)
		if err != nil {
			return Corpus{}, fmt.Errorf("corpus: reference %q: read %q: %w", name, e.File, err)
		}
		c.References = append(c.References, Reference{
			Name:     name,
			Category: cat,
			Text:     string(txt),
			Aliases:  e.Aliases,
		})
	}

	if err := c.validate(); err != nil {
		return Corpus{}, err
	}

	// stable order for index builds and fingerprints
	sort.Slice(c.References, func(i, j int) bool { return c.References[i].Name < c.References[j].Name })
	return c, nil
}

// Validate re-runs the integrity rules on a hand-assembled corpus.
// LoadFS output is always valid already
func (c Corpus) Validate() error { return c.validate() }

// validate enforces the integrity rules: unique names and aliases
// (case-insensitive), valid categories, non-empty texts
func (c Corpus) validate() error {
	seen := make(map[string]string, len(c.References)*2)
	claim := func(label, name string) error {
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("corpus: duplicate license name %q (already used by %q)", name, prev)
		}
		seen[key] = label
		return nil
	}

	for _, r := range c.References {
		if !r.Category.Valid() {
			return fmt.Errorf("corpus: reference %q: missing or invalid category", r.Name)
		}
		if strings.TrimSpace(r.Text) == "" {
			return fmt.Errorf("corpus: reference %q: empty canonical text", r.Name)
		}
		if err := claim(r.Name, r.Name); err != nil {
			return err
		}
		for _, a := range r.Aliases {
			a = strings.TrimSpace(a)
			if a == "" {
				return fmt.Errorf("corpus: reference %q: blank alias", r.Name)
			}
			if err := claim(r.Name, a); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len reports the number of references
func (c Corpus) Len() int { return len(c.References) }

// Hash fingerprints the corpus contents. Two corpora with the same names and
// texts hash alike regardless of manifest ordering
func (c Corpus) Hash() uint64 {
	refs := make([]Reference, len(c.References))
	copy(refs, c.References)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })

	d := xxhash.New()
	for _, r := range refs {
		_, _ = d.WriteString(r.Name)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.Category.String())
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.Text)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}
