package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	perr "licorice/internal/platform/errors"
)

// Repo identifies a repository ref to probe
type Repo struct {
	Owner string
	Name  string

	// Ref is a branch, tag or commit, empty means HEAD
	Ref string
}

// String renders owner/name[@ref]
func (r Repo) String() string {
	if r.Ref != "" && r.Ref != "HEAD" {
		return r.Owner + "/" + r.Name + "@" + r.Ref
	}
	return r.Owner + "/" + r.Name
}

// ParseRepo accepts "owner/name", "owner/name@ref", "github.com/owner/name"
// and full https URL forms
func ParseRepo(s string) (Repo, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Repo{}, perr.InvalidArgf("github: empty repo")
	}

	var ref string
	if at := strings.LastIndexByte(s, '@'); at > 0 {
		ref = s[at+1:]
		s = s[:at]
	}

	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return Repo{}, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "github: bad repo url %q", s)
		}
		s = strings.Trim(u.Path, "/")
	} else {
		s = strings.TrimPrefix(s, "github.com/")
		s = strings.Trim(s, "/")
	}

	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, perr.InvalidArgf("github: repo %q is not owner/name", s)
	}
	name := strings.TrimSuffix(parts[1], ".git")
	return Repo{Owner: parts[0], Name: name, Ref: ref}, nil
}

// Candidates returns the probe order: the filename matrix of common license
// base names crossed with bare, markdown and plain-text extensions
func Candidates() []string {
	bases := []string{"LICENSE", "LICENCE", "COPYING", "COPYRIGHT", "LEGAL", "NOTICE", "UNLICENSE"}
	exts := []string{"", ".md", ".txt"}
	out := make([]string, 0, len(bases)*len(exts))
	for _, b := range bases {
		for _, e := range exts {
			out = append(out, b+e)
		}
	}
	return out
}

// File is a license file found in a repository
type File struct {
	// Name is the matched candidate filename
	Name string

	// URL is the raw URL the content came from
	URL string

	// Content is the raw file text
	Content string
}

// Probe walks the candidate matrix against raw.githubusercontent.com
type Probe struct{ c *Client }

// NewProbe constructs a Probe using the given client
func NewProbe(c *Client) *Probe { return &Probe{c: c} }

// FindLicense returns the first candidate file present in the repo, in
// matrix order. Absence of every candidate is a NotFound error, transport
// failures surface as-is
func (p *Probe) FindLicense(ctx context.Context, repo Repo) (File, error) {
	ref := repo.Ref
	if ref == "" {
		ref = "HEAD"
	}
	prefix := fmt.Sprintf("/%s/%s/%s/", url.PathEscape(repo.Owner), url.PathEscape(repo.Name), url.PathEscape(ref))

	for _, name := range Candidates() {
		body, found, err := p.c.fetch(ctx, prefix+name)
		if err != nil {
			return File{}, err
		}
		if !found {
			continue
		}
		return File{
			Name:    name,
			URL:     p.c.opts.BaseURL + prefix + name,
			Content: string(body),
		}, nil
	}
	return File{}, perr.NotFoundf("github: no license file in %s", repo)
}
