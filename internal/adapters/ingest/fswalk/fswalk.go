// Package fswalk discovers candidate license files under a directory tree.
// Discovery is pure filesystem plumbing; classification happens downstream
package fswalk

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	perr "licorice/internal/platform/errors"
	"licorice/internal/platform/logger"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// Defaults for Options fields left at zero
const (
	DefaultMaxBytes = 512 << 10
	DefaultReaders  = 4
)

// DefaultExcludes skips the trees that never hold a project's own license
func DefaultExcludes() []string {
	return []string{
		"**/node_modules/**",
		"**/vendor/**",
		"**/.git/**",
		"**/testdata/**",
	}
}

// Options configures a walk
type Options struct {
	// Include globs (doublestar, slash separated, relative to root).
	// Empty means the built-in candidate name matrix
	Include []string

	// Exclude globs, nil means DefaultExcludes
	Exclude []string

	// MaxBytes caps the size of a file worth reading
	MaxBytes int64

	// Readers bounds parallel file reads
	Readers int
}

func (o Options) withDefaults() Options {
	if o.Exclude == nil {
		o.Exclude = DefaultExcludes()
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.Readers <= 0 {
		o.Readers = DefaultReaders
	}
	return o
}

// File is one discovered license candidate with its content loaded
type File struct {
	// Path is the absolute path on disk
	Path string

	// Rel is the slash separated path relative to the walk root
	Rel string

	// Content is the raw file text
	Content string

	Size    int64
	ModTime time.Time
}

// Walk scans root and returns every readable candidate ordered by Rel.
// Oversize and binary files are skipped with a debug log, unreadable files
// fail the walk. An unreadable root is an InvalidArgument error
func Walk(ctx context.Context, root string, opts Options) ([]File, error) {
	opts = opts.withDefaults()
	log := logger.Named("fswalk")

	info, err := os.Stat(root)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "fswalk: root %q", root)
	}
	if !info.IsDir() {
		return nil, perr.InvalidArgf("fswalk: root %q is not a directory", root)
	}

	var rels []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return rerr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && excluded(rel+"/", opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if excluded(rel, opts.Exclude) {
			return nil
		}
		if !included(rel, d.Name(), opts.Include) {
			return nil
		}
		rels = append(rels, rel)
		return ctx.Err()
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "fswalk: walk %q", root)
	}

	sort.Strings(rels)

	out := make([]File, len(rels))
	keep := make([]bool, len(rels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Readers)
	for i, rel := range rels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(root, filepath.FromSlash(rel))
			fi, err := os.Stat(path)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnknown, "fswalk: stat %q", rel)
			}
			if fi.Size() > opts.MaxBytes {
				log.Debug().Str("path", rel).Int64("size", fi.Size()).Msg("skipping oversize candidate")
				return nil
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return perr.Wrapf(err, perr.ErrorCodeUnknown, "fswalk: read %q", rel)
			}
			if looksBinary(raw) {
				log.Debug().Str("path", rel).Msg("skipping binary candidate")
				return nil
			}
			out[i] = File{
				Path:    path,
				Rel:     rel,
				Content: string(raw),
				Size:    fi.Size(),
				ModTime: fi.ModTime(),
			}
			keep[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	files := out[:0]
	for i := range out {
		if keep[i] {
			files = append(files, out[i])
		}
	}
	return files, nil
}

// included matches either the caller's globs or the candidate name matrix
func included(rel, name string, globs []string) bool {
	if len(globs) == 0 {
		return IsCandidate(name)
	}
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func excluded(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// looksBinary sniffs for a NUL byte in the leading window
func looksBinary(b []byte) bool {
	n := len(b)
	if n > 8000 {
		n = 8000
	}
	return bytes.IndexByte(b[:n], 0) >= 0
}
