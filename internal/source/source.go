// Package source lists and opens input files, on local disk or in S3.
package source

import (
	"context"
	"errors"
	"io"
	"path"
	"sort"
	"strings"
)

// ErrNoFiles is returned when a listing matches nothing.
var ErrNoFiles = errors.New("no input files")

// Source lists candidate input files and opens them.
type Source interface {
	// List returns the matching paths in lexical order, at most max of them
	// when max is positive.
	List(ctx context.Context, filter Filter) ([]string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Filter selects files by extension and caps their number.
type Filter struct {
	// Extensions are matched case-insensitively, with or without the dot.
	// Empty matches every file.
	Extensions []string
	Max        int
}

// ParseExtensions splits a comma separated extension list.
func ParseExtensions(list string) []string {
	var extensions []string
	for _, ext := range strings.Split(list, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions = append(extensions, ext)
	}
	return extensions
}

// Match reports whether name passes the extension filter.
func (f Filter) Match(name string) bool {
	if len(f.Extensions) == 0 {
		return true
	}
	lower := strings.ToLower(path.Base(name))
	for _, ext := range f.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// full reports whether a listing has reached the cap.
func (f Filter) full(n int) bool {
	return f.Max > 0 && n >= f.Max
}

// finish sorts and caps a listing.
func (f Filter) finish(paths []string) ([]string, error) {
	sort.Strings(paths)
	if f.Max > 0 && len(paths) > f.Max {
		paths = paths[:f.Max]
	}
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	return paths, nil
}
