package source

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Local reads a single file or a directory tree.
type Local struct {
	Root string
	log  logrus.FieldLogger
}

// NewLocal returns a Source rooted at root. A nil log discards messages.
func NewLocal(root string, log logrus.FieldLogger) *Local {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Local{Root: root, log: log}
}

// List walks the tree under Root. A Root that is a file is returned as is.
func (l *Local) List(ctx context.Context, filter Filter) ([]string, error) {
	info, err := os.Stat(l.Root)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.Root, err)
	}
	if !info.IsDir() {
		return []string{l.Root}, nil
	}

	var paths []string
	err = filepath.WalkDir(l.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return l.walkError(path, entry, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() || !filter.Match(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.Root, err)
	}

	paths, err = filter.finish(paths)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", l.Root, err)
	}
	return paths, nil
}

// walkError decides whether a walk error ends the listing. Only the root is
// fatal; an unreadable entry below it is logged and skipped.
func (l *Local) walkError(path string, entry fs.DirEntry, err error) error {
	if path == l.Root {
		return err
	}
	l.log.WithError(err).WithField("path", path).Warn("Skipping unreadable path")
	if entry != nil && entry.IsDir() {
		return fs.SkipDir
	}
	return nil
}

// Open opens a file returned by List.
func (l *Local) Open(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}
