package dispatcher

import "bioc-extractor/internal/parsing"

// Work is one input file to be extracted by a worker.
type Work struct {
	Path   string         `json:"path"`
	Format parsing.Format `json:"format"`
}

// IsValid reports whether the work item names a file and a format.
func (w *Work) IsValid() bool {
	return w.Path != "" && w.Format != ""
}

// NewWork builds one work item per path, all in the same format.
func NewWork(paths []string, format parsing.Format) []Work {
	works := make([]Work, 0, len(paths))
	for _, path := range paths {
		works = append(works, Work{Path: path, Format: format})
	}
	return works
}
