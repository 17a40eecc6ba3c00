package dispatcher

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bioc-extractor/internal/parsing"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// ExtractFunc extracts the articles of one input file.
type ExtractFunc func(ctx context.Context, work Work) ([]*parsing.OutputArticle, error)

// Options configure a Dispatcher.
type Options struct {
	Workers int
	// AbbreviationsOnly merges abbreviation tables instead of collecting
	// articles.
	AbbreviationsOnly bool
}

// FileResult is the outcome of one input file.
type FileResult struct {
	File     string        `json:"file"`
	Status   string        `json:"status"`
	Articles int           `json:"articles"`
	Replaced int           `json:"replaced,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report lists the outcome of every file, in dispatch order.
type Report struct {
	Results   []FileResult  `json:"results"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Dispatcher fans work out to a fixed pool of workers and merges their
// results into one Collection.
type Dispatcher struct {
	opts       Options
	extract    ExtractFunc
	log        logrus.FieldLogger
	collection *Collection
	progress   Progress
}

// New returns a Dispatcher. Fewer than one worker means one; a nil log
// discards messages.
func New(opts Options, extract ExtractFunc, log logrus.FieldLogger) *Dispatcher {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Dispatcher{
		opts:       opts,
		extract:    extract,
		log:        log,
		collection: NewCollection(),
	}
}

// Collection is where results are merged.
func (d *Dispatcher) Collection() *Collection { return d.collection }

// Progress is readable while Run is in flight.
func (d *Dispatcher) Progress() *Progress { return &d.progress }

// job is a work item and its position in the dispatch order.
type job struct {
	index int
	work  Work
}

// Run processes every work item and returns once all of them are done. A
// failing file is recorded in the report and never stops the others.
func (d *Dispatcher) Run(ctx context.Context, works []Work) (*Report, error) {
	if len(works) == 0 {
		return nil, errors.New("dispatcher: nothing to do")
	}
	start := time.Now()
	d.progress.total.Add(int64(len(works)))
	d.log.WithFields(logrus.Fields{
		"files":   len(works),
		"workers": d.opts.Workers,
	}).Info("Starting dispatcher...")

	results := make([]FileResult, len(works))
	queue := make(chan job, d.opts.Workers)

	var g errgroup.Group
	g.Go(func() error {
		defer close(queue)
		for i, work := range works {
			queue <- job{index: i, work: work}
		}
		return nil
	})
	for i := 1; i <= d.opts.Workers; i++ {
		id := i
		g.Go(func() error {
			d.worker(ctx, id, queue, results)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Elapsed: time.Since(start)}
	for _, result := range results {
		if result.Status == StatusOK {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	d.log.WithFields(logrus.Fields{
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
		"elapsed":   report.Elapsed.Round(time.Millisecond).String(),
	}).Info("Dispatcher finished")
	return report, nil
}
