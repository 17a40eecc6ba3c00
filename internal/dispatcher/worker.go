package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"bioc-extractor/internal/parsing"
)

func (d *Dispatcher) worker(ctx context.Context, id int, queue <-chan job, results []FileResult) {
	log := d.log.WithField("worker", id)
	log.Debug("Starting worker")

	for j := range queue {
		results[j.index] = d.process(ctx, log, j.work)
	}
}

func (d *Dispatcher) process(ctx context.Context, log logrus.FieldLogger, work Work) FileResult {
	start := time.Now()
	log = log.WithField("file", work.Path)
	result := FileResult{File: work.Path, Status: StatusOK}
	defer d.progress.processed.Add(1)

	articles, err := d.safeExtract(ctx, work)
	result.Duration = time.Since(start)
	if err != nil {
		d.progress.failed.Add(1)
		result.Status = StatusFailed
		result.Error = err.Error()
		log.WithError(err).Error("Error extracting file")
		return result
	}

	for _, article := range articles {
		if d.opts.AbbreviationsOnly {
			d.collection.MergeAbbreviations(article.Abbreviations)
			continue
		}
		if d.collection.Insert(article) {
			result.Replaced++
			log.WithField("key", article.Key()).Debug("article replaced an earlier one with the same key")
		}
	}
	result.Articles = len(articles)
	log.WithField("articles", result.Articles).Debug("file processed")
	return result
}

// safeExtract turns a panic in one file's extraction into that file's error.
func (d *Dispatcher) safeExtract(ctx context.Context, work Work) (articles []*parsing.OutputArticle, err error) {
	if !work.IsValid() {
		return nil, errors.New("invalid work item")
	}
	defer func() {
		if r := recover(); r != nil {
			articles, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return d.extract(ctx, work)
}
