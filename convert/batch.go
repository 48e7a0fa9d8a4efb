package convert

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/logging"
)

// Job converts one document.
type Job struct {
	// Document id, used in logs and in the error report
	Doc string

	// Conversion stage, e.g. "standoff"
	Stage string

	Run func(ctx context.Context) error
}

// Progress receives the advance of a batch.
type Progress interface {
	Start(total int)
	Incr()
	Stop()
}

type nopProgress struct{}

func (nopProgress) Start(int) {}
func (nopProgress) Incr()     {}
func (nopProgress) Stop()     {}

// NopProgress discards progress.
var NopProgress Progress = nopProgress{}

// Report summarises a batch.
type Report struct {
	Total  int
	Failed []error
}

// Succeeded returns the number of documents converted.
func (r *Report) Succeeded() int {
	return r.Total - len(r.Failed)
}

// Err joins the document errors, nil when every document converted.
func (r *Report) Err() error {
	return errors.Join(r.Failed...)
}

// Merge adds the documents of o to r.
func (r *Report) Merge(o *Report) {
	r.Total += o.Total
	r.Failed = append(r.Failed, o.Failed...)
}

// Kinds counts the failures by error kind.
func (r *Report) Kinds() map[string]int {
	kinds := map[string]int{}
	for _, err := range r.Failed {
		kinds[errs.Kind(err)]++
	}
	return kinds
}

// Batch runs independent document jobs concurrently. A failing job is
// logged and reported; the other jobs go on.
type Batch struct {
	Workers  int
	Logger   logging.Logger
	Progress Progress
}

func (b *Batch) workers() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}

// Run executes jobs and returns once all of them finished or ctx is done.
// Jobs not started before cancellation are reported with the context error.
func (b *Batch) Run(ctx context.Context, jobs []Job) *Report {
	logger := b.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	progress := b.Progress
	if progress == nil {
		progress = NopProgress
	}

	report := &Report{Total: len(jobs)}
	var mu sync.Mutex

	progress.Start(len(jobs))
	defer progress.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers())

	start := time.Now()
	for _, job := range jobs {
		g.Go(func() error {
			defer progress.Incr()

			err := gctx.Err()
			if err == nil {
				err = job.Run(gctx)
			}

			if err != nil {
				err = errs.Wrap(job.Doc, job.Stage, err)
				logger.Error("document failed",
					logging.String("doc", job.Doc),
					logging.String("stage", job.Stage),
					logging.String("kind", errs.Kind(err)),
					logging.Err(err))

				mu.Lock()
				report.Failed = append(report.Failed, err)
				mu.Unlock()
				return nil
			}

			logger.Debug("document converted", logging.String("doc", job.Doc), logging.String("stage", job.Stage))
			return nil
		})
	}

	// jobs never return an error to the group
	_ = g.Wait()

	logger.Info("batch done",
		logging.Int("total", report.Total),
		logging.Int("failed", len(report.Failed)),
		logging.Duration("elapsed", time.Since(start)))

	return report
}
