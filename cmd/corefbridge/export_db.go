package main

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/convert"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/storage/filesystem"
	"github.com/revelaction/corefbridge/storage/sqlite/zombiezen"
)

const stageExport = "export"

func exportDbCommand(c *cli.Context, ui UI) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	src, err := filesystem.NewDocStore(c.String("from"))
	if err != nil {
		return err
	}

	var p Pool
	pool, err := p.Open(c.String("to"))
	if err != nil {
		return err
	}
	defer p.Close()
	dst := zombiezen.NewDocStore(pool)

	names, err := src.List("")
	if err != nil {
		return err
	}

	var skipped atomic.Int32
	jobs := make([]convert.Job, len(names))
	for i, name := range names {
		jobs[i] = convert.Job{
			Doc:   name,
			Stage: stageExport,
			Run: func(context.Context) error {
				doc, err := src.Read(name)
				if err != nil {
					return err
				}

				hash, err := zombiezen.ContentHash(doc)
				if err != nil {
					return err
				}

				stored, ok, err := dst.Hash(name)
				if err != nil {
					return err
				}
				if ok && stored == hash {
					skipped.Add(1)
					e.logger.Debug("unchanged", logging.String("doc", name))
					return nil
				}

				return dst.Write(doc)
			},
		}
	}

	// one writer: SQLite serializes writes anyway
	batch := &convert.Batch{Workers: 1, Logger: e.logger}
	if !c.Bool("no-progress") {
		batch.Progress = newBarProgress(ui.Out)
	}
	report := batch.Run(c.Context, jobs)

	fmt.Fprintf(ui.Out, "✍  %d unchanged docs skipped\n", skipped.Load())
	return e.finish(report, ui)
}
