package main

import (
	"io"

	"github.com/gosuri/uiprogress"

	"github.com/revelaction/corefbridge/convert"
)

// barProgress shows a batch as a progress bar. Each batch gets its own
// uiprogress instance: a stopped one cannot be restarted.
type barProgress struct {
	out io.Writer
	p   *uiprogress.Progress
	bar *uiprogress.Bar
}

var _ convert.Progress = (*barProgress)(nil)

func newBarProgress(out io.Writer) *barProgress {
	return &barProgress{out: out}
}

func (b *barProgress) Start(total int) {
	if total == 0 {
		return
	}

	b.p = uiprogress.New()
	b.p.SetOut(b.out)
	b.p.Start()
	b.bar = b.p.AddBar(total)
	b.bar.AppendCompleted()
	b.bar.PrependElapsed()
}

func (b *barProgress) Incr() {
	if b.bar != nil {
		b.bar.Incr()
	}
}

func (b *barProgress) Stop() {
	if b.p != nil {
		b.p.Stop()
	}
	b.p, b.bar = nil, nil
}
