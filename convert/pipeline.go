package convert

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"time"

	"github.com/revelaction/corefbridge/charmap"
	"github.com/revelaction/corefbridge/conll"
	"github.com/revelaction/corefbridge/file"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/storage/filesystem"
)

// Layout of a prepared corpus directory
const (
	GoldStandardDir = "gold-standard-sorted"
	BratDir         = "brat-raw"
	ConllDir        = "conll"
)

const (
	StageStandoff = "standoff"
	StageConll    = "conll"
	StageNative   = "native"
)

// Pipeline runs the corpus conversions.
type Pipeline struct {
	Workers  int
	Logger   logging.Logger
	Progress Progress

	// Replace existing outputs instead of refusing them
	Overwrite bool

	// Type written in concept and chain records
	ConceptType string

	// Source of the brat label colors
	Rand *rand.Rand
}

func (p *Pipeline) logger() logging.Logger {
	if p.Logger == nil {
		return logging.NewNopLogger()
	}
	return p.Logger
}

func (p *Pipeline) rand() *rand.Rand {
	if p.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(seed, seed>>1))
	}
	return p.Rand
}

func (p *Pipeline) batch(stage string) *Batch {
	return &Batch{Workers: p.Workers, Logger: p.logger().Named(stage), Progress: p.Progress}
}

// CreateMapping diffs the texts of sourceDir against modifiedDir and saves
// the character map to out.
func (p *Pipeline) CreateMapping(sourceDir, modifiedDir, out string) (charmap.Map, error) {
	if err := file.PrepareOutput(out, p.Overwrite, false); err != nil {
		return nil, err
	}

	m, err := charmap.Build(sourceDir, modifiedDir)
	if err != nil {
		return nil, err
	}

	changed := 0
	for _, changes := range m {
		changed += len(changes)
	}
	p.logger().Info("character map built", logging.Int("files", len(m)), logging.Int("changes", changed))

	return m, charmap.Save(out, m)
}

func (p *Pipeline) standoffJobs(docs []NativeDoc, outDir string, mapping charmap.Map) []Job {
	jobs := make([]Job, len(docs))
	for i, d := range docs {
		jobs[i] = Job{
			Doc:   filepath.Join(d.Rel, d.ID()),
			Stage: StageStandoff,
			Run: func(context.Context) error {
				// a document without entry has no substitutions
				changes, ok := mapping[d.Name]
				if !ok {
					p.logger().Debug("no character map entry", logging.String("doc", d.Name))
				}
				return NativeToStandoff(d, filepath.Join(outDir, d.Rel), changes, p.logger())
			},
		}
	}
	return jobs
}

// conllJobs converts docs into outDir, mirroring their layout. Written
// documents are passed to done, which may be nil.
func (p *Pipeline) conllJobs(docs []StandoffDoc, outDir string, done func(*conll.Document)) []Job {
	jobs := make([]Job, len(docs))
	for i, d := range docs {
		jobs[i] = Job{
			Doc:   d.Name,
			Stage: StageConll,
			Run: func(context.Context) error {
				out := filepath.Join(outDir, filepath.FromSlash(d.Name)+".conll")
				doc, err := StandoffToConll(d.TextPath, d.AnnPath, out)
				if err != nil {
					return err
				}
				if done != nil {
					done(doc)
				}
				return nil
			},
		}
	}
	return jobs
}

func conllPaths(docs []StandoffDoc, outDir string) []string {
	paths := make([]string, len(docs))
	for i, d := range docs {
		paths[i] = filepath.Join(outDir, filepath.FromSlash(d.Name)+".conll")
	}
	return paths
}

// CreateBrat converts the native gold standard of corpusDir into a standoff
// corpus with its brat configuration.
func (p *Pipeline) CreateBrat(ctx context.Context, corpusDir string, mapping charmap.Map) (*Report, error) {
	out := filepath.Join(corpusDir, BratDir)
	if err := file.PrepareOutput(out, p.Overwrite, true); err != nil {
		return nil, err
	}

	docs, err := FindNativeDocs(filepath.Join(corpusDir, GoldStandardDir))
	if err != nil {
		return nil, err
	}

	report := p.batch(StageStandoff).Run(ctx, p.standoffJobs(docs, out, mapping))

	if err := BratConf(out, p.rand()); err != nil {
		return report, err
	}
	return report, nil
}

// CreateConll converts the standoff corpus of corpusDir into CoNLL files,
// one per document plus one <dir>.conll per document directory.
func (p *Pipeline) CreateConll(ctx context.Context, corpusDir string) (*Report, error) {
	src := filepath.Join(corpusDir, BratDir)
	if !isDir(src) {
		return nil, fmt.Errorf("%s is not a directory", src)
	}

	out := filepath.Join(corpusDir, ConllDir)
	if err := file.PrepareOutput(out, p.Overwrite, true); err != nil {
		return nil, err
	}

	docs, err := FindStandoffDocs(src)
	if err != nil {
		return nil, err
	}

	report := p.batch(StageConll).Run(ctx, p.conllJobs(docs, out, nil))

	if err := concatPerDir(out, conllPaths(docs, out)); err != nil {
		return report, err
	}
	return report, nil
}

// ConllToNativeDir decodes every CoNLL document under inDir into native
// concept and chain files under outDir, mirroring the layout.
func (p *Pipeline) ConllToNativeDir(ctx context.Context, inDir, outDir string) (*Report, error) {
	if !isDir(inDir) {
		return nil, fmt.Errorf("%s is not a directory", inDir)
	}

	if err := file.PrepareOutput(outDir, p.Overwrite, true); err != nil {
		return nil, err
	}

	sources, err := readConllCorpus(inDir, p.logger())
	if err != nil {
		return nil, err
	}

	jobs := make([]Job, len(sources))
	for i, s := range sources {
		jobs[i] = Job{
			Doc:   filepath.Join(s.rel, s.doc.ID),
			Stage: StageNative,
			Run: func(context.Context) error {
				return ConllToNative(&s.doc, filepath.Join(outDir, s.rel), p.ConceptType)
			},
		}
	}

	return p.batch(StageNative).Run(ctx, jobs), nil
}

// RunToConll converts a system run in native format into outDir/brat,
// outDir/conll and outDir/all.conll. Every converted document is checked
// against the gold standard document of the same id found under gsDir.
func (p *Pipeline) RunToConll(ctx context.Context, runDir, outDir, gsDir string, mapping charmap.Map) (*Report, error) {
	for _, dir := range []string{runDir, gsDir} {
		if !isDir(dir) {
			return nil, fmt.Errorf("%s is not a directory", dir)
		}
	}

	if err := file.PrepareOutput(outDir, p.Overwrite, true); err != nil {
		return nil, err
	}

	gs, err := readConllCorpus(gsDir, p.logger().Named("gold"))
	if err != nil {
		return nil, err
	}
	gold := make(map[string][]string, len(gs))
	for _, s := range gs {
		gold[s.doc.ID] = s.doc.Words()
	}

	docs, err := FindNativeDocs(runDir)
	if err != nil {
		return nil, err
	}

	bratDir := filepath.Join(outDir, "brat")
	report := p.batch(StageStandoff).Run(ctx, p.standoffJobs(docs, bratDir, mapping))

	if err := BratConf(bratDir, p.rand()); err != nil {
		return report, err
	}

	standoffDocs, err := FindStandoffDocs(bratDir)
	if err != nil {
		return report, err
	}

	conllDir := filepath.Join(outDir, ConllDir)
	check := func(doc *conll.Document) {
		p.checkGold(doc, gold)
	}
	report.Merge(p.batch(StageConll).Run(ctx, p.conllJobs(standoffDocs, conllDir, check)))

	if err := ConcatConll(filepath.Join(outDir, "all.conll"), conllPaths(standoffDocs, conllDir)); err != nil {
		return report, err
	}
	return report, nil
}

func (p *Pipeline) checkGold(doc *conll.Document, gold map[string][]string) {
	want, ok := gold[doc.ID]
	if !ok {
		p.logger().Warn("no gold standard document", logging.String("doc", doc.ID))
		return
	}

	got := doc.Words()
	if !slices.Equal(got, want) {
		p.logger().Warn("document differs from gold standard",
			logging.String("doc", doc.ID),
			logging.Int("tokens", len(got)),
			logging.Int("gold_tokens", len(want)))
	}
}

// BratConf writes annotation.conf and visual.conf for the standoff corpus
// under dir.
func BratConf(dir string, rng *rand.Rand) error {
	docs, err := FindStandoffDocs(dir)
	if err != nil {
		return err
	}

	conf := standoff.NewConf()
	for _, d := range docs {
		ann, err := filesystem.ReadAnn(d.AnnPath)
		if err != nil {
			return err
		}
		conf.Add(ann)
	}

	err = file.WriteAtomic(filepath.Join(dir, "annotation.conf"), func(w io.Writer) error {
		return standoff.WriteAnnotationConf(w, conf)
	})
	if err != nil {
		return err
	}

	return file.WriteAtomic(filepath.Join(dir, "visual.conf"), func(w io.Writer) error {
		return standoff.WriteVisualConf(w, conf, rng)
	})
}
