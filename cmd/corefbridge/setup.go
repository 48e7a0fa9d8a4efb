package main

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/config"
	"github.com/revelaction/corefbridge/convert"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/storage"
	"github.com/revelaction/corefbridge/storage/filesystem"
	"github.com/revelaction/corefbridge/storage/sqlite/zombiezen"
)

// env is what a command needs besides its own flags.
type env struct {
	cfg    *config.Config
	logger logging.Logger
	runID  string
}

// setup loads the configuration, lets the global flags override it and
// builds the logger tagged with a fresh run id.
func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.Bool("strict") {
		cfg.Strict = true
	}
	if c.Bool("overwrite") {
		cfg.Overwrite = true
	}
	if c.IsSet("concept-type") {
		cfg.ConceptType = c.String("concept-type")
	}
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger = logger.With(logging.String("run_id", runID)).Named(c.Command.Name)
	logger.Debug("configuration loaded",
		logging.Int("workers", cfg.Workers),
		logging.Bool("strict", cfg.Strict),
		logging.Bool("overwrite", cfg.Overwrite))

	return &env{cfg: cfg, logger: logger, runID: runID}, nil
}

func (e *env) pipeline(c *cli.Context, ui UI) *convert.Pipeline {
	p := &convert.Pipeline{
		Workers:     e.cfg.Workers,
		Logger:      e.logger,
		Overwrite:   e.cfg.Overwrite,
		ConceptType: e.cfg.ConceptType,
	}
	if !c.Bool("no-progress") {
		p.Progress = newBarProgress(ui.Out)
	}
	if seed := c.Uint64("seed"); seed != 0 {
		p.Rand = rand.New(rand.NewPCG(seed, seed))
	}
	return p
}

// finish prints the batch summary. With strict, failed documents fail the
// command.
func (e *env) finish(report *convert.Report, ui UI) error {
	defer e.logger.Sync()

	fmt.Fprintf(ui.Out, "✍  %d/%d documents converted", report.Succeeded(), report.Total)
	for kind, n := range report.Kinds() {
		fmt.Fprintf(ui.Out, ", %d %s", n, kind)
	}
	fmt.Fprintln(ui.Out)

	if e.cfg.Strict && len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d documents failed: %w", len(report.Failed), report.Total, report.Err())
	}
	return nil
}

func repoFlag() cli.Flag {
	return &cli.StringFlag{Name: "repo", Required: true, Usage: "standoff corpus directory or SQLite database"}
}

// NewDocRepository opens a standoff corpus directory, or the SQLite
// database at path.
func NewDocRepository(p *Pool, path string) (storage.DocRepository, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("repository not found: %s", path)
	}

	if info.IsDir() {
		return filesystem.NewDocStore(path)
	}

	pool, err := p.Open(path)
	if err != nil {
		return nil, err
	}
	return zombiezen.NewDocStore(pool), nil
}
