package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// UI contains the output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{Out: os.Stdout, Err: os.Stderr}

	if err := newApp(ui).Run(os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "corefbridge: %v\n", err)
}

func overwriteFlag() cli.Flag {
	return &cli.BoolFlag{Name: "overwrite", Usage: "replace the output when it exists"}
}

func newApp(ui UI) *cli.App {
	return &cli.App{
		Name:      "corefbridge",
		Usage:     "convert coreference corpora between the i2b2, brat and CoNLL formats",
		Version:   BuildTag,
		Writer:    ui.Out,
		ErrWriter: ui.Err,
		// errors are printed by main
		ExitErrHandler: func(*cli.Context, error) {},

		EnableBashCompletion: true,

		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML configuration file"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
			&cli.IntFlag{Name: "workers", Usage: "documents converted concurrently (0: one per CPU)"},
			&cli.BoolFlag{Name: "strict", Usage: "fail when any document fails"},
			&cli.BoolFlag{Name: "no-progress", Usage: "do not show progress bars"},
		},
		Commands: []*cli.Command{
			{
				Name:  "create-mapping",
				Usage: "record the characters changed between two copies of the corpus texts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "source-dir", Required: true, Usage: "original texts"},
					&cli.StringFlag{Name: "modified-dir", Required: true, Usage: "corrected texts"},
					&cli.StringFlag{Name: "target-file", Required: true, Usage: "JSON character map to write"},
					overwriteFlag(),
				},
				Action: func(c *cli.Context) error { return createMappingCommand(c, ui) },
			},
			{
				Name:  "create-brat",
				Usage: "convert <input-dir>/gold-standard-sorted into the standoff corpus <input-dir>/brat-raw",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-dir", Required: true},
					&cli.StringFlag{Name: "mapping-file", Required: true, Usage: "character map"},
					overwriteFlag(),
				},
				Action: func(c *cli.Context) error { return createBratCommand(c, ui) },
			},
			{
				Name:  "create-conll",
				Usage: "convert <input-dir>/brat-raw into CoNLL files under <input-dir>/conll",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-dir", Required: true},
					overwriteFlag(),
				},
				Action: func(c *cli.Context) error { return createConllCommand(c, ui) },
			},
			{
				Name:  "conll-to-native",
				Usage: "decode CoNLL files into i2b2 concept and chain files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-dir", Required: true},
					&cli.StringFlag{Name: "output-dir", Required: true},
					&cli.StringFlag{Name: "concept-type", Usage: "type of the written concepts"},
					overwriteFlag(),
				},
				Action: func(c *cli.Context) error { return conllToNativeCommand(c, ui) },
			},
			{
				Name:  "run-to-conll",
				Usage: "convert a system run in i2b2 format to brat and CoNLL",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-dir", Required: true, Usage: "run directory"},
					&cli.StringFlag{Name: "output-dir", Required: true},
					&cli.StringFlag{Name: "gs-conll-dir", Required: true, Usage: "gold standard CoNLL files"},
					&cli.StringFlag{Name: "mapping-file", Required: true, Usage: "character map"},
					overwriteFlag(),
				},
				Action: func(c *cli.Context) error { return runToConllCommand(c, ui) },
			},
			{
				Name:  "brat-conf",
				Usage: "write annotation.conf and visual.conf for a standoff corpus",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dir", Required: true},
					&cli.Uint64Flag{Name: "seed", Usage: "color seed (0: random)"},
				},
				Action: func(c *cli.Context) error { return bratConfCommand(c, ui) },
			},
			{
				Name:  "export-db",
				Usage: "copy a standoff corpus into a SQLite database",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "from", Required: true, Usage: "standoff corpus directory"},
					&cli.StringFlag{Name: "to", Required: true, Usage: "SQLite database file"},
				},
				Action: func(c *cli.Context) error { return exportDbCommand(c, ui) },
			},
			{
				Name:  "stat",
				Usage: "print corpus statistics",
				Flags: []cli.Flag{
					repoFlag(),
					&cli.StringFlag{Name: "match", Usage: "only documents whose name contains match"},
					&cli.BoolFlag{Name: "json"},
				},
				Action: func(c *cli.Context) error { return statCommand(c, ui) },
			},
			{
				Name:      "show",
				Usage:     "print the chains of a document",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					repoFlag(),
					formatFlag(),
					&cli.BoolFlag{Name: "no-color"},
					&cli.BoolFlag{Name: "no-prefix"},
				},
				Action: func(c *cli.Context) error { return showCommand(c, ui) },
			},
			{
				Name:  "inspect",
				Usage: "browse the documents of a repository",
				Flags: []cli.Flag{
					repoFlag(),
					formatFlag(),
					&cli.BoolFlag{Name: "no-color"},
				},
				Action: func(c *cli.Context) error { return inspectCommand(c, ui) },
			},
			{
				Name:   "bash",
				Usage:  "print the bash completion script",
				Action: func(c *cli.Context) error { return bashCommand(ui) },
			},
			{
				Name:   "version",
				Usage:  "print the version",
				Action: func(c *cli.Context) error { return versionCommand(ui) },
			},
		},
	}
}
