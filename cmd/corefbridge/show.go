package main

import (
	"errors"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/render"
)

const jsonFormat = "json"

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Value: render.Defaultformat,
		Usage: "chains, text, mentions or json",
		Action: func(c *cli.Context, v string) error {
			if v != jsonFormat && !slices.Contains(render.SupportedFormats(), v) {
				return errors.New("format: allowed values are chains, text, mentions, json")
			}
			return nil
		},
	}
}

func showCommand(c *cli.Context, ui UI) error {
	if c.NArg() != 1 {
		return errors.New("show: one document name expected")
	}

	var p Pool
	defer p.Close()

	repo, err := NewDocRepository(&p, c.String("repo"))
	if err != nil {
		return err
	}

	doc, err := repo.Read(c.Args().First())
	if err != nil {
		return err
	}

	if c.String("format") == jsonFormat {
		return render.NewJSONRenderer(ui.Out).Render(doc)
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = !c.Bool("no-prefix")
	r.Format = c.String("format")
	return r.Render(doc)
}
