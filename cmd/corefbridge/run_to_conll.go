package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/charmap"
)

func runToConllCommand(c *cli.Context, ui UI) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	mapping, err := charmap.Load(c.String("mapping-file"))
	if err != nil {
		return err
	}

	report, err := e.pipeline(c, ui).RunToConll(c.Context,
		c.String("input-dir"), c.String("output-dir"), c.String("gs-conll-dir"), mapping)
	if err != nil {
		return err
	}

	return e.finish(report, ui)
}
