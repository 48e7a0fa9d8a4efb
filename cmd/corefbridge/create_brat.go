package main

import (
	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/charmap"
)

func createBratCommand(c *cli.Context, ui UI) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	mapping, err := charmap.Load(c.String("mapping-file"))
	if err != nil {
		return err
	}

	report, err := e.pipeline(c, ui).CreateBrat(c.Context, c.String("input-dir"), mapping)
	if err != nil {
		return err
	}

	return e.finish(report, ui)
}
