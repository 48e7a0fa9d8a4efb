package main

import (
	"github.com/urfave/cli/v2"
)

func conllToNativeCommand(c *cli.Context, ui UI) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	report, err := e.pipeline(c, ui).ConllToNativeDir(c.Context, c.String("input-dir"), c.String("output-dir"))
	if err != nil {
		return err
	}

	return e.finish(report, ui)
}
