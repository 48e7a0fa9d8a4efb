package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func createMappingCommand(c *cli.Context, ui UI) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	m, err := e.pipeline(c, ui).CreateMapping(c.String("source-dir"), c.String("modified-dir"), c.String("target-file"))
	if err != nil {
		return err
	}

	changed := 0
	for _, changes := range m {
		if len(changes) > 0 {
			changed++
		}
	}

	_, err = fmt.Fprintf(ui.Out, "✍  %d files, %d with changes, written to %s\n", len(m), changed, c.String("target-file"))
	return err
}
