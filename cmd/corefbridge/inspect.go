package main

import (
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/inspect"
	"github.com/revelaction/corefbridge/render"
)

func inspectCommand(c *cli.Context, ui UI) error {
	if c.String("format") == jsonFormat {
		return errors.New("inspect: json format is not interactive")
	}

	var p Pool
	defer p.Close()

	repo, err := NewDocRepository(&p, c.String("repo"))
	if err != nil {
		return err
	}

	r := render.NewRenderer()
	r.W = ui.Out
	r.HasColor = !c.Bool("no-color")
	r.HasPrefix = true
	r.Format = c.String("format")

	// now present the REPL
	h := inspect.NewHandler(repo, r)
	h.Out = ui.Out
	return h.Run()
}
