package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/convert"
)

func bratConfCommand(c *cli.Context, ui UI) error {
	seed := c.Uint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}

	dir := c.String("dir")
	if err := convert.BratConf(dir, rand.New(rand.NewPCG(seed, seed))); err != nil {
		return err
	}

	_, err := fmt.Fprintf(ui.Out, "✍  brat configuration written to %s (seed %d)\n", dir, seed)
	return err
}
