package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/revelaction/corefbridge/stat"
)

func statCommand(c *cli.Context, ui UI) error {
	var p Pool
	defer p.Close()

	repo, err := NewDocRepository(&p, c.String("repo"))
	if err != nil {
		return err
	}

	names, err := repo.List(c.String("match"))
	if err != nil {
		return err
	}

	hdl := stat.NewHandler()
	for _, name := range names {
		doc, err := repo.Read(name)
		if err != nil {
			return err
		}
		hdl.Aggregate(doc)
	}

	stats := hdl.Get()

	if c.Bool("json") {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Fprintf(ui.Out, "Num docs %d, num sentences %d, num tokens %d, num tokens per sentence %d\n",
		stats.NumDocs, stats.NumSentences, stats.NumTokens, stats.TokensPerSentenceMean)
	fmt.Fprintf(ui.Out, "Num mentions %d (%d split, %d in chains), num chains %d\n",
		stats.NumMentions, stats.NumSplit, stats.NumChained, stats.NumChains)
	for _, size := range stats.ChainSizes() {
		fmt.Fprintf(ui.Out, "  chains of %3d mentions: %d\n", size, stats.ChainSizeDis[size])
	}

	return nil
}
