package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"wmx-replay/reconcile"
	"wmx-replay/replay"
	"wmx-replay/winamax"
)

func main() {
	summaryFlag := flag.String("summary", "", "tournament summary file to reconcile")
	workersFlag := flag.Int("workers", 0, "hand parsing goroutines (0 = GOMAXPROCS)")
	limitFlag := flag.Int("limit", 50, "max hands listed (0 = all)")
	replayFlag := flag.Int("replay", 0, "print the replay tape of hand N")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [OPTIONS] <hand-history.txt>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	p := winamax.New(winamax.WithWorkers(*workersFlag))
	res, err := p.ParseLog(string(raw))
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	pterm.DefaultBox.WithTitle(pterm.LightYellow(res.Header.Name)).WithTitleTopCenter().Println(headerText(res))
	if err := pterm.DefaultTable.WithHasHeader().WithData(handRows(res.Hands, *limitFlag)).Render(); err != nil {
		pterm.Error.Println(err)
	}
	if len(res.Errors) > 0 {
		pterm.Warning.Printfln("%d block(s) skipped", len(res.Errors))
		_ = pterm.DefaultTable.WithHasHeader().WithData(errorRows(res.Errors)).Render()
	}

	if *replayFlag > 0 {
		if *replayFlag > len(res.Hands) {
			pterm.Error.Printfln("hand %d not found (%d hands)", *replayFlag, len(res.Hands))
			os.Exit(1)
		}
		tape, err := replay.BuildTape(&res.Hands[*replayFlag-1])
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		_ = pterm.DefaultTable.WithHasHeader().WithData(tapeRows(tape)).Render()
	}

	if *summaryFlag != "" {
		rawSummary, err := os.ReadFile(*summaryFlag)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
		sum := reconcile.ParseSummary(string(rawSummary))
		pterm.DefaultBox.WithTitle(pterm.LightGreen("|SUMMARY|")).WithTitleTopCenter().Println(summaryText(sum))
		for _, w := range sum.Warnings {
			pterm.Warning.Printfln("%s: %s", w.Field, w.Message)
		}
	}
}
