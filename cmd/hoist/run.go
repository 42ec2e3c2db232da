package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/AlexandreBonaventure/nodehoist/internal/fixture"
	"github.com/AlexandreBonaventure/nodehoist/internal/hoist"
	"github.com/AlexandreBonaventure/nodehoist/pkg/graph"
)

func runRunCommand(args []string) {
	flags := flag.NewFlagSet("run", flag.ExitOnError)

	var (
		graphPath  = flags.String("graph", "", "Path to the input graph fixture (required)")
		outputPath = flags.String("output", "", "Output path for the hoisted graph JSON (optional, prints dump to stdout otherwise)")
		debugLevel = flags.Int("debug-level", -1, "Debug level: -1 reads NM_DEBUG_LEVEL, 0-2 otherwise")
	)
	flags.Parse(args)

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --graph is required")
		os.Exit(1)
	}

	input, err := fixture.Load(*graphPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading graph: %v\n", err)
		os.Exit(1)
	}

	out, err := hoist.Hoist(input, hoist.Options{DebugLevel: *debugLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hoisting graph: %v\n", err)
		os.Exit(1)
	}

	if *outputPath != "" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Hoisted graph saved to: %s\n", *outputPath)
		return
	}

	fmt.Printf("Hoisted %s\n", out.Name)
	printOutputTree(out, "", make(map[*graph.OutputNode]bool))
}

func printOutputTree(n *graph.OutputNode, prefix string, printed map[*graph.OutputNode]bool) {
	printed[n] = true

	for i, child := range n.Dependencies {
		last := i == len(n.Dependencies)-1
		connector, nextPrefix := "├─ ", prefix+"│  "
		if last {
			connector, nextPrefix = "└─ ", prefix+"   "
		}

		marker := ""
		if printed[child] {
			marker = "> "
		}
		fmt.Printf("%s%s%s%s@%v\n", prefix, connector, marker, child.Name, child.References)

		if !printed[child] {
			printOutputTree(child, nextPrefix, printed)
		}
	}
}
