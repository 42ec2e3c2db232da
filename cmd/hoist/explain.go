package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/AlexandreBonaventure/nodehoist/internal/explain"
	"github.com/AlexandreBonaventure/nodehoist/internal/fixture"
	"github.com/AlexandreBonaventure/nodehoist/internal/hoist"
)

func runExplainCommand(args []string) {
	flags := flag.NewFlagSet("explain", flag.ExitOnError)

	var (
		graphPath   = flags.String("graph", "", "Path to the input graph fixture (required)")
		concurrency = flags.Int("concurrency", 5, "Maximum concurrent narration calls")
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

	rejections, err := hoist.Explain(input, hoist.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running hoist: %v\n", err)
		os.Exit(1)
	}

	if len(rejections) == 0 {
		fmt.Println("No promotions were rejected.")
		return
	}

	fmt.Printf("%d promotion(s) rejected, narrating...\n\n", len(rejections))

	explainer := explain.NewExplainer(*concurrency)
	explanations, err := explainer.ExplainAll(context.Background(), rejections)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error narrating rejections: %v\n", err)
		os.Exit(1)
	}

	for _, e := range explanations {
		fmt.Printf("%s\n  %s\n\n", e.Package, e.Explanation)
	}
}
