package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runRunCommand(os.Args[2:])
	case "serve":
		runServeCommand(os.Args[2:])
	case "explain":
		runExplainCommand(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("hoist - dependency tree hoisting engine")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  hoist run [options]      Hoist a fixture graph and print the result")
	fmt.Println("  hoist serve [options]    Run the live hoist WebSocket server")
	fmt.Println("  hoist explain [options]  Hoist a fixture graph and narrate rejected promotions")
	fmt.Println("")
	fmt.Println("Run 'hoist <command> --help' for more information on a command.")
}
