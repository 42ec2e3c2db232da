// Package agent wraps the fantasy LLM agent framework into the single
// call the hoist explainer needs: turn one rejection reason into a
// plain-English explanation. Unlike a security analyst agent that fetches
// more evidence as it goes, this agent is handed everything it will ever
// need up front and never calls a tool.
package agent

import (
	"context"
	"fmt"
	"os"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/openaicompat"
)

const systemPrompt = `
You are a dependency resolution expert explaining why a package-hoisting
engine decided NOT to promote a particular package up a dependency tree.

You will be given the package's name, the identity it conflicts with or
the rule it broke, and the engine's own short diagnostic text. Explain in
one or two plain-English sentences why this outcome is correct and what a
developer reading a package-manager diagnostic would want to know — no
restating of the raw diagnostic, no hedging, no markdown.
`

// Explain narrates a single rejection reason into a short, developer-facing
// sentence.
func Explain(ctx context.Context, packageName, diagnostic string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY required")
	}

	provider, err := openaicompat.New(
		openaicompat.WithBaseURL("https://api.synthetic.new/openai/v1"),
		openaicompat.WithAPIKey(apiKey),
	)
	if err != nil {
		return "", err
	}

	model, err := provider.LanguageModel(ctx, "hf:moonshotai/Kimi-K2.5")
	if err != nil {
		return "", err
	}

	agent := fantasy.NewAgent(model, fantasy.WithSystemPrompt(systemPrompt))

	prompt := fmt.Sprintf("Package: %s\nDiagnostic: %s\n", packageName, diagnostic)

	result, err := agent.Generate(ctx, fantasy.AgentCall{Prompt: prompt})
	if err != nil {
		return "", err
	}

	return result.Response.Content.Text(), nil
}
