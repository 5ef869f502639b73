package generation

import (
	"context"
	"errors"
	"strings"

	"ai-briefbuilder-be/pkg/llm"
	"ai-briefbuilder-be/pkg/store"
)

// ErrNoSourceText is returned before any provider call when there is nothing to read.
var ErrNoSourceText = errors.New("no research text to generate from")

type FinalDocumentInput struct {
	Insight     store.Insight
	ProductName string
	Category    string
	RawText     string
	Strategy    *store.Strategy
}

// Generator runs the three content calls against an LLM provider and returns typed results.
type Generator struct {
	provider llm.LLMProvider
	options  []llm.Option
}

func NewGenerator(provider llm.LLMProvider, options ...llm.Option) *Generator {
	return &Generator{
		provider: provider,
		options:  options,
	}
}

func (g *Generator) call(ctx context.Context, prompt string, temperature float64) (string, error) {
	opts := make([]llm.Option, 0, len(g.options)+2)
	opts = append(opts, llm.WithTemperature(temperature), llm.WithJSONOutput())
	opts = append(opts, g.options...)
	return g.provider.Generate(ctx, prompt, opts...)
}

func (g *Generator) ExtractInsights(ctx context.Context, rawText string) ([]store.Insight, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrNoSourceText
	}
	response, err := g.call(ctx, buildInsightsPrompt(rawText), 0.2)
	if err != nil {
		return nil, err
	}
	return parseInsights(response)
}

func (g *Generator) SynthesizeStrategy(ctx context.Context, rawText string, insight store.Insight) (*store.Strategy, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrNoSourceText
	}
	response, err := g.call(ctx, buildStrategyPrompt(rawText, insight), 0.5)
	if err != nil {
		return nil, err
	}
	return parseStrategy(response)
}

func (g *Generator) GenerateFinalDocument(ctx context.Context, in FinalDocumentInput) (*store.FinalDocument, error) {
	if strings.TrimSpace(in.RawText) == "" {
		return nil, ErrNoSourceText
	}
	response, err := g.call(ctx, buildFinalDocumentPrompt(in), 0.4)
	if err != nil {
		return nil, err
	}
	return parseFinalDocument(response, in.Insight)
}
