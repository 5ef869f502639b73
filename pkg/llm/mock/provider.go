package mock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"ai-briefbuilder-be/pkg/llm"
)

// Provider answers from a script instead of a model. It records every prompt it receives.
type Provider struct {
	mu        sync.Mutex
	responses []string
	err       error
	respond   func(prompt string) (string, error)
	prompts   []string
}

var _ llm.LLMProvider = &Provider{}

// NewScripted returns the given responses in order, then repeats the last one.
func NewScripted(responses ...string) *Provider {
	return &Provider{responses: responses}
}

func NewFailing(err error) *Provider {
	return &Provider{err: err}
}

func NewFunc(respond func(prompt string) (string, error)) *Provider {
	return &Provider{respond: respond}
}

// NewCanned serves fixed demo content keyed on the task tag in the prompt.
func NewCanned() *Provider {
	return NewFunc(func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "<task>extract_insights</task>"):
			return cannedInsights, nil
		case strings.Contains(prompt, "<task>synthesize_strategy</task>"):
			return cannedStrategy, nil
		case strings.Contains(prompt, "<task>generate_final_document</task>"):
			return cannedFinalDocument, nil
		}
		return "", errors.New("mock provider: unrecognised prompt")
	})
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	var last string
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return p.Generate(ctx, last, options...)
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	calls := len(p.prompts)
	p.mu.Unlock()

	if p.err != nil {
		return "", p.err
	}
	if p.respond != nil {
		return p.respond(prompt)
	}
	if len(p.responses) == 0 {
		return "", nil
	}
	idx := calls - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func (p *Provider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

const cannedInsights = `{"insights":[
{"headline":"Speed Matters","text":"Customers judge the brand by how fast the order arrives.","verbatims":["users report slow delivery"],"relevance":9,"category":"delivery","job_to_be_done":"When I order, I want it quickly, so I can get on with my day."},
{"headline":"Silence Hurts","text":"Not knowing where the order is feels worse than the delay itself.","verbatims":["no one told me anything"],"relevance":7,"category":"communication","job_to_be_done":"When I wait, I want updates, so I can plan around it."}
]}`

const cannedStrategy = `{"essence":"Time is respect","unlock":"Show the clock",
"sections":[
{"title":"Role of communication","purpose":"Why we speak","summary":"Make speed visible","content":"Every touchpoint shows when the order will arrive."},
{"title":"Proof","purpose":"Why believe us","summary":"Live tracking","content":"Tracking updates every minute from dispatch to door."}
]}`

const cannedFinalDocument = `{
"business_objective":{"objective":"Lift repeat orders","success_metric":"+10% repeat rate in two quarters"},
"consumer_problem":{"audience":"Busy urban shoppers","problem":"Deliveries feel slow and opaque","tension":"They want convenience but fear wasted waiting"},
"communication_challenge":{"challenge":"Make speed believable","barrier":"Past late deliveries"},
"message_strategy":{"proposition":"Know exactly when it arrives","reasons_to_believe":["Live tracking","On-time guarantee"],"tone":"Confident and warm"},
"insights":[{"headline":"Speed Matters","text":"Customers judge the brand by how fast the order arrives."}],
"execution":{"mandatories":["Logo lockup"],"channels":["Social","In-app"],"guidance":"Lead with the clock"}
}`
