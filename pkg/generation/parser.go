package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"ai-briefbuilder-be/pkg/store"
)

var (
	// ErrEmptyResult means the provider answered with a well-formed but empty structure.
	ErrEmptyResult = errors.New("generation returned no content")
	// ErrMalformedResponse means no usable JSON object could be read from the answer.
	ErrMalformedResponse = errors.New("generation response is not valid JSON")
)

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func decode(response string, out interface{}) error {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return ErrMalformedResponse
	}
	if err := json.Unmarshal([]byte(jsonContent), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

type insightsPayload struct {
	Insights []store.Insight `json:"insights"`
}

// parseInsights numbers candidates 1..n in answer order and drops entries with no text at all.
func parseInsights(response string) ([]store.Insight, error) {
	var payload insightsPayload
	if err := decode(response, &payload); err != nil {
		return nil, err
	}

	out := make([]store.Insight, 0, len(payload.Insights))
	for _, in := range payload.Insights {
		in.Headline = strings.TrimSpace(in.Headline)
		in.Text = strings.TrimSpace(in.Text)
		if in.Headline == "" && in.Text == "" {
			continue
		}
		in.ID = len(out) + 1
		in.Relevance = clampRelevance(in.Relevance)
		in.Category = strings.TrimSpace(in.Category)
		in.JobToBeDone = strings.TrimSpace(in.JobToBeDone)
		in.Verbatims = compact(in.Verbatims)
		out = append(out, in)
	}

	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}

func parseStrategy(response string) (*store.Strategy, error) {
	var st store.Strategy
	if err := decode(response, &st); err != nil {
		return nil, err
	}

	st.Essence = strings.TrimSpace(st.Essence)
	st.Unlock = strings.TrimSpace(st.Unlock)
	sections := st.Sections[:0]
	for _, sec := range st.Sections {
		sec.Title = strings.TrimSpace(sec.Title)
		if sec.Title == "" && strings.TrimSpace(sec.Content) == "" && strings.TrimSpace(sec.Summary) == "" {
			continue
		}
		sections = append(sections, sec)
	}
	st.Sections = sections

	if st.Essence == "" && st.Unlock == "" && len(st.Sections) == 0 {
		return nil, ErrEmptyResult
	}
	return &st, nil
}

func parseFinalDocument(response string, selected store.Insight) (*store.FinalDocument, error) {
	var doc store.FinalDocument
	if err := decode(response, &doc); err != nil {
		return nil, err
	}
	if doc.IsEmpty() {
		return nil, ErrEmptyResult
	}

	// Version and timestamps are owned by the caller.
	doc.Version = 0
	doc.MessageStrategy.ReasonsToBelieve = compact(doc.MessageStrategy.ReasonsToBelieve)
	doc.Execution.Mandatories = compact(doc.Execution.Mandatories)
	doc.Execution.Channels = compact(doc.Execution.Channels)
	if len(doc.Insights) == 0 {
		doc.Insights = []store.ReferencedInsight{{Headline: selected.Headline, Text: selected.Text}}
	}
	return &doc, nil
}

func clampRelevance(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
