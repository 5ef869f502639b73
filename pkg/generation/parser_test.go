package generation

import (
	"errors"
	"testing"

	"ai-briefbuilder-be/pkg/store"
)

func TestParseInsights(t *testing.T) {
	tests := []struct {
		name      string
		response  string
		wantCount int
		wantErr   error
	}{
		{
			name:      "wrapped in prose",
			response:  "Here you go:\n{\"insights\":[{\"headline\":\"Speed Matters\",\"text\":\"t\",\"relevance\":14}]}\nThanks",
			wantCount: 1,
		},
		{
			name:     "empty list",
			response: `{"insights":[]}`,
			wantErr:  ErrEmptyResult,
		},
		{
			name:     "only blank entries",
			response: `{"insights":[{"headline":"  ","text":""}]}`,
			wantErr:  ErrEmptyResult,
		},
		{
			name:     "no json",
			response: "I could not find anything",
			wantErr:  ErrMalformedResponse,
		},
		{
			name:     "broken json",
			response: `{"insights":[{"headline":}`,
			wantErr:  ErrMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInsights(tt.response)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.wantCount {
				t.Fatalf("got %d insights, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestParseInsightsNormalizes(t *testing.T) {
	got, err := parseInsights(`{"insights":[
		{"headline":"","text":""},
		{"headline":" A ","text":"first","relevance":-3,"verbatims":[" q ",""]},
		{"headline":"B","text":"second","relevance":11.5}
	]}`)
	if err != nil {
		t.Fatalf("parseInsights: %v", err)
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("ids = %d,%d, want 1,2", got[0].ID, got[1].ID)
	}
	if got[0].Headline != "A" || got[0].Relevance != 0 || len(got[0].Verbatims) != 1 || got[0].Verbatims[0] != "q" {
		t.Errorf("first insight not normalized: %+v", got[0])
	}
	if got[1].Relevance != 10 {
		t.Errorf("relevance = %v, want 10", got[1].Relevance)
	}
}

func TestParseStrategy(t *testing.T) {
	st, err := parseStrategy(`{"essence":" Time is respect ","unlock":"Show the clock","sections":[{"title":"Role","content":"x"},{"title":""}]}`)
	if err != nil {
		t.Fatalf("parseStrategy: %v", err)
	}
	if st.Essence != "Time is respect" || len(st.Sections) != 1 {
		t.Errorf("unexpected strategy: %+v", st)
	}

	if _, err := parseStrategy(`{"essence":"","unlock":"","sections":[]}`); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestParseFinalDocument(t *testing.T) {
	selected := store.Insight{ID: 1, Headline: "Speed Matters", Text: "fast"}

	doc, err := parseFinalDocument(`{"version":7,"business_objective":{"objective":"Grow"}}`, selected)
	if err != nil {
		t.Fatalf("parseFinalDocument: %v", err)
	}
	if doc.Version != 0 {
		t.Errorf("version must be left to the caller, got %d", doc.Version)
	}
	if len(doc.Insights) != 1 || doc.Insights[0].Headline != "Speed Matters" {
		t.Errorf("selected insight should be referenced: %+v", doc.Insights)
	}

	if _, err := parseFinalDocument(`{}`, selected); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestTruncateSource(t *testing.T) {
	long := make([]rune, MaxSourceRunes+10)
	for i := range long {
		long[i] = 'é'
	}
	out := []rune(truncateSource(string(long)))
	if len(out) <= MaxSourceRunes || string(out[MaxSourceRunes:]) != "\n[...truncated]" {
		t.Errorf("unexpected truncation tail: %q", string(out[MaxSourceRunes:]))
	}
	if truncateSource("  short  ") != "short" {
		t.Errorf("short text should only be trimmed")
	}
}
