package store

import (
	"testing"

	"github.com/google/uuid"
)

func TestProductValidate(t *testing.T) {
	catalogID := uuid.New()
	nilID := uuid.Nil

	tests := []struct {
		name    string
		product *Product
		wantErr bool
	}{
		{name: "nil product", product: nil, wantErr: true},
		{name: "catalog only", product: &Product{CatalogID: &catalogID}, wantErr: false},
		{name: "custom only", product: &Product{CustomName: "Widget X"}, wantErr: false},
		{name: "both set", product: &Product{CatalogID: &catalogID, CustomName: "Widget X"}, wantErr: true},
		{name: "neither set", product: &Product{}, wantErr: true},
		{name: "nil uuid is not a reference", product: &Product{CatalogID: &nilID}, wantErr: true},
		{name: "blank custom name", product: &Product{CustomName: "   "}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionValidateDanglingSelection(t *testing.T) {
	s := NewSession(uuid.New())
	s.InsightCandidates = []Insight{{ID: 1, Headline: "Speed Matters"}}

	s.SelectedInsightID = IntPtr(1)
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid selection, got %v", err)
	}

	s.SelectedInsightID = IntPtr(7)
	if err := s.Validate(); err != ErrDanglingSelection {
		t.Fatalf("expected ErrDanglingSelection, got %v", err)
	}
}

func TestSessionIsBlank(t *testing.T) {
	s := NewSession(uuid.New())
	s.Product = &Product{CustomName: "Widget X", Name: "Widget X"}
	if !s.IsBlank() {
		t.Fatalf("product alone should not count as authored content")
	}

	s.SourceDocument = &SourceDocument{FileName: "research.pdf"}
	if s.IsBlank() {
		t.Fatalf("session with a document is not blank")
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSession(uuid.New())
	s.InsightCandidates = []Insight{{ID: 1, Headline: "Speed Matters", Verbatims: []string{"too slow"}}}
	s.SelectedInsightID = IntPtr(1)
	s.Strategy = &Strategy{Essence: "fast", Sections: []StrategySection{{Title: "Why"}}}
	s.FinalDocument = &FinalDocument{Version: 2, Execution: Execution{Channels: []string{"tv"}}}

	c := s.Clone()
	c.InsightCandidates[0].Verbatims[0] = "changed"
	*c.SelectedInsightID = 9
	c.Strategy.Sections[0].Title = "changed"
	c.FinalDocument.Execution.Channels[0] = "radio"

	if s.InsightCandidates[0].Verbatims[0] != "too slow" {
		t.Errorf("verbatims shared between clone and original")
	}
	if *s.SelectedInsightID != 1 {
		t.Errorf("selection shared between clone and original")
	}
	if s.Strategy.Sections[0].Title != "Why" {
		t.Errorf("strategy sections shared between clone and original")
	}
	if s.FinalDocument.Execution.Channels[0] != "tv" {
		t.Errorf("final document shared between clone and original")
	}
}

func TestParseStep(t *testing.T) {
	for i := 0; i < StepCount; i++ {
		step := Step(i)
		got, err := ParseStep(step.String())
		if err != nil || got != step {
			t.Errorf("ParseStep(%q) = %v, %v", step.String(), got, err)
		}
	}
	if _, err := ParseStep("done"); err == nil {
		t.Errorf("expected error for unknown step")
	}
}

func TestFinalDocumentIsEmpty(t *testing.T) {
	var nilDoc *FinalDocument
	if !nilDoc.IsEmpty() {
		t.Errorf("nil document should be empty")
	}
	if !(&FinalDocument{Version: 3}).IsEmpty() {
		t.Errorf("version alone is not content")
	}
	doc := &FinalDocument{MessageStrategy: MessageStrategy{Proposition: "Delivery you can set a clock by"}}
	if doc.IsEmpty() {
		t.Errorf("document with a proposition is not empty")
	}
}
