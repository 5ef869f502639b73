package wizard

import (
	"testing"
	"time"

	"ai-briefbuilder-be/pkg/store"
)

func TestUpstreamEditOpensGate(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *store.Session)
		want store.BoundaryState
	}{
		{
			name: "select other insight",
			edit: func(s *store.Session) { s.SelectedInsightID = store.IntPtr(2) },
			want: store.BoundaryPendingDecision,
		},
		{
			name: "edit strategy essence",
			edit: func(s *store.Session) { s.Strategy.Essence = "Speed is love" },
			want: store.BoundaryPendingDecision,
		},
		{
			name: "edit strategy section content",
			edit: func(s *store.Session) { s.Strategy.Sections[0].Content = "Rewritten" },
			want: store.BoundaryPendingDecision,
		},
		{
			name: "add strategy section",
			edit: func(s *store.Session) {
				s.Strategy.Sections = append(s.Strategy.Sections, store.StrategySection{Title: "Proof"})
			},
			want: store.BoundaryPendingDecision,
		},
		{
			name: "reselect same insight",
			edit: func(s *store.Session) { s.SelectedInsightID = store.IntPtr(1) },
			want: store.BoundaryStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := briefSession()
			s.Strategy = s.Strategy.Clone()

			BeforeUpstreamEdit(s, time.Now())
			tt.edit(s)
			AfterUpstreamEdit(s)

			if s.Boundary != tt.want {
				t.Errorf("Boundary = %s, want %s", s.Boundary, tt.want)
			}
		})
	}
}

func TestUpstreamEditWithoutDocumentKeepsIdle(t *testing.T) {
	s := briefSession()
	s.FinalDocument = nil
	s.Boundary = store.BoundaryIdle

	BeforeUpstreamEdit(s, time.Now())
	s.SelectedInsightID = store.IntPtr(2)
	AfterUpstreamEdit(s)

	if s.Boundary != store.BoundaryIdle {
		t.Errorf("Boundary = %s, want IDLE", s.Boundary)
	}
	if s.Snapshot != nil {
		t.Errorf("no snapshot expected without a final document")
	}
}

func TestUndoingEditClosesGate(t *testing.T) {
	s := briefSession()

	BeforeUpstreamEdit(s, time.Now())
	s.SelectedInsightID = store.IntPtr(2)
	AfterUpstreamEdit(s)
	if s.Boundary != store.BoundaryPendingDecision {
		t.Fatalf("expected pending decision, got %s", s.Boundary)
	}

	BeforeUpstreamEdit(s, time.Now())
	s.SelectedInsightID = store.IntPtr(1)
	AfterUpstreamEdit(s)
	if s.Boundary != store.BoundaryStable {
		t.Fatalf("expected stable after undo, got %s", s.Boundary)
	}
}

func TestDecideKeepRestoresSnapshot(t *testing.T) {
	s := briefSession()

	BeforeUpstreamEdit(s, time.Now())
	s.Strategy = s.Strategy.Clone()
	s.Strategy.Sections[0].Content = "Rewritten"
	AfterUpstreamEdit(s)

	if err := Decide(s, ChoiceKeep); err != nil {
		t.Fatalf("Decide(keep): %v", err)
	}
	if s.Boundary != store.BoundaryStable {
		t.Errorf("Boundary = %s, want STABLE", s.Boundary)
	}
	if s.Strategy.Sections[0].Content != "Long form" {
		t.Errorf("strategy edit not discarded: %q", s.Strategy.Sections[0].Content)
	}
	if s.FinalDocument == nil || s.FinalDocument.Version != 2 {
		t.Errorf("final document must be untouched, got %+v", s.FinalDocument)
	}
	if !CanNavigate(s, store.StepBrief) {
		t.Errorf("brief should be reachable again after keep")
	}
}

func TestDecideRegenerateClearsDocument(t *testing.T) {
	s := briefSession()

	BeforeUpstreamEdit(s, time.Now())
	s.SelectedInsightID = store.IntPtr(2)
	AfterUpstreamEdit(s)

	if err := Decide(s, ChoiceRegenerate); err != nil {
		t.Fatalf("Decide(regenerate): %v", err)
	}
	if s.FinalDocument != nil {
		t.Errorf("final document should be cleared")
	}
	if s.Boundary != store.BoundaryRegenerating {
		t.Errorf("Boundary = %s, want REGENERATING", s.Boundary)
	}
	if s.DocumentVersion != 2 {
		t.Errorf("last known version lost: %d", s.DocumentVersion)
	}

	AcceptGenerated(s, &store.FinalDocument{}, time.Now())
	if s.FinalDocument.Version != 3 {
		t.Errorf("regenerated version = %d, want 3", s.FinalDocument.Version)
	}
	if s.Boundary != store.BoundaryStable {
		t.Errorf("Boundary = %s, want STABLE", s.Boundary)
	}
}

func TestDecideWithoutPendingDecision(t *testing.T) {
	s := briefSession()
	if err := Decide(s, ChoiceKeep); err != ErrNoPendingDecision {
		t.Fatalf("expected ErrNoPendingDecision, got %v", err)
	}
}

func TestBranchOnlyFromCompletedBrief(t *testing.T) {
	s := briefSession()
	BeforeUpstreamEdit(s, time.Now())
	s.SelectedInsightID = store.IntPtr(2)
	AfterUpstreamEdit(s)

	if _, err := Branch(s); err != ErrBranchUnavailable {
		t.Fatalf("expected ErrBranchUnavailable for draft, got %v", err)
	}

	s.Status = store.StatusComplete
	edited, err := Branch(s)
	if err != nil {
		t.Fatalf("Branch: %v", err)
	}

	if *edited.SelectedInsightID != 2 || edited.FinalDocument != nil || edited.Status != store.StatusDraft {
		t.Errorf("branch should carry the new selection without a document: %+v", edited)
	}
	if *s.SelectedInsightID != 1 || s.FinalDocument == nil || s.Boundary != store.BoundaryBranched {
		t.Errorf("original should keep its inputs and document: boundary=%s", s.Boundary)
	}
}

func TestApplyEditBumpsVersion(t *testing.T) {
	s := briefSession()
	edited := s.FinalDocument.Clone()
	edited.Execution.Guidance = "Lead with the clock"

	if err := ApplyEdit(s, edited, time.Now()); err != nil {
		t.Fatalf("ApplyEdit: %v", err)
	}
	if s.FinalDocument.Version != 3 || s.DocumentVersion != 3 {
		t.Errorf("version = %d/%d, want 3", s.FinalDocument.Version, s.DocumentVersion)
	}

	s.SelectedInsightID = nil
	if err := ApplyEdit(s, edited, time.Now()); err != ErrBriefWithoutInsight {
		t.Errorf("expected ErrBriefWithoutInsight, got %v", err)
	}
}

func TestParseChoice(t *testing.T) {
	if c, err := ParseChoice(" Regenerate "); err != nil || c != ChoiceRegenerate {
		t.Errorf("ParseChoice = %q, %v", c, err)
	}
	if _, err := ParseChoice("discard"); err == nil {
		t.Errorf("expected error for unknown choice")
	}
}

func TestDecideKeepUndoesReextraction(t *testing.T) {
	s := briefSession()
	original := store.CloneInsights(s.InsightCandidates)

	BeforeUpstreamEdit(s, time.Now())
	s.InsightCandidates = []store.Insight{{ID: 1, Headline: "Something else"}}
	s.SelectedInsightID = nil
	AfterUpstreamEdit(s)

	if s.Boundary != store.BoundaryPendingDecision {
		t.Fatalf("Boundary = %s, want PENDING_DECISION", s.Boundary)
	}
	if err := Decide(s, ChoiceKeep); err != nil {
		t.Fatalf("Decide(keep): %v", err)
	}
	if len(s.InsightCandidates) != len(original) || s.InsightCandidates[0].Headline != original[0].Headline {
		t.Errorf("candidates not restored: %+v", s.InsightCandidates)
	}
	if s.SelectedInsight() == nil || s.SelectedInsight().ID != 1 {
		t.Errorf("selection not restored")
	}
}

func TestRestoreBoundary(t *testing.T) {
	edited := func() *store.Session {
		s := briefSession()
		s.Snapshot = TakeSnapshot(s, time.Now())
		s.SelectedInsightID = store.IntPtr(2)
		return s
	}

	tests := []struct {
		name    string
		session func() *store.Session
		stored  store.BoundaryState
		want    store.BoundaryState
	}{
		{name: "pending with differing snapshot", session: edited, stored: store.BoundaryPendingDecision, want: store.BoundaryPendingDecision},
		{
			name:    "pending without snapshot",
			session: briefSession,
			stored:  store.BoundaryPendingDecision,
			want:    store.BoundaryStable,
		},
		{
			name: "pending whose edits were undone",
			session: func() *store.Session {
				s := briefSession()
				s.Snapshot = TakeSnapshot(s, time.Now())
				return s
			},
			stored: store.BoundaryPendingDecision,
			want:   store.BoundaryStable,
		},
		{
			name: "regenerating without document",
			session: func() *store.Session {
				s := briefSession()
				s.FinalDocument = nil
				return s
			},
			stored: store.BoundaryRegenerating,
			want:   store.BoundaryRegenerating,
		},
		{name: "regenerating with document", session: briefSession, stored: store.BoundaryRegenerating, want: store.BoundaryStable},
		{name: "branched", session: briefSession, stored: store.BoundaryBranched, want: store.BoundaryBranched},
		{name: "unset with document", session: briefSession, stored: "", want: store.BoundaryStable},
		{
			name: "unset without document",
			session: func() *store.Session {
				s := briefSession()
				s.FinalDocument = nil
				return s
			},
			stored: "",
			want:   store.BoundaryIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.session()
			RestoreBoundary(s, tt.stored)
			if s.Boundary != tt.want {
				t.Errorf("Boundary = %s, want %s", s.Boundary, tt.want)
			}
		})
	}
}
