package wizard

import (
	"errors"

	"ai-briefbuilder-be/pkg/store"
)

var ErrBriefWithoutInsight = errors.New("brief has no confirmed insight selection")

// ResumeStep derives where a reloaded session continues. Latest populated stage wins
// (final document, then strategy, then candidates), but without a confirmed selection
// that resolves against the candidates it never goes past Insights, and a selection
// without a strategy resumes on Insights rather than on a half-finished Strategy step.
// A pending keep-or-regenerate decision holds the session before Brief.
func ResumeStep(s *store.Session) store.Step {
	selected := s.SelectedInsight() != nil

	if !selected {
		if len(s.InsightCandidates) > 0 {
			return store.StepInsights
		}
		return store.StepResearch
	}

	switch {
	case s.FinalDocument != nil && s.Boundary != store.BoundaryPendingDecision:
		return store.StepBrief
	case s.Strategy != nil:
		return store.StepStrategy
	default:
		return store.StepInsights
	}
}

// DisplayInsight is the single precedence rule for which insight the UI shows:
// the confirmed selection, else the frozen copy of that same selection, else nothing.
func DisplayInsight(s *store.Session) *store.Insight {
	if in := s.SelectedInsight(); in != nil {
		return in
	}
	if s.SelectedInsightID != nil && s.Snapshot != nil && s.Snapshot.SelectedInsight != nil &&
		s.Snapshot.SelectedInsight.ID == *s.SelectedInsightID {
		return s.Snapshot.SelectedInsight
	}
	return nil
}

// DisplayableFinalDocument refuses to hand out brief content that no insight selection backs.
func DisplayableFinalDocument(s *store.Session) (*store.FinalDocument, error) {
	if s.FinalDocument == nil {
		return nil, nil
	}
	if s.SelectedInsight() == nil {
		return nil, ErrBriefWithoutInsight
	}
	return s.FinalDocument, nil
}
