package wizard

import (
	"errors"
	"time"

	"ai-briefbuilder-be/pkg/store"
)

var (
	ErrUnknownStep      = errors.New("unknown wizard step")
	ErrStepLocked       = errors.New("previous step is not complete")
	ErrDecisionRequired = errors.New("upstream inputs changed: choose to keep or regenerate the brief first")
)

// CanNavigate reports whether the session may move to step `to`:
// step 0 always, otherwise the previous step or the target itself must be complete.
func CanNavigate(s *store.Session, to store.Step) bool {
	if !to.Valid() {
		return false
	}
	if to == store.StepProduct {
		return true
	}
	return s.Completed[to-1] || s.Completed[to]
}

// Navigate moves the session to `to`. Leaving the Brief step freezes the inputs the
// current final document was built from so later edits can be compared against them.
func Navigate(s *store.Session, to store.Step, now time.Time) error {
	if !to.Valid() {
		return ErrUnknownStep
	}
	if to == store.StepBrief && s.Boundary == store.BoundaryPendingDecision {
		return ErrDecisionRequired
	}
	if !CanNavigate(s, to) {
		return ErrStepLocked
	}

	if s.Step == store.StepBrief && to < store.StepBrief && s.FinalDocument != nil && s.Snapshot == nil {
		s.Snapshot = TakeSnapshot(s, now)
	}
	s.Step = to
	return nil
}

func Complete(s *store.Session, step store.Step) {
	if step.Valid() {
		s.Completed[step] = true
	}
}

// Invalidate clears completion of `from` and every later step.
func Invalidate(s *store.Session, from store.Step) {
	for i := int(from); i < store.StepCount; i++ {
		if i >= 0 {
			s.Completed[i] = false
		}
	}
}

// CompletionFromData rebuilds the completion flags from populated fields after a load.
func CompletionFromData(s *store.Session) {
	var done [store.StepCount]bool
	done[store.StepProduct] = s.Product != nil
	done[store.StepResearch] = s.SourceDocument != nil
	done[store.StepInsights] = len(s.InsightCandidates) > 0 && s.SelectedInsight() != nil
	done[store.StepStrategy] = done[store.StepInsights] && s.Strategy != nil
	done[store.StepBrief] = done[store.StepInsights] && s.FinalDocument != nil
	s.Completed = done
}
