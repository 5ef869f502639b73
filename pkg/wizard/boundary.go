package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"ai-briefbuilder-be/pkg/store"
)

type Choice string

const (
	ChoiceKeep       Choice = "keep"
	ChoiceRegenerate Choice = "regenerate"
	ChoiceBranch     Choice = "branch"
)

func ParseChoice(v string) (Choice, error) {
	switch c := Choice(strings.ToLower(strings.TrimSpace(v))); c {
	case ChoiceKeep, ChoiceRegenerate, ChoiceBranch:
		return c, nil
	}
	return "", fmt.Errorf("unknown choice %q", v)
}

var (
	ErrNoPendingDecision = errors.New("no pending decision on this brief")
	ErrBranchUnavailable = errors.New("branching is only available on a completed brief")
	ErrNoFinalDocument   = errors.New("no final document to edit")
)

func TakeSnapshot(s *store.Session, now time.Time) *store.Snapshot {
	snap := &store.Snapshot{
		Strategy:          s.Strategy.Clone(),
		InsightCandidates: store.CloneInsights(s.InsightCandidates),
		TakenAt:           now,
	}
	if s.SelectedInsightID != nil {
		id := *s.SelectedInsightID
		snap.SelectedInsightID = &id
	}
	if in := s.SelectedInsight(); in != nil {
		c := in.Clone()
		snap.SelectedInsight = &c
	}
	return snap
}

// SnapshotDiffers compares selected-insight identity and text, strategy essence and
// unlock, and the strategy section list.
func SnapshotDiffers(snap *store.Snapshot, s *store.Session) bool {
	if snap == nil {
		return false
	}

	if !sameIntPtr(snap.SelectedInsightID, s.SelectedInsightID) {
		return true
	}

	current := s.SelectedInsight()
	switch {
	case (snap.SelectedInsight == nil) != (current == nil):
		return true
	case current != nil:
		if snap.SelectedInsight.Headline != current.Headline || snap.SelectedInsight.Text != current.Text {
			return true
		}
	}

	if (snap.Strategy == nil) != (s.Strategy == nil) {
		return true
	}
	if s.Strategy == nil {
		return false
	}
	if snap.Strategy.Essence != s.Strategy.Essence || snap.Strategy.Unlock != s.Strategy.Unlock {
		return true
	}
	return !sameSections(snap.Strategy.Sections, s.Strategy.Sections)
}

func sameIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameSections(a, b []store.StrategySection) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func guardsDocument(s *store.Session) bool {
	return s.FinalDocument != nil &&
		(s.Boundary == store.BoundaryStable || s.Boundary == store.BoundaryBranched || s.Boundary == store.BoundaryIdle)
}

// BeforeUpstreamEdit must run before the selection or the strategy is changed.
func BeforeUpstreamEdit(s *store.Session, now time.Time) {
	if guardsDocument(s) && s.Snapshot == nil {
		s.Snapshot = TakeSnapshot(s, now)
	}
}

// AfterUpstreamEdit opens the decision gate when a guarded document's inputs changed,
// and closes it again when the edits were undone by hand.
func AfterUpstreamEdit(s *store.Session) {
	if s.FinalDocument == nil || s.Snapshot == nil {
		return
	}
	differs := SnapshotDiffers(s.Snapshot, s)
	switch {
	case differs && guardsDocument(s):
		s.Boundary = store.BoundaryPendingDecision
	case !differs && s.Boundary == store.BoundaryPendingDecision:
		s.Boundary = store.BoundaryStable
	}
}

func restoreSnapshot(s *store.Session) {
	snap := s.Snapshot
	if snap == nil {
		return
	}
	s.SelectedInsightID = nil
	if snap.SelectedInsightID != nil {
		id := *snap.SelectedInsightID
		s.SelectedInsightID = &id
	}
	s.Strategy = snap.Strategy.Clone()
	if snap.InsightCandidates != nil {
		s.InsightCandidates = store.CloneInsights(snap.InsightCandidates)
	}
}

// Decide applies "keep" or "regenerate". Branching needs persistence and goes through Branch.
func Decide(s *store.Session, choice Choice) error {
	if s.Boundary != store.BoundaryPendingDecision {
		return ErrNoPendingDecision
	}

	switch choice {
	case ChoiceKeep:
		restoreSnapshot(s)
		s.Snapshot = nil
		s.Boundary = store.BoundaryStable
		CompletionFromData(s)
	case ChoiceRegenerate:
		if s.FinalDocument != nil && s.FinalDocument.Version > s.DocumentVersion {
			s.DocumentVersion = s.FinalDocument.Version
		}
		s.FinalDocument = nil
		s.Snapshot = nil
		s.Boundary = store.BoundaryRegenerating
		Invalidate(s, store.StepBrief)
	case ChoiceBranch:
		return CanBranch(s)
	default:
		return fmt.Errorf("unknown choice %q", choice)
	}
	return nil
}

// RestoreBoundary reinstates a stored boundary state on a reloaded session, falling back to
// STABLE or IDLE when the stored state no longer agrees with the data.
func RestoreBoundary(s *store.Session, stored store.BoundaryState) {
	switch {
	case stored == store.BoundaryPendingDecision && s.FinalDocument != nil && SnapshotDiffers(s.Snapshot, s):
		s.Boundary = stored
	case stored == store.BoundaryRegenerating && s.FinalDocument == nil:
		s.Boundary = stored
	case stored == store.BoundaryBranched && s.FinalDocument != nil:
		s.Boundary = stored
	case s.FinalDocument != nil:
		s.Boundary = store.BoundaryStable
	default:
		s.Boundary = store.BoundaryIdle
	}
}

func CanBranch(s *store.Session) error {
	if s.Boundary != store.BoundaryPendingDecision {
		return ErrNoPendingDecision
	}
	if s.Status != store.StatusComplete {
		return ErrBranchUnavailable
	}
	return nil
}

// Branch splits off the edited state and returns it; the original session goes back
// to the inputs its final document was built from.
func Branch(s *store.Session) (*store.Session, error) {
	if err := CanBranch(s); err != nil {
		return nil, err
	}
	edited := s.Clone()

	restoreSnapshot(s)
	s.Snapshot = nil
	s.Boundary = store.BoundaryBranched
	CompletionFromData(s)

	edited.Snapshot = nil
	edited.FinalDocument = nil
	edited.DocumentVersion = 0
	edited.Boundary = store.BoundaryIdle
	edited.Status = store.StatusDraft
	edited.CompletedAt = nil
	CompletionFromData(edited)
	return edited, nil
}

// AcceptGenerated installs a freshly generated document one version above the last known one.
func AcceptGenerated(s *store.Session, doc *store.FinalDocument, now time.Time) {
	last := s.DocumentVersion
	if s.FinalDocument != nil && s.FinalDocument.Version > last {
		last = s.FinalDocument.Version
	}
	doc.Version = last + 1
	doc.LastEdited = now

	s.FinalDocument = doc
	s.DocumentVersion = doc.Version
	s.Snapshot = nil
	s.Boundary = store.BoundaryStable
	Complete(s, store.StepBrief)
}

// ApplyEdit replaces the document content with a user edit and bumps the version.
func ApplyEdit(s *store.Session, edited *store.FinalDocument, now time.Time) error {
	if s.FinalDocument == nil {
		return ErrNoFinalDocument
	}
	if s.SelectedInsight() == nil {
		return ErrBriefWithoutInsight
	}
	if s.Boundary == store.BoundaryPendingDecision {
		return ErrDecisionRequired
	}

	last := s.FinalDocument.Version
	if s.DocumentVersion > last {
		last = s.DocumentVersion
	}
	doc := edited.Clone()
	doc.Version = last + 1
	doc.LastEdited = now

	s.FinalDocument = doc
	s.DocumentVersion = doc.Version
	return nil
}
