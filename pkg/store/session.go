package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Step is a wizard position. The order of the constants is the navigation order.
type Step int

const (
	StepProduct Step = iota
	StepResearch
	StepInsights
	StepStrategy
	StepBrief

	StepCount = 5
)

var stepNames = [StepCount]string{"PRODUCT", "RESEARCH", "INSIGHTS", "STRATEGY", "BRIEF"}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return fmt.Sprintf("STEP(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) Valid() bool {
	return s >= StepProduct && s <= StepBrief
}

func ParseStep(v string) (Step, error) {
	for i, name := range stepNames {
		if strings.EqualFold(name, strings.TrimSpace(v)) {
			return Step(i), nil
		}
	}
	return StepProduct, fmt.Errorf("unknown step %q", v)
}

type Status string

const (
	StatusDraft    Status = "draft"
	StatusComplete Status = "complete"
	StatusArchived Status = "archived"
)

// Boundary states of an existing final document relative to upstream edits.
type BoundaryState string

const (
	BoundaryIdle            BoundaryState = "IDLE" // no final document yet
	BoundaryStable          BoundaryState = "STABLE"
	BoundaryPendingDecision BoundaryState = "PENDING_DECISION"
	BoundaryRegenerating    BoundaryState = "REGENERATING"
	BoundaryBranched        BoundaryState = "BRANCHED"
)

// Product is either a catalog reference or a free-text name, never both.
type Product struct {
	CatalogID  *uuid.UUID `json:"catalog_id,omitempty"`
	CustomName string     `json:"custom_name,omitempty"`
	// Name is the resolved display name; catalog names are filled in on selection.
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

var ErrInvalidProduct = errors.New("exactly one of catalog product or custom product name must be set")

func (p *Product) Validate() error {
	if p == nil {
		return ErrInvalidProduct
	}
	hasCatalog := p.CatalogID != nil && *p.CatalogID != uuid.Nil
	hasCustom := strings.TrimSpace(p.CustomName) != ""
	if hasCatalog == hasCustom {
		return ErrInvalidProduct
	}
	return nil
}

type SourceDocument struct {
	FileName   string    `json:"file_name"`
	FileType   string    `json:"file_type"`
	FileSize   int64     `json:"file_size"`
	UploadedAt time.Time `json:"uploaded_at"`
	RawText    string    `json:"raw_text"`
}

type Insight struct {
	ID          int      `json:"id"`
	Headline    string   `json:"headline"`
	Text        string   `json:"text"`
	Verbatims   []string `json:"verbatims"`
	Relevance   float64  `json:"relevance"` // 0-10
	Category    string   `json:"category"`
	JobToBeDone string   `json:"job_to_be_done"`
}

type StrategySection struct {
	Title   string `json:"title"`
	Purpose string `json:"purpose"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

type Strategy struct {
	Essence  string            `json:"essence"`
	Unlock   string            `json:"unlock"`
	Sections []StrategySection `json:"sections"`
}

type BusinessObjective struct {
	Objective     string `json:"objective"`
	SuccessMetric string `json:"success_metric"`
}

type ConsumerProblem struct {
	Audience string `json:"audience"`
	Problem  string `json:"problem"`
	Tension  string `json:"tension"`
}

type CommunicationChallenge struct {
	Challenge string `json:"challenge"`
	Barrier   string `json:"barrier"`
}

type MessageStrategy struct {
	Proposition      string   `json:"proposition"`
	ReasonsToBelieve []string `json:"reasons_to_believe"`
	Tone             string   `json:"tone"`
}

type ReferencedInsight struct {
	Headline string `json:"headline"`
	Text     string `json:"text"`
}

type Execution struct {
	Mandatories []string `json:"mandatories"`
	Channels    []string `json:"channels"`
	Guidance    string   `json:"guidance"`
}

type FinalDocument struct {
	BusinessObjective      BusinessObjective      `json:"business_objective"`
	ConsumerProblem        ConsumerProblem        `json:"consumer_problem"`
	CommunicationChallenge CommunicationChallenge `json:"communication_challenge"`
	MessageStrategy        MessageStrategy        `json:"message_strategy"`
	Insights               []ReferencedInsight    `json:"insights"`
	Execution              Execution              `json:"execution"`
	Version                int                    `json:"version"`
	LastEdited             time.Time              `json:"last_edited"`
}

// IsEmpty reports whether no content field carries text.
func (d *FinalDocument) IsEmpty() bool {
	if d == nil {
		return true
	}
	parts := []string{
		d.BusinessObjective.Objective, d.BusinessObjective.SuccessMetric,
		d.ConsumerProblem.Audience, d.ConsumerProblem.Problem, d.ConsumerProblem.Tension,
		d.CommunicationChallenge.Challenge, d.CommunicationChallenge.Barrier,
		d.MessageStrategy.Proposition, d.MessageStrategy.Tone,
		d.Execution.Guidance,
	}
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return len(d.Insights) == 0 && len(d.MessageStrategy.ReasonsToBelieve) == 0 &&
		len(d.Execution.Mandatories) == 0 && len(d.Execution.Channels) == 0
}

// Snapshot freezes the inputs a final document was derived from.
type Snapshot struct {
	SelectedInsightID *int      `json:"selected_insight_id,omitempty"`
	SelectedInsight   *Insight  `json:"selected_insight,omitempty"`
	Strategy          *Strategy `json:"strategy,omitempty"`
	// InsightCandidates lets "keep" undo a re-extraction as well as a reselection.
	InsightCandidates []Insight `json:"insight_candidates,omitempty"`
	TakenAt           time.Time `json:"taken_at"`
}

// Session is one authoring flow. ID stays uuid.Nil until the first persistence point.
type Session struct {
	Key      uuid.UUID `json:"key"`
	ID       uuid.UUID `json:"id"`
	AuthorID uuid.UUID `json:"author_id"`
	Title    string    `json:"title"`

	Step      Step            `json:"step"`
	Completed [StepCount]bool `json:"completed"`

	Product           *Product        `json:"product,omitempty"`
	SourceDocument    *SourceDocument `json:"source_document,omitempty"`
	InsightCandidates []Insight       `json:"insight_candidates"`
	SelectedInsightID *int            `json:"selected_insight_id,omitempty"`
	Strategy          *Strategy       `json:"strategy,omitempty"`
	FinalDocument     *FinalDocument  `json:"final_document,omitempty"`
	// DocumentVersion is the last known final document version, kept while the document is cleared.
	DocumentVersion int `json:"document_version"`

	Status      Status     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Boundary BoundaryState `json:"boundary"`
	Snapshot *Snapshot     `json:"snapshot,omitempty"`
}

func NewSession(authorID uuid.UUID) *Session {
	return &Session{
		Key:      uuid.New(),
		AuthorID: authorID,
		Step:     StepProduct,
		Status:   StatusDraft,
		Boundary: BoundaryIdle,
	}
}

func (s *Session) HasID() bool {
	return s.ID != uuid.Nil
}

// IsBlank is true for a shell that carries no authored content yet.
func (s *Session) IsBlank() bool {
	return s.SourceDocument == nil &&
		len(s.InsightCandidates) == 0 &&
		s.Strategy == nil &&
		s.FinalDocument == nil
}

func (s *Session) FindInsight(id int) *Insight {
	for i := range s.InsightCandidates {
		if s.InsightCandidates[i].ID == id {
			return &s.InsightCandidates[i]
		}
	}
	return nil
}

// SelectedInsight resolves SelectedInsightID against the candidates; nil when dangling.
func (s *Session) SelectedInsight() *Insight {
	if s.SelectedInsightID == nil {
		return nil
	}
	return s.FindInsight(*s.SelectedInsightID)
}

var ErrDanglingSelection = errors.New("selected insight is not among the insight candidates")

func (s *Session) Validate() error {
	if s.SelectedInsightID != nil && s.SelectedInsight() == nil {
		return ErrDanglingSelection
	}
	if s.Product != nil {
		if err := s.Product.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.Product != nil {
		p := *s.Product
		if s.Product.CatalogID != nil {
			id := *s.Product.CatalogID
			p.CatalogID = &id
		}
		c.Product = &p
	}
	if s.SourceDocument != nil {
		d := *s.SourceDocument
		c.SourceDocument = &d
	}
	c.InsightCandidates = CloneInsights(s.InsightCandidates)
	c.SelectedInsightID = cloneIntPtr(s.SelectedInsightID)
	c.Strategy = s.Strategy.Clone()
	c.FinalDocument = s.FinalDocument.Clone()
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	c.Snapshot = s.Snapshot.Clone()
	return &c
}

func (snap *Snapshot) Clone() *Snapshot {
	if snap == nil {
		return nil
	}
	out := Snapshot{
		SelectedInsightID: cloneIntPtr(snap.SelectedInsightID),
		Strategy:          snap.Strategy.Clone(),
		InsightCandidates: CloneInsights(snap.InsightCandidates),
		TakenAt:           snap.TakenAt,
	}
	if snap.SelectedInsight != nil {
		in := snap.SelectedInsight.Clone()
		out.SelectedInsight = &in
	}
	return &out
}

func (in Insight) Clone() Insight {
	out := in
	if in.Verbatims != nil {
		out.Verbatims = append([]string(nil), in.Verbatims...)
	}
	return out
}

func CloneInsights(src []Insight) []Insight {
	if src == nil {
		return nil
	}
	out := make([]Insight, len(src))
	for i, in := range src {
		out[i] = in.Clone()
	}
	return out
}

func (st *Strategy) Clone() *Strategy {
	if st == nil {
		return nil
	}
	out := *st
	if st.Sections != nil {
		out.Sections = append([]StrategySection(nil), st.Sections...)
	}
	return &out
}

func (d *FinalDocument) Clone() *FinalDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.MessageStrategy.ReasonsToBelieve = cloneStrings(d.MessageStrategy.ReasonsToBelieve)
	out.Execution.Mandatories = cloneStrings(d.Execution.Mandatories)
	out.Execution.Channels = cloneStrings(d.Execution.Channels)
	if d.Insights != nil {
		out.Insights = append([]ReferencedInsight(nil), d.Insights...)
	}
	return &out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func cloneIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func IntPtr(v int) *int {
	return &v
}
