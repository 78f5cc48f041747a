package schema

import "time"

// The annotation tooling downstream of the pipeline re-presents generated
// cases to human navigators. Its enumerations include an "Unclear" escape
// hatch the generation schema does not, so they are separate types: a value
// valid for an annotator is not necessarily valid model output.

// AnnotationImpact is the 4-valued impact scale shown to annotators.
type AnnotationImpact string

const (
	AnnotationImproves  AnnotationImpact = "Improves"
	AnnotationWorsens   AnnotationImpact = "Worsens"
	AnnotationUnchanged AnnotationImpact = "Unchanged"
	AnnotationUnclear   AnnotationImpact = "Unclear"
)

// AnnotationAdoption is the 4-valued service adoption scale shown to
// annotators.
type AnnotationAdoption string

const (
	AnnotationAdoptionPositive  AnnotationAdoption = "Positive"
	AnnotationAdoptionNegative  AnnotationAdoption = "Negative"
	AnnotationAdoptionUnchanged AnnotationAdoption = "Unchanged"
	AnnotationAdoptionUnclear   AnnotationAdoption = "Unclear"
)

// EDDDeltaBuckets is the enumerated set of estimated-discharge-date shift
// buckets, ordered from the largest delay to the largest acceleration.
var EDDDeltaBuckets = []string{
	"+ >14 Days",
	"+ 7-14 Days",
	"+ 3-6 Days",
	"+ 0-2 Days",
	"- 0-2 Days",
	"- 3-6 Days",
	"- 7-14 Days",
	"- >14 Days",
}

// CaseRecord is the row shape of the downstream synthetic_cases table: one
// validated case plus its batch labeling. The upload path writes these in a
// single multi-row insert.
type CaseRecord struct {
	BatchID           string             `json:"batch_id"`
	Label             string             `json:"label"`
	NarrativeSummary  string             `json:"narrative_summary"`
	Format1StateLog   []StateLogEntry    `json:"format_1_state_log"`
	Format2Triples    []ReasoningTriple  `json:"format_2_triples"`
	Format3RLScenario []RLScenarioOption `json:"format_3_rl_scenario"`
}

// SessionStatus is the lifecycle state of one annotation session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
)

// SessionRecord is the row shape of the downstream evaluation_sessions
// table: one navigator working one case, with save/resume state. The
// pipeline never writes these; the shape is the contract the annotation
// tooling expects.
type SessionRecord struct {
	NavigatorID string        `json:"navigator_id"`
	CaseLabel   string        `json:"case_label"`
	Status      SessionStatus `json:"status"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
