// Package schema defines the structural contract of a synthetic case and
// enforces it before any generated output is trusted downstream.
package schema

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Impact is the generation-time clinical/environmental state change. The
// annotation path uses a wider enum (see annotation.go); the two are
// deliberately distinct types.
type Impact string

const (
	ImpactImproves  Impact = "Improves"
	ImpactWorsens   Impact = "Worsens"
	ImpactUnchanged Impact = "Unchanged"
)

// AdoptionImpact is the generation-time service adoption signal.
type AdoptionImpact string

const (
	AdoptionPositive  AdoptionImpact = "Positive"
	AdoptionNegative  AdoptionImpact = "Negative"
	AdoptionUnchanged AdoptionImpact = "Unchanged"
)

// OptionCategory is the hidden classification of an RL scenario option.
type OptionCategory string

const (
	CategoryPassive   OptionCategory = "Passive"
	CategoryProactive OptionCategory = "Proactive"
	CategoryOverstep  OptionCategory = "Overstep"
)

// StateLogEntry is one timeline event in format 1.
type StateLogEntry struct {
	EventDescription      string         `json:"event_description"`
	ClinicalImpact        Impact         `json:"clinical_impact"`
	EnvironmentalImpact   Impact         `json:"environmental_impact"`
	ServiceAdoptionImpact AdoptionImpact `json:"service_adoption_impact"`
	EDDDelta              string         `json:"edd_delta"`
	AssumedBottleneck     string         `json:"ai_assumed_bottleneck"`
}

// ReasoningTriple is one situation/action/intent step in format 2.
type ReasoningTriple struct {
	Situation           string `json:"situation"`
	ActionTaken         string `json:"action_taken"`
	TaxonomyCategory    string `json:"taxonomy_category"`
	TacticalFieldIntent string `json:"tactical_field_intent"`
}

// RLScenarioOption is one of the three options in format 3. The category is
// hidden from the description by generation instruction.
type RLScenarioOption struct {
	IntendedCategory OptionCategory `json:"ai_intended_category"`
	Description      string         `json:"description"`
	Rationale        string         `json:"rationale"`
}

// SyntheticCase is the validated pipeline output: three parallel record
// formats plus a narrative. Never mutated after validation passes.
type SyntheticCase struct {
	Format1StateLog   []StateLogEntry    `json:"format_1_state_log"`
	Format2Triples    []ReasoningTriple  `json:"format_2_triples"`
	Format3RLScenario []RLScenarioOption `json:"format_3_rl_scenario"`
	NarrativeSummary  string             `json:"narrative_summary"`
}

// ValidationError names the first structural violation found in a candidate
// output. Validation never partially accepts a record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// fenceRe matches a markdown code fence block (``` or ~~~) with an optional
// language tag and captures the content between the fences.
var fenceRe = regexp.MustCompile("(?s)^(?:`{3}|~{3})[^\\n]*\\n(.*?)(?:`{3}|~{3})\\s*$")

// openFenceRe matches only an opening fence line. Used to strip orphaned
// opening fences from truncated responses.
var openFenceRe = regexp.MustCompile("^(?:`{3}|~{3})[^\\n]*\\n")

// StripFences removes leading/trailing markdown code fences that models
// sometimes wrap around JSON output despite being told not to.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if loc := openFenceRe.FindStringIndex(s); loc != nil {
		return strings.TrimSpace(s[loc[1]:])
	}
	return s
}

// requiredFields are the four top-level keys every synthetic case carries.
var requiredFields = []string{
	"format_1_state_log",
	"format_2_triples",
	"format_3_rl_scenario",
	"narrative_summary",
}

// Decode strips incidental formatting wrappers from a raw model response and
// parses it. All four top-level fields must be present; typed decoding
// happens only after that check so a missing field is reported by name
// rather than surfacing as an empty slice later.
func Decode(raw string) (*SyntheticCase, error) {
	cleaned := StripFences(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, &ValidationError{Field: "json_parse", Message: err.Error()}
	}
	for _, f := range requiredFields {
		if _, ok := probe[f]; !ok {
			return nil, &ValidationError{Field: f, Message: "required field is missing"}
		}
	}

	var sc SyntheticCase
	if err := json.Unmarshal([]byte(cleaned), &sc); err != nil {
		return nil, &ValidationError{Field: "json_parse", Message: err.Error()}
	}
	return &sc, nil
}

var validImpact = map[Impact]bool{
	ImpactImproves:  true,
	ImpactWorsens:   true,
	ImpactUnchanged: true,
}

var validAdoption = map[AdoptionImpact]bool{
	AdoptionPositive:  true,
	AdoptionNegative:  true,
	AdoptionUnchanged: true,
}

var validCategory = map[OptionCategory]bool{
	CategoryPassive:   true,
	CategoryProactive: true,
	CategoryOverstep:  true,
}

// Validate enforces the structural contract: non-empty state log and triples
// whose entries carry all free-text fields and in-enum values, exactly three
// RL options each with a valid hidden category and non-empty free text, and
// a non-empty narrative. Returns the first violation encountered.
//
// The one-of-each-category property of the RL options is a generation
// instruction, not a structural rule, and is intentionally not checked here.
func Validate(sc *SyntheticCase) error {
	if len(sc.Format1StateLog) == 0 {
		return &ValidationError{Field: "format_1_state_log", Message: "must be a non-empty sequence"}
	}
	for i, e := range sc.Format1StateLog {
		if e.EventDescription == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_1_state_log[%d].event_description", i),
				Message: "must be present and non-empty",
			}
		}
		if e.EDDDelta == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_1_state_log[%d].edd_delta", i),
				Message: "must be present and non-empty",
			}
		}
		if e.AssumedBottleneck == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_1_state_log[%d].ai_assumed_bottleneck", i),
				Message: "must be present and non-empty",
			}
		}
		if !validImpact[e.ClinicalImpact] {
			return &ValidationError{
				Field:   fmt.Sprintf("format_1_state_log[%d].clinical_impact", i),
				Message: fmt.Sprintf("invalid value %q", e.ClinicalImpact),
			}
		}
		if !validImpact[e.EnvironmentalImpact] {
			return &ValidationError{
				Field:   fmt.Sprintf("format_1_state_log[%d].environmental_impact", i),
				Message: fmt.Sprintf("invalid value %q", e.EnvironmentalImpact),
			}
		}
		if !validAdoption[e.ServiceAdoptionImpact] {
			return &ValidationError{
				Field:   fmt.Sprintf("format_1_state_log[%d].service_adoption_impact", i),
				Message: fmt.Sprintf("invalid value %q", e.ServiceAdoptionImpact),
			}
		}
	}

	if len(sc.Format2Triples) == 0 {
		return &ValidationError{Field: "format_2_triples", Message: "must be a non-empty sequence"}
	}
	for i, tr := range sc.Format2Triples {
		if tr.Situation == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_2_triples[%d].situation", i),
				Message: "must be present and non-empty",
			}
		}
		if tr.ActionTaken == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_2_triples[%d].action_taken", i),
				Message: "must be present and non-empty",
			}
		}
		if tr.TaxonomyCategory == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_2_triples[%d].taxonomy_category", i),
				Message: "must be present and non-empty",
			}
		}
		if tr.TacticalFieldIntent == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_2_triples[%d].tactical_field_intent", i),
				Message: "must be present and non-empty",
			}
		}
	}

	if len(sc.Format3RLScenario) != 3 {
		return &ValidationError{
			Field:   "format_3_rl_scenario",
			Message: fmt.Sprintf("must contain exactly 3 options, got %d", len(sc.Format3RLScenario)),
		}
	}
	for i, opt := range sc.Format3RLScenario {
		if !validCategory[opt.IntendedCategory] {
			return &ValidationError{
				Field:   fmt.Sprintf("format_3_rl_scenario[%d].ai_intended_category", i),
				Message: fmt.Sprintf("invalid value %q", opt.IntendedCategory),
			}
		}
		if opt.Description == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_3_rl_scenario[%d].description", i),
				Message: "must be present and non-empty",
			}
		}
		if opt.Rationale == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("format_3_rl_scenario[%d].rationale", i),
				Message: "must be present and non-empty",
			}
		}
	}

	if strings.TrimSpace(sc.NarrativeSummary) == "" {
		return &ValidationError{Field: "narrative_summary", Message: "must be present and non-empty"}
	}
	return nil
}
