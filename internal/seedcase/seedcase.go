// Package seedcase models the curated seed case documents the pipeline
// retrieves from. Seed files are authored by hand and loosely typed: several
// fields arrive as either a string or a list, and complexity scores are
// sometimes quoted. Decoding is tolerant of those spellings because a single
// malformed field must not cost the corpus a whole case.
package seedcase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SeedCase is one immutable seed document, read-only to the pipeline.
type SeedCase struct {
	CaseHeader             CaseHeader         `json:"case_header"`
	ClinicalLogic          ClinicalLogic      `json:"clinical_logic"`
	EnvironmentalLogic     EnvironmentalLogic `json:"environmental_logic"`
	ReasoningTraceTriples  []Triple           `json:"reasoning_trace_triples"`
	UnscriptedChaosSignals StringList         `json:"unscripted_chaos_signals"`
}

// CaseHeader identifies the case and carries its headline attributes.
type CaseHeader struct {
	CaseID          string  `json:"case_id"`
	ComplexityScore FlexInt `json:"complexity_score"`
	Outcome         string  `json:"outcome"`
}

// ClinicalLogic holds the clinical barrier narrative.
type ClinicalLogic struct {
	ClinicalBarriers    StringList `json:"clinical_barriers"`
	SkilledNeedVerified FlexBool   `json:"skilled_need_verified"`
}

// EnvironmentalLogic holds the home environment barriers. The first entry of
// ModificationType is the case's primary friction.
type EnvironmentalLogic struct {
	PhysicalBarriers string     `json:"physical_barriers"`
	ModificationType StringList `json:"modification_type"`
}

// Triple is one situation/action/intent reasoning step.
type Triple struct {
	Situation string `json:"situation"`
	Action    string `json:"action"`
	Intent    string `json:"intent"`
}

// StringList decodes a JSON value that is either a string or a list of
// strings into a slice. A bare string becomes a one-element slice.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*l = nil
			return nil
		}
		*l = StringList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("seedcase: value is neither string nor string list: %s", data)
	}
	*l = StringList(list)
	return nil
}

// FlexInt decodes a JSON number or a numeric string. Anything else decodes
// to zero rather than failing the document.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = FlexInt(n)
			return nil
		}
	}
	*f = 0
	return nil
}

// FlexBool decodes booleans and the yes/true/1 string spellings used in the
// seed corpus.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "yes", "true", "1":
			*f = true
		default:
			*f = false
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = n == 1
		return nil
	}
	*f = false
	return nil
}

// Parse decodes one seed case document. The case_header object is required;
// a document without one is rejected so the indexer can skip it.
func Parse(data []byte) (*SeedCase, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("seedcase: parse: %w", err)
	}
	if _, ok := probe["case_header"]; !ok {
		return nil, fmt.Errorf("seedcase: missing required case_header")
	}
	var sc SeedCase
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("seedcase: parse: %w", err)
	}
	return &sc, nil
}

// DocumentString concatenates the narrative elements of the case into a
// single searchable string for semantic embedding. Section order is fixed so
// re-ingesting an unchanged case produces an identical document.
func (sc *SeedCase) DocumentString() string {
	var parts []string

	if len(sc.ClinicalLogic.ClinicalBarriers) > 0 {
		parts = append(parts, "Clinical Barriers: "+strings.Join(sc.ClinicalLogic.ClinicalBarriers, "; "))
	}
	if sc.EnvironmentalLogic.PhysicalBarriers != "" {
		parts = append(parts, "Physical Barriers: "+sc.EnvironmentalLogic.PhysicalBarriers)
	}

	var summaries []string
	for _, t := range sc.ReasoningTraceTriples {
		if t.Situation != "" || t.Intent != "" {
			summaries = append(summaries, fmt.Sprintf("%s [%s]", t.Situation, t.Intent))
		}
	}
	if len(summaries) > 0 {
		parts = append(parts, "Reasoning: "+strings.Join(summaries, "; "))
	}

	if len(sc.UnscriptedChaosSignals) > 0 {
		parts = append(parts, "Chaos Signals: "+strings.Join(sc.UnscriptedChaosSignals, "; "))
	}

	return strings.Join(parts, " | ")
}

// PrimaryFriction returns the first modification_type entry, or "Unknown"
// when the case declares none.
func (sc *SeedCase) PrimaryFriction() string {
	if len(sc.EnvironmentalLogic.ModificationType) > 0 && sc.EnvironmentalLogic.ModificationType[0] != "" {
		return sc.EnvironmentalLogic.ModificationType[0]
	}
	return "Unknown"
}

// Outcome returns the headline outcome label, or "Unknown" when absent.
func (sc *SeedCase) Outcome() string {
	if sc.CaseHeader.Outcome != "" {
		return sc.CaseHeader.Outcome
	}
	return "Unknown"
}
