package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/navworks/caseforge/internal/schema"
)

const validCase = `{
  "format_1_state_log": [
    {
      "event_description": "HHA intake confirmed weekend admission",
      "clinical_impact": "Unchanged",
      "environmental_impact": "Improves",
      "service_adoption_impact": "Positive",
      "edd_delta": "+0 Days",
      "ai_assumed_bottleneck": "HHA intake queue"
    }
  ],
  "format_2_triples": [
    {
      "situation": "HHA unresponsive before weekend",
      "action_taken": "Escalated to intake supervisor",
      "taxonomy_category": "Escalation",
      "tactical_field_intent": "Hold the admission slot"
    }
  ],
  "format_3_rl_scenario": [
    {"ai_intended_category": "Passive", "description": "Wait for the HHA callback", "rationale": "Avoids friction with intake"},
    {"ai_intended_category": "Proactive", "description": "Call the intake supervisor directly", "rationale": "Keeps the slot alive"},
    {"ai_intended_category": "Overstep", "description": "Promise the family a Saturday visit", "rationale": "Commits the HHA without authority"}
  ],
  "narrative_summary": "Patient discharged Friday with wound vac; navigator held the HHA slot through a weekend coverage gap."
}`

func mustDecode(t *testing.T, raw string) *schema.SyntheticCase {
	t.Helper()
	sc, err := schema.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return sc
}

func TestDecode_PlainJSON(t *testing.T) {
	sc := mustDecode(t, validCase)
	if err := schema.Validate(sc); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDecode_StripsFences(t *testing.T) {
	fenced := "```json\n" + validCase + "\n```"
	sc := mustDecode(t, fenced)
	if len(sc.Format3RLScenario) != 3 {
		t.Errorf("decoded %d RL options, want 3", len(sc.Format3RLScenario))
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"backtick fences", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"tilde fences", "~~~\n{\"a\": 1}\n~~~", `{"a": 1}`},
		{"orphaned opening fence", "```json\n{\"a\": 1}", `{"a": 1}`},
		{"surrounding whitespace", "  {\"a\": 1}  \n", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schema.StripFences(tt.in); got != tt.want {
				t.Errorf("StripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecode_MissingTopLevelField(t *testing.T) {
	raw := `{"format_1_state_log": [], "format_2_triples": [], "narrative_summary": "x"}`
	_, err := schema.Decode(raw)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "format_3_rl_scenario" {
		t.Errorf("Field = %q, want format_3_rl_scenario", verr.Field)
	}
}

func TestDecode_NotJSON(t *testing.T) {
	_, err := schema.Decode("I couldn't generate a case this time, sorry.")
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "json_parse" {
		t.Errorf("Field = %q, want json_parse", verr.Field)
	}
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*schema.SyntheticCase)
		wantField string
	}{
		{
			"empty state log",
			func(sc *schema.SyntheticCase) { sc.Format1StateLog = nil },
			"format_1_state_log",
		},
		{
			"state log entry without event description",
			func(sc *schema.SyntheticCase) { sc.Format1StateLog[0].EventDescription = "" },
			"format_1_state_log[0].event_description",
		},
		{
			"state log entry without edd delta",
			func(sc *schema.SyntheticCase) { sc.Format1StateLog[0].EDDDelta = "" },
			"format_1_state_log[0].edd_delta",
		},
		{
			"state log entry without assumed bottleneck",
			func(sc *schema.SyntheticCase) { sc.Format1StateLog[0].AssumedBottleneck = "" },
			"format_1_state_log[0].ai_assumed_bottleneck",
		},
		{
			"out-of-enum clinical impact",
			func(sc *schema.SyntheticCase) { sc.Format1StateLog[0].ClinicalImpact = "Deteriorates" },
			"format_1_state_log[0].clinical_impact",
		},
		{
			"out-of-enum adoption impact",
			func(sc *schema.SyntheticCase) { sc.Format1StateLog[0].ServiceAdoptionImpact = "Mixed" },
			"format_1_state_log[0].service_adoption_impact",
		},
		{
			"empty triples",
			func(sc *schema.SyntheticCase) { sc.Format2Triples = nil },
			"format_2_triples",
		},
		{
			"triple without situation",
			func(sc *schema.SyntheticCase) { sc.Format2Triples[0].Situation = "" },
			"format_2_triples[0].situation",
		},
		{
			"triple without action taken",
			func(sc *schema.SyntheticCase) { sc.Format2Triples[0].ActionTaken = "" },
			"format_2_triples[0].action_taken",
		},
		{
			"triple without taxonomy category",
			func(sc *schema.SyntheticCase) { sc.Format2Triples[0].TaxonomyCategory = "" },
			"format_2_triples[0].taxonomy_category",
		},
		{
			"triple without tactical field intent",
			func(sc *schema.SyntheticCase) { sc.Format2Triples[0].TacticalFieldIntent = "" },
			"format_2_triples[0].tactical_field_intent",
		},
		{
			"two RL options",
			func(sc *schema.SyntheticCase) { sc.Format3RLScenario = sc.Format3RLScenario[:2] },
			"format_3_rl_scenario",
		},
		{
			"four RL options",
			func(sc *schema.SyntheticCase) {
				sc.Format3RLScenario = append(sc.Format3RLScenario, sc.Format3RLScenario[0])
			},
			"format_3_rl_scenario",
		},
		{
			"out-of-enum RL category",
			func(sc *schema.SyntheticCase) { sc.Format3RLScenario[1].IntendedCategory = "Aggressive" },
			"format_3_rl_scenario[1].ai_intended_category",
		},
		{
			"empty RL description",
			func(sc *schema.SyntheticCase) { sc.Format3RLScenario[2].Description = "" },
			"format_3_rl_scenario[2].description",
		},
		{
			"empty RL rationale",
			func(sc *schema.SyntheticCase) { sc.Format3RLScenario[0].Rationale = "" },
			"format_3_rl_scenario[0].rationale",
		},
		{
			"blank narrative",
			func(sc *schema.SyntheticCase) { sc.NarrativeSummary = "   " },
			"narrative_summary",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := mustDecode(t, validCase)
			tt.mutate(sc)
			err := schema.Validate(sc)
			var verr *schema.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_EnumOnlyEntriesRejected(t *testing.T) {
	// A response can omit the free-text fields entirely and still decode,
	// with each landing as "". Such entries must not pass validation.
	sc := mustDecode(t, validCase)
	sc.Format1StateLog[0] = schema.StateLogEntry{
		ClinicalImpact:        schema.ImpactUnchanged,
		EnvironmentalImpact:   schema.ImpactImproves,
		ServiceAdoptionImpact: schema.AdoptionPositive,
	}
	if schema.Validate(sc) == nil {
		t.Error("state log entry with only enum fields should fail validation")
	}

	sc = mustDecode(t, validCase)
	sc.Format2Triples[0] = schema.ReasoningTriple{TaxonomyCategory: "Escalation"}
	if schema.Validate(sc) == nil {
		t.Error("triple with only a taxonomy category should fail validation")
	}
}

func TestValidate_DuplicateCategoriesAccepted(t *testing.T) {
	// One option per category is a generation instruction, not a structural
	// rule. Three Passive options still pass validation.
	sc := mustDecode(t, validCase)
	for i := range sc.Format3RLScenario {
		sc.Format3RLScenario[i].IntendedCategory = schema.CategoryPassive
	}
	if err := schema.Validate(sc); err != nil {
		t.Errorf("Validate with duplicate categories = %v, want nil", err)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := &schema.ValidationError{Field: "narrative_summary", Message: "must be present and non-empty"}
	if !strings.Contains(err.Error(), "narrative_summary") {
		t.Errorf("Error() should name the field, got %q", err.Error())
	}
}
