// Package prompt assembles the single generation request sent to the model.
// Compose is a pure function of its inputs: structured inputs are
// re-serialized through sorted-key JSON, so identical inputs always yield
// byte-identical prompt text. That determinism is what lets the test suite
// snapshot prompts without touching the generator.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/navworks/caseforge/internal/taxonomy"
)

// Target carries the variables one generated case must hit.
type Target struct {
	Patient  string // e.g. "78yo Female, CHF"
	Friction string // e.g. "Managed Medicare Auth"
}

// SystemPrompt defines the generator's role and the hard boundaries of the
// Patient Navigator scope.
const SystemPrompt = "You are an AI Healthcare Architect generating highly authentic synthetic cases " +
	"for 20-year non-clinical Patient Navigator veterans. You must strictly adhere to the Static Taxonomies.\n\n" +
	"CRITICAL ROLE DEFINITION: The Patient Navigator is NOT a discharge planner, NOT a social worker, " +
	"and NOT a clinician. The PN enters the picture specifically to ensure a smooth transition to home " +
	"health care AFTER the facility handles the clinical discharge. The PN is a collaborative team member " +
	"who works WITH the facility, never against them.\n\n" +
	"CRITICAL INSTRUCTION: You must inject 'Institutional Politics' into the case. Do not assume " +
	"facility staff are perfectly rational or collaborative. You must make highly specific claims " +
	"about delays that veterans can verify.\n\n" +
	"BANNED TROPES: You MUST NOT use the following repetitive phrases or concepts: " +
	"'F2F / Face-to-Face signatures', 'burned-out Social Worker', '100-day financial cliff', " +
	"'Private pay to LTC', or 'Black Hole'."

// outputSchema is the schema description shown to the model.
const outputSchema = `{
  "format_1_state_log": [
    {
      "event_description": "string — the event, including specific institutional friction",
      "clinical_impact": "Improves|Worsens|Unchanged",
      "environmental_impact": "Improves|Worsens|Unchanged",
      "service_adoption_impact": "Positive|Negative|Unchanged",
      "edd_delta": "string — must match a delay from the Friction Taxonomy, e.g. '+30 Days'",
      "ai_assumed_bottleneck": "string — the specific human or systemic reason for the delay"
    }
  ],
  "format_2_triples": [
    {
      "situation": "string — the specific barrier, conflict, or institutional friction",
      "action_taken": "string — the tactical, specific action the PN took",
      "taxonomy_category": "string — must match exactly an intent from the Action Taxonomy",
      "tactical_field_intent": "string — the unwritten, political, or highly specific secondary motive"
    }
  ],
  "format_3_rl_scenario": [
    {
      "ai_intended_category": "Passive|Proactive|Overstep — hidden; never revealed in the description",
      "description": "string — the exact action taken by the PN; must sound professional",
      "rationale": "string — the hidden explanation of why it was classified this way"
    }
  ],
  "narrative_summary": "string — 3-5 sentences"
}`

// rules is the enumerated constraint set appended to every prompt.
const rules = `Rules:
1. All edd_delta values must reference a delay from the Friction Taxonomy.
2. The ai_assumed_bottleneck must be a specific, testable claim about a HOME HEALTH TRANSITION barrier (e.g., "The HHA could not schedule a weekend admission because their intake coordinator only works Mon-Fri").

NEGATIVE CONSTRAINTS (What a PN NEVER does):
- The PN NEVER touches F2F forms, clinical documentation, or the EMR.
- The PN NEVER calls insurance companies for authorization.
- The PN NEVER calls or leads facility team meetings.
- The PN NEVER interrupts doctors during rounds or gathers charts from the nurse's station.
- The PN NEVER proves cost analysis of home care vs LTC.
- The PN NEVER tells families to refuse discharge or go Against Medical Advice (AMA).

POSITIVE CONSTRAINTS (What a PN ACTUALLY does):
- The PN focuses entirely on Home Health Agency (HHA) coordination and transition logistics.
- Valid PN friction includes: HHA weekend admission scheduling limits, delays in Durable Medical Equipment (DME) delivery to the home, family caregiver training gaps, or discrepancies in the medication list at handoff.

Rules for Format 2 (Triples):
3. The situation must involve a specific stakeholder bottleneck WITHIN THE PN's SCOPE (e.g., HHA not returning calls, DME vendor backordered, family caregiver not trained on wound care, medication list mismatch between facility and home).
4. The action_taken must be a specific field maneuver that a PN would realistically take, not a Social Worker action.
5. The tactical_field_intent MUST contain a political or operational trade-off that a 20-year PN veteran could debate. Use PN-specific motives (e.g., 'Lock in the HHA admission slot before the weekend so the discharge does not slip to Monday').

Rules for Format 3 (RL Scenarios):
6. The format_3_rl_scenario MUST contain exactly THREE options for a single difficult dilemma.
7. You must generate one "Passive" option, one "Proactive" option, and one "Overstep" option.
8. CRITICAL: The description for all three options must sound highly professional, reasonable, and tempting.
   - "Passive" means the PN waits for the SW/facility to handle everything and fails to follow up on HHA setup or home equipment.
   - "Proactive" means the PN takes a great field action WITHIN THEIR SCOPE (e.g., confirming the HHA admission date, verifying supplies are waiting at home, educating the family on what to expect on Day 1, checking weekend HHA availability).
   - "Overstep" MUST feature the PN accidentally doing the Social Worker's job (e.g., handling discharge documentation, confronting facility staff, calling the patient's insurance, or drafting clinical notes). It must still sound like good patient advocacy to a rookie.
9. narrative_summary must be 3-5 sentences capturing the home health transition arc, not the facility discharge process.
10. Output ONLY the JSON object. Do not include markdown fences, explanation, or commentary.`

// Compose assembles the full generation prompt from the taxonomies, the
// retrieved exemplars, and the target variables.
func Compose(tax taxonomy.Set, exemplars []json.RawMessage, target Target) string {
	var sb strings.Builder

	sb.WriteString("=== STATIC TAXONOMIES ===\n\n")
	sb.WriteString("--- Friction Taxonomy (defines allowable time delays) ---\n")
	sb.WriteString(tax.Friction.Render())
	sb.WriteString("\n\n--- Action Taxonomy (defines Rank 1 success intents) ---\n")
	sb.WriteString(tax.Action.Render())
	sb.WriteString("\n\n--- Outcome Taxonomy (defines state transition triggers) ---\n")
	sb.WriteString(tax.Outcome.Render())

	sb.WriteString("\n\n=== FEW-SHOT REFERENCE CASES ===\n\n")
	fmt.Fprintf(&sb, "Here are %d real-world seed cases. Mimic their level of clinical detail, operational chaos, and formatting exactly:\n\n", len(exemplars))
	sb.WriteString(renderExemplars(exemplars))

	sb.WriteString("\n\n=== TASK ===\n\n")
	sb.WriteString("Generate 1 NEW synthetic patient case with the following target variables:\n\n")
	fmt.Fprintf(&sb, "- Patient: %s\n", target.Patient)
	fmt.Fprintf(&sb, "- Main Friction: %s\n", target.Friction)

	sb.WriteString("\nYou MUST strictly output valid JSON conforming to this schema and NO other text:\n\n")
	sb.WriteString(outputSchema)

	sb.WriteString("\n\n")
	sb.WriteString(rules)

	return sb.String()
}

// renderExemplars re-serializes the exemplar payloads as one indented JSON
// array. Sorted-key marshaling keeps the text stable for identical inputs.
func renderExemplars(exemplars []json.RawMessage) string {
	decoded := make([]any, 0, len(exemplars))
	for _, ex := range exemplars {
		var v any
		if err := json.Unmarshal(ex, &v); err != nil {
			continue // retrieval guarantees valid JSON; skip anything else
		}
		decoded = append(decoded, v)
	}
	b, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}
