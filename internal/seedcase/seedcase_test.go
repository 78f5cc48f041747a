package seedcase

import (
	"strings"
	"testing"
)

const fullSeed = `{
  "case_header": {"case_id": "S1", "complexity_score": 5, "outcome": "Successful transition"},
  "clinical_logic": {"clinical_barriers": ["Wound vac dependency", "IV antibiotics"], "skilled_need_verified": "Yes"},
  "environmental_logic": {"physical_barriers": "Three steps at entry, no rail", "modification_type": ["Managed Medicare Auth", "Ramp install"]},
  "reasoning_trace_triples": [
    {"situation": "HHA not returning calls", "action": "Called intake coordinator directly", "intent": "Lock weekend admission slot"}
  ],
  "unscripted_chaos_signals": ["Family anxious about weekend coverage"]
}`

func TestParse_FullDocument(t *testing.T) {
	sc, err := Parse([]byte(fullSeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.CaseHeader.CaseID != "S1" {
		t.Errorf("case_id = %q, want S1", sc.CaseHeader.CaseID)
	}
	if sc.CaseHeader.ComplexityScore != 5 {
		t.Errorf("complexity_score = %d, want 5", sc.CaseHeader.ComplexityScore)
	}
	if !sc.ClinicalLogic.SkilledNeedVerified {
		t.Error("skilled_need_verified should decode Yes as true")
	}
	if got := sc.PrimaryFriction(); got != "Managed Medicare Auth" {
		t.Errorf("PrimaryFriction = %q, want Managed Medicare Auth", got)
	}
}

func TestParse_MissingHeader(t *testing.T) {
	_, err := Parse([]byte(`{"clinical_logic": {}}`))
	if err == nil {
		t.Fatal("expected error for document without case_header")
	}
}

func TestParse_MalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestStringList_AcceptsBareString(t *testing.T) {
	doc := `{
	  "case_header": {"case_id": "S2"},
	  "clinical_logic": {"clinical_barriers": "Single barrier as string"},
	  "environmental_logic": {"modification_type": "Weekend Coverage Gap"}
	}`
	sc, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(sc.ClinicalLogic.ClinicalBarriers) != 1 || sc.ClinicalLogic.ClinicalBarriers[0] != "Single barrier as string" {
		t.Errorf("clinical_barriers = %v, want one-element slice", sc.ClinicalLogic.ClinicalBarriers)
	}
	if got := sc.PrimaryFriction(); got != "Weekend Coverage Gap" {
		t.Errorf("PrimaryFriction = %q, want Weekend Coverage Gap", got)
	}
}

func TestFlexInt_QuotedAndGarbage(t *testing.T) {
	sc, err := Parse([]byte(`{"case_header": {"case_id": "S3", "complexity_score": "7"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.CaseHeader.ComplexityScore != 7 {
		t.Errorf("quoted complexity_score = %d, want 7", sc.CaseHeader.ComplexityScore)
	}

	sc, err = Parse([]byte(`{"case_header": {"case_id": "S4", "complexity_score": "high"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sc.CaseHeader.ComplexityScore != 0 {
		t.Errorf("garbage complexity_score = %d, want 0", sc.CaseHeader.ComplexityScore)
	}
}

func TestPrimaryFrictionAndOutcome_Defaults(t *testing.T) {
	sc, err := Parse([]byte(`{"case_header": {"case_id": "S5"}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := sc.PrimaryFriction(); got != "Unknown" {
		t.Errorf("PrimaryFriction = %q, want Unknown", got)
	}
	if got := sc.Outcome(); got != "Unknown" {
		t.Errorf("Outcome = %q, want Unknown", got)
	}
}

func TestDocumentString_OrderAndContent(t *testing.T) {
	sc, err := Parse([]byte(fullSeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	doc := sc.DocumentString()

	wantOrder := []string{"Clinical Barriers:", "Physical Barriers:", "Reasoning:", "Chaos Signals:"}
	last := -1
	for _, section := range wantOrder {
		i := strings.Index(doc, section)
		if i < 0 {
			t.Fatalf("document string missing section %q: %s", section, doc)
		}
		if i < last {
			t.Errorf("section %q out of order in %q", section, doc)
		}
		last = i
	}
	if !strings.Contains(doc, "HHA not returning calls [Lock weekend admission slot]") {
		t.Errorf("document string missing triple summary: %s", doc)
	}

	if sc.DocumentString() != doc {
		t.Error("DocumentString should be stable across calls")
	}
}
