package generate

import (
	"math/rand"

	"github.com/navworks/caseforge/internal/prompt"
)

// Sampler chooses the target variables for each case in a batch.
type Sampler interface {
	Next() prompt.Target
}

// FixedSampler returns the same target for every case; used when the run is
// configured with explicit patient/friction overrides.
type FixedSampler struct {
	Target prompt.Target
}

func (s FixedSampler) Next() prompt.Target { return s.Target }

// DefaultPatients is the patient profile catalogue for randomized batches.
var DefaultPatients = []string{
	"88yo Male, Bilateral TKA",
	"78yo Female, CHF",
	"65yo Male, COPD exacerbation",
	"72yo Female, Hip fracture ORIF",
	"81yo Male, Stroke rehab",
	"69yo Female, Diabetic wound care",
	"75yo Male, Cardiac bypass recovery",
	"83yo Female, Pneumonia post-ICU",
	"70yo Male, Spinal fusion",
	"77yo Female, Renal failure transition",
	"86yo Male, Dementia with fall history",
	"74yo Female, Cancer post-chemo rehab",
	"79yo Male, Amputation rehab",
	"68yo Female, Multiple sclerosis flare",
	"82yo Male, Parkinson's with UTI",
}

// DefaultFrictions is the friction catalogue for randomized batches.
var DefaultFrictions = []string{
	"Managed Medicare Auth",
	"Family Conflict Over Discharge",
	"SW Gatekeeping Records",
	"Facility Pushing Early Discharge",
	"Missing Physician Signature",
	"Insurance Denial of Home Services",
	"Bed Availability Crisis",
	"Weekend Coverage Gap",
	"Medication Reconciliation Delay",
	"Transport Coordination Failure",
}

// RandomSampler draws uniformly from the patient and friction catalogues.
type RandomSampler struct {
	Rand      *rand.Rand
	Patients  []string
	Frictions []string
}

// NewRandomSampler builds a sampler over the default catalogues.
func NewRandomSampler(rng *rand.Rand) *RandomSampler {
	return &RandomSampler{
		Rand:      rng,
		Patients:  DefaultPatients,
		Frictions: DefaultFrictions,
	}
}

func (s *RandomSampler) Next() prompt.Target {
	return prompt.Target{
		Patient:  s.Patients[s.Rand.Intn(len(s.Patients))],
		Friction: s.Frictions[s.Rand.Intn(len(s.Frictions))],
	}
}
