// Package generate drives the batch generation loop: sample a target,
// retrieve exemplars, compose the prompt, call the generator through the
// retry policy, validate, persist. One attempt is in flight at a time; a
// case that exhausts its attempts is counted and the batch moves on.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/navworks/caseforge/internal/llm"
	"github.com/navworks/caseforge/internal/prompt"
	"github.com/navworks/caseforge/internal/schema"
	"github.com/navworks/caseforge/internal/taxonomy"
)

// Retriever supplies exemplar payloads for prompt grounding. The vector
// index implements it; tests substitute a stub.
type Retriever interface {
	Retrieve(ctx context.Context, query string, minComplexity, n int) ([]json.RawMessage, error)
}

// Orchestrator owns every handle a run needs. Nothing here is ambient: the
// provider, retriever, and clock are all injected so the attempt loop is
// testable without a network or real time.
type Orchestrator struct {
	Provider   llm.Provider
	Retriever  Retriever
	Taxonomies taxonomy.Set
	Sampler    Sampler
	Policy     Policy

	OutDir        string
	RunID         string // distinguishes output filenames across runs
	MinComplexity int
	Exemplars     int
	MaxTokens     int
	Temperature   float64

	// Sleep defaults to time.Sleep; tests inject a recorder.
	Sleep func(time.Duration)
	// Progress receives per-case and end-of-batch reporting; defaults to
	// stdout.
	Progress io.Writer
}

// Report counts terminal outcomes across a batch.
type Report struct {
	Successes int
	Failures  int
}

// rawPreviewLen bounds how much of a rejected response is logged.
const rawPreviewLen = 500

// Run generates count cases. Per-case failures never abort the batch; the
// only errors returned are misconfiguration caught before any generation
// begins.
func (o *Orchestrator) Run(ctx context.Context, count int) (Report, error) {
	if o.Provider == nil {
		return Report{}, fmt.Errorf("generate: no provider configured")
	}
	if o.Retriever == nil {
		return Report{}, fmt.Errorf("generate: no retriever configured")
	}
	if o.Sampler == nil {
		return Report{}, fmt.Errorf("generate: no sampler configured")
	}
	if o.Policy.MaxAttempts <= 0 {
		o.Policy = DefaultPolicy
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.Progress == nil {
		o.Progress = os.Stdout
	}
	if err := os.MkdirAll(o.OutDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("generate: create output dir: %w", err)
	}

	var report Report
	for i := 0; i < count; i++ {
		target := o.Sampler.Next()
		fmt.Fprintf(o.Progress, "--- Case %d/%d --- Patient: %s | Friction: %s\n",
			i+1, count, target.Patient, target.Friction)

		if o.generateCase(ctx, target, i) {
			report.Successes++
		} else {
			report.Failures++
		}

		o.Sleep(o.Policy.InterCaseDelay)
	}

	fmt.Fprintf(o.Progress, "Done. Successes: %d, Failures: %d\n", report.Successes, report.Failures)
	return report, nil
}

// generateCase runs the attempt loop for one case and reports whether a
// validated output was persisted.
func (o *Orchestrator) generateCase(ctx context.Context, target prompt.Target, caseIndex int) bool {
	query := fmt.Sprintf("Bureaucratic delay with %s and clinical barriers", target.Friction)
	exemplars, err := o.Retriever.Retrieve(ctx, query, o.MinComplexity, o.Exemplars)
	if err != nil {
		// Retrieval degrades rather than failing the case: generation
		// proceeds without exemplars.
		fmt.Fprintf(o.Progress, "  retrieval failed, continuing without exemplars: %v\n", err)
		exemplars = nil
	} else {
		fmt.Fprintf(o.Progress, "  retrieved %d exemplar(s)\n", len(exemplars))
	}

	userPrompt := prompt.Compose(o.Taxonomies, exemplars, target)

	var lastErr error
	var lastRaw string
	for attempt := 1; attempt <= o.Policy.MaxAttempts; attempt++ {
		raw, err := o.Provider.Complete(ctx, prompt.SystemPrompt, userPrompt, o.MaxTokens, o.Temperature)
		if err == nil {
			lastRaw = raw
			sc, derr := o.decodeAndValidate(raw)
			if derr == nil {
				if werr := o.writeCase(sc, caseIndex); werr != nil {
					fmt.Fprintf(o.Progress, "  ERROR persisting case: %v\n", werr)
					return false
				}
				fmt.Fprintf(o.Progress, "  OK (attempt %d)\n", attempt)
				return true
			}
			err = derr
		}
		lastErr = err

		if attempt == o.Policy.MaxAttempts {
			break
		}
		class := classify(err)
		wait := o.Policy.backoff(class, attempt)
		if class == classRateLimited {
			fmt.Fprintf(o.Progress, "  rate limited (attempt %d), waiting %s\n", attempt, wait)
		} else {
			fmt.Fprintf(o.Progress, "  ERROR (attempt %d): %s, retrying in %s\n", attempt, truncate(err.Error(), 200), wait)
		}
		o.Sleep(wait)
	}

	fmt.Fprintf(o.Progress, "  FAILED after %d attempts: %v\n", o.Policy.MaxAttempts, lastErr)
	if lastRaw != "" {
		fmt.Fprintf(o.Progress, "  raw response (truncated): %s\n", truncate(lastRaw, rawPreviewLen))
	}
	return false
}

// decodeAndValidate routes a raw response through the schema contract.
func (o *Orchestrator) decodeAndValidate(raw string) (*schema.SyntheticCase, error) {
	sc, err := schema.Decode(raw)
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// writeCase persists one validated output. Filenames carry the run ID, so
// re-runs never collide with a prior run's artifacts.
func (o *Orchestrator) writeCase(sc *schema.SyntheticCase, caseIndex int) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal case: %w", err)
	}
	name := fmt.Sprintf("case_%s_%03d.json", o.RunID, caseIndex+1)
	path := filepath.Join(o.OutDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(o.Progress, "  saved -> %s\n", path)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
