package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/navworks/caseforge/internal/config"
	"github.com/navworks/caseforge/internal/generate"
	"github.com/navworks/caseforge/internal/index"
	"github.com/navworks/caseforge/internal/llm"
	"github.com/navworks/caseforge/internal/prompt"
	"github.com/navworks/caseforge/internal/taxonomy"
)

// Generation defaults for the external call.
const (
	defaultMaxTokens   = 8192
	defaultTemperature = 0.8
)

func newGenerateCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a batch of synthetic cases grounded in retrieved seeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			apiKey := cfg.GeneratorAPIKey()
			if apiKey == "" {
				return fmt.Errorf("no API key set for provider %q", cfg.Provider)
			}
			if cfg.GeminiAPIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY is not set; retrieval needs it to embed queries")
			}

			// Taxonomies are load-bearing: fail before touching anything else.
			taxonomies, err := taxonomy.Load(cfg.TaxonomyDir)
			if err != nil {
				return err
			}

			ix, err := index.Open(cfg.IndexPath, cfg.Collection, index.GeminiEmbedding(cfg.GeminiAPIKey, cfg.EmbeddingModel))
			if err != nil {
				return err
			}

			provider, err := llm.NewProvider(cfg.Provider, apiKey, cfg.Model)
			if err != nil {
				return err
			}

			if count <= 0 {
				count = cfg.BatchSize
			}

			orch := &generate.Orchestrator{
				Provider:      provider,
				Retriever:     ix,
				Taxonomies:    taxonomies,
				Sampler:       newSampler(cfg),
				OutDir:        cfg.OutputDir,
				RunID:         uuid.NewString()[:8],
				MinComplexity: cfg.MinComplexity,
				Exemplars:     cfg.Exemplars,
				MaxTokens:     defaultMaxTokens,
				Temperature:   defaultTemperature,
				Progress:      cmd.OutOrStdout(),
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Starting batch generation: %d case(s), provider %s, model %s, complexity >= %d\n",
				count, cfg.Provider, cfg.Model, cfg.MinComplexity)

			_, err = orch.Run(cmd.Context(), count)
			return err
		},
	}

	cmd.Flags().IntVar(&count, "count", 0, "number of cases to generate (defaults to BATCH_SIZE)")
	return cmd
}

// newSampler pins the target when the run configures one, otherwise samples
// from the catalogues.
func newSampler(cfg config.Config) generate.Sampler {
	if cfg.FixedTarget() {
		target := prompt.Target{Patient: cfg.TargetPatient, Friction: cfg.TargetFriction}
		if target.Patient == "" {
			target.Patient = "78yo Female, CHF"
		}
		if target.Friction == "" {
			target.Friction = "Managed Medicare Auth"
		}
		return generate.FixedSampler{Target: target}
	}
	return generate.NewRandomSampler(rand.New(rand.NewSource(time.Now().UnixNano())))
}
