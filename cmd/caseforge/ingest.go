package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navworks/caseforge/internal/config"
	"github.com/navworks/caseforge/internal/index"
	"github.com/navworks/caseforge/internal/ingest"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Index the seed case corpus into the vector store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.GeminiAPIKey == "" {
				return fmt.Errorf("GEMINI_API_KEY is not set; the indexer needs it to embed seed documents")
			}

			ix, err := index.Open(cfg.IndexPath, cfg.Collection, index.GeminiEmbedding(cfg.GeminiAPIKey, cfg.EmbeddingModel))
			if err != nil {
				return err
			}

			report, err := ingest.Run(cmd.Context(), cfg.SeedDir, ix)
			if err != nil {
				return err
			}

			for _, e := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %s\n", e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Ingestion complete: %d case(s) upserted into %q (%d skipped).\n",
				report.Count, cfg.Collection, len(report.Errors))
			return nil
		},
	}
}
