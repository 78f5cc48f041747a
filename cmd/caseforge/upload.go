package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navworks/caseforge/internal/config"
	"github.com/navworks/caseforge/internal/upload"
)

func newUploadCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Bulk-insert validated cases into the downstream store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is not set")
			}
			if dir == "" {
				dir = cfg.OutputDir
			}

			records, err := upload.LoadDir(dir, cfg.BatchID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found %d case file(s) in %s\n", len(records), dir)

			store, err := upload.New(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.InsertCases(cmd.Context(), records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d row(s) into synthetic_cases.\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory of case files (defaults to OUTPUT_DIR)")
	return cmd
}
