package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "caseforge",
		Short: "Retrieval-grounded synthetic patient case generation",
	}

	root.AddCommand(newIngestCmd())
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newUploadCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
