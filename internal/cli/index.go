package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pathshala/pathshala/internal/index"
)

// indexCmd loads pre-chunked curriculum content into the vector index.
// Chunking and diagram extraction happen in the external indexing
// pipeline; this command only embeds and stores its output.
var indexCmd = &cobra.Command{
	Use:   "index [chunks.jsonl]",
	Short: "Ingest a JSONL chunk file into the vector index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		count, err := index.IngestFile(context.Background(), application.index, application.embedder, args[0])
		if err != nil {
			return err
		}
		color.Green("Indexed %d chunks from %s (%d total in collection)", count, args[0], application.index.Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
