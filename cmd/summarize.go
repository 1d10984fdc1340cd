package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/godataset/internal/dataset/inbound"
	"github.com/shandysiswandi/godataset/internal/dataset/usecase"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSummarizeCmd() *cobra.Command {
	var (
		previewLimit int
		format       string
	)

	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize a local CSV file without starting the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if previewLimit < 0 {
				return fmt.Errorf("--preview-limit must not be negative")
			}

			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported --format: %s (use json|yaml)", format)
			}

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			var out any
			summary, parseErr := usecase.Summarize(data, previewLimit)
			if parseErr != nil {
				out = inbound.NewErrorResponse(parseErr)
			} else {
				out = inbound.NewSummaryResponse(filepath.Base(path), summary)
			}

			w := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(out); err != nil {
					return err
				}
				if err := enc.Close(); err != nil {
					return err
				}
			} else {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				if err := enc.Encode(out); err != nil {
					return err
				}
			}

			return parseErr
		},
	}

	cmd.Flags().IntVar(&previewLimit, "preview-limit", usecase.DefaultPreviewLimit, "number of preview rows")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json|yaml")

	return cmd
}
