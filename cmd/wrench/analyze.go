package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/workshopkit/wrench/internal/cli"
	"github.com/workshopkit/wrench/internal/common"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [description]",
		Short: "Classify one maintenance description",
		Long: `Analyze a free-text maintenance description and report which spare-part
and labor categories it mentions, with a confidence score per category.

Examples:
  # Analyze a description
  wrench analyze "replaced the oil filter and changed hydraulic hoses"

  # Emit the result as JSON
  wrench analyze --json "soldadura de cilindro y cambio retenes"

  # Persist the audit trail for maintenance record 42
  wrench analyze --source-id 42 --save "service general completo"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().Bool("json", false, "print the result as JSON")
	cmd.Flags().Int64("source-id", 0, "maintenance record id this description belongs to")
	cmd.Flags().Bool("save", false, "persist classification audit records (requires --source-id)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	description := strings.Join(args, " ")

	asJSON, _ := cmd.Flags().GetBool("json")
	sourceID, _ := cmd.Flags().GetInt64("source-id")
	save, _ := cmd.Flags().GetBool("save")

	if save && sourceID == 0 {
		return common.NewUserError("--save requires --source-id", nil)
	}

	eng, store, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	var sourceIDPtr *int64
	if sourceID != 0 {
		sourceIDPtr = &sourceID
	}

	result, err := eng.Analyze(cmd.Context(), description, sourceIDPtr)
	if err != nil {
		return err
	}

	if save {
		records := result.Records(description)
		if len(records) > 0 {
			if err := store.SaveClassifications(cmd.Context(), records); err != nil {
				return fmt.Errorf("failed to save audit records: %w", err)
			}
			cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Saved %d audit record(s)", len(records))))
		}
	}

	if asJSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	cmd.Print(cli.RenderAnalysis(result))
	return nil
}
