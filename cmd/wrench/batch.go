package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/workshopkit/wrench/internal/cli"
	"github.com/workshopkit/wrench/internal/engine"
	"github.com/workshopkit/wrench/internal/model"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Classify many descriptions from a file",
		Long: `Analyze a file of maintenance descriptions, one per line. Lines may be
prefixed with a maintenance record id and a tab ("42<TAB>replaced oil
filter"); prefixed lines can be persisted to the audit trail with --save.

Results are printed in input order.`,
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().Bool("json", false, "print results as a JSON array")
	cmd.Flags().Bool("save", false, "persist audit records for lines carrying a source id")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")

	items, err := readBatchFile(args[0])
	if err != nil {
		return err
	}
	if len(items) == 0 {
		cmd.Println(cli.SubtleStyle.Render("No descriptions to analyze"))
		return nil
	}

	eng, store, err := newEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	bar := progressbar.NewOptions(len(items),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	// Chunked so the bar advances; the rule cache makes the repeated
	// rule set lookups free.
	const chunkSize = 64
	results := make([]*model.AnalysisResult, 0, len(items))
	for start := 0; start < len(items); start += chunkSize {
		end := min(start+chunkSize, len(items))
		chunk, err := eng.AnalyzeBatch(cmd.Context(), items[start:end])
		if err != nil {
			return err
		}
		results = append(results, chunk...)
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	if save {
		saved := 0
		for i, result := range results {
			records := result.Records(items[i].Description)
			if len(records) == 0 {
				continue
			}
			if err := store.SaveClassifications(cmd.Context(), records); err != nil {
				return fmt.Errorf("failed to save audit records for line %d: %w", i+1, err)
			}
			saved += len(records)
		}
		cmd.Println(cli.SuccessStyle.Render(fmt.Sprintf("Saved %d audit record(s)", saved)))
	}

	if asJSON {
		encoded, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode results: %w", err)
		}
		cmd.Println(string(encoded))
		return nil
	}

	for i, result := range results {
		cmd.Println(cli.BoldStyle.Render(fmt.Sprintf("--- line %d: %s", i+1, truncate(items[i].Description, 60))))
		cmd.Print(cli.RenderAnalysis(result))
	}

	return nil
}

// readBatchFile parses one description per line, with an optional
// "<source-id><TAB>" prefix.
func readBatchFile(path string) ([]engine.BatchItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	var items []engine.BatchItem
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		item := engine.BatchItem{Description: line}
		if id, rest, ok := splitSourceID(line); ok {
			item.SourceID = &id
			item.Description = rest
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	return items, nil
}

func splitSourceID(line string) (int64, string, bool) {
	idx := strings.IndexByte(line, '\t')
	if idx <= 0 {
		return 0, "", false
	}
	id, err := strconv.ParseInt(line[:idx], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, strings.TrimSpace(line[idx+1:]), true
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
