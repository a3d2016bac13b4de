// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/crossref-reconcile/internal/crossref"
	"github.com/pdiddy/crossref-reconcile/internal/reconcile"
	"github.com/pdiddy/crossref-reconcile/pkg/types"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match citations against Crossref from the command line",
	Long: `Reconcile runs the matching engine once, without the HTTP service. Pass a
single citation with --title (plus optional --author, --type, --year), or a
YAML batch file with --batch. Results print as a table, JSON, or a YAML
result file.`,
	Example: `  # One citation
  crossref-reconcile reconcile --title "Attention Is All You Need" --author Vaswani

  # A batch file, written back as YAML
  crossref-reconcile reconcile --batch queries.yaml --out results.yaml`,
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	batchPath, _ := cmd.Flags().GetString("batch")
	title, _ := cmd.Flags().GetString("title")

	cfg := loadConfig()
	catalog := crossref.NewClient(cfg.Catalog)
	engine := reconcile.NewEngine(catalog, cfg.Match)

	if batchPath != "" {
		return runReconcileBatch(cmd, engine, batchPath)
	}
	if title == "" {
		return fmt.Errorf("citation title required: provide --title or --batch")
	}

	author, _ := cmd.Flags().GetString("author")
	pubType, _ := cmd.Flags().GetString("type")
	year, _ := cmd.Flags().GetInt("year")

	scored, err := engine.Process(context.Background(), types.CitationQuery{
		Title:           title,
		Author:          author,
		PublicationType: pubType,
		PublicationYear: year,
	})
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatCandidates(scored, jsonOutput)
}

func runReconcileBatch(cmd *cobra.Command, engine *reconcile.Engine, path string) error {
	batch, err := reconcile.ReadBatchFile(path)
	if err != nil {
		return err
	}

	result, err := engine.ProcessBatch(context.Background(), batch)
	if err != nil {
		return err
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := reconcile.WriteResultFile(out, result); err != nil {
			return err
		}
		fmt.Printf("Wrote %d result(s) to %s\n", len(result.Keys), out)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func formatCandidates(scored []types.ScoredCandidate, jsonOutput bool) error {
	candidates := reconcile.Project(scored)

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(candidates)
	}

	if len(candidates) == 0 {
		fmt.Println("No candidates found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-60s  %-20s  %s\n", "Score", "Title", "Type", "DOI")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, c := range candidates {
		title := c.Name
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		pubType := ""
		if len(c.Type) > 0 {
			pubType = c.Type[0].Name
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-60s  %-20s  %s\n", c.Score, title, pubType, c.ID)
	}

	fmt.Printf("\n%d candidate(s)\n", len(candidates))
	return nil
}

func init() {
	reconcileCmd.Flags().String("title", "", "citation title to match")
	reconcileCmd.Flags().String("author", "", "family name of the first author")
	reconcileCmd.Flags().String("type", "", "restrict to an exact publication type (e.g. journal-article)")
	reconcileCmd.Flags().Int("year", 0, "restrict to an exact publication year")
	reconcileCmd.Flags().String("batch", "", "YAML batch file of citations")
	reconcileCmd.Flags().String("out", "", "write batch results to a YAML file")
	reconcileCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(reconcileCmd)
}
