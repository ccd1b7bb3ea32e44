package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/audit45/pkg/audit"
	"github.com/user/audit45/pkg/auditlog"
	"github.com/user/audit45/pkg/backend"
	"github.com/user/audit45/pkg/config"
	"github.com/user/audit45/pkg/dataset"
	"github.com/user/audit45/pkg/evidence"
	"github.com/user/audit45/pkg/findings"
	"github.com/user/audit45/pkg/logging"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run one audit over a checklist and evidence files",
	Run: func(cmd *cobra.Command, args []string) {
		dataPath, _ := cmd.Flags().GetString("data")
		evidencePaths, _ := cmd.Flags().GetStringSlice("evidence")
		backendName, _ := cmd.Flags().GetString("backend")
		modelName, _ := cmd.Flags().GetString("model")
		clauseHint, _ := cmd.Flags().GetString("clause-hint")
		presetPath, _ := cmd.Flags().GetString("preset")
		outPath, _ := cmd.Flags().GetString("out")

		logger := logging.New(DebugMode)
		defer logger.Sync()

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		// Flags override the stored selection for this invocation only; the
		// resulting config struct is the single source of backend/model
		// truth from here on.
		if backendName != "" {
			cfg.Backend = backendName
		}
		if modelName != "" {
			cfg.SetModelFor(cfg.Backend, modelName)
		}

		cl, err := dataset.ReadCSV(dataPath)
		if err != nil {
			fmt.Printf("Error loading checklist: %v\n", err)
			return
		}
		if !cl.ValidateSchema() {
			fmt.Println("Error: checklist CSV needs a clause column plus a title or question column.")
			fmt.Printf("Detected columns: %v\n", cl.Columns)
			return
		}

		var weights map[string]float64
		if presetPath != "" {
			preset, err := dataset.LoadPreset(presetPath)
			if err != nil {
				fmt.Printf("Warning: preset load failed: %v\n", err)
			} else {
				weights = preset.KeywordsWeight
				if clauseHint == "" {
					clauseHint = preset.ClauseHint
				}
			}
		}

		evDigest := evidence.DigestFiles(evidencePaths)
		ctxRows := cl.SelectRelevant(clauseHint, weights)

		ctx := context.Background()
		gen, err := backend.New(ctx, cfg.BackendConfig(), logger)
		if err != nil {
			fmt.Printf("Error creating backend: %v\n", err)
			return
		}
		if closer, ok := gen.(interface{ Close() }); ok {
			defer closer.Close()
		}

		model := cfg.ModelFor(cfg.Backend)
		fmt.Printf("Backend=%s, Model=%s, ClauseHint='%s', Evidence=%d file(s)\n",
			cfg.Backend, model, clauseHint, len(evidencePaths))

		start := time.Now()
		result := audit.New(gen, logger).Run(ctx, ctxRows, evDigest, clauseHint)
		elapsed := time.Since(start)

		if result.UsedBaseline {
			fmt.Println("Backend unavailable; results come from the offline rule baseline.")
		}
		fmt.Println(findings.MarshalCompact(result.Object))

		auditID := audit.AuditID(start, evDigest)
		fmt.Printf("Audit ID: %s\n", auditID)

		csvBytes, err := auditlog.ExportCSV(auditID, cfg.Backend, model, result.Findings)
		if err != nil {
			fmt.Printf("Error building CSV: %v\n", err)
			return
		}
		if outPath != "" {
			if err := os.WriteFile(outPath, csvBytes, 0644); err != nil {
				fmt.Printf("Error writing CSV: %v\n", err)
				return
			}
			fmt.Printf("Findings CSV written to %s\n", outPath)
		}

		logPath, err := auditlog.Write(cfg.LogDir, start, auditlog.Record{
			AuditID:       auditID,
			Backend:       cfg.Backend,
			Model:         model,
			ClauseHint:    clauseHint,
			HashEvidence:  audit.SHA1Hex(evDigest)[:8],
			HashCSV:       audit.SHA1Hex(string(csvBytes))[:8],
			FindingsCount: len(result.Findings),
			Version:       Version,
			ElapsedTime:   elapsed.Seconds(),
		})
		if err != nil {
			fmt.Printf("Warning: audit log write failed: %v\n", err)
			return
		}
		fmt.Printf("Audit log recorded: %s\n", logPath)
	},
}

func init() {
	auditCmd.Flags().StringP("data", "d", "", "Checklist CSV path (required)")
	auditCmd.Flags().StringSliceP("evidence", "e", nil, "Evidence file paths")
	auditCmd.Flags().StringP("backend", "b", "", "Backend name (openai, ollama, lmstudio, gemini)")
	auditCmd.Flags().StringP("model", "m", "", "Model name override")
	auditCmd.Flags().String("clause-hint", "", "Clause number hint (e.g. 6.1)")
	auditCmd.Flags().String("preset", "", "Workshop preset profile JSON")
	auditCmd.Flags().StringP("out", "o", "", "Write findings CSV to this path")
	auditCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(auditCmd)
}
