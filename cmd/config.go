package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/audit45/pkg/backend"
	"github.com/user/audit45/pkg/config"
	"github.com/user/audit45/pkg/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (backends, models, keys)",
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set API key for a hosted backend",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("backend")
		key, _ := cmd.Flags().GetString("key")

		if name == "" || key == "" {
			fmt.Println("Error: --backend and --key are required")
			return
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		switch strings.ToLower(name) {
		case "openai":
			cfg.OpenAI.APIKey = key
		case "gemini":
			cfg.Gemini.APIKey = key
		default:
			fmt.Printf("Backend %s does not use an API key.\n", name)
			return
		}

		if err := config.Save(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("API key saved for backend: %s\n", name)
	},
}

var setBackendCmd = &cobra.Command{
	Use:   "set-backend",
	Short: "Manually set the active backend and model",
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("backend")
		model, _ := cmd.Flags().GetString("model")

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		if name != "" {
			cfg.Backend = strings.ToLower(name)
		}
		if model != "" {
			cfg.SetModelFor(cfg.Backend, model)
		}

		if err := config.Save(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}
		fmt.Printf("Active configuration updated: Backend=%s, Model=%s\n", cfg.Backend, cfg.ModelFor(cfg.Backend))
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured backend",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Println("Error loading config:", err)
			return
		}

		fmt.Printf("Fetching models for %s...\n", cfg.Backend)
		ctx := context.Background()
		logger := logging.New(DebugMode)
		defer logger.Sync()

		gen, err := backend.New(ctx, cfg.BackendConfig(), logger)
		if err != nil {
			fmt.Println("Error initializing backend:", err)
			return
		}
		if closer, ok := gen.(interface{ Close() }); ok {
			defer closer.Close()
		}

		models, err := gen.ListModels(ctx)
		if err != nil {
			fmt.Println("Error fetching models:", err)
			return
		}

		selected := cfg.ModelFor(cfg.Backend)
		fmt.Printf("\nAvailable Models (%s):\n", cfg.Backend)
		for _, m := range models {
			mark := " "
			if m == selected {
				mark = "*"
			}
			fmt.Printf("%s %s\n", mark, m)
		}
	},
}

func init() {
	setKeyCmd.Flags().StringP("backend", "b", "", "Backend (openai, gemini)")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setBackendCmd.Flags().StringP("backend", "b", "", "Backend (openai, ollama, lmstudio, gemini)")
	setBackendCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setBackendCmd)
	configCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
