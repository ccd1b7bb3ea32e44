package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/audit45/pkg/backend"
	"github.com/user/audit45/pkg/config"
	"github.com/user/audit45/pkg/logging"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Run: func(cmd *cobra.Command, args []string) {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Welcome to audit45 Setup Wizard")
		fmt.Println("-------------------------------")

		// 1. Select Backend
		fmt.Println("Step 1: Choose your LLM backend")
		fmt.Println("1. OpenAI (hosted)")
		fmt.Println("2. Ollama (local)")
		fmt.Println("3. LM Studio (local)")
		fmt.Println("4. Gemini (hosted)")
		fmt.Print("Enter number or name > ")
		scanner.Scan()
		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))

		var backendName string
		switch choice {
		case "1", "openai":
			backendName = "openai"
		case "2", "ollama":
			backendName = "ollama"
		case "3", "lmstudio":
			backendName = "lmstudio"
		case "4", "gemini":
			backendName = "gemini"
		default:
			fmt.Println("Invalid choice. Aborting.")
			return
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}
		cfg.Backend = backendName

		// 2. API key (hosted backends only; local servers need none)
		switch backendName {
		case "openai", "gemini":
			fmt.Printf("\nStep 2: Enter API Key for %s\n", backendName)
			fmt.Print("> ")
			scanner.Scan()
			apiKey := strings.TrimSpace(scanner.Text())
			if apiKey == "" {
				fmt.Println("API Key cannot be empty.")
				return
			}
			if backendName == "openai" {
				cfg.OpenAI.APIKey = apiKey
			} else {
				cfg.Gemini.APIKey = apiKey
			}
		default:
			fmt.Println("\nStep 2: Local backend selected, no API key needed.")
		}

		// 3. Fetch Models
		fmt.Println("\nStep 3: Validating backend and fetching available models...")
		ctx := context.Background()
		logger := logging.New(DebugMode)
		defer logger.Sync()

		gen, err := backend.New(ctx, cfg.BackendConfig(), logger)
		if err != nil {
			fmt.Printf("Error initializing backend: %v\n", err)
			return
		}
		if closer, ok := gen.(interface{ Close() }); ok {
			defer closer.Close()
		}

		models, err := gen.ListModels(ctx)
		var selectedModel string

		if err != nil || len(models) == 0 {
			if err != nil {
				fmt.Printf("Warning: Could not fetch models: %v\n", err)
			}
			fmt.Println("Please enter model name manually (e.g., 'gpt-5', 'llama3:8b-instruct'):")
			fmt.Print("> ")
			scanner.Scan()
			selectedModel = strings.TrimSpace(scanner.Text())
		} else {
			fmt.Printf("Successfully retrieved %d models.\n", len(models))
			for i, m := range models {
				fmt.Printf("%d. %s\n", i+1, m)
			}
			fmt.Print("Select Model (number) > ")
			scanner.Scan()
			selStr := strings.TrimSpace(scanner.Text())
			selIdx, err := strconv.Atoi(selStr)
			if err != nil || selIdx < 1 || selIdx > len(models) {
				fmt.Println("Invalid selection. Using first available model.")
				selectedModel = models[0]
			} else {
				selectedModel = models[selIdx-1]
			}
		}

		// 4. Save Configuration
		fmt.Println("\nStep 4: Saving Configuration...")
		cfg.SetModelFor(backendName, selectedModel)

		if err := config.Save(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Println("-------------------------------")
		fmt.Println("Setup Complete!")
		fmt.Printf("Backend: %s\n", backendName)
		fmt.Printf("Model:   %s\n", selectedModel)
		fmt.Println("You can now run 'audit45 audit --data checklist.csv --evidence report.pdf'")
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
