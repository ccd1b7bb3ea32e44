package main

import (
	"github.com/joho/godotenv"

	"github.com/user/audit45/cmd"
)

func main() {
	// Optional .env for API keys and local server URLs; absence is fine.
	_ = godotenv.Load()
	cmd.Execute()
}
