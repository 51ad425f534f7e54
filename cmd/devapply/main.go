// Package main provides the entry point for the DevApply HTTP API server
// and its maintenance commands.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/devapply/devapply/internal/db"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devapply",
	Short: "DevApply job application tracker API",
	Long:  "DevApply tracks job applications, interview journals and resume versions, and runs AI-assisted mock interviews over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// connectDB opens the database named by DATABASE_URL.
func connectDB(ctx context.Context) (*db.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return db.Connect(ctx, databaseURL)
}
