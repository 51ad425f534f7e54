package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearProfilesCmd = &cobra.Command{
	Use:   "clear-profiles",
	Short: "Delete every stored user profile",
	Long:  `Delete all profiles. Each user gets a fresh profile the next time they save one.`,
	RunE:  runClearProfiles,
}

func init() {
	rootCmd.AddCommand(clearProfilesCmd)
}

func runClearProfiles(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.ClearProfiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d profiles.\n", n)
	return nil
}
