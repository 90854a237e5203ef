package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gobd/feelgen/internal/commands"
)

var version = "dev" // Will be set during build

func main() {
	rootCmd := &cobra.Command{
		Use:   "feelgen",
		Short: "Generate FEEL validation rules from OpenAPI documents",
		Long: `feelgen compiles the required fields of OpenAPI 3 request bodies into FEEL
expressions that a process engine can evaluate against incoming payloads.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		commands.NewGenerateCommand(),
		commands.NewVersionCommand(version),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
