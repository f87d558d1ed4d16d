package main

import (
	"os"

	"naat/pkg/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "naat",
	Short:         "Tontine groups API",
	Long:          `Serve the naat HTTP API and manage its database schema.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.NewFromEnv().Critical("naat: command failed", "command", commandName(os.Args), "err", err)
		os.Exit(1)
	}
}

func commandName(args []string) string {
	if len(args) < 2 {
		return rootCmd.Use
	}
	return args[1]
}
