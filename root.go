package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "intentgate",
	Short: "Authorization and audit gate for agent-driven mutations",
	Long: `intentgate sits between an agent and the files it mutates. No mutating
operation proceeds without a declared intent, every mutation must fall
within the intent's scope, and every successful mutation is recorded in
an append-only content-addressed ledger.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", ".", "workspace root directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
