package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"intentgate/authz"
	"intentgate/intent"
	"intentgate/ledger"
	"intentgate/session"
	"intentgate/tools"
	"intentgate/vcs"
	"intentgate/workspace"
)

var serveModelID string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gate as an MCP tool server over SSE",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.Default()

		root, err := filepath.Abs(rootDir)
		if err != nil {
			return fmt.Errorf("resolve root: %w", err)
		}

		store := intent.NewStore(workspace.IntentsPath(root), logger)
		engine := authz.NewEngine(store, session.NewMemoryStore(), authz.DefaultRules(), logger)
		led := ledger.New(workspace.LedgerPath(root), vcs.NewGit(root, logger), logger)

		registry := tools.NewRegistry()
		registry.Register(tools.NewWriteTool())
		registry.Register(tools.NewEditTool())

		contributor := ledger.Contributor{
			EntityType:      ledger.EntityAI,
			ModelIdentifier: serveModelID,
		}
		gate := NewGateServer(engine, led, store, registry, root, contributor, logger)

		url, err := gate.Start()
		if err != nil {
			return fmt.Errorf("start MCP server: %w", err)
		}
		logger.Info("intentgate serving", "url", url, "root", root, "intents", store.Path())
		fmt.Println(url)

		watcher, err := intent.WatchSource(store, logger, nil)
		if err != nil {
			// the store re-reads per lookup, so serving without the
			// watcher only loses change logging
			logger.Warn("intent source watch unavailable", "error", err)
		} else {
			defer watcher.Close()
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		return gate.Stop()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveModelID, "model-id", "unknown", "model identifier recorded as the contributor of mutations")
	rootCmd.AddCommand(serveCmd)
}
