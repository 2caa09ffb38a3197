package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"intentgate/intent"
	"intentgate/workspace"
)

var intentsJSON bool

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "List the intents defined in the intent source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := intent.NewStore(workspace.IntentsPath(rootDir), slog.Default())
		intents := store.LoadAll(context.Background())

		if intentsJSON {
			out, err := json.MarshalIndent(intents, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(intents) == 0 {
			fmt.Println("no intents defined")
			return nil
		}
		for _, it := range intents {
			scope := "unrestricted"
			if len(it.OwnedScope) > 0 {
				scope = strings.Join(it.OwnedScope, ", ")
			}
			fmt.Printf("%-12s %-12s %s (scope: %s)\n", it.ID, it.Status, it.Name, scope)
		}
		return nil
	},
}

func init() {
	intentsCmd.Flags().BoolVar(&intentsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(intentsCmd)
}
