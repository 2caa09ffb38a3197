package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"intentgate/ledger"
	"intentgate/workspace"
)

var (
	ledgerJSON   bool
	ledgerVerify bool
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the audit ledger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := workspace.LedgerPath(rootDir)
		records, err := ledger.ReadRecords(path)
		if err != nil {
			return fmt.Errorf("ledger at %s: %w", path, err)
		}

		if ledgerVerify {
			fmt.Printf("%d records, all well-formed\n", len(records))
			return nil
		}
		if ledgerJSON {
			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(records) == 0 {
			fmt.Println("ledger is empty")
			return nil
		}
		for _, rec := range records {
			intentID := "-"
			if rec.IntentID != nil {
				intentID = *rec.IntentID
			}
			for _, f := range rec.Files {
				hash := ""
				if len(f.Ranges) > 0 {
					hash = f.Ranges[0].ContentHash
				}
				fmt.Printf("%s  %-12s %-18s %s  %s\n",
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					intentID, f.MutationClass, f.RelativePath, hash)
			}
		}
		return nil
	},
}

func init() {
	ledgerCmd.Flags().BoolVar(&ledgerJSON, "json", false, "output as JSON")
	ledgerCmd.Flags().BoolVar(&ledgerVerify, "verify", false, "check every ledger line parses")
	rootCmd.AddCommand(ledgerCmd)
}
