// Package workspace resolves where the backing files live relative to
// the configurable root directory.
package workspace

import "path/filepath"

// Dir is the well-known subdirectory holding both backing files.
const Dir = ".intentgate"

const (
	intentsFile = "intents.yaml"
	ledgerFile  = "ledger.jsonl"
)

// IntentsPath returns the intent source location under root.
func IntentsPath(root string) string {
	return filepath.Join(root, Dir, intentsFile)
}

// LedgerPath returns the audit ledger location under root.
func LedgerPath(root string) string {
	return filepath.Join(root, Dir, ledgerFile)
}
