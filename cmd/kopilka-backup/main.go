// kopilka-backup exports the ledger to a backup file or restores it from
// one, against the same backend the server uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"kopilka/internal/cli"
	"kopilka/internal/codec"
)

func main() {
	exportJSON := flag.String("export-json", "", "write a JSON backup to the given file")
	exportCSV := flag.String("export-csv", "", "write a CSV transaction export to the given file")
	importPath := flag.String("import", "", "replace the ledger with the given JSON backup")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupDefaultLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg)

	modes := 0
	for _, v := range []string{*exportJSON, *exportCSV, *importPath} {
		if v != "" {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintln(os.Stderr, "exactly one of -export-json, -export-csv or -import is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	store, closeStore := cli.OpenStore(ctx, logger, cfg)
	defer closeStore()

	switch {
	case *exportJSON != "":
		snap := store.Snapshot()
		out, err := codec.ExportJSON(snap.Transactions, snap.Categories, time.Now())
		if err != nil {
			logger.Error("JSON export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*exportJSON, out, 0644); err != nil {
			logger.Error("Failed to write backup file", "error", err, "path", *exportJSON)
			os.Exit(1)
		}
		logger.Info("Ledger exported",
			"path", *exportJSON,
			"transactions", len(snap.Transactions),
			"categories", len(snap.Categories))

	case *exportCSV != "":
		snap := store.Snapshot()
		if err := os.WriteFile(*exportCSV, []byte(codec.ExportCSV(snap.Transactions)), 0644); err != nil {
			logger.Error("Failed to write CSV file", "error", err, "path", *exportCSV)
			os.Exit(1)
		}
		logger.Info("Transactions exported", "path", *exportCSV, "transactions", len(snap.Transactions))

	case *importPath != "":
		content, err := os.ReadFile(*importPath)
		if err != nil {
			logger.Error("Failed to read backup file", "error", err, "path", *importPath)
			os.Exit(1)
		}
		data, err := codec.ImportJSON(content)
		if err != nil {
			logger.Error("Backup rejected, ledger unchanged", "error", err, "path", *importPath)
			os.Exit(1)
		}
		store.Restore(ctx, data.Categories, data.Transactions)
		logger.Info("Ledger restored",
			"path", *importPath,
			"transactions", len(data.Transactions),
			"categories", len(data.Categories))
	}
}
