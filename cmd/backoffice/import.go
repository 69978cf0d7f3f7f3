package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/backoffice/pkg/importer"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import data from external feeds",
	}
	cmd.AddCommand(importMerchantsCmd())
	return cmd
}

func importMerchantsCmd() *cobra.Command {
	var (
		onConflict string
		reset      bool
		stopOn     []string
	)

	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Fetch the merchant feed and import it into the database",
		Long: `Fetch every merchant from the feed and write it with its lookups, address,
contacts and pix account. One failing merchant does not stop the run.

Examples:
  backoffice import merchants --on-conflict skip
  backoffice import merchants --on-conflict upsert --stop-on conflict,insert
  backoffice import merchants --on-conflict fail --reset`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportMerchants(cmd.Context(), onConflict, reset, stopOn, cmd.Flags().Changed("reset"), cmd.Flags().Changed("stop-on"))
		},
	}
	cmd.Flags().StringVar(&onConflict, "on-conflict", "", "policy for merchant slugs already stored: fail, skip or upsert (defaults to IMPORT_ON_CONFLICT)")
	cmd.Flags().BoolVar(&reset, "reset", false, "truncate every import table before importing (defaults to IMPORT_RESET)")
	cmd.Flags().StringSliceVar(&stopOn, "stop-on", nil, "failure kinds that abort the run: invalid, lookup, insert, conflict (defaults to IMPORT_STOP_ON)")
	return cmd
}

func runImportMerchants(ctx context.Context, onConflict string, reset bool, stopOn []string, resetSet, stopOnSet bool) error {
	a, sync, err := loadApp()
	if err != nil {
		return err
	}
	defer sync()

	if onConflict == "" {
		onConflict = a.cfg.ImportOnConflict
	}
	policy, err := importer.ParseOnConflict(onConflict)
	if err != nil {
		return err
	}
	if !resetSet {
		reset = a.cfg.ImportReset
	}
	if !stopOnSet {
		stopOn = a.cfg.ImportStopOn
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.connect(ctx, connectOptions{migrations: true, redis: true, kafka: true}); err != nil {
		return err
	}
	defer a.close(context.Background())

	runner, err := a.importFactory(importOptions{stopOn: stopOn, closeStore: true})(policy, reset)
	if err != nil {
		return err
	}
	summary, runErr := runner.Run(ctx)

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(out))

	if runErr != nil {
		return runErr
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d merchants failed", summary.Failed, summary.Total)
	}
	return nil
}
