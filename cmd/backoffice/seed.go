package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/backoffice/pkg/seed"
)

func seedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert reference data from a YAML file",
		Long: `Create or update categories, legal natures, sales agents, configurations
and fee tables by slug.

Example:
  backoffice seed --file seed.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := seed.Load(file)
			if err != nil {
				return err
			}

			a, sync, err := loadApp()
			if err != nil {
				return err
			}
			defer sync()

			if err := a.connect(cmd.Context(), connectOptions{migrations: true}); err != nil {
				return err
			}
			defer a.close(context.Background())

			stores := a.lookupStores()
			report, err := seed.NewSeeder(seed.Stores{
				Categories:     stores.Categories,
				LegalNatures:   stores.LegalNatures,
				SalesAgents:    stores.SalesAgents,
				Configurations: stores.Configurations,
				Fees:           stores.Fees,
			}, validateRecord, a.logger).Apply(cmd.Context(), doc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d, updated %d, failed %d\n", report.Created, report.Updated, len(report.Failures))
			for _, f := range report.Failures {
				fmt.Fprintln(out, "  "+f.String())
			}
			if report.Failed() {
				return fmt.Errorf("%d seed records failed", len(report.Failures))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "seed.yaml", "YAML file with the reference data")
	return cmd
}
