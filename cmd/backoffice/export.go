package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/backoffice/pkg/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}
	cmd.AddCommand(exportTransactionsCmd())
	return cmd
}

func exportTransactionsCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Build the transactions workbook from a JSON listing",
		Long: `Read a JSON array of transactions and write the .xlsx workbook with the
general summary, every transaction and one sheet per brand and product type.

Example:
  backoffice export transactions --in transacoes.json --out transacoes.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			txs, err := report.DecodeTransactions(raw)
			if err != nil {
				return fmt.Errorf("decode %s: %w", in, err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			summary, err := report.WriteWorkbook(f, txs)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d transactions, %d buckets written to %s\n", summary.Count, len(summary.NonEmpty()), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "JSON file with the transaction listing")
	cmd.Flags().StringVar(&out, "out", "transacoes.xlsx", "workbook to write")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
