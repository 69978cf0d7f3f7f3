package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet      = "Resumo Geral"
	TransactionsSheet = "Todas as Transações"

	maxSheetName = 31
)

var (
	summaryHeader = []any{
		"Bandeira / Tipo",
		"Qtd. Aprovadas", "Valor Aprovado", "% Qtd. Aprovadas", "% Valor Aprovado",
		"Qtd. Negadas", "Valor Negado", "% Qtd. Negadas", "% Valor Negado",
	}
	transactionHeader = []any{
		"ID", "Data", "Estabelecimento", "Documento", "Terminal", "NSU", "Autorização", "Cartão",
		"Bandeira", "Tipo", "Parcelas", "Valor", "Status", "Fee_Admin", "TransactionMdr", "Margem",
	}
)

// Columns holding Basis values, written with a percent number format.
const (
	firstPercentCol = 14
	lastPercentCol  = 16
	amountCol       = 12
)

// SheetName truncates name to the 31 characters Excel allows.
func SheetName(name string) string {
	if utf8.RuneCountInString(name) <= maxSheetName {
		return name
	}
	return string([]rune(name)[:maxSheetName])
}

type styles struct {
	header  int
	money   int
	percent int
}

// WriteWorkbook writes the summary sheet, the full listing and one sheet per
// non-empty bucket, in that order.
func WriteWorkbook(w io.Writer, txs []Transaction) (Summary, error) {
	summary := Summarize(txs)

	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return summary, err
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return summary, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummary(f, st, summary); err != nil {
		return summary, err
	}
	if err := writeTransactions(f, st, TransactionsSheet, txs); err != nil {
		return summary, err
	}
	for _, b := range summary.NonEmpty() {
		if err := writeTransactions(f, st, SheetName(b.Name()), b.Transactions); err != nil {
			return summary, err
		}
	}

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return summary, fmt.Errorf("write workbook: %w", err)
	}
	return summary, nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error
	if st.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	money := "#,##0.00"
	if st.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return st, fmt.Errorf("money style: %w", err)
	}
	percent := `0.00"%"`
	if st.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percent}); err != nil {
		return st, fmt.Errorf("percent style: %w", err)
	}
	return st, nil
}

func writeSummary(f *excelize.File, st styles, summary Summary) error {
	rows := [][]Row{summary.BucketRows, summary.TypeTotals, {summary.Total}}

	if err := setRow(f, SummarySheet, 1, summaryHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, st.header); err != nil {
		return err
	}

	line := 2
	for _, group := range rows {
		for _, r := range group {
			values := []any{
				r.Label,
				r.AcceptedQty, r.AcceptedAmount.InexactFloat64(), r.AcceptedPercent, r.AcceptedAmountPercent,
				r.DeniedQty, r.DeniedAmount.InexactFloat64(), r.DeniedPercent, r.DeniedAmountPercent,
			}
			if err := setRow(f, SummarySheet, line, values); err != nil {
				return err
			}
			if err := styleCells(f, SummarySheet, 3, 3, line, st.money); err != nil {
				return err
			}
			if err := styleCells(f, SummarySheet, 7, 7, line, st.money); err != nil {
				return err
			}
			line++
		}
		// blank line between groups
		line++
	}
	return f.SetColWidth(SummarySheet, "A", "A", 34)
}

func writeTransactions(f *excelize.File, st styles, sheet string, txs []Transaction) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, transactionHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, st.header); err != nil {
		return err
	}

	for i, tx := range txs {
		line := i + 2
		if err := setRow(f, sheet, line, TransactionRow(tx)); err != nil {
			return err
		}
		if err := styleCells(f, sheet, amountCol, amountCol, line, st.money); err != nil {
			return err
		}
		if err := styleCells(f, sheet, firstPercentCol, lastPercentCol, line, st.percent); err != nil {
			return err
		}
	}
	return nil
}

// TransactionRow derives the detail columns. Basis fields are divided by 100.
func TransactionRow(tx Transaction) []any {
	brand, productType := Classify(tx)
	return []any{
		tx.ID,
		tx.Date,
		tx.MerchantName,
		tx.MerchantDocument,
		tx.TerminalSerial,
		tx.NSU,
		tx.AuthorizationCode,
		tx.CardNumber,
		brand,
		productType,
		tx.Installments,
		tx.Amount.InexactFloat64(),
		tx.TransactionStatus,
		tx.FeeAdmin.Percent().InexactFloat64(),
		tx.TransactionMdr.Percent().InexactFloat64(),
		tx.ProfitMargin.Percent().InexactFloat64(),
	}
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleCells(f *excelize.File, sheet string, fromCol, toCol, row, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
