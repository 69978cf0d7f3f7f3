package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ramsey-B/backoffice/config"
	"github.com/Ramsey-B/backoffice/pkg/report"
)

func TestNewLogger(t *testing.T) {
	_, sync, err := newLogger(&config.Config{AppName: "backoffice-api", LogLevel: "debug"})
	require.NoError(t, err)
	sync()

	_, _, err = newLogger(&config.Config{LogLevel: "loud"})
	assert.ErrorContains(t, err, "invalid LOG_LEVEL")
}

func TestExportTransactionsCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "transacoes.json")
	out := filepath.Join(dir, "transacoes.xlsx")
	require.NoError(t, os.WriteFile(in, []byte(`[
		{"id": "1", "brand": "VISA", "productType": "CREDIT", "amount": 150, "transactionStatus": "AUTHORIZED"},
		{"id": "2", "brand": "ELO", "productType": "DEBIT", "amount": 30, "transactionStatus": "DENIED"}
	]`), 0o600))

	cmd := exportTransactionsCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--in", in, "--out", out})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "2 transactions, 2 buckets")

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{report.SummarySheet, report.TransactionsSheet, "VISA CREDIT", "ELO DEBIT"}, f.GetSheetList())
}

func TestExportTransactionsCommand_RequiresInput(t *testing.T) {
	cmd := exportTransactionsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func TestExportTransactionsCommand_BadJSON(t *testing.T) {
	in := filepath.Join(t.TempDir(), "transacoes.json")
	require.NoError(t, os.WriteFile(in, []byte(`{"id": 1}`), 0o600))

	cmd := exportTransactionsCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--in", in, "--out", filepath.Join(t.TempDir(), "x.xlsx")})

	assert.ErrorContains(t, cmd.Execute(), "decode")
}
