package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"locatrajes/internal/domain"
)

const (
	ContractsSheet    = "Contratos"
	TransactionsSheet = "Transações"

	dateLayout = "02/01/2006"
)

var (
	contractHeader    = []interface{}{"Contrato", "Cliente", "Tipo", "Status", "Início", "Fim", "Valor total", "Pago", "Saldo"}
	transactionHeader = []interface{}{"Data", "Tipo", "Descrição", "Categoria", "Vencimento", "Status", "Valor"}
)

// Financial renders the contracts ledger and manual transactions as an xlsx
// workbook. Cancelled contracts are listed but left out of the totals.
func Financial(contracts []domain.Contract, transactions []domain.Transaction, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ContractsSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := writeContracts(f, contracts, bold); err != nil {
		return nil, err
	}
	if err := writeTransactions(f, transactions, bold); err != nil {
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Relatório financeiro",
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("setting document properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("resolving cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, row, cols, style int) error {
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	return f.SetCellStyle(sheet, first, last, style)
}

func writeContracts(f *excelize.File, contracts []domain.Contract, bold int) error {
	if err := setRow(f, ContractsSheet, 1, contractHeader); err != nil {
		return err
	}
	if err := boldRow(f, ContractsSheet, 1, len(contractHeader), bold); err != nil {
		return err
	}

	total, paid, balance := decimal.Zero, decimal.Zero, decimal.Zero
	row := 2
	for _, c := range contracts {
		if err := setRow(f, ContractsSheet, row, []interface{}{
			c.ID,
			c.ClientName,
			string(c.ContractType),
			string(c.Status),
			c.StartDate.Format(dateLayout),
			c.EndDate.Format(dateLayout),
			money(c.TotalValue),
			money(c.PaidAmount),
			money(c.Balance),
		}); err != nil {
			return err
		}
		if c.Status != domain.ContractStatusCanceled {
			total = total.Add(c.TotalValue)
			paid = paid.Add(c.PaidAmount)
			balance = balance.Add(c.Balance)
		}
		row++
	}

	if err := setRow(f, ContractsSheet, row, []interface{}{
		"Total", "", "", "", "", "", money(total), money(paid), money(balance),
	}); err != nil {
		return err
	}
	return boldRow(f, ContractsSheet, row, len(contractHeader), bold)
}

func writeTransactions(f *excelize.File, transactions []domain.Transaction, bold int) error {
	if err := setRow(f, TransactionsSheet, 1, transactionHeader); err != nil {
		return err
	}
	if err := boldRow(f, TransactionsSheet, 1, len(transactionHeader), bold); err != nil {
		return err
	}

	income, expense := decimal.Zero, decimal.Zero
	row := 2
	for _, t := range transactions {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format(dateLayout)
		}
		if err := setRow(f, TransactionsSheet, row, []interface{}{
			t.Date.Format(dateLayout),
			string(t.Type),
			t.Description,
			t.Category,
			due,
			string(t.Status),
			money(t.Amount),
		}); err != nil {
			return err
		}
		if t.Type == domain.TransactionTypeIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
		row++
	}

	summary := [][]interface{}{
		{"Receitas", "", "", "", "", "", money(income)},
		{"Despesas", "", "", "", "", "", money(expense)},
		{"Resultado", "", "", "", "", "", money(income.Sub(expense))},
	}
	for _, values := range summary {
		if err := setRow(f, TransactionsSheet, row, values); err != nil {
			return err
		}
		if err := boldRow(f, TransactionsSheet, row, len(transactionHeader), bold); err != nil {
			return err
		}
		row++
	}
	return nil
}
