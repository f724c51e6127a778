package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// ExportService renders the household ledger as an Excel workbook
type ExportService struct {
	roommates RoommateStore
	expenses  ExpenseStore
	payments  PaymentStore
}

// NewExportService creates a new export service
func NewExportService(roommates RoommateStore, expenses ExpenseStore, payments PaymentStore) *ExportService {
	return &ExportService{
		roommates: roommates,
		expenses:  expenses,
		payments:  payments,
	}
}

// ExportHousehold generates an Excel file with balances, an expense share
// matrix and the payment list
func (s *ExportService) ExportHousehold() (*excelize.File, string, error) {
	roommates, err := s.roommates.List()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get roommates: %v", err)
	}
	expenses, err := s.expenses.List()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get expenses: %v", err)
	}
	payments, err := s.payments.List()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get payments: %v", err)
	}

	f := excelize.NewFile()

	if err := s.createBalanceSheet(f, roommates); err != nil {
		return nil, "", fmt.Errorf("failed to create balance sheet: %v", err)
	}
	if err := s.createExpenseSheet(f, roommates, expenses); err != nil {
		return nil, "", fmt.Errorf("failed to create expense sheet: %v", err)
	}
	if err := s.createPaymentSheet(f, payments); err != nil {
		return nil, "", fmt.Errorf("failed to create payment sheet: %v", err)
	}

	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("%s_%s.xlsx",
		utils.CleanFileName("Household Ledger"),
		time.Now().Format("2006-01-02"))

	return f, filename, nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
}

// createBalanceSheet lists each roommate's signed net position
func (s *ExportService) createBalanceSheet(f *excelize.File, roommates []*models.Roommate) error {
	sheetName := "Balances"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"Roommate", "Email", "Balance"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}
	style, _ := headerStyle(f)
	f.SetCellStyle(sheetName, "A1", "C1", style)

	sorted := make([]*models.Roommate, len(roommates))
	copy(sorted, roommates)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	for i, roommate := range sorted {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), roommate.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), roommate.Email)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), roommate.Balance)
	}

	f.SetColWidth(sheetName, "A", "C", 18)
	return nil
}

// createExpenseSheet writes one row per expense with each roommate's share
func (s *ExportService) createExpenseSheet(f *excelize.File, roommates []*models.Roommate, expenses []models.Expense) error {
	sheetName := "Expenses"
	f.NewSheet(sheetName)

	names := make(map[string]string, len(roommates))
	var columns []string
	for _, roommate := range roommates {
		names[roommate.ID] = roommate.Name
		columns = append(columns, roommate.ID)
	}
	sort.Slice(columns, func(i, j int) bool {
		return names[columns[i]] < names[columns[j]]
	})

	headers := []string{"Date", "Description", "Business", "Payee", "Total", "Status"}
	for _, id := range columns {
		headers = append(headers, names[id])
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}
	style, _ := headerStyle(f)
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, style)

	for i, expense := range expenses {
		core := expense.Core()
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), core.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), core.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), core.Business)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), core.Payee.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), core.Total)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(expense.Status()))

		shares := make(map[string]float64)
		for _, payer := range expense.PayerShares() {
			shares[payer.ID] = payer.Amount
		}
		for j, id := range columns {
			cell, _ := excelize.CoordinatesToCellName(len(headers)-len(columns)+j+1, row)
			f.SetCellValue(sheetName, cell, shares[id])
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "A", lastCol, 14)
	f.SetColWidth(sheetName, "B", "B", 24)
	return nil
}

// createPaymentSheet lists recorded payments
func (s *ExportService) createPaymentSheet(f *excelize.File, payments []*models.Payment) error {
	sheetName := "Payments"
	f.NewSheet(sheetName)

	headers := []string{"Date", "From", "To", "Amount", "Description", "Expenses Settled"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}
	style, _ := headerStyle(f)
	f.SetCellStyle(sheetName, "A1", "F1", style)

	for i, payment := range payments {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), payment.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), payment.PaidBy.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), payment.PaidTo.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), payment.Total)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), payment.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), len(payment.Expenses))
	}

	f.SetColWidth(sheetName, "A", "F", 16)
	return nil
}
