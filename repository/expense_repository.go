// repository/expense_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/roomledger/roomledger-backend/models"
)

// ExpenseRepository handles database operations for expenses
type ExpenseRepository struct {
	db *sql.DB
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(db *sql.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// Insert saves an expense and its payer or item rows in one transaction
func (r *ExpenseRepository) Insert(expense models.Expense) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if err := insertExpenseTx(tx, expense); err != nil {
		return err
	}
	return tx.Commit()
}

// Replace rewrites an expense's row and payer/item rows in one transaction.
// Attached payment summaries are preserved.
func (r *ExpenseRepository) Replace(id string, expense models.Expense) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to replace expense: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to replace expense: %v", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s does not exist", id)
	}

	if err := insertExpenseTx(tx, expense); err != nil {
		return err
	}

	// Carry over summaries attached to the previous version
	for _, summary := range expense.Core().Payments {
		_, err = tx.Exec(
			`INSERT INTO payment_summaries (expense_id, payment_id, date, paid_by, amount)
             VALUES ($1, $2, $3, $4, $5)`,
			id, summary.ID, summary.Date, summary.PaidBy, summary.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to restore payment summary: %v", err)
		}
	}

	return tx.Commit()
}

func insertExpenseTx(tx *sql.Tx, expense models.Expense) error {
	core := expense.Core()

	var distribution sql.NullString
	var refundable sql.NullBool
	if simple, ok := expense.(*models.SimpleExpense); ok {
		distribution = sql.NullString{String: string(simple.Distribution), Valid: true}
		refundable = sql.NullBool{Bool: simple.Refundable, Valid: true}
	}

	_, err := tx.Exec(
		`INSERT INTO expenses
         (id, kind, total, date, description, business, tags, payee_id, payee_name, distribution, refundable)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		core.ID, expense.Kind(), core.Total, core.Date, core.Description, core.Business,
		pq.Array(core.Tags), core.Payee.ID, core.Payee.Name, distribution, refundable,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %v", err)
	}

	switch e := expense.(type) {
	case *models.SimpleExpense:
		for _, payer := range e.Payers {
			_, err = tx.Exec(
				`INSERT INTO expense_payers (expense_id, payer_id, payer_name, amount)
                 VALUES ($1, $2, $3, $4)`,
				core.ID, payer.ID, payer.Name, payer.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense payer: %v", err)
			}
		}
	case *models.DetailedExpense:
		for _, item := range e.Items {
			_, err = tx.Exec(
				`INSERT INTO expense_items
                 (expense_id, item_id, name, unit_price, quantity, total, distribution, refundable)
                 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				core.ID, item.ID, item.Name, item.UnitPrice, item.Quantity,
				item.Total, string(item.Distribution), item.Refundable,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense item: %v", err)
			}

			for _, payer := range item.Payers {
				_, err = tx.Exec(
					`INSERT INTO item_payers (expense_id, item_id, payer_id, payer_name, amount)
                     VALUES ($1, $2, $3, $4, $5)`,
					core.ID, item.ID, payer.ID, payer.Name, payer.Amount,
				)
				if err != nil {
					return fmt.Errorf("failed to insert item payer: %v", err)
				}
			}
		}
	}

	return nil
}

// Delete removes an expense. Returns false when it does not exist.
func (r *ExpenseRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM expenses WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %v", err)
	}
	return affected > 0, nil
}

// FindByID retrieves an expense by id, returning nil when none exists
func (r *ExpenseRepository) FindByID(id string) (models.Expense, error) {
	expenses, err := r.queryExpenses("WHERE e.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}
	return expenses[0], nil
}

// FindByIDs retrieves all expenses matching the given ids
func (r *ExpenseRepository) FindByIDs(ids []string) ([]models.Expense, error) {
	return r.queryExpenses("WHERE e.id = ANY($1)", pq.Array(ids))
}

// List retrieves all expenses ordered by date
func (r *ExpenseRepository) List() ([]models.Expense, error) {
	return r.queryExpenses("ORDER BY e.date ASC")
}

func (r *ExpenseRepository) queryExpenses(clause string, args ...interface{}) ([]models.Expense, error) {
	rows, err := r.db.Query(
		`SELECT e.id, e.kind, e.total, e.date, e.description, e.business, e.tags,
                e.payee_id, e.payee_name, e.distribution, e.refundable
         FROM expenses e `+clause,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %v", err)
	}
	defer rows.Close()

	type expenseRow struct {
		core         models.ExpenseCore
		kind         string
		distribution sql.NullString
		refundable   sql.NullBool
	}

	var scanned []expenseRow
	for rows.Next() {
		var row expenseRow
		if err := rows.Scan(&row.core.ID, &row.kind, &row.core.Total, &row.core.Date,
			&row.core.Description, &row.core.Business, pq.Array(&row.core.Tags),
			&row.core.Payee.ID, &row.core.Payee.Name,
			&row.distribution, &row.refundable); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %v", err)
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var expenses []models.Expense
	for _, row := range scanned {
		summaries, err := r.loadPaymentSummaries(row.core.ID)
		if err != nil {
			return nil, err
		}
		row.core.Payments = summaries

		switch row.kind {
		case models.ExpenseKindSimple:
			payers, err := r.loadExpensePayers(row.core.ID)
			if err != nil {
				return nil, err
			}
			expenses = append(expenses, &models.SimpleExpense{
				ExpenseCore:  row.core,
				Distribution: models.Distribution(row.distribution.String),
				Refundable:   row.refundable.Bool,
				Payers:       payers,
			})
		case models.ExpenseKindItemized:
			items, err := r.loadExpenseItems(row.core.ID)
			if err != nil {
				return nil, err
			}
			expenses = append(expenses, &models.DetailedExpense{
				ExpenseCore: row.core,
				Items:       items,
			})
		default:
			return nil, fmt.Errorf("unknown expense kind %q for %s", row.kind, row.core.ID)
		}
	}

	return expenses, nil
}

func (r *ExpenseRepository) loadExpensePayers(expenseID string) ([]models.Payer, error) {
	rows, err := r.db.Query(
		`SELECT payer_id, payer_name, amount FROM expense_payers
         WHERE expense_id = $1 ORDER BY payer_id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense payers: %v", err)
	}
	defer rows.Close()

	var payers []models.Payer
	for rows.Next() {
		var payer models.Payer
		if err := rows.Scan(&payer.ID, &payer.Name, &payer.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payer: %v", err)
		}
		payers = append(payers, payer)
	}
	return payers, rows.Err()
}

func (r *ExpenseRepository) loadExpenseItems(expenseID string) ([]models.ExpenseItem, error) {
	rows, err := r.db.Query(
		`SELECT item_id, name, unit_price, quantity, total, distribution, refundable
         FROM expense_items WHERE expense_id = $1 ORDER BY item_id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense items: %v", err)
	}
	defer rows.Close()

	var items []models.ExpenseItem
	for rows.Next() {
		var item models.ExpenseItem
		var distribution string
		if err := rows.Scan(&item.ID, &item.Name, &item.UnitPrice, &item.Quantity,
			&item.Total, &distribution, &item.Refundable); err != nil {
			return nil, fmt.Errorf("failed to scan item: %v", err)
		}
		item.Distribution = models.Distribution(distribution)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		payers, err := r.loadItemPayers(expenseID, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Payers = payers
	}
	return items, nil
}

func (r *ExpenseRepository) loadItemPayers(expenseID string, itemID int) ([]models.Payer, error) {
	rows, err := r.db.Query(
		`SELECT payer_id, payer_name, amount FROM item_payers
         WHERE expense_id = $1 AND item_id = $2 ORDER BY payer_id`,
		expenseID, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item payers: %v", err)
	}
	defer rows.Close()

	var payers []models.Payer
	for rows.Next() {
		var payer models.Payer
		if err := rows.Scan(&payer.ID, &payer.Name, &payer.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan item payer: %v", err)
		}
		payers = append(payers, payer)
	}
	return payers, rows.Err()
}

func (r *ExpenseRepository) loadPaymentSummaries(expenseID string) ([]models.PaymentSummary, error) {
	rows, err := r.db.Query(
		`SELECT payment_id, date, paid_by, amount FROM payment_summaries
         WHERE expense_id = $1 ORDER BY date ASC`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment summaries: %v", err)
	}
	defer rows.Close()

	var summaries []models.PaymentSummary
	for rows.Next() {
		var summary models.PaymentSummary
		if err := rows.Scan(&summary.ID, &summary.Date, &summary.PaidBy, &summary.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment summary: %v", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// AttachPaymentSummaries records one payment summary per settled expense in a
// single transaction.
func (r *ExpenseRepository) AttachPaymentSummaries(attachments []models.SummaryAttachment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	for _, attachment := range attachments {
		_, err = tx.Exec(
			`INSERT INTO payment_summaries (expense_id, payment_id, date, paid_by, amount)
             VALUES ($1, $2, $3, $4, $5)`,
			attachment.ExpenseID, attachment.Summary.ID, attachment.Summary.Date,
			attachment.Summary.PaidBy, attachment.Summary.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to attach payment summary: %v", err)
		}
	}
	return tx.Commit()
}

// DetachPaymentSummary removes the summaries a payment attached to the given
// expenses.
func (r *ExpenseRepository) DetachPaymentSummary(paymentID string, expenseIDs []string) error {
	_, err := r.db.Exec(
		`DELETE FROM payment_summaries WHERE payment_id = $1 AND expense_id = ANY($2)`,
		paymentID, pq.Array(expenseIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to detach payment summaries: %v", err)
	}
	return nil
}
