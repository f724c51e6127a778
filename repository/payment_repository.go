// repository/payment_repository.go
package repository

import (
	"database/sql"
	"fmt"

	"github.com/roomledger/roomledger-backend/models"
)

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new PaymentRepository
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Insert saves a payment and its expense summaries in one transaction
func (r *PaymentRepository) Insert(payment *models.Payment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO payments
         (id, total, date, description, paid_by_id, paid_by_name, paid_to_id, paid_to_name, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		payment.ID, payment.Total, payment.Date, payment.Description,
		payment.PaidBy.ID, payment.PaidBy.Name, payment.PaidTo.ID, payment.PaidTo.Name,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %v", err)
	}

	for _, summary := range payment.Expenses {
		_, err = tx.Exec(
			`INSERT INTO payment_expenses (payment_id, expense_id, expense_date, expense_total)
             VALUES ($1, $2, $3, $4)`,
			payment.ID, summary.ID, summary.Date, summary.Total,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment expense: %v", err)
		}
	}

	return tx.Commit()
}

// Delete removes a payment. Returns false when it does not exist.
func (r *PaymentRepository) Delete(id string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM payments WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete payment: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete payment: %v", err)
	}
	return affected > 0, nil
}

// FindByID retrieves a payment by id, returning nil when none exists
func (r *PaymentRepository) FindByID(id string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.QueryRow(
		`SELECT id, total, date, description, paid_by_id, paid_by_name,
                paid_to_id, paid_to_name, created_at
         FROM payments WHERE id = $1`,
		id,
	).Scan(&payment.ID, &payment.Total, &payment.Date, &payment.Description,
		&payment.PaidBy.ID, &payment.PaidBy.Name,
		&payment.PaidTo.ID, &payment.PaidTo.Name, &payment.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %v", err)
	}

	expenses, err := r.loadExpenseSummaries(payment.ID)
	if err != nil {
		return nil, err
	}
	payment.Expenses = expenses
	return &payment, nil
}

// List retrieves all payments ordered by date
func (r *PaymentRepository) List() ([]*models.Payment, error) {
	rows, err := r.db.Query(
		`SELECT id, total, date, description, paid_by_id, paid_by_name,
                paid_to_id, paid_to_name, created_at
         FROM payments ORDER BY date DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %v", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		var payment models.Payment
		if err := rows.Scan(&payment.ID, &payment.Total, &payment.Date, &payment.Description,
			&payment.PaidBy.ID, &payment.PaidBy.Name,
			&payment.PaidTo.ID, &payment.PaidTo.Name, &payment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %v", err)
		}
		payments = append(payments, &payment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, payment := range payments {
		expenses, err := r.loadExpenseSummaries(payment.ID)
		if err != nil {
			return nil, err
		}
		payment.Expenses = expenses
	}
	return payments, nil
}

func (r *PaymentRepository) loadExpenseSummaries(paymentID string) ([]models.ExpenseSummary, error) {
	rows, err := r.db.Query(
		`SELECT expense_id, expense_date, expense_total FROM payment_expenses
         WHERE payment_id = $1`,
		paymentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment expenses: %v", err)
	}
	defer rows.Close()

	var summaries []models.ExpenseSummary
	for rows.Next() {
		var summary models.ExpenseSummary
		if err := rows.Scan(&summary.ID, &summary.Date, &summary.Total); err != nil {
			return nil, fmt.Errorf("failed to scan payment expense: %v", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}
