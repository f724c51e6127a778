package services

import "github.com/roomledger/roomledger-backend/models"

// Store interfaces consumed by the services. The repository package satisfies
// them against Postgres; tests use in-memory fakes. Lookups return nil (not an
// error) when nothing matches.

// RoommateStore provides participant lookups and the atomic balance increment.
type RoommateStore interface {
	Create(roommate *models.Roommate) error
	FindByID(id string) (*models.Roommate, error)
	FindByIDs(ids []string) ([]*models.Roommate, error)
	List() ([]*models.Roommate, error)
	// IncrementBalance must apply the delta atomically against the stored
	// balance, never via read-modify-write.
	IncrementBalance(id string, delta float64) (float64, error)
}

// ExpenseStore persists expenses and their payment summaries.
type ExpenseStore interface {
	Insert(expense models.Expense) error
	Replace(id string, expense models.Expense) error
	Delete(id string) (bool, error)
	FindByID(id string) (models.Expense, error)
	FindByIDs(ids []string) ([]models.Expense, error)
	List() ([]models.Expense, error)
	AttachPaymentSummaries(attachments []models.SummaryAttachment) error
	DetachPaymentSummary(paymentID string, expenseIDs []string) error
}

// PaymentStore persists payments.
type PaymentStore interface {
	Insert(payment *models.Payment) error
	Delete(id string) (bool, error)
	FindByID(id string) (*models.Payment, error)
	List() ([]*models.Payment, error)
}
