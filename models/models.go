// models/models.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Distribution identifies how an expense total is divided among payers.
type Distribution string

const (
	DistributionEven         Distribution = "even"
	DistributionProportional Distribution = "proportional"
	DistributionCustom       Distribution = "custom"
)

// ExpenseStatus is derived from the payment summaries attached to an expense.
type ExpenseStatus string

const (
	StatusUnpaid ExpenseStatus = "unpaid"
	StatusPaid   ExpenseStatus = "paid"
)

// Expense kind discriminators, used for persistence and API responses.
const (
	ExpenseKindSimple   = "simple"
	ExpenseKindItemized = "itemized"
)

// Roommate is a participant in the household. Balance is the signed running
// net position: positive means this person owes the group, negative means the
// group owes them. It is mutated only through atomic increments.
type Roommate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payee identifies who the money of a transaction is owed to.
type Payee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payer is a participant with a computed share of a transaction. Equality is
// by ID, never by amount.
type Payer struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PaymentSummary records that one payer settled their share of an expense.
type PaymentSummary struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	PaidBy string    `json:"paidBy"`
	Amount float64   `json:"amount"`
}

// ExpenseCore carries the fields shared by both expense shapes.
type ExpenseCore struct {
	ID          string           `json:"id"`
	Total       float64          `json:"total"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Business    string           `json:"business"`
	Tags        []string         `json:"tags,omitempty"`
	Payee       Payee            `json:"payee"`
	Payments    []PaymentSummary `json:"payments,omitempty"`
}

// HasPaymentFrom reports whether a payment summary from the given payer is
// already attached.
func (c *ExpenseCore) HasPaymentFrom(payerID string) bool {
	for _, summary := range c.Payments {
		if summary.PaidBy == payerID {
			return true
		}
	}
	return false
}

// Expense is the closed set of transaction shapes: SimpleExpense and
// DetailedExpense. Type switches over it never need a default branch.
type Expense interface {
	Core() *ExpenseCore
	// PayerShares returns every payer with their computed share. For
	// itemized expenses, payers appearing in several items are merged by ID
	// with their item shares summed.
	PayerShares() []Payer
	Kind() string
	Status() ExpenseStatus

	sealed()
}

// SimpleExpense splits one total across a flat payer list with a single
// distribution rule.
type SimpleExpense struct {
	ExpenseCore
	Distribution Distribution `json:"distribution"`
	Refundable   bool         `json:"refundable"`
	Payers       []Payer      `json:"payers"`
}

func (e *SimpleExpense) Core() *ExpenseCore   { return &e.ExpenseCore }
func (e *SimpleExpense) PayerShares() []Payer { return e.Payers }
func (e *SimpleExpense) Kind() string         { return ExpenseKindSimple }
func (e *SimpleExpense) Status() ExpenseStatus {
	return deriveStatus(&e.ExpenseCore, e.PayerShares())
}
func (e *SimpleExpense) sealed() {}

// ExpenseItem is a single line of a detailed expense with its own rule,
// payer list and refundable flag.
type ExpenseItem struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	UnitPrice    float64      `json:"unitPrice"`
	Quantity     int          `json:"quantity"`
	Total        float64      `json:"total"`
	Distribution Distribution `json:"distribution"`
	Refundable   bool         `json:"refundable"`
	Payers       []Payer      `json:"payers"`
}

// DetailedExpense splits an expense at item granularity. The expense total
// equals the sum of item totals.
type DetailedExpense struct {
	ExpenseCore
	Items []ExpenseItem `json:"items"`
}

func (e *DetailedExpense) Core() *ExpenseCore { return &e.ExpenseCore }

// PayerShares merges item payers by ID, summing shares, preserving the order
// in which payers first appear across items.
func (e *DetailedExpense) PayerShares() []Payer {
	index := make(map[string]int)
	var merged []Payer

	for _, item := range e.Items {
		for _, payer := range item.Payers {
			if i, ok := index[payer.ID]; ok {
				sum := decimal.NewFromFloat(merged[i].Amount).Add(decimal.NewFromFloat(payer.Amount))
				merged[i].Amount = sum.InexactFloat64()
				continue
			}
			index[payer.ID] = len(merged)
			merged = append(merged, payer)
		}
	}
	return merged
}

func (e *DetailedExpense) Kind() string { return ExpenseKindItemized }
func (e *DetailedExpense) Status() ExpenseStatus {
	return deriveStatus(&e.ExpenseCore, e.PayerShares())
}
func (e *DetailedExpense) sealed() {}

// deriveStatus returns Paid once every payer other than the payee has a
// matching payment summary. The payee never pays themselves, so their own
// share (if any) is ignored.
func deriveStatus(core *ExpenseCore, shares []Payer) ExpenseStatus {
	for _, share := range shares {
		if share.ID == core.Payee.ID {
			continue
		}
		if !core.HasPaymentFrom(share.ID) {
			return StatusUnpaid
		}
	}
	return StatusPaid
}

// ExpenseResponse is the API shape for a stored expense with its derived status.
type ExpenseResponse struct {
	Type    string        `json:"type"`
	Status  ExpenseStatus `json:"status"`
	Expense Expense       `json:"expense"`
}

// NewExpenseResponse wraps a stored expense for API output.
func NewExpenseResponse(e Expense) ExpenseResponse {
	return ExpenseResponse{
		Type:    e.Kind(),
		Status:  e.Status(),
		Expense: e,
	}
}

// SummaryAttachment binds a payment summary to the expense it settles.
type SummaryAttachment struct {
	ExpenseID string
	Summary   PaymentSummary
}
