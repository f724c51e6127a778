package models

import "time"

// ExpenseSummary identifies an expense settled by a payment.
type ExpenseSummary struct {
	ID    string    `json:"id"`
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// Payment is a transfer settling one payer's share of one or more expenses.
// It is created once and never mutated; deleting it reverses its ledger
// effect and detaches its summaries from the referenced expenses.
type Payment struct {
	ID          string           `json:"id"`
	Total       float64          `json:"total"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	PaidBy      Payee            `json:"paidBy"`
	PaidTo      Payee            `json:"paidTo"`
	Expenses    []ExpenseSummary `json:"expenses"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// PaymentRequest is the draft for registering a payment.
type PaymentRequest struct {
	Total       float64   `json:"total" binding:"required,gt=0"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	PaidByID    string    `json:"paidById" binding:"required"`
	PaidToID    string    `json:"paidToId" binding:"required"`
	ExpenseIDs  []string  `json:"expenseIds" binding:"required,min=1"`
}
