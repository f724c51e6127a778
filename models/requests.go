package models

import "time"

// PayerInput is one payer line of an expense draft. Amount is only meaningful
// for custom distributions, Multiplier only for proportional ones; supplying
// both on the same payer is rejected.
type PayerInput struct {
	ID         string   `json:"id" binding:"required"`
	Amount     *float64 `json:"amount,omitempty"`
	Multiplier *float64 `json:"multiplier,omitempty"`
}

// SimpleExpenseRequest is the draft for a flat-split expense.
type SimpleExpenseRequest struct {
	Total        float64      `json:"total" binding:"required,gt=0"`
	Date         time.Time    `json:"date"`
	Description  string       `json:"description" binding:"required"`
	Business     string       `json:"business"`
	Tags         []string     `json:"tags"`
	PayeeID      string       `json:"payeeId" binding:"required"`
	Distribution Distribution `json:"distribution"`
	Refundable   bool         `json:"refundable"`
	Payers       []PayerInput `json:"payers"`
}

// ItemInput is one line of a detailed expense draft.
type ItemInput struct {
	Name         string       `json:"name" binding:"required"`
	UnitPrice    float64      `json:"unitPrice" binding:"required,gt=0"`
	Quantity     int          `json:"quantity" binding:"required,gt=0"`
	Distribution Distribution `json:"distribution"`
	Refundable   bool         `json:"refundable"`
	Payers       []PayerInput `json:"payers"`
}

// DetailedExpenseRequest is the draft for an itemized expense. Total must
// equal the sum of item totals exactly.
type DetailedExpenseRequest struct {
	Total       float64     `json:"total" binding:"required,gt=0"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description" binding:"required"`
	Business    string      `json:"business"`
	Tags        []string    `json:"tags"`
	PayeeID     string      `json:"payeeId" binding:"required"`
	Items       []ItemInput `json:"items" binding:"required,min=1"`
}

// UpdateSimpleExpenseRequest replaces a stored expense with a new simple draft.
type UpdateSimpleExpenseRequest struct {
	ID      string               `json:"id" binding:"required"`
	Expense SimpleExpenseRequest `json:"expense" binding:"required"`
}

// UpdateDetailedExpenseRequest replaces a stored expense with a new itemized draft.
type UpdateDetailedExpenseRequest struct {
	ID      string                 `json:"id" binding:"required"`
	Expense DetailedExpenseRequest `json:"expense" binding:"required"`
}

// IDRequest identifies an entity for get/remove endpoints.
type IDRequest struct {
	ID string `json:"id" binding:"required"`
}

// CreateRoommateRequest registers a new household member.
type CreateRoommateRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
