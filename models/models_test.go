package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleExpense_StatusDerivation(t *testing.T) {
	expense := &SimpleExpense{
		ExpenseCore: ExpenseCore{
			ID:    "exp-1",
			Total: 120,
			Payee: Payee{ID: "alice", Name: "alice"},
		},
		Distribution: DistributionEven,
		Payers: []Payer{
			{ID: "bob", Name: "bob", Amount: 60},
			{ID: "carol", Name: "carol", Amount: 60},
		},
	}

	assert.Equal(t, StatusUnpaid, expense.Status())

	expense.Payments = append(expense.Payments, PaymentSummary{ID: "pay-1", PaidBy: "bob", Amount: 60})
	assert.Equal(t, StatusUnpaid, expense.Status(), "one of two payers settled is still unpaid")

	expense.Payments = append(expense.Payments, PaymentSummary{ID: "pay-2", PaidBy: "carol", Amount: 60})
	assert.Equal(t, StatusPaid, expense.Status())
}

func TestSimpleExpense_StatusIgnoresPayeeOwnShare(t *testing.T) {
	// Alice is payee and payer; she never pays herself, so only Bob's summary
	// is needed
	expense := &SimpleExpense{
		ExpenseCore: ExpenseCore{
			ID:    "exp-1",
			Total: 80,
			Payee: Payee{ID: "alice", Name: "alice"},
		},
		Distribution: DistributionEven,
		Payers: []Payer{
			{ID: "alice", Name: "alice", Amount: 40},
			{ID: "bob", Name: "bob", Amount: 40},
		},
	}

	expense.Payments = []PaymentSummary{{ID: "pay-1", PaidBy: "bob", Amount: 40}}
	assert.Equal(t, StatusPaid, expense.Status())
}

func TestDetailedExpense_PayerSharesMergeAcrossItems(t *testing.T) {
	expense := &DetailedExpense{
		ExpenseCore: ExpenseCore{ID: "exp-2", Total: 70, Payee: Payee{ID: "alice"}},
		Items: []ExpenseItem{
			{
				ID: 1, Name: "Pizza", Total: 60, Distribution: DistributionEven,
				Payers: []Payer{
					{ID: "bob", Name: "bob", Amount: 30},
					{ID: "carol", Name: "carol", Amount: 30},
				},
			},
			{
				ID: 2, Name: "Soda", Total: 10, Distribution: DistributionEven,
				Payers: []Payer{
					{ID: "carol", Name: "carol", Amount: 5},
					{ID: "bob", Name: "bob", Amount: 5},
				},
			},
		},
	}

	shares := expense.PayerShares()
	assert.Len(t, shares, 2)
	assert.Equal(t, "bob", shares[0].ID, "order of first appearance is preserved")
	assert.Equal(t, 35.0, shares[0].Amount)
	assert.Equal(t, "carol", shares[1].ID)
	assert.Equal(t, 35.0, shares[1].Amount)
}

func TestExpenseCore_HasPaymentFrom(t *testing.T) {
	core := &ExpenseCore{Payments: []PaymentSummary{{ID: "pay-1", PaidBy: "bob"}}}

	assert.True(t, core.HasPaymentFrom("bob"))
	assert.False(t, core.HasPaymentFrom("carol"))
}

func TestNewExpenseResponse(t *testing.T) {
	simple := &SimpleExpense{
		ExpenseCore:  ExpenseCore{ID: "exp-1", Payee: Payee{ID: "alice"}},
		Distribution: DistributionEven,
		Payers:       []Payer{{ID: "bob", Amount: 10}},
	}

	response := NewExpenseResponse(simple)
	assert.Equal(t, ExpenseKindSimple, response.Type)
	assert.Equal(t, StatusUnpaid, response.Status)
	assert.Equal(t, simple, response.Expense)
}
