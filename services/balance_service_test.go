package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roomledger/roomledger-backend/models"
)

func simpleExpense(payee string, total float64, payers ...models.Payer) *models.SimpleExpense {
	return &models.SimpleExpense{
		ExpenseCore: models.ExpenseCore{
			ID:    "exp-" + payee,
			Total: total,
			Date:  time.Now(),
			Payee: models.Payee{ID: payee, Name: payee},
		},
		Distribution: models.DistributionEven,
		Payers:       payers,
	}
}

func TestBalanceService_ApplyExpense(t *testing.T) {
	env := newTestEnv()

	// Alice covers a 120 expense split evenly between Bob and Carol
	expense := simpleExpense("alice", 120,
		models.Payer{ID: "bob", Name: "bob", Amount: 60},
		models.Payer{ID: "carol", Name: "carol", Amount: 60},
	)

	err := env.balances.ApplyExpense(expense)
	assert.NoError(t, err)
	assert.Equal(t, 60.0, env.balance("bob"))
	assert.Equal(t, 60.0, env.balance("carol"))
	assert.Equal(t, -120.0, env.balance("alice"))
}

func TestBalanceService_RevertExpense_RestoresBalances(t *testing.T) {
	env := newTestEnv()
	expense := simpleExpense("alice", 120,
		models.Payer{ID: "bob", Name: "bob", Amount: 60},
		models.Payer{ID: "carol", Name: "carol", Amount: 60},
	)

	assert.NoError(t, env.balances.ApplyExpense(expense))
	assert.NoError(t, env.balances.RevertExpense(expense))

	assert.Equal(t, 0.0, env.balance("alice"))
	assert.Equal(t, 0.0, env.balance("bob"))
	assert.Equal(t, 0.0, env.balance("carol"))
}

func TestBalanceService_ApplyExpense_PayeeOwnShareWithheld(t *testing.T) {
	env := newTestEnv()

	// Alice is both payee and payer: her 40 share is withheld from her debit
	// rather than credited back to her
	expense := simpleExpense("alice", 120,
		models.Payer{ID: "alice", Name: "alice", Amount: 40},
		models.Payer{ID: "bob", Name: "bob", Amount: 40},
		models.Payer{ID: "carol", Name: "carol", Amount: 40},
	)

	err := env.balances.ApplyExpense(expense)
	assert.NoError(t, err)
	assert.Equal(t, 40.0, env.balance("bob"))
	assert.Equal(t, 40.0, env.balance("carol"))
	assert.Equal(t, -80.0, env.balance("alice"))
}

func TestBalanceService_ApplyExpense_FailedIncrementRollsBackEarlierOnes(t *testing.T) {
	env := newTestEnv()
	env.roommates.failIncrementFor = "carol"

	expense := simpleExpense("alice", 120,
		models.Payer{ID: "bob", Name: "bob", Amount: 60},
		models.Payer{ID: "carol", Name: "carol", Amount: 60},
	)

	err := env.balances.ApplyExpense(expense)
	assert.Error(t, err)

	// Bob's credit landed before Carol's failed; it must come back off
	assert.Equal(t, 0.0, env.balance("bob"))
	assert.Equal(t, 0.0, env.balance("alice"))
}

func TestBalanceService_ApplyExpense_FailedPayeeDebitRollsBackPayerCredits(t *testing.T) {
	env := newTestEnv()
	env.roommates.failIncrementFor = "alice"

	expense := simpleExpense("alice", 120,
		models.Payer{ID: "bob", Name: "bob", Amount: 60},
		models.Payer{ID: "carol", Name: "carol", Amount: 60},
	)

	err := env.balances.ApplyExpense(expense)
	assert.Error(t, err)
	assert.Equal(t, 0.0, env.balance("bob"))
	assert.Equal(t, 0.0, env.balance("carol"))
}

func TestBalanceService_ApplyPayment_FailedRecipientCreditRollsBackPayer(t *testing.T) {
	env := newTestEnv()
	env.roommates.failIncrementFor = "alice"

	payment := &models.Payment{
		ID:     "pay-1",
		Total:  75,
		PaidBy: models.Payee{ID: "bob", Name: "bob"},
		PaidTo: models.Payee{ID: "alice", Name: "alice"},
	}

	err := env.balances.ApplyPayment(payment)
	assert.Error(t, err)
	assert.Equal(t, 0.0, env.balance("bob"))
}

func TestBalanceService_ApplyAndRevertPayment(t *testing.T) {
	env := newTestEnv()
	payment := &models.Payment{
		ID:     "pay-1",
		Total:  75,
		PaidBy: models.Payee{ID: "bob", Name: "bob"},
		PaidTo: models.Payee{ID: "alice", Name: "alice"},
	}

	assert.NoError(t, env.balances.ApplyPayment(payment))
	assert.Equal(t, -75.0, env.balance("bob"))
	assert.Equal(t, 75.0, env.balance("alice"))

	assert.NoError(t, env.balances.RevertPayment(payment))
	assert.Equal(t, 0.0, env.balance("bob"))
	assert.Equal(t, 0.0, env.balance("alice"))
}
