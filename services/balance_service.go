package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger-backend/models"
)

// BalanceService is the only component that mutates roommate balances. Every
// effect is a set of signed increments with an exact-negation reversal, so any
// applied mutation can be compensated. When an increment fails partway
// through an effect, the increments already applied are undone before the
// error surfaces; callers never observe a half-applied effect.
type BalanceService struct {
	roommates RoommateStore
}

// NewBalanceService creates a new balance service
func NewBalanceService(roommates RoommateStore) *BalanceService {
	return &BalanceService{roommates: roommates}
}

// increment is one applied balance delta, kept so a failed effect can be
// rolled back.
type increment struct {
	id    string
	delta float64
}

// ApplyExpense credits each payer with their share and debits the payee with
// the total. A payer who is also the payee does not owe themselves: their
// share is withheld from the payee's debit instead of being incremented.
func (s *BalanceService) ApplyExpense(expense models.Expense) error {
	return s.applyExpense(expense, 1)
}

// RevertExpense is the exact negation of ApplyExpense, computed from the
// stored payer list and total.
func (s *BalanceService) RevertExpense(expense models.Expense) error {
	return s.applyExpense(expense, -1)
}

func (s *BalanceService) applyExpense(expense models.Expense, sign float64) error {
	core := expense.Core()
	payeeOwnShare := decimal.Zero

	var applied []increment
	for _, payer := range expense.PayerShares() {
		if payer.ID == core.Payee.ID {
			payeeOwnShare = payeeOwnShare.Add(decimal.NewFromFloat(payer.Amount))
			continue
		}
		delta := sign * payer.Amount
		if _, err := s.roommates.IncrementBalance(payer.ID, delta); err != nil {
			return s.rollback(applied, err)
		}
		applied = append(applied, increment{id: payer.ID, delta: delta})
	}

	debit := decimal.NewFromFloat(core.Total)
	if payeeOwnShare.IsPositive() {
		debit = debit.Sub(payeeOwnShare)
	}
	if _, err := s.roommates.IncrementBalance(core.Payee.ID, -sign*debit.InexactFloat64()); err != nil {
		return s.rollback(applied, err)
	}
	return nil
}

// ApplyPayment moves the payment total from the payer to the recipient:
// paying reduces the payer's debt and reduces what the group owes the
// recipient.
func (s *BalanceService) ApplyPayment(payment *models.Payment) error {
	return s.applyPayment(payment, 1)
}

// RevertPayment is the exact negation of ApplyPayment.
func (s *BalanceService) RevertPayment(payment *models.Payment) error {
	return s.applyPayment(payment, -1)
}

func (s *BalanceService) applyPayment(payment *models.Payment, sign float64) error {
	if _, err := s.roommates.IncrementBalance(payment.PaidBy.ID, -sign*payment.Total); err != nil {
		return err
	}
	if _, err := s.roommates.IncrementBalance(payment.PaidTo.ID, sign*payment.Total); err != nil {
		return s.rollback([]increment{{id: payment.PaidBy.ID, delta: -sign * payment.Total}}, err)
	}
	return nil
}

// rollback undoes already-applied increments in reverse order and returns the
// original cause. A failed undo is reported alongside the cause; at that
// point the ledger needs manual inspection.
func (s *BalanceService) rollback(applied []increment, cause error) error {
	for i := len(applied) - 1; i >= 0; i-- {
		if _, err := s.roommates.IncrementBalance(applied[i].id, -applied[i].delta); err != nil {
			return fmt.Errorf("increment failed (%v) and rollback failed (%v)", cause, err)
		}
	}
	return cause
}
