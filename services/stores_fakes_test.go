package services

import (
	"errors"
	"fmt"

	"github.com/roomledger/roomledger-backend/models"
)

// In-memory store fakes. They mirror the repository contracts: lookups return
// nil (not an error) when nothing matches, and balance increments mutate the
// stored record directly. The fail* fields inject failures so the compensation
// paths can be exercised.

type memRoommateStore struct {
	roommates        map[string]*models.Roommate
	order            []string
	failIncrementFor string
}

func newMemRoommateStore() *memRoommateStore {
	return &memRoommateStore{roommates: make(map[string]*models.Roommate)}
}

func (s *memRoommateStore) Create(roommate *models.Roommate) error {
	s.roommates[roommate.ID] = roommate
	s.order = append(s.order, roommate.ID)
	return nil
}

func (s *memRoommateStore) FindByID(id string) (*models.Roommate, error) {
	return s.roommates[id], nil
}

func (s *memRoommateStore) FindByIDs(ids []string) ([]*models.Roommate, error) {
	seen := make(map[string]bool)
	var found []*models.Roommate
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if roommate, ok := s.roommates[id]; ok {
			found = append(found, roommate)
		}
	}
	return found, nil
}

func (s *memRoommateStore) List() ([]*models.Roommate, error) {
	roommates := make([]*models.Roommate, 0, len(s.order))
	for _, id := range s.order {
		roommates = append(roommates, s.roommates[id])
	}
	return roommates, nil
}

func (s *memRoommateStore) IncrementBalance(id string, delta float64) (float64, error) {
	if id == s.failIncrementFor {
		return 0, errors.New("injected increment failure")
	}
	roommate, ok := s.roommates[id]
	if !ok {
		return 0, fmt.Errorf("roommate %s not found", id)
	}
	roommate.Balance += delta
	return roommate.Balance, nil
}

type memExpenseStore struct {
	expenses   map[string]models.Expense
	order      []string
	failInsert bool
	failAttach bool
}

func newMemExpenseStore() *memExpenseStore {
	return &memExpenseStore{expenses: make(map[string]models.Expense)}
}

func (s *memExpenseStore) Insert(expense models.Expense) error {
	if s.failInsert {
		return errors.New("injected insert failure")
	}
	id := expense.Core().ID
	s.expenses[id] = expense
	s.order = append(s.order, id)
	return nil
}

func (s *memExpenseStore) Replace(id string, expense models.Expense) error {
	if _, ok := s.expenses[id]; !ok {
		return fmt.Errorf("expense %s not found", id)
	}
	s.expenses[id] = expense
	return nil
}

func (s *memExpenseStore) Delete(id string) (bool, error) {
	if _, ok := s.expenses[id]; !ok {
		return false, nil
	}
	delete(s.expenses, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *memExpenseStore) FindByID(id string) (models.Expense, error) {
	return s.expenses[id], nil
}

func (s *memExpenseStore) FindByIDs(ids []string) ([]models.Expense, error) {
	seen := make(map[string]bool)
	var found []models.Expense
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if expense, ok := s.expenses[id]; ok {
			found = append(found, expense)
		}
	}
	return found, nil
}

func (s *memExpenseStore) List() ([]models.Expense, error) {
	expenses := make([]models.Expense, 0, len(s.order))
	for _, id := range s.order {
		expenses = append(expenses, s.expenses[id])
	}
	return expenses, nil
}

func (s *memExpenseStore) AttachPaymentSummaries(attachments []models.SummaryAttachment) error {
	if s.failAttach {
		return errors.New("injected attach failure")
	}
	for _, attachment := range attachments {
		expense, ok := s.expenses[attachment.ExpenseID]
		if !ok {
			return fmt.Errorf("expense %s not found", attachment.ExpenseID)
		}
		core := expense.Core()
		core.Payments = append(core.Payments, attachment.Summary)
	}
	return nil
}

func (s *memExpenseStore) DetachPaymentSummary(paymentID string, expenseIDs []string) error {
	for _, id := range expenseIDs {
		expense, ok := s.expenses[id]
		if !ok {
			continue
		}
		core := expense.Core()
		kept := core.Payments[:0]
		for _, summary := range core.Payments {
			if summary.ID != paymentID {
				kept = append(kept, summary)
			}
		}
		core.Payments = kept
	}
	return nil
}

type memPaymentStore struct {
	payments map[string]*models.Payment
	order    []string
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{payments: make(map[string]*models.Payment)}
}

func (s *memPaymentStore) Insert(payment *models.Payment) error {
	s.payments[payment.ID] = payment
	s.order = append(s.order, payment.ID)
	return nil
}

func (s *memPaymentStore) Delete(id string) (bool, error) {
	if _, ok := s.payments[id]; !ok {
		return false, nil
	}
	delete(s.payments, id)
	for i, stored := range s.order {
		if stored == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *memPaymentStore) FindByID(id string) (*models.Payment, error) {
	return s.payments[id], nil
}

func (s *memPaymentStore) List() ([]*models.Payment, error) {
	payments := make([]*models.Payment, 0, len(s.order))
	for _, id := range s.order {
		payments = append(payments, s.payments[id])
	}
	return payments, nil
}

// testEnv wires the services against the fakes with three seeded roommates.
type testEnv struct {
	roommates *memRoommateStore
	expenses  *memExpenseStore
	payments  *memPaymentStore
	balances  *BalanceService

	expenseService *ExpenseService
	paymentService *PaymentService
}

func newTestEnv() *testEnv {
	roommates := newMemRoommateStore()
	for _, name := range []string{"alice", "bob", "carol"} {
		roommates.Create(&models.Roommate{ID: name, Name: name})
	}

	expenses := newMemExpenseStore()
	payments := newMemPaymentStore()
	balances := NewBalanceService(roommates)

	return &testEnv{
		roommates:      roommates,
		expenses:       expenses,
		payments:       payments,
		balances:       balances,
		expenseService: NewExpenseService(roommates, expenses, balances),
		paymentService: NewPaymentService(roommates, expenses, payments, balances),
	}
}

func (e *testEnv) balance(id string) float64 {
	return e.roommates.roommates[id].Balance
}

func floatPtr(v float64) *float64 { return &v }
