package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// PaymentService reconciles payments against the expenses they settle.
// Partial payments are not supported: a payment must cover the payer's full
// outstanding share across every referenced expense, within the rounding
// offset band.
type PaymentService struct {
	roommates RoommateStore
	expenses  ExpenseStore
	payments  PaymentStore
	balances  *BalanceService
}

// NewPaymentService creates a new payment service
func NewPaymentService(roommates RoommateStore, expenses ExpenseStore, payments PaymentStore, balances *BalanceService) *PaymentService {
	return &PaymentService{
		roommates: roommates,
		expenses:  expenses,
		payments:  payments,
		balances:  balances,
	}
}

// Create validates and registers a payment: the payment record is persisted,
// a payment summary is attached to every referenced expense, and the ledger
// effect is applied last. Earlier steps are rolled back when a later one
// fails.
func (s *PaymentService) Create(req *models.PaymentRequest) (*models.Payment, error) {
	errs := utils.ValidationErrors{}

	paidBy, err := s.roommates.FindByID(req.PaidByID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if paidBy == nil {
		errs.Add("paidById", "payer is not a registered roommate")
	}
	paidTo, err := s.roommates.FindByID(req.PaidToID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if paidTo == nil {
		errs.Add("paidToId", "recipient is not a registered roommate")
	}
	if paidBy != nil && paidTo != nil && paidBy.ID == paidTo.ID {
		errs.Add("paidToId", "payer and recipient must differ")
	}

	if len(req.ExpenseIDs) == 0 {
		errs.Add("expenseIds", "at least one expense is required")
	}
	referenced, err := s.expenses.FindByIDs(req.ExpenseIDs)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	sharesComplete := len(referenced) > 0
	if len(referenced) != len(req.ExpenseIDs) {
		errs.Add("expenseIds", "expense ids must be distinct existing expenses")
		sharesComplete = false
	}

	shareSum := decimal.Zero
	for _, expense := range referenced {
		core := expense.Core()

		if expense.Status() == models.StatusPaid {
			errs.Add("expenseIds", fmt.Sprintf("expense %s is already settled", core.ID))
		}
		if paidBy != nil && core.HasPaymentFrom(paidBy.ID) {
			errs.Add("expenseIds", fmt.Sprintf("expense %s already carries a payment from %s", core.ID, paidBy.Name))
		}
		if paidTo != nil && core.Payee.ID != paidTo.ID {
			errs.Add("paidToId", fmt.Sprintf("expense %s is not owed to %s", core.ID, paidTo.Name))
		}
		if paidBy != nil {
			share, ok := payerShare(expense, paidBy.ID)
			if !ok {
				errs.Add("paidById", fmt.Sprintf("%s is not a payer on expense %s", paidBy.Name, core.ID))
				sharesComplete = false
				continue
			}
			shareSum = shareSum.Add(share)
		}
	}

	if sharesComplete && paidBy != nil {
		total := decimal.NewFromFloat(req.Total)
		if !utils.WithinOffsetBand(total, shareSum) {
			errs.Add("total", fmt.Sprintf("partial payments are not supported: the outstanding share total is %s", shareSum))
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}

	payment := s.assemble(req, paidBy, paidTo, referenced)

	if err := s.payments.Insert(payment); err != nil {
		return nil, utils.NewInternalError("Failed to store payment")
	}

	attachments := make([]models.SummaryAttachment, len(referenced))
	for i, expense := range referenced {
		share, _ := payerShare(expense, paidBy.ID)
		attachments[i] = models.SummaryAttachment{
			ExpenseID: expense.Core().ID,
			Summary: models.PaymentSummary{
				ID:     payment.ID,
				Date:   payment.Date,
				PaidBy: paidBy.ID,
				Amount: share.InexactFloat64(),
			},
		}
	}
	if err := s.expenses.AttachPaymentSummaries(attachments); err != nil {
		if _, derr := s.payments.Delete(payment.ID); derr != nil {
			return nil, utils.NewConsistencyFault("payment registration",
				fmt.Errorf("summary attach failed (%v) and payment removal failed (%v)", err, derr))
		}
		return nil, utils.NewConsistencyFault("payment registration", err)
	}

	if err := s.balances.ApplyPayment(payment); err != nil {
		if derr := s.expenses.DetachPaymentSummary(payment.ID, req.ExpenseIDs); derr != nil {
			return nil, utils.NewConsistencyFault("payment registration",
				fmt.Errorf("ledger apply failed (%v) and summary detach failed (%v)", err, derr))
		}
		if _, derr := s.payments.Delete(payment.ID); derr != nil {
			return nil, utils.NewConsistencyFault("payment registration",
				fmt.Errorf("ledger apply failed (%v) and payment removal failed (%v)", err, derr))
		}
		return nil, utils.NewConsistencyFault("payment registration", err)
	}

	return payment, nil
}

func (s *PaymentService) assemble(req *models.PaymentRequest, paidBy, paidTo *models.Roommate, referenced []models.Expense) *models.Payment {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	summaries := make([]models.ExpenseSummary, len(referenced))
	for i, expense := range referenced {
		core := expense.Core()
		summaries[i] = models.ExpenseSummary{
			ID:    core.ID,
			Date:  core.Date,
			Total: core.Total,
		}
	}

	return &models.Payment{
		ID:          utils.GenerateID(),
		Total:       req.Total,
		Date:        date,
		Description: req.Description,
		PaidBy:      models.Payee{ID: paidBy.ID, Name: paidBy.Name},
		PaidTo:      models.Payee{ID: paidTo.ID, Name: paidTo.Name},
		Expenses:    summaries,
		CreatedAt:   time.Now(),
	}
}

// Delete reverses a payment: the ledger effect is negated, the payment record
// removed and its summaries detached from the referenced expenses.
func (s *PaymentService) Delete(id string) error {
	payment, err := s.payments.FindByID(id)
	if err != nil {
		return utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if payment == nil {
		return utils.NewNotFoundError("Payment")
	}

	if err := s.balances.RevertPayment(payment); err != nil {
		return utils.NewConsistencyFault("payment deletion", err)
	}

	found, err := s.payments.Delete(id)
	if err != nil || !found {
		if err == nil {
			err = fmt.Errorf("payment %s disappeared before deletion", id)
		}
		if rerr := s.balances.ApplyPayment(payment); rerr != nil {
			return utils.NewConsistencyFault("payment deletion",
				fmt.Errorf("delete failed (%v) and ledger restore failed (%v)", err, rerr))
		}
		return utils.NewConsistencyFault("payment deletion", err)
	}

	expenseIDs := make([]string, len(payment.Expenses))
	for i, summary := range payment.Expenses {
		expenseIDs[i] = summary.ID
	}
	if err := s.expenses.DetachPaymentSummary(id, expenseIDs); err != nil {
		return utils.NewConsistencyFault("payment deletion", err)
	}
	return nil
}

// Get returns a stored payment.
func (s *PaymentService) Get(id string) (*models.Payment, error) {
	payment, err := s.payments.FindByID(id)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if payment == nil {
		return nil, utils.NewNotFoundError("Payment")
	}
	return payment, nil
}

// List returns all stored payments.
func (s *PaymentService) List() ([]*models.Payment, error) {
	payments, err := s.payments.List()
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	return payments, nil
}

// payerShare returns the payer's computed share on an expense. For itemized
// expenses this is their summed share across items.
func payerShare(expense models.Expense, payerID string) (decimal.Decimal, bool) {
	for _, payer := range expense.PayerShares() {
		if payer.ID == payerID {
			return decimal.NewFromFloat(payer.Amount), true
		}
	}
	return decimal.Zero, false
}
