package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// ExpenseService validates expense drafts, assembles them into persistable
// entities and drives the create/update/delete lifecycle. Mutations follow
// Validate -> Assemble -> Persist -> Apply-Ledger; if a persistence step fails
// after a ledger effect was applied, the exact inverse ledger call is issued
// before the failure surfaces.
type ExpenseService struct {
	roommates RoommateStore
	expenses  ExpenseStore
	balances  *BalanceService
	split     *SplitService
}

// NewExpenseService creates a new expense service
func NewExpenseService(roommates RoommateStore, expenses ExpenseStore, balances *BalanceService) *ExpenseService {
	return &ExpenseService{
		roommates: roommates,
		expenses:  expenses,
		balances:  balances,
		split:     NewSplitService(),
	}
}

// CreateSimple registers a flat-split expense.
func (s *ExpenseService) CreateSimple(req *models.SimpleExpenseRequest) (*models.SimpleExpense, error) {
	expense, err := s.buildSimple(req)
	if err != nil {
		return nil, err
	}
	if err := s.register(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// CreateDetailed registers an itemized expense.
func (s *ExpenseService) CreateDetailed(req *models.DetailedExpenseRequest) (*models.DetailedExpense, error) {
	expense, err := s.buildDetailed(req)
	if err != nil {
		return nil, err
	}
	if err := s.register(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *ExpenseService) register(expense models.Expense) error {
	if err := s.expenses.Insert(expense); err != nil {
		return utils.NewInternalError("Failed to store expense")
	}
	if err := s.balances.ApplyExpense(expense); err != nil {
		// Remove the stored expense so records and balances stay consistent
		if _, derr := s.expenses.Delete(expense.Core().ID); derr != nil {
			return utils.NewConsistencyFault("expense registration",
				fmt.Errorf("ledger apply failed (%v) and expense removal failed (%v)", err, derr))
		}
		return utils.NewConsistencyFault("expense registration", err)
	}
	return nil
}

// UpdateSimple replaces a stored expense with a new simple draft.
func (s *ExpenseService) UpdateSimple(req *models.UpdateSimpleExpenseRequest) (models.Expense, error) {
	return s.update(req.ID, func() (models.Expense, error) {
		return s.buildSimple(&req.Expense)
	})
}

// UpdateDetailed replaces a stored expense with a new itemized draft.
func (s *ExpenseService) UpdateDetailed(req *models.UpdateDetailedExpenseRequest) (models.Expense, error) {
	return s.update(req.ID, func() (models.Expense, error) {
		return s.buildDetailed(&req.Expense)
	})
}

// update reverts the stored expense's ledger effect, persists the replacement
// and applies the new effect. The new draft is validated first so that a
// rejected draft never mutates anything; a persistence failure restores the
// stored ledger state before surfacing.
func (s *ExpenseService) update(id string, build func() (models.Expense, error)) (models.Expense, error) {
	stored, err := s.expenses.FindByID(id)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if stored == nil {
		return nil, utils.NewNotFoundError("Expense")
	}

	replacement, err := build()
	if err != nil {
		return nil, err
	}
	// The replacement keeps the stored identity and its payment summaries
	replacement.Core().ID = id
	replacement.Core().Payments = stored.Core().Payments

	if err := s.balances.RevertExpense(stored); err != nil {
		return nil, utils.NewConsistencyFault("expense update", err)
	}
	if err := s.expenses.Replace(id, replacement); err != nil {
		if rerr := s.balances.ApplyExpense(stored); rerr != nil {
			return nil, utils.NewConsistencyFault("expense update",
				fmt.Errorf("replace failed (%v) and ledger restore failed (%v)", err, rerr))
		}
		return nil, utils.NewConsistencyFault("expense update", err)
	}
	if err := s.balances.ApplyExpense(replacement); err != nil {
		return nil, utils.NewConsistencyFault("expense update", err)
	}
	return replacement, nil
}

// Delete removes an expense, reverting its ledger effect first. An expense
// with attached payment summaries is never deleted.
func (s *ExpenseService) Delete(id string) error {
	stored, err := s.expenses.FindByID(id)
	if err != nil {
		return utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if stored == nil {
		return utils.NewNotFoundError("Expense")
	}
	if len(stored.Core().Payments) > 0 {
		return utils.NewBadRequestError("Expense has recorded payments and cannot be deleted")
	}

	if err := s.balances.RevertExpense(stored); err != nil {
		return utils.NewConsistencyFault("expense deletion", err)
	}
	found, err := s.expenses.Delete(id)
	if err != nil || !found {
		if err == nil {
			err = fmt.Errorf("expense %s disappeared before deletion", id)
		}
		if rerr := s.balances.ApplyExpense(stored); rerr != nil {
			return utils.NewConsistencyFault("expense deletion",
				fmt.Errorf("delete failed (%v) and ledger restore failed (%v)", err, rerr))
		}
		return utils.NewConsistencyFault("expense deletion", err)
	}
	return nil
}

// Get returns a stored expense with its derived status.
func (s *ExpenseService) Get(id string) (*models.ExpenseResponse, error) {
	expense, err := s.expenses.FindByID(id)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if expense == nil {
		return nil, utils.NewNotFoundError("Expense")
	}
	response := models.NewExpenseResponse(expense)
	return &response, nil
}

// List returns all stored expenses with derived statuses.
func (s *ExpenseService) List() ([]models.ExpenseResponse, error) {
	expenses, err := s.expenses.List()
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	responses := make([]models.ExpenseResponse, 0, len(expenses))
	for _, expense := range expenses {
		responses = append(responses, models.NewExpenseResponse(expense))
	}
	return responses, nil
}

// buildSimple validates a simple draft and assembles the entity. All
// applicable checks run before the draft is rejected; share computation and
// total reconciliation only run once the structural checks pass, because they
// are meaningless otherwise.
func (s *ExpenseService) buildSimple(req *models.SimpleExpenseRequest) (*models.SimpleExpense, error) {
	errs := utils.ValidationErrors{}

	distribution := s.resolveDistribution(req.Distribution, len(req.Payers), errs)

	payee, err := s.roommates.FindByID(req.PayeeID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if payee == nil {
		errs.Add("payeeId", "payee is not a registered roommate")
	}

	resolved, err := s.resolvePayers(payerIDs(req.Payers))
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if len(req.Payers) > 0 && len(resolved) != len(req.Payers) {
		errs.Add("payers", "payers must be distinct registered roommates")
	}

	if len(req.Payers) == 1 && payee != nil && req.Payers[0].ID == payee.ID {
		errs.Add("payeeId", "a roommate cannot owe an expense to themselves")
		errs.Add("payers", "a roommate cannot owe an expense to themselves")
	}

	s.checkPayerShapes(distribution, req.Payers, errs)

	if errs.HasErrors() {
		return nil, errs
	}

	total := decimal.NewFromFloat(req.Total)
	payers := s.computePayers(distribution, total, req.Payers, resolved)

	sum := sumPayerAmounts(payers)
	if !utils.WithinOffsetBand(sum, total) {
		errs.Add("total", fmt.Sprintf("payer shares total %s but the expense total is %s", sum, total))
		errs.Add("payers", fmt.Sprintf("payer shares total %s but the expense total is %s", sum, total))
		return nil, errs
	}

	return &models.SimpleExpense{
		ExpenseCore:  s.assembleCore(req.Total, req.Date, req.Description, req.Business, req.Tags, payee),
		Distribution: distribution,
		Refundable:   req.Refundable,
		Payers:       payers,
	}, nil
}

// buildDetailed validates an itemized draft and assembles the entity. Payers
// are resolved once across the union of all item payers; each item carries
// its own rule, band check and self-expense guard. Item totals must sum to
// the expense total exactly.
func (s *ExpenseService) buildDetailed(req *models.DetailedExpenseRequest) (*models.DetailedExpense, error) {
	errs := utils.ValidationErrors{}

	payee, err := s.roommates.FindByID(req.PayeeID)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if payee == nil {
		errs.Add("payeeId", "payee is not a registered roommate")
	}

	union := unionPayerIDs(req.Items)
	resolved, err := s.resolvePayers(union)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if len(resolved) != len(union) {
		errs.Add("payers", "payers must be registered roommates")
	}

	distributions := make([]models.Distribution, len(req.Items))
	for i, item := range req.Items {
		label := fmt.Sprintf("item %d", i+1)

		itemErrs := utils.ValidationErrors{}
		distributions[i] = s.resolveDistribution(item.Distribution, len(item.Payers), itemErrs)

		if dup := duplicatePayerID(item.Payers); dup != "" {
			itemErrs.Add("payers", fmt.Sprintf("payer %s appears more than once", dup))
		}
		if len(item.Payers) == 1 && payee != nil && item.Payers[0].ID == payee.ID {
			itemErrs.Add("payeeId", "a roommate cannot owe an expense to themselves")
			itemErrs.Add("payers", "a roommate cannot owe an expense to themselves")
		}
		s.checkPayerShapes(distributions[i], item.Payers, itemErrs)

		for field, messages := range itemErrs {
			for _, message := range messages {
				errs.Add("items", fmt.Sprintf("%s: %s: %s", label, field, message))
			}
		}
	}

	if errs.HasErrors() {
		return nil, errs
	}

	items := make([]models.ExpenseItem, len(req.Items))
	itemTotalSum := decimal.Zero
	for i, item := range req.Items {
		itemTotal := utils.RoundMoney(decimal.NewFromFloat(item.UnitPrice).Mul(decimal.NewFromInt(int64(item.Quantity))))
		itemTotalSum = itemTotalSum.Add(itemTotal)

		payers := s.computePayers(distributions[i], itemTotal, item.Payers, resolved)
		sum := sumPayerAmounts(payers)
		if !utils.WithinOffsetBand(sum, itemTotal) {
			errs.Add("items", fmt.Sprintf("item %d: payer shares total %s but the item total is %s", i+1, sum, itemTotal))
			errs.Add("payers", fmt.Sprintf("item %d: payer shares total %s but the item total is %s", i+1, sum, itemTotal))
		}

		items[i] = models.ExpenseItem{
			ID:           i + 1,
			Name:         item.Name,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Total:        itemTotal.InexactFloat64(),
			Distribution: distributions[i],
			Refundable:   item.Refundable,
			Payers:       payers,
		}
	}

	// No tolerance at the expense level: items must account for the total exactly
	if !itemTotalSum.Equal(decimal.NewFromFloat(req.Total)) {
		errs.Add("total", fmt.Sprintf("item totals sum to %s but the expense total is %s", itemTotalSum, decimal.NewFromFloat(req.Total)))
	}

	if errs.HasErrors() {
		return nil, errs
	}

	return &models.DetailedExpense{
		ExpenseCore: s.assembleCore(req.Total, req.Date, req.Description, req.Business, req.Tags, payee),
		Items:       items,
	}, nil
}

// resolveDistribution applies the defaulting rule: a lone payer without a
// rule gets Even, multiple payers without a rule are rejected.
func (s *ExpenseService) resolveDistribution(distribution models.Distribution, payerCount int, errs utils.ValidationErrors) models.Distribution {
	if payerCount == 0 {
		errs.Add("payers", "at least one payer is required")
	}
	switch distribution {
	case models.DistributionEven, models.DistributionProportional, models.DistributionCustom:
		return distribution
	case "":
		if payerCount == 1 {
			return models.DistributionEven
		}
		if payerCount > 1 {
			errs.Add("distribution", "a distribution rule is required when splitting between multiple payers")
		}
	default:
		errs.Add("distribution", fmt.Sprintf("unknown distribution rule %q", distribution))
	}
	return ""
}

// checkPayerShapes enforces the distribution-specific payer requirements: no
// payer carries both an amount and a multiplier, custom payers carry positive
// amounts, proportional payers carry multipliers in (0,1] summing to exactly
// 1 when compared at six decimal places.
func (s *ExpenseService) checkPayerShapes(distribution models.Distribution, payers []models.PayerInput, errs utils.ValidationErrors) {
	for _, payer := range payers {
		if payer.Amount != nil && payer.Multiplier != nil {
			errs.Add("payers", fmt.Sprintf("payer %s cannot carry both a custom amount and a multiplier", payer.ID))
		}
	}

	switch distribution {
	case models.DistributionCustom:
		for _, payer := range payers {
			if payer.Amount == nil || *payer.Amount <= 0 {
				errs.Add("payers", fmt.Sprintf("payer %s needs a positive amount for a custom distribution", payer.ID))
			}
		}
	case models.DistributionProportional:
		sum := decimal.Zero
		complete := len(payers) > 0
		for _, payer := range payers {
			if payer.Multiplier == nil || *payer.Multiplier <= 0 || *payer.Multiplier > 1 {
				errs.Add("payers", fmt.Sprintf("payer %s needs a multiplier in (0,1] for a proportional distribution", payer.ID))
				complete = false
				continue
			}
			sum = sum.Add(decimal.NewFromFloat(*payer.Multiplier))
		}
		if complete && !sum.Round(utils.MultiplierSumPlaces).Equal(decimal.NewFromInt(1)) {
			errs.Add("payers", fmt.Sprintf("payer multipliers sum to %s, expected 1", sum))
		}
	}
}

// computePayers runs the distribution engine per payer and attaches resolved
// display names.
func (s *ExpenseService) computePayers(distribution models.Distribution, total decimal.Decimal, inputs []models.PayerInput, resolved map[string]*models.Roommate) []models.Payer {
	payers := make([]models.Payer, len(inputs))
	for i, input := range inputs {
		share := s.split.Share(distribution, total, len(inputs), input)
		payers[i] = models.Payer{
			ID:     input.ID,
			Name:   resolved[input.ID].Name,
			Amount: share.InexactFloat64(),
		}
	}
	return payers
}

func (s *ExpenseService) assembleCore(total float64, date time.Time, description, business string, tags []string, payee *models.Roommate) models.ExpenseCore {
	if date.IsZero() {
		date = time.Now()
	}
	return models.ExpenseCore{
		ID:          utils.GenerateID(),
		Total:       total,
		Date:        date,
		Description: description,
		Business:    business,
		Tags:        tags,
		Payee:       models.Payee{ID: payee.ID, Name: payee.Name},
	}
}

// resolvePayers maps distinct payer ids to roommate records. Unknown ids are
// simply absent; the callers compare counts.
func (s *ExpenseService) resolvePayers(ids []string) (map[string]*models.Roommate, error) {
	if len(ids) == 0 {
		return map[string]*models.Roommate{}, nil
	}
	roommates, err := s.roommates.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	resolved := make(map[string]*models.Roommate, len(roommates))
	for _, roommate := range roommates {
		resolved[roommate.ID] = roommate
	}
	return resolved, nil
}

func payerIDs(payers []models.PayerInput) []string {
	ids := make([]string, len(payers))
	for i, payer := range payers {
		ids[i] = payer.ID
	}
	return ids
}

func unionPayerIDs(items []models.ItemInput) []string {
	seen := make(map[string]bool)
	var union []string
	for _, item := range items {
		for _, payer := range item.Payers {
			if !seen[payer.ID] {
				seen[payer.ID] = true
				union = append(union, payer.ID)
			}
		}
	}
	return union
}

func duplicatePayerID(payers []models.PayerInput) string {
	seen := make(map[string]bool)
	for _, payer := range payers {
		if seen[payer.ID] {
			return payer.ID
		}
		seen[payer.ID] = true
	}
	return ""
}

func sumPayerAmounts(payers []models.Payer) decimal.Decimal {
	sum := decimal.Zero
	for _, payer := range payers {
		sum = sum.Add(decimal.NewFromFloat(payer.Amount))
	}
	return sum
}
