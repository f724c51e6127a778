package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// SplitService computes a single payer's monetary share of a total under a
// distribution rule. It is pure; rounding policy lives in utils.RoundMoney.
type SplitService struct{}

// NewSplitService creates a new split service
func NewSplitService() *SplitService {
	return &SplitService{}
}

// Share returns the payer's share of total under the given rule, rounded to
// three decimal places towards positive infinity.
//
// Even divides the total by the payer count. Proportional multiplies the
// total by the payer's multiplier. Custom returns the payer's own amount.
// The rule set is closed; the validator never lets an unknown rule through,
// so anything else is a programming error.
func (s *SplitService) Share(rule models.Distribution, total decimal.Decimal, payerCount int, payer models.PayerInput) decimal.Decimal {
	switch rule {
	case models.DistributionEven:
		return utils.RoundMoney(total.Div(decimal.NewFromInt(int64(payerCount))))
	case models.DistributionProportional:
		return utils.RoundMoney(total.Mul(decimal.NewFromFloat(*payer.Multiplier)))
	case models.DistributionCustom:
		return utils.RoundMoney(decimal.NewFromFloat(*payer.Amount))
	}
	panic(fmt.Sprintf("unknown distribution rule %q", rule))
}
