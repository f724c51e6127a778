package utils

const (
	// Precision for monetary calculations
	MoneyDecimalPlaces int32 = 3

	// Maximum amount by which a set of rounded shares may exceed the
	// recorded total before a request is rejected
	MaxRoundingOffset = 0.1

	// Decimal places at which payer multipliers are compared against 1
	MultiplierSumPlaces = 6

	// HTTP status messages
	ErrInvalidRequest   = "Invalid request"
	ErrFailedToStore    = "Failed to store data"
	ErrFailedToRetrieve = "Failed to retrieve data"
)
