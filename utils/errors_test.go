package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrors_CollectsPerField(t *testing.T) {
	errs := ValidationErrors{}
	assert.False(t, errs.HasErrors())

	errs.Add("total", "must be positive")
	errs.Add("payers", "at least one payer is required")
	errs.Add("payers", "payers must be distinct")

	assert.True(t, errs.HasErrors())
	assert.Len(t, errs["payers"], 2)
	assert.Contains(t, errs.Error(), "total: must be positive")
}

func TestValidationErrors_Merge(t *testing.T) {
	errs := ValidationErrors{}
	errs.Add("total", "must be positive")

	other := ValidationErrors{}
	other.Add("total", "shares exceed total")
	other.Add("payeeId", "unknown payee")
	errs.Merge(other)

	assert.Len(t, errs["total"], 2)
	assert.Len(t, errs["payeeId"], 1)
}

func TestConsistencyFault_WrapsCause(t *testing.T) {
	cause := errors.New("increment failed")
	fault := NewConsistencyFault("expense registration", cause)

	assert.ErrorIs(t, fault, cause)
	assert.Contains(t, fault.Error(), "expense registration")
}
