package utils

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewBadRequestError(fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}
