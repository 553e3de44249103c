package helper

import "fmt"

// NewError wraps an error with the name of the failed operation
func NewError(operation string, err error) error {
	return fmt.Errorf("error in %s: %w", operation, err)
}
