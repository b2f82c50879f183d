package order

import "errors"

var (
	ErrNotFound        = errors.New("order not found")
	ErrVersionConflict = errors.New("order was updated concurrently, reload and retry")
)

// ValidationError marks input the caller can fix, as opposed to storage
// failures the caller can only retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
