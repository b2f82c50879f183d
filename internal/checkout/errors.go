package checkout

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to check out")
	ErrPlacementInFlight = errors.New("placement already in progress for this session")
	ErrNotReady          = errors.New("checkout has not passed all required stages")
)

// PersistenceError wraps a storage failure during placement. It is distinct
// from validation so the UI can say "try again" instead of "fix your input".
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure during " + e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
