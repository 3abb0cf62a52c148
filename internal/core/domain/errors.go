package domain

import "errors"

// Sentinel errors returned by repositories when a unique constraint rejects a write.
var (
	ErrDuplicateOrderRef   = errors.New("order reference already exists")
	ErrDuplicatePaymentRef = errors.New("payment reference already recorded on another donation")
	ErrDuplicateEmail      = errors.New("email already registered")
)
