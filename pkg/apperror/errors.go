package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Donation Lifecycle (DON) ----

// Validation returns a DON_001 error for malformed or missing request fields.
func Validation(message string) *AppError {
	return New("DON_001", message, http.StatusBadRequest)
}

func ErrInvalidAmount() *AppError {
	return New("DON_002", "Invalid amount", http.StatusBadRequest)
}

func ErrAmountTooLarge(max string) *AppError {
	return New("DON_002", fmt.Sprintf("Amount cannot exceed %s", max), http.StatusBadRequest)
}

func ErrSignatureMismatch() *AppError {
	return New("DON_003", "Invalid payment signature", http.StatusBadRequest)
}

func ErrNotFound(entity string) *AppError {
	return New("DON_004", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrPaymentNotCaptured() *AppError {
	return New("DON_005", "Payment not captured", http.StatusBadRequest)
}

func ErrDuplicatePayment() *AppError {
	return New("DON_006", "Payment already attached to another donation", http.StatusConflict)
}

// ---- Payment Gateway (GW) ----

// ErrGateway reports a failed or timed-out call to the payment provider.
// The provider's message is surfaced to the client.
func ErrGateway(err error) *AppError {
	msg := "Payment gateway error"
	if err != nil {
		msg = fmt.Sprintf("Payment gateway error: %v", err)
	}
	return Wrap("GW_001", msg, http.StatusInternalServerError, err)
}

// ---- Authentication (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrEmailExists() *AppError {
	return New("AUTH_002", "User already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Please authenticate", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
