package apperrors

import (
	"errors"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidAmount indicates a money amount that is zero or negative.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// ErrInsufficientBalance indicates a debit larger than the available balance.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrReputationCheckFailed indicates the external reputation service rejected an identity.
var ErrReputationCheckFailed = errors.New("reputation check failed, settle your other debt")

// ErrInvalidStatusTransition indicates an attempt to move a ledger entry out of a terminal state.
var ErrInvalidStatusTransition = errors.New("invalid transaction status transition")

// AppError carries an HTTP status code alongside a client-safe message.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewBadRequestError returns a 400 AppError.
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}

// NewInternalServerError returns a 500 AppError.
func NewInternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

// NewGatewayTimeoutError returns a 504 AppError, used when an upstream provider does not answer.
func NewGatewayTimeoutError(message string) *AppError {
	return NewAppError(http.StatusGatewayTimeout, message, nil)
}
