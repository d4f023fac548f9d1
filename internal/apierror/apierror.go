package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cofferfi/coffer/model"
)

type ErrorCode string

const (
	ErrNotFound          ErrorCode = "NOT_FOUND"
	ErrConflict          ErrorCode = "CONFLICT"
	ErrBadRequest        ErrorCode = "BAD_REQUEST"
	ErrInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrNoValueSent       ErrorCode = "NO_VALUE_SENT"
	ErrCapExceeded       ErrorCode = "CAP_EXCEEDED"
	ErrWithdrawalLimit   ErrorCode = "WITHDRAWAL_LIMIT_EXCEEDED"
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrTransferFailed    ErrorCode = "TRANSFER_FAILED"
	ErrInternalServer    ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromLedgerError maps the vault's typed rejections to API errors, carrying
// the structured quantities (attempted/available, requested/limit) in Details
// so callers never have to parse message strings.
func FromLedgerError(err error) APIError {
	var (
		capErr      model.CapExceededError
		limitErr    model.WithdrawalLimitError
		balanceErr  model.InsufficientBalanceError
		transferErr model.TransferFailedError
		apiErr      APIError
	)
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, model.ErrNoValueSent):
		return APIError{Code: ErrNoValueSent, Message: err.Error()}
	case errors.As(err, &capErr):
		return APIError{Code: ErrCapExceeded, Message: capErr.Error(), Details: capErr}
	case errors.As(err, &limitErr):
		return APIError{Code: ErrWithdrawalLimit, Message: limitErr.Error(), Details: limitErr}
	case errors.As(err, &balanceErr):
		return APIError{Code: ErrInsufficientFunds, Message: balanceErr.Error(), Details: balanceErr}
	case errors.As(err, &transferErr):
		return NewAPIError(ErrTransferFailed, transferErr.Error(), transferErr.Err)
	default:
		return NewAPIError(ErrInternalServer, "an unexpected error occurred", err)
	}
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict:
			return http.StatusConflict
		case ErrBadRequest, ErrInvalidInput, ErrNoValueSent:
			return http.StatusBadRequest
		case ErrCapExceeded:
			return http.StatusConflict
		case ErrWithdrawalLimit, ErrInsufficientFunds:
			return http.StatusUnprocessableEntity
		case ErrTransferFailed:
			return http.StatusBadGateway
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
