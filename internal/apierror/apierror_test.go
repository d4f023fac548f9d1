package apierror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cofferfi/coffer/model"
)

func TestFromLedgerError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   ErrorCode
		wantStatus int
	}{
		{
			name:       "no value sent",
			err:        model.ErrNoValueSent,
			wantCode:   ErrNoValueSent,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "cap exceeded",
			err:        model.CapExceededError{Attempted: 6, Available: 5},
			wantCode:   ErrCapExceeded,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "withdrawal limit",
			err:        model.WithdrawalLimitError{Requested: 2, Limit: 1},
			wantCode:   ErrWithdrawalLimit,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "insufficient funds",
			err:        model.InsufficientBalanceError{Requested: 1, Available: 0},
			wantCode:   ErrInsufficientFunds,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "transfer failed",
			err:        model.TransferFailedError{Err: errors.New("recipient rejected")},
			wantCode:   ErrTransferFailed,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantCode:   ErrInternalServer,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromLedgerError(tt.err)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantStatus, MapErrorToHTTPStatus(apiErr))
		})
	}
}

func TestCapExceededDetailsCarryQuantities(t *testing.T) {
	apiErr := FromLedgerError(model.CapExceededError{Attempted: 6, Available: 5})
	details, ok := apiErr.Details.(model.CapExceededError)
	assert.True(t, ok)
	assert.Equal(t, uint64(6), details.Attempted)
	assert.Equal(t, uint64(5), details.Available)
}

func TestMapErrorToHTTPStatusUnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, MapErrorToHTTPStatus(errors.New("not an api error")))
}
