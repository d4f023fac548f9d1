/*
Copyright 2026 Coffer Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	model2 "github.com/cofferfi/coffer/api/model"
	"github.com/cofferfi/coffer/api/middleware"
	"github.com/cofferfi/coffer/internal/apierror"
)

// RecordDeposit handles crediting an account. The request is bound and
// validated, then handed to the ledger; ledger rejections map to their HTTP
// status through the shared error translation.
//
// Responses:
// - 400 Bad Request: malformed body, missing account, or zero amount.
// - 409 Conflict: the deposit would push the vault past its capacity.
// - 502 Bad Gateway: the settlement leg failed; nothing was credited.
// - 201 Created: the deposit committed.
func (a Api) RecordDeposit(c *gin.Context) {
	var newDeposit model2.RecordDeposit
	if err := c.ShouldBindJSON(&newDeposit); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newDeposit.ValidateRecordDeposit(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.coffer.RecordDeposit(c.Request.Context(), newDeposit.AccountID, newDeposit.Amount, newDeposit.Reference)
	if err != nil {
		apiErr := apierror.FromLedgerError(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// RecordWithdrawal handles debiting an account and sending the value out.
//
// Responses:
// - 400 Bad Request: malformed body, missing account, or zero amount.
// - 422 Unprocessable Entity: over the per-operation limit or the balance.
// - 502 Bad Gateway: the outbound transfer failed; the operation is void.
// - 201 Created: the withdrawal committed.
func (a Api) RecordWithdrawal(c *gin.Context) {
	var newWithdrawal model2.RecordWithdrawal
	if err := c.ShouldBindJSON(&newWithdrawal); err != nil {
		logrus.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := newWithdrawal.ValidateRecordWithdrawal(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.coffer.RecordWithdrawal(c.Request.Context(), newWithdrawal.AccountID, newWithdrawal.Amount)
	if err != nil {
		apiErr := apierror.FromLedgerError(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetBalance returns an account's balance. Callers only see their own
// account unless they hold the master key.
func (a Api) GetBalance(c *gin.Context) {
	accountID, passed := c.Params.Get("account_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required. pass account_id in the route /balances/:account_id"})
		return
	}

	if !middleware.CanAccessAccount(c, accountID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to view this account's balance"})
		return
	}

	balance, err := a.coffer.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		apiErr := apierror.FromLedgerError(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account_id": accountID, "balance": balance})
}

// GetCapacity reports how much value the vault can still accept.
func (a Api) GetCapacity(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"remaining_capacity": a.coffer.RemainingCapacity(c.Request.Context())})
}

// GetStats returns the aggregate vault counters and limits.
func (a Api) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, a.coffer.Stats(c.Request.Context()))
}

// GetOperation fetches a recorded operation by its id.
func (a Api) GetOperation(c *gin.Context) {
	id, passed := c.Params.Get("id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required. pass id in the route /operations/:id"})
		return
	}

	operation, err := a.coffer.GetOperation(c.Request.Context(), id)
	if err != nil {
		apiErr := apierror.FromLedgerError(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusOK, operation)
}
