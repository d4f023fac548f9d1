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

package model

import (
	"errors"
	"fmt"
)

// ErrNoValueSent is returned when a deposit or withdrawal is invoked with a
// zero amount.
var ErrNoValueSent = errors.New("no value sent: amount must be greater than zero")

// CapExceededError rejects a deposit that would push the total held value
// above the vault's immutable capacity.
type CapExceededError struct {
	Attempted uint64 `json:"attempted"`
	Available uint64 `json:"available"`
}

func (e CapExceededError) Error() string {
	return fmt.Sprintf("deposit of %d exceeds vault capacity, only %d available", e.Attempted, e.Available)
}

// WithdrawalLimitError rejects a withdrawal above the per-operation ceiling,
// independent of the account's balance.
type WithdrawalLimitError struct {
	Requested uint64 `json:"requested"`
	Limit     uint64 `json:"limit"`
}

func (e WithdrawalLimitError) Error() string {
	return fmt.Sprintf("withdrawal of %d exceeds the per-operation limit of %d", e.Requested, e.Limit)
}

// InsufficientBalanceError rejects a withdrawal above the account's recorded
// balance.
type InsufficientBalanceError struct {
	Requested uint64 `json:"requested"`
	Available uint64 `json:"available"`
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf("withdrawal of %d exceeds available balance of %d", e.Requested, e.Available)
}

// TransferFailedError reports that the outbound value transfer primitive
// failed. The withdrawal it belongs to is void: no balance, total or counter
// was mutated.
type TransferFailedError struct {
	Err error
}

func (e TransferFailedError) Error() string {
	return fmt.Sprintf("outbound transfer failed: %v", e.Err)
}

func (e TransferFailedError) Unwrap() error {
	return e.Err
}
