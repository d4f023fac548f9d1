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
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	OpDeposit    = "DEPOSIT"
	OpWithdrawal = "WITHDRAWAL"
)

// Operation is the durable record of one successful deposit or withdrawal.
// BalanceAfter is the account's balance immediately after the movement, as
// carried by the emitted notification.
type Operation struct {
	OperationID  string    `json:"operation_id"`
	AccountID    string    `json:"account_id"`
	Type         string    `json:"type"`
	Amount       uint64    `json:"amount"`
	BalanceAfter uint64    `json:"balance_after"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// GenerateUUIDWithSuffix generates a UUID prefixed with a module name, giving
// identifiers context-specific prefixes like dep_ and wdl_.
func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	return fmt.Sprintf("%s_%s", module, id.String())
}
