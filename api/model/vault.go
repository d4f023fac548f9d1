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
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RecordDeposit is the request body for crediting an account. The amount is
// validated by the ledger itself so a zero value surfaces as the ledger's
// own error, not a generic validation message.
type RecordDeposit struct {
	AccountID string `json:"account_id"`
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference"`
}

func (d *RecordDeposit) ValidateRecordDeposit() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.AccountID, validation.Required),
	)
}

// RecordWithdrawal is the request body for debiting an account.
type RecordWithdrawal struct {
	AccountID string `json:"account_id"`
	Amount    uint64 `json:"amount"`
}

func (w *RecordWithdrawal) ValidateRecordWithdrawal() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.AccountID, validation.Required),
	)
}
