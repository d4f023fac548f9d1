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

package database

import (
	"database/sql"

	"github.com/pkg/errors"

	"github.com/cofferfi/coffer/internal/apierror"
	"github.com/cofferfi/coffer/model"
)

// RecordOperation writes a committed operation, the account's new balance
// and the aggregate snapshot in one transaction, so the store can never hold
// an operation whose effects are missing.
func (d *Datasource) RecordOperation(op *model.Operation, state model.VaultState) error {
	tx, err := d.Conn.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin operation transaction")
	}

	_, err = tx.Exec(`
		INSERT INTO operations (operation_id, account_id, type, amount, balance_after, reference, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, op.OperationID, op.AccountID, op.Type, int64(op.Amount), int64(op.BalanceAfter), op.Reference, op.CreatedAt)
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed to insert operation")
	}

	_, err = tx.Exec(`
		INSERT INTO accounts (account_id, balance) VALUES ($1, $2)
		ON CONFLICT (account_id) DO UPDATE SET balance = EXCLUDED.balance
	`, op.AccountID, int64(op.BalanceAfter))
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed to upsert account balance")
	}

	_, err = tx.Exec(`
		UPDATE vault_state SET total_deposited = $1, deposit_count = $2, withdrawal_count = $3 WHERE id = 1
	`, int64(state.TotalDeposited), int64(state.DepositCount), int64(state.WithdrawalCount))
	if err != nil {
		_ = tx.Rollback()
		return errors.Wrap(err, "failed to update vault state")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit operation transaction")
	}
	return nil
}

// LoadVaultState reads the aggregate snapshot and all account balances for
// startup rehydration.
func (d *Datasource) LoadVaultState() (model.VaultState, map[string]uint64, error) {
	var state model.VaultState
	var totalDeposited, depositCount, withdrawalCount int64

	row := d.Conn.QueryRow(`SELECT total_deposited, deposit_count, withdrawal_count FROM vault_state WHERE id = 1`)
	if err := row.Scan(&totalDeposited, &depositCount, &withdrawalCount); err != nil {
		return state, nil, errors.Wrap(err, "failed to load vault state")
	}
	state.TotalDeposited = uint64(totalDeposited)
	state.DepositCount = uint64(depositCount)
	state.WithdrawalCount = uint64(withdrawalCount)

	rows, err := d.Conn.Query(`SELECT account_id, balance FROM accounts`)
	if err != nil {
		return state, nil, errors.Wrap(err, "failed to load account balances")
	}
	defer rows.Close()

	balances := make(map[string]uint64)
	for rows.Next() {
		var account string
		var balance int64
		if err := rows.Scan(&account, &balance); err != nil {
			return state, nil, errors.Wrap(err, "failed to scan account balance")
		}
		balances[account] = uint64(balance)
	}
	if err := rows.Err(); err != nil {
		return state, nil, errors.Wrap(err, "failed to iterate account balances")
	}

	return state, balances, nil
}

// GetOperation fetches one operation by id.
func (d *Datasource) GetOperation(id string) (*model.Operation, error) {
	row := d.Conn.QueryRow(`
		SELECT operation_id, account_id, type, amount, balance_after, reference, created_at
		FROM operations WHERE operation_id = $1
	`, id)

	op := &model.Operation{}
	var amount, balanceAfter int64
	err := row.Scan(&op.OperationID, &op.AccountID, &op.Type, &amount, &balanceAfter, &op.Reference, &op.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "operation not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get operation")
	}
	op.Amount = uint64(amount)
	op.BalanceAfter = uint64(balanceAfter)
	return op, nil
}
