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
	"sync"
)

// TransferFunc is the outbound value transfer primitive supplied by the
// hosting environment. It must report failure so a withdrawal can be voided
// as a unit.
type TransferFunc func(account string, amount uint64) error

// VaultState is an aggregate snapshot of a vault: the total held value and
// the operation counters. Conservation holds for every reachable state:
// TotalDeposited equals the sum of all account balances.
type VaultState struct {
	TotalDeposited  uint64 `json:"total_deposited"`
	DepositCount    uint64 `json:"deposit_count"`
	WithdrawalCount uint64 `json:"withdrawal_count"`
}

// Vault is the balance-and-limit invariant engine. It owns the account
// balance map, the aggregate totals and the two immutable limits, and it
// checks every movement before committing it. Mutating operations are
// mutually exclusive; reads observe a consistent snapshot.
type Vault struct {
	capacity        uint64
	withdrawalLimit uint64

	mutex           sync.RWMutex
	totalDeposited  uint64
	depositCount    uint64
	withdrawalCount uint64
	balances        map[string]uint64
}

// NewVault creates an empty vault with the two immutable limits. The limits
// are deliberately not validated: a zero capacity makes every deposit
// impossible and a zero withdrawal limit makes every withdrawal impossible.
func NewVault(capacity, withdrawalLimit uint64) *Vault {
	return &Vault{
		capacity:        capacity,
		withdrawalLimit: withdrawalLimit,
		balances:        make(map[string]uint64),
	}
}

// NewVaultFromState rebuilds a vault from a persisted snapshot. The snapshot
// is rejected when it breaks conservation or exceeds the capacity, so a
// corrupt store can never produce a vault in an unreachable state.
func NewVaultFromState(capacity, withdrawalLimit uint64, balances map[string]uint64, state VaultState) (*Vault, error) {
	var sum uint64
	for _, balance := range balances {
		sum += balance
	}
	if sum != state.TotalDeposited {
		return nil, fmt.Errorf("persisted balances sum to %d but total deposited is %d", sum, state.TotalDeposited)
	}
	if state.TotalDeposited > capacity {
		return nil, fmt.Errorf("persisted total %d exceeds vault capacity %d", state.TotalDeposited, capacity)
	}

	vault := NewVault(capacity, withdrawalLimit)
	for account, balance := range balances {
		if balance == 0 {
			continue
		}
		vault.balances[account] = balance
	}
	vault.totalDeposited = state.TotalDeposited
	vault.depositCount = state.DepositCount
	vault.withdrawalCount = state.WithdrawalCount
	return vault, nil
}

// Deposit credits amount to account. Checks run in order and the first
// failing check wins with no partial effect: the amount must be positive and
// must fit in the remaining capacity. It returns the account's balance after
// the credit.
func (v *Vault) Deposit(account string, amount uint64) (uint64, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if amount == 0 {
		return 0, ErrNoValueSent
	}
	available := v.capacity - v.totalDeposited
	if amount > available {
		return 0, CapExceededError{Attempted: amount, Available: available}
	}

	v.balances[account] += amount
	v.totalDeposited += amount
	v.depositCount++
	return v.balances[account], nil
}

// Withdraw debits amount from account and hands it to the transfer
// primitive. Checks run in order: positive amount, per-operation limit, then
// the account's own balance. The transfer runs inside the exclusive section
// before the effects commit, so no reader can observe a state where value
// left custody but the ledger was not decremented; a failed transfer voids
// the whole operation with TransferFailedError. A nil transfer commits the
// effects without an external interaction. It returns the account's balance
// after the debit.
func (v *Vault) Withdraw(account string, amount uint64, transfer TransferFunc) (uint64, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if amount == 0 {
		return 0, ErrNoValueSent
	}
	if amount > v.withdrawalLimit {
		return 0, WithdrawalLimitError{Requested: amount, Limit: v.withdrawalLimit}
	}
	balance := v.balances[account]
	if amount > balance {
		return 0, InsufficientBalanceError{Requested: amount, Available: balance}
	}

	if transfer != nil {
		if err := transfer(account, amount); err != nil {
			return 0, TransferFailedError{Err: err}
		}
	}

	v.balances[account] = balance - amount
	v.totalDeposited -= amount
	v.withdrawalCount++
	return v.balances[account], nil
}

// BalanceOf returns the recorded balance for account, zero for accounts the
// vault has never seen.
func (v *Vault) BalanceOf(account string) uint64 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.balances[account]
}

// RemainingCapacity returns how much value the vault can still accept.
func (v *Vault) RemainingCapacity() uint64 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return v.capacity - v.totalDeposited
}

// Capacity returns the immutable total-value ceiling.
func (v *Vault) Capacity() uint64 {
	return v.capacity
}

// WithdrawalLimit returns the immutable per-operation ceiling.
func (v *Vault) WithdrawalLimit() uint64 {
	return v.withdrawalLimit
}

// Snapshot returns a consistent aggregate view of the vault.
func (v *Vault) Snapshot() VaultState {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	return VaultState{
		TotalDeposited:  v.totalDeposited,
		DepositCount:    v.depositCount,
		WithdrawalCount: v.withdrawalCount,
	}
}

// Balances returns a copy of the balance map.
func (v *Vault) Balances() map[string]uint64 {
	v.mutex.RLock()
	defer v.mutex.RUnlock()
	balances := make(map[string]uint64, len(v.balances))
	for account, balance := range v.balances {
		balances[account] = balance
	}
	return balances
}
