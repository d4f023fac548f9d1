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

package coffer

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	redlock "github.com/cofferfi/coffer/internal/lock"
	"github.com/cofferfi/coffer/internal/notification"
	"github.com/cofferfi/coffer/model"
)

var (
	vaultTracer = otel.Tracer("coffer.vault")
)

const (
	vaultLockKey     = "coffer:vault:lock"
	vaultLockTimeout = 30 * time.Second
	vaultLockWait    = 10 * time.Second

	balanceCacheTTL = 5 * time.Minute
)

func balanceCacheKey(account string) string {
	return fmt.Sprintf("balance:%s", account)
}

// acquireVaultLock takes the distributed mutation lock so replicas never
// interleave deposits and withdrawals on the same vault.
func (c *Coffer) acquireVaultLock(ctx context.Context) (*redlock.Locker, error) {
	locker := redlock.NewLocker(c.redis, vaultLockKey, model.GenerateUUIDWithSuffix("lock"))
	if err := locker.WaitLock(ctx, vaultLockTimeout, vaultLockWait); err != nil {
		return nil, err
	}
	return locker, nil
}

// RecordDeposit credits amount to the account after the inbound value has
// been confirmed with the settlement gateway. The engine enforces the
// positive-amount and capacity checks; on success the operation is persisted
// with the aggregate snapshot and a vault.deposit webhook is emitted.
func (c *Coffer) RecordDeposit(ctx context.Context, accountID string, amount uint64, reference string) (*model.Operation, error) {
	ctx, span := vaultTracer.Start(ctx, "RecordDeposit")
	defer span.End()

	if amount == 0 {
		return nil, model.ErrNoValueSent
	}

	// Funds must be escrowed before the ledger will credit them.
	if err := c.gateway.ConfirmInbound(ctx, reference, accountID, amount); err != nil {
		span.RecordError(err)
		return nil, model.TransferFailedError{Err: err}
	}

	locker, err := c.acquireVaultLock(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer func() {
		if err := locker.Unlock(ctx); err != nil {
			notification.NotifyError(err)
		}
	}()

	newBalance, err := c.vault.Deposit(accountID, amount)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	op := &model.Operation{
		OperationID:  model.GenerateUUIDWithSuffix("dep"),
		AccountID:    accountID,
		Type:         model.OpDeposit,
		Amount:       amount,
		BalanceAfter: newBalance,
		Reference:    reference,
		CreatedAt:    time.Now(),
	}
	c.persistOperation(ctx, op)
	span.AddEvent("Deposit applied", trace.WithAttributes(
		attribute.String("account.id", accountID),
		attribute.String("operation.id", op.OperationID),
	))

	c.postOperationActions(ctx, op, "vault.deposit")
	return op, nil
}

// RecordWithdrawal debits amount from the account and sends it out through
// the settlement gateway. The outbound transfer runs inside the engine's
// exclusive section; if it fails the whole operation is void and no effect
// is observable.
func (c *Coffer) RecordWithdrawal(ctx context.Context, accountID string, amount uint64) (*model.Operation, error) {
	ctx, span := vaultTracer.Start(ctx, "RecordWithdrawal")
	defer span.End()

	locker, err := c.acquireVaultLock(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	defer func() {
		if err := locker.Unlock(ctx); err != nil {
			notification.NotifyError(err)
		}
	}()

	newBalance, err := c.vault.Withdraw(accountID, amount, func(account string, amount uint64) error {
		return c.gateway.Transfer(ctx, account, amount)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	op := &model.Operation{
		OperationID:  model.GenerateUUIDWithSuffix("wdl"),
		AccountID:    accountID,
		Type:         model.OpWithdrawal,
		Amount:       amount,
		BalanceAfter: newBalance,
		CreatedAt:    time.Now(),
	}
	c.persistOperation(ctx, op)
	span.AddEvent("Withdrawal applied", trace.WithAttributes(
		attribute.String("account.id", accountID),
		attribute.String("operation.id", op.OperationID),
	))

	c.postOperationActions(ctx, op, "vault.withdrawal")
	return op, nil
}

// persistOperation records the committed operation and the aggregate
// snapshot it produced. The engine stays authoritative: a store failure after
// an engine commit is reported, not rolled back.
func (c *Coffer) persistOperation(ctx context.Context, op *model.Operation) {
	_, span := vaultTracer.Start(ctx, "PersistOperation")
	defer span.End()

	if err := c.datasource.RecordOperation(op, c.vault.Snapshot()); err != nil {
		span.RecordError(err)
		notification.NotifyError(err)
	}
}

// postOperationActions invalidates the cached balance and emits the
// operation's webhook. Both run asynchronously; neither can affect the
// already-committed operation.
func (c *Coffer) postOperationActions(ctx context.Context, op *model.Operation, event string) {
	_, span := vaultTracer.Start(ctx, "PostOperationActions")
	defer span.End()

	go func() {
		if err := c.cache.Delete(context.Background(), balanceCacheKey(op.AccountID)); err != nil {
			notification.NotifyError(err)
		}
		if err := SendWebhook(NewWebhook{Event: event, Payload: op}); err != nil {
			span.RecordError(err)
			notification.NotifyError(err)
		}
	}()
}

// GetBalance returns the account's recorded balance, zero for accounts the
// vault has never seen. Reads go through the cache; entries are invalidated
// on every committed operation so a stale value is short-lived and never
// mid-update.
func (c *Coffer) GetBalance(ctx context.Context, accountID string) (uint64, error) {
	_, span := vaultTracer.Start(ctx, "GetBalance")
	defer span.End()

	var cached uint64
	found := false
	if err := c.cache.Get(ctx, balanceCacheKey(accountID), &cached); err == nil && cached > 0 {
		found = true
	}
	if found {
		span.AddEvent("Balance served from cache")
		return cached, nil
	}

	balance := c.vault.BalanceOf(accountID)
	if err := c.cache.Set(ctx, balanceCacheKey(accountID), balance, balanceCacheTTL); err != nil {
		notification.NotifyError(err)
	}
	return balance, nil
}

// RemainingCapacity reports how much value the vault can still accept.
func (c *Coffer) RemainingCapacity(ctx context.Context) uint64 {
	_, span := vaultTracer.Start(ctx, "RemainingCapacity")
	defer span.End()
	return c.vault.RemainingCapacity()
}

// VaultStats exposes the aggregate snapshot plus the immutable limits.
type VaultStats struct {
	model.VaultState
	Capacity          uint64 `json:"capacity"`
	WithdrawalLimit   uint64 `json:"withdrawal_limit"`
	RemainingCapacity uint64 `json:"remaining_capacity"`
}

// Stats returns a consistent aggregate view of the vault.
func (c *Coffer) Stats(ctx context.Context) VaultStats {
	_, span := vaultTracer.Start(ctx, "Stats")
	defer span.End()

	state := c.vault.Snapshot()
	return VaultStats{
		VaultState:        state,
		Capacity:          c.vault.Capacity(),
		WithdrawalLimit:   c.vault.WithdrawalLimit(),
		RemainingCapacity: c.vault.Capacity() - state.TotalDeposited,
	}
}

// GetOperation fetches a persisted operation by id.
func (c *Coffer) GetOperation(ctx context.Context, id string) (*model.Operation, error) {
	_, span := vaultTracer.Start(ctx, "GetOperation")
	defer span.End()

	op, err := c.datasource.GetOperation(id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return op, nil
}
