package redlock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestLocker_Lock_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "vault:global", "holder-1")

	mock.ExpectSetNX("vault:global", "holder-1", 5*time.Second).SetVal(true)

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_Lock_AlreadyHeld(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "vault:global", "holder-1")

	mock.ExpectSetNX("vault:global", "holder-1", 5*time.Second).SetVal(false)

	err := locker.Lock(context.Background(), 5*time.Second)
	assert.EqualError(t, err, "lock for key vault:global is already held")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_Unlock_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "vault:global", "holder-1")

	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	mock.ExpectEval(script, []string{"vault:global"}, "holder-1").SetVal(int64(1))

	err := locker.Unlock(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_Unlock_NotHolder(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "vault:global", "holder-1")

	script := "if redis.call('get', KEYS[1]) == ARGV[1] then return redis.call('del', KEYS[1]) else return 0 end"
	mock.ExpectEval(script, []string{"vault:global"}, "holder-1").SetVal(int64(0))

	err := locker.Unlock(context.Background())
	assert.EqualError(t, err, "unlock failed, either lock expired or you're not the lock holder for key vault:global")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocker_WaitLock_EventuallyAcquires(t *testing.T) {
	db, mock := redismock.NewClientMock()
	locker := NewLocker(db, "vault:global", "holder-1")

	mock.ExpectSetNX("vault:global", "holder-1", time.Second).SetVal(false)
	mock.ExpectSetNX("vault:global", "holder-1", time.Second).SetVal(true)

	err := locker.WaitLock(context.Background(), time.Second, 2*time.Second)
	assert.NoError(t, err)
}
