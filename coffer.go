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
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cofferfi/coffer/config"
	"github.com/cofferfi/coffer/database"
	"github.com/cofferfi/coffer/internal/cache"
	redis_db "github.com/cofferfi/coffer/internal/redis-db"
	"github.com/cofferfi/coffer/model"
	"github.com/cofferfi/coffer/transfer"
)

// Coffer wires the vault engine to its collaborators: the durability store,
// the settlement gateway, redis (locks and cache) and the webhook queue.
type Coffer struct {
	vault      *model.Vault
	datasource database.IDataSource
	gateway    transfer.Gateway
	cache      cache.Cache
	redis      redis.UniversalClient
}

// NewCoffer initializes a Coffer from the loaded configuration. The vault is
// rehydrated from the datasource so a restart resumes exactly where the last
// committed operation left the ledger; a snapshot that breaks conservation or
// capacity aborts startup.
func NewCoffer(db database.IDataSource) (*Coffer, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	redisClient, err := redis_db.NewRedisClient([]string{fmt.Sprintf("redis://%s", configuration.Redis.Dns)}, configuration.Redis.SkipTLSVerify)
	if err != nil {
		return nil, err
	}
	newCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}

	state, balances, err := db.LoadVaultState()
	if err != nil {
		return nil, fmt.Errorf("failed to load vault state: %w", err)
	}
	vault, err := model.NewVaultFromState(configuration.Vault.Capacity, configuration.Vault.WithdrawalLimit, balances, state)
	if err != nil {
		return nil, fmt.Errorf("refusing to start with corrupt vault state: %w", err)
	}

	return &Coffer{
		vault:      vault,
		datasource: db,
		gateway:    transfer.NewGateway(configuration),
		cache:      newCache,
		redis:      redisClient.Client(),
	}, nil
}
