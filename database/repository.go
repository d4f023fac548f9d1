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

import "github.com/cofferfi/coffer/model"

// IDataSource is the durability boundary of the vault. The in-memory engine
// stays authoritative; the datasource records every committed operation
// together with the aggregate snapshot it produced, and can replay the whole
// state at startup.
type IDataSource interface {
	RecordOperation(op *model.Operation, state model.VaultState) error
	LoadVaultState() (model.VaultState, map[string]uint64, error)
	GetOperation(id string) (*model.Operation, error)
}
