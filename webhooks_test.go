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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/cofferfi/coffer/config"
	"github.com/cofferfi/coffer/model"
)

func TestSendWebhook(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	mockConfig := &config.Configuration{
		Redis: config.RedisConfig{
			Dns: mr.Addr(),
		},
		Notification: config.Notification{Webhook: struct {
			Url     string            `json:"url"`
			Headers map[string]string `json:"headers"`
		}(struct {
			Url     string
			Headers map[string]string
		}{Url: "https:localhost:5001/webhook", Headers: nil})},
	}

	config.ConfigStore.Store(mockConfig)
	testData := NewWebhook{
		Event: "vault.deposit",
		Payload: model.Operation{
			OperationID:  model.GenerateUUIDWithSuffix("dep"),
			AccountID:    "acc_test",
			Type:         model.OpDeposit,
			Amount:       10000,
			BalanceAfter: 10000,
			CreatedAt:    time.Now(),
		},
	}

	err = SendWebhook(testData)
	assert.NoError(t, err)

	// Verify that the task was enqueued
	tasks := mr.Keys()
	t.Log(tasks)
	assert.NotEmpty(t, tasks)
}

func TestSendWebhookNoURLConfigured(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	defer mr.Close()

	config.ConfigStore.Store(&config.Configuration{
		Redis: config.RedisConfig{Dns: mr.Addr()},
	})

	err = SendWebhook(NewWebhook{Event: "vault.withdrawal"})
	assert.NoError(t, err)
	assert.Empty(t, mr.Keys())
}
