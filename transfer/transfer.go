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

package transfer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cofferfi/coffer/config"
	"github.com/cofferfi/coffer/internal/request"
)

// Gateway is the value-transfer boundary of the vault. ConfirmInbound checks
// that the deposited value has actually been escrowed before the ledger
// credits it; Transfer moves value back out to the account holder. Both must
// report failure so the calling operation can be voided. The gateway performs
// no retries: retry policy belongs to the caller.
type Gateway interface {
	ConfirmInbound(ctx context.Context, reference, account string, amount uint64) error
	Transfer(ctx context.Context, account string, amount uint64) error
}

// NewGateway returns the settlement-backed gateway when a settlement URL is
// configured, otherwise a gateway that treats value as accompanying the call.
func NewGateway(conf *config.Configuration) Gateway {
	if conf.Settlement.Url == "" {
		return NoopGateway{}
	}
	return &HTTPGateway{
		url:     conf.Settlement.Url,
		headers: conf.Settlement.Headers,
		timeout: time.Duration(conf.Settlement.TimeoutSec) * time.Second,
	}
}

// NoopGateway is used when no settlement service is configured: inbound value
// is taken to be bound to the call itself and outbound transfers always
// succeed.
type NoopGateway struct{}

func (NoopGateway) ConfirmInbound(context.Context, string, string, uint64) error {
	return nil
}

func (NoopGateway) Transfer(context.Context, string, uint64) error {
	return nil
}

// HTTPGateway talks to an external settlement service.
type HTTPGateway struct {
	url     string
	headers map[string]string
	timeout time.Duration
}

type escrowRequest struct {
	Reference string `json:"reference"`
	AccountID string `json:"account_id"`
	Amount    uint64 `json:"amount"`
}

type transferRequest struct {
	AccountID string `json:"account_id"`
	Amount    uint64 `json:"amount"`
}

func (g *HTTPGateway) ConfirmInbound(ctx context.Context, reference, account string, amount uint64) error {
	return g.post(ctx, "/escrows/confirm", escrowRequest{Reference: reference, AccountID: account, Amount: amount})
}

func (g *HTTPGateway) Transfer(ctx context.Context, account string, amount uint64) error {
	return g.post(ctx, "/transfers", transferRequest{AccountID: account, Amount: amount})
}

func (g *HTTPGateway) post(ctx context.Context, path string, body interface{}) error {
	payload, err := request.ToJsonReq(body)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+path, payload)
	if err != nil {
		return err
	}
	for key, value := range g.headers {
		req.Header.Set(key, value)
	}

	var response map[string]interface{}
	resp, err := request.Call(req, &response)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("settlement service returned status %d for %s", resp.StatusCode, path)
	}
	return nil
}
