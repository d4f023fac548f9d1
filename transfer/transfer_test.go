package transfer

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferfi/coffer/config"
)

func newTestGateway() Gateway {
	conf := &config.Configuration{
		Settlement: config.SettlementConfig{
			Url:        "http://settlement.local",
			Headers:    map[string]string{"Authorization": "Bearer test-token"},
			TimeoutSec: 5,
		},
	}
	return NewGateway(conf)
}

func TestNewGatewayWithoutSettlementURL(t *testing.T) {
	gw := NewGateway(&config.Configuration{})
	_, ok := gw.(NoopGateway)
	assert.True(t, ok)

	assert.NoError(t, gw.ConfirmInbound(context.Background(), "ref-1", "acc_1", 10))
	assert.NoError(t, gw.Transfer(context.Background(), "acc_1", 10))
}

func TestConfirmInbound(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://settlement.local/escrows/confirm",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer test-token", req.Header.Get("Authorization"))
			return httpmock.NewJsonResponse(200, map[string]interface{}{"status": "confirmed"})
		})

	gw := newTestGateway()
	err := gw.ConfirmInbound(context.Background(), "ref-1", "acc_1", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestTransferFailureIsReported(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://settlement.local/transfers",
		httpmock.NewJsonResponderOrPanic(502, map[string]interface{}{"error": "recipient rejected"}))

	gw := newTestGateway()
	err := gw.Transfer(context.Background(), "acc_1", 10)
	assert.Error(t, err)
}

func TestTransferSuccess(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://settlement.local/transfers",
		httpmock.NewJsonResponderOrPanic(200, map[string]interface{}{"status": "sent"}))

	gw := newTestGateway()
	err := gw.Transfer(context.Background(), "acc_1", 10)
	assert.NoError(t, err)
}

func TestTransferTimesOut(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "http://settlement.local/transfers",
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	conf := &config.Configuration{
		Settlement: config.SettlementConfig{Url: "http://settlement.local", TimeoutSec: 1},
	}
	gw := NewGateway(conf)

	start := time.Now()
	err := gw.Transfer(context.Background(), "acc_1", 10)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}
