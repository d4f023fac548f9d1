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

package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cofferfi/coffer"
	model2 "github.com/cofferfi/coffer/api/model"
	"github.com/cofferfi/coffer/config"
	"github.com/cofferfi/coffer/database"
	"github.com/cofferfi/coffer/internal/request"
	"github.com/cofferfi/coffer/model"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T, cnf *config.Configuration) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("an error '%s' occurred when starting miniredis", err)
	}
	t.Cleanup(mr.Close)

	cnf.Redis = config.RedisConfig{Dns: mr.Addr()}
	config.MockConfig(cnf)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT total_deposited, deposit_count, withdrawal_count FROM vault_state").
		WillReturnRows(sqlmock.NewRows([]string{"total_deposited", "deposit_count", "withdrawal_count"}).AddRow(0, 0, 0))
	mock.ExpectQuery("SELECT account_id, balance FROM accounts").
		WillReturnRows(sqlmock.NewRows([]string{"account_id", "balance"}))

	newCoffer, err := coffer.NewCoffer(&database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("Error creating Coffer instance: %s", err)
	}
	return NewAPI(newCoffer).Router(), mock
}

func expectOperationRecorded(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO operations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE vault_state").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
}

func TestRecordDepositAPI(t *testing.T) {
	router, mock := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 100_000, WithdrawalLimit: 10_000},
	})
	expectOperationRecorded(mock)

	account := gofakeit.UUID()
	payload, err := request.ToJsonReq(&model2.RecordDeposit{AccountID: account, Amount: 1500, Reference: gofakeit.UUID()})
	assert.NoError(t, err)

	var response model.Operation
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/deposits",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)
	assert.Equal(t, account, response.AccountID)
	assert.Equal(t, uint64(1500), response.BalanceAfter)
	assert.Contains(t, response.OperationID, "dep_")
}

func TestRecordDepositZeroAmountAPI(t *testing.T) {
	router, _ := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 100_000, WithdrawalLimit: 10_000},
	})

	payload, err := request.ToJsonReq(&model2.RecordDeposit{AccountID: gofakeit.UUID(), Amount: 0})
	assert.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/deposits",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "NO_VALUE_SENT", response["code"])
}

func TestRecordDepositMissingAccountAPI(t *testing.T) {
	router, _ := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 100_000, WithdrawalLimit: 10_000},
	})

	payload, err := request.ToJsonReq(&model2.RecordDeposit{Amount: 100})
	assert.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/deposits",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 400, resp.Code)
}

func TestRecordDepositOverCapacityAPI(t *testing.T) {
	router, _ := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 1000, WithdrawalLimit: 10_000},
	})

	payload, err := request.ToJsonReq(&model2.RecordDeposit{AccountID: gofakeit.UUID(), Amount: 2000})
	assert.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/deposits",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 409, resp.Code)
	assert.Equal(t, "CAP_EXCEEDED", response["code"])
}

func TestRecordWithdrawalInsufficientBalanceAPI(t *testing.T) {
	router, _ := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 100_000, WithdrawalLimit: 10_000},
	})

	payload, err := request.ToJsonReq(&model2.RecordWithdrawal{AccountID: gofakeit.UUID(), Amount: 500})
	assert.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &response,
		Method:   "POST",
		Route:    "/withdrawals",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 422, resp.Code)
	assert.Equal(t, "INSUFFICIENT_FUNDS", response["code"])
}

func TestGetBalanceScopedToOwnAccount(t *testing.T) {
	router, mock := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 100_000, WithdrawalLimit: 10_000},
	})
	expectOperationRecorded(mock)

	account := gofakeit.UUID()
	payload, err := request.ToJsonReq(&model2.RecordDeposit{AccountID: account, Amount: 750})
	assert.NoError(t, err)

	var depositResp model.Operation
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Response: &depositResp,
		Method:   "POST",
		Route:    "/deposits",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 201, resp.Code)

	var balanceResp map[string]interface{}
	resp, err = SetUpTestRequest(TestRequest{
		Response: &balanceResp,
		Method:   "GET",
		Route:    "/balances/" + account,
		Router:   router,
		Header:   map[string]string{"X-Coffer-Account": account},
	})
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, float64(750), balanceResp["balance"])

	// Another caller cannot read this account.
	resp, err = SetUpTestRequest(TestRequest{
		Response: &balanceResp,
		Method:   "GET",
		Route:    "/balances/" + account,
		Router:   router,
		Header:   map[string]string{"X-Coffer-Account": gofakeit.UUID()},
	})
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.Code)
}

func TestGetCapacityAPI(t *testing.T) {
	router, _ := setupRouter(t, &config.Configuration{
		Vault: config.VaultConfig{Capacity: 5000, WithdrawalLimit: 10_000},
	})

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/capacity",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, float64(5000), response["remaining_capacity"])
}

func TestSecretKeyAuth(t *testing.T) {
	router, _ := setupRouter(t, &config.Configuration{
		Server: config.ServerConfig{Secure: true, SecretKey: "test-secret"},
		Vault:  config.VaultConfig{Capacity: 5000, WithdrawalLimit: 10_000},
	})

	var response interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/capacity",
		Router:   router,
	})
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.Code)

	resp, err = SetUpTestRequest(TestRequest{
		Response: &response,
		Method:   "GET",
		Route:    "/capacity",
		Router:   router,
		Header:   map[string]string{"X-Coffer-Key": "test-secret"},
	})
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
}
