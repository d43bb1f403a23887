package account

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// mockAccountCreator is a mock for accountCreator.
type mockAccountCreator struct {
	mock.Mock
}

func (m *mockAccountCreator) CreateAccount(ctx context.Context, create storage.AccountCreate) (*service.Account, error) {
	args := m.Called(ctx, create)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Account), args.Error(1)
}

func newCreateTestAPI(t *testing.T, svc accountCreator) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateAccountHandler(svc).Register(api)
	return api
}

func TestHTTP_CreateAccount_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockAccountCreator)
	mockSvc.On("CreateAccount", mock.Anything, mock.MatchedBy(func(c storage.AccountCreate) bool {
		return c.Name == "Daily" && c.Type == storage.AccountTypeChecking && c.Icon == "wallet"
	})).Return(&service.Account{
		ID:      accountID,
		Name:    "Daily",
		Type:    storage.AccountTypeChecking,
		Balance: decimal.Zero,
		Icon:    "wallet",
		Color:   "#2563EB",
	}, nil)

	resp := newCreateTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{
		Name: "Daily",
		Type: "checking",
		Icon: "wallet",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Account
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, accountID.String(), body.ID)
	assert.Equal(t, "checking", body.Type)
	assert.Equal(t, "0.00", body.Balance)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateAccount_MissingName(t *testing.T) {
	mockSvc := new(mockAccountCreator)

	// Huma schema validation rejects the request before the handler runs.
	resp := newCreateTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{
		Type: "checking",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_InvalidType(t *testing.T) {
	mockSvc := new(mockAccountCreator)

	// enum tag violation, rejected by schema validation.
	resp := newCreateTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{
		Name: "Daily",
		Type: "offshore",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateAccount")
}

func TestHTTP_CreateAccount_ServiceError(t *testing.T) {
	mockSvc := new(mockAccountCreator)
	mockSvc.On("CreateAccount", mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable"))

	resp := newCreateTestAPI(t, mockSvc).Post("/v1/account", CreateAccountBody{
		Name: "Daily",
		Type: "checking",
	})

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}
