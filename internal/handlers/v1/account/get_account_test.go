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

// mockAccountGetter is a mock for accountGetter.
type mockAccountGetter struct {
	mock.Mock
}

func (m *mockAccountGetter) GetAccount(ctx context.Context, id uuid.UUID) (*service.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Account), args.Error(1)
}

func newGetTestAPI(t *testing.T, svc accountGetter) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewGetAccountHandler(svc).Register(api)
	return api
}

func TestHTTP_GetAccount_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockAccountGetter)
	mockSvc.On("GetAccount", mock.Anything, accountID).Return(&service.Account{
		ID:      accountID,
		Name:    "Daily",
		Type:    storage.AccountTypeChecking,
		Balance: decimal.RequireFromString("12.30"),
	}, nil)

	resp := newGetTestAPI(t, mockSvc).Get("/v1/account/" + accountID.String())

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Account
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, accountID.String(), body.ID)
	assert.Equal(t, "12.30", body.Balance)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetAccount_NotFound(t *testing.T) {
	mockSvc := new(mockAccountGetter)
	mockSvc.On("GetAccount", mock.Anything, mock.Anything).Return(nil, nil)

	resp := newGetTestAPI(t, mockSvc).Get("/v1/account/" + uuid.Must(uuid.NewV4()).String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_GetAccount_InvalidID(t *testing.T) {
	mockSvc := new(mockAccountGetter)

	resp := newGetTestAPI(t, mockSvc).Get("/v1/account/not-a-uuid")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "GetAccount")
}

func TestHTTP_GetAccount_ServiceError(t *testing.T) {
	mockSvc := new(mockAccountGetter)
	mockSvc.On("GetAccount", mock.Anything, mock.Anything).
		Return(nil, errors.New("database unavailable"))

	resp := newGetTestAPI(t, mockSvc).Get("/v1/account/" + uuid.Must(uuid.NewV4()).String())

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}
