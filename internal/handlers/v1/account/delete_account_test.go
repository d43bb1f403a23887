package account

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/finance-server/internal/storage"
)

// mockAccountDeleter is a mock for accountDeleter.
type mockAccountDeleter struct {
	mock.Mock
}

func (m *mockAccountDeleter) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newDeleteTestAPI(t *testing.T, svc accountDeleter) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewDeleteAccountHandler(svc).Register(api)
	return api
}

func TestHTTP_DeleteAccount_Success(t *testing.T) {
	accountID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockAccountDeleter)
	mockSvc.On("DeleteAccount", mock.Anything, accountID).Return(true, nil)

	resp := newDeleteTestAPI(t, mockSvc).Delete("/v1/account/" + accountID.String())

	assert.Equal(t, http.StatusNoContent, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteAccount_NotFound(t *testing.T) {
	mockSvc := new(mockAccountDeleter)
	mockSvc.On("DeleteAccount", mock.Anything, mock.Anything).Return(false, nil)

	resp := newDeleteTestAPI(t, mockSvc).Delete("/v1/account/" + uuid.Must(uuid.NewV4()).String())

	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteAccount_StillReferenced(t *testing.T) {
	mockSvc := new(mockAccountDeleter)
	mockSvc.On("DeleteAccount", mock.Anything, mock.Anything).
		Return(false, storage.ErrAccountInUse)

	resp := newDeleteTestAPI(t, mockSvc).Delete("/v1/account/" + uuid.Must(uuid.NewV4()).String())

	assert.Equal(t, http.StatusConflict, resp.Code)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_DeleteAccount_ServiceError(t *testing.T) {
	mockSvc := new(mockAccountDeleter)
	mockSvc.On("DeleteAccount", mock.Anything, mock.Anything).
		Return(false, errors.New("database unavailable"))

	resp := newDeleteTestAPI(t, mockSvc).Delete("/v1/account/" + uuid.Must(uuid.NewV4()).String())

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	mockSvc.AssertExpectations(t)
}
