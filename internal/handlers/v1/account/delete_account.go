package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

// DeleteAccountInput is the Huma input for deleting an account.
type DeleteAccountInput struct {
	ID string `path:"id" doc:"Account UUID"`
}

// DeleteAccountOutput is the Huma output for deleting an account.
type DeleteAccountOutput struct {
	Status int
}

type accountDeleter interface {
	DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error)
}

// DeleteAccountHandler handles DELETE /v1/account/{id}.
type DeleteAccountHandler struct {
	AccountService accountDeleter
}

// NewDeleteAccountHandler creates a new DeleteAccountHandler.
func NewDeleteAccountHandler(svc accountDeleter) *DeleteAccountHandler {
	return &DeleteAccountHandler{AccountService: svc}
}

// Register registers the delete account endpoint with the Huma API.
func (h *DeleteAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-account",
		Method:      http.MethodDelete,
		Path:        "/v1/account/{id}",
		Summary:     "Delete account",
		Description: "Deletes an account. Refused while transactions or goal links still reference it.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *DeleteAccountHandler) handle(ctx context.Context, input *DeleteAccountInput) (*DeleteAccountOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	deleted, err := h.AccountService.DeleteAccount(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrAccountInUse) {
			return nil, huma.NewError(http.StatusConflict, "account is still referenced", err)
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to delete account", err)
	}
	if !deleted {
		return nil, huma.NewError(http.StatusNotFound, "account not found")
	}

	return &DeleteAccountOutput{Status: http.StatusNoContent}, nil
}
