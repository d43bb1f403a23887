package account

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// UpdateAccountBody is the request body for patching an account. Absent
// fields are left untouched.
type UpdateAccountBody struct {
	Name        *string `json:"name,omitempty" minLength:"1" doc:"Display name"`
	Description *string `json:"description,omitempty" doc:"Description"`
	Type        *string `json:"type,omitempty" enum:"savings,checking,credit,investment" doc:"Account type"`
	Balance     *string `json:"balance,omitempty" doc:"Decimal balance; normally left to the ledger"`
	Icon        *string `json:"icon,omitempty" doc:"Display icon"`
	Color       *string `json:"color,omitempty" doc:"Display color"`
}

// UpdateAccountInput is the Huma input for patching an account.
type UpdateAccountInput struct {
	ID   string `path:"id" doc:"Account UUID"`
	Body UpdateAccountBody
}

// UpdateAccountOutput is the Huma output for patching an account.
type UpdateAccountOutput struct {
	Body Account
}

type accountUpdater interface {
	UpdateAccount(ctx context.Context, id uuid.UUID, patch storage.AccountPatch) (*service.Account, error)
}

// UpdateAccountHandler handles PATCH /v1/account/{id}.
type UpdateAccountHandler struct {
	AccountService accountUpdater
}

// NewUpdateAccountHandler creates a new UpdateAccountHandler.
func NewUpdateAccountHandler(svc accountUpdater) *UpdateAccountHandler {
	return &UpdateAccountHandler{AccountService: svc}
}

// Register registers the update account endpoint with the Huma API.
func (h *UpdateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPatch,
		Path:        "/v1/account/{id}",
		Summary:     "Update account",
		Description: "Applies a partial update to an account.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *UpdateAccountHandler) handle(ctx context.Context, input *UpdateAccountInput) (*UpdateAccountOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	var patch storage.AccountPatch
	if input.Body.Name != nil {
		patch.Name = omit.From(*input.Body.Name)
	}
	if input.Body.Description != nil {
		patch.Description = omit.From(*input.Body.Description)
	}
	if input.Body.Type != nil {
		accountType, err := parseAccountType(*input.Body.Type)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid type", err)
		}
		patch.Type = omit.From(accountType)
	}
	if input.Body.Balance != nil {
		balance, err := decimal.NewFromString(*input.Body.Balance)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid balance", err)
		}
		patch.Balance = omit.From(balance)
	}
	if input.Body.Icon != nil {
		patch.Icon = omit.From(*input.Body.Icon)
	}
	if input.Body.Color != nil {
		patch.Color = omit.From(*input.Body.Color)
	}

	account, err := h.AccountService.UpdateAccount(ctx, id, patch)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to update account", err)
	}
	if account == nil {
		return nil, huma.NewError(http.StatusNotFound, "account not found")
	}

	return &UpdateAccountOutput{Body: accountToWire(*account)}, nil
}
