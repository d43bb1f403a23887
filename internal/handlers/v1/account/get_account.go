package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/service"
)

// GetAccountInput is the Huma input for fetching one account.
type GetAccountInput struct {
	ID string `path:"id" doc:"Account UUID"`
}

// GetAccountOutput is the Huma output for fetching one account.
type GetAccountOutput struct {
	Body Account
}

type accountGetter interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*service.Account, error)
}

// GetAccountHandler handles GET /v1/account/{id}.
type GetAccountHandler struct {
	AccountService accountGetter
}

// NewGetAccountHandler creates a new GetAccountHandler.
func NewGetAccountHandler(svc accountGetter) *GetAccountHandler {
	return &GetAccountHandler{AccountService: svc}
}

// Register registers the get account endpoint with the Huma API.
func (h *GetAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}",
		Summary:     "Get account",
		Description: "Returns one account by id.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *GetAccountHandler) handle(ctx context.Context, input *GetAccountInput) (*GetAccountOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	account, err := h.AccountService.GetAccount(ctx, id)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to get account", err)
	}
	if account == nil {
		return nil, huma.NewError(http.StatusNotFound, "account not found")
	}

	return &GetAccountOutput{Body: accountToWire(*account)}, nil
}
