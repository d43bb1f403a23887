package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// CreateAccountBody is the request body for creating an account.
type CreateAccountBody struct {
	Name        string `json:"name" required:"true" minLength:"1" doc:"Display name"`
	Description string `json:"description,omitempty" doc:"Optional description"`
	Type        string `json:"type" required:"true" enum:"savings,checking,credit,investment" doc:"Account type"`
	Icon        string `json:"icon,omitempty" doc:"Display icon, defaults when empty"`
	Color       string `json:"color,omitempty" doc:"Display color, defaults when empty"`
}

// CreateAccountInput is the Huma input for creating an account.
type CreateAccountInput struct {
	Body CreateAccountBody
}

// CreateAccountOutput is the Huma output for creating an account.
type CreateAccountOutput struct {
	Status int
	Body   Account
}

type accountCreator interface {
	CreateAccount(ctx context.Context, create storage.AccountCreate) (*service.Account, error)
}

// CreateAccountHandler handles POST /v1/account.
type CreateAccountHandler struct {
	AccountService accountCreator
}

// NewCreateAccountHandler creates a new CreateAccountHandler.
func NewCreateAccountHandler(svc accountCreator) *CreateAccountHandler {
	return &CreateAccountHandler{AccountService: svc}
}

// Register registers the create account endpoint with the Huma API.
func (h *CreateAccountHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-account",
		Method:      http.MethodPost,
		Path:        "/v1/account",
		Summary:     "Create account",
		Description: "Creates a new account with a zero starting balance.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *CreateAccountHandler) handle(ctx context.Context, input *CreateAccountInput) (*CreateAccountOutput, error) {
	accountType, err := parseAccountType(input.Body.Type)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid type", err)
	}

	created, err := h.AccountService.CreateAccount(ctx, storage.AccountCreate{
		Name:        input.Body.Name,
		Description: input.Body.Description,
		Type:        accountType,
		Icon:        input.Body.Icon,
		Color:       input.Body.Color,
	})
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to create account", err)
	}

	return &CreateAccountOutput{
		Status: http.StatusCreated,
		Body:   accountToWire(*created),
	}, nil
}
