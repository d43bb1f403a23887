package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"
)

// TotalBalanceResponseBody is the response body for the total balance.
type TotalBalanceResponseBody struct {
	TotalBalance string `json:"totalBalance" doc:"Sum of all balances; credit accounts contribute negatively"`
}

// TotalBalanceOutput is the Huma output for the total balance.
type TotalBalanceOutput struct {
	Body TotalBalanceResponseBody
}

type totalBalancer interface {
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
}

// TotalBalanceHandler handles GET /v1/account/total-balance.
type TotalBalanceHandler struct {
	AccountService totalBalancer
}

// NewTotalBalanceHandler creates a new TotalBalanceHandler.
func NewTotalBalanceHandler(svc totalBalancer) *TotalBalanceHandler {
	return &TotalBalanceHandler{AccountService: svc}
}

// Register registers the total balance endpoint with the Huma API.
func (h *TotalBalanceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "total-balance",
		Method:      http.MethodGet,
		Path:        "/v1/account/total-balance",
		Summary:     "Total balance",
		Description: "Returns the net balance across all accounts.",
		Tags:        []string{"Accounts"},
	}, h.handle)
}

func (h *TotalBalanceHandler) handle(ctx context.Context, _ *struct{}) (*TotalBalanceOutput, error) {
	total, err := h.AccountService.TotalBalance(ctx)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to compute total balance", err)
	}
	return &TotalBalanceOutput{
		Body: TotalBalanceResponseBody{TotalBalance: total.StringFixed(2)},
	}, nil
}
