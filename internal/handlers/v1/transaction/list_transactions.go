package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	AccountID string `query:"accountID" doc:"Restrict to one account's transactions"`
	Limit     int    `query:"limit" minimum:"0" doc:"Maximum number of transactions; 0 means all"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Transactions, most recent first"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

type transactionLister interface {
	ListTransactions(ctx context.Context, limit int) ([]service.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, accountID uuid.UUID) ([]service.Transaction, error)
}

// ListTransactionsHandler handles GET /v1/transaction.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transaction",
		Summary:     "List transactions",
		Description: "Returns transactions most recent first, each with its assignment set.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}

	var transactions []service.Transaction
	var err error
	if input.AccountID != "" {
		accountID, parseErr := uuid.FromString(input.AccountID)
		if parseErr != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", parseErr)
		}
		transactions, err = h.TransactionService.ListTransactionsByAccount(ctx, accountID)
	} else {
		transactions, err = h.TransactionService.ListTransactions(ctx, input.Limit)
	}
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list transactions", err)
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{Transactions: make([]Transaction, len(transactions))}
	for i, t := range transactions {
		resp.Transactions[i] = transactionToWire(t)
	}
	return &ListTransactionsOutput{Body: resp}, nil
}
