package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	AccountID   string           `json:"accountID" required:"true" doc:"Owning account UUID"`
	Description string           `json:"description" required:"true" doc:"Description"`
	Amount      string           `json:"amount" required:"true" doc:"Decimal amount, must be positive"`
	Date        string           `json:"date" required:"true" doc:"Transaction date, YYYY-MM-DD or RFC3339"`
	Category    string           `json:"category,omitempty" doc:"Category label"`
	Type        string           `json:"type" required:"true" enum:"income,expense" doc:"Transaction type"`
	Icon        string           `json:"icon,omitempty" doc:"Display icon"`
	Assignments []AssignmentBody `json:"assignments,omitempty" doc:"Expense shares; empty means 100% to the default assignee"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int
	Body   Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, create storage.TransactionCreate, assignments []storage.AssignmentCreate) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Posts a transaction and adjusts the owning account's balance.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	accountID, err := uuid.FromString(input.Body.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	date, err := parseDate(input.Body.Date)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid date", err)
	}
	transactionType, err := parseTransactionType(input.Body.Type)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid type", err)
	}
	assignments, err := parseAssignments(input.Body.Assignments)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid assignments", err)
	}

	create := storage.TransactionCreate{
		AccountID:   accountID,
		Description: input.Body.Description,
		Amount:      amount,
		Date:        date,
		Category:    input.Body.Category,
		Type:        transactionType,
		Icon:        input.Body.Icon,
	}
	result, err := h.TransactionService.CreateTransaction(ctx, create, assignments)
	if err != nil {
		return nil, mapServiceError(err, "failed to create transaction")
	}
	if result == nil {
		return nil, huma.NewError(http.StatusNotFound, "account not found")
	}

	return &CreateTransactionOutput{
		Status: http.StatusCreated,
		Body:   transactionToWire(*result),
	}, nil
}
