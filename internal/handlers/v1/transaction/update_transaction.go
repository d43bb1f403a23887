package transaction

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

// UpdateTransactionBody is the request body for patching a transaction.
// Absent fields are left untouched. The owning account cannot change. An
// assignments field, when present, wholesale-replaces the assignment set.
type UpdateTransactionBody struct {
	Description *string           `json:"description,omitempty" doc:"Description"`
	Amount      *string           `json:"amount,omitempty" doc:"Decimal amount, must be positive"`
	Date        *string           `json:"date,omitempty" doc:"Transaction date, YYYY-MM-DD or RFC3339"`
	Category    *string           `json:"category,omitempty" doc:"Category label"`
	Type        *string           `json:"type,omitempty" enum:"income,expense" doc:"Transaction type"`
	Icon        *string           `json:"icon,omitempty" doc:"Display icon"`
	Assignments *[]AssignmentBody `json:"assignments,omitempty" doc:"Replacement assignment set; omit to keep the current set"`
}

// UpdateTransactionInput is the Huma input for patching a transaction.
type UpdateTransactionInput struct {
	ID   string `path:"id" doc:"Transaction UUID"`
	Body UpdateTransactionBody
}

// UpdateTransactionOutput is the Huma output for patching a transaction.
type UpdateTransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, id uuid.UUID, patch storage.TransactionPatch, assignments *[]storage.AssignmentCreate) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PATCH /v1/transaction/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
}

// NewUpdateTransactionHandler creates a new UpdateTransactionHandler.
func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc}
}

// Register registers the update transaction endpoint with the Huma API.
func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transaction/{id}",
		Summary:     "Update transaction",
		Description: "Applies a partial update, netting any balance impact into one adjustment.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	var patch storage.TransactionPatch
	if input.Body.Description != nil {
		patch.Description = omit.From(*input.Body.Description)
	}
	if input.Body.Amount != nil {
		amount, err := decimal.NewFromString(*input.Body.Amount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid amount", err)
		}
		patch.Amount = omit.From(amount)
	}
	if input.Body.Date != nil {
		date, err := parseDate(*input.Body.Date)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid date", err)
		}
		patch.Date = omit.From(date)
	}
	if input.Body.Category != nil {
		patch.Category = omit.From(*input.Body.Category)
	}
	if input.Body.Type != nil {
		transactionType, err := parseTransactionType(*input.Body.Type)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid type", err)
		}
		patch.Type = omit.From(transactionType)
	}
	if input.Body.Icon != nil {
		patch.Icon = omit.From(*input.Body.Icon)
	}

	var assignments *[]storage.AssignmentCreate
	if input.Body.Assignments != nil {
		set, err := parseAssignments(*input.Body.Assignments)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid assignments", err)
		}
		assignments = &set
	}

	result, err := h.TransactionService.UpdateTransaction(ctx, id, patch, assignments)
	if err != nil {
		return nil, mapServiceError(err, "failed to update transaction")
	}
	if result == nil {
		return nil, huma.NewError(http.StatusNotFound, "transaction not found")
	}

	return &UpdateTransactionOutput{Body: transactionToWire(*result)}, nil
}
