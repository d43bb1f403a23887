package transaction

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/importer"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/storage"
)

// ImportTransactionsBody is the request body for importing a bank statement.
type ImportTransactionsBody struct {
	AccountID string `json:"accountID" required:"true" doc:"Account the imported transactions belong to"`
	Statement string `json:"statement" required:"true" doc:"Base64-encoded statement file"`
	MimeType  string `json:"mimeType,omitempty" doc:"Statement content type, defaults to application/pdf"`
}

// ImportTransactionsInput is the Huma input for importing a statement.
type ImportTransactionsInput struct {
	Body ImportTransactionsBody
}

// ImportTransactionsResponseBody is the response body for a statement import.
type ImportTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Transactions created from the statement"`
}

// ImportTransactionsOutput is the Huma output for importing a statement.
type ImportTransactionsOutput struct {
	Status int
	Body   ImportTransactionsResponseBody
}

type statementParser interface {
	Parse(ctx context.Context, data []byte, mimeType string) ([]importer.ParsedTransaction, error)
}

// ImportTransactionsHandler handles POST /v1/transaction/import. Each parsed
// row is posted through the ledger, so balances stay consistent.
type ImportTransactionsHandler struct {
	TransactionService transactionCreator
	Parser             statementParser
}

// NewImportTransactionsHandler creates a new ImportTransactionsHandler.
func NewImportTransactionsHandler(svc transactionCreator, parser statementParser) *ImportTransactionsHandler {
	return &ImportTransactionsHandler{TransactionService: svc, Parser: parser}
}

// Register registers the import endpoint with the Huma API.
func (h *ImportTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "import-transactions",
		Method:        http.MethodPost,
		Path:          "/v1/transaction/import",
		Summary:       "Import statement",
		Description:   "Parses a bank statement and posts its transactions into one account.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *ImportTransactionsHandler) handle(ctx context.Context, input *ImportTransactionsInput) (*ImportTransactionsOutput, error) {
	accountID, err := uuid.FromString(input.Body.AccountID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid accountID", err)
	}
	data, err := base64.StdEncoding.DecodeString(input.Body.Statement)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid statement encoding", err)
	}
	mimeType := input.Body.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}

	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("parseStatementMs")
	}
	parsed, err := h.Parser.Parse(ctx, data, mimeType)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusUnprocessableEntity, "failed to parse statement", err)
	}

	resp := ImportTransactionsResponseBody{Transactions: make([]Transaction, 0, len(parsed))}
	for _, row := range parsed {
		transactionType := storage.TransactionTypeExpense
		if row.Type == "income" {
			transactionType = storage.TransactionTypeIncome
		}
		create := storage.TransactionCreate{
			AccountID:   accountID,
			Description: row.Description,
			Amount:      row.Amount,
			Date:        row.Date,
			Category:    row.Category,
			Type:        transactionType,
		}
		result, err := h.TransactionService.CreateTransaction(ctx, create, nil)
		if err != nil {
			return nil, mapServiceError(err, "failed to post imported transaction")
		}
		if result == nil {
			return nil, huma.NewError(http.StatusNotFound, "account not found")
		}
		resp.Transactions = append(resp.Transactions, transactionToWire(*result))
	}

	if logData != nil {
		logData.AddData("importedCount", len(resp.Transactions))
	}

	return &ImportTransactionsOutput{Status: http.StatusCreated, Body: resp}, nil
}
