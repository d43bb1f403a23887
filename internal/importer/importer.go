package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

// ModelName is the Gemini model used for statement parsing.
const ModelName = "gemini-2.5-flash"

// ParsedTransaction is one transaction extracted from a statement. Amounts
// are absolute values; Type carries the direction.
type ParsedTransaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        string
	Category    string
}

// Importer extracts transactions from uploaded bank statements using a
// generative model.
type Importer struct {
	client *genai.Client
}

// New creates an Importer. The genai client reads its API key from the
// environment.
func New(ctx context.Context) (*Importer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("importer: create genai client: %w", err)
	}
	return &Importer{client: client}, nil
}

type wireTransaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
}

// Parse sends a statement to the model and returns the extracted
// transactions. data is the raw statement file; mimeType is its content type,
// typically application/pdf.
func (i *Importer) Parse(ctx context.Context, data []byte, mimeType string) ([]ParsedTransaction, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: statementPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := i.client.Models.GenerateContent(ctx, ModelName, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("importer: generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return nil, fmt.Errorf("importer: empty response from model")
	}

	return decodeTransactions(rawText)
}

func decodeTransactions(raw string) ([]ParsedTransaction, error) {
	clean := cleanModelJSON(raw)

	var rows []wireTransaction
	if err := json.Unmarshal([]byte(clean), &rows); err != nil {
		return nil, fmt.Errorf("importer: unmarshal model output: %w", err)
	}

	result := make([]ParsedTransaction, 0, len(rows))
	for idx, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("importer: row %d: invalid date %q: %w", idx, row.Date, err)
		}
		if row.Type != "income" && row.Type != "expense" {
			return nil, fmt.Errorf("importer: row %d: invalid type %q", idx, row.Type)
		}
		amount := decimal.NewFromFloat(row.Amount).Abs()
		if amount.IsZero() {
			continue
		}
		result = append(result, ParsedTransaction{
			Date:        date,
			Description: row.Description,
			Amount:      amount,
			Type:        row.Type,
			Category:    row.Category,
		})
	}
	return result, nil
}

// cleanModelJSON strips Markdown fences and any text around the JSON array
// when the model ignores the formatting instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
