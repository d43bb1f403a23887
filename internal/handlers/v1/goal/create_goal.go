package goal

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// CreateGoalBody is the request body for creating a goal.
type CreateGoalBody struct {
	Name             string    `json:"name" required:"true" minLength:"1" doc:"Display name"`
	Description      string    `json:"description,omitempty" doc:"Description"`
	TargetAmount     string    `json:"targetAmount" required:"true" doc:"Decimal target amount, must be positive"`
	CurrentAmount    string    `json:"currentAmount,omitempty" doc:"Starting amount; ignored once accounts are linked"`
	TargetDate       string    `json:"targetDate,omitempty" doc:"Target date, YYYY-MM-DD"`
	Status           *string   `json:"status,omitempty" enum:"pending,in_progress,completed" doc:"Explicit status; derived when omitted"`
	Icon             string    `json:"icon,omitempty" doc:"Display icon"`
	Color            string    `json:"color,omitempty" doc:"Display color"`
	LinkedAccountIDs *[]string `json:"linkedAccountIDs,omitempty" doc:"Accounts whose balances feed this goal"`
}

// CreateGoalInput is the Huma input for creating a goal.
type CreateGoalInput struct {
	Body CreateGoalBody
}

// CreateGoalOutput is the Huma output for creating a goal.
type CreateGoalOutput struct {
	Status int
	Body   Goal
}

type goalCreator interface {
	CreateGoal(ctx context.Context, create storage.GoalCreate, links *[]uuid.UUID, explicitStatus bool) (*service.Goal, error)
}

// CreateGoalHandler handles POST /v1/goal.
type CreateGoalHandler struct {
	GoalService goalCreator
}

// NewCreateGoalHandler creates a new CreateGoalHandler.
func NewCreateGoalHandler(svc goalCreator) *CreateGoalHandler {
	return &CreateGoalHandler{GoalService: svc}
}

// Register registers the create goal endpoint with the Huma API.
func (h *CreateGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-goal",
		Method:        http.MethodPost,
		Path:          "/v1/goal",
		Summary:       "Create goal",
		Description:   "Creates a financial goal, optionally linked to accounts.",
		Tags:          []string{"Goals"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateGoalHandler) handle(ctx context.Context, input *CreateGoalInput) (*CreateGoalOutput, error) {
	targetAmount, err := decimal.NewFromString(input.Body.TargetAmount)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid targetAmount", err)
	}

	currentAmount := decimal.Zero
	if input.Body.CurrentAmount != "" {
		currentAmount, err = decimal.NewFromString(input.Body.CurrentAmount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid currentAmount", err)
		}
	}

	var targetDate time.Time
	if input.Body.TargetDate != "" {
		targetDate, err = time.Parse(dateLayout, input.Body.TargetDate)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid targetDate", err)
		}
	}

	var status storage.GoalStatus
	explicitStatus := input.Body.Status != nil
	if explicitStatus {
		status, err = parseGoalStatus(*input.Body.Status)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid status", err)
		}
	}

	links, err := parseLinks(input.Body.LinkedAccountIDs)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid linkedAccountIDs", err)
	}

	create := storage.GoalCreate{
		Name:          input.Body.Name,
		Description:   input.Body.Description,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		TargetDate:    targetDate,
		Status:        status,
		Icon:          input.Body.Icon,
		Color:         input.Body.Color,
	}
	result, err := h.GoalService.CreateGoal(ctx, create, links, explicitStatus)
	if err != nil {
		return nil, mapServiceError(err, "failed to create goal")
	}
	if result == nil {
		return nil, huma.NewError(http.StatusNotFound, "linked account not found")
	}

	return &CreateGoalOutput{Status: http.StatusCreated, Body: goalToWire(*result)}, nil
}
