package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/service"
)

// GetGoalInput is the Huma input for fetching one goal.
type GetGoalInput struct {
	ID string `path:"id" doc:"Goal UUID"`
}

// GetGoalOutput is the Huma output for fetching one goal.
type GetGoalOutput struct {
	Body Goal
}

type goalGetter interface {
	GetGoal(ctx context.Context, id uuid.UUID) (*service.Goal, error)
}

// GetGoalHandler handles GET /v1/goal/{id}.
type GetGoalHandler struct {
	GoalService goalGetter
}

// NewGetGoalHandler creates a new GetGoalHandler.
func NewGetGoalHandler(svc goalGetter) *GetGoalHandler {
	return &GetGoalHandler{GoalService: svc}
}

// Register registers the get goal endpoint with the Huma API.
func (h *GetGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-goal",
		Method:      http.MethodGet,
		Path:        "/v1/goal/{id}",
		Summary:     "Get goal",
		Description: "Returns one goal with its linked-account data.",
		Tags:        []string{"Goals"},
	}, h.handle)
}

func (h *GetGoalHandler) handle(ctx context.Context, input *GetGoalInput) (*GetGoalOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	goal, err := h.GoalService.GetGoal(ctx, id)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to get goal", err)
	}
	if goal == nil {
		return nil, huma.NewError(http.StatusNotFound, "goal not found")
	}

	return &GetGoalOutput{Body: goalToWire(*goal)}, nil
}
