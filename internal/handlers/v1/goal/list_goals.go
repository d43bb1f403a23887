package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// ListGoalsResponseBody is the response body for listing goals.
type ListGoalsResponseBody struct {
	Goals []Goal `json:"goals" doc:"All goals, oldest first"`
}

// ListGoalsOutput is the Huma output for listing goals.
type ListGoalsOutput struct {
	Body ListGoalsResponseBody
}

type goalLister interface {
	ListGoals(ctx context.Context) ([]service.Goal, error)
}

// ListGoalsHandler handles GET /v1/goal.
type ListGoalsHandler struct {
	GoalService goalLister
}

// NewListGoalsHandler creates a new ListGoalsHandler.
func NewListGoalsHandler(svc goalLister) *ListGoalsHandler {
	return &ListGoalsHandler{GoalService: svc}
}

// Register registers the list goals endpoint with the Huma API.
func (h *ListGoalsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-goals",
		Method:      http.MethodGet,
		Path:        "/v1/goal",
		Summary:     "List goals",
		Description: "Returns all goals with their linked-account data.",
		Tags:        []string{"Goals"},
	}, h.handle)
}

func (h *ListGoalsHandler) handle(ctx context.Context, _ *struct{}) (*ListGoalsOutput, error) {
	logData := logging.GetLogData(ctx)

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listGoalsMs")
	}
	goals, err := h.GoalService.ListGoals(ctx)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list goals", err)
	}

	if logData != nil {
		logData.AddData("goalCount", len(goals))
	}

	resp := ListGoalsResponseBody{Goals: make([]Goal, len(goals))}
	for i, g := range goals {
		resp.Goals[i] = goalToWire(g)
	}
	return &ListGoalsOutput{Body: resp}, nil
}
