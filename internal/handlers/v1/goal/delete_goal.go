package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
)

// DeleteGoalInput is the Huma input for deleting a goal.
type DeleteGoalInput struct {
	ID string `path:"id" doc:"Goal UUID"`
}

// DeleteGoalOutput is the Huma output for deleting a goal.
type DeleteGoalOutput struct {
	Status int
}

type goalDeleter interface {
	DeleteGoal(ctx context.Context, id uuid.UUID) (bool, error)
}

// DeleteGoalHandler handles DELETE /v1/goal/{id}.
type DeleteGoalHandler struct {
	GoalService goalDeleter
}

// NewDeleteGoalHandler creates a new DeleteGoalHandler.
func NewDeleteGoalHandler(svc goalDeleter) *DeleteGoalHandler {
	return &DeleteGoalHandler{GoalService: svc}
}

// Register registers the delete goal endpoint with the Huma API.
func (h *DeleteGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-goal",
		Method:      http.MethodDelete,
		Path:        "/v1/goal/{id}",
		Summary:     "Delete goal",
		Description: "Deletes a goal and its account links; linked accounts are untouched.",
		Tags:        []string{"Goals"},
	}, h.handle)
}

func (h *DeleteGoalHandler) handle(ctx context.Context, input *DeleteGoalInput) (*DeleteGoalOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	deleted, err := h.GoalService.DeleteGoal(ctx, id)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to delete goal", err)
	}
	if !deleted {
		return nil, huma.NewError(http.StatusNotFound, "goal not found")
	}

	return &DeleteGoalOutput{Status: http.StatusNoContent}, nil
}
