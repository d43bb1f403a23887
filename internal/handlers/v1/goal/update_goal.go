package goal

import (
	"context"
	"net/http"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/service"
	"github.com/carson-networks/finance-server/internal/storage"
)

// UpdateGoalBody is the request body for patching a goal. Absent fields are
// left untouched. A linkedAccountIDs field, when present, wholesale-replaces
// the linked-account set.
type UpdateGoalBody struct {
	Name             *string   `json:"name,omitempty" minLength:"1" doc:"Display name"`
	Description      *string   `json:"description,omitempty" doc:"Description"`
	TargetAmount     *string   `json:"targetAmount,omitempty" doc:"Decimal target amount, must be positive"`
	CurrentAmount    *string   `json:"currentAmount,omitempty" doc:"Amount saved; ignored while accounts are linked"`
	TargetDate       *string   `json:"targetDate,omitempty" doc:"Target date, YYYY-MM-DD"`
	Status           *string   `json:"status,omitempty" enum:"pending,in_progress,completed" doc:"Explicit status; only honored for unlinked goals"`
	Icon             *string   `json:"icon,omitempty" doc:"Display icon"`
	Color            *string   `json:"color,omitempty" doc:"Display color"`
	LinkedAccountIDs *[]string `json:"linkedAccountIDs,omitempty" doc:"Replacement linked-account set; omit to keep the current set"`
}

// UpdateGoalInput is the Huma input for patching a goal.
type UpdateGoalInput struct {
	ID   string `path:"id" doc:"Goal UUID"`
	Body UpdateGoalBody
}

// UpdateGoalOutput is the Huma output for patching a goal.
type UpdateGoalOutput struct {
	Body Goal
}

type goalUpdater interface {
	UpdateGoal(ctx context.Context, id uuid.UUID, patch storage.GoalPatch, links *[]uuid.UUID) (*service.Goal, error)
}

// UpdateGoalHandler handles PATCH /v1/goal/{id}.
type UpdateGoalHandler struct {
	GoalService goalUpdater
}

// NewUpdateGoalHandler creates a new UpdateGoalHandler.
func NewUpdateGoalHandler(svc goalUpdater) *UpdateGoalHandler {
	return &UpdateGoalHandler{GoalService: svc}
}

// Register registers the update goal endpoint with the Huma API.
func (h *UpdateGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-goal",
		Method:      http.MethodPatch,
		Path:        "/v1/goal/{id}",
		Summary:     "Update goal",
		Description: "Applies a partial update to a goal.",
		Tags:        []string{"Goals"},
	}, h.handle)
}

func (h *UpdateGoalHandler) handle(ctx context.Context, input *UpdateGoalInput) (*UpdateGoalOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}

	var patch storage.GoalPatch
	if input.Body.Name != nil {
		patch.Name = omit.From(*input.Body.Name)
	}
	if input.Body.Description != nil {
		patch.Description = omit.From(*input.Body.Description)
	}
	if input.Body.TargetAmount != nil {
		target, err := decimal.NewFromString(*input.Body.TargetAmount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid targetAmount", err)
		}
		patch.TargetAmount = omit.From(target)
	}
	if input.Body.CurrentAmount != nil {
		current, err := decimal.NewFromString(*input.Body.CurrentAmount)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid currentAmount", err)
		}
		patch.CurrentAmount = omit.From(current)
	}
	if input.Body.TargetDate != nil {
		targetDate, err := time.Parse(dateLayout, *input.Body.TargetDate)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid targetDate", err)
		}
		patch.TargetDate = omit.From(targetDate)
	}
	if input.Body.Status != nil {
		status, err := parseGoalStatus(*input.Body.Status)
		if err != nil {
			return nil, huma.NewError(http.StatusBadRequest, "invalid status", err)
		}
		patch.Status = omit.From(status)
	}
	if input.Body.Icon != nil {
		patch.Icon = omit.From(*input.Body.Icon)
	}
	if input.Body.Color != nil {
		patch.Color = omit.From(*input.Body.Color)
	}

	links, err := parseLinks(input.Body.LinkedAccountIDs)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid linkedAccountIDs", err)
	}

	result, err := h.GoalService.UpdateGoal(ctx, id, patch, links)
	if err != nil {
		return nil, mapServiceError(err, "failed to update goal")
	}
	if result == nil {
		return nil, huma.NewError(http.StatusNotFound, "goal not found")
	}

	return &UpdateGoalOutput{Body: goalToWire(*result)}, nil
}
