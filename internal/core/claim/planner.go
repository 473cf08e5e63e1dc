package claim

import (
	"github.com/example/backoffice/internal/core/effects"
	"github.com/example/backoffice/internal/core/status"
)

// TransitionPlanInput contains the inputs needed to plan a status change.
// All values are pre-validated by the caller.
type TransitionPlanInput struct {
	Entity    string // effects.EntityClaim or effects.EntityAgreement
	Reference string
	Action    Action
	From      status.Status
	To        status.Status
	User      string
	Note      string
}

// TransitionPlan represents the planned effects for a status change.
type TransitionPlan struct {
	Reference string
	Backend   effects.StatusUpdateEffect
	Metric    effects.MetricEffect
	Audit     effects.LogEffect
}

// Effects returns all effects as a flat slice for execution. The backend
// call runs first so a failure skips the counter and audit line.
func (p TransitionPlan) Effects() []effects.Effect {
	return []effects.Effect{p.Backend, p.Metric, p.Audit}
}

// PlanTransition creates a plan for a status change.
func PlanTransition(in TransitionPlanInput) TransitionPlan {
	return TransitionPlan{
		Reference: in.Reference,
		Backend: effects.StatusUpdateEffect{
			Entity:    in.Entity,
			Reference: in.Reference,
			Status:    string(in.To),
			User:      in.User,
			Note:      in.Note,
		},
		Metric: effects.MetricEffect{Name: effects.MetricStatusUpdate},
		Audit: effects.LogEffect{
			Level:   "info",
			Message: "status updated",
			Fields: map[string]any{
				"entity":    in.Entity,
				"reference": in.Reference,
				"action":    string(in.Action),
				"from":      string(in.From),
				"to":        string(in.To),
				"user":      in.User,
			},
		},
	}
}

// DataPlanInput contains the inputs needed to plan a data correction.
type DataPlanInput struct {
	Entity    string
	Reference string
	Data      map[string]any
	User      string
	Note      string
}

// PlanDataUpdate creates the effects for a data correction.
func PlanDataUpdate(in DataPlanInput) []effects.Effect {
	fields := make([]string, 0, len(in.Data))
	for k := range in.Data {
		fields = append(fields, k)
	}
	return []effects.Effect{
		effects.DataUpdateEffect{
			Entity:    in.Entity,
			Reference: in.Reference,
			Data:      in.Data,
			User:      in.User,
			Note:      in.Note,
		},
		effects.MetricEffect{Name: effects.MetricDataUpdate},
		effects.LogEffect{
			Level:   "info",
			Message: "data updated",
			Fields: map[string]any{
				"entity":    in.Entity,
				"reference": in.Reference,
				"fields":    fields,
				"user":      in.User,
			},
		},
	}
}
