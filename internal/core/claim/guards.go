package claim

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/core/status"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// Actor is the authenticated caseworker.
type Actor struct {
	Name     string
	Username string
	Roles    permission.Roles
}

// StatusEvent is one history record of a claim or agreement.
type StatusEvent struct {
	UpdatedProperty string
	OldValue        string
	NewValue        string
	Note            string
	UpdatedBy       string
	UpdatedAt       time.Time
}

// CurrentStatusEvent returns the most recent history record that set the
// entity to its current status, or nil when the history has none.
func CurrentStatusEvent(current status.Status, history []StatusEvent) *StatusEvent {
	matches := make([]StatusEvent, 0, len(history))
	for _, ev := range history {
		if ev.UpdatedProperty == "status" && status.Status(ev.NewValue) == current {
			matches = append(matches, ev)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.Before(matches[j].UpdatedAt)
	})
	latest := matches[len(matches)-1]
	return &latest
}

// TransitionContext provides context for transition guards.
type TransitionContext struct {
	Action             Action
	Reference          string
	Status             status.Status
	Actor              Actor
	IsSuperAdmin       bool
	CurrentStatusEvent *StatusEvent
	// Target is the chosen status for rows without a fixed target. Leave
	// empty to evaluate eligibility only.
	Target status.Status
}

// SetByAnotherUser reports whether the current status was set by someone
// other than the actor. An absent event counts as not set by another user.
func SetByAnotherUser(actorName string, ev *StatusEvent) bool {
	return ev != nil && ev.UpdatedBy != actorName
}

// CanTransition evaluates whether the actor may perform the action.
// Rules:
// - The action must exist in the workflow table
// - Actor must hold one of the row's roles
// - Super admin rows require the actor on the allow-list
// - Current status must be accepted by the row
// - Maker-checker rows require the status to have been set by another user
// - A chosen target must be an allowed override target
func CanTransition(ctx TransitionContext) GuardResult {
	t, ok := Lookup(ctx.Action)
	if !ok {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("unknown action %q", ctx.Action)}
	}

	if !t.Roles.Permits(ctx.Actor.Roles) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s requires one of roles %v (user: %s)", ctx.Action, t.Roles, ctx.Actor.Name),
		}
	}

	if t.SuperAdminOnly && !ctx.IsSuperAdmin {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s is restricted to super admins (user: %s)", ctx.Action, ctx.Actor.Name),
		}
	}

	if !t.AppliesTo(ctx.Status) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot %s %s in status %s", ctx.Action, ctx.Reference, ctx.Status),
		}
	}

	if t.MakerChecker && !SetByAnotherUser(ctx.Actor.Name, ctx.CurrentStatusEvent) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot %s %s: status %s must be set by another user", ctx.Action, ctx.Reference, ctx.Status),
		}
	}

	if t.To == "" && ctx.Target != "" {
		if !status.IsOverrideTarget(ctx.Target) || ctx.Target == ctx.Status {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot move %s from %s to %s", ctx.Reference, ctx.Status, ctx.Target),
			}
		}
	}

	return GuardResult{Allowed: true}
}
