// Package claim contains the pure workflow rules for claims and agreements:
// the transition table, the guards that evaluate it, the view-state resolver
// and the transition planner.
package claim

import (
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/core/status"
)

// Action names a caseworker workflow step. The action name doubles as the
// query flag that opens its form.
type Action string

const (
	ActionRecommendToPay    Action = "recommendToPay"
	ActionRecommendToReject Action = "recommendToReject"
	ActionApprove           Action = "approve"
	ActionReject            Action = "reject"
	ActionMoveToInCheck     Action = "moveToInCheck"
	ActionWithdraw          Action = "withdraw"
	ActionUpdateStatus      Action = "updateStatus"
)

// QueryFlag returns the query parameter that opens the action's form.
func (a Action) QueryFlag() string { return string(a) }

// Transition is one row of the workflow table.
type Transition struct {
	Action Action
	// From lists the statuses the action applies to. Empty means any status
	// not listed in Except.
	From   []status.Status
	Except []status.Status
	// To is the resulting status. Empty when the actor chooses the target.
	To    status.Status
	Roles permission.Scope
	// MakerChecker forbids acting on a status the same actor set.
	MakerChecker   bool
	SuperAdminOnly bool
	Checklist      []string
	Anchor         string
}

var transitions = []Transition{
	{
		Action:    ActionRecommendToPay,
		From:      []status.Status{status.InCheck},
		To:        status.RecommendedToPay,
		Roles:     permission.RecommendScope,
		Checklist: []string{"checkedAgainstChecklist", "sentChecklist"},
		Anchor:    "#recommend-to-pay",
	},
	{
		Action:    ActionRecommendToReject,
		From:      []status.Status{status.InCheck},
		To:        status.RecommendedToReject,
		Roles:     permission.RecommendScope,
		Checklist: []string{"checkedAgainstChecklist", "sentChecklist"},
		Anchor:    "#recommend-to-reject",
	},
	{
		Action:       ActionApprove,
		From:         []status.Status{status.RecommendedToPay},
		To:           status.ReadyToPay,
		Roles:        permission.AuthoriseScope,
		MakerChecker: true,
		Checklist:    []string{"approveClaim", "sentChecklist"},
		Anchor:       "#authorise",
	},
	{
		Action:       ActionReject,
		From:         []status.Status{status.RecommendedToReject},
		To:           status.Rejected,
		Roles:        permission.AuthoriseScope,
		MakerChecker: true,
		Checklist:    []string{"rejectClaim", "sentChecklist"},
		Anchor:       "#reject",
	},
	{
		Action:    ActionMoveToInCheck,
		From:      []status.Status{status.OnHold},
		To:        status.InCheck,
		Roles:     permission.MoveToCheckScope,
		Checklist: []string{"recommendToMoveOnHoldClaim", "updateIssuesLog"},
		Anchor:    "#move-to-in-check",
	},
	{
		Action:    ActionWithdraw,
		From:      []status.Status{status.Agreed},
		To:        status.Withdrawn,
		Roles:     permission.AuthoriseScope,
		Checklist: []string{"SentCopyOfRequest", "attachedCopyOfCustomersRecord", "receivedConfirmation"},
		Anchor:    "#withdraw",
	},
	{
		Action:         ActionUpdateStatus,
		Except:         []status.Status{status.ReadyToPay, status.Paid},
		SuperAdminOnly: true,
		Anchor:         "#update-status",
	},
}

// Transitions returns a copy of the workflow table.
func Transitions() []Transition {
	out := make([]Transition, len(transitions))
	copy(out, transitions)
	return out
}

// Lookup returns the table row for action.
func Lookup(action Action) (Transition, bool) {
	for _, t := range transitions {
		if t.Action == action {
			return t, true
		}
	}
	return Transition{}, false
}

// AppliesTo reports whether the row accepts an entity in status s.
func (t Transition) AppliesTo(s status.Status) bool {
	for _, ex := range t.Except {
		if ex == s {
			return false
		}
	}
	if len(t.From) == 0 {
		return true
	}
	for _, from := range t.From {
		if from == s {
			return true
		}
	}
	return false
}

// Target resolves the resulting status. chosen is only consulted for rows
// without a fixed target.
func (t Transition) Target(chosen status.Status) status.Status {
	if t.To != "" {
		return t.To
	}
	return chosen
}
