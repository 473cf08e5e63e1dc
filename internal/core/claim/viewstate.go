package claim

import (
	"strconv"

	"github.com/example/backoffice/internal/core/status"
)

// QueryFlags are the form toggles carried in the view URL.
type QueryFlags struct {
	Withdraw                   bool
	MoveToInCheck              bool
	RecommendToPay             bool
	RecommendToReject          bool
	Approve                    bool
	Reject                     bool
	UpdateStatus               bool
	UpdateVetsName             bool
	UpdateDateOfVisit          bool
	UpdateVetRCVSNumber        bool
	UpdateEligiblePiiRedaction bool
}

// Data edit query flags.
const (
	FlagUpdateVetsName             = "updateVetsName"
	FlagUpdateDateOfVisit          = "updateDateOfVisit"
	FlagUpdateVetRCVSNumber        = "updateVetRCVSNumber"
	FlagUpdateEligiblePiiRedaction = "updateEligiblePiiRedaction"
)

// ParseQueryFlags reads the flags through get, typically url.Values.Get.
// Values that are not booleans read as false.
func ParseQueryFlags(get func(string) string) QueryFlags {
	flag := func(name string) bool {
		v, err := strconv.ParseBool(get(name))
		return err == nil && v
	}
	return QueryFlags{
		Withdraw:                   flag(ActionWithdraw.QueryFlag()),
		MoveToInCheck:              flag(ActionMoveToInCheck.QueryFlag()),
		RecommendToPay:             flag(ActionRecommendToPay.QueryFlag()),
		RecommendToReject:          flag(ActionRecommendToReject.QueryFlag()),
		Approve:                    flag(ActionApprove.QueryFlag()),
		Reject:                     flag(ActionReject.QueryFlag()),
		UpdateStatus:               flag(ActionUpdateStatus.QueryFlag()),
		UpdateVetsName:             flag(FlagUpdateVetsName),
		UpdateDateOfVisit:          flag(FlagUpdateDateOfVisit),
		UpdateVetRCVSNumber:        flag(FlagUpdateVetRCVSNumber),
		UpdateEligiblePiiRedaction: flag(FlagUpdateEligiblePiiRedaction),
	}
}

// ViewStateInput is everything the resolver needs for one render.
type ViewStateInput struct {
	Reference          string
	Actor              Actor
	IsSuperAdmin       bool
	Status             status.Status
	Query              QueryFlags
	CurrentStatusEvent *StatusEvent
	Redacted           bool
}

// ViewState says which action buttons and forms the view shows.
type ViewState struct {
	RecommendAction       bool
	RecommendToPayForm    bool
	RecommendToRejectForm bool

	WithdrawAction bool
	WithdrawForm   bool

	AuthoriseAction bool
	AuthoriseForm   bool
	RejectAction    bool
	RejectForm      bool

	MoveToInCheckAction bool
	MoveToInCheckForm   bool

	UpdateStatusAction               bool
	UpdateStatusForm                 bool
	UpdateVetsNameAction             bool
	UpdateVetsNameForm               bool
	UpdateVetRCVSNumberAction        bool
	UpdateVetRCVSNumberForm          bool
	UpdateDateOfVisitAction          bool
	UpdateDateOfVisitForm            bool
	UpdateEligiblePiiRedactionAction bool
	UpdateEligiblePiiRedactionForm   bool
}

// Resolve computes the view state. It is total: every input yields a state.
// Redacted entities expose no actions.
func Resolve(in ViewStateInput) ViewState {
	var vs ViewState
	if in.Redacted {
		return vs
	}

	eligible := func(action Action) bool {
		return CanTransition(TransitionContext{
			Action:             action,
			Reference:          in.Reference,
			Status:             in.Status,
			Actor:              in.Actor,
			IsSuperAdmin:       in.IsSuperAdmin,
			CurrentStatusEvent: in.CurrentStatusEvent,
		}).Allowed
	}
	q := in.Query

	if eligible(ActionRecommendToPay) {
		vs.RecommendAction = !q.RecommendToPay && !q.RecommendToReject
		vs.RecommendToPayForm = q.RecommendToPay
	}
	if eligible(ActionRecommendToReject) {
		vs.RecommendToRejectForm = q.RecommendToReject
	}

	if eligible(ActionWithdraw) {
		vs.WithdrawAction = !q.Withdraw
		vs.WithdrawForm = q.Withdraw
	}

	if eligible(ActionApprove) {
		vs.AuthoriseAction = !q.Approve
		vs.AuthoriseForm = q.Approve
	}
	if eligible(ActionReject) {
		vs.RejectAction = !q.Reject
		vs.RejectForm = q.Reject
	}

	if eligible(ActionMoveToInCheck) {
		vs.MoveToInCheckAction = !q.MoveToInCheck
		vs.MoveToInCheckForm = q.MoveToInCheck
	}

	vs.UpdateStatusAction = eligible(ActionUpdateStatus)
	vs.UpdateStatusForm = vs.UpdateStatusAction && q.UpdateStatus

	vs.UpdateVetsNameAction = in.IsSuperAdmin
	vs.UpdateVetsNameForm = in.IsSuperAdmin && q.UpdateVetsName
	vs.UpdateVetRCVSNumberAction = in.IsSuperAdmin
	vs.UpdateVetRCVSNumberForm = in.IsSuperAdmin && q.UpdateVetRCVSNumber
	vs.UpdateDateOfVisitAction = in.IsSuperAdmin
	vs.UpdateDateOfVisitForm = in.IsSuperAdmin && q.UpdateDateOfVisit
	vs.UpdateEligiblePiiRedactionAction = in.IsSuperAdmin
	vs.UpdateEligiblePiiRedactionForm = in.IsSuperAdmin && q.UpdateEligiblePiiRedaction

	return vs
}
