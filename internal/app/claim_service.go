package app

import (
	"context"
	"fmt"

	"github.com/example/backoffice/internal/clock"
	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/effects"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/core/status"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// ClaimServiceImpl implements the ClaimService interface.
type ClaimServiceImpl struct {
	claims       secondary.ClaimAPI
	applications secondary.ApplicationAPI
	executor     EffectExecutor
	superAdmins  permission.SuperAdmins
	pageSize     int
	clock        clock.Clock
}

// NewClaimService creates a new ClaimService with injected dependencies.
func NewClaimService(
	claims secondary.ClaimAPI,
	applications secondary.ApplicationAPI,
	executor EffectExecutor,
	superAdmins permission.SuperAdmins,
	pageSize int,
	clk clock.Clock,
) *ClaimServiceImpl {
	return &ClaimServiceImpl{
		claims:       claims,
		applications: applications,
		executor:     executor,
		superAdmins:  superAdmins,
		pageSize:     pageSize,
		clock:        clk,
	}
}

// ViewClaim assembles the claim page.
func (s *ClaimServiceImpl) ViewClaim(ctx context.Context, req primary.ViewRequest) (*primary.ClaimView, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.claims.GetClaim(ctx, req.Reference)
	if err != nil {
		return nil, notFound(err, "claim", req.Reference)
	}

	history, err := s.claims.GetClaimHistory(ctx, record.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get claim history: %w", err)
	}

	current := status.Status(record.Status)
	vs := claim.Resolve(claim.ViewStateInput{
		Reference:          record.Reference,
		Actor:              actor,
		IsSuperAdmin:       s.superAdmins.IsSuperAdmin(actor.Name),
		Status:             current,
		Query:              req.Query,
		CurrentStatusEvent: claim.CurrentStatusEvent(current, toStatusEvents(history)),
	})

	// A mangled errors parameter shows the page without a summary.
	errs, _ := formerrors.Decode(req.Errors)

	return &primary.ClaimView{
		Claim:         toClaim(record),
		History:       toHistoryRows(history),
		ViewState:     vs,
		StatusOptions: status.UpdateOptions(current),
		Errors:        errs,
		ErrorsByKey:   formerrors.ByKey(errs),
		Page:          normalisePage(req.Page),
		ReturnPage:    req.ReturnPage,
	}, nil
}

// ListClaims returns one page of claims.
func (s *ClaimServiceImpl) ListClaims(ctx context.Context, req primary.ListRequest) (*primary.ClaimList, error) {
	page := normalisePage(req.Page)
	result, err := s.claims.SearchClaims(ctx, secondary.SearchQuery{
		Text:   req.Search,
		Type:   req.Type,
		Limit:  s.pageSize,
		Offset: (page - 1) * s.pageSize,
		Sort:   &secondary.SortOrder{Field: "createdAt", Direction: "DESC"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search claims: %w", err)
	}

	claims := make([]primary.Claim, 0, len(result.Claims))
	for i := range result.Claims {
		claims = append(claims, toClaim(&result.Claims[i]))
	}

	return &primary.ClaimList{
		Claims:   claims,
		Page:     page,
		Pages:    pageCount(result.Total, s.pageSize),
		Total:    result.Total,
		PageSize: s.pageSize,
	}, nil
}

// workflowSubject is the entity a transition acts on.
type workflowSubject struct {
	entity   string
	status   status.Status
	redacted bool
	history  []secondary.HistoryRecord
}

func (s *ClaimServiceImpl) loadSubject(ctx context.Context, entity, reference string) (*workflowSubject, error) {
	switch entity {
	case primary.EntityClaim:
		rec, err := s.claims.GetClaim(ctx, reference)
		if err != nil {
			return nil, notFound(err, "claim", reference)
		}
		history, err := s.claims.GetClaimHistory(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("failed to get claim history: %w", err)
		}
		return &workflowSubject{entity: effects.EntityClaim, status: status.Status(rec.Status), history: history}, nil
	case primary.EntityAgreement:
		rec, err := s.applications.GetApplication(ctx, reference)
		if err != nil {
			return nil, notFound(err, "agreement", reference)
		}
		history, err := s.applications.GetApplicationHistory(ctx, reference)
		if err != nil {
			return nil, fmt.Errorf("failed to get agreement history: %w", err)
		}
		return &workflowSubject{
			entity:   effects.EntityAgreement,
			status:   status.Status(rec.Status),
			redacted: rec.Redacted,
			history:  history,
		}, nil
	default:
		return nil, fmt.Errorf("unknown entity %q", entity)
	}
}

// Transition performs a workflow action. The checklist and note are
// validated first, then the action is checked against the entity's current
// status before the backend is asked to change it.
func (s *ClaimServiceImpl) Transition(ctx context.Context, req primary.TransitionRequest) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	row, ok := claim.Lookup(req.Action)
	if !ok {
		return fmt.Errorf("unknown action %q", req.Action)
	}

	if errs := claim.ValidateSubmission(row, claim.Submission{
		Confirm: req.Confirm,
		Note:    req.Note,
		Target:  req.Target,
	}); len(errs) > 0 {
		return &primary.ValidationError{Errors: errs, QueryFlag: req.Action.QueryFlag()}
	}

	subject, err := s.loadSubject(ctx, req.Entity, req.Reference)
	if err != nil {
		return err
	}
	if subject.redacted {
		return primary.ForbiddenError(fmt.Sprintf("agreement %s is redacted", req.Reference))
	}

	guard := claim.CanTransition(claim.TransitionContext{
		Action:             req.Action,
		Reference:          req.Reference,
		Status:             subject.status,
		Actor:              actor,
		IsSuperAdmin:       s.superAdmins.IsSuperAdmin(actor.Name),
		CurrentStatusEvent: claim.CurrentStatusEvent(subject.status, toStatusEvents(subject.history)),
		Target:             req.Target,
	})
	if !guard.Allowed {
		return primary.ForbiddenError(guard.Reason)
	}

	plan := claim.PlanTransition(claim.TransitionPlanInput{
		Entity:    subject.entity,
		Reference: req.Reference,
		Action:    req.Action,
		From:      subject.status,
		To:        row.Target(req.Target),
		User:      actor.Name,
		Note:      req.Note,
	})

	if err := s.executor.Execute(ctx, plan.Effects()); err != nil {
		return fmt.Errorf("failed to %s %s: %w", req.Action, req.Reference, err)
	}
	return nil
}

// UpdateClaimData corrects a claim data field. Restricted to super admins.
func (s *ClaimServiceImpl) UpdateClaimData(ctx context.Context, req primary.DataUpdateRequest) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !s.superAdmins.IsSuperAdmin(actor.Name) {
		return primary.ForbiddenError(fmt.Sprintf("%s is not a super admin", actor.Name))
	}

	value, errs := claim.ValidateDataUpdate(req.Update, s.clock.Now())
	if len(errs) > 0 {
		return &primary.ValidationError{Errors: errs, QueryFlag: req.Update.Field.QueryFlag()}
	}

	if _, err := s.claims.GetClaim(ctx, req.Reference); err != nil {
		return notFound(err, "claim", req.Reference)
	}

	effs := claim.PlanDataUpdate(claim.DataPlanInput{
		Entity:    effects.EntityClaim,
		Reference: req.Reference,
		Data:      map[string]any{string(req.Update.Field): value},
		User:      actor.Name,
		Note:      req.Update.Note,
	})
	if err := s.executor.Execute(ctx, effs); err != nil {
		return fmt.Errorf("failed to update %s on %s: %w", req.Update.Field, req.Reference, err)
	}
	return nil
}

func toClaim(r *secondary.ClaimRecord) primary.Claim {
	st := status.Status(r.Status)
	return primary.Claim{
		Reference:            r.Reference,
		ApplicationReference: r.ApplicationReference,
		Status:               st,
		StatusLabel:          status.Label(st),
		StatusClass:          status.StyleClass(st),
		Type:                 r.Type,
		Data:                 r.Data,
		CreatedAt:            r.CreatedAt,
	}
}
