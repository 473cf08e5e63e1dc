package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/effects"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/core/status"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// AgreementServiceImpl implements the AgreementService interface.
type AgreementServiceImpl struct {
	applications secondary.ApplicationAPI
	metrics      secondary.Metrics
	superAdmins  permission.SuperAdmins
	pageSize     int
	logger       *slog.Logger
}

// NewAgreementService creates a new AgreementService with injected dependencies.
func NewAgreementService(
	applications secondary.ApplicationAPI,
	metrics secondary.Metrics,
	superAdmins permission.SuperAdmins,
	pageSize int,
	logger *slog.Logger,
) *AgreementServiceImpl {
	return &AgreementServiceImpl{
		applications: applications,
		metrics:      metrics,
		superAdmins:  superAdmins,
		pageSize:     pageSize,
		logger:       logger,
	}
}

// ViewAgreement assembles the agreement page. Redacted agreements expose
// no actions.
func (s *AgreementServiceImpl) ViewAgreement(ctx context.Context, req primary.ViewRequest) (*primary.AgreementView, error) {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.applications.GetApplication(ctx, req.Reference)
	if err != nil {
		return nil, notFound(err, "agreement", req.Reference)
	}

	history, err := s.applications.GetApplicationHistory(ctx, record.Reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get agreement history: %w", err)
	}

	current := status.Status(record.Status)
	vs := claim.Resolve(claim.ViewStateInput{
		Reference:          record.Reference,
		Actor:              actor,
		IsSuperAdmin:       s.superAdmins.IsSuperAdmin(actor.Name),
		Status:             current,
		Query:              req.Query,
		CurrentStatusEvent: claim.CurrentStatusEvent(current, toStatusEvents(history)),
		Redacted:           record.Redacted,
	})

	errs, _ := formerrors.Decode(req.Errors)

	return &primary.AgreementView{
		Agreement:     toAgreement(record),
		History:       toHistoryRows(history),
		ViewState:     vs,
		StatusOptions: status.UpdateOptions(current),
		Errors:        errs,
		ErrorsByKey:   formerrors.ByKey(errs),
		Page:          normalisePage(req.Page),
		ReturnPage:    req.ReturnPage,
	}, nil
}

// ListAgreements returns one page of agreements.
func (s *AgreementServiceImpl) ListAgreements(ctx context.Context, req primary.ListRequest) (*primary.AgreementList, error) {
	page := normalisePage(req.Page)
	result, err := s.applications.SearchApplications(ctx, secondary.SearchQuery{
		Text:   req.Search,
		Type:   req.Type,
		Limit:  s.pageSize,
		Offset: (page - 1) * s.pageSize,
		Sort:   &secondary.SortOrder{Field: "createdAt", Direction: "DESC"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search agreements: %w", err)
	}

	agreements := make([]primary.Agreement, 0, len(result.Applications))
	for i := range result.Applications {
		agreements = append(agreements, toAgreement(&result.Applications[i]))
	}

	return &primary.AgreementList{
		Agreements: agreements,
		Page:       page,
		Pages:      pageCount(result.Total, s.pageSize),
		Total:      result.Total,
		PageSize:   s.pageSize,
	}, nil
}

// UpdateEligiblePiiRedaction sets the automated redaction flag. Restricted
// to super admins.
func (s *AgreementServiceImpl) UpdateEligiblePiiRedaction(ctx context.Context, req primary.RedactionRequest) error {
	actor, err := actorFromContext(ctx)
	if err != nil {
		return err
	}
	if !s.superAdmins.IsSuperAdmin(actor.Name) {
		return primary.ForbiddenError(fmt.Sprintf("%s is not a super admin", actor.Name))
	}

	eligible, errs := claim.ValidateEligiblePiiRedaction(req.Eligible, req.Note)
	if len(errs) > 0 {
		return &primary.ValidationError{Errors: errs, QueryFlag: claim.FlagUpdateEligiblePiiRedaction}
	}

	err = s.applications.UpdateEligiblePiiRedaction(ctx, req.Reference, eligible, actor.Name, req.Note)
	if errors.Is(err, secondary.ErrNotFound) {
		return notFound(err, "agreement", req.Reference)
	}
	if err != nil {
		return fmt.Errorf("failed to update eligible pii redaction: %w", err)
	}

	s.metrics.IncUpdate(effects.MetricDataUpdate)
	s.logger.InfoContext(ctx, "eligible pii redaction updated",
		"reference", req.Reference,
		"eligible", eligible,
		"user", actor.Name,
	)
	return nil
}

func toAgreement(r *secondary.AgreementRecord) primary.Agreement {
	st := status.Status(r.Status)
	return primary.Agreement{
		Reference:            r.Reference,
		Status:               st,
		StatusLabel:          status.Label(st),
		StatusClass:          status.StyleClass(st),
		Type:                 r.Type,
		Redacted:             r.Redacted,
		EligiblePiiRedaction: r.EligiblePiiRedaction,
		OrganisationName:     r.Organisation.Name,
		SBI:                  r.Organisation.SBI,
		Email:                r.Organisation.Email,
		Address:              r.Organisation.Address,
		Data:                 r.Data,
		CreatedAt:            r.CreatedAt,
	}
}
