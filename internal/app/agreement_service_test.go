package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/effects"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/permission"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

func newTestAgreementService(api *mockApplicationAPI, metrics *mockMetrics) *AgreementServiceImpl {
	return NewAgreementService(api, metrics, permission.NewSuperAdmins([]string{"Super User"}), 30, discardLogger())
}

func TestViewAgreement(t *testing.T) {
	api := newMockApplicationAPI()
	api.applications["IAHW-AAAA-0001"] = &secondary.AgreementRecord{
		Reference:    "IAHW-AAAA-0001",
		Status:       "AGREED",
		Organisation: secondary.OrganisationRecord{Name: "Farm Ltd", SBI: "106354662"},
	}
	api.applications["IAHW-AAAA-0002"] = &secondary.AgreementRecord{
		Reference: "IAHW-AAAA-0002",
		Status:    "AGREED",
		Redacted:  true,
	}
	svc := newTestAgreementService(api, newMockMetrics())

	tests := []struct {
		name         string
		ctx          context.Context
		req          primary.ViewRequest
		wantWithdraw bool
		wantForm     bool
		wantErrors   int
	}{
		{
			name:         "authoriser sees withdraw",
			ctx:          actorContext("Alice", "authoriser"),
			req:          primary.ViewRequest{Reference: "IAHW-AAAA-0001"},
			wantWithdraw: true,
		},
		{
			name:     "withdraw form open",
			ctx:      actorContext("Alice", "authoriser"),
			req:      primary.ViewRequest{Reference: "IAHW-AAAA-0001", Query: claim.QueryFlags{Withdraw: true}},
			wantForm: true,
		},
		{
			name: "processor sees no withdraw",
			ctx:  actorContext("Paul", "processor"),
			req:  primary.ViewRequest{Reference: "IAHW-AAAA-0001"},
		},
		{
			name: "redacted agreement exposes nothing",
			ctx:  actorContext("Alice", "administrator"),
			req:  primary.ViewRequest{Reference: "IAHW-AAAA-0002"},
		},
		{
			name: "errors decoded",
			ctx:  actorContext("Alice", "authoriser"),
			req: primary.ViewRequest{
				Reference: "IAHW-AAAA-0001",
				Errors:    formerrors.Encode([]formerrors.FieldError{{Text: claim.MsgEnterNote, Href: "#withdraw", Key: "note"}}),
			},
			wantWithdraw: true,
			wantErrors:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.ViewAgreement(tt.ctx, tt.req)
			if err != nil {
				t.Fatalf("ViewAgreement failed: %v", err)
			}
			if view.ViewState.WithdrawAction != tt.wantWithdraw {
				t.Errorf("WithdrawAction = %v, want %v", view.ViewState.WithdrawAction, tt.wantWithdraw)
			}
			if view.ViewState.WithdrawForm != tt.wantForm {
				t.Errorf("WithdrawForm = %v, want %v", view.ViewState.WithdrawForm, tt.wantForm)
			}
			if len(view.Errors) != tt.wantErrors {
				t.Errorf("Errors = %+v, want %d", view.Errors, tt.wantErrors)
			}
			if view.Page != 1 {
				t.Errorf("Page = %d, want 1", view.Page)
			}
		})
	}
}

func TestViewAgreementNotFound(t *testing.T) {
	svc := newTestAgreementService(newMockApplicationAPI(), newMockMetrics())
	_, err := svc.ViewAgreement(actorContext("Alice", "user"), primary.ViewRequest{Reference: "IAHW-NONE-0000"})
	if !errors.Is(err, primary.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAgreements(t *testing.T) {
	api := newMockApplicationAPI()
	api.page = &secondary.AgreementPage{
		Applications: []secondary.AgreementRecord{{Reference: "IAHW-1", Status: "AGREED"}},
		Total:        61,
	}
	svc := newTestAgreementService(api, newMockMetrics())

	list, err := svc.ListAgreements(actorContext("Alice", "user"), primary.ListRequest{Page: 2})
	if err != nil {
		t.Fatalf("ListAgreements failed: %v", err)
	}
	if list.Pages != 3 || list.Page != 2 || len(list.Agreements) != 1 {
		t.Errorf("unexpected list: %+v", list)
	}
	if list.Agreements[0].StatusLabel != "Agreed" {
		t.Errorf("StatusLabel = %q", list.Agreements[0].StatusLabel)
	}
}

func TestUpdateEligiblePiiRedaction(t *testing.T) {
	tests := []struct {
		name       string
		ctx        context.Context
		req        primary.RedactionRequest
		wantErr    error
		wantFields int
		wantValue  bool
	}{
		{
			name:      "super admin sets flag",
			ctx:       actorContext("super user", "administrator"),
			req:       primary.RedactionRequest{Reference: "IAHW-AAAA-0001", Eligible: "yes", Note: "requested"},
			wantValue: true,
		},
		{
			name:    "non super admin refused",
			ctx:     actorContext("Alice", "administrator"),
			req:     primary.RedactionRequest{Reference: "IAHW-AAAA-0001", Eligible: "yes", Note: "requested"},
			wantErr: primary.ErrForbidden,
		},
		{
			name:       "missing answer and note",
			ctx:        actorContext("Super User", "administrator"),
			req:        primary.RedactionRequest{Reference: "IAHW-AAAA-0001"},
			wantFields: 2,
		},
		{
			name:    "unknown agreement",
			ctx:     actorContext("Super User", "administrator"),
			req:     primary.RedactionRequest{Reference: "IAHW-NONE-0000", Eligible: "no", Note: "n"},
			wantErr: primary.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newMockApplicationAPI()
			api.applications["IAHW-AAAA-0001"] = &secondary.AgreementRecord{Reference: "IAHW-AAAA-0001"}
			metrics := newMockMetrics()
			svc := newTestAgreementService(api, metrics)

			err := svc.UpdateEligiblePiiRedaction(tt.ctx, tt.req)

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			case tt.wantFields > 0:
				var verr *primary.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if len(verr.Errors) != tt.wantFields || verr.QueryFlag != claim.FlagUpdateEligiblePiiRedaction {
					t.Errorf("unexpected validation error: %+v", verr)
				}
			default:
				if err != nil {
					t.Fatalf("UpdateEligiblePiiRedaction failed: %v", err)
				}
				if api.redactionUpdate == nil || *api.redactionUpdate != tt.wantValue {
					t.Errorf("redaction update = %v", api.redactionUpdate)
				}
				if metrics.updates[effects.MetricDataUpdate] != 1 {
					t.Errorf("data metric = %d, want 1", metrics.updates[effects.MetricDataUpdate])
				}
			}
		})
	}
}
