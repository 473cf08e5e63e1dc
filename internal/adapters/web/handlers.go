package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/status"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

func atoiPage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// submitted reads the fields every view form posts back.
func submitted(r *http.Request, entity, reference string) viewTarget {
	if reference == "" {
		reference = strings.TrimSpace(r.PostFormValue("reference"))
	}
	return viewTarget{
		entity:     entity,
		reference:  reference,
		page:       atoiPage(r.PostFormValue("page")),
		returnPage: r.PostFormValue("returnPage"),
	}
}

// afterSubmit redirects back to the view, reopening the form with its
// errors when validation failed.
func (s *Server) afterSubmit(w http.ResponseWriter, r *http.Request, t viewTarget, err error) {
	var verr *primary.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, t.url(nil, ""), http.StatusFound)
	case errors.As(err, &verr):
		s.log(r).InfoContext(r.Context(), "form rejected", "reference", t.reference, "error", err)
		extra := url.Values{"errors": {formerrors.Encode(verr.Errors)}}
		if verr.QueryFlag != "" {
			extra.Set(verr.QueryFlag, "true")
		}
		http.Redirect(w, r, t.url(extra, ""), http.StatusFound)
	default:
		s.fail(w, r, err)
	}
}

// Auth

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	target, err := s.services.Auth.LoginURL(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.signIn(w, r, secondary.Callback{Code: q.Get("code"), State: q.Get("state")})
}

func (s *Server) handleDevAuth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.signIn(w, r, secondary.Callback{UserID: q.Get("userId"), State: q.Get("state")})
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, cb secondary.Callback) {
	session, err := s.services.Auth.Authenticate(r.Context(), cb)
	if errors.Is(err, primary.ErrUnauthenticated) {
		s.log(r).WarnContext(r.Context(), "sign in refused", "error", err)
		s.renderError(w, r, http.StatusUnauthorized, "You could not be signed in")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.cookie.write(w, session.ID); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/claims", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Auth.Logout(r.Context(), s.cookie.read(r)); err != nil {
		s.log(r).WarnContext(r.Context(), "failed to close session", "error", err)
	}
	s.cookie.clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleAuthMode(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Auth.SetMode(r.Context(), r.PostFormValue("mode")); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/claims", http.StatusFound)
}

// Lists

type claimsPage struct {
	List   *primary.ClaimList
	Search string
	Pager  pager
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.services.Claims.ListClaims(r.Context(), primary.ListRequest{
		Search: strings.TrimSpace(q.Get("search")),
		Type:   q.Get("type"),
		Page:   atoiPage(q.Get("page")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "claims", "Claims", claimsPage{
		List:   list,
		Search: q.Get("search"),
		Pager:  newPager("/claims", q, list.Page, list.Pages),
	})
}

type agreementsPage struct {
	List   *primary.AgreementList
	Search string
	Pager  pager
}

func (s *Server) handleListAgreements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.services.Agreements.ListAgreements(r.Context(), primary.ListRequest{
		Search: strings.TrimSpace(q.Get("search")),
		Type:   q.Get("type"),
		Page:   atoiPage(q.Get("page")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "agreements", "Agreements", agreementsPage{
		List:   list,
		Search: q.Get("search"),
		Pager:  newPager("/agreements", q, list.Page, list.Pages),
	})
}

// Views

func viewRequest(r *http.Request) primary.ViewRequest {
	q := r.URL.Query()
	return primary.ViewRequest{
		Reference:  chi.URLParam(r, "reference"),
		Query:      claim.ParseQueryFlags(q.Get),
		Errors:     q.Get("errors"),
		Page:       atoiPage(q.Get("page")),
		ReturnPage: q.Get("returnPage"),
	}
}

type claimPage struct {
	View        *primary.ClaimView
	Back        link
	Actions     []link
	Forms       []transitionForm
	DataActions []link
	DataForms   []dataForm
}

func (s *Server) handleViewClaim(w http.ResponseWriter, r *http.Request) {
	view, err := s.services.Claims.ViewClaim(r.Context(), viewRequest(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t := viewTarget{entity: primary.EntityClaim, reference: view.Claim.Reference, page: view.Page, returnPage: view.ReturnPage}
	page := claimPage{View: view, Back: backLink(view.ReturnPage, view.Claim.ApplicationReference, view.Page)}
	page.Actions, page.Forms = workflowUI(t, view.ViewState, view.StatusOptions, view.ErrorsByKey, s.newToken())
	page.DataActions, page.DataForms = claimDataUI(t, view.ViewState, view.ErrorsByKey)
	s.render(w, r, http.StatusOK, "claim", "Claim "+view.Claim.Reference, page)
}

type agreementPage struct {
	View        *primary.AgreementView
	Actions     []link
	Forms       []transitionForm
	DataActions []link
	DataForms   []dataForm
}

func (s *Server) handleViewAgreement(w http.ResponseWriter, r *http.Request) {
	view, err := s.services.Agreements.ViewAgreement(r.Context(), viewRequest(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	t := viewTarget{entity: primary.EntityAgreement, reference: view.Agreement.Reference, page: view.Page, returnPage: view.ReturnPage}
	page := agreementPage{View: view}
	page.Actions, page.Forms = workflowUI(t, view.ViewState, view.StatusOptions, view.ErrorsByKey, s.newToken())
	page.DataActions, page.DataForms = redactionUI(t, view.ViewState, view.ErrorsByKey)
	s.render(w, r, http.StatusOK, "agreement", "Agreement "+view.Agreement.Reference, page)
}

// Workflow

func (s *Server) handleTransition(route transitionRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entity := route.entity
		if r.PostFormValue("entity") == primary.EntityAgreement {
			entity = primary.EntityAgreement
		}
		t := submitted(r, entity, "")

		err := s.services.Claims.Transition(r.Context(), primary.TransitionRequest{
			Entity:    entity,
			Reference: t.reference,
			Action:    route.action,
			Target:    status.Status(r.PostFormValue("status")),
			Note:      r.PostFormValue("note"),
			Confirm:   r.PostForm["confirm"],
		})
		if err == nil {
			s.log(r).InfoContext(r.Context(), "status updated", "reference", t.reference, "action", route.action)
		}
		s.afterSubmit(w, r, t, err)
	}
}

func (s *Server) handleDataUpdate(field claim.DataField) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := submitted(r, primary.EntityClaim, "")
		err := s.services.Claims.UpdateClaimData(r.Context(), primary.DataUpdateRequest{
			Reference: t.reference,
			Update: claim.DataUpdate{
				Field: field,
				Value: r.PostFormValue(string(field)),
				Day:   r.PostFormValue("day"),
				Month: r.PostFormValue("month"),
				Year:  r.PostFormValue("year"),
				Note:  r.PostFormValue("note"),
			},
		})
		s.afterSubmit(w, r, t, err)
	}
}

func (s *Server) handleEligiblePiiRedaction(w http.ResponseWriter, r *http.Request) {
	t := submitted(r, primary.EntityAgreement, chi.URLParam(r, "reference"))
	err := s.services.Agreements.UpdateEligiblePiiRedaction(r.Context(), primary.RedactionRequest{
		Reference: t.reference,
		Eligible:  r.PostFormValue("eligiblePiiRedaction"),
		Note:      r.PostFormValue("note"),
	})
	s.afterSubmit(w, r, t, err)
}

// Flags

type flagsPage struct {
	Flags       []*primary.Flag
	CanEdit     bool
	CreateForm  bool
	DeleteFlag  *primary.Flag
	Errors      []formerrors.FieldError
	ErrorsByKey map[string]formerrors.Message
}

func (s *Server) handleListFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := s.services.Flags.ListFlags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	errs, _ := formerrors.Decode(q.Get("errors"))
	page := flagsPage{
		Flags:       flags,
		CanEdit:     isAdmin(r),
		Errors:      errs,
		ErrorsByKey: formerrors.ByKey(errs),
	}
	if page.CanEdit {
		page.CreateForm = q.Get("createFlag") == "true"
		if id := q.Get("deleteFlag"); id != "" {
			for _, f := range flags {
				if f.ID == id {
					page.DeleteFlag = f
				}
			}
		}
	}
	s.render(w, r, http.StatusOK, "flags", "Flags", page)
}

func (s *Server) handleCreateFlag(w http.ResponseWriter, r *http.Request) {
	err := s.services.Flags.CreateFlag(r.Context(), primary.CreateFlagRequest{
		AgreementReference: r.PostFormValue("appRef"),
		Note:               r.PostFormValue("note"),
		AppliesToMh:        r.PostFormValue("appliesToMh"),
	})
	s.afterFlagSubmit(w, r, url.Values{"createFlag": {"true"}}, err)
}

func (s *Server) handleDeleteFlag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.PostFormValue("flagId")
	}
	err := s.services.Flags.DeleteFlag(r.Context(), primary.DeleteFlagRequest{
		FlagID:      id,
		DeletedNote: r.PostFormValue("deletedNote"),
	})
	s.afterFlagSubmit(w, r, url.Values{"deleteFlag": {id}}, err)
}

func (s *Server) afterFlagSubmit(w http.ResponseWriter, r *http.Request, reopen url.Values, err error) {
	var verr *primary.ValidationError
	switch {
	case err == nil:
		http.Redirect(w, r, "/flags", http.StatusFound)
	case errors.As(err, &verr):
		reopen.Set("errors", formerrors.Encode(verr.Errors))
		http.Redirect(w, r, "/flags?"+reopen.Encode(), http.StatusFound)
	default:
		s.fail(w, r, err)
	}
}

// Support

type supportForm struct {
	Action string
	Field  string
	ID     string
	Label  string
}

var supportForms = []supportForm{
	{"searchApplication", "applicationReference", "application-reference", "Application reference"},
	{"searchClaim", "claimReference", "claim-reference", "Claim reference"},
	{"searchHerd", "herdId", "herd-id", "Herd id"},
	{"searchPayment", "paymentReference", "payment-reference", "Payment reference"},
	{"searchPaymentStatus", "paymentStatusReference", "payment-status-reference", "Payment status reference"},
	{"searchAgreementMessages", "agreementMessageReference", "agreement-message-reference", "Agreement reference for messages"},
	{"searchClaimMessages", "claimMessageReference", "claim-message-reference", "Claim reference for messages"},
	{"searchAgreementLogs", "agreementLogReference", "agreement-log-reference", "Agreement reference for document logs"},
	{"searchAgreementComms", "agreementCommsReference", "agreement-comms-reference", "Agreement reference for comms"},
	{"searchClaimComms", "claimCommsReference", "claim-comms-reference", "Claim reference for comms"},
}

type supportPage struct {
	Forms       []supportForm
	Values      map[string]string
	Result      *primary.SupportResult
	Errors      []formerrors.FieldError
	ErrorsByKey map[string]formerrors.Message
}

func (s *Server) handleSupport(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "support", "Support", supportPage{Forms: supportForms})
}

func (s *Server) handleSupportSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "The form could not be read")
		return
	}
	fields := make(map[string]string, len(r.PostForm))
	for k := range r.PostForm {
		fields[k] = r.PostForm.Get(k)
	}

	page := supportPage{Forms: supportForms, Values: fields}
	result, err := s.services.Support.Search(r.Context(), primary.SupportSearchRequest{
		Action: r.PostFormValue("action"),
		Fields: fields,
	})
	var verr *primary.ValidationError
	switch {
	case err == nil:
		page.Result = result
		s.render(w, r, http.StatusOK, "support", "Support", page)
	case errors.As(err, &verr):
		page.Errors = verr.Errors
		page.ErrorsByKey = formerrors.ByKey(verr.Errors)
		s.render(w, r, http.StatusBadRequest, "support", "Support", page)
	default:
		s.fail(w, r, err)
	}
}
