package web

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/example/backoffice/internal/core/claim"
	"github.com/example/backoffice/internal/core/formerrors"
	"github.com/example/backoffice/internal/core/status"
	"github.com/example/backoffice/internal/ports/primary"
)

const crumbField = "crumb"

var checklistLabels = map[string]string{
	"checkedAgainstChecklist":       "I have checked the claim against the verification checklist",
	"sentChecklist":                 "I have sent the completed checklist to the claims inbox",
	"approveClaim":                  "I have checked the recommendation and approve this claim",
	"rejectClaim":                   "I have checked the recommendation and reject this claim",
	"recommendToMoveOnHoldClaim":    "I recommend moving this on hold claim to in check",
	"updateIssuesLog":               "I have updated the issues log",
	"SentCopyOfRequest":             "I have sent a copy of the withdrawal request to the customer",
	"attachedCopyOfCustomersRecord": "I have attached a copy of the request to the customer's record",
	"receivedConfirmation":          "I have received confirmation from the customer",
}

type link struct {
	Text string
	Href string
}

type checkItem struct {
	Value string
	Label string
}

// transitionForm is a rendered workflow form.
type transitionForm struct {
	ID            string
	Path          string
	Title         string
	Reference     string
	Entity        string
	Page          int
	ReturnPage    string
	Crumb         string
	Checklist     []checkItem
	StatusOptions []status.Option
	Errors        map[string]formerrors.Message
}

// dataForm is a rendered data correction form. Field selects the inputs.
type dataForm struct {
	ID         string
	Path       string
	Title      string
	Field      string
	Reference  string
	Page       int
	ReturnPage string
	Errors     map[string]formerrors.Message
}

// viewTarget locates the page a form returns to.
type viewTarget struct {
	entity     string
	reference  string
	page       int
	returnPage string
}

func viewPath(entity, reference string) string {
	if entity == primary.EntityAgreement {
		return "/view-agreement/" + url.PathEscape(reference)
	}
	return "/view-claim/" + url.PathEscape(reference)
}

// url builds the view URL with extra query values and an optional anchor.
func (t viewTarget) url(extra url.Values, anchor string) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(t.page, 1)))
	if t.returnPage != "" {
		q.Set("returnPage", t.returnPage)
	}
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return viewPath(t.entity, t.reference) + "?" + q.Encode() + anchor
}

func (t viewTarget) openLink(text, flag, anchor string) link {
	return link{Text: text, Href: t.url(url.Values{flag: {"true"}}, anchor)}
}

type transitionUI struct {
	action claim.Action
	link   func(claim.ViewState) bool
	form   func(claim.ViewState) bool
}

var transitionUIs = []transitionUI{
	{claim.ActionRecommendToPay, func(v claim.ViewState) bool { return v.RecommendAction }, func(v claim.ViewState) bool { return v.RecommendToPayForm }},
	{claim.ActionRecommendToReject, func(v claim.ViewState) bool { return v.RecommendAction }, func(v claim.ViewState) bool { return v.RecommendToRejectForm }},
	{claim.ActionApprove, func(v claim.ViewState) bool { return v.AuthoriseAction }, func(v claim.ViewState) bool { return v.AuthoriseForm }},
	{claim.ActionReject, func(v claim.ViewState) bool { return v.RejectAction }, func(v claim.ViewState) bool { return v.RejectForm }},
	{claim.ActionMoveToInCheck, func(v claim.ViewState) bool { return v.MoveToInCheckAction }, func(v claim.ViewState) bool { return v.MoveToInCheckForm }},
	{claim.ActionWithdraw, func(v claim.ViewState) bool { return v.WithdrawAction }, func(v claim.ViewState) bool { return v.WithdrawForm }},
	{claim.ActionUpdateStatus, func(v claim.ViewState) bool { return v.UpdateStatusAction && !v.UpdateStatusForm }, func(v claim.ViewState) bool { return v.UpdateStatusForm }},
}

// workflowUI turns a view state into action links and open forms.
func workflowUI(t viewTarget, vs claim.ViewState, options []status.Option, errs map[string]formerrors.Message, crumb string) ([]link, []transitionForm) {
	var (
		links []link
		forms []transitionForm
	)
	for _, ui := range transitionUIs {
		route, ok := routeFor(ui.action)
		if !ok {
			continue
		}
		row, ok := claim.Lookup(ui.action)
		if !ok {
			continue
		}
		if ui.link(vs) {
			links = append(links, t.openLink(route.label, ui.action.QueryFlag(), row.Anchor))
		}
		if !ui.form(vs) {
			continue
		}
		form := transitionForm{
			ID:         strings.TrimPrefix(row.Anchor, "#"),
			Path:       route.path,
			Title:      route.label,
			Reference:  t.reference,
			Entity:     t.entity,
			Page:       max(t.page, 1),
			ReturnPage: t.returnPage,
			Crumb:      crumb,
			Errors:     errs,
		}
		for _, item := range row.Checklist {
			form.Checklist = append(form.Checklist, checkItem{Value: item, Label: checklistLabels[item]})
		}
		if ui.action == claim.ActionUpdateStatus {
			form.StatusOptions = options
		}
		forms = append(forms, form)
	}
	return links, forms
}

type dataUI struct {
	field claim.DataField
	path  string
	title string
	link  func(claim.ViewState) bool
	form  func(claim.ViewState) bool
}

var claimDataUIs = []dataUI{
	{claim.FieldVetsName, "/update-vets-name", "Change vet's name",
		func(v claim.ViewState) bool { return v.UpdateVetsNameAction && !v.UpdateVetsNameForm },
		func(v claim.ViewState) bool { return v.UpdateVetsNameForm }},
	{claim.FieldVetRCVSNumber, "/update-vet-rcvs-number", "Change vet's RCVS number",
		func(v claim.ViewState) bool { return v.UpdateVetRCVSNumberAction && !v.UpdateVetRCVSNumberForm },
		func(v claim.ViewState) bool { return v.UpdateVetRCVSNumberForm }},
	{claim.FieldDateOfVisit, "/update-date-of-visit", "Change date of visit",
		func(v claim.ViewState) bool { return v.UpdateDateOfVisitAction && !v.UpdateDateOfVisitForm },
		func(v claim.ViewState) bool { return v.UpdateDateOfVisitForm }},
}

// claimDataUI builds the super admin correction links and forms.
func claimDataUI(t viewTarget, vs claim.ViewState, errs map[string]formerrors.Message) ([]link, []dataForm) {
	var (
		links []link
		forms []dataForm
	)
	for _, ui := range claimDataUIs {
		anchor := ui.field.Anchor()
		if ui.link(vs) {
			links = append(links, t.openLink(ui.title, ui.field.QueryFlag(), anchor))
		}
		if ui.form(vs) {
			forms = append(forms, dataForm{
				ID:         strings.TrimPrefix(anchor, "#"),
				Path:       ui.path,
				Title:      ui.title,
				Field:      string(ui.field),
				Reference:  t.reference,
				Page:       max(t.page, 1),
				ReturnPage: t.returnPage,
				Errors:     errs,
			})
		}
	}
	return links, forms
}

const redactionAnchor = "#update-eligible-pii-redaction"

// redactionUI builds the eligible-for-redaction link or form.
func redactionUI(t viewTarget, vs claim.ViewState, errs map[string]formerrors.Message) ([]link, []dataForm) {
	const title = "Change eligible for automated data redaction"
	if vs.UpdateEligiblePiiRedactionForm {
		return nil, []dataForm{{
			ID:        strings.TrimPrefix(redactionAnchor, "#"),
			Path:      "/agreements/" + url.PathEscape(t.reference) + "/eligible-pii-redaction",
			Title:     title,
			Field:     "eligiblePiiRedaction",
			Reference: t.reference,
			Page:      max(t.page, 1),
			Errors:    errs,
		}}
	}
	if vs.UpdateEligiblePiiRedactionAction {
		return []link{t.openLink(title, claim.FlagUpdateEligiblePiiRedaction, redactionAnchor)}, nil
	}
	return nil, nil
}

// backLink returns the link to the page the caseworker came from.
func backLink(returnPage, agreementReference string, page int) link {
	if returnPage == "agreement" && agreementReference != "" {
		return link{Text: "Back to agreement", Href: viewPath(primary.EntityAgreement, agreementReference) + "?page=" + strconv.Itoa(max(page, 1))}
	}
	return link{Text: "Back to all claims", Href: "/claims?page=" + strconv.Itoa(max(page, 1))}
}

// pager is the list page navigation.
type pager struct {
	Page     int
	Pages    int
	Previous string
	Next     string
}

func newPager(base string, q url.Values, page, pages int) pager {
	p := pager{Page: page, Pages: pages}
	at := func(n int) string {
		v := url.Values{}
		for k, vs := range q {
			v[k] = vs
		}
		v.Set("page", strconv.Itoa(n))
		return base + "?" + v.Encode()
	}
	if page > 1 {
		p.Previous = at(page - 1)
	}
	if page < pages {
		p.Next = at(page + 1)
	}
	return p
}
