package web

import (
	"context"
	"io"
	"log/slog"

	"github.com/example/backoffice/internal/ctxutil"
	"github.com/example/backoffice/internal/ports/primary"
	"github.com/example/backoffice/internal/ports/secondary"
)

// Mock Implementations

type fakeClaims struct {
	view        *primary.ClaimView
	list        *primary.ClaimList
	err         error
	transitions []primary.TransitionRequest
	dataUpdates []primary.DataUpdateRequest
	actors      []ctxutil.Actor
	panicOnView bool
}

func (f *fakeClaims) ViewClaim(ctx context.Context, req primary.ViewRequest) (*primary.ClaimView, error) {
	if f.panicOnView {
		panic("template data missing")
	}
	if f.err != nil {
		return nil, f.err
	}
	view := *f.view
	view.Page = req.Page
	view.ReturnPage = req.ReturnPage
	return &view, nil
}

func (f *fakeClaims) ListClaims(ctx context.Context, req primary.ListRequest) (*primary.ClaimList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeClaims) Transition(ctx context.Context, req primary.TransitionRequest) error {
	f.transitions = append(f.transitions, req)
	if actor, ok := ctxutil.ActorFromContext(ctx); ok {
		f.actors = append(f.actors, actor)
	}
	return f.err
}

func (f *fakeClaims) UpdateClaimData(ctx context.Context, req primary.DataUpdateRequest) error {
	f.dataUpdates = append(f.dataUpdates, req)
	return f.err
}

type fakeAgreements struct {
	view       *primary.AgreementView
	list       *primary.AgreementList
	err        error
	redactions []primary.RedactionRequest
}

func (f *fakeAgreements) ViewAgreement(ctx context.Context, req primary.ViewRequest) (*primary.AgreementView, error) {
	if f.err != nil {
		return nil, f.err
	}
	view := *f.view
	view.Page = req.Page
	return &view, nil
}

func (f *fakeAgreements) ListAgreements(ctx context.Context, req primary.ListRequest) (*primary.AgreementList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeAgreements) UpdateEligiblePiiRedaction(ctx context.Context, req primary.RedactionRequest) error {
	f.redactions = append(f.redactions, req)
	return f.err
}

type fakeFlags struct {
	flags   []*primary.Flag
	err     error
	created []primary.CreateFlagRequest
	deleted []primary.DeleteFlagRequest
}

func (f *fakeFlags) ListFlags(ctx context.Context) ([]*primary.Flag, error) {
	return f.flags, nil
}

func (f *fakeFlags) CreateFlag(ctx context.Context, req primary.CreateFlagRequest) error {
	f.created = append(f.created, req)
	return f.err
}

func (f *fakeFlags) DeleteFlag(ctx context.Context, req primary.DeleteFlagRequest) error {
	f.deleted = append(f.deleted, req)
	return f.err
}

type fakeSupport struct {
	result *primary.SupportResult
	err    error
	last   primary.SupportSearchRequest
}

func (f *fakeSupport) Search(ctx context.Context, req primary.SupportSearchRequest) (*primary.SupportResult, error) {
	f.last = req
	return f.result, f.err
}

type fakeAuth struct {
	sessions      map[string]*primary.Session
	authenticated *primary.Session
	authErr       error
	callbacks     []secondary.Callback
	loggedOut     []string
	mode          string
	modeErr       error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{sessions: make(map[string]*primary.Session), mode: "oidc"}
}

func (f *fakeAuth) LoginURL(ctx context.Context) (string, error) {
	return "https://login.example/authorize?state=s1", nil
}

func (f *fakeAuth) Authenticate(ctx context.Context, cb secondary.Callback) (*primary.Session, error) {
	f.callbacks = append(f.callbacks, cb)
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.sessions[f.authenticated.ID] = f.authenticated
	return f.authenticated, nil
}

func (f *fakeAuth) Session(ctx context.Context, id string) (*primary.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, primary.ErrUnauthenticated
	}
	return s, nil
}

func (f *fakeAuth) Logout(ctx context.Context, id string) error {
	f.loggedOut = append(f.loggedOut, id)
	delete(f.sessions, id)
	return nil
}

func (f *fakeAuth) Mode(ctx context.Context) (string, error) {
	return f.mode, nil
}

func (f *fakeAuth) SetMode(ctx context.Context, kind string) error {
	if f.modeErr != nil {
		return f.modeErr
	}
	f.mode = kind
	return nil
}

type fakeGuard struct {
	seen map[string]bool
	keys []string
}

func (f *fakeGuard) Guard(ctx context.Context, sessionID, token string) error {
	key := sessionID + ":" + token
	f.keys = append(f.keys, key)
	if f.seen[key] {
		return primary.ErrDuplicateSubmission
	}
	f.seen[key] = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
