package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/finance-assistant/internal/dto"
	"github.com/GregMSThompson/finance-assistant/internal/errs"
	"github.com/GregMSThompson/finance-assistant/internal/middleware"
	"github.com/GregMSThompson/finance-assistant/internal/models"
)

type stubUserService struct {
	called       bool
	id           dto.Identity
	name, handle string
	identifier   string
	profile      *models.User
	err          error
}

func (s *stubUserService) Register(_ context.Context, id dto.Identity, name, handle string) (*models.User, error) {
	s.called = true
	s.id, s.name, s.handle = id, name, handle
	if s.err != nil {
		return nil, s.err
	}
	return &models.User{UID: id.UID, Email: id.Email, Name: name, UserID: handle}, nil
}

func (s *stubUserService) ResolveIdentifier(_ context.Context, identifier string) (string, error) {
	s.identifier = identifier
	return "resolved@example.com", s.err
}

func (s *stubUserService) GetProfile(_ context.Context, _ string) (*models.User, error) {
	return s.profile, s.err
}

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	errorWriteCalled bool
	errorWriteStatus int
	errorWriteCode   string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, _ string) {
	s.errorWriteCalled = true
	s.errorWriteStatus = status
	s.errorWriteCode = code
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// withUID injects a UID into the request context.
func withUID(r *http.Request, uid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
	return r.WithContext(ctx)
}

func withRole(r *http.Request, role models.Role) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.RoleKey, role)
	return r.WithContext(ctx)
}

func TestRegisterSuccess(t *testing.T) {
	userSvc := &stubUserService{}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: userSvc})

	body := `{"name":"Jane","handle":"jane"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	ctx := context.WithValue(req.Context(), middleware.UIDKey, "uid-123")
	ctx = context.WithValue(ctx, middleware.EmailKey, "jane@example.com")
	ctx = context.WithValue(ctx, middleware.EmailVerifiedKey, true)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if !userSvc.called {
		t.Fatalf("expected Register to be called on service")
	}
	want := dto.Identity{UID: "uid-123", Email: "jane@example.com", EmailVerified: true}
	if userSvc.id != want {
		t.Fatalf("service received wrong identity: %+v", userSvc.id)
	}
	if userSvc.name != "Jane" || userSvc.handle != "jane" {
		t.Fatalf("service received wrong profile: %s %s", userSvc.name, userSvc.handle)
	}
	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("WriteSuccess not called with status 201")
	}
}

func TestRegisterInvalidJSON(t *testing.T) {
	userSvc := &stubUserService{}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: userSvc})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("not-json"))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if userSvc.called {
		t.Fatalf("Register should not be called on service when JSON invalid")
	}
	var ve *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &ve) {
		t.Fatalf("expected validation error, got %v", resp.handleError)
	}
}

func TestRegisterServiceError(t *testing.T) {
	userSvc := &stubUserService{err: errs.NewAlreadyExistsError("handle already taken")}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: userSvc})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Jane","handle":"jane"}`))
	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if !errors.Is(resp.handleError, userSvc.err) {
		t.Fatalf("unexpected error passed to HandleError: %v", resp.handleError)
	}
	if resp.writeSuccessCalled {
		t.Fatalf("WriteSuccess should not be called on service error")
	}
}

func TestResolveIdentifier(t *testing.T) {
	userSvc := &stubUserService{}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: userSvc})

	req := httptest.NewRequest(http.MethodPost, "/users/resolve", strings.NewReader(`{"identifier":"jane"}`))
	rr := httptest.NewRecorder()
	h.ResolveIdentifier(rr, req)

	if userSvc.identifier != "jane" {
		t.Fatalf("identifier = %q", userSvc.identifier)
	}
	got, ok := resp.writeSuccessData.(dto.ResolveIdentifierResponse)
	if !ok || got.Email != "resolved@example.com" {
		t.Fatalf("unexpected response data: %#v", resp.writeSuccessData)
	}
}

func TestCheckoutConfig(t *testing.T) {
	userSvc := &stubUserService{profile: &models.User{UID: "u1", SubscriptionStatus: "free"}}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: userSvc, CheckoutPreferenceID: "pref-1"})

	req := withUID(httptest.NewRequest(http.MethodGet, "/users/me/checkout", nil), "u1")
	rr := httptest.NewRecorder()
	h.CheckoutConfig(rr, req)

	got, ok := resp.writeSuccessData.(dto.CheckoutConfig)
	if !ok || got.PreferenceID != "pref-1" || got.SubscriptionStatus != "free" {
		t.Fatalf("unexpected checkout config: %#v", resp.writeSuccessData)
	}
}
