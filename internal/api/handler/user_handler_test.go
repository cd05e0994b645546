package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sniperthink/identity-service/internal/core/domain"
)

type stubUserService struct {
	currentUserFn  func(ctx context.Context, email string) (domain.PublicUser, error)
	allUsersFn     func(ctx context.Context) ([]domain.PublicUser, error)
	loginHistoryFn func(ctx context.Context, skip, limit int64) ([]domain.LoginRecord, error)
}

func (s *stubUserService) CurrentUser(ctx context.Context, email string) (domain.PublicUser, error) {
	return s.currentUserFn(ctx, email)
}

func (s *stubUserService) AllUsers(ctx context.Context) ([]domain.PublicUser, error) {
	return s.allUsersFn(ctx)
}

func (s *stubUserService) LoginHistory(ctx context.Context, skip, limit int64) ([]domain.LoginRecord, error) {
	return s.loginHistoryFn(ctx, skip, limit)
}

func TestUserHandler_Me(t *testing.T) {
	svc := &stubUserService{
		currentUserFn: func(_ context.Context, email string) (domain.PublicUser, error) {
			if email != "alice@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			return domain.PublicUser{Email: email, FullName: "Alice", Role: domain.RoleUser}, nil
		},
	}
	h := NewUserHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("email", "alice@example.com")
	c.Set("role", domain.RoleUser)

	if err := h.Me(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if got.Email != "alice@example.com" || got.FullName != "Alice" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestUserHandler_Me_WithoutIdentity(t *testing.T) {
	svc := &stubUserService{
		currentUserFn: func(context.Context, string) (domain.PublicUser, error) {
			t.Fatalf("service must not be reached without claims")
			return domain.PublicUser{}, nil
		},
	}
	h := NewUserHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAdminHandler_LoginHistory_PagingParams(t *testing.T) {
	svc := &stubUserService{
		loginHistoryFn: func(_ context.Context, skip, limit int64) ([]domain.LoginRecord, error) {
			if skip != 10 || limit != 5 {
				t.Fatalf("paging params not forwarded: skip=%d limit=%d", skip, limit)
			}
			return []domain.LoginRecord{{UserEmail: "alice@example.com", LoginType: domain.LoginTypePassword}}, nil
		},
	}
	h := NewAdminHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/login-history?skip=10&limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.LoginHistory(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []domain.LoginRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(got) != 1 || got[0].UserEmail != "alice@example.com" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestAdminHandler_Users(t *testing.T) {
	svc := &stubUserService{
		allUsersFn: func(context.Context) ([]domain.PublicUser, error) {
			return []domain.PublicUser{
				{Email: "alice@example.com", Role: domain.RoleAdmin},
				{Email: "bob@example.com", Role: domain.RoleUser},
			}, nil
		},
	}
	h := NewAdminHandler(svc)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Users(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var got []domain.PublicUser
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected two users, got %d", len(got))
	}
}
