package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/openshelf/catalog-api/internal/api/middleware"
	"github.com/openshelf/catalog-api/internal/core/domain"
	"github.com/openshelf/catalog-api/internal/core/ports"
)

type stubSessions struct {
	issueFn    func(role domain.Role) (string, time.Time, error)
	validateFn func(token string) domain.SessionValidation
}

func (s *stubSessions) Issue(role domain.Role) (string, time.Time, error) { return s.issueFn(role) }

func (s *stubSessions) Validate(token string) domain.SessionValidation { return s.validateFn(token) }

func (s *stubSessions) Cookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{Name: domain.SessionCookieName, Value: token, Expires: expiresAt, HttpOnly: true}
}

func (s *stubSessions) ClearCookie() *http.Cookie {
	return &http.Cookie{Name: domain.SessionCookieName, Value: "", MaxAge: -1, HttpOnly: true}
}

type stubCreds struct {
	authFn func(password string) (domain.Role, error)
}

func (s *stubCreds) Authenticate(password string) (domain.Role, error) { return s.authFn(password) }

type stubCatalog struct {
	resolveFn func(ctx context.Context, lang string) (*ports.CatalogResult, error)
	findFn    func(ctx context.Context, lang, id string) (*domain.Record, error)
	refreshFn func(ctx context.Context, lang string) (*ports.CatalogResult, error)
}

func (s *stubCatalog) Languages() domain.LanguageSet { return domain.NewLanguageSet("en", "es") }

func (s *stubCatalog) Resolve(ctx context.Context, lang string) (*ports.CatalogResult, error) {
	return s.resolveFn(ctx, lang)
}

func (s *stubCatalog) Find(ctx context.Context, lang, id string) (*domain.Record, error) {
	return s.findFn(ctx, lang, id)
}

func (s *stubCatalog) Refresh(ctx context.Context, lang string) (*ports.CatalogResult, error) {
	return s.refreshFn(ctx, lang)
}

type stubGallery struct {
	addFn    func(ctx context.Context, item domain.GalleryItem, actor domain.Role) (string, error)
	removeFn func(ctx context.Context, id string, actor domain.Role) error
	getFn    func(ctx context.Context, id string) (*domain.GalleryItem, error)
	listFn   func(ctx context.Context, offset, limit int) ([]domain.GalleryItem, int, error)
}

func (s *stubGallery) Add(ctx context.Context, item domain.GalleryItem, actor domain.Role) (string, error) {
	return s.addFn(ctx, item, actor)
}

func (s *stubGallery) Remove(ctx context.Context, id string, actor domain.Role) error {
	return s.removeFn(ctx, id, actor)
}

func (s *stubGallery) Get(ctx context.Context, id string) (*domain.GalleryItem, error) {
	return s.getFn(ctx, id)
}

func (s *stubGallery) List(ctx context.Context, offset, limit int) ([]domain.GalleryItem, int, error) {
	return s.listFn(ctx, offset, limit)
}

func (s *stubGallery) Audit(context.Context, bool) (*ports.AuditReport, error) {
	return &ports.AuditReport{}, nil
}

type stubImages struct {
	deleteFn func(ctx context.Context, id string, actor domain.Role) error
}

func (s *stubImages) Delete(ctx context.Context, id string, actor domain.Role) error {
	return s.deleteFn(ctx, id, actor)
}

// newEcho returns an Echo instance with the validator and an error handler
// that renders domain errors the way the API does.
func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok {
			_ = c.JSON(he.Code, map[string]any{"error": he.Message})
			return
		}
		code, msg, _ := ErrorStatus(err)
		_ = c.JSON(code, map[string]string{"error": msg})
	}
	return e
}

// serve runs h for req, optionally as the given role, and passes any returned
// error through the Echo error handler.
func serve(e *echo.Echo, h echo.HandlerFunc, req *http.Request, role domain.Role, params ...string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}
	if role != "" {
		c.Set(middleware.ContextRole, role)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}
