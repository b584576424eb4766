package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/szigetelo/backoffice/internal/config"
	"github.com/szigetelo/backoffice/internal/modules/handler"
)

func testDeps() RouterDeps {
	return RouterDeps{
		Config:                  &config.Config{App: config.AppCfg{Name: "backoffice"}},
		Log:                     zap.NewNop(),
		PermissionMatrixHandler: handler.NewPermissionMatrixHandler(nil),
		CompanyHandler:          handler.NewCompanyHandler(nil),
		DocumentHandler:         handler.NewDocumentHandler(nil),
		InviteHandler:           handler.NewInviteHandler(nil),
		PhotoHandler:            handler.NewPhotoHandler(nil),
		PhotoCategoryHandler:    handler.NewPhotoCategoryHandler(nil),
		ProjectHandler:          handler.NewProjectHandler(nil, nil),
	}
}

func TestNewRouter_Health(t *testing.T) {
	r, err := NewRouter(testDeps())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":null,"msg":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger", nil))
	assert.Equal(t, http.StatusMovedPermanently, w.Code)
}

func TestNewRouter_Routes(t *testing.T) {
	r, err := NewRouter(testDeps())
	require.NoError(t, err)

	got := map[string]bool{}
	for _, rt := range r.Routes() {
		got[rt.Method+" "+rt.Path] = true
	}

	for _, want := range []string{
		"POST /api/companies",
		"GET /api/companies/:id",
		"GET /api/companies/:id/permission-matrix",
		"PUT /api/companies/:id/permission-matrix",
		"POST /api/companies/:id/permission-matrix",
		"POST /api/documents/generate",
		"POST /api/documents/regenerate-with-signature",
		"POST /api/invite",
		"POST /api/invite/confirm-and-request-reset",
		"POST /api/invite/resend-confirmation",
		"POST /api/photos/create-with-relations",
		"PUT /api/photos/:id/update-with-relations",
		"GET /api/photo-categories",
		"POST /api/photo-categories",
		"PUT /api/photo-categories/:id",
		"POST /api/projects",
		"GET /api/projects",
		"POST /api/projects/bulk-export",
		"GET /api/projects/started-for-billing",
		"GET /api/projects/:id",
		"PUT /api/projects/:id/status",
		"GET /api/projects/:id/contract-status",
		"GET /api/projects/:id/audit-log",
		"GET /api/projects/:id/documents",
		"GET /api/projects/:id/photos",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

func TestNewRouter_InvalidPathIDNeverReachesService(t *testing.T) {
	r, err := NewRouter(testDeps())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
