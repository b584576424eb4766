package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/szigetelo/backoffice/internal/modules/serializer"
	"github.com/szigetelo/backoffice/internal/modules/service"
	"gorm.io/datatypes"
)

// MockPermissionMatrixService is a mock implementation of PermissionMatrixService
type MockPermissionMatrixService struct {
	mock.Mock
}

func (m *MockPermissionMatrixService) Get(ctx context.Context) (datatypes.JSON, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(datatypes.JSON), args.Error(1)
}

func (m *MockPermissionMatrixService) Update(ctx context.Context, matrix datatypes.JSON) (datatypes.JSON, error) {
	args := m.Called(ctx, matrix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(datatypes.JSON), args.Error(1)
}

// memoryMatrix is an in-memory PermissionMatrixService backed by the real validation.
type memoryMatrix struct {
	mu  sync.Mutex
	val datatypes.JSON
}

func (m *memoryMatrix) Get(context.Context) (datatypes.JSON, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.val, nil
}

func (m *memoryMatrix) Update(_ context.Context, matrix datatypes.JSON) (datatypes.JSON, error) {
	if !service.IsJSONObject(matrix) {
		return nil, service.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.val = matrix
	return matrix, nil
}

func setupMatrixRouter(svc service.PermissionMatrixService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPermissionMatrixHandler(svc)
	r.GET("/companies/:id/permission-matrix", h.GetPermissionMatrix)
	r.PUT("/companies/:id/permission-matrix", h.UpdatePermissionMatrix)
	r.POST("/companies/:id/permission-matrix", h.UpdatePermissionMatrix)
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestPermissionMatrixBody_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    PermissionMatrixBodyKind
		matrix  string
		wantErr bool
	}{
		{name: "wrapped", body: `{"data":{"a":1}}`, kind: PermissionMatrixWrapped, matrix: `{"a":1}`},
		{name: "bare", body: `{"a":1}`, kind: PermissionMatrixBare, matrix: `{"a":1}`},
		{name: "null data falls back to body", body: `{"data":null,"b":2}`, kind: PermissionMatrixBare, matrix: `{"data":null,"b":2}`},
		{name: "wrapped non-object", body: `{"data":"not an object"}`, wantErr: true},
		{name: "wrapped array", body: `{"data":[1]}`, wantErr: true},
		{name: "string", body: `"not an object"`, wantErr: true},
		{name: "array", body: `[{"a":1}]`, wantErr: true},
		{name: "number", body: `7`, wantErr: true},
		{name: "null", body: `null`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b PermissionMatrixBody
			err := b.UnmarshalJSON([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, b.Kind)
			assert.JSONEq(t, tt.matrix, string(b.Matrix))
		})
	}
}

func TestPermissionMatrixHandler_UpdateThenGet(t *testing.T) {
	r := setupMatrixRouter(&memoryMatrix{})

	w := doJSON(r, http.MethodGet, "/companies/1/permission-matrix", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":null,"msg":""}`, w.Body.String())

	w = doJSON(r, http.MethodPut, "/companies/1/permission-matrix", `{"data":{"a":1}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"code":0,"data":{"a":1},"msg":""}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/companies/1/permission-matrix", "")
	assert.JSONEq(t, `{"code":0,"data":{"a":1},"msg":""}`, w.Body.String())

	// bare object over POST, and the company id does not scope the matrix
	w = doJSON(r, http.MethodPost, "/companies/2/permission-matrix", `{"b":2}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodGet, "/companies/1/permission-matrix", "")
	assert.JSONEq(t, `{"code":0,"data":{"b":2},"msg":""}`, w.Body.String())
}

func TestPermissionMatrixHandler_RejectsNonObjectWithoutWriting(t *testing.T) {
	svc := &MockPermissionMatrixService{}
	r := setupMatrixRouter(svc)

	for _, body := range []string{`"not an object"`, `[1,2]`, `{"data":"x"}`, `{broken`, ``} {
		w := doJSON(r, http.MethodPut, "/companies/1/permission-matrix", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.NotEmpty(t, decodeResponse(t, w)["msg"])
	}
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	mem := &memoryMatrix{val: datatypes.JSON(`{"a":1}`)}
	r = setupMatrixRouter(mem)
	w := doJSON(r, http.MethodPut, "/companies/1/permission-matrix", `"not an object"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(r, http.MethodGet, "/companies/1/permission-matrix", "")
	assert.JSONEq(t, `{"code":0,"data":{"a":1},"msg":""}`, w.Body.String())
}

func TestPermissionMatrixHandler_StoreFailureIsOpaque(t *testing.T) {
	secret := errors.New("pq: password authentication failed for user backoffice")
	svc := &MockPermissionMatrixService{}
	svc.On("Get", mock.Anything).Return(nil, secret)
	svc.On("Update", mock.Anything, mock.Anything).Return(nil, secret)
	r := setupMatrixRouter(svc)

	w := doJSON(r, http.MethodGet, "/companies/1/permission-matrix", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	var res serializer.Response
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "failed to load permission matrix", res.Msg)
	assert.Empty(t, res.Error)

	w = doJSON(r, http.MethodPut, "/companies/1/permission-matrix", `{"a":1}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
}
