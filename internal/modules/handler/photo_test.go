package handler

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

func setupPhotoRouter(svc *MockPhotoService, user *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(ContextUserKey, user)
		}
	})
	h := NewPhotoHandler(svc)
	r.POST("/photos/create-with-relations", h.CreateWithRelations)
	r.PUT("/photos/:id/update-with-relations", h.UpdateWithRelations)
	r.GET("/projects/:id/photos", h.ListProjectPhotos)
	return r
}

func multipartPhoto(t *testing.T, fields map[string]string, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withFile {
		fw, err := mw.CreateFormFile("file", "padlas.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestPhotoHandler_CreateWithRelations(t *testing.T) {
	projectID := uuid.New()
	categoryID := uuid.New()
	uploader := &model.User{ID: uuid.New(), Email: "worker@example.com"}

	svc := &MockPhotoService{}
	svc.On("CreateWithRelations", mock.Anything, mock.MatchedBy(func(in service.CreatePhotoInput) bool {
		pid, _ := in.Project.ID()
		cid, _ := in.Category.ID()
		return pid == projectID.String() && cid == categoryID.String() &&
			in.Filename == "padlas.png" && len(in.Body) > 0 && in.Uploader == uploader && in.Caption == "előtte"
	})).Return(&model.Photo{ID: uuid.New(), ProjectID: &projectID}, nil)
	r := setupPhotoRouter(svc, uploader)

	// relation fields arrive as a raw id and as JSON text
	body, ct := multipartPhoto(t, map[string]string{
		"project":  projectID.String(),
		"category": fmt.Sprintf(`{"data":{"id":%q}}`, categoryID),
		"caption":  "előtte",
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/photos/create-with-relations", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)

	body, ct = multipartPhoto(t, map[string]string{"project": projectID.String()}, false)
	req = httptest.NewRequest(http.MethodPost, "/photos/create-with-relations", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotoHandler_CreateWithRelations_NotAnImage(t *testing.T) {
	svc := &MockPhotoService{}
	svc.On("CreateWithRelations", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: text/plain is not an image", service.ErrInvalidInput))
	r := setupPhotoRouter(svc, nil)

	body, ct := multipartPhoto(t, map[string]string{"project": uuid.NewString()}, true)
	req := httptest.NewRequest(http.MethodPost, "/photos/create-with-relations", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not an image")
}

func TestPhotoHandler_UpdateWithRelations(t *testing.T) {
	photoID := uuid.New()
	projectID := uuid.New()

	svc := &MockPhotoService{}
	svc.On("UpdateWithRelations", mock.Anything, photoID, mock.MatchedBy(func(in service.UpdatePhotoInput) bool {
		pid, _ := in.Project.Value.ID()
		return in.Project.Set && pid == projectID.String() &&
			in.Category.Set && in.Category.Null &&
			!in.Caption.Set
	})).Return(&model.Photo{ID: photoID, ProjectID: &projectID}, nil)
	r := setupPhotoRouter(svc, nil)

	w := doJSON(r, http.MethodPut, "/photos/"+photoID.String()+"/update-with-relations",
		fmt.Sprintf(`{"project":{"attributes":{"id":%q}},"category":null}`, projectID))
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)

	w = doJSON(r, http.MethodPut, "/photos/bad/update-with-relations", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotoHandler_UnrecognizedRelationShape(t *testing.T) {
	svc := &MockPhotoService{}
	r := setupPhotoRouter(svc, nil)

	w := doJSON(r, http.MethodPut, "/photos/"+uuid.NewString()+"/update-with-relations", `{"project":{"foo":"bar"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct := multipartPhoto(t, map[string]string{
		"project":  uuid.NewString(),
		"category": `{"foo":"bar"}`,
	}, true)
	req := httptest.NewRequest(http.MethodPost, "/photos/create-with-relations", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertNotCalled(t, "UpdateWithRelations", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "CreateWithRelations", mock.Anything, mock.Anything)
}
