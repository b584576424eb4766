package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/service"
)

func setupInviteRouter(svc *MockInviteService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewInviteHandler(svc)
	r.POST("/invite", h.Invite)
	r.POST("/invite/confirm-and-request-reset", h.ConfirmAndRequestReset)
	r.POST("/invite/resend-confirmation", h.ResendConfirmation)
	return r
}

func TestInviteHandler_Invite(t *testing.T) {
	companyID := uuid.New()
	out := &service.InviteOutput{User: &model.User{ID: uuid.New(), Email: "w@example.com"}, ExpiresAt: time.Now().Add(time.Hour)}

	tests := []struct {
		name   string
		body   string
		setup  func(svc *MockInviteService)
		status int
	}{
		{
			name: "created",
			body: fmt.Sprintf(`{"email":"w@example.com","company":{"id":%q},"role":"subcontractor"}`, companyID),
			setup: func(svc *MockInviteService) {
				svc.On("Invite", mock.Anything, mock.MatchedBy(func(in service.InviteInput) bool {
					id, _ := in.Company.ID()
					return in.Email == "w@example.com" && id == companyID.String() && in.Role == model.UserRoleSubcontractor
				})).Return(out, nil)
			},
			status: http.StatusCreated,
		},
		{name: "bad email", body: `{"email":"nope"}`, setup: func(*MockInviteService) {}, status: http.StatusBadRequest},
		{name: "bad role", body: `{"email":"w@example.com","role":"root"}`, setup: func(*MockInviteService) {}, status: http.StatusBadRequest},
		{name: "unrecognized company shape", body: `{"email":"w@example.com","company":{"x":1}}`, setup: func(*MockInviteService) {}, status: http.StatusBadRequest},
		{
			name: "already confirmed",
			body: `{"email":"w@example.com"}`,
			setup: func(svc *MockInviteService) {
				svc.On("Invite", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: already confirmed", service.ErrConflict))
			},
			status: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockInviteService{}
			tt.setup(svc)
			w := doJSON(setupInviteRouter(svc), http.MethodPost, "/invite", tt.body)
			assert.Equal(t, tt.status, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestInviteHandler_ConfirmAndResend(t *testing.T) {
	out := &service.InviteOutput{User: &model.User{ID: uuid.New(), Confirmed: true}}
	svc := &MockInviteService{}
	svc.On("ConfirmAndRequestReset", mock.Anything, "good").Return(out, nil)
	svc.On("ConfirmAndRequestReset", mock.Anything, "expired").Return(nil, fmt.Errorf("%w: invalid token", service.ErrInvalidInput))
	svc.On("ResendConfirmation", mock.Anything, "gone@example.com").Return(nil, service.ErrNotFound)
	svc.On("ResendConfirmation", mock.Anything, "done@example.com").Return(nil, fmt.Errorf("%w: confirmed", service.ErrConflict))
	r := setupInviteRouter(svc)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodPost, "/invite/confirm-and-request-reset", `{"token":"good"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/invite/confirm-and-request-reset", `{"token":"expired"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/invite/confirm-and-request-reset", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodPost, "/invite/resend-confirmation", `{"email":"gone@example.com"}`).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodPost, "/invite/resend-confirmation", `{"email":"done@example.com"}`).Code)
}
