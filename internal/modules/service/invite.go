package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	mq "github.com/szigetelo/backoffice/internal/infra/queue"
	"github.com/szigetelo/backoffice/internal/modules/model"
	"github.com/szigetelo/backoffice/internal/modules/repo"
	"github.com/szigetelo/backoffice/internal/pkg/relation"
	"github.com/szigetelo/backoffice/internal/pkg/utils/tokens"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MailPublisher interface {
	PublishMail(ctx context.Context, msg mq.MailMessage) error
}

type InviteService interface {
	Invite(ctx context.Context, in InviteInput) (*InviteOutput, error)
	ConfirmAndRequestReset(ctx context.Context, token string) (*InviteOutput, error)
	ResendConfirmation(ctx context.Context, email string) (*InviteOutput, error)
}

type InviteConfig struct {
	PublicURL string
	InviteTTL time.Duration
	ResetTTL  time.Duration
}

type inviteService struct {
	users     repo.UserRepo
	companies repo.CompanyRepo
	signer    *tokens.Signer
	mail      MailPublisher
	cfg       InviteConfig
	log       *zap.Logger
	now       func() time.Time
}

// NewInviteService builds the service. mail may be nil, in which case tokens
// are issued but no mail is queued.
func NewInviteService(users repo.UserRepo, companies repo.CompanyRepo, signer *tokens.Signer, mail MailPublisher, cfg InviteConfig, log *zap.Logger) InviteService {
	return &inviteService{
		users:     users,
		companies: companies,
		signer:    signer,
		mail:      mail,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

type InviteInput struct {
	Email    string
	Username string
	Company  relation.Ref
	Role     model.UserRole
}

type InviteOutput struct {
	User      *model.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s *inviteService) link(path, token string) string {
	return strings.TrimRight(s.cfg.PublicURL, "/") + path + "?token=" + url.QueryEscape(token)
}

func (s *inviteService) send(ctx context.Context, msg mq.MailMessage) {
	if s.mail == nil {
		s.log.Warn("mail publisher disabled, message dropped", zap.String("template", msg.Template), zap.String("to", msg.To))
		return
	}
	if err := s.mail.PublishMail(ctx, msg); err != nil {
		// the token is valid either way; the user can ask for a resend
		s.log.Error("publish mail failed", zap.String("template", msg.Template), zap.String("to", msg.To), zap.Error(err))
	}
}

func (s *inviteService) issueInvite(ctx context.Context, u *model.User) (*InviteOutput, error) {
	token, exp, err := s.signer.Issue(tokens.PurposeInvite, u.ID.String(), u.Email, s.cfg.InviteTTL)
	if err != nil {
		return nil, fmt.Errorf("issue invite token: %w", err)
	}
	now := s.now().UTC()
	u.InvitedAt = &now
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.send(ctx, mq.MailMessage{
		Template:  mq.MailTemplateInvite,
		To:        u.Email,
		Username:  u.Username,
		Link:      s.link("/invite/accept", token),
		ExpiresAt: exp,
	})
	return &InviteOutput{User: u, ExpiresAt: exp}, nil
}

func (s *inviteService) Invite(ctx context.Context, in InviteInput) (*InviteOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if in.Role == "" {
		in.Role = model.UserRoleWorker
	}

	var companyID *uuid.UUID
	if !in.Company.IsZero() {
		id, err := resolveUUID(in.Company, "company")
		if err != nil {
			return nil, err
		}
		if _, err := s.companies.Get(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: company %s not found", ErrInvalidInput, id)
			}
			return nil, err
		}
		companyID = &id
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if u.Confirmed {
			return nil, fmt.Errorf("%w: user %s already confirmed", ErrConflict, email)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = &model.User{Email: email}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if in.Username != "" {
		u.Username = in.Username
	}
	u.Role = in.Role
	if companyID != nil {
		u.CompanyID = companyID
	}
	return s.issueInvite(ctx, u)
}

func (s *inviteService) ConfirmAndRequestReset(ctx context.Context, token string) (*InviteOutput, error) {
	claims, err := s.signer.Verify(token, tokens.PurposeInvite)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, tokens.ErrInvalidToken)
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.Blocked {
		return nil, fmt.Errorf("%w: user is blocked", ErrConflict)
	}
	if u.Confirmed {
		return nil, fmt.Errorf("%w: invitation already accepted", ErrConflict)
	}

	u.Confirmed = true
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	reset, exp, err := s.signer.Issue(tokens.PurposePasswordReset, u.ID.String(), u.Email, s.cfg.ResetTTL)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}
	s.send(ctx, mq.MailMessage{
		Template:  mq.MailTemplatePasswordReset,
		To:        u.Email,
		Username:  u.Username,
		Link:      s.link("/reset-password", reset),
		ExpiresAt: exp,
	})
	return &InviteOutput{User: u, ExpiresAt: exp}, nil
}

func (s *inviteService) ResendConfirmation(ctx context.Context, email string) (*InviteOutput, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.Confirmed {
		return nil, fmt.Errorf("%w: user %s already confirmed", ErrConflict, u.Email)
	}
	return s.issueInvite(ctx, u)
}
