package mq

import (
	"time"

	"github.com/szigetelo/backoffice/internal/config"
)

const (
	MailTemplateInvite        = "invite"
	MailTemplatePasswordReset = "password_reset"
)

// MailMessage is consumed by the mailer. Link carries the signed token.
type MailMessage struct {
	Template  string    `json:"template"`
	To        string    `json:"to"`
	Username  string    `json:"username,omitempty"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ProjectStartedEvent struct {
	ProjectID string    `json:"project_id"`
	StartedAt time.Time `json:"started_at"`
	Trigger   string    `json:"trigger"`
	RecordID  string    `json:"record_id"`
}

func MailRoutingKey(cfg *config.Config, template string) string {
	switch template {
	case MailTemplatePasswordReset:
		return cfg.RabbitMQ.RoutingKey.PasswordReset
	default:
		return cfg.RabbitMQ.RoutingKey.Invite
	}
}
