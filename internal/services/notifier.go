package services

import (
	"feedback-go/internal/models"

	"go.uber.org/zap"
)

// InvitationNotifier stands in for a mail sender and logs the invitation link.
type InvitationNotifier struct {
	log *zap.Logger
}

func NewInvitationNotifier(log *zap.Logger) *InvitationNotifier {
	return &InvitationNotifier{log: log}
}

func (n *InvitationNotifier) SendInvitation(inv models.Invitation, acceptURL string) {
	n.log.Info("Sending invitation",
		zap.String("to", inv.Email),
		zap.String("organizationID", inv.OrganizationID),
		zap.Time("expires_at", inv.ExpiresAt),
		zap.String("accept_url", acceptURL),
	)
}
