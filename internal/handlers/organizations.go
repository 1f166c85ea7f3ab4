package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"feedback-go/internal/config"
	"feedback-go/internal/identity"
	"feedback-go/internal/models"
	"feedback-go/internal/repository"
	"feedback-go/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invitationTTL = 7 * 24 * time.Hour

// InvitationSender delivers an invitation link to the invitee.
type InvitationSender interface {
	SendInvitation(inv models.Invitation, acceptURL string)
}

type OrganizationHandler struct {
	log      *zap.Logger
	accounts AccountStore
	sender   InvitationSender
	conf     *config.Store
}

func NewOrganizationHandler(log *zap.Logger, accounts AccountStore, sender InvitationSender, conf *config.Store) *OrganizationHandler {
	return &OrganizationHandler{log: log, accounts: accounts, sender: sender, conf: conf}
}

func (h *OrganizationHandler) Members(c *gin.Context) {
	users, err := h.accounts.ListMembers(c.Request.Context(), currentUser(c).OrganizationID)
	if err != nil {
		h.log.Error("Failed to list members", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to list members")
		return
	}
	members := make([]identity.User, len(users))
	for i := range users {
		members[i] = identity.FromModel(&users[i])
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (h *OrganizationHandler) Invite(c *gin.Context) {
	var body struct {
		Email string `form:"email" json:"email" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil || !utils.IsValidEmail(strings.TrimSpace(body.Email)) {
		abortJSON(c, http.StatusBadRequest, "a valid email is required")
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		h.log.Error("Failed to generate invitation token", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to create invitation")
		return
	}
	inv := models.Invitation{
		OrganizationID: currentUser(c).OrganizationID,
		Email:          strings.TrimSpace(body.Email),
		Token:          token,
		Status:         models.InvitationPending,
		ExpiresAt:      time.Now().Add(invitationTTL),
	}
	if err := h.accounts.CreateInvitation(c.Request.Context(), &inv); err != nil {
		h.log.Error("Failed to create invitation", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to create invitation")
		return
	}

	acceptURL := fmt.Sprintf("%s/invitations/%s/accept", h.conf.Get().Server.BaseURL, token)
	h.sender.SendInvitation(inv, acceptURL)
	c.JSON(http.StatusCreated, gin.H{"email": inv.Email, "expiresAt": inv.ExpiresAt})
}

type acceptance struct {
	Password  string `form:"password" json:"password" binding:"required"`
	FirstName string `form:"first_name" json:"firstName"`
	LastName  string `form:"last_name" json:"lastName"`
}

func (h *OrganizationHandler) Accept(c *gin.Context) {
	var req acceptance
	if err := c.ShouldBind(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "password is required")
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		abortJSON(c, http.StatusBadRequest, utils.PasswordRequirements)
		return
	}

	user, err := h.accounts.AcceptInvitation(c.Request.Context(), c.Param("token"), req.Password, req.FirstName, req.LastName, time.Now())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		abortJSON(c, http.StatusNotFound, "invitation not found")
	case errors.Is(err, repository.ErrInvitationClosed):
		abortJSON(c, http.StatusGone, err.Error())
	case errors.Is(err, repository.ErrEmailTaken):
		abortJSON(c, http.StatusConflict, "an account with this email already exists")
	case err != nil:
		h.log.Error("Failed to accept invitation", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to accept invitation")
	default:
		c.JSON(http.StatusCreated, gin.H{"user": identity.FromModel(user)})
	}
}
