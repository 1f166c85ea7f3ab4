package handlers

import (
	"errors"
	"net/http"
	"strings"

	"feedback-go/internal/identity"
	"feedback-go/internal/repository"
	"feedback-go/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionUserKey is the session key holding the signed-in user's id.
const SessionUserKey = "userID"

type AuthHandler struct {
	log      *zap.Logger
	accounts AccountStore
}

func NewAuthHandler(log *zap.Logger, accounts AccountStore) *AuthHandler {
	return &AuthHandler{log: log, accounts: accounts}
}

type credentials struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var creds credentials
	if err := c.ShouldBind(&creds); err != nil {
		abortJSON(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.accounts.GetUserByEmail(c.Request.Context(), strings.TrimSpace(creds.Email))
	if err != nil || !user.CheckPassword(creds.Password) {
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			h.log.Error("Failed to look up user", zap.Error(err))
		}
		abortJSON(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := sessions.Default(c)
	session.Set(SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		h.log.Error("Failed to save session", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to login")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": identity.FromModel(user)})
}

type registration struct {
	Email        string `form:"email" json:"email" binding:"required"`
	Password     string `form:"password" json:"password" binding:"required"`
	FirstName    string `form:"first_name" json:"firstName"`
	LastName     string `form:"last_name" json:"lastName"`
	Organization string `form:"organization" json:"organization"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registration
	if err := c.ShouldBind(&req); err != nil {
		abortJSON(c, http.StatusBadRequest, "email and password are required")
		return
	}
	email := strings.TrimSpace(req.Email)
	if !utils.IsValidEmail(email) {
		abortJSON(c, http.StatusBadRequest, "invalid email address")
		return
	}
	if !utils.IsComplexPassword(req.Password) {
		abortJSON(c, http.StatusBadRequest, utils.PasswordRequirements)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.accounts.GetUserByEmail(ctx, email); err == nil {
		abortJSON(c, http.StatusConflict, "an account with this email already exists")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		h.log.Error("Failed to look up user", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to register")
		return
	}

	orgName := strings.TrimSpace(req.Organization)
	if orgName == "" {
		orgName = email
	}
	user, err := h.accounts.CreateUser(ctx, email, req.Password, req.FirstName, req.LastName, orgName)
	if errors.Is(err, repository.ErrEmailTaken) {
		abortJSON(c, http.StatusConflict, "an account with this email already exists")
		return
	}
	if err != nil {
		h.log.Error("Error creating user", zap.Error(err))
		abortJSON(c, http.StatusInternalServerError, "failed to register")
		return
	}
	h.log.Info("Registered user", zap.Uint("userID", user.ID), zap.String("organizationID", user.OrganizationID))
	c.JSON(http.StatusCreated, gin.H{"user": identity.FromModel(user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		abortJSON(c, http.StatusInternalServerError, "failed to logout")
		return
	}
	c.Status(http.StatusNoContent)
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}
