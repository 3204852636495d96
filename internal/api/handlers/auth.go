package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mathapp/internal/api/response"
	"github.com/abhisek/mathapp/internal/auth"
	"github.com/abhisek/mathapp/internal/logger"
	"github.com/abhisek/mathapp/internal/store"
)

// Authenticator logs a learner in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*store.User, string, error)
}

type AuthHandler struct {
	log  *logger.Logger
	auth Authenticator
}

func NewAuthHandler(log *logger.Logger, a Authenticator) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "auth"), auth: a}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest accepts the credentials flat or nested under "credentials".
type loginRequest struct {
	credentials
	Credentials *credentials `json:"credentials"`
}

func (r loginRequest) resolve() credentials {
	if r.Credentials != nil && (r.Email == "" || r.Password == "") {
		return *r.Credentials
	}
	return r.credentials
}

type userDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Success bool    `json:"success"`
	User    userDTO `json:"user"`
	Token   string  `json:"token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Email and password are required")
		return
	}
	creds := input.resolve()

	user, token, err := h.auth.Login(c.Request.Context(), creds.Email, creds.Password)
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		response.RespondError(c, http.StatusBadRequest, "Email and password are required")
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		response.RespondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	case err != nil:
		h.log.Error("login failed", "email", creds.Email, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Login failed")
		return
	}

	h.log.Info("user logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, loginResponse{
		Success: true,
		User:    userDTO{ID: user.ID, Name: user.Name, Email: user.Email},
		Token:   token,
	})
}
