package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventvite/internal/delivery/http/helpers"
	"eventvite/internal/domain"
)

// AuthenticateRequest is the request body for POST /api/users/authenticate
type AuthenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (a AuthenticateRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(a.Email) == "" {
		fields["email"] = "Email is required."
	}
	if a.Password == "" {
		fields["password"] = "Password is required."
	}
	return fields
}

// AuthenticateResponse is the response body for POST /api/users/authenticate
type AuthenticateResponse struct {
	Token     string             `json:"token"`
	TokenType string             `json:"token_type"`
	User      *domain.PublicUser `json:"user"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Authenticate godoc
// @Summary Authenticate a user
// @Description Verify email and password and return a signed bearer token with the user's public profile. The account must be activated first.
// @Tags users
// @Accept json
// @Produce json
// @Param body body AuthenticateRequest true "Credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/authenticate [post]
func (c *AuthController) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthenticateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Invalid credentials.")
		case errors.Is(err, domain.ErrAccountNotActive):
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "Please activate your account first.")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, AuthenticateResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      user.Public(),
	})
}
