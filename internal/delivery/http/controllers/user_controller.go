package controllers

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	h "eventvite/internal/delivery/http/helpers"
	"eventvite/internal/delivery/http/middleware"
	"eventvite/internal/domain"
)

// maxUploadBytes caps the multipart form size for profile updates.
const maxUploadBytes = 5 << 20

// RegisterRequest is the request body for POST /api/users
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// Validate implements Validator.
func (r RegisterRequest) Validate() map[string]string {
	fields := make(map[string]string)
	email := strings.TrimSpace(strings.ToLower(r.Email))
	if email == "" {
		fields["email"] = "Email is required."
	} else if !domain.ValidEmail(email) {
		fields["email"] = "Email is invalid."
	}
	if r.Password == "" {
		fields["password"] = "Password is required."
	} else if len(r.Password) < 8 {
		fields["password"] = "Password must be at least 8 characters."
	}
	if strings.TrimSpace(r.FirstName) == "" {
		fields["firstname"] = "First name is required."
	}
	if strings.TrimSpace(r.LastName) == "" {
		fields["lastname"] = "Last name is required."
	}
	return fields
}

// RegisterResponse is the response body for POST /api/users
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// ActivateRequest is the request body for POST /api/users/activate
type ActivateRequest struct {
	ActivationToken string `json:"activation_token"`
}

// RespondRequest is the request body for POST /api/user/respond
type RespondRequest struct {
	Event  string `json:"event"`
	Action string `json:"action"`
}

// Validate implements Validator.
func (r RespondRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(r.Event) == "" {
		fields["event"] = "Event is required."
	}
	if _, ok := domain.ParseResponseAction(r.Action); !ok {
		fields["action"] = "Action must be \"attend\" or \"decline\"."
	}
	return fields
}

// UpdateProfileRequest is the JSON request body for PUT /api/user. All fields
// optional; omitted fields are unchanged. Picture uploads use multipart
// form-data instead.
type UpdateProfileRequest struct {
	FirstName   *string `json:"firstname"`
	LastName    *string `json:"lastname"`
	Password    *string `json:"password"`
	NewPassword *string `json:"new_password"`
}

// MessageResponse is a response body carrying only a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserEventsResponse is the response body for GET /api/user/events
type UserEventsResponse struct {
	Events []*domain.Event `json:"events"`
}

// GuestsResponse is the response body for GET /api/guests
type GuestsResponse struct {
	Guests []*domain.UserSummary `json:"guests"`
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Create a new account with email, password, and name. The account starts inactive; an activation email is sent with a single-use token.
// @Tags users
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains message and user_id"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users [post]
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "A user with that email already exists.")
			return
		}
		if ve, ok := domain.AsValidation(err); ok {
			h.WriteJSONValidationError(w, ve.Fields)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, RegisterResponse{Message: "User created!", UserID: user.ID})
}

// Activate godoc
// @Summary Activate an account
// @Description Redeem the activation token from the registration email. A token works once; the account can then authenticate.
// @Tags users
// @Accept json
// @Produce json
// @Param body body ActivateRequest true "Activation token"
// @Success 200 {object} helpers.APIResponse "data contains message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/users/activate [post]
func (c *UserController) Activate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.Activate(r.Context(), req.ActivationToken); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Invalid token.")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "Account activated."})
}

// UpdateProfile godoc
// @Summary Update the current user
// @Description Update name, password, or profile picture of the authenticated user. Accepts JSON, or multipart/form-data when uploading a picture (form fields: firstname, lastname, password, new_password, picture). Password changes require the current password.
// @Tags users
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest false "Profile changes"
// @Success 200 {object} helpers.APIResponse "data contains message and user"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/user [put]
func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var upd domain.ProfileUpdate
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "multipart/form-data" {
		parsed, ok := c.parseMultipartUpdate(w, r)
		if !ok {
			return
		}
		upd = parsed
	} else {
		var req UpdateProfileRequest
		if !h.DecodeAndValidate(w, r, &req) {
			return
		}
		upd = domain.ProfileUpdate{
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			CurrentPassword: req.Password,
			NewPassword:     req.NewPassword,
		}
	}

	user, err := c.Service.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			h.WriteJSONValidationError(w, ve.Fields)
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "User not found.")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, struct {
		Message string             `json:"message"`
		User    *domain.PublicUser `json:"user"`
	}{Message: "User updated!", User: user.Public()})
}

// parseMultipartUpdate reads the multipart form of PUT /api/user into a
// ProfileUpdate. Absent form keys stay nil so the service leaves them
// unchanged. On failure it writes the error response and returns false.
func (c *UserController) parseMultipartUpdate(w http.ResponseWriter, r *http.Request) (domain.ProfileUpdate, bool) {
	var upd domain.ProfileUpdate
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid multipart form: "+err.Error())
		return upd, false
	}

	formValue := func(key string) *string {
		values, ok := r.MultipartForm.Value[key]
		if !ok || len(values) == 0 {
			return nil
		}
		v := values[0]
		return &v
	}
	upd.FirstName = formValue("firstname")
	upd.LastName = formValue("lastname")
	upd.CurrentPassword = formValue("password")
	upd.NewPassword = formValue("new_password")

	file, header, err := r.FormFile("picture")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "could not read picture: "+readErr.Error())
			return upd, false
		}
		upd.Picture = &domain.PictureUpload{
			Name:     header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid picture upload: "+err.Error())
		return upd, false
	}
	return upd, true
}

// Respond godoc
// @Summary Respond to an invitation
// @Description Record the authenticated user's attend or decline answer for an invitation. An invitation can be answered once; further attempts are rejected.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RespondRequest true "Event ID and action (attend or decline)"
// @Success 200 {object} helpers.APIResponse "data contains message"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_answered"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/user/respond [post]
func (c *UserController) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req RespondRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	action, _ := domain.ParseResponseAction(req.Action)
	if err := c.Service.Respond(r.Context(), userID, req.Event, action); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "Invitation not found.")
		case errors.Is(err, domain.ErrAlreadyAnswered):
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeAlreadyAnswered, "This invitation has already been answered.")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		}
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "New status saved!"})
}

// ListAdminEvents godoc
// @Summary List the current user's upcoming events
// @Description Returns upcoming events administered by the authenticated user, sorted by date ascending.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/user/events [get]
func (c *UserController) ListAdminEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Service.ListAdminEvents(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, UserEventsResponse{Events: events})
}

// ListGuests godoc
// @Summary List the guest directory
// @Description Returns all registered users as id and name summaries, for picking guests when creating or updating an event.
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains guests"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/guests [get]
func (c *UserController) ListGuests(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	guests, err := c.Service.ListDirectory(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	if guests == nil {
		guests = []*domain.UserSummary{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, GuestsResponse{Guests: guests})
}
