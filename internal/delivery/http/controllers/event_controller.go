package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	h "eventvite/internal/delivery/http/helpers"
	"eventvite/internal/delivery/http/middleware"
	"eventvite/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// GuestRef names a user invited to an event.
type GuestRef struct {
	User string `json:"user"`
}

// CreateEventRequest is the request body for POST /api/events
type CreateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        *time.Time `json:"datetime"`
	Guests      []GuestRef `json:"guests"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(c.Title) == "" {
		fields["title"] = "Title is required."
	}
	if strings.TrimSpace(c.Description) == "" {
		fields["description"] = "Description is required."
	}
	if c.Date == nil || c.Date.IsZero() {
		fields["datetime"] = "Date is required."
	}
	return fields
}

// CreateEventResponse is the response body for POST /api/events
type CreateEventResponse struct {
	Message string `json:"message"`
	EventID string `json:"event_id"`
}

// UpdateEventRequest is the request body for PUT /api/events/{eventID}.
// All fields optional; omitted fields are unchanged. A datetime value is
// rejected because the event date cannot change after creation. A guests
// value replaces the guest list (an empty array uninvites everyone).
type UpdateEventRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Date        *time.Time  `json:"datetime"`
	Guests      *[]GuestRef `json:"guests"`
}

// EventResponse is the response body for GET /api/events/{eventID}
type EventResponse struct {
	Event *domain.Event `json:"event"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// guestIDs flattens a guest reference list into user IDs.
func guestIDs(refs []GuestRef) []string {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, strings.TrimSpace(ref.User))
	}
	return ids
}

// Create godoc
// @Summary Create a new event
// @Description Create an event with the authenticated user as admin. Guests are invited immediately: each listed user gets a pending invitation and an email.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains message and event_id"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.Create(r.Context(), req.Title, req.Description, *req.Date, guestIDs(req.Guests), userID)
	if err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			h.WriteJSONValidationError(w, ve.Fields)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{Message: "Event created!", EventID: event.ID})
}

// GetByID godoc
// @Summary Get an event by ID
// @Description Returns the event with its guest list and each guest's response status. Requires authentication but not ownership.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{eventID} [get]
func (c *EventController) GetByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "Event not found.")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, EventResponse{Event: event})
}

// Update godoc
// @Summary Update an event
// @Description Update title, description, or guest list of an event administered by the authenticated user. The date cannot change. A guests value replaces the list: dropped guests are uninvited, new guests invited, and guests kept in both keep their answer.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Event changes"
// @Success 200 {object} helpers.APIResponse "data contains message and event"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	upd := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
	}
	if req.Guests != nil {
		upd.GuestIDs = guestIDs(*req.Guests)
		if upd.GuestIDs == nil {
			upd.GuestIDs = []string{}
		}
	}
	event, err := c.Service.Update(r.Context(), eventID, userID, upd)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, struct {
		Message string        `json:"message"`
		Event   *domain.Event `json:"event"`
	}{Message: "Event updated!", Event: event})
}

// Delete godoc
// @Summary Delete an event
// @Description Delete an event administered by the authenticated user. Every guest's invitation is withdrawn and a cancellation email sent.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains message"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := c.eventIDFromPath(w, r)
	if !ok {
		return
	}
	if err := c.Service.Delete(r.Context(), eventID, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, MessageResponse{Message: "Event deleted!"})
}

// eventIDFromPath extracts and checks the eventID path parameter. A value
// that is not a UUID cannot name any event, so it is a 400, not a 404.
func (c *EventController) eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Invalid event ID.")
		return "", false
	}
	return eventID, true
}

// writeEventError maps update/delete service errors to responses.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "Event not found.")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "You are not the admin of this event.")
	default:
		if ve, ok := domain.AsValidation(err); ok {
			h.WriteJSONValidationError(w, ve.Fields)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
	}
}
