package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventvite/internal/delivery/http/controllers"
	"eventvite/internal/delivery/http/middleware"
	"eventvite/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Routes under /api/user, /api/guests, and /api/events require a bearer token.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Users
	mux.HandleFunc("POST /api/users", userController.Register)
	mux.HandleFunc("POST /api/users/activate", userController.Activate)
	mux.HandleFunc("POST /api/users/authenticate", authController.Authenticate)
	mux.HandleFunc("PUT /api/user", auth(userController.UpdateProfile))
	mux.HandleFunc("POST /api/user/respond", auth(userController.Respond))
	mux.HandleFunc("GET /api/user/events", auth(userController.ListAdminEvents))

	// Guests
	mux.HandleFunc("GET /api/guests", auth(userController.ListGuests))

	// Events
	mux.HandleFunc("POST /api/events", auth(eventController.Create))
	mux.HandleFunc("GET /api/events/{eventID}", auth(eventController.GetByID))
	mux.HandleFunc("PUT /api/events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /api/events/{eventID}", auth(eventController.Delete))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
