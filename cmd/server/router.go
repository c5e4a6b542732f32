package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/places-api/internal/api"
	apiMiddleware "github.com/phrazzld/places-api/internal/api/middleware"
)

// imagesRoute is where uploaded images are served from.
const imagesRoute = "/uploads/images"

// corsOptions lets any browser origin call the API with a bearer token.
var corsOptions = cors.Options{
	AllowedOrigins:       []string{"*"},
	AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
	AllowedHeaders:       []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	ExposedHeaders:       []string{"X-Trace-Id"},
	OptionsSuccessStatus: http.StatusNoContent,
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(cors.Handler(corsOptions))

	placeHandler := api.NewPlaceHandler(app.placeService, app.images, app.maxUploadBytes(), app.logger)
	userHandler := api.NewUserHandler(app.userService, app.images, app.maxUploadBytes(), app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/signup", userHandler.Signup)
			r.Post("/login", userHandler.Login)
		})

		r.Route("/places", func(r chi.Router) {
			r.Get("/user/{uid}", placeHandler.ListPlacesByUser)
			r.Get("/{pid}", placeHandler.GetPlace)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/", placeHandler.CreatePlace)
				r.Patch("/{pid}", placeHandler.UpdatePlace)
				r.Delete("/{pid}", placeHandler.DeletePlace)
			})
		})
	})

	r.Handle(imagesRoute+"/*", http.StripPrefix(imagesRoute+"/", app.images.Handler()))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.NotFound(api.NotFoundHandler)

	return r
}
