package api

import (
	"net/http"
	"time"

	"taskmanager/internal/api/handler"
	"taskmanager/internal/app/service"
	"taskmanager/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	userService *service.UserService,
	taskService *service.TaskService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// The UI is usually served from this binary, but a separately hosted
	// client must still be able to call the API.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Verifies the bearer token when present and puts claims in context.
	// Authenticator middleware enforces it per route group.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(apiRouter chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		apiRouter.Route("/auth", authHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(userService)
		apiRouter.Route("/admin/users", userHandler.RegisterRoutes)

		taskHandler := handler.NewTaskHandler(taskService)
		apiRouter.Route("/tasks", taskHandler.RegisterRoutes)
	})

	// Single-page UI
	r.Handle("/*", UIHandler())

	return r
}
