// EduFlow is a CRUD backend for an e-learning platform. It wires the
// configuration, database pool, feature services and HTTP router together
// and runs the server until a shutdown signal arrives.
//
// @title EduFlow API
// @version 1.0
// @description CRUD backend for an e-learning platform: auth, courses, profiles and reviews.
// @contact.name API Support
// @contact.email support@eduflow.dev
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/eduflow-go/auth"
	"github.com/user/eduflow-go/background"
	"github.com/user/eduflow-go/config"
	"github.com/user/eduflow-go/courses"
	"github.com/user/eduflow-go/db"
	_ "github.com/user/eduflow-go/docs" // Generated Swagger docs
	"github.com/user/eduflow-go/notifications"
	"github.com/user/eduflow-go/profiles"
	"github.com/user/eduflow-go/reviews"
	"github.com/user/eduflow-go/users"
	"github.com/user/eduflow-go/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Background course stats aggregator. Closed stopChan drains it on
	// shutdown.
	statsStopChan := make(chan struct{})
	statsWg := background.StartCourseStatsService(pool, statsStopChan)

	respond := web.NewResponder(!cfg.IsProduction())

	// Feature wiring: store, service, handlers per package.
	userStore := auth.NewPostgresUserStore(pool)
	tokenService := auth.NewTokenService(*cfg.Auth)
	authService := auth.NewService(userStore, tokenService, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService, respond, cfg.IsProduction())

	userService := users.NewUserService(pool)
	userHandlers := users.NewHandlers(userService, respond)

	broadcaster := notifications.NewBroadcaster()
	notificationHandlers := notifications.NewHandlers(broadcaster, respond)

	courseStore := courses.NewPostgresCourseStore(pool)
	courseService := courses.NewCourseService(courseStore, broadcaster)
	courseHandlers := courses.NewHandlers(courseService, respond)

	profileStore := profiles.NewPostgresProfileStore(pool)
	profileService := profiles.NewProfileService(profileStore)
	profileHandlers := profiles.NewHandlers(profileService, respond)

	reviewStore := reviews.NewPostgresReviewStore(pool)
	reviewService := reviews.NewReviewService(reviewStore, courseStore)
	reviewHandlers := reviews.NewHandlers(reviewService, respond)

	requireAuth := auth.RequireAuth(tokenService, userStore, respond)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandlers.HandleSignup())
			r.Post("/login", authHandlers.HandleLogin())
			r.Post("/refresh", authHandlers.HandleRefresh())

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandlers.HandleLogout())
				r.Get("/me", authHandlers.HandleMe())
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Patch("/me", userHandlers.HandleUpdateMe())
			})
			r.Get("/{id}", userHandlers.HandleGetUser())
		})

		r.Route("/courses", func(r chi.Router) {
			courseHandlers.RegisterPublicRoutes(r)
			r.Get("/{id}/reviews", reviewHandlers.HandleListReviews())

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				courseHandlers.RegisterProtectedRoutes(r)
				r.Post("/{id}/reviews", reviewHandlers.HandleAddReview())
			})
		})

		r.Route("/profile", func(r chi.Router) {
			profileHandlers.RegisterPublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				profileHandlers.RegisterProtectedRoutes(r)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(requireAuth)
			r.Delete("/{id}", reviewHandlers.HandleDeleteReview())
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/stream", notificationHandlers.HandleStream())
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(statsStopChan)
	statsWg.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
