package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"gorm.io/gorm/logger"
)

func main() {
	loadDotenv()
	checkEnv()
	cfg := loadConfig()

	// Quieter GORM logger
	gLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold: 1500 * time.Millisecond,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	dsn := cfg.DatabaseURL
	// local only: allow sslmode=disable if using localhost
	if strings.Contains(dsn, "localhost") && !strings.Contains(dsn, "sslmode=") {
		if strings.Contains(dsn, "?") {
			dsn += "&sslmode=disable"
		} else {
			dsn += "?sslmode=disable"
		}
	}

	db, _, err := openGormIPv4(dsn, gLogger) // pgx simple protocol + IPv4 enforced
	if err != nil {
		log.Fatalf("[DB] connect failed: %v", err)
	}
	log.Println("[DB] connected")
	if err := autoMigrate(db); err != nil {
		log.Fatalf("[DB] migrate failed: %v", err)
	}

	var mailer Mailer
	if cfg.mailConfigured() {
		m, err := newSMTPMailer(cfg)
		if err != nil {
			log.Fatalf("[mail] SMTP client: %v", err)
		}
		mailer = m
		log.Println("[mail] SMTP transport ready:", cfg.SMTPHost)
	} else {
		mailer = unconfiguredMailer{}
		log.Println("[mail] EMAIL_USER/EMAIL_PASSWORD not set; OTP email disabled")
	}

	a := newAPI(cfg, newGormStore(db), mailer)
	r := newRouter(a)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Println("API listening on", addr, "CORS_ORIGIN:", cfg.CORSOrigin)
	log.Fatal(srv.ListenAndServe())
}

func newRouter(a *api) *chi.Mux {
	r := chi.NewRouter()

	// allow comma-separated list of origins
	var origins []string
	for _, p := range strings.Split(a.cfg.CORSOrigin, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	// Finish bare OPTIONS quickly
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	// ---- Routes
	// Auth (public)
	r.Post("/api/users/register", a.handleRegister)
	r.Post("/api/users/send-otp", a.handleSendOTP)
	r.Post("/api/users/verify-otp", a.handleVerifyOTP)
	r.Post("/api/users/logout", a.handleLogout)

	// Protected: everything behind the session guard
	r.Group(func(pr chi.Router) {
		pr.Use(a.requireAuth)
		pr.Get("/api/users/me", a.handleMe)
		pr.Get("/api/users/results", a.handleFetchResults)
		pr.Post("/api/users/results", a.handleAppendResult)
		pr.Get("/api/users", a.handleListUsers)
		// must come last so it cannot hijack /me or /results
		pr.Get("/api/users/{id}", a.handleUserByID)
	})

	// Health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	return r
}
