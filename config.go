package main

import (
	"os"
	"strconv"
)

// Config is built once in main and handed to the api object. Nothing reads
// the environment after startup.
type Config struct {
	DatabaseURL string
	JWTSecret   string
	CookieName  string
	Env         string // "production" | "development" | anything else
	CORSOrigin  string
	Port        string

	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string
	EmailFrom     string
}

func loadConfig() Config {
	return Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		CookieName:  getenv("COOKIE_NAME", "token"),
		Env:         getenv("APP_ENV", "development"),
		CORSOrigin:  getenv("CORS_ORIGIN", "http://localhost:3000"),
		Port:        getenv("PORT", "5000"),

		SMTPHost:      getenv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:      getenvInt("SMTP_PORT", 587),
		EmailUser:     os.Getenv("EMAIL_USER"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_FROM"),
	}
}

func (c Config) isProduction() bool { return c.Env == "production" }

func (c Config) mailConfigured() bool { return c.EmailUser != "" && c.EmailPassword != "" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
