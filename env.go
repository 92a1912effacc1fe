package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotenv loads the nearest .env, checking the cwd and up to two parents
// (ok if missing in prod).
func loadDotenv() {
	for _, p := range []string{".env", filepath.Join("..", ".env"), filepath.Join("..", "..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Overload(p)
			log.Println("[env] loaded", p)
			return
		}
	}
}

// checkEnv fails fast on the env the process cannot run without, and warns
// about the ones that only disable features (register returns a 500 without
// JWT_SECRET; send-otp answers "not configured" without mail creds).
func checkEnv() {
	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal("[env] DATABASE_URL is not set. Refusing to start.")
	}
	for _, k := range []string{"JWT_SECRET", "EMAIL_USER", "EMAIL_PASSWORD"} {
		if os.Getenv(k) == "" {
			log.Printf("[env] %s not set; related features disabled", k)
		}
	}
}
