package main

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openGormIPv4 opens gorm over the pgx stdlib adapter with the dialer forced
// to IPv4, avoiding IPv6-only routes on some hosts.
func openGormIPv4(dsn string, gLogger logger.Interface) (*gorm.DB, *sql.DB, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, nil, err
	}
	cfg.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		d := &net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}
		return d.DialContext(ctx, "tcp4", addr)
	}

	sqlDB := stdlib.OpenDB(*cfg)

	// Reasonable pool settings for small dynos
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	// Fast fail if unreachable
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gLogger,
	})
	if err != nil {
		return nil, nil, err
	}
	return db, sqlDB, nil
}

// autoMigrate all app tables.
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&VerificationResult{},
	)
}
