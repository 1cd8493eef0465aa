package db

import (
	"database/sql"
	"fmt"
	"go-blog-api/logger"
	"net/url"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens the PostgreSQL pool behind the record store and the revocation ledger.
func Connect(databaseURL string) (*sql.DB, error) {
	logger.Log.WithField("connection", redactURL(databaseURL)).Info("Attempting to connect to the database")

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Log.WithError(err).Error("Failed to ping database")
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connection established successfully")
	return db, nil
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
