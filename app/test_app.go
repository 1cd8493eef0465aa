package app

import (
	"go-blog-api/config"
	"go-blog-api/repository"
	"go-blog-api/service"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TestApp is the full HTTP stack over in-memory storage, for end-to-end tests.
type TestApp struct {
	Config   *config.Config
	Store    *repository.MemoryStore
	Ledger   *service.MemoryLedger
	Services *Services
	Router   http.Handler
}

// TestConfig returns a valid configuration with a cheap bcrypt cost.
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = "8080"
	cfg.Server.CORSAllowedOrigins = []string{"http://localhost:3000"}
	cfg.Server.LoginRatePerMinute = 5
	cfg.JWT = config.JWTConfig{
		SecretKey:  "integration-test-secret",
		Algorithm:  "HS256",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		MailTTL:    2 * time.Hour,
	}
	cfg.Mail.PublicBaseURL = "http://localhost:8080"
	cfg.Ledger.SweepSchedule = "@every 1h"
	cfg.Password.BcryptCost = bcrypt.MinCost
	return cfg
}

func NewTestApp(mailer service.MailDispatcher) (*TestApp, error) {
	cfg := TestConfig()
	store := repository.NewMemoryStore()
	ledger := service.NewMemoryLedger()

	svc, r, err := Wire(cfg, Infrastructure{
		Users:  store.Users(),
		Blogs:  store.Blogs(),
		Posts:  store.Posts(),
		Ledger: ledger,
		Mailer: mailer,
	})
	if err != nil {
		return nil, err
	}
	return &TestApp{Config: cfg, Store: store, Ledger: ledger, Services: svc, Router: r}, nil
}
