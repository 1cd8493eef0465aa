// File: app/app.go
package app

import (
	"context"
	"fmt"
	"go-blog-api/config"
	"go-blog-api/db"
	"go-blog-api/handler"
	"go-blog-api/logger"
	"go-blog-api/mailer"
	"go-blog-api/repository"
	"go-blog-api/router"
	"go-blog-api/service"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sendgrid/sendgrid-go"
)

// Infrastructure is the storage and delivery layer the services are built on.
type Infrastructure struct {
	Users  repository.IUserRepository
	Blogs  repository.IBlogRepository
	Posts  repository.IPostRepository
	Ledger service.RevocationLedger
	Mailer service.MailDispatcher
}

// Services are the domain services built by Wire.
type Services struct {
	Tokens *service.TokenService
	Gate   *service.AccessGate
	Auth   *service.AuthService
	Blogs  *service.BlogService
	Posts  *service.PostService
}

// Wire builds services, handlers and the router on top of infra.
func Wire(cfg *config.Config, infra Infrastructure) (*Services, http.Handler, error) {
	tokens, err := service.NewTokenService(cfg.JWT, infra.Ledger)
	if err != nil {
		return nil, nil, err
	}
	hasher := service.NewPasswordHasher(cfg.Password.BcryptCost)
	gate := service.NewAccessGate(tokens, infra.Users, infra.Blogs, infra.Posts)

	svc := &Services{
		Tokens: tokens,
		Gate:   gate,
		Auth:   service.NewAuthService(infra.Users, tokens, infra.Ledger, hasher, infra.Mailer, gate, cfg.JWT.MailTTL),
		Blogs:  service.NewBlogService(infra.Blogs, infra.Posts, gate),
		Posts:  service.NewPostService(infra.Posts, gate),
	}

	secureCookie := strings.HasPrefix(cfg.Mail.PublicBaseURL, "https://")
	r := router.NewRouter(router.Handlers{
		Auth:  handler.NewAuthHandler(svc.Auth, secureCookie),
		Blogs: handler.NewBlogHandler(svc.Blogs),
		Posts: handler.NewPostHandler(svc.Posts),
		Admin: handler.NewAdminHandler(svc.Auth),
	}, router.Options{
		Gate:           gate,
		Limiter:        handler.NewRateLimiter(cfg.Server.LoginRatePerMinute),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})
	return svc, r, nil
}

// mailDelivery picks the queue and SendGrid worker when both Redis and an API
// key are available, and the log dispatcher otherwise. The returned func stops
// whatever was started.
func mailDelivery(cfg *config.Config, redisUp bool) (service.MailDispatcher, func(), error) {
	if cfg.Mail.SendGridAPIKey == "" || !redisUp {
		logger.Log.Warn("Mail delivery disabled, links will be logged")
		return mailer.NewLogDispatcher(cfg.Mail.PublicBaseURL), func() {}, nil
	}

	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url for mail queue: %w", err)
	}
	client := asynq.NewClient(redisOpt)
	worker := mailer.NewWorker(redisOpt, sendgrid.NewSendClient(cfg.Mail.SendGridAPIKey), cfg.Mail)
	if err := worker.Start(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to start mail worker: %w", err)
	}
	logger.Log.Info("Mail worker started")

	stop := func() {
		worker.Shutdown()
		client.Close()
	}
	return mailer.NewQueueDispatcher(client), stop, nil
}

func Run() {
	cfg, err := config.LoadConfig(".")
	logger.Init()
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg.Database.URL)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		logger.Log.Fatalf("Error applying migrations: %v", err)
	}

	// --- Revocation ledger: PostgreSQL, fronted by Redis when reachable ---
	var ledger service.RevocationLedger = service.NewPersistentLedger(repository.NewTokenRepository(database))
	rdb, err := db.ConnectRedis(cfg.Redis.URL)
	if err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, revocation checks go straight to the database")
	} else {
		defer rdb.Close()
		ledger = service.NewCachedLedger(ledger, rdb)
	}

	dispatcher, stopMail, err := mailDelivery(cfg, rdb != nil)
	if err != nil {
		logger.Log.Fatalf("Error starting mail delivery: %v", err)
	}
	defer stopMail()

	_, r, err := Wire(cfg, Infrastructure{
		Users:  repository.NewUserRepository(database),
		Blogs:  repository.NewBlogRepository(database),
		Posts:  repository.NewPostRepository(database),
		Ledger: ledger,
		Mailer: dispatcher,
	})
	if err != nil {
		logger.Log.Fatalf("Error wiring services: %v", err)
	}

	sweeper := service.NewLedgerSweeper(ledger)
	if err := sweeper.Start(cfg.Ledger.SweepSchedule); err != nil {
		logger.Log.Fatalf("Invalid ledger sweep schedule %q: %v", cfg.Ledger.SweepSchedule, err)
	}
	defer sweeper.Stop()

	// --- Start the Server with Graceful Shutdown ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
