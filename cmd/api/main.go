package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/MarcusMQF/Foresight-platform-sub000/internal/application"
	appanalysis "github.com/MarcusMQF/Foresight-platform-sub000/internal/application/analysis"
	appdocs "github.com/MarcusMQF/Foresight-platform-sub000/internal/application/documents"
	appreconcile "github.com/MarcusMQF/Foresight-platform-sub000/internal/application/reconcile"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/config"
	domain "github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/ats"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/files"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/domain/scoring"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/cache"
	mysqlp "github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/db/mysql"
	postgresp "github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/db/postgres"
	enrichopenai "github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/enrich/openai"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/httpserver"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/scoring/httpclient"
	minioStore "github.com/MarcusMQF/Foresight-platform-sub000/internal/infra/storage"
	"github.com/MarcusMQF/Foresight-platform-sub000/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql default, postgres optional)
	var (
		db       *sql.DB
		jdRepo   domain.JobDescriptionRepository
		resRepo  domain.ResultRepository
		fileRepo files.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		jdRepo = postgresp.NewJobDescriptionRepository(db)
		resRepo = postgresp.NewResultRepository(db)
		fileRepo = postgresp.NewFileRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		jdRepo = mysqlp.NewJobDescriptionRepository(db)
		resRepo = mysqlp.NewResultRepository(db)
		fileRepo = mysqlp.NewFileRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
		cfg.Retrieval.MaxRetries,
		time.Duration(cfg.Retrieval.InitialDelayMS)*time.Millisecond,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init redis snapshot store
	snapshots, err := cache.NewSnapshotStore(cfg.Redis.URL, time.Duration(cfg.Redis.SnapshotTTLMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("redis init error: %v", err)
	}
	defer snapshots.Close()

	// init scoring client
	scorer := httpclient.New(
		cfg.Scorer.BaseURL,
		time.Duration(cfg.Scorer.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Scorer.ProbeTimeoutSeconds)*time.Second,
	)

	// optional AI enricher
	var enricher scoring.Enricher
	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		enricher = enrichopenai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	}

	// init services
	analysisSvc := &appanalysis.Service{
		JobDescriptions: jdRepo,
		Results:         resRepo,
		Files:           fileRepo,
		Blobs:           store,
		Scorer:          scorer,
		Enricher:        enricher,
		Clock:           application.SystemClock{},
	}
	documentsSvc := &appdocs.Service{
		Files:   fileRepo,
		Blobs:   store,
		Results: resRepo,
	}
	reconcileSvc := &appreconcile.Service{
		Results:   resRepo,
		Snapshots: snapshots,
	}

	// init router
	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(cfg.Auth.APIKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	}
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"redis":    &middleware.RedisHealthChecker{Ping: snapshots.Ping},
		"scorer":   &middleware.ScorerHealthChecker{Available: scorer.Available},
	}))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Mount("/", httpserver.NewRouter(analysisSvc, documentsSvc, reconcileSvc, scorer, cfg.Scorer.UseDistilBERT))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // batch analyze can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
