package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/equipment-rental/internal/audit"
	"github.com/BruksfildServices01/equipment-rental/internal/auth"
	"github.com/BruksfildServices01/equipment-rental/internal/config"
	dbpkg "github.com/BruksfildServices01/equipment-rental/internal/db"
	"github.com/BruksfildServices01/equipment-rental/internal/routes"
	"github.com/BruksfildServices01/equipment-rental/internal/storage"
)

func main() {

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	db := dbpkg.NewDB(cfg)

	// Without Redis, logout is client side only.
	var revoked auth.RevocationStore
	if cfg.RedisAddr != "" {
		rdb, err := auth.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		revoked = auth.NewRedisRevocationStore(rdb)
	} else {
		log.Printf("REDIS_ADDR not set, token revocation disabled")
	}

	var store storage.ObjectStore
	if s3 := storage.NewS3Store(cfg); s3 != nil {
		store = s3
	} else {
		log.Printf("S3_BUCKET not set, equipment image upload disabled")
	}

	dispatcher := audit.NewDispatcher(audit.New(db))

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Issuer: auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL, revoked),
		Audit:  dispatcher,
		Store:  store,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// drain pending activity log writes
	dispatcher.Close()
}
