package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "backoffice/internal/config"
	router "backoffice/internal/http"
	"backoffice/internal/http/handlers"
	"backoffice/internal/services"
	"backoffice/internal/store"
	"backoffice/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env := intconfig.LoadEnv()
	log := utils.InitLogger(env.AppEnv, env.LogLevel)
	defer func() { _ = log.Sync() }()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	} else if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if env.IsProduction() && env.JWTSecret == "change-me-in-production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	blob, closeBlob, err := openBlob(env)
	if err != nil {
		log.Fatal("failed to open snapshot backend", zap.String("driver", env.StoreDriver), zap.Error(err))
	}
	defer closeBlob()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := store.Open(loadCtx, blob)
	cancelLoad()
	if err != nil {
		log.Fatal("failed to load data", zap.Error(err))
	}

	hd := &handlers.Handler{
		Store:    st,
		Secret:   []byte(env.JWTSecret),
		TokenTTL: env.TokenTTL(),
	}
	if env.GeminiAPIKey != "" {
		scanner, err := services.NewGeminiPassportScanner(context.Background(), env.GeminiAPIKey, env.GeminiModel)
		if err != nil {
			log.Warn("passport scanning disabled", zap.Error(err))
		} else {
			hd.Scanner = scanner
			defer scanner.Close()
		}
	} else {
		log.Info("GEMINI_API_KEY not set, passport scanning disabled")
	}

	r := router.NewRouter(env, hd)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr), zap.String("store", env.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), env.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	log.Info("server stopped")
}

// openBlob picks the snapshot backend named by STORE_DRIVER. The returned
// func releases its connection.
func openBlob(env intconfig.Env) (store.BlobStore, func(), error) {
	noop := func() {}
	switch env.StoreDriver {
	case "", "file":
		return store.FileBlob{Path: env.DataFile}, noop, nil
	case "memory":
		return store.NewMemoryBlob(nil), noop, nil
	case "mysql":
		db, err := intconfig.ConnectDB(env.DBDSN)
		if err != nil {
			return nil, noop, err
		}
		blob := store.MySQLBlob{DB: db, Key: env.StoreKey}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := blob.EnsureSchema(ctx); err != nil {
			intconfig.CloseDB()
			return nil, noop, err
		}
		return blob, intconfig.CloseDB, nil
	case "redis":
		blob, err := store.NewRedisBlob(env.RedisAddr, env.RedisPassword, env.RedisDB, env.StoreKey)
		if err != nil {
			return nil, noop, err
		}
		return blob, func() { _ = blob.Close() }, nil
	case "mongo", "mongodb":
		blob, err := store.NewMongoBlob(env.MongoURI, env.MongoDatabase, env.StoreKey)
		if err != nil {
			return nil, noop, err
		}
		return blob, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = blob.Close(ctx)
		}, nil
	default:
		return nil, noop, fmt.Errorf("unknown STORE_DRIVER %q (file, memory, mysql, redis, mongo)", env.StoreDriver)
	}
}
