// Package main はhabomailang APIサーバーのエントリーポイントです
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

	"github.com/GuiltyMorishita/habomailang-api/internal/config"
	"github.com/GuiltyMorishita/habomailang-api/internal/fragment"
	"github.com/GuiltyMorishita/habomailang-api/internal/handler"
	"github.com/GuiltyMorishita/habomailang-api/internal/service"
	"github.com/GuiltyMorishita/habomailang-api/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "[Server] %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Named("Server").Sugar()

	log.Infow("Starting habomailang API server...",
		"source", cfg.Sentence.Source,
		"db_driver", cfg.Database.Driver)

	// 断片ストア
	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Database.SeedFile != "" {
		if err := seed(st, cfg.Database.SeedFile, log); err != nil {
			return err
		}
	}

	// 依存性の組み立て
	source, err := newFragmentSource(cfg, st, logger)
	if err != nil {
		return err
	}
	style, err := service.ParseStyle(cfg.Sentence.Style)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	sentenceService := service.NewSentenceService(source, service.SentenceOptions{
		Style:        style,
		DefaultLevel: cfg.Sentence.DefaultLevel,
		MaxLevel:     cfg.Sentence.MaxLevel,
		Location:     loc,
	}, logger)

	sentenceHandler := handler.NewSentenceHandler(sentenceService, logger)
	fragmentsHandler := handler.NewFragmentsHandler(st, logger)
	healthHandler := handler.NewHealthHandler(st, logger)

	// Ginエンジン初期化
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(logger))

	// CORS設定
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", handler.RequestIDHeader},
		ExposeHeaders: []string{handler.RequestIDHeader},
	}))

	// APIルーティング
	api := r.Group("/api")
	{
		// ヘルスチェックAPI
		api.GET("/health", healthHandler.Handle)

		// 文章生成API
		api.GET("/sentence_generator", sentenceHandler.Handle)
		api.POST("/sentence_generator", sentenceHandler.Handle)

		// 断片参照API
		api.GET("/fragments", fragmentsHandler.Handle)
		api.GET("/fragments/stats", fragmentsHandler.HandleStats)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infow("Listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Infow("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// newFragmentSource は設定に応じた断片の取得元を生成します
func newFragmentSource(cfg *config.Config, st *store.Store, logger *zap.Logger) (service.FragmentSource, error) {
	switch cfg.Sentence.Source {
	case config.SourceGenerator:
		notifier := service.NewNtfyService(cfg.NtfyTopic, logger) // nil の場合がある（トピック未設定時）
		return service.NewGeneratorService(service.GeneratorOptions{
			Command: cfg.Generator.Command,
			WorkDir: cfg.Generator.WorkDir,
			Timeout: cfg.Generator.Timeout,
		}, notifier, logger), nil
	default:
		policy, err := store.ParsePolicy(cfg.Sentence.Selection)
		if err != nil {
			return nil, err
		}
		return service.NewStoreSource(st, policy), nil
	}
}

// seed はシードファイルを空のテーブルに投入します
func seed(st *store.Store, path string, log *zap.SugaredLogger) error {
	f, err := fragment.LoadSeedFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	inserted, err := st.Seed(ctx, f)
	if err != nil {
		return fmt.Errorf("failed to seed fragments: %w", err)
	}
	log.Infow("Seed completed", "path", path, "inserted", inserted)
	return nil
}
