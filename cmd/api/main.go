package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dreamtoons/internal/adapter/repo"
	"dreamtoons/internal/cache"
	"dreamtoons/internal/http/handlers"
	"dreamtoons/internal/http/httpapi"
	"dreamtoons/internal/infra"
	"dreamtoons/internal/moderation"
	"dreamtoons/internal/providers/openai"
	"dreamtoons/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: db connection failed")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	comics := repo.NewComicRepository(runner)
	avatars := repo.NewAvatarRepository(runner)

	var store storage.BlobStore
	var fileStore *storage.FileStore
	switch cfg.StorageBackend {
	case "gcs":
		gcsStore, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: gcs storage failed")
		}
		defer gcsStore.Close()
		store = gcsStore
	default:
		signer, err := storage.NewURLSigner(cfg.StorageSecret)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: url signer failed")
		}
		fileStore, err = storage.NewFileStore(cfg.StoragePath, cfg.PublicBaseURL, signer)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: file storage failed")
		}
		store = fileStore
	}

	openaiClient, err := openai.NewClient(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("api: openai client failed")
	}

	app := &handlers.App{
		Config:      cfg,
		Logger:      &logger,
		Comics:      comics,
		Avatars:     avatars,
		Guard:       moderation.NewGate(openaiClient),
		Transcriber: openaiClient,
		Store:       store,
		Files:       fileStore,
		Status:      cache.NewStatusCache(cfg.StatusCacheTTL),
	}
	router := httpapi.NewRouter(app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("api: listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("api: http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: shutdown failed")
	}
	logger.Info().Msg("api: stopped")
}
