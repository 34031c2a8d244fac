package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dreamtoons/internal/adapter/repo"
	"dreamtoons/internal/facecheck"
	"dreamtoons/internal/infra"
	"dreamtoons/internal/providers/genai"
	"dreamtoons/internal/providers/openai"
	"dreamtoons/internal/providers/qwen"
	"dreamtoons/internal/providers/script"
	"dreamtoons/internal/providers/synth"
	"dreamtoons/internal/storage"
	"dreamtoons/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	comics := repo.NewComicRepository(runner)
	avatars := repo.NewAvatarRepository(runner)

	var store storage.BlobStore
	switch cfg.StorageBackend {
	case "gcs":
		gcsStore, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: gcs storage failed")
		}
		defer gcsStore.Close()
		store = gcsStore
	default:
		signer, err := storage.NewURLSigner(cfg.StorageSecret)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: url signer failed")
		}
		fileStore, err := storage.NewFileStore(cfg.StoragePath, cfg.PublicBaseURL, signer)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: file storage failed")
		}
		store = fileStore
	}

	// The OpenAI client always exists: storyboarding and avatar edits run
	// there even when panels render elsewhere.
	openaiClient, err := openai.NewClient(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: openai client failed")
	}

	synthesizer, err := buildSynthesizer(cfg, &logger, openaiClient)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: synthesizer failed")
	}
	logger.Info().Str("provider", cfg.SynthProvider).Msg("worker: image backend ready")

	var faces facecheck.Checker = facecheck.AlwaysPass{}
	if cfg.FaceCheckURL != "" {
		faces = facecheck.NewClient(facecheck.Options{BaseURL: cfg.FaceCheckURL, Logger: &logger})
	}

	orchestrator := worker.NewOrchestrator(worker.Options{
		Comics:      comics,
		Avatars:     avatars,
		Scripts:     script.NewOpenAIGenerator(openaiClient),
		Synth:       synthesizer,
		Editor:      openaiClient,
		Store:       store,
		Faces:       faces,
		Logger:      &logger,
		Concurrency: cfg.PanelConcurrency,
	})
	runnerLoop := worker.NewRunner(comics, avatars, orchestrator, &logger, 0)

	logger.Info().Msg("worker: started")
	if err := runnerLoop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// buildSynthesizer selects the panel image backend from configuration.
func buildSynthesizer(cfg *infra.Config, logger *infra.Logger, openaiClient *openai.Client) (synth.Synthesizer, error) {
	switch cfg.SynthProvider {
	case "openai":
		return synth.NewOpenAISynthesizer(openaiClient), nil
	case "gemini":
		client, err := genai.NewClient(genai.Options{
			APIKey:  cfg.GeminiAPIKey,
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		return synth.NewGeminiSynthesizer(client), nil
	case "qwen":
		client, err := qwen.NewClient(qwen.Options{
			APIKey:  cfg.QwenAPIKey,
			BaseURL: cfg.QwenBaseURL,
			Model:   cfg.QwenModel,
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
		return synth.NewQwenSynthesizer(client), nil
	default:
		return nil, errors.New("unsupported synth provider " + cfg.SynthProvider)
	}
}
