package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"recipesnap/internal/ai"
	"recipesnap/internal/config"
	"recipesnap/internal/registry"
	"recipesnap/internal/vision"
)

type App struct {
	Config *config.Config
	Models *registry.Registry

	StartedAt time.Time
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	return NewWithConfig(cfg), nil
}

func NewWithConfig(cfg *config.Config) *App {
	return &App{
		Config:    cfg,
		Models:    registry.New(),
		StartedAt: time.Now(),
	}
}

// LoadModels acquires every model handle concurrently and publishes them
// once all attempts finish. A handle that fails to load stays nil; the
// server keeps running and reports itself as not ready.
func (a *App) LoadModels(ctx context.Context) {
	start := time.Now()
	handles := &registry.Handles{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		handles.Captioner = a.loadCaptioner(gctx)
		return nil
	})
	g.Go(func() error {
		handles.Extractor, handles.Detector = a.loadDetector()
		return nil
	})
	g.Go(func() error {
		handles.Generator = a.loadGenerator(gctx)
		return nil
	})
	_ = g.Wait()

	a.Models.Publish(handles)
	log.Info().
		Dur("took", time.Since(start)).
		Bool("models_loaded", a.Models.Loaded()).
		Bool("generator_loaded", handles.Generator != nil).
		Msg("model loading finished")
}

func (a *App) loadCaptioner(ctx context.Context) vision.Captioner {
	cfg := a.Config.Captioner
	log.Info().Str("model", cfg.Model).Msg("loading image captioning model")

	client, err := newCheckedClient(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("model", cfg.Model).Msg("image captioning model unavailable")
		return nil
	}
	log.Info().Str("model", cfg.Model).Msg("image captioning model ready")
	return vision.NewOpenAICaptioner(client, cfg.Prompt, samplingParams(cfg))
}

func (a *App) loadDetector() (vision.Extractor, vision.Detector) {
	cfg := a.Config.Vision
	log.Info().Str("model", cfg.DetectorName).Str("path", cfg.DetectorModelPath).Msg("loading object detection model")

	detector, err := vision.NewONNXDetector(vision.ONNXDetectorConfig{
		ModelPath:  cfg.DetectorModelPath,
		LabelsPath: cfg.DetectorLabelsPath,
		LibPath:    cfg.ONNXSharedLibPath,
		InputSize:  cfg.InputSize,
		Threshold:  cfg.DetectionThreshold,
	})
	if err != nil {
		log.Error().Err(err).Str("model", cfg.DetectorName).Msg("object detection model unavailable")
		return nil, nil
	}
	log.Info().Str("model", cfg.DetectorName).Msg("object detection model ready")
	return vision.NewFeatureExtractor(cfg.InputSize), detector
}

func (a *App) loadGenerator(ctx context.Context) ai.TextGenerator {
	cfg := a.Config.Generator
	log.Info().Str("model", cfg.Model).Msg("loading text generation model")

	client, err := newCheckedClient(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("model", cfg.Model).Msg("text generation model unavailable")
		return nil
	}
	log.Info().Str("model", cfg.Model).Msg("text generation model ready")
	return ai.NewRecipeGenerator(client, samplingParams(cfg))
}

func newCheckedClient(ctx context.Context, cfg config.ModelConfig) (*ai.OpenAICompatibleClient, error) {
	client := ai.NewOpenAICompatibleClient(ai.ChatConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout(),
	})
	if err := client.CheckModel(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

func samplingParams(cfg config.ModelConfig) ai.SamplingParams {
	return ai.SamplingParams{
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	}
}

func (a *App) Close() error {
	if a.Models == nil {
		return nil
	}
	return a.Models.Close()
}
