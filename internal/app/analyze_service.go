package app

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"recipesnap/internal/model"
	"recipesnap/internal/registry"
	"recipesnap/internal/vision"
)

// NoCaption is returned when the captioner produces no candidates.
const NoCaption = "No caption generated"

type AnalyzeService struct {
	models *registry.Registry
}

func NewAnalyzeService(models *registry.Registry) *AnalyzeService {
	return &AnalyzeService{models: models}
}

// Analyze decodes an uploaded image and returns its caption together with
// the food-related detections.
func (s *AnalyzeService) Analyze(ctx context.Context, data []byte) (*model.AnalysisResult, error) {
	handles, ok := s.models.Vision()
	if !ok {
		return nil, ErrModelsNotReady
	}
	img, err := vision.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, handles, img)
}

// AnalyzeBase64 is Analyze for a base64 payload or data URL.
func (s *AnalyzeService) AnalyzeBase64(ctx context.Context, encoded string) (*model.AnalysisResult, error) {
	handles, ok := s.models.Vision()
	if !ok {
		return nil, ErrModelsNotReady
	}
	img, err := vision.DecodeBase64Image(encoded)
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, handles, img)
}

// analyze runs captioning and detection side by side. Neither depends on
// the other, so the result matches a sequential run.
func (s *AnalyzeService) analyze(ctx context.Context, h *registry.Handles, img image.Image) (*model.AnalysisResult, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	var (
		caption     = NoCaption
		ingredients []model.DetectedIngredient
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		captions, err := h.Captioner.Caption(gctx, img)
		if err != nil {
			return err
		}
		if len(captions) > 0 {
			caption = captions[0]
		}
		return nil
	})
	g.Go(func() error {
		features, err := h.Extractor.Extract(img)
		if err != nil {
			return err
		}
		detections, err := h.Detector.Detect(gctx, features)
		if err != nil {
			return err
		}
		ingredients = vision.FilterFood(detections)
		logger.Debug().Int("detections", len(detections)).Int("food", len(ingredients)).Msg("detection finished")
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInference, err)
	}

	logger.Info().Dur("took", time.Since(start)).Int("ingredients", len(ingredients)).Msg("image analyzed")
	return &model.AnalysisResult{Caption: caption, Ingredients: ingredients}, nil
}
