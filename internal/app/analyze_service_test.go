package app

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipesnap/internal/registry"
	"recipesnap/internal/vision"
)

func visionHandles(c *fakeCaptioner, d *fakeDetector) *registry.Handles {
	return &registry.Handles{
		Captioner: c,
		Detector:  d,
		Extractor: vision.NewFeatureExtractor(8),
	}
}

func TestAnalyze_NotReady(t *testing.T) {
	svc := NewAnalyzeService(registry.New())

	_, err := svc.Analyze(context.Background(), testPNG(t, 2, 2))
	assert.ErrorIs(t, err, ErrModelsNotReady)
	_, err = svc.AnalyzeBase64(context.Background(), "")
	assert.ErrorIs(t, err, ErrModelsNotReady)
}

func TestAnalyze_FiltersFoodInOrder(t *testing.T) {
	det := &fakeDetector{detections: []vision.Detection{
		{Label: "banana", Score: 0.93},
		{Label: "person", Score: 0.99},
		{Label: "cup", Score: 0.5},
	}}
	svc := NewAnalyzeService(publishedRegistry(visionHandles(
		&fakeCaptioner{captions: []string{"a banana next to a cup", "fruit"}}, det)))

	res, err := svc.Analyze(context.Background(), testPNG(t, 30, 20))
	require.NoError(t, err)

	assert.Equal(t, "a banana next to a cup", res.Caption)
	require.Len(t, res.Ingredients, 2)
	assert.Equal(t, "banana", res.Ingredients[0].Name)
	assert.InDelta(t, 0.93, res.Ingredients[0].Confidence, 1e-6)
	assert.Equal(t, "cup", res.Ingredients[1].Name)
	assert.Equal(t, [2]int{30, 20}, det.gotSize, "detector sees the original size")
}

func TestAnalyze_NoCaptionPlaceholder(t *testing.T) {
	svc := NewAnalyzeService(publishedRegistry(visionHandles(&fakeCaptioner{}, &fakeDetector{})))

	res, err := svc.Analyze(context.Background(), testPNG(t, 4, 4))
	require.NoError(t, err)
	assert.Equal(t, NoCaption, res.Caption)
	assert.NotNil(t, res.Ingredients)
	assert.Empty(t, res.Ingredients)
}

func TestAnalyze_MalformedImage(t *testing.T) {
	det := &fakeDetector{}
	svc := NewAnalyzeService(publishedRegistry(visionHandles(&fakeCaptioner{}, det)))

	_, err := svc.Analyze(context.Background(), []byte("not an image"))
	assert.ErrorIs(t, err, vision.ErrMalformedImage)
	assert.NotErrorIs(t, err, ErrInference)
	assert.Zero(t, det.calls.Load())
}

func TestAnalyze_InferenceError(t *testing.T) {
	boom := errors.New("session run failed")
	svc := NewAnalyzeService(publishedRegistry(visionHandles(
		&fakeCaptioner{captions: []string{"x"}}, &fakeDetector{err: boom})))

	_, err := svc.Analyze(context.Background(), testPNG(t, 4, 4))
	assert.ErrorIs(t, err, ErrInference)
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzeBase64_DataURL(t *testing.T) {
	svc := NewAnalyzeService(publishedRegistry(visionHandles(
		&fakeCaptioner{captions: []string{"pizza"}},
		&fakeDetector{detections: []vision.Detection{{Label: "pizza", Score: 0.8}}})))

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 5, 5))
	res, err := svc.AnalyzeBase64(context.Background(), dataURL)
	require.NoError(t, err)
	assert.Equal(t, "pizza", res.Caption)
	require.Len(t, res.Ingredients, 1)

	_, err = svc.AnalyzeBase64(context.Background(), "data:image/png;base64,@@@")
	assert.ErrorIs(t, err, vision.ErrMalformedImage)
}
