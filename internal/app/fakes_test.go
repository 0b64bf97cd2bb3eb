package app

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"recipesnap/internal/registry"
	"recipesnap/internal/vision"
)

type fakeCaptioner struct {
	captions []string
	err      error
}

func (f *fakeCaptioner) Caption(context.Context, image.Image) ([]string, error) {
	return f.captions, f.err
}

type fakeDetector struct {
	detections []vision.Detection
	err        error
	calls      atomic.Int32
	gotSize    [2]int
}

func (f *fakeDetector) Detect(_ context.Context, features *vision.Features) ([]vision.Detection, error) {
	f.calls.Add(1)
	f.gotSize = [2]int{features.OrigWidth, features.OrigHeight}
	return f.detections, f.err
}

type fakeGenerator struct {
	completions []string
	chunks      []string
	err         error
	lastPrompt  string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) ([]string, error) {
	f.lastPrompt = prompt
	return f.completions, f.err
}

func (f *fakeGenerator) Stream(_ context.Context, prompt string, onChunk func(string) error) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	var full string
	for _, c := range f.chunks {
		if err := onChunk(c); err != nil {
			return "", err
		}
		full += c
	}
	return full, nil
}

func publishedRegistry(h *registry.Handles) *registry.Registry {
	r := registry.New()
	r.Publish(h)
	return r
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
