package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipesnap/internal/config"
)

func modelServer(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		list := openai.ModelsList{}
		for _, id := range ids {
			list.Models = append(list.Models, openai.Model{ID: id})
		}
		_ = json.NewEncoder(w).Encode(list)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Captioner.BaseURL = baseURL
	cfg.Captioner.Model = "captioner"
	cfg.Generator.BaseURL = baseURL
	cfg.Generator.Model = "generator"
	cfg.Vision.DetectorModelPath = filepath.Join(t.TempDir(), "missing.onnx")
	return cfg
}

func TestLoadModels_PartialFailureStillPublishes(t *testing.T) {
	srv := modelServer(t, "captioner", "generator")
	app := NewWithConfig(testConfig(t, srv.URL+"/v1"))

	assert.Nil(t, app.Models.Handles())
	app.LoadModels(context.Background())

	h := app.Models.Handles()
	require.NotNil(t, h)
	assert.NotNil(t, h.Captioner)
	assert.NotNil(t, h.Generator)
	assert.Nil(t, h.Detector, "detector model file does not exist")
	assert.Nil(t, h.Extractor)
	assert.False(t, app.Models.Loaded())
	assert.NoError(t, app.Close())
}

func TestLoadModels_UnknownRemoteModel(t *testing.T) {
	srv := modelServer(t, "something-else")
	app := NewWithConfig(testConfig(t, srv.URL+"/v1"))

	app.LoadModels(context.Background())

	h := app.Models.Handles()
	require.NotNil(t, h)
	assert.Nil(t, h.Captioner)
	assert.Nil(t, h.Generator)
	_, ok := app.Models.Generator()
	assert.False(t, ok)
}

func TestNew_LoadsConfigWithEmptyRegistry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "missing.toml"))
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("APP_PORT", "9123")

	app, err := New()
	require.NoError(t, err)
	assert.Equal(t, 9123, app.Config.App.Port)
	assert.Nil(t, app.Models.Handles())
	assert.False(t, app.StartedAt.IsZero())
	assert.NoError(t, app.Close())
}
