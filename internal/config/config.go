package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig    `toml:"app"`
	HTTP      HTTPConfig   `toml:"http"`
	Log       LogConfig    `toml:"log"`
	Vision    VisionConfig `toml:"vision"`
	Captioner ModelConfig  `toml:"captioner"`
	Generator ModelConfig  `toml:"generator"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type HTTPConfig struct {
	MaxUploadBytes       int64    `toml:"max_upload_bytes"`
	AllowedOrigins       []string `toml:"allowed_origins"`
	ReadHeaderTimeoutSec int      `toml:"read_header_timeout_sec"`
	WriteTimeoutSec      int      `toml:"write_timeout_sec"`
	ShutdownTimeoutSec   int      `toml:"shutdown_timeout_sec"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console or json
}

type VisionConfig struct {
	ONNXSharedLibPath  string  `toml:"onnx_shared_lib_path"`
	DetectorName       string  `toml:"detector_name"`
	DetectorModelPath  string  `toml:"detector_model_path"`
	DetectorLabelsPath string  `toml:"detector_labels_path"`
	InputSize          int     `toml:"input_size"`
	DetectionThreshold float32 `toml:"detection_threshold"`
}

// ModelConfig describes a model served behind an OpenAI-compatible endpoint.
type ModelConfig struct {
	BaseURL     string  `toml:"base_url"`
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Prompt      string  `toml:"prompt"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	TopP        float32 `toml:"top_p"`
	TimeoutSec  int     `toml:"timeout_sec"`
}

func (m ModelConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSec) * time.Second
}

func Load() (*Config, error) {
	// .env is optional; variables already in the environment win.
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	cfg := defaultConfig()

	configPath := getEnv("CONFIG_FILE", "configs/config.toml")
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.HTTP.ReadHeaderTimeoutSec) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.HTTP.WriteTimeoutSec) * time.Second
}

func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.HTTP.ShutdownTimeoutSec) * time.Second
}

func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "recipesnap",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    8000,
			GinMode: "debug",
		},
		HTTP: HTTPConfig{
			MaxUploadBytes:       10 * 1024 * 1024,
			AllowedOrigins:       []string{"http://localhost:5173", "http://localhost:5174"},
			ReadHeaderTimeoutSec: 5,
			WriteTimeoutSec:      300,
			ShutdownTimeoutSec:   10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Vision: VisionConfig{
			ONNXSharedLibPath:  "", // use default or set via VISION_ONNX_LIB
			DetectorName:       "facebook/detr-resnet-50",
			DetectorModelPath:  "assets/detr-resnet-50.onnx",
			DetectorLabelsPath: "assets/detr_labels.txt",
			InputSize:          800,
			DetectionThreshold: 0.5,
		},
		Captioner: ModelConfig{
			BaseURL:     "http://127.0.0.1:8080/v1",
			Model:       "nlpconnect/vit-gpt2-image-captioning",
			Prompt:      "Describe this image in one short sentence.",
			MaxTokens:   64,
			Temperature: 0,
			TopP:        1,
			TimeoutSec:  60,
		},
		Generator: ModelConfig{
			BaseURL:     "http://127.0.0.1:8080/v1",
			Model:       "mistralai/Mistral-7B-Instruct-v0.2",
			MaxTokens:   1024,
			Temperature: 0.7,
			TopP:        0.95,
			TimeoutSec:  300,
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("APP_PORT", cfg.App.Port)
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.HTTP.MaxUploadBytes = int64(getEnvAsInt("HTTP_MAX_UPLOAD_BYTES", int(cfg.HTTP.MaxUploadBytes)))
	if raw := getEnv("HTTP_ALLOWED_ORIGINS", ""); raw != "" {
		cfg.HTTP.AllowedOrigins = splitList(raw)
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	cfg.Vision.ONNXSharedLibPath = getEnv("VISION_ONNX_LIB", cfg.Vision.ONNXSharedLibPath)
	cfg.Vision.DetectorModelPath = getEnv("VISION_DETECTOR_MODEL_PATH", cfg.Vision.DetectorModelPath)
	cfg.Vision.DetectorLabelsPath = getEnv("VISION_DETECTOR_LABELS_PATH", cfg.Vision.DetectorLabelsPath)
	cfg.Vision.InputSize = getEnvAsInt("VISION_INPUT_SIZE", cfg.Vision.InputSize)

	cfg.Captioner.BaseURL = getEnv("CAPTIONER_BASE_URL", cfg.Captioner.BaseURL)
	cfg.Captioner.APIKey = getEnv("CAPTIONER_API_KEY", cfg.Captioner.APIKey)
	cfg.Captioner.Model = getEnv("CAPTIONER_MODEL", cfg.Captioner.Model)

	cfg.Generator.BaseURL = getEnv("GENERATOR_BASE_URL", cfg.Generator.BaseURL)
	cfg.Generator.APIKey = getEnv("GENERATOR_API_KEY", cfg.Generator.APIKey)
	cfg.Generator.Model = getEnv("GENERATOR_MODEL", cfg.Generator.Model)
	cfg.Generator.MaxTokens = getEnvAsInt("GENERATOR_MAX_TOKENS", cfg.Generator.MaxTokens)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
