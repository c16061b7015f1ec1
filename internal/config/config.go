package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// readSecret reads a Docker secret from a file path specified by an env var
// with _FILE suffix. If FOO is already set directly, the file is skipped.
// If FOO_FILE is set, reads the file content and sets FOO.
func readSecret(envKey string) {
	if os.Getenv(envKey) != "" {
		return
	}
	fileKey := envKey + "_FILE"
	filePath := os.Getenv(fileKey)
	if filePath == "" {
		return
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return
	}
	val := strings.TrimSpace(string(data))
	os.Setenv(envKey, val)
}

type Config struct {
	Server     ServerConfig
	Groq       GroqConfig
	Renderer   RendererConfig
	Paths      PathsConfig
	Classifier ClassifierConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	JWT        JWTConfig
	R2         R2Config
	Videos     VideosConfig
}

type ServerConfig struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string
}

type GroqConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   int // seconds
	MaxTokens int
}

type RendererConfig struct {
	Interpreters []string
	FFmpeg       string
	Timeout      int // seconds
	ProbeTimeout int // seconds
}

type PathsConfig struct {
	VideoDir    string
	TempDir     string
	FrontendDir string
}

type ClassifierConfig struct {
	RulesFile string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	GeneratePerHour int
}

type JWTConfig struct {
	Secret string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
}

type VideosConfig struct {
	RetentionHours int
}

// RequestTimeout bounds one chat completion call.
func (c GroqConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c RendererConfig) RenderTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

func (c RendererConfig) ProbeDeadline() time.Duration {
	return time.Duration(c.ProbeTimeout) * time.Second
}

// Enabled reports whether all credentials needed to publish to R2 are set.
func (c R2Config) Enabled() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

// Retention is zero when published videos are kept forever.
func (c VideosConfig) Retention() time.Duration {
	if c.RetentionHours <= 0 {
		return 0
	}
	return time.Duration(c.RetentionHours) * time.Hour
}

func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win
	_ = godotenv.Load()

	// Read Docker Swarm secrets from _FILE env vars before Viper binds
	readSecret("REDIS_PASSWORD")
	readSecret("GROQ_API_KEY")
	readSecret("JWT_SECRET")
	readSecret("R2_ACCOUNT_ID")
	readSecret("R2_ACCESS_KEY_ID")
	readSecret("R2_SECRET_ACCESS_KEY")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables
	v.AutomaticEnv()

	// Bind environment variables with underscores to nested config keys
	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.env", "SERVER_ENV")
	_ = v.BindEnv("server.log_level", "LOG_LEVEL")
	_ = v.BindEnv("server.log_format", "LOG_FORMAT")
	_ = v.BindEnv("groq.api_key", "GROQ_API_KEY")
	_ = v.BindEnv("groq.base_url", "GROQ_BASE_URL")
	_ = v.BindEnv("groq.model", "GROQ_MODEL")
	_ = v.BindEnv("groq.timeout", "GROQ_TIMEOUT")
	_ = v.BindEnv("groq.max_tokens", "GROQ_MAX_TOKENS")
	_ = v.BindEnv("renderer.interpreters", "RENDERER_INTERPRETERS")
	_ = v.BindEnv("renderer.ffmpeg", "RENDERER_FFMPEG")
	_ = v.BindEnv("renderer.timeout", "RENDERER_TIMEOUT")
	_ = v.BindEnv("renderer.probe_timeout", "RENDERER_PROBE_TIMEOUT")
	_ = v.BindEnv("paths.video_dir", "VIDEO_DIR")
	_ = v.BindEnv("paths.temp_dir", "TEMP_DIR")
	_ = v.BindEnv("paths.frontend_dir", "FRONTEND_DIR")
	_ = v.BindEnv("classifier.rules_file", "CLASSIFIER_RULES_FILE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("redis.db", "REDIS_DB")
	_ = v.BindEnv("ratelimit.generate_per_hour", "RATELIMIT_GENERATE_PER_HOUR")
	_ = v.BindEnv("jwt.secret", "JWT_SECRET")
	_ = v.BindEnv("r2.account_id", "R2_ACCOUNT_ID")
	_ = v.BindEnv("r2.access_key_id", "R2_ACCESS_KEY_ID")
	_ = v.BindEnv("r2.secret_access_key", "R2_SECRET_ACCESS_KEY")
	_ = v.BindEnv("r2.bucket_name", "R2_BUCKET_NAME")
	_ = v.BindEnv("r2.public_url", "R2_PUBLIC_URL")
	_ = v.BindEnv("videos.retention_hours", "VIDEO_RETENTION_HOURS")

	// Defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "text")

	// Groq defaults
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("groq.timeout", 30)
	v.SetDefault("groq.max_tokens", 1500)

	// Renderer defaults
	v.SetDefault("renderer.interpreters", "python3,python,py")
	v.SetDefault("renderer.ffmpeg", "ffmpeg")
	v.SetDefault("renderer.timeout", 60)
	v.SetDefault("renderer.probe_timeout", 5)

	v.SetDefault("paths.video_dir", "videos")
	v.SetDefault("paths.temp_dir", "temp")
	v.SetDefault("paths.frontend_dir", "frontend")

	// Redis is optional; an empty address disables rate limiting and the sweeper
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("ratelimit.generate_per_hour", 30)

	v.SetDefault("videos.retention_hours", 0)

	// Try to read config file (optional)
	_ = v.ReadInConfig()

	cfg := &Config{
		Server: ServerConfig{
			Port:      v.GetString("server.port"),
			Env:       v.GetString("server.env"),
			LogLevel:  v.GetString("server.log_level"),
			LogFormat: v.GetString("server.log_format"),
		},
		Groq: GroqConfig{
			APIKey:    v.GetString("groq.api_key"),
			BaseURL:   strings.TrimRight(v.GetString("groq.base_url"), "/"),
			Model:     v.GetString("groq.model"),
			Timeout:   v.GetInt("groq.timeout"),
			MaxTokens: v.GetInt("groq.max_tokens"),
		},
		Renderer: RendererConfig{
			Interpreters: stringList(v.Get("renderer.interpreters")),
			FFmpeg:       v.GetString("renderer.ffmpeg"),
			Timeout:      v.GetInt("renderer.timeout"),
			ProbeTimeout: v.GetInt("renderer.probe_timeout"),
		},
		Paths: PathsConfig{
			VideoDir:    v.GetString("paths.video_dir"),
			TempDir:     v.GetString("paths.temp_dir"),
			FrontendDir: v.GetString("paths.frontend_dir"),
		},
		Classifier: ClassifierConfig{
			RulesFile: v.GetString("classifier.rules_file"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		RateLimit: RateLimitConfig{
			GeneratePerHour: v.GetInt("ratelimit.generate_per_hour"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
		},
		R2: R2Config{
			AccountID:       v.GetString("r2.account_id"),
			AccessKeyID:     v.GetString("r2.access_key_id"),
			SecretAccessKey: v.GetString("r2.secret_access_key"),
			BucketName:      v.GetString("r2.bucket_name"),
			PublicURL:       strings.TrimRight(v.GetString("r2.public_url"), "/"),
		},
		Videos: VideosConfig{
			RetentionHours: v.GetInt("videos.retention_hours"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Paths.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve makes the directories absolute. The renderer runs with the temp
// directory as its working directory, so relative paths would not resolve.
func (p *PathsConfig) resolve() error {
	for _, dir := range []*string{&p.VideoDir, &p.TempDir, &p.FrontendDir} {
		if *dir == "" {
			continue
		}
		abs, err := filepath.Abs(*dir)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", *dir, err)
		}
		*dir = abs
	}
	return nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if len(c.Renderer.Interpreters) == 0 {
		return fmt.Errorf("renderer.interpreters must name at least one command")
	}
	if c.Renderer.Timeout <= 0 {
		return fmt.Errorf("renderer.timeout must be positive, got %d", c.Renderer.Timeout)
	}
	if c.Groq.Timeout <= 0 {
		return fmt.Errorf("groq.timeout must be positive, got %d", c.Groq.Timeout)
	}
	if c.Paths.VideoDir == "" || c.Paths.TempDir == "" {
		return fmt.Errorf("paths.video_dir and paths.temp_dir are required")
	}
	return nil
}

// EnsureDirs creates the video, temp and frontend directories.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.Paths.VideoDir, c.Paths.TempDir, c.Paths.FrontendDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// stringList accepts either a YAML list or a comma separated string.
func stringList(raw interface{}) []string {
	var items []string
	switch val := raw.(type) {
	case string:
		items = strings.Split(val, ",")
	case []string:
		items = val
	case []interface{}:
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
