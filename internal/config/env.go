package config

import (
    "os"
    "strconv"
    "strings"
    "time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
    Level      string
    Pretty     bool
    File       string
    MaxSizeMB  int
    MaxBackups int
    MaxAgeDays int
    Compress   bool
}

// AxiomConfig holds Axiom logging configuration.
type AxiomConfig struct {
    Send          bool
    APIKey        string
    OrgID         string
    Dataset       string
    FlushInterval time.Duration
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
    Port            string
    ShutdownTimeout time.Duration
}

// UploadConfig bounds the upload surface.
type UploadConfig struct {
    MaxFileBytes int64
    MaxBatchMem  int64
}

// RenderConfig defines thumbnail rendering behavior.
type RenderConfig struct {
    DPI         int
    JPEGQuality int
    Workers     int
    CacheTTL    time.Duration
    // Optional Redis backend for the thumbnail cache. Empty keeps the
    // in-process cache.
    CacheRedisURL string
}

// InsightModels defines the model pair for a provider.
type InsightModels struct {
    Primary   string
    Secondary string
}

// InsightConfig defines engines and models for document insight.
type InsightConfig struct {
    PrimaryEngine   string // "openai"|"anthropic"
    SecondaryEngine string // "anthropic"|"openai"
    OpenAI          InsightModels
    Anthropic       InsightModels
    RequestTimeout  time.Duration
    MaxSampleChars  int
    SamplePages     int
}

// ExportConfig defines optional S3 delivery of assembled output.
type ExportConfig struct {
    S3Bucket string
    S3Prefix string
}

// Config is the top-level configuration.
type Config struct {
    Logging LoggingConfig
    Axiom   AxiomConfig
    Server  ServerConfig
    Upload  UploadConfig
    Render  RenderConfig
    Insight InsightConfig
    Export  ExportConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
    cfg := Config{}

    cfg.Logging = LoggingConfig{
        Level:      getEnv("LOG_LEVEL", "info"),
        Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
        File:       getEnv("LOG_FILE", "logs/pagedeck.log"),
        MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
        MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
        MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
        Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
    }

    baseDataset := getEnv("AXIOM_DATASET", "dev")
    cfg.Axiom = AxiomConfig{
        Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
        APIKey:        getEnv("AXIOM_API_KEY", ""),
        OrgID:         getEnv("AXIOM_ORG_ID", ""),
        Dataset:       baseDataset + "_pagedeck",
        FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
    }

    cfg.Server = ServerConfig{
        Port:            getEnv("PORT", "8080"),
        ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
    }

    cfg.Upload = UploadConfig{
        MaxFileBytes: parseInt64(getEnv("UPLOAD_MAX_FILE_MB", "64"), 64) << 20,
        MaxBatchMem:  parseInt64(getEnv("UPLOAD_MAX_BATCH_MB", "128"), 128) << 20,
    }

    cfg.Render = RenderConfig{
        DPI:           parseInt(getEnv("RENDER_DPI", "72"), 72),
        JPEGQuality:   parseInt(getEnv("RENDER_JPEG_QUALITY", "80"), 80),
        Workers:       parseInt(getEnv("RENDER_WORKERS", "4"), 4),
        CacheTTL:      parseDuration(getEnv("THUMB_CACHE_TTL", "30m"), 30*time.Minute),
        CacheRedisURL: getEnv("THUMB_CACHE_REDIS_URL", ""),
    }

    cfg.Insight = InsightConfig{
        PrimaryEngine:   getEnv("PRIMARY_ENGINE", "openai"),
        SecondaryEngine: getEnv("SECONDARY_ENGINE", "anthropic"),
        OpenAI: InsightModels{
            Primary:   getEnv("OPENAI_PRIMARY_MODEL", "gpt-4.1-mini"),
            Secondary: getEnv("OPENAI_SECONDARY_MODEL", "gpt-4o-mini"),
        },
        Anthropic: InsightModels{
            Primary:   getEnv("ANTHROPIC_PRIMARY_MODEL", "claude-3-5-haiku"),
            Secondary: getEnv("ANTHROPIC_SECONDARY_MODEL", "claude-3-haiku"),
        },
        RequestTimeout: parseDuration(getEnv("INSIGHT_TIMEOUT", "30s"), 30*time.Second),
        MaxSampleChars: parseInt(getEnv("INSIGHT_MAX_SAMPLE_CHARS", "6000"), 6000),
        SamplePages:    parseInt(getEnv("INSIGHT_SAMPLE_PAGES", "5"), 5),
    }

    cfg.Export = ExportConfig{
        S3Bucket: getEnv("EXPORT_S3_BUCKET", ""),
        S3Prefix: getEnv("EXPORT_S3_PREFIX", "pagedeck/exports"),
    }

    return cfg
}

// Helpers
func getEnv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseInt(s string, def int) int {
    if s == "" { return def }
    if n, err := strconv.Atoi(s); err == nil { return n }
    return def
}

func parseInt64(s string, def int64) int64 {
    if s == "" { return def }
    if n, err := strconv.ParseInt(s, 10, 64); err == nil { return n }
    return def
}

func parseBool(s string) bool {
    v := strings.ToLower(strings.TrimSpace(s))
    return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
    if s == "" { return def }
    if d, err := time.ParseDuration(s); err == nil { return d }
    return def
}

func devDefaultPretty() string {
    env := strings.ToLower(os.Getenv("ENVIRONMENT"))
    if env == "dev" || env == "development" || env == "local" { return "true" }
    return "false"
}
