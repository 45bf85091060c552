package config

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
    cfg := FromEnv()

    assert.Equal(t, "8080", cfg.Server.Port)
    assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
    assert.Equal(t, int64(64)<<20, cfg.Upload.MaxFileBytes)
    assert.Equal(t, 72, cfg.Render.DPI)
    assert.Equal(t, 30*time.Minute, cfg.Render.CacheTTL)
    assert.Empty(t, cfg.Render.CacheRedisURL)
    assert.Equal(t, "openai", cfg.Insight.PrimaryEngine)
    assert.Equal(t, "anthropic", cfg.Insight.SecondaryEngine)
    assert.Equal(t, 5, cfg.Insight.SamplePages)
    assert.Equal(t, "dev_pagedeck", cfg.Axiom.Dataset)
    assert.Equal(t, "pagedeck/exports", cfg.Export.S3Prefix)
}

func TestFromEnvOverrides(t *testing.T) {
    t.Setenv("PORT", "9999")
    t.Setenv("UPLOAD_MAX_FILE_MB", "8")
    t.Setenv("RENDER_DPI", "150")
    t.Setenv("THUMB_CACHE_REDIS_URL", "redis://localhost:6379/2")
    t.Setenv("PRIMARY_ENGINE", "anthropic")
    t.Setenv("AXIOM_DATASET", "prod")

    cfg := FromEnv()
    assert.Equal(t, "9999", cfg.Server.Port)
    assert.Equal(t, int64(8)<<20, cfg.Upload.MaxFileBytes)
    assert.Equal(t, 150, cfg.Render.DPI)
    assert.Equal(t, "redis://localhost:6379/2", cfg.Render.CacheRedisURL)
    assert.Equal(t, "anthropic", cfg.Insight.PrimaryEngine)
    assert.Equal(t, "prod_pagedeck", cfg.Axiom.Dataset)
}

func TestParseHelpers(t *testing.T) {
    assert.Equal(t, 7, parseInt("7", 1))
    assert.Equal(t, 1, parseInt("junk", 1))
    assert.Equal(t, 1, parseInt("", 1))

    assert.Equal(t, int64(42), parseInt64("42", 0))
    assert.Equal(t, int64(9), parseInt64("x", 9))

    assert.True(t, parseBool("1"))
    assert.True(t, parseBool("TRUE"))
    assert.True(t, parseBool(" yes "))
    assert.False(t, parseBool("0"))
    assert.False(t, parseBool(""))

    assert.Equal(t, 5*time.Second, parseDuration("5s", time.Minute))
    assert.Equal(t, time.Minute, parseDuration("oops", time.Minute))
}
