package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.SecureCookie)
	assert.Equal(t, []string{"en", "es", "fr", "de", "pt", "ja"}, cfg.Catalog.Languages)
	assert.Equal(t, 6*time.Hour, cfg.Catalog.CacheTTL)
	assert.Equal(t, 60*time.Second, cfg.Catalog.MaxAge)
	assert.Equal(t, 10, cfg.Gallery.MaxAttempts)
	assert.Equal(t, 25*time.Millisecond, cfg.Gallery.RetryBackoff)
	assert.Equal(t, 2*time.Second, cfg.Redis.OpTimeout)
	assert.Equal(t, "gallery/", cfg.S3.ImagePrefix)
	assert.NoError(t, cfg.ValidateServe())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET":        "s3cret",
		"SESSION_TTL":           "90m",
		"SESSION_COOKIE_SECURE": "false",
		"CATALOG_LANGUAGES":     "en,it",
		"GALLERY_MAX_ATTEMPTS":  "3",
		"ENV":                   "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Session.SecureCookie)
	assert.Equal(t, []string{"en", "it"}, cfg.Catalog.Languages)
	assert.Equal(t, 3, cfg.Gallery.MaxAttempts)
	assert.False(t, cfg.Pretty())
}

func TestValidateServe(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)
	assert.Error(t, cfg.ValidateServe(), "missing secret")

	cfg.Session.Secret = "x"
	cfg.Gallery.MaxAttempts = 0
	assert.Error(t, cfg.ValidateServe())
}

func TestLoad_BadDuration(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_TTL": "forever",
	}))
	assert.Error(t, err)
}
