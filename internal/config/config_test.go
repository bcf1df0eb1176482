package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "SESSION_DRIVER", "SESSION_TTL", "SESSION_MAX", "CORS_ORIGINS", "SCORE_TOLERANCE", "SCORE_TRUNCATE_INTEGERS", "RENDER_FIGURES", "FIGURE_DPI"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.SessionDriver)
	assert.False(t, cfg.UsesDB())
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 1000, cfg.SessionMax)
	assert.Equal(t, 0.01, cfg.ScoreTolerance)
	assert.True(t, cfg.ScoreTruncateIntegers)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.RenderFigures)
	assert.Equal(t, 144, cfg.FigureDPI)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SESSION_DRIVER", "Postgres")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_SWEEP_INTERVAL", "30")
	t.Setenv("SESSION_MAX", "-4")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SCORE_TOLERANCE", "0.05")
	t.Setenv("SCORE_TRUNCATE_INTEGERS", "no")
	t.Setenv("RENDER_FIGURES", "0")
	t.Setenv("FIGURE_DPI", "72")

	cfg := FromEnv()
	assert.Equal(t, "postgres", cfg.SessionDriver)
	assert.True(t, cfg.UsesDB())
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.SessionSweepInterval)
	assert.Equal(t, 1000, cfg.SessionMax)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 0.05, cfg.ScoreTolerance)
	assert.False(t, cfg.ScoreTruncateIntegers)
	assert.False(t, cfg.RenderFigures)
	assert.Equal(t, 72, cfg.FigureDPI)
}
