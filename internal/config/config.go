package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	SessionDriver string // memory|sqlite|postgres
	DBDSN         string

	BlobBasePath string

	SessionTTL           time.Duration // 0 disables expiry
	SessionMax           int           // 0 disables the cap
	SessionSweepInterval time.Duration

	CORSOrigins []string

	MaxUploadMB int64
	PDFToText   string

	RenderFigures bool
	PDFToPPM      string
	FigureDPI     int

	ScoreTolerance        float64
	ScoreTruncateIntegers bool

	SiteID string // tags event_log rows
}

func FromEnv() Config {
	return Config{
		HTTPAddr:              envOr("HTTP_ADDR", ":8000"),
		SessionDriver:         strings.ToLower(envOr("SESSION_DRIVER", "memory")),
		DBDSN:                 envOr("DB_DSN", ""),
		BlobBasePath:          envOr("BLOB_BASE_PATH", "./data"),
		SessionTTL:            envDuration("SESSION_TTL", 24*time.Hour),
		SessionMax:            int(envInt("SESSION_MAX", 1000)),
		SessionSweepInterval:  envDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		CORSOrigins:           csvOr("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		MaxUploadMB:           envInt("MAX_UPLOAD_MB", 50),
		PDFToText:             envOr("PDFTOTEXT_BIN", "pdftotext"),
		RenderFigures:         envBool("RENDER_FIGURES", true),
		PDFToPPM:              envOr("PDFTOPPM_BIN", "pdftoppm"),
		FigureDPI:             int(envInt("FIGURE_DPI", 144)),
		ScoreTolerance:        envFloat("SCORE_TOLERANCE", 0.01),
		ScoreTruncateIntegers: envBool("SCORE_TRUNCATE_INTEGERS", true),
		SiteID:                envOr("SITE_ID", "local"),
	}
}

// UsesDB reports whether sessions live in a SQL database.
func (c Config) UsesDB() bool {
	return c.SessionDriver == "sqlite" || c.SessionDriver == "postgres"
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(k)), 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}
func envFloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}

// envDuration accepts Go durations ("90m") or a bare number of seconds.
func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
