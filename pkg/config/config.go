package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults applied when the environment leaves a valve unset.
const (
	DefaultUploadThreshold = 20 << 20 // 20 MiB, the inline payload comfort zone
	DefaultModelCacheTTL   = 10 * time.Minute
)

// Valves holds the runtime configuration consumed by the manifold. The core
// packages take these as plain arguments; nothing below this layer reads the
// environment.
type Valves struct {
	APIKey          string
	BaseURL         string
	ModelWhitelist  []string
	ModelBlacklist  []string
	UseFilesAPI     bool
	UploadThreshold int64
	ModelCacheTTL   time.Duration
}

// FromEnv loads valves from the environment.
func FromEnv() Valves {
	return Valves{
		APIKey:          os.Getenv("GEMINI_API_KEY"),
		BaseURL:         os.Getenv("GEMINI_API_BASE_URL"),
		ModelWhitelist:  splitPatterns(envOr("MODEL_WHITELIST", "*")),
		ModelBlacklist:  splitPatterns(os.Getenv("MODEL_BLACKLIST")),
		UseFilesAPI:     envBool("USE_FILES_API", true),
		UploadThreshold: envInt64("UPLOAD_THRESHOLD_BYTES", DefaultUploadThreshold),
		ModelCacheTTL:   envDuration("MODEL_CACHE_TTL", DefaultModelCacheTTL),
	}
}

// splitPatterns turns a comma-separated pattern string into a clean slice.
func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
