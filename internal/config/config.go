package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultProfileModel = "gemini-2.5-flash"
	defaultInsightModel = "gemini-2.5-pro"
)

type Config struct {
	Port string
	Env  string

	GeminiAPIKey string
	ProfileModel string
	InsightModel string
	LLMRPS       float64
	LLMBurst     int

	HTTPRPS   float64
	HTTPBurst int

	DataDir        string
	ReportStoreDSN string

	Archive ArchiveConfig
}

// ArchiveConfig points at an optional S3-compatible store for completed
// report exports. Disabled unless an endpoint is configured.
type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Configured reports whether the model-service credential is present. Its
// absence does not fail Load: the server still boots so the UI can show the
// blocking configuration banner.
func (c *Config) Configured() bool {
	return strings.TrimSpace(c.GeminiAPIKey) != ""
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8080", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	cfg := fromEnv(os.Getenv)
	cfg.Port = *port
	return cfg, nil
}

func fromEnv(getenv func(string) string) *Config {
	env := strings.TrimSpace(getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	var rps float64
	if v := strings.TrimSpace(getenv("LLM_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rps = f
		}
	}
	var burst int
	if v := strings.TrimSpace(getenv("LLM_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}

	var httpRPS float64
	if v := strings.TrimSpace(getenv("HTTP_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			httpRPS = f
		}
	}
	var httpBurst int
	if v := strings.TrimSpace(getenv("HTTP_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			httpBurst = n
		}
	}

	return &Config{
		Env:            env,
		GeminiAPIKey:   strings.TrimSpace(getenv("GEMINI_API_KEY")),
		ProfileModel:   firstNonEmpty(strings.TrimSpace(getenv("PROFILE_MODEL")), defaultProfileModel),
		InsightModel:   firstNonEmpty(strings.TrimSpace(getenv("INSIGHT_MODEL")), defaultInsightModel),
		LLMRPS:         rps,
		LLMBurst:       burst,
		HTTPRPS:        httpRPS,
		HTTPBurst:      httpBurst,
		DataDir:        firstNonEmpty(strings.TrimSpace(getenv("DATA_DIR")), "data"),
		ReportStoreDSN: strings.TrimSpace(getenv("REPORT_STORE_PG_DSN")),
		Archive:        archiveFromEnv(getenv),
	}
}

func archiveFromEnv(getenv func(string) string) ArchiveConfig {
	endpoint := strings.TrimSpace(getenv("ARCHIVE_S3_ENDPOINT"))
	return ArchiveConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(getenv("ARCHIVE_S3_REGION")), "us-east-1"),
		AccessKey: strings.TrimSpace(getenv("ARCHIVE_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(getenv("ARCHIVE_S3_SECRET_KEY")),
		Bucket:    firstNonEmpty(strings.TrimSpace(getenv("ARCHIVE_S3_BUCKET")), "sweettech-reports"),
		UseSSL:    resolveUseSSL(getenv),
	}
}

func resolveUseSSL(getenv func(string) string) bool {
	raw := strings.TrimSpace(getenv("ARCHIVE_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
