package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Env     string
	LLM     LLMConfig
	History HistoryConfig
}

type LLMConfig struct {
	Provider     string // "gemini" (default) or "openai"
	Model        string
	GeminiAPIKey string
	OpenAIAPIKey string
	RPS          float64
	Burst        int
}

type HistoryConfig struct {
	Dir string
	S3  S3Config
}

type S3Config struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads .env, command-line flags, and environment variables, in that
// order of increasing precedence for the port. It owns its flag set, so
// repeated calls (e.g. from tests) never collide with the global one.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("lexiguard", flag.ContinueOnError)
	port := fs.String("port", ":8080", "server port")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:    *port,
		Env:     env,
		LLM:     loadLLMConfig(),
		History: loadHistoryConfig(),
	}, nil
}

func loadLLMConfig() LLMConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER")))
	if provider == "" {
		provider = "gemini"
	}
	model := strings.TrimSpace(os.Getenv("LLM_MODEL"))
	if model == "" {
		switch provider {
		case "openai":
			model = "gpt-4o-mini"
		default:
			model = "gemini-2.5-flash"
		}
	}
	var rps float64
	if v := strings.TrimSpace(os.Getenv("LLM_RPS")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			rps = f
		}
	}
	var burst int
	if v := strings.TrimSpace(os.Getenv("LLM_BURST")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			burst = n
		}
	}
	return LLMConfig{
		Provider:     provider,
		Model:        model,
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		RPS:          rps,
		Burst:        burst,
	}
}

func loadHistoryConfig() HistoryConfig {
	dir := strings.TrimSpace(os.Getenv("HISTORY_DIR"))
	if dir == "" {
		dir = "tmp"
	}
	endpoint := strings.TrimSpace(os.Getenv("HISTORY_S3_ENDPOINT"))
	return HistoryConfig{
		Dir: dir,
		S3: S3Config{
			Enabled:   endpoint != "",
			Endpoint:  endpoint,
			Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_REGION")), "us-east-1"),
			AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
			SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
			Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("HISTORY_S3_BUCKET")), "lexiguard-history"),
			UseSSL:    resolveUseSSL(),
		},
	}
}

func resolveUseSSL() bool {
	raw := strings.TrimSpace(os.Getenv("HISTORY_S3_USE_SSL"))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false
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
