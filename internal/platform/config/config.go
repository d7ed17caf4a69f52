package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config es todo lo que main necesita para armar el proceso.
// Vacío = deshabilitado para las integraciones opcionales (DB, Redis, Kafka, webhook, JWT).
type Config struct {
	Addr    string
	AppName string

	LogLevel  string
	LogFormat string

	DBDSN        string
	DBAutoSchema bool

	RedisURL     string
	RedisChannel string

	KafkaBrokers []string
	KafkaTopic   string

	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration

	MinVotingAge  int
	AgePolicyFile string

	NotifyWebhookURL     string
	NotifyWebhookTimeout time.Duration

	ShutdownTimeout time.Duration
}

// Load carga .env (si existe, sin pisar variables ya seteadas) y lee el entorno.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Addr:    ":" + getenv("PORT", "8080"),
		AppName: getenv("APP_NAME", "votes-api"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "text"),

		DBDSN: strings.TrimSpace(os.Getenv("DB_DSN")),

		RedisURL:     strings.TrimSpace(os.Getenv("REDIS_URL")),
		RedisChannel: getenv("REDIS_CHANNEL", "votes-api.events"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "votes-api.events"),

		JWTSigningKey: strings.TrimSpace(os.Getenv("JWT_SIGNING_KEY")),
		JWTIssuer:     getenv("JWT_ISSUER", "votes-api"),

		AgePolicyFile: strings.TrimSpace(os.Getenv("AGE_POLICY_FILE")),

		NotifyWebhookURL: strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_URL")),
	}

	var errs []error
	var err error

	if cfg.DBAutoSchema, err = getbool("DB_AUTO_SCHEMA", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.TokenTTL, err = getduration("TOKEN_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.NotifyWebhookTimeout, err = getduration("NOTIFY_WEBHOOK_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShutdownTimeout, err = getduration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.MinVotingAge, err = getint("MIN_VOTING_AGE", 18); err != nil {
		errs = append(errs, err)
	} else if cfg.MinVotingAge < 0 || cfg.MinVotingAge > 150 {
		errs = append(errs, fmt.Errorf("MIN_VOTING_AGE out of range: %d", cfg.MinVotingAge))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getbool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
