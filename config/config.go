package config

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/linesmerrill/court-records-api/models"
)

// Config holds the project config values. It is built once at startup and passed down;
// nothing reads the environment afterwards.
type Config struct {
	URL          string
	URLFallback  string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string

	JWTSecret   []byte
	TokenTTL    time.Duration
	CORSOrigins []string

	AuditQueueSize  int
	AuditQueryLimit int
	StaleRequestAge time.Duration
	LoginRate       int
	TrustProxy      bool

	RegistrarName     string
	RegistrarEmail    string
	RegistrarPassword string

	SendgridAPIKey  string
	NotifyFromEmail string

	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadPreset string
}

// New sets up all config related services
func New() *Config {
	// a missing .env is the normal case outside local development
	_ = godotenv.Load()

	env := getEnv("ENV", "local")
	logger, err := setLogger(getEnv("LOG_LEVEL", env))
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	c := &Config{
		URL:             os.Getenv("DB_URI"),
		URLFallback:     os.Getenv("DB_URI_FALLBACK"),
		DatabaseName:    getEnv("DB_NAME", "jis"),
		BaseURL:         os.Getenv("BASE_URL"),
		Port:            getEnv("PORT", "5000"),
		Env:             env,
		TokenTTL:        getDuration("TOKEN_TTL", 6*time.Hour),
		CORSOrigins:     splitList(os.Getenv("CORS_ORIGIN")),
		AuditQueueSize:  getInt("AUDIT_QUEUE_SIZE", 1024),
		AuditQueryLimit: getInt("AUDIT_QUERY_LIMIT", 500),
		StaleRequestAge: getDuration("STALE_REQUEST_AGE", 72*time.Hour),
		LoginRate:       getInt("LOGIN_RATE", 10),
		TrustProxy:      getBool("TRUST_PROXY", false),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		NotifyFromEmail: getEnv("NOTIFY_FROM_EMAIL", "no-reply@court-records.local"),

		CloudinaryCloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryUploadPreset: os.Getenv("CLOUDINARY_UPLOAD_PRESET"),

		RegistrarName:     getEnv("REGISTRAR_NAME", "Court Registrar"),
		RegistrarEmail:    os.Getenv("REGISTRAR_EMAIL"),
		RegistrarPassword: os.Getenv("REGISTRAR_PASSWORD"),
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWTSecret = []byte(secret)
	} else {
		c.JWTSecret = generateSecret()
		zap.S().Warnw("JWT_SECRET not set, generated an ephemeral secret; tokens will not survive a restart")
	}

	return c
}

// setLogger builds the zap logger for the given environment name
func setLogger(env string) (*zap.Logger, error) {
	switch strings.ToLower(env) {
	case "production":
		return zap.NewProduction()
	case "development":
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		return cfg.Build()
	default:
		return zap.NewDevelopment()
	}
}

func generateSecret() []byte {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		zap.S().Fatalw("failed to generate jwt secret", "error", err)
	}
	return []byte(hex.EncodeToString(b))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		zap.S().Warnw("ignoring invalid integer setting", "key", key, "value", v)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		zap.S().Warnw("ignoring invalid boolean setting", "key", key, "value", v)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		zap.S().Warnw("ignoring invalid duration setting", "key", key, "value", v)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().Errorw(message, "status", httpStatusCode, "error", errText)
	} else {
		zap.S().Debugw(message, "status", httpStatusCode, "error", errText)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	_ = json.NewEncoder(w).Encode(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
}
