package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Storage StorageConfig
	MinIO   MinIOConfig
	S3      S3Config
	JWT     JWTConfig
	Upload  UploadConfig
	Share   ShareConfig
	SSO     SSOConfig
	Redis   RedisConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port        string
	FrontendURL string
	BackendURL  string
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

type StorageConfig struct {
	Driver string
}

type MinIOConfig struct {
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	UseSSL         bool
}

type S3Config struct {
	Region    string
	Bucket    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type UploadConfig struct {
	MaxBytes int64
}

type ShareConfig struct {
	URLExpiry time.Duration
}

// LinkPolicy decides whether a federated login may attach to an existing
// password account that has the same email address.
type LinkPolicy string

const (
	LinkPolicyVerified LinkPolicy = "verified"
	LinkPolicyNever    LinkPolicy = "never"
	LinkPolicyAlways   LinkPolicy = "always"
)

type SSOConfig struct {
	LinkPolicy LinkPolicy
	StateTTL   time.Duration
	Google     OAuthProviderConfig
	OIDC       OAuthProviderConfig
}

type OAuthProviderConfig struct {
	Enabled      bool
	ClientID     string
	ClientSecret string
	RedirectURL  string
	IssuerURL    string
	Scopes       string
}

type RedisConfig struct {
	URL string
}

type LogConfig struct {
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

const googleIssuer = "https://accounts.google.com"

func Load() *Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load(getEnv("ENV_FILE", ".env"))

	backendURL := strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8080/api"), "/")

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", getEnv("PORT", "8080")),
			FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
			BackendURL:  backendURL,
		},
		DB: DBConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "clouddrive"),
			Password:   getEnv("DB_PASSWORD", "clouddrive_secret"),
			Name:       getEnv("DB_NAME", "clouddrive"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "clouddrive.db"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", "minio")),
		},
		MinIO: MinIOConfig{
			Endpoint:       getEnv("MINIO_ENDPOINT", "localhost:9000"),
			PublicEndpoint: getEnv("MINIO_PUBLIC_ENDPOINT", getEnv("MINIO_ENDPOINT", "localhost:9000")),
			AccessKey:      getEnv("MINIO_ACCESS_KEY", "clouddrive"),
			SecretKey:      getEnv("MINIO_SECRET_KEY", "clouddrive_secret"),
			Bucket:         getEnv("MINIO_BUCKET", "clouddrive"),
			Region:         getEnv("MINIO_REGION", "us-east-1"),
			UseSSL:         getEnvAsBool("MINIO_USE_SSL", false),
		},
		S3: S3Config{
			Region:    getEnv("AWS_REGION", "us-east-1"),
			Bucket:    getEnv("AWS_S3_BUCKET_NAME", "clouddrive"),
			Endpoint:  getEnv("AWS_S3_ENDPOINT", ""),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "change-me-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 100*1024*1024)),
		},
		Share: ShareConfig{
			URLExpiry: getEnvAsDuration("SIGNED_URL_EXPIRY", time.Hour),
		},
		SSO: SSOConfig{
			LinkPolicy: parseLinkPolicy(getEnv("SSO_LINK_POLICY", string(LinkPolicyVerified))),
			StateTTL:   getEnvAsDuration("SSO_STATE_TTL", 10*time.Minute),
			Google: OAuthProviderConfig{
				Enabled:      getEnvAsBool("OAUTH_GOOGLE_ENABLED", getEnv("GOOGLE_CLIENT_ID", "") != ""),
				ClientID:     getEnv("OAUTH_GOOGLE_CLIENT_ID", getEnv("GOOGLE_CLIENT_ID", "")),
				ClientSecret: getEnv("OAUTH_GOOGLE_CLIENT_SECRET", getEnv("GOOGLE_CLIENT_SECRET", "")),
				RedirectURL:  getEnv("OAUTH_GOOGLE_REDIRECT_URL", backendURL+"/auth/sso/google/callback"),
				IssuerURL:    googleIssuer,
				Scopes:       getEnv("OAUTH_GOOGLE_SCOPES", "openid,email,profile"),
			},
			OIDC: OAuthProviderConfig{
				Enabled:      getEnvAsBool("OAUTH_OIDC_ENABLED", false),
				ClientID:     getEnv("OAUTH_OIDC_CLIENT_ID", ""),
				ClientSecret: getEnv("OAUTH_OIDC_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("OAUTH_OIDC_REDIRECT_URL", backendURL+"/auth/sso/oidc/callback"),
				IssuerURL:    strings.TrimRight(getEnv("OAUTH_OIDC_ISSUER_URL", ""), "/"),
				Scopes:       getEnv("OAUTH_OIDC_SCOPES", "openid,email,profile"),
			},
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Log: LogConfig{
			FilePath:   getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
	}
}

// BodyLimit is the fiber request body ceiling: the upload limit plus headroom for
// multipart framing, so oversized files reach the handler's own size check.
func (c *Config) BodyLimit() int {
	return int(c.Upload.MaxBytes) + 1024*1024
}

func parseLinkPolicy(value string) LinkPolicy {
	switch LinkPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case LinkPolicyNever:
		return LinkPolicyNever
	case LinkPolicyAlways:
		return LinkPolicyAlways
	default:
		return LinkPolicyVerified
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
