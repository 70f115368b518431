package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	SessionSecret       string
	DatabaseURL         string // "sqlite:<path>" selects the embedded driver
	DBConnectTimeout    time.Duration
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string

	StorageDriver     string // supabase | s3
	StorageBucket     string
	SupabaseURL       string
	SupabaseSecretKey string // service_role key; the anon key cannot write to storage
	S3Region          string
	S3Bucket          string
	S3AccessKey       string
	S3SecretKey       string
	S3Endpoint        string
	S3BaseURL         string

	SendinblueAPIKey string // Brevo transactional mail; empty disables notification e-mail
	MailFrom         string
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DB_CONNECT_TIMEOUT", "30s")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("STORAGE_DRIVER", "supabase")
	viper.SetDefault("STORAGE_BUCKET", "images")
	viper.SetDefault("MAIL_FROM", "noreply@agriconnect.com")

	timeout := viper.GetDuration("DB_CONNECT_TIMEOUT")
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	s3Bucket := viper.GetString("S3_BUCKET")
	if s3Bucket == "" {
		s3Bucket = viper.GetString("STORAGE_BUCKET")
	}

	return &Config{
		Env:                 strings.ToLower(viper.GetString("APP_ENV")),
		Port:                viper.GetString("PORT"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		DBConnectTimeout:    timeout,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		StorageDriver:       strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		StorageBucket:       viper.GetString("STORAGE_BUCKET"),
		SupabaseURL:         viper.GetString("SUPABASE_URL"),
		SupabaseSecretKey:   viper.GetString("SUPABASE_SECRET_KEY"),
		S3Region:            viper.GetString("S3_REGION"),
		S3Bucket:            s3Bucket,
		S3AccessKey:         viper.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         viper.GetString("S3_SECRET_KEY"),
		S3Endpoint:          viper.GetString("S3_ENDPOINT"),
		S3BaseURL:           viper.GetString("S3_BASE_URL"),
		SendinblueAPIKey:    viper.GetString("SENDINBLUE_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
	}, nil
}
