package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config همه تنظیمات برنامه که صراحتاً به سازنده‌ها پاس داده می‌شود
type Config struct {
	AppEnv   string
	AppPort  string
	LogLevel string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string
	JWTTTL    time.Duration

	FeedPageSize   int
	MaxUploadBytes int64
	CORSOrigin     string

	StorageDriver string
	ImageDir      string
	S3Endpoint    string
	S3Region      string
	S3Bucket      string
	S3AccessKey   string
	S3SecretKey   string

	CleanupBatchSize    int
	CleanupPollInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_TTL", time.Hour)
	v.SetDefault("FEED_PAGE_SIZE", 2)
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("IMAGE_DIR", "images")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("CLEANUP_BATCH_SIZE", 100)
	v.SetDefault("CLEANUP_POLL_INTERVAL", 5*time.Second)
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	// .env اختیاری است
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	cfg := &Config{
		AppEnv:              v.GetString("APP_ENV"),
		AppPort:             v.GetString("APP_PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		DBDriver:            strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:               v.GetString("DB_DSN"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTTTL:              v.GetDuration("JWT_TTL"),
		FeedPageSize:        v.GetInt("FEED_PAGE_SIZE"),
		MaxUploadBytes:      v.GetInt64("MAX_UPLOAD_BYTES"),
		CORSOrigin:          v.GetString("CORS_ORIGIN"),
		StorageDriver:       strings.ToLower(v.GetString("STORAGE_DRIVER")),
		ImageDir:            v.GetString("IMAGE_DIR"),
		S3Endpoint:          v.GetString("S3_ENDPOINT"),
		S3Region:            v.GetString("S3_REGION"),
		S3Bucket:            v.GetString("S3_BUCKET"),
		S3AccessKey:         v.GetString("S3_ACCESS_KEY"),
		S3SecretKey:         v.GetString("S3_SECRET_KEY"),
		CleanupBatchSize:    v.GetInt("CLEANUP_BATCH_SIZE"),
		CleanupPollInterval: v.GetDuration("CLEANUP_POLL_INTERVAL"),
	}

	if cfg.FeedPageSize <= 0 {
		cfg.FeedPageSize = 2
	}
	if cfg.CleanupBatchSize <= 0 {
		cfg.CleanupBatchSize = 100 // مقدار پیش‌فرض
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is not set"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is not set"))
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		errs = append(errs, errors.New("DB_DRIVER must be one of mysql, postgres, sqlite"))
	}
	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is not set"))
		}
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be local or s3"))
	}
	return errors.Join(errs...)
}
