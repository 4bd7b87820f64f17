package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env       Env
	Server    ServerConfig
	Database  DatabaseConfig
	Minio     MinioConfig
	Upload    UploadConfig
	Cleanup   CleanupConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	NATS      NATSConfig
}

type Env struct {
	Env string `envconfig:"ENV" default:"DEV"`
}

type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"localhost"`
	Port string `envconfig:"SERVER_PORT" default:"8080"`
}

type MinioConfig struct {
	Endpoint                  string        `envconfig:"MINIO_ENDPOINT" required:"true"`
	BucketName                string        `envconfig:"MINIO_BUCKET_NAME" required:"true"`
	AccessKey                 string        `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey                 string        `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UploadPresignedDuration   time.Duration `envconfig:"MINIO_UPLOAD_PRESIGNED_DURATION" default:"1h"`
	PartPresignedDuration     time.Duration `envconfig:"MINIO_PART_PRESIGNED_DURATION" default:"1h"`
	DownloadSignedURLDuration time.Duration `envconfig:"MINIO_DOWNLOAD_SIGNED_URL_DURATION" default:"15m"`
	UseSSL                    bool          `envconfig:"MINIO_USE_SSL" default:"false"`
}

// UploadConfig carries every planning limit so services can be constructed
// with injected thresholds instead of reading the process environment.
type UploadConfig struct {
	MultipartThreshold int64 `envconfig:"UPLOAD_MULTIPART_THRESHOLD" default:"52428800"` // 50MB
	TargetParts        int   `envconfig:"UPLOAD_TARGET_PARTS" default:"6"`
	MinChunkSize       int64 `envconfig:"UPLOAD_MIN_CHUNK_SIZE" default:"5242880"`    // 5MB, provider minimum
	MaxChunkSize       int64 `envconfig:"UPLOAD_MAX_CHUNK_SIZE" default:"5368709120"` // 5GB, provider maximum
	MaxParts           int   `envconfig:"UPLOAD_MAX_PARTS" default:"10000"`           // provider part-count ceiling
	MaxFileSize        int64 `envconfig:"UPLOAD_MAX_FILE_SIZE" default:"1048576000"`  // 1000MB absolute ceiling
	MaxBatchFiles      int   `envconfig:"UPLOAD_MAX_BATCH_FILES" default:"25"`
}

type CleanupConfig struct {
	Threshold time.Duration `envconfig:"CLEANUP_THRESHOLD" default:"24h"`
	Every     time.Duration `envconfig:"CLEANUP_EVERY" default:"1h"`
}

type RateLimitConfig struct {
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type AuthConfig struct {
	JWTSecret string `envconfig:"AUTH_JWT_SECRET" required:"true"`
}

type NATSConfig struct {
	URL          string `envconfig:"NATS_URL" required:"true"`
	StreamName   string `envconfig:"NATS_STREAM_NAME" required:"true"`
	ConsumerName string `envconfig:"NATS_CONSUMER_NAME" required:"true"`
	Subject      string `envconfig:"NATS_SUBJECT" required:"true"`
	DeliverGroup string `envconfig:"NATS_DELIVER_GROUP" required:"true"`
}

type DatabaseConfig struct {
	Host           string        `envconfig:"DB_HOST" required:"true"`
	Port           int           `envconfig:"DB_PORT" default:"5432"`
	User           string        `envconfig:"DB_USER" required:"true"`
	Password       string        `envconfig:"DB_PASSWORD" required:"true"`
	Name           string        `envconfig:"DB_NAME" required:"true"`
	SSLMode        string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenCons    int           `envconfig:"DB_MAX_OPEN_CONS" default:"25"`
	MaxIdleCons    int           `envconfig:"DB_MAX_IDLE_CONS" default:"5"`
	ConMaxLifeTime time.Duration `envconfig:"DB_CONMAX_LIFE_TIME" default:"5m"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
