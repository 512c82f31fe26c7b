package app

import (
	"log/slog"

	"github.com/learnhub/courseguard/pkg/environment"
	"github.com/learnhub/courseguard/pkg/file"
	"github.com/learnhub/courseguard/pkg/httpserver"
	"github.com/learnhub/courseguard/pkg/logger"
	"github.com/learnhub/courseguard/pkg/mongo"
	"github.com/learnhub/courseguard/pkg/pg"
	"github.com/learnhub/courseguard/pkg/redis"
)

// Backend names accepted by the *_BACKEND variables.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendEntity   = "entity"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendLocal    = "local"
	BackendS3       = "s3"
	BackendNone     = "none"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"courseguard"`
	// LogLevel overrides the environment preset when set.
	LogLevel string `env:"LOG_LEVEL"`

	StoreBackend     string `env:"STORE_BACKEND" envDefault:"memory"`
	AuditBackend     string `env:"AUDIT_BACKEND" envDefault:"entity"`
	AuditAsync       bool   `env:"AUDIT_ASYNC" envDefault:"true"`
	RateLimitBackend string `env:"RATELIMIT_BACKEND" envDefault:"memory"`
	FileBackend      string `env:"FILE_BACKEND" envDefault:"local"`

	UploadDir     string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/media"`
	UploadMaxSize int64  `env:"UPLOAD_MAX_SIZE" envDefault:"10485760"`

	HTTP  httpserver.Config
	Redis redis.Config
	Mongo mongo.Config
	PG    pg.Config
	S3    file.S3Config
}

// LoggerOptions returns the logger preset for cfg.Env plus the LOG_LEVEL
// override, if it parses.
func (c Config) LoggerOptions() []logger.Option {
	opts := []logger.Option{logger.WithEnvironment(environment.Parse(c.Env), c.ServiceName)}
	var level slog.Level
	if c.LogLevel != "" && level.UnmarshalText([]byte(c.LogLevel)) == nil {
		opts = append(opts, logger.WithLevel(level))
	}
	return opts
}
