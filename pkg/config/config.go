package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "brandquill"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "BRANDQUILL_APP_ENV"
	EnvPort   = "BRANDQUILL_APP_PORT"

	EnvDBDSN  = "BRANDQUILL_DB_DSN"
	EnvDBHost = "BRANDQUILL_DB_HOST"
	EnvDBUser = "BRANDQUILL_DB_USER"
	EnvDBName = "BRANDQUILL_DB_NAME"

	EnvRedisURL = "BRANDQUILL_REDIS_URL"

	EnvJWTSecret  = "BRANDQUILL_JWT_SECRET"
	EnvJWTIssuer  = "BRANDQUILL_JWT_ISSUER"
	EnvJWTExpMins = "BRANDQUILL_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID          = "BRANDQUILL_GCP_PROJECT_ID"
	EnvPubSubContractTopic   = "BRANDQUILL_PUBSUB_CONTRACT_TOPIC"
	EnvPubSubNotificationSub = "BRANDQUILL_PUBSUB_NOTIFICATION_SUBSCRIPTION"
	EnvPubSubAnalyticsSub    = "BRANDQUILL_PUBSUB_ANALYTICS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Eventing     EventingConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	BigQuery     BigQueryConfig
	Outbox       OutboxConfig
	Cron         CronConfig
	Contracts    ContractsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BRANDQUILL_APP_ENV" required:"true"`
	Port         string `envconfig:"BRANDQUILL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BRANDQUILL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BRANDQUILL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BRANDQUILL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BRANDQUILL_DB_DSN"`
	Driver string `envconfig:"BRANDQUILL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BRANDQUILL_DB_HOST"`
	LegacyPort     int    `envconfig:"BRANDQUILL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BRANDQUILL_DB_USER"`
	LegacyPassword string `envconfig:"BRANDQUILL_DB_PASSWORD"`
	LegacyName     string `envconfig:"BRANDQUILL_DB_NAME"`
	LegacySSLMode  string `envconfig:"BRANDQUILL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BRANDQUILL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BRANDQUILL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BRANDQUILL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BRANDQUILL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BRANDQUILL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BRANDQUILL_REDIS_ADDR"`
	Password     string        `envconfig:"BRANDQUILL_REDIS_PASSWORD"`
	DB           int           `envconfig:"BRANDQUILL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BRANDQUILL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BRANDQUILL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BRANDQUILL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BRANDQUILL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BRANDQUILL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"BRANDQUILL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"BRANDQUILL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"BRANDQUILL_JWT_EXPIRATION_MINUTES" required:"true"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BRANDQUILL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BRANDQUILL_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	ConsumerIdempotencyTTL time.Duration `envconfig:"BRANDQUILL_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"BRANDQUILL_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"BRANDQUILL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"BRANDQUILL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ContractTopic            string `envconfig:"BRANDQUILL_PUBSUB_CONTRACT_TOPIC" default:"bq-contract-events"`
	RenderTopic              string `envconfig:"BRANDQUILL_PUBSUB_RENDER_TOPIC" default:"bq-render-requests"`
	NotificationSubscription string `envconfig:"BRANDQUILL_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
	AnalyticsSubscription    string `envconfig:"BRANDQUILL_PUBSUB_ANALYTICS_SUBSCRIPTION" required:"true"`
}

type BigQueryConfig struct {
	Dataset             string `envconfig:"BRANDQUILL_BIGQUERY_DATASET" default:"brandquill"`
	ContractFunnelTable string `envconfig:"BRANDQUILL_BIGQUERY_CONTRACT_FUNNEL_TABLE" default:"contract_funnel_events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BRANDQUILL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BRANDQUILL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BRANDQUILL_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type CronConfig struct {
	OutboxRetention         time.Duration `envconfig:"BRANDQUILL_CRON_OUTBOX_RETENTION" default:"168h"`
	OutboxRetentionInterval time.Duration `envconfig:"BRANDQUILL_CRON_OUTBOX_RETENTION_INTERVAL" default:"1h"`
	ReminderAge             time.Duration `envconfig:"BRANDQUILL_CRON_CONTRACT_REMINDER_AGE" default:"72h"`
	ReminderInterval        time.Duration `envconfig:"BRANDQUILL_CRON_CONTRACT_REMINDER_INTERVAL" default:"6h"`
	NotificationRetention   time.Duration `envconfig:"BRANDQUILL_CRON_NOTIFICATION_RETENTION" default:"720h"`
	NotificationInterval    time.Duration `envconfig:"BRANDQUILL_CRON_NOTIFICATION_INTERVAL" default:"24h"`
	LockTTL                 time.Duration `envconfig:"BRANDQUILL_CRON_LOCK_TTL" default:"30m"`
}

type ContractsConfig struct {
	SignatureMaxBytes int `envconfig:"BRANDQUILL_CONTRACT_SIGNATURE_MAX_BYTES" default:"51200"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
