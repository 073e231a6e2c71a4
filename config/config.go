package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Configs struct {
	Env      string `toml:"env" env:"ENV"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
	NodeID   int64  `toml:"node_id" env:"NODE_ID"`

	Database  DatabaseConfigs `toml:"database" envPrefix:"DATABASE_"`
	ApiServer ServerConfigs   `toml:"api_server" envPrefix:"API_"`
	Auth      AuthConfigs     `toml:"auth" envPrefix:"AUTH_"`
	Session   SessionConfigs  `toml:"session" envPrefix:"SESSION_"`
	Redis     RedisConfigs    `toml:"redis" envPrefix:"REDIS_"`
	Kafka     KafkaConfigs    `toml:"kafka" envPrefix:"KAFKA_"`
	Storage   S3Configs       `toml:"storage" envPrefix:"STORAGE_"`
	Game      GameConfigs     `toml:"game" envPrefix:"GAME_"`
	Cron      CronConfigs     `toml:"cron" envPrefix:"CRON_"`
	Metric    MetricConfigs   `toml:"metric" envPrefix:"METRIC_"`
}

type DatabaseConfigs struct {
	// Driver is either sqlite or mysql.
	Driver   string `toml:"driver" env:"DRIVER"`
	Path     string `toml:"path" env:"PATH"`
	Host     string `toml:"host" env:"HOST"`
	Port     string `toml:"port" env:"PORT"`
	Database string `toml:"database" env:"NAME"`
	User     string `toml:"user" env:"USER"`
	Password string `toml:"password" env:"PASSWORD"`
}

func (d DatabaseConfigs) ConnectionString() string {
	if d.Driver == "sqlite" {
		return d.Path
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&multiStatements=true",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host           string   `toml:"host" env:"HOST"`
	Port           string   `toml:"port" env:"PORT"`
	AllowedOrigins []string `toml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
	MaxLimit       int      `toml:"max_limit" env:"MAX_LIMIT"`
	DefaultLimit   int      `toml:"default_limit" env:"DEFAULT_LIMIT"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret" env:"TOKEN_SECRET"`
	AccessToken TokenConfigs `toml:"access_token" envPrefix:"ACCESS_TOKEN_"`

	// DefaultAdminEmail and DefaultAdminPassword seed the admin config on the
	// first start only.
	DefaultAdminEmail    string `toml:"default_admin_email" env:"DEFAULT_ADMIN_EMAIL"`
	DefaultAdminPassword string `toml:"default_admin_password" env:"DEFAULT_ADMIN_PASSWORD"`
}

type TokenConfigs struct {
	Name       string        `toml:"name" env:"NAME"`
	Expiration time.Duration `toml:"expiration" env:"EXPIRATION"`
}

type SessionConfigs struct {
	Secret string        `toml:"secret" env:"SECRET"`
	Name   string        `toml:"name" env:"NAME"`
	TTL    time.Duration `toml:"ttl" env:"TTL"`
}

type RedisConfigs struct {
	// Addr is optional, sessions are kept in memory when it is empty.
	Addr     string        `toml:"addr" env:"ADDR"`
	StatsTTL time.Duration `toml:"stats_ttl" env:"STATS_TTL"`
}

type KafkaConfigs struct {
	// Addrs is optional, game events are dropped when it is empty.
	Addrs    []string `toml:"addrs" env:"ADDRS" envSeparator:","`
	ClientID string   `toml:"client_id" env:"CLIENT_ID"`
	Group    string   `toml:"group" env:"GROUP"`
}

type S3Configs struct {
	Region         string `toml:"region" env:"REGION"`
	Endpoint       string `toml:"endpoint" env:"ENDPOINT"`
	PublicEndpoint string `toml:"public_endpoint" env:"PUBLIC_ENDPOINT"`
	AccessKey      string `toml:"access_key" env:"ACCESS_KEY"`
	SecretKey      string `toml:"secret_key" env:"SECRET_KEY"`
	SSLDisabled    bool   `toml:"ssl_disabled" env:"SSL_DISABLED"`
	BackupBucket   string `toml:"backup_bucket" env:"BACKUP_BUCKET"`
}

func (s S3Configs) Enabled() bool {
	return s.Endpoint != "" && s.BackupBucket != ""
}

type GameConfigs struct {
	CodeLength      uint `toml:"code_length" env:"CODE_LENGTH"`
	CodeMaxAttempts int  `toml:"code_max_attempts" env:"CODE_MAX_ATTEMPTS"`
	AnalyticsSize   int  `toml:"analytics_size" env:"ANALYTICS_SIZE"`
	RecentDays      int  `toml:"recent_days" env:"RECENT_DAYS"`
}

type CronConfigs struct {
	BackupInterval    time.Duration `toml:"backup_interval" env:"BACKUP_INTERVAL"`
	ReconcileInterval time.Duration `toml:"reconcile_interval" env:"RECONCILE_INTERVAL"`
}

type MetricConfigs struct {
	Port string `toml:"port" env:"PORT"`
}

func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		NodeID:   1,
		Database: DatabaseConfigs{
			Driver: "sqlite",
			Path:   "spinwin.db",
		},
		ApiServer: ServerConfigs{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
			MaxLimit:       500,
			DefaultLimit:   100,
		},
		Auth: AuthConfigs{
			TokenSecret: "change-me",
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 12 * time.Hour,
			},
			DefaultAdminEmail:    "admin@example.com",
			DefaultAdminPassword: "adminPass",
		},
		Session: SessionConfigs{
			Secret: "change-me",
			Name:   "spinwin_session",
			TTL:    24 * time.Hour,
		},
		Redis: RedisConfigs{
			StatsTTL: 30 * time.Second,
		},
		Kafka: KafkaConfigs{
			ClientID: "spinwin",
			Group:    "spinwin-analytics",
		},
		Game: GameConfigs{
			CodeLength:      8,
			CodeMaxAttempts: 10,
			AnalyticsSize:   100,
			RecentDays:      7,
		},
		Cron: CronConfigs{
			BackupInterval:    24 * time.Hour,
			ReconcileInterval: time.Hour,
		},
		Metric: MetricConfigs{
			Port: "9090",
		},
	}
}

// Load starts from Default, overlays the TOML file at path (when it exists),
// then the .env file and finally the SPINWIN_ prefixed environment.
func Load(path string) (Configs, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Configs{}, fmt.Errorf("cannot decode config file %s: %w", path, err)
			}
		}
	}

	// A missing .env is normal outside local environments.
	_ = godotenv.Load()

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SPINWIN_"}); err != nil {
		return Configs{}, err
	}

	return cfg, nil
}
