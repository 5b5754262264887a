package config

import (
	"log"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level string
	JSON  bool
	// 文件切割（可选）
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int // 0 = 不过期
}

type Redis struct {
	Enable   bool   `mapstructure:"enable"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TTLSec   int    `mapstructure:"ttl_sec"`
}

type DB struct {
	Driver             string // postgres / mysql / sqlite
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Payment struct {
	Provider       string `mapstructure:"provider"` // stripe / omise / none
	StripeKey      string `mapstructure:"stripe_key"`
	OmisePublicKey string `mapstructure:"omise_public_key"`
	OmiseSecretKey string `mapstructure:"omise_secret_key"`
	OmiseSource    string `mapstructure:"omise_source"` // 默认 promptpay
	Currency       string `mapstructure:"currency"`
}

type Identity struct {
	Provider        string `mapstructure:"provider"` // firebase / none
	CredentialsFile string `mapstructure:"credentials_file"`
	ProjectID       string `mapstructure:"project_id"`
}

type MQ struct {
	Enable   bool   `mapstructure:"enable"`
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type Tracing struct {
	Enable   bool   `mapstructure:"enable"`
	Endpoint string `mapstructure:"endpoint"`
}

type Orders struct {
	RequireAuth bool `mapstructure:"require_auth"`
}

type Limits struct {
	RPS          float64 `mapstructure:"rps"`
	Burst        int     `mapstructure:"burst"`
	PerIPRPS     float64 `mapstructure:"per_ip_rps"`
	PerIPBurst   int     `mapstructure:"per_ip_burst"`
	Concurrency  int64   `mapstructure:"concurrency"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
	TimeoutSec   int     `mapstructure:"timeout_sec"`
}

type Config struct {
	App      App
	Log      Log
	JWT      JWT
	DB       DB
	Redis    Redis    `mapstructure:"redis"`
	Payment  Payment  `mapstructure:"payment"`
	Identity Identity `mapstructure:"identity"`
	MQ       MQ       `mapstructure:"mq"`
	Tracing  Tracing  `mapstructure:"tracing"`
	Orders   Orders   `mapstructure:"orders"`
	Limits   Limits   `mapstructure:"limits"`
}

// Secrets 敏感配置只从环境变量读取，覆盖 yaml 里的同名项
type Secrets struct {
	JWTSecret      string `envconfig:"ACCESS_TOKEN"`
	DBDSN          string `envconfig:"DB_DSN"`
	DBPassword     string `envconfig:"DB_PASSWORD"`
	RedisPassword  string `envconfig:"REDIS_PASSWORD"`
	StripeKey      string `envconfig:"STRIPE_SECRET_KEY"`
	OmisePublicKey string `envconfig:"OMISE_PUBLIC_KEY"`
	OmiseSecretKey string `envconfig:"OMISE_SECRET_KEY"`
	FirebaseCreds  string `envconfig:"FIREBASE_CREDENTIALS"`
	AMQPURL        string `envconfig:"AMQP_URL"`
	Port           int    `envconfig:"PORT"`
}

// Default 本地/测试用默认值
func Default() *Config {
	return &Config{
		App: App{Name: "used-market", Env: "dev", HTTP: HTTP{
			Host: "0.0.0.0", Port: 5000, ReadTimeoutSec: 5, WriteTimeoutSec: 10, IdleTimeoutSec: 60,
		}},
		Log:     Log{Level: "info"},
		JWT:     JWT{Secret: "dev-secret"},
		DB:      DB{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1, AutoMigrate: true, LogLevel: "silent"},
		Redis:   Redis{TTLSec: 300},
		Payment: Payment{Provider: "none", Currency: "usd", OmiseSource: "promptpay"},
		Identity: Identity{
			Provider: "none",
		},
		MQ: MQ{Exchange: "used.events"},
		Limits: Limits{
			RPS: 200, Burst: 400, PerIPRPS: 50, PerIPBurst: 100,
			Concurrency: 300, MaxBodyBytes: 16 << 20, TimeoutSec: 10,
		},
	}
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	c := Default()
	if err := v.Unmarshal(c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	var s Secrets
	if err := envconfig.Process("", &s); err != nil {
		log.Fatalf("read env secrets: %v", err)
	}
	c.ApplySecrets(s)
	return c
}

func (c *Config) ApplySecrets(s Secrets) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.JWT.Secret, s.JWTSecret)
	set(&c.DB.DSN, s.DBDSN)
	set(&c.DB.Password, s.DBPassword)
	set(&c.Redis.Password, s.RedisPassword)
	set(&c.Payment.StripeKey, s.StripeKey)
	set(&c.Payment.OmisePublicKey, s.OmisePublicKey)
	set(&c.Payment.OmiseSecretKey, s.OmiseSecretKey)
	set(&c.Identity.CredentialsFile, s.FirebaseCreds)
	set(&c.MQ.URL, s.AMQPURL)
	if s.Port > 0 {
		c.App.HTTP.Port = s.Port
	}
}
