package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type RedisConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type KafkaConfig struct {
	Broker string `yaml:"broker"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UpstreamConfig lists the services the API gateway proxies to.
type UpstreamConfig struct {
	MenuSvcURL   string `yaml:"menu_svc_url"`
	OrderSvcURL  string `yaml:"order_svc_url"`
	RateSvcURL   string `yaml:"rate_svc_url"`
	NotifySvcURL string `yaml:"notify_svc_url"`
}

type Config struct {
	HTTPAddr      string         `yaml:"http_addr"`
	Database      DatabaseConfig `yaml:"database"`
	Redis         RedisConfig    `yaml:"redis"`
	Kafka         KafkaConfig    `yaml:"kafka"`
	Log           LogConfig      `yaml:"log"`
	JWTSecret     string         `yaml:"jwt_secret"`
	TaxRate       float64        `yaml:"tax_rate"`
	SandboxMode   bool           `yaml:"sandbox_mode"`
	PublicBaseURL string         `yaml:"public_base_url"`
	UploadDir     string         `yaml:"upload_dir"`
	Upstreams     UpstreamConfig `yaml:"upstreams"`
}

// servicePorts matches the upstream defaults so a local stack runs without
// per-service HTTP_ADDR settings.
var servicePorts = map[string]string{
	"api-gateway": ":8080",
	"menu-svc":    ":8081",
	"order-svc":   ":8082",
	"rate-svc":    ":8083",
	"notify-svc":  ":8084",
}

// DefaultHTTPAddr is the listen address a service uses when neither the
// config file nor HTTP_ADDR sets one.
func DefaultHTTPAddr(serviceName string) string {
	if addr, ok := servicePorts[serviceName]; ok {
		return addr
	}
	return ":8080"
}

func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Port: 5432, SSLMode: "disable"},
		Redis:    RedisConfig{Host: "localhost", Port: 6379},
		Kafka:    KafkaConfig{Broker: "localhost:9092"},
		Log:      LogConfig{Level: "info", Format: "json"},
		TaxRate:  0.05,

		PublicBaseURL: "http://localhost:3000",
		UploadDir:     "./uploads",
		Upstreams: UpstreamConfig{
			MenuSvcURL:   "http://localhost:8081",
			OrderSvcURL:  "http://localhost:8082",
			RateSvcURL:   "http://localhost:8083",
			NotifySvcURL: "http://localhost:8084",
		},
	}
}

// Load reads the optional YAML file at path and applies environment overrides
// on top of it. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFor is Load with serviceName's default listen address filled in.
func LoadFor(serviceName, path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr(serviceName)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.HTTPAddr, "HTTP_ADDR")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.Host, "DB_HOST")
	setString(&c.Database.Name, "DB_NAME")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Redis.Host, "REDIS_HOST")
	setString(&c.Kafka.Broker, "KAFKA_BROKER")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.PublicBaseURL, "PUBLIC_BASE_URL")
	setString(&c.UploadDir, "UPLOAD_DIR")
	setString(&c.Upstreams.MenuSvcURL, "MENU_SVC_URL")
	setString(&c.Upstreams.OrderSvcURL, "ORDER_SVC_URL")
	setString(&c.Upstreams.RateSvcURL, "RATE_SVC_URL")
	setString(&c.Upstreams.NotifySvcURL, "NOTIFY_SVC_URL")

	if err := setInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	if err := setInt(&c.Redis.Port, "REDIS_PORT"); err != nil {
		return err
	}
	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TAX_RATE %q: %w", v, err)
		}
		c.TaxRate = rate
	}
	if v := os.Getenv("SANDBOX_MODE"); v != "" {
		sandbox, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SANDBOX_MODE %q: %w", v, err)
		}
		c.SandboxMode = sandbox
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

// Requirement names a setting group a service cannot start without.
type Requirement int

const (
	RequireDatabase Requirement = 1 << iota
	RequireSecret

	RequireAll = RequireDatabase | RequireSecret
)

// Validate refuses to start without database settings or a signing secret.
func (c *Config) Validate() error {
	return c.ValidateFor(RequireAll)
}

// ValidateFor checks only the setting groups in req, plus the tax rate.
func (c *Config) ValidateFor(req Requirement) error {
	var errs []error
	if req&RequireDatabase != 0 && c.Database.URL == "" && (c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "") {
		errs = append(errs, errors.New("database connection settings are missing (DATABASE_URL or DB_HOST/DB_NAME/DB_USER)"))
	}
	if req&RequireSecret != 0 && strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if math.IsNaN(c.TaxRate) || c.TaxRate < 0 || c.TaxRate > 1 {
		errs = append(errs, fmt.Errorf("tax rate %v outside [0,1]", c.TaxRate))
	}
	return errors.Join(errs...)
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return "host=" + d.Host + " port=" + strconv.Itoa(d.Port) + " user=" + d.User +
		" password=" + d.Password + " dbname=" + d.Name + " sslmode=" + d.SSLMode
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + strconv.Itoa(r.Port)
}

func MustInitPostgres(cfg DatabaseConfig, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err = db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg RedisConfig, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	return client
}

// NewKafkaGroupReader consumes several topics under one consumer group.
func NewKafkaGroupReader(cfg KafkaConfig, groupID string, topics ...string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{cfg.Broker},
		GroupID:     groupID,
		GroupTopics: topics,
	})
}

func NewKafkaWriter(cfg KafkaConfig, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
