package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

type Config struct {
	Http      *HTTPConfig
	Db        *PGDBCfg
	Telemetry *TelemetryCfg
	Swagger   *SwaggerCfg
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int32
}

// DSN возвращает строку подключения в формате key=value.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Password,
		c.DBName,
		c.SSLMode,
	)
}

type TelemetryCfg struct {
	Endpoint    string // OTLP HTTP endpoint, пустая строка отключает экспорт
	ServiceName string
	Environment string
}

// Enabled сообщает, нужно ли поднимать экспорт трейсов и метрик.
func (c *TelemetryCfg) Enabled() bool {
	return c.Endpoint != ""
}

type SwaggerCfg struct {
	Enabled bool
	Host    string // хост, по которому UI запрашивает doc.json
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Если рядом лежит .env, переменные из него подхватываются, но не перетирают окружение.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("failed to read .env file: %v", err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	swagger, err := loadSwaggerCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:      http,
		Db:        db,
		Telemetry: loadTelemetryCfg(),
		Swagger:   swagger,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort            = "8080"
		defaultReadTimeout     = 5 * time.Second
		defaultWriteTimeout    = 10 * time.Second
		defaultIdleTimeout     = 60 * time.Second
		defaultShutdownTimeout = 10 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("HTTP_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &HTTPConfig{
		Port:            port,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
		IdleTimeout:     idleTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost     = "localhost"
		defaultPort     = "5432"
		defaultSSLMode  = "disable"
		defaultMaxConns = 10
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	maxConns, err := parseIntEnv("POSTGRES_MAX_CONNS", defaultMaxConns)
	if err != nil || maxConns <= 0 {
		if err == nil {
			err = e.ErrIncorrectEnvVariable
		}
		log.Errorf(err, "invalid POSTGRES_MAX_CONNS")
		return nil, e.Wrap("POSTGRES_MAX_CONNS", err)
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MaxConns: int32(maxConns),
	}, nil
}

func loadTelemetryCfg() *TelemetryCfg {
	const (
		defaultServiceName = "catalog-backend"
		defaultEnvironment = "development"
	)

	return &TelemetryCfg{
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName: getEnvOrDefault("OTEL_SERVICE_NAME", defaultServiceName),
		Environment: getEnvOrDefault("DEPLOY_ENV", defaultEnvironment),
	}
}

func loadSwaggerCfg(log logger.Logger) (*SwaggerCfg, error) {
	const (
		defaultEnabled = true
		defaultHost    = "localhost:8080"
	)

	enabled, err := strconv.ParseBool(getEnvOrDefault("SWAGGER_ENABLED", strconv.FormatBool(defaultEnabled)))
	if err != nil {
		log.Errorf(err, "invalid SWAGGER_ENABLED")
		return nil, err
	}

	return &SwaggerCfg{
		Enabled: enabled,
		Host:    getEnvOrDefault("SWAGGER_HOST", defaultHost),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
