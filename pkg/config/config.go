package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tdms/pkg/client"
	"tdms/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Ledger policy.
	MaxStayNights int
	MaxRoomNumber int

	// Draft sync tuning. Rapid edits within the debounce window coalesce
	// into one write; a bucket failing SyncStaleThreshold consecutive saves
	// is reported as stale.
	SyncDebounce       time.Duration
	SyncFlushInterval  time.Duration
	SyncRetryMax       int
	SyncStaleThreshold int

	// Day of the following month on which a period's report is due.
	SubmissionDeadlineDay int

	KafkaBrokers []string
	KafkaTopic   string

	PaginationMaxLimit int

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		MaxStayNights: getEnvNum(EnvMaxStayNights, DefaultMaxStayNights),
		MaxRoomNumber: getEnvNum(EnvMaxRoomNumber, DefaultMaxRoomNumber),

		SyncDebounce:       getEnvDuration(EnvSyncDebounce, DefaultSyncDebounce),
		SyncFlushInterval:  getEnvDuration(EnvSyncFlushInterval, DefaultSyncFlushInterval),
		SyncRetryMax:       getEnvNum(EnvSyncRetryMax, DefaultSyncRetryMax),
		SyncStaleThreshold: getEnvNum(EnvSyncStaleThreshold, DefaultSyncStaleThreshold),

		SubmissionDeadlineDay: getEnvNum(EnvSubmissionDeadlineDay, DefaultSubmissionDeadlineDay),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		KafkaTopic:   getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),

		PaginationMaxLimit: DefaultPaginationMaxLimit,

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		problems = append(problems, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		problems = append(problems, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		problems = append(problems, "MongoDatabaseName cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout":  cfg.MongoConnTimeout,
		"RequestTimeout":    cfg.RequestTimeout,
		"ReadTimeout":       cfg.ReadTimeout,
		"WriteTimeout":      cfg.WriteTimeout,
		"IdleTimeout":       cfg.IdleTimeout,
		"ShutdownTimeout":   cfg.ShutdownTimeout,
		"SyncDebounce":      cfg.SyncDebounce,
		"SyncFlushInterval": cfg.SyncFlushInterval,
	} {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		problems = append(problems, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.MaxStayNights < 1 || cfg.MaxStayNights > 365 {
		problems = append(problems, fmt.Sprintf("MaxStayNights must be between 1 and 365, got: %d", cfg.MaxStayNights))
	}
	if cfg.MaxRoomNumber < 1 {
		problems = append(problems, fmt.Sprintf("MaxRoomNumber must be positive, got: %d", cfg.MaxRoomNumber))
	}
	if cfg.SyncRetryMax < 1 {
		problems = append(problems, fmt.Sprintf("SyncRetryMax must be positive, got: %d", cfg.SyncRetryMax))
	}
	if cfg.SyncStaleThreshold < 1 {
		problems = append(problems, fmt.Sprintf("SyncStaleThreshold must be positive, got: %d", cfg.SyncStaleThreshold))
	}
	if cfg.SubmissionDeadlineDay < 1 || cfg.SubmissionDeadlineDay > 28 {
		problems = append(problems, fmt.Sprintf("SubmissionDeadlineDay must be between 1 and 28, got: %d", cfg.SubmissionDeadlineDay))
	}

	if len(problems) > 0 {
		msg := "Configuration validation failed:\n"
		for i, p := range problems {
			msg += fmt.Sprintf("  %d. %s\n", i+1, p)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"max_stay_nights", cfg.MaxStayNights,
		"max_room_number", cfg.MaxRoomNumber,
		"sync_debounce", cfg.SyncDebounce,
		"sync_flush_interval", cfg.SyncFlushInterval,
		"sync_retry_max", cfg.SyncRetryMax,
		"sync_stale_threshold", cfg.SyncStaleThreshold,
		"submission_deadline_day", cfg.SubmissionDeadlineDay,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_topic", cfg.KafkaTopic,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
