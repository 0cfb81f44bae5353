package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"strconv"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHost        = "localhost"
	DefaultPort        = "8080"
	DefaultConfigFile  = "config.yaml"
	DefaultAutoSave    = 5 * time.Second
	DefaultTimeout     = 30 * time.Second
	DefaultIdleTimeout = 30 * time.Minute
)

var ErrStorageURLRequired = errors.New("storage_api_url is required")

type Config struct {
	Debug              bool          `yaml:"debug"`
	Host               string        `yaml:"host"`
	Port               string        `yaml:"port"`
	BaseURL            string        `yaml:"base_url"`
	StorageAPIURL      string        `yaml:"storage_api_url"`
	LoginURL           string        `yaml:"login_url"`
	JWTSecret          string        `yaml:"jwt_secret"`
	AutoSaveDelay      time.Duration `yaml:"auto_save_delay"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
	AllowOrigins       []string      `yaml:"allow_origins"`
	OtelCollectorUrl   string        `yaml:"otel_collector_url"`
}

type LogBuffer struct {
	buffer []logEntry
}

type logEntry struct {
	msg  string
	err  error
	meta map[string]string
}

func NewConfigLogger() *LogBuffer {
	return &LogBuffer{}
}

func (cl *LogBuffer) Warn(msg string, err error, meta map[string]string) {
	cl.buffer = append(cl.buffer, logEntry{msg: msg, err: err, meta: meta})
}

// FlushToZap replays buffered messages once the real logger exists.
func (cl *LogBuffer) FlushToZap(logger *zap.Logger) {
	for _, e := range cl.buffer {
		var fields []zap.Field
		if e.err != nil {
			fields = append(fields, zap.Error(e.err))
		}
		for k, v := range e.meta {
			fields = append(fields, zap.String(k, v))
		}
		logger.Warn(e.msg, fields...)
	}
	cl.buffer = nil
}

func (c Config) Validate() error {
	if c.StorageAPIURL == "" {
		return ErrStorageURLRequired
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Debug:              false,
		Host:               DefaultHost,
		Port:               DefaultPort,
		AutoSaveDelay:      DefaultAutoSave,
		RequestTimeout:     DefaultTimeout,
		SessionIdleTimeout: DefaultIdleTimeout,
	}
}

// Load resolves the configuration from defaults, the config file, .env and the
// environment, then command line flags. Later sources win.
func Load() (Config, *LogBuffer) {
	logger := NewConfigLogger()

	config := defaults()

	var err error

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultConfigFile
	}
	config, err = FromFile(path, config, logger)
	if err != nil {
		logger.Warn("Failed to load config from file", err, map[string]string{"path": path})
	}

	config, err = FromEnv(config, logger)
	if err != nil {
		logger.Warn("Failed to load config from env", err, map[string]string{"path": ".env"})
	}

	config, err = FromFlags(config)
	if err != nil {
		logger.Warn("Failed to load config from flags", err, map[string]string{"path": "flags"})
	}

	return *config, logger
}

func FromFile(filePath string, config *Config, logger *LogBuffer) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		return config, errors.New("config file not found")
	}

	file, err := os.Open(filePath)
	if err != nil {
		return config, errors.New("failed to open config file")
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			logger.Warn("Failed to close config file", err, map[string]string{"path": filePath})
		}
	}(file)

	fileConfig := Config{}
	if err := yaml.NewDecoder(file).Decode(&fileConfig); err != nil {
		return config, errors.New("could not decode config file")
	}

	if err := mergo.Merge(config, &fileConfig, mergo.WithOverride); err != nil {
		return config, err
	}

	return config, nil
}

func FromEnv(config *Config, logger *LogBuffer) (*Config, error) {
	if err := godotenv.Overload(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		logger.Warn("Failed to load .env file", err, map[string]string{"path": ".env"})
	}

	envConfig := &Config{
		Debug:            os.Getenv("DEBUG") == "true",
		Host:             os.Getenv("HOST"),
		Port:             os.Getenv("PORT"),
		BaseURL:          os.Getenv("BASE_URL"),
		StorageAPIURL:    os.Getenv("STORAGE_API_URL"),
		LoginURL:         os.Getenv("LOGIN_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		OtelCollectorUrl: os.Getenv("OTEL_COLLECTOR_URL"),
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{key: "AUTO_SAVE_DELAY", target: &envConfig.AutoSaveDelay},
		{key: "REQUEST_TIMEOUT", target: &envConfig.RequestTimeout},
		{key: "SESSION_IDLE_TIMEOUT", target: &envConfig.SessionIdleTimeout},
	}
	for _, d := range durations {
		value, err := parseDuration(os.Getenv(d.key))
		if err != nil {
			logger.Warn("Ignoring invalid duration", err, map[string]string{"key": d.key})
			continue
		}
		*d.target = value
	}

	if err := mergo.Merge(config, envConfig, mergo.WithOverride); err != nil {
		return config, err
	}

	return config, nil
}

func FromFlags(config *Config) (*Config, error) {
	flagConfig := &Config{}

	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.BoolVar(&flagConfig.Debug, "debug", false, "debug mode")
	flags.StringVar(&flagConfig.Host, "host", "", "host")
	flags.StringVar(&flagConfig.Port, "port", "", "port")
	flags.StringVar(&flagConfig.StorageAPIURL, "storage_api_url", "", "survey storage REST API base URL")
	flags.StringVar(&flagConfig.LoginURL, "login_url", "", "where clients are sent after the storage service rejects their token")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return config, err
	}

	if err := mergo.Merge(config, flagConfig, mergo.WithOverride); err != nil {
		return config, err
	}

	return config, nil
}

// parseDuration accepts Go durations ("5s") and bare milliseconds ("5000").
func parseDuration(value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(value)
}
