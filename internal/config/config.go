package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var ErrMissingConfig = errors.New("missing required config")

type Config struct {
	Server  ServerConfig
	S3      S3Config
	Origin  OriginConfig
	Decoder DecoderConfig
}

type ServerConfig struct {
	Address         string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	EnableCORS      bool
}

type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	Endpoint        string
	UsePathStyle    bool
	URLExpiry       time.Duration
}

type OriginConfig struct {
	Timeout            time.Duration
	InsecureSkipVerify bool
	MaxBodyBytes       int64
}

type DecoderConfig struct {
	MaxPixels int64
}

// legacyEnv maps keys to the variable names older deployments export.
var legacyEnv = map[string]string{
	"s3.access_key_id":     "S3_AWS_ACCESS_KEY_ID",
	"s3.secret_access_key": "S3_AWS_SECRET_ACCESS_KEY",
	"s3.bucket":            "S3_BUCKET",
}

func setDefaults() {
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("server.read_timeout", "10s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.enable_cors", false)

	viper.SetDefault("s3.region", "us-east-1")
	viper.SetDefault("s3.use_path_style", false)
	viper.SetDefault("s3.url_expiry", "600s")

	viper.SetDefault("origin.timeout", "8s")
	viper.SetDefault("origin.insecure_skip_verify", true)
	viper.SetDefault("origin.max_body_bytes", 64<<20)

	viper.SetDefault("decoder.max_pixels", 1024*1024*1024/4/3)
}

// Load reads config.toml from the working directory when present, then
// applies HASHIMG_* environment overrides and the legacy S3_* variables.
func Load() (Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("hashimg")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for key, legacy := range legacyEnv {
		prefixed := "HASHIMG_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := viper.BindEnv(key, prefixed, legacy); err != nil {
			return Config{}, fmt.Errorf("could not bind %s: %w", key, err)
		}
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("could not read config file: %w", err)
		}
	}

	cfg := Config{
		Server: ServerConfig{
			Address:         viper.GetString("server.address"),
			LogLevel:        viper.GetString("server.log_level"),
			ReadTimeout:     viper.GetDuration("server.read_timeout"),
			WriteTimeout:    viper.GetDuration("server.write_timeout"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
			EnableCORS:      viper.GetBool("server.enable_cors"),
		},
		S3: S3Config{
			AccessKeyID:     viper.GetString("s3.access_key_id"),
			SecretAccessKey: viper.GetString("s3.secret_access_key"),
			Bucket:          viper.GetString("s3.bucket"),
			Region:          viper.GetString("s3.region"),
			Endpoint:        viper.GetString("s3.endpoint"),
			UsePathStyle:    viper.GetBool("s3.use_path_style"),
			URLExpiry:       viper.GetDuration("s3.url_expiry"),
		},
		Origin: OriginConfig{
			Timeout:            viper.GetDuration("origin.timeout"),
			InsecureSkipVerify: viper.GetBool("origin.insecure_skip_verify"),
			MaxBodyBytes:       viper.GetInt64("origin.max_body_bytes"),
		},
		Decoder: DecoderConfig{
			MaxPixels: viper.GetInt64("decoder.max_pixels"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	if c.S3.AccessKeyID == "" {
		missing = append(missing, "s3.access_key_id")
	}
	if c.S3.SecretAccessKey == "" {
		missing = append(missing, "s3.secret_access_key")
	}
	if c.S3.Bucket == "" {
		missing = append(missing, "s3.bucket")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	return nil
}

// Level maps server.log_level onto zerolog, defaulting to info.
func (s ServerConfig) Level() zerolog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "info":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
