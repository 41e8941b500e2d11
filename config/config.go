// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	workerOnly = pflag.Bool("worker-only", false, "Run only the processing worker without the HTTP API")

	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDBTypes   = []string{"sqlite", "postgres"}
)

// WorkerOnly reports whether the process should skip the HTTP API and
// run only the queue consumer.
func WorkerOnly() bool {
	return *workerOnly
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("database.type", "database_type")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("redis.addr", "redis_addr")
	v.BindEnv("redis.password", "redis_password")
	v.BindEnv("redis.db", "redis_db")

	v.BindEnv("aws.access_key", "aws_access_key")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.endpoint", "aws_endpoint")
	v.BindEnv("aws.public_url", "aws_public_url")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("upload.presign_ttl", "upload_presign_ttl")
	v.BindEnv("upload.max_name_length", "upload_max_name_length")

	v.BindEnv("processing.max_attempts", "processing_max_attempts")
	v.BindEnv("processing.concurrency", "processing_concurrency")
	v.BindEnv("processing.image_max_dimension", "processing_image_max_dimension")
	v.BindEnv("processing.image_quality", "processing_image_quality")

	v.BindEnv("reconcile.interval", "reconcile_interval")
	v.BindEnv("reconcile.min_age", "reconcile_min_age")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("upload.presign_ttl", "1h")
	v.SetDefault("upload.max_name_length", 255)

	v.SetDefault("processing.max_attempts", 3)
	v.SetDefault("processing.concurrency", 4)
	v.SetDefault("processing.image_max_dimension", 2560)
	v.SetDefault("processing.image_quality", 80)

	v.SetDefault("reconcile.interval", "5m")
	v.SetDefault("reconcile.min_age", "10m")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBTypes, v.GetString("database.type")) {
		return errors.New("invalid database type provided")
	}

	if v.GetString("database.dsn") == "" {
		return errors.New("database dsn can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		return errors.New("jwt secret can't be empty")
	}

	if v.GetString("aws.access_key") == "" {
		return errors.New("access key can't be empty")
	}
	if v.GetString("aws.secret_access_key") == "" {
		return errors.New("secret access key can't be empty")
	}
	if v.GetString("aws.bucket") == "" {
		return errors.New("bucket can't be empty")
	}
	if v.GetString("aws.public_url") == "" {
		return errors.New("public url can't be empty")
	}

	if v.GetInt("processing.max_attempts") <= 0 {
		return errors.New("processing.max_attempts must be bigger than 0")
	}

	if v.GetInt("processing.concurrency") <= 0 {
		return errors.New("processing.concurrency must be bigger than 0")
	}

	q := v.GetInt("processing.image_quality")
	if q <= 0 || q > 100 {
		return errors.New("processing.image_quality must be between 1 and 100")
	}

	if v.GetInt("processing.image_max_dimension") <= 0 {
		return errors.New("processing.image_max_dimension must be bigger than 0")
	}

	if v.GetDuration("upload.presign_ttl") <= 0 {
		return errors.New("upload.presign_ttl must be a positive duration")
	}

	if v.GetDuration("reconcile.min_age") <= 0 {
		zap.L().Warn("reconcile.min_age not set, stuck uploads won't be re-enqueued")
	}

	return nil
}
