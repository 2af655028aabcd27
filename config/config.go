// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	uploadPath     = pflag.String("upload", "", "Upload a video file and print its share details instead of running the broker")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
)

// UploadPath returns the file passed with --upload, or "" when the
// process should run the broker server.
func UploadPath() string {
	return *uploadPath
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that. Missing credentials are only warned about: the broker
// rejects requests per call and uploads degrade gracefully.
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

	v.BindEnv("cloudflare.account_id", "cloudflare_account_id")
	v.BindEnv("cloudflare.api_token", "cloudflare_api_token")
	v.BindEnv("cloudflare.api_base", "cloudflare_api_base")

	v.BindEnv("mongo.uri", "mongo_uri")
	v.BindEnv("mongo.database", "mongo_database")

	v.BindEnv("viewer.base_url", "viewer_base_url")

	v.BindEnv("broker.url", "broker_url")
	v.BindEnv("broker.request_timeout", "broker_request_timeout")
	v.BindEnv("broker.transfer_timeout", "broker_transfer_timeout")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)

	v.SetDefault("mongo.database", "blueclova")

	v.SetDefault("viewer.base_url", "https://blueclova.com")

	v.SetDefault("broker.url", "http://localhost:8080")
	v.SetDefault("broker.request_timeout", 30*time.Second)
	v.SetDefault("broker.transfer_timeout", 300*time.Second)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}

		// Running on env vars alone is fine
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetString("cloudflare.account_id") == "" || v.GetString("cloudflare.api_token") == "" {
		fmt.Println("[WARNING]: Cloudflare Stream credentials are missing. The broker will refuse upload target requests until cloudflare.account_id and cloudflare.api_token are set")
	}

	if v.GetString("mongo.uri") == "" {
		fmt.Println("[WARNING]: mongo.uri is not set. Video records won't be persisted and viewer links will fall back to raw video IDs")
	}

	return nil
}
