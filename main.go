package main

import (
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func main() {
	env, err := loadEnv()
	if err != nil {
		slog.Default().Error("invalid environment", "error", err)
		os.Exit(1)
	}

	if env.SentryDSN != "" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              env.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			slog.Default().Error("sentry init failed", "error", err)
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
	}

	app := &App{
		config: NewConfig(env),
		logger: slog.Default(),
	}
	app.start()
}

// loadEnv reads the environment into Env and validates it.
func loadEnv() (*Env, error) {
	v := viper.New()
	v.AutomaticEnv()

	// AutomaticEnv alone does not populate Unmarshal; bind every key.
	var env Env
	t := reflect.TypeOf(env)
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "" {
			_ = v.BindEnv(key)
		}
	}

	if err := v.Unmarshal(&env); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&env); err != nil {
		return nil, err
	}

	return &env, nil
}
