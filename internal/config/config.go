package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	envconfig "github.com/pclogr/pclogr/internal/config/env"
)

var cfg *config

type config struct {
	Logger Logger
	Mongo  Database
	App    App
}

func Load(path ...string) error {
	const op = "config.Load"

	if shouldLoadDotenv() {
		if err := godotenv.Load(path...); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: load .env: %w", op, err)
		}
	}

	loggerCfg, err := envconfig.NewLoggerConfig()
	if err != nil {
		return fmt.Errorf("%s Logger: %w", op, err)
	}

	mongoCfg, err := envconfig.NewMongoConfig()
	if err != nil {
		return fmt.Errorf("%s Mongo: %w", op, err)
	}

	appCfg, err := envconfig.NewAppConfig()
	if err != nil {
		return fmt.Errorf("%s App: %w", op, err)
	}

	cfg = &config{
		Logger: loggerCfg,
		Mongo:  mongoCfg,
		App:    appCfg,
	}

	return nil
}

func C() *config { return cfg }

func shouldLoadDotenv() bool {
	return os.Getenv("APP_ENV") == "local"
}
