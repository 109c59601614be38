package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type appEnv struct {
	DBReadTimeout  time.Duration `env:"DB_READ_TIMEOUT" envDefault:"5s"`
	DBWriteTimeout time.Duration `env:"DB_WRITE_TIMEOUT" envDefault:"5s"`

	// Deadline on the build-creating write. Expiry is reported as a
	// failure but does not cancel the in-flight request.
	BuildCreateTimeout time.Duration `env:"BUILD_CREATE_TIMEOUT" envDefault:"10s"`

	LocalBufferPath string `env:"LOCAL_BUFFER_PATH" envDefault:"pclogr.local.db"`

	// Identity the daemon establishes on startup; empty runs
	// unauthenticated against the local buffer only.
	UserID string `env:"APP_USER_ID"`
}

type app struct {
	raw appEnv
}

func NewAppConfig() (*app, error) {
	var raw appEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &app{raw: raw}, nil
}

func (cfg *app) DBReadTimeout() time.Duration      { return cfg.raw.DBReadTimeout }
func (cfg *app) DBWriteTimeout() time.Duration     { return cfg.raw.DBWriteTimeout }
func (cfg *app) BuildCreateTimeout() time.Duration { return cfg.raw.BuildCreateTimeout }
func (cfg *app) LocalBufferPath() string           { return cfg.raw.LocalBufferPath }
func (cfg *app) UserID() string                    { return cfg.raw.UserID }
