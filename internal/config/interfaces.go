package config

import "time"

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	DatabaseName() string
	PartsCollection() string
	BuildsCollection() string
	DSN() string
}

type App interface {
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
	BuildCreateTimeout() time.Duration
	LocalBufferPath() string
	UserID() string
}
