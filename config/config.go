package config

import "os"

// DefaultDatabaseURL points at the local development database.
const DefaultDatabaseURL = "postgresql://devops:devops123@db:5432/tasksdb"

const DefaultAddr = ":5000"

type Config struct {
	// DatabaseURL selects the store: postgres://, postgresql://, sqlite:// or file:.
	DatabaseURL string
	Addr        string
	// Testing disables access logging and, when DatabaseURL is empty, uses an
	// in-memory SQLite database.
	Testing bool
}

// Load reads DATABASE_URL once, falling back to DefaultDatabaseURL.
func Load() Config {
	cfg := Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Addr:        DefaultAddr,
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = DefaultDatabaseURL
	}
	return cfg
}
