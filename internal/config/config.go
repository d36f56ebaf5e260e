package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DatabaseURL string
	LogLevel    string
	DBDebug     bool
}

func Load() Config {
	return Config{
		DatabaseURL: getEnv("DATABASE_URL", DefaultDatabaseURL()),
		LogLevel:    getEnv("LOG_LEVEL", "warn"),
		DBDebug:     getBoolEnv("DB_DEBUG", false),
	}
}

// DefaultDatabaseURL указывает на SQLite-файл рядом с исполняемым файлом: <dir>/db/todos_db.db
func DefaultDatabaseURL() string {
	dir := "."
	if exe, err := os.Executable(); err == nil {
		dir = filepath.Dir(exe)
	}
	return "sqlite:///" + filepath.Join(dir, "db", "todos_db.db")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
