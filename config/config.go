package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL   string
	SchedulerSpec string
}

// Load загружает конфигурацию из переменных окружения. Опционально
// подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	schedulerSpec := os.Getenv("SCHEDULER_SPEC")
	if schedulerSpec == "" {
		schedulerSpec = "@every 30s" // Интервал по умолчанию
	}

	return &Config{
		DatabaseURL:   dbURL,
		SchedulerSpec: schedulerSpec,
	}, nil
}
