package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	BotToken        string
	JWTSecret       string
	TokenExpiration time.Duration
	AdminChatID     int64
	NotifyInterval  time.Duration
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
func Load() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}

	// Токен бота: нужен и для проверки initData, и для уведомлений
	cfg.BotToken = os.Getenv("TG_BOT_TOKEN")

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default-secret-change-in-production"
	}

	// Время жизни токена
	cfg.TokenExpiration = 24 * time.Hour

	// Чат администраторов для сводок по заявкам на вывод
	if envChatID := os.Getenv("ADMIN_CHAT_ID"); envChatID != "" {
		if chatID, err := strconv.ParseInt(envChatID, 10, 64); err == nil {
			cfg.AdminChatID = chatID
		}
	}

	// Интервал рассылки сводок
	cfg.NotifyInterval = 5 * time.Minute
	if envInterval := os.Getenv("NOTIFY_INTERVAL"); envInterval != "" {
		if interval, err := time.ParseDuration(envInterval); err == nil {
			cfg.NotifyInterval = interval
		}
	}

	return cfg
}
