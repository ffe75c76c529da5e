package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultBookingWindowDays = 14

type Config struct {
	TelegramToken     string
	DBDSN             string
	Environment       string
	AdminIDs          []int64
	Timezone          string
	BookingWindowDays int
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		Timezone:      os.Getenv("TIMEZONE"),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Europe/Moscow"
	}

	var err error
	cfg.AdminIDs, err = parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}

	cfg.BookingWindowDays = defaultBookingWindowDays
	if raw := os.Getenv("BOOKING_WINDOW_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("BOOKING_WINDOW_DAYS must be a positive number, got %q", raw)
		}
		cfg.BookingWindowDays = days
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

// parseAdminIDs разбирает ADMIN_IDS: telegram id через запятую
func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS contains bad id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
