package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	MongoURI string
	MongoDB  string

	KafkaBrokers []string
	NotifyTopic  string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	EmailFrom    string
	EmailEnabled bool

	// Cron specs for the scheduling driver. Deployment config, not logic.
	CronAMCReminder  string
	CronPenaltySweep string
	CronStopBookings string
	CronKYCReminder  string
}

// Load parses configuration from the current environment.
func Load() (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "fractioncar"),
		NotifyTopic:      getEnv("NOTIFY_TOPIC", "fractioncar.notifications"),
		SMTPHost:         getEnv("SMTP_HOST", "localhost"),
		SMTPUser:         os.Getenv("SMTP_USER"),
		SMTPPass:         os.Getenv("SMTP_PASS"),
		EmailFrom:        getEnv("EMAIL_FROM", "no-reply@fractioncar.local"),
		CronAMCReminder:  getEnv("CRON_AMC_REMINDER", "0 9 * * *"),
		CronPenaltySweep: getEnv("CRON_PENALTY_SWEEP", "30 0 * * *"),
		CronStopBookings: getEnv("CRON_STOP_BOOKINGS", "*/30 * * * *"),
		CronKYCReminder:  getEnv("CRON_KYC_REMINDER", "0 10 * * *"),
	}
	brokers := getEnv("KAFKA_BROKERS", "")
	if brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	port, err := parseIntEnv("SMTP_PORT", 587)
	if err != nil {
		return Config{}, err
	}
	cfg.SMTPPort = port
	enabled, err := parseBoolEnv("EMAIL_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	cfg.EmailEnabled = enabled

	if cfg.MongoURI == "" {
		return Config{}, fmt.Errorf("MONGO_URI is required")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %q", key, raw)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
