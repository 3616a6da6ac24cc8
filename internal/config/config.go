package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// AMQP. Empty URL disables change events; the app runs local-only.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Spreadsheet mirror. "google" requires GOOGLE_SPREADSHEET_ID plus
	// service account credentials; "memory" keeps rows in-process.
	SheetBackend        string
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Tax settings
	SocialSecurityMonthly float64
	IRPFRatePct           float64

	// Business identity printed on invoices
	BusinessName    string
	BusinessNIF     string
	BusinessAddress string
	BusinessEmail   string
	BusinessPhone   string
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8081"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/clases.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "clases"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changes"),

		SheetBackend:        getEnv("SHEET_BACKEND", "memory"),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Ledger"),

		SocialSecurityMonthly: getEnvFloat("SOCIAL_SECURITY_MONTHLY", 230),
		IRPFRatePct:           getEnvFloat("IRPF_RATE_PCT", 15),

		BusinessName:    getEnv("BUSINESS_NAME", ""),
		BusinessNIF:     getEnv("BUSINESS_NIF", ""),
		BusinessAddress: getEnv("BUSINESS_ADDRESS", ""),
		BusinessEmail:   getEnv("BUSINESS_EMAIL", ""),
		BusinessPhone:   getEnv("BUSINESS_PHONE", ""),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.SheetBackend {
	case "memory":
	case "google":
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using the google sheet backend")
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid sheet backend '%s': must be one of [memory google]", c.SheetBackend))
	}

	if c.SocialSecurityMonthly < 0 {
		errors = append(errors, fmt.Sprintf("invalid monthly social security %v: cannot be negative", c.SocialSecurityMonthly))
	}
	if c.IRPFRatePct < 0 || c.IRPFRatePct > 100 {
		errors = append(errors, fmt.Sprintf("invalid IRPF rate %v: must be between 0 and 100", c.IRPFRatePct))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
