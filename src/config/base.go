package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/stake-plus/congressrp/src/data"
	"gorm.io/gorm"
)

// Bootstrap holds what the process needs before it can reach the settings table.
type Bootstrap struct {
	DBDriver     string `env:"DB_DRIVER"     envDefault:"mysql"`
	MySQLDSN     string `env:"MYSQL_DSN"`
	SQLitePath   string `env:"SQLITE_PATH"   envDefault:"congress.db"`
	RedisURL     string `env:"REDIS_URL"`
	ChambersFile string `env:"CHAMBERS_FILE" envDefault:"config/chambers.yaml"`
	// Ephemeral keeps bills in memory only. Settings still come from the database.
	Ephemeral bool `env:"EPHEMERAL"`
}

// DSN returns the connection string for the configured driver.
func (b Bootstrap) DSN() string {
	if strings.EqualFold(b.DBDriver, data.DriverSQLite) {
		return b.SQLitePath
	}
	return b.MySQLDSN
}

// LoadBootstrap parses the bootstrap environment.
func LoadBootstrap() (Bootstrap, error) {
	var cfg Bootstrap
	if err := env.Parse(&cfg); err != nil {
		return Bootstrap{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Base contains common configuration fields
type Base struct {
	Token   string
	GuildID string
}

// LoadBase loads common configuration (discord token, guild ID)
func LoadBase(db *gorm.DB) Base {
	if err := data.LoadSettings(db); err != nil {
		log.Printf("config: settings unavailable, using env fallbacks: %v", err)
	}

	return Base{
		Token:   GetSetting("discord_token", "DISCORD_TOKEN", ""),
		GuildID: GetSetting("guild_id", "GUILD_ID", ""),
	}
}

// GetSetting retrieves a setting with env fallback
func GetSetting(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" && envKey != "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func getBoolSetting(name, envKey string, defaultValue bool) bool {
	raw := strings.ToLower(strings.TrimSpace(GetSetting(name, envKey, "")))
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getIntSetting(name, envKey string, defaultValue int) int {
	raw := strings.TrimSpace(GetSetting(name, envKey, ""))
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s=%q is not a number, using %d", name, raw, defaultValue)
		return defaultValue
	}
	return n
}

func parseCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
