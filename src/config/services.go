package config

import (
	"time"

	"gorm.io/gorm"
)

// LegislatureConfig holds the Discord legislature module configuration
type LegislatureConfig struct {
	Base
	VoteDuration      time.Duration
	CounterStart      int
	RestrictToMembers bool
	Enabled           bool
}

// LoadLegislatureConfig loads legislature configuration
func LoadLegislatureConfig(db *gorm.DB) LegislatureConfig {
	base := LoadBase(db)

	minutes := getIntSetting("vote_duration_minutes", "VOTE_DURATION_MINUTES", 0)
	if minutes < 0 {
		minutes = 0
	}

	return LegislatureConfig{
		Base:              base,
		VoteDuration:      time.Duration(minutes) * time.Minute,
		CounterStart:      getIntSetting("bill_counter_start", "BILL_COUNTER_START", 3),
		RestrictToMembers: getBoolSetting("restrict_ballots_to_members", "RESTRICT_BALLOTS_TO_MEMBERS", false),
		Enabled:           getBoolSetting("enable_legislature", "ENABLE_LEGISLATURE", true),
	}
}

// APIConfig holds HTTP API configuration
type APIConfig struct {
	Port           string
	JWTSecret      string
	AllowedOrigins []string
	RateLimit      int
	TLSCert        string
	TLSKey         string
	Enabled        bool
}

// LoadAPIConfig loads API configuration. Call after LoadBase so settings are cached.
func LoadAPIConfig(db *gorm.DB) APIConfig {
	origins := parseCSV(GetSetting("api_allowed_origins", "API_ALLOWED_ORIGINS", "http://localhost:3000"))

	return APIConfig{
		Port:           GetSetting("api_port", "API_PORT", "8080"),
		JWTSecret:      GetSetting("jwt_secret", "JWT_SECRET", ""),
		AllowedOrigins: origins,
		RateLimit:      getIntSetting("api_rate_limit", "API_RATE_LIMIT", 60),
		TLSCert:        GetSetting("api_tls_cert", "API_TLS_CERT", ""),
		TLSKey:         GetSetting("api_tls_key", "API_TLS_KEY", ""),
		Enabled:        getBoolSetting("enable_api", "ENABLE_API", false),
	}
}
