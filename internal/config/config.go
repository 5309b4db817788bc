package config

import (
	"github.com/care-io/service-booking/internal/domain/booking"
	"github.com/care-io/service-booking/pkg/config"
)

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port          string
	AppEnv        string
	DBConfig      config.DatabaseConfig
	JWTConfig     config.JWTConfig
	KafkaConfig   config.KafkaConfig
	SMTPConfig    config.SMTPConfig
	GoogleConfig  config.GoogleOAuthConfig
	Policy        booking.Policy
	CORSOrigins   []string
	AdminEmails   []string
	MigrationsDir string
}

// Load reads configuration from environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("BOOKING")
	if err != nil {
		return nil, err
	}

	v.SetDefault("DB_NAME", "care_booking")
	v.SetDefault("MAX_DURATION", booking.DefaultMaxDuration)
	v.SetDefault("HOURS_PER_DAY", booking.DefaultHoursPerDay)
	v.SetDefault("MIGRATIONS_DIR", "migrations")

	return &ServiceConfig{
		Port:         config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:       config.GetAppEnv(v),
		DBConfig:     config.LoadDatabaseConfig(v, "DB_NAME"),
		JWTConfig:    config.LoadJWTConfig(v),
		KafkaConfig:  config.LoadKafkaConfig(v),
		SMTPConfig:   config.LoadSMTPConfig(v),
		GoogleConfig: config.LoadGoogleOAuthConfig(v),
		Policy: booking.Policy{
			MaxDuration: v.GetInt("MAX_DURATION"),
			HoursPerDay: v.GetInt("HOURS_PER_DAY"),
		},
		CORSOrigins:   config.SplitList(v.GetString("CORS_ORIGINS")),
		AdminEmails:   config.SplitList(v.GetString("ADMIN_EMAILS")),
		MigrationsDir: v.GetString("MIGRATIONS_DIR"),
	}, nil
}
