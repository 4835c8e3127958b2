package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port         int    `mapstructure:"port"`
	DatabasePath string `mapstructure:"database_path"`
	LogLevel     string `mapstructure:"log_level"`

	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Log-store reference the audit queries run against.
	AuditGlueDatabase string `mapstructure:"audit_glue_database"`
	AuditGlueTable    string `mapstructure:"audit_glue_table"`
	AthenaWorkgroup   string `mapstructure:"athena_workgroup"`

	// SourceIPMaskBits is the subnet prefix applied to the caller address for
	// case, data vault, user and system scope downloads. File scopes always
	// pin to a single address (/32).
	SourceIPMaskBits   int  `mapstructure:"source_ip_mask_bits"`
	SourceIPValidation bool `mapstructure:"source_ip_validation"`

	// AuditEventLogPath is where the writer appends audit event lines.
	AuditEventLogPath string `mapstructure:"audit_event_log_path"`
	// MaskFields overrides the default sensitive-field mask list when set.
	MaskFields []string `mapstructure:"mask_fields"`

	ShutdownTimeoutSec int `mapstructure:"shutdown_timeout_sec"`
	RequestTimeoutSec  int `mapstructure:"request_timeout_sec"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/evidentia/")
	viper.AddConfigPath("$HOME/.evidentia")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 8080)
	viper.SetDefault("database_path", "./evidentia.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("audit_glue_database", "evidentia_audit")
	viper.SetDefault("audit_glue_table", "audit_events")
	viper.SetDefault("athena_workgroup", "evidentia")
	viper.SetDefault("source_ip_mask_bits", 32)
	viper.SetDefault("source_ip_validation", true)
	viper.SetDefault("audit_event_log_path", "./audit-events.log")
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("request_timeout_sec", 30)

	// Environment variables
	viper.SetEnvPrefix("EVIDENTIA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file is fine; defaults and env apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.SourceIPMaskBits < 0 || cfg.SourceIPMaskBits > 32 {
		return nil, fmt.Errorf("source_ip_mask_bits must be within 0..32, got %d", cfg.SourceIPMaskBits)
	}

	return &cfg, nil
}
