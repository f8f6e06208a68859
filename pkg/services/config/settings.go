package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "DRCHECK"

const (
	DefaultRPOMinutes                 = 60
	DefaultReplicaLagThresholdSeconds = 60
	DefaultOutput                     = "text"
	DefaultLogLevel                   = "info"
	DefaultAddr                       = ":8080"
)

// Settings configure a readiness run. Values come from, in increasing
// precedence, defaults, the config file, DRCHECK_* variables and flags.
type Settings struct {
	Profile                    string `mapstructure:"profile"`
	PrimaryRegion              string `mapstructure:"primary_region"`
	DRRegion                   string `mapstructure:"dr_region" validate:"required"`
	RPOMinutes                 int    `mapstructure:"rpo_minutes" validate:"gt=0"`
	ReplicaLagThresholdSeconds int    `mapstructure:"replica_lag_threshold_seconds" validate:"gt=0"`
	AlarmNamePrefix            string `mapstructure:"alarm_name_prefix"`
	Output                     string `mapstructure:"output" validate:"oneof=text json yaml"`
	Concurrent                 bool   `mapstructure:"concurrent"`
	HistoryDSN                 string `mapstructure:"history_dsn"`
	SNSTopicARN                string `mapstructure:"sns_topic_arn" validate:"omitempty,startswith=arn:"`
	LogLevel                   string `mapstructure:"log_level" validate:"oneof=trace debug info warn error"`
	Addr                       string `mapstructure:"addr"`
	// Interval between scheduled runs of the web server. Zero disables them.
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// NewViper returns a viper instance with defaults and environment binding in
// place. Callers bind their flags before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpo_minutes", DefaultRPOMinutes)
	v.SetDefault("replica_lag_threshold_seconds", DefaultReplicaLagThresholdSeconds)
	v.SetDefault("alarm_name_prefix", "")
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("addr", DefaultAddr)

	// AutomaticEnv alone does not make keys visible to Unmarshal
	for _, key := range []string{
		"profile", "primary_region", "dr_region", "concurrent",
		"history_dsn", "sns_topic_arn", "interval",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the optional config file at path and returns validated settings.
func Load(v *viper.Viper, path string) (*Settings, error) {
	settings, err := Decode(v, path)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Decode is Load without validation, for commands that need only some keys.
func Decode(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	err := validator.New().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed on '%s'", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(msgs, "; "))
}
