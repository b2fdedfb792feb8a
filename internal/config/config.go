// Package config manages application configuration loaded from a YAML file,
// BOT_* environment variables (optionally seeded from a .env file), and default values.
package config

import (
	"errors"
	"time"

	"github.com/go-telegram/bot/models"
)

// ErrValidation is returned when the loaded configuration fails validation.
var ErrValidation = errors.New("config validation error")

// Config holds the complete application configuration.
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Store     StoreConfig     `mapstructure:"store"`
	Content   ContentConfig   `mapstructure:"content"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// TelegramConfig holds the bot token and runtime bot identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is filled at startup from getMe and is never read from config.
	BotInfo *models.User `mapstructure:"-" validate:"-"`
}

// LoggerConfig controls log level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// StoreConfig points at the two snapshot files of the persistent store.
type StoreConfig struct {
	TodoPath  string `mapstructure:"todo_path"  validate:"required"`
	UsersPath string `mapstructure:"users_path" validate:"required"`
}

// ContentConfig holds the endpoints of the external content APIs.
type ContentConfig struct {
	CatURL        string        `mapstructure:"cat_url"        validate:"required,url"`
	DictionaryURL string        `mapstructure:"dictionary_url" validate:"required,url"`
	FactsURL      string        `mapstructure:"facts_url"      validate:"required,url"`
	WeatherURL    string        `mapstructure:"weather_url"    validate:"required,url"`
	Timeout       time.Duration `mapstructure:"timeout"        validate:"min=1s,max=5m"`

	// RetryAttempts is the total number of tries per request, including the first.
	RetryAttempts int `mapstructure:"retry_attempts" validate:"min=1,max=5"`
	// BreakerFailures consecutive transient failures open an API's circuit breaker.
	BreakerFailures int `mapstructure:"breaker_failures" validate:"min=1"`
	// BreakerTimeout is how long an open breaker rejects requests.
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout" validate:"min=1s"`
}

// SchedulerConfig configures the daily morning broadcast and cron tasks.
type SchedulerConfig struct {
	// MorningTime is the local wall-clock time (HH:MM:SS) of the daily broadcast.
	MorningTime string `mapstructure:"morning_time" validate:"required,clocktime"`
	// Location is an IANA zone name; empty means the process local zone.
	Location string `mapstructure:"location" validate:"omitempty,timezone"`
	// BroadcastConcurrency limits parallel sends during a broadcast.
	BroadcastConcurrency int `mapstructure:"broadcast_concurrency" validate:"min=1,max=30"`

	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig enables a registered cron task and sets its schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MessagesConfig holds user facing texts. Fields suffixed with Fmt are fmt format strings.
type MessagesConfig struct {
	Started       string `mapstructure:"started"        validate:"required"`
	ShuttingDown  string `mapstructure:"shutting_down"  validate:"required"`
	GreetingFmt   string `mapstructure:"greeting"       validate:"required"`
	MorningFmt    string `mapstructure:"morning"        validate:"required"`
	HelpFmt       string `mapstructure:"help"           validate:"required"`
	CatFailed     string `mapstructure:"cat_failed"     validate:"required"`
	DefineUsage   string `mapstructure:"define_usage"   validate:"required"`
	DefineFailed  string `mapstructure:"define_failed"  validate:"required"`
	UselessFailed string `mapstructure:"useless_failed" validate:"required"`
	RawUsage      string `mapstructure:"raw_usage"      validate:"required"`
	WeatherFailed string `mapstructure:"weather_failed" validate:"required"`
	CoinFmt       string `mapstructure:"coin"           validate:"required"`
	TodoUsage     string `mapstructure:"todo_usage"     validate:"required"`
	TodoAddedFmt  string `mapstructure:"todo_added"     validate:"required"`
	ListHeader    string `mapstructure:"list_header"    validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
}
