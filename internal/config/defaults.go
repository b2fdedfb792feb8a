package config

import "time"

// Default values for configuration.
const (
	DefaultLogLevel = "info"

	DefaultTodoPath  = "todo.json"
	DefaultUsersPath = "users.txt"

	DefaultCatURL         = "https://api.thecatapi.com/v1/images/search"
	DefaultDictionaryURL  = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultFactsURL       = "https://uselessfacts.jsph.pl/random.json?language=en"
	DefaultWeatherURL     = "https://wttr.in/Hyderabad?format=%l:+%c+%t+%p+%m"
	DefaultContentTimeout = 15 * time.Second

	DefaultRetryAttempts   = 2
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 60 * time.Second

	DefaultMorningTime          = "08:00:00"
	DefaultBroadcastConcurrency = 5

	// SnapshotTaskName is the cron task that flushes the store between restarts.
	SnapshotTaskName        = "store_snapshot"
	DefaultSnapshotSchedule = "0 */30 * * * *"
)

// DefaultMessages are the texts used when config.yaml does not override them.
var DefaultMessages = MessagesConfig{
	Started:       "Bot started successfully. Use /help to see available commands.",
	ShuttingDown:  "The bot is shutting down.",
	GreetingFmt:   "Hi %s!",
	MorningFmt:    "Good Morning!\n\nToday's weather in %s",
	HelpFmt:       "Hi %s !\n\nThis Bot was made by <b>Herr Das</b>\n\n%s",
	CatFailed:     "Failed to fetch cat image.",
	DefineUsage:   "Usage: /define <word>",
	DefineFailed:  "Failed to fetch the definition.",
	UselessFailed: "Failed to fetch a useless fact.",
	RawUsage:      "Usage: /raw <github file url>",
	WeatherFailed: "Failed to fetch the weather.",
	CoinFmt:       "🪙 %s",
	TodoUsage:     "Usage: /todo <task>",
	TodoAddedFmt:  "Added <u>%s</u> to todo list",
	ListHeader:    "<u>Todo list:</u>\n",
	GeneralError:  "❌ An error occurred. Please try again later.",
}

func defaults() map[string]any {
	return map[string]any{
		"telegram.token": "",

		"logger.level": DefaultLogLevel,
		"logger.json":  false,

		"store.todo_path":  DefaultTodoPath,
		"store.users_path": DefaultUsersPath,

		"content.cat_url":        DefaultCatURL,
		"content.dictionary_url": DefaultDictionaryURL,
		"content.facts_url":      DefaultFactsURL,
		"content.weather_url":    DefaultWeatherURL,
		"content.timeout":        DefaultContentTimeout,

		"content.retry_attempts":   DefaultRetryAttempts,
		"content.breaker_failures": DefaultBreakerFailures,
		"content.breaker_timeout":  DefaultBreakerTimeout,

		"scheduler.morning_time":          DefaultMorningTime,
		"scheduler.location":              "",
		"scheduler.broadcast_concurrency": DefaultBroadcastConcurrency,

		"scheduler.tasks." + SnapshotTaskName + ".enabled":  false,
		"scheduler.tasks." + SnapshotTaskName + ".schedule": DefaultSnapshotSchedule,

		"messages.started":        DefaultMessages.Started,
		"messages.shutting_down":  DefaultMessages.ShuttingDown,
		"messages.greeting":       DefaultMessages.GreetingFmt,
		"messages.morning":        DefaultMessages.MorningFmt,
		"messages.help":           DefaultMessages.HelpFmt,
		"messages.cat_failed":     DefaultMessages.CatFailed,
		"messages.define_usage":   DefaultMessages.DefineUsage,
		"messages.define_failed":  DefaultMessages.DefineFailed,
		"messages.useless_failed": DefaultMessages.UselessFailed,
		"messages.raw_usage":      DefaultMessages.RawUsage,
		"messages.weather_failed": DefaultMessages.WeatherFailed,
		"messages.coin":           DefaultMessages.CoinFmt,
		"messages.todo_usage":     DefaultMessages.TodoUsage,
		"messages.todo_added":     DefaultMessages.TodoAddedFmt,
		"messages.list_header":    DefaultMessages.ListHeader,
		"messages.general_error":  DefaultMessages.GeneralError,
	}
}
