package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123:abc")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
	if cfg.Store.TodoPath != DefaultTodoPath || cfg.Store.UsersPath != DefaultUsersPath {
		t.Errorf("Store = %+v, want default paths", cfg.Store)
	}
	if cfg.Scheduler.MorningTime != DefaultMorningTime {
		t.Errorf("MorningTime = %q, want %q", cfg.Scheduler.MorningTime, DefaultMorningTime)
	}
	if cfg.Content.Timeout != DefaultContentTimeout {
		t.Errorf("Content.Timeout = %v, want %v", cfg.Content.Timeout, DefaultContentTimeout)
	}
	if cfg.Content.RetryAttempts != DefaultRetryAttempts || cfg.Content.BreakerTimeout != DefaultBreakerTimeout {
		t.Errorf("Content retry settings = %d/%v, want defaults", cfg.Content.RetryAttempts, cfg.Content.BreakerTimeout)
	}
	if cfg.Content.WeatherURL != DefaultWeatherURL {
		t.Errorf("WeatherURL = %q, want %q", cfg.Content.WeatherURL, DefaultWeatherURL)
	}
	if cfg.Messages != DefaultMessages {
		t.Errorf("Messages = %+v, want defaults", cfg.Messages)
	}

	task, ok := cfg.Scheduler.Tasks[SnapshotTaskName]
	if !ok {
		t.Fatalf("Tasks missing %q: %+v", SnapshotTaskName, cfg.Scheduler.Tasks)
	}
	if task.Enabled || task.Schedule != DefaultSnapshotSchedule {
		t.Errorf("snapshot task = %+v, want disabled with default schedule", task)
	}
}

func TestLoadConfigFileOverrides(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123:abc")

	path := writeConfig(t, `
logger:
  level: debug
  json: true
store:
  todo_path: /var/lib/bot/todo.json
content:
  timeout: 3s
scheduler:
  morning_time: "07:30:00"
  tasks:
    store_snapshot:
      enabled: true
      schedule: "0 0 * * * *"
messages:
  started: "hello"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Logger.Level != "debug" || !cfg.Logger.JSON {
		t.Errorf("Logger = %+v, want debug/json", cfg.Logger)
	}
	if cfg.Store.TodoPath != "/var/lib/bot/todo.json" {
		t.Errorf("TodoPath = %q", cfg.Store.TodoPath)
	}
	if cfg.Store.UsersPath != DefaultUsersPath {
		t.Errorf("UsersPath = %q, want default", cfg.Store.UsersPath)
	}
	if cfg.Content.Timeout != 3*time.Second {
		t.Errorf("Content.Timeout = %v, want 3s", cfg.Content.Timeout)
	}
	if cfg.Scheduler.MorningTime != "07:30:00" {
		t.Errorf("MorningTime = %q", cfg.Scheduler.MorningTime)
	}
	if task := cfg.Scheduler.Tasks[SnapshotTaskName]; !task.Enabled || task.Schedule != "0 0 * * * *" {
		t.Errorf("snapshot task = %+v", task)
	}
	if cfg.Messages.Started != "hello" {
		t.Errorf("Messages.Started = %q", cfg.Messages.Started)
	}
	if cfg.Messages.ShuttingDown != DefaultMessages.ShuttingDown {
		t.Errorf("Messages.ShuttingDown = %q, want default", cfg.Messages.ShuttingDown)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "from-env")
	t.Setenv("BOT_LOGGER_LEVEL", "warn")

	path := writeConfig(t, `
telegram:
  token: from-file
logger:
  level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Token = %q, want from-env", cfg.Telegram.Token)
	}
	if cfg.Logger.Level != "warn" {
		t.Errorf("Level = %q, want warn", cfg.Logger.Level)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		content string
	}{
		{
			name:    "missing token",
			content: "logger:\n  level: info\n",
		},
		{
			name:    "bad log level",
			token:   "123:abc",
			content: "logger:\n  level: loud\n",
		},
		{
			name:    "bad morning time",
			token:   "123:abc",
			content: "scheduler:\n  morning_time: \"8am\"\n",
		},
		{
			name:    "bad location",
			token:   "123:abc",
			content: "scheduler:\n  location: Mars/Olympus\n",
		},
		{
			name:    "enabled task without schedule",
			token:   "123:abc",
			content: "scheduler:\n  tasks:\n    store_snapshot:\n      enabled: true\n      schedule: \"\"\n",
		},
		{
			name:    "too many retries",
			token:   "123:abc",
			content: "content:\n  retry_attempts: 9\n",
		},
		{
			name:    "bad content url",
			token:   "123:abc",
			content: "content:\n  cat_url: not-a-url\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOT_TELEGRAM_TOKEN", tt.token)
			t.Setenv("TELEGRAM_BOT_TOKEN", "")

			_, err := LoadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("LoadConfig() error = %v, want ErrValidation", err)
			}
		})
	}
}
