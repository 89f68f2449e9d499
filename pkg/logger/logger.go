package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init настраивает глобальный логгер клиента.
// LOG_LEVEL - уровень (debug, info, warn...), LOG_FORMAT=json - JSON вывод,
// LOG_FILE - путь к файлу (терминальный рендерер занимает stdout).
func Init() {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	Log.SetOutput(os.Stderr)
	if path := os.Getenv("LOG_FILE"); path != "" {
		if err := ToFile(path); err != nil {
			Log.WithError(err).Warn("failed to open log file, keeping stderr")
		}
	}
}

// ToFile перенаправляет вывод логгера в файл (append).
func ToFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	Log.SetOutput(f)
	return nil
}

// Discard глушит вывод (тесты, headless без логов).
func Discard() {
	if Log == nil {
		Init()
	}
	Log.SetOutput(io.Discard)
}
