// Package logger configures the operator-visible log. The TUI owns the
// terminal, so everything goes to a rotated file.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger writing JSON lines to path with rotation. The
// level comes from levelStr, falling back to the LOG_LEVEL environment
// variable and then to info.
func New(path, levelStr string) *logrus.Logger {
	log := logrus.New()

	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	})

	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	if levelStr == "" {
		levelStr = os.Getenv("LOG_LEVEL")
	}
	if lvl, err := logrus.ParseLevel(strings.ToLower(levelStr)); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
