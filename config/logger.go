package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// InitLogger builds the JSON logger every component logs through. An
// unparsable level falls back to info.
func InitLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if err != nil && level != "" {
		log.WithField("log_level", level).Warn("Unable to parse log level, using info")
	}
	return log
}
