package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

func LogLevel() logrus.Level {
	if Development() {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}
