package configs

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

const serviceName = "classifieds_backend"

// global accessible logger
var (
	logger *logrus.Logger
	Log    *logrus.Entry
)

// Initialised here as well so packages used outside main (tests, seeds)
// never see a nil logger.
func init() {
	InitLogger()
}

func InitLogger() {
	logger = logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	Log = logger.WithFields(logrus.Fields{"service": serviceName})
}
