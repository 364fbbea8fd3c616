package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// Get returns the process-wide structured logger.
func Get() *logrus.Logger {
	return logg
}

// SetLevel switches the logger level; unknown names keep the current level.
func SetLevel(name string) {
	if name == "" {
		return
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		logg.WithField("level", name).Warn("unknown log level, keeping default")
		return
	}
	logg.SetLevel(level)
}

// LogError writes a failed call with the module and function it happened in.
func LogError(moduleName, funcName, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logg.WithFields(fields).Error(err.Error())
}
